package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// User usuario del sistema.
type User struct {
	ID           string
	Username     string
	PasswordHash string // bcrypt
	Role         string // admin, employee
	CreatedAt    time.Time
}
