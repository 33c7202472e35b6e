package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Item representa una pieza o material del taller.
// Code es único en todo el catálogo; el stock vive en Stock (1:1).
type Item struct {
	ID           string
	Code         string
	Name         string
	Description  string
	Make         string
	ModelNumber  string
	UnitPrice    decimal.Decimal
	MinimumStock int
	CreatedAt    time.Time
}
