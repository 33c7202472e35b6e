package entity

import "time"

// RequirementStatus estado de un requerimiento de proyecto.
type RequirementStatus string

const (
	RequirementActive    RequirementStatus = "Active"
	RequirementCompleted RequirementStatus = "Completed"
)

// Valid indica si s es uno de los estados conocidos.
func (s RequirementStatus) Valid() bool {
	switch s {
	case RequirementActive, RequirementCompleted:
		return true
	}
	return false
}

// Requirement lista de materiales que consume un proyecto.
type Requirement struct {
	ID          string
	ProjectName string
	Description string
	Status      RequirementStatus
	CreatedAt   time.Time
	CompletedAt *time.Time
	Lines       []RequirementLine
}

// RequirementLine línea del requerimiento. QuantityIssued ∈ [0, QuantityNeeded].
// Ordered se marca cuando una orden de compra cubre el ítem.
type RequirementLine struct {
	ID             string
	RequirementID  string
	ItemID         string
	QuantityNeeded int
	QuantityIssued int
	Ordered        bool
}

// Outstanding cantidad pendiente por entregar.
func (l RequirementLine) Outstanding() int {
	return l.QuantityNeeded - l.QuantityIssued
}

// AllIssued indica si todas las líneas fueron entregadas por completo.
func (r *Requirement) AllIssued() bool {
	for _, l := range r.Lines {
		if l.QuantityIssued < l.QuantityNeeded {
			return false
		}
	}
	return true
}

// OpenRequirementLine línea con saldo pendiente, usada para calcular faltantes.
type OpenRequirementLine struct {
	RequirementID string
	ProjectName   string
	ItemID        string
	Outstanding   int
	Ordered       bool
}
