package dto

import (
	"time"

	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// RequirementLineRequest línea de un requerimiento nuevo.
type RequirementLineRequest struct {
	ItemID         string `json:"item_id" validate:"required"`
	QuantityNeeded int    `json:"quantity_needed" validate:"gt=0"`
}

// CreateRequirementRequest entrada para crear un requerimiento.
type CreateRequirementRequest struct {
	ProjectName string                   `json:"project_name" validate:"required"`
	Description string                   `json:"description"`
	Items       []RequirementLineRequest `json:"items" validate:"required,min=1"`
}

// UpdateRequirementStatusRequest cambio administrativo de estado.
type UpdateRequirementStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=Active Completed"`
}

// RequirementLineResponse línea de un requerimiento.
type RequirementLineResponse struct {
	ID             string `json:"id"`
	ItemID         string `json:"item_id"`
	QuantityNeeded int    `json:"quantity_needed"`
	QuantityIssued int    `json:"quantity_issued"`
	Ordered        bool   `json:"ordered"`
}

// RequirementResponse salida de un requerimiento.
type RequirementResponse struct {
	ID          string                    `json:"id"`
	ProjectName string                    `json:"project_name"`
	Description string                    `json:"description"`
	Status      string                    `json:"status"`
	CreatedAt   time.Time                 `json:"created_at"`
	CompletedAt *time.Time                `json:"completed_at,omitempty"`
	Items       []RequirementLineResponse `json:"items"`
}

// NewRequirementResponse mapea un requerimiento.
func NewRequirementResponse(r *entity.Requirement) RequirementResponse {
	lines := make([]RequirementLineResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, RequirementLineResponse{
			ID:             l.ID,
			ItemID:         l.ItemID,
			QuantityNeeded: l.QuantityNeeded,
			QuantityIssued: l.QuantityIssued,
			Ordered:        l.Ordered,
		})
	}
	return RequirementResponse{
		ID:          r.ID,
		ProjectName: r.ProjectName,
		Description: r.Description,
		Status:      string(r.Status),
		CreatedAt:   r.CreatedAt,
		CompletedAt: r.CompletedAt,
		Items:       lines,
	}
}

// NewRequirementListResponse mapea una lista de requerimientos.
func NewRequirementListResponse(list []*entity.Requirement) []RequirementResponse {
	out := make([]RequirementResponse, 0, len(list))
	for _, r := range list {
		out = append(out, NewRequirementResponse(r))
	}
	return out
}
