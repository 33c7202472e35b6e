package repository

import (
	"context"

	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// RequirementRepository puerto de persistencia de requerimientos de proyecto.
type RequirementRepository interface {
	Create(ctx context.Context, req *entity.Requirement) error
	// GetByID carga el requerimiento con sus líneas. (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Requirement, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera.
	GetForUpdate(ctx context.Context, id string) (*entity.Requirement, error)
	// UpdateProgress persiste estado, completed_at y quantity_issued de cada línea.
	UpdateProgress(ctx context.Context, req *entity.Requirement) error
	// MarkOrdered marca ordered=true en las líneas abiertas no ordenadas del ítem.
	MarkOrdered(ctx context.Context, itemID string) (int, error)
	// ListOpenLines líneas con saldo pendiente (cualquier estado del requerimiento).
	ListOpenLines(ctx context.Context) ([]entity.OpenRequirementLine, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Requirement, error)
	CountByStatus(ctx context.Context, status entity.RequirementStatus) (int, error)
}
