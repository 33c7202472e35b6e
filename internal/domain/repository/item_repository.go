package repository

import (
	"context"

	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// ItemRepository puerto de persistencia del catálogo de ítems.
// Las lecturas devuelven (nil, nil) cuando el ítem no existe.
type ItemRepository interface {
	// Create devuelve domain.ErrDuplicateCode si Code ya existe.
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	GetByCode(ctx context.Context, code string) (*entity.Item, error)
	// Update devuelve domain.ErrDuplicateCode si el nuevo Code choca con otro ítem.
	Update(ctx context.Context, item *entity.Item) error
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
}
