package repository

import (
	"context"

	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// StockRepository puerto para consultar y actualizar el stock por ítem.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Get devuelve (nil, nil) si el ítem no tiene fila de stock.
	Get(ctx context.Context, itemID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE). (nil, nil) si no existe.
	GetForUpdate(ctx context.Context, itemID string) (*entity.Stock, error)
	// Ensure crea la fila en 0 si no existe; no modifica una fila existente.
	Ensure(ctx context.Context, itemID string) error
	Upsert(ctx context.Context, stock *entity.Stock) error
	List(ctx context.Context, limit, offset int) ([]*entity.Stock, error)
	Count(ctx context.Context) (int, error)
}
