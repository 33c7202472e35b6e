package repository

import (
	"context"

	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// TransactionRepository libro de movimientos: solo inserta y consulta.
type TransactionRepository interface {
	Create(ctx context.Context, tx *entity.Transaction) error
	// List más recientes primero.
	List(ctx context.Context, limit, offset int) ([]*entity.Transaction, error)
	ListByItem(ctx context.Context, itemID string) ([]*entity.Transaction, error)
}
