package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-taller/internal/domain"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// Recorder agrega filas al libro de movimientos. Nunca actualiza ni borra.
type Recorder struct {
	now Clock
}

// NewRecorder construye el registrador del libro.
func NewRecorder(now Clock) *Recorder {
	return &Recorder{now: now}
}

// Reference vínculo opcional de un movimiento con su documento de origen.
type Reference struct {
	PurchaseOrderID string
	RequirementID   string
}

// Record inserta un movimiento con cantidad positiva.
func (r *Recorder) Record(
	ctx context.Context,
	repos Repos,
	itemID string,
	action entity.TransactionAction,
	qty int,
	ref Reference,
) (*entity.Transaction, error) {
	if qty <= 0 || action.Sign() == 0 {
		return nil, domain.ErrInvalidInput
	}
	tx := &entity.Transaction{
		ID:        uuid.New().String(),
		ItemID:    itemID,
		Action:    action,
		Quantity:  qty,
		CreatedAt: r.now(),
	}
	if ref.PurchaseOrderID != "" {
		id := ref.PurchaseOrderID
		tx.PurchaseOrderID = &id
	}
	if ref.RequirementID != "" {
		id := ref.RequirementID
		tx.RequirementID = &id
	}
	if err := repos.Transactions.Create(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}
