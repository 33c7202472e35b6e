package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-taller/internal/domain/entity"
	"github.com/jhoicas/inventario-taller/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

const transactionColumns = `id, item_id, action, quantity, purchase_order_id, requirement_id, created_at`

// TransactionRepo libro de movimientos sobre PostgreSQL. No expone UPDATE ni DELETE.
type TransactionRepo struct {
	q Querier
}

// NewTransactionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier) *TransactionRepo {
	return &TransactionRepo{q: q}
}

// Create registra un movimiento.
func (r *TransactionRepo) Create(ctx context.Context, t *entity.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		t.ID, t.ItemID, string(t.Action), t.Quantity, t.PurchaseOrderID, t.RequirementID, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// List movimientos más recientes primero. seq desempata movimientos del mismo instante.
func (r *TransactionRepo) List(ctx context.Context, limit, offset int) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY created_at DESC, seq DESC LIMIT $1 OFFSET $2`
	rows, err := r.q.Query(ctx, query, nullLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return collectTransactions(rows)
}

// ListByItem historial de un ítem, más reciente primero.
func (r *TransactionRepo) ListByItem(ctx context.Context, itemID string) ([]*entity.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE item_id = $1 ORDER BY created_at DESC, seq DESC`
	rows, err := r.q.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by item: %w", err)
	}
	return collectTransactions(rows)
}

func collectTransactions(rows pgx.Rows) ([]*entity.Transaction, error) {
	defer rows.Close()
	list := make([]*entity.Transaction, 0)
	for rows.Next() {
		var (
			t      entity.Transaction
			action string
		)
		if err := rows.Scan(&t.ID, &t.ItemID, &action, &t.Quantity, &t.PurchaseOrderID, &t.RequirementID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		t.Action = entity.TransactionAction(action)
		if !t.Action.Valid() {
			return nil, fmt.Errorf("transaction %s: acción desconocida %q", t.ID, action)
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
