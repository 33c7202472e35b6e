package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-taller/internal/domain"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
	"github.com/jhoicas/inventario-taller/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene el stock actual de un ítem.
func (r *StockRepo) Get(ctx context.Context, itemID string) (*entity.Stock, error) {
	return r.get(ctx, `SELECT item_id, current_quantity, last_updated FROM stock WHERE item_id = $1`, itemID)
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, itemID string) (*entity.Stock, error) {
	return r.get(ctx, `SELECT item_id, current_quantity, last_updated FROM stock WHERE item_id = $1 FOR UPDATE`, itemID)
}

func (r *StockRepo) get(ctx context.Context, query, itemID string) (*entity.Stock, error) {
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, itemID).Scan(&s.ItemID, &s.CurrentQuantity, &s.LastUpdated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// Ensure crea la fila en 0 si no existe.
func (r *StockRepo) Ensure(ctx context.Context, itemID string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO stock (item_id, current_quantity, last_updated)
		VALUES ($1, 0, now())
		ON CONFLICT (item_id) DO NOTHING`, itemID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("ensure stock: %w", err)
	}
	return nil
}

// Upsert inserta o actualiza la cantidad en stock.
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO stock (item_id, current_quantity, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (item_id)
		DO UPDATE SET current_quantity = EXCLUDED.current_quantity, last_updated = EXCLUDED.last_updated`
	_, err := r.q.Exec(ctx, query, stock.ItemID, stock.CurrentQuantity, stock.LastUpdated)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// List filas de stock ordenadas por item_id.
func (r *StockRepo) List(ctx context.Context, limit, offset int) ([]*entity.Stock, error) {
	rows, err := r.q.Query(ctx, `
		SELECT item_id, current_quantity, last_updated
		FROM stock ORDER BY item_id LIMIT $1 OFFSET $2`, nullLimit(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	list := make([]*entity.Stock, 0)
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.ItemID, &s.CurrentQuantity, &s.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// Count total de filas de stock.
func (r *StockRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM stock`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count stock: %w", err)
	}
	return n, nil
}

// nullLimit LIMIT NULL equivale a sin límite.
func nullLimit(limit int) *int {
	if limit <= 0 {
		return nil
	}
	return &limit
}
