package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventario-taller/internal/application/inventory"
)

var _ inventory.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. La consistencia del stock se obtiene con SELECT ... FOR UPDATE.
func (r *TxRunner) Run(ctx context.Context, fn func(repos inventory.Repos) error) error {
	return r.run(ctx, pgx.TxOptions{}, fn)
}

// RunReadOnly transacción REPEATABLE READ de solo lectura: todas las lecturas ven la
// misma foto.
func (r *TxRunner) RunReadOnly(ctx context.Context, fn func(repos inventory.Repos) error) error {
	return r.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (r *TxRunner) run(ctx context.Context, opts pgx.TxOptions, fn func(repos inventory.Repos) error) error {
	tx, err := r.pool.BeginTx(ctx, opts)
	if err != nil {
		return classify(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(reposFor(tx)); err != nil {
		return classify(err)
	}
	if err := tx.Commit(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return err
		}
		return classify(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

func reposFor(q Querier) inventory.Repos {
	return inventory.Repos{
		Items:          NewItemRepository(q),
		Stock:          NewStockRepository(q),
		PurchaseOrders: NewPurchaseOrderRepository(q),
		Requirements:   NewRequirementRepository(q),
		Transactions:   NewTransactionRepository(q),
	}
}
