package inventory

import (
	"context"
	"math"
	"slices"

	"github.com/jhoicas/inventario-taller/internal/domain"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// maxStockQuantity tope de stock.current_quantity (columna INTEGER).
const maxStockQuantity = math.MaxInt32

// StockTracker es el único componente que escribe stock.current_quantity.
// Siempre opera sobre la unidad de trabajo del llamador.
type StockTracker struct {
	now Clock
}

// NewStockTracker construye el tracker.
func NewStockTracker(now Clock) *StockTracker {
	return &StockTracker{now: now}
}

// Increase suma qty al stock del ítem; crea la fila si no existe.
func (t *StockTracker) Increase(ctx context.Context, repos Repos, itemID string, qty int) (*entity.Stock, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	if err := repos.Stock.Ensure(ctx, itemID); err != nil {
		return nil, err
	}
	stock, err := repos.Stock.GetForUpdate(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if stock == nil {
		return nil, domain.ErrNotFound
	}
	if qty > maxStockQuantity-stock.CurrentQuantity {
		return nil, domain.ErrInvalidInput
	}
	stock.CurrentQuantity += qty
	stock.LastUpdated = t.now()
	if err := repos.Stock.Upsert(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

// Decrease resta qty del stock. Con qty mayor al disponible devuelve
// domain.ErrInsufficientStock sin escribir nada.
func (t *StockTracker) Decrease(ctx context.Context, repos Repos, itemID string, qty int) (*entity.Stock, error) {
	if qty <= 0 {
		return nil, domain.ErrInvalidInput
	}
	stock, err := repos.Stock.GetForUpdate(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if stock == nil || stock.CurrentQuantity < qty {
		return nil, domain.ErrInsufficientStock
	}
	stock.CurrentQuantity -= qty
	stock.LastUpdated = t.now()
	if err := repos.Stock.Upsert(ctx, stock); err != nil {
		return nil, err
	}
	return stock, nil
}

// lockStock bloquea las filas de stock en orden ascendente de item_id y devuelve la
// cantidad disponible de cada una (0 si no hay fila).
func lockStock(ctx context.Context, repos Repos, itemIDs []string) (map[string]int, error) {
	ids := slices.Clone(itemIDs)
	slices.Sort(ids)
	available := make(map[string]int, len(ids))
	for _, id := range ids {
		s, err := repos.Stock.GetForUpdate(ctx, id)
		if err != nil {
			return nil, err
		}
		if s != nil {
			available[id] = s.CurrentQuantity
		} else {
			available[id] = 0
		}
	}
	return available, nil
}
