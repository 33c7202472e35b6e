package inventory

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-taller/internal/domain"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// recordingStock registra el orden en que se bloquean las filas.
type recordingStock struct {
	rows   map[string]int
	locked []string
}

func (r *recordingStock) Get(_ context.Context, itemID string) (*entity.Stock, error) {
	q, ok := r.rows[itemID]
	if !ok {
		return nil, nil
	}
	return &entity.Stock{ItemID: itemID, CurrentQuantity: q}, nil
}

func (r *recordingStock) GetForUpdate(ctx context.Context, itemID string) (*entity.Stock, error) {
	r.locked = append(r.locked, itemID)
	return r.Get(ctx, itemID)
}

func (r *recordingStock) Ensure(_ context.Context, itemID string) error {
	if _, ok := r.rows[itemID]; !ok {
		r.rows[itemID] = 0
	}
	return nil
}

func (r *recordingStock) Upsert(_ context.Context, s *entity.Stock) error {
	r.rows[s.ItemID] = s.CurrentQuantity
	return nil
}

func (r *recordingStock) List(context.Context, int, int) ([]*entity.Stock, error) { return nil, nil }

func (r *recordingStock) Count(context.Context) (int, error) { return len(r.rows), nil }

func TestLockStock_BloqueaEnOrdenAscendente(t *testing.T) {
	stock := &recordingStock{rows: map[string]int{"b": 2, "c": 3}}
	ids := []string{"c", "a", "b"}

	available, err := lockStock(context.Background(), Repos{Stock: stock}, ids)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, stock.locked)
	assert.Equal(t, map[string]int{"a": 0, "b": 2, "c": 3}, available)
	// El slice del llamador no se reordena.
	assert.Equal(t, []string{"c", "a", "b"}, ids)
}

func TestStockTracker_IncreaseNoDesbordaLaColumna(t *testing.T) {
	stock := &recordingStock{rows: map[string]int{"a": math.MaxInt32 - 1}}
	tracker := NewStockTracker(time.Now)

	_, err := tracker.Increase(context.Background(), Repos{Stock: stock}, "a", 2)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, math.MaxInt32-1, stock.rows["a"])

	s, err := tracker.Increase(context.Background(), Repos{Stock: stock}, "a", 1)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt32, s.CurrentQuantity)
}
