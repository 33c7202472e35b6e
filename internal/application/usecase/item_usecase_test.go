package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-taller/internal/application/dto"
	"github.com/jhoicas/inventario-taller/internal/application/usecase"
	"github.com/jhoicas/inventario-taller/internal/domain"
	"github.com/jhoicas/inventario-taller/internal/infrastructure/memory"
)

func newItemUC() *usecase.ItemUseCase {
	now := func() time.Time { return time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC) }
	return usecase.NewItemUseCase(memory.NewStore(), now, zerolog.Nop())
}

func ptr[T any](v T) *T { return &v }

func TestItemUseCase_Create(t *testing.T) {
	uc := newItemUC()
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateItemRequest{Code: " BOLT-10 ", Name: "Tornillo", UnitPrice: decimal.RequireFromString("0.35")})
	require.NoError(t, err)
	assert.Equal(t, "BOLT-10", out.Code)
	assert.Equal(t, 0, out.CurrentQuantity)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Code: "BOLT-10", Name: "Otro"})
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)

	_, err = uc.Create(ctx, dto.CreateItemRequest{Code: "X", Name: "Y", UnitPrice: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Create(ctx, dto.CreateItemRequest{Code: "X", Name: "Y", MinimumStock: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// El stock nace en 0 junto con el ítem.
	s, err := uc.GetStock(ctx, out.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, s.CurrentQuantity)
	assert.Equal(t, "BOLT-10", s.ItemCode)
}

func TestItemUseCase_UpdateCampoACampo(t *testing.T) {
	uc := newItemUC()
	ctx := context.Background()
	a, err := uc.Create(ctx, dto.CreateItemRequest{Code: "A", Name: "Uno", Make: "Acme"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateItemRequest{Code: "B", Name: "Dos"})
	require.NoError(t, err)

	out, err := uc.Update(ctx, a.ID, dto.UpdateItemRequest{Name: ptr("Uno bis"), MinimumStock: ptr(4)})
	require.NoError(t, err)
	assert.Equal(t, "Uno bis", out.Name)
	assert.Equal(t, 4, out.MinimumStock)
	assert.Equal(t, "Acme", out.Make)
	assert.Equal(t, "A", out.Code)

	_, err = uc.Update(ctx, a.ID, dto.UpdateItemRequest{Code: ptr("B")})
	assert.ErrorIs(t, err, domain.ErrDuplicateCode)
	_, err = uc.Update(ctx, a.ID, dto.UpdateItemRequest{Name: ptr("  ")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.Update(ctx, "nope", dto.UpdateItemRequest{Name: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	out, err = uc.Update(ctx, a.ID, dto.UpdateItemRequest{Code: ptr("A")})
	require.NoError(t, err)
	assert.Equal(t, "A", out.Code)
}

func TestItemUseCase_UpdateStockRegistraAjustes(t *testing.T) {
	uc := newItemUC()
	ctx := context.Background()
	a, err := uc.Create(ctx, dto.CreateItemRequest{Code: "A", Name: "Uno"})
	require.NoError(t, err)

	s, err := uc.UpdateStock(ctx, a.ID, 12)
	require.NoError(t, err)
	assert.Equal(t, 12, s.CurrentQuantity)

	_, err = uc.UpdateStock(ctx, a.ID, 12)
	require.NoError(t, err)

	s, err = uc.UpdateStock(ctx, a.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, s.CurrentQuantity)

	hist, err := uc.ItemHistory(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, "Adjustment Out", hist[0].Action)
	assert.Equal(t, 7, hist[0].Quantity)
	assert.Equal(t, "Adjustment In", hist[1].Action)
	assert.Equal(t, 12, hist[1].Quantity)

	_, err = uc.UpdateStock(ctx, a.ID, -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.UpdateStock(ctx, "nope", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.ItemHistory(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestItemUseCase_ListYPaginacion(t *testing.T) {
	uc := newItemUC()
	ctx := context.Background()
	for _, code := range []string{"C", "A", "B"} {
		out, err := uc.Create(ctx, dto.CreateItemRequest{Code: code, Name: code})
		require.NoError(t, err)
		_, err = uc.UpdateStock(ctx, out.ID, 1)
		require.NoError(t, err)
	}

	list, err := uc.List(ctx, 2, 0)
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "A", list.Items[0].Code)
	assert.Equal(t, 1, list.Items[0].CurrentQuantity)
	assert.Equal(t, 2, list.Page.Limit)

	list, err = uc.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "C", list.Items[0].Code)

	stock, err := uc.ListStock(ctx, 10, 0)
	require.NoError(t, err)
	assert.Len(t, stock, 3)

	txs, err := uc.ListTransactions(ctx, 2, 0)
	require.NoError(t, err)
	assert.Len(t, txs, 2)
}
