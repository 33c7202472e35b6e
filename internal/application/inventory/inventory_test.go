package inventory_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-taller/internal/application/dto"
	"github.com/jhoicas/inventario-taller/internal/application/inventory"
	"github.com/jhoicas/inventario-taller/internal/application/usecase"
	"github.com/jhoicas/inventario-taller/internal/domain"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
	"github.com/jhoicas/inventario-taller/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

var fixedNow = time.Date(2026, 5, 4, 9, 30, 0, 0, time.UTC)

type fixture struct {
	store     *memory.Store
	items     *usecase.ItemUseCase
	orders    *inventory.PurchaseOrderUseCase
	reqs      *inventory.RequirementUseCase
	shortages *inventory.ShortageUseCase
}

func newFixture() *fixture {
	store := memory.NewStore()
	now := func() time.Time { return fixedNow }
	log := zerolog.Nop()
	return &fixture{
		store:     store,
		items:     usecase.NewItemUseCase(store, now, log),
		orders:    inventory.NewPurchaseOrderUseCase(store, now, log),
		reqs:      inventory.NewRequirementUseCase(store, now, log),
		shortages: inventory.NewShortageUseCase(store),
	}
}

func (f *fixture) item(t *testing.T, code string, stock int) string {
	t.Helper()
	ctx := context.Background()
	out, err := f.items.Create(ctx, dto.CreateItemRequest{Code: code, Name: "Ítem " + code, UnitPrice: decimal.NewFromInt(10)})
	require.NoError(t, err)
	if stock > 0 {
		_, err = f.items.UpdateStock(ctx, out.ID, stock)
		require.NoError(t, err)
	}
	return out.ID
}

func (f *fixture) stock(t *testing.T, itemID string) int {
	t.Helper()
	s, err := f.items.GetStock(context.Background(), itemID)
	require.NoError(t, err)
	return s.CurrentQuantity
}

func (f *fixture) ledger(t *testing.T, itemID string) []*entity.Transaction {
	t.Helper()
	var out []*entity.Transaction
	err := f.store.RunReadOnly(context.Background(), func(repos inventory.Repos) error {
		var err error
		out, err = repos.Transactions.ListByItem(context.Background(), itemID)
		return err
	})
	require.NoError(t, err)
	return out
}

// ledgerOf filtra por acción, ignorando los ajustes usados para sembrar stock.
func ledgerOf(list []*entity.Transaction, action entity.TransactionAction) []*entity.Transaction {
	var out []*entity.Transaction
	for _, tx := range list {
		if tx.Action == action {
			out = append(out, tx)
		}
	}
	return out
}

func (f *fixture) order(t *testing.T, lines ...inventory.PurchaseOrderLineInput) *entity.PurchaseOrder {
	t.Helper()
	po, err := f.orders.Create(context.Background(), inventory.CreatePurchaseOrderInput{
		SupplierName: "Proveedor Uno",
		Lines:        lines,
	})
	require.NoError(t, err)
	return po
}

func (f *fixture) requirement(t *testing.T, lines ...inventory.RequirementLineInput) *entity.Requirement {
	t.Helper()
	req, err := f.reqs.Create(context.Background(), inventory.CreateRequirementInput{
		ProjectName: "Proyecto Norte",
		Lines:       lines,
	})
	require.NoError(t, err)
	return req
}

func poLine(itemID string, qty int, price int64) inventory.PurchaseOrderLineInput {
	return inventory.PurchaseOrderLineInput{ItemID: itemID, Quantity: qty, UnitPrice: decimal.NewFromInt(price)}
}

func reqLine(itemID string, qty int) inventory.RequirementLineInput {
	return inventory.RequirementLineInput{ItemID: itemID, QuantityNeeded: qty}
}

// ──────────────────────────────────────────────────────────────────────────────
// Escenarios de punta a punta
// ──────────────────────────────────────────────────────────────────────────────

func TestEscenario_RecepcionCompletaAcreditaStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	itemID := f.item(t, "PIPE", 0)

	po := f.order(t, poLine(itemID, 20, 10))
	assert.True(t, po.TotalAmount.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, entity.PurchaseOrderPending, po.Status)

	po, err := f.orders.Receive(ctx, po.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderReceived, po.Status)
	require.NotNil(t, po.ReceivedAt)
	assert.Equal(t, fixedNow, *po.ReceivedAt)
	assert.Equal(t, 20, f.stock(t, itemID))

	txs := f.ledger(t, itemID)
	require.Len(t, txs, 1)
	assert.Equal(t, entity.ActionPurchase, txs[0].Action)
	assert.Equal(t, 20, txs[0].Quantity)
	require.NotNil(t, txs[0].PurchaseOrderID)
	assert.Equal(t, po.ID, *txs[0].PurchaseOrderID)
}

func TestEscenario_EntregaInsuficienteNoModificaNada(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	itemID := f.item(t, "PIPE", 0)
	po := f.order(t, poLine(itemID, 20, 10))
	_, err := f.orders.Receive(ctx, po.ID, nil)
	require.NoError(t, err)

	req := f.requirement(t, reqLine(itemID, 25))
	_, err = f.reqs.IssueAll(ctx, req.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.Equal(t, 20, f.stock(t, itemID))
	got, err := f.reqs.Get(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequirementActive, got.Status)
	assert.Equal(t, 0, got.Lines[0].QuantityIssued)
	assert.Empty(t, ledgerOf(f.ledger(t, itemID), entity.ActionIssue))
}

func TestEscenario_EntregaCompletaCierraRequerimiento(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	itemID := f.item(t, "PIPE", 0)
	po := f.order(t, poLine(itemID, 20, 10))
	_, err := f.orders.Receive(ctx, po.ID, nil)
	require.NoError(t, err)

	req := f.requirement(t, reqLine(itemID, 15))
	req, err = f.reqs.IssueAll(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RequirementCompleted, req.Status)
	require.NotNil(t, req.CompletedAt)
	assert.Equal(t, 15, req.Lines[0].QuantityIssued)
	assert.Equal(t, 5, f.stock(t, itemID))

	issues := ledgerOf(f.ledger(t, itemID), entity.ActionIssue)
	require.Len(t, issues, 1)
	assert.Equal(t, 15, issues[0].Quantity)
	require.NotNil(t, issues[0].RequirementID)
	assert.Equal(t, req.ID, *issues[0].RequirementID)

	_, err = f.reqs.IssueAll(ctx, req.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyCompleted)
}

func TestEscenario_RecepcionParcial(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	itemID := f.item(t, "VALVE", 0)
	po := f.order(t, poLine(itemID, 10, 5))

	po, err := f.orders.ReceivePartial(ctx, po.ID, []inventory.ReceiptInput{{ItemID: itemID, Quantity: 4}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, po.Lines[0].ReceivedQuantity)
	assert.Equal(t, entity.PurchaseOrderPartiallyReceived, po.Status)
	assert.Nil(t, po.ReceivedAt)
	assert.Equal(t, 4, f.stock(t, itemID))

	_, err = f.orders.ReceivePartial(ctx, po.ID, []inventory.ReceiptInput{{ItemID: itemID, Quantity: 7}}, nil)
	assert.ErrorIs(t, err, domain.ErrOverReceipt)
	assert.Equal(t, 4, f.stock(t, itemID))

	po, err = f.orders.ReceivePartial(ctx, po.ID, []inventory.ReceiptInput{{ItemID: itemID, Quantity: 6}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 10, po.Lines[0].ReceivedQuantity)
	assert.Equal(t, entity.PurchaseOrderReceived, po.Status)
	assert.NotNil(t, po.ReceivedAt)
	assert.Equal(t, 10, f.stock(t, itemID))

	purchases := ledgerOf(f.ledger(t, itemID), entity.ActionPurchase)
	require.Len(t, purchases, 2)
	assert.ElementsMatch(t, []int{4, 6}, []int{purchases[0].Quantity, purchases[1].Quantity})

	// Orden ya recibida: cualquier recepción adicional excede lo ordenado.
	_, err = f.orders.ReceivePartial(ctx, po.ID, []inventory.ReceiptInput{{ItemID: itemID, Quantity: 1}}, nil)
	assert.ErrorIs(t, err, domain.ErrOverReceipt)
}

func TestEscenario_FaltantesExcluyenLineasOrdenadas(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	bolt := f.item(t, "BOLT", 2)
	nut := f.item(t, "NUT", 0)

	f.requirement(t, reqLine(bolt, 10), reqLine(nut, 3))

	list, err := f.shortages.ComputeShortages(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// Mayor faltante primero.
	assert.Equal(t, "BOLT", list[0].Item.Code)
	assert.Equal(t, 10, list[0].TotalRequired)
	assert.Equal(t, 2, list[0].CurrentStock)
	assert.Equal(t, 8, list[0].Shortage)
	assert.Equal(t, "NUT", list[1].Item.Code)

	f.order(t, poLine(bolt, 8, 1))

	list, err = f.shortages.ComputeShortages(ctx, true)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "NUT", list[0].Item.Code)

	list, err = f.shortages.ComputeShortages(ctx, false)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Órdenes de compra
// ──────────────────────────────────────────────────────────────────────────────

func TestReceive_Idempotente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	itemID := f.item(t, "PIPE", 0)
	po := f.order(t, poLine(itemID, 3, 1))

	_, err := f.orders.Receive(ctx, po.ID, nil)
	require.NoError(t, err)
	_, err = f.orders.Receive(ctx, po.ID, nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyReceived)

	assert.Equal(t, 3, f.stock(t, itemID))
	assert.Len(t, f.ledger(t, itemID), 1)
}

func TestReceive_SoloAcreditaSaldoPendiente(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.item(t, "A", 0)
	b := f.item(t, "B", 0)
	po := f.order(t, poLine(a, 5, 1), poLine(b, 2, 1))

	_, err := f.orders.ReceivePartial(ctx, po.ID, []inventory.ReceiptInput{{ItemID: a, Quantity: 3}}, nil)
	require.NoError(t, err)

	po, err = f.orders.Receive(ctx, po.ID, []inventory.InvoiceInput{{Number: "F-100", Amount: decimal.NewFromInt(7)}})
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderReceived, po.Status)
	assert.Equal(t, 5, f.stock(t, a))
	assert.Equal(t, 2, f.stock(t, b))
	require.Len(t, po.Invoices, 1)
	assert.Equal(t, "F-100", po.Invoices[0].Number)

	purchases := ledgerOf(f.ledger(t, a), entity.ActionPurchase)
	require.Len(t, purchases, 2)
	assert.ElementsMatch(t, []int{3, 2}, []int{purchases[0].Quantity, purchases[1].Quantity})
}

func TestReceivePartial_TodoONada(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.item(t, "A", 0)
	b := f.item(t, "B", 0)
	po := f.order(t, poLine(a, 5, 1), poLine(b, 2, 1))

	_, err := f.orders.ReceivePartial(ctx, po.ID, []inventory.ReceiptInput{
		{ItemID: a, Quantity: 5},
		{ItemID: b, Quantity: 3},
	}, []inventory.InvoiceInput{{Number: "F-1"}})
	assert.ErrorIs(t, err, domain.ErrOverReceipt)

	assert.Equal(t, 0, f.stock(t, a))
	assert.Equal(t, 0, f.stock(t, b))
	got, err := f.orders.Get(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderPending, got.Status)
	assert.Empty(t, got.Invoices)
	assert.Empty(t, f.ledger(t, a))
}

func TestReceivePartial_CantidadEnormeEsSobreRecepcion(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.item(t, "A", 0)
	b := f.item(t, "B", 0)
	po := f.order(t, poLine(a, 10, 1), poLine(b, 3, 1))

	_, err := f.orders.ReceivePartial(ctx, po.ID, []inventory.ReceiptInput{{ItemID: a, Quantity: 4}}, nil)
	require.NoError(t, err)

	_, err = f.orders.ReceivePartial(ctx, po.ID, []inventory.ReceiptInput{{ItemID: a, Quantity: math.MaxInt - 2}}, nil)
	assert.ErrorIs(t, err, domain.ErrOverReceipt)

	_, err = f.orders.ReceivePartial(ctx, po.ID, []inventory.ReceiptInput{
		{ItemID: b, Quantity: 1},
		{ItemID: a, Quantity: math.MaxInt},
	}, nil)
	assert.ErrorIs(t, err, domain.ErrOverReceipt)

	assert.Equal(t, 4, f.stock(t, a))
	assert.Equal(t, 0, f.stock(t, b))
	got, err := f.orders.Get(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, got.Lines[0].ReceivedQuantity)
	assert.Equal(t, 0, got.Lines[1].ReceivedQuantity)
	assert.Len(t, ledgerOf(f.ledger(t, a), entity.ActionPurchase), 1)
}

func TestCantidadesFueraDeRangoSeRechazan(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.item(t, "A", 0)

	_, err := f.orders.Create(ctx, inventory.CreatePurchaseOrderInput{
		SupplierName: "Proveedor",
		Lines:        []inventory.PurchaseOrderLineInput{poLine(a, math.MaxInt32+1, 1)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidLine)

	_, err = f.reqs.Create(ctx, inventory.CreateRequirementInput{
		ProjectName: "Obra",
		Lines:       []inventory.RequirementLineInput{reqLine(a, math.MaxInt32+1)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidLine)

	// Dos recepciones al tope desbordarían la columna de stock.
	po1 := f.order(t, poLine(a, math.MaxInt32, 0))
	po2 := f.order(t, poLine(a, 1, 0))
	_, err = f.orders.Receive(ctx, po1.ID, nil)
	require.NoError(t, err)
	_, err = f.orders.Receive(ctx, po2.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, math.MaxInt32, f.stock(t, a))
}

func TestReceivePartial_LineaDesconocida(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.item(t, "A", 0)
	other := f.item(t, "OTRO", 0)
	po := f.order(t, poLine(a, 5, 1))

	_, err := f.orders.ReceivePartial(ctx, po.ID, []inventory.ReceiptInput{{ItemID: other, Quantity: 1}}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.orders.ReceivePartial(ctx, po.ID, []inventory.ReceiptInput{{ItemID: a, Quantity: 0}}, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidLine)

	_, err = f.orders.ReceivePartial(ctx, "no-existe", []inventory.ReceiptInput{{ItemID: a, Quantity: 1}}, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReceivePartial_PorLineID(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.item(t, "A", 0)
	po := f.order(t, poLine(a, 2, 1), poLine(a, 3, 2))

	po, err := f.orders.ReceivePartial(ctx, po.ID, []inventory.ReceiptInput{{LineID: po.Lines[1].ID, Quantity: 3}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, po.Lines[0].ReceivedQuantity)
	assert.Equal(t, 3, po.Lines[1].ReceivedQuantity)

	// Sin LineID se usa la primera línea del ítem con saldo.
	po, err = f.orders.ReceivePartial(ctx, po.ID, []inventory.ReceiptInput{{ItemID: a, Quantity: 2}}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, po.Lines[0].ReceivedQuantity)
	assert.Equal(t, entity.PurchaseOrderReceived, po.Status)
	assert.Equal(t, 5, f.stock(t, a))
}

func TestCreatePurchaseOrder_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.item(t, "A", 0)

	cases := []struct {
		name string
		in   inventory.CreatePurchaseOrderInput
		want error
	}{
		{"sin líneas", inventory.CreatePurchaseOrderInput{SupplierName: "X"}, domain.ErrInvalidLine},
		{"cantidad cero", inventory.CreatePurchaseOrderInput{SupplierName: "X", Lines: []inventory.PurchaseOrderLineInput{poLine(a, 0, 1)}}, domain.ErrInvalidLine},
		{"precio negativo", inventory.CreatePurchaseOrderInput{SupplierName: "X", Lines: []inventory.PurchaseOrderLineInput{poLine(a, 1, -1)}}, domain.ErrInvalidLine},
		{"sin proveedor", inventory.CreatePurchaseOrderInput{Lines: []inventory.PurchaseOrderLineInput{poLine(a, 1, 1)}}, domain.ErrInvalidInput},
		{"ítem inexistente", inventory.CreatePurchaseOrderInput{SupplierName: "X", Lines: []inventory.PurchaseOrderLineInput{poLine("nope", 1, 1)}}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.orders.Create(ctx, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	list, err := f.orders.List(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreatePurchaseOrder_PrecioCeroPermitido(t *testing.T) {
	f := newFixture()
	a := f.item(t, "A", 0)
	po := f.order(t, poLine(a, 4, 0))
	assert.True(t, po.TotalAmount.IsZero())
	assert.Regexp(t, `^PO-[0-9A-F]{8}$`, po.Number)
}

func TestCancel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.item(t, "A", 0)

	po := f.order(t, poLine(a, 5, 1))
	po, err := f.orders.Cancel(ctx, po.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.PurchaseOrderCancelled, po.Status)

	_, err = f.orders.Receive(ctx, po.ID, nil)
	assert.ErrorIs(t, err, domain.ErrOrderCancelled)
	_, err = f.orders.ReceivePartial(ctx, po.ID, []inventory.ReceiptInput{{ItemID: a, Quantity: 1}}, nil)
	assert.ErrorIs(t, err, domain.ErrOrderCancelled)

	started := f.order(t, poLine(a, 5, 1))
	_, err = f.orders.ReceivePartial(ctx, started.ID, []inventory.ReceiptInput{{ItemID: a, Quantity: 1}}, nil)
	require.NoError(t, err)
	_, err = f.orders.Cancel(ctx, started.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestInvoices_CRUD(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.item(t, "A", 0)
	po := f.order(t, poLine(a, 1, 100))

	inv, err := f.orders.AddInvoice(ctx, po.ID, inventory.InvoiceInput{Number: "F-7", Amount: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.Equal(t, po.ID, inv.PurchaseOrderID)

	_, err = f.orders.AddInvoice(ctx, po.ID, inventory.InvoiceInput{Number: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.orders.AddInvoice(ctx, "nope", inventory.InvoiceInput{Number: "F-8"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	desc := "saldo"
	inv, err = f.orders.UpdateInvoice(ctx, inv.ID, inventory.InvoicePatch{Description: &desc})
	require.NoError(t, err)
	assert.Equal(t, "saldo", inv.Description)
	assert.Equal(t, "F-7", inv.Number)

	list, err := f.orders.ListInvoices(ctx, po.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "saldo", list[0].Description)

	require.NoError(t, f.orders.DeleteInvoice(ctx, inv.ID))
	assert.ErrorIs(t, f.orders.DeleteInvoice(ctx, inv.ID), domain.ErrNotFound)
	list, err = f.orders.ListInvoices(ctx, po.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Requerimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestIssueAll_TodoONadaEntreItems(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.item(t, "A", 10)
	b := f.item(t, "B", 1)

	req := f.requirement(t, reqLine(a, 5), reqLine(b, 2))
	_, err := f.reqs.IssueAll(ctx, req.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 10, f.stock(t, a))
	assert.Equal(t, 1, f.stock(t, b))
	assert.Empty(t, ledgerOf(f.ledger(t, a), entity.ActionIssue))
}

func TestIssueAll_LineasRepetidasCompitenPorElMismoStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.item(t, "A", 5)

	req := f.requirement(t, reqLine(a, 3), reqLine(a, 3))
	_, err := f.reqs.IssueAll(ctx, req.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, f.stock(t, a))
}

func TestIssueLine(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.item(t, "A", 4)
	b := f.item(t, "B", 0)
	req := f.requirement(t, reqLine(a, 4), reqLine(b, 2))

	// B sin stock no impide entregar A.
	req, err := f.reqs.IssueLine(ctx, req.ID, a)
	require.NoError(t, err)
	assert.Equal(t, entity.RequirementActive, req.Status)
	assert.Equal(t, 4, req.Lines[0].QuantityIssued)
	assert.Equal(t, 0, f.stock(t, a))

	_, err = f.reqs.IssueLine(ctx, req.ID, a)
	assert.ErrorIs(t, err, domain.ErrAlreadyIssued)
	_, err = f.reqs.IssueLine(ctx, req.ID, b)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, err = f.reqs.IssueLine(ctx, req.ID, "otro")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.items.UpdateStock(ctx, b, 2)
	require.NoError(t, err)
	req, err = f.reqs.IssueLine(ctx, req.ID, b)
	require.NoError(t, err)
	assert.Equal(t, entity.RequirementCompleted, req.Status)
	assert.NotNil(t, req.CompletedAt)
}

func TestUpdateStatus_NoTocaStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.item(t, "A", 3)
	req := f.requirement(t, reqLine(a, 3))

	req, err := f.reqs.UpdateStatus(ctx, req.ID, entity.RequirementCompleted)
	require.NoError(t, err)
	assert.Equal(t, entity.RequirementCompleted, req.Status)
	assert.Equal(t, fixedNow, *req.CompletedAt)
	assert.Equal(t, 3, f.stock(t, a))

	req, err = f.reqs.UpdateStatus(ctx, req.ID, entity.RequirementActive)
	require.NoError(t, err)
	assert.Nil(t, req.CompletedAt)

	_, err = f.reqs.UpdateStatus(ctx, req.ID, entity.RequirementStatus("Archived"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.reqs.UpdateStatus(ctx, "nope", entity.RequirementCompleted)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateRequirement_Validaciones(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.item(t, "A", 0)

	_, err := f.reqs.Create(ctx, inventory.CreateRequirementInput{ProjectName: "P"})
	assert.ErrorIs(t, err, domain.ErrInvalidLine)
	_, err = f.reqs.Create(ctx, inventory.CreateRequirementInput{ProjectName: "P", Lines: []inventory.RequirementLineInput{reqLine(a, 0)}})
	assert.ErrorIs(t, err, domain.ErrInvalidLine)
	_, err = f.reqs.Create(ctx, inventory.CreateRequirementInput{ProjectName: " ", Lines: []inventory.RequirementLineInput{reqLine(a, 1)}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.reqs.Create(ctx, inventory.CreateRequirementInput{ProjectName: "P", Lines: []inventory.RequirementLineInput{reqLine("nope", 1)}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	req := f.requirement(t, reqLine(a, 1))
	assert.Equal(t, entity.RequirementActive, req.Status)
	assert.False(t, req.Lines[0].Ordered)
	assert.Equal(t, 0, req.Lines[0].QuantityIssued)
}

// ──────────────────────────────────────────────────────────────────────────────
// Propiedades del libro
// ──────────────────────────────────────────────────────────────────────────────

func TestLibro_SumaFirmadaIgualAlStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.item(t, "A", 7)

	po := f.order(t, poLine(a, 6, 1))
	_, err := f.orders.ReceivePartial(ctx, po.ID, []inventory.ReceiptInput{{ItemID: a, Quantity: 2}}, nil)
	require.NoError(t, err)
	_, err = f.orders.Receive(ctx, po.ID, nil)
	require.NoError(t, err)

	req := f.requirement(t, reqLine(a, 9))
	_, err = f.reqs.IssueAll(ctx, req.ID)
	require.NoError(t, err)
	_, err = f.items.UpdateStock(ctx, a, 1)
	require.NoError(t, err)

	sum := 0
	for _, tx := range f.ledger(t, a) {
		assert.Positive(t, tx.Quantity)
		sum += tx.Action.Sign() * tx.Quantity
	}
	assert.Equal(t, f.stock(t, a), sum)
	assert.Equal(t, 1, sum)
}

// ──────────────────────────────────────────────────────────────────────────────
// Concurrencia
// ──────────────────────────────────────────────────────────────────────────────

func TestConcurrencia_EntregasNoSobregiranStock(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.item(t, "A", 10)

	const workers = 25
	reqs := make([]*entity.Requirement, workers)
	for i := range reqs {
		reqs[i] = f.requirement(t, reqLine(a, 1))
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for _, req := range reqs {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := f.reqs.IssueAll(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				fail++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}(req.ID)
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, workers-10, fail)
	assert.Equal(t, 0, f.stock(t, a))
	assert.Len(t, ledgerOf(f.ledger(t, a), entity.ActionIssue), 10)
}

func TestConcurrencia_RecepcionDobleAcreditaUnaVez(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	a := f.item(t, "A", 0)
	po := f.order(t, poLine(a, 8, 1))

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.orders.Receive(ctx, po.ID, nil)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyReceived)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 8, f.stock(t, a))
}
