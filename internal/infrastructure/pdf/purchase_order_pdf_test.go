package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

func TestFormatMoney(t *testing.T) {
	g := NewMarotoPDFGenerator("Taller")
	assert.Equal(t, "1.234.567,50", g.formatMoney(decimal.RequireFromString("1234567.5")))
	assert.Equal(t, "0,00", g.formatMoney(decimal.Zero))
	assert.Equal(t, "-12,35", g.formatMoney(decimal.RequireFromString("-12.345")))
}

func TestGeneratePurchaseOrderPDF(t *testing.T) {
	g := NewMarotoPDFGenerator("Taller Central")
	expected := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	invDate := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	po := &entity.PurchaseOrder{
		ID:                   "po-1",
		Number:               "PO-ABCDEF12",
		SupplierName:         "Ferretería Norte",
		ExpectedDeliveryDate: &expected,
		Status:               entity.PurchaseOrderPartiallyReceived,
		TotalAmount:          decimal.RequireFromString("150.00"),
		CreatedAt:            time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC),
		Lines: []entity.PurchaseOrderLine{
			{ID: "l1", ItemID: "i1", Quantity: 10, ReceivedQuantity: 4, UnitPrice: decimal.RequireFromString("10"), TotalPrice: decimal.RequireFromString("100")},
			{ID: "l2", ItemID: "missing", Quantity: 5, UnitPrice: decimal.RequireFromString("10"), TotalPrice: decimal.RequireFromString("50")},
		},
		Invoices: []entity.Invoice{
			{ID: "inv1", Number: "F-001", Date: &invDate, Amount: decimal.RequireFromString("40")},
		},
	}
	items := map[string]*entity.Item{
		"i1": {ID: "i1", Code: "BOLT-10", Name: "Perno 10mm"},
	}

	out, err := g.GeneratePurchaseOrderPDF(context.Background(), po, items)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}
