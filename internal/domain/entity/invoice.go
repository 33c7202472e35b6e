package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice factura del proveedor asociada a una orden de compra.
type Invoice struct {
	ID              string
	PurchaseOrderID string
	Number          string
	Date            *time.Time
	Amount          decimal.Decimal
	Description     string
	CreatedAt       time.Time
}
