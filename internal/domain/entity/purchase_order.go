package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus estado de una orden de compra (enum cerrado).
type PurchaseOrderStatus string

const (
	PurchaseOrderPending           PurchaseOrderStatus = "Pending"
	PurchaseOrderPartiallyReceived PurchaseOrderStatus = "Partially Received"
	PurchaseOrderReceived          PurchaseOrderStatus = "Received"
	PurchaseOrderCancelled         PurchaseOrderStatus = "Cancelled"
)

// Valid indica si s es uno de los estados conocidos.
func (s PurchaseOrderStatus) Valid() bool {
	switch s {
	case PurchaseOrderPending, PurchaseOrderPartiallyReceived, PurchaseOrderReceived, PurchaseOrderCancelled:
		return true
	}
	return false
}

// PurchaseOrder orden de compra a un proveedor.
type PurchaseOrder struct {
	ID                   string
	Number               string // PO-XXXXXXXX
	SupplierName         string
	ExpectedDeliveryDate *time.Time
	Status               PurchaseOrderStatus
	TotalAmount          decimal.Decimal
	CreatedAt            time.Time
	ReceivedAt           *time.Time
	Lines                []PurchaseOrderLine
	Invoices             []Invoice
}

// PurchaseOrderLine línea de la orden. ReceivedQuantity ∈ [0, Quantity].
type PurchaseOrderLine struct {
	ID               string
	PurchaseOrderID  string
	ItemID           string
	Quantity         int
	ReceivedQuantity int
	UnitPrice        decimal.Decimal
	TotalPrice       decimal.Decimal
}

// Outstanding cantidad pendiente por recibir.
func (l PurchaseOrderLine) Outstanding() int {
	return l.Quantity - l.ReceivedQuantity
}

// DerivePurchaseOrderStatus calcula el estado a partir de las líneas:
// todas completas → Received; alguna con recepción → Partially Received; ninguna → Pending.
// Cancelled nunca se deriva: es una decisión explícita.
func DerivePurchaseOrderStatus(lines []PurchaseOrderLine) PurchaseOrderStatus {
	if len(lines) == 0 {
		return PurchaseOrderPending
	}
	allFull, anyReceived := true, false
	for _, l := range lines {
		if l.ReceivedQuantity < l.Quantity {
			allFull = false
		}
		if l.ReceivedQuantity > 0 {
			anyReceived = true
		}
	}
	switch {
	case allFull:
		return PurchaseOrderReceived
	case anyReceived:
		return PurchaseOrderPartiallyReceived
	default:
		return PurchaseOrderPending
	}
}

// HasReceipts indica si alguna línea registra recepción.
func (po *PurchaseOrder) HasReceipts() bool {
	for _, l := range po.Lines {
		if l.ReceivedQuantity > 0 {
			return true
		}
	}
	return false
}
