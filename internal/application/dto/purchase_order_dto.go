package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// PurchaseOrderLineRequest línea de una orden nueva.
type PurchaseOrderLineRequest struct {
	ItemID    string          `json:"item_id" validate:"required"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreatePurchaseOrderRequest entrada para crear una orden de compra.
// ExpectedDeliveryDate acepta YYYY-MM-DD o RFC3339.
type CreatePurchaseOrderRequest struct {
	SupplierName         string                     `json:"supplier_name" validate:"required"`
	ExpectedDeliveryDate string                     `json:"expected_delivery_date"`
	Items                []PurchaseOrderLineRequest `json:"items" validate:"required,min=1"`
}

// InvoiceRequest factura del proveedor.
type InvoiceRequest struct {
	InvoiceNumber string          `json:"invoice_number" validate:"required"`
	InvoiceDate   string          `json:"invoice_date"`
	Amount        decimal.Decimal `json:"amount"`
	Description   string          `json:"description"`
}

// UpdateInvoiceRequest actualización campo a campo de una factura.
type UpdateInvoiceRequest struct {
	InvoiceNumber *string          `json:"invoice_number"`
	InvoiceDate   *string          `json:"invoice_date"`
	Amount        *decimal.Decimal `json:"amount"`
	Description   *string          `json:"description"`
}

// ReceivePurchaseOrderRequest recepción completa con facturas opcionales.
type ReceivePurchaseOrderRequest struct {
	Invoices []InvoiceRequest `json:"invoices"`
}

// ReceiptRequest cantidad recibida de un ítem (o de una línea concreta).
type ReceiptRequest struct {
	ItemID   string `json:"item_id"`
	LineID   string `json:"line_id"`
	Quantity int    `json:"quantity" validate:"gt=0"`
}

// ReceivePartialRequest recepción parcial.
type ReceivePartialRequest struct {
	Receipts []ReceiptRequest `json:"receipts" validate:"required,min=1"`
	Invoices []InvoiceRequest `json:"invoices"`
}

// PurchaseOrderLineResponse línea de una orden.
type PurchaseOrderLineResponse struct {
	ID               string          `json:"id"`
	ItemID           string          `json:"item_id"`
	Quantity         int             `json:"quantity"`
	ReceivedQuantity int             `json:"received_quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
}

// InvoiceResponse factura de una orden.
type InvoiceResponse struct {
	ID              string          `json:"id"`
	PurchaseOrderID string          `json:"purchase_order_id"`
	InvoiceNumber   string          `json:"invoice_number"`
	InvoiceDate     *time.Time      `json:"invoice_date,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
	CreatedAt       time.Time       `json:"created_at"`
}

// PurchaseOrderResponse salida de una orden con líneas y facturas.
type PurchaseOrderResponse struct {
	ID                   string                      `json:"id"`
	PONumber             string                      `json:"po_number"`
	SupplierName         string                      `json:"supplier_name"`
	ExpectedDeliveryDate *time.Time                  `json:"expected_delivery_date,omitempty"`
	Status               string                      `json:"status"`
	TotalAmount          decimal.Decimal             `json:"total_amount"`
	CreatedAt            time.Time                   `json:"created_at"`
	ReceivedAt           *time.Time                  `json:"received_at,omitempty"`
	Items                []PurchaseOrderLineResponse `json:"items"`
	Invoices             []InvoiceResponse           `json:"invoices"`
}

// NewInvoiceResponse mapea una factura.
func NewInvoiceResponse(inv entity.Invoice) InvoiceResponse {
	return InvoiceResponse{
		ID:              inv.ID,
		PurchaseOrderID: inv.PurchaseOrderID,
		InvoiceNumber:   inv.Number,
		InvoiceDate:     inv.Date,
		Amount:          inv.Amount,
		Description:     inv.Description,
		CreatedAt:       inv.CreatedAt,
	}
}

// NewInvoiceListResponse mapea una lista de facturas.
func NewInvoiceListResponse(list []entity.Invoice) []InvoiceResponse {
	out := make([]InvoiceResponse, 0, len(list))
	for _, inv := range list {
		out = append(out, NewInvoiceResponse(inv))
	}
	return out
}

// NewPurchaseOrderResponse mapea una orden.
func NewPurchaseOrderResponse(po *entity.PurchaseOrder) PurchaseOrderResponse {
	lines := make([]PurchaseOrderLineResponse, 0, len(po.Lines))
	for _, l := range po.Lines {
		lines = append(lines, PurchaseOrderLineResponse{
			ID:               l.ID,
			ItemID:           l.ItemID,
			Quantity:         l.Quantity,
			ReceivedQuantity: l.ReceivedQuantity,
			UnitPrice:        l.UnitPrice,
			TotalPrice:       l.TotalPrice,
		})
	}
	return PurchaseOrderResponse{
		ID:                   po.ID,
		PONumber:             po.Number,
		SupplierName:         po.SupplierName,
		ExpectedDeliveryDate: po.ExpectedDeliveryDate,
		Status:               string(po.Status),
		TotalAmount:          po.TotalAmount,
		CreatedAt:            po.CreatedAt,
		ReceivedAt:           po.ReceivedAt,
		Items:                lines,
		Invoices:             NewInvoiceListResponse(po.Invoices),
	}
}

// NewPurchaseOrderListResponse mapea una lista de órdenes.
func NewPurchaseOrderListResponse(list []*entity.PurchaseOrder) []PurchaseOrderResponse {
	out := make([]PurchaseOrderResponse, 0, len(list))
	for _, po := range list {
		out = append(out, NewPurchaseOrderResponse(po))
	}
	return out
}
