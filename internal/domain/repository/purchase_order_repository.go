package repository

import (
	"context"

	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// PurchaseOrderRepository puerto de persistencia de órdenes de compra, sus líneas y facturas.
type PurchaseOrderRepository interface {
	// Create persiste cabecera, líneas y facturas iniciales.
	Create(ctx context.Context, po *entity.PurchaseOrder) error
	// GetByID carga la orden con líneas y facturas. (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// GetForUpdate igual que GetByID pero bloquea la cabecera.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	// UpdateReceipt persiste estado, received_at y received_quantity de cada línea.
	UpdateReceipt(ctx context.Context, po *entity.PurchaseOrder) error
	List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error)
	Count(ctx context.Context) (int, error)

	AddInvoice(ctx context.Context, inv *entity.Invoice) error
	GetInvoice(ctx context.Context, id string) (*entity.Invoice, error)
	UpdateInvoice(ctx context.Context, inv *entity.Invoice) error
	DeleteInvoice(ctx context.Context, id string) error
	ListInvoices(ctx context.Context, purchaseOrderID string) ([]entity.Invoice, error)
}
