package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventario-taller/internal/domain/entity"
	"github.com/jhoicas/inventario-taller/internal/domain/repository"
)

// Repos repositorios atados a una misma unidad de trabajo (transacción).
type Repos struct {
	Items          repository.ItemRepository
	Stock          repository.StockRepository
	PurchaseOrders repository.PurchaseOrderRepository
	Requirements   repository.RequirementRepository
	Transactions   repository.TransactionRepository
}

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error la transacción se revierte completa.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
	// RunReadOnly ejecuta fn sobre una foto consistente del almacén (sin escrituras).
	RunReadOnly(ctx context.Context, fn func(repos Repos) error) error
}

// Clock fuente de tiempo inyectable.
type Clock func() time.Time

// PurchaseOrderPDFGenerator genera la representación en PDF de una orden de compra.
type PurchaseOrderPDFGenerator interface {
	GeneratePurchaseOrderPDF(ctx context.Context, po *entity.PurchaseOrder, items map[string]*entity.Item) ([]byte, error)
}
