package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/inventario-taller/internal/domain"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// PDFUseCase arma los datos de una orden de compra y delega el render al generador.
type PDFUseCase struct {
	txRunner  TxRunner
	generator PurchaseOrderPDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(txRunner TxRunner, generator PurchaseOrderPDFGenerator) *PDFUseCase {
	return &PDFUseCase{txRunner: txRunner, generator: generator}
}

// RenderPurchaseOrder devuelve el PDF de la orden.
func (uc *PDFUseCase) RenderPurchaseOrder(ctx context.Context, orderID string) ([]byte, string, error) {
	var (
		po    *entity.PurchaseOrder
		items = make(map[string]*entity.Item)
	)
	err := uc.txRunner.RunReadOnly(ctx, func(repos Repos) error {
		var err error
		po, err = repos.PurchaseOrders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		for _, l := range po.Lines {
			if _, ok := items[l.ItemID]; ok {
				continue
			}
			item, err := repos.Items.GetByID(ctx, l.ItemID)
			if err != nil {
				return err
			}
			items[l.ItemID] = item
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	pdf, err := uc.generator.GeneratePurchaseOrderPDF(ctx, po, items)
	if err != nil {
		return nil, "", fmt.Errorf("pdf orden de compra: %w", err)
	}
	return pdf, po.Number + ".pdf", nil
}
