package inventory

import (
	"context"

	"github.com/jhoicas/inventario-taller/internal/domain/entity"
	domaininv "github.com/jhoicas/inventario-taller/internal/domain/inventory"
)

// ShortageUseCase calcula los ítems por pedir: demanda pendiente de requerimientos
// mayor que el stock disponible.
type ShortageUseCase struct {
	txRunner TxRunner
}

// NewShortageUseCase construye el caso de uso.
func NewShortageUseCase(txRunner TxRunner) *ShortageUseCase {
	return &ShortageUseCase{txRunner: txRunner}
}

// ComputeShortages lee sobre una foto consistente. Con unorderedOnly solo cuentan las
// líneas que ninguna orden de compra cubre todavía.
func (uc *ShortageUseCase) ComputeShortages(ctx context.Context, unorderedOnly bool) ([]entity.Shortage, error) {
	var out []entity.Shortage
	err := uc.txRunner.RunReadOnly(ctx, func(repos Repos) error {
		var err error
		out, err = ComputeShortagesInTx(ctx, repos, unorderedOnly)
		return err
	})
	return out, err
}

// ComputeShortagesInTx variante para llamadores que ya tienen una foto abierta (dashboard).
func ComputeShortagesInTx(ctx context.Context, repos Repos, unorderedOnly bool) ([]entity.Shortage, error) {
	lines, err := repos.Requirements.ListOpenLines(ctx)
	if err != nil {
		return nil, err
	}
	items := make(map[string]*entity.Item)
	stock := make(map[string]int)
	for _, l := range lines {
		if _, ok := items[l.ItemID]; ok {
			continue
		}
		item, err := repos.Items.GetByID(ctx, l.ItemID)
		if err != nil {
			return nil, err
		}
		items[l.ItemID] = item
		s, err := repos.Stock.Get(ctx, l.ItemID)
		if err != nil {
			return nil, err
		}
		if s != nil {
			stock[l.ItemID] = s.CurrentQuantity
		}
	}
	return domaininv.AggregateShortages(lines, items, stock, unorderedOnly), nil
}

