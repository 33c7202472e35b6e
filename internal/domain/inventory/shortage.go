package inventory

import (
	"sort"

	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// AggregateShortages agrupa la demanda pendiente por ítem y devuelve los ítems cuya
// demanda supera el stock. stock sin entrada para un ítem cuenta como 0.
// Orden: mayor faltante primero, luego código de ítem ascendente.
func AggregateShortages(
	lines []entity.OpenRequirementLine,
	items map[string]*entity.Item,
	stock map[string]int,
	unorderedOnly bool,
) []entity.Shortage {
	type acc struct {
		total int
		reqs  []entity.ShortageRequirement
		index map[string]int
	}
	byItem := make(map[string]*acc)
	order := make([]string, 0)

	for _, l := range lines {
		if l.Outstanding <= 0 {
			continue
		}
		if unorderedOnly && l.Ordered {
			continue
		}
		a, ok := byItem[l.ItemID]
		if !ok {
			a = &acc{index: make(map[string]int)}
			byItem[l.ItemID] = a
			order = append(order, l.ItemID)
		}
		a.total += l.Outstanding
		// Un requerimiento con varias líneas del mismo ítem se reporta una sola vez.
		if i, seen := a.index[l.RequirementID]; seen {
			a.reqs[i].Outstanding += l.Outstanding
			continue
		}
		a.index[l.RequirementID] = len(a.reqs)
		a.reqs = append(a.reqs, entity.ShortageRequirement{
			RequirementID: l.RequirementID,
			ProjectName:   l.ProjectName,
			Outstanding:   l.Outstanding,
		})
	}

	out := make([]entity.Shortage, 0)
	for _, itemID := range order {
		item, ok := items[itemID]
		if !ok || item == nil {
			continue
		}
		a := byItem[itemID]
		current := stock[itemID]
		if a.total <= current {
			continue
		}
		out = append(out, entity.Shortage{
			Item:          *item,
			TotalRequired: a.total,
			CurrentStock:  current,
			Shortage:      a.total - current,
			Requirements:  a.reqs,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Shortage != out[j].Shortage {
			return out[i].Shortage > out[j].Shortage
		}
		return out[i].Item.Code < out[j].Item.Code
	})
	return out
}
