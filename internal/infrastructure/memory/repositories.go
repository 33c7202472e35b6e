package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventario-taller/internal/domain"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
	"github.com/jhoicas/inventario-taller/internal/domain/repository"
)

var (
	_ repository.ItemRepository          = (*itemRepo)(nil)
	_ repository.StockRepository         = (*stockRepo)(nil)
	_ repository.PurchaseOrderRepository = (*purchaseOrderRepo)(nil)
	_ repository.RequirementRepository   = (*requirementRepo)(nil)
	_ repository.TransactionRepository   = (*transactionRepo)(nil)
)

// ── Items ────────────────────────────────────────────────────────────────────

type itemRepo struct {
	st       *state
	readOnly bool
}

func (r *itemRepo) Create(_ context.Context, item *entity.Item) error {
	if r.readOnly {
		return errReadOnly
	}
	for _, it := range r.st.items {
		if it.Code == item.Code {
			return domain.ErrDuplicateCode
		}
	}
	r.st.items[item.ID] = *item
	return nil
}

func (r *itemRepo) GetByID(_ context.Context, id string) (*entity.Item, error) {
	it, ok := r.st.items[id]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func (r *itemRepo) GetByCode(_ context.Context, code string) (*entity.Item, error) {
	for _, it := range r.st.items {
		if it.Code == code {
			found := it
			return &found, nil
		}
	}
	return nil, nil
}

func (r *itemRepo) Update(_ context.Context, item *entity.Item) error {
	if r.readOnly {
		return errReadOnly
	}
	if _, ok := r.st.items[item.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, it := range r.st.items {
		if id != item.ID && it.Code == item.Code {
			return domain.ErrDuplicateCode
		}
	}
	r.st.items[item.ID] = *item
	return nil
}

func (r *itemRepo) List(_ context.Context, limit, offset int) ([]*entity.Item, error) {
	all := make([]entity.Item, 0, len(r.st.items))
	for _, it := range r.st.items {
		all = append(all, it)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Code < all[j].Code })
	from, to := page(len(all), limit, offset)
	out := make([]*entity.Item, 0, to-from)
	for i := from; i < to; i++ {
		it := all[i]
		out = append(out, &it)
	}
	return out, nil
}

// ── Stock ────────────────────────────────────────────────────────────────────

type stockRepo struct {
	st       *state
	readOnly bool
}

func (r *stockRepo) Get(_ context.Context, itemID string) (*entity.Stock, error) {
	s, ok := r.st.stock[itemID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// GetForUpdate el mutex del Store ya serializa a los escritores.
func (r *stockRepo) GetForUpdate(ctx context.Context, itemID string) (*entity.Stock, error) {
	return r.Get(ctx, itemID)
}

func (r *stockRepo) Ensure(_ context.Context, itemID string) error {
	if r.readOnly {
		return errReadOnly
	}
	if _, ok := r.st.items[itemID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.st.stock[itemID]; !ok {
		r.st.stock[itemID] = entity.Stock{ItemID: itemID, LastUpdated: time.Now()}
	}
	return nil
}

func (r *stockRepo) Upsert(_ context.Context, s *entity.Stock) error {
	if r.readOnly {
		return errReadOnly
	}
	if s.CurrentQuantity < 0 {
		return domain.ErrInsufficientStock
	}
	r.st.stock[s.ItemID] = *s
	return nil
}

func (r *stockRepo) List(_ context.Context, limit, offset int) ([]*entity.Stock, error) {
	all := make([]entity.Stock, 0, len(r.st.stock))
	for _, s := range r.st.stock {
		all = append(all, s)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ItemID < all[j].ItemID })
	from, to := page(len(all), limit, offset)
	out := make([]*entity.Stock, 0, to-from)
	for i := from; i < to; i++ {
		s := all[i]
		out = append(out, &s)
	}
	return out, nil
}

func (r *stockRepo) Count(_ context.Context) (int, error) {
	return len(r.st.stock), nil
}

// ── Purchase orders ──────────────────────────────────────────────────────────

type purchaseOrderRepo struct {
	st       *state
	readOnly bool
}

func (r *purchaseOrderRepo) Create(_ context.Context, po *entity.PurchaseOrder) error {
	if r.readOnly {
		return errReadOnly
	}
	for _, row := range r.st.orders {
		if row.po.Number == po.Number {
			return domain.ErrDuplicate
		}
	}
	r.st.orders[po.ID] = orderRow{seq: r.st.next(), po: copyOrder(*po)}
	return nil
}

func (r *purchaseOrderRepo) GetByID(_ context.Context, id string) (*entity.PurchaseOrder, error) {
	row, ok := r.st.orders[id]
	if !ok {
		return nil, nil
	}
	po := copyOrder(row.po)
	return &po, nil
}

func (r *purchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id)
}

func (r *purchaseOrderRepo) UpdateReceipt(_ context.Context, po *entity.PurchaseOrder) error {
	if r.readOnly {
		return errReadOnly
	}
	row, ok := r.st.orders[po.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored := row.po
	stored.Status = po.Status
	stored.ReceivedAt = po.ReceivedAt
	received := make(map[string]int, len(po.Lines))
	for _, l := range po.Lines {
		received[l.ID] = l.ReceivedQuantity
	}
	stored.Lines = append([]entity.PurchaseOrderLine(nil), stored.Lines...)
	for i := range stored.Lines {
		if q, ok := received[stored.Lines[i].ID]; ok {
			if q < 0 || q > stored.Lines[i].Quantity {
				return domain.ErrOverReceipt
			}
			stored.Lines[i].ReceivedQuantity = q
		}
	}
	r.st.orders[po.ID] = orderRow{seq: row.seq, po: copyOrder(stored)}
	return nil
}

func (r *purchaseOrderRepo) List(_ context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	rows := make([]orderRow, 0, len(r.st.orders))
	for _, row := range r.st.orders {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	from, to := page(len(rows), limit, offset)
	out := make([]*entity.PurchaseOrder, 0, to-from)
	for i := from; i < to; i++ {
		po := copyOrder(rows[i].po)
		out = append(out, &po)
	}
	return out, nil
}

func (r *purchaseOrderRepo) Count(_ context.Context) (int, error) {
	return len(r.st.orders), nil
}

func (r *purchaseOrderRepo) AddInvoice(_ context.Context, inv *entity.Invoice) error {
	if r.readOnly {
		return errReadOnly
	}
	row, ok := r.st.orders[inv.PurchaseOrderID]
	if !ok {
		return domain.ErrNotFound
	}
	po := copyOrder(row.po)
	po.Invoices = append(po.Invoices, *inv)
	r.st.orders[po.ID] = orderRow{seq: row.seq, po: po}
	return nil
}

func (r *purchaseOrderRepo) GetInvoice(_ context.Context, id string) (*entity.Invoice, error) {
	for _, row := range r.st.orders {
		for _, inv := range row.po.Invoices {
			if inv.ID == id {
				found := inv
				return &found, nil
			}
		}
	}
	return nil, nil
}

func (r *purchaseOrderRepo) UpdateInvoice(_ context.Context, inv *entity.Invoice) error {
	if r.readOnly {
		return errReadOnly
	}
	return r.mutateInvoice(inv.ID, func(invs []entity.Invoice, i int) []entity.Invoice {
		invs[i] = *inv
		return invs
	})
}

func (r *purchaseOrderRepo) DeleteInvoice(_ context.Context, id string) error {
	if r.readOnly {
		return errReadOnly
	}
	return r.mutateInvoice(id, func(invs []entity.Invoice, i int) []entity.Invoice {
		return append(invs[:i], invs[i+1:]...)
	})
}

func (r *purchaseOrderRepo) mutateInvoice(id string, fn func([]entity.Invoice, int) []entity.Invoice) error {
	for key, row := range r.st.orders {
		for i, inv := range row.po.Invoices {
			if inv.ID != id {
				continue
			}
			po := copyOrder(row.po)
			po.Invoices = fn(po.Invoices, i)
			r.st.orders[key] = orderRow{seq: row.seq, po: po}
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *purchaseOrderRepo) ListInvoices(_ context.Context, purchaseOrderID string) ([]entity.Invoice, error) {
	row, ok := r.st.orders[purchaseOrderID]
	if !ok {
		return []entity.Invoice{}, nil
	}
	return append([]entity.Invoice{}, row.po.Invoices...), nil
}

// ── Requirements ─────────────────────────────────────────────────────────────

type requirementRepo struct {
	st       *state
	readOnly bool
}

func (r *requirementRepo) Create(_ context.Context, req *entity.Requirement) error {
	if r.readOnly {
		return errReadOnly
	}
	r.st.requirements[req.ID] = requirementRow{seq: r.st.next(), req: copyRequirement(*req)}
	return nil
}

func (r *requirementRepo) GetByID(_ context.Context, id string) (*entity.Requirement, error) {
	row, ok := r.st.requirements[id]
	if !ok {
		return nil, nil
	}
	req := copyRequirement(row.req)
	return &req, nil
}

func (r *requirementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Requirement, error) {
	return r.GetByID(ctx, id)
}

func (r *requirementRepo) UpdateProgress(_ context.Context, req *entity.Requirement) error {
	if r.readOnly {
		return errReadOnly
	}
	row, ok := r.st.requirements[req.ID]
	if !ok {
		return domain.ErrNotFound
	}
	stored := copyRequirement(row.req)
	stored.Status = req.Status
	stored.CompletedAt = req.CompletedAt
	issued := make(map[string]int, len(req.Lines))
	for _, l := range req.Lines {
		issued[l.ID] = l.QuantityIssued
	}
	for i := range stored.Lines {
		if q, ok := issued[stored.Lines[i].ID]; ok {
			if q < 0 || q > stored.Lines[i].QuantityNeeded {
				return domain.ErrInvalidLine
			}
			stored.Lines[i].QuantityIssued = q
		}
	}
	r.st.requirements[req.ID] = requirementRow{seq: row.seq, req: stored}
	return nil
}

func (r *requirementRepo) MarkOrdered(_ context.Context, itemID string) (int, error) {
	if r.readOnly {
		return 0, errReadOnly
	}
	n := 0
	for key, row := range r.st.requirements {
		changed := false
		req := copyRequirement(row.req)
		for i := range req.Lines {
			l := &req.Lines[i]
			if l.ItemID == itemID && !l.Ordered && l.QuantityIssued < l.QuantityNeeded {
				l.Ordered = true
				changed = true
				n++
			}
		}
		if changed {
			r.st.requirements[key] = requirementRow{seq: row.seq, req: req}
		}
	}
	return n, nil
}

func (r *requirementRepo) ListOpenLines(_ context.Context) ([]entity.OpenRequirementLine, error) {
	rows := r.sortedRows(false)
	out := make([]entity.OpenRequirementLine, 0)
	for _, row := range rows {
		for _, l := range row.req.Lines {
			if n := l.Outstanding(); n > 0 {
				out = append(out, entity.OpenRequirementLine{
					RequirementID: row.req.ID,
					ProjectName:   row.req.ProjectName,
					ItemID:        l.ItemID,
					Outstanding:   n,
					Ordered:       l.Ordered,
				})
			}
		}
	}
	return out, nil
}

func (r *requirementRepo) List(_ context.Context, limit, offset int) ([]*entity.Requirement, error) {
	rows := r.sortedRows(true)
	from, to := page(len(rows), limit, offset)
	out := make([]*entity.Requirement, 0, to-from)
	for i := from; i < to; i++ {
		req := copyRequirement(rows[i].req)
		out = append(out, &req)
	}
	return out, nil
}

func (r *requirementRepo) CountByStatus(_ context.Context, status entity.RequirementStatus) (int, error) {
	n := 0
	for _, row := range r.st.requirements {
		if row.req.Status == status {
			n++
		}
	}
	return n, nil
}

func (r *requirementRepo) sortedRows(newestFirst bool) []requirementRow {
	rows := make([]requirementRow, 0, len(r.st.requirements))
	for _, row := range r.st.requirements {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if newestFirst {
			return rows[i].seq > rows[j].seq
		}
		return rows[i].seq < rows[j].seq
	})
	return rows
}

// ── Transactions ─────────────────────────────────────────────────────────────

type transactionRepo struct {
	st       *state
	readOnly bool
}

func (r *transactionRepo) Create(_ context.Context, tx *entity.Transaction) error {
	if r.readOnly {
		return errReadOnly
	}
	if tx.Quantity <= 0 {
		return domain.ErrInvalidInput
	}
	r.st.transactions = append(r.st.transactions, *tx)
	return nil
}

func (r *transactionRepo) List(_ context.Context, limit, offset int) ([]*entity.Transaction, error) {
	n := len(r.st.transactions)
	from, to := page(n, limit, offset)
	out := make([]*entity.Transaction, 0, to-from)
	for i := from; i < to; i++ {
		t := r.st.transactions[n-1-i]
		out = append(out, &t)
	}
	return out, nil
}

func (r *transactionRepo) ListByItem(_ context.Context, itemID string) ([]*entity.Transaction, error) {
	out := make([]*entity.Transaction, 0)
	for i := len(r.st.transactions) - 1; i >= 0; i-- {
		if r.st.transactions[i].ItemID == itemID {
			t := r.st.transactions[i]
			out = append(out, &t)
		}
	}
	return out, nil
}
