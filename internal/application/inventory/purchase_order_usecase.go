package inventory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-taller/internal/domain"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// PurchaseOrderLineInput línea solicitada al crear una orden.
type PurchaseOrderLineInput struct {
	ItemID    string
	Quantity  int
	UnitPrice decimal.Decimal
}

// InvoiceInput factura adjunta a una recepción o agregada después.
type InvoiceInput struct {
	Number      string
	Date        *time.Time
	Amount      decimal.Decimal
	Description string
}

// InvoicePatch actualización campo a campo de una factura; nil = sin cambio.
type InvoicePatch struct {
	Number      *string
	Date        *time.Time
	Amount      *decimal.Decimal
	Description *string
}

// CreatePurchaseOrderInput entrada para Create.
type CreatePurchaseOrderInput struct {
	SupplierName         string
	ExpectedDeliveryDate *time.Time
	Lines                []PurchaseOrderLineInput
}

// ReceiptInput recepción de una cantidad. LineID es opcional; sin él se usa la primera
// línea del ítem con saldo pendiente.
type ReceiptInput struct {
	ItemID   string
	LineID   string
	Quantity int
}

// PurchaseOrderUseCase creación y recepción de órdenes de compra.
// El modelo por línea (received_quantity) es la única fuente de verdad del estado;
// Receive es un envoltorio que recibe el saldo de todas las líneas.
type PurchaseOrderUseCase struct {
	txRunner TxRunner
	tracker  *StockTracker
	recorder *Recorder
	now      Clock
	log      zerolog.Logger
}

// NewPurchaseOrderUseCase construye el caso de uso. now nil usa time.Now.
func NewPurchaseOrderUseCase(txRunner TxRunner, now Clock, log zerolog.Logger) *PurchaseOrderUseCase {
	if now == nil {
		now = time.Now
	}
	return &PurchaseOrderUseCase{
		txRunner: txRunner,
		tracker:  NewStockTracker(now),
		recorder: NewRecorder(now),
		now:      now,
		log:      log,
	}
}

// Create crea la orden en estado Pending y marca como ordenadas las líneas de
// requerimientos abiertos de los mismos ítems, en la misma transacción.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, in CreatePurchaseOrderInput) (*entity.PurchaseOrder, error) {
	if strings.TrimSpace(in.SupplierName) == "" {
		return nil, domain.ErrInvalidInput
	}
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidLine
	}
	for _, l := range in.Lines {
		if l.ItemID == "" || l.Quantity <= 0 || l.Quantity > maxStockQuantity || l.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidLine
		}
	}

	now := uc.now()
	po := &entity.PurchaseOrder{
		ID:                   uuid.New().String(),
		Number:               newPurchaseOrderNumber(),
		SupplierName:         strings.TrimSpace(in.SupplierName),
		ExpectedDeliveryDate: in.ExpectedDeliveryDate,
		Status:               entity.PurchaseOrderPending,
		TotalAmount:          decimal.Zero,
		CreatedAt:            now,
		Lines:                make([]entity.PurchaseOrderLine, 0, len(in.Lines)),
	}
	for _, l := range in.Lines {
		total := l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		po.Lines = append(po.Lines, entity.PurchaseOrderLine{
			ID:              uuid.New().String(),
			PurchaseOrderID: po.ID,
			ItemID:          l.ItemID,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			TotalPrice:      total,
		})
		po.TotalAmount = po.TotalAmount.Add(total)
	}
	itemIDs := distinctLineItems(po.Lines)

	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		for _, id := range itemIDs {
			item, err := repos.Items.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if item == nil {
				return domain.ErrNotFound
			}
		}
		if err := repos.PurchaseOrders.Create(ctx, po); err != nil {
			return err
		}
		for _, id := range itemIDs {
			if _, err := repos.Requirements.MarkOrdered(ctx, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("supplier", po.SupplierName).Msg("orden de compra rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("purchase_order_id", po.ID).
		Str("number", po.Number).
		Int("lines", len(po.Lines)).
		Str("total", po.TotalAmount.String()).
		Msg("orden de compra creada")
	return po, nil
}

// Receive recibe el saldo pendiente de todas las líneas. Una segunda llamada sobre una
// orden ya recibida devuelve domain.ErrAlreadyReceived sin modificar nada.
func (uc *PurchaseOrderUseCase) Receive(ctx context.Context, orderID string, invoices []InvoiceInput) (*entity.PurchaseOrder, error) {
	if err := validateInvoices(invoices); err != nil {
		return nil, err
	}
	var out *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		po, err := uc.lockOpenOrder(ctx, repos, orderID)
		if err != nil {
			return err
		}
		if po.Status == entity.PurchaseOrderReceived {
			return domain.ErrAlreadyReceived
		}
		deltas := make([]receiptDelta, 0, len(po.Lines))
		for i := range po.Lines {
			if n := po.Lines[i].Outstanding(); n > 0 {
				po.Lines[i].ReceivedQuantity += n
				deltas = append(deltas, receiptDelta{itemID: po.Lines[i].ItemID, qty: n})
			}
		}
		if err := uc.credit(ctx, repos, po, deltas); err != nil {
			return err
		}
		if err := uc.finishReceipt(ctx, repos, po, invoices); err != nil {
			return err
		}
		out = po
		return nil
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("purchase_order_id", orderID).Msg("recepción rechazada")
		return nil, err
	}
	uc.log.Info().Str("purchase_order_id", out.ID).Str("status", string(out.Status)).Msg("orden de compra recibida")
	return out, nil
}

// ReceivePartial aplica recepciones parciales. Si alguna excede lo ordenado en su línea
// devuelve domain.ErrOverReceipt y no se aplica ninguna.
func (uc *PurchaseOrderUseCase) ReceivePartial(
	ctx context.Context,
	orderID string,
	receipts []ReceiptInput,
	invoices []InvoiceInput,
) (*entity.PurchaseOrder, error) {
	if len(receipts) == 0 {
		return nil, domain.ErrInvalidLine
	}
	for _, r := range receipts {
		if r.Quantity <= 0 || (r.ItemID == "" && r.LineID == "") {
			return nil, domain.ErrInvalidLine
		}
	}
	if err := validateInvoices(invoices); err != nil {
		return nil, err
	}

	var out *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		po, err := uc.lockOpenOrder(ctx, repos, orderID)
		if err != nil {
			return err
		}
		deltas := make([]receiptDelta, 0, len(receipts))
		for _, r := range receipts {
			idx := matchReceiptLine(po.Lines, r)
			if idx < 0 {
				return domain.ErrNotFound
			}
			line := &po.Lines[idx]
			if r.Quantity > line.Outstanding() {
				return domain.ErrOverReceipt
			}
			line.ReceivedQuantity += r.Quantity
			deltas = append(deltas, receiptDelta{itemID: line.ItemID, qty: r.Quantity})
		}
		if err := uc.credit(ctx, repos, po, deltas); err != nil {
			return err
		}
		if err := uc.finishReceipt(ctx, repos, po, invoices); err != nil {
			return err
		}
		out = po
		return nil
	})
	if err != nil {
		uc.log.Debug().Err(err).Str("purchase_order_id", orderID).Msg("recepción parcial rechazada")
		return nil, err
	}
	uc.log.Info().
		Str("purchase_order_id", out.ID).
		Int("receipts", len(receipts)).
		Str("status", string(out.Status)).
		Msg("recepción parcial registrada")
	return out, nil
}

// Cancel cancela una orden Pending sin recepciones.
func (uc *PurchaseOrderUseCase) Cancel(ctx context.Context, orderID string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		po, err := repos.PurchaseOrders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		if po.Status != entity.PurchaseOrderPending || po.HasReceipts() {
			return domain.ErrInvalidTransition
		}
		po.Status = entity.PurchaseOrderCancelled
		if err := repos.PurchaseOrders.UpdateReceipt(ctx, po); err != nil {
			return err
		}
		out = po
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("purchase_order_id", out.ID).Msg("orden de compra cancelada")
	return out, nil
}

// Get obtiene una orden con líneas y facturas.
func (uc *PurchaseOrderUseCase) Get(ctx context.Context, orderID string) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := uc.txRunner.RunReadOnly(ctx, func(repos Repos) error {
		po, err := repos.PurchaseOrders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		out = po
		return nil
	})
	return out, err
}

// List órdenes más recientes primero.
func (uc *PurchaseOrderUseCase) List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := uc.txRunner.RunReadOnly(ctx, func(repos Repos) error {
		var err error
		out, err = repos.PurchaseOrders.List(ctx, limit, offset)
		return err
	})
	return out, err
}

// ── Facturas ─────────────────────────────────────────────────────────────────

// ListInvoices facturas de una orden.
func (uc *PurchaseOrderUseCase) ListInvoices(ctx context.Context, orderID string) ([]entity.Invoice, error) {
	var out []entity.Invoice
	err := uc.txRunner.RunReadOnly(ctx, func(repos Repos) error {
		po, err := repos.PurchaseOrders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		out, err = repos.PurchaseOrders.ListInvoices(ctx, orderID)
		return err
	})
	return out, err
}

// AddInvoice agrega una factura a una orden existente.
func (uc *PurchaseOrderUseCase) AddInvoice(ctx context.Context, orderID string, in InvoiceInput) (*entity.Invoice, error) {
	if err := validateInvoices([]InvoiceInput{in}); err != nil {
		return nil, err
	}
	inv := uc.newInvoice(orderID, in)
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		po, err := repos.PurchaseOrders.GetByID(ctx, orderID)
		if err != nil {
			return err
		}
		if po == nil {
			return domain.ErrNotFound
		}
		return repos.PurchaseOrders.AddInvoice(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// UpdateInvoice actualiza una factura campo a campo.
func (uc *PurchaseOrderUseCase) UpdateInvoice(ctx context.Context, invoiceID string, patch InvoicePatch) (*entity.Invoice, error) {
	if patch.Number != nil && strings.TrimSpace(*patch.Number) == "" {
		return nil, domain.ErrInvalidInput
	}
	if patch.Amount != nil && patch.Amount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.Invoice
	err := uc.txRunner.Run(ctx, func(repos Repos) error {
		inv, err := repos.PurchaseOrders.GetInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if patch.Number != nil {
			inv.Number = strings.TrimSpace(*patch.Number)
		}
		if patch.Date != nil {
			d := *patch.Date
			inv.Date = &d
		}
		if patch.Amount != nil {
			inv.Amount = *patch.Amount
		}
		if patch.Description != nil {
			inv.Description = *patch.Description
		}
		if err := repos.PurchaseOrders.UpdateInvoice(ctx, inv); err != nil {
			return err
		}
		out = inv
		return nil
	})
	return out, err
}

// DeleteInvoice elimina una factura.
func (uc *PurchaseOrderUseCase) DeleteInvoice(ctx context.Context, invoiceID string) error {
	return uc.txRunner.Run(ctx, func(repos Repos) error {
		inv, err := repos.PurchaseOrders.GetInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		return repos.PurchaseOrders.DeleteInvoice(ctx, invoiceID)
	})
}

// ── Internos ─────────────────────────────────────────────────────────────────

type receiptDelta struct {
	itemID string
	qty    int
}

// lockOpenOrder bloquea la cabecera y rechaza órdenes inexistentes o canceladas.
func (uc *PurchaseOrderUseCase) lockOpenOrder(ctx context.Context, repos Repos, orderID string) (*entity.PurchaseOrder, error) {
	po, err := repos.PurchaseOrders.GetForUpdate(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if po.Status == entity.PurchaseOrderCancelled {
		return nil, domain.ErrOrderCancelled
	}
	return po, nil
}

// credit suma stock y registra un movimiento Purchase por cada delta. Las filas de stock
// se bloquean en orden ascendente de item_id.
func (uc *PurchaseOrderUseCase) credit(ctx context.Context, repos Repos, po *entity.PurchaseOrder, deltas []receiptDelta) error {
	sort.SliceStable(deltas, func(i, j int) bool { return deltas[i].itemID < deltas[j].itemID })
	ref := Reference{PurchaseOrderID: po.ID}
	for _, d := range deltas {
		if _, err := uc.tracker.Increase(ctx, repos, d.itemID, d.qty); err != nil {
			return err
		}
		if _, err := uc.recorder.Record(ctx, repos, d.itemID, entity.ActionPurchase, d.qty, ref); err != nil {
			return err
		}
	}
	return nil
}

// finishReceipt recalcula el estado desde las líneas, sella received_at la primera vez
// que la orden queda recibida y agrega las facturas.
func (uc *PurchaseOrderUseCase) finishReceipt(ctx context.Context, repos Repos, po *entity.PurchaseOrder, invoices []InvoiceInput) error {
	po.Status = entity.DerivePurchaseOrderStatus(po.Lines)
	if po.Status == entity.PurchaseOrderReceived && po.ReceivedAt == nil {
		t := uc.now()
		po.ReceivedAt = &t
	}
	if err := repos.PurchaseOrders.UpdateReceipt(ctx, po); err != nil {
		return err
	}
	for _, in := range invoices {
		inv := uc.newInvoice(po.ID, in)
		if err := repos.PurchaseOrders.AddInvoice(ctx, inv); err != nil {
			return err
		}
		po.Invoices = append(po.Invoices, *inv)
	}
	return nil
}

func (uc *PurchaseOrderUseCase) newInvoice(orderID string, in InvoiceInput) *entity.Invoice {
	return &entity.Invoice{
		ID:              uuid.New().String(),
		PurchaseOrderID: orderID,
		Number:          strings.TrimSpace(in.Number),
		Date:            in.Date,
		Amount:          in.Amount,
		Description:     in.Description,
		CreatedAt:       uc.now(),
	}
}

// matchReceiptLine resuelve la línea de una recepción: LineID explícito; si no, la
// primera línea del ítem con saldo; si ninguna tiene saldo, la primera del ítem.
func matchReceiptLine(lines []entity.PurchaseOrderLine, r ReceiptInput) int {
	if r.LineID != "" {
		for i, l := range lines {
			if l.ID == r.LineID && (r.ItemID == "" || r.ItemID == l.ItemID) {
				return i
			}
		}
		return -1
	}
	first := -1
	for i, l := range lines {
		if l.ItemID != r.ItemID {
			continue
		}
		if first < 0 {
			first = i
		}
		if l.Outstanding() > 0 {
			return i
		}
	}
	return first
}

func validateInvoices(invoices []InvoiceInput) error {
	for _, in := range invoices {
		if strings.TrimSpace(in.Number) == "" || in.Amount.IsNegative() {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

func distinctLineItems(lines []entity.PurchaseOrderLine) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ItemID]; ok {
			continue
		}
		seen[l.ItemID] = struct{}{}
		out = append(out, l.ItemID)
	}
	sort.Strings(out)
	return out
}

// newPurchaseOrderNumber genera el número visible de la orden (PO-XXXXXXXX).
func newPurchaseOrderNumber() string {
	return "PO-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}
