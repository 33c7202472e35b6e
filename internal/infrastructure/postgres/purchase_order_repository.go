package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/inventario-taller/internal/domain"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
	"github.com/jhoicas/inventario-taller/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const (
	purchaseOrderColumns = `id, po_number, supplier_name, expected_delivery_date, status, total_amount, created_at, received_at`
	invoiceColumns       = `id, purchase_order_id, invoice_number, invoice_date, amount, description, created_at`
)

// PurchaseOrderRepo órdenes de compra, líneas y facturas sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create inserta cabecera, líneas (en orden) y facturas iniciales.
func (r *PurchaseOrderRepo) Create(ctx context.Context, po *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO purchase_orders (`+purchaseOrderColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		po.ID, po.Number, po.SupplierName, po.ExpectedDeliveryDate, string(po.Status), po.TotalAmount, po.CreatedAt, po.ReceivedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert purchase order: %w", err)
	}
	for i, l := range po.Lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_order_items
				(id, purchase_order_id, position, item_id, quantity, received_quantity, unit_price, total_price)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			l.ID, po.ID, i, l.ItemID, l.Quantity, l.ReceivedQuantity, l.UnitPrice, l.TotalPrice,
		)
		if err != nil {
			if isForeignKeyViolation(err) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("insert purchase order line: %w", err)
		}
	}
	for i := range po.Invoices {
		if err := r.AddInvoice(ctx, &po.Invoices[i]); err != nil {
			return err
		}
	}
	return nil
}

// GetByID carga la orden con líneas y facturas.
func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.load(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1`, id)
}

// GetForUpdate igual que GetByID bloqueando la cabecera.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.load(ctx, `SELECT `+purchaseOrderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *PurchaseOrderRepo) load(ctx context.Context, query, id string) (*entity.PurchaseOrder, error) {
	po, err := scanPurchaseOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if po.Lines, err = r.lines(ctx, po.ID); err != nil {
		return nil, err
	}
	if po.Invoices, err = r.ListInvoices(ctx, po.ID); err != nil {
		return nil, err
	}
	return po, nil
}

func (r *PurchaseOrderRepo) lines(ctx context.Context, orderID string) ([]entity.PurchaseOrderLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, purchase_order_id, item_id, quantity, received_quantity, unit_price, total_price
		FROM purchase_order_items WHERE purchase_order_id = $1 ORDER BY position`, orderID)
	if err != nil {
		return nil, fmt.Errorf("list purchase order lines: %w", err)
	}
	defer rows.Close()
	lines := make([]entity.PurchaseOrderLine, 0)
	for rows.Next() {
		var l entity.PurchaseOrderLine
		if err := rows.Scan(&l.ID, &l.PurchaseOrderID, &l.ItemID, &l.Quantity, &l.ReceivedQuantity, &l.UnitPrice, &l.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan purchase order line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// UpdateReceipt persiste estado, received_at y received_quantity por línea.
func (r *PurchaseOrderRepo) UpdateReceipt(ctx context.Context, po *entity.PurchaseOrder) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE purchase_orders SET status = $2, received_at = $3 WHERE id = $1`,
		po.ID, string(po.Status), po.ReceivedAt,
	)
	if err != nil {
		return fmt.Errorf("update purchase order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	for _, l := range po.Lines {
		_, err := r.q.Exec(ctx,
			`UPDATE purchase_order_items SET received_quantity = $2 WHERE id = $1`,
			l.ID, l.ReceivedQuantity,
		)
		if err != nil {
			if isCheckViolation(err) {
				return domain.ErrOverReceipt
			}
			return fmt.Errorf("update purchase order line: %w", err)
		}
	}
	return nil
}

// List órdenes más recientes primero, con líneas y facturas.
func (r *PurchaseOrderRepo) List(ctx context.Context, limit, offset int) ([]*entity.PurchaseOrder, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+purchaseOrderColumns+` FROM purchase_orders ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`,
		nullLimit(limit), offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	list := make([]*entity.PurchaseOrder, 0)
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, po)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Las líneas se cargan después de cerrar rows: una tx no admite consultas concurrentes.
	for _, po := range list {
		if po.Lines, err = r.lines(ctx, po.ID); err != nil {
			return nil, err
		}
		if po.Invoices, err = r.ListInvoices(ctx, po.ID); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// Count total de órdenes.
func (r *PurchaseOrderRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM purchase_orders`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count purchase orders: %w", err)
	}
	return n, nil
}

// ── Facturas ─────────────────────────────────────────────────────────────────

// AddInvoice agrega una factura a una orden.
func (r *PurchaseOrderRepo) AddInvoice(ctx context.Context, inv *entity.Invoice) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO invoices (`+invoiceColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		inv.ID, inv.PurchaseOrderID, inv.Number, inv.Date, inv.Amount, inv.Description, inv.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetInvoice obtiene una factura por ID.
func (r *PurchaseOrderRepo) GetInvoice(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// UpdateInvoice actualiza número, fecha, monto y descripción.
func (r *PurchaseOrderRepo) UpdateInvoice(ctx context.Context, inv *entity.Invoice) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices SET invoice_number = $2, invoice_date = $3, amount = $4, description = $5
		WHERE id = $1`,
		inv.ID, inv.Number, inv.Date, inv.Amount, inv.Description,
	)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteInvoice elimina una factura.
func (r *PurchaseOrderRepo) DeleteInvoice(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListInvoices facturas de una orden por fecha de registro.
func (r *PurchaseOrderRepo) ListInvoices(ctx context.Context, purchaseOrderID string) ([]entity.Invoice, error) {
	rows, err := r.q.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE purchase_order_id = $1 ORDER BY created_at, id`,
		purchaseOrderID,
	)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	list := make([]entity.Invoice, 0)
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, *inv)
	}
	return list, rows.Err()
}

func scanPurchaseOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var (
		po     entity.PurchaseOrder
		status string
	)
	err := row.Scan(&po.ID, &po.Number, &po.SupplierName, &po.ExpectedDeliveryDate, &status, &po.TotalAmount, &po.CreatedAt, &po.ReceivedAt)
	if err != nil {
		return nil, err
	}
	po.Status = entity.PurchaseOrderStatus(status)
	if !po.Status.Valid() {
		return nil, fmt.Errorf("purchase order %s: estado desconocido %q", po.ID, status)
	}
	return &po, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	if err := row.Scan(&inv.ID, &inv.PurchaseOrderID, &inv.Number, &inv.Date, &inv.Amount, &inv.Description, &inv.CreatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}
