package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-taller/internal/application/dto"
	"github.com/jhoicas/inventario-taller/internal/application/inventory"
)

// PurchaseOrderHandler órdenes de compra, recepciones y facturas (protegido).
type PurchaseOrderHandler struct {
	uc  *inventory.PurchaseOrderUseCase
	pdf *inventory.PDFUseCase
}

// NewPurchaseOrderHandler construye el handler.
func NewPurchaseOrderHandler(uc *inventory.PurchaseOrderUseCase, pdf *inventory.PDFUseCase) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{uc: uc, pdf: pdf}
}

// Create godoc
// @Summary      Crear orden de compra
// @Description  Queda en Pending y marca como ordenadas las líneas abiertas de requerimientos de los mismos ítems.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "supplier_name, expected_delivery_date, items"
// @Success      201   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if strings.TrimSpace(in.SupplierName) == "" || len(in.Items) == 0 {
		return validation(c, "supplier_name e items son requeridos")
	}
	expected, err := dto.ParseDate(in.ExpectedDeliveryDate)
	if err != nil {
		return validation(c, err.Error())
	}
	lines := make([]inventory.PurchaseOrderLineInput, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, inventory.PurchaseOrderLineInput{ItemID: it.ItemID, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	po, err := h.uc.Create(c.UserContext(), inventory.CreatePurchaseOrderInput{
		SupplierName:         in.SupplierName,
		ExpectedDeliveryDate: expected,
		Lines:                lines,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewPurchaseOrderResponse(po))
}

// List godoc
// @Summary      Listar órdenes de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}   dto.PurchaseOrderResponse
// @Router       /api/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *fiber.Ctx) error {
	p := pageFromQuery(c)
	list, err := h.uc.List(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewPurchaseOrderListResponse(list))
}

// GetByID godoc
// @Summary      Obtener orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) GetByID(c *fiber.Ctx) error {
	po, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewPurchaseOrderResponse(po))
}

// Receive godoc
// @Summary      Recibir orden completa
// @Description  Recibe el saldo pendiente de todas las líneas. Cuerpo opcional con facturas.
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.ReceivePurchaseOrderRequest  false  "invoices"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive [patch]
func (h *PurchaseOrderHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceivePurchaseOrderRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	invoices, err := invoiceInputs(in.Invoices)
	if err != nil {
		return validation(c, err.Error())
	}
	po, err := h.uc.Receive(c.UserContext(), c.Params("id"), invoices)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewPurchaseOrderResponse(po))
}

// ReceivePartial godoc
// @Summary      Recepción parcial
// @Description  Todo o nada: si una recepción excede lo ordenado no se aplica ninguna (422).
// @Tags         purchase-orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.ReceivePartialRequest  true  "receipts, invoices"
// @Success      200   {object}  dto.PurchaseOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/receive-partial [patch]
func (h *PurchaseOrderHandler) ReceivePartial(c *fiber.Ctx) error {
	var in dto.ReceivePartialRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if len(in.Receipts) == 0 {
		return validation(c, "receipts es requerido")
	}
	invoices, err := invoiceInputs(in.Invoices)
	if err != nil {
		return validation(c, err.Error())
	}
	receipts := make([]inventory.ReceiptInput, 0, len(in.Receipts))
	for _, r := range in.Receipts {
		receipts = append(receipts, inventory.ReceiptInput{ItemID: r.ItemID, LineID: r.LineID, Quantity: r.Quantity})
	}
	po, err := h.uc.ReceivePartial(c.UserContext(), c.Params("id"), receipts, invoices)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewPurchaseOrderResponse(po))
}

// Cancel godoc
// @Summary      Cancelar orden (solo admin)
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {object}  dto.PurchaseOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/cancel [patch]
func (h *PurchaseOrderHandler) Cancel(c *fiber.Ctx) error {
	po, err := h.uc.Cancel(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewPurchaseOrderResponse(po))
}

// PDF godoc
// @Summary      PDF de la orden de compra
// @Tags         purchase-orders
// @Security     Bearer
// @Produce      application/pdf
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/pdf [get]
func (h *PurchaseOrderHandler) PDF(c *fiber.Ctx) error {
	body, filename, err := h.pdf.RenderPurchaseOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(body)
}

// ── Facturas ─────────────────────────────────────────────────────────────────

// ListInvoices godoc
// @Summary      Facturas de una orden
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la orden"
// @Success      200  {array}   dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/invoices [get]
func (h *PurchaseOrderHandler) ListInvoices(c *fiber.Ctx) error {
	list, err := h.uc.ListInvoices(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewInvoiceListResponse(list))
}

// AddInvoice godoc
// @Summary      Agregar factura a una orden
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la orden"
// @Param        body  body  dto.InvoiceRequest  true  "Factura"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/purchase-orders/{id}/invoices [post]
func (h *PurchaseOrderHandler) AddInvoice(c *fiber.Ctx) error {
	var in dto.InvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	inputs, err := invoiceInputs([]dto.InvoiceRequest{in})
	if err != nil {
		return validation(c, err.Error())
	}
	inv, err := h.uc.AddInvoice(c.UserContext(), c.Params("id"), inputs[0])
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewInvoiceResponse(*inv))
}

// UpdateInvoice godoc
// @Summary      Actualizar factura
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la factura"
// @Param        body  body  dto.UpdateInvoiceRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [put]
func (h *PurchaseOrderHandler) UpdateInvoice(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	patch := inventory.InvoicePatch{
		Number:      in.InvoiceNumber,
		Amount:      in.Amount,
		Description: in.Description,
	}
	if in.InvoiceDate != nil {
		d, err := dto.ParseDate(*in.InvoiceDate)
		if err != nil {
			return validation(c, err.Error())
		}
		patch.Date = d
	}
	inv, err := h.uc.UpdateInvoice(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewInvoiceResponse(*inv))
}

// DeleteInvoice godoc
// @Summary      Eliminar factura (solo admin)
// @Tags         invoices
// @Security     Bearer
// @Param        id   path  string  true  "ID de la factura"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *PurchaseOrderHandler) DeleteInvoice(c *fiber.Ctx) error {
	if err := h.uc.DeleteInvoice(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func invoiceInputs(list []dto.InvoiceRequest) ([]inventory.InvoiceInput, error) {
	out := make([]inventory.InvoiceInput, 0, len(list))
	for _, in := range list {
		d, err := dto.ParseDate(in.InvoiceDate)
		if err != nil {
			return nil, err
		}
		out = append(out, inventory.InvoiceInput{
			Number:      in.InvoiceNumber,
			Date:        d,
			Amount:      in.Amount,
			Description: in.Description,
		})
	}
	return out, nil
}
