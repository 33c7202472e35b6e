package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-taller/internal/application/dto"
	"github.com/jhoicas/inventario-taller/internal/application/inventory"
	"github.com/jhoicas/inventario-taller/internal/application/usecase"
)

// InventoryHandler stock, libro de movimientos y faltantes (protegido).
type InventoryHandler struct {
	items     *usecase.ItemUseCase
	shortages *inventory.ShortageUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(items *usecase.ItemUseCase, shortages *inventory.ShortageUseCase) *InventoryHandler {
	return &InventoryHandler{items: items, shortages: shortages}
}

// ListStock godoc
// @Summary      Listar stock
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}   dto.StockResponse
// @Router       /api/stock [get]
func (h *InventoryHandler) ListStock(c *fiber.Ctx) error {
	p := pageFromQuery(c)
	out, err := h.items.ListStock(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetStock godoc
// @Summary      Stock de un ítem
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        item_id  path  string  true  "ID del ítem"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{item_id} [get]
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	out, err := h.items.GetStock(c.UserContext(), c.Params("item_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateStock godoc
// @Summary      Ajustar stock (solo admin)
// @Description  Fija la cantidad disponible; la diferencia queda en el libro como Adjustment In/Out.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        item_id  path  string  true  "ID del ítem"
// @Param        body     body  dto.UpdateStockRequest  true  "current_quantity"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{item_id} [patch]
func (h *InventoryHandler) UpdateStock(c *fiber.Ctx) error {
	var in dto.UpdateStockRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if in.Quantity == nil || *in.Quantity < 0 {
		return validation(c, "current_quantity debe ser >= 0")
	}
	out, err := h.items.UpdateStock(c.UserContext(), c.Params("item_id"), *in.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListTransactions godoc
// @Summary      Libro de movimientos
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}   dto.TransactionResponse
// @Router       /api/transactions [get]
func (h *InventoryHandler) ListTransactions(c *fiber.Ctx) error {
	p := pageFromQuery(c)
	out, err := h.items.ListTransactions(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ToBeOrdered godoc
// @Summary      Ítems por pedir
// @Description  Saldo pendiente de requerimientos contra el stock actual, mayor faltante primero.
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        unordered_only  query  bool  false  "Solo líneas sin orden de compra"  default(true)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions/to-be-ordered [get]
func (h *InventoryHandler) ToBeOrdered(c *fiber.Ctx) error {
	unorderedOnly := true
	if raw := c.Query("unordered_only"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return validation(c, "unordered_only debe ser true o false")
		}
		unorderedOnly = v
	}
	list, err := h.shortages.ComputeShortages(c.UserContext(), unorderedOnly)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"items": dto.NewShortageListResponse(list),
	})
}
