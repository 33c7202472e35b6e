package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-taller/internal/application/dto"
	"github.com/jhoicas/inventario-taller/internal/application/inventory"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// RequirementHandler requerimientos de proyecto y entregas (protegido).
type RequirementHandler struct {
	uc *inventory.RequirementUseCase
}

// NewRequirementHandler construye el handler.
func NewRequirementHandler(uc *inventory.RequirementUseCase) *RequirementHandler {
	return &RequirementHandler{uc: uc}
}

// Create godoc
// @Summary      Crear requerimiento
// @Tags         requirements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRequirementRequest  true  "project_name, description, items"
// @Success      201   {object}  dto.RequirementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/requirements [post]
func (h *RequirementHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRequirementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if strings.TrimSpace(in.ProjectName) == "" || len(in.Items) == 0 {
		return validation(c, "project_name e items son requeridos")
	}
	lines := make([]inventory.RequirementLineInput, 0, len(in.Items))
	for _, it := range in.Items {
		lines = append(lines, inventory.RequirementLineInput{ItemID: it.ItemID, QuantityNeeded: it.QuantityNeeded})
	}
	req, err := h.uc.Create(c.UserContext(), inventory.CreateRequirementInput{
		ProjectName: in.ProjectName,
		Description: in.Description,
		Lines:       lines,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewRequirementResponse(req))
}

// List godoc
// @Summary      Listar requerimientos
// @Tags         requirements
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"   default(20)
// @Param        offset  query  int  false  "Offset"   default(0)
// @Success      200     {array}   dto.RequirementResponse
// @Router       /api/requirements [get]
func (h *RequirementHandler) List(c *fiber.Ctx) error {
	p := pageFromQuery(c)
	list, err := h.uc.List(c.UserContext(), p.Limit, p.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewRequirementListResponse(list))
}

// GetByID godoc
// @Summary      Obtener requerimiento
// @Tags         requirements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del requerimiento"
// @Success      200  {object}  dto.RequirementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/requirements/{id} [get]
func (h *RequirementHandler) GetByID(c *fiber.Ctx) error {
	req, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewRequirementResponse(req))
}

// IssueAll godoc
// @Summary      Entregar todo el requerimiento
// @Description  Todo o nada: si el stock de algún ítem no alcanza no se entrega nada (409).
// @Tags         requirements
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del requerimiento"
// @Success      200  {object}  dto.RequirementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requirements/{id}/issue [patch]
func (h *RequirementHandler) IssueAll(c *fiber.Ctx) error {
	req, err := h.uc.IssueAll(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewRequirementResponse(req))
}

// IssueLine godoc
// @Summary      Entregar una línea
// @Tags         requirements
// @Security     Bearer
// @Produce      json
// @Param        id       path  string  true  "ID del requerimiento"
// @Param        item_id  path  string  true  "ID del ítem"
// @Success      200  {object}  dto.RequirementResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/requirements/{id}/items/{item_id}/issue [patch]
func (h *RequirementHandler) IssueLine(c *fiber.Ctx) error {
	req, err := h.uc.IssueLine(c.UserContext(), c.Params("id"), c.Params("item_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewRequirementResponse(req))
}

// UpdateStatus godoc
// @Summary      Forzar estado del requerimiento (solo admin)
// @Description  No toca stock ni líneas.
// @Tags         requirements
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del requerimiento"
// @Param        body  body  dto.UpdateRequirementStatusRequest  true  "status: Active | Completed"
// @Success      200   {object}  dto.RequirementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/requirements/{id} [patch]
func (h *RequirementHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateRequirementStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	status := entity.RequirementStatus(in.Status)
	if !status.Valid() {
		return validation(c, "status debe ser Active o Completed")
	}
	req, err := h.uc.UpdateStatus(c.UserContext(), c.Params("id"), status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.NewRequirementResponse(req))
}
