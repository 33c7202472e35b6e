package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/inventario-taller/internal/application/analytics"
	"github.com/jhoicas/inventario-taller/internal/application/auth"
	"github.com/jhoicas/inventario-taller/internal/application/inventory"
	"github.com/jhoicas/inventario-taller/internal/application/usecase"
	"github.com/jhoicas/inventario-taller/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	ItemUC          *usecase.ItemUseCase
	PurchaseOrderUC *inventory.PurchaseOrderUseCase
	RequirementUC   *inventory.RequirementUseCase
	ShortageUC      *inventory.ShortageUseCase
	PDFUC           *inventory.PDFUseCase
	DashboardUC     *appanalytics.DashboardUseCase
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	adminOnly := RequireRole(entity.RoleAdmin)

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	protected.Post("/auth/users", adminOnly, authHandler.CreateUser)

	// Items
	itemHandler := NewItemHandler(deps.ItemUC)
	items := protected.Group("/items")
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Get("/:id/transactions", itemHandler.History)

	// Stock
	inventoryHandler := NewInventoryHandler(deps.ItemUC, deps.ShortageUC)
	stock := protected.Group("/stock")
	stock.Get("/", inventoryHandler.ListStock)
	stock.Get("/:item_id", inventoryHandler.GetStock)
	stock.Patch("/:item_id", adminOnly, inventoryHandler.UpdateStock)

	// Purchase orders
	poHandler := NewPurchaseOrderHandler(deps.PurchaseOrderUC, deps.PDFUC)
	pos := protected.Group("/purchase-orders")
	pos.Post("/", poHandler.Create)
	pos.Get("/", poHandler.List)
	pos.Get("/:id", poHandler.GetByID)
	pos.Patch("/:id/receive", poHandler.Receive)
	pos.Patch("/:id/receive-partial", poHandler.ReceivePartial)
	pos.Patch("/:id/cancel", adminOnly, poHandler.Cancel)
	pos.Get("/:id/pdf", poHandler.PDF)
	pos.Get("/:id/invoices", poHandler.ListInvoices)
	pos.Post("/:id/invoices", poHandler.AddInvoice)

	invoices := protected.Group("/invoices")
	invoices.Put("/:id", poHandler.UpdateInvoice)
	invoices.Delete("/:id", adminOnly, poHandler.DeleteInvoice)

	// Requirements
	reqHandler := NewRequirementHandler(deps.RequirementUC)
	reqs := protected.Group("/requirements")
	reqs.Post("/", reqHandler.Create)
	reqs.Get("/", reqHandler.List)
	reqs.Get("/:id", reqHandler.GetByID)
	reqs.Patch("/:id/issue", reqHandler.IssueAll)
	reqs.Patch("/:id/items/:item_id/issue", reqHandler.IssueLine)
	reqs.Patch("/:id", adminOnly, reqHandler.UpdateStatus)

	// Transactions, dashboard y faltantes
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	txs := protected.Group("/transactions")
	txs.Get("/", inventoryHandler.ListTransactions)
	txs.Get("/dashboard", dashboardHandler.GetSummary)
	txs.Get("/to-be-ordered", inventoryHandler.ToBeOrdered)
}
