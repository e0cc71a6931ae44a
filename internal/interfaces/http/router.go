package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventory-ledger/internal/application/inventory"
	"github.com/jhoicas/inventory-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Engine    *inventory.Engine
	Logger    *logger.Logger
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token; las que mutan el libro
// exigen rol admin o bodeguero.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	h := NewInventoryHandler(deps.Engine, log)
	products := NewProductHandler(deps.Engine.Catalog, log)
	warehouses := NewWarehouseHandler(deps.Engine.Catalog, log)
	writer := RequireRole(RoleAdmin, RoleBodeguero)
	reader := RequireRole(RoleAdmin, RoleBodeguero, RoleAuditor)

	inv := app.Group("/api/inventory", AuthMiddleware(deps.JWTSecret))

	inv.Post("/movements", writer, h.PostMovement)
	inv.Get("/movements", reader, h.ListMovementsByCause)
	inv.Get("/balances", reader, h.GetBalance)

	inv.Get("/products", reader, products.List)
	inv.Get("/products/:id", reader, products.GetByID)
	inv.Get("/warehouses", reader, warehouses.List)
	inv.Get("/warehouses/:id", reader, warehouses.GetByID)

	adjustments := inv.Group("/adjustments")
	adjustments.Post("/", writer, h.CreateAdjustment)
	adjustments.Get("/", reader, h.ListAdjustments)
	adjustments.Get("/:id", reader, h.GetAdjustment)
	adjustments.Post("/:id/apply", writer, h.ApplyAdjustment)
	adjustments.Post("/:id/anul", writer, h.AnulAdjustment)

	transfers := inv.Group("/transfers")
	transfers.Post("/", writer, h.CreateTransfer)
	transfers.Get("/", reader, h.ListTransfers)
	transfers.Get("/:id", reader, h.GetTransfer)
	transfers.Post("/:id/apply", writer, h.ApplyTransfer)
	transfers.Post("/:id/anul", writer, h.AnulTransfer)

	inv.Get("/kardex/:product_id", reader, h.GetKardex)
	inv.Get("/kardex/:product_id/average-cost", reader, h.GetAverageCost)
	inv.Get("/reconcile", reader, h.Reconcile)

	reports := inv.Group("/reports")
	reports.Get("/low-stock", reader, h.GetLowStock)
	reports.Get("/valuation", reader, h.GetValuation)
	reports.Post("/comparison", reader, h.CompareWarehouses)
}
