package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-stock/internal/application/inventory"
	"github.com/jhoicas/inventario-stock/internal/application/reporting"
	"github.com/jhoicas/inventario-stock/internal/application/usecase"
	"github.com/jhoicas/inventario-stock/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC      *usecase.WarehouseUseCase
	ProductUC        *usecase.ProductUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	PurchaseOrders   *inventory.PurchaseOrderUseCase
	Transfers        *inventory.TransferUseCase
	Counts           *inventory.CountUseCase
	Lots             *inventory.LotUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	Reports          *reporting.ReportUseCase
	HealthChecks     map[string]HealthCheck
	JWTSecret        string
	JWTIssuer        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", Health(deps.HealthChecks))

	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	adminOnly := RequireRole(jwt.RoleAdmin)
	stockKeepers := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)

	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", adminOnly, warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.RegisterMovement)
	products.Post("/", stockKeepers, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", stockKeepers, productHandler.Update)
	products.Post("/:id/movements", productHandler.RegisterMovement)
	products.Get("/:id/ledger/verify", productHandler.VerifyLedger)

	pos := protected.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.PurchaseOrders)
	pos.Post("/", poHandler.Create)
	pos.Get("/", poHandler.List)
	pos.Get("/:id", poHandler.GetByID)
	pos.Post("/:id/send", poHandler.Send)
	pos.Post("/:id/confirm", adminOnly, poHandler.Confirm)
	pos.Post("/:id/receive", stockKeepers, poHandler.Receive)
	pos.Post("/:id/cancel", poHandler.Cancel)
	pos.Delete("/:id", poHandler.Delete)

	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.Transfers)
	transfers.Post("/", stockKeepers, transferHandler.Create)
	transfers.Get("/", transferHandler.List)
	transfers.Get("/:id", transferHandler.GetByID)
	transfers.Post("/:id/ship", stockKeepers, transferHandler.Ship)
	transfers.Post("/:id/receive", stockKeepers, transferHandler.Receive)
	transfers.Post("/:id/cancel", stockKeepers, transferHandler.Cancel)

	counts := protected.Group("/counts")
	countHandler := NewCountHandler(deps.Counts, deps.Reports)
	counts.Post("/", stockKeepers, countHandler.Start)
	counts.Get("/:id", countHandler.GetByID)
	counts.Post("/:id/lines", stockKeepers, countHandler.Record)
	counts.Post("/:id/finish", stockKeepers, countHandler.Finish)
	counts.Post("/:id/cancel", stockKeepers, countHandler.Cancel)
	counts.Get("/:id/report", countHandler.Report)
	counts.Get("/:id/report.pdf", countHandler.ReportPDF)

	lots := protected.Group("/lots")
	lotHandler := NewLotHandler(deps.Lots)
	lots.Post("/", stockKeepers, lotHandler.Create)
	lots.Get("/", lotHandler.ListByProduct)
	lots.Get("/expiring", lotHandler.Expiring)
	lots.Post("/:id/reserve", lotHandler.Reserve)
	lots.Post("/:id/release", lotHandler.Release)

	reports := protected.Group("/reports")
	reportHandler := NewReportHandler(deps.Reports, deps.Replenishment)
	reports.Get("/movements", reportHandler.Movements)
	reports.Get("/valuation", reportHandler.Valuation)
	reports.Get("/valuation.pdf", reportHandler.ValuationPDF)
	reports.Get("/categories", reportHandler.Categories)
	reports.Get("/summary", reportHandler.Summary)
	reports.Get("/replenishment", reportHandler.Replenishment)
}
