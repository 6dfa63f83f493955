package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Manufactura-api/internal/application/auth"
	"github.com/jhoicas/Manufactura-api/internal/application/csvimport"
	"github.com/jhoicas/Manufactura-api/internal/application/displayconfig"
	"github.com/jhoicas/Manufactura-api/internal/application/inventory"
	"github.com/jhoicas/Manufactura-api/internal/application/production"
	"github.com/jhoicas/Manufactura-api/internal/application/usecase"
	"github.com/jhoicas/Manufactura-api/internal/infrastructure/metrics"
)

// AppInfo datos públicos del servicio para /api/app-info.
type AppInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Env     string `json:"env"`
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	UserUC       *usecase.UserUseCase
	InventoryUC  *inventory.InventoryUseCase
	Relocation   *inventory.RelocationService
	Receipts     *inventory.ReceiptService
	Allocation   *inventory.AllocationService
	Completion   *production.CompletionService
	PlanUC       *production.PlanUseCase
	OrderUC      *usecase.OrderUseCase
	WarehouseUC  *usecase.WarehouseUseCase
	ItemUC       *usecase.ItemUseCase
	MasterDataUC *usecase.MasterDataUseCase
	QualityUC    *usecase.QualityUseCase
	QrActionUC   *usecase.QrActionUseCase
	CSVImport    *csvimport.Service
	Display      *displayconfig.Table
	Metrics      *metrics.Recorder // nil deshabilita /metrics
	MetricsPath  string
	Info         AppInfo
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, deps.Metrics.Handler())
	}
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.Info.Name})
	})

	api := app.Group("/api")
	api.Get("/app-info", func(c *fiber.Ctx) error {
		return c.JSON(deps.Info)
	})

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	warehouseStaff := RequireRole(RoleAdmin, RoleBodeguero)
	planners := RequireRole(RoleAdmin, RoleSupervisor)
	adminOnly := RequireRole(RoleAdmin)

	userHandler := NewUserHandler(deps.UserUC)
	protected.Get("/users/me", userHandler.Me)

	// Inventario y libro
	inventoryHandler := NewInventoryHandler(deps.InventoryUC, deps.Relocation)
	inv := protected.Group("/inventory")
	inv.Get("/", inventoryHandler.List)
	inv.Get("/by-location", inventoryHandler.ByLocation)
	inv.Get("/shelf-labels.pdf", inventoryHandler.ShelfLabels)
	inv.Get("/:id", inventoryHandler.GetByID)
	inv.Post("/:id/move", warehouseStaff, inventoryHandler.Move)
	protected.Get("/stock-movements", inventoryHandler.Movements)

	// Pedidos
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Receipts)
	po := protected.Group("/purchase-orders")
	po.Get("/", orderHandler.ListPurchaseOrders)
	po.Post("/", warehouseStaff, orderHandler.CreatePurchaseOrder)
	po.Get("/:id", orderHandler.GetPurchaseOrder)
	po.Get("/:id/receipts", orderHandler.Receipts)
	po.Post("/:id/receive", warehouseStaff, orderHandler.Receive)
	so := protected.Group("/sales-orders")
	so.Get("/", orderHandler.ListSalesOrders)
	so.Get("/:id", orderHandler.GetSalesOrder)

	// Producción
	productionHandler := NewProductionHandler(deps.PlanUC, deps.Allocation, deps.Completion)
	plans := protected.Group("/production-plans")
	plans.Get("/", productionHandler.List)
	plans.Post("/", planners, productionHandler.Create)
	plans.Get("/:id", productionHandler.GetByID)
	plans.Get("/:id/required-parts", productionHandler.RequiredParts)
	plans.Get("/:id/allocations", productionHandler.Allocations)
	plans.Post("/:id/allocate-materials", planners, productionHandler.AllocateMaterials)
	plans.Post("/:id/update-progress", planners, productionHandler.UpdateProgress)

	// Maestros
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses := protected.Group("/warehouses")
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Post("/", warehouseStaff, warehouseHandler.Create)
	warehouses.Get("/by-number/:number", warehouseHandler.GetByNumber)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	itemHandler := NewItemHandler(deps.ItemUC)
	items := protected.Group("/items")
	items.Get("/", itemHandler.List)
	items.Post("/", warehouseStaff, itemHandler.Create)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", warehouseStaff, itemHandler.Update)

	masterHandler := NewMasterDataHandler(deps.MasterDataUC)
	protected.Get("/suppliers", masterHandler.ListSuppliers)
	protected.Post("/suppliers", warehouseStaff, masterHandler.CreateSupplier)
	protected.Get("/machines", masterHandler.ListMachines)
	protected.Post("/machines", planners, masterHandler.CreateMachine)

	// Calidad
	qualityHandler := NewQualityHandler(deps.QualityUC)
	quality := protected.Group("/quality/inspection-items")
	quality.Get("/", qualityHandler.List)
	quality.Post("/", planners, qualityHandler.Create)
	quality.Get("/:id", qualityHandler.GetByID)
	quality.Post("/:id/judge", qualityHandler.Judge)

	// Importación CSV
	dataHandler := NewDataHandler(deps.CSVImport)
	data := protected.Group("/data")
	data.Get("/csv-template", dataHandler.Template)
	data.Post("/import-csv", adminOnly, dataHandler.Import)
	data.Get("/import-tasks/:task_id", dataHandler.Poll)
	data.Post("/import-tasks/:task_id/cancel", adminOnly, dataHandler.Cancel)

	// Ajustes
	settingsHandler := NewSettingsHandler(deps.Display, deps.QrActionUC)
	settings := protected.Group("/settings")
	settings.Get("/display/:model", settingsHandler.Display)
	settings.Get("/qr-actions", settingsHandler.ListQrActions)
	settings.Post("/qr-actions", adminOnly, settingsHandler.CreateQrAction)
	settings.Post("/qr-actions/match", settingsHandler.MatchQr)
}
