package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/logiruta/logistica-api/internal/application/auth"
	"github.com/logiruta/logistica-api/internal/application/routes"
	"github.com/logiruta/logistica-api/internal/application/sales"
	"github.com/logiruta/logistica-api/internal/application/stock"
	"github.com/logiruta/logistica-api/internal/application/usecase"
	"github.com/logiruta/logistica-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.AuthUseCase
	CompanyUC   *usecase.CompanyUseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	BatchUC     *usecase.BatchUseCase
	DriverUC    *usecase.DriverUseCase
	VehicleUC   *usecase.VehicleUseCase
	StockUC     *stock.StockUseCase
	DispatchUC  *routes.DispatchUseCase
	SaleUC      *sales.CreateSaleUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público para el alta inicial)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/", companyHandler.List)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", RequireRole(entity.RoleAdmin), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Update)

	// Stock: saldos, disponibilidad, reservas y movimientos
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stockGroup.Get("/check-availability", stockHandler.CheckAvailability)
	stockGroup.Get("/product/:productId", stockHandler.GetByProduct)
	stockGroup.Get("/warehouse/:warehouseId", stockHandler.GetByWarehouse)
	stockGroup.Get("/balance/:productId/:warehouseId", stockHandler.GetBalance)
	stockGroup.Post("/reserve", RequireRole(entity.RoleBodeguero, entity.RoleVendedor), stockHandler.Reserve)
	stockGroup.Post("/release", RequireRole(entity.RoleBodeguero, entity.RoleVendedor), stockHandler.Release)
	stockGroup.Post("/movements/entry", RequireRole(entity.RoleBodeguero), stockHandler.Entry)
	stockGroup.Post("/movements/exit", RequireRole(entity.RoleBodeguero), stockHandler.Exit)
	stockGroup.Get("/movements/warehouse/:warehouseId", stockHandler.MovementsByWarehouse)
	stockGroup.Get("/movements/:productId", stockHandler.MovementHistory)

	// Batches: trazabilidad por lote
	batches := protected.Group("/batches")
	batchHandler := NewBatchHandler(deps.BatchUC)
	batches.Post("/", RequireRole(entity.RoleBodeguero), batchHandler.Create)
	batches.Get("/", batchHandler.ListByProduct)
	batches.Get("/reconcile", batchHandler.Reconcile)
	batches.Post("/expire-due", RequireRole(entity.RoleBodeguero), batchHandler.ExpireDue)
	batches.Patch("/:id/status", RequireRole(entity.RoleBodeguero), batchHandler.UpdateStatus)

	// Drivers: registro de conductores de la flota
	drivers := protected.Group("/drivers")
	driverHandler := NewDriverHandler(deps.DriverUC)
	drivers.Post("/", RequireRole(entity.RoleAdmin), driverHandler.Create)
	drivers.Get("/", driverHandler.List)
	drivers.Get("/:id", driverHandler.GetByID)
	drivers.Patch("/:id/status", RequireRole(entity.RoleAdmin, entity.RoleConductor), driverHandler.UpdateStatus)

	// Vehicles: registro de vehículos de la flota
	vehicles := protected.Group("/vehicles")
	vehicleHandler := NewVehicleHandler(deps.VehicleUC)
	vehicles.Post("/", RequireRole(entity.RoleAdmin), vehicleHandler.Create)
	vehicles.Get("/", vehicleHandler.List)
	vehicles.Get("/:id", vehicleHandler.GetByID)
	vehicles.Patch("/:id/status", RequireRole(entity.RoleAdmin), vehicleHandler.UpdateStatus)

	// Routes: ciclo reservar -> despachar -> completar/cancelar
	routesGroup := protected.Group("/routes")
	routeHandler := NewRouteHandler(deps.DispatchUC)
	routesGroup.Post("/", RequireRole(entity.RoleBodeguero, entity.RoleVendedor), routeHandler.Create)
	routesGroup.Get("/", routeHandler.List)
	routesGroup.Get("/:id", routeHandler.GetByID)
	routesGroup.Post("/:id/dispatch", RequireRole(entity.RoleBodeguero, entity.RoleConductor), routeHandler.Dispatch)
	routesGroup.Post("/:id/cancel", RequireRole(entity.RoleBodeguero, entity.RoleVendedor), routeHandler.Cancel)
	routesGroup.Post("/:id/complete", RequireRole(entity.RoleConductor), routeHandler.Complete)

	// Sales: venta de mostrador
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", RequireRole(entity.RoleVendedor), saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
}
