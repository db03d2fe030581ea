package http

import (
	"github.com/JonaTomas14/InsumosArica/internal/application/inventory"
	"github.com/JonaTomas14/InsumosArica/internal/application/usecase"
	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	"github.com/gofiber/fiber/v2"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	WarehouseUC       *usecase.WarehouseUseCase
	ProductUC         *usecase.ProductUseCase
	SupplierUC        *usecase.SupplierUseCase
	CategoryUC        *usecase.CategoryUseCase
	BrandUC           *usecase.BrandUseCase
	UnitUC            *usecase.UnitOfMeasureUseCase
	ProductSupplierUC *usecase.ProductSupplierUseCase
	MovementUC        *inventory.MovementUseCase
	PostUC            *inventory.PostMovementUseCase
	StockUC           *inventory.StockUseCase
	// JWTSecret vacío deja /api sin autenticación (solo desarrollo).
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
	}

	warehouses := api.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", warehouseHandler.Update)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	suppliers := api.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	NewCategoryHandler(deps.CategoryUC).Register(api.Group("/categories"))
	NewBrandHandler(deps.BrandUC).Register(api.Group("/brands"))
	NewUnitOfMeasureHandler(deps.UnitUC).Register(api.Group("/units-of-measure"))
	NewProductSupplierHandler(deps.ProductSupplierUC).Register(api.Group("/product-suppliers"))

	// Entradas y salidas comparten handler; solo cambia el tipo.
	NewMovementHandler(entity.KindInbound, deps.MovementUC, deps.PostUC).Register(api.Group("/movements-entrada"))
	NewMovementHandler(entity.KindOutbound, deps.MovementUC, deps.PostUC).Register(api.Group("/movements-salida"))

	stockHandler := NewStockHandler(deps.StockUC)
	api.Get("/stocks", stockHandler.List)
}
