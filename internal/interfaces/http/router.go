package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/inventario-retail/internal/application/auth"
	"github.com/tu-usuario/inventario-retail/internal/application/catalog"
	"github.com/tu-usuario/inventario-retail/internal/application/inventory"
	"github.com/tu-usuario/inventario-retail/internal/application/orders"
	"github.com/tu-usuario/inventario-retail/internal/application/rates"
	"github.com/tu-usuario/inventario-retail/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	ProductUC        *catalog.ProductUseCase
	ItemGroupUC      *catalog.ItemGroupUseCase
	SupplierUC       *catalog.SupplierUseCase
	CustomerUC       *catalog.CustomerUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	ValuationUC      *inventory.ValuationUseCase
	OrderUC          *orders.SalesOrderUseCase
	RateUC           *rates.ExchangeRateUseCase
	ValuationPDF     *pdf.ValuationPDFGenerator
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Historial de movimientos por producto (protegido)
	movementHandler := NewMovementHandler(deps.RegisterMovement)
	products.Get("/:id/movements", movementHandler.History)

	// Item groups (protegido)
	groups := protected.Group("/item-groups")
	itemGroupHandler := NewItemGroupHandler(deps.ItemGroupUC)
	groups.Post("/", itemGroupHandler.Create)
	groups.Get("/", itemGroupHandler.List)
	groups.Put("/:id/parent", itemGroupHandler.Reparent)
	groups.Get("/:id/product-count", itemGroupHandler.ProductCount)
	groups.Delete("/:id", itemGroupHandler.Delete)

	// Suppliers (protegido)
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Delete("/:id", supplierHandler.Delete)

	// Customers (protegido)
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Delete("/:id", customerHandler.Delete)

	// Inventory movements (protegido)
	invGroup := protected.Group("/inventory")
	invGroup.Post("/movements", movementHandler.Register)
	invGroup.Get("/movements", movementHandler.ListByDateRange)

	// Sales orders (protegido)
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrderUC)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Post("/:id/confirm", orderHandler.Confirm)
	ordersGroup.Post("/:id/cancel", orderHandler.Cancel)
	ordersGroup.Put("/:id/status", orderHandler.SetStatus)
	customers.Get("/:customerId/orders", orderHandler.ListByCustomer)

	// Exchange rates (protegido)
	ratesGroup := protected.Group("/rates")
	rateHandler := NewRateHandler(deps.RateUC)
	ratesGroup.Put("/", rateHandler.Set)
	ratesGroup.Get("/current", rateHandler.Current)
	ratesGroup.Get("/history", rateHandler.History)

	// Reports (protegido)
	reports := protected.Group("/reports")
	valuationHandler := NewValuationHandler(deps.ValuationUC, deps.ValuationPDF)
	reports.Get("/valuation", valuationHandler.Report)
	reports.Get("/valuation/pdf", valuationHandler.ReportPDF)
}
