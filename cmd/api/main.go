package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/inventario-retail/internal/application/audit"
	"github.com/tu-usuario/inventario-retail/internal/application/auth"
	"github.com/tu-usuario/inventario-retail/internal/application/catalog"
	"github.com/tu-usuario/inventario-retail/internal/application/inventory"
	"github.com/tu-usuario/inventario-retail/internal/application/orders"
	"github.com/tu-usuario/inventario-retail/internal/application/rates"
	infrapdf "github.com/tu-usuario/inventario-retail/internal/infrastructure/pdf"
	"github.com/tu-usuario/inventario-retail/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/inventario-retail/internal/interfaces/http"
	"github.com/tu-usuario/inventario-retail/pkg/config"
	"github.com/tu-usuario/inventario-retail/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	itemGroupRepo := postgres.NewItemGroupRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	customerRepo := postgres.NewCustomerRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	orderRepo := postgres.NewSalesOrderRepository(pool)
	rateRepo := postgres.NewExchangeRateRepository(pool)
	auditRepo := postgres.NewAuditLogRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	auditor := audit.NewRecorder(auditRepo, log)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	productUC := catalog.NewProductUseCase(productRepo, itemGroupRepo, supplierRepo, auditor, log)
	itemGroupUC := catalog.NewItemGroupUseCase(itemGroupRepo, productRepo, auditor, log)
	supplierUC := catalog.NewSupplierUseCase(supplierRepo, auditor)
	customerUC := catalog.NewCustomerUseCase(customerRepo, auditor)
	registerMovementUC := inventory.NewRegisterMovementUseCase(txRunner, productRepo, movementRepo, auditor, log)
	valuationUC := inventory.NewValuationUseCase(productRepo, movementRepo, rateRepo)
	orderUC := orders.NewSalesOrderUseCase(txRunner, orderRepo, customerRepo, productRepo, registerMovementUC, auditor, log)
	rateUC := rates.NewExchangeRateUseCase(rateRepo, auditor, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Inventario Retail API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		ProductUC:        productUC,
		ItemGroupUC:      itemGroupUC,
		SupplierUC:       supplierUC,
		CustomerUC:       customerUC,
		RegisterMovement: registerMovementUC,
		ValuationUC:      valuationUC,
		OrderUC:          orderUC,
		RateUC:           rateUC,
		ValuationPDF:     infrapdf.NewValuationPDFGenerator(),
		JWTSecret:        cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
