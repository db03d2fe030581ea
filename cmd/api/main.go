package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JonaTomas14/InsumosArica/internal/application/inventory"
	"github.com/JonaTomas14/InsumosArica/internal/application/usecase"
	"github.com/JonaTomas14/InsumosArica/internal/infrastructure/metrics"
	"github.com/JonaTomas14/InsumosArica/internal/infrastructure/postgres"
	httpRouter "github.com/JonaTomas14/InsumosArica/internal/interfaces/http"
	"github.com/JonaTomas14/InsumosArica/pkg/config"
	"github.com/JonaTomas14/InsumosArica/pkg/logger"
	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Dur("lock_timeout", cfg.Inventory.LockTimeout).
		Msg("iniciando aplicación")

	if cfg.Migrations.AutoMigrate {
		runMigrations(cfg, log)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics := metrics.New(cfg.Metrics.Prefix, registry)

	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	brandRepo := postgres.NewBrandRepository(pool)
	unitRepo := postgres.NewUnitOfMeasureRepository(pool)
	productSupplierRepo := postgres.NewProductSupplierRepository(pool)
	txRunner := postgres.NewTxRunner(pool, cfg.Inventory.LockTimeout)

	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	productUC := usecase.NewProductUseCase(productRepo, unitRepo, brandRepo, categoryRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	categoryUC := usecase.NewCategoryUseCase(categoryRepo)
	brandUC := usecase.NewBrandUseCase(brandRepo)
	unitUC := usecase.NewUnitOfMeasureUseCase(unitRepo)
	productSupplierUC := usecase.NewProductSupplierUseCase(productSupplierRepo, productRepo, supplierRepo)
	movementUC := inventory.NewMovementUseCase(txRunner, movementRepo, productRepo, warehouseRepo, supplierRepo)
	postUC := inventory.NewPostMovementUseCase(txRunner, warehouseRepo, appMetrics, log.Named("posting"))
	stockUC := inventory.NewStockUseCase(stockRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				code = fe.Code
			}
			if code >= fiber.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Path()).Msg("error en handler")
			}
			return c.Status(code).JSON(fiber.Map{"code": "HTTP_ERROR", "message": err.Error()})
		},
	})
	app.Use(recover.New())
	app.Use(appMetrics.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs (solo si se generó docs/swagger.json)
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Insumos Arica API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_down", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", appMetrics.Handler())

	httpRouter.Router(app, httpRouter.RouterDeps{
		WarehouseUC:       warehouseUC,
		ProductUC:         productUC,
		SupplierUC:        supplierUC,
		CategoryUC:        categoryUC,
		BrandUC:           brandUC,
		UnitUC:            unitUC,
		ProductSupplierUC: productSupplierUC,
		MovementUC:        movementUC,
		PostUC:            postUC,
		StockUC:           stockUC,
		JWTSecret:   cfg.JWT.Secret,
	})
	if cfg.JWT.Secret == "" {
		log.Warn().Msg("JWT_SECRET vacío: /api sin autenticación")
	}

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

func runMigrations(cfg *config.Config, log *logger.Logger) {
	mg, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Named("migrate"))
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar migraciones")
	}
	defer mg.Close()
	if err := mg.Up(); err != nil {
		log.Fatal().Err(err).Msg("aplicar migraciones")
	}
}
