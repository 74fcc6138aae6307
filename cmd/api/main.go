package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/logiruta/logistica-api/internal/application/auth"
	"github.com/logiruta/logistica-api/internal/application/routes"
	"github.com/logiruta/logistica-api/internal/application/sales"
	"github.com/logiruta/logistica-api/internal/application/stock"
	"github.com/logiruta/logistica-api/internal/application/usecase"
	"github.com/logiruta/logistica-api/internal/infrastructure/cache"
	"github.com/logiruta/logistica-api/internal/infrastructure/events"
	"github.com/logiruta/logistica-api/internal/infrastructure/postgres"
	httpRouter "github.com/logiruta/logistica-api/internal/interfaces/http"
	"github.com/logiruta/logistica-api/pkg/config"
	"github.com/logiruta/logistica-api/pkg/logger"
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

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	batchRepo := postgres.NewBatchRepository(pool)
	driverRepo := postgres.NewDriverRepository(pool)
	vehicleRepo := postgres.NewVehicleRepository(pool)
	routeRepo := postgres.NewRouteRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Caché de catálogo (opcional): Addr vacío = deshabilitado.
	var productCache usecase.ProductCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		productCache = cache.NewProductCache(rdb, time.Duration(cfg.Redis.TTLMin)*time.Minute, log.Component("cache"))
		log.Info().Str("addr", cfg.Redis.Addr).Msg("caché de catálogo habilitado")
	}

	// Publisher de movimientos (opcional): Brokers vacío = deshabilitado.
	var publisher stock.MovementPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaPublisher := events.NewMovementPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("eventos de movimientos habilitados")
	}

	stockUC := stock.NewStockUseCase(txRunner, stockRepo, movRepo, productRepo, warehouseRepo, publisher, log.Component("stock"))
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	productUC := usecase.NewProductUseCase(productRepo, productCache)
	batchUC := usecase.NewBatchUseCase(batchRepo, stockRepo, productRepo)
	driverUC := usecase.NewDriverUseCase(driverRepo)
	vehicleUC := usecase.NewVehicleUseCase(vehicleRepo, driverRepo)
	dispatchUC := routes.NewDispatchUseCase(routeRepo, productRepo, warehouseRepo, driverRepo, vehicleRepo, stockUC, log.Component("dispatch"))
	saleUC := sales.NewCreateSaleUseCase(txRunner, stockUC, productRepo, warehouseRepo, saleRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(httpRouter.MetricsMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CompanyUC:   companyUC,
		WarehouseUC: warehouseUC,
		ProductUC:   productUC,
		BatchUC:     batchUC,
		DriverUC:    driverUC,
		VehicleUC:   vehicleUC,
		StockUC:     stockUC,
		DispatchUC:  dispatchUC,
		SaleUC:      saleUC,
		JWTSecret:   cfg.JWT.Secret,
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
