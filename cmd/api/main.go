package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/paintshop/billing-api/internal/application/billing"
	"github.com/paintshop/billing-api/internal/application/usecase"
	"github.com/paintshop/billing-api/internal/infrastructure/artifact"
	infrapdf "github.com/paintshop/billing-api/internal/infrastructure/pdf"
	"github.com/paintshop/billing-api/internal/infrastructure/postgres"
	httpRouter "github.com/paintshop/billing-api/internal/interfaces/http"
	"github.com/paintshop/billing-api/pkg/config"
	"github.com/paintshop/billing-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to PostgreSQL")
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("ensure database schema")
	}

	productRepo := postgres.NewProductRepository(pool)
	billRepo := postgres.NewBillRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	invoiceStore, err := artifact.NewFSStore(cfg.Invoices.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("prepare invoice directory")
	}
	invoiceGen := infrapdf.NewMarotoInvoiceGenerator(cfg.Invoices.ShopName)

	productUC := usecase.NewProductUseCase(productRepo)
	billUC := billing.NewCreateBillUseCase(txRunner, billRepo, invoiceGen, invoiceStore)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Paint Shop Billing API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	// Rendered invoices are plain static files keyed by bill id.
	app.Static(artifact.PublicPrefix, invoiceStore.Dir())

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC: productUC,
		BillUC:    billUC,
		Log:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}
