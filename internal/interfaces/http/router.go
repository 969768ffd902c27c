package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/paintshop/billing-api/internal/application/billing"
	"github.com/paintshop/billing-api/internal/application/usecase"
	"github.com/paintshop/billing-api/pkg/logger"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	ProductUC *usecase.ProductUseCase
	BillUC    *billing.CreateBillUseCase
	Log       *logger.Logger
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Log)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	bills := api.Group("/bills")
	billHandler := NewBillHandler(deps.BillUC, deps.Log)
	bills.Get("/", billHandler.List)
	bills.Post("/", billHandler.Create)
	bills.Get("/:id", billHandler.GetByID)
}
