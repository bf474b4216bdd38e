package main

import (
	"errors"
	"log"
	"strings"

	"lokanta-backend/internal/apperr"
	"lokanta-backend/internal/audit"
	"lokanta-backend/internal/config"
	"lokanta-backend/internal/dashboard"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/dish"
	"lokanta-backend/internal/ingredient"
	"lokanta-backend/internal/purchase"
	"lokanta-backend/internal/respond"
	"lokanta-backend/internal/sale"
	"lokanta-backend/internal/supplier"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fe *fiber.Error
			if errors.As(err, &fe) {
				err = apperr.BadRequest(fe.Message)
			}
			if !apperr.IsUserError(err) {
				log.Println("Beklenmeyen hata:", err)
			}
			return respond.Error(c, err)
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	if cfg.Metrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	api := app.Group("/api")

	// Malzemeler ve kategorileri
	api.Post("/ingredients", ingredient.CreateHandler())
	api.Get("/ingredients", ingredient.ListHandler())
	api.Get("/ingredients/:id", ingredient.GetHandler())
	api.Put("/ingredients/:id", ingredient.UpdateHandler())
	api.Delete("/ingredients/:id", ingredient.DeleteHandler())

	api.Post("/ingredient-categories", ingredient.CreateCategoryHandler())
	api.Get("/ingredient-categories", ingredient.ListCategoriesHandler())
	api.Put("/ingredient-categories/:id", ingredient.UpdateCategoryHandler())
	api.Delete("/ingredient-categories/:id", ingredient.DeleteCategoryHandler())

	// Yemekler, kategorileri ve reçeteler
	api.Post("/dishes", dish.CreateHandler())
	api.Get("/dishes", dish.ListHandler())
	api.Get("/dishes/:id", dish.GetHandler())
	api.Put("/dishes/:id", dish.UpdateHandler())
	api.Delete("/dishes/:id", dish.DeleteHandler())

	api.Get("/dishes/:id/ingredients", dish.ListRecipeHandler())
	api.Post("/dishes/:id/ingredients", dish.AddRecipeLineHandler())
	api.Put("/dishes/:id/ingredients/:lineId", dish.UpdateRecipeLineHandler())
	api.Delete("/dishes/:id/ingredients/:lineId", dish.DeleteRecipeLineHandler())

	api.Post("/dish-categories", dish.CreateCategoryHandler())
	api.Get("/dish-categories", dish.ListCategoriesHandler())
	api.Put("/dish-categories/:id", dish.UpdateCategoryHandler())
	api.Delete("/dish-categories/:id", dish.DeleteCategoryHandler())

	// Tedarikçiler
	api.Post("/suppliers", supplier.CreateHandler())
	api.Get("/suppliers", supplier.ListHandler())
	api.Get("/suppliers/:id", supplier.GetHandler())
	api.Put("/suppliers/:id", supplier.UpdateHandler())
	api.Delete("/suppliers/:id", supplier.DeleteHandler())

	// Alışlar
	api.Post("/purchases", purchase.CreateHandler())
	api.Get("/purchases", purchase.ListHandler())
	api.Get("/purchases/:id", purchase.GetHandler())
	api.Put("/purchases/:id", purchase.UpdateHandler())
	api.Delete("/purchases/:id", purchase.CancelHandler())

	// Satışlar
	api.Post("/sales", sale.CreateHandler())
	api.Post("/sales/validate-stock", sale.ValidateStockHandler())
	api.Get("/sales", sale.ListHandler())
	api.Get("/sales/:id", sale.GetHandler())
	api.Patch("/sales/:id", sale.UpdateHandler())
	api.Delete("/sales/:id", sale.CancelHandler())

	// Dashboard
	api.Get("/dashboard", dashboard.IndexHandler())
	api.Get("/dashboard/stats/sales", dashboard.SalesStatsHandler())
	api.Get("/dashboard/stats/purchases", dashboard.PurchasesStatsHandler())
	api.Get("/dashboard/stats/inventory", dashboard.InventoryStatsHandler())
	api.Get("/dashboard/stats/dishes", dashboard.DishesStatsHandler())
	api.Get("/dashboard/stats/suppliers", dashboard.SuppliersStatsHandler())
	api.Get("/dashboard/stats/activity", dashboard.RecentActivityHandler())
	api.Get("/dashboard/trends/sales", dashboard.SalesTrendsHandler())
	api.Get("/dashboard/trends/purchases", dashboard.PurchasesTrendsHandler())
	api.Get("/dashboard/trends/inventory", dashboard.InventoryTrendsHandler())
	api.Get("/dashboard/alerts", dashboard.AlertsHandler())
	api.Get("/dashboard/projections", dashboard.ProjectionsHandler())
	api.Get("/dashboard/comparisons", dashboard.ComparisonsHandler())
	api.Get("/dashboard/breakdown/sales", dashboard.SalesBreakdownHandler())
	api.Get("/dashboard/breakdown/purchases", dashboard.PurchasesBreakdownHandler())
	api.Get("/dashboard/export", dashboard.ExportHandler())

	// Denetim kayıtları
	api.Get("/audit-logs", audit.ListLogsHandler())

	log.Printf("Sunucu %s portunda dinliyor", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
