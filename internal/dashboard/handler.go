package dashboard

import (
	"time"

	"lokanta-backend/internal/database"
	"lokanta-backend/internal/respond"

	"github.com/gofiber/fiber/v2"
)

// GET /api/dashboard - uç nokta dizini
func IndexHandler() fiber.Handler {
	endpoints := fiber.Map{
		"stats": fiber.Map{
			"sales":     "/api/dashboard/stats/sales",
			"purchases": "/api/dashboard/stats/purchases",
			"inventory": "/api/dashboard/stats/inventory",
			"dishes":    "/api/dashboard/stats/dishes",
			"suppliers": "/api/dashboard/stats/suppliers",
			"activity":  "/api/dashboard/stats/activity",
		},
		"trends": fiber.Map{
			"sales":     "/api/dashboard/trends/sales?period=4w&granularity=daily",
			"purchases": "/api/dashboard/trends/purchases?period=4w&granularity=daily",
			"inventory": "/api/dashboard/trends/inventory?period=4w",
		},
		"alerts":      "/api/dashboard/alerts",
		"projections": "/api/dashboard/projections?days=30",
		"comparisons": "/api/dashboard/comparisons",
		"breakdown": fiber.Map{
			"sales":     "/api/dashboard/breakdown/sales",
			"purchases": "/api/dashboard/breakdown/purchases",
		},
		"export": "/api/dashboard/export",
	}
	return func(c *fiber.Ctx) error {
		return respond.Success(c, fiber.StatusOK, endpoints, "", nil)
	}
}

// GET /api/dashboard/stats/sales
func SalesStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := GetSalesStats(database.DB, time.Now())
		if err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, stats, "", nil)
	}
}

// GET /api/dashboard/stats/purchases
func PurchasesStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := GetPurchasesStats(database.DB, time.Now())
		if err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, stats, "", nil)
	}
}

// GET /api/dashboard/stats/inventory
func InventoryStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := GetInventoryStats(database.DB)
		if err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, stats, "", nil)
	}
}

// GET /api/dashboard/stats/dishes
func DishesStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := GetDishesStats(database.DB, time.Now())
		if err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, stats, "", nil)
	}
}

// GET /api/dashboard/stats/suppliers
func SuppliersStatsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := GetSuppliersStats(database.DB, time.Now())
		if err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, stats, "", nil)
	}
}

// GET /api/dashboard/stats/activity
func RecentActivityHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		activity, err := GetRecentActivity(database.DB, time.Now())
		if err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, activity, "", nil)
	}
}

// GET /api/dashboard/trends/sales?period=4w&granularity=daily
func SalesTrendsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		points, err := GetSalesTrends(database.DB, time.Now(),
			c.Query("period", "4w"), c.Query("granularity", "daily"))
		if err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, points, "", nil)
	}
}

// GET /api/dashboard/trends/purchases?period=4w&granularity=daily
func PurchasesTrendsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		points, err := GetPurchasesTrends(database.DB, time.Now(),
			c.Query("period", "4w"), c.Query("granularity", "daily"))
		if err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, points, "", nil)
	}
}

// GET /api/dashboard/trends/inventory?period=4w
func InventoryTrendsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		points, err := GetInventoryTrends(database.DB, time.Now(), c.Query("period", "4w"))
		if err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, points, "", nil)
	}
}

// GET /api/dashboard/alerts
func AlertsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		alerts, err := GetAlerts(database.DB, time.Now())
		if err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, alerts, "", nil)
	}
}

// GET /api/dashboard/projections?days=30
func ProjectionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		days := c.QueryInt("days", 30)
		projections, err := GetProjections(database.DB, time.Now(), days)
		if err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, projections, "", nil)
	}
}

// GET /api/dashboard/comparisons
func ComparisonsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		comparisons, err := GetComparisons(database.DB, time.Now())
		if err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, comparisons, "", nil)
	}
}

// GET /api/dashboard/breakdown/sales
func SalesBreakdownHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		breakdown, err := GetSalesBreakdown(database.DB, time.Now())
		if err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, breakdown, "", nil)
	}
}

// GET /api/dashboard/breakdown/purchases
func PurchasesBreakdownHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		breakdown, err := GetPurchasesBreakdown(database.DB, time.Now())
		if err != nil {
			return err
		}
		return respond.Success(c, fiber.StatusOK, breakdown, "", nil)
	}
}

// GET /api/dashboard/export - XLSX raporu indirir
func ExportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, fileName, err := ExportReport(database.DB, time.Now())
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+fileName+`"`)
		return c.Send(data)
	}
}
