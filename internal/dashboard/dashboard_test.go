package dashboard_test

import (
	"testing"
	"time"

	"lokanta-backend/internal/dashboard"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// now - tüm testlerde sabit referans: 2025-12-09 Salı 12:00
var now = time.Date(2025, 12, 9, 12, 0, 0, 0, time.UTC)

func seedSale(t *testing.T, db *gorm.DB, at time.Time, total float64, status models.TxStatus) models.Sale {
	s := models.Sale{SaleDate: at, Total: total, Status: status, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, db.Create(&s).Error)
	return s
}

func seedPurchase(t *testing.T, db *gorm.DB, at time.Time, total float64) models.Purchase {
	p := models.Purchase{PurchaseDate: at, Total: total, Status: models.TxCompleted, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func seedIngredient(t *testing.T, db *gorm.DB, name string, stockQty, minStock float64) models.Ingredient {
	ing := models.Ingredient{Name: name, Unit: "kg", Stock: stockQty, MinimumStock: minStock, Status: models.StatusActive}
	require.NoError(t, db.Create(&ing).Error)
	return ing
}

func TestSalesStats_WindowsAndGrowth(t *testing.T) {
	db := newTestDB(t)

	seedSale(t, db, now.Add(-2*time.Hour), 100, models.TxCompleted)           // bugün
	seedSale(t, db, now.AddDate(0, 0, -1), 50, models.TxCompleted)            // dün
	seedSale(t, db, now.AddDate(0, 0, -20), 200, models.TxCompleted)          // geçen ay değil, bu yıl
	seedSale(t, db, now.Add(-1*time.Hour), 999, models.TxCancelled)           // iptal, sayılmaz
	softDeleted := seedSale(t, db, now.Add(-30*time.Minute), 5, models.TxCompleted)
	deletedAt := now.Add(-10 * time.Minute)
	require.NoError(t, db.Model(&softDeleted).Update("deleted_at", deletedAt).Error) // soft-delete, sayılmaz

	stats, err := dashboard.GetSalesStats(db, now)
	require.NoError(t, err)

	assert.Equal(t, 100.0, stats.Today.Total)
	assert.Equal(t, int64(1), stats.Today.Count)
	assert.Equal(t, 100.0, stats.Today.Average)
	assert.Equal(t, 100.0, stats.Today.Growth) // 100'e karşı 50

	assert.Equal(t, 350.0, stats.Year.Total)
	assert.Equal(t, int64(3), stats.Year.Count)
}

func TestSalesStats_GrowthAgainstZeroBaseline(t *testing.T) {
	db := newTestDB(t)
	seedSale(t, db, now.Add(-1*time.Hour), 80, models.TxCompleted)

	stats, err := dashboard.GetSalesStats(db, now)
	require.NoError(t, err)

	// Dün satış yok: büyüme 100 kabul edilir
	assert.Equal(t, 100.0, stats.Today.Growth)
}

func TestInventoryStats_BandsAndValue(t *testing.T) {
	db := newTestDB(t)
	out := seedIngredient(t, db, "Un", 0, 10)
	low := seedIngredient(t, db, "Şeker", 4, 10)
	ok := seedIngredient(t, db, "Tuz", 50, 10)

	// Son alış fiyatları: Tuz için iki alış, sonuncusu geçerli
	p := seedPurchase(t, db, now.AddDate(0, 0, -5), 0)
	require.NoError(t, db.Create(&models.PurchaseDetail{
		PurchaseID: p.ID, IngredientID: ok.ID, Quantity: 10, UnitPrice: 2, Subtotal: 20,
		CreatedAt: now.AddDate(0, 0, -5),
	}).Error)
	require.NoError(t, db.Create(&models.PurchaseDetail{
		PurchaseID: p.ID, IngredientID: ok.ID, Quantity: 10, UnitPrice: 3, Subtotal: 30,
		CreatedAt: now.AddDate(0, 0, -2),
	}).Error)

	stats, err := dashboard.GetInventoryStats(db)
	require.NoError(t, err)

	assert.Equal(t, int64(3), stats.Total)
	assert.Equal(t, int64(1), stats.Alerts.OutOfStock)
	assert.Equal(t, int64(1), stats.Alerts.LowStock)
	assert.Equal(t, int64(1), stats.Alerts.Optimal)

	// Değer: yalnız Tuz fiyatlı, 50 × 3 = 150
	assert.Equal(t, 150.0, stats.TotalValue)

	// Kritikler stok yüzdesine göre artan: Un (%0) önce, Şeker (%40) sonra
	require.Len(t, stats.CriticalIngredients, 2)
	assert.Equal(t, out.ID, stats.CriticalIngredients[0].ID)
	assert.Equal(t, low.ID, stats.CriticalIngredients[1].ID)
	assert.Equal(t, 40.0, stats.CriticalIngredients[1].StockPercentage)
}

func TestAlerts_SeverityBands(t *testing.T) {
	db := newTestDB(t)
	seedIngredient(t, db, "Kritik", 2, 10)  // %20 ≤ %25 -> critical
	seedIngredient(t, db, "Uyarı", 3, 10)   // %30 -> warning
	seedIngredient(t, db, "Normal", 20, 10) // bant dışı

	alerts, err := dashboard.GetAlerts(db, now)
	require.NoError(t, err)

	require.Len(t, alerts.Critical, 1)
	assert.Contains(t, alerts.Critical[0].Title, "Kritik")

	lowWarnings := 0
	for _, a := range alerts.Warning {
		if a.Type == "low_stock" {
			lowWarnings++
			assert.Contains(t, a.Title, "Uyarı")
		}
	}
	assert.Equal(t, 1, lowWarnings)
	assert.Equal(t, alerts.Summary.Total,
		alerts.Summary.Critical+alerts.Summary.Warning+alerts.Summary.Info)
}

func TestAlerts_OverstockInfo(t *testing.T) {
	db := newTestDB(t)
	seedIngredient(t, db, "Fazla", 40, 10) // 4× > 3× -> info
	seedIngredient(t, db, "Sınırda", 30, 10)

	alerts, err := dashboard.GetAlerts(db, now)
	require.NoError(t, err)

	overstock := 0
	for _, a := range alerts.Info {
		if a.Type == "overstock" {
			overstock++
			assert.Contains(t, a.Title, "Fazla")
		}
	}
	assert.Equal(t, 1, overstock)
}

func TestAlerts_UnusedIngredientWarning(t *testing.T) {
	db := newTestDB(t)
	unused := seedIngredient(t, db, "Safran", 1, 0)
	used := seedIngredient(t, db, "Domates", 5, 0)

	d := models.Dish{Name: "Menemen", Status: models.StatusActive}
	require.NoError(t, db.Create(&d).Error)
	require.NoError(t, db.Create(&models.DishIngredient{
		DishID: d.ID, IngredientID: used.ID, QuantityUsed: 0.3,
	}).Error)

	alerts, err := dashboard.GetAlerts(db, now)
	require.NoError(t, err)

	var found bool
	for _, a := range alerts.Warning {
		if a.Type == "unused_ingredient" {
			found = true
			assert.Contains(t, a.Title, unused.Name)
			assert.Contains(t, a.Message, "1.0 kg")
		}
	}
	assert.True(t, found)
}

func TestAlerts_SalesDrop(t *testing.T) {
	db := newTestDB(t)

	// Önceki 4 hafta: haftada 10 satış, 1000 ciro
	for week := 1; week <= 4; week++ {
		base := now.AddDate(0, 0, -7*week)
		for i := 0; i < 10; i++ {
			seedSale(t, db, base.Add(time.Duration(i)*time.Hour), 100, models.TxCompleted)
		}
	}
	// Bu hafta: 1 satış, 50 ciro (ortalamanın %70'inin çok altında)
	seedSale(t, db, now.Add(-1*time.Hour), 50, models.TxCompleted)

	alerts, err := dashboard.GetAlerts(db, now)
	require.NoError(t, err)

	var found bool
	for _, a := range alerts.Warning {
		if a.Type == "sales_drop" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestSalesTrends_DailyBuckets(t *testing.T) {
	db := newTestDB(t)
	seedSale(t, db, now.Add(-1*time.Hour), 100, models.TxCompleted)
	seedSale(t, db, now.Add(-2*time.Hour), 60, models.TxCompleted)
	seedSale(t, db, now.AddDate(0, 0, -1), 40, models.TxCompleted)
	seedSale(t, db, now.AddDate(0, 0, -40), 999, models.TxCompleted) // pencere dışı

	points, err := dashboard.GetSalesTrends(db, now, "4w", "daily")
	require.NoError(t, err)

	require.Len(t, points, 2)
	// Kovalar kronolojik sırada
	assert.Equal(t, now.AddDate(0, 0, -1).Format("2006-01-02"), points[0].Period)
	assert.Equal(t, int64(1), points[0].Count)
	assert.Equal(t, 40.0, points[0].Total)
	assert.Equal(t, now.Format("2006-01-02"), points[1].Period)
	assert.Equal(t, int64(2), points[1].Count)
	assert.Equal(t, 160.0, points[1].Total)
}

func TestSalesTrends_BadInput(t *testing.T) {
	db := newTestDB(t)

	_, err := dashboard.GetSalesTrends(db, now, "badformat", "daily")
	require.Error(t, err)

	_, err = dashboard.GetSalesTrends(db, now, "7d", "quarterly")
	require.Error(t, err)
}

func TestProjections_StockDepletion(t *testing.T) {
	db := newTestDB(t)
	meat := seedIngredient(t, db, "Kıyma", 10, 2)
	d := models.Dish{Name: "Köfte", Status: models.StatusActive}
	require.NoError(t, db.Create(&d).Error)
	require.NoError(t, db.Create(&models.DishIngredient{
		DishID: d.ID, IngredientID: meat.ID, QuantityUsed: 1,
	}).Error)

	// 10 gün boyunca günde 2 porsiyon: günlük tüketim ~2.2 (20 birim / 9 gün)
	for day := 1; day <= 10; day++ {
		at := now.AddDate(0, 0, -day)
		s := models.Sale{SaleDate: at, Total: 20, Status: models.TxCompleted, CreatedAt: at, UpdatedAt: at}
		require.NoError(t, db.Create(&s).Error)
		require.NoError(t, db.Create(&models.SaleDetail{
			SaleID: s.ID, DishID: d.ID, Quantity: 2, UnitPrice: 10, Subtotal: 20,
		}).Error)
	}

	proj, err := dashboard.GetProjections(db, now, 30)
	require.NoError(t, err)

	require.Len(t, proj.StockDepletion, 1)
	p := proj.StockDepletion[0]
	assert.Equal(t, meat.ID, p.IngredientID)
	assert.Greater(t, p.DailyUsage, 2.0)
	assert.Less(t, p.DaysUntilDepleted, 5.0)
	assert.Equal(t, "high", p.Priority) // 30 günlük ufkun yarısından önce tükenir
	assert.Greater(t, p.RecommendedOrderQuantity, 0.0)

	require.NotNil(t, proj.PurchaseRecommendations.NextPurchaseDate)
	assert.GreaterOrEqual(t, proj.PurchaseRecommendations.NextPurchaseDate.InDays, 1)
	assert.Equal(t, 1, proj.PurchaseRecommendations.Summary.HighPriorityItems)
}

func TestProjections_DaysOutOfRange(t *testing.T) {
	db := newTestDB(t)

	_, err := dashboard.GetProjections(db, now, 0)
	require.Error(t, err)
	_, err = dashboard.GetProjections(db, now, 400)
	require.Error(t, err)
}

func TestComparisons_NilPercentOnZeroBaseline(t *testing.T) {
	db := newTestDB(t)
	seedSale(t, db, now.AddDate(0, 0, -2), 300, models.TxCompleted)         // bu ay
	seedSale(t, db, now.AddDate(0, -1, -2), 150, models.TxCompleted)        // geçen ayın aynı dilimi

	c, err := dashboard.GetComparisons(db, now)
	require.NoError(t, err)

	require.NotNil(t, c.CurrentVsPrevious.SalesRevenue.PercentChange)
	assert.Equal(t, 100.0, *c.CurrentVsPrevious.SalesRevenue.PercentChange)

	// Geçen yıl veri yok: yüzde değişim null
	assert.Nil(t, c.CurrentVsLastYear.SalesRevenue.PercentChange)
	assert.Equal(t, 300.0, c.CurrentVsLastYear.SalesRevenue.Current)
	assert.Equal(t, 0.0, c.CurrentVsLastYear.SalesRevenue.Previous)
}

func TestSalesBreakdown_CategoryShares(t *testing.T) {
	db := newTestDB(t)

	cat := models.DishCategory{Name: "Ana Yemekler"}
	require.NoError(t, db.Create(&cat).Error)
	withCat := models.Dish{Name: "Köfte", CategoryID: &cat.ID, Status: models.StatusActive}
	require.NoError(t, db.Create(&withCat).Error)
	noCat := models.Dish{Name: "Çay", Status: models.StatusActive}
	require.NoError(t, db.Create(&noCat).Error)

	at := now.Add(-1 * time.Hour)
	s := models.Sale{SaleDate: at, Total: 100, Status: models.TxCompleted, CreatedAt: at, UpdatedAt: at}
	require.NoError(t, db.Create(&s).Error)
	require.NoError(t, db.Create(&models.SaleDetail{
		SaleID: s.ID, DishID: withCat.ID, Quantity: 3, UnitPrice: 25, Subtotal: 75,
	}).Error)
	require.NoError(t, db.Create(&models.SaleDetail{
		SaleID: s.ID, DishID: noCat.ID, Quantity: 5, UnitPrice: 5, Subtotal: 25,
	}).Error)

	b, err := dashboard.GetSalesBreakdown(db, now)
	require.NoError(t, err)

	require.Len(t, b.Week, 2)
	assert.Equal(t, "Ana Yemekler", b.Week[0].Category)
	assert.Equal(t, 75.0, b.Week[0].Total)
	assert.Equal(t, 75.0, b.Week[0].Percentage)
	assert.Equal(t, "Diğer", b.Week[1].Category)
	assert.Nil(t, b.Week[1].CategoryID)
	assert.Equal(t, 25.0, b.Week[1].Percentage)
}

func TestExportReport_ProducesWorkbook(t *testing.T) {
	db := newTestDB(t)
	seedIngredient(t, db, "Un", 1, 10)
	seedSale(t, db, now.Add(-1*time.Hour), 100, models.TxCompleted)

	data, name, err := dashboard.ExportReport(db, now)
	require.NoError(t, err)

	assert.NotEmpty(t, data)
	assert.Contains(t, name, ".xlsx")
	// XLSX bir zip arşividir, "PK" imzasıyla başlar
	require.GreaterOrEqual(t, len(data), 2)
	assert.Equal(t, []byte{'P', 'K'}, data[:2])
}
