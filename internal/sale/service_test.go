package sale_test

import (
	"testing"
	"time"

	"lokanta-backend/internal/apperr"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"
	"lokanta-backend/internal/sale"
	"lokanta-backend/internal/stock"

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

func createIngredient(t *testing.T, db *gorm.DB, name string, stockQty float64) models.Ingredient {
	ing := models.Ingredient{Name: name, Unit: "kg", Stock: stockQty, MinimumStock: 1, Status: models.StatusActive}
	require.NoError(t, db.Create(&ing).Error)
	return ing
}

func createDish(t *testing.T, db *gorm.DB, name string, lines map[uint]float64) models.Dish {
	d := models.Dish{Name: name, Price: 100, Status: models.StatusActive}
	require.NoError(t, db.Create(&d).Error)
	for ingID, qty := range lines {
		require.NoError(t, db.Create(&models.DishIngredient{
			DishID: d.ID, IngredientID: ingID, QuantityUsed: qty,
		}).Error)
	}
	return d
}

func currentStock(t *testing.T, db *gorm.DB, id uint) float64 {
	var ing models.Ingredient
	require.NoError(t, db.First(&ing, id).Error)
	return ing.Stock
}

func testDate() time.Time {
	return time.Date(2025, 12, 9, 0, 0, 0, 0, time.UTC)
}

func TestCreate_ConsumesRecipeAndDerivesTotal(t *testing.T) {
	db := newTestDB(t)
	meat := createIngredient(t, db, "Kıyma", 10)
	d := createDish(t, db, "Köfte", map[uint]float64{meat.ID: 0.2})

	s, err := sale.Create(db, sale.Input{
		SaleDate: testDate(),
		Details:  []sale.DetailInput{{DishID: d.ID, Quantity: 2, UnitPrice: 10}},
	}, false)
	require.NoError(t, err)

	assert.Equal(t, 20.0, s.Total)
	assert.Equal(t, models.TxCompleted, s.Status)
	assert.InDelta(t, 9.6, currentStock(t, db, meat.ID), 1e-9)
}

func TestCreate_DiscountReducesSubtotal(t *testing.T) {
	db := newTestDB(t)
	d := createDish(t, db, "Çay", nil)

	s, err := sale.Create(db, sale.Input{
		SaleDate: testDate(),
		Details:  []sale.DetailInput{{DishID: d.ID, Quantity: 4, UnitPrice: 15, Discount: 5}},
	}, false)
	require.NoError(t, err)

	// 4 × 15 − 5 = 55
	assert.Equal(t, 55.0, s.Total)
}

func TestCreate_InsufficientStock_RejectedWithReport(t *testing.T) {
	db := newTestDB(t)
	meat := createIngredient(t, db, "Kıyma", 3)
	d := createDish(t, db, "Köfte", map[uint]float64{meat.ID: 2})

	_, err := sale.Create(db, sale.Input{
		SaleDate: testDate(),
		Details:  []sale.DetailInput{{DishID: d.ID, Quantity: 2, UnitPrice: 10}},
	}, false)
	require.Error(t, err)

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindInsufficientStock, ae.Kind)

	reports, ok := ae.Details.([]stock.ShortfallReport)
	require.True(t, ok)
	require.Len(t, reports, 1)
	require.Len(t, reports[0].InsufficientIngredients, 1)
	assert.InDelta(t, 1.0, reports[0].InsufficientIngredients[0].Shortfall, 1e-9)

	// Satış yazılmadı, stok değişmedi
	var count int64
	require.NoError(t, db.Model(&models.Sale{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
	assert.Equal(t, 3.0, currentStock(t, db, meat.ID))
}

func TestCreate_ForceSale_NeverPersistsNegativeStock(t *testing.T) {
	db := newTestDB(t)
	meat := createIngredient(t, db, "Kıyma", 3)
	d := createDish(t, db, "Köfte", map[uint]float64{meat.ID: 2})

	s, err := sale.Create(db, sale.Input{
		SaleDate: testDate(),
		Details:  []sale.DetailInput{{DishID: d.ID, Quantity: 2, UnitPrice: 10}},
	}, true)
	require.NoError(t, err)
	assert.Equal(t, models.TxCompleted, s.Status)

	// 3 − 4 = −1 olurdu; süpürme sıfıra çeker
	assert.Equal(t, 0.0, currentStock(t, db, meat.ID))
}

func TestCreate_QuantityBelowOne_BadRequest(t *testing.T) {
	db := newTestDB(t)
	d := createDish(t, db, "Çay", nil)

	_, err := sale.Create(db, sale.Input{
		SaleDate: testDate(),
		Details:  []sale.DetailInput{{DishID: d.ID, Quantity: 0.5, UnitPrice: 10}},
	}, false)
	require.Error(t, err)

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindBadRequest, ae.Kind)
}

func TestCancel_DoesNotRestoreStock(t *testing.T) {
	// Politika: servis edilen yemek mutfağa dönmez, iptal stok geri yüklemez.
	db := newTestDB(t)
	meat := createIngredient(t, db, "Kıyma", 10)
	d := createDish(t, db, "Köfte", map[uint]float64{meat.ID: 1})

	s, err := sale.Create(db, sale.Input{
		SaleDate: testDate(),
		Details:  []sale.DetailInput{{DishID: d.ID, Quantity: 4, UnitPrice: 10}},
	}, false)
	require.NoError(t, err)
	require.Equal(t, 6.0, currentStock(t, db, meat.ID))

	cancelled, err := sale.Cancel(db, s.ID)
	require.NoError(t, err)

	assert.Equal(t, models.TxCancelled, cancelled.Status)
	assert.NotNil(t, cancelled.DeletedAt)
	assert.Equal(t, 6.0, currentStock(t, db, meat.ID))
}

func TestCancel_Twice_BadRequest(t *testing.T) {
	db := newTestDB(t)
	d := createDish(t, db, "Çay", nil)

	s, err := sale.Create(db, sale.Input{
		SaleDate: testDate(),
		Details:  []sale.DetailInput{{DishID: d.ID, Quantity: 1, UnitPrice: 5}},
	}, false)
	require.NoError(t, err)

	_, err = sale.Cancel(db, s.ID)
	require.NoError(t, err)

	_, err = sale.Cancel(db, s.ID)
	require.Error(t, err)

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindBadRequest, ae.Kind)
}

func TestUpdate_ReplacesDetailsWithoutStockMovement(t *testing.T) {
	db := newTestDB(t)
	meat := createIngredient(t, db, "Kıyma", 10)
	d := createDish(t, db, "Köfte", map[uint]float64{meat.ID: 1})

	s, err := sale.Create(db, sale.Input{
		SaleDate: testDate(),
		Details:  []sale.DetailInput{{DishID: d.ID, Quantity: 2, UnitPrice: 10}},
	}, false)
	require.NoError(t, err)
	require.Equal(t, 8.0, currentStock(t, db, meat.ID))

	updated, err := sale.Update(db, s.ID, sale.UpdateInput{
		Details: []sale.DetailInput{{DishID: d.ID, Quantity: 5, UnitPrice: 12}},
	})
	require.NoError(t, err)

	assert.Equal(t, 60.0, updated.Total)
	// Kalem değişimi stok hareketi üretmez
	assert.Equal(t, 8.0, currentStock(t, db, meat.ID))
}

func TestUpdate_HeaderOnly(t *testing.T) {
	db := newTestDB(t)
	d := createDish(t, db, "Çay", nil)

	s, err := sale.Create(db, sale.Input{
		SaleDate: testDate(),
		Customer: "Ali",
		Details:  []sale.DetailInput{{DishID: d.ID, Quantity: 1, UnitPrice: 5}},
	}, false)
	require.NoError(t, err)

	newCustomer := "Veli"
	updated, err := sale.Update(db, s.ID, sale.UpdateInput{Customer: &newCustomer})
	require.NoError(t, err)

	assert.Equal(t, "Veli", updated.Customer)
	assert.Equal(t, 5.0, updated.Total)
	require.Len(t, updated.Details, 1)
}

func TestUpdate_Cancelled_BadRequest(t *testing.T) {
	db := newTestDB(t)
	d := createDish(t, db, "Çay", nil)

	s, err := sale.Create(db, sale.Input{
		SaleDate: testDate(),
		Details:  []sale.DetailInput{{DishID: d.ID, Quantity: 1, UnitPrice: 5}},
	}, false)
	require.NoError(t, err)
	_, err = sale.Cancel(db, s.ID)
	require.NoError(t, err)

	note := "geç güncelleme"
	_, err = sale.Update(db, s.ID, sale.UpdateInput{Notes: &note})
	require.Error(t, err)

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindBadRequest, ae.Kind)
}
