package stock_test

import (
	"testing"

	"lokanta-backend/internal/apperr"
	"lokanta-backend/internal/database"
	"lokanta-backend/internal/models"
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

func createIngredient(t *testing.T, db *gorm.DB, name string, stockQty, minStock float64) models.Ingredient {
	ing := models.Ingredient{Name: name, Unit: "kg", Stock: stockQty, MinimumStock: minStock, Status: models.StatusActive}
	require.NoError(t, db.Create(&ing).Error)
	return ing
}

func createDishWithRecipe(t *testing.T, db *gorm.DB, name string, lines map[uint]float64) models.Dish {
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

func TestLedger_IncrementDecrement(t *testing.T) {
	db := newTestDB(t)
	ing := createIngredient(t, db, "Domates", 10, 2)

	require.NoError(t, stock.Increment(db, ing.ID, 5))
	assert.Equal(t, 15.0, currentStock(t, db, ing.ID))

	require.NoError(t, stock.Decrement(db, ing.ID, 8))
	assert.Equal(t, 7.0, currentStock(t, db, ing.ID))
}

func TestLedger_DecrementFloored_StopsAtZero(t *testing.T) {
	db := newTestDB(t)
	ing := createIngredient(t, db, "Salça", 3, 1)

	// Geri alınan miktar mevcut stoktan büyük: taban sıfır
	require.NoError(t, stock.DecrementFloored(db, ing.ID, 10))
	assert.Equal(t, 0.0, currentStock(t, db, ing.ID))
}

func TestLedger_FixNegative(t *testing.T) {
	db := newTestDB(t)
	negative := createIngredient(t, db, "Un", 2, 1)
	positive := createIngredient(t, db, "Şeker", 4, 1)

	require.NoError(t, stock.Decrement(db, negative.ID, 5)) // -3'e düşer

	require.NoError(t, stock.FixNegative(db))

	assert.Equal(t, 0.0, currentStock(t, db, negative.ID))
	assert.Equal(t, 4.0, currentStock(t, db, positive.ID))
}

func TestResolver_ScalesByQuantity(t *testing.T) {
	db := newTestDB(t)
	tomato := createIngredient(t, db, "Domates", 10, 2)
	oil := createIngredient(t, db, "Zeytinyağı", 5, 1)
	d := createDishWithRecipe(t, db, "Menemen", map[uint]float64{
		tomato.ID: 0.3,
		oil.ID:    0.05,
	})

	reqs, err := stock.ResolveRequirements(db, d.ID, 4)
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	byID := map[uint]float64{}
	for _, r := range reqs {
		byID[r.IngredientID] = r.RequiredQuantity
	}
	assert.InDelta(t, 1.2, byID[tomato.ID], 1e-9)
	assert.InDelta(t, 0.2, byID[oil.ID], 1e-9)
}

func TestResolver_UnknownDish_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := stock.ResolveRequirements(db, 999, 1)
	require.Error(t, err)

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, apperr.KindNotFound, ae.Kind)
}

func TestResolver_RecipelessDish_EmptyRequirements(t *testing.T) {
	db := newTestDB(t)
	d := createDishWithRecipe(t, db, "Günün Çorbası", nil)

	reqs, err := stock.ResolveRequirements(db, d.ID, 3)
	require.NoError(t, err)
	assert.Empty(t, reqs)
}

func TestValidateSale_ReportsShortfall(t *testing.T) {
	// GIVEN: Reçete porsiyon başına 2 birim istiyor, stokta 3 birim var
	db := newTestDB(t)
	ing := createIngredient(t, db, "Kıyma", 3, 1)
	d := createDishWithRecipe(t, db, "Köfte", map[uint]float64{ing.ID: 2})

	// WHEN: 2 porsiyon doğrulanır (gereken 4)
	v, err := stock.ValidateSale(db, []stock.SaleItem{{DishID: d.ID, Quantity: 2}})
	require.NoError(t, err)

	// THEN: 1 birim eksik raporlanır
	assert.False(t, v.IsValid)
	require.Len(t, v.InsufficientDishes, 1)
	report := v.InsufficientDishes[0]
	assert.Equal(t, d.ID, report.DishID)
	assert.Equal(t, "Köfte", report.DishName)
	require.Len(t, report.InsufficientIngredients, 1)
	sf := report.InsufficientIngredients[0]
	assert.InDelta(t, 4.0, sf.Required, 1e-9)
	assert.InDelta(t, 3.0, sf.Available, 1e-9)
	assert.InDelta(t, 1.0, sf.Shortfall, 1e-9)
}

func TestValidateSale_SnapshotSemantics(t *testing.T) {
	// Aynı malzemeyi kullanan iki kalem: doğrulama mutasyon öncesi anlık
	// görüntü üzerinde çalıştığından ikisi de aynı stoku görür.
	db := newTestDB(t)
	ing := createIngredient(t, db, "Pirinç", 5, 1)
	d1 := createDishWithRecipe(t, db, "Pilav", map[uint]float64{ing.ID: 3})
	d2 := createDishWithRecipe(t, db, "Sütlaç", map[uint]float64{ing.ID: 3})

	v, err := stock.ValidateSale(db, []stock.SaleItem{
		{DishID: d1.ID, Quantity: 1},
		{DishID: d2.ID, Quantity: 1},
	})
	require.NoError(t, err)

	// Toplam ihtiyaç 6 > 5 ama kalem başına 3 ≤ 5: anlık görüntüde geçerli
	assert.True(t, v.IsValid)
	assert.Empty(t, v.InsufficientDishes)
}

func TestValidateSale_RecipelessDishAlwaysValid(t *testing.T) {
	db := newTestDB(t)
	d := createDishWithRecipe(t, db, "Çay", nil)

	v, err := stock.ValidateSale(db, []stock.SaleItem{{DishID: d.ID, Quantity: 50}})
	require.NoError(t, err)
	assert.True(t, v.IsValid)
}
