package database

import (
	"log"

	"lokanta-backend/internal/config"
	"lokanta-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	// Eşzamanlı işlemler sabit boyutlu havuzla sınırlanır; fazla istek
	// hata almak yerine havuz kuyruğunda bekler.
	sqlDB, err := DB.DB()
	if err != nil {
		log.Fatalf("Bağlantı havuzu alınamadı: %v", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)

	if err := Migrate(DB); err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}

// Migrate - şemayı kurar. Testler bunu in-memory sqlite üzerinde çağırır.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.IngredientCategory{},
		&models.DishCategory{},
		&models.Ingredient{},
		&models.Dish{},
		&models.DishIngredient{},
		&models.Supplier{},
		&models.Purchase{},
		&models.PurchaseDetail{},
		&models.Sale{},
		&models.SaleDetail{},
		&models.AuditLog{},
	)
}
