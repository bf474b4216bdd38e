// Package stock - malzeme stok defteri: artırma/azaltma primitifleri,
// reçete çözümü ve satış öncesi stok doğrulaması. Mutasyonlar çağıranın
// transaction'ı içinde koşar; paket kendi transaction'ını açmaz.
package stock

import (
	"lokanta-backend/internal/models"

	"gorm.io/gorm"
)

// Increment - stok girişi (alış kalemi).
func Increment(db *gorm.DB, ingredientID uint, amount float64) error {
	return db.Model(&models.Ingredient{}).
		Where("id = ?", ingredientID).
		Update("stock", gorm.Expr("stock + ?", amount)).Error
}

// Decrement - stok tüketimi (satış kalemi). Zorunlu satışta geçici olarak
// negatife düşebilir; commit sonrası FixNegative süpürmesi sıfıra çeker.
func Decrement(db *gorm.DB, ingredientID uint, amount float64) error {
	return db.Model(&models.Ingredient{}).
		Where("id = ?", ingredientID).
		Update("stock", gorm.Expr("stock - ?", amount)).Error
}

// DecrementFloored - geri alma yolu: birikmiş düzeltme hataları stoku
// negatife itmesin diye sıfırda tabanlanır.
func DecrementFloored(db *gorm.DB, ingredientID uint, amount float64) error {
	return db.Model(&models.Ingredient{}).
		Where("id = ?", ingredientID).
		Update("stock", gorm.Expr("CASE WHEN stock - ? < 0 THEN 0 ELSE stock - ? END", amount, amount)).Error
}

// FixNegative - negatif kalan stokları sıfırlar. Zorunlu satış doğrulamayı
// atladığında commit sonrası güvenlik ağı olarak çağrılır.
func FixNegative(db *gorm.DB) error {
	return db.Model(&models.Ingredient{}).
		Where("stock < 0").
		Update("stock", 0).Error
}
