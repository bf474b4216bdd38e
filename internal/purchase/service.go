// Package purchase - alış işlemleri: başlık + kalemler + stok artışı tek
// transaction içinde. İptal, kalemlerin stok katkısını sıfır tabanlı geri alır.
package purchase

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"lokanta-backend/internal/apperr"
	"lokanta-backend/internal/audit"
	"lokanta-backend/internal/metrics"
	"lokanta-backend/internal/models"
	"lokanta-backend/internal/stock"

	"gorm.io/gorm"
)

type DetailInput struct {
	IngredientID uint
	Quantity     float64
	UnitPrice    float64
}

type Input struct {
	SupplierID   *uint
	PurchaseDate time.Time
	Notes        string
	Details      []DetailInput
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func validateDetails(details []DetailInput) error {
	if len(details) == 0 {
		return apperr.BadRequest("Alış en az bir kalem içermelidir")
	}
	for _, d := range details {
		if d.IngredientID == 0 {
			return apperr.BadRequest("ingredient_id zorunlu")
		}
		if d.Quantity <= 0 {
			return apperr.BadRequest("Kalem miktarı sıfırdan büyük olmalı")
		}
		if d.UnitPrice < 0 {
			return apperr.BadRequest("Birim fiyat negatif olamaz")
		}
	}
	return nil
}

func checkIngredientsExist(tx *gorm.DB, details []DetailInput) error {
	for _, d := range details {
		var count int64
		if err := tx.Model(&models.Ingredient{}).
			Where("id = ? AND deleted_at IS NULL", d.IngredientID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return apperr.NotFound(fmt.Sprintf("Malzeme bulunamadı (ID: %d)", d.IngredientID))
		}
	}
	return nil
}

// Create - alış oluşturur. Ara toplamlar ve toplam uygulama katmanında
// hesaplanır; herhangi bir adım başarısız olursa stok artışları dahil
// her şey geri alınır.
func Create(db *gorm.DB, in Input) (*models.Purchase, error) {
	if err := validateDetails(in.Details); err != nil {
		return nil, err
	}

	var purchaseID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := checkIngredientsExist(tx, in.Details); err != nil {
			return err
		}

		p := models.Purchase{
			SupplierID:   in.SupplierID,
			PurchaseDate: in.PurchaseDate,
			Notes:        in.Notes,
			Status:       models.TxCompleted,
		}
		if err := tx.Create(&p).Error; err != nil {
			return err
		}

		total := 0.0
		for _, d := range in.Details {
			subtotal := round2(d.Quantity * d.UnitPrice)
			detail := models.PurchaseDetail{
				PurchaseID:   p.ID,
				IngredientID: d.IngredientID,
				Quantity:     d.Quantity,
				UnitPrice:    d.UnitPrice,
				Subtotal:     subtotal,
			}
			if err := tx.Create(&detail).Error; err != nil {
				return err
			}
			if err := stock.Increment(tx, d.IngredientID, d.Quantity); err != nil {
				return err
			}
			total += subtotal
		}

		if err := tx.Model(&p).Update("total", round2(total)).Error; err != nil {
			return err
		}

		purchaseID = p.ID
		return audit.Write(tx, audit.Entry{
			EntityType:  "purchase",
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Alış oluşturuldu: %d kalem, toplam %.2f", len(in.Details), round2(total)),
			After:       p,
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.PurchasesCreated.Inc()
	return GetByID(db, purchaseID)
}

// Update - tam değiştir ve yeniden hesapla: eski kalemlerin stok katkısı
// geri alınır, kalemler silinir, başlık güncellenir, yeni kalemler stok
// artışıyla yeniden eklenir. Kısmi güncelleme kayması böylece önlenir.
func Update(db *gorm.DB, id uint, in Input) (*models.Purchase, error) {
	if err := validateDetails(in.Details); err != nil {
		return nil, err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		existing, err := loadForUpdate(tx, id)
		if err != nil {
			return err
		}
		if existing.Status == models.TxCancelled {
			return apperr.BadRequest("İptal edilmiş alış güncellenemez")
		}
		if err := checkIngredientsExist(tx, in.Details); err != nil {
			return err
		}

		for _, d := range existing.Details {
			if err := stock.DecrementFloored(tx, d.IngredientID, d.Quantity); err != nil {
				return err
			}
		}
		if err := tx.Where("purchase_id = ?", id).Delete(&models.PurchaseDetail{}).Error; err != nil {
			return err
		}

		total := 0.0
		for _, d := range in.Details {
			subtotal := round2(d.Quantity * d.UnitPrice)
			detail := models.PurchaseDetail{
				PurchaseID:   id,
				IngredientID: d.IngredientID,
				Quantity:     d.Quantity,
				UnitPrice:    d.UnitPrice,
				Subtotal:     subtotal,
			}
			if err := tx.Create(&detail).Error; err != nil {
				return err
			}
			if err := stock.Increment(tx, d.IngredientID, d.Quantity); err != nil {
				return err
			}
			total += subtotal
		}

		updates := map[string]any{
			"supplier_id":   in.SupplierID,
			"purchase_date": in.PurchaseDate,
			"notes":         in.Notes,
			"total":         round2(total),
		}
		if err := tx.Model(&models.Purchase{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}

		return audit.Write(tx, audit.Entry{
			EntityType:  "purchase",
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Alış güncellendi: %d kalem", len(in.Details)),
			Before:      existing,
		})
	})
	if err != nil {
		return nil, err
	}

	return GetByID(db, id)
}

// Cancel - alışı iptal eder: kalemlerin stok katkısı sıfır tabanlı geri
// alınır, kalemler soft-delete'lenir, başlık Cancelled + deleted_at olur.
func Cancel(db *gorm.DB, id uint) (*models.Purchase, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		existing, err := loadForUpdate(tx, id)
		if err != nil {
			return err
		}
		if existing.Status == models.TxCancelled || existing.DeletedAt != nil {
			return apperr.BadRequest("Alış zaten iptal edilmiş")
		}

		for _, d := range existing.Details {
			if err := stock.DecrementFloored(tx, d.IngredientID, d.Quantity); err != nil {
				return err
			}
		}

		now := time.Now()
		if err := tx.Model(&models.PurchaseDetail{}).
			Where("purchase_id = ? AND deleted_at IS NULL", id).
			Update("deleted_at", now).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Purchase{}).Where("id = ?", id).
			Updates(map[string]any{"status": models.TxCancelled, "deleted_at": now}).Error; err != nil {
			return err
		}

		return audit.Write(tx, audit.Entry{
			EntityType:  "purchase",
			EntityID:    id,
			Action:      models.AuditActionCancel,
			Description: "Alış iptal edildi",
			Before:      existing,
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.PurchasesCancelled.Inc()
	return GetByID(db, id)
}

func loadForUpdate(tx *gorm.DB, id uint) (*models.Purchase, error) {
	var p models.Purchase
	err := tx.Preload("Details", "deleted_at IS NULL").
		Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Alış bulunamadı")
		}
		return nil, err
	}
	return &p, nil
}

// GetByID - iptal edilmiş kayıtlar da okunabilir; tedarikçi ve kalem
// bilgileri birlikte gelir.
func GetByID(db *gorm.DB, id uint) (*models.Purchase, error) {
	var p models.Purchase
	err := db.Preload("Supplier").
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Where("deleted_at IS NULL").Order("id")
		}).
		Preload("Details.Ingredient").
		Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Alış bulunamadı")
		}
		return nil, err
	}
	return &p, nil
}

type ListFilters struct {
	Search     string
	Status     string
	SupplierID uint
	StartDate  *time.Time
	EndDate    *time.Time
}

// List - varsayılan görünüm soft-delete'lenmiş kayıtları gizler; status
// filtresi Cancelled ise iptaller de listelenir.
func List(db *gorm.DB, f ListFilters, page, pageSize int) ([]models.Purchase, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	q := db.Model(&models.Purchase{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	} else {
		q = q.Where("deleted_at IS NULL")
	}
	if f.Search != "" {
		term := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(notes) LIKE ?", term)
	}
	if f.SupplierID != 0 {
		q = q.Where("supplier_id = ?", f.SupplierID)
	}
	if f.StartDate != nil {
		q = q.Where("purchase_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("purchase_date <= ?", *f.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var purchases []models.Purchase
	err := q.Preload("Supplier").
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Where("deleted_at IS NULL").Order("id")
		}).
		Preload("Details.Ingredient").
		Order("purchase_date DESC, id DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&purchases).Error
	if err != nil {
		return nil, 0, err
	}

	return purchases, total, nil
}
