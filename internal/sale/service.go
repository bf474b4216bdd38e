// Package sale - satış işlemleri: stok doğrulaması, başlık + kalemler +
// reçete bazlı stok düşümü tek transaction içinde.
package sale

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

// restoreStockOnCancel - bilinçli politika kararı: satış iptali tüketilen
// stoku GERİ YÜKLEMEZ. Servis edilen yemek mutfağa dönmez; alış iptalinin
// aksine burada stok hareketi yoktur.
const restoreStockOnCancel = false

type DetailInput struct {
	DishID    uint
	Quantity  float64
	UnitPrice float64
	Discount  float64
}

type Input struct {
	SaleDate time.Time
	Customer string
	Notes    string
	Details  []DetailInput
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func validateDetails(details []DetailInput) error {
	if len(details) == 0 {
		return apperr.BadRequest("Satış en az bir kalem içermelidir")
	}
	for _, d := range details {
		if d.DishID == 0 {
			return apperr.BadRequest("dish_id zorunlu")
		}
		if d.Quantity < 1 {
			return apperr.BadRequest("Kalem adedi en az 1 olmalı")
		}
		if d.UnitPrice < 0 {
			return apperr.BadRequest("Birim fiyat negatif olamaz")
		}
		if d.Discount < 0 {
			return apperr.BadRequest("İndirim negatif olamaz")
		}
	}
	return nil
}

func toSaleItems(details []DetailInput) []stock.SaleItem {
	items := make([]stock.SaleItem, 0, len(details))
	for _, d := range details {
		items = append(items, stock.SaleItem{DishID: d.DishID, Quantity: d.Quantity})
	}
	return items
}

// Create - satış oluşturur. force=false iken stok doğrulaması mutasyon
// öncesi anlık görüntü üzerinde çalışır; geçemezse yapılandırılmış eksik
// raporuyla InsufficientStockError döner. force=true doğrulamayı atlar,
// commit sonrası FixNegative süpürmesi negatif stok bırakılmamasını garantiler.
func Create(db *gorm.DB, in Input, force bool) (*models.Sale, error) {
	if err := validateDetails(in.Details); err != nil {
		return nil, err
	}

	if !force {
		validation, err := stock.ValidateSale(db, toSaleItems(in.Details))
		if err != nil {
			return nil, err
		}
		if !validation.IsValid {
			metrics.InsufficientStockRejections.Inc()
			return nil, apperr.InsufficientStock(
				"Satış için malzeme stoku yetersiz",
				validation.InsufficientDishes,
			)
		}
	}

	var saleID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		s := models.Sale{
			SaleDate: in.SaleDate,
			Customer: in.Customer,
			Notes:    in.Notes,
			Status:   models.TxCompleted,
		}
		if err := tx.Create(&s).Error; err != nil {
			return err
		}

		total := 0.0
		for _, d := range in.Details {
			subtotal := round2(d.Quantity*d.UnitPrice - d.Discount)
			detail := models.SaleDetail{
				SaleID:    s.ID,
				DishID:    d.DishID,
				Quantity:  d.Quantity,
				UnitPrice: d.UnitPrice,
				Discount:  d.Discount,
				Subtotal:  subtotal,
			}
			if err := tx.Create(&detail).Error; err != nil {
				return err
			}

			// Reçete bazlı tüketim: kalem eklemesiyle aynı transaction'da
			reqs, err := stock.ResolveRequirements(tx, d.DishID, d.Quantity)
			if err != nil {
				return err
			}
			for _, req := range reqs {
				if err := stock.Decrement(tx, req.IngredientID, req.RequiredQuantity); err != nil {
					return err
				}
			}

			total += subtotal
		}

		if err := tx.Model(&s).Update("total", round2(total)).Error; err != nil {
			return err
		}

		saleID = s.ID
		return audit.Write(tx, audit.Entry{
			EntityType:  "sale",
			EntityID:    s.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Satış oluşturuldu: %d kalem, toplam %.2f", len(in.Details), round2(total)),
			After:       s,
		})
	})
	if err != nil {
		return nil, err
	}

	if force {
		metrics.ForceSales.Inc()
		if err := stock.FixNegative(db); err != nil {
			return nil, err
		}
	}

	metrics.SalesCreated.Inc()
	return GetByID(db, saleID)
}

type UpdateInput struct {
	SaleDate *time.Time
	Customer *string
	Notes    *string
	Details  []DetailInput // nil: kalemler dokunulmaz; boş liste: hata
}

// Update - başlık alanları ve istenirse kalemlerin tam değişimi. Kalem
// değişimi stok hareketine yol açmaz; stok yalnızca satış oluşturma
// anında düşer (iptal politikasıyla tutarlı).
func Update(db *gorm.DB, id uint, in UpdateInput) (*models.Sale, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		existing, err := loadSale(tx, id)
		if err != nil {
			return err
		}
		if existing.Status == models.TxCancelled {
			return apperr.BadRequest("İptal edilmiş satış güncellenemez")
		}

		updates := map[string]any{}
		if in.SaleDate != nil {
			updates["sale_date"] = *in.SaleDate
		}
		if in.Customer != nil {
			updates["customer"] = *in.Customer
		}
		if in.Notes != nil {
			updates["notes"] = *in.Notes
		}

		if in.Details != nil {
			if err := validateDetails(in.Details); err != nil {
				return err
			}
			if err := tx.Where("sale_id = ?", id).Delete(&models.SaleDetail{}).Error; err != nil {
				return err
			}
			total := 0.0
			for _, d := range in.Details {
				subtotal := round2(d.Quantity*d.UnitPrice - d.Discount)
				detail := models.SaleDetail{
					SaleID:    id,
					DishID:    d.DishID,
					Quantity:  d.Quantity,
					UnitPrice: d.UnitPrice,
					Discount:  d.Discount,
					Subtotal:  subtotal,
				}
				if err := tx.Create(&detail).Error; err != nil {
					return err
				}
				total += subtotal
			}
			updates["total"] = round2(total)
		}

		if len(updates) > 0 {
			if err := tx.Model(&models.Sale{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}
		}

		return audit.Write(tx, audit.Entry{
			EntityType:  "sale",
			EntityID:    id,
			Action:      models.AuditActionUpdate,
			Description: "Satış güncellendi",
			Before:      existing,
		})
	})
	if err != nil {
		return nil, err
	}

	return GetByID(db, id)
}

// Cancel - satışı iptal eder: Cancelled + deleted_at, kalemler
// soft-delete. restoreStockOnCancel politikası gereği stok geri yüklenmez.
func Cancel(db *gorm.DB, id uint) (*models.Sale, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		existing, err := loadSale(tx, id)
		if err != nil {
			return err
		}
		if existing.Status == models.TxCancelled || existing.DeletedAt != nil {
			return apperr.BadRequest("Satış zaten iptal edilmiş")
		}

		now := time.Now()
		if err := tx.Model(&models.SaleDetail{}).
			Where("sale_id = ? AND deleted_at IS NULL", id).
			Update("deleted_at", now).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Sale{}).Where("id = ?", id).
			Updates(map[string]any{"status": models.TxCancelled, "deleted_at": now}).Error; err != nil {
			return err
		}

		return audit.Write(tx, audit.Entry{
			EntityType:  "sale",
			EntityID:    id,
			Action:      models.AuditActionCancel,
			Description: "Satış iptal edildi",
			Before:      existing,
		})
	})
	if err != nil {
		return nil, err
	}

	metrics.SalesCancelled.Inc()
	return GetByID(db, id)
}

func loadSale(tx *gorm.DB, id uint) (*models.Sale, error) {
	var s models.Sale
	err := tx.Preload("Details", "deleted_at IS NULL").Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Satış bulunamadı")
		}
		return nil, err
	}
	return &s, nil
}

// GetByID - iptal edilmiş kayıtlar da okunabilir.
func GetByID(db *gorm.DB, id uint) (*models.Sale, error) {
	var s models.Sale
	err := db.Preload("Details", func(db *gorm.DB) *gorm.DB {
		return db.Where("deleted_at IS NULL").Order("id")
	}).
		Preload("Details.Dish").
		Where("id = ?", id).First(&s).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("Satış bulunamadı")
		}
		return nil, err
	}
	return &s, nil
}

type ListFilters struct {
	Search    string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}

func List(db *gorm.DB, f ListFilters, page, pageSize int) ([]models.Sale, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	q := db.Model(&models.Sale{})

	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	} else {
		q = q.Where("deleted_at IS NULL")
	}
	if f.Search != "" {
		term := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(notes) LIKE ? OR LOWER(customer) LIKE ?", term, term)
	}
	if f.StartDate != nil {
		q = q.Where("sale_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("sale_date <= ?", *f.EndDate)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var sales []models.Sale
	err := q.Preload("Details", func(db *gorm.DB) *gorm.DB {
		return db.Where("deleted_at IS NULL").Order("id")
	}).
		Preload("Details.Dish").
		Order("sale_date DESC, id DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&sales).Error
	if err != nil {
		return nil, 0, err
	}

	return sales, total, nil
}
