// Package dashboard - salt okunur raporlama motoru: pencere istatistikleri,
// trendler, uyarılar, projeksiyonlar, karşılaştırmalar ve kategori kırılımları.
// Soft-delete'lenmiş ve Cancelled kayıtlar aksi belirtilmedikçe dışlanır.
package dashboard

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"

	"lokanta-backend/internal/apperr"
	"lokanta-backend/internal/models"

	"gorm.io/gorm"
)

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// growth - önceki karşılaştırılabilir döneme göre yüzde değişim.
// Önceki dönem 0 ise: mevcut > 0 için 100, ikisi de 0 ise 0.
func growth(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return round1((current - previous) / previous * 100)
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// weekStart - haftanın Pazartesi 00:00 başlangıcı
func weekStart(t time.Time) time.Time {
	d := dayStart(t)
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7
	}
	return d.AddDate(0, 0, -(wd - 1))
}

func monthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func yearStart(t time.Time) time.Time {
	return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
}

var periodRe = regexp.MustCompile(`^(\d+)([dwmy])$`)

// parsePeriod - "7d", "4w", "6m", "1y" biçimindeki dönemi gün sayısına çevirir.
func parsePeriod(period string) (int, error) {
	m := periodRe.FindStringSubmatch(period)
	if m == nil {
		return 0, apperr.BadRequest("Geçersiz dönem formatı. Örnek: 7d, 4w, 6m, 1y")
	}
	n, _ := strconv.Atoi(m[1])
	multipliers := map[string]int{"d": 1, "w": 7, "m": 30, "y": 365}
	return n * multipliers[m[2]], nil
}

// bucketLabel - zaman damgasını granülerliğe göre kovasına etiketler.
// Etiketler sıfır dolgulu olduğundan sözlük sırası kronolojik sıradır.
func bucketLabel(t time.Time, granularity string) (string, error) {
	switch granularity {
	case "hourly":
		return t.Format("2006-01-02 15:00"), nil
	case "daily":
		return t.Format("2006-01-02"), nil
	case "weekly":
		y, w := t.ISOWeek()
		return fmt.Sprintf("%d-W%02d", y, w), nil
	case "monthly":
		return t.Format("2006-01"), nil
	case "yearly":
		return t.Format("2006"), nil
	default:
		return "", apperr.BadRequest("Geçersiz granülerlik. Kullan: hourly, daily, weekly, monthly, yearly")
	}
}

// lastPrices - malzeme başına bilinen son alış birim fiyatı.
// Hiç alınmamış malzeme haritada yer almaz (değeri 0 kabul edilir).
func lastPrices(db *gorm.DB) (map[uint]float64, error) {
	type row struct {
		IngredientID uint
		UnitPrice    float64
	}
	var rows []row
	err := db.Model(&models.PurchaseDetail{}).
		Select("ingredient_id, unit_price").
		Where("deleted_at IS NULL").
		Order("created_at ASC, id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	prices := make(map[uint]float64, len(rows))
	for _, r := range rows {
		prices[r.IngredientID] = r.UnitPrice // son yazan kazanır
	}
	return prices, nil
}

// avgRecentPrices - malzeme başına son n alış fiyatının ortalaması.
func avgRecentPrices(db *gorm.DB, n int) (map[uint]float64, error) {
	type row struct {
		IngredientID uint
		UnitPrice    float64
	}
	var rows []row
	err := db.Model(&models.PurchaseDetail{}).
		Select("ingredient_id, unit_price").
		Where("deleted_at IS NULL").
		Order("created_at DESC, id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int)
	sums := make(map[uint]float64)
	for _, r := range rows {
		if counts[r.IngredientID] >= n {
			continue
		}
		counts[r.IngredientID]++
		sums[r.IngredientID] += r.UnitPrice
	}

	avgs := make(map[uint]float64, len(sums))
	for id, sum := range sums {
		avgs[id] = sum / float64(counts[id])
	}
	return avgs, nil
}

func activeIngredients(db *gorm.DB) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := db.Where("deleted_at IS NULL").Find(&ingredients).Error
	return ingredients, err
}
