package dashboard

import (
	"sort"
	"time"

	"lokanta-backend/internal/models"

	"gorm.io/gorm"
)

type CategoryShare struct {
	CategoryID *uint   `json:"category_id"`
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Percentage float64 `json:"percentage"`
}

type Breakdown struct {
	Week  []CategoryShare `json:"week"`
	Month []CategoryShare `json:"month"`
	Year  []CategoryShare `json:"year"`
}

type breakdownRow struct {
	Date       time.Time
	Subtotal   float64
	CategoryID *uint
}

// GetSalesBreakdown - hafta / ay / yıl pencerelerinde cironun yemek
// kategorilerine göre dağılımı.
func GetSalesBreakdown(db *gorm.DB, now time.Time) (*Breakdown, error) {
	var rows []breakdownRow
	err := db.Table("sale_details").
		Select("sales.sale_date AS date, sale_details.subtotal, dishes.category_id AS category_id").
		Joins("INNER JOIN sales ON sales.id = sale_details.sale_id AND sales.deleted_at IS NULL AND sales.status = ?", models.TxCompleted).
		Joins("INNER JOIN dishes ON dishes.id = sale_details.dish_id").
		Where("sale_details.deleted_at IS NULL AND sales.sale_date >= ?", yearStart(now)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var categories []models.DishCategory
	if err := db.Find(&categories).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	return buildBreakdown(rows, names, now), nil
}

// GetPurchasesBreakdown - alış maliyetinin malzeme kategorilerine dağılımı.
func GetPurchasesBreakdown(db *gorm.DB, now time.Time) (*Breakdown, error) {
	var rows []breakdownRow
	err := db.Table("purchase_details").
		Select("purchases.purchase_date AS date, purchase_details.subtotal, ingredients.category_id AS category_id").
		Joins("INNER JOIN purchases ON purchases.id = purchase_details.purchase_id AND purchases.deleted_at IS NULL AND purchases.status = ?", models.TxCompleted).
		Joins("INNER JOIN ingredients ON ingredients.id = purchase_details.ingredient_id").
		Where("purchase_details.deleted_at IS NULL AND purchases.purchase_date >= ?", yearStart(now)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var categories []models.IngredientCategory
	if err := db.Find(&categories).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	return buildBreakdown(rows, names, now), nil
}

func buildBreakdown(rows []breakdownRow, names map[uint]string, now time.Time) *Breakdown {
	return &Breakdown{
		Week:  shareByCategory(rows, names, weekStart(now)),
		Month: shareByCategory(rows, names, monthStart(now)),
		Year:  shareByCategory(rows, names, yearStart(now)),
	}
}

// shareByCategory - pencere içindeki satırları kategoriye toplar ve pencere
// toplamına göre yüzdeler. Kategorisiz satırlar "Diğer" altında birleşir.
func shareByCategory(rows []breakdownRow, names map[uint]string, from time.Time) []CategoryShare {
	type key struct {
		id  uint
		has bool
	}
	totals := map[key]float64{}
	windowTotal := 0.0
	for _, r := range rows {
		if r.Date.Before(from) {
			continue
		}
		k := key{}
		if r.CategoryID != nil {
			k = key{id: *r.CategoryID, has: true}
		}
		totals[k] += r.Subtotal
		windowTotal += r.Subtotal
	}

	shares := make([]CategoryShare, 0, len(totals))
	for k, total := range totals {
		share := CategoryShare{Total: round2(total)}
		if k.has {
			id := k.id
			share.CategoryID = &id
			share.Category = names[k.id]
		} else {
			share.Category = "Diğer"
		}
		if windowTotal > 0 {
			share.Percentage = round1(total / windowTotal * 100)
		}
		shares = append(shares, share)
	}

	sort.Slice(shares, func(i, j int) bool { return shares[i].Total > shares[j].Total })
	return shares
}
