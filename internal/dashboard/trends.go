package dashboard

import (
	"sort"
	"time"

	"lokanta-backend/internal/models"

	"gorm.io/gorm"
)

type TrendPoint struct {
	Period string  `json:"period"`
	Count  int64   `json:"count"`
	Total  float64 `json:"total"`
}

type InventoryTrendPoint struct {
	Period        string  `json:"period"`
	ItemsCount    int64   `json:"items_count"`
	TotalValue    float64 `json:"total_value"`
	LowStockCount int64   `json:"low_stock_count"`
}

// GetSalesTrends - dönem (ör. "4w") ve granülerliğe göre satış adedi ve
// cirosunun zaman serisi. Kovalar uygulama katmanında oluşturulur.
func GetSalesTrends(db *gorm.DB, now time.Time, period, granularity string) ([]TrendPoint, error) {
	return txTrends(db, &models.Sale{}, now, period, granularity)
}

// GetPurchasesTrends - alış adedi ve maliyeti için aynı seri.
func GetPurchasesTrends(db *gorm.DB, now time.Time, period, granularity string) ([]TrendPoint, error) {
	return txTrends(db, &models.Purchase{}, now, period, granularity)
}

func txTrends(db *gorm.DB, model any, now time.Time, period, granularity string) ([]TrendPoint, error) {
	days, err := parsePeriod(period)
	if err != nil {
		return nil, err
	}
	// Granülerlik baştan doğrulanır ki hatalı istek boş seriyle maskelenmesin.
	if _, err := bucketLabel(now, granularity); err != nil {
		return nil, err
	}

	start := dayStart(now).AddDate(0, 0, -days)

	type row struct {
		CreatedAt time.Time
		Total     float64
	}
	var rows []row
	err = db.Model(model).
		Select("created_at, total").
		Where("deleted_at IS NULL AND status = ? AND created_at >= ?", models.TxCompleted, start).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	buckets := map[string]*TrendPoint{}
	for _, r := range rows {
		label, err := bucketLabel(r.CreatedAt, granularity)
		if err != nil {
			return nil, err
		}
		p, ok := buckets[label]
		if !ok {
			p = &TrendPoint{Period: label}
			buckets[label] = p
		}
		p.Count++
		p.Total += r.Total
	}

	points := make([]TrendPoint, 0, len(buckets))
	for _, p := range buckets {
		p.Total = round2(p.Total)
		points = append(points, *p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points, nil
}

// GetInventoryTrends - günlük envanter serisi: kayıtlı malzeme sayısı,
// ortalama alış fiyatlarıyla stok değeri ve düşük stok sayısı. Stok geçmişi
// tutulmadığından seri güncel stok seviyeleri üzerinden hesaplanır.
func GetInventoryTrends(db *gorm.DB, now time.Time, period string) ([]InventoryTrendPoint, error) {
	days, err := parsePeriod(period)
	if err != nil {
		return nil, err
	}

	ingredients, err := activeIngredients(db)
	if err != nil {
		return nil, err
	}
	prices, err := avgRecentPrices(db, 5)
	if err != nil {
		return nil, err
	}

	start := dayStart(now).AddDate(0, 0, -days)
	points := make([]InventoryTrendPoint, 0, days+1)
	for day := start; !day.After(dayStart(now)); day = day.AddDate(0, 0, 1) {
		dayEnd := day.AddDate(0, 0, 1)
		p := InventoryTrendPoint{Period: day.Format("2006-01-02")}
		value := 0.0
		for _, ing := range ingredients {
			if !ing.CreatedAt.Before(dayEnd) {
				continue
			}
			p.ItemsCount++
			value += ing.Stock * prices[ing.ID]
			if ing.MinimumStock > 0 && ing.Stock <= ing.MinimumStock {
				p.LowStockCount++
			}
		}
		p.TotalValue = round2(value)
		points = append(points, p)
	}
	return points, nil
}
