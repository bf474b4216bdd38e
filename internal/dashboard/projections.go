package dashboard

import (
	"fmt"
	"math"
	"sort"
	"time"

	"lokanta-backend/internal/apperr"
	"lokanta-backend/internal/models"

	"gorm.io/gorm"
)

const (
	// Satış projeksiyonu son 90 günün günlük ortalamasına dayanır.
	salesHistoryDays = 90
	// Malzeme tüketim hızı son 60 günün satışlarından türetilir.
	consumptionWindowDays = 60
)

type SalesProjection struct {
	Period           string  `json:"period"`
	AvgOrdersPerDay  float64 `json:"avg_orders_per_day"`
	AvgRevenuePerDay float64 `json:"avg_revenue_per_day"`
	ProjectedOrders  int     `json:"projected_orders"`
	ProjectedRevenue float64 `json:"projected_revenue"`
	Range            struct {
		Conservative float64 `json:"conservative"`
		Optimistic   float64 `json:"optimistic"`
	} `json:"range"`
}

type StockProjection struct {
	IngredientID             uint    `json:"ingredient_id"`
	Name                     string  `json:"name"`
	Unit                     string  `json:"unit"`
	CurrentStock             float64 `json:"current_stock"`
	MinimumStock             float64 `json:"minimum_stock"`
	DailyUsage               float64 `json:"daily_usage"`
	DaysUntilDepleted        float64 `json:"days_until_depleted"`
	RecommendedOrderQuantity float64 `json:"recommended_order_quantity"`
	EstimatedCost            float64 `json:"estimated_cost"`
	Priority                 string  `json:"priority"`
}

type NextPurchase struct {
	Date   string `json:"date"`
	InDays int    `json:"in_days"`
	Reason string `json:"reason"`
}

type PurchaseRecommendations struct {
	Summary struct {
		TotalItems          int     `json:"total_items"`
		HighPriorityItems   int     `json:"high_priority_items"`
		MediumPriorityItems int     `json:"medium_priority_items"`
		EstimatedTotalCost  float64 `json:"estimated_total_cost"`
	} `json:"summary"`
	Recommendations  []StockProjection `json:"recommendations"`
	NextPurchaseDate *NextPurchase     `json:"next_purchase_date"`
}

type Projections struct {
	Sales                   *SalesProjection         `json:"sales"`
	StockDepletion          []StockProjection        `json:"stock_depletion"`
	PurchaseRecommendations *PurchaseRecommendations `json:"purchase_recommendations"`
}

// ValidateDays - projeksiyon ufku 1-365 gün aralığında olmalıdır.
func ValidateDays(days int) error {
	if days < 1 || days > 365 {
		return apperr.BadRequest("days parametresi 1 ile 365 arasında olmalı")
	}
	return nil
}

// GetProjections - satış projeksiyonu, stok tükenme tahminleri ve alış
// önerilerini tek cevapta toplar.
func GetProjections(db *gorm.DB, now time.Time, days int) (*Projections, error) {
	if err := ValidateDays(days); err != nil {
		return nil, err
	}

	sales, err := projectSales(db, now, days)
	if err != nil {
		return nil, err
	}
	depletion, err := projectStockDepletion(db, now, days)
	if err != nil {
		return nil, err
	}

	return &Projections{
		Sales:                   sales,
		StockDepletion:          depletion,
		PurchaseRecommendations: buildRecommendations(now, days, depletion),
	}, nil
}

// projectSales - son 90 günün günlük ortalama sipariş/cirosundan ileriye
// projeksiyon; aralık, günlük cironun örneklem standart sapmasıyla açılır.
func projectSales(db *gorm.DB, now time.Time, days int) (*SalesProjection, error) {
	since := dayStart(now).AddDate(0, 0, -salesHistoryDays)

	type row struct {
		CreatedAt time.Time
		Total     float64
	}
	var rows []row
	err := db.Model(&models.Sale{}).
		Select("created_at, total").
		Where("deleted_at IS NULL AND status = ? AND created_at >= ?", models.TxCompleted, since).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	type dayAgg struct {
		count   int
		revenue float64
	}
	byDay := map[string]*dayAgg{}
	for _, r := range rows {
		key := r.CreatedAt.Format("2006-01-02")
		agg, ok := byDay[key]
		if !ok {
			agg = &dayAgg{}
			byDay[key] = agg
		}
		agg.count++
		agg.revenue += r.Total
	}

	p := &SalesProjection{Period: fmt.Sprintf("%d gün", days)}
	if len(byDay) == 0 {
		return p, nil
	}

	n := float64(len(byDay))
	var sumCount, sumRevenue float64
	for _, agg := range byDay {
		sumCount += float64(agg.count)
		sumRevenue += agg.revenue
	}
	avgCount := sumCount / n
	avgRevenue := sumRevenue / n

	var variance float64
	for _, agg := range byDay {
		d := agg.revenue - avgRevenue
		variance += d * d
	}
	stddev := 0.0
	if len(byDay) > 1 {
		stddev = math.Sqrt(variance / (n - 1))
	}

	p.AvgOrdersPerDay = round1(avgCount)
	p.AvgRevenuePerDay = round2(avgRevenue)
	p.ProjectedOrders = int(math.Round(avgCount * float64(days)))
	p.ProjectedRevenue = round2(avgRevenue * float64(days))
	p.Range.Conservative = round2(math.Max(0, (avgRevenue-stddev)*float64(days)))
	p.Range.Optimistic = round2((avgRevenue + stddev) * float64(days))
	return p, nil
}

// projectStockDepletion - reçete bazlı tüketim hızından tükenme tahmini.
// Son 60 günde satışı görülen malzemeler için günlük kullanım, ilk ve son
// satış arasındaki geçen güne bölünerek bulunur. Ufuk + 7 gün içinde
// tükenecekler raporlanır, en yakın tükenen önce.
func projectStockDepletion(db *gorm.DB, now time.Time, days int) ([]StockProjection, error) {
	since := dayStart(now).AddDate(0, 0, -consumptionWindowDays)

	type usageRow struct {
		IngredientID uint
		Used         float64
		CreatedAt    time.Time
	}
	var rows []usageRow
	err := db.Table("sale_details").
		Select("dish_ingredients.ingredient_id AS ingredient_id, dish_ingredients.quantity_used * sale_details.quantity AS used, sales.created_at AS created_at").
		Joins("INNER JOIN sales ON sales.id = sale_details.sale_id AND sales.deleted_at IS NULL AND sales.status = ?", models.TxCompleted).
		Joins("INNER JOIN dish_ingredients ON dish_ingredients.dish_id = sale_details.dish_id").
		Where("sale_details.deleted_at IS NULL AND sales.created_at >= ?", since).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	type usage struct {
		total       float64
		first, last time.Time
	}
	byIngredient := map[uint]*usage{}
	for _, r := range rows {
		u, ok := byIngredient[r.IngredientID]
		if !ok {
			u = &usage{first: r.CreatedAt, last: r.CreatedAt}
			byIngredient[r.IngredientID] = u
		}
		u.total += r.Used
		if r.CreatedAt.Before(u.first) {
			u.first = r.CreatedAt
		}
		if r.CreatedAt.After(u.last) {
			u.last = r.CreatedAt
		}
	}

	ingredients, err := activeIngredients(db)
	if err != nil {
		return nil, err
	}
	prices, err := avgRecentPrices(db, 5)
	if err != nil {
		return nil, err
	}

	var projections []StockProjection
	for _, ing := range ingredients {
		if ing.Stock <= 0 {
			continue
		}
		u := byIngredient[ing.ID]
		if u == nil {
			continue
		}
		elapsed := u.last.Sub(u.first).Hours() / 24
		if elapsed <= 0 {
			continue
		}
		daily := u.total / elapsed
		if daily <= 0 {
			continue
		}

		untilDepleted := round1(ing.Stock / daily)
		if untilDepleted > float64(days+7) {
			continue
		}

		p := StockProjection{
			IngredientID:      ing.ID,
			Name:              ing.Name,
			Unit:              ing.Unit,
			CurrentStock:      ing.Stock,
			MinimumStock:      ing.MinimumStock,
			DailyUsage:        round2(daily),
			DaysUntilDepleted: untilDepleted,
		}
		if untilDepleted < float64(days) {
			qty := round2(daily*float64(days) - ing.Stock + ing.MinimumStock)
			if qty > 0 {
				p.RecommendedOrderQuantity = qty
				p.EstimatedCost = round2(qty * prices[ing.ID])
			}
			if untilDepleted < float64(days)/2 {
				p.Priority = "high"
			} else {
				p.Priority = "medium"
			}
		}
		projections = append(projections, p)
	}

	sort.Slice(projections, func(i, j int) bool {
		return projections[i].DaysUntilDepleted < projections[j].DaysUntilDepleted
	})
	if len(projections) > 20 {
		projections = projections[:20]
	}
	return projections, nil
}

// buildRecommendations - tükenme tahminlerinden alış önerisi özeti üretir.
// Önerilen alış tarihi, en yakın tükenmeden 2 gün öncesidir (en erken yarın).
func buildRecommendations(now time.Time, days int, depletion []StockProjection) *PurchaseRecommendations {
	rec := &PurchaseRecommendations{Recommendations: []StockProjection{}}
	nearest := math.Inf(1)
	for _, p := range depletion {
		if p.RecommendedOrderQuantity <= 0 {
			continue
		}
		rec.Recommendations = append(rec.Recommendations, p)
		rec.Summary.TotalItems++
		rec.Summary.EstimatedTotalCost += p.EstimatedCost
		switch p.Priority {
		case "high":
			rec.Summary.HighPriorityItems++
		case "medium":
			rec.Summary.MediumPriorityItems++
		}
		if p.DaysUntilDepleted < nearest {
			nearest = p.DaysUntilDepleted
		}
	}
	rec.Summary.EstimatedTotalCost = round2(rec.Summary.EstimatedTotalCost)

	if !math.IsInf(nearest, 1) {
		inDays := int(math.Floor(nearest - 2))
		if inDays < 1 {
			inDays = 1
		}
		rec.NextPurchaseDate = &NextPurchase{
			Date:   dayStart(now).AddDate(0, 0, inDays).Format("2006-01-02"),
			InDays: inDays,
			Reason: fmt.Sprintf("En yakın tükenme yaklaşık %.1f gün sonra", nearest),
		}
	}
	return rec
}
