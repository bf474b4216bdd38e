package dashboard

import (
	"time"

	"lokanta-backend/internal/models"

	"gorm.io/gorm"
)

type Comparison struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	// Baz dönem 0 ise yüzde değişim tanımsızdır ve null döner.
	PercentChange *float64 `json:"percent_change"`
}

type ComparisonSet struct {
	SalesRevenue   Comparison `json:"sales_revenue"`
	SalesCount     Comparison `json:"sales_count"`
	PurchasesCost  Comparison `json:"purchases_cost"`
	DishesSold     Comparison `json:"dishes_sold"`
	NewIngredients Comparison `json:"new_ingredients"`
}

type Comparisons struct {
	CurrentVsPrevious ComparisonSet `json:"current_vs_previous_month"`
	CurrentVsLastYear ComparisonSet `json:"current_vs_same_month_last_year"`
}

func compare(current, previous float64) Comparison {
	c := Comparison{Current: round2(current), Previous: round2(previous)}
	if previous != 0 {
		pct := round1((current - previous) / previous * 100)
		c.PercentChange = &pct
	}
	return c
}

type periodMeasures struct {
	salesRevenue   float64
	salesCount     float64
	purchasesCost  float64
	dishesSold     float64
	newIngredients float64
}

func measurePeriod(db *gorm.DB, from, to time.Time) (periodMeasures, error) {
	var m periodMeasures

	sales, err := aggregate(db, &models.Sale{}, "sale_date", &from, &to)
	if err != nil {
		return m, err
	}
	m.salesRevenue = sales.Total
	m.salesCount = float64(sales.Count)

	purchases, err := aggregate(db, &models.Purchase{}, "purchase_date", &from, &to)
	if err != nil {
		return m, err
	}
	m.purchasesCost = purchases.Total

	var sold float64
	err = db.Table("sale_details").
		Select("COALESCE(SUM(sale_details.quantity), 0)").
		Joins("INNER JOIN sales ON sales.id = sale_details.sale_id AND sales.deleted_at IS NULL AND sales.status = ?", models.TxCompleted).
		Where("sale_details.deleted_at IS NULL AND sales.sale_date >= ? AND sales.sale_date < ?", from, to).
		Scan(&sold).Error
	if err != nil {
		return m, err
	}
	m.dishesSold = sold

	var newIngredients int64
	err = db.Model(&models.Ingredient{}).
		Where("created_at >= ? AND created_at < ?", from, to).
		Count(&newIngredients).Error
	if err != nil {
		return m, err
	}
	m.newIngredients = float64(newIngredients)

	return m, nil
}

func compareSets(current, baseline periodMeasures) ComparisonSet {
	return ComparisonSet{
		SalesRevenue:   compare(current.salesRevenue, baseline.salesRevenue),
		SalesCount:     compare(current.salesCount, baseline.salesCount),
		PurchasesCost:  compare(current.purchasesCost, baseline.purchasesCost),
		DishesSold:     compare(current.dishesSold, baseline.dishesSold),
		NewIngredients: compare(current.newIngredients, baseline.newIngredients),
	}
}

// GetComparisons - ay başından bugüne olan dilimi, önceki ayın ve geçen yılın
// aynı ayının eşit uzunluktaki dilimleriyle karşılaştırır.
func GetComparisons(db *gorm.DB, now time.Time) (*Comparisons, error) {
	current := monthStart(now)
	span := now.Sub(current)

	prevStart := current.AddDate(0, -1, 0)
	lastYearStart := current.AddDate(-1, 0, 0)

	cur, err := measurePeriod(db, current, now)
	if err != nil {
		return nil, err
	}
	prev, err := measurePeriod(db, prevStart, prevStart.Add(span))
	if err != nil {
		return nil, err
	}
	lastYear, err := measurePeriod(db, lastYearStart, lastYearStart.Add(span))
	if err != nil {
		return nil, err
	}

	return &Comparisons{
		CurrentVsPrevious: compareSets(cur, prev),
		CurrentVsLastYear: compareSets(cur, lastYear),
	}, nil
}
