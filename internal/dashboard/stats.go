package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"lokanta-backend/internal/models"

	"gorm.io/gorm"
)

type WindowStats struct {
	Total   float64 `json:"total"`
	Count   int64   `json:"count"`
	Average float64 `json:"average"`
	Growth  float64 `json:"growth"`
}

type YearStats struct {
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

type SalesStats struct {
	Today WindowStats `json:"today"`
	Week  WindowStats `json:"week"`
	Month WindowStats `json:"month"`
	Year  YearStats   `json:"year"`
}

type aggRow struct {
	Total float64 `gorm:"column:total_sum"`
	Count int64   `gorm:"column:cnt"`
}

func aggregate(db *gorm.DB, model any, dateCol string, from, to *time.Time) (aggRow, error) {
	q := db.Model(model).Where("deleted_at IS NULL AND status = ?", models.TxCompleted)
	if from != nil {
		q = q.Where(dateCol+" >= ?", *from)
	}
	if to != nil {
		q = q.Where(dateCol+" < ?", *to)
	}
	var row aggRow
	err := q.Select("COALESCE(SUM(total), 0) AS total_sum, COUNT(*) AS cnt").Scan(&row).Error
	return row, err
}

func windowStats(current, previous aggRow) WindowStats {
	ws := WindowStats{
		Total:  round2(current.Total),
		Count:  current.Count,
		Growth: growth(current.Total, previous.Total),
	}
	if current.Count > 0 {
		ws.Average = round2(current.Total / float64(current.Count))
	}
	return ws
}

// GetSalesStats - bugün / hafta / ay / yıl pencereleri, her biri bir önceki
// eşdeğer pencereyle büyüme kıyaslamalı.
func GetSalesStats(db *gorm.DB, now time.Time) (*SalesStats, error) {
	return txStats(db, &models.Sale{}, "sale_date", now)
}

// GetPurchasesStats - alışlar için aynı pencere seti.
func GetPurchasesStats(db *gorm.DB, now time.Time) (*SalesStats, error) {
	return txStats(db, &models.Purchase{}, "purchase_date", now)
}

func txStats(db *gorm.DB, model any, dateCol string, now time.Time) (*SalesStats, error) {
	today := dayStart(now)
	yesterday := today.AddDate(0, 0, -1)
	week := weekStart(now)
	prevWeek := week.AddDate(0, 0, -7)
	month := monthStart(now)
	prevMonth := month.AddDate(0, -1, 0)
	year := yearStart(now)

	type window struct {
		from, to *time.Time
		dst      *aggRow
	}
	var rows [7]aggRow
	windows := []window{
		{&today, nil, &rows[0]},
		{&yesterday, &today, &rows[1]},
		{&week, nil, &rows[2]},
		{&prevWeek, &week, &rows[3]},
		{&month, nil, &rows[4]},
		{&prevMonth, &month, &rows[5]},
		{&year, nil, &rows[6]},
	}
	for _, w := range windows {
		row, err := aggregate(db, model, dateCol, w.from, w.to)
		if err != nil {
			return nil, err
		}
		*w.dst = row
	}

	return &SalesStats{
		Today: windowStats(rows[0], rows[1]),
		Week:  windowStats(rows[2], rows[3]),
		Month: windowStats(rows[4], rows[5]),
		Year:  YearStats{Total: round2(rows[6].Total), Count: rows[6].Count},
	}, nil
}

type CriticalIngredient struct {
	ID              uint    `json:"id"`
	Name            string  `json:"name"`
	Unit            string  `json:"unit"`
	CurrentStock    float64 `json:"current_stock"`
	MinimumStock    float64 `json:"minimum_stock"`
	StockPercentage float64 `json:"stock_percentage"`
}

type InventoryStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
	Alerts   struct {
		OutOfStock int64 `json:"out_of_stock"`
		LowStock   int64 `json:"low_stock"`
		Optimal    int64 `json:"optimal"`
	} `json:"alerts"`
	CriticalIngredients []CriticalIngredient `json:"critical_ingredients"`
	TotalValue          float64              `json:"total_value"`
}

// GetInventoryStats - stok durumu sayımları, en kritik 5 malzeme ve son
// alış fiyatlarıyla toplam envanter değeri.
func GetInventoryStats(db *gorm.DB) (*InventoryStats, error) {
	ingredients, err := activeIngredients(db)
	if err != nil {
		return nil, err
	}
	prices, err := lastPrices(db)
	if err != nil {
		return nil, err
	}

	stats := &InventoryStats{CriticalIngredients: []CriticalIngredient{}}
	value := 0.0
	for _, ing := range ingredients {
		stats.Total++
		if ing.Status == models.StatusActive {
			stats.Active++
		} else {
			stats.Inactive++
		}

		switch {
		case ing.Stock <= 0:
			stats.Alerts.OutOfStock++
		case ing.MinimumStock > 0 && ing.Stock < ing.MinimumStock:
			stats.Alerts.LowStock++
		default:
			stats.Alerts.Optimal++
		}

		if ing.MinimumStock > 0 && ing.Stock < ing.MinimumStock {
			stats.CriticalIngredients = append(stats.CriticalIngredients, CriticalIngredient{
				ID:              ing.ID,
				Name:            ing.Name,
				Unit:            ing.Unit,
				CurrentStock:    ing.Stock,
				MinimumStock:    ing.MinimumStock,
				StockPercentage: round1(ing.Stock / ing.MinimumStock * 100),
			})
		}

		value += ing.Stock * prices[ing.ID]
	}

	sort.Slice(stats.CriticalIngredients, func(i, j int) bool {
		return stats.CriticalIngredients[i].StockPercentage < stats.CriticalIngredients[j].StockPercentage
	})
	if len(stats.CriticalIngredients) > 5 {
		stats.CriticalIngredients = stats.CriticalIngredients[:5]
	}
	stats.TotalValue = round2(value)

	return stats, nil
}

type DishRank struct {
	DishID            uint    `json:"dish_id"`
	Name              string  `json:"name"`
	QuantitySold      float64 `json:"quantity_sold"`
	Revenue           float64 `json:"revenue"`
	RevenuePercentage float64 `json:"revenue_percentage"`
}

type DishesStats struct {
	Total      int64      `json:"total"`
	Active     int64      `json:"active"`
	Inactive   int64      `json:"inactive"`
	TopSelling []DishRank `json:"top_selling"`
	LeastSold  []DishRank `json:"least_sold"`
}

type soldDetailRow struct {
	DishID   uint
	DishName string
	Quantity float64
	Subtotal float64
}

func monthSoldDetails(db *gorm.DB, from time.Time) ([]soldDetailRow, error) {
	var rows []soldDetailRow
	err := db.Table("sale_details").
		Select("sale_details.dish_id AS dish_id, dishes.name AS dish_name, sale_details.quantity, sale_details.subtotal").
		Joins("INNER JOIN sales ON sales.id = sale_details.sale_id AND sales.deleted_at IS NULL AND sales.status = ?", models.TxCompleted).
		Joins("INNER JOIN dishes ON dishes.id = sale_details.dish_id").
		Where("sale_details.deleted_at IS NULL AND sales.sale_date >= ?", from).
		Scan(&rows).Error
	return rows, err
}

// GetDishesStats - yemek sayıları ve bu ayın en çok / en az satanları.
func GetDishesStats(db *gorm.DB, now time.Time) (*DishesStats, error) {
	stats := &DishesStats{TopSelling: []DishRank{}, LeastSold: []DishRank{}}

	var dishes []models.Dish
	if err := db.Where("deleted_at IS NULL").Find(&dishes).Error; err != nil {
		return nil, err
	}
	for _, d := range dishes {
		stats.Total++
		if d.Status == models.StatusActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
	}

	rows, err := monthSoldDetails(db, monthStart(now))
	if err != nil {
		return nil, err
	}

	byDish := map[uint]*DishRank{}
	monthRevenue := 0.0
	for _, r := range rows {
		rank, ok := byDish[r.DishID]
		if !ok {
			rank = &DishRank{DishID: r.DishID, Name: r.DishName}
			byDish[r.DishID] = rank
		}
		rank.QuantitySold += r.Quantity
		rank.Revenue += r.Subtotal
		monthRevenue += r.Subtotal
	}

	ranks := make([]DishRank, 0, len(byDish))
	for _, r := range byDish {
		r.Revenue = round2(r.Revenue)
		if monthRevenue > 0 {
			r.RevenuePercentage = round1(r.Revenue / monthRevenue * 100)
		}
		ranks = append(ranks, *r)
	}

	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].QuantitySold != ranks[j].QuantitySold {
			return ranks[i].QuantitySold > ranks[j].QuantitySold
		}
		return ranks[i].DishID < ranks[j].DishID
	})

	top := len(ranks)
	if top > 5 {
		top = 5
	}
	stats.TopSelling = append(stats.TopSelling, ranks[:top]...)

	bottom := len(ranks)
	if bottom > 3 {
		bottom = 3
	}
	for i := len(ranks) - 1; i >= len(ranks)-bottom; i-- {
		stats.LeastSold = append(stats.LeastSold, ranks[i])
	}

	return stats, nil
}

type SupplierRank struct {
	SupplierID    uint    `json:"supplier_id"`
	Name          string  `json:"name"`
	PurchaseCount int64   `json:"purchase_count"`
	TotalSpent    float64 `json:"total_spent"`
}

type SuppliersStats struct {
	Total      int64          `json:"total"`
	Active     int64          `json:"active"`
	Inactive   int64          `json:"inactive"`
	TopBySpend []SupplierRank `json:"top_by_spend"`
}

// GetSuppliersStats - tedarikçi sayıları ve bu ayın ilk 3 tedarikçisi.
func GetSuppliersStats(db *gorm.DB, now time.Time) (*SuppliersStats, error) {
	stats := &SuppliersStats{TopBySpend: []SupplierRank{}}

	var suppliers []models.Supplier
	if err := db.Where("deleted_at IS NULL").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(suppliers))
	for _, s := range suppliers {
		stats.Total++
		if s.Status == models.StatusActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
		names[s.ID] = s.Name
	}

	type row struct {
		SupplierID *uint
		Total      float64
	}
	var rows []row
	err := db.Model(&models.Purchase{}).
		Select("supplier_id, total").
		Where("deleted_at IS NULL AND status = ? AND purchase_date >= ?", models.TxCompleted, monthStart(now)).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	bySupplier := map[uint]*SupplierRank{}
	for _, r := range rows {
		if r.SupplierID == nil {
			continue
		}
		rank, ok := bySupplier[*r.SupplierID]
		if !ok {
			rank = &SupplierRank{SupplierID: *r.SupplierID, Name: names[*r.SupplierID]}
			bySupplier[*r.SupplierID] = rank
		}
		rank.PurchaseCount++
		rank.TotalSpent += r.Total
	}

	ranks := make([]SupplierRank, 0, len(bySupplier))
	for _, r := range bySupplier {
		r.TotalSpent = round2(r.TotalSpent)
		ranks = append(ranks, *r)
	}
	sort.Slice(ranks, func(i, j int) bool {
		if ranks[i].PurchaseCount != ranks[j].PurchaseCount {
			return ranks[i].PurchaseCount > ranks[j].PurchaseCount
		}
		return ranks[i].TotalSpent > ranks[j].TotalSpent
	})
	if len(ranks) > 3 {
		ranks = ranks[:3]
	}
	stats.TopBySpend = ranks

	return stats, nil
}

type ActivityItem struct {
	Type        string  `json:"type"`
	ID          uint    `json:"id"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	TimeAgo     string  `json:"time_ago"`
}

type RecentActivity struct {
	LastSale           *ActivityItem `json:"last_sale"`
	LastPurchase       *ActivityItem `json:"last_purchase"`
	DishesSoldToday    float64       `json:"dishes_sold_today"`
	MostUsedIngredient *struct {
		IngredientID uint    `json:"ingredient_id"`
		Name         string  `json:"name"`
		Unit         string  `json:"unit"`
		QuantityUsed float64 `json:"quantity_used"`
	} `json:"most_used_ingredient"`
}

func timeAgo(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "az önce"
	case d < time.Hour:
		return fmt.Sprintf("%d dakika önce", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%d saat önce", int(d.Hours()))
	default:
		return fmt.Sprintf("%d gün önce", int(d.Hours()/24))
	}
}

// GetRecentActivity - son satış/alış, bugün satılan porsiyon ve bugünün en
// çok tüketilen malzemesi.
func GetRecentActivity(db *gorm.DB, now time.Time) (*RecentActivity, error) {
	activity := &RecentActivity{}

	var lastSale models.Sale
	err := db.Where("deleted_at IS NULL AND status = ?", models.TxCompleted).
		Order("created_at DESC, id DESC").First(&lastSale).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		activity.LastSale = &ActivityItem{
			Type:        "sale",
			ID:          lastSale.ID,
			Description: fmt.Sprintf("Satış #%d", lastSale.ID),
			Amount:      lastSale.Total,
			TimeAgo:     timeAgo(lastSale.CreatedAt, now),
		}
	}

	var lastPurchase models.Purchase
	err = db.Where("deleted_at IS NULL AND status = ?", models.TxCompleted).
		Order("created_at DESC, id DESC").First(&lastPurchase).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil {
		activity.LastPurchase = &ActivityItem{
			Type:        "purchase",
			ID:          lastPurchase.ID,
			Description: fmt.Sprintf("Alış #%d", lastPurchase.ID),
			Amount:      lastPurchase.Total,
			TimeAgo:     timeAgo(lastPurchase.CreatedAt, now),
		}
	}

	today := dayStart(now)
	type todayRow struct {
		DishID   uint
		Quantity float64
	}
	var todayRows []todayRow
	err = db.Table("sale_details").
		Select("sale_details.dish_id AS dish_id, sale_details.quantity").
		Joins("INNER JOIN sales ON sales.id = sale_details.sale_id AND sales.deleted_at IS NULL AND sales.status = ?", models.TxCompleted).
		Where("sale_details.deleted_at IS NULL AND sales.sale_date >= ?", today).
		Scan(&todayRows).Error
	if err != nil {
		return nil, err
	}

	soldByDish := map[uint]float64{}
	for _, r := range todayRows {
		activity.DishesSoldToday += r.Quantity
		soldByDish[r.DishID] += r.Quantity
	}

	if len(soldByDish) > 0 {
		var links []models.DishIngredient
		if err := db.Find(&links).Error; err != nil {
			return nil, err
		}
		usage := map[uint]float64{}
		for _, l := range links {
			if sold, ok := soldByDish[l.DishID]; ok {
				usage[l.IngredientID] += l.QuantityUsed * sold
			}
		}

		var bestID uint
		bestQty := 0.0
		for id, qty := range usage {
			if qty > bestQty || (qty == bestQty && bestQty > 0 && id < bestID) {
				bestID, bestQty = id, qty
			}
		}
		if bestQty > 0 {
			var ing models.Ingredient
			if err := db.First(&ing, bestID).Error; err == nil {
				activity.MostUsedIngredient = &struct {
					IngredientID uint    `json:"ingredient_id"`
					Name         string  `json:"name"`
					Unit         string  `json:"unit"`
					QuantityUsed float64 `json:"quantity_used"`
				}{IngredientID: ing.ID, Name: ing.Name, Unit: ing.Unit, QuantityUsed: round2(bestQty)}
			}
		}
	}

	return activity, nil
}
