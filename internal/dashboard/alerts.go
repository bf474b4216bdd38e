package dashboard

import (
	"fmt"
	"sort"
	"time"

	"lokanta-backend/internal/models"

	"gorm.io/gorm"
)

const (
	severityCritical = "critical"
	severityWarning  = "warning"
	severityInfo     = "info"

	// Minimum stokun %25'i ve altı kritik sayılır.
	criticalStockRatio = 0.25
	// Minimum stokun 3 katından fazlası fazla stok uyarısı üretir.
	overstockRatio = 3.0
	// Haftalık satış, önceki haftaların ortalamasının %70'inin altına
	// düşerse satış düşüşü uyarısı üretilir.
	salesDropRatio = 0.7
)

type Alert struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Severity  string `json:"severity"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Data      any    `json:"data,omitempty"`
	Action    string `json:"action,omitempty"`
	Timestamp string `json:"timestamp"`
}

type Alerts struct {
	Critical []Alert `json:"critical"`
	Warning  []Alert `json:"warning"`
	Info     []Alert `json:"info"`
	Summary  struct {
		Total    int `json:"total"`
		Critical int `json:"critical"`
		Warning  int `json:"warning"`
		Info     int `json:"info"`
	} `json:"summary"`
}

// GetAlerts - dört tarama: düşük/biten stok, kullanılmayan malzeme,
// haftalık satış düşüşü ve fazla stok. Sonuçlar önem derecesine göre gruplanır.
func GetAlerts(db *gorm.DB, now time.Time) (*Alerts, error) {
	alerts := &Alerts{Critical: []Alert{}, Warning: []Alert{}, Info: []Alert{}}
	ts := now.Format(time.RFC3339)

	ingredients, err := activeIngredients(db)
	if err != nil {
		return nil, err
	}

	for _, a := range lowStockAlerts(ingredients, ts) {
		alerts.add(a)
	}

	unused, err := unusedIngredientAlerts(db, ingredients, ts)
	if err != nil {
		return nil, err
	}
	for _, a := range unused {
		alerts.add(a)
	}

	drop, err := salesDropAlert(db, now, ts)
	if err != nil {
		return nil, err
	}
	if drop != nil {
		alerts.add(*drop)
	}

	for _, a := range overstockAlerts(ingredients, ts) {
		alerts.add(a)
	}

	alerts.Summary.Critical = len(alerts.Critical)
	alerts.Summary.Warning = len(alerts.Warning)
	alerts.Summary.Info = len(alerts.Info)
	alerts.Summary.Total = alerts.Summary.Critical + alerts.Summary.Warning + alerts.Summary.Info
	return alerts, nil
}

func (a *Alerts) add(alert Alert) {
	switch alert.Severity {
	case severityCritical:
		a.Critical = append(a.Critical, alert)
	case severityWarning:
		a.Warning = append(a.Warning, alert)
	default:
		a.Info = append(a.Info, alert)
	}
}

func lowStockAlerts(ingredients []models.Ingredient, ts string) []Alert {
	var out []Alert
	for _, ing := range ingredients {
		if ing.MinimumStock <= 0 || ing.Stock > ing.MinimumStock {
			continue
		}

		pct := round1(ing.Stock / ing.MinimumStock * 100)
		severity := severityWarning
		title := fmt.Sprintf("Stok azaldı: %s", ing.Name)
		if ing.Stock <= 0 {
			severity = severityCritical
			title = fmt.Sprintf("Stok bitti: %s", ing.Name)
		} else if ing.Stock <= ing.MinimumStock*criticalStockRatio {
			severity = severityCritical
		}

		out = append(out, Alert{
			ID:       fmt.Sprintf("low-stock-%d", ing.ID),
			Type:     "low_stock",
			Severity: severity,
			Title:    title,
			Message:  fmt.Sprintf("%.1f %s mevcut (minimum: %.1f %s)", ing.Stock, ing.Unit, ing.MinimumStock, ing.Unit),
			Data: map[string]any{
				"ingredient_id":    ing.ID,
				"current_stock":    ing.Stock,
				"minimum_stock":    ing.MinimumStock,
				"stock_percentage": pct,
			},
			Action:    "Alış siparişi oluştur",
			Timestamp: ts,
		})
	}
	return out
}

// unusedIngredientAlerts - stokta olup hiçbir reçetede geçmeyen malzemeler.
// Değere göre azalan sıralanır, ilk 10 raporlanır.
func unusedIngredientAlerts(db *gorm.DB, ingredients []models.Ingredient, ts string) ([]Alert, error) {
	var links []models.DishIngredient
	if err := db.Find(&links).Error; err != nil {
		return nil, err
	}
	used := map[uint]bool{}
	for _, l := range links {
		used[l.IngredientID] = true
	}

	prices, err := lastPrices(db)
	if err != nil {
		return nil, err
	}

	type candidate struct {
		ing   models.Ingredient
		value float64
	}
	var candidates []candidate
	for _, ing := range ingredients {
		if ing.Stock <= 0 || used[ing.ID] {
			continue
		}
		candidates = append(candidates, candidate{ing: ing, value: round2(ing.Stock * prices[ing.ID])})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].value > candidates[j].value })
	if len(candidates) > 10 {
		candidates = candidates[:10]
	}

	out := make([]Alert, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Alert{
			ID:       fmt.Sprintf("unused-%d", c.ing.ID),
			Type:     "unused_ingredient",
			Severity: severityWarning,
			Title:    fmt.Sprintf("Kullanılmayan malzeme: %s", c.ing.Name),
			Message:  fmt.Sprintf("%.1f %s stokta ama hiçbir reçetede kullanılmıyor", c.ing.Stock, c.ing.Unit),
			Data: map[string]any{
				"ingredient_id": c.ing.ID,
				"current_stock": c.ing.Stock,
				"stock_value":   c.value,
			},
			Action:    "Reçetelere ekle veya stoku eritin",
			Timestamp: ts,
		})
	}
	return out, nil
}

// salesDropAlert - bu haftanın satışları, önceki 7 haftanın ortalamasının
// %70'inin altındaysa uyarı üretir. Mevcut hafta ortalamaya katılmaz.
func salesDropAlert(db *gorm.DB, now time.Time, ts string) (*Alert, error) {
	currentWeek := weekStart(now)
	since := currentWeek.AddDate(0, 0, -7*7)

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

	type weekAgg struct {
		count   int64
		revenue float64
	}
	weeks := map[time.Time]*weekAgg{}
	for _, r := range rows {
		ws := weekStart(r.CreatedAt)
		agg, ok := weeks[ws]
		if !ok {
			agg = &weekAgg{}
			weeks[ws] = agg
		}
		agg.count++
		agg.revenue += r.Total
	}

	current := weeks[currentWeek]
	if current == nil {
		current = &weekAgg{}
	}

	var prevCount, prevRevenue float64
	prevWeeks := 0
	for ws, agg := range weeks {
		if ws.Equal(currentWeek) {
			continue
		}
		prevCount += float64(agg.count)
		prevRevenue += agg.revenue
		prevWeeks++
	}
	if prevWeeks == 0 {
		return nil, nil
	}

	avgCount := prevCount / float64(prevWeeks)
	avgRevenue := prevRevenue / float64(prevWeeks)
	if float64(current.count) >= avgCount*salesDropRatio && current.revenue >= avgRevenue*salesDropRatio {
		return nil, nil
	}

	return &Alert{
		ID:       "sales-drop",
		Type:     "sales_drop",
		Severity: severityWarning,
		Title:    "Satışlarda düşüş",
		Message: fmt.Sprintf("Bu hafta %d satış / %.2f ciro; önceki %d haftanın ortalaması %.1f satış / %.2f ciro",
			current.count, round2(current.revenue), prevWeeks, round1(avgCount), round2(avgRevenue)),
		Data: map[string]any{
			"current_week_count":   current.count,
			"current_week_revenue": round2(current.revenue),
			"average_count":        round1(avgCount),
			"average_revenue":      round2(avgRevenue),
		},
		Action:    "Satış trendlerini incele",
		Timestamp: ts,
	}, nil
}

func overstockAlerts(ingredients []models.Ingredient, ts string) []Alert {
	type candidate struct {
		ing   models.Ingredient
		ratio float64
	}
	var candidates []candidate
	for _, ing := range ingredients {
		if ing.MinimumStock <= 0 || ing.Stock <= ing.MinimumStock*overstockRatio {
			continue
		}
		candidates = append(candidates, candidate{ing: ing, ratio: round1(ing.Stock / ing.MinimumStock)})
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ratio > candidates[j].ratio })
	if len(candidates) > 10 {
		candidates = candidates[:10]
	}

	out := make([]Alert, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, Alert{
			ID:       fmt.Sprintf("overstock-%d", c.ing.ID),
			Type:     "overstock",
			Severity: severityInfo,
			Title:    fmt.Sprintf("Fazla stok: %s", c.ing.Name),
			Message:  fmt.Sprintf("%.1f %s stokta, minimumun %.1f katı", c.ing.Stock, c.ing.Unit, c.ratio),
			Data: map[string]any{
				"ingredient_id": c.ing.ID,
				"current_stock": c.ing.Stock,
				"minimum_stock": c.ing.MinimumStock,
				"ratio":         c.ratio,
			},
			Timestamp: ts,
		})
	}
	return out
}
