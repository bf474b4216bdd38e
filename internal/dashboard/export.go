package dashboard

import (
	"bytes"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/xuri/excelize/v2"
)

// ExportReport - özet istatistikleri ve stok uyarılarını tek XLSX dosyasında
// toplar. Dosya bellekte oluşturulur, diske yazılmaz.
func ExportReport(db *gorm.DB, now time.Time) ([]byte, string, error) {
	salesStats, err := GetSalesStats(db, now)
	if err != nil {
		return nil, "", err
	}
	purchasesStats, err := GetPurchasesStats(db, now)
	if err != nil {
		return nil, "", err
	}
	inventory, err := GetInventoryStats(db)
	if err != nil {
		return nil, "", err
	}
	alerts, err := GetAlerts(db, now)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	summary := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetName(summary, "Özet"); err != nil {
		return nil, "", err
	}
	summary = "Özet"

	rows := [][]interface{}{
		{"Rapor tarihi", now.Format("2006-01-02 15:04")},
		{},
		{"Satışlar", "Toplam", "Adet", "Ortalama", "Büyüme %"},
		{"Bugün", salesStats.Today.Total, salesStats.Today.Count, salesStats.Today.Average, salesStats.Today.Growth},
		{"Bu hafta", salesStats.Week.Total, salesStats.Week.Count, salesStats.Week.Average, salesStats.Week.Growth},
		{"Bu ay", salesStats.Month.Total, salesStats.Month.Count, salesStats.Month.Average, salesStats.Month.Growth},
		{"Bu yıl", salesStats.Year.Total, salesStats.Year.Count},
		{},
		{"Alışlar", "Toplam", "Adet", "Ortalama", "Büyüme %"},
		{"Bugün", purchasesStats.Today.Total, purchasesStats.Today.Count, purchasesStats.Today.Average, purchasesStats.Today.Growth},
		{"Bu hafta", purchasesStats.Week.Total, purchasesStats.Week.Count, purchasesStats.Week.Average, purchasesStats.Week.Growth},
		{"Bu ay", purchasesStats.Month.Total, purchasesStats.Month.Count, purchasesStats.Month.Average, purchasesStats.Month.Growth},
		{"Bu yıl", purchasesStats.Year.Total, purchasesStats.Year.Count},
		{},
		{"Envanter"},
		{"Toplam malzeme", inventory.Total},
		{"Stoku biten", inventory.Alerts.OutOfStock},
		{"Düşük stok", inventory.Alerts.LowStock},
		{"Envanter değeri", inventory.TotalValue},
	}
	for i, r := range rows {
		if len(r) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetSheetRow(summary, cell, &r); err != nil {
			return nil, "", err
		}
	}

	alertSheet := "Uyarılar"
	if _, err := f.NewSheet(alertSheet); err != nil {
		return nil, "", err
	}
	header := []interface{}{"Önem", "Tip", "Başlık", "Mesaj"}
	if err := f.SetSheetRow(alertSheet, "A1", &header); err != nil {
		return nil, "", err
	}
	row := 2
	for _, group := range [][]Alert{alerts.Critical, alerts.Warning, alerts.Info} {
		for _, a := range group {
			cell, err := excelize.CoordinatesToCellName(1, row)
			if err != nil {
				return nil, "", err
			}
			line := []interface{}{a.Severity, a.Type, a.Title, a.Message}
			if err := f.SetSheetRow(alertSheet, cell, &line); err != nil {
				return nil, "", err
			}
			row++
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, "", err
	}

	fileName := fmt.Sprintf("rapor_%s.xlsx", now.Format("20060102_150405"))
	return buf.Bytes(), fileName, nil
}
