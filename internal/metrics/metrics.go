// Package metrics - işlem sayaçları. /metrics endpoint'i üzerinden yayınlanır.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SalesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lokanta_sales_created_total",
		Help: "Oluşturulan satış sayısı",
	})
	SalesCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lokanta_sales_cancelled_total",
		Help: "İptal edilen satış sayısı",
	})
	PurchasesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lokanta_purchases_created_total",
		Help: "Oluşturulan alış sayısı",
	})
	PurchasesCancelled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lokanta_purchases_cancelled_total",
		Help: "İptal edilen alış sayısı",
	})
	InsufficientStockRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lokanta_insufficient_stock_rejections_total",
		Help: "Yetersiz stok nedeniyle reddedilen satış sayısı",
	})
	ForceSales = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lokanta_force_sales_total",
		Help: "Stok doğrulaması atlanarak oluşturulan satış sayısı",
	})
)
