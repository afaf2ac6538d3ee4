package metrics

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Checkouts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retail_checkouts_total",
		Help: "Checkouts by result (ok, rejected, insufficient_stock, error).",
	}, []string{"result"})

	SyncEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retail_inventory_sync_events_total",
		Help: "Inventory sync events by kind and result.",
	}, []string{"kind", "result"})

	LowStockAlerts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retail_low_stock_alerts_total",
		Help: "Low stock alerts by result.",
	}, []string{"result"})

	Compensations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "retail_stock_compensations_total",
		Help: "Stock compensation writes after failed checkouts or imports.",
	}, []string{"result"})
)

func RegisterRoutes(engine *gin.Engine) {
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
