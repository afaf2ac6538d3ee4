package http

import (
	"github.com/gin-gonic/gin"

	"retail_backoffice/pkg/middleware"
)

func RegisterCashierRoutes(engine *gin.Engine, handler *SalesHandler, guards middleware.Guards) {
	group := engine.Group("/cashier", guards.Staff)
	group.POST("/checkout", handler.Checkout)
	group.GET("/sales/today", handler.TodaySales)
	group.GET("/sales/:id", handler.GetCashierSale)
}

func RegisterAdminRoutes(engine *gin.Engine, handler *SalesHandler, guards middleware.Guards) {
	group := engine.Group("/admin", guards.Admin)
	group.GET("/sales", handler.ListSales)
	group.GET("/sales/:id", handler.GetSale)
	group.GET("/reports/sales", handler.SalesReport)
}
