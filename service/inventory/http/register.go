package http

import (
	"github.com/gin-gonic/gin"

	"retail_backoffice/pkg/middleware"
)

func RegisterAdminRoutes(engine *gin.Engine, handler *InventoryHandler, guards middleware.Guards) {
	engine.POST("/admin/products/resync", guards.Admin, handler.Resync)
}

func RegisterCashierRoutes(engine *gin.Engine, handler *InventoryHandler, guards middleware.Guards) {
	engine.GET("/cashier/lookup/:barcode", guards.Staff, handler.LookupProduct)
}
