package http

import (
	"github.com/gin-gonic/gin"

	"retail_backoffice/pkg/middleware"
)

func RegisterProductRoutes(engine *gin.Engine, handler *ProductsHandler, guards middleware.Guards) {
	group := engine.Group("/admin/products", guards.Admin)
	group.GET("", handler.ListProducts)
	group.POST("", handler.CreateProduct)
	group.GET("/:id", handler.GetProduct)
	group.PATCH("/:id", handler.UpdateProduct)
	group.DELETE("/:id", handler.DeleteProduct)
	group.POST("/:id/stock", handler.AdjustStock)
}
