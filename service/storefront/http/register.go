package http

import "github.com/gin-gonic/gin"

func RegisterStorefrontRoutes(engine *gin.Engine, handler *StorefrontHandler) {
	engine.GET("/", handler.Landing)
	group := engine.Group("/storefront")
	group.GET("/products", handler.Catalog)
	group.GET("/products/:id", handler.Product)
}
