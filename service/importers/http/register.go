package http

import (
	"github.com/gin-gonic/gin"

	"retail_backoffice/pkg/middleware"
)

func RegisterImporterRoutes(engine *gin.Engine, handler *ImportersHandler, guards middleware.Guards) {
	group := engine.Group("/admin/importers", guards.Admin)
	group.GET("", handler.ListImporters)
	group.POST("", handler.CreateImporter)
	group.GET("/:id", handler.GetImporter)
	group.PATCH("/:id", handler.UpdateImporter)
	group.DELETE("/:id", handler.DeleteImporter)
}
