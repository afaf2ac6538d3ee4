package http

import (
	"github.com/gin-gonic/gin"

	"retail_backoffice/pkg/middleware"
)

func RegisterImportRoutes(engine *gin.Engine, handler *ImportsHandler, guards middleware.Guards) {
	group := engine.Group("/admin/imports", guards.Admin)
	group.GET("", handler.ListImports)
	group.POST("", handler.RecordImport)
	group.GET("/:id", handler.GetImport)
}
