package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retail_backoffice/pkg/middleware"
	"retail_backoffice/pkg/server"
	"retail_backoffice/service/imports/model/request"
	"retail_backoffice/service/imports/usecase"
)

type ImportsHandler struct {
	importUseCase usecase.IImportUseCase
	log           *zap.Logger
}

func NewImportsHandler(importUseCase usecase.IImportUseCase, log *zap.Logger) *ImportsHandler {
	return &ImportsHandler{importUseCase: importUseCase, log: log}
}

func (h *ImportsHandler) RecordImport(c *gin.Context) {
	var dto request.RecordImportDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		server.BindError(c, h.log, err)
		return
	}
	entry, err := h.importUseCase.RecordImport(c.Request.Context(), dto, middleware.CurrentActor(c).UID)
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"import": entry})
}

func (h *ImportsHandler) GetImport(c *gin.Context) {
	entry, err := h.importUseCase.GetImport(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"import": entry})
}

func (h *ImportsHandler) ListImports(c *gin.Context) {
	var query request.ListImportsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		server.BindError(c, h.log, err)
		return
	}
	list, err := h.importUseCase.ListImports(c.Request.Context(), query)
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
