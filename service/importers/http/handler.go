package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retail_backoffice/pkg/server"
	"retail_backoffice/service/importers/model/request"
	"retail_backoffice/service/importers/usecase"
)

type ImportersHandler struct {
	importerUseCase usecase.IImporterUseCase
	log             *zap.Logger
}

func NewImportersHandler(importerUseCase usecase.IImporterUseCase, log *zap.Logger) *ImportersHandler {
	return &ImportersHandler{importerUseCase: importerUseCase, log: log}
}

func (h *ImportersHandler) CreateImporter(c *gin.Context) {
	var dto request.CreateImporterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		server.BindError(c, h.log, err)
		return
	}
	importer, err := h.importerUseCase.CreateImporter(c.Request.Context(), dto)
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"importer": importer})
}

func (h *ImportersHandler) UpdateImporter(c *gin.Context) {
	var dto request.UpdateImporterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		server.BindError(c, h.log, err)
		return
	}
	importer, err := h.importerUseCase.UpdateImporter(c.Request.Context(), c.Param("id"), dto)
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"importer": importer})
}

func (h *ImportersHandler) DeleteImporter(c *gin.Context) {
	if err := h.importerUseCase.DeleteImporter(c.Request.Context(), c.Param("id")); err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Importer deleted"})
}

func (h *ImportersHandler) GetImporter(c *gin.Context) {
	importer, err := h.importerUseCase.GetImporter(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"importer": importer})
}

func (h *ImportersHandler) ListImporters(c *gin.Context) {
	var query request.ListImportersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		server.BindError(c, h.log, err)
		return
	}
	list, err := h.importerUseCase.ListImporters(c.Request.Context(), query)
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
