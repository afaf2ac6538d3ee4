package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retail_backoffice/pkg/server"
	"retail_backoffice/service/inventory/usecase"
)

type InventoryHandler struct {
	syncUseCase usecase.IInventorySyncUseCase
	log         *zap.Logger
}

func NewInventoryHandler(syncUseCase usecase.IInventorySyncUseCase, log *zap.Logger) *InventoryHandler {
	return &InventoryHandler{syncUseCase: syncUseCase, log: log}
}

func (h *InventoryHandler) Resync(c *gin.Context) {
	n, err := h.syncUseCase.Resync(c.Request.Context())
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lookup cache rebuilt", "products": n})
}

func (h *InventoryHandler) LookupProduct(c *gin.Context) {
	snap, err := h.syncUseCase.LookupProduct(c.Request.Context(), c.Param("barcode"))
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": snap})
}
