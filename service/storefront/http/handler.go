package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retail_backoffice/pkg/server"
	"retail_backoffice/service/storefront/model/request"
	"retail_backoffice/service/storefront/usecase"
)

type StorefrontHandler struct {
	storefrontUseCase usecase.IStorefrontUseCase
	log               *zap.Logger
}

func NewStorefrontHandler(storefrontUseCase usecase.IStorefrontUseCase, log *zap.Logger) *StorefrontHandler {
	return &StorefrontHandler{storefrontUseCase: storefrontUseCase, log: log}
}

func (h *StorefrontHandler) Landing(c *gin.Context) {
	landing, err := h.storefrontUseCase.Landing(c.Request.Context())
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, landing)
}

func (h *StorefrontHandler) Catalog(c *gin.Context) {
	var query request.CatalogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		server.BindError(c, h.log, err)
		return
	}
	catalog, err := h.storefrontUseCase.Catalog(c.Request.Context(), query)
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, catalog)
}

func (h *StorefrontHandler) Product(c *gin.Context) {
	product, err := h.storefrontUseCase.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}
