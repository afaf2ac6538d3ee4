package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retail_backoffice/pkg/middleware"
	"retail_backoffice/pkg/server"
	"retail_backoffice/service/products/model/request"
	"retail_backoffice/service/products/usecase"
)

type ProductsHandler struct {
	productUseCase usecase.IProductUseCase
	log            *zap.Logger
}

func NewProductsHandler(productUseCase usecase.IProductUseCase, log *zap.Logger) *ProductsHandler {
	return &ProductsHandler{
		productUseCase: productUseCase,
		log:            log,
	}
}

func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	var dto request.CreateProductDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		server.BindError(c, h.log, err)
		return
	}

	product, err := h.productUseCase.CreateProduct(c.Request.Context(), dto)
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	var dto request.UpdateProductDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		server.BindError(c, h.log, err)
		return
	}

	product, err := h.productUseCase.UpdateProduct(c.Request.Context(), c.Param("id"), dto)
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *ProductsHandler) AdjustStock(c *gin.Context) {
	var dto request.AdjustStockDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		server.BindError(c, h.log, err)
		return
	}

	actor := middleware.CurrentActor(c)
	product, err := h.productUseCase.AdjustStock(c.Request.Context(), c.Param("id"), dto, actor.UID)
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	if err := h.productUseCase.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

func (h *ProductsHandler) GetProduct(c *gin.Context) {
	product, err := h.productUseCase.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *ProductsHandler) ListProducts(c *gin.Context) {
	var query request.ListProductsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		server.BindError(c, h.log, err)
		return
	}

	list, err := h.productUseCase.ListProducts(c.Request.Context(), query)
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
