package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retail_backoffice/pkg/middleware"
	"retail_backoffice/pkg/server"
	"retail_backoffice/service/sales/model/request"
	"retail_backoffice/service/sales/usecase"
)

type SalesHandler struct {
	saleUseCase   usecase.ISaleUseCase
	reportUseCase usecase.IReportUseCase
	log           *zap.Logger
}

func NewSalesHandler(saleUseCase usecase.ISaleUseCase, reportUseCase usecase.IReportUseCase, log *zap.Logger) *SalesHandler {
	return &SalesHandler{
		saleUseCase:   saleUseCase,
		reportUseCase: reportUseCase,
		log:           log,
	}
}

func (h *SalesHandler) Checkout(c *gin.Context) {
	var dto request.CheckoutDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		server.BindError(c, h.log, err)
		return
	}

	result, err := h.saleUseCase.Checkout(c.Request.Context(), dto, middleware.CurrentActor(c))
	var stockErr *usecase.StockError
	if errors.As(err, &stockErr) {
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{
			"error": usecase.ErrInsufficientStock.Error(),
			"lines": stockErr.Lines,
		})
		return
	}
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *SalesHandler) TodaySales(c *gin.Context) {
	today, err := h.saleUseCase.TodaySales(c.Request.Context(), middleware.CurrentActor(c).UID)
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, today)
}

func (h *SalesHandler) GetSale(c *gin.Context) {
	sale, err := h.saleUseCase.GetSale(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sale": sale})
}

func (h *SalesHandler) GetCashierSale(c *gin.Context) {
	sale, err := h.saleUseCase.GetCashierSale(c.Request.Context(), c.Param("id"), middleware.CurrentActor(c))
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sale": sale})
}

func (h *SalesHandler) ListSales(c *gin.Context) {
	var query request.ListSalesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		server.BindError(c, h.log, err)
		return
	}
	list, err := h.saleUseCase.ListSales(c.Request.Context(), query)
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *SalesHandler) SalesReport(c *gin.Context) {
	var query request.SalesReportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		server.BindError(c, h.log, err)
		return
	}
	report, err := h.reportUseCase.SalesReport(c.Request.Context(), query)
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
