package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"retail_backoffice/pkg/middleware"
	"retail_backoffice/pkg/middleware/middlewaretest"
	"retail_backoffice/service/sales/model/request"
	"retail_backoffice/service/sales/model/response"
	"retail_backoffice/service/sales/repository"
	"retail_backoffice/service/sales/usecase"
)

type stubSaleUseCase struct {
	checkoutErr error
	gotActor    middleware.Actor
}

func (s *stubSaleUseCase) Checkout(_ context.Context, _ request.CheckoutDTO, actor middleware.Actor) (response.CheckoutResponseDTO, error) {
	s.gotActor = actor
	if s.checkoutErr != nil {
		return response.CheckoutResponseDTO{}, s.checkoutErr
	}
	return response.CheckoutResponseDTO{Sale: response.SaleResponseDTO{ReceiptNo: "R-20240101-ABCDEF12"}}, nil
}

func (s *stubSaleUseCase) GetSale(context.Context, string) (response.SaleResponseDTO, error) {
	return response.SaleResponseDTO{}, nil
}

func (s *stubSaleUseCase) GetCashierSale(_ context.Context, id string, actor middleware.Actor) (response.SaleResponseDTO, error) {
	s.gotActor = actor
	if id != "mine" {
		return response.SaleResponseDTO{}, repository.ErrSaleNotFound
	}
	return response.SaleResponseDTO{ID: id, CashierUID: actor.UID}, nil
}

func (s *stubSaleUseCase) ListSales(context.Context, request.ListSalesQuery) (response.SaleListDTO, error) {
	return response.SaleListDTO{}, nil
}

func (s *stubSaleUseCase) TodaySales(_ context.Context, uid string) (response.TodaySalesDTO, error) {
	return response.TodaySalesDTO{Date: "2024-01-01", SaleCount: len(uid)}, nil
}

type stubReportUseCase struct{}

func (stubReportUseCase) SalesReport(context.Context, request.SalesReportQuery) (response.SalesReportDTO, error) {
	return response.SalesReportDTO{SaleCount: 4}, nil
}

func newRouter(uc usecase.ISaleUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	guards := middlewaretest.SignedInGuards(middleware.Actor{UID: "cashier-9", Name: "Minh", Role: middleware.RoleCashier})
	handler := NewSalesHandler(uc, stubReportUseCase{}, zap.NewNop())
	RegisterCashierRoutes(engine, handler, guards)
	RegisterAdminRoutes(engine, handler, guards)
	return engine
}

const cartBody = `{"items":[{"product_id":"64b7f0c2a1b2c3d4e5f60718","quantity":2}],"payment_method":"cash","paid":"10"}`

func post(engine *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCheckoutHandler(t *testing.T) {
	uc := &stubSaleUseCase{}
	w := post(newRouter(uc), "/cashier/checkout", cartBody)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "R-20240101-ABCDEF12")
	assert.Equal(t, "cashier-9", uc.gotActor.UID)
	assert.Equal(t, "Minh", uc.gotActor.Name)
}

func TestCheckoutHandler_StockError(t *testing.T) {
	uc := &stubSaleUseCase{checkoutErr: &usecase.StockError{Lines: []usecase.ShortLine{
		{ProductID: "p1", Name: "Milk", Requested: 2, Available: 1},
	}}}
	w := post(newRouter(uc), "/cashier/checkout", cartBody)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	var body struct {
		Error string              `json:"error"`
		Lines []usecase.ShortLine `json:"lines"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "insufficient stock", body.Error)
	require.Len(t, body.Lines, 1)
	assert.Equal(t, 1, body.Lines[0].Available)
}

func TestCheckoutHandler_Validation(t *testing.T) {
	uc := &stubSaleUseCase{}
	engine := newRouter(uc)

	w := post(engine, "/cashier/checkout", `{"items":[],"payment_method":"cash"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(engine, "/cashier/checkout", `{"items":[{"product_id":"x","quantity":1}],"payment_method":"barter"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(engine, "/cashier/checkout", `{"items":[{"product_id":"x","quantity":0}],"payment_method":"cash"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = post(engine, "/cashier/checkout", `{"items":[{"product_id":"x","quantity":1}],"payment_method":"cash"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestTodayAndReportRoutes(t *testing.T) {
	engine := newRouter(&stubSaleUseCase{})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cashier/sales/today", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sale_count":9`)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/reports/sales?from=2024-01-01&to=2024-01-31", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sale_count":4`)
}

func TestCashierSaleRoute_UsesCaller(t *testing.T) {
	uc := &stubSaleUseCase{}
	engine := newRouter(uc)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cashier/sales/mine", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cashier-9", uc.gotActor.UID)
	assert.Equal(t, middleware.RoleCashier, uc.gotActor.Role)

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/cashier/sales/theirs", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
