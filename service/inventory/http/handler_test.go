package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"retail_backoffice/pkg/middleware/middlewaretest"
	"retail_backoffice/service/inventory/model"
	"retail_backoffice/service/products/repository"
)

type stubSyncUseCase struct {
	resyncErr error
	products  map[string]model.ProductSnapshot
}

func (s *stubSyncUseCase) Apply(context.Context, model.SyncEvent) error { return nil }

func (s *stubSyncUseCase) Resync(context.Context) (int, error) {
	if s.resyncErr != nil {
		return 0, s.resyncErr
	}
	return len(s.products), nil
}

func (s *stubSyncUseCase) LookupProduct(_ context.Context, barcode string) (model.ProductSnapshot, error) {
	snap, ok := s.products[barcode]
	if !ok {
		return model.ProductSnapshot{}, repository.ErrProductNotFound
	}
	return snap, nil
}

func (s *stubSyncUseCase) ConsumeQueue(context.Context) {}

func newRouter(uc *stubSyncUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	handler := NewInventoryHandler(uc, zap.NewNop())
	RegisterAdminRoutes(engine, handler, middlewaretest.PassThroughGuards())
	RegisterCashierRoutes(engine, handler, middlewaretest.PassThroughGuards())
	return engine
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestLookupProductHandler(t *testing.T) {
	engine := newRouter(&stubSyncUseCase{products: map[string]model.ProductSnapshot{
		"111": {ProductID: "p1", Barcode: "111", Name: "Milk", Stock: 3, Active: true},
	}})

	w := serve(engine, http.MethodGet, "/cashier/lookup/111")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"barcode":"111"`)

	w = serve(engine, http.MethodGet, "/cashier/lookup/999")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestResyncHandler(t *testing.T) {
	engine := newRouter(&stubSyncUseCase{products: map[string]model.ProductSnapshot{"1": {}, "2": {}}})
	w := serve(engine, http.MethodPost, "/admin/products/resync")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"products":2`)

	engine = newRouter(&stubSyncUseCase{resyncErr: errors.New("rtdb down")})
	w = serve(engine, http.MethodPost, "/admin/products/resync")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "rtdb down")
}
