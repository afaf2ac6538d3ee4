package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"retail_backoffice/pkg/middleware/middlewaretest"
	invmodel "retail_backoffice/service/inventory/model"
	"retail_backoffice/service/products/model/document"
	"retail_backoffice/service/products/repository/repositorytest"
	"retail_backoffice/service/products/usecase"
)

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, invmodel.SyncEvent) error { return nil }

func newRouter(t *testing.T, seed ...document.Product) (*gin.Engine, *repositorytest.ProductRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := repositorytest.NewProductRepository(seed...)
	uc := usecase.NewProductUseCase(repo, nopPublisher{}, 5, zap.NewNop())
	engine := gin.New()
	RegisterProductRoutes(engine, NewProductsHandler(uc, zap.NewNop()), middlewaretest.PassThroughGuards())
	return engine, repo
}

func do(engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateProductHandler(t *testing.T) {
	engine, _ := newRouter(t)

	w := do(engine, http.MethodPost, "/admin/products", `{"name":"Milk","barcode":"111","price":"1.20","stock":3}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"barcode":"111"`)

	w = do(engine, http.MethodPost, "/admin/products", `{"name":"Milk 2","barcode":"111"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(engine, http.MethodPost, "/admin/products", `{"barcode":"222"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandlers_NotFoundAndInvalidID(t *testing.T) {
	engine, _ := newRouter(t)

	w := do(engine, http.MethodGet, "/admin/products/zzz", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(engine, http.MethodGet, "/admin/products/64b7f0c2a1b2c3d4e5f60718", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"product not found"}`, w.Body.String())
}

func TestAdjustStockHandler(t *testing.T) {
	p := document.Product{Name: "Flour", Barcode: "5", Stock: 2, Active: true}
	engine, repo := newRouter(t)
	require.NoError(t, repo.Create(context.Background(), &p))

	w := do(engine, http.MethodPost, "/admin/products/"+p.ID.Hex()+"/stock", `{"delta":-3,"reason":"spoiled"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(engine, http.MethodPost, "/admin/products/"+p.ID.Hex()+"/stock", `{"delta":4,"reason":"found a box"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 6, repo.Stock(p.ID))
}

func TestListProductsHandler(t *testing.T) {
	engine, _ := newRouter(t,
		document.Product{Name: "A", Barcode: "1", Active: true},
		document.Product{Name: "B", Barcode: "2", Active: false},
	)

	w := do(engine, http.MethodGet, "/admin/products?active=true", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":1`)
}
