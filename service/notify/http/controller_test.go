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

	"retail_backoffice/pkg/middleware"
	"retail_backoffice/pkg/middleware/middlewaretest"
	invmodel "retail_backoffice/service/inventory/model"
	"retail_backoffice/service/notify/model"
	"retail_backoffice/service/notify/usecase"
)

type stubNotifyUseCase struct {
	registered []model.RequestUpdateFcmTokenDTO
	tokens     map[string]string
}

func (s *stubNotifyUseCase) RegisterFcmToken(_ context.Context, dto model.RequestUpdateFcmTokenDTO) error {
	s.registered = append(s.registered, dto)
	return nil
}

func (s *stubNotifyUseCase) GetFcmToken(_ context.Context, role, uid string) (string, error) {
	token, ok := s.tokens[role+":"+uid]
	if !ok {
		return "", usecase.ErrTokenNotFound
	}
	return token, nil
}

func (s *stubNotifyUseCase) LowStockAlert(context.Context, invmodel.ProductSnapshot) error {
	return nil
}

func newRouter(uc *stubNotifyUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	guards := middlewaretest.SignedInGuards(middleware.Actor{UID: "cashier-1", Role: middleware.RoleCashier})
	RegisterNotifyRoutes(engine, NewNotifyController(uc, zap.NewNop()), guards)
	return engine
}

func post(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/notify/register-fcm-token", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRegisterFcmToken_DefaultsToCaller(t *testing.T) {
	uc := &stubNotifyUseCase{}
	w := post(newRouter(uc), `{"fcm_token":"device-token"}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, uc.registered, 1)
	assert.Equal(t, "cashier-1", uc.registered[0].UID)
	assert.Equal(t, middleware.RoleCashier, uc.registered[0].Role)
}

func TestRegisterFcmToken_RejectsOtherMembers(t *testing.T) {
	uc := &stubNotifyUseCase{}
	engine := newRouter(uc)

	w := post(engine, `{"fcm_token":"t","uid":"someone-else"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = post(engine, `{"fcm_token":"t","role":"admin"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	assert.Empty(t, uc.registered)
}

func TestRegisterFcmToken_MissingToken(t *testing.T) {
	w := post(newRouter(&stubNotifyUseCase{}), `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetFcmToken_ReturnsCallersToken(t *testing.T) {
	uc := &stubNotifyUseCase{tokens: map[string]string{"cashier:cashier-1": "device-token"}}
	engine := newRouter(uc)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notify/fcm-token", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"fcm_token":"device-token"`)

	engine = newRouter(&stubNotifyUseCase{})
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/notify/fcm-token", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
