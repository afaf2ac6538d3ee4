package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeVerifier struct {
	tokens  map[string]*auth.Token
	revoked map[string]bool
}

func (f fakeVerifier) VerifyIDTokenAndCheckRevoked(_ context.Context, idToken string) (*auth.Token, error) {
	if f.revoked[idToken] {
		return nil, errors.New("ID token has been revoked")
	}
	if tok, ok := f.tokens[idToken]; ok {
		return tok, nil
	}
	return nil, errors.New("token expired")
}

func newTestEngine(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	verifier := fakeVerifier{
		tokens: map[string]*auth.Token{
			"admin-token":   {UID: "u-admin", Claims: map[string]interface{}{"role": "admin", "email": "boss@shop.test"}},
			"cash-token":    {UID: "u-cash", Claims: map[string]interface{}{"role": "cashier", "name": "Lan"}},
			"plain-token":   {UID: "u-plain", Claims: map[string]interface{}{}},
			"revoked-token": {UID: "u-fired", Claims: map[string]interface{}{"role": "admin"}},
		},
		revoked: map[string]bool{"revoked-token": true},
	}

	engine := gin.New()
	engine.GET("/guarded", RequireRole(verifier, zap.NewNop(), roles...), func(c *gin.Context) {
		actor := CurrentActor(c)
		c.JSON(http.StatusOK, gin.H{"uid": actor.UID, "role": actor.Role, "email": actor.Email, "name": actor.Name})
	})
	return engine
}

func doGet(engine *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequireRole(t *testing.T) {
	engine := newTestEngine(RoleAdmin, RoleCashier)

	t.Run("missing header", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doGet(engine, "").Code)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doGet(engine, "Basic admin-token").Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, doGet(engine, "Bearer nope").Code)
	})

	t.Run("revoked session", func(t *testing.T) {
		w := doGet(engine, "Bearer revoked-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.NotContains(t, w.Body.String(), "u-fired")
	})

	t.Run("no role claim", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, doGet(engine, "Bearer plain-token").Code)
	})

	t.Run("cashier allowed", func(t *testing.T) {
		w := doGet(engine, "Bearer cash-token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"uid":"u-cash","role":"cashier","email":"","name":"Lan"}`, w.Body.String())
	})

	t.Run("admin allowed", func(t *testing.T) {
		w := doGet(engine, "Bearer admin-token")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "boss@shop.test")
	})
}

func TestRequireRole_AdminOnly(t *testing.T) {
	engine := newTestEngine(RoleAdmin)
	assert.Equal(t, http.StatusForbidden, doGet(engine, "Bearer cash-token").Code)
	assert.Equal(t, http.StatusOK, doGet(engine, "Bearer admin-token").Code)
}
