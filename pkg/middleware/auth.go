package middleware

import (
	"context"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"

	ContextUID   = "auth.uid"
	ContextEmail = "auth.email"
	ContextRole  = "auth.role"
	ContextName  = "auth.name"
)

// TokenVerifier is satisfied by *auth.Client. Tokens issued before the
// user's sessions were revoked, or belonging to a disabled or deleted user,
// fail verification.
type TokenVerifier interface {
	VerifyIDTokenAndCheckRevoked(ctx context.Context, idToken string) (*auth.Token, error)
}

type Actor struct {
	UID   string
	Email string
	Name  string
	Role  string
}

// RequireRole verifies the Firebase ID token in the Authorization header and
// rejects callers whose role claim is not one of roles.
func RequireRole(verifier TokenVerifier, log *zap.Logger, roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		idToken, ok := strings.CutPrefix(header, "Bearer ")
		idToken = strings.TrimSpace(idToken)
		if !ok || idToken == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing bearer token"})
			return
		}

		token, err := verifier.VerifyIDTokenAndCheckRevoked(c.Request.Context(), idToken)
		if err != nil {
			log.Debug("rejected id token",
				zap.Bool("revoked", auth.IsIDTokenRevoked(err)),
				zap.Bool("disabled", auth.IsUserDisabled(err)),
				zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		role := claimString(token.Claims, "role")
		if _, ok := allowed[role]; !ok {
			log.Info("role not allowed",
				zap.String("uid", token.UID),
				zap.String("role", role),
				zap.String("path", c.FullPath()))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient role"})
			return
		}

		c.Set(ContextUID, token.UID)
		c.Set(ContextRole, role)
		c.Set(ContextEmail, claimString(token.Claims, "email"))
		c.Set(ContextName, claimString(token.Claims, "name"))
		c.Next()
	}
}

func CurrentActor(c *gin.Context) Actor {
	return Actor{
		UID:   c.GetString(ContextUID),
		Email: c.GetString(ContextEmail),
		Name:  c.GetString(ContextName),
		Role:  c.GetString(ContextRole),
	}
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}

// Guards are the role gates shared by every route group.
type Guards struct {
	Admin gin.HandlerFunc
	Staff gin.HandlerFunc
}

func NewGuards(verifier TokenVerifier, log *zap.Logger) Guards {
	return Guards{
		Admin: RequireRole(verifier, log, RoleAdmin),
		Staff: RequireRole(verifier, log, RoleAdmin, RoleCashier),
	}
}
