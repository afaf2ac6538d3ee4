package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retail_backoffice/pkg/apperr"
)

// RespondError writes err with the status its kind maps to. Internal errors
// are logged and reported to the client without detail.
func RespondError(c *gin.Context, log *zap.Logger, err error) {
	status := apperr.Status(err)
	if status >= 500 {
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": apperr.PublicMessage(err)})
}

// BindError reports a malformed request body or query.
func BindError(c *gin.Context, log *zap.Logger, err error) {
	log.Debug("invalid request", zap.String("path", c.FullPath()), zap.Error(err))
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
}
