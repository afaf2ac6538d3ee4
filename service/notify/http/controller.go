package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retail_backoffice/pkg/middleware"
	"retail_backoffice/pkg/server"
	"retail_backoffice/service/notify/model"
	"retail_backoffice/service/notify/usecase"
)

type NotifyController struct {
	useCase usecase.INotifyUseCase
	log     *zap.Logger
}

func NewNotifyController(useCase usecase.INotifyUseCase, log *zap.Logger) *NotifyController {
	return &NotifyController{
		useCase: useCase,
		log:     log,
	}
}

// RegisterFcmTokenHandler stores the caller's device token. Members may only
// register devices for themselves.
func (n *NotifyController) RegisterFcmTokenHandler(c *gin.Context) {
	var tokenDTO model.RequestUpdateFcmTokenDTO
	if err := c.ShouldBindJSON(&tokenDTO); err != nil {
		server.BindError(c, n.log, err)
		return
	}

	actor := middleware.CurrentActor(c)
	if tokenDTO.UID == "" {
		tokenDTO.UID = actor.UID
	}
	if tokenDTO.Role == "" {
		tokenDTO.Role = actor.Role
	}
	if tokenDTO.UID != actor.UID || tokenDTO.Role != actor.Role {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Token must belong to the signed-in member"})
		return
	}

	if err := n.useCase.RegisterFcmToken(c.Request.Context(), tokenDTO); err != nil {
		server.RespondError(c, n.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "FCM token registered successfully"})
}

// GetFcmTokenHandler returns the token stored for the caller's device so the
// app can tell whether it needs to register again.
func (n *NotifyController) GetFcmTokenHandler(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	token, err := n.useCase.GetFcmToken(c.Request.Context(), actor.Role, actor.UID)
	if err != nil {
		server.RespondError(c, n.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"fcm_token": token})
}
