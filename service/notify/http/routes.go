package http

import (
	"github.com/gin-gonic/gin"

	"retail_backoffice/pkg/middleware"
)

func RegisterNotifyRoutes(engine *gin.Engine, controller *NotifyController, guards middleware.Guards) {
	group := engine.Group("/notify", guards.Staff)
	group.POST("/register-fcm-token", controller.RegisterFcmTokenHandler)
	group.GET("/fcm-token", controller.GetFcmTokenHandler)
}
