package http

import (
	"github.com/gin-gonic/gin"

	"retail_backoffice/pkg/middleware"
)

func RegisterMemberRoutes(engine *gin.Engine, handler *MembersHandler, guards middleware.Guards) {
	group := engine.Group("/admin/members", guards.Admin)
	group.GET("", handler.ListMembers)
	group.POST("", handler.CreateMember)
	group.GET("/:id", handler.GetMember)
	group.PATCH("/:id", handler.UpdateMember)
	group.DELETE("/:id", handler.DeleteMember)
}
