package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"retail_backoffice/pkg/middleware"
	"retail_backoffice/pkg/server"
	"retail_backoffice/service/members/model/request"
	"retail_backoffice/service/members/usecase"
)

type MembersHandler struct {
	memberUseCase usecase.IMemberUseCase
	log           *zap.Logger
}

func NewMembersHandler(memberUseCase usecase.IMemberUseCase, log *zap.Logger) *MembersHandler {
	return &MembersHandler{memberUseCase: memberUseCase, log: log}
}

func (h *MembersHandler) CreateMember(c *gin.Context) {
	var dto request.CreateMemberDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		server.BindError(c, h.log, err)
		return
	}
	member, err := h.memberUseCase.CreateMember(c.Request.Context(), dto)
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"member": member})
}

func (h *MembersHandler) UpdateMember(c *gin.Context) {
	var dto request.UpdateMemberDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		server.BindError(c, h.log, err)
		return
	}
	member, err := h.memberUseCase.UpdateMember(c.Request.Context(), c.Param("id"), dto, middleware.CurrentActor(c).UID)
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": member})
}

func (h *MembersHandler) DeleteMember(c *gin.Context) {
	if err := h.memberUseCase.DeleteMember(c.Request.Context(), c.Param("id"), middleware.CurrentActor(c).UID); err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member deleted"})
}

func (h *MembersHandler) GetMember(c *gin.Context) {
	member, err := h.memberUseCase.GetMember(c.Request.Context(), c.Param("id"))
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member": member})
}

func (h *MembersHandler) ListMembers(c *gin.Context) {
	var query request.ListMembersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		server.BindError(c, h.log, err)
		return
	}
	list, err := h.memberUseCase.ListMembers(c.Request.Context(), query)
	if err != nil {
		server.RespondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, list)
}
