package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/querynet/backend/internal/qa"
	"github.com/emilythestrangee/querynet/backend/internal/response"
)

type UserHandler struct {
	svc *qa.Service
}

func NewUserHandler(svc *qa.Service) *UserHandler {
	return &UserHandler{svc: svc}
}

func (h *UserHandler) GetUsers(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(bindError(err))
		return
	}
	users, page, err := h.svc.ListUsers(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.List(c, users, &page, nil)
}

// GetUserProfile returns a user's public profile
func (h *UserHandler) GetUserProfile(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	user.Email = ""
	response.OK(c, http.StatusOK, user)
}

func (h *UserHandler) GetActivity(c *gin.Context) {
	act, err := h.svc.Activity(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, act)
}
