package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/querynet/backend/internal/qa"
	"github.com/emilythestrangee/querynet/backend/internal/response"
)

type NotificationHandler struct {
	svc *qa.Service
}

func NewNotificationHandler(svc *qa.Service) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	var q struct {
		pageQuery
		Filter string `form:"filter" binding:"omitempty,oneof=all unread read"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	page, err := h.svc.ListNotifications(c.Request.Context(), actor(c), qa.NotificationQuery{
		Page:   q.Page,
		Limit:  q.Limit,
		Filter: qa.NotificationFilter(q.Filter),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.List(c, page.Notifications, &page.Pagination, gin.H{"unreadCount": page.UnreadCount})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	h.mark(c, true)
}

func (h *NotificationHandler) MarkUnread(c *gin.Context) {
	h.mark(c, false)
}

func (h *NotificationHandler) mark(c *gin.Context, read bool) {
	n, err := h.svc.MarkRead(c.Request.Context(), actor(c), c.Param("id"), read)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, n)
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	changed, err := h.svc.MarkAllRead(c.Request.Context(), actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{
		"message":  "All notifications marked as read",
		"modified": changed,
	})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	if err := h.svc.DeleteNotification(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	response.Message(c, "Notification deleted successfully")
}

func (h *NotificationHandler) GetPreferences(c *gin.Context) {
	p, err := h.svc.Preferences(c.Request.Context(), actor(c))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, p)
}

func (h *NotificationHandler) UpdatePreferences(c *gin.Context) {
	var input struct {
		EmailNotifications *bool   `json:"emailNotifications"`
		PushNotifications  *bool   `json:"pushNotifications"`
		Theme              *string `json:"theme"`
		Phone              *string `json:"phone" binding:"omitempty,e164"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	p, err := h.svc.UpdatePreferences(c.Request.Context(), actor(c), qa.PreferencesPatch{
		EmailNotifications: input.EmailNotifications,
		PushNotifications:  input.PushNotifications,
		Theme:              input.Theme,
		Phone:              input.Phone,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, p)
}
