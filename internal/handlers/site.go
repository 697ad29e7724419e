package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/querynet/backend/internal/database"
	"github.com/emilythestrangee/querynet/backend/internal/middleware"
	"github.com/emilythestrangee/querynet/backend/internal/qa"
	"github.com/emilythestrangee/querynet/backend/internal/response"
)

type SiteHandler struct {
	svc *qa.Service
	db  database.Service
}

func NewSiteHandler(svc *qa.Service, db database.Service) *SiteHandler {
	return &SiteHandler{svc: svc, db: db}
}

// Health reports database connectivity and pool stats.
func (h *SiteHandler) Health(c *gin.Context) {
	if h.db == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	stats := h.db.Health()
	status := http.StatusOK
	if stats["status"] != "up" {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, stats)
}

func (h *SiteHandler) PopularTags(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	tags, err := h.svc.PopularTags(c.Request.Context(), limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.List(c, tags, nil, nil)
}

func (h *SiteHandler) Stats(c *gin.Context) {
	st, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, st)
}

// Search is a substring match over question titles and bodies.
func (h *SiteHandler) Search(c *gin.Context) {
	var q struct {
		pageQuery
		Q string `form:"q" binding:"required"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(qa.Validation("Please provide a search query"))
		return
	}
	views, page, err := h.svc.Search(c.Request.Context(), middleware.ViewerID(c), q.Q, q.Page, q.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.List(c, views, &page, gin.H{"query": q.Q})
}
