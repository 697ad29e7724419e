package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/querynet/backend/internal/middleware"
	"github.com/emilythestrangee/querynet/backend/internal/models"
	"github.com/emilythestrangee/querynet/backend/internal/qa"
	"github.com/emilythestrangee/querynet/backend/internal/response"
)

type QuestionHandler struct {
	svc *qa.Service
}

func NewQuestionHandler(svc *qa.Service) *QuestionHandler {
	return &QuestionHandler{svc: svc}
}

type voteInput struct {
	Type models.VoteType `json:"type" binding:"required,votetype"`
}

// GetQuestions lists open questions with paging, sorting and search
func (h *QuestionHandler) GetQuestions(c *gin.Context) {
	var q struct {
		pageQuery
		Sort   string `form:"sort"`
		Search string `form:"search"`
		Tag    string `form:"tag"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	views, page, err := h.svc.ListQuestions(c.Request.Context(), middleware.ViewerID(c), qa.ListQuery{
		Page:   q.Page,
		Limit:  q.Limit,
		Sort:   q.Sort,
		Search: q.Search,
		Tag:    q.Tag,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.List(c, views, &page, nil)
}

func (h *QuestionHandler) GetPopular(c *gin.Context) {
	var q struct {
		Days  int `form:"days"`
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(bindError(err))
		return
	}
	views, err := h.svc.PopularQuestions(c.Request.Context(), q.Days, q.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.List(c, views, nil, nil)
}

func (h *QuestionHandler) GetByTag(c *gin.Context) {
	h.listBy(c, qa.ListQuery{Tag: c.Param("tag")})
}

func (h *QuestionHandler) GetByUser(c *gin.Context) {
	h.listBy(c, qa.ListQuery{AuthorID: c.Param("userId"), AllStatuses: true})
}

func (h *QuestionHandler) listBy(c *gin.Context, lq qa.ListQuery) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(bindError(err))
		return
	}
	lq.Page, lq.Limit = q.Page, q.Limit
	views, page, err := h.svc.ListQuestions(c.Request.Context(), middleware.ViewerID(c), lq)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.List(c, views, &page, nil)
}

// GetQuestion returns a single question with its answers and counts the view
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	detail, err := h.svc.GetQuestion(c.Request.Context(), middleware.ViewerID(c), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, detail)
}

func (h *QuestionHandler) GetRelated(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		_ = c.Error(bindError(err))
		return
	}
	views, err := h.svc.RelatedQuestions(c.Request.Context(), c.Param("id"), q.Limit)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.List(c, views, nil, nil)
}

// CreateQuestion creates a new question (PROTECTED - requires authentication)
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var input struct {
		Title string   `json:"title" binding:"required"`
		Body  string   `json:"body" binding:"required"`
		Tags  []string `json:"tags" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	view, err := h.svc.CreateQuestion(c.Request.Context(), actor(c), qa.QuestionInput{
		Title: input.Title,
		Body:  input.Body,
		Tags:  input.Tags,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusCreated, view)
}

func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	var input struct {
		Title *string  `json:"title"`
		Body  *string  `json:"body"`
		Tags  []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	view, err := h.svc.UpdateQuestion(c.Request.Context(), actor(c), c.Param("id"), qa.QuestionPatch{
		Title: input.Title,
		Body:  input.Body,
		Tags:  input.Tags,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, view)
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	if err := h.svc.DeleteQuestion(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	response.Message(c, "Question deleted successfully")
}

// VoteQuestion toggles the caller's vote on a question
func (h *QuestionHandler) VoteQuestion(c *gin.Context) {
	var input voteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(bindError(err))
		return
	}
	res, err := h.svc.VoteQuestion(c.Request.Context(), actor(c), c.Param("id"), input.Type)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, res)
}
