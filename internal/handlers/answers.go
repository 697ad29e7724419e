package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/querynet/backend/internal/middleware"
	"github.com/emilythestrangee/querynet/backend/internal/qa"
	"github.com/emilythestrangee/querynet/backend/internal/response"
)

type AnswerHandler struct {
	svc *qa.Service
}

func NewAnswerHandler(svc *qa.Service) *AnswerHandler {
	return &AnswerHandler{svc: svc}
}

// GetAnswers returns the answers of a question, accepted answer first
func (h *AnswerHandler) GetAnswers(c *gin.Context) {
	views, err := h.svc.ListAnswers(c.Request.Context(), middleware.ViewerID(c), c.Param("questionId"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.List(c, views, nil, nil)
}

func (h *AnswerHandler) CreateAnswer(c *gin.Context) {
	var input struct {
		Body       string `json:"body" binding:"required"`
		QuestionID string `json:"questionId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	view, err := h.svc.CreateAnswer(c.Request.Context(), actor(c), input.QuestionID, input.Body)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusCreated, view)
}

func (h *AnswerHandler) UpdateAnswer(c *gin.Context) {
	var input struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	view, err := h.svc.UpdateAnswer(c.Request.Context(), actor(c), c.Param("id"), input.Body)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, view)
}

func (h *AnswerHandler) DeleteAnswer(c *gin.Context) {
	if err := h.svc.DeleteAnswer(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	response.Message(c, "Answer deleted successfully")
}

func (h *AnswerHandler) VoteAnswer(c *gin.Context) {
	var input voteInput
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(bindError(err))
		return
	}
	res, err := h.svc.VoteAnswer(c.Request.Context(), actor(c), c.Param("id"), input.Type)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, res)
}

// AcceptAnswer marks an answer as accepted; only the question author may call it
func (h *AnswerHandler) AcceptAnswer(c *gin.Context) {
	if _, err := h.svc.AcceptAnswer(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	response.Message(c, "Answer accepted successfully")
}
