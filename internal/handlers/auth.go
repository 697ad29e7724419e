package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/querynet/backend/internal/middleware"
	"github.com/emilythestrangee/querynet/backend/internal/models"
	"github.com/emilythestrangee/querynet/backend/internal/qa"
	"github.com/emilythestrangee/querynet/backend/internal/response"
)

type AuthHandler struct {
	svc  *qa.Service
	opts Options
}

func NewAuthHandler(svc *qa.Service, opts Options) *AuthHandler {
	return &AuthHandler{svc: svc, opts: opts}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	user, err := h.svc.Register(c.Request.Context(), qa.RegisterInput{
		Username: input.Username,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.sendToken(c, http.StatusCreated, user)
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	user, err := h.svc.Authenticate(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.sendToken(c, http.StatusOK, user)
}

// Logout clears the auth cookie. Bearer tokens stay valid until they expire.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, "", -1, "/", "", h.opts.SecureCookies, true)
	response.Message(c, "Logged out successfully")
}

// GetMe returns the current authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), actor(c).ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var input struct {
		Username *string `json:"username"`
		Bio      *string `json:"bio" binding:"omitempty,max=500"`
		Location *string `json:"location" binding:"omitempty,max=100"`
		Website  *string `json:"website" binding:"omitempty,max=200"`
		Avatar   *string `json:"avatar"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	user, err := h.svc.UpdateProfile(c.Request.Context(), actor(c), qa.ProfilePatch{
		Username: input.Username,
		Bio:      input.Bio,
		Location: input.Location,
		Website:  input.Website,
		Avatar:   input.Avatar,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	response.OK(c, http.StatusOK, user)
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var input struct {
		CurrentPassword string `json:"currentPassword" binding:"required"`
		NewPassword     string `json:"newPassword" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		_ = c.Error(bindError(err))
		return
	}

	a := actor(c)
	if err := h.svc.ChangePassword(c.Request.Context(), a, input.CurrentPassword, input.NewPassword); err != nil {
		_ = c.Error(err)
		return
	}
	user, err := h.svc.GetUser(c.Request.Context(), a.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	h.sendToken(c, http.StatusOK, user)
}

func (h *AuthHandler) sendToken(c *gin.Context, status int, user *models.User) {
	token, err := middleware.IssueToken(h.opts.JWTSecret, user, h.opts.TokenTTL)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.TokenCookie, token, int(h.opts.TokenTTL.Seconds()), "/", "", h.opts.SecureCookies, true)
	c.JSON(status, gin.H{
		"success": true,
		"token":   token,
		"user":    user,
	})
}
