package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/emilythestrangee/querynet/backend/internal/config"
	"github.com/emilythestrangee/querynet/backend/internal/database"
	"github.com/emilythestrangee/querynet/backend/internal/handlers"
	"github.com/emilythestrangee/querynet/backend/internal/middleware"
	"github.com/emilythestrangee/querynet/backend/internal/qa"
)

const serviceName = "querynet"

type Server struct {
	cfg     *config.Config
	log     *slog.Logger
	handler *handlers.Handler
	limiter *middleware.RateLimiter
}

func New(cfg *config.Config, log *slog.Logger, svc *qa.Service, db database.Service) *Server {
	return &Server{
		cfg: cfg,
		log: log,
		handler: handlers.NewHandler(svc, db, handlers.Options{
			JWTSecret:     []byte(cfg.JWTSecret),
			TokenTTL:      cfg.TokenTTL,
			SecureCookies: cfg.IsProduction(),
		}),
		limiter: middleware.NewRateLimiter(cfg.RateLimitWindow, cfg.RateLimitMax),
	}
}

// HTTPServer wraps the router in an http.Server with the production timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	if s.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.Recovery(s.log),
		middleware.RequestID(),
		otelgin.Middleware(serviceName),
		middleware.Logger(s.log),
		middleware.Metrics(),
	)

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{s.cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check and metrics endpoints
	r.GET("/health", s.handler.Site.Health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	secret := []byte(s.cfg.JWTSecret)
	required := middleware.RequireAuth(secret)
	optional := middleware.OptionalAuth(secret)
	h := s.handler

	// API routes
	api := r.Group("/api")
	api.Use(s.limiter.Middleware(), middleware.ErrorResponder(s.log))
	{
		auth := api.Group("/auth")
		auth.POST("/register", h.Auth.Register)
		auth.POST("/login", h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
		auth.GET("/me", required, h.Auth.GetMe)
		auth.PUT("/profile", required, h.Auth.UpdateProfile)
		auth.PUT("/change-password", required, h.Auth.ChangePassword)

		questions := api.Group("/questions")
		questions.GET("", optional, h.Question.GetQuestions)
		questions.GET("/popular", h.Question.GetPopular)
		questions.GET("/tag/:tag", optional, h.Question.GetByTag)
		questions.GET("/user/:userId", optional, h.Question.GetByUser)
		questions.GET("/:id", optional, h.Question.GetQuestion)
		questions.GET("/:id/related", h.Question.GetRelated)
		questions.POST("", required, h.Question.CreateQuestion)
		questions.PUT("/:id", required, h.Question.UpdateQuestion)
		questions.DELETE("/:id", required, h.Question.DeleteQuestion)
		questions.POST("/:id/vote", required, h.Question.VoteQuestion)

		answers := api.Group("/answers")
		answers.GET("/question/:questionId", optional, h.Answer.GetAnswers)
		answers.POST("", required, h.Answer.CreateAnswer)
		answers.PUT("/:id", required, h.Answer.UpdateAnswer)
		answers.DELETE("/:id", required, h.Answer.DeleteAnswer)
		answers.POST("/:id/vote", required, h.Answer.VoteAnswer)
		answers.POST("/:id/accept", required, h.Answer.AcceptAnswer)

		notifications := api.Group("/notifications", required)
		notifications.GET("", h.Notification.GetNotifications)
		notifications.PUT("/mark-all-read", h.Notification.MarkAllRead)
		notifications.GET("/preferences", h.Notification.GetPreferences)
		notifications.PUT("/preferences", h.Notification.UpdatePreferences)
		notifications.PUT("/:id/read", h.Notification.MarkRead)
		notifications.PUT("/:id/unread", h.Notification.MarkUnread)
		notifications.DELETE("/:id", h.Notification.DeleteNotification)

		users := api.Group("/users")
		users.GET("", h.User.GetUsers)
		users.GET("/:id", h.User.GetUserProfile)
		users.GET("/:id/activity", h.User.GetActivity)

		api.GET("/tags/popular", h.Site.PopularTags)
		api.GET("/stats", h.Site.Stats)
		api.GET("/search", optional, h.Site.Search)
	}

	return r
}
