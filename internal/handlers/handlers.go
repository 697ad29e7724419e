package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/emilythestrangee/querynet/backend/internal/database"
	"github.com/emilythestrangee/querynet/backend/internal/middleware"
	"github.com/emilythestrangee/querynet/backend/internal/models"
	"github.com/emilythestrangee/querynet/backend/internal/qa"
)

// Options configure token issuance for the auth handlers.
type Options struct {
	JWTSecret     []byte
	TokenTTL      time.Duration
	SecureCookies bool
}

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Question     *QuestionHandler
	Answer       *AnswerHandler
	Notification *NotificationHandler
	User         *UserHandler
	Site         *SiteHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(svc *qa.Service, db database.Service, opts Options) *Handler {
	registerValidators()
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = 24 * time.Hour
	}

	return &Handler{
		Auth:         NewAuthHandler(svc, opts),
		Question:     NewQuestionHandler(svc),
		Answer:       NewAnswerHandler(svc),
		Notification: NewNotificationHandler(svc),
		User:         NewUserHandler(svc),
		Site:         NewSiteHandler(svc, db),
	}
}

var validatorsOnce sync.Once

// registerValidators reports json field names in validation errors and adds
// the votetype rule to gin's validator.
func registerValidators() {
	validatorsOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic(fmt.Sprintf("unexpected validator engine %T", binding.Validator.Engine()))
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		if err := v.RegisterValidation("votetype", func(fl validator.FieldLevel) bool {
			return models.VoteType(fl.Field().String()).Valid()
		}); err != nil {
			panic(fmt.Sprintf("register votetype validator: %v", err))
		}
	})
}

// bindError turns a binding failure into a client-facing validation error.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return qa.Validation("Invalid request body")
	}
	fe := verrs[0]
	if fe.Tag() == "votetype" || fe.Field() == "type" {
		return qa.ErrInvalidVoteType
	}
	switch fe.Tag() {
	case "required":
		return qa.Validation("Please provide %s", fe.Field())
	case "email":
		return qa.Validation("Please provide a valid email")
	case "min":
		return qa.Validation("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return qa.Validation("%s cannot be more than %s characters", fe.Field(), fe.Param())
	}
	return qa.Validation("Invalid value for %s", fe.Field())
}

func actor(c *gin.Context) qa.Actor {
	a, _ := middleware.CurrentActor(c)
	return a
}

// pageQuery is shared by every paginated listing.
type pageQuery struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}
