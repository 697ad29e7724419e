package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/querynet/backend/internal/qa"
	"github.com/emilythestrangee/querynet/backend/internal/response"
)

// ErrorResponder renders the last error a handler attached with c.Error.
func ErrorResponder(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		if qa.KindOf(err) == qa.KindInternal {
			log.ErrorContext(c.Request.Context(), "request failed",
				"error", err,
				"path", c.Request.URL.Path,
				"request_id", RequestIDFrom(c),
			)
		}
		response.Error(c, err)
	}
}

// Recovery turns panics into a 500 envelope.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.ErrorContext(c.Request.Context(), "panic recovered",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"request_id", RequestIDFrom(c),
		)
		response.Fail(c, http.StatusInternalServerError, "Server Error")
	})
}
