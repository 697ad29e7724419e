// Package response writes the JSON envelope every endpoint answers with.
package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emilythestrangee/querynet/backend/internal/qa"
)

// AuthorizationStatus is the status used when an authenticated caller is not
// allowed to act. Clients depend on 401 here rather than 403.
const AuthorizationStatus = http.StatusUnauthorized

type Envelope struct {
	Success    bool           `json:"success"`
	Data       any            `json:"data,omitempty"`
	Error      string         `json:"error,omitempty"`
	Count      *int           `json:"count,omitempty"`
	Pagination *qa.Pagination `json:"pagination,omitempty"`
	Meta       gin.H          `json:"meta,omitempty"`
}

func OK(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

// Message answers with {"success":true,"data":{"message":msg}}.
func Message(c *gin.Context, msg string) {
	OK(c, http.StatusOK, gin.H{"message": msg})
}

// List answers with a slice, its length and optional paging metadata.
func List[T any](c *gin.Context, items []T, page *qa.Pagination, meta gin.H) {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	c.JSON(http.StatusOK, Envelope{
		Success:    true,
		Data:       items,
		Count:      &n,
		Pagination: page,
		Meta:       meta,
	})
}

func Fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, Envelope{Success: false, Error: msg})
}

// Status maps an error kind to an HTTP status.
func Status(kind qa.Kind) int {
	switch kind {
	case qa.KindValidation:
		return http.StatusBadRequest
	case qa.KindAuthentication:
		return http.StatusUnauthorized
	case qa.KindAuthorization:
		return AuthorizationStatus
	case qa.KindNotFound:
		return http.StatusNotFound
	case qa.KindConflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error writes err as an envelope. Internal errors never leak their cause.
func Error(c *gin.Context, err error) {
	var e *qa.Error
	if !errors.As(err, &e) {
		Fail(c, http.StatusInternalServerError, "Server Error")
		return
	}
	msg := e.Message
	if e.Kind == qa.KindInternal && msg == "" {
		msg = "Server Error"
	}
	Fail(c, Status(e.Kind), msg)
}
