// utils/errors.go
package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error kinds surfaced at the request boundary
const (
	KindNotFound        = "NOT_FOUND"
	KindInvalidState    = "INVALID_STATE"
	KindInvalidArgument = "INVALID_ARGUMENT"
	KindConflict        = "CONFLICT"
	KindInternal        = "INTERNAL"
)

// AppError carries a kind plus a human-readable message. Services return
// these; controllers translate them to HTTP statuses.
type AppError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

func InvalidState(message string) *AppError {
	return &AppError{Kind: KindInvalidState, Message: message}
}

func InvalidArgument(message string) *AppError {
	return &AppError{Kind: KindInvalidArgument, Message: message}
}

func Conflict(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

func Internal(message string) *AppError {
	return &AppError{Kind: KindInternal, Message: message}
}

func statusForKind(kind string) int {
	switch kind {
	case KindNotFound:
		return http.StatusNotFound
	case KindInvalidState:
		return http.StatusConflict
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// RespondWithAppError maps a service error to a structured failure response.
// Unexpected errors are hidden behind a generic internal-error body.
func RespondWithAppError(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		c.JSON(statusForKind(appErr.Kind), gin.H{
			"kind":  appErr.Kind,
			"error": appErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"kind":  KindInternal,
		"error": "Internal server error",
	})
}
