// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the standard response utilities used across all endpoints:
// the ErrorResponse envelope, fail() for explicit errors, writeError() as the
// single boundary that turns service and ATS errors into HTTP responses, and
// ok() for success bodies.
//
// Example error response:
//
//	HTTP/1.1 500 Internal Server Error
//	{
//	  "request_id": "123e4567-e89b-12d3-a456-426614174000",
//	  "code": "upstream_failed",
//	  "message": "ATS / Jobs: Request Failed"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/job-board-backend/internal/apperr"
	"github.com/tbourn/job-board-backend/internal/http/middleware"
	"github.com/tbourn/job-board-backend/internal/services"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"not_found"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"Jobs / 42: Not Found"`
}

// fail aborts the request with a structured error. Server errors (>=500) are
// logged with the request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}

	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}

	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail() for the router.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

// writeError is the generic error boundary. *apperr.Error values keep their
// status and message; known service sentinels map to fixed statuses; anything
// else becomes an opaque 500.
func writeError(c *gin.Context, err error) {
	if ae, ok := apperr.As(err); ok {
		code := ErrCodeUpstreamFailed
		if ae.StatusCode() == http.StatusNotFound {
			code = ErrCodeNotFound
		}
		if cause := ae.Unwrap(); cause != nil {
			_ = c.Error(cause)
		}
		fail(c, ae.StatusCode(), code, ae.Message())
		return
	}

	switch {
	case errors.Is(err, services.ErrInvalidCandidate):
		fail(c, http.StatusBadRequest, ErrCodeInvalidCandidate, err.Error())
	case errors.Is(err, services.ErrQueryTooLong):
		fail(c, http.StatusBadRequest, ErrCodeQueryTooLong, err.Error())
	case errors.Is(err, services.ErrSyncInProgress):
		fail(c, http.StatusConflict, ErrCodeSyncInProgress, err.Error())
	case errors.Is(err, services.ErrApplicationInProgress):
		fail(c, http.StatusConflict, ErrCodeApplyInProgress, err.Error())
	case errors.Is(err, services.ErrATSUnavailable):
		fail(c, http.StatusServiceUnavailable, ErrCodeUnavailable, "ATS integration is not configured")
	default:
		_ = c.Error(err)
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal server error")
	}
}

// ok writes a success JSON response.
func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}
