package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/job-board-backend/internal/apperr"
	"github.com/tbourn/job-board-backend/internal/services"
)

func Test_fail_500_LogsAndBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-500")
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/boom", func(c *gin.Context) {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d", w.Code)
	}
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	if resp.RequestID != "rid-500" || resp.Code != ErrCodeInternal || resp.Message != "kaboom" {
		t.Fatalf("unexpected body: %+v", resp)
	}
	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Fatalf("expected error log, got: %s", buf.String())
	}
}

func Test_Fail_4xx_NotLogged(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r.Use(func(c *gin.Context) {
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/missing", func(c *gin.Context) { Fail(c, http.StatusNotFound, ErrCodeNotFound, "nope") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	if w.Code != http.StatusNotFound || buf.Len() != 0 {
		t.Fatalf("status=%d log=%q", w.Code, buf.String())
	}
}

func Test_writeError_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cause := errors.New("dial tcp: refused")
	cases := []struct {
		name   string
		err    error
		status int
		code   string
		msg    string
		ginErr bool
	}{
		{"apperr not found", apperr.NotFound("Jobs", "42"), 404, ErrCodeNotFound, "Jobs / 42: Not Found", false},
		{"apperr upstream", apperr.RequestFailed("ATS", "Jobs").WithCause(cause), 500, ErrCodeUpstreamFailed, "ATS / Jobs: Request Failed", true},
		{"wrapped apperr", fmt.Errorf("live: %w", apperr.NotFound("ATS", "Jobs", "x")), 404, ErrCodeNotFound, "ATS / Jobs / x: Not Found", false},
		{"invalid candidate", fmt.Errorf("%w: email", services.ErrInvalidCandidate), 400, ErrCodeInvalidCandidate, "invalid candidate: email", false},
		{"query too long", services.ErrQueryTooLong, 400, ErrCodeQueryTooLong, "query too long", false},
		{"sync in progress", services.ErrSyncInProgress, 409, ErrCodeSyncInProgress, "sync already in progress", false},
		{"application in progress", services.ErrApplicationInProgress, 409, ErrCodeApplyInProgress, "application with this idempotency key is in progress", false},
		{"ats unavailable", services.ErrATSUnavailable, 503, ErrCodeUnavailable, "ATS integration is not configured", false},
		{"unknown", errors.New("disk on fire"), 500, ErrCodeInternal, "internal server error", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var ginErrs int
			r := gin.New()
			r.GET("/x", func(c *gin.Context) {
				writeError(c, tc.err)
				ginErrs = len(c.Errors)
			})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

			if w.Code != tc.status {
				t.Fatalf("status=%d want %d", w.Code, tc.status)
			}
			er := decodeError(t, w)
			if er.Code != tc.code || er.Message != tc.msg {
				t.Fatalf("body=%+v", er)
			}
			if (ginErrs > 0) != tc.ginErr {
				t.Fatalf("gin errors=%d, want attached=%v", ginErrs, tc.ginErr)
			}
		})
	}
}

func Test_ok(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ok", func(c *gin.Context) { ok(c, http.StatusCreated, gin.H{"n": 1}) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w.Code != http.StatusCreated || !strings.Contains(w.Body.String(), `"n":1`) {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}
