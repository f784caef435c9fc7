package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestIdempotencyValidator(t *testing.T) {
	gin.SetMode(gin.TestMode)

	type seen struct {
		key            string
		hasKey, replay bool
		bypass         bool
		client, job    string
	}

	run := func(t *testing.T, header, client string, lookup IdempotencyLookup) (*httptest.ResponseRecorder, seen) {
		t.Helper()
		var s seen
		r := gin.New()
		r.Use(ClientID(), IdempotencyValidator(IdempotencyOptions{MaxLen: 16}, func(ctx context.Context, clientID, jobID, key string, now time.Time) (bool, error) {
			s.client, s.job = clientID, jobID
			if lookup == nil {
				return false, nil
			}
			return lookup(ctx, clientID, jobID, key, now)
		}))
		r.POST("/jobs/:id/applications", func(c *gin.Context) {
			s.key, s.hasKey = GetIdempotencyKey(c)
			s.replay = IsReplay(c)
			s.bypass = IsRateBypass(c)
			c.Status(http.StatusCreated)
		})
		req := httptest.NewRequest(http.MethodPost, "/jobs/j1/applications", nil)
		if header != "" {
			req.Header.Set(HeaderIdempotencyKey, header)
		}
		if client != "" {
			req.Header.Set(HeaderClientID, client)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w, s
	}

	t.Run("no header passes through", func(t *testing.T) {
		w, s := run(t, "", "", nil)
		if w.Code != http.StatusCreated || s.hasKey || s.replay || s.client != "" {
			t.Fatalf("unexpected: %d %+v", w.Code, s)
		}
	})

	t.Run("invalid keys rejected", func(t *testing.T) {
		for _, k := range []string{"has space", strings.Repeat("k", 17)} {
			w, _ := run(t, k, "", nil)
			if w.Code != http.StatusBadRequest || !strings.Contains(w.Body.String(), "bad_idempotency_key") {
				t.Fatalf("key %q: %d %s", k, w.Code, w.Body.String())
			}
		}
	})

	t.Run("valid key without prior result", func(t *testing.T) {
		w, s := run(t, "k-1", "", nil)
		if w.Code != http.StatusCreated || s.key != "k-1" || s.replay || s.bypass {
			t.Fatalf("unexpected: %+v", s)
		}
		if s.client != AnonymousClient || s.job != "j1" {
			t.Fatalf("lookup args: client=%q job=%q", s.client, s.job)
		}
	})

	t.Run("replay marks bypass", func(t *testing.T) {
		_, s := run(t, "k-2", "browser-1", func(context.Context, string, string, string, time.Time) (bool, error) { return true, nil })
		if !s.replay || !s.bypass || s.client != "browser-1" {
			t.Fatalf("unexpected: %+v", s)
		}
	})

	t.Run("lookup error is not a replay", func(t *testing.T) {
		_, s := run(t, "k-3", "", func(context.Context, string, string, string, time.Time) (bool, error) {
			return true, errors.New("db down")
		})
		if s.replay || s.bypass {
			t.Fatalf("error must not mark replay: %+v", s)
		}
	})
}
