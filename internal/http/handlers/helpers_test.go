package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/job-board-backend/internal/ats"
	"github.com/tbourn/job-board-backend/internal/domain"
	"github.com/tbourn/job-board-backend/internal/http/middleware"
	"github.com/tbourn/job-board-backend/internal/repo"
	"github.com/tbourn/job-board-backend/internal/services"
)

// ---------- flexible service stubs ----------

type stubJobSvc struct {
	search func(context.Context, services.JobQuery, int, int) ([]domain.Job, int64, error)
	stats  func(context.Context, repo.JobFilter) (int64, *time.Time, error)
	get    func(context.Context, string) (*domain.Job, error)
	live   func(context.Context, string) (*ats.Posting, error)
}

func (s stubJobSvc) Search(ctx context.Context, q services.JobQuery, p, ps int) ([]domain.Job, int64, error) {
	if s.search != nil {
		return s.search(ctx, q, p, ps)
	}
	return nil, 0, nil
}

func (s stubJobSvc) Stats(ctx context.Context, f repo.JobFilter) (int64, *time.Time, error) {
	if s.stats != nil {
		return s.stats(ctx, f)
	}
	return 0, nil, nil
}

func (s stubJobSvc) Get(ctx context.Context, id string) (*domain.Job, error) {
	if s.get != nil {
		return s.get(ctx, id)
	}
	return &domain.Job{ID: id}, nil
}

func (s stubJobSvc) Live(ctx context.Context, id string) (*ats.Posting, error) {
	if s.live != nil {
		return s.live(ctx, id)
	}
	return &ats.Posting{ID: "ext-" + id}, nil
}

type stubMetaSvc func(context.Context) (*services.Metadata, error)

func (f stubMetaSvc) GetMetadata(ctx context.Context) (*services.Metadata, error) { return f(ctx) }

type stubApplySvc func(context.Context, string, string, string, services.CandidateInput) (*domain.Application, bool, error)

func (f stubApplySvc) Apply(ctx context.Context, clientID, jobID, key string, in services.CandidateInput) (*domain.Application, bool, error) {
	return f(ctx, clientID, jobID, key, in)
}

type stubSyncSvc func(context.Context) (*domain.SyncRun, error)

func (f stubSyncSvc) SyncOnce(ctx context.Context) (*domain.SyncRun, error) { return f(ctx) }

// ---------- router + request helpers ----------

// newTestRouter mounts h behind the middleware the handlers rely on.
func newTestRouter(h *Handlers) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.ClientID(),
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil),
		middleware.NormalizeQuery(),
	)
	r.GET("/jobs", h.ListJobs)
	r.GET("/jobs/:id", h.GetJob)
	r.GET("/jobs/:id/live", h.GetJobLive)
	r.POST("/jobs/:id/applications", h.Apply)
	r.GET("/metadata/", h.GetMetadata)
	r.POST("/admin/sync", h.TriggerSync)
	return r
}

func do(t *testing.T, r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, isStr := body.(string); isStr {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("error body %q: %v", w.Body.String(), err)
	}
	return er
}
