package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/tbourn/job-board-backend/internal/apperr"
	"github.com/tbourn/job-board-backend/internal/ats"
	"github.com/tbourn/job-board-backend/internal/domain"
	"github.com/tbourn/job-board-backend/internal/repo"
	"github.com/tbourn/job-board-backend/internal/services"
)

func TestListJobs_FiltersPaginationAndBody(t *testing.T) {
	var gotQ services.JobQuery
	var gotPage, gotSize int
	svc := stubJobSvc{
		search: func(_ context.Context, q services.JobQuery, p, ps int) ([]domain.Job, int64, error) {
			gotQ, gotPage, gotSize = q, p, ps
			return []domain.Job{{ID: "j1", Title: "Go Engineer"}}, 41, nil
		},
	}
	r := newTestRouter(New(svc, nil, nil, nil))

	w := do(t, r, http.MethodGet, "/jobs?q=+golang+&department=Eng&remote=true&employment_type=full_time&page=2&page_size=500&tags[]=x", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	if gotQ.Text != "golang" || gotQ.Filter.Department != "Eng" || gotQ.Filter.EmploymentType != "full_time" {
		t.Fatalf("unexpected query: %+v", gotQ)
	}
	if gotQ.Filter.Remote == nil || !*gotQ.Filter.Remote {
		t.Fatalf("remote filter not set: %+v", gotQ.Filter)
	}
	if gotPage != 2 || gotSize != 100 {
		t.Fatalf("page=%d size=%d", gotPage, gotSize)
	}

	var resp ListJobsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	want := Pagination{Page: 2, PageSize: 100, Total: 41, TotalPages: 1, HasNext: false}
	if len(resp.Jobs) != 1 || resp.Pagination != want {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestListJobs_EmptyIsArray_DefaultsAndBadRemote(t *testing.T) {
	var gotPage, gotSize int
	svc := stubJobSvc{
		search: func(_ context.Context, _ services.JobQuery, p, ps int) ([]domain.Job, int64, error) {
			gotPage, gotSize = p, ps
			return nil, 0, nil
		},
	}
	r := newTestRouter(New(svc, nil, nil, nil))

	w := do(t, r, http.MethodGet, "/jobs?page=-3&page_size=abc", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if gotPage != 1 || gotSize != 20 {
		t.Fatalf("page=%d size=%d", gotPage, gotSize)
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &raw); err != nil {
		t.Fatalf("json: %v", err)
	}
	if string(raw["jobs"]) != "[]" {
		t.Fatalf("jobs should encode as [], got %s", raw["jobs"])
	}

	w = do(t, r, http.MethodGet, "/jobs?remote=sometimes", nil, nil)
	if w.Code != http.StatusBadRequest || decodeError(t, w).Code != ErrCodeBadRequest {
		t.Fatalf("bad remote: %d %s", w.Code, w.Body.String())
	}
}

func TestListJobs_ETag304(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	searches := 0
	svc := stubJobSvc{
		stats: func(context.Context, repo.JobFilter) (int64, *time.Time, error) { return 3, &ts, nil },
		search: func(context.Context, services.JobQuery, int, int) ([]domain.Job, int64, error) {
			searches++
			return []domain.Job{{ID: "a"}}, 1, nil
		},
	}
	r := newTestRouter(New(svc, nil, nil, nil))

	w := do(t, r, http.MethodGet, "/jobs?location=Berlin", nil, nil)
	etag := w.Header().Get("ETag")
	if w.Code != http.StatusOK || etag == "" {
		t.Fatalf("status=%d etag=%q", w.Code, etag)
	}

	w = do(t, r, http.MethodGet, "/jobs?location=Berlin", nil, map[string]string{"If-None-Match": etag})
	if w.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", w.Code)
	}
	if searches != 1 {
		t.Fatalf("304 must skip the search, searches=%d", searches)
	}

	// A different query yields a different validator.
	w = do(t, r, http.MethodGet, "/jobs?location=Paris", nil, map[string]string{"If-None-Match": etag})
	if w.Code != http.StatusOK || w.Header().Get("ETag") == etag {
		t.Fatalf("etag should depend on the query: %d %q", w.Code, w.Header().Get("ETag"))
	}
}

func TestListJobs_StatsErrorStillServes_SearchErrorMapped(t *testing.T) {
	svc := stubJobSvc{
		stats: func(context.Context, repo.JobFilter) (int64, *time.Time, error) { return 0, nil, errors.New("db") },
		search: func(context.Context, services.JobQuery, int, int) ([]domain.Job, int64, error) {
			return nil, 0, services.ErrQueryTooLong
		},
	}
	r := newTestRouter(New(svc, nil, nil, nil))

	w := do(t, r, http.MethodGet, "/jobs?q=x", nil, nil)
	if w.Header().Get("ETag") != "" {
		t.Fatalf("no ETag expected when stats fail")
	}
	if w.Code != http.StatusBadRequest || decodeError(t, w).Code != ErrCodeQueryTooLong {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestGetJob_OKAndNotFound(t *testing.T) {
	svc := stubJobSvc{
		get: func(_ context.Context, id string) (*domain.Job, error) {
			if id == "missing" {
				return nil, apperr.NotFound("Jobs", id)
			}
			return &domain.Job{ID: id, Title: "SRE"}, nil
		},
	}
	r := newTestRouter(New(svc, nil, nil, nil))

	w := do(t, r, http.MethodGet, "/jobs/j-1", nil, nil)
	var job domain.Job
	if err := json.Unmarshal(w.Body.Bytes(), &job); err != nil || w.Code != http.StatusOK || job.ID != "j-1" {
		t.Fatalf("status=%d job=%+v err=%v", w.Code, job, err)
	}

	w = do(t, r, http.MethodGet, "/jobs/missing", nil, nil)
	er := decodeError(t, w)
	if w.Code != http.StatusNotFound || er.Code != ErrCodeNotFound || er.Message != "Jobs / missing: Not Found" {
		t.Fatalf("status=%d body=%+v", w.Code, er)
	}
	if er.RequestID == "" || er.RequestID != w.Header().Get("X-Request-ID") {
		t.Fatalf("request id not echoed: %+v", er)
	}
}

func TestGetJobLive_PassThroughAndUpstreamErrors(t *testing.T) {
	var fail error
	svc := stubJobSvc{
		live: func(_ context.Context, id string) (*ats.Posting, error) {
			if fail != nil {
				return nil, fail
			}
			return &ats.Posting{ID: "ext-9", Title: "Data Engineer"}, nil
		},
	}
	r := newTestRouter(New(svc, nil, nil, nil))

	w := do(t, r, http.MethodGet, "/jobs/j-9/live", nil, nil)
	var p ats.Posting
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil || p.ID != "ext-9" {
		t.Fatalf("status=%d posting=%+v err=%v", w.Code, p, err)
	}

	fail = apperr.RequestFailed("ATS", "Jobs", "ext-9").WithCause(errors.New("timeout"))
	w = do(t, r, http.MethodGet, "/jobs/j-9/live", nil, nil)
	er := decodeError(t, w)
	if w.Code != http.StatusInternalServerError || er.Code != ErrCodeUpstreamFailed || er.Message != "ATS / Jobs / ext-9: Request Failed" {
		t.Fatalf("status=%d body=%+v", w.Code, er)
	}

	fail = services.ErrATSUnavailable
	if w = do(t, r, http.MethodGet, "/jobs/j-9/live", nil, nil); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestJobsETag_Deterministic(t *testing.T) {
	ts := time.Unix(100, 5)
	a := jobsETag(map[string]string{"a": "1", "b": "2"}, 2, &ts)
	b := jobsETag(map[string]string{"b": "2", "a": "1"}, 2, &ts)
	if a != b {
		t.Fatalf("map order must not matter: %s vs %s", a, b)
	}
	if jobsETag(nil, 2, &ts) == a || jobsETag(map[string]string{"a": "1", "b": "2"}, 3, &ts) == a {
		t.Fatalf("query and count must change the etag")
	}
	if jobsETag(nil, 0, nil) == "" {
		t.Fatalf("nil timestamp should still produce an etag")
	}
}
