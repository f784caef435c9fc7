package services

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/tbourn/job-board-backend/internal/apperr"
	"github.com/tbourn/job-board-backend/internal/ats"
	"github.com/tbourn/job-board-backend/internal/domain"
	"github.com/tbourn/job-board-backend/internal/repo"
)

type fakeLive struct {
	posting *ats.Posting
	err     error
	gotID   string
}

func (f *fakeLive) GetJob(_ context.Context, externalID string) (*ats.Posting, error) {
	f.gotID = externalID
	return f.posting, f.err
}

func TestNewJobService_Defaults(t *testing.T) {
	s := NewJobService(nil, repoShim{}, nil, 0)
	if s.MaxCandidates != 2000 || s.MaxQueryRunes != 200 {
		t.Fatalf("unexpected defaults: %+v", s)
	}
}

func TestJobService_Search_NoText_PaginatesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		posted := base.Add(time.Duration(i) * time.Hour)
		seedJob(t, db, "Acme", id, "Job "+id, func(j *domain.Job) { j.PostedAt = posted })
	}
	s := NewJobService(db, repoShim{}, nil, 10)

	items, total, err := s.Search(context.Background(), JobQuery{}, 1, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 3 || len(items) != 2 || items[0].ExternalID != "c" || items[1].ExternalID != "b" {
		t.Fatalf("page 1: total=%d items=%+v", total, items)
	}

	items, _, _ = s.Search(context.Background(), JobQuery{}, 2, 2)
	if len(items) != 1 || items[0].ExternalID != "a" {
		t.Fatalf("page 2: %+v", items)
	}

	// Invalid page/pageSize fall back to defaults.
	items, _, _ = s.Search(context.Background(), JobQuery{}, 0, 0)
	if len(items) != 3 {
		t.Fatalf("defaults page: %+v", items)
	}
}

func TestJobService_Search_NoMatchesReturnsEmptySlice(t *testing.T) {
	db := newTestDB(t)
	s := NewJobService(db, repoShim{}, nil, 10)
	items, total, err := s.Search(context.Background(), JobQuery{}, 1, 10)
	if err != nil || total != 0 || items == nil || len(items) != 0 {
		t.Fatalf("expected empty non-nil slice, got items=%v total=%d err=%v", items, total, err)
	}
}

func TestJobService_Search_TextRanksAndFilters(t *testing.T) {
	db := newTestDB(t)
	seedJob(t, db, "Acme", "be", "Backend Engineer", func(j *domain.Job) {
		j.Description = "Go services and Postgres"
		j.Department = "Engineering"
	})
	seedJob(t, db, "Acme", "fe", "Frontend Engineer", func(j *domain.Job) {
		j.Description = "React"
		j.Department = "Engineering"
	})
	seedJob(t, db, "Acme", "pm", "Product Manager", func(j *domain.Job) { j.Department = "Product" })
	s := NewJobService(db, repoShim{}, nil, 10)

	items, total, err := s.Search(context.Background(), JobQuery{Text: "backend go"}, 1, 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 1 || items[0].ExternalID != "be" {
		t.Fatalf("unexpected ranking: total=%d %+v", total, items)
	}

	items, total, _ = s.Search(context.Background(), JobQuery{Text: "engineer"}, 1, 10)
	if total != 2 {
		t.Fatalf("engineer matches = %d, want 2", total)
	}
	for _, it := range items {
		if it.Department != "Engineering" {
			t.Fatalf("unexpected match %+v", it)
		}
	}

	items, total, _ = s.Search(context.Background(), JobQuery{Text: "engineer", Filter: repo.JobFilter{Department: "product"}}, 1, 10)
	if total != 0 || len(items) != 0 {
		t.Fatalf("filter should exclude engineers: %+v", items)
	}

	// Offset past the ranked set.
	items, total, _ = s.Search(context.Background(), JobQuery{Text: "engineer"}, 5, 10)
	if total != 2 || len(items) != 0 {
		t.Fatalf("out-of-range page: total=%d items=%+v", total, items)
	}
}

func TestJobService_Search_QueryTooLong(t *testing.T) {
	s := NewJobService(nil, repoShim{}, nil, 10)
	s.MaxQueryRunes = 5
	if _, _, err := s.Search(context.Background(), JobQuery{Text: strings.Repeat("é", 6)}, 1, 10); !errors.Is(err, ErrQueryTooLong) {
		t.Fatalf("expected ErrQueryTooLong, got %v", err)
	}
}

func TestJobService_Get_NotFoundIsAppError(t *testing.T) {
	db := newTestDB(t)
	s := NewJobService(db, repoShim{}, nil, 10)

	_, err := s.Get(context.Background(), "nope")
	ae, ok := apperr.As(err)
	if !ok {
		t.Fatalf("expected *apperr.Error, got %T %v", err, err)
	}
	if ae.StatusCode() != http.StatusNotFound || ae.Message() != "Jobs / nope: Not Found" {
		t.Fatalf("unexpected error: %d %q", ae.StatusCode(), ae.Message())
	}
}

func TestJobService_Live(t *testing.T) {
	db := newTestDB(t)
	j := seedJob(t, db, "Acme", "ext-42", "Backend Engineer")

	live := &fakeLive{posting: &ats.Posting{ID: "ext-42", Title: "Backend Engineer (updated)"}}
	s := NewJobService(db, repoShim{}, live, 10)

	p, err := s.Live(context.Background(), j.ID)
	if err != nil {
		t.Fatalf("Live: %v", err)
	}
	if live.gotID != "ext-42" || p.Title != "Backend Engineer (updated)" {
		t.Fatalf("unexpected live result: got id %q posting %+v", live.gotID, p)
	}

	live.err = apperr.RequestFailed(ats.LabelATS, ats.LabelJobs, "ext-42")
	if _, err := s.Live(context.Background(), j.ID); apperr.StatusOf(err) != http.StatusInternalServerError {
		t.Fatalf("expected upstream failure to propagate, got %v", err)
	}

	if _, err := s.Live(context.Background(), "missing"); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found for missing local job, got %v", err)
	}

	s.ATS = nil
	if _, err := s.Live(context.Background(), j.ID); !errors.Is(err, ErrATSUnavailable) {
		t.Fatalf("expected ErrATSUnavailable, got %v", err)
	}
}

func TestJobService_Stats(t *testing.T) {
	db := newTestDB(t)
	seedJob(t, db, "Acme", "a", "A")
	s := NewJobService(db, repoShim{}, nil, 10)
	n, max, err := s.Stats(context.Background(), repo.JobFilter{})
	if err != nil || n != 1 || max == nil {
		t.Fatalf("Stats: n=%d max=%v err=%v", n, max, err)
	}
}
