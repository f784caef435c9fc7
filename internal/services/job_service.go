// Package services – JobService
//
// This file implements JobService, which serves the job listing endpoints.
// Plain listings are paginated in the database (newest posting first); a
// free-text query ranks a bounded candidate set in memory with the search
// index and paginates the ranked result.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/job-board-backend/internal/apperr"
	"github.com/tbourn/job-board-backend/internal/ats"
	"github.com/tbourn/job-board-backend/internal/domain"
	"github.com/tbourn/job-board-backend/internal/repo"
	"github.com/tbourn/job-board-backend/internal/search"
)

// Label used in not-found messages for local jobs ("Jobs / <id>: Not Found").
const labelJobs = "Jobs"

// JobRepo defines the repository contract required by JobService.
type JobRepo interface {
	GetJob(ctx context.Context, db *gorm.DB, id string) (*domain.Job, error)
	CountJobs(ctx context.Context, db *gorm.DB, f repo.JobFilter) (int64, error)
	ListJobsPage(ctx context.Context, db *gorm.DB, f repo.JobFilter, offset, limit int) ([]domain.Job, error)
	ListJobCandidates(ctx context.Context, db *gorm.DB, f repo.JobFilter, max int) ([]domain.Job, error)
	JobsStats(ctx context.Context, db *gorm.DB, f repo.JobFilter) (int64, *time.Time, error)
}

// LiveFetcher reads a single posting straight from the ATS.
type LiveFetcher interface {
	GetJob(ctx context.Context, externalID string) (*ats.Posting, error)
}

// JobQuery is a search request: optional free text plus exact-match filters.
type JobQuery struct {
	Text   string
	Filter repo.JobFilter
}

// JobService provides read access to mirrored jobs and live ATS lookups.
type JobService struct {
	DB   *gorm.DB
	Repo JobRepo
	ATS  LiveFetcher

	// MaxCandidates bounds the rows ranked in memory for a text query.
	MaxCandidates int
	// MaxQueryRunes rejects overly long text queries; <= 0 disables the check.
	MaxQueryRunes int
}

// NewJobService constructs a JobService with default limits.
func NewJobService(db *gorm.DB, r JobRepo, live LiveFetcher, maxCandidates int) *JobService {
	if maxCandidates <= 0 {
		maxCandidates = 2000
	}
	return &JobService{
		DB:            db,
		Repo:          r,
		ATS:           live,
		MaxCandidates: maxCandidates,
		MaxQueryRunes: 200,
	}
}

// Search returns one page of jobs matching q and the total number of matches.
func (s *JobService) Search(ctx context.Context, q JobQuery, page, pageSize int) ([]domain.Job, int64, error) {
	ctx, span := otel.Tracer("services/JobService").Start(ctx, "Search",
		trace.WithAttributes(
			attribute.String("query", q.Text),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	text := strings.TrimSpace(q.Text)
	if text == "" {
		total, err := s.Repo.CountJobs(ctx, s.DB, q.Filter)
		if err != nil {
			return nil, 0, err
		}
		if total == 0 {
			return []domain.Job{}, 0, nil
		}
		items, err := s.Repo.ListJobsPage(ctx, s.DB, q.Filter, offset, pageSize)
		return items, total, err
	}

	if s.MaxQueryRunes > 0 && utf8.RuneCountInString(text) > s.MaxQueryRunes {
		return nil, 0, ErrQueryTooLong
	}

	cands, err := s.Repo.ListJobCandidates(ctx, s.DB, q.Filter, s.MaxCandidates)
	if err != nil {
		return nil, 0, err
	}
	ranked := rankJobs(cands, text)
	span.SetAttributes(attribute.Int("candidates", len(cands)), attribute.Int("matches", len(ranked)))

	total := int64(len(ranked))
	if offset >= len(ranked) {
		return []domain.Job{}, total, nil
	}
	end := offset + pageSize
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[offset:end], total, nil
}

// Stats returns (count, max updated_at) for the filtered job set, used by
// handlers to derive ETags.
func (s *JobService) Stats(ctx context.Context, f repo.JobFilter) (int64, *time.Time, error) {
	return s.Repo.JobsStats(ctx, s.DB, f)
}

// Get returns a live job by ID or an apperr NotFound.
func (s *JobService) Get(ctx context.Context, id string) (*domain.Job, error) {
	j, err := s.Repo.GetJob(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound(labelJobs, id)
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

// Live fetches the current ATS view of a mirrored job.
func (s *JobService) Live(ctx context.Context, id string) (*ats.Posting, error) {
	ctx, span := otel.Tracer("services/JobService").Start(ctx, "Live",
		trace.WithAttributes(attribute.String("job.id", id)),
	)
	defer span.End()

	if s.ATS == nil {
		return nil, ErrATSUnavailable
	}
	j, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.ATS.GetJob(ctx, j.ExternalID)
}

// rankJobs orders jobs by relevance to text, dropping non-matches. Candidates
// arrive newest first, which the index keeps for equal scores.
func rankJobs(jobs []domain.Job, text string) []domain.Job {
	docs := make([]search.Document, len(jobs))
	byID := make(map[string]domain.Job, len(jobs))
	for i, j := range jobs {
		docs[i] = search.Document{ID: j.ID, Text: jobText(j)}
		byID[j.ID] = j
	}
	idx := search.NewIndex(docs, search.WithStopwords(search.DefaultStopwords))
	results := idx.TopK(text, 0)
	out := make([]domain.Job, 0, len(results))
	for _, r := range results {
		out = append(out, byID[r.ID])
	}
	return out
}

func jobText(j domain.Job) string {
	parts := []string{j.Title, j.Department, j.Location, j.Description}
	if j.Company != nil {
		parts = append(parts, j.Company.Name)
	}
	return strings.Join(parts, " ")
}
