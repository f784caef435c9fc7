// Package handlers exposes the REST endpoints of the job board:
//   - GET  /jobs                     (search, paginated, ETag support)
//   - GET  /jobs/{id}                (mirrored job)
//   - GET  /jobs/{id}/live           (posting straight from the ATS)
//   - POST /jobs/{id}/applications   (apply, Idempotency-Key honored)
//   - GET  /metadata/                (facets, totals, last sync)
//   - POST /admin/sync               (trigger an ATS sync)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"time"

	"github.com/tbourn/job-board-backend/internal/ats"
	"github.com/tbourn/job-board-backend/internal/domain"
	"github.com/tbourn/job-board-backend/internal/repo"
	"github.com/tbourn/job-board-backend/internal/services"
	"github.com/tbourn/job-board-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// JobService defines read operations over mirrored jobs.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type JobService interface {
	// Search returns a page of jobs matching q and the total match count.
	Search(ctx context.Context, q services.JobQuery, page, pageSize int) ([]domain.Job, int64, error)
	// Stats returns the row count and latest update time for ETag computation.
	Stats(ctx context.Context, f repo.JobFilter) (int64, *time.Time, error)
	// Get returns one job by id.
	Get(ctx context.Context, id string) (*domain.Job, error)
	// Live fetches the current ATS version of a mirrored job.
	Live(ctx context.Context, id string) (*ats.Posting, error)
}

// MetadataService reads aggregate listing metadata.
type MetadataService interface {
	GetMetadata(ctx context.Context) (*services.Metadata, error)
}

// ApplicationService submits candidate applications.
type ApplicationService interface {
	// Apply forwards in for jobID. replayed reports that a stored result for
	// idemKey was returned instead of a new submission.
	Apply(ctx context.Context, clientID, jobID, idemKey string, in services.CandidateInput) (*domain.Application, bool, error)
}

// SyncService runs one ATS mirror pass.
type SyncService interface {
	SyncOnce(ctx context.Context) (*domain.SyncRun, error)
}

//
// Handler wiring
//

// Handlers groups HTTP endpoints for jobs, metadata, applications, and admin
// operations. Any service may be nil when its routes are not mounted.
type Handlers struct {
	jobs   JobService
	meta   MetadataService
	apps   ApplicationService
	syncer SyncService
}

// New constructs and returns a Handlers instance bound to the given services.
func New(jobs JobService, meta MetadataService, apps ApplicationService, syncer SyncService) *Handlers {
	return &Handlers{jobs: jobs, meta: meta, apps: apps, syncer: syncer}
}

//
// Shared DTOs and helpers
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

// clampPagination reads page and page_size from the normalized query and
// bounds them to sane defaults and limits.
func clampPagination(q map[string]string) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(q["page"], defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(q["page_size"], defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}
