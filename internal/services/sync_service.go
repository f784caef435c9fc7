// Package services – SyncService
//
// SyncService mirrors ATS postings into the database. A run lists every open
// posting, upserts companies and jobs in one transaction, and soft-deletes
// jobs that disappeared upstream. A file lock keeps concurrent runs (other
// replicas sharing the volume, or an admin-triggered run overlapping the
// ticker) from interleaving.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/tbourn/job-board-backend/internal/ats"
	"github.com/tbourn/job-board-backend/internal/config"
	"github.com/tbourn/job-board-backend/internal/domain"
	"github.com/tbourn/job-board-backend/internal/repo"
)

const unknownCompany = "Unknown"

var syncRunsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ats_sync_runs_total",
		Help: "ATS sync runs by final status.",
	},
	[]string{"status"},
)

// JobLister lists every open posting in the ATS.
type JobLister interface {
	ListJobs(ctx context.Context) ([]ats.Posting, error)
}

// SyncService pulls postings from the ATS into the database.
type SyncService struct {
	DB       *gorm.DB
	ATS      JobLister
	LockPath string
	Interval time.Duration
	Timeout  time.Duration
}

// NewSyncService builds a SyncService from cfg.
func NewSyncService(db *gorm.DB, lister JobLister, cfg config.SyncConfig) *SyncService {
	return &SyncService{
		DB:       db,
		ATS:      lister,
		LockPath: cfg.LockPath,
		Interval: cfg.Interval,
		Timeout:  cfg.Timeout,
	}
}

// SyncOnce performs a single run and returns its record. When the lock is
// held elsewhere a skipped run is recorded and ErrSyncInProgress returned.
func (s *SyncService) SyncOnce(ctx context.Context) (*domain.SyncRun, error) {
	if s.ATS == nil {
		return nil, ErrATSUnavailable
	}
	ctx, span := otel.Tracer("services/SyncService").Start(ctx, "SyncOnce")
	defer span.End()

	lock := flock.New(s.LockPath)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, err
	}
	if !locked {
		run, err := repo.CreateSyncRun(ctx, s.DB, domain.SyncSkipped)
		if err != nil {
			return nil, err
		}
		if err := repo.FinishSyncRun(ctx, s.DB, run); err != nil {
			return nil, err
		}
		syncRunsTotal.WithLabelValues(domain.SyncSkipped).Inc()
		return run, ErrSyncInProgress
	}
	defer func() {
		if uerr := lock.Unlock(); uerr != nil {
			log.Warn().Err(uerr).Str("path", s.LockPath).Msg("sync lock release failed")
		}
	}()

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	run, err := repo.CreateSyncRun(ctx, s.DB, domain.SyncRunning)
	if err != nil {
		return nil, err
	}

	runErr := s.mirror(ctx, run)
	run.Status = domain.SyncSucceeded
	if runErr != nil {
		run.Status = domain.SyncFailed
		run.Error = runErr.Error()
	}
	span.SetAttributes(
		attribute.String("sync.status", run.Status),
		attribute.Int("sync.fetched", run.Fetched),
		attribute.Int("sync.upserted", run.Upserted),
		attribute.Int("sync.removed", run.Removed),
	)

	// The run record must land even when ctx expired mid-sync.
	if err := repo.FinishSyncRun(context.WithoutCancel(ctx), s.DB, run); err != nil {
		return run, errors.Join(runErr, err)
	}
	syncRunsTotal.WithLabelValues(run.Status).Inc()

	ev := log.Info()
	if runErr != nil {
		ev = log.Error().Err(runErr)
	}
	ev.Str("run_id", run.ID).
		Str("status", run.Status).
		Int("fetched", run.Fetched).
		Int("upserted", run.Upserted).
		Int("removed", run.Removed).
		Msg("ats sync finished")

	return run, runErr
}

// mirror copies the ATS listing into the database, filling run's counters.
func (s *SyncService) mirror(ctx context.Context, run *domain.SyncRun) error {
	postings, err := s.ATS.ListJobs(ctx)
	if err != nil {
		return err
	}
	run.Fetched = len(postings)

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		companies := make(map[string]*domain.Company)
		keep := make([]string, 0, len(postings))

		for _, p := range postings {
			if strings.TrimSpace(p.ID) == "" || strings.TrimSpace(p.Title) == "" {
				log.Warn().Str("external_id", p.ID).Msg("skipping ats posting without id or title")
				continue
			}
			name := strings.TrimSpace(p.Company.Name)
			if name == "" {
				name = unknownCompany
			}
			co, ok := companies[name]
			if !ok {
				co, err = repo.UpsertCompany(ctx, tx, name, p.Company.Website)
				if err != nil {
					return err
				}
				companies[name] = co
			}

			job, err := jobFromPosting(p, co.ID)
			if err != nil {
				return err
			}
			if _, err := repo.UpsertJob(ctx, tx, job); err != nil {
				return err
			}
			run.Upserted++
			keep = append(keep, p.ID)
		}

		// An empty listing is more likely an upstream glitch than a board
		// with no openings; keep the current jobs.
		if len(keep) == 0 {
			return nil
		}
		removed, err := repo.SoftDeleteJobsNotIn(ctx, tx, keep)
		if err != nil {
			return err
		}
		run.Removed = int(removed)
		return nil
	})
}

func jobFromPosting(p ats.Posting, companyID string) (*domain.Job, error) {
	raw, err := ats.CompressPayload(p.Raw)
	if err != nil {
		return nil, err
	}
	posted := p.PostedAt.UTC()
	if p.PostedAt.IsZero() {
		posted = time.Now().UTC()
	}
	return &domain.Job{
		ExternalID:     p.ID,
		CompanyID:      companyID,
		Title:          strings.TrimSpace(p.Title),
		Department:     strings.TrimSpace(p.Department),
		Location:       strings.TrimSpace(p.Location),
		EmploymentType: domain.NormalizeEmploymentType(p.EmploymentType),
		Remote:         p.Remote,
		Description:    p.Description,
		ApplyURL:       p.ApplyURL,
		PostedAt:       posted,
		RawPayload:     raw,
	}, nil
}

// Start runs SyncOnce immediately and then every Interval until ctx is done.
// Errors are logged; the loop never exits early.
func (s *SyncService) Start(ctx context.Context) {
	s.runLogged(ctx)
	if s.Interval <= 0 {
		return
	}
	t := time.NewTicker(s.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.runLogged(ctx)
		}
	}
}

func (s *SyncService) runLogged(ctx context.Context) {
	run, err := s.SyncOnce(ctx)
	switch {
	case errors.Is(err, ErrSyncInProgress):
		log.Info().Msg("ats sync skipped: lock held")
	case err != nil && run == nil && ctx.Err() == nil:
		// Runs that started were already logged by SyncOnce.
		log.Error().Err(err).Msg("ats sync could not start")
	}
}
