package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/job-board-backend/internal/domain"
	"github.com/tbourn/job-board-backend/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

// repoShim adapts package repo to JobRepo.
type repoShim struct{}

func (repoShim) GetJob(ctx context.Context, db *gorm.DB, id string) (*domain.Job, error) {
	return repo.GetJob(ctx, db, id)
}
func (repoShim) CountJobs(ctx context.Context, db *gorm.DB, f repo.JobFilter) (int64, error) {
	return repo.CountJobs(ctx, db, f)
}
func (repoShim) ListJobsPage(ctx context.Context, db *gorm.DB, f repo.JobFilter, offset, limit int) ([]domain.Job, error) {
	return repo.ListJobsPage(ctx, db, f, offset, limit)
}
func (repoShim) ListJobCandidates(ctx context.Context, db *gorm.DB, f repo.JobFilter, max int) ([]domain.Job, error) {
	return repo.ListJobCandidates(ctx, db, f, max)
}
func (repoShim) JobsStats(ctx context.Context, db *gorm.DB, f repo.JobFilter) (int64, *time.Time, error) {
	return repo.JobsStats(ctx, db, f)
}

type seedJobOpt func(*domain.Job)

func seedJob(t *testing.T, db *gorm.DB, company, externalID, title string, opts ...seedJobOpt) *domain.Job {
	t.Helper()
	ctx := context.Background()
	c, err := repo.UpsertCompany(ctx, db, company, "")
	if err != nil {
		t.Fatalf("UpsertCompany: %v", err)
	}
	j := &domain.Job{
		ExternalID: externalID,
		CompanyID:  c.ID,
		Title:      title,
		PostedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, o := range opts {
		o(j)
	}
	if _, err := repo.UpsertJob(ctx, db, j); err != nil {
		t.Fatalf("UpsertJob: %v", err)
	}
	return j
}
