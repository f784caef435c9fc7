// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Job model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only persistence
// and query composition.
//
// Error semantics:
//   - When a job is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/job-board-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// JobFilter narrows job queries. String fields match case-insensitively and
// exactly; empty fields are ignored. Remote is ignored when nil.
type JobFilter struct {
	Department     string
	Location       string
	EmploymentType string
	CompanyID      string
	Remote         *bool
}

func (f JobFilter) apply(q *gorm.DB) *gorm.DB {
	if v := strings.TrimSpace(f.Department); v != "" {
		q = q.Where("LOWER(department) = ?", strings.ToLower(v))
	}
	if v := strings.TrimSpace(f.Location); v != "" {
		q = q.Where("LOWER(location) = ?", strings.ToLower(v))
	}
	if v := strings.TrimSpace(f.EmploymentType); v != "" {
		q = q.Where("employment_type = ?", domain.NormalizeEmploymentType(v))
	}
	if v := strings.TrimSpace(f.CompanyID); v != "" {
		q = q.Where("company_id = ?", v)
	}
	if f.Remote != nil {
		q = q.Where("remote = ?", *f.Remote)
	}
	return q
}

// UpsertJob inserts job or updates the row sharing its ExternalID, restoring
// it if it had been soft-deleted. It reports whether a new row was created.
// job.ID and job.CreatedAt are filled from the stored row on update.
func UpsertJob(ctx context.Context, db *gorm.DB, job *domain.Job) (created bool, err error) {
	var existing domain.Job
	err = db.WithContext(ctx).Unscoped().
		Select("id", "created_at").
		Where("external_id = ?", job.ExternalID).
		First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if job.ID == "" {
			job.ID = uuid.NewString()
		}
		return true, db.WithContext(ctx).Omit("Company").Create(job).Error
	case err != nil:
		return false, err
	}

	job.ID = existing.ID
	job.CreatedAt = existing.CreatedAt
	job.DeletedAt = gorm.DeletedAt{}
	return false, db.WithContext(ctx).Unscoped().Omit("Company").Save(job).Error
}

// GetJob fetches a live job by its ID with the company preloaded.
func GetJob(ctx context.Context, db *gorm.DB, id string) (*domain.Job, error) {
	var j domain.Job
	err := db.WithContext(ctx).
		Preload("Company").
		Where("id = ?", id).
		First(&j).Error
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// CountJobs returns the number of live jobs matching f.
func CountJobs(ctx context.Context, db *gorm.DB, f JobFilter) (int64, error) {
	var total int64
	err := f.apply(db.WithContext(ctx).Model(&domain.Job{})).Count(&total).Error
	return total, err
}

// ListJobsPage returns a page of live jobs matching f, newest posting first.
// Use CountJobs to obtain the total for pagination metadata.
func ListJobsPage(ctx context.Context, db *gorm.DB, f JobFilter, offset, limit int) ([]domain.Job, error) {
	var out []domain.Job
	err := f.apply(db.WithContext(ctx).Preload("Company")).
		Order("posted_at desc").
		Order("id asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ListJobCandidates returns at most max live jobs matching f (newest first)
// for in-memory ranking.
func ListJobCandidates(ctx context.Context, db *gorm.DB, f JobFilter, max int) ([]domain.Job, error) {
	return ListJobsPage(ctx, db, f, 0, max)
}

// SoftDeleteJobsNotIn soft-deletes every live job whose external id is not in
// keep and returns the number of rows affected. An empty keep removes all
// live jobs.
func SoftDeleteJobsNotIn(ctx context.Context, db *gorm.DB, keep []string) (int64, error) {
	q := db.WithContext(ctx)
	if len(keep) == 0 {
		q = q.Where("1 = 1")
	} else {
		q = q.Where("external_id NOT IN ?", keep)
	}
	res := q.Delete(&domain.Job{})
	return res.RowsAffected, res.Error
}
