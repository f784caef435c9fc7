// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// for conditional responses (ETag generation) and for the metadata facets
// that drive the frontend filters.
package repo

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/job-board-backend/internal/domain"
)

// Facet columns that may be aggregated.
const (
	FacetDepartment     = "department"
	FacetLocation       = "location"
	FacetEmploymentType = "employment_type"
)

// FacetCount is one distinct value of a facet column with its live job count.
type FacetCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

// JobsStats returns aggregate metadata for jobs matching f: the total number
// of rows and the maximum UpdatedAt among those rows. When nothing matches,
// count is 0 and maxUpdatedAt is nil.
func JobsStats(ctx context.Context, db *gorm.DB, f JobFilter) (count int64, maxUpdatedAt *time.Time, err error) {
	q := f.apply(db.WithContext(ctx).Model(&domain.Job{}))

	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}

// Facet returns the distinct non-empty values of column over live jobs with
// their counts. Values are grouped case-insensitively, matching JobFilter;
// the reported value is one stored spelling of the group (MIN). Only the
// Facet* columns are accepted.
func Facet(ctx context.Context, db *gorm.DB, column string) ([]FacetCount, error) {
	switch column {
	case FacetDepartment, FacetLocation, FacetEmploymentType:
	default:
		return nil, fmt.Errorf("repo: unsupported facet %q", column)
	}
	var out []FacetCount
	err := db.WithContext(ctx).
		Model(&domain.Job{}).
		Select("MIN(" + column + ") AS value, COUNT(*) AS count").
		Where(column + " <> ''").
		Group("LOWER(" + column + ")").
		Order("value asc").
		Scan(&out).Error
	return out, err
}

// CountRemoteJobs returns the number of live remote jobs.
func CountRemoteJobs(ctx context.Context, db *gorm.DB) (int64, error) {
	remote := true
	return CountJobs(ctx, db, JobFilter{Remote: &remote})
}
