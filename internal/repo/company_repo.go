// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for companies.
package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/job-board-backend/internal/domain"
)

// CompanyCount is a company with the number of live jobs it publishes.
type CompanyCount struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Industry string `json:"industry"`
	JobCount int64  `json:"job_count"`
}

// UpsertCompany returns the company named name, creating it when missing.
// A non-empty website replaces the stored one.
func UpsertCompany(ctx context.Context, db *gorm.DB, name, website string) (*domain.Company, error) {
	name = strings.TrimSpace(name)
	var c domain.Company
	err := db.WithContext(ctx).
		Where(domain.Company{Name: name}).
		Attrs(domain.Company{ID: uuid.NewString(), Website: website}).
		FirstOrCreate(&c).Error
	if err != nil {
		return nil, err
	}
	if website != "" && c.Website != website {
		if err := db.WithContext(ctx).Model(&c).Update("website", website).Error; err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// ListCompanies returns companies ordered by name. With onlyLabeled, only
// companies with a known industry are returned. limit <= 0 means no limit.
func ListCompanies(ctx context.Context, db *gorm.DB, onlyLabeled bool, limit int) ([]domain.Company, error) {
	q := db.WithContext(ctx).Order("name asc")
	if onlyLabeled {
		q = q.Where("industry <> ''")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var out []domain.Company
	err := q.Find(&out).Error
	return out, err
}

// CompanyJobCounts returns every company with its live job count, by name.
func CompanyJobCounts(ctx context.Context, db *gorm.DB) ([]CompanyCount, error) {
	var out []CompanyCount
	err := db.WithContext(ctx).
		Model(&domain.Company{}).
		Select("companies.id, companies.name, companies.industry, COUNT(jobs.id) AS job_count").
		Joins("LEFT JOIN jobs ON jobs.company_id = companies.id AND jobs.deleted_at IS NULL").
		Group("companies.id, companies.name, companies.industry").
		Order("companies.name asc").
		Scan(&out).Error
	return out, err
}
