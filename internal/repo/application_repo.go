// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file stores applications forwarded to the ATS.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/job-board-backend/internal/domain"
)

// CreateApplication assigns an ID and timestamp when missing and inserts app.
func CreateApplication(ctx context.Context, db *gorm.DB, app *domain.Application) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Omit("Job").Create(app).Error
}

// GetApplication fetches an application by ID.
func GetApplication(ctx context.Context, db *gorm.DB, id string) (*domain.Application, error) {
	var a domain.Application
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}
