// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file records ATS sync runs.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/job-board-backend/internal/domain"
)

// CreateSyncRun inserts a run in the given status (normally SyncRunning).
func CreateSyncRun(ctx context.Context, db *gorm.DB, status string) (*domain.SyncRun, error) {
	run := &domain.SyncRun{
		ID:        uuid.NewString(),
		Status:    status,
		StartedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(run).Error; err != nil {
		return nil, err
	}
	return run, nil
}

// FinishSyncRun stamps FinishedAt and persists the run's final counters.
func FinishSyncRun(ctx context.Context, db *gorm.DB, run *domain.SyncRun) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	return db.WithContext(ctx).Save(run).Error
}

// LastSuccessfulSyncRun returns the most recent succeeded run or ErrNotFound.
func LastSuccessfulSyncRun(ctx context.Context, db *gorm.DB) (*domain.SyncRun, error) {
	var run domain.SyncRun
	err := db.WithContext(ctx).
		Where("status = ?", domain.SyncSucceeded).
		Order("started_at desc").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}
