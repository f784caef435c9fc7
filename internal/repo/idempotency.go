// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the Idempotency
// model used to implement safe-retry semantics for application submissions.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/job-board-backend/internal/domain"
)

// ErrDuplicate indicates that an idempotency record already exists for the
// given (client_id, job_id, key) tuple.
var ErrDuplicate = errors.New("duplicate")

// GetIdempotency returns a non-expired record or ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, clientID, jobID, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("client_id = ? AND job_id = ? AND key = ? AND expires_at > ?", clientID, jobID, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// CreateIdempotency inserts a record and returns ErrDuplicate when a live
// record already holds (clientID, jobID, key). An expired record for the same
// tuple is removed first so the key can be reused once its TTL has passed.
// An empty applicationID creates a pending claim; see CompleteIdempotency.
func CreateIdempotency(ctx context.Context, db *gorm.DB, clientID, jobID, key, applicationID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	rec := &domain.Idempotency{
		ID:            uuid.NewString(),
		ClientID:      clientID,
		JobID:         jobID,
		Key:           key,
		ApplicationID: applicationID,
		Status:        status,
		CreatedAt:     now,
		ExpiresAt:     now.Add(ttl),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("client_id = ? AND job_id = ? AND key = ? AND expires_at <= ?", clientID, jobID, key, now).
			Delete(&domain.Idempotency{}).Error; err != nil {
			return err
		}
		return tx.Create(rec).Error
	})
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// CompleteIdempotency attaches the created application to a pending claim.
func CompleteIdempotency(ctx context.Context, db *gorm.DB, id, applicationID string, status int) error {
	res := db.WithContext(ctx).Model(&domain.Idempotency{}).
		Where("id = ?", id).
		Updates(map[string]any{"application_id": applicationID, "status": status})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteIdempotency releases a claim so the key can be retried.
func DeleteIdempotency(ctx context.Context, db *gorm.DB, id string) error {
	return db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Idempotency{}).Error
}

// isUniqueViolation recognizes unique-index failures across drivers:
// glebarez/sqlite often returns plain-text errors, postgres reports SQLSTATE 23505.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "sqlstate 23505")
}
