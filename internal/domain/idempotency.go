// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// Idempotency represents a recorded result of a previously processed
// application submission, keyed by (client_id, job_id, key). It enables safe
// retries of POST /jobs/:id/applications by returning the originally created
// application without submitting the candidate to the ATS twice. The row is
// written as a pending claim before the ATS call and completed afterwards.
type Idempotency struct {
	ID            string    `gorm:"type:varchar(36);not null;primaryKey"`
	ClientID      string    `gorm:"type:varchar(128);not null;uniqueIndex:ux_client_job_key,priority:1"`
	JobID         string    `gorm:"type:varchar(36);not null;uniqueIndex:ux_client_job_key,priority:2"`
	Key           string    `gorm:"type:varchar(200);not null;uniqueIndex:ux_client_job_key,priority:3"`
	ApplicationID string    `gorm:"type:varchar(36);not null"`
	Status        int       `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null;autoCreateTime"`
	ExpiresAt     time.Time `gorm:"not null;index"`
}

// Pending reports whether the key is claimed by a submission that has not
// finished yet.
func (i Idempotency) Pending() bool { return i.ApplicationID == "" }

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
