// Package services defines the business logic for job search, metadata,
// applications, and the ATS sync. This file centralizes common service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer. Failures that already carry a status (not-found jobs,
// upstream ATS errors) are returned as *apperr.Error instead.
package services

import "errors"

var (
	// ErrInvalidCandidate is returned when an application is missing a
	// required field or carries a malformed email address.
	ErrInvalidCandidate = errors.New("invalid candidate")

	// ErrQueryTooLong is returned when the free-text search query exceeds the
	// configured rune limit.
	ErrQueryTooLong = errors.New("query too long")

	// ErrSyncInProgress is returned when another process or goroutine holds
	// the sync lock.
	ErrSyncInProgress = errors.New("sync already in progress")

	// ErrApplicationInProgress is returned when another request holding the
	// same Idempotency-Key is still submitting its application.
	ErrApplicationInProgress = errors.New("application with this idempotency key is in progress")

	// ErrATSUnavailable is returned when no ATS client is configured.
	ErrATSUnavailable = errors.New("ats client not configured")
)
