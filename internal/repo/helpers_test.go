package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite" // pure-Go SQLite (no CGO)
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/job-board-backend/internal/domain"
)

func newTestDB(t *testing.T, migrate ...any) *gorm.DB {
	t.Helper()
	// Unique DB per test to avoid schema leaking across tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if len(migrate) > 0 {
		if err := db.AutoMigrate(migrate...); err != nil {
			t.Fatalf("automigrate: %v", err)
		}
	}
	return db
}

func allModels() []any {
	return []any{&domain.Company{}, &domain.Job{}, &domain.Application{}, &domain.SyncRun{}, &domain.Idempotency{}}
}

func seedCompany(t *testing.T, db *gorm.DB, name string) *domain.Company {
	t.Helper()
	c, err := UpsertCompany(context.Background(), db, name, "")
	if err != nil {
		t.Fatalf("UpsertCompany(%q): %v", name, err)
	}
	return c
}

func seedJob(t *testing.T, db *gorm.DB, companyID, externalID string, mutate func(*domain.Job)) *domain.Job {
	t.Helper()
	j := &domain.Job{
		ExternalID:     externalID,
		CompanyID:      companyID,
		Title:          "Job " + externalID,
		Department:     "Engineering",
		Location:       "Berlin",
		EmploymentType: domain.EmploymentFullTime,
		PostedAt:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if mutate != nil {
		mutate(j)
	}
	if _, err := UpsertJob(context.Background(), db, j); err != nil {
		t.Fatalf("UpsertJob(%q): %v", externalID, err)
	}
	return j
}
