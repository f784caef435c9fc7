// Package services – MetadataService
//
// MetadataService assembles the facets and totals the frontend uses to build
// its filter controls. Facet values are ordered with a locale-aware,
// case-insensitive collator so "backend" and "Backend" sort together.
package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/job-board-backend/internal/repo"
)

// Metadata is the body of GET /metadata/.
type Metadata struct {
	TotalJobs       int64               `json:"total_jobs"`
	RemoteJobs      int64               `json:"remote_jobs"`
	Departments     []repo.FacetCount   `json:"departments"`
	Locations       []repo.FacetCount   `json:"locations"`
	EmploymentTypes []repo.FacetCount   `json:"employment_types"`
	Companies       []repo.CompanyCount `json:"companies"`
	LastSyncedAt    *time.Time          `json:"last_synced_at"`
}

// MetadataService reads aggregate job metadata.
type MetadataService struct {
	DB *gorm.DB
	// Locale selects the collation used to order facet values.
	Locale language.Tag
}

// NewMetadataService returns a MetadataService collating in English.
func NewMetadataService(db *gorm.DB) *MetadataService {
	return &MetadataService{DB: db, Locale: language.English}
}

// GetMetadata returns totals, facets, companies, and the last sync time.
func (s *MetadataService) GetMetadata(ctx context.Context) (*Metadata, error) {
	ctx, span := otel.Tracer("services/MetadataService").Start(ctx, "GetMetadata")
	defer span.End()

	db := s.DB
	var (
		md  Metadata
		err error
	)
	if md.TotalJobs, err = repo.CountJobs(ctx, db, repo.JobFilter{}); err != nil {
		return nil, err
	}
	if md.RemoteJobs, err = repo.CountRemoteJobs(ctx, db); err != nil {
		return nil, err
	}
	if md.Departments, err = repo.Facet(ctx, db, repo.FacetDepartment); err != nil {
		return nil, err
	}
	if md.Locations, err = repo.Facet(ctx, db, repo.FacetLocation); err != nil {
		return nil, err
	}
	if md.EmploymentTypes, err = repo.Facet(ctx, db, repo.FacetEmploymentType); err != nil {
		return nil, err
	}
	if md.Companies, err = repo.CompanyJobCounts(ctx, db); err != nil {
		return nil, err
	}

	// A collator is not safe for concurrent use; build one per call.
	col := collate.New(s.Locale, collate.IgnoreCase)
	sortFacets(col, md.Departments)
	sortFacets(col, md.Locations)
	sortFacets(col, md.EmploymentTypes)
	sort.SliceStable(md.Companies, func(i, j int) bool {
		return col.CompareString(md.Companies[i].Name, md.Companies[j].Name) < 0
	})

	run, err := repo.LastSuccessfulSyncRun(ctx, db)
	switch {
	case err == nil:
		md.LastSyncedAt = run.FinishedAt
	case !errors.Is(err, repo.ErrNotFound):
		return nil, err
	}

	ensureNonNil(&md)
	return &md, nil
}

func sortFacets(col *collate.Collator, fs []repo.FacetCount) {
	sort.SliceStable(fs, func(i, j int) bool {
		return col.CompareString(fs[i].Value, fs[j].Value) < 0
	})
}

// ensureNonNil makes empty lists encode as [] instead of null.
func ensureNonNil(md *Metadata) {
	if md.Departments == nil {
		md.Departments = []repo.FacetCount{}
	}
	if md.Locations == nil {
		md.Locations = []repo.FacetCount{}
	}
	if md.EmploymentTypes == nil {
		md.EmploymentTypes = []repo.FacetCount{}
	}
	if md.Companies == nil {
		md.Companies = []repo.CompanyCount{}
	}
}
