// Package domain defines the persistence models for companies, job postings,
// applications, and ATS sync runs. These types are mapped with GORM and form
// the core data layer of the job board.
package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Company is an employer that publishes postings through the ATS.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name: display name; unique, used to match postings to companies.
//   - Website: optional homepage, used by the company-filler evaluation.
//   - Industry: classification filled in out of band; empty when unknown.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker.
type Company struct {
	ID        string         `json:"id"         gorm:"type:char(36);primaryKey"`
	Name      string         `json:"name"       gorm:"type:varchar(255);not null;uniqueIndex:ux_company_name"`
	Website   string         `json:"website,omitempty" gorm:"type:varchar(512)"`
	Industry  string         `json:"industry,omitempty" gorm:"type:varchar(128);index"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"          gorm:"index"`
}

// TableName returns the database table name for Company.
func (Company) TableName() string { return "companies" }

// Employment types accepted from the ATS. Anything else is stored as
// EmploymentOther.
const (
	EmploymentFullTime   = "full_time"
	EmploymentPartTime   = "part_time"
	EmploymentContract   = "contract"
	EmploymentInternship = "internship"
	EmploymentTemporary  = "temporary"
	EmploymentOther      = "other"
)

// NormalizeEmploymentType maps free-form ATS values ("Full-time",
// "FULL TIME") onto the canonical constants.
func NormalizeEmploymentType(s string) string {
	k := strings.ToLower(strings.TrimSpace(s))
	k = strings.NewReplacer("-", "_", " ", "_").Replace(k)
	switch k {
	case "":
		return ""
	case EmploymentFullTime, "fulltime":
		return EmploymentFullTime
	case EmploymentPartTime, "parttime":
		return EmploymentPartTime
	case EmploymentContract, "contractor":
		return EmploymentContract
	case EmploymentInternship, "intern":
		return EmploymentInternship
	case EmploymentTemporary, "temp":
		return EmploymentTemporary
	default:
		return EmploymentOther
	}
}

// Job is a posting mirrored from the ATS.
//
// ExternalID is the ATS identifier and is unique across live and
// soft-deleted rows so a posting that reappears upstream is restored rather
// than duplicated. RawPayload holds the lz4-compressed ATS JSON.
type Job struct {
	ID             string         `json:"id"              gorm:"type:char(36);primaryKey"`
	ExternalID     string         `json:"external_id"     gorm:"type:varchar(128);not null;uniqueIndex:ux_job_external"`
	CompanyID      string         `json:"company_id"      gorm:"type:char(36);not null;index"`
	Title          string         `json:"title"           gorm:"type:varchar(255);not null"`
	Department     string         `json:"department"      gorm:"type:varchar(128);index"`
	Location       string         `json:"location"        gorm:"type:varchar(255);index"`
	EmploymentType string         `json:"employment_type" gorm:"type:varchar(32);index"`
	Remote         bool           `json:"remote"          gorm:"not null;default:false"`
	Description    string         `json:"description"     gorm:"type:text"`
	ApplyURL       string         `json:"apply_url,omitempty" gorm:"type:varchar(1024)"`
	PostedAt       time.Time      `json:"posted_at"       gorm:"index"`
	RawPayload     []byte         `json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-"               gorm:"index"`

	// Company is the employer. Jobs are cascade-deleted with their company.
	Company *Company `json:"company,omitempty" gorm:"foreignKey:CompanyID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Job.
func (Job) TableName() string { return "jobs" }

// Application is a candidate submission forwarded to the ATS.
type Application struct {
	ID          string    `json:"id"           gorm:"type:char(36);primaryKey"`
	JobID       string    `json:"job_id"       gorm:"type:char(36);not null;index"`
	ClientID    string    `json:"-"            gorm:"type:varchar(128);not null;index"`
	CandidateID string    `json:"candidate_id" gorm:"type:varchar(128)"`
	Email       string    `json:"email"        gorm:"type:varchar(255);not null"`
	Status      string    `json:"status"       gorm:"type:varchar(32);not null"`
	CreatedAt   time.Time `json:"created_at"`

	Job Job `json:"-" gorm:"foreignKey:JobID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Application.
func (Application) TableName() string { return "applications" }

// Sync run states.
const (
	SyncRunning   = "running"
	SyncSucceeded = "succeeded"
	SyncFailed    = "failed"
	SyncSkipped   = "skipped"
)

// SyncRun records one ATS → database synchronization attempt.
type SyncRun struct {
	ID         string     `json:"id"          gorm:"type:char(36);primaryKey"`
	Status     string     `json:"status"      gorm:"type:varchar(16);not null;index"`
	StartedAt  time.Time  `json:"started_at"  gorm:"not null;index"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Fetched    int        `json:"fetched"`
	Upserted   int        `json:"upserted"`
	Removed    int        `json:"removed"`
	Error      string     `json:"error,omitempty" gorm:"type:text"`
}

// TableName returns the database table name for SyncRun.
func (SyncRun) TableName() string { return "sync_runs" }

// Done reports whether the run reached a terminal state.
func (r SyncRun) Done() bool {
	return r.Status == SyncSucceeded || r.Status == SyncFailed || r.Status == SyncSkipped
}
