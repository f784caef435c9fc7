package ats

import (
	"encoding/json"
	"time"
)

// Company is the employer block embedded in a posting.
type Company struct {
	Name    string `json:"name"`
	Website string `json:"website,omitempty"`
}

// Posting is a job as published by the ATS.
type Posting struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Company        Company   `json:"company"`
	Department     string    `json:"department,omitempty"`
	Location       string    `json:"location,omitempty"`
	EmploymentType string    `json:"employment_type,omitempty"`
	Remote         bool      `json:"remote"`
	Description    string    `json:"description,omitempty"`
	ApplyURL       string    `json:"apply_url,omitempty"`
	PostedAt       time.Time `json:"posted_at"`

	// Raw is the posting exactly as received; not part of the wire shape.
	Raw json.RawMessage `json:"-"`
}

// Candidate is the application payload forwarded to the ATS.
type Candidate struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	ResumeURL   string `json:"resume_url,omitempty"`
	CoverLetter string `json:"cover_letter,omitempty"`
}

// CandidateReceipt is the ATS acknowledgement of a submitted candidate.
type CandidateReceipt struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// listJobsResponse is the envelope of GET /jobs.
type listJobsResponse struct {
	Jobs []json.RawMessage `json:"jobs"`
}
