// Package services – ApplicationService
//
// ApplicationService forwards candidate applications to the ATS and records
// them locally. An Idempotency-Key makes retries safe: a repeated key for the
// same client and job returns the stored application without contacting the
// ATS again. The key is claimed before the ATS call; a second request that
// arrives while the first is still submitting gets ErrApplicationInProgress.
package services

import (
	"context"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/job-board-backend/internal/apperr"
	"github.com/tbourn/job-board-backend/internal/ats"
	"github.com/tbourn/job-board-backend/internal/domain"
	"github.com/tbourn/job-board-backend/internal/repo"
)

// CandidateSubmitter forwards a candidate to the ATS.
type CandidateSubmitter interface {
	SubmitCandidate(ctx context.Context, externalJobID string, c ats.Candidate) (*ats.CandidateReceipt, error)
}

// CandidateInput is the applicant data accepted by Apply.
type CandidateInput struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	ResumeURL   string
	CoverLetter string
}

// ApplicationService submits applications.
type ApplicationService struct {
	DB  *gorm.DB
	ATS CandidateSubmitter
	// IdemTTL is how long an Idempotency-Key stays replayable.
	IdemTTL time.Duration
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(db *gorm.DB, sub CandidateSubmitter, idemTTL time.Duration) *ApplicationService {
	if idemTTL <= 0 {
		idemTTL = 24 * time.Hour
	}
	return &ApplicationService{DB: db, ATS: sub, IdemTTL: idemTTL}
}

// Apply submits in for jobID on behalf of clientID. replayed is true when a
// prior application was returned for idemKey.
func (s *ApplicationService) Apply(ctx context.Context, clientID, jobID, idemKey string, in CandidateInput) (app *domain.Application, replayed bool, err error) {
	ctx, span := otel.Tracer("services/ApplicationService").Start(ctx, "Apply",
		trace.WithAttributes(
			attribute.String("job.id", jobID),
			attribute.Bool("idempotent", idemKey != ""),
		),
	)
	defer span.End()

	cand, err := normalizeCandidate(in)
	if err != nil {
		return nil, false, err
	}
	if s.ATS == nil {
		return nil, false, ErrATSUnavailable
	}

	job, err := repo.GetJob(ctx, s.DB, jobID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, apperr.NotFound(labelJobs, jobID)
	}
	if err != nil {
		return nil, false, err
	}

	var claim *domain.Idempotency
	if idemKey != "" {
		if prev, ok := s.replay(ctx, clientID, jobID, idemKey); ok {
			return prev, true, nil
		}
		// The claim must exist before the ATS call; a concurrent request
		// with the same key sees it as pending.
		claim, err = repo.CreateIdempotency(ctx, s.DB, clientID, jobID, idemKey, "", 0, s.IdemTTL)
		if errors.Is(err, repo.ErrDuplicate) {
			if prev, ok := s.replay(ctx, clientID, jobID, idemKey); ok {
				return prev, true, nil
			}
			return nil, false, ErrApplicationInProgress
		}
		if err != nil {
			return nil, false, err
		}
	}

	receipt, err := s.ATS.SubmitCandidate(ctx, job.ExternalID, cand)
	if err != nil {
		s.release(ctx, claim)
		return nil, false, err
	}

	app = &domain.Application{
		JobID:       job.ID,
		ClientID:    clientID,
		CandidateID: receipt.ID,
		Email:       cand.Email,
		Status:      receipt.Status,
	}
	if app.Status == "" {
		app.Status = "submitted"
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateApplication(ctx, tx, app); err != nil {
			return err
		}
		if claim == nil {
			return nil
		}
		return repo.CompleteIdempotency(ctx, tx, claim.ID, app.ID, http.StatusCreated)
	})
	if err != nil {
		log.Error().Err(err).
			Str("job_id", job.ID).
			Str("candidate_id", receipt.ID).
			Msg("ats accepted candidate but the application was not stored")
		s.release(ctx, claim)
		return nil, false, err
	}
	return app, false, nil
}

// release drops a pending claim so the client may retry with the same key.
func (s *ApplicationService) release(ctx context.Context, claim *domain.Idempotency) {
	if claim == nil {
		return
	}
	if err := repo.DeleteIdempotency(context.WithoutCancel(ctx), s.DB, claim.ID); err != nil {
		log.Warn().Err(err).Str("idempotency_id", claim.ID).Msg("could not release idempotency claim")
	}
}

func (s *ApplicationService) replay(ctx context.Context, clientID, jobID, key string) (*domain.Application, bool) {
	rec, err := repo.GetIdempotency(ctx, s.DB, clientID, jobID, key, time.Now().UTC())
	if err != nil || rec.Pending() {
		return nil, false
	}
	prev, err := repo.GetApplication(ctx, s.DB, rec.ApplicationID)
	if err != nil {
		return nil, false
	}
	return prev, true
}

func normalizeCandidate(in CandidateInput) (ats.Candidate, error) {
	c := ats.Candidate{
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		ResumeURL:   strings.TrimSpace(in.ResumeURL),
		CoverLetter: strings.TrimSpace(in.CoverLetter),
	}
	if c.FirstName == "" || c.LastName == "" || c.Email == "" {
		return ats.Candidate{}, ErrInvalidCandidate
	}
	addr, err := mail.ParseAddress(c.Email)
	if err != nil || addr.Address != c.Email {
		return ats.Candidate{}, ErrInvalidCandidate
	}
	return c, nil
}
