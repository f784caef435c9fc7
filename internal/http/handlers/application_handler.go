package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/job-board-backend/internal/http/middleware"
	"github.com/tbourn/job-board-backend/internal/services"
)

// ApplyRequest is the JSON payload for applying to a job.
type ApplyRequest struct {
	FirstName   string `json:"first_name"   binding:"required,max=100"            example:"Ada"`
	LastName    string `json:"last_name"    binding:"required,max=100"            example:"Lovelace"`
	Email       string `json:"email"        binding:"required,email,max=255"      example:"ada@example.com"`
	Phone       string `json:"phone"        binding:"omitempty,max=50"            example:"+44 20 7946 0000"`
	ResumeURL   string `json:"resume_url"   binding:"omitempty,url,max=1024"      example:"https://example.com/cv.pdf"`
	CoverLetter string `json:"cover_letter" binding:"omitempty,max=10000"`
}

// Apply godoc
// @ID          applyToJob
// @Summary     Apply to a job
// @Description Forwards the candidate to the ATS and records the application. Supports idempotency via the Idempotency-Key header (same client, job, and key → same result).
// @Tags        Applications
// @Accept      json
// @Produce     json
//
// @Param       X-Client-ID      header  string  false "Opaque client identifier"  example(browser-7f3a)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       id               path    string  true  "Job ID"  format(uuid)
// @Param       body             body    handlers.ApplyRequest  true  "Candidate"
//
// @Success     201  {object} domain.Application
// @Success     200  {object} domain.Application  "Replayed result"
// @Header      200  {string} Idempotency-Replayed  "true when served from a stored result"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Job not found"
// @Failure     409  {object} handlers.ErrorResponse "Same Idempotency-Key still in progress"
// @Failure     429  {object} handlers.ErrorResponse "Too many requests"
// @Failure     500  {object} handlers.ErrorResponse "ATS request failed"
// @Failure     503  {object} handlers.ErrorResponse "ATS not configured"
// @Router      /jobs/{id}/applications [post]
func (h *Handlers) Apply(c *gin.Context) {
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid application payload")
		return
	}

	idemKey, _ := middleware.GetIdempotencyKey(c)
	app, replayed, err := h.apps.Apply(c.Request.Context(), middleware.ClientIDFrom(c), c.Param("id"), idemKey, services.CandidateInput{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Phone:       req.Phone,
		ResumeURL:   req.ResumeURL,
		CoverLetter: req.CoverLetter,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	if replayed {
		c.Header(middleware.HeaderIdempotencyReplayed, "true")
		ok(c, http.StatusOK, app)
		return
	}
	ok(c, http.StatusCreated, app)
}
