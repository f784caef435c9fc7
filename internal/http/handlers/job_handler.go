package handlers

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/job-board-backend/internal/domain"
	"github.com/tbourn/job-board-backend/internal/http/middleware"
	"github.com/tbourn/job-board-backend/internal/repo"
	"github.com/tbourn/job-board-backend/internal/services"
	"github.com/tbourn/job-board-backend/internal/utils"
)

// ListJobsResponse wraps a page of jobs and pagination information.
type ListJobsResponse struct {
	Jobs       []domain.Job `json:"jobs"`
	Pagination Pagination   `json:"pagination"`
}

// filterFrom builds a repo filter from the normalized query. It reports false
// when "remote" is present but not a boolean.
func filterFrom(q map[string]string) (repo.JobFilter, bool) {
	remote, valid := utils.ParseBoolPtr(strings.TrimSpace(q["remote"]))
	if !valid {
		return repo.JobFilter{}, false
	}
	return repo.JobFilter{
		Department:     strings.TrimSpace(q["department"]),
		Location:       strings.TrimSpace(q["location"]),
		EmploymentType: strings.TrimSpace(q["employment_type"]),
		CompanyID:      strings.TrimSpace(q["company_id"]),
		Remote:         remote,
	}, true
}

// jobsETag derives a weak validator from the query and the filtered rows'
// count and newest update.
func jobsETag(q map[string]string, count int64, maxTS *time.Time) string {
	vals := url.Values{}
	for k, v := range q {
		vals.Set(k, v)
	}
	h := fnv.New64a()
	_, _ = h.Write([]byte(vals.Encode()))

	var ts int64
	if maxTS != nil {
		ts = maxTS.UnixNano()
	}
	return fmt.Sprintf(`W/"jobs:%x:%d:%d"`, h.Sum64(), count, ts)
}

// ListJobs godoc
// @ID          listJobs
// @Summary     Search jobs (paginated)
// @Description Returns a page of mirrored jobs. With q the results are ranked by relevance, otherwise newest first. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Jobs
// @Produce     json
//
// @Param       If-None-Match    header  string  false "Return 304 if ETag matches"  example(W/\"jobs:1f:12:0\")
// @Param       q                query   string  false "Free-text query"             example(backend engineer)
// @Param       department       query   string  false "Exact department (case-insensitive)"
// @Param       location         query   string  false "Exact location (case-insensitive)"
// @Param       employment_type  query   string  false "full_time, part_time, contract, internship, temporary, other"
// @Param       company_id       query   string  false "Company ID"  format(uuid)
// @Param       remote           query   bool    false "Remote-only filter"
// @Param       page             query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size        query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListJobsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /jobs [get]
func (h *Handlers) ListJobs(c *gin.Context) {
	ctx := c.Request.Context()
	q := middleware.QueryFrom(c)

	f, valid := filterFrom(q)
	if !valid {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "remote must be a boolean")
		return
	}
	page, pageSize := clampPagination(q)

	// ETag pre-check (best effort).
	if count, maxTS, err := h.jobs.Stats(ctx, f); err == nil {
		etag := jobsETag(q, count, maxTS)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	query := services.JobQuery{Text: strings.TrimSpace(q["q"]), Filter: f}
	items, total, err := h.jobs.Search(ctx, query, page, pageSize)
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []domain.Job{}
	}

	ok(c, http.StatusOK, ListJobsResponse{
		Jobs:       items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetJob godoc
// @ID          getJob
// @Summary     Get a job
// @Description Returns one mirrored job with its company.
// @Tags        Jobs
// @Produce     json
//
// @Param       id   path    string  true  "Job ID"  format(uuid)
//
// @Success     200  {object} domain.Job
// @Failure     404  {object} handlers.ErrorResponse "Job not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /jobs/{id} [get]
func (h *Handlers) GetJob(c *gin.Context) {
	job, err := h.jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, job)
}

// GetJobLive godoc
// @ID          getJobLive
// @Summary     Get a job from the ATS
// @Description Fetches the current ATS version of a mirrored job, bypassing the local copy.
// @Tags        Jobs
// @Produce     json
//
// @Param       id   path    string  true  "Job ID"  format(uuid)
//
// @Success     200  {object} ats.Posting
// @Failure     404  {object} handlers.ErrorResponse "Job not found locally or upstream"
// @Failure     500  {object} handlers.ErrorResponse "ATS request failed"
// @Failure     503  {object} handlers.ErrorResponse "ATS not configured"
// @Router      /jobs/{id}/live [get]
func (h *Handlers) GetJobLive(c *gin.Context) {
	p, err := h.jobs.Live(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}
