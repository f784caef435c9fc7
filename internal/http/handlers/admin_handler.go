package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/job-board-backend/internal/http/middleware"
)

// TriggerSync godoc
// @ID          triggerSync
// @Summary     Run an ATS sync
// @Description Mirrors the ATS job list into the database and returns the run record. Only mounted when ADMIN_TOKEN is configured.
// @Tags        Admin
// @Produce     json
//
// @Param       X-Admin-Token  header  string  true  "Admin token"
//
// @Success     200  {object} domain.SyncRun
// @Failure     401  {object} handlers.ErrorResponse "Missing or wrong token"
// @Failure     409  {object} handlers.ErrorResponse "Another sync is running"
// @Failure     500  {object} handlers.ErrorResponse "Sync failed"
// @Failure     503  {object} handlers.ErrorResponse "ATS not configured"
// @Router      /admin/sync [post]
func (h *Handlers) TriggerSync(c *gin.Context) {
	run, err := h.syncer.SyncOnce(c.Request.Context())
	if err != nil {
		if run != nil {
			middleware.LoggerFrom(c).Warn().Str("run_id", run.ID).Str("status", run.Status).Msg("admin sync did not succeed")
		}
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, run)
}
