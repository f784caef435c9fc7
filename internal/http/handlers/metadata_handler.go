package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetMetadata godoc
// @ID          getMetadata
// @Summary     Listing metadata
// @Description Returns job totals, per-column facets in collated order, companies with job counts, and the time of the last successful sync.
// @Tags        Metadata
// @Produce     json
//
// @Success     200  {object} services.Metadata
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /metadata/ [get]
func (h *Handlers) GetMetadata(c *gin.Context) {
	md, err := h.meta.GetMetadata(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, http.StatusOK, md)
}
