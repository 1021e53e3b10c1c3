// Maintenance HTTP handlers.
//
// This file exposes the operator-triggered maintenance operations:
//   - POST /maintenance/recompute-cache
//   - POST /maintenance/backfill
//   - POST /maintenance/renormalize
//   - POST /maintenance/flatten-chains
//
// The same operations run on an internal timer (see cmd); the endpoints exist
// so an external scheduler or an operator can force a pass, e.g. right after
// a bulk rule change.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RecomputeCacheRequest optionally scopes a cache rebuild to specific sources.
type RecomputeCacheRequest struct {
	// SourceIDs limits the rebuild to these sources; empty rebuilds everything.
	SourceIDs []string `json:"source_ids"`
}

// RecomputeCacheResponse reports the outcome of a cache rebuild.
type RecomputeCacheResponse struct {
	ResolvedPairs int `json:"resolved_pairs"`
}

// RecomputeCache godoc
// @ID          recomputeCache
// @Summary     Rebuild the access cache
// @Description Re-resolves (tenant, source) visibility pairs into a fresh snapshot and atomically swaps it in. An empty body rebuilds every pair; source_ids scopes the rebuild.
// @Tags        Maintenance
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.RecomputeCacheRequest  false  "Optional rebuild scope"
// @Success     200  {object}  handlers.RecomputeCacheResponse
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /maintenance/recompute-cache [post]
func (h *Handlers) RecomputeCache(c *gin.Context) {
	var req RecomputeCacheRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
			return
		}
	}
	n, err := h.cache.Recompute(c.Request.Context(), req.SourceIDs...)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeMaintenanceFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, RecomputeCacheResponse{ResolvedPairs: n})
}

// BackfillResponse reports the outcome of a backfill sweep.
type BackfillResponse struct {
	Resolved int `json:"resolved"`
}

// Backfill godoc
// @ID          runBackfill
// @Summary     Resolve tenant ownership of unresolved records
// @Description Sweeps records ingested while their source had no owner and assigns the tenant that has since been mapped. Idempotent and safe to re-run.
// @Tags        Maintenance
// @Produce     json
// @Success     200  {object}  handlers.BackfillResponse
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /maintenance/backfill [post]
func (h *Handlers) Backfill(c *gin.Context) {
	n, err := h.backfillSvc.Run(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeMaintenanceFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, BackfillResponse{Resolved: n})
}

// RenormalizeRequest bounds a renormalization pass to a date window.
type RenormalizeRequest struct {
	// FromDate is the inclusive window start (YYYY-MM-DD).
	FromDate string `json:"from_date" binding:"required" example:"2026-03-01"`
	// ToDate is the inclusive window end (YYYY-MM-DD).
	ToDate string `json:"to_date" binding:"required" example:"2026-03-31"`
}

// Renormalize godoc
// @ID          renormalize
// @Summary     Re-derive fingerprints over a date window
// @Description Recomputes the identity key of every live record in the window under the current normalization rules and merges newly equivalent records oldest-wins.
// @Tags        Maintenance
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.RenormalizeRequest  true  "Date window"
// @Success     200  {object}  services.RenormalizeStats
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /maintenance/renormalize [post]
func (h *Handlers) Renormalize(c *gin.Context) {
	var req RenormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	from, errFrom := time.Parse("2006-01-02", req.FromDate)
	to, errTo := time.Parse("2006-01-02", req.ToDate)
	if errFrom != nil || errTo != nil || to.Before(from) {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "from_date and to_date must be YYYY-MM-DD with from_date <= to_date")
		return
	}
	stats, err := h.dedupSvc.Renormalize(c.Request.Context(), req.FromDate, req.ToDate)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeMaintenanceFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, stats)
}

// FlattenChainsResponse reports the outcome of a chain-flattening sweep.
type FlattenChainsResponse struct {
	Repointed int `json:"repointed"`
}

// FlattenChains godoc
// @ID          flattenChains
// @Summary     Repair canonical chains
// @Description Finds redirects whose canonical target has itself been demoted and repoints them to the terminal live survivor.
// @Tags        Maintenance
// @Produce     json
// @Success     200  {object}  handlers.FlattenChainsResponse
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /maintenance/flatten-chains [post]
func (h *Handlers) FlattenChains(c *gin.Context) {
	n, err := h.dedupSvc.FlattenChains(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeMaintenanceFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, FlattenChainsResponse{Repointed: n})
}
