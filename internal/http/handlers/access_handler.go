// Access resolution HTTP handlers.
//
// This file exposes the read side of visibility:
//   - GET /access/visibility
//
// By default the decision is served from the periodically rebuilt cache, so
// it may trail a just-changed rule by up to one rebuild interval. Passing
// strict=true resolves against current state instead, for callers (e.g., an
// admin preview right after a rule change) that need read-your-writes.
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atlasfeed/go-catalog-backend/internal/access"
	"github.com/atlasfeed/go-catalog-backend/internal/services"
)

// VisibilityResponse reports the resolved visibility of a source for a tenant.
type VisibilityResponse struct {
	TenantID string `json:"tenant_id"`
	SourceID string `json:"source_id"`
	// Visible is false when the tenant may not see the source at all.
	Visible bool `json:"visible"`
	// Categories lists the visible categories; absent means unrestricted.
	Categories []string `json:"categories,omitempty"`
	// CategoryVisible answers the optional category query parameter.
	CategoryVisible *bool `json:"category_visible,omitempty"`
	// Strict reports whether the decision bypassed the cache.
	Strict bool `json:"strict"`
}

// Visibility godoc
// @ID          resolveVisibility
// @Summary     Resolve source visibility for a tenant
// @Description Returns whether (and which categories of) a source are visible to a tenant. Served from the access cache unless strict=true, which resolves against current state.
// @Tags        Access
// @Produce     json
//
// @Param       tenant_id  query  string  true   "Tenant ID"
// @Param       source_id  query  string  true   "Source ID"
// @Param       category   query  string  false  "Also answer for one category"  example(music)
// @Param       strict     query  bool    false  "Bypass the cache"              default(false)
//
// @Success     200  {object}  handlers.VisibilityResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown source (strict only)"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /access/visibility [get]
func (h *Handlers) Visibility(c *gin.Context) {
	tenantID := strings.TrimSpace(c.Query("tenant_id"))
	sourceID := strings.TrimSpace(c.Query("source_id"))
	if tenantID == "" || sourceID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "tenant_id and source_id are required")
		return
	}
	strict := c.Query("strict") == "true" || c.Query("strict") == "1"

	var d access.Decision
	if strict {
		var err error
		d, err = h.resolver.Resolve(c.Request.Context(), tenantID, sourceID)
		if err != nil {
			if errors.Is(err, services.ErrUnknownSource) {
				fail(c, http.StatusNotFound, ErrCodeNotFound, "source not found")
				return
			}
			fail(c, http.StatusInternalServerError, ErrCodeResolveFailed, err.Error())
			return
		}
	} else {
		d = h.cache.Lookup(tenantID, sourceID)
	}

	resp := VisibilityResponse{
		TenantID:   tenantID,
		SourceID:   sourceID,
		Visible:    d.Visible,
		Categories: d.Categories,
		Strict:     strict,
	}
	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		allowed := d.Allows(strings.ToLower(cat))
		resp.CategoryVisible = &allowed
	}
	ok(c, http.StatusOK, resp)
}
