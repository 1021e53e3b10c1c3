// Administrative HTTP handlers.
//
// This file exposes the operator-facing registry endpoints:
//   - POST   /admin/tenants                  (register tenant)
//   - GET    /admin/tenants                  (list tenants)
//   - POST   /admin/sources                  (register source)
//   - GET    /admin/sources                  (list sources)
//   - PUT    /admin/sources/{id}/owner       (assign owning tenant)
//   - PUT    /admin/sources/{id}/sharing     (upsert sharing rule)
//   - PUT    /admin/subscriptions            (subscribe tenant to source)
//   - DELETE /admin/subscriptions            (unsubscribe)
//   - GET    /admin/subscriptions            (list tenant subscriptions)
//   - GET    /admin/stats                    (catalog aggregate counts)
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/atlasfeed/go-catalog-backend/internal/repo"
	"github.com/atlasfeed/go-catalog-backend/internal/services"
	"github.com/atlasfeed/go-catalog-backend/internal/utils"
)

// capList truncates a listing to the caller's limit; limit <= 0 keeps all.
func capList[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

//
// DTOs
//

// CreateTenantRequest is the JSON payload for registering a tenant.
type CreateTenantRequest struct {
	// Slug is the stable human-readable tenant identifier.
	Slug string `json:"slug" binding:"required,min=1,max=64" example:"city-of-utrecht"`
	// ParentID optionally nests the tenant under a parent for federated feeds.
	ParentID *string `json:"parent_id,omitempty" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
}

// RegisterSourceRequest is the JSON payload for registering a source.
type RegisterSourceRequest struct {
	// Slug is the stable identifier used by ingestion adapters.
	Slug string `json:"slug" binding:"required,min=1,max=64" example:"city-events-feed"`
	// OwnerTenantID sets the owning tenant; required when IsActive is true.
	OwnerTenantID *string `json:"owner_tenant_id,omitempty"`
	// IsActive controls whether the source accepts ingestion.
	IsActive bool `json:"is_active"`
}

// AssignOwnerRequest is the JSON payload for assigning source ownership.
type AssignOwnerRequest struct {
	TenantID string `json:"tenant_id" binding:"required"`
}

// UpsertSharingRequest is the JSON payload for replacing a sharing rule.
type UpsertSharingRequest struct {
	// Scope is one of: none, all, category_subset.
	Scope string `json:"scope" binding:"required" example:"category_subset"`
	// AllowedCategories lists the shared categories (category_subset only).
	AllowedCategories []string `json:"allowed_categories" example:"music,sports"`
}

// SubscribeRequest is the JSON payload for subscribing a tenant to a source.
type SubscribeRequest struct {
	TenantID string `json:"tenant_id" binding:"required"`
	SourceID string `json:"source_id" binding:"required"`
	// Categories optionally narrows the subscription; empty takes everything
	// the sharing rule grants.
	Categories []string `json:"categories"`
}

//
// Tenants
//

// CreateTenant godoc
// @ID          createTenant
// @Summary     Register a tenant
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.CreateTenantRequest  true  "Tenant payload"
// @Success     201  {object}  domain.Tenant
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown parent tenant"
// @Failure     409  {object}  handlers.ErrorResponse "Slug already registered"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/tenants [post]
func (h *Handlers) CreateTenant(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	t, err := h.ownSvc.CreateTenant(c.Request.Context(), req.Slug, req.ParentID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSlug):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrSlugTaken):
			fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
		case errors.Is(err, services.ErrUnknownTenant):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "parent tenant not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, t)
}

// ListTenants godoc
// @ID          listTenants
// @Summary     List tenants
// @Tags        Admin
// @Produce     json
// @Param       limit  query  int  false  "Maximum entries to return"
// @Success     200  {array}   domain.Tenant
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/tenants [get]
func (h *Handlers) ListTenants(c *gin.Context) {
	tenants, err := h.ownSvc.ListTenants(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, capList(tenants, utils.AtoiDefault(c.Query("limit"), 0)))
}

//
// Sources
//

// RegisterSource godoc
// @ID          registerSource
// @Summary     Register a source
// @Description Registers a content producer. An active source must name an owning tenant; registering an active, ownerless source is rejected as a configuration error.
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.RegisterSourceRequest  true  "Source payload"
// @Success     201  {object}  domain.Source
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown owner tenant"
// @Failure     409  {object}  handlers.ErrorResponse "Slug taken or missing owner"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/sources [post]
func (h *Handlers) RegisterSource(c *gin.Context) {
	var req RegisterSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	src, err := h.ownSvc.RegisterSource(c.Request.Context(), req.Slug, req.OwnerTenantID, req.IsActive)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidSlug):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrSourceUnowned):
			fail(c, http.StatusConflict, ErrCodeSourceUnowned, err.Error())
		case errors.Is(err, services.ErrSlugTaken):
			fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
		case errors.Is(err, services.ErrUnknownTenant):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "owner tenant not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, err.Error())
		}
		return
	}
	ok(c, http.StatusCreated, src)
}

// ListSources godoc
// @ID          listSources
// @Summary     List sources
// @Tags        Admin
// @Produce     json
// @Param       limit  query  int  false  "Maximum entries to return"
// @Success     200  {array}   domain.Source
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/sources [get]
func (h *Handlers) ListSources(c *gin.Context) {
	sources, err := h.ownSvc.ListSources(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, capList(sources, utils.AtoiDefault(c.Query("limit"), 0)))
}

// AssignOwner godoc
// @ID          assignOwner
// @Summary     Assign source ownership
// @Description Maps a source to its owning tenant. The operation is an idempotent upsert; assigning the same tenant twice yields identical state.
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "Source ID"
// @Param       body  body  handlers.AssignOwnerRequest  true  "Owner payload"
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown source or tenant"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/sources/{id}/owner [put]
func (h *Handlers) AssignOwner(c *gin.Context) {
	var req AssignOwnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	if err := h.ownSvc.Assign(c.Request.Context(), c.Param("id"), req.TenantID); err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownTenant):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "tenant not found")
		case errors.Is(err, services.ErrUnknownSource):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "source not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	noContent(c)
}

//
// Sharing rules and subscriptions
//

// UpsertSharing godoc
// @ID          upsertSharing
// @Summary     Replace the sharing rule of a source
// @Description Creates or replaces the source's sharing rule (last write wins).
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       id    path  string  true  "Source ID"
// @Param       body  body  handlers.UpsertSharingRequest  true  "Rule payload"
// @Success     200  {object}  domain.SharingRule
// @Failure     400  {object}  handlers.ErrorResponse "Bad request or invalid scope"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown source"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/sources/{id}/sharing [put]
func (h *Handlers) UpsertSharing(c *gin.Context) {
	var req UpsertSharingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	rule, err := h.shareSvc.UpsertRule(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.Scope), req.AllowedCategories)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidScope):
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case errors.Is(err, services.ErrUnknownSource):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "source not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, rule)
}

// Subscribe godoc
// @ID          subscribe
// @Summary     Subscribe a tenant to a source
// @Description Opts a tenant into a shared source, optionally narrowed to categories. Re-subscribing updates the category set and re-activates a disabled subscription.
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       body  body  handlers.SubscribeRequest  true  "Subscription payload"
// @Success     200  {object}  domain.Subscription
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Unknown tenant or source"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/subscriptions [put]
func (h *Handlers) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	sub, err := h.shareSvc.Subscribe(c.Request.Context(), req.TenantID, req.SourceID, req.Categories)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownTenant):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "tenant not found")
		case errors.Is(err, services.ErrUnknownSource):
			fail(c, http.StatusNotFound, ErrCodeNotFound, "source not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}
	ok(c, http.StatusOK, sub)
}

// Unsubscribe godoc
// @ID          unsubscribe
// @Summary     Unsubscribe a tenant from a source
// @Description Soft-disables the subscription. Unsubscribing an absent or already-disabled subscription is a no-op.
// @Tags        Admin
// @Produce     json
// @Param       tenant_id  query  string  true  "Subscriber tenant ID"
// @Param       source_id  query  string  true  "Source ID"
// @Success     204  {string}  string "No Content"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/subscriptions [delete]
func (h *Handlers) Unsubscribe(c *gin.Context) {
	tenantID := strings.TrimSpace(c.Query("tenant_id"))
	sourceID := strings.TrimSpace(c.Query("source_id"))
	if tenantID == "" || sourceID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "tenant_id and source_id are required")
		return
	}
	if err := h.shareSvc.Unsubscribe(c.Request.Context(), tenantID, sourceID); err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	noContent(c)
}

// ListSubscriptions godoc
// @ID          listSubscriptions
// @Summary     List a tenant's subscriptions
// @Tags        Admin
// @Produce     json
// @Param       tenant_id  query  string  true  "Subscriber tenant ID"
// @Success     200  {array}   domain.Subscription
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/subscriptions [get]
func (h *Handlers) ListSubscriptions(c *gin.Context) {
	tenantID := strings.TrimSpace(c.Query("tenant_id"))
	if tenantID == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "tenant_id is required")
		return
	}
	subs, err := h.shareSvc.Subscriptions(c.Request.Context(), tenantID)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, subs)
}

//
// Stats
//

// Stats godoc
// @ID          catalogStats
// @Summary     Catalog aggregate counts
// @Tags        Admin
// @Produce     json
// @Success     200  {object}  repo.CatalogStats
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /admin/stats [get]
func (h *Handlers) Stats(c *gin.Context) {
	s, err := repo.Stats(c.Request.Context(), h.db)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, s)
}
