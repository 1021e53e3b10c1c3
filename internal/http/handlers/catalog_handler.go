// Handler wiring for the catalog API.
//
// This file declares the service contracts the HTTP layer depends on and the
// Handlers aggregate that binds them. Handlers are transport-thin: they
// validate input, call application services, and translate results (including
// well-known service errors) into HTTP responses.
package handlers

import (
	"context"

	"gorm.io/gorm"

	"github.com/atlasfeed/go-catalog-backend/internal/access"
	"github.com/atlasfeed/go-catalog-backend/internal/domain"
	"github.com/atlasfeed/go-catalog-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// IngestService defines the producer-facing write path consumed by HTTP
// handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type IngestService interface {
	// Ingest runs the write path for one record; idemKey may be empty.
	Ingest(ctx context.Context, in services.IngestInput, idemKey string) (*services.IngestResult, error)
}

// OwnershipService defines tenant and source registry operations.
type OwnershipService interface {
	// CreateTenant registers a new tenant with an optional parent.
	CreateTenant(ctx context.Context, slug string, parentID *string) (*domain.Tenant, error)
	// ListTenants returns all registered tenants.
	ListTenants(ctx context.Context) ([]domain.Tenant, error)
	// RegisterSource registers a new content producer.
	RegisterSource(ctx context.Context, slug string, ownerTenantID *string, isActive bool) (*domain.Source, error)
	// ListSources returns all registered sources.
	ListSources(ctx context.Context) ([]domain.Source, error)
	// Assign maps a source to its owning tenant (idempotent upsert).
	Assign(ctx context.Context, sourceID, tenantID string) error
}

// SharingService defines sharing-rule and subscription operations.
type SharingService interface {
	// UpsertRule creates or replaces the sharing rule for a source.
	UpsertRule(ctx context.Context, sourceID, scope string, categories []string) (*domain.SharingRule, error)
	// Subscribe opts a tenant into a shared source.
	Subscribe(ctx context.Context, tenantID, sourceID string, categories []string) (*domain.Subscription, error)
	// Unsubscribe soft-disables a tenant's subscription (idempotent).
	Unsubscribe(ctx context.Context, tenantID, sourceID string) error
	// Subscriptions lists a tenant's subscriptions, active and disabled.
	Subscriptions(ctx context.Context, tenantID string) ([]domain.Subscription, error)
}

// AccessResolver resolves visibility directly against current state.
type AccessResolver interface {
	// Resolve computes the visibility of sourceID for tenantID.
	Resolve(ctx context.Context, tenantID, sourceID string) (access.Decision, error)
}

// AccessCache serves cached visibility decisions and their recompute.
type AccessCache interface {
	// Lookup returns the cached decision; missing pairs are Hidden.
	Lookup(tenantID, sourceID string) access.Decision
	// Recompute rebuilds the cache, fully or scoped to the given sources.
	Recompute(ctx context.Context, sourceIDs ...string) (int, error)
}

// DedupService exposes the duplicate-repair maintenance operations.
type DedupService interface {
	// FlattenChains repoints redirects whose target was itself demoted.
	FlattenChains(ctx context.Context) (int, error)
	// Renormalize re-derives fingerprints over a bounded date window.
	Renormalize(ctx context.Context, fromDate, toDate string) (*services.RenormalizeStats, error)
}

// BackfillService resolves tenant ownership of records ingested before their
// source had an owner.
type BackfillService interface {
	// Run performs one sweep and returns how many records it resolved.
	Run(ctx context.Context) (int, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for ingestion, administration, access
// resolution, and maintenance. It depends on abstract service interfaces to
// keep transport concerns separate from business logic; the DB handle is held
// only for the aggregate stats endpoint.
type Handlers struct {
	ingestSvc   IngestService
	ownSvc      OwnershipService
	shareSvc    SharingService
	resolver    AccessResolver
	cache       AccessCache
	dedupSvc    DedupService
	backfillSvc BackfillService
	db          *gorm.DB
}

// New constructs a Handlers instance bound to the given services.
func New(
	ingestSvc IngestService,
	ownSvc OwnershipService,
	shareSvc SharingService,
	resolver AccessResolver,
	cache AccessCache,
	dedupSvc DedupService,
	backfillSvc BackfillService,
	db *gorm.DB,
) *Handlers {
	return &Handlers{
		ingestSvc:   ingestSvc,
		ownSvc:      ownSvc,
		shareSvc:    shareSvc,
		resolver:    resolver,
		cache:       cache,
		dedupSvc:    dedupSvc,
		backfillSvc: backfillSvc,
		db:          db,
	}
}
