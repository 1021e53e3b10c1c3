// Package services – OwnershipService
//
// This file implements the OwnershipService, which manages tenants, sources,
// and the source → owning-tenant mapping. It enforces the registration-time
// invariant that an active source must have an owner, and keeps ownership
// assignment an idempotent upsert. Service-level errors (ErrUnknownTenant,
// ErrSourceUnowned, ErrSlugTaken, ErrInvalidSlug) are returned for
// predictable cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/atlasfeed/go-catalog-backend/internal/domain"
	"github.com/atlasfeed/go-catalog-backend/internal/repo"
)

// OwnershipService provides tenant and source registration plus the
// ownership registry operations.
type OwnershipService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewOwnershipService constructs an OwnershipService.
func NewOwnershipService(db *gorm.DB) *OwnershipService {
	return &OwnershipService{DB: db}
}

// CreateTenant registers a new tenant. Slugs are trimmed and lower-cased; a
// blank slug yields ErrInvalidSlug, a duplicate ErrSlugTaken, and a missing
// parent ErrUnknownTenant.
func (s *OwnershipService) CreateTenant(ctx context.Context, slug string, parentID *string) (*domain.Tenant, error) {
	slug = normalizeSlug(slug)
	if slug == "" {
		return nil, ErrInvalidSlug
	}
	if parentID != nil {
		ok, err := repo.TenantExists(ctx, s.DB, *parentID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrUnknownTenant
		}
	}
	t, err := repo.CreateTenant(ctx, s.DB, slug, parentID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return t, nil
}

// ListTenants returns all registered tenants.
func (s *OwnershipService) ListTenants(ctx context.Context) ([]domain.Tenant, error) {
	return repo.ListTenants(ctx, s.DB)
}

// RegisterSource registers a new content producer.
//
// The active-implies-owned invariant is enforced here, at registration time:
// an active source without an owner is rejected with ErrSourceUnowned rather
// than discovered lazily per ingested record. Inactive sources may be
// registered without an owner and gain one later.
func (s *OwnershipService) RegisterSource(ctx context.Context, slug string, ownerTenantID *string, isActive bool) (*domain.Source, error) {
	slug = normalizeSlug(slug)
	if slug == "" {
		return nil, ErrInvalidSlug
	}
	if isActive && ownerTenantID == nil {
		return nil, ErrSourceUnowned
	}
	if ownerTenantID != nil {
		ok, err := repo.TenantExists(ctx, s.DB, *ownerTenantID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrUnknownTenant
		}
	}
	src, err := repo.CreateSource(ctx, s.DB, slug, ownerTenantID, isActive)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return src, nil
}

// ListSources returns all registered sources.
func (s *OwnershipService) ListSources(ctx context.Context) ([]domain.Source, error) {
	return repo.ListSources(ctx, s.DB)
}

// Assign maps a source to its owning tenant. The operation is an idempotent
// upsert: assigning the same tenant twice yields identical state. It fails
// with ErrUnknownTenant when the tenant does not exist and ErrUnknownSource
// when the source does not.
func (s *OwnershipService) Assign(ctx context.Context, sourceID, tenantID string) error {
	ok, err := repo.TenantExists(ctx, s.DB, tenantID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownTenant
	}
	if err := repo.UpdateSourceOwner(ctx, s.DB, sourceID, tenantID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnknownSource
		}
		return err
	}
	return nil
}

// Owner returns the owning tenant ID of a source, or nil when ownership is
// unset. ErrUnknownSource when the source does not exist.
func (s *OwnershipService) Owner(ctx context.Context, sourceID string) (*string, error) {
	src, err := repo.GetSource(ctx, s.DB, sourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownSource
		}
		return nil, err
	}
	return src.OwnerTenantID, nil
}

// normalizeSlug trims and lower-cases an identifier slug.
func normalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// isUniqueViolation attempts to detect unique-constraint violations across
// drivers that may not map to gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
