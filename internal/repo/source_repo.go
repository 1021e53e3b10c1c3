// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Source
// model, including the source → owning-tenant mapping.
//
// Error semantics:
//   - When a source is not found, functions return gorm.ErrRecordNotFound
//     (exported as ErrNotFound).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlasfeed/go-catalog-backend/internal/domain"
)

// CreateSource inserts a new Source row. Validation of the active-implies-
// owned invariant is a business rule and happens in the service layer; this
// function only persists.
func CreateSource(ctx context.Context, db *gorm.DB, slug string, ownerTenantID *string, isActive bool) (*domain.Source, error) {
	s := &domain.Source{
		ID:            uuid.NewString(),
		Slug:          slug,
		OwnerTenantID: ownerTenantID,
		IsActive:      isActive,
		CreatedAt:     time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

// GetSource fetches a single source by ID, or ErrNotFound if missing.
func GetSource(ctx context.Context, db *gorm.DB, id string) (*domain.Source, error) {
	var s domain.Source
	if err := db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// GetSourceBySlug fetches a single source by its slug, or ErrNotFound.
func GetSourceBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Source, error) {
	var s domain.Source
	if err := db.WithContext(ctx).Where("slug = ?", slug).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSourceOwner sets the owning tenant of a source. The update is an
// idempotent upsert of the mapping: assigning the same tenant twice yields
// identical state. Returns ErrNotFound when the source does not exist.
func UpdateSourceOwner(ctx context.Context, db *gorm.DB, sourceID, tenantID string) error {
	res := db.WithContext(ctx).
		Model(&domain.Source{}).
		Where("id = ?", sourceID).
		Update("owner_tenant_id", tenantID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListSources returns all sources ordered by slug.
func ListSources(ctx context.Context, db *gorm.DB) ([]domain.Source, error) {
	var out []domain.Source
	err := db.WithContext(ctx).Order("slug asc").Find(&out).Error
	return out, err
}

// ListSourceIDs returns the IDs of all sources ordered by ID. Used by the
// cache rebuild to enumerate (tenant, source) pairs deterministically.
func ListSourceIDs(ctx context.Context, db *gorm.DB) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.Source{}).
		Order("id asc").
		Pluck("id", &out).Error
	return out, err
}
