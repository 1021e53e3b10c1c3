// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Tenant
// model.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a tenant is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
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

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateTenant inserts a new Tenant row with the given slug and optional
// parent. The tenant ID is a randomly generated UUID (string), and CreatedAt
// is set to UTC.
//
// On success, it returns the persisted Tenant. On failure (including a slug
// uniqueness violation), it returns a DB error.
func CreateTenant(ctx context.Context, db *gorm.DB, slug string, parentID *string) (*domain.Tenant, error) {
	t := &domain.Tenant{
		ID:        uuid.NewString(),
		Slug:      slug,
		ParentID:  parentID,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

// GetTenant fetches a single tenant by ID, or ErrNotFound if missing.
func GetTenant(ctx context.Context, db *gorm.DB, id string) (*domain.Tenant, error) {
	var t domain.Tenant
	if err := db.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// GetTenantBySlug fetches a single tenant by its slug, or ErrNotFound.
func GetTenantBySlug(ctx context.Context, db *gorm.DB, slug string) (*domain.Tenant, error) {
	var t domain.Tenant
	if err := db.WithContext(ctx).Where("slug = ?", slug).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// TenantExists reports whether a tenant with the given ID exists.
func TenantExists(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Tenant{}).
		Where("id = ?", id).
		Count(&n).Error
	return n > 0, err
}

// ListTenants returns all tenants ordered by slug. It returns an empty slice
// when no tenants exist.
func ListTenants(ctx context.Context, db *gorm.DB) ([]domain.Tenant, error) {
	var out []domain.Tenant
	err := db.WithContext(ctx).Order("slug asc").Find(&out).Error
	return out, err
}

// ListTenantIDs returns the IDs of all tenants ordered by ID. Used by the
// cache rebuild to enumerate (tenant, source) pairs deterministically.
func ListTenantIDs(ctx context.Context, db *gorm.DB) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.Tenant{}).
		Order("id asc").
		Pluck("id", &out).Error
	return out, err
}
