// Package services – SharingService
//
// This file implements the SharingService, which manages the owner-defined
// sharing rules and the tenant-side subscriptions that narrow them. Rules are
// one-per-source with last-write-wins upserts; subscriptions are idempotent
// upserts with soft-disable. A subscription can only narrow visibility that a
// rule grants, never widen it; that asymmetry is enforced in the resolver,
// not here, so the stores stay plain CRUD.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/atlasfeed/go-catalog-backend/internal/domain"
	"github.com/atlasfeed/go-catalog-backend/internal/repo"
)

// SharingService provides the sharing-rule and subscription operations.
type SharingService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewSharingService constructs a SharingService.
func NewSharingService(db *gorm.DB) *SharingService {
	return &SharingService{DB: db}
}

// UpsertRule creates or replaces the sharing rule for a source (last write
// wins). The category list is normalized before storage; it is only
// meaningful for the category_subset scope but is stored as given for the
// others. ErrInvalidScope and ErrUnknownSource for the predictable failures.
func (s *SharingService) UpsertRule(ctx context.Context, sourceID, scope string, categories []string) (*domain.SharingRule, error) {
	if !domain.ValidScope(scope) {
		return nil, ErrInvalidScope
	}
	if _, err := repo.GetSource(ctx, s.DB, sourceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownSource
		}
		return nil, err
	}
	return repo.UpsertSharingRule(ctx, s.DB, sourceID, scope, domain.JoinCategories(categories))
}

// Rule returns the sharing rule of a source, or nil when the source has no
// rule (which the resolver treats as Hidden).
func (s *SharingService) Rule(ctx context.Context, sourceID string) (*domain.SharingRule, error) {
	rule, err := repo.GetSharingRule(ctx, s.DB, sourceID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return rule, err
}

// Subscribe opts a tenant into a shared source, optionally narrowing it to
// the given categories. Re-subscribing updates the category set and
// re-activates a previously disabled subscription; the operation is an
// idempotent upsert on the (tenant, source) pair.
func (s *SharingService) Subscribe(ctx context.Context, tenantID, sourceID string, categories []string) (*domain.Subscription, error) {
	ok, err := repo.TenantExists(ctx, s.DB, tenantID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUnknownTenant
	}
	if _, err := repo.GetSource(ctx, s.DB, sourceID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnknownSource
		}
		return nil, err
	}
	return repo.UpsertSubscription(ctx, s.DB, tenantID, sourceID, domain.JoinCategories(categories))
}

// Unsubscribe soft-disables a tenant's subscription to a source. Disabling a
// subscription that does not exist (or is already disabled) is a no-op.
func (s *SharingService) Unsubscribe(ctx context.Context, tenantID, sourceID string) error {
	return repo.DisableSubscription(ctx, s.DB, tenantID, sourceID)
}

// Subscriptions lists a tenant's subscriptions, active and disabled.
func (s *SharingService) Subscriptions(ctx context.Context, tenantID string) ([]domain.Subscription, error) {
	return repo.ListSubscriptions(ctx, s.DB, tenantID)
}
