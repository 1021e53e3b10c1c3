// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// SharingRule and Subscription models.
//
// Both models are upsert-shaped: a source has exactly one rule
// (last-write-wins) and a (tenant, source) pair has exactly one subscription
// row, soft-disabled rather than deleted. The uniqueness is enforced by DB
// indexes; the upsert helpers here update-then-insert so that re-applying the
// same operation is idempotent.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlasfeed/go-catalog-backend/internal/domain"
)

// UpsertSharingRule creates or replaces the sharing rule for a source.
// categories must already be in the normalized stored form
// (domain.JoinCategories). Last write wins.
func UpsertSharingRule(ctx context.Context, db *gorm.DB, sourceID, scope, categories string) (*domain.SharingRule, error) {
	res := db.WithContext(ctx).
		Model(&domain.SharingRule{}).
		Where("source_id = ?", sourceID).
		Updates(map[string]any{
			"scope":              scope,
			"allowed_categories": categories,
			"updated_at":         time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		rule := &domain.SharingRule{
			ID:                uuid.NewString(),
			SourceID:          sourceID,
			Scope:             scope,
			AllowedCategories: categories,
			CreatedAt:         time.Now().UTC(),
		}
		if err := db.WithContext(ctx).Create(rule).Error; err != nil {
			return nil, err
		}
		return rule, nil
	}
	return GetSharingRule(ctx, db, sourceID)
}

// GetSharingRule fetches the rule for a source, or ErrNotFound when the
// source has no rule. Resolution treats the absence as Hidden.
func GetSharingRule(ctx context.Context, db *gorm.DB, sourceID string) (*domain.SharingRule, error) {
	var r domain.SharingRule
	if err := db.WithContext(ctx).Where("source_id = ?", sourceID).First(&r).Error; err != nil {
		return nil, err
	}
	return &r, nil
}

// UpsertSubscription creates or re-activates the subscription of a tenant to
// a source with the given normalized category set. Repeating the call with
// the same arguments yields identical state.
func UpsertSubscription(ctx context.Context, db *gorm.DB, tenantID, sourceID, categories string) (*domain.Subscription, error) {
	res := db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("subscriber_tenant_id = ? AND source_id = ?", tenantID, sourceID).
		Updates(map[string]any{
			"subscribed_categories": categories,
			"is_active":             true,
			"updated_at":            time.Now().UTC(),
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		sub := &domain.Subscription{
			ID:                   uuid.NewString(),
			SubscriberTenantID:   tenantID,
			SourceID:             sourceID,
			SubscribedCategories: categories,
			IsActive:             true,
			CreatedAt:            time.Now().UTC(),
		}
		if err := db.WithContext(ctx).Create(sub).Error; err != nil {
			return nil, err
		}
		return sub, nil
	}
	var sub domain.Subscription
	err := db.WithContext(ctx).
		Where("subscriber_tenant_id = ? AND source_id = ?", tenantID, sourceID).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// DisableSubscription soft-disables the subscription of a tenant to a
// source. Disabling an absent or already-disabled subscription is a no-op,
// so the operation is idempotent.
func DisableSubscription(ctx context.Context, db *gorm.DB, tenantID, sourceID string) error {
	return db.WithContext(ctx).
		Model(&domain.Subscription{}).
		Where("subscriber_tenant_id = ? AND source_id = ?", tenantID, sourceID).
		Updates(map[string]any{
			"is_active":  false,
			"updated_at": time.Now().UTC(),
		}).Error
}

// GetActiveSubscription fetches the active subscription for the pair, or
// ErrNotFound when none exists (including soft-disabled ones).
func GetActiveSubscription(ctx context.Context, db *gorm.DB, tenantID, sourceID string) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := db.WithContext(ctx).
		Where("subscriber_tenant_id = ? AND source_id = ? AND is_active = ?", tenantID, sourceID, true).
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListSubscriptions returns all subscriptions of a tenant (active and
// disabled), ordered by creation time.
func ListSubscriptions(ctx context.Context, db *gorm.DB, tenantID string) ([]domain.Subscription, error) {
	var out []domain.Subscription
	err := db.WithContext(ctx).
		Where("subscriber_tenant_id = ?", tenantID).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}
