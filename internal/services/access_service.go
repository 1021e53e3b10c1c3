// Package services – AccessService
//
// This file implements the AccessService, the single place where ownership,
// sharing rules, and subscriptions combine into a visibility decision. The
// resolver is fail-closed: a source with no sharing rule is hidden from every
// non-owner, and a subscription can only narrow what the rule grants, never
// widen it. The resolver reads directly from the database and is therefore
// always current; the cached materialization of its output lives in
// CacheService.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/atlasfeed/go-catalog-backend/internal/access"
	"github.com/atlasfeed/go-catalog-backend/internal/domain"
	"github.com/atlasfeed/go-catalog-backend/internal/repo"
)

// AccessService resolves source visibility per tenant.
type AccessService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewAccessService constructs an AccessService.
func NewAccessService(db *gorm.DB) *AccessService {
	return &AccessService{DB: db}
}

// Resolve computes the visibility of sourceID for tenantID, in order:
//
//  1. The owner always sees its own source, unrestricted, regardless of any
//     rule or subscription.
//  2. No sharing rule → Hidden. An unconfigured source must never leak.
//  3. Rule scope none → Hidden.
//  4. Rule scope all / category_subset → the rule's category grant,
//     intersected with the tenant's active subscription when one exists. An
//     intersection narrowed to nothing is Hidden.
//
// ErrUnknownSource when the source does not exist; unknown tenants resolve
// to Hidden (there is nothing to leak to).
func (s *AccessService) Resolve(ctx context.Context, tenantID, sourceID string) (access.Decision, error) {
	src, err := repo.GetSource(ctx, s.DB, sourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return access.Hidden, ErrUnknownSource
		}
		return access.Hidden, err
	}

	if src.OwnerTenantID != nil && *src.OwnerTenantID == tenantID {
		return access.Decision{Visible: true}, nil
	}

	rule, err := repo.GetSharingRule(ctx, s.DB, sourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return access.Hidden, nil
		}
		return access.Hidden, err
	}

	var base []string // nil = unrestricted
	switch rule.Scope {
	case domain.ScopeNone:
		return access.Hidden, nil
	case domain.ScopeAll:
		base = domain.SplitCategories(rule.AllowedCategories)
	case domain.ScopeCategorySubset:
		base = domain.SplitCategories(rule.AllowedCategories)
		if base == nil {
			// An explicit empty subset grants nothing.
			return access.Hidden, nil
		}
	default:
		return access.Hidden, nil
	}

	sub, err := repo.GetActiveSubscription(ctx, s.DB, tenantID, sourceID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return access.Hidden, err
	}
	if sub != nil {
		if narrowed := domain.SplitCategories(sub.SubscribedCategories); narrowed != nil {
			base = intersectCategories(base, narrowed)
			if len(base) == 0 {
				return access.Hidden, nil
			}
		}
	}

	return access.Decision{Visible: true, Categories: base}, nil
}

// intersectCategories intersects a base grant with a subscription's
// narrowing. A nil base is unrestricted, so the narrowing itself is the
// result; the narrowing is never nil here.
func intersectCategories(base, narrowed []string) []string {
	if base == nil {
		return narrowed
	}
	allowed := make(map[string]struct{}, len(base))
	for _, c := range base {
		allowed[c] = struct{}{}
	}
	out := make([]string, 0, len(narrowed))
	for _, c := range narrowed {
		if _, ok := allowed[c]; ok {
			out = append(out, c)
		}
	}
	return out
}
