package services

import (
	"context"
	"reflect"
	"testing"

	"github.com/atlasfeed/go-catalog-backend/internal/domain"
	"github.com/atlasfeed/go-catalog-backend/internal/repo"
)

func TestRecompute_MatchesResolver(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := mustTenant(t, db)
	subscriber := mustTenant(t, db)
	shared := mustSource(t, db, owner.ID, true)
	private := mustSource(t, db, owner.ID, true)

	if _, err := repo.UpsertSharingRule(ctx, db, shared.ID, domain.ScopeCategorySubset, "music"); err != nil {
		t.Fatalf("upsert rule: %v", err)
	}

	resolver := NewAccessService(db)
	svc := NewCacheService(db, resolver)

	// Before any rebuild the cache is empty and fail-closed.
	if d := svc.Lookup(subscriber.ID, shared.ID); d.Visible {
		t.Fatalf("pre-rebuild lookup must be hidden")
	}

	n, err := svc.Recompute(ctx)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	if n != 4 { // 2 tenants x 2 sources
		t.Fatalf("resolved pairs = %d; want 4", n)
	}

	for _, tenantID := range []string{owner.ID, subscriber.ID} {
		for _, sourceID := range []string{shared.ID, private.ID} {
			want, err := resolver.Resolve(ctx, tenantID, sourceID)
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if got := svc.Lookup(tenantID, sourceID); !reflect.DeepEqual(got, want) {
				t.Fatalf("cache disagrees with resolver for (%s,%s): %+v vs %+v", tenantID, sourceID, got, want)
			}
		}
	}
}

func TestRecompute_ScopedKeepsOtherPairs(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := mustTenant(t, db)
	other := mustTenant(t, db)
	srcA := mustSource(t, db, owner.ID, true)
	srcB := mustSource(t, db, owner.ID, true)

	if _, err := repo.UpsertSharingRule(ctx, db, srcA.ID, domain.ScopeAll, ""); err != nil {
		t.Fatalf("rule a: %v", err)
	}
	if _, err := repo.UpsertSharingRule(ctx, db, srcB.ID, domain.ScopeAll, ""); err != nil {
		t.Fatalf("rule b: %v", err)
	}

	svc := NewCacheService(db, NewAccessService(db))
	if _, err := svc.Recompute(ctx); err != nil {
		t.Fatalf("full recompute: %v", err)
	}
	if !svc.Lookup(other.ID, srcA.ID).Visible || !svc.Lookup(other.ID, srcB.ID).Visible {
		t.Fatalf("both sources should be visible after full rebuild")
	}

	// Revoke sharing on A only, then rebuild just A: B's cached decision is
	// carried forward untouched.
	if _, err := repo.UpsertSharingRule(ctx, db, srcA.ID, domain.ScopeNone, ""); err != nil {
		t.Fatalf("revoke a: %v", err)
	}
	n, err := svc.Recompute(ctx, srcA.ID)
	if err != nil {
		t.Fatalf("scoped recompute: %v", err)
	}
	if n != 2 { // 2 tenants x 1 source
		t.Fatalf("scoped resolved pairs = %d; want 2", n)
	}
	if svc.Lookup(other.ID, srcA.ID).Visible {
		t.Fatalf("revocation must surface after scoped rebuild")
	}
	if !svc.Lookup(other.ID, srcB.ID).Visible {
		t.Fatalf("untouched source must keep its cached decision")
	}
}

func TestRecompute_StaleUntilRebuilt(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := mustTenant(t, db)
	other := mustTenant(t, db)
	src := mustSource(t, db, owner.ID, true)

	if _, err := repo.UpsertSharingRule(ctx, db, src.ID, domain.ScopeAll, ""); err != nil {
		t.Fatalf("rule: %v", err)
	}
	resolver := NewAccessService(db)
	svc := NewCacheService(db, resolver)
	if _, err := svc.Recompute(ctx); err != nil {
		t.Fatalf("recompute: %v", err)
	}

	// Revoke without rebuilding: the cache still serves the old grant while
	// the resolver already answers with the revocation.
	if _, err := repo.UpsertSharingRule(ctx, db, src.ID, domain.ScopeNone, ""); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if !svc.Lookup(other.ID, src.ID).Visible {
		t.Fatalf("cache should serve the previous snapshot until rebuilt")
	}
	if d, err := resolver.Resolve(ctx, other.ID, src.ID); err != nil || d.Visible {
		t.Fatalf("strict resolve must see the revocation, got %+v err=%v", d, err)
	}

	if _, err := svc.Recompute(ctx); err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if svc.Lookup(other.ID, src.ID).Visible {
		t.Fatalf("rebuild must converge the cache onto the resolver")
	}
}
