// Package services – CacheService
//
// This file implements the periodic recompute of the access cache. A rebuild
// resolves every (tenant, source) pair through the AccessService into a fresh
// immutable snapshot and installs it with a single atomic pointer swap, so
// readers keep serving the old snapshot until the new one is complete. A
// scoped rebuild re-resolves only the given sources and carries every other
// pair forward from the served snapshot.
//
// Lookups are stale with respect to the resolver by at most one rebuild
// interval. Callers that need strict post-write consistency (e.g., an admin
// preview right after a rule change) call AccessService.Resolve directly.
package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/atlasfeed/go-catalog-backend/internal/access"
	"github.com/atlasfeed/go-catalog-backend/internal/repo"
)

// CacheService owns the served access cache and its recompute.
type CacheService struct {
	// DB is the GORM handle used to enumerate tenants and sources.
	DB *gorm.DB
	// Resolver produces the decisions the snapshot materializes.
	Resolver *AccessService
	// Cache is the atomically swapped snapshot holder served to readers.
	Cache *access.Cache
}

// NewCacheService constructs a CacheService with an empty (fail-closed)
// cache.
func NewCacheService(db *gorm.DB, resolver *AccessService) *CacheService {
	return &CacheService{DB: db, Resolver: resolver, Cache: access.NewCache()}
}

// Lookup returns the cached decision for the pair. Missing pairs are Hidden.
func (s *CacheService) Lookup(tenantID, sourceID string) access.Decision {
	return s.Cache.Lookup(tenantID, sourceID)
}

// Recompute rebuilds the cache. With no arguments it resolves all (tenant,
// source) pairs; with sourceIDs it re-resolves only those sources and keeps
// the rest of the served snapshot. The swap is all-or-nothing: any resolution
// error aborts the rebuild and leaves the previous snapshot serving, which is
// valid, merely stale; re-invocation recovers.
//
// Safe to run concurrently with reads and with ingestion; each pair is
// resolved in its own short-lived queries, so no long-held locks.
func (s *CacheService) Recompute(ctx context.Context, sourceIDs ...string) (int, error) {
	start := time.Now()

	tenants, err := repo.ListTenantIDs(ctx, s.DB)
	if err != nil {
		return 0, err
	}
	scoped := len(sourceIDs) > 0
	if !scoped {
		if sourceIDs, err = repo.ListSourceIDs(ctx, s.DB); err != nil {
			return 0, err
		}
	}

	var entries map[access.Key]access.Decision
	if scoped {
		entries = s.Cache.Current().Entries()
	} else {
		entries = make(map[access.Key]access.Decision, len(tenants)*len(sourceIDs))
	}

	resolved := 0
	for _, srcID := range sourceIDs {
		for _, tenantID := range tenants {
			d, err := s.Resolver.Resolve(ctx, tenantID, srcID)
			if err != nil {
				return 0, err
			}
			entries[access.Key{TenantID: tenantID, SourceID: srcID}] = d
			resolved++
		}
	}

	snap := access.NewSnapshot(entries)
	s.Cache.Swap(snap)

	cacheRebuildDuration.Observe(time.Since(start).Seconds())
	cacheEntries.Set(float64(snap.Len()))
	log.Debug().
		Int("resolved_pairs", resolved).
		Int("snapshot_entries", snap.Len()).
		Bool("scoped", scoped).
		Dur("took", time.Since(start)).
		Msg("access cache recomputed")
	return resolved, nil
}
