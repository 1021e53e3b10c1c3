// Package services – BackfillService
//
// This file implements the background resolution of records that were
// ingested while their source had no owner. The backfill only touches
// records in the unresolved tenant state whose source has since gained an
// owner, commits each row independently, and walks the table with an ID
// cursor instead of one all-or-nothing transaction, so it is idempotent,
// resumable after partial failure, and safe to run concurrently with new
// ingestion.
package services

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/atlasfeed/go-catalog-backend/internal/repo"
)

// BackfillService resolves tenant ownership of records ingested before their
// source was assigned an owner.
type BackfillService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// BatchSize caps rows fetched per cursor step; <= 0 uses 200.
	BatchSize int
}

// NewBackfillService constructs a BackfillService with the default batch
// size.
func NewBackfillService(db *gorm.DB) *BackfillService {
	return &BackfillService{DB: db}
}

// Run performs one backfill sweep and returns how many records it resolved.
//
// Ownership is read from the source at resolution time, which preserves the
// invariant that a resolved tenant_id always traces back to the source's
// owner when it was resolved. Records whose source is still unowned are left
// untouched for a later sweep.
func (s *BackfillService) Run(ctx context.Context) (int, error) {
	batch := s.BatchSize
	if batch <= 0 {
		batch = 200
	}

	owners, err := s.sourceOwners(ctx)
	if err != nil {
		return 0, err
	}

	resolved := 0
	after := ""
	for {
		recs, err := repo.ListUnresolvedOwned(ctx, s.DB, after, batch)
		if err != nil {
			return resolved, err
		}
		if len(recs) == 0 {
			break
		}
		for i := range recs {
			rec := &recs[i]
			after = rec.ID
			owner, ok := owners[rec.SourceID]
			if !ok {
				continue
			}
			// Each row commits on its own; a failure here leaves every
			// previously resolved row valid and the sweep re-runnable.
			if err := repo.MarkTenantResolved(ctx, s.DB, rec.ID, owner); err != nil {
				return resolved, err
			}
			resolved++
			backfillResolved.Inc()
		}
		if len(recs) < batch {
			break
		}
	}

	if resolved > 0 {
		log.Info().Int("resolved", resolved).Msg("tenant backfill sweep complete")
	}
	return resolved, nil
}

// sourceOwners snapshots the source → owner mapping for one sweep.
func (s *BackfillService) sourceOwners(ctx context.Context) (map[string]string, error) {
	sources, err := repo.ListSources(ctx, s.DB)
	if err != nil {
		return nil, err
	}
	owners := make(map[string]string, len(sources))
	for _, src := range sources {
		if src.OwnerTenantID != nil {
			owners[src.ID] = *src.OwnerTenantID
		}
	}
	return owners, nil
}
