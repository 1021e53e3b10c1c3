// Package services – DedupService
//
// This file implements duplicate resolution beyond the ingestion fast path:
// flattening canonical chains and re-running fingerprint normalization over a
// bounded date window. The policy everywhere is "oldest wins": the earliest
// created conflicting record stays canonical, so identifiers already
// referenced elsewhere never break, and whenever a record that already had
// referrers is demoted, its referrers are repointed to the true survivor in
// the same transaction; a chain of length > 1 never persists.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/atlasfeed/go-catalog-backend/internal/domain"
	"github.com/atlasfeed/go-catalog-backend/internal/fingerprint"
	"github.com/atlasfeed/go-catalog-backend/internal/repo"
)

// DedupService repairs and converges the deduplication invariants.
type DedupService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewDedupService constructs a DedupService.
func NewDedupService(db *gorm.DB) *DedupService {
	return &DedupService{DB: db}
}

// maxChainHops bounds the canonical pointer walk; anything deeper than this
// is corrupt beyond automatic repair.
const maxChainHops = 16

// FlattenChains finds redirects whose canonical target has itself been
// canonicalized and repoints them to the terminal live survivor. Chains are a
// correctness anomaly: they are logged and repaired, never surfaced to
// callers. Returns the number of redirects repointed; idempotent and safe to
// re-run after partial failure.
func (s *DedupService) FlattenChains(ctx context.Context) (int, error) {
	repaired := 0
	for {
		chained, err := repo.ListChained(ctx, s.DB, 100)
		if err != nil {
			return repaired, err
		}
		if len(chained) == 0 {
			return repaired, nil
		}
		// Each chained redirect shares its demoted target with its siblings;
		// repointing by target repairs them all at once.
		demoted := make(map[string]struct{}, len(chained))
		for _, r := range chained {
			if r.CanonicalID != nil {
				demoted[*r.CanonicalID] = struct{}{}
			}
		}
		for targetID := range demoted {
			terminal, err := s.terminalSurvivor(ctx, targetID)
			if err != nil {
				return repaired, err
			}
			n, err := repo.RepointReferences(ctx, s.DB, targetID, terminal)
			if err != nil {
				return repaired, err
			}
			repaired += int(n)
			chainsFlattened.Inc()
			log.Warn().
				Str("demoted_id", targetID).
				Str("survivor_id", terminal).
				Int64("repointed", n).
				Msg("canonical chain flattened")
		}
	}
}

// terminalSurvivor walks canonical pointers from id to the live end of the
// chain.
func (s *DedupService) terminalSurvivor(ctx context.Context, id string) (string, error) {
	cur := id
	for hop := 0; hop < maxChainHops; hop++ {
		rec, err := repo.GetRecord(ctx, s.DB, cur)
		if err != nil {
			return "", err
		}
		if rec.CanonicalID == nil {
			return rec.ID, nil
		}
		cur = *rec.CanonicalID
	}
	return "", fmt.Errorf("canonical chain from %s exceeds %d hops", id, maxChainHops)
}

// RenormalizeStats reports the outcome of a Renormalize pass.
type RenormalizeStats struct {
	Scanned int `json:"scanned"`
	Rekeyed int `json:"rekeyed"`
	Merged  int `json:"merged"`
}

// Renormalize re-derives the fingerprint of every live record in the
// inclusive [fromDate, toDate] window and reconciles the outcome. When the
// current normalization produces a key that collides with another live
// record, the two are merged oldest-wins; if the younger of the pair already
// had referrers, they follow it to the survivor in the same transaction.
//
// The pass walks the window in ID-cursor batches and commits each record
// independently, so it is resumable, idempotent, and safe to run
// concurrently with ingestion. It finishes with a chain-flattening sweep as
// a backstop.
func (s *DedupService) Renormalize(ctx context.Context, fromDate, toDate string) (*RenormalizeStats, error) {
	stats := &RenormalizeStats{}
	after := ""
	for {
		recs, err := repo.ListLiveInWindow(ctx, s.DB, fromDate, toDate, after, 200)
		if err != nil {
			return stats, err
		}
		if len(recs) == 0 {
			break
		}
		for i := range recs {
			rec := &recs[i]
			after = rec.ID
			stats.Scanned++

			var start, anchor string
			if rec.StartTime != nil {
				start = *rec.StartTime
			}
			if rec.SpatialAnchorID != nil {
				anchor = *rec.SpatialAnchorID
			}
			key := fingerprint.Compute(rec.SourceID, anchor, rec.Date, start, rec.Title)
			if key.Fingerprint == rec.Fingerprint {
				continue
			}

			merged, err := s.rekey(ctx, rec, key)
			if err != nil {
				return stats, err
			}
			if merged {
				stats.Merged++
			} else {
				stats.Rekeyed++
			}
		}
		if len(recs) < 200 {
			break
		}
	}

	if _, err := s.FlattenChains(ctx); err != nil {
		return stats, err
	}
	log.Info().
		Str("from", fromDate).
		Str("to", toDate).
		Int("scanned", stats.Scanned).
		Int("rekeyed", stats.Rekeyed).
		Int("merged", stats.Merged).
		Msg("renormalization pass complete")
	return stats, nil
}

// rekey applies a recomputed key to one live record, merging it with an
// existing live holder of the key when necessary. Returns true when the
// outcome was a merge.
func (s *DedupService) rekey(ctx context.Context, rec *domain.Record, key fingerprint.Key) (bool, error) {
	merged := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		other, err := repo.FindLiveConflict(ctx, tx, key)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return repo.UpdateFingerprint(ctx, tx, rec.ID, key)
			}
			return err
		}
		if other.ID == rec.ID {
			return repo.UpdateFingerprint(ctx, tx, rec.ID, key)
		}

		merged = true
		survivor, loser := other, rec
		if olderRecord(rec, other) {
			survivor, loser = rec, other
		}
		// Demote the younger record first so the survivor's key update does
		// not trip the live-fingerprint index, then drag the loser's
		// referrers along. No chain may outlive this transaction.
		if err := repo.SetCanonical(ctx, tx, loser.ID, survivor.ID); err != nil {
			return err
		}
		if _, err := repo.RepointReferences(ctx, tx, loser.ID, survivor.ID); err != nil {
			return err
		}
		if survivor.ID == rec.ID {
			if err := repo.UpdateFingerprint(ctx, tx, rec.ID, key); err != nil {
				return err
			}
		}
		dedupMerges.Inc()
		log.Info().
			Str("survivor_id", survivor.ID).
			Str("merged_id", loser.ID).
			Msg("renormalization merged duplicate records")
		return nil
	})
	return merged, err
}

// olderRecord reports whether a predates b; equal timestamps fall back to
// the smaller ID so the choice is deterministic.
func olderRecord(a, b *domain.Record) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.ID < b.ID
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
