// Package services – IngestService
//
// This file implements the ingestion write path. For each incoming record it
// computes the deduplication fingerprint, assigns tenant ownership from the
// source's owner, and performs the atomic check-and-insert against the
// storage-level uniqueness guard. A fingerprint collision is not a failure:
// the new arrival is persisted as a redirect to the oldest live record and
// the caller receives the survivor's ID.
//
// Producers retry freely: an Idempotency-Key presented with the request is
// recorded as an IngestReceipt, and replays return the originally produced
// record without re-executing side effects.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/atlasfeed/go-catalog-backend/internal/domain"
	"github.com/atlasfeed/go-catalog-backend/internal/fingerprint"
	"github.com/atlasfeed/go-catalog-backend/internal/repo"
)

// IngestService implements the producer-facing write path.
type IngestService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// ReceiptTTL is how long an Idempotency-Key replays the original result.
	ReceiptTTL time.Duration
}

// NewIngestService constructs an IngestService with a 24h receipt window.
func NewIngestService(db *gorm.DB) *IngestService {
	return &IngestService{DB: db, ReceiptTTL: 24 * time.Hour}
}

// IngestInput is one record offered by a producer. Date is a calendar day
// (YYYY-MM-DD); StartTime is an optional wall-clock time (HH:MM);
// SpatialAnchorID is an optional venue/place identifier.
type IngestInput struct {
	SourceID        string
	Title           string
	Category        string
	Date            string
	StartTime       string
	SpatialAnchorID string
	Payload         string
}

// IngestResult reports the live record an ingested item resolved to.
// Deduplicated is true when the input collided with an existing record and
// RecordID is that survivor rather than a newly created row.
type IngestResult struct {
	RecordID     string `json:"record_id"`
	Deduplicated bool   `json:"deduplicated"`
}

// Ingest runs the write path for one record.
//
// Semantics:
//   - The title must be non-empty after normalization; date and start time
//     must be well-formed (ErrEmptyTitle / ErrInvalidDate / ErrInvalidTime).
//   - The source must exist (ErrUnknownSource). An active source without an
//     owner is a configuration error (ErrSourceUnowned): ingestion from it is
//     blocked until an operator assigns ownership, never defaulted to a
//     guessed tenant. An inactive, ownerless source ingests into the
//     unresolved tenant state for a later backfill to resolve.
//   - A fingerprint collision stores the record as a redirect to the oldest
//     live conflicting record and returns that survivor (oldest wins, so
//     identifiers already referenced elsewhere stay valid).
//
// Concurrency: the conflict check and insert run inside one transaction, and
// the partial unique index on live fingerprints backstops any race between
// producers: a loser of the race retries once and lands on the winner.
func (s *IngestService) Ingest(ctx context.Context, in IngestInput, idemKey string) (*IngestResult, error) {
	if idemKey != "" {
		if rec, err := repo.GetReceipt(ctx, s.DB, in.SourceID, idemKey, time.Now().UTC()); err == nil {
			ingestTotal.WithLabelValues(outcomeReplayed).Inc()
			return &IngestResult{RecordID: rec.RecordID, Deduplicated: rec.Status == receiptStatusDeduplicated}, nil
		}
	}

	normTitle := fingerprint.NormalizeTitle(in.Title)
	if normTitle == "" {
		ingestTotal.WithLabelValues(outcomeRejected).Inc()
		return nil, ErrEmptyTitle
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		ingestTotal.WithLabelValues(outcomeRejected).Inc()
		return nil, ErrInvalidDate
	}
	if in.StartTime != "" {
		if _, err := time.Parse("15:04", in.StartTime); err != nil {
			ingestTotal.WithLabelValues(outcomeRejected).Inc()
			return nil, ErrInvalidTime
		}
	}

	src, err := repo.GetSource(ctx, s.DB, in.SourceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ingestTotal.WithLabelValues(outcomeRejected).Inc()
			return nil, ErrUnknownSource
		}
		return nil, err
	}
	if src.IsActive && src.OwnerTenantID == nil {
		ingestTotal.WithLabelValues(outcomeRejected).Inc()
		return nil, ErrSourceUnowned
	}

	key := fingerprint.Compute(src.ID, in.SpatialAnchorID, in.Date, in.StartTime, in.Title)

	result, err := s.insert(ctx, src, in, key)
	if errors.Is(err, repo.ErrFingerprintConflict) {
		// Lost a race to a concurrent producer; the winner is now the live
		// conflict and the retry resolves against it.
		result, err = s.insert(ctx, src, in, key)
	}
	if err != nil {
		return nil, err
	}

	if result.Deduplicated {
		ingestTotal.WithLabelValues(outcomeDeduplicated).Inc()
		dedupMerges.Inc()
	} else {
		ingestTotal.WithLabelValues(outcomeCreated).Inc()
	}

	if idemKey != "" {
		status := receiptStatusCreated
		if result.Deduplicated {
			status = receiptStatusDeduplicated
		}
		if _, err := repo.CreateReceipt(ctx, s.DB, src.ID, idemKey, result.RecordID, status, s.ReceiptTTL); err != nil && !errors.Is(err, repo.ErrDuplicate) {
			log.Warn().Err(err).Str("source_id", src.ID).Msg("ingest receipt not recorded")
		}
	}
	return result, nil
}

// Receipt statuses persisted with an IngestReceipt.
const (
	receiptStatusCreated      = 0
	receiptStatusDeduplicated = 1
)

// insert performs the atomic conflict-check-and-insert for one record.
func (s *IngestService) insert(ctx context.Context, src *domain.Source, in IngestInput, key fingerprint.Key) (*IngestResult, error) {
	rec := &domain.Record{
		ID:          uuid.NewString(),
		SourceID:    src.ID,
		TenantState: domain.TenantStateUnresolved,
		Title:       in.Title,
		Category:    domain.JoinCategories([]string{in.Category}),
		Date:        in.Date,
		Payload:     in.Payload,
		Fingerprint: key.Fingerprint,
		DayKey:      key.DayKey,
		CreatedAt:   time.Now().UTC(),
	}
	if in.StartTime != "" {
		t := in.StartTime
		rec.StartTime = &t
	}
	if in.SpatialAnchorID != "" {
		a := in.SpatialAnchorID
		rec.SpatialAnchorID = &a
	}
	// Tenant ownership is inherited from the source at write time. Unowned
	// sources leave the record unresolved and excluded from tenant-scoped
	// reads until a backfill picks it up.
	if src.OwnerTenantID != nil {
		owner := *src.OwnerTenantID
		rec.TenantID = &owner
		rec.TenantState = domain.TenantStateResolved
	}

	var result IngestResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		survivor, err := repo.FindLiveConflict(ctx, tx, key)
		switch {
		case err == nil:
			rec.CanonicalID = &survivor.ID
			if err := repo.CreateRecord(ctx, tx, rec); err != nil {
				return err
			}
			result = IngestResult{RecordID: survivor.ID, Deduplicated: true}
			return nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err := repo.CreateRecord(ctx, tx, rec); err != nil {
				return err
			}
			result = IngestResult{RecordID: rec.ID, Deduplicated: false}
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
