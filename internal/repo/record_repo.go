// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Record
// model, including the storage-level duplicate guard.
//
// The duplicate guard has two parts. The hard backstop is the partial unique
// index ux_records_live_fingerprint (see AutoMigrate): SQLite rejects any
// insert whose fingerprint collides with an existing live record, so
// concurrent producers can never both win a race. On top of that,
// FindLiveConflict lets the ingest transaction detect the collision (and the
// cross-form timed/untimed variant of it) up front and convert it into a
// redirect instead of a failure.
//
// Error semantics:
//   - ErrFingerprintConflict when an insert hits the live-fingerprint index.
//   - gorm.ErrRecordNotFound (ErrNotFound) for missing records.
//   - Raw gorm errors otherwise.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/atlasfeed/go-catalog-backend/internal/domain"
	"github.com/atlasfeed/go-catalog-backend/internal/fingerprint"
)

// ErrFingerprintConflict indicates that an insert collided with an existing
// live record on the fingerprint unique index. This is the expected trigger
// for duplicate resolution, not a failure.
var ErrFingerprintConflict = errors.New("live fingerprint conflict")

// CreateRecord inserts a record row. A collision with a live record's
// fingerprint is reported as ErrFingerprintConflict; everything else is the
// raw DB error.
func CreateRecord(ctx context.Context, db *gorm.DB, rec *domain.Record) error {
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrFingerprintConflict
		}
		return err
	}
	return nil
}

// FindLiveConflict returns the oldest live record that the given identity key
// collides with, or ErrNotFound when the key is free.
//
// A collision is an exact fingerprint match, or the cross-form case: an
// untimed key conflicts with any live record of the same day key, and a timed
// key conflicts with a live untimed record of the same day key. Two timed
// records at different times never conflict. Oldest-first ordering matches
// the resolver's "oldest wins" policy.
func FindLiveConflict(ctx context.Context, db *gorm.DB, key fingerprint.Key) (*domain.Record, error) {
	q := db.WithContext(ctx).Where("canonical_id IS NULL")
	if strings.HasSuffix(key.Fingerprint, "|"+fingerprint.TimeUnknown) {
		q = q.Where("day_key = ?", key.DayKey)
	} else {
		untimed := key.DayKey + "|" + fingerprint.TimeUnknown
		q = q.Where("fingerprint IN ?", []string{key.Fingerprint, untimed})
	}
	var rec domain.Record
	if err := q.Order("created_at asc, id asc").First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetRecord fetches a record by ID, or ErrNotFound.
func GetRecord(ctx context.Context, db *gorm.DB, id string) (*domain.Record, error) {
	var rec domain.Record
	if err := db.WithContext(ctx).Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// SetCanonical redirects a live record to its canonical survivor. Only live
// records can be demoted; redirecting an already-redirected record would
// create a chain, so the update is conditioned on canonical_id IS NULL and
// reports ErrNotFound when no live row matched.
func SetCanonical(ctx context.Context, db *gorm.DB, id, canonicalID string) error {
	res := db.WithContext(ctx).
		Model(&domain.Record{}).
		Where("id = ? AND canonical_id IS NULL", id).
		Updates(map[string]any{
			"canonical_id": canonicalID,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RepointReferences moves every redirect pointing at fromID over to toID and
// returns how many rows were repointed. Used when a record that already had
// referrers is itself demoted: its referrers must follow it to the true
// survivor in the same transaction.
func RepointReferences(ctx context.Context, db *gorm.DB, fromID, toID string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Record{}).
		Where("canonical_id = ?", fromID).
		Updates(map[string]any{
			"canonical_id": toID,
			"updated_at":   time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

// ListChained returns up to limit records whose canonical target has itself
// been canonicalized. A non-empty result is a broken invariant (a canonical
// chain) that the resolver flattens on its next pass.
func ListChained(ctx context.Context, db *gorm.DB, limit int) ([]domain.Record, error) {
	var out []domain.Record
	err := db.WithContext(ctx).
		Raw(`SELECT r.* FROM records r
		     JOIN records t ON t.id = r.canonical_id
		     WHERE t.canonical_id IS NOT NULL
		     ORDER BY r.id ASC LIMIT ?`, limit).
		Scan(&out).Error
	return out, err
}

// ListUnresolvedOwned returns up to limit unresolved-tenant records whose
// source has since gained an owner, with IDs strictly greater than afterID.
// The cursor makes the backfill resumable without a long-lived transaction.
func ListUnresolvedOwned(ctx context.Context, db *gorm.DB, afterID string, limit int) ([]domain.Record, error) {
	var out []domain.Record
	err := db.WithContext(ctx).
		Raw(`SELECT records.* FROM records
		     JOIN sources ON sources.id = records.source_id
		     WHERE records.tenant_state = ?
		       AND sources.owner_tenant_id IS NOT NULL
		       AND records.id > ?
		     ORDER BY records.id ASC LIMIT ?`,
			domain.TenantStateUnresolved, afterID, limit).
		Scan(&out).Error
	return out, err
}

// MarkTenantResolved assigns the owning tenant to an unresolved record. The
// tenant_state guard makes the operation idempotent and keeps it from
// touching records resolved concurrently; 0 affected rows is not an error.
func MarkTenantResolved(ctx context.Context, db *gorm.DB, recordID, tenantID string) error {
	return db.WithContext(ctx).
		Model(&domain.Record{}).
		Where("id = ? AND tenant_state = ?", recordID, domain.TenantStateUnresolved).
		Updates(map[string]any{
			"tenant_id":    tenantID,
			"tenant_state": domain.TenantStateResolved,
			"updated_at":   time.Now().UTC(),
		}).Error
}

// ListLiveInWindow returns up to limit live records within the inclusive
// [fromDate, toDate] calendar window, with IDs strictly greater than afterID.
// Used by the renormalization pass, which works one bounded window at a time.
func ListLiveInWindow(ctx context.Context, db *gorm.DB, fromDate, toDate, afterID string, limit int) ([]domain.Record, error) {
	var out []domain.Record
	err := db.WithContext(ctx).
		Where("canonical_id IS NULL AND date >= ? AND date <= ? AND id > ?", fromDate, toDate, afterID).
		Order("id asc").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateFingerprint rewrites the stored identity key of a record after a
// normalization change. A collision with another live record's fingerprint is
// reported as ErrFingerprintConflict for the caller to resolve as a merge.
func UpdateFingerprint(ctx context.Context, db *gorm.DB, id string, key fingerprint.Key) error {
	err := db.WithContext(ctx).
		Model(&domain.Record{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"fingerprint": key.Fingerprint,
			"day_key":     key.DayKey,
			"updated_at":  time.Now().UTC(),
		}).Error
	if err != nil && isUniqueViolation(err) {
		return ErrFingerprintConflict
	}
	return err
}

// CountLiveByFingerprint returns the number of live records with the exact
// fingerprint. The live-fingerprint index keeps this at 0 or 1.
func CountLiveByFingerprint(ctx context.Context, db *gorm.DB, fp string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Record{}).
		Where("fingerprint = ? AND canonical_id IS NULL", fp).
		Count(&n).Error
	return n, err
}

// isUniqueViolation detects unique-constraint violations across drivers that
// may not map to gorm.ErrDuplicatedKey. glebarez/sqlite often returns
// plain-text errors for UNIQUE violations.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "unique constraint failed") ||
		strings.Contains(low, "constraint failed: unique") ||
		strings.Contains(low, "duplicate key")
}
