// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the
// IngestReceipt model used to implement safe-retry semantics for the
// ingestion write path.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/atlasfeed/go-catalog-backend/internal/domain"
)

// ErrDuplicate indicates that an ingest receipt already exists for the
// given (source_id, key) tuple.
var ErrDuplicate = errors.New("duplicate")

// GetReceipt returns a non-expired receipt or ErrNotFound.
func GetReceipt(ctx context.Context, db *gorm.DB, sourceID, key string, now time.Time) (*domain.IngestReceipt, error) {
	if strings.TrimSpace(sourceID) == "" {
		return nil, ErrNotFound
	}
	var rec domain.IngestReceipt
	err := db.WithContext(ctx).
		Where("source_id = ? AND key = ? AND expires_at > ?", sourceID, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &rec, err
}

// CreateReceipt inserts a receipt and returns ErrDuplicate on unique violation.
func CreateReceipt(ctx context.Context, db *gorm.DB, sourceID, key, recordID string, status int, ttl time.Duration) (*domain.IngestReceipt, error) {
	now := time.Now().UTC()
	rec := &domain.IngestReceipt{
		ID:        uuid.NewString(),
		SourceID:  sourceID,
		Key:       key,
		RecordID:  recordID,
		Status:    status,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}
