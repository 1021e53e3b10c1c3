// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// by the operator-facing stats endpoint and by maintenance logging. Each
// function is context-aware and safe to call from services or handlers.
package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/atlasfeed/go-catalog-backend/internal/domain"
)

// CatalogStats summarizes the state of the catalog for operators: entity
// counts plus the record-health split (live vs redirected vs unresolved).
type CatalogStats struct {
	Tenants           int64 `json:"tenants"`
	Sources           int64 `json:"sources"`
	SharingRules      int64 `json:"sharing_rules"`
	Subscriptions     int64 `json:"subscriptions"`
	Records           int64 `json:"records"`
	LiveRecords       int64 `json:"live_records"`
	RedirectedRecords int64 `json:"redirected_records"`
	UnresolvedRecords int64 `json:"unresolved_records"`
}

// Stats gathers catalog-wide aggregate counts. It runs a handful of
// lightweight COUNT queries; none of them lock the tables being counted.
func Stats(ctx context.Context, db *gorm.DB) (*CatalogStats, error) {
	var s CatalogStats
	type countQuery struct {
		dst   *int64
		model any
		where string
		args  []any
	}
	queries := []countQuery{
		{dst: &s.Tenants, model: &domain.Tenant{}},
		{dst: &s.Sources, model: &domain.Source{}},
		{dst: &s.SharingRules, model: &domain.SharingRule{}},
		{dst: &s.Subscriptions, model: &domain.Subscription{}},
		{dst: &s.Records, model: &domain.Record{}},
		{dst: &s.LiveRecords, model: &domain.Record{}, where: "canonical_id IS NULL"},
		{dst: &s.RedirectedRecords, model: &domain.Record{}, where: "canonical_id IS NOT NULL"},
		{dst: &s.UnresolvedRecords, model: &domain.Record{}, where: "tenant_state = ?", args: []any{domain.TenantStateUnresolved}},
	}
	for _, q := range queries {
		tx := db.WithContext(ctx).Model(q.model)
		if q.where != "" {
			tx = tx.Where(q.where, q.args...)
		}
		if err := tx.Count(q.dst).Error; err != nil {
			return nil, err
		}
	}
	return &s, nil
}
