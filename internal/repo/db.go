// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file contains database bootstrapping helpers for
// SQLite (pure Go driver) and schema migrations.
package repo

import (
	"os"
	"path/filepath"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/plugin/opentelemetry/tracing"

	"github.com/atlasfeed/go-catalog-backend/internal/domain"
)

// OpenSQLite opens (or creates) a SQLite database and applies PRAGMAs.
func OpenSQLite(path string) (*gorm.DB, error) {
	// Fail early if parent directory does not exist (instead of sqlite "out of memory (14)" on Windows).
	if dir := filepath.Dir(path); dir != "." {
		if _, err := os.Stat(dir); err != nil {
			return nil, err
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	// PRAGMAs
	db.Exec("PRAGMA journal_mode=WAL;")
	db.Exec("PRAGMA synchronous=NORMAL;")
	db.Exec("PRAGMA foreign_keys=ON;")
	db.Exec("PRAGMA busy_timeout=5000;")

	// Pool
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxIdleTime(5 * time.Minute)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}

	return db, nil
}

// EnableTracing attaches the GORM OpenTelemetry plugin so every query emits a
// span. Call after OpenSQLite, only when tracing is enabled in config.
func EnableTracing(db *gorm.DB) error {
	return db.Use(tracing.NewPlugin(tracing.WithoutMetrics()))
}

// AutoMigrate creates or updates the catalog schema and the indexes GORM
// tags cannot express. The partial unique index on live records is the
// storage-level duplicate guard: an insert whose fingerprint collides with an
// existing live (non-canonicalized) record is rejected by SQLite itself, not
// by an application-level read-then-write check.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&domain.Tenant{},
		&domain.Source{},
		&domain.SharingRule{},
		&domain.Subscription{},
		&domain.Record{},
		&domain.IngestReceipt{},
	); err != nil {
		return err
	}
	// GORM's uniqueIndex tag cannot express a partial index, so the live-only
	// fingerprint constraint is created directly.
	return db.Exec(
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_records_live_fingerprint
		 ON records(fingerprint) WHERE canonical_id IS NULL`,
	).Error
}
