package repo

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/atlasfeed/go-catalog-backend/internal/domain"
	"github.com/atlasfeed/go-catalog-backend/internal/fingerprint"
)

var testDBSeq atomic.Int64

// newTestDB opens a fresh in-memory SQLite database with the full catalog
// schema, including the partial live-fingerprint index.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("repo_%s_%d", strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()), testDBSeq.Add(1))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedSource creates a source, optionally owned by a freshly created tenant.
func seedSource(t *testing.T, db *gorm.DB, owned bool) *domain.Source {
	t.Helper()
	ctx := context.Background()
	var owner *string
	if owned {
		tenant, err := CreateTenant(ctx, db, "tenant-"+uuid.NewString()[:8], nil)
		if err != nil {
			t.Fatalf("create tenant: %v", err)
		}
		owner = &tenant.ID
	}
	src, err := CreateSource(ctx, db, "source-"+uuid.NewString()[:8], owner, owned)
	if err != nil {
		t.Fatalf("create source: %v", err)
	}
	return src
}

// seedRecord inserts a live record for the given identity attributes.
func seedRecord(t *testing.T, db *gorm.DB, sourceID, date, startTime, title string) *domain.Record {
	t.Helper()
	key := fingerprint.Compute(sourceID, "", date, startTime, title)
	rec := &domain.Record{
		ID:          uuid.NewString(),
		SourceID:    sourceID,
		TenantState: domain.TenantStateUnresolved,
		Title:       title,
		Date:        date,
		Fingerprint: key.Fingerprint,
		DayKey:      key.DayKey,
		CreatedAt:   time.Now().UTC(),
	}
	if startTime != "" {
		st := startTime
		rec.StartTime = &st
	}
	if err := CreateRecord(context.Background(), db, rec); err != nil {
		t.Fatalf("seed record: %v", err)
	}
	return rec
}
