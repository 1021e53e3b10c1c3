package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/atlasfeed/go-catalog-backend/internal/domain"
	"github.com/atlasfeed/go-catalog-backend/internal/repo"
)

var testDBSeq atomic.Int64

// newTestDB opens a fresh in-memory SQLite database with the full catalog
// schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := fmt.Sprintf("svc_%s_%d", strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()), testDBSeq.Add(1))
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// mustTenant creates a tenant with a unique slug.
func mustTenant(t *testing.T, db *gorm.DB) *domain.Tenant {
	t.Helper()
	tenant, err := repo.CreateTenant(context.Background(), db, "tenant-"+uuid.NewString()[:8], nil)
	if err != nil {
		t.Fatalf("create tenant: %v", err)
	}
	return tenant
}

// mustSource creates a source; ownerID may be empty for an unowned source.
func mustSource(t *testing.T, db *gorm.DB, ownerID string, active bool) *domain.Source {
	t.Helper()
	var owner *string
	if ownerID != "" {
		owner = &ownerID
	}
	src, err := repo.CreateSource(context.Background(), db, "source-"+uuid.NewString()[:8], owner, active)
	if err != nil {
		t.Fatalf("create source: %v", err)
	}
	return src
}
