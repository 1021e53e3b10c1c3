package services

import (
	"context"
	"testing"

	"github.com/atlasfeed/go-catalog-backend/internal/domain"
	"github.com/atlasfeed/go-catalog-backend/internal/repo"
)

func TestBackfill_ResolvesAfterOwnerAssignment(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	src := mustSource(t, db, "", false)
	ingest := NewIngestService(db)
	backfill := NewBackfillService(db)

	res, err := ingest.Ingest(ctx, IngestInput{SourceID: src.ID, Title: "Orphan Record", Date: "2026-05-05"}, "")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	// First sweep: the source still has no owner, nothing to resolve.
	n, err := backfill.Run(ctx)
	if err != nil || n != 0 {
		t.Fatalf("sweep before assignment = %d err=%v", n, err)
	}

	owner := mustTenant(t, db)
	if err := repo.UpdateSourceOwner(ctx, db, src.ID, owner.ID); err != nil {
		t.Fatalf("assign owner: %v", err)
	}

	n, err = backfill.Run(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 resolved, got %d", n)
	}

	rec, err := repo.GetRecord(ctx, db, res.RecordID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if rec.TenantState != domain.TenantStateResolved || rec.TenantID == nil || *rec.TenantID != owner.ID {
		t.Fatalf("record not resolved to owner: state=%q tenant=%v", rec.TenantState, rec.TenantID)
	}

	// Idempotent: a re-run finds nothing left.
	if n, err := backfill.Run(ctx); err != nil || n != 0 {
		t.Fatalf("second sweep = %d err=%v", n, err)
	}
}

func TestBackfill_WalksInBatches(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	src := mustSource(t, db, "", false)
	ingest := NewIngestService(db)

	for _, title := range []string{"one", "two", "three", "four", "five"} {
		if _, err := ingest.Ingest(ctx, IngestInput{SourceID: src.ID, Title: title, Date: "2026-05-06"}, ""); err != nil {
			t.Fatalf("ingest %s: %v", title, err)
		}
	}
	owner := mustTenant(t, db)
	if err := repo.UpdateSourceOwner(ctx, db, src.ID, owner.ID); err != nil {
		t.Fatalf("assign owner: %v", err)
	}

	backfill := &BackfillService{DB: db, BatchSize: 2}
	n, err := backfill.Run(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 resolved across batches, got %d", n)
	}

	var left int64
	if err := db.Model(&domain.Record{}).Where("tenant_state = ?", domain.TenantStateUnresolved).Count(&left).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if left != 0 {
		t.Fatalf("%d records left unresolved", left)
	}
}

func TestBackfill_SkipsStillUnownedSources(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	ownedSrc := mustSource(t, db, "", false)
	orphanSrc := mustSource(t, db, "", false)
	ingest := NewIngestService(db)

	if _, err := ingest.Ingest(ctx, IngestInput{SourceID: ownedSrc.ID, Title: "claimable", Date: "2026-05-07"}, ""); err != nil {
		t.Fatalf("ingest: %v", err)
	}
	orphan, err := ingest.Ingest(ctx, IngestInput{SourceID: orphanSrc.ID, Title: "still orphan", Date: "2026-05-07"}, "")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}

	owner := mustTenant(t, db)
	if err := repo.UpdateSourceOwner(ctx, db, ownedSrc.ID, owner.ID); err != nil {
		t.Fatalf("assign owner: %v", err)
	}

	n, err := NewBackfillService(db).Run(ctx)
	if err != nil || n != 1 {
		t.Fatalf("sweep = %d err=%v", n, err)
	}
	rec, err := repo.GetRecord(ctx, db, orphan.RecordID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if rec.TenantState != domain.TenantStateUnresolved {
		t.Fatalf("record of still-unowned source must stay unresolved")
	}
}
