package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/atlasfeed/go-catalog-backend/internal/domain"
	"github.com/atlasfeed/go-catalog-backend/internal/repo"
)

func TestIngest_CreatesResolvedRecord(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := mustTenant(t, db)
	src := mustSource(t, db, owner.ID, true)
	svc := NewIngestService(db)

	res, err := svc.Ingest(ctx, IngestInput{
		SourceID:  src.ID,
		Title:     "Spring Market",
		Category:  "Market",
		Date:      "2026-05-01",
		StartTime: "10:00",
	}, "")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	if res.Deduplicated {
		t.Fatalf("first ingest must not deduplicate")
	}

	rec, err := repo.GetRecord(ctx, db, res.RecordID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if rec.TenantState != domain.TenantStateResolved || rec.TenantID == nil || *rec.TenantID != owner.ID {
		t.Fatalf("record should resolve to source owner, got state=%q tenant=%v", rec.TenantState, rec.TenantID)
	}
	if rec.Category != "market" {
		t.Fatalf("category should be normalized, got %q", rec.Category)
	}
	if !rec.Live() {
		t.Fatalf("new record must be live")
	}
}

func TestIngest_DeduplicatesSameIdentity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := mustTenant(t, db)
	src := mustSource(t, db, owner.ID, true)
	svc := NewIngestService(db)

	first, err := svc.Ingest(ctx, IngestInput{SourceID: src.ID, Title: "The Spring Market!", Date: "2026-05-01", StartTime: "10:00"}, "")
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}
	// Title differs only in punctuation, case, and a leading article; the
	// normalized identity is the same.
	second, err := svc.Ingest(ctx, IngestInput{SourceID: src.ID, Title: "spring  MARKET", Date: "2026-05-01", StartTime: "10:00"}, "")
	if err != nil {
		t.Fatalf("second ingest: %v", err)
	}
	if !second.Deduplicated || second.RecordID != first.RecordID {
		t.Fatalf("expected dedup onto %s, got %+v", first.RecordID, second)
	}

	// The duplicate is kept as a redirect, not dropped.
	var redirects int64
	if err := db.Model(&domain.Record{}).Where("canonical_id = ?", first.RecordID).Count(&redirects).Error; err != nil {
		t.Fatalf("count redirects: %v", err)
	}
	if redirects != 1 {
		t.Fatalf("expected 1 redirect, got %d", redirects)
	}
}

func TestIngest_ConcurrentSameIdentityConverges(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := mustTenant(t, db)
	src := mustSource(t, db, owner.ID, true)
	svc := NewIngestService(db)

	// Racing producers all submit the same identity; the partial unique
	// index decides the winner and every loser must land as a redirect.
	const n = 8
	results := make([]*IngestResult, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.Ingest(ctx, IngestInput{
				SourceID:  src.ID,
				Title:     "Harbor Lights",
				Date:      "2026-07-04",
				StartTime: "21:00",
			}, "")
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("ingest %d: %v", i, err)
		}
	}

	var live int64
	if err := db.Model(&domain.Record{}).Where("canonical_id IS NULL").Count(&live).Error; err != nil {
		t.Fatalf("count live: %v", err)
	}
	if live != 1 {
		t.Fatalf("expected exactly 1 live record, got %d", live)
	}
	var survivor domain.Record
	if err := db.Where("canonical_id IS NULL").First(&survivor).Error; err != nil {
		t.Fatalf("load survivor: %v", err)
	}

	var redirects int64
	if err := db.Model(&domain.Record{}).Where("canonical_id = ?", survivor.ID).Count(&redirects).Error; err != nil {
		t.Fatalf("count redirects: %v", err)
	}
	if redirects != n-1 {
		t.Fatalf("expected %d redirects onto %s, got %d", n-1, survivor.ID, redirects)
	}

	// Every caller, winner or loser, is told about the same survivor.
	for i, res := range results {
		if res.RecordID != survivor.ID {
			t.Fatalf("result %d names %s, want survivor %s", i, res.RecordID, survivor.ID)
		}
	}
}

func TestIngest_TimedAndUntimedCollide(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := mustTenant(t, db)
	src := mustSource(t, db, owner.ID, true)
	svc := NewIngestService(db)

	timed, err := svc.Ingest(ctx, IngestInput{SourceID: src.ID, Title: "Harbor Parade", Date: "2026-07-04", StartTime: "18:30"}, "")
	if err != nil {
		t.Fatalf("timed ingest: %v", err)
	}
	// The same item without a start time is the same identity for the day.
	untimed, err := svc.Ingest(ctx, IngestInput{SourceID: src.ID, Title: "Harbor Parade", Date: "2026-07-04"}, "")
	if err != nil {
		t.Fatalf("untimed ingest: %v", err)
	}
	if !untimed.Deduplicated || untimed.RecordID != timed.RecordID {
		t.Fatalf("untimed arrival should merge onto timed record, got %+v", untimed)
	}

	// Distinct start times on the same day stay distinct.
	other, err := svc.Ingest(ctx, IngestInput{SourceID: src.ID, Title: "Harbor Parade", Date: "2026-07-04", StartTime: "21:00"}, "")
	if err != nil {
		t.Fatalf("other time ingest: %v", err)
	}
	if other.Deduplicated {
		t.Fatalf("a different start time is a different item")
	}
}

func TestIngest_DistinctSourcesDoNotCollide(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := mustTenant(t, db)
	srcA := mustSource(t, db, owner.ID, true)
	srcB := mustSource(t, db, owner.ID, true)
	svc := NewIngestService(db)

	in := IngestInput{Title: "Night Run", Date: "2026-03-03", StartTime: "20:00"}
	in.SourceID = srcA.ID
	if res, err := svc.Ingest(ctx, in, ""); err != nil || res.Deduplicated {
		t.Fatalf("source A ingest: %+v err=%v", res, err)
	}
	in.SourceID = srcB.ID
	if res, err := svc.Ingest(ctx, in, ""); err != nil || res.Deduplicated {
		t.Fatalf("the same item from a different source is a distinct record, got %+v err=%v", res, err)
	}
}

func TestIngest_Validation(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := mustTenant(t, db)
	src := mustSource(t, db, owner.ID, true)
	svc := NewIngestService(db)

	cases := []struct {
		name string
		in   IngestInput
		want error
	}{
		{"empty title", IngestInput{SourceID: src.ID, Title: "  !!! ", Date: "2026-05-01"}, ErrEmptyTitle},
		{"bad date", IngestInput{SourceID: src.ID, Title: "x", Date: "01/05/2026"}, ErrInvalidDate},
		{"bad time", IngestInput{SourceID: src.ID, Title: "x", Date: "2026-05-01", StartTime: "25:99"}, ErrInvalidTime},
		{"unknown source", IngestInput{SourceID: "nope", Title: "x", Date: "2026-05-01"}, ErrUnknownSource},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Ingest(ctx, tc.in, ""); !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestIngest_ActiveUnownedSourceRejected(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	src := mustSource(t, db, "", true) // active, no owner
	svc := NewIngestService(db)

	_, err := svc.Ingest(ctx, IngestInput{SourceID: src.ID, Title: "x", Date: "2026-05-01"}, "")
	if !errors.Is(err, ErrSourceUnowned) {
		t.Fatalf("expected ErrSourceUnowned, got %v", err)
	}
}

func TestIngest_InactiveUnownedSourceGoesUnresolved(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	src := mustSource(t, db, "", false) // inactive, no owner
	svc := NewIngestService(db)

	res, err := svc.Ingest(ctx, IngestInput{SourceID: src.ID, Title: "Backfill Me", Date: "2026-05-01"}, "")
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	rec, err := repo.GetRecord(ctx, db, res.RecordID)
	if err != nil {
		t.Fatalf("get record: %v", err)
	}
	if rec.TenantState != domain.TenantStateUnresolved || rec.TenantID != nil {
		t.Fatalf("record should be unresolved, got state=%q tenant=%v", rec.TenantState, rec.TenantID)
	}
}

func TestIngest_IdempotencyReplay(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := mustTenant(t, db)
	src := mustSource(t, db, owner.ID, true)
	svc := NewIngestService(db)

	first, err := svc.Ingest(ctx, IngestInput{SourceID: src.ID, Title: "Gallery Opening", Date: "2026-06-10"}, "req-1")
	if err != nil {
		t.Fatalf("first ingest: %v", err)
	}

	// Replay with the same key: no new record, the original result returns.
	replay, err := svc.Ingest(ctx, IngestInput{SourceID: src.ID, Title: "Gallery Opening", Date: "2026-06-10"}, "req-1")
	if err != nil {
		t.Fatalf("replay: %v", err)
	}
	if replay.RecordID != first.RecordID || replay.Deduplicated {
		t.Fatalf("replay should return the original created result, got %+v", replay)
	}

	var total int64
	if err := db.Model(&domain.Record{}).Count(&total).Error; err != nil {
		t.Fatalf("count records: %v", err)
	}
	if total != 1 {
		t.Fatalf("replay must not write a second record, got %d", total)
	}

	// The replayed result carries the original outcome even for dedups.
	if _, err := svc.Ingest(ctx, IngestInput{SourceID: src.ID, Title: "The Gallery Opening", Date: "2026-06-10"}, "req-2"); err != nil {
		t.Fatalf("dedup ingest: %v", err)
	}
	dedupReplay, err := svc.Ingest(ctx, IngestInput{SourceID: src.ID, Title: "The Gallery Opening", Date: "2026-06-10"}, "req-2")
	if err != nil {
		t.Fatalf("dedup replay: %v", err)
	}
	if !dedupReplay.Deduplicated || dedupReplay.RecordID != first.RecordID {
		t.Fatalf("dedup replay = %+v", dedupReplay)
	}
}

func TestIngest_SpatialAnchorSeparatesIdentity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := mustTenant(t, db)
	src := mustSource(t, db, owner.ID, true)
	svc := NewIngestService(db)

	a, err := svc.Ingest(ctx, IngestInput{SourceID: src.ID, Title: "Food Truck Friday", Date: "2026-04-10", SpatialAnchorID: "plaza-1"}, "")
	if err != nil {
		t.Fatalf("ingest a: %v", err)
	}
	b, err := svc.Ingest(ctx, IngestInput{SourceID: src.ID, Title: "Food Truck Friday", Date: "2026-04-10", SpatialAnchorID: "plaza-2"}, "")
	if err != nil {
		t.Fatalf("ingest b: %v", err)
	}
	if b.Deduplicated || a.RecordID == b.RecordID {
		t.Fatalf("different anchors must not merge")
	}
}
