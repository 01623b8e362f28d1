package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/kinship/internal/adapters/sqlite"
	"github.com/example/kinship/internal/ports/secondary"
)

func TestDerivedRepository_CommitAndDiscard(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewDerivedRepository(db)
	meta := sqlite.NewMetaRepository(db)
	segments := sqlite.NewSegmentRepository(db)
	ctx := context.Background()

	source := seedKit(t, db, "S")
	target1 := seedKit(t, db, "T1")
	target2 := seedKit(t, db, "T2")
	seg1 := seedSegment(t, db, "1", 100, 200, 10)
	seg2 := seedSegment(t, db, "1", 150, 250, 10)

	data := &secondary.DerivedData{
		Partitions: []*secondary.PartitionRecord{
			{ID: 1, Chromosome: "1", StartBP: 100, EndBP: 150, LengthCM: 5},
			{ID: 2, Chromosome: "1", StartBP: 150, EndBP: 200, LengthCM: 5},
			{ID: 3, Chromosome: "1", StartBP: 200, EndBP: 250, LengthCM: 5},
		},
		Memberships: []*secondary.SegmentPartitionRecord{
			{SegmentID: seg1, PartitionID: 1},
			{SegmentID: seg1, PartitionID: 2},
			{SegmentID: seg2, PartitionID: 2},
			{SegmentID: seg2, PartitionID: 3},
		},
		Imputed: []*secondary.SegmentRecord{
			{Chromosome: "1", StartBP: 150, EndBP: 200, LengthCM: 5, Imputed: true},
		},
		Negatives: []*secondary.DerivedNegative{
			{Source: source, Target1: target1, Target2: target2, Segment1: seg1, Segment2: seg2, OverlapIdx: 0, NegIdx: 0},
		},
	}
	if err := repo.Commit(ctx, data); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	valid, err := meta.CacheValid(ctx)
	if err != nil {
		t.Fatalf("CacheValid failed: %v", err)
	}
	if !valid {
		t.Error("Commit did not mark the cache valid")
	}

	partitions, err := repo.Partitions(ctx)
	if err != nil {
		t.Fatalf("Partitions failed: %v", err)
	}
	if len(partitions) != 3 {
		t.Fatalf("expected 3 partitions, got %d", len(partitions))
	}
	if partitions[1].StartBP != 150 || partitions[1].EndBP != 200 || partitions[1].LengthCM != 5 {
		t.Errorf("unexpected partition: %+v", partitions[1])
	}

	memberships, err := repo.Memberships(ctx)
	if err != nil {
		t.Fatalf("Memberships failed: %v", err)
	}
	if len(memberships) != 4 {
		t.Fatalf("expected 4 memberships, got %d", len(memberships))
	}

	// The imputed segment got a store id, and the negative references it.
	all, err := segments.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 segments after commit, got %d", len(all))
	}
	imputed := all[2]
	if !imputed.Imputed || imputed.StartBP != 150 || imputed.EndBP != 200 {
		t.Errorf("unexpected imputed segment: %+v", imputed)
	}

	negatives, err := sqlite.NewNegativeRepository(db).List(ctx)
	if err != nil {
		t.Fatalf("List negatives failed: %v", err)
	}
	if len(negatives) != 1 {
		t.Fatalf("expected 1 negative, got %d", len(negatives))
	}
	if negatives[0].OverlapSegment != imputed.ID || negatives[0].NegSegment != imputed.ID {
		t.Errorf("negative does not reference the imputed segment: %+v", negatives[0])
	}

	// Discard removes everything derived and clears the flag, keeping raw data.
	if err := repo.Discard(ctx); err != nil {
		t.Fatalf("Discard failed: %v", err)
	}
	valid, err = meta.CacheValid(ctx)
	if err != nil {
		t.Fatalf("CacheValid failed: %v", err)
	}
	if valid {
		t.Error("Discard did not clear the cache flag")
	}
	partitions, err = repo.Partitions(ctx)
	if err != nil {
		t.Fatalf("Partitions failed: %v", err)
	}
	if len(partitions) != 0 {
		t.Errorf("partitions survived discard: %d", len(partitions))
	}
	all, err = segments.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 raw segments after discard, got %d", len(all))
	}
}

func TestDerivedRepository_CommitReusesCoincidingSegment(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewDerivedRepository(db)
	ctx := context.Background()

	source := seedKit(t, db, "S")
	target1 := seedKit(t, db, "T1")
	target2 := seedKit(t, db, "T2")
	// The imputed interval happens to equal an existing raw segment.
	raw := seedSegment(t, db, "1", 150, 200, 5)

	data := &secondary.DerivedData{
		Imputed: []*secondary.SegmentRecord{
			{Chromosome: "1", StartBP: 150, EndBP: 200, LengthCM: 4.9, Imputed: true},
		},
		Negatives: []*secondary.DerivedNegative{
			{Source: source, Target1: target1, Target2: target2, Segment1: raw, Segment2: raw, OverlapIdx: 0, NegIdx: 0},
		},
	}
	if err := repo.Commit(ctx, data); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM segments").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("coinciding imputed segment created a new row: %d segments", count)
	}

	negatives, err := sqlite.NewNegativeRepository(db).List(ctx)
	if err != nil {
		t.Fatalf("List negatives failed: %v", err)
	}
	if negatives[0].NegSegment != raw {
		t.Errorf("negative does not reuse the raw segment id: %+v", negatives[0])
	}
}

func TestDerivedRepository_CommitRejectsBadIndex(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewDerivedRepository(db)
	ctx := context.Background()

	source := seedKit(t, db, "S")
	data := &secondary.DerivedData{
		Negatives: []*secondary.DerivedNegative{
			{Source: source, Target1: source, Target2: source, OverlapIdx: 0, NegIdx: 0},
		},
	}
	if err := repo.Commit(ctx, data); err == nil {
		t.Fatal("expected error for out-of-range imputed index, got nil")
	}

	// The failed commit must not have marked the cache valid.
	valid, err := sqlite.NewMetaRepository(db).CacheValid(ctx)
	if err != nil {
		t.Fatalf("CacheValid failed: %v", err)
	}
	if valid {
		t.Error("failed commit marked the cache valid")
	}
}
