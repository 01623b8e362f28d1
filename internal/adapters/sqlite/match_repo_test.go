package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/kinship/internal/adapters/sqlite"
	"github.com/example/kinship/internal/ports/secondary"
)

func TestMatchRepository_Ensure(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewMatchRepository(db)
	ctx := context.Background()

	kit1 := seedKit(t, db, "A")
	kit2 := seedKit(t, db, "B")
	seg := seedSegment(t, db, "1", 100, 200, 10)

	created, err := repo.Ensure(ctx, &secondary.MatchRecord{Segment: seg, Kit1: kit1, Kit2: kit2})
	if err != nil {
		t.Fatalf("Ensure failed: %v", err)
	}
	if !created {
		t.Error("first Ensure did not report a fresh insert")
	}

	created, err = repo.Ensure(ctx, &secondary.MatchRecord{Segment: seg, Kit1: kit1, Kit2: kit2})
	if err != nil {
		t.Fatalf("second Ensure failed: %v", err)
	}
	if created {
		t.Error("duplicate match was not ignored")
	}

	matches, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
}

func TestMatchRepository_PairWeights(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewMatchRepository(db)
	ctx := context.Background()

	kitA := seedKit(t, db, "A")
	kitB := seedKit(t, db, "B")
	kitC := seedKit(t, db, "C")
	long := seedSegment(t, db, "1", 100, 200, 10)
	short := seedSegment(t, db, "1", 300, 400, 5)
	seedMatch(t, db, long, kitA, kitB)
	seedMatch(t, db, short, kitA, kitB)
	seedMatch(t, db, short, kitA, kitC)

	weights, err := repo.PairWeights(ctx, 0)
	if err != nil {
		t.Fatalf("PairWeights failed: %v", err)
	}
	if len(weights) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(weights))
	}
	if weights[0].Kit1 != kitA || weights[0].Kit2 != kitB || weights[0].WeightCM != 15 {
		t.Errorf("unexpected first pair: %+v", weights[0])
	}
	if weights[1].Kit1 != kitA || weights[1].Kit2 != kitC || weights[1].WeightCM != 5 {
		t.Errorf("unexpected second pair: %+v", weights[1])
	}

	// Short segments drop out under a minimum length.
	weights, err = repo.PairWeights(ctx, 6)
	if err != nil {
		t.Fatalf("PairWeights failed: %v", err)
	}
	if len(weights) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(weights))
	}
	if weights[0].Kit1 != kitA || weights[0].Kit2 != kitB || weights[0].WeightCM != 10 {
		t.Errorf("unexpected filtered pair: %+v", weights[0])
	}
}

func TestMatchRepository_XMatchKits(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewMatchRepository(db)
	ctx := context.Background()

	kitA := seedKit(t, db, "A")
	kitB := seedKit(t, db, "B")
	kitC := seedKit(t, db, "C")
	kitD := seedKit(t, db, "D")
	kitE := seedKit(t, db, "E")
	xLong := seedSegment(t, db, "X", 100, 200, 12)
	xShort := seedSegment(t, db, "X", 300, 400, 4)
	autosomal := seedSegment(t, db, "1", 100, 200, 10)
	seedMatch(t, db, xLong, kitA, kitB)     // B as kit2
	seedMatch(t, db, xLong, kitB, kitE)     // B as kit1
	seedMatch(t, db, xShort, kitB, kitC)    // below the minimum
	seedMatch(t, db, autosomal, kitB, kitD) // not the X chromosome

	partners, err := repo.XMatchKits(ctx, kitB, 6)
	if err != nil {
		t.Fatalf("XMatchKits failed: %v", err)
	}
	want := []int64{kitA, kitE}
	if len(partners) != len(want) || partners[0] != want[0] || partners[1] != want[1] {
		t.Errorf("expected partners %v, got %v", want, partners)
	}

	// Without the length floor the short X match counts too.
	partners, err = repo.XMatchKits(ctx, kitB, 0)
	if err != nil {
		t.Fatalf("XMatchKits failed: %v", err)
	}
	if len(partners) != 3 {
		t.Errorf("expected 3 partners, got %v", partners)
	}
}
