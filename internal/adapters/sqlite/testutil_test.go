// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for
// tests. All test setup uses db.InitSchema so tests run against the
// authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Use setupTestDB()
// and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/kinship/internal/db"
)

// setupTestDB creates an in-memory project database with the authoritative
// schema and metadata rows. This is the single shared setup function for all
// repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}

	if err := db.InitSchema(testDB); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedKit inserts a test kit and returns its store id.
func seedKit(t *testing.T, db *sql.DB, kitid string) int64 {
	t.Helper()
	result, err := db.Exec("INSERT INTO kits (kitid) VALUES (?)", kitid)
	if err != nil {
		t.Fatalf("failed to seed kit: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read kit id: %v", err)
	}
	return id
}

// seedSegment inserts a test segment and returns its store id.
func seedSegment(t *testing.T, db *sql.DB, chromosome string, startBP, endBP int64, lengthCM float64) int64 {
	t.Helper()
	result, err := db.Exec(
		"INSERT INTO segments (chromosome, start_bp, end_bp, length_cm) VALUES (?, ?, ?, ?)",
		chromosome, startBP, endBP, lengthCM,
	)
	if err != nil {
		t.Fatalf("failed to seed segment: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read segment id: %v", err)
	}
	return id
}

// seedMatch inserts a test match row.
func seedMatch(t *testing.T, db *sql.DB, segment, kit1, kit2 int64) {
	t.Helper()
	_, err := db.Exec("INSERT INTO matches (segment, kit1, kit2) VALUES (?, ?, ?)", segment, kit1, kit2)
	if err != nil {
		t.Fatalf("failed to seed match: %v", err)
	}
}

// seedTriangle inserts a test triangle row.
func seedTriangle(t *testing.T, db *sql.DB, segment, kit1, kit2, kit3 int64) {
	t.Helper()
	_, err := db.Exec("INSERT INTO triangles (segment, kit1, kit2, kit3) VALUES (?, ?, ?, ?)", segment, kit1, kit2, kit3)
	if err != nil {
		t.Fatalf("failed to seed triangle: %v", err)
	}
}

// seedNegative inserts a test negative row and returns its id.
func seedNegative(t *testing.T, db *sql.DB, source, target1, target2, segment1, segment2, overlapSegment, negSegment int64) int64 {
	t.Helper()
	result, err := db.Exec(`
		INSERT INTO negatives (source, target1, target2, segment1, segment2, overlap_segment, neg_segment)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		source, target1, target2, segment1, segment2, overlapSegment, negSegment,
	)
	if err != nil {
		t.Fatalf("failed to seed negative: %v", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read negative id: %v", err)
	}
	return id
}
