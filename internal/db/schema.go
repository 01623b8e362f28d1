package db

import (
	"database/sql"
	"fmt"
)

// SchemaVersion is the schema version written into fresh project files.
const SchemaVersion = 1

// SchemaSQL is the complete schema for fresh kinship project files.
//
// This is the SINGLE SOURCE OF TRUTH for the project schema. All repository
// tests load it via GetSchemaSQL() so that test databases cannot drift from
// the schema shipped to users. When the schema changes, bump SchemaVersion,
// add a migration in migrations.go, and update this constant to match the
// fully migrated state.
//
// Raw relations (kits, segments, matches, triangles) are populated by import
// and are append-only; derived relations (partitions, segment_partitions,
// negatives, imputed segments) are regenerated wholesale by every build.
// Matches store the kit pair with kit1 < kit2; triangles store the kit triple
// with kit1 < kit2 < kit3. Redundant inserts are ignored so re-importing
// overlapping export files is idempotent.
const SchemaSQL = `
-- Project metadata (schema_version, cache_valid)
CREATE TABLE IF NOT EXISTS meta (
	key TEXT PRIMARY KEY,
	value TEXT NOT NULL
);

-- Kits (one tester's results, identified by the vendor kit number)
CREATE TABLE IF NOT EXISTS kits (
	id INTEGER PRIMARY KEY,
	kitid TEXT NOT NULL UNIQUE,
	name TEXT,
	email TEXT,
	sex TEXT
);

-- Segments (chromosome intervals; imputed rows are derived during build)
CREATE TABLE IF NOT EXISTS segments (
	id INTEGER PRIMARY KEY,
	chromosome TEXT NOT NULL,
	start_bp INTEGER NOT NULL,
	end_bp INTEGER NOT NULL,
	length_cm REAL,
	imputed INTEGER NOT NULL DEFAULT 0,
	UNIQUE(chromosome, start_bp, end_bp)
);
CREATE INDEX IF NOT EXISTS idx_segments_chromosome ON segments(chromosome);

-- Pairwise IBD matches (kit1 < kit2)
CREATE TABLE IF NOT EXISTS matches (
	segment INTEGER NOT NULL REFERENCES segments(id),
	kit1 INTEGER NOT NULL REFERENCES kits(id),
	kit2 INTEGER NOT NULL REFERENCES kits(id),
	UNIQUE(segment, kit1, kit2)
);
CREATE INDEX IF NOT EXISTS idx_matches_kit1 ON matches(kit1);
CREATE INDEX IF NOT EXISTS idx_matches_kit2 ON matches(kit2);

-- Positive triangulations (kit1 < kit2 < kit3)
CREATE TABLE IF NOT EXISTS triangles (
	segment INTEGER NOT NULL REFERENCES segments(id),
	kit1 INTEGER NOT NULL REFERENCES kits(id),
	kit2 INTEGER NOT NULL REFERENCES kits(id),
	kit3 INTEGER NOT NULL REFERENCES kits(id),
	UNIQUE(segment, kit1, kit2, kit3)
);
CREATE INDEX IF NOT EXISTS idx_triangles_kit1 ON triangles(kit1);
CREATE INDEX IF NOT EXISTS idx_triangles_kit2 ON triangles(kit2);
CREATE INDEX IF NOT EXISTS idx_triangles_kit3 ON triangles(kit3);

-- Atomic intervals derived from segment breakpoints (rebuilt every build)
CREATE TABLE IF NOT EXISTS partitions (
	id INTEGER PRIMARY KEY,
	chromosome TEXT NOT NULL,
	start_bp INTEGER NOT NULL,
	end_bp INTEGER NOT NULL,
	length_cm REAL
);
CREATE INDEX IF NOT EXISTS idx_partitions_chromosome ON partitions(chromosome);

-- Segment to partition membership (rebuilt every build)
CREATE TABLE IF NOT EXISTS segment_partitions (
	segment_id INTEGER NOT NULL REFERENCES segments(id),
	partition_id INTEGER NOT NULL REFERENCES partitions(id),
	UNIQUE(segment_id, partition_id)
);

-- Inferred negative triangulations (target1 < target2; rebuilt every build)
CREATE TABLE IF NOT EXISTS negatives (
	id INTEGER PRIMARY KEY,
	source INTEGER NOT NULL REFERENCES kits(id),
	target1 INTEGER NOT NULL REFERENCES kits(id),
	target2 INTEGER NOT NULL REFERENCES kits(id),
	segment1 INTEGER NOT NULL REFERENCES segments(id),
	segment2 INTEGER NOT NULL REFERENCES segments(id),
	overlap_segment INTEGER NOT NULL REFERENCES segments(id),
	neg_segment INTEGER NOT NULL REFERENCES segments(id),
	UNIQUE(source, target1, target2, neg_segment)
);
CREATE INDEX IF NOT EXISTS idx_negatives_source ON negatives(source);
`

// GetSchemaSQL returns the authoritative schema. Tests must use this instead
// of hardcoding CREATE TABLE statements.
func GetSchemaSQL() string {
	return SchemaSQL
}

// InitSchema creates all tables and seeds the metadata rows.
func InitSchema(database *sql.DB) error {
	if _, err := database.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	_, err := database.Exec(
		"INSERT OR IGNORE INTO meta (key, value) VALUES ('schema_version', ?), ('cache_valid', '0')",
		fmt.Sprintf("%d", SchemaVersion),
	)
	if err != nil {
		return fmt.Errorf("failed to seed metadata: %w", err)
	}

	return nil
}
