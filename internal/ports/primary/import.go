// Package primary defines the primary ports (driving adapters) for the
// application: the service interfaces the CLI talks to, with their
// request/response types.
package primary

import "context"

// ImportService ingests clean, deduplicated raw records handed over by an
// import collaborator such as the GEDmatch file adapter. Every import
// invalidates the derived-data cache.
type ImportService interface {
	// ImportMatches upserts pairwise match records by natural key.
	ImportMatches(ctx context.Context, records []MatchImport) (*ImportSummary, error)

	// ImportTriangles upserts triangulation records by natural key.
	ImportTriangles(ctx context.Context, records []TriangleImport) (*ImportSummary, error)
}

// MatchImport is one pairwise match row from an export file. Kit1 is the
// primary kit; name/email/sex describe the matched kit (Kit2) and are kept
// only if the kit has no details yet.
type MatchImport struct {
	Kit1       string
	Kit2       string
	Chromosome string
	StartBP    int64
	EndBP      int64
	LengthCM   float64

	MatchedName  string
	MatchedEmail string
	MatchedSex   string
}

// TriangleImport is one triangulation row from an export file. Kit1 is the
// source kit the export was generated for; details describe kits 2 and 3.
type TriangleImport struct {
	Kit1       string
	Kit2       string
	Kit3       string
	Chromosome string
	StartBP    int64
	EndBP      int64
	LengthCM   float64

	Kit2Name  string
	Kit2Email string
	Kit3Name  string
	Kit3Email string
}

// ImportSummary counts what an import actually added.
type ImportSummary struct {
	Rows         int
	NewKits      int
	NewSegments  int
	NewMatches   int
	NewTriangles int
}
