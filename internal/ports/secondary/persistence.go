// Package secondary defines the secondary ports (driven adapters) for the
// application: the interfaces through which it reaches the record store.
package secondary

import "context"

// MetaRepository accesses the project metadata relation, including the
// derived-data cache validity flag.
type MetaRepository interface {
	// Get returns the value for a metadata key.
	Get(ctx context.Context, key string) (string, error)

	// CacheValid reports whether the derived relations are consistent
	// with the current raw data.
	CacheValid(ctx context.Context) (bool, error)

	// SetCacheValid flips the cache validity flag.
	SetCacheValid(ctx context.Context, valid bool) error
}

// KitRepository persists kits. Kits are created on first reference during
// import and never change identity afterwards.
type KitRepository interface {
	// Ensure creates the kit with the given natural id if it does not
	// exist and returns its store id. created reports a fresh insert.
	Ensure(ctx context.Context, kitid string) (id int64, created bool, err error)

	// FillDetails sets name/email/sex on a kit, but only fields that are
	// still unset, so earlier imports win.
	FillDetails(ctx context.Context, id int64, name, email, sex string) error

	// List returns all kits ordered by store id.
	List(ctx context.Context) ([]*KitRecord, error)
}

// SegmentRepository persists segments, raw and imputed.
type SegmentRepository interface {
	// Ensure inserts the segment unless an identical-coordinate row
	// exists, and returns the store id either way. A raw segment landing
	// on an imputed row promotes the row to raw with the recorded length,
	// so a later build's discard cannot orphan references to it.
	Ensure(ctx context.Context, rec *SegmentRecord) (id int64, created bool, err error)

	// List returns all segments ordered by store id.
	List(ctx context.Context) ([]*SegmentRecord, error)
}

// MatchRepository persists pairwise matches (kit1 < kit2).
type MatchRepository interface {
	// Ensure inserts the match; duplicate rows are ignored.
	Ensure(ctx context.Context, rec *MatchRecord) (created bool, err error)

	// List returns all matches.
	List(ctx context.Context) ([]*MatchRecord, error)

	// PairWeights aggregates, per kit pair, the summed genetic length of
	// all shared segments at least minLengthCM long.
	PairWeights(ctx context.Context, minLengthCM float64) ([]*PairWeightRecord, error)

	// XMatchKits returns the distinct kits sharing an X-chromosome
	// segment of at least minLengthCM with the given kit, ascending by
	// store id.
	XMatchKits(ctx context.Context, kit int64, minLengthCM float64) ([]int64, error)
}

// TriangleRepository persists positive triangulations (kit1 < kit2 < kit3).
type TriangleRepository interface {
	// Ensure inserts the triangle; duplicate rows are ignored.
	Ensure(ctx context.Context, rec *TriangleRecord) (created bool, err error)

	// List returns all triangles.
	List(ctx context.Context) ([]*TriangleRecord, error)

	// TriangleWeights returns all triangles with their segment lengths,
	// filtered to segments at least minLengthCM long.
	TriangleWeights(ctx context.Context, minLengthCM float64) ([]*TriangleWeightRecord, error)
}

// NegativeRepository reads inferred negative triangulations. Writing happens
// only through DerivedRepository.Commit.
type NegativeRepository interface {
	// List returns all negative records.
	List(ctx context.Context) ([]*NegativeRecord, error)

	// NegativeWeights returns all negatives with the genetic length of
	// their non-matching sub-segment, filtered to at least minLengthCM.
	NegativeWeights(ctx context.Context, minLengthCM float64) ([]*NegativeWeightRecord, error)
}

// DerivedRepository owns the derived relations as a unit: partitions,
// segment-partition memberships, imputed segments and negatives. Discard and
// Commit are each a single transaction so a build is never half-applied.
type DerivedRepository interface {
	// Discard removes all derived rows and clears the cache flag.
	Discard(ctx context.Context) error

	// Commit writes a full set of derived data and marks the cache valid,
	// atomically.
	Commit(ctx context.Context, data *DerivedData) error

	// Partitions returns all partitions ordered by id.
	Partitions(ctx context.Context) ([]*PartitionRecord, error)

	// Memberships returns all segment-partition rows ordered by
	// (segment, partition).
	Memberships(ctx context.Context) ([]*SegmentPartitionRecord, error)
}

// StatsRepository reports relation sizes for the status surface.
type StatsRepository interface {
	Counts(ctx context.Context) (*StoreCounts, error)
}

// KitRecord is a kit as stored.
type KitRecord struct {
	ID    int64
	KitID string
	Name  string
	Email string
	Sex   string
}

// SegmentRecord is a segment as stored.
type SegmentRecord struct {
	ID         int64
	Chromosome string
	StartBP    int64
	EndBP      int64
	LengthCM   float64
	Imputed    bool
}

// MatchRecord is a pairwise match as stored; Kit1 < Kit2.
type MatchRecord struct {
	Segment int64
	Kit1    int64
	Kit2    int64
}

// TriangleRecord is a triangulation as stored; Kit1 < Kit2 < Kit3.
type TriangleRecord struct {
	Segment int64
	Kit1    int64
	Kit2    int64
	Kit3    int64
}

// PartitionRecord is one atomic interval as stored.
type PartitionRecord struct {
	ID         int64
	Chromosome string
	StartBP    int64
	EndBP      int64
	LengthCM   float64
}

// SegmentPartitionRecord relates a segment to one member partition.
type SegmentPartitionRecord struct {
	SegmentID   int64
	PartitionID int64
}

// NegativeRecord is an inferred negative triangulation as stored;
// Target1 < Target2.
type NegativeRecord struct {
	ID             int64
	Source         int64
	Target1        int64
	Target2        int64
	Segment1       int64
	Segment2       int64
	OverlapSegment int64
	NegSegment     int64
}

// PairWeightRecord is the aggregated match weight for one kit pair.
type PairWeightRecord struct {
	Kit1     int64
	Kit2     int64
	WeightCM float64
}

// TriangleWeightRecord is one triangle with its segment's genetic length.
type TriangleWeightRecord struct {
	Kit1     int64
	Kit2     int64
	Kit3     int64
	LengthCM float64
}

// NegativeWeightRecord is one negative with its sub-segment's genetic length.
type NegativeWeightRecord struct {
	Source   int64
	Target1  int64
	Target2  int64
	LengthCM float64
}

// DerivedData is one build's complete derived output. Imputed segments are
// identified by position in Imputed; DerivedNegative references them by
// index because store ids are only assigned inside the commit transaction.
type DerivedData struct {
	Partitions  []*PartitionRecord
	Memberships []*SegmentPartitionRecord
	Imputed     []*SegmentRecord
	Negatives   []*DerivedNegative
}

// DerivedNegative is a negative record prior to segment id resolution.
type DerivedNegative struct {
	Source     int64
	Target1    int64
	Target2    int64
	Segment1   int64
	Segment2   int64
	OverlapIdx int // index into DerivedData.Imputed
	NegIdx     int // index into DerivedData.Imputed
}

// StoreCounts summarizes relation sizes.
type StoreCounts struct {
	Kits            int
	Segments        int
	ImputedSegments int
	Matches         int
	Triangles       int
	Partitions      int
	Negatives       int
}
