package primary

import "context"

// BuildService recomputes the derived relations: the partition arena, the
// per-partition genetic lengths, and the inferred negative triangulations.
// A build is all-or-nothing; the cache flag is set only on full success.
type BuildService interface {
	// Build runs the pipeline. With force false, a project whose cache is
	// already valid is not rebuilt.
	Build(ctx context.Context, force bool) (*BuildSummary, error)
}

// BuildSummary reports what a build produced.
type BuildSummary struct {
	Chromosomes     int
	Partitions      int
	ImputedSegments int
	Negatives       int
}
