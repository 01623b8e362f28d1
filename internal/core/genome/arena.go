// Package genome contains the pure interval model shared by the build
// pipeline: the partition arena that decomposes a chromosome's segments into
// atomic intervals, and the crossover-rate fit that assigns each atomic
// interval an estimated genetic length.
//
// Partitions are addressed by index. Segments and derived intervals are
// expressed as index runs into the arena, which turns interval overlap and
// difference into integer arithmetic instead of coordinate comparisons.
package genome

import (
	"fmt"
	"sort"
)

// Segment is a contiguous chromosome interval with a genetic length in
// centiMorgans. Imputed segments are derived during a build rather than read
// from source data.
type Segment struct {
	ID         int64
	Chromosome string
	StartBP    int64
	EndBP      int64
	LengthCM   float64
	Imputed    bool
}

// PhysLength returns the segment's physical length in base pairs.
func (s Segment) PhysLength() int64 { return s.EndBP - s.StartBP }

// Partition is one atomic interval [StartBP, EndBP). LengthCM is zero until
// FitRates has run.
type Partition struct {
	StartBP  int64
	EndBP    int64
	LengthCM float64
}

// Run is a half-open range [Lo, Hi) of partition indexes.
type Run struct {
	Lo, Hi int
}

// Empty reports whether the run contains no partitions.
func (r Run) Empty() bool { return r.Hi <= r.Lo }

// Len returns the number of partitions in the run.
func (r Run) Len() int {
	if r.Empty() {
		return 0
	}
	return r.Hi - r.Lo
}

// Intersect returns the overlap of two runs.
func (r Run) Intersect(o Run) Run {
	lo := r.Lo
	if o.Lo > lo {
		lo = o.Lo
	}
	hi := r.Hi
	if o.Hi < hi {
		hi = o.Hi
	}
	if hi < lo {
		hi = lo
	}
	return Run{Lo: lo, Hi: hi}
}

// Subtract removes the given runs from r and returns the maximal contiguous
// runs that remain, in ascending order.
func (r Run) Subtract(covered []Run) []Run {
	if r.Empty() {
		return nil
	}

	overlaps := make([]Run, 0, len(covered))
	for _, c := range covered {
		if o := r.Intersect(c); !o.Empty() {
			overlaps = append(overlaps, o)
		}
	}
	sort.Slice(overlaps, func(i, j int) bool { return overlaps[i].Lo < overlaps[j].Lo })

	var out []Run
	lo := r.Lo
	for _, o := range overlaps {
		if o.Lo > lo {
			out = append(out, Run{Lo: lo, Hi: o.Lo})
		}
		if o.Hi > lo {
			lo = o.Hi
		}
	}
	if lo < r.Hi {
		out = append(out, Run{Lo: lo, Hi: r.Hi})
	}
	return out
}

// Arena is the atomic interval decomposition of one chromosome. Partitions
// are ordered, non-overlapping, and cover exactly the union of the input
// segment spans: an interval between two disjoint segments is not covered by
// any segment and gets no partition.
type Arena struct {
	Chromosome string
	Partitions []Partition
}

// BuildArena decomposes the segments on the given chromosome into atomic
// partitions. Segments on other chromosomes are ignored so callers may pass
// an unfiltered slice.
func BuildArena(chromosome string, segments []Segment) (*Arena, error) {
	var own []Segment
	for _, s := range segments {
		if s.Chromosome != chromosome {
			continue
		}
		if s.EndBP <= s.StartBP {
			return nil, fmt.Errorf("segment %d on chromosome %s has invalid span [%d, %d)", s.ID, chromosome, s.StartBP, s.EndBP)
		}
		own = append(own, s)
	}

	bounds := make(map[int64]struct{}, 2*len(own))
	for _, s := range own {
		bounds[s.StartBP] = struct{}{}
		bounds[s.EndBP] = struct{}{}
	}
	points := make([]int64, 0, len(bounds))
	for p := range bounds {
		points = append(points, p)
	}
	sort.Slice(points, func(i, j int) bool { return points[i] < points[j] })

	// Candidate partitions are consecutive breakpoint pairs; only those
	// actually inside some segment's span are kept.
	covered := make([]bool, 0, len(points))
	candidates := make([]Partition, 0, len(points))
	for i := 1; i < len(points); i++ {
		candidates = append(candidates, Partition{StartBP: points[i-1], EndBP: points[i]})
		covered = append(covered, false)
	}
	for _, s := range own {
		lo := sort.Search(len(candidates), func(i int) bool { return candidates[i].StartBP >= s.StartBP })
		hi := sort.Search(len(candidates), func(i int) bool { return candidates[i].EndBP > s.EndBP })
		for i := lo; i < hi; i++ {
			covered[i] = true
		}
	}

	a := &Arena{Chromosome: chromosome}
	for i, c := range candidates {
		if covered[i] {
			a.Partitions = append(a.Partitions, c)
		}
	}
	return a, nil
}

// RunFor returns the run of partitions fully contained in [startBP, endBP).
func (a *Arena) RunFor(startBP, endBP int64) Run {
	lo := sort.Search(len(a.Partitions), func(i int) bool { return a.Partitions[i].StartBP >= startBP })
	hi := sort.Search(len(a.Partitions), func(i int) bool { return a.Partitions[i].EndBP > endBP })
	if hi < lo {
		hi = lo
	}
	return Run{Lo: lo, Hi: hi}
}

// SegmentRun returns the run of partitions whose union equals the segment's
// span. For a segment that contributed its breakpoints to the arena the run
// tiles the span exactly.
func (a *Arena) SegmentRun(s Segment) Run {
	return a.RunFor(s.StartBP, s.EndBP)
}

// Span returns the physical interval covered by a run. The run must be
// physically contiguous, which holds for any run derived from intersecting
// segment runs.
func (a *Arena) Span(r Run) (startBP, endBP int64) {
	if r.Empty() {
		return 0, 0
	}
	return a.Partitions[r.Lo].StartBP, a.Partitions[r.Hi-1].EndBP
}

// LengthCM sums the estimated genetic lengths of the partitions in a run.
func (a *Arena) LengthCM(r Run) float64 {
	var sum float64
	for i := r.Lo; i < r.Hi && i < len(a.Partitions); i++ {
		sum += a.Partitions[i].LengthCM
	}
	return sum
}

// PhysLength sums the physical lengths of the partitions in a run.
func (a *Arena) PhysLength(r Run) int64 {
	var sum int64
	for i := r.Lo; i < r.Hi && i < len(a.Partitions); i++ {
		sum += a.Partitions[i].EndBP - a.Partitions[i].StartBP
	}
	return sum
}
