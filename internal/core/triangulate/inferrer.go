// Package triangulate infers negative triangulations: places where two kits
// each match a common source on overlapping segments but the triple was
// never reported as triangulating, which is evidence the two targets sit on
// different branches of the source's tree.
package triangulate

import (
	"sort"

	"github.com/example/kinship/internal/core/genome"
)

// Match is a pairwise IBD match on a segment.
type Match struct {
	SegmentID int64
	Kit1      int64
	Kit2      int64
}

// Triangle is a reported three-way triangulation on a segment.
type Triangle struct {
	SegmentID int64
	Kit1      int64
	Kit2      int64
	Kit3      int64
}

// Negative is an inferred non-triangulation: within Overlap, the run where
// both targets match the source, Neg is the sub-run never covered by a
// positive triangle of the triple. Target1 < Target2.
type Negative struct {
	Source   int64
	Target1  int64
	Target2  int64
	Segment1 int64 // segment matching Source with Target1
	Segment2 int64 // segment matching Source with Target2
	Overlap  genome.Run
	Neg      genome.Run
}

type sourceMatch struct {
	segmentID int64
	target    int64
	run       genome.Run
}

// Infer discovers all negative triangulations on the arena's chromosome.
// The result is deterministic: sources are visited in ascending kit order,
// their match pairs in ascending (segment, target) order, and the output is
// sorted. Identical (source, target1, target2, neg run) findings from
// different segment pairs collapse to the first one found.
//
// The cost is quadratic in the matches per source kit, so pairs are pruned
// by partition-run intersection before any further work.
func Infer(arena *genome.Arena, segments map[int64]genome.Segment, matches []Match, triangles []Triangle) []Negative {
	bySource := make(map[int64][]sourceMatch)
	addMatch := func(source, target, segmentID int64) {
		seg, ok := segments[segmentID]
		if !ok || seg.Chromosome != arena.Chromosome {
			return
		}
		run := arena.SegmentRun(seg)
		if run.Empty() {
			return
		}
		bySource[source] = append(bySource[source], sourceMatch{segmentID: segmentID, target: target, run: run})
	}
	for _, m := range matches {
		addMatch(m.Kit1, m.Kit2, m.SegmentID)
		addMatch(m.Kit2, m.Kit1, m.SegmentID)
	}

	triRuns := make(map[[3]int64][]genome.Run)
	for _, t := range triangles {
		seg, ok := segments[t.SegmentID]
		if !ok || seg.Chromosome != arena.Chromosome {
			continue
		}
		run := arena.RunFor(seg.StartBP, seg.EndBP)
		if run.Empty() {
			continue
		}
		key := tripleKey(t.Kit1, t.Kit2, t.Kit3)
		triRuns[key] = append(triRuns[key], run)
	}

	sources := make([]int64, 0, len(bySource))
	for s := range bySource {
		sources = append(sources, s)
	}
	sort.Slice(sources, func(i, j int) bool { return sources[i] < sources[j] })

	type negKey struct {
		target1, target2 int64
		lo, hi           int
	}

	var out []Negative
	for _, source := range sources {
		ms := bySource[source]
		sort.Slice(ms, func(i, j int) bool {
			if ms[i].segmentID != ms[j].segmentID {
				return ms[i].segmentID < ms[j].segmentID
			}
			return ms[i].target < ms[j].target
		})

		seen := make(map[negKey]bool)
		for i := 0; i < len(ms); i++ {
			for j := i + 1; j < len(ms); j++ {
				a, b := ms[i], ms[j]
				if a.target == b.target {
					continue
				}
				overlap := a.run.Intersect(b.run)
				if overlap.Empty() {
					continue
				}
				if b.target < a.target {
					a, b = b, a
				}

				remaining := overlap.Subtract(triRuns[tripleKey(source, a.target, b.target)])
				for _, neg := range remaining {
					key := negKey{target1: a.target, target2: b.target, lo: neg.Lo, hi: neg.Hi}
					if seen[key] {
						continue
					}
					seen[key] = true
					out = append(out, Negative{
						Source:   source,
						Target1:  a.target,
						Target2:  b.target,
						Segment1: a.segmentID,
						Segment2: b.segmentID,
						Overlap:  overlap,
						Neg:      neg,
					})
				}
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Source != b.Source {
			return a.Source < b.Source
		}
		if a.Target1 != b.Target1 {
			return a.Target1 < b.Target1
		}
		if a.Target2 != b.Target2 {
			return a.Target2 < b.Target2
		}
		if a.Neg.Lo != b.Neg.Lo {
			return a.Neg.Lo < b.Neg.Lo
		}
		return a.Neg.Hi < b.Neg.Hi
	})
	return out
}

func tripleKey(a, b, c int64) [3]int64 {
	if a > b {
		a, b = b, a
	}
	if b > c {
		b, c = c, b
	}
	if a > b {
		a, b = b, a
	}
	return [3]int64{a, b, c}
}
