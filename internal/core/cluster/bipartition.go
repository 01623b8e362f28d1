package cluster

import (
	"math"
	"sort"
)

// greedySplit approximates a minimum-weight cut between the two seed sets of
// one connected component. Seeds are fixed to their branch; every other kit
// is assigned, highest-confidence first, to the side it is more attached to.
//
// Confidence is the absolute difference between a kit's total edge weight to
// already-maternal kits and to already-paternal kits. After each assignment
// the affinities of the still-unassigned kits change, so the maximum is
// re-evaluated every round. All ties break on ascending kit id, which makes
// the split reproducible for a fixed graph.
func greedySplit(comp []int64, g *graph, maternalSeeds, paternalSeeds map[int64]bool) (maternal, paternal []int64) {
	const (
		sideMaternal = 1
		sidePaternal = 2
	)

	side := make(map[int64]int, len(comp))
	var remaining []int64
	for _, k := range comp {
		switch {
		case maternalSeeds[k]:
			side[k] = sideMaternal
		case paternalSeeds[k]:
			side[k] = sidePaternal
		default:
			remaining = append(remaining, k)
		}
	}

	// Neighbors are summed in ascending kit order: float addition is not
	// associative, so map iteration order would make near-ties flip sides
	// between runs.
	neighbors := make(map[int64][]int64, len(comp))
	for _, k := range comp {
		ns := make([]int64, 0, len(g.adj[k]))
		for n := range g.adj[k] {
			ns = append(ns, n)
		}
		sort.Slice(ns, func(i, j int) bool { return ns[i] < ns[j] })
		neighbors[k] = ns
	}

	affinity := func(kit int64) (toMaternal, toPaternal float64) {
		for _, n := range neighbors[kit] {
			switch side[n] {
			case sideMaternal:
				toMaternal += g.adj[kit][n]
			case sidePaternal:
				toPaternal += g.adj[kit][n]
			}
		}
		return
	}

	for len(remaining) > 0 {
		bestIdx := -1
		bestGap := math.Inf(-1)
		bestMaternal := false
		for i, k := range remaining {
			m, p := affinity(k)
			gap := math.Abs(m - p)
			if gap > bestGap {
				bestIdx = i
				bestGap = gap
				bestMaternal = m >= p
			}
		}

		kit := remaining[bestIdx]
		if bestMaternal {
			side[kit] = sideMaternal
		} else {
			side[kit] = sidePaternal
		}
		remaining = append(remaining[:bestIdx], remaining[bestIdx+1:]...)
	}

	for _, k := range comp {
		if side[k] == sideMaternal {
			maternal = append(maternal, k)
		} else {
			paternal = append(paternal, k)
		}
	}
	return maternal, paternal
}
