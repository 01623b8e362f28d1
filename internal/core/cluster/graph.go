// Package cluster contains the pure clustering logic: a weighted closeness
// graph over kits, recursively bipartitioned into maternal and paternal
// branches around user-supplied seed kits.
package cluster

import "sort"

// PairWeight is the aggregated pairwise match weight between two kits.
type PairWeight struct {
	Kit1     int64
	Kit2     int64
	WeightCM float64
}

// TriangleWeight is one positive triangulation with its segment length.
type TriangleWeight struct {
	Kit1     int64
	Kit2     int64
	Kit3     int64
	LengthCM float64
}

// NegativeWeight is one inferred negative triangulation with the genetic
// length of its non-matching sub-segment.
type NegativeWeight struct {
	Source   int64
	Target1  int64
	Target2  int64
	LengthCM float64
}

// graph is an undirected weighted closeness graph over a candidate kit set.
type graph struct {
	kits []int64 // ascending
	adj  map[int64]map[int64]float64
}

func newGraph(candidates []int64) *graph {
	g := &graph{
		kits: append([]int64(nil), candidates...),
		adj:  make(map[int64]map[int64]float64, len(candidates)),
	}
	sort.Slice(g.kits, func(i, j int) bool { return g.kits[i] < g.kits[j] })
	for _, k := range g.kits {
		g.adj[k] = make(map[int64]float64)
	}
	return g
}

func (g *graph) has(kit int64) bool {
	_, ok := g.adj[kit]
	return ok
}

func (g *graph) addWeight(a, b int64, w float64) {
	if a == b || !g.has(a) || !g.has(b) {
		return
	}
	g.adj[a][b] += w
	g.adj[b][a] += w
}

// components returns the connected components in deterministic order:
// each component's kits ascending, components ordered by smallest member.
// Edges of any sign connect; isolated kits form singleton components.
func (g *graph) components() [][]int64 {
	visited := make(map[int64]bool, len(g.kits))
	var comps [][]int64

	for _, start := range g.kits {
		if visited[start] {
			continue
		}
		comp := []int64{}
		queue := []int64{start}
		visited[start] = true
		for len(queue) > 0 {
			k := queue[0]
			queue = queue[1:]
			comp = append(comp, k)

			neighbors := make([]int64, 0, len(g.adj[k]))
			for n, w := range g.adj[k] {
				if w != 0 && !visited[n] {
					neighbors = append(neighbors, n)
				}
			}
			sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
			for _, n := range neighbors {
				visited[n] = true
				queue = append(queue, n)
			}
		}
		sort.Slice(comp, func(i, j int) bool { return comp[i] < comp[j] })
		comps = append(comps, comp)
	}
	return comps
}

// hasNegativeEdge reports whether any edge inside the component carries
// negative weight.
func (g *graph) hasNegativeEdge(comp []int64) bool {
	inComp := make(map[int64]bool, len(comp))
	for _, k := range comp {
		inComp[k] = true
	}
	for _, k := range comp {
		for n, w := range g.adj[k] {
			if w < 0 && inComp[n] {
				return true
			}
		}
	}
	return false
}
