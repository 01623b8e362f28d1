package cluster

import "sort"

// SeedNode is one node of the resolved seed tree. Children, when present,
// hold at most two nodes: index 0 is the maternal branch, index 1 the
// paternal branch. Kit ids are store ids, resolved from the user-authored
// tree specification before the engine runs.
type SeedNode struct {
	Maternal []int64
	Paternal []int64
	Children []*SeedNode
}

func (n *SeedNode) maternalChild() *SeedNode {
	if n == nil || len(n.Children) < 1 {
		return nil
	}
	return n.Children[0]
}

func (n *SeedNode) paternalChild() *SeedNode {
	if n == nil || len(n.Children) < 2 {
		return nil
	}
	return n.Children[1]
}

// subtreeSeeds collects every seed kit declared at the node or below it.
func (n *SeedNode) subtreeSeeds(into map[int64]bool) {
	if n == nil {
		return
	}
	for _, k := range n.Maternal {
		into[k] = true
	}
	for _, k := range n.Paternal {
		into[k] = true
	}
	for _, c := range n.Children {
		c.subtreeSeeds(into)
	}
}

// Engine assigns kits to tree branches from weighted match data.
//
// Edge weights combine three signals: pairwise match lengths (scaled by
// PairwiseFactor), positive triangle lengths for triangles containing an
// active seed (credited to the pair of non-seed kits), and negative
// triangulation lengths for an active seed source (a penalty between the two
// targets). Active seeds at a node are those declared at the node or any
// ancestor.
type Engine struct {
	Pairs     []PairWeight
	Triangles []TriangleWeight
	Negatives []NegativeWeight

	// PairwiseFactor scales match weights relative to triangle weights.
	// Zero means 1.0.
	PairwiseFactor float64

	// MaxDepth caps the number of split levels. Zero means unlimited.
	MaxDepth int
}

// Run clusters the kit universe against the seed tree and returns a branch
// label per kit: one character per split level, "M" or "P", root first.
// Kits in no component reachable from a seed keep the empty label,
// meaning unclassified.
func (e *Engine) Run(tree *SeedNode, universe []int64) map[int64]string {
	labels := make(map[int64]string, len(universe))
	candidates := make([]int64, 0, len(universe))
	for _, k := range universe {
		labels[k] = ""
		candidates = append(candidates, k)
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

	e.splitNode(tree, candidates, map[int64]bool{}, "", 0, labels)
	return labels
}

func (e *Engine) splitNode(node *SeedNode, candidates []int64, ancestorSeeds map[int64]bool, prefix string, depth int, labels map[int64]string) {
	if node == nil || len(candidates) == 0 {
		return
	}
	if e.MaxDepth > 0 && depth >= e.MaxDepth {
		return
	}

	active := make(map[int64]bool, len(ancestorSeeds)+len(node.Maternal)+len(node.Paternal))
	for k := range ancestorSeeds {
		active[k] = true
	}
	for _, k := range node.Maternal {
		active[k] = true
	}
	for _, k := range node.Paternal {
		active[k] = true
	}

	maternalSeeds := make(map[int64]bool)
	for _, k := range node.Maternal {
		maternalSeeds[k] = true
	}
	node.maternalChild().subtreeSeeds(maternalSeeds)

	paternalSeeds := make(map[int64]bool)
	for _, k := range node.Paternal {
		paternalSeeds[k] = true
	}
	node.paternalChild().subtreeSeeds(paternalSeeds)

	if len(maternalSeeds) == 0 && len(paternalSeeds) == 0 {
		return
	}

	g := e.buildGraph(candidates, active)

	var maternal, paternal []int64
	for _, comp := range g.components() {
		hasM, hasP := false, false
		for _, k := range comp {
			hasM = hasM || maternalSeeds[k]
			hasP = hasP || paternalSeeds[k]
		}

		switch {
		case !hasM && !hasP:
			// No seed reaches this component; its kits stay unclassified.
		case hasM && !hasP && !g.hasNegativeEdge(comp):
			maternal = append(maternal, comp...)
		case hasP && !hasM && !g.hasNegativeEdge(comp):
			paternal = append(paternal, comp...)
		default:
			m, p := greedySplit(comp, g, maternalSeeds, paternalSeeds)
			maternal = append(maternal, m...)
			paternal = append(paternal, p...)
		}
	}

	sort.Slice(maternal, func(i, j int) bool { return maternal[i] < maternal[j] })
	sort.Slice(paternal, func(i, j int) bool { return paternal[i] < paternal[j] })
	for _, k := range maternal {
		labels[k] = prefix + "M"
	}
	for _, k := range paternal {
		labels[k] = prefix + "P"
	}

	e.splitNode(node.maternalChild(), maternal, active, prefix+"M", depth+1, labels)
	e.splitNode(node.paternalChild(), paternal, active, prefix+"P", depth+1, labels)
}

func (e *Engine) buildGraph(candidates []int64, activeSeeds map[int64]bool) *graph {
	g := newGraph(candidates)

	factor := e.PairwiseFactor
	if factor == 0 {
		factor = 1.0
	}
	for _, p := range e.Pairs {
		g.addWeight(p.Kit1, p.Kit2, factor*p.WeightCM)
	}

	for _, t := range e.Triangles {
		if activeSeeds[t.Kit1] {
			g.addWeight(t.Kit2, t.Kit3, t.LengthCM)
		}
		if activeSeeds[t.Kit2] {
			g.addWeight(t.Kit1, t.Kit3, t.LengthCM)
		}
		if activeSeeds[t.Kit3] {
			g.addWeight(t.Kit1, t.Kit2, t.LengthCM)
		}
	}

	for _, n := range e.Negatives {
		if activeSeeds[n.Source] {
			g.addWeight(n.Target1, n.Target2, -n.LengthCM)
		}
	}

	return g
}
