package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/example/kinship/internal/config"
	"github.com/example/kinship/internal/core/cluster"
	"github.com/example/kinship/internal/ports/primary"
	"github.com/example/kinship/internal/ports/secondary"
)

// ClusterServiceImpl implements the ClusterService interface.
type ClusterServiceImpl struct {
	metaRepo     secondary.MetaRepository
	kitRepo      secondary.KitRepository
	matchRepo    secondary.MatchRepository
	triangleRepo secondary.TriangleRepository
	negativeRepo secondary.NegativeRepository
}

// NewClusterService creates a new ClusterService with injected dependencies.
func NewClusterService(
	metaRepo secondary.MetaRepository,
	kitRepo secondary.KitRepository,
	matchRepo secondary.MatchRepository,
	triangleRepo secondary.TriangleRepository,
	negativeRepo secondary.NegativeRepository,
) *ClusterServiceImpl {
	return &ClusterServiceImpl{
		metaRepo:     metaRepo,
		kitRepo:      kitRepo,
		matchRepo:    matchRepo,
		triangleRepo: triangleRepo,
		negativeRepo: negativeRepo,
	}
}

// Cluster resolves the user-authored seed tree against the kit store, loads
// the weighted match data, and runs the clustering engine. It refuses to run
// on stale derived data.
func (s *ClusterServiceImpl) Cluster(ctx context.Context, cfg *config.ClusterConfig) (*primary.ClusterResult, error) {
	valid, err := s.metaRepo.CacheValid(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache state: %w", err)
	}
	if !valid {
		return nil, ErrStaleCache
	}

	kits, err := s.kitRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list kits: %w", err)
	}
	byKitID := make(map[string]*secondary.KitRecord, len(kits))
	for _, k := range kits {
		byKitID[k.KitID] = k
	}

	excluded := make(map[string]bool, len(cfg.Exclude))
	for _, kitid := range cfg.Exclude {
		if _, ok := byKitID[kitid]; !ok {
			return nil, fmt.Errorf("excluded kit %s is not in the project", kitid)
		}
		excluded[kitid] = true
	}
	for _, kitid := range cfg.Seeds() {
		if excluded[kitid] {
			return nil, fmt.Errorf("seed kit %s is also excluded", kitid)
		}
	}

	universe := make([]int64, 0, len(kits))
	byID := make(map[int64]*secondary.KitRecord, len(kits))
	excludedIDs := make(map[int64]bool, len(excluded))
	for _, k := range kits {
		if excluded[k.KitID] {
			excludedIDs[k.ID] = true
			continue
		}
		universe = append(universe, k.ID)
		byID[k.ID] = k
	}

	// Kits the tree already seeds explicitly; autox expansion never
	// re-seeds or re-sides them.
	seeded := make(map[int64]bool)
	for _, kitid := range cfg.Seeds() {
		if k, ok := byKitID[kitid]; ok {
			seeded[k.ID] = true
		}
	}

	tree, err := s.resolveTree(ctx, cfg.Tree, byKitID, excludedIDs, seeded, cfg.MinLengthCM)
	if err != nil {
		return nil, err
	}

	pairs, err := s.matchRepo.PairWeights(ctx, cfg.MinLengthCM)
	if err != nil {
		return nil, fmt.Errorf("failed to load pair weights: %w", err)
	}
	triangles, err := s.triangleRepo.TriangleWeights(ctx, cfg.MinLengthCM)
	if err != nil {
		return nil, fmt.Errorf("failed to load triangle weights: %w", err)
	}
	negatives, err := s.negativeRepo.NegativeWeights(ctx, cfg.MinLengthCM)
	if err != nil {
		return nil, fmt.Errorf("failed to load negative weights: %w", err)
	}

	engine := &cluster.Engine{
		Pairs:          pairWeights(pairs),
		Triangles:      triangleWeights(triangles),
		Negatives:      negativeWeights(negatives),
		PairwiseFactor: cfg.PairwiseFactor,
		MaxDepth:       cfg.MaxDepth,
	}
	labels := engine.Run(tree, universe)

	result := &primary.ClusterResult{Assignments: make([]primary.KitAssignment, 0, len(universe))}
	for _, id := range universe {
		k := byID[id]
		result.Assignments = append(result.Assignments, primary.KitAssignment{
			KitID:  k.KitID,
			Name:   k.Name,
			Branch: labels[id],
		})
	}
	sort.Slice(result.Assignments, func(i, j int) bool {
		return result.Assignments[i].KitID < result.Assignments[j].KitID
	})
	return result, nil
}

// resolveTree maps the tree specification's natural kit ids to store ids and
// expands each node's autox kits: everyone sharing an X-chromosome match of
// at least the configured length with an autox kit becomes an extra maternal
// seed at that node, skipping excluded kits and kits already seeded anywhere.
// Every seed must already be in the project; clustering never creates kits.
func (s *ClusterServiceImpl) resolveTree(
	ctx context.Context,
	node *config.TreeNode,
	byKitID map[string]*secondary.KitRecord,
	excludedIDs map[int64]bool,
	seeded map[int64]bool,
	minLengthCM float64,
) (*cluster.SeedNode, error) {
	if node == nil {
		return nil, nil
	}

	resolve := func(kitids []string) ([]int64, error) {
		out := make([]int64, 0, len(kitids))
		for _, kitid := range kitids {
			k, ok := byKitID[kitid]
			if !ok {
				return nil, fmt.Errorf("seed kit %s is not in the project", kitid)
			}
			out = append(out, k.ID)
		}
		return out, nil
	}

	maternal, err := resolve(node.Maternal)
	if err != nil {
		return nil, err
	}
	paternal, err := resolve(node.Paternal)
	if err != nil {
		return nil, err
	}

	for _, kitid := range node.AutoX {
		k, ok := byKitID[kitid]
		if !ok {
			return nil, fmt.Errorf("autox kit %s is not in the project", kitid)
		}
		partners, err := s.matchRepo.XMatchKits(ctx, k.ID, minLengthCM)
		if err != nil {
			return nil, fmt.Errorf("failed to load X matches for %s: %w", kitid, err)
		}
		for _, p := range partners {
			if excludedIDs[p] || seeded[p] {
				continue
			}
			seeded[p] = true
			maternal = append(maternal, p)
		}
	}

	resolved := &cluster.SeedNode{Maternal: maternal, Paternal: paternal}
	for _, c := range node.Children {
		child, err := s.resolveTree(ctx, c, byKitID, excludedIDs, seeded, minLengthCM)
		if err != nil {
			return nil, err
		}
		resolved.Children = append(resolved.Children, child)
	}
	return resolved, nil
}

func pairWeights(recs []*secondary.PairWeightRecord) []cluster.PairWeight {
	out := make([]cluster.PairWeight, len(recs))
	for i, r := range recs {
		out[i] = cluster.PairWeight{Kit1: r.Kit1, Kit2: r.Kit2, WeightCM: r.WeightCM}
	}
	return out
}

func triangleWeights(recs []*secondary.TriangleWeightRecord) []cluster.TriangleWeight {
	out := make([]cluster.TriangleWeight, len(recs))
	for i, r := range recs {
		out[i] = cluster.TriangleWeight{Kit1: r.Kit1, Kit2: r.Kit2, Kit3: r.Kit3, LengthCM: r.LengthCM}
	}
	return out
}

func negativeWeights(recs []*secondary.NegativeWeightRecord) []cluster.NegativeWeight {
	out := make([]cluster.NegativeWeight, len(recs))
	for i, r := range recs {
		out[i] = cluster.NegativeWeight{Source: r.Source, Target1: r.Target1, Target2: r.Target2, LengthCM: r.LengthCM}
	}
	return out
}

// Ensure ClusterServiceImpl implements the interface
var _ primary.ClusterService = (*ClusterServiceImpl)(nil)
