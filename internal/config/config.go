// Package config loads the user-authored cluster specification: the seed
// tree plus run parameters. This is the only configuration the engine reads.
package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// TreeNode is one node of the seed tree. Seeds listed under maternal or
// paternal anchor that branch at this node; children holds at most two
// nodes, the maternal branch first, the paternal branch second.
//
// AutoX lists kits whose X-chromosome matches are pulled in as extra
// maternal seeds at this node. A male kit inherits his X only from his
// mother, so everyone sharing X DNA with him sits on his maternal side.
type TreeNode struct {
	Maternal []string    `yaml:"maternal,omitempty"`
	Paternal []string    `yaml:"paternal,omitempty"`
	AutoX    []string    `yaml:"autox,omitempty"`
	Children []*TreeNode `yaml:"children,omitempty"`
}

// ClusterConfig is the full cluster run specification.
type ClusterConfig struct {
	// MaxDepth caps how many split levels are computed. Zero means the
	// whole tree.
	MaxDepth int `yaml:"max_depth,omitempty"`

	// MinLengthCM drops matches, triangles and negatives on segments
	// shorter than this from the closeness graph.
	MinLengthCM float64 `yaml:"min_length,omitempty"`

	// PairwiseFactor scales pairwise match weights relative to triangle
	// weights. Zero means 1.0.
	PairwiseFactor float64 `yaml:"pairwise_factor,omitempty"`

	// Exclude removes kits from clustering entirely.
	Exclude []string `yaml:"exclude,omitempty"`

	Tree *TreeNode `yaml:"tree"`
}

// AmbiguousSeedError reports a kit declared a seed on both the maternal and
// the paternal side along one lineage path.
type AmbiguousSeedError struct {
	KitID string
}

func (e *AmbiguousSeedError) Error() string {
	return fmt.Sprintf("kit %s is seeded on both the maternal and paternal side", e.KitID)
}

// LoadClusterConfig reads and validates a cluster specification file.
func LoadClusterConfig(path string) (*ClusterConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cluster config: %w", err)
	}
	return ParseClusterConfig(data)
}

// ParseClusterConfig parses and validates a cluster specification.
func ParseClusterConfig(data []byte) (*ClusterConfig, error) {
	var cfg ClusterConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse cluster config: %w", err)
	}

	if cfg.Tree == nil {
		return nil, fmt.Errorf("cluster config has no tree")
	}
	if cfg.MaxDepth < 0 {
		return nil, fmt.Errorf("max_depth must not be negative")
	}
	if cfg.MinLengthCM < 0 {
		return nil, fmt.Errorf("min_length must not be negative")
	}
	if cfg.PairwiseFactor < 0 {
		return nil, fmt.Errorf("pairwise_factor must not be negative")
	}

	if err := validateNode(cfg.Tree); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validateNode checks the structural rules: at most two children per node,
// and no kit seeded on both sides of any split. Ambiguity is fatal at load
// time rather than deferred to clustering.
func validateNode(node *TreeNode) error {
	if node == nil {
		return nil
	}
	if len(node.Children) > 2 {
		return fmt.Errorf("tree node has %d children, at most 2 (maternal, paternal) are allowed", len(node.Children))
	}

	maternal := map[string]bool{}
	for _, k := range node.Maternal {
		maternal[k] = true
	}
	if len(node.Children) > 0 {
		collectSeeds(node.Children[0], maternal)
	}

	paternal := map[string]bool{}
	for _, k := range node.Paternal {
		paternal[k] = true
	}
	if len(node.Children) > 1 {
		collectSeeds(node.Children[1], paternal)
	}

	var both []string
	for k := range maternal {
		if paternal[k] {
			both = append(both, k)
		}
	}
	if len(both) > 0 {
		sort.Strings(both)
		return &AmbiguousSeedError{KitID: both[0]}
	}

	for _, c := range node.Children {
		if err := validateNode(c); err != nil {
			return err
		}
	}
	return nil
}

func collectSeeds(node *TreeNode, into map[string]bool) {
	if node == nil {
		return
	}
	for _, k := range node.Maternal {
		into[k] = true
	}
	for _, k := range node.Paternal {
		into[k] = true
	}
	for _, c := range node.Children {
		collectSeeds(c, into)
	}
}

// Seeds returns every kit id referenced by the tree, sorted and deduplicated.
func (c *ClusterConfig) Seeds() []string {
	set := map[string]bool{}
	collectSeeds(c.Tree, set)
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
