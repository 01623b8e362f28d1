package primary

import (
	"context"

	"github.com/example/kinship/internal/config"
)

// ClusterService assigns kits to maternal/paternal tree branches from the
// built match data and a user-authored seed tree. It refuses to run while
// the derived-data cache is invalid.
type ClusterService interface {
	Cluster(ctx context.Context, cfg *config.ClusterConfig) (*ClusterResult, error)
}

// ClusterResult is the tree assignment, one entry per kit under
// consideration, ordered by kit id.
type ClusterResult struct {
	Assignments []KitAssignment
}

// KitAssignment maps one kit to the deepest tree node reached. Branch is one
// "M" or "P" character per split level, root first; an empty Branch means
// the kit is unclassified.
type KitAssignment struct {
	KitID  string
	Name   string
	Branch string
}
