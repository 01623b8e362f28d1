package primary

import "context"

// StatusService summarizes a project file.
type StatusService interface {
	Status(ctx context.Context) (*ProjectStatus, error)
}

// ProjectStatus is the status surface rendered by the CLI.
type ProjectStatus struct {
	SchemaVersion   string
	CacheValid      bool
	Kits            int
	Segments        int
	ImputedSegments int
	Matches         int
	Triangles       int
	Partitions      int
	Negatives       int
}
