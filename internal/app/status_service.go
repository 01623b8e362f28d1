package app

import (
	"context"
	"fmt"

	"github.com/example/kinship/internal/ports/primary"
	"github.com/example/kinship/internal/ports/secondary"
)

// StatusServiceImpl implements the StatusService interface.
type StatusServiceImpl struct {
	metaRepo  secondary.MetaRepository
	statsRepo secondary.StatsRepository
}

// NewStatusService creates a new StatusService with injected dependencies.
func NewStatusService(metaRepo secondary.MetaRepository, statsRepo secondary.StatsRepository) *StatusServiceImpl {
	return &StatusServiceImpl{metaRepo: metaRepo, statsRepo: statsRepo}
}

// Status summarizes the project: schema version, cache state and relation
// sizes.
func (s *StatusServiceImpl) Status(ctx context.Context) (*primary.ProjectStatus, error) {
	version, err := s.metaRepo.Get(ctx, "schema_version")
	if err != nil {
		return nil, fmt.Errorf("failed to read schema version: %w", err)
	}
	valid, err := s.metaRepo.CacheValid(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache state: %w", err)
	}
	counts, err := s.statsRepo.Counts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count records: %w", err)
	}

	return &primary.ProjectStatus{
		SchemaVersion:   version,
		CacheValid:      valid,
		Kits:            counts.Kits,
		Segments:        counts.Segments,
		ImputedSegments: counts.ImputedSegments,
		Matches:         counts.Matches,
		Triangles:       counts.Triangles,
		Partitions:      counts.Partitions,
		Negatives:       counts.Negatives,
	}, nil
}

// Ensure StatusServiceImpl implements the interface
var _ primary.StatusService = (*StatusServiceImpl)(nil)
