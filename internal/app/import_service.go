package app

import (
	"context"
	"fmt"

	"github.com/example/kinship/internal/ports/primary"
	"github.com/example/kinship/internal/ports/secondary"
)

// ImportServiceImpl implements the ImportService interface.
type ImportServiceImpl struct {
	metaRepo     secondary.MetaRepository
	kitRepo      secondary.KitRepository
	segmentRepo  secondary.SegmentRepository
	matchRepo    secondary.MatchRepository
	triangleRepo secondary.TriangleRepository
}

// NewImportService creates a new ImportService with injected dependencies.
func NewImportService(
	metaRepo secondary.MetaRepository,
	kitRepo secondary.KitRepository,
	segmentRepo secondary.SegmentRepository,
	matchRepo secondary.MatchRepository,
	triangleRepo secondary.TriangleRepository,
) *ImportServiceImpl {
	return &ImportServiceImpl{
		metaRepo:     metaRepo,
		kitRepo:      kitRepo,
		segmentRepo:  segmentRepo,
		matchRepo:    matchRepo,
		triangleRepo: triangleRepo,
	}
}

// ImportMatches upserts pairwise match records. Any non-empty import
// invalidates the derived-data cache before the first row is written.
func (s *ImportServiceImpl) ImportMatches(ctx context.Context, records []primary.MatchImport) (*primary.ImportSummary, error) {
	summary := &primary.ImportSummary{}
	if len(records) == 0 {
		return summary, nil
	}

	if err := s.metaRepo.SetCacheValid(ctx, false); err != nil {
		return nil, fmt.Errorf("failed to invalidate cache: %w", err)
	}

	for _, rec := range records {
		if err := validateInterval(rec.Chromosome, rec.StartBP, rec.EndBP, rec.LengthCM); err != nil {
			return nil, fmt.Errorf("match %s/%s: %w", rec.Kit1, rec.Kit2, err)
		}

		kit1, created1, err := s.kitRepo.Ensure(ctx, rec.Kit1)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure kit %s: %w", rec.Kit1, err)
		}
		kit2, created2, err := s.kitRepo.Ensure(ctx, rec.Kit2)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure kit %s: %w", rec.Kit2, err)
		}
		summary.NewKits += countCreated(created1, created2)

		if err := s.kitRepo.FillDetails(ctx, kit2, rec.MatchedName, rec.MatchedEmail, rec.MatchedSex); err != nil {
			return nil, fmt.Errorf("failed to update kit %s details: %w", rec.Kit2, err)
		}

		segID, created, err := s.segmentRepo.Ensure(ctx, &secondary.SegmentRecord{
			Chromosome: rec.Chromosome,
			StartBP:    rec.StartBP,
			EndBP:      rec.EndBP,
			LengthCM:   rec.LengthCM,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to ensure segment: %w", err)
		}
		summary.NewSegments += countCreated(created)

		a, b := orderPair(kit1, kit2)
		createdMatch, err := s.matchRepo.Ensure(ctx, &secondary.MatchRecord{Segment: segID, Kit1: a, Kit2: b})
		if err != nil {
			return nil, fmt.Errorf("failed to ensure match: %w", err)
		}
		summary.NewMatches += countCreated(createdMatch)
		summary.Rows++
	}

	return summary, nil
}

// ImportTriangles upserts triangulation records, invalidating the cache the
// same way ImportMatches does.
func (s *ImportServiceImpl) ImportTriangles(ctx context.Context, records []primary.TriangleImport) (*primary.ImportSummary, error) {
	summary := &primary.ImportSummary{}
	if len(records) == 0 {
		return summary, nil
	}

	if err := s.metaRepo.SetCacheValid(ctx, false); err != nil {
		return nil, fmt.Errorf("failed to invalidate cache: %w", err)
	}

	for _, rec := range records {
		if err := validateInterval(rec.Chromosome, rec.StartBP, rec.EndBP, rec.LengthCM); err != nil {
			return nil, fmt.Errorf("triangle %s/%s/%s: %w", rec.Kit1, rec.Kit2, rec.Kit3, err)
		}

		kit1, created1, err := s.kitRepo.Ensure(ctx, rec.Kit1)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure kit %s: %w", rec.Kit1, err)
		}
		kit2, created2, err := s.kitRepo.Ensure(ctx, rec.Kit2)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure kit %s: %w", rec.Kit2, err)
		}
		kit3, created3, err := s.kitRepo.Ensure(ctx, rec.Kit3)
		if err != nil {
			return nil, fmt.Errorf("failed to ensure kit %s: %w", rec.Kit3, err)
		}
		summary.NewKits += countCreated(created1, created2, created3)

		if err := s.kitRepo.FillDetails(ctx, kit2, rec.Kit2Name, rec.Kit2Email, ""); err != nil {
			return nil, fmt.Errorf("failed to update kit %s details: %w", rec.Kit2, err)
		}
		if err := s.kitRepo.FillDetails(ctx, kit3, rec.Kit3Name, rec.Kit3Email, ""); err != nil {
			return nil, fmt.Errorf("failed to update kit %s details: %w", rec.Kit3, err)
		}

		segID, created, err := s.segmentRepo.Ensure(ctx, &secondary.SegmentRecord{
			Chromosome: rec.Chromosome,
			StartBP:    rec.StartBP,
			EndBP:      rec.EndBP,
			LengthCM:   rec.LengthCM,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to ensure segment: %w", err)
		}
		summary.NewSegments += countCreated(created)

		a, b, c := orderTriple(kit1, kit2, kit3)
		createdTri, err := s.triangleRepo.Ensure(ctx, &secondary.TriangleRecord{Segment: segID, Kit1: a, Kit2: b, Kit3: c})
		if err != nil {
			return nil, fmt.Errorf("failed to ensure triangle: %w", err)
		}
		summary.NewTriangles += countCreated(createdTri)
		summary.Rows++
	}

	return summary, nil
}

// validateInterval enforces the raw-segment invariants: a sane physical span
// and a strictly positive genetic length for every imported segment.
func validateInterval(chromosome string, startBP, endBP int64, lengthCM float64) error {
	if chromosome == "" {
		return fmt.Errorf("missing chromosome")
	}
	if endBP <= startBP {
		return fmt.Errorf("invalid span [%d, %d) on chromosome %s", startBP, endBP, chromosome)
	}
	if lengthCM <= 0 {
		return fmt.Errorf("non-positive genetic length %g on chromosome %s [%d, %d)", lengthCM, chromosome, startBP, endBP)
	}
	return nil
}

func orderPair(a, b int64) (int64, int64) {
	if a > b {
		return b, a
	}
	return a, b
}

func orderTriple(a, b, c int64) (int64, int64, int64) {
	a, b = orderPair(a, b)
	b, c = orderPair(b, c)
	a, b = orderPair(a, b)
	return a, b, c
}

func countCreated(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}

// Ensure ImportServiceImpl implements the interface
var _ primary.ImportService = (*ImportServiceImpl)(nil)
