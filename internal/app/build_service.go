package app

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/example/kinship/internal/core/genome"
	"github.com/example/kinship/internal/core/triangulate"
	"github.com/example/kinship/internal/ports/primary"
	"github.com/example/kinship/internal/ports/secondary"
)

// BuildServiceImpl implements the BuildService interface.
type BuildServiceImpl struct {
	metaRepo     secondary.MetaRepository
	kitRepo      secondary.KitRepository
	segmentRepo  secondary.SegmentRepository
	matchRepo    secondary.MatchRepository
	triangleRepo secondary.TriangleRepository
	derivedRepo  secondary.DerivedRepository
}

// NewBuildService creates a new BuildService with injected dependencies.
func NewBuildService(
	metaRepo secondary.MetaRepository,
	kitRepo secondary.KitRepository,
	segmentRepo secondary.SegmentRepository,
	matchRepo secondary.MatchRepository,
	triangleRepo secondary.TriangleRepository,
	derivedRepo secondary.DerivedRepository,
) *BuildServiceImpl {
	return &BuildServiceImpl{
		metaRepo:     metaRepo,
		kitRepo:      kitRepo,
		segmentRepo:  segmentRepo,
		matchRepo:    matchRepo,
		triangleRepo: triangleRepo,
		derivedRepo:  derivedRepo,
	}
}

// chromResult is the output of one chromosome's pipeline pass.
type chromResult struct {
	chromosome string
	arena      *genome.Arena
	segments   []genome.Segment
	negatives  []triangulate.Negative
}

// Build recomputes all derived relations from the raw data. Each chromosome
// is independent, so arena construction, rate fitting and negative inference
// run concurrently per chromosome; the results are merged in chromosome
// order so repeated builds of the same raw data produce identical rows.
func (s *BuildServiceImpl) Build(ctx context.Context, force bool) (*primary.BuildSummary, error) {
	valid, err := s.metaRepo.CacheValid(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache state: %w", err)
	}
	if valid && !force {
		return nil, ErrAlreadyBuilt
	}

	// Drop the previous build first so the raw relations we load below are
	// free of imputed segments from an earlier run.
	if err := s.derivedRepo.Discard(ctx); err != nil {
		return nil, fmt.Errorf("failed to discard derived data: %w", err)
	}

	kits, err := s.kitRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list kits: %w", err)
	}
	segmentRecs, err := s.segmentRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	matchRecs, err := s.matchRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	triangleRecs, err := s.triangleRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list triangles: %w", err)
	}

	kitIDs := make(map[int64]bool, len(kits))
	for _, k := range kits {
		kitIDs[k.ID] = true
	}
	segments := make(map[int64]genome.Segment, len(segmentRecs))
	for _, rec := range segmentRecs {
		segments[rec.ID] = genome.Segment{
			ID:         rec.ID,
			Chromosome: rec.Chromosome,
			StartBP:    rec.StartBP,
			EndBP:      rec.EndBP,
			LengthCM:   rec.LengthCM,
			Imputed:    rec.Imputed,
		}
	}

	matches := make([]triangulate.Match, 0, len(matchRecs))
	for _, rec := range matchRecs {
		if err := checkRefs(kitIDs, rec.Kit1, rec.Kit2); err != nil {
			return nil, err
		}
		if _, ok := segments[rec.Segment]; !ok {
			return nil, &ReferenceError{Relation: "segment", ID: rec.Segment}
		}
		matches = append(matches, triangulate.Match{SegmentID: rec.Segment, Kit1: rec.Kit1, Kit2: rec.Kit2})
	}
	triangles := make([]triangulate.Triangle, 0, len(triangleRecs))
	for _, rec := range triangleRecs {
		if err := checkRefs(kitIDs, rec.Kit1, rec.Kit2, rec.Kit3); err != nil {
			return nil, err
		}
		if _, ok := segments[rec.Segment]; !ok {
			return nil, &ReferenceError{Relation: "segment", ID: rec.Segment}
		}
		triangles = append(triangles, triangulate.Triangle{SegmentID: rec.Segment, Kit1: rec.Kit1, Kit2: rec.Kit2, Kit3: rec.Kit3})
	}

	chromosomes := chromosomesOf(segmentRecs)

	results := make([]*chromResult, len(chromosomes))
	g, gctx := errgroup.WithContext(ctx)
	for i, chromosome := range chromosomes {
		i, chromosome := i, chromosome
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := buildChromosome(chromosome, segments, matches, triangles)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to build derived data: %w", err)
	}

	data := mergeResults(results)
	if err := s.derivedRepo.Commit(ctx, data); err != nil {
		return nil, fmt.Errorf("failed to commit derived data: %w", err)
	}

	return &primary.BuildSummary{
		Chromosomes:     len(chromosomes),
		Partitions:      len(data.Partitions),
		ImputedSegments: len(data.Imputed),
		Negatives:       len(data.Negatives),
	}, nil
}

// buildChromosome runs the pure pipeline for one chromosome: decompose into
// partitions, fit per-partition genetic lengths, infer negatives.
func buildChromosome(chromosome string, segments map[int64]genome.Segment, matches []triangulate.Match, triangles []triangulate.Triangle) (*chromResult, error) {
	own := make([]genome.Segment, 0)
	for _, seg := range segments {
		if seg.Chromosome == chromosome {
			own = append(own, seg)
		}
	}
	sort.Slice(own, func(i, j int) bool { return own[i].ID < own[j].ID })

	arena, err := genome.BuildArena(chromosome, own)
	if err != nil {
		return nil, err
	}
	if err := arena.FitRates(own); err != nil {
		return nil, fmt.Errorf("chromosome %s: %w", chromosome, err)
	}
	negatives := triangulate.Infer(arena, segments, matches, triangles)

	return &chromResult{
		chromosome: chromosome,
		arena:      arena,
		segments:   own,
		negatives:  negatives,
	}, nil
}

// mergeResults flattens the per-chromosome results into one DerivedData,
// assigning partition ids sequentially across chromosomes and deduplicating
// imputed segments by coordinate.
func mergeResults(results []*chromResult) *secondary.DerivedData {
	data := &secondary.DerivedData{}

	type coord struct {
		chromosome     string
		startBP, endBP int64
	}
	imputedIdx := make(map[coord]int)
	imputeRun := func(res *chromResult, run genome.Run) int {
		startBP, endBP := res.arena.Span(run)
		key := coord{chromosome: res.chromosome, startBP: startBP, endBP: endBP}
		if idx, ok := imputedIdx[key]; ok {
			return idx
		}
		idx := len(data.Imputed)
		imputedIdx[key] = idx
		data.Imputed = append(data.Imputed, &secondary.SegmentRecord{
			Chromosome: res.chromosome,
			StartBP:    startBP,
			EndBP:      endBP,
			LengthCM:   res.arena.LengthCM(run),
			Imputed:    true,
		})
		return idx
	}

	for _, res := range results {
		base := int64(len(data.Partitions))
		for i, p := range res.arena.Partitions {
			data.Partitions = append(data.Partitions, &secondary.PartitionRecord{
				ID:         base + int64(i) + 1,
				Chromosome: res.chromosome,
				StartBP:    p.StartBP,
				EndBP:      p.EndBP,
				LengthCM:   p.LengthCM,
			})
		}

		for _, seg := range res.segments {
			run := res.arena.SegmentRun(seg)
			for i := run.Lo; i < run.Hi; i++ {
				data.Memberships = append(data.Memberships, &secondary.SegmentPartitionRecord{
					SegmentID:   seg.ID,
					PartitionID: base + int64(i) + 1,
				})
			}
		}

		for _, neg := range res.negatives {
			data.Negatives = append(data.Negatives, &secondary.DerivedNegative{
				Source:     neg.Source,
				Target1:    neg.Target1,
				Target2:    neg.Target2,
				Segment1:   neg.Segment1,
				Segment2:   neg.Segment2,
				OverlapIdx: imputeRun(res, neg.Overlap),
				NegIdx:     imputeRun(res, neg.Neg),
			})
		}
	}

	return data
}

// chromosomesOf returns the distinct chromosome names among the raw (not
// imputed) segments, sorted.
func chromosomesOf(segments []*secondary.SegmentRecord) []string {
	seen := make(map[string]bool)
	var out []string
	for _, rec := range segments {
		if rec.Imputed || seen[rec.Chromosome] {
			continue
		}
		seen[rec.Chromosome] = true
		out = append(out, rec.Chromosome)
	}
	sort.Strings(out)
	return out
}

func checkRefs(kitIDs map[int64]bool, ids ...int64) error {
	for _, id := range ids {
		if !kitIDs[id] {
			return &ReferenceError{Relation: "kit", ID: id}
		}
	}
	return nil
}

// Ensure BuildServiceImpl implements the interface
var _ primary.BuildService = (*BuildServiceImpl)(nil)
