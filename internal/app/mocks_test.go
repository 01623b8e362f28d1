package app

import (
	"context"
	"fmt"

	"github.com/example/kinship/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockMetaRepository implements secondary.MetaRepository for testing.
type mockMetaRepository struct {
	values     map[string]string
	cacheValid bool
	getErr     error
	setErr     error
}

func newMockMetaRepository() *mockMetaRepository {
	return &mockMetaRepository{values: map[string]string{"schema_version": "1"}}
}

func (m *mockMetaRepository) Get(ctx context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("no meta key %s", key)
	}
	return v, nil
}

func (m *mockMetaRepository) CacheValid(ctx context.Context) (bool, error) {
	if m.getErr != nil {
		return false, m.getErr
	}
	return m.cacheValid, nil
}

func (m *mockMetaRepository) SetCacheValid(ctx context.Context, valid bool) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.cacheValid = valid
	return nil
}

// mockKitRepository implements secondary.KitRepository for testing.
type mockKitRepository struct {
	kits    []*secondary.KitRecord
	byKitID map[string]*secondary.KitRecord
	nextID  int64
}

func newMockKitRepository() *mockKitRepository {
	return &mockKitRepository{byKitID: make(map[string]*secondary.KitRecord), nextID: 1}
}

func (m *mockKitRepository) add(kitid string) *secondary.KitRecord {
	rec := &secondary.KitRecord{ID: m.nextID, KitID: kitid}
	m.nextID++
	m.kits = append(m.kits, rec)
	m.byKitID[kitid] = rec
	return rec
}

func (m *mockKitRepository) Ensure(ctx context.Context, kitid string) (int64, bool, error) {
	if rec, ok := m.byKitID[kitid]; ok {
		return rec.ID, false, nil
	}
	return m.add(kitid).ID, true, nil
}

func (m *mockKitRepository) FillDetails(ctx context.Context, id int64, name, email, sex string) error {
	for _, rec := range m.kits {
		if rec.ID != id {
			continue
		}
		if rec.Name == "" {
			rec.Name = name
		}
		if rec.Email == "" {
			rec.Email = email
		}
		if rec.Sex == "" {
			rec.Sex = sex
		}
		return nil
	}
	return fmt.Errorf("no kit with id %d", id)
}

func (m *mockKitRepository) List(ctx context.Context) ([]*secondary.KitRecord, error) {
	return m.kits, nil
}

// mockSegmentRepository implements secondary.SegmentRepository for testing.
type mockSegmentRepository struct {
	segments []*secondary.SegmentRecord
	nextID   int64
}

func newMockSegmentRepository() *mockSegmentRepository {
	return &mockSegmentRepository{nextID: 1}
}

func (m *mockSegmentRepository) add(rec *secondary.SegmentRecord) *secondary.SegmentRecord {
	cp := *rec
	cp.ID = m.nextID
	m.nextID++
	m.segments = append(m.segments, &cp)
	return &cp
}

func (m *mockSegmentRepository) Ensure(ctx context.Context, rec *secondary.SegmentRecord) (int64, bool, error) {
	for _, s := range m.segments {
		if s.Chromosome == rec.Chromosome && s.StartBP == rec.StartBP && s.EndBP == rec.EndBP {
			if s.Imputed && !rec.Imputed {
				s.Imputed = false
				s.LengthCM = rec.LengthCM
			}
			return s.ID, false, nil
		}
	}
	return m.add(rec).ID, true, nil
}

func (m *mockSegmentRepository) List(ctx context.Context) ([]*secondary.SegmentRecord, error) {
	return m.segments, nil
}

// mockMatchRepository implements secondary.MatchRepository for testing.
type mockMatchRepository struct {
	matches      []*secondary.MatchRecord
	pairWeights  []*secondary.PairWeightRecord
	xMatches     map[int64][]int64
	minLengthCM  float64
	xMinLengthCM float64
}

func newMockMatchRepository() *mockMatchRepository {
	return &mockMatchRepository{}
}

func (m *mockMatchRepository) Ensure(ctx context.Context, rec *secondary.MatchRecord) (bool, error) {
	for _, r := range m.matches {
		if *r == *rec {
			return false, nil
		}
	}
	cp := *rec
	m.matches = append(m.matches, &cp)
	return true, nil
}

func (m *mockMatchRepository) List(ctx context.Context) ([]*secondary.MatchRecord, error) {
	return m.matches, nil
}

func (m *mockMatchRepository) PairWeights(ctx context.Context, minLengthCM float64) ([]*secondary.PairWeightRecord, error) {
	m.minLengthCM = minLengthCM
	return m.pairWeights, nil
}

func (m *mockMatchRepository) XMatchKits(ctx context.Context, kit int64, minLengthCM float64) ([]int64, error) {
	m.xMinLengthCM = minLengthCM
	return m.xMatches[kit], nil
}

// mockTriangleRepository implements secondary.TriangleRepository for testing.
type mockTriangleRepository struct {
	triangles       []*secondary.TriangleRecord
	triangleWeights []*secondary.TriangleWeightRecord
	minLengthCM     float64
}

func newMockTriangleRepository() *mockTriangleRepository {
	return &mockTriangleRepository{}
}

func (m *mockTriangleRepository) Ensure(ctx context.Context, rec *secondary.TriangleRecord) (bool, error) {
	for _, r := range m.triangles {
		if *r == *rec {
			return false, nil
		}
	}
	cp := *rec
	m.triangles = append(m.triangles, &cp)
	return true, nil
}

func (m *mockTriangleRepository) List(ctx context.Context) ([]*secondary.TriangleRecord, error) {
	return m.triangles, nil
}

func (m *mockTriangleRepository) TriangleWeights(ctx context.Context, minLengthCM float64) ([]*secondary.TriangleWeightRecord, error) {
	m.minLengthCM = minLengthCM
	return m.triangleWeights, nil
}

// mockNegativeRepository implements secondary.NegativeRepository for testing.
type mockNegativeRepository struct {
	negatives       []*secondary.NegativeRecord
	negativeWeights []*secondary.NegativeWeightRecord
	minLengthCM     float64
}

func newMockNegativeRepository() *mockNegativeRepository {
	return &mockNegativeRepository{}
}

func (m *mockNegativeRepository) List(ctx context.Context) ([]*secondary.NegativeRecord, error) {
	return m.negatives, nil
}

func (m *mockNegativeRepository) NegativeWeights(ctx context.Context, minLengthCM float64) ([]*secondary.NegativeWeightRecord, error) {
	m.minLengthCM = minLengthCM
	return m.negativeWeights, nil
}

// mockDerivedRepository implements secondary.DerivedRepository for testing.
type mockDerivedRepository struct {
	discards  int
	committed *secondary.DerivedData
	commitErr error
}

func newMockDerivedRepository() *mockDerivedRepository {
	return &mockDerivedRepository{}
}

func (m *mockDerivedRepository) Discard(ctx context.Context) error {
	m.discards++
	return nil
}

func (m *mockDerivedRepository) Commit(ctx context.Context, data *secondary.DerivedData) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.committed = data
	return nil
}

func (m *mockDerivedRepository) Partitions(ctx context.Context) ([]*secondary.PartitionRecord, error) {
	if m.committed == nil {
		return nil, nil
	}
	return m.committed.Partitions, nil
}

func (m *mockDerivedRepository) Memberships(ctx context.Context) ([]*secondary.SegmentPartitionRecord, error) {
	if m.committed == nil {
		return nil, nil
	}
	return m.committed.Memberships, nil
}

// mockStatsRepository implements secondary.StatsRepository for testing.
type mockStatsRepository struct {
	counts secondary.StoreCounts
	err    error
}

func (m *mockStatsRepository) Counts(ctx context.Context) (*secondary.StoreCounts, error) {
	if m.err != nil {
		return nil, m.err
	}
	counts := m.counts
	return &counts, nil
}

var (
	_ secondary.MetaRepository     = (*mockMetaRepository)(nil)
	_ secondary.KitRepository      = (*mockKitRepository)(nil)
	_ secondary.SegmentRepository  = (*mockSegmentRepository)(nil)
	_ secondary.MatchRepository    = (*mockMatchRepository)(nil)
	_ secondary.TriangleRepository = (*mockTriangleRepository)(nil)
	_ secondary.NegativeRepository = (*mockNegativeRepository)(nil)
	_ secondary.DerivedRepository  = (*mockDerivedRepository)(nil)
	_ secondary.StatsRepository    = (*mockStatsRepository)(nil)
)
