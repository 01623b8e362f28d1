package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/kinship/internal/ports/secondary"
)

// StatsRepository implements secondary.StatsRepository with SQLite.
type StatsRepository struct {
	db *sql.DB
}

// NewStatsRepository creates a new SQLite stats repository.
func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Counts reports the size of every relation for the status surface. Raw and
// imputed segments are counted separately.
func (r *StatsRepository) Counts(ctx context.Context) (*secondary.StoreCounts, error) {
	counts := &secondary.StoreCounts{}
	queries := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM kits", &counts.Kits},
		{"SELECT COUNT(*) FROM segments WHERE imputed = 0", &counts.Segments},
		{"SELECT COUNT(*) FROM segments WHERE imputed = 1", &counts.ImputedSegments},
		{"SELECT COUNT(*) FROM matches", &counts.Matches},
		{"SELECT COUNT(*) FROM triangles", &counts.Triangles},
		{"SELECT COUNT(*) FROM partitions", &counts.Partitions},
		{"SELECT COUNT(*) FROM negatives", &counts.Negatives},
	}
	for _, q := range queries {
		if err := r.db.QueryRowContext(ctx, q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("failed to count records: %w", err)
		}
	}
	return counts, nil
}

var _ secondary.StatsRepository = (*StatsRepository)(nil)
