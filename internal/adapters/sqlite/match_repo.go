package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/kinship/internal/ports/secondary"
)

// MatchRepository implements secondary.MatchRepository with SQLite.
type MatchRepository struct {
	db *sql.DB
}

// NewMatchRepository creates a new SQLite match repository.
func NewMatchRepository(db *sql.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Ensure inserts the match; an identical row is ignored.
func (r *MatchRepository) Ensure(ctx context.Context, rec *secondary.MatchRecord) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO matches (segment, kit1, kit2) VALUES (?, ?, ?)",
		rec.Segment, rec.Kit1, rec.Kit2,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create match: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read match insert result: %w", err)
	}
	return n > 0, nil
}

// List retrieves all matches in canonical order.
func (r *MatchRepository) List(ctx context.Context) ([]*secondary.MatchRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT segment, kit1, kit2 FROM matches ORDER BY segment, kit1, kit2",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	var matches []*secondary.MatchRecord
	for rows.Next() {
		record := &secondary.MatchRecord{}
		if err := rows.Scan(&record.Segment, &record.Kit1, &record.Kit2); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		matches = append(matches, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

// PairWeights sums shared segment lengths per kit pair, dropping segments
// shorter than minLengthCM.
func (r *MatchRepository) PairWeights(ctx context.Context, minLengthCM float64) ([]*secondary.PairWeightRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT m.kit1, m.kit2, SUM(s.length_cm)
		FROM matches m
		JOIN segments s ON s.id = m.segment
		WHERE s.length_cm >= ?
		GROUP BY m.kit1, m.kit2
		ORDER BY m.kit1, m.kit2`,
		minLengthCM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate pair weights: %w", err)
	}
	defer rows.Close()

	var weights []*secondary.PairWeightRecord
	for rows.Next() {
		record := &secondary.PairWeightRecord{}
		if err := rows.Scan(&record.Kit1, &record.Kit2, &record.WeightCM); err != nil {
			return nil, fmt.Errorf("failed to scan pair weight: %w", err)
		}
		weights = append(weights, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to aggregate pair weights: %w", err)
	}
	return weights, nil
}

// XMatchKits lists the kits matching the given kit on chromosome X with at
// least minLengthCM of shared DNA. Matches are stored with the lower kit id
// first, so the partner may sit in either column.
func (r *MatchRepository) XMatchKits(ctx context.Context, kit int64, minLengthCM float64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT CASE WHEN m.kit1 = ? THEN m.kit2 ELSE m.kit1 END AS partner
		FROM matches m
		JOIN segments s ON s.id = m.segment
		WHERE (m.kit1 = ? OR m.kit2 = ?) AND s.chromosome = 'X' AND s.length_cm >= ?
		ORDER BY partner`,
		kit, kit, kit, minLengthCM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list X matches: %w", err)
	}
	defer rows.Close()

	var partners []int64
	for rows.Next() {
		var partner int64
		if err := rows.Scan(&partner); err != nil {
			return nil, fmt.Errorf("failed to scan X match: %w", err)
		}
		partners = append(partners, partner)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list X matches: %w", err)
	}
	return partners, nil
}

var _ secondary.MatchRepository = (*MatchRepository)(nil)
