package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/kinship/internal/ports/secondary"
)

// NegativeRepository implements secondary.NegativeRepository with SQLite.
// Negatives are written only by DerivedRepository.Commit; this repository is
// read-only.
type NegativeRepository struct {
	db *sql.DB
}

// NewNegativeRepository creates a new SQLite negative repository.
func NewNegativeRepository(db *sql.DB) *NegativeRepository {
	return &NegativeRepository{db: db}
}

// List retrieves all negatives ordered by id.
func (r *NegativeRepository) List(ctx context.Context) ([]*secondary.NegativeRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source, target1, target2, segment1, segment2, overlap_segment, neg_segment
		FROM negatives ORDER BY id ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list negatives: %w", err)
	}
	defer rows.Close()

	var negatives []*secondary.NegativeRecord
	for rows.Next() {
		record := &secondary.NegativeRecord{}
		err := rows.Scan(&record.ID, &record.Source, &record.Target1, &record.Target2,
			&record.Segment1, &record.Segment2, &record.OverlapSegment, &record.NegSegment)
		if err != nil {
			return nil, fmt.Errorf("failed to scan negative: %w", err)
		}
		negatives = append(negatives, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list negatives: %w", err)
	}
	return negatives, nil
}

// NegativeWeights returns negatives with the genetic length of their
// non-matching sub-segment, dropping sub-segments shorter than minLengthCM.
func (r *NegativeRepository) NegativeWeights(ctx context.Context, minLengthCM float64) ([]*secondary.NegativeWeightRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT n.source, n.target1, n.target2, s.length_cm
		FROM negatives n
		JOIN segments s ON s.id = n.neg_segment
		WHERE s.length_cm >= ?
		ORDER BY n.id`,
		minLengthCM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load negative weights: %w", err)
	}
	defer rows.Close()

	var weights []*secondary.NegativeWeightRecord
	for rows.Next() {
		record := &secondary.NegativeWeightRecord{}
		if err := rows.Scan(&record.Source, &record.Target1, &record.Target2, &record.LengthCM); err != nil {
			return nil, fmt.Errorf("failed to scan negative weight: %w", err)
		}
		weights = append(weights, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load negative weights: %w", err)
	}
	return weights, nil
}

var _ secondary.NegativeRepository = (*NegativeRepository)(nil)
