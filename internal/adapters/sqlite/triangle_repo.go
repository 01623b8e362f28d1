package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/kinship/internal/ports/secondary"
)

// TriangleRepository implements secondary.TriangleRepository with SQLite.
type TriangleRepository struct {
	db *sql.DB
}

// NewTriangleRepository creates a new SQLite triangle repository.
func NewTriangleRepository(db *sql.DB) *TriangleRepository {
	return &TriangleRepository{db: db}
}

// Ensure inserts the triangle; an identical row is ignored.
func (r *TriangleRepository) Ensure(ctx context.Context, rec *secondary.TriangleRecord) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO triangles (segment, kit1, kit2, kit3) VALUES (?, ?, ?, ?)",
		rec.Segment, rec.Kit1, rec.Kit2, rec.Kit3,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create triangle: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read triangle insert result: %w", err)
	}
	return n > 0, nil
}

// List retrieves all triangles in canonical order.
func (r *TriangleRepository) List(ctx context.Context) ([]*secondary.TriangleRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT segment, kit1, kit2, kit3 FROM triangles ORDER BY segment, kit1, kit2, kit3",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list triangles: %w", err)
	}
	defer rows.Close()

	var triangles []*secondary.TriangleRecord
	for rows.Next() {
		record := &secondary.TriangleRecord{}
		if err := rows.Scan(&record.Segment, &record.Kit1, &record.Kit2, &record.Kit3); err != nil {
			return nil, fmt.Errorf("failed to scan triangle: %w", err)
		}
		triangles = append(triangles, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list triangles: %w", err)
	}
	return triangles, nil
}

// TriangleWeights returns all triangles with their segment lengths, dropping
// segments shorter than minLengthCM.
func (r *TriangleRepository) TriangleWeights(ctx context.Context, minLengthCM float64) ([]*secondary.TriangleWeightRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.kit1, t.kit2, t.kit3, s.length_cm
		FROM triangles t
		JOIN segments s ON s.id = t.segment
		WHERE s.length_cm >= ?
		ORDER BY t.kit1, t.kit2, t.kit3, t.segment`,
		minLengthCM,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load triangle weights: %w", err)
	}
	defer rows.Close()

	var weights []*secondary.TriangleWeightRecord
	for rows.Next() {
		record := &secondary.TriangleWeightRecord{}
		if err := rows.Scan(&record.Kit1, &record.Kit2, &record.Kit3, &record.LengthCM); err != nil {
			return nil, fmt.Errorf("failed to scan triangle weight: %w", err)
		}
		weights = append(weights, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to load triangle weights: %w", err)
	}
	return weights, nil
}

var _ secondary.TriangleRepository = (*TriangleRepository)(nil)
