package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/kinship/internal/ports/secondary"
)

// SegmentRepository implements secondary.SegmentRepository with SQLite.
type SegmentRepository struct {
	db *sql.DB
}

// NewSegmentRepository creates a new SQLite segment repository.
func NewSegmentRepository(db *sql.DB) *SegmentRepository {
	return &SegmentRepository{db: db}
}

// Ensure inserts the segment unless a row with the same coordinates exists.
// The first import of a coordinate wins; later rows with a different genetic
// length are collapsed onto the existing one. A raw segment landing on a
// previously imputed row promotes it: the recorded length replaces the
// estimate and the row stops being discarded on rebuild, since raw matches
// may now reference it.
func (r *SegmentRepository) Ensure(ctx context.Context, rec *secondary.SegmentRecord) (int64, bool, error) {
	var id int64
	var imputed bool
	err := r.db.QueryRowContext(ctx,
		"SELECT id, imputed FROM segments WHERE chromosome = ? AND start_bp = ? AND end_bp = ?",
		rec.Chromosome, rec.StartBP, rec.EndBP,
	).Scan(&id, &imputed)
	if err == nil {
		if imputed && !rec.Imputed {
			_, err = r.db.ExecContext(ctx,
				"UPDATE segments SET imputed = 0, length_cm = ? WHERE id = ?",
				rec.LengthCM, id,
			)
			if err != nil {
				return 0, false, fmt.Errorf("failed to promote imputed segment: %w", err)
			}
		}
		return id, false, nil
	}
	if err != sql.ErrNoRows {
		return 0, false, fmt.Errorf("failed to look up segment: %w", err)
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO segments (chromosome, start_bp, end_bp, length_cm, imputed) VALUES (?, ?, ?, ?, ?)",
		rec.Chromosome, rec.StartBP, rec.EndBP, rec.LengthCM, rec.Imputed,
	)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create segment: %w", err)
	}
	id, err = result.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("failed to read segment id: %w", err)
	}
	return id, true, nil
}

// List retrieves all segments ordered by store id.
func (r *SegmentRepository) List(ctx context.Context) ([]*secondary.SegmentRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, chromosome, start_bp, end_bp, length_cm, imputed FROM segments ORDER BY id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	defer rows.Close()

	var segments []*secondary.SegmentRecord
	for rows.Next() {
		var lengthCM sql.NullFloat64
		record := &secondary.SegmentRecord{}
		if err := rows.Scan(&record.ID, &record.Chromosome, &record.StartBP, &record.EndBP, &lengthCM, &record.Imputed); err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}
		record.LengthCM = lengthCM.Float64
		segments = append(segments, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}
	return segments, nil
}

var _ secondary.SegmentRepository = (*SegmentRepository)(nil)
