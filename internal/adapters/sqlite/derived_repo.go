package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/kinship/internal/ports/secondary"
)

// DerivedRepository implements secondary.DerivedRepository with SQLite. The
// derived relations (partitions, memberships, imputed segments, negatives)
// are replaced wholesale by every build; Discard and Commit each run in a
// single transaction so a failed build leaves either the old state with the
// cache flag cleared or the complete new state.
type DerivedRepository struct {
	db *sql.DB
}

// NewDerivedRepository creates a new SQLite derived-data repository.
func NewDerivedRepository(db *sql.DB) *DerivedRepository {
	return &DerivedRepository{db: db}
}

// Discard removes all derived rows and clears the cache flag.
func (r *DerivedRepository) Discard(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin discard transaction: %w", err)
	}
	defer tx.Rollback()

	// Negatives reference imputed segments, so they go first.
	statements := []string{
		"DELETE FROM negatives",
		"DELETE FROM segment_partitions",
		"DELETE FROM partitions",
		"DELETE FROM segments WHERE imputed = 1",
		"UPDATE meta SET value = '0' WHERE key = 'cache_valid'",
	}
	for _, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to discard derived data: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit discard: %w", err)
	}
	return nil
}

// Commit writes one build's complete derived output and marks the cache
// valid, atomically. Imputed segment ids are assigned here; DerivedNegative
// rows reference them by index into data.Imputed.
func (r *DerivedRepository) Commit(ctx context.Context, data *secondary.DerivedData) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin commit transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range data.Partitions {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO partitions (id, chromosome, start_bp, end_bp, length_cm) VALUES (?, ?, ?, ?, ?)",
			p.ID, p.Chromosome, p.StartBP, p.EndBP, p.LengthCM,
		)
		if err != nil {
			return fmt.Errorf("failed to insert partition %d: %w", p.ID, err)
		}
	}

	for _, m := range data.Memberships {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO segment_partitions (segment_id, partition_id) VALUES (?, ?)",
			m.SegmentID, m.PartitionID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert segment membership: %w", err)
		}
	}

	// An imputed interval can coincide with a raw segment; reuse the
	// existing row then, its recorded length wins.
	imputedIDs := make([]int64, len(data.Imputed))
	for i, seg := range data.Imputed {
		id, err := ensureSegmentTx(ctx, tx, seg)
		if err != nil {
			return err
		}
		imputedIDs[i] = id
	}

	for _, n := range data.Negatives {
		if n.OverlapIdx < 0 || n.OverlapIdx >= len(imputedIDs) || n.NegIdx < 0 || n.NegIdx >= len(imputedIDs) {
			return fmt.Errorf("negative references imputed segment out of range (%d, %d)", n.OverlapIdx, n.NegIdx)
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO negatives (source, target1, target2, segment1, segment2, overlap_segment, neg_segment)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			n.Source, n.Target1, n.Target2, n.Segment1, n.Segment2, imputedIDs[n.OverlapIdx], imputedIDs[n.NegIdx],
		)
		if err != nil {
			return fmt.Errorf("failed to insert negative: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, "UPDATE meta SET value = '1' WHERE key = 'cache_valid'"); err != nil {
		return fmt.Errorf("failed to set cache flag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit derived data: %w", err)
	}
	return nil
}

// Partitions retrieves all partitions ordered by id.
func (r *DerivedRepository) Partitions(ctx context.Context) ([]*secondary.PartitionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, chromosome, start_bp, end_bp, length_cm FROM partitions ORDER BY id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}
	defer rows.Close()

	var partitions []*secondary.PartitionRecord
	for rows.Next() {
		var lengthCM sql.NullFloat64
		record := &secondary.PartitionRecord{}
		if err := rows.Scan(&record.ID, &record.Chromosome, &record.StartBP, &record.EndBP, &lengthCM); err != nil {
			return nil, fmt.Errorf("failed to scan partition: %w", err)
		}
		record.LengthCM = lengthCM.Float64
		partitions = append(partitions, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list partitions: %w", err)
	}
	return partitions, nil
}

// Memberships retrieves all segment-partition rows ordered by
// (segment, partition).
func (r *DerivedRepository) Memberships(ctx context.Context) ([]*secondary.SegmentPartitionRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT segment_id, partition_id FROM segment_partitions ORDER BY segment_id, partition_id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list segment memberships: %w", err)
	}
	defer rows.Close()

	var memberships []*secondary.SegmentPartitionRecord
	for rows.Next() {
		record := &secondary.SegmentPartitionRecord{}
		if err := rows.Scan(&record.SegmentID, &record.PartitionID); err != nil {
			return nil, fmt.Errorf("failed to scan segment membership: %w", err)
		}
		memberships = append(memberships, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list segment memberships: %w", err)
	}
	return memberships, nil
}

// ensureSegmentTx inserts a segment inside the commit transaction unless a
// row with the same coordinates exists, returning the store id either way.
func ensureSegmentTx(ctx context.Context, tx *sql.Tx, rec *secondary.SegmentRecord) (int64, error) {
	var id int64
	err := tx.QueryRowContext(ctx,
		"SELECT id FROM segments WHERE chromosome = ? AND start_bp = ? AND end_bp = ?",
		rec.Chromosome, rec.StartBP, rec.EndBP,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up imputed segment: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		"INSERT INTO segments (chromosome, start_bp, end_bp, length_cm, imputed) VALUES (?, ?, ?, ?, ?)",
		rec.Chromosome, rec.StartBP, rec.EndBP, rec.LengthCM, rec.Imputed,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert imputed segment: %w", err)
	}
	id, err = result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read imputed segment id: %w", err)
	}
	return id, nil
}

var _ secondary.DerivedRepository = (*DerivedRepository)(nil)
