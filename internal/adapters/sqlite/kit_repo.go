package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/kinship/internal/ports/secondary"
)

// KitRepository implements secondary.KitRepository with SQLite.
type KitRepository struct {
	db *sql.DB
}

// NewKitRepository creates a new SQLite kit repository.
func NewKitRepository(db *sql.DB) *KitRepository {
	return &KitRepository{db: db}
}

// Ensure creates the kit with the given natural id if missing and returns
// its store id.
func (r *KitRepository) Ensure(ctx context.Context, kitid string) (int64, bool, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM kits WHERE kitid = ?", kitid,
	).Scan(&id)
	if err == nil {
		return id, false, nil
	}
	if err != sql.ErrNoRows {
		return 0, false, fmt.Errorf("failed to look up kit %s: %w", kitid, err)
	}

	result, err := r.db.ExecContext(ctx,
		"INSERT INTO kits (kitid) VALUES (?)", kitid,
	)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create kit %s: %w", kitid, err)
	}
	id, err = result.LastInsertId()
	if err != nil {
		return 0, false, fmt.Errorf("failed to read kit id: %w", err)
	}
	return id, true, nil
}

// FillDetails sets name/email/sex on a kit, keeping any value already set so
// earlier imports win.
func (r *KitRepository) FillDetails(ctx context.Context, id int64, name, email, sex string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE kits SET
			name = COALESCE(NULLIF(name, ''), NULLIF(?, '')),
			email = COALESCE(NULLIF(email, ''), NULLIF(?, '')),
			sex = COALESCE(NULLIF(sex, ''), NULLIF(?, ''))
		WHERE id = ?`,
		name, email, sex, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update kit %d details: %w", id, err)
	}
	return nil
}

// List retrieves all kits ordered by store id.
func (r *KitRepository) List(ctx context.Context) ([]*secondary.KitRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, kitid, name, email, sex FROM kits ORDER BY id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list kits: %w", err)
	}
	defer rows.Close()

	var kits []*secondary.KitRecord
	for rows.Next() {
		var name, email, sex sql.NullString
		record := &secondary.KitRecord{}
		if err := rows.Scan(&record.ID, &record.KitID, &name, &email, &sex); err != nil {
			return nil, fmt.Errorf("failed to scan kit: %w", err)
		}
		record.Name = name.String
		record.Email = email.String
		record.Sex = sex.String
		kits = append(kits, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list kits: %w", err)
	}
	return kits, nil
}

var _ secondary.KitRepository = (*KitRepository)(nil)
