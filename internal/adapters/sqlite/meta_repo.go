// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/kinship/internal/ports/secondary"
)

// MetaRepository implements secondary.MetaRepository with SQLite.
type MetaRepository struct {
	db *sql.DB
}

// NewMetaRepository creates a new SQLite meta repository.
func NewMetaRepository(db *sql.DB) *MetaRepository {
	return &MetaRepository{db: db}
}

// Get retrieves a metadata value by key.
func (r *MetaRepository) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		"SELECT value FROM meta WHERE key = ?", key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("meta key %s not found", key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to get meta key %s: %w", key, err)
	}
	return value, nil
}

// CacheValid reports whether the derived relations are current.
func (r *MetaRepository) CacheValid(ctx context.Context) (bool, error) {
	value, err := r.Get(ctx, "cache_valid")
	if err != nil {
		return false, err
	}
	return value == "1", nil
}

// SetCacheValid flips the cache validity flag.
func (r *MetaRepository) SetCacheValid(ctx context.Context, valid bool) error {
	value := "0"
	if valid {
		value = "1"
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO meta (key, value) VALUES ('cache_valid', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		value,
	)
	if err != nil {
		return fmt.Errorf("failed to set cache flag: %w", err)
	}
	return nil
}

var _ secondary.MetaRepository = (*MetaRepository)(nil)
