package db

import (
	"database/sql"
	"fmt"
	"strconv"
)

// Migration upgrades a project file from Version-1 to Version.
type Migration struct {
	Version     int
	Description string
	Apply       func(db *sql.DB) error
}

// migrations lists all schema upgrades in order. Version 1 is the baseline
// created by InitSchema, so the slice starts empty; future schema changes
// append here and bump SchemaVersion.
var migrations = []Migration{}

// RunMigrations upgrades an opened project file to the current schema
// version. A project newer than this binary is rejected rather than
// downgraded.
func RunMigrations(database *sql.DB) error {
	current, err := projectVersion(database)
	if err != nil {
		return err
	}

	if current > SchemaVersion {
		return fmt.Errorf("project schema version %d is newer than this build supports (%d)", current, SchemaVersion)
	}

	for _, m := range migrations {
		if m.Version <= current {
			continue
		}
		if err := m.Apply(database); err != nil {
			return fmt.Errorf("migration to version %d (%s) failed: %w", m.Version, m.Description, err)
		}
		if _, err := database.Exec("UPDATE meta SET value = ? WHERE key = 'schema_version'", strconv.Itoa(m.Version)); err != nil {
			return fmt.Errorf("failed to record schema version %d: %w", m.Version, err)
		}
	}

	return nil
}

func projectVersion(database *sql.DB) (int, error) {
	var value string
	err := database.QueryRow("SELECT value FROM meta WHERE key = 'schema_version'").Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version (not a kinship project?): %w", err)
	}

	version, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid schema version %q: %w", value, err)
	}

	return version, nil
}
