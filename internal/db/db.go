// Package db owns the project database connection and the authoritative
// schema for kinship project files.
package db

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"
)

// Create initializes a new project file at path. If the file already exists
// it is only reinitialized when force is set.
func Create(path string, force bool) (*sql.DB, error) {
	if _, err := os.Stat(path); err == nil {
		if !force {
			return nil, fmt.Errorf("project %s already exists (use --force to reinitialize)", path)
		}
		if err := os.Remove(path); err != nil {
			return nil, fmt.Errorf("failed to remove existing project: %w", err)
		}
	}

	database, err := open(path)
	if err != nil {
		return nil, err
	}

	if err := InitSchema(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// Open opens an existing project file. The file must have been created with
// Create; opening a missing path is an error rather than an implicit init.
func Open(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("project %s not found (run 'kinship init' first)", path)
	}

	database, err := open(path)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate project: %w", err)
	}

	return database, nil
}

func open(path string) (*sql.DB, error) {
	database, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable foreign keys
	if _, err := database.Exec("PRAGMA foreign_keys = ON"); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return database, nil
}
