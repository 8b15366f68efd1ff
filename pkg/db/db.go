// Package db stores the page registry, the site base URL and discovery run history in SQLite.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DefaultDBName is used when no db_path is configured.
const DefaultDBName = "seo-companion.db"

// schemaVersion is stored in PRAGMA user_version once the tables exist.
const schemaVersion = 1

// DB is the registry store. Registry writes replace the page table inside one transaction.
type DB struct {
	*sql.DB
	path string
}

func openDB(dbPath string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// ":memory:" is per connection, and ReplacePages relies on a single writer.
	sqlDB.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA foreign_keys = ON", "PRAGMA busy_timeout = 5000"} {
		if _, err := sqlDB.Exec(pragma); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	return sqlDB, nil
}

// Open opens the registry at dbPath, creating the file, its directory and the tables as needed.
func Open(dbPath string) (*DB, error) {
	if dbPath == "" {
		dbPath = DefaultDBName
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
		}
	}

	sqlDB, err := openDB(dbPath)
	if err != nil {
		return nil, err
	}
	db := &DB{DB: sqlDB, path: dbPath}

	if err := db.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// migrate creates the tables on a fresh file and refuses files written by a newer release.
func (db *DB) migrate() error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	switch {
	case version == schemaVersion:
		return nil
	case version > schemaVersion:
		return fmt.Errorf("registry %s has schema version %d, this build supports %d", db.path, version, schemaVersion)
	}
	if err := db.InitSchema(); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	return nil
}

// Path is the file the registry was opened from.
func (db *DB) Path() string {
	return db.path
}

// InitSchema creates any missing tables and stamps the schema version.
func (db *DB) InitSchema() error {
	if _, err := db.Exec(schema); err != nil {
		return err
	}
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion))
	return err
}
