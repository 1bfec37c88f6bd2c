package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/avelinek/tripstash/internal/config"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Init initializes the SQLite database at baseDir/tripstash.db.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.tripstash.
func Init(baseDir string) (*sql.DB, error) {
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}
	_ = os.Chmod(baseDir, 0700)

	// foreign_keys must be on: trip deletion relies on the storage-layer
	// cascades, not application code.
	dbPath := filepath.Join(baseDir, "tripstash.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	database, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyWALMode(database); err != nil {
		database.Close()
		return nil, err
	}

	if err := migrate(database); err != nil {
		database.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)

	return database, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func ConfigurePool(database *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		database.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// migrate applies schema migrations based on user_version.
func migrate(database *sql.DB) error {
	version, err := GetUserVersion(database)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS users (
		  id           TEXT PRIMARY KEY,
		  email        TEXT NOT NULL UNIQUE,
		  display_name TEXT NOT NULL DEFAULT '',
		  created_at   INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS items (
		  id          TEXT PRIMARY KEY,
		  owner_id    TEXT NOT NULL REFERENCES users(id),
		  kind        TEXT NOT NULL CHECK (kind IN ('url','screenshot','manual')),
		  source_url  TEXT,
		  image_ref   TEXT,
		  title       TEXT NOT NULL,
		  description TEXT,
		  site_name   TEXT,
		  city        TEXT,
		  notes       TEXT,
		  tags_json   TEXT,
		  category    TEXT NOT NULL DEFAULT 'general',
		  archived    INTEGER NOT NULL DEFAULT 0,
		  created_at  INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_items_owner_created
		ON items(owner_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS trips (
		  id                  TEXT PRIMARY KEY,
		  owner_id            TEXT NOT NULL REFERENCES users(id),
		  title               TEXT NOT NULL,
		  status              TEXT NOT NULL CHECK (status IN ('draft','scheduled')),
		  start_date          TEXT,
		  end_date            TEXT,
		  cover_image         TEXT,
		  share_token         TEXT UNIQUE,
		  share_privacy       TEXT,
		  forked_from_trip_id TEXT,
		  created_at          INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_trips_owner_created
		ON trips(owner_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS trip_items (
		  id         TEXT PRIMARY KEY,
		  trip_id    TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		  item_id    TEXT NOT NULL REFERENCES items(id),
		  day_index  INTEGER CHECK (day_index IS NULL OR day_index >= 1),
		  sort_order INTEGER NOT NULL,
		  created_at INTEGER NOT NULL,
		  UNIQUE (trip_id, item_id)
		);

		CREATE INDEX IF NOT EXISTS idx_trip_items_bucket
		ON trip_items(trip_id, day_index, sort_order);

		CREATE TABLE IF NOT EXISTS companions (
		  id         TEXT PRIMARY KEY,
		  trip_id    TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		  user_id    TEXT NOT NULL REFERENCES users(id),
		  role       TEXT NOT NULL DEFAULT 'companion',
		  invited_at INTEGER NOT NULL,
		  UNIQUE (trip_id, user_id)
		);

		CREATE TABLE IF NOT EXISTS pending_invites (
		  id         TEXT PRIMARY KEY,
		  trip_id    TEXT NOT NULL REFERENCES trips(id) ON DELETE CASCADE,
		  inviter_id TEXT NOT NULL REFERENCES users(id),
		  email      TEXT NOT NULL,
		  invited_at INTEGER NOT NULL,
		  UNIQUE (trip_id, email)
		);
		`
		if _, err := database.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(database, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(database *sql.DB) error {
	var journalMode string
	if err := database.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(database *sql.DB) (int, error) {
	var version int
	if err := database.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(database *sql.DB, version int) error {
	_, err := database.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// toNullString converts *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// toNullInt converts *int to sql.NullInt64.
func toNullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

// fromNullInt converts sql.NullInt64 to *int.
func fromNullInt(ni sql.NullInt64) *int {
	if !ni.Valid {
		return nil
	}
	i := int(ni.Int64)
	return &i
}
