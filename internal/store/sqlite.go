package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/comsierge/comsierge/internal/model"
)

// SQLiteStore implements the Store interface using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys.
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// UpsertSource inserts or replaces a source configuration.
// If the source has no ID, a new UUID is generated.
func (s *SQLiteStore) UpsertSource(
	ctx context.Context,
	src model.SourceConfig,
) error {
	if src.ID == "" {
		src.ID = uuid.New().String()
	}

	configJSON, err := json.Marshal(src.Config)
	if err != nil {
		return fmt.Errorf("marshaling source config: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO sources (
			id, type, name, base_url, enabled, poll_interval_sec, config, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		src.ID, src.Type, src.Name, src.BaseURL,
		boolToInt(src.Enabled), src.PollIntervalSec,
		string(configJSON), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upserting source %s: %w", src.ID, err)
	}

	return nil
}

// GetSources retrieves all configured source entries.
func (s *SQLiteStore) GetSources(
	ctx context.Context,
) ([]model.SourceConfig, error) {
	rows, err := s.db.QueryxContext(ctx, "SELECT * FROM sources ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", err)
	}
	defer rows.Close()

	var sources []model.SourceConfig
	for rows.Next() {
		src, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}

	return sources, rows.Err()
}

// DeleteSource removes a source by ID.
func (s *SQLiteStore) DeleteSource(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting source %s: %w", id, err)
	}
	return nil
}

// scanSource scans a source row from a sqlx.Rows result set.
func scanSource(rows *sqlx.Rows) (model.SourceConfig, error) {
	var (
		src        model.SourceConfig
		enabled    int
		configJSON string
		createdAt  time.Time
		updatedAt  time.Time
	)

	err := rows.Scan(
		&src.ID, &src.Type, &src.Name, &src.BaseURL,
		&enabled, &src.PollIntervalSec, &configJSON,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return model.SourceConfig{}, fmt.Errorf("scanning source row: %w", err)
	}

	src.Enabled = enabled != 0

	if configJSON != "" {
		if err := json.Unmarshal([]byte(configJSON), &src.Config); err != nil {
			return model.SourceConfig{}, fmt.Errorf("unmarshaling source config: %w", err)
		}
	}

	return src, nil
}

// boolToInt converts a boolean to 0 or 1 for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
