package history

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Migration represents a database schema migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// migrations is the ordered list of all database migrations
var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema with runs table",
		SQL: `
-- Recorded search runs
CREATE TABLE IF NOT EXISTS runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    pattern TEXT NOT NULL,
    regex BOOLEAN NOT NULL DEFAULT 0,
    roots TEXT,
    globs TEXT,
    workers INTEGER DEFAULT 0,
    context_lines INTEGER DEFAULT 0,
    files_scanned INTEGER DEFAULT 0,
    matches INTEGER DEFAULT 0,
    binary_skipped INTEGER DEFAULT 0,
    traversal_errors INTEGER DEFAULT 0,
    file_errors INTEGER DEFAULT 0,
    duration_ms INTEGER DEFAULT 0,
    reason TEXT,
    started_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_pattern ON runs(pattern);
CREATE INDEX IF NOT EXISTS idx_runs_reason ON runs(reason);
`,
	},
	{
		Version:     2,
		Description: "Add run_id for correlating history rows with run logs",
		// The ALTER TABLE statement is handled by ApplyMigrations() using
		// addColumnIfNotExistsTx() to ensure idempotency.
		SQL: `
-- Unique index so a run is never recorded twice under the same identifier
CREATE UNIQUE INDEX IF NOT EXISTS idx_runs_run_id ON runs(run_id);
`,
	},
}

// MigrationVersion represents a record of an applied migration
type MigrationVersion struct {
	Version   int
	AppliedAt time.Time
}

// ApplyMigrations applies all pending migrations to the database.
// Uses a serializable transaction to serialize concurrent initialization.
func (s *Store) ApplyMigrations(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin exclusive transaction: %w", err)
	}
	defer tx.Rollback() // no-op if committed

	// Ensure schema_version table exists (within transaction)
	if err := s.ensureSchemaVersionTableTx(tx); err != nil {
		return fmt.Errorf("ensure schema_version table: %w", err)
	}

	// Get currently applied versions
	appliedVersions, err := s.getAppliedVersionsTx(tx)
	if err != nil {
		return fmt.Errorf("get applied versions: %w", err)
	}

	applied := make(map[int]bool)
	for _, v := range appliedVersions {
		applied[v.Version] = true
	}

	// Apply pending migrations
	for _, migration := range migrations {
		if applied[migration.Version] {
			continue
		}

		// Handle migration 2 special case: add run_id column idempotently
		if migration.Version == 2 {
			if err := s.applyMigration2Tx(ctx, tx); err != nil {
				return fmt.Errorf("apply migration %d (%s): %w", migration.Version, migration.Description, err)
			}
		}

		// Execute migration SQL (indexes are IF NOT EXISTS, safe to re-run)
		if migration.SQL != "" {
			if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
				return fmt.Errorf("apply migration %d (%s): %w", migration.Version, migration.Description, err)
			}
		}

		// Record migration as applied
		if err := s.recordMigrationTx(ctx, tx, migration.Version); err != nil {
			return fmt.Errorf("record migration %d: %w", migration.Version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}

	return nil
}

// GetAppliedVersions retrieves all applied migration versions
func (s *Store) GetAppliedVersions() ([]*MigrationVersion, error) {
	query := `SELECT version, applied_at FROM schema_version ORDER BY version ASC`
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query schema versions: %w", err)
	}
	defer rows.Close()

	var versions []*MigrationVersion
	for rows.Next() {
		v := &MigrationVersion{}
		if err := rows.Scan(&v.Version, &v.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}

	return versions, nil
}

// IsMigrationApplied checks if a specific migration version has been applied
func (s *Store) IsMigrationApplied(version int) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM schema_version WHERE version = ?`
	err := s.db.QueryRow(query, version).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check migration: %w", err)
	}
	return count > 0, nil
}

// GetLatestVersion returns the latest applied migration version
func (s *Store) GetLatestVersion() (int, error) {
	var version int
	query := `SELECT COALESCE(MAX(version), 0) FROM schema_version`
	err := s.db.QueryRow(query).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("query latest version: %w", err)
	}
	return version, nil
}

// ensureSchemaVersionTableTx ensures the schema_version table exists (within transaction)
func (s *Store) ensureSchemaVersionTableTx(tx *sql.Tx) error {
	sqlStr := `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`
	_, err := tx.Exec(sqlStr)
	if err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}
	return nil
}

// getAppliedVersionsTx retrieves all applied migration versions (within transaction)
func (s *Store) getAppliedVersionsTx(tx *sql.Tx) ([]*MigrationVersion, error) {
	query := `SELECT version, applied_at FROM schema_version ORDER BY version ASC`
	rows, err := tx.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query schema versions: %w", err)
	}
	defer rows.Close()

	var versions []*MigrationVersion
	for rows.Next() {
		v := &MigrationVersion{}
		if err := rows.Scan(&v.Version, &v.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan version: %w", err)
		}
		versions = append(versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate versions: %w", err)
	}

	return versions, nil
}

// recordMigrationTx records that a migration has been applied (within transaction)
func (s *Store) recordMigrationTx(ctx context.Context, tx *sql.Tx, version int) error {
	query := `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`
	_, err := tx.ExecContext(ctx, query, version)
	if err != nil {
		return fmt.Errorf("insert migration version: %w", err)
	}
	return nil
}

// applyMigration2Tx adds the run_id column idempotently (within transaction).
func (s *Store) applyMigration2Tx(ctx context.Context, tx *sql.Tx) error {
	if err := s.addColumnIfNotExistsTx(ctx, tx, "runs", "run_id", "TEXT"); err != nil {
		return fmt.Errorf("add column run_id: %w", err)
	}
	return nil
}

// addColumnIfNotExistsTx adds a column to a table if it doesn't already exist (within transaction).
// SQLite doesn't support ADD COLUMN IF NOT EXISTS, so we check first.
func (s *Store) addColumnIfNotExistsTx(ctx context.Context, tx *sql.Tx, table, column, definition string) error {
	// Check if column exists using PRAGMA table_info
	query := fmt.Sprintf("PRAGMA table_info(%s)", table)
	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("query table info: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return fmt.Errorf("scan table info: %w", err)
		}
		if name == column {
			// Column already exists
			return nil
		}
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate table info: %w", err)
	}

	// Column doesn't exist, add it
	alterSQL := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)
	if _, err := tx.ExecContext(ctx, alterSQL); err != nil {
		// Within a serialized transaction this shouldn't race, but handle anyway
		if strings.Contains(err.Error(), "duplicate column name") {
			return nil
		}
		return fmt.Errorf("alter table: %w", err)
	}

	return nil
}
