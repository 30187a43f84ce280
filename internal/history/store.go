// Package history persists completed search runs in a local SQLite database
// so earlier searches can be reviewed, filtered, and re-run.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/petervflocke/quicksearch/internal/models"
)

// RunRecord represents a single recorded search run
type RunRecord struct {
	ID              int64
	RunID           string // Identifier assigned by the engine at dispatch
	Pattern         string
	Regex           bool
	Roots           []string
	Globs           []string
	Workers         int
	ContextLines    int
	FilesScanned    int64
	Matches         int64
	BinarySkipped   int64
	TraversalErrors int64
	FileErrors      int64
	DurationMS      int64
	Reason          string // COMPLETED, CANCELLED, or FAILED
	StartedAt       time.Time
}

// NewRunRecord builds a history record from a search request and the outcome
// of its run.
func NewRunRecord(req models.SearchRequest, outcome models.SearchOutcome) *RunRecord {
	return &RunRecord{
		RunID:           outcome.RunID,
		Pattern:         req.Pattern,
		Regex:           req.Regex,
		Roots:           append([]string(nil), req.Roots...),
		Globs:           append([]string(nil), req.Globs...),
		Workers:         req.Workers,
		ContextLines:    req.ContextLines,
		FilesScanned:    outcome.FilesScanned,
		Matches:         outcome.Matches,
		BinarySkipped:   outcome.BinarySkipped,
		TraversalErrors: outcome.TraversalErrors,
		FileErrors:      outcome.FileErrors,
		DurationMS:      outcome.Elapsed.Milliseconds(),
		Reason:          outcome.Reason,
		StartedAt:       time.Now().Add(-outcome.Elapsed),
	}
}

// Store manages the SQLite database holding run history
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore creates a new Store instance and initializes the database
func NewStore(dbPath string) (*Store, error) {
	// Handle in-memory database
	if dbPath == ":memory:" {
		return openAndInitStore(dbPath)
	}

	// Ensure parent directory exists for file-based databases
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	return openAndInitStore(dbPath)
}

// openAndInitStore opens the database connection and initializes schema
func openAndInitStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Configure SQLite for concurrent access with retry logic.
	// Set busy_timeout FIRST so subsequent operations wait on locks.
	// Use retry with backoff for "database is locked" errors that can occur
	// during concurrent initialization of the same database file.
	pragmas := []string{
		"PRAGMA busy_timeout=5000", // Must be first
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}

	for _, pragma := range pragmas {
		if err := execWithRetry(db, pragma, 5, 10*time.Millisecond); err != nil {
			db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	if err := store.ApplyMigrations(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// execWithRetry executes a SQL statement with exponential backoff retry on lock errors.
func execWithRetry(db *sql.DB, sql string, maxRetries int, baseDelay time.Duration) error {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		_, err := db.Exec(sql)
		if err == nil {
			return nil
		}

		// Only retry on "database is locked" errors
		if !strings.Contains(err.Error(), "database is locked") {
			return err
		}

		lastErr = err
		delay := baseDelay * time.Duration(1<<attempt)
		time.Sleep(delay)
	}
	return lastErr
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// tableExists checks if a table exists in the database
func (s *Store) tableExists(tableName string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`
	err := s.db.QueryRow(query, tableName).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check table existence: %w", err)
	}
	return count > 0, nil
}

// indexExists checks if an index exists in the database
func (s *Store) indexExists(indexName string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name=?`
	err := s.db.QueryRow(query, indexName).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check index existence: %w", err)
	}
	return count > 0, nil
}

// RecordRun records a completed search run in the database
func (s *Store) RecordRun(ctx context.Context, rec *RunRecord) error {
	// Marshal root and glob lists to JSON
	rootsJSON := "[]"
	if len(rec.Roots) > 0 {
		data, err := json.Marshal(rec.Roots)
		if err != nil {
			return fmt.Errorf("marshal roots: %w", err)
		}
		rootsJSON = string(data)
	}

	globsJSON := "[]"
	if len(rec.Globs) > 0 {
		data, err := json.Marshal(rec.Globs)
		if err != nil {
			return fmt.Errorf("marshal globs: %w", err)
		}
		globsJSON = string(data)
	}

	// Empty run identifiers are stored as NULL so they never collide on
	// the unique run_id index
	var runID interface{}
	if rec.RunID != "" {
		runID = rec.RunID
	}

	startedAt := rec.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}

	query := `INSERT INTO runs
		(run_id, pattern, regex, roots, globs, workers, context_lines, files_scanned, matches, binary_skipped, traversal_errors, file_errors, duration_ms, reason, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	result, err := s.db.ExecContext(ctx, query,
		runID,
		rec.Pattern,
		rec.Regex,
		rootsJSON,
		globsJSON,
		rec.Workers,
		rec.ContextLines,
		rec.FilesScanned,
		rec.Matches,
		rec.BinarySkipped,
		rec.TraversalErrors,
		rec.FileErrors,
		rec.DurationMS,
		rec.Reason,
		startedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	// Get the inserted ID
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	rec.ID = id
	rec.StartedAt = startedAt

	return nil
}

// RecentRuns retrieves recorded runs ordered by most recent first.
// A limit of 0 or less returns every recorded run.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]*RunRecord, error) {
	query := `SELECT id, run_id, pattern, regex, roots, globs, workers, context_lines, files_scanned, matches, binary_skipped, traversal_errors, file_errors, duration_ms, reason, started_at
		FROM runs
		ORDER BY id DESC`

	args := []interface{}{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent runs: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// FindRuns retrieves runs whose pattern contains the given substring,
// ordered by most recent first.
func (s *Store) FindRuns(ctx context.Context, pattern string, limit int) ([]*RunRecord, error) {
	query := `SELECT id, run_id, pattern, regex, roots, globs, workers, context_lines, files_scanned, matches, binary_skipped, traversal_errors, file_errors, duration_ms, reason, started_at
		FROM runs
		WHERE pattern LIKE ?
		ORDER BY id DESC`

	args := []interface{}{"%" + pattern + "%"}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs by pattern: %w", err)
	}
	defer rows.Close()

	return scanRuns(rows)
}

// scanRuns reads run rows into records, handling nullable columns
func scanRuns(rows *sql.Rows) ([]*RunRecord, error) {
	var runs []*RunRecord
	for rows.Next() {
		rec := &RunRecord{}
		var runID, roots, globs, reason sql.NullString
		err := rows.Scan(
			&rec.ID,
			&runID,
			&rec.Pattern,
			&rec.Regex,
			&roots,
			&globs,
			&rec.Workers,
			&rec.ContextLines,
			&rec.FilesScanned,
			&rec.Matches,
			&rec.BinarySkipped,
			&rec.TraversalErrors,
			&rec.FileErrors,
			&rec.DurationMS,
			&reason,
			&rec.StartedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}

		if runID.Valid {
			rec.RunID = runID.String
		}
		if reason.Valid {
			rec.Reason = reason.String
		}
		if roots.Valid && roots.String != "" {
			if err := json.Unmarshal([]byte(roots.String), &rec.Roots); err != nil {
				return nil, fmt.Errorf("unmarshal roots: %w", err)
			}
		}
		if globs.Valid && globs.String != "" {
			if err := json.Unmarshal([]byte(globs.String), &rec.Globs); err != nil {
				return nil, fmt.Errorf("unmarshal globs: %w", err)
			}
		}

		runs = append(runs, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return runs, nil
}

// CountRuns returns the number of recorded runs
func (s *Store) CountRuns(ctx context.Context) (int64, error) {
	var count int64
	query := `SELECT COUNT(*) FROM runs`
	err := s.db.QueryRowContext(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count runs: %w", err)
	}
	return count, nil
}

// PruneRuns deletes the oldest runs so that at most maxRuns remain.
// Returns the number of deleted records. A maxRuns of 0 or less keeps
// everything.
func (s *Store) PruneRuns(ctx context.Context, maxRuns int) (int64, error) {
	if maxRuns <= 0 {
		return 0, nil
	}

	query := `DELETE FROM runs
		WHERE id NOT IN (SELECT id FROM runs ORDER BY id DESC LIMIT ?)`
	result, err := s.db.ExecContext(ctx, query, maxRuns)
	if err != nil {
		return 0, fmt.Errorf("prune runs: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}

	return deleted, nil
}

// Clear deletes every recorded run and returns the number removed
func (s *Store) Clear(ctx context.Context) (int64, error) {
	result, err := s.db.ExecContext(ctx, `DELETE FROM runs`)
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}

	return deleted, nil
}
