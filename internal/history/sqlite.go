package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteStore creates a new SQLite-backed history store.
// Use ":memory:" for an in-memory database, or a file path for persistence.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initialize(); err != nil {
		_ = db.Close() // Best effort cleanup on initialization error
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS generations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL,
		plugin TEXT NOT NULL,
		format TEXT NOT NULL,
		filename TEXT NOT NULL,
		location TEXT NOT NULL,
		phase TEXT NOT NULL,
		trigger_kind TEXT NOT NULL,
		bytes INTEGER NOT NULL,
		fingerprint TEXT,
		commit_hash TEXT,
		tag TEXT,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_generations_run_id ON generations(run_id);
	CREATE INDEX IF NOT EXISTS idx_generations_filename ON generations(filename);
	CREATE INDEX IF NOT EXISTS idx_generations_created_at ON generations(created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

const entryColumns = "id, run_id, plugin, format, filename, location, phase, trigger_kind, bytes, fingerprint, commit_hash, tag, created_at"

// Record appends one generation entry.
func (s *SQLiteStore) Record(ctx context.Context, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	created := e.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generations
		 (run_id, plugin, format, filename, location, phase, trigger_kind, bytes, fingerprint, commit_hash, tag, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.Plugin, e.Format, e.Filename, e.Location, e.Phase, e.Trigger,
		e.Bytes, e.Fingerprint, e.Commit, e.Tag, created.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert generation: %w", err)
	}

	return nil
}

// ByRun retrieves all entries for a specific run, oldest first.
func (s *SQLiteStore) ByRun(ctx context.Context, runID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM generations WHERE run_id = ? ORDER BY id",
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	return s.scanEntries(rows)
}

// Recent retrieves the newest entries, newest first.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+entryColumns+" FROM generations ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	return s.scanEntries(rows)
}

// LastFingerprint returns the fingerprint of the most recent generation for
// filename, or "" when the artifact has never been generated.
func (s *SQLiteStore) LastFingerprint(ctx context.Context, filename string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var fp sql.NullString
	err := s.db.QueryRowContext(ctx,
		"SELECT fingerprint FROM generations WHERE filename = ? ORDER BY id DESC LIMIT 1",
		filename,
	).Scan(&fp)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query fingerprint: %w", err)
	}
	return fp.String, nil
}

// Summaries returns the latest generation per artifact filename, ordered by
// filename.
func (s *SQLiteStore) Summaries(ctx context.Context) ([]ArtifactSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT g.filename, g.format, c.n, g.run_id, g.trigger_kind, g.bytes, g.fingerprint, g.created_at
		FROM generations g
		JOIN (
			SELECT filename, MAX(id) AS last_id, COUNT(*) AS n
			FROM generations GROUP BY filename
		) c ON g.id = c.last_id
		ORDER BY g.filename`,
	)
	if err != nil {
		return nil, fmt.Errorf("query summaries: %w", err)
	}
	defer rows.Close()

	var summaries []ArtifactSummary
	for rows.Next() {
		var sum ArtifactSummary
		var fp sql.NullString
		var createdUnix int64

		err := rows.Scan(&sum.Filename, &sum.Format, &sum.Generations,
			&sum.LastRunID, &sum.LastTrigger, &sum.LastBytes, &fp, &createdUnix)
		if err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}

		sum.Fingerprint = fp.String
		sum.LastAt = time.Unix(createdUnix, 0)
		summaries = append(summaries, sum)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return summaries, nil
}

func (s *SQLiteStore) scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var fp, commit, tag sql.NullString
		var createdUnix int64

		err := rows.Scan(&e.ID, &e.RunID, &e.Plugin, &e.Format, &e.Filename,
			&e.Location, &e.Phase, &e.Trigger, &e.Bytes, &fp, &commit, &tag, &createdUnix)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}

		e.Fingerprint = fp.String
		e.Commit = commit.String
		e.Tag = tag.String
		e.CreatedAt = time.Unix(createdUnix, 0)

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return entries, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
