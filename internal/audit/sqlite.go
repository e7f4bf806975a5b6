package audit

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite audit store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// scanner is an interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// scanEntry scans a row into an Entry struct.
func scanEntry(s scanner) (*Entry, error) {
	e := &Entry{}
	err := s.Scan(
		&e.ID, &e.RequestID, &e.UserID, &e.Operation,
		&e.Tone, &e.Language, &e.ReportType,
		&e.StatusCode, &e.Cached, &e.DurationMs, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// createSchema creates the database tables and indexes.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_log (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		operation TEXT NOT NULL,
		tone TEXT DEFAULT '',
		language TEXT DEFAULT '',
		report_type TEXT DEFAULT '',
		status_code INTEGER NOT NULL DEFAULT 0,
		cached INTEGER NOT NULL DEFAULT 0,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_audit_user_id ON audit_log(user_id);
	CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit_log(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// Save records an audit entry.
func (s *SQLiteStore) Save(ctx context.Context, entry *Entry) error {
	now := time.Now()
	entry.CreatedAt = now

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_log (
			request_id, user_id, operation, tone, language, report_type,
			status_code, cached, duration_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		entry.RequestID,
		entry.UserID,
		entry.Operation,
		entry.Tone,
		entry.Language,
		entry.ReportType,
		entry.StatusCode,
		entry.Cached,
		entry.DurationMs,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get insert ID: %w", err)
	}
	entry.ID = id

	return nil
}

// List returns audit entries, newest first.
func (s *SQLiteStore) List(ctx context.Context, userID string, limit, offset int) ([]*Entry, error) {
	query := `
		SELECT id, request_id, user_id, operation, tone, language, report_type,
			status_code, cached, duration_ms, created_at
		FROM audit_log
	`
	args := []interface{}{}
	if userID != "" {
		query += " WHERE user_id = ?"
		args = append(args, userID)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var result []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// Count returns the total number of audit entries.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_log").Scan(&count)
	return count, err
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
