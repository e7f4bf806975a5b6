package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore implements the Store interface using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL audit store.
// It creates the audit_log table if it doesn't exist.
func NewPostgresStore(db *sql.DB) (*PostgresStore, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := createPostgresSchema(db); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// NewPostgresStoreFromURL creates a new PostgreSQL audit store from a connection URL.
func NewPostgresStoreFromURL(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	store, err := NewPostgresStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func createPostgresSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS audit_log (
		id BIGSERIAL PRIMARY KEY,
		request_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		operation TEXT NOT NULL,
		tone TEXT DEFAULT '',
		language TEXT DEFAULT '',
		report_type TEXT DEFAULT '',
		status_code INTEGER NOT NULL DEFAULT 0,
		cached BOOLEAN NOT NULL DEFAULT FALSE,
		duration_ms BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_audit_user_id ON audit_log(user_id);
	CREATE INDEX IF NOT EXISTS idx_audit_created_at ON audit_log(created_at);
	`

	_, err := db.Exec(schema)
	return err
}

// Save records an audit entry.
func (s *PostgresStore) Save(ctx context.Context, entry *Entry) error {
	now := time.Now()

	query := `
		INSERT INTO audit_log (
			request_id, user_id, operation, tone, language, report_type,
			status_code, cached, duration_ms, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	err := s.db.QueryRowContext(ctx, query,
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
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to save audit entry: %w", err)
	}

	return nil
}

// List returns audit entries, newest first.
func (s *PostgresStore) List(ctx context.Context, userID string, limit, offset int) ([]*Entry, error) {
	query := `
		SELECT id, request_id, user_id, operation, tone, language, report_type,
			status_code, cached, duration_ms, created_at
		FROM audit_log
	`
	args := []interface{}{}
	if userID != "" {
		query += " WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2 OFFSET $3"
		args = append(args, userID, limit, offset)
	} else {
		query += " ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2"
		args = append(args, limit, offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var result []*Entry
	for rows.Next() {
		e := &Entry{}
		err := rows.Scan(
			&e.ID, &e.RequestID, &e.UserID, &e.Operation,
			&e.Tone, &e.Language, &e.ReportType,
			&e.StatusCode, &e.Cached, &e.DurationMs, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, e)
	}

	return result, rows.Err()
}

// Count returns the total number of audit entries.
func (s *PostgresStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM audit_log").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}
	return count, nil
}

// Close closes the store and releases resources.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}
