// Package audit records analysis requests for traceability.
//
// Every API call that triggers or serves an analysis is logged with its
// outcome and latency. SQLite is used for single-node deployments and
// PostgreSQL when the audit trail must be shared.
package audit

import (
	"context"
	"time"
)

// Entry is a single audited request.
type Entry struct {
	ID         int64     `json:"id"`
	RequestID  string    `json:"request_id"`
	UserID     string    `json:"user_id"`
	Operation  string    `json:"operation"`
	Tone       string    `json:"tone,omitempty"`
	Language   string    `json:"language,omitempty"`
	ReportType string    `json:"report_type,omitempty"`
	StatusCode int       `json:"status_code"`
	Cached     bool      `json:"cached"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store is the interface for audit persistence backends.
type Store interface {
	// Save records an audit entry and fills in its ID and CreatedAt.
	Save(ctx context.Context, entry *Entry) error

	// List returns audit entries for a user, newest first.
	// An empty userID returns entries across all users.
	List(ctx context.Context, userID string, limit, offset int) ([]*Entry, error)

	// Count returns the total number of audit entries.
	Count(ctx context.Context) (int64, error)

	// Close closes the store and releases resources.
	Close() error
}

// NopStore discards every entry. Used when auditing is disabled.
type NopStore struct{}

func (NopStore) Save(ctx context.Context, entry *Entry) error { return nil }
func (NopStore) List(ctx context.Context, userID string, limit, offset int) ([]*Entry, error) {
	return nil, nil
}
func (NopStore) Count(ctx context.Context) (int64, error) { return 0, nil }
func (NopStore) Close() error                             { return nil }
