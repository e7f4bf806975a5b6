package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/lab-analysis-server/internal/domain"
)

const pgUniqueViolation = "23505"

// AnalysisStorage implements domain.Storage over a PostgreSQL pool.
type AnalysisStorage struct {
	db  *pgxpool.Pool
	log *logrus.Logger
}

// NewAnalysisStorage creates a new analysis storage
func NewAnalysisStorage(db *pgxpool.Pool, logger *logrus.Logger) *AnalysisStorage {
	return &AnalysisStorage{
		db:  db,
		log: logger,
	}
}

// GetReportByDigest retrieves a report by its content digest for one user.
func (s *AnalysisStorage) GetReportByDigest(ctx context.Context, userID, digest string) (*domain.Report, error) {
	query := `
		SELECT id, user_id, name, content, content_digest, report_type, status, created_at
		FROM reports
		WHERE user_id = $1 AND content_digest = $2`

	var report domain.Report
	err := s.db.QueryRow(ctx, query, userID, digest).Scan(
		&report.ID,
		&report.UserID,
		&report.Name,
		&report.Content,
		&report.ContentDigest,
		&report.ReportType,
		&report.Status,
		&report.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("report not found: %w", domain.ErrNotFound)
		}
		s.log.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err,
		}).Error("Failed to get report by digest")
		return nil, fmt.Errorf("getting report by digest: %w", err)
	}

	return &report, nil
}

// GetResult retrieves the stored result for a (report, tone, language) triple.
func (s *AnalysisStorage) GetResult(ctx context.Context, reportID string, tone domain.Tone, language domain.Language) (*domain.Result, error) {
	query := `
		SELECT id, report_id, tone, language, payload, created_at
		FROM results
		WHERE report_id = $1 AND tone = $2 AND language = $3`

	var result domain.Result
	err := s.db.QueryRow(ctx, query, reportID, tone.String(), language.String()).Scan(
		&result.ID,
		&result.ReportID,
		&result.Tone,
		&result.Language,
		&result.Payload,
		&result.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("result not found: %w", domain.ErrNotFound)
		}
		s.log.WithFields(logrus.Fields{
			"report_id": reportID,
			"error":     err,
		}).Error("Failed to get result")
		return nil, fmt.Errorf("getting result: %w", err)
	}

	return &result, nil
}

// SaveAnalysis persists one analysis in a single transaction: the report row
// (created if absent, keyed by content digest), the result row, and the bulk
// metric insert. A unique violation on the result's (report_id, tone,
// language) constraint surfaces as domain.ErrDuplicateResult so the caller
// can recover a lost race; report insertion itself is conflict-tolerant.
func (s *AnalysisStorage) SaveAnalysis(ctx context.Context, report *domain.Report, result *domain.Result, metrics []domain.MetricRecord) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning analysis transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	insertReport := `
		INSERT INTO reports (id, user_id, name, content, content_digest, report_type, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, content_digest) DO NOTHING`

	if _, err := tx.Exec(ctx, insertReport,
		report.ID, report.UserID, report.Name, report.Content,
		report.ContentDigest, report.ReportType.String(), report.Status, report.CreatedAt,
	); err != nil {
		s.log.WithError(err).Error("Failed to insert report")
		return fmt.Errorf("inserting report: %w", err)
	}

	// The content digest may have been claimed by another writer; the stored
	// id is authoritative for the result's foreign key.
	var reportID string
	selectReport := `SELECT id FROM reports WHERE user_id = $1 AND content_digest = $2`
	if err := tx.QueryRow(ctx, selectReport, report.UserID, report.ContentDigest).Scan(&reportID); err != nil {
		return fmt.Errorf("resolving report id: %w", err)
	}
	report.ID = reportID
	result.ReportID = reportID

	insertResult := `
		INSERT INTO results (id, report_id, tone, language, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := tx.Exec(ctx, insertResult,
		result.ID, result.ReportID, result.Tone.String(), result.Language.String(),
		result.Payload, result.CreatedAt,
	); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("result for report %s: %w", result.ReportID, domain.ErrDuplicateResult)
		}
		s.log.WithFields(logrus.Fields{
			"report_id": result.ReportID,
			"error":     err,
		}).Error("Failed to insert result")
		return fmt.Errorf("inserting result: %w", err)
	}

	if len(metrics) > 0 {
		rows := make([][]any, 0, len(metrics))
		for _, m := range metrics {
			rows = append(rows, []any{
				uuid.New().String(), result.ID, m.Name, m.Value, m.Unit,
				m.ReferenceMin, m.ReferenceMax, m.Status.String(), result.CreatedAt,
			})
		}

		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"metrics"},
			[]string{"id", "result_id", "name", "value", "unit", "reference_range_min", "reference_range_max", "status", "created_at"},
			pgx.CopyFromRows(rows),
		); err != nil {
			s.log.WithFields(logrus.Fields{
				"result_id": result.ID,
				"metrics":   len(metrics),
				"error":     err,
			}).Error("Failed to bulk-insert metrics")
			return fmt.Errorf("inserting metrics: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing analysis transaction: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"report_id": report.ID,
		"result_id": result.ID,
		"metrics":   len(metrics),
	}).Info("Analysis persisted")

	return nil
}

// ListReportCards returns the user's reports newest-first with result counts.
func (s *AnalysisStorage) ListReportCards(ctx context.Context, userID string) ([]domain.ReportCard, error) {
	query := `
		SELECT r.id, r.name, r.report_type, r.status, COUNT(res.id), r.created_at
		FROM reports r
		LEFT JOIN results res ON res.report_id = r.id
		WHERE r.user_id = $1
		GROUP BY r.id, r.name, r.report_type, r.status, r.created_at
		ORDER BY r.created_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing report cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.ReportCard
	for rows.Next() {
		var card domain.ReportCard
		if err := rows.Scan(&card.ID, &card.Name, &card.ReportType, &card.Status, &card.ResultCount, &card.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning report card row: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating report card rows: %w", err)
	}

	return cards, nil
}

// ListResultSummaries returns every result for the user joined with its
// report metadata, newest report first.
func (s *AnalysisStorage) ListResultSummaries(ctx context.Context, userID string) ([]domain.ResultSummary, error) {
	query := `
		SELECT res.id, res.report_id, res.tone, res.language, res.payload, res.created_at,
			   r.name, r.created_at
		FROM results res
		JOIN reports r ON res.report_id = r.id
		WHERE r.user_id = $1
		ORDER BY r.created_at DESC, res.created_at DESC`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing result summaries: %w", err)
	}
	defer rows.Close()

	var summaries []domain.ResultSummary
	for rows.Next() {
		var summary domain.ResultSummary
		if err := rows.Scan(
			&summary.Result.ID, &summary.Result.ReportID, &summary.Result.Tone, &summary.Result.Language,
			&summary.Result.Payload, &summary.Result.CreatedAt,
			&summary.ReportName, &summary.ReportAddedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning result summary row: %w", err)
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating result summary rows: %w", err)
	}

	return summaries, nil
}

// ListRecentMetrics returns metric observations from the user's most recent
// reports, ordered newest-first by report then result timestamp. The report
// window (not the row count) is bounded by reportLimit.
func (s *AnalysisStorage) ListRecentMetrics(ctx context.Context, userID string, reportLimit int) ([]domain.MetricObservation, error) {
	query := `
		WITH recent_reports AS (
			SELECT id, created_at
			FROM reports
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		)
		SELECT m.name, m.value, rr.created_at, res.created_at
		FROM metrics m
		JOIN results res ON m.result_id = res.id
		JOIN recent_reports rr ON res.report_id = rr.id
		ORDER BY rr.created_at DESC, res.created_at DESC, m.name`

	rows, err := s.db.Query(ctx, query, userID, reportLimit)
	if err != nil {
		return nil, fmt.Errorf("listing recent metrics: %w", err)
	}
	defer rows.Close()

	var observations []domain.MetricObservation
	for rows.Next() {
		var obs domain.MetricObservation
		if err := rows.Scan(&obs.Name, &obs.Value, &obs.ReportAddedAt, &obs.ResultCreatedAt); err != nil {
			return nil, fmt.Errorf("scanning metric observation row: %w", err)
		}
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating metric observation rows: %w", err)
	}

	return observations, nil
}

// SaveDigitalProfile inserts the new profile as the single recent row,
// flipping previous recent rows off inside the same transaction.
func (s *AnalysisStorage) SaveDigitalProfile(ctx context.Context, profile *domain.DigitalProfile) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning profile transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	demote := `UPDATE digital_profiles SET recent = FALSE WHERE user_id = $1 AND recent`
	if _, err := tx.Exec(ctx, demote, profile.UserID); err != nil {
		return fmt.Errorf("demoting previous profiles: %w", err)
	}

	insert := `
		INSERT INTO digital_profiles
			(id, user_id, health_overview, recommendations, attention_points, risks, recent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7)`

	if _, err := tx.Exec(ctx, insert,
		profile.ID, profile.UserID, profile.HealthOverview,
		profile.Recommendations, profile.AttentionPoints, profile.Risks, profile.CreatedAt,
	); err != nil {
		s.log.WithFields(logrus.Fields{
			"user_id": profile.UserID,
			"error":   err,
		}).Error("Failed to insert digital profile")
		return fmt.Errorf("inserting digital profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing profile transaction: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"user_id":    profile.UserID,
		"profile_id": profile.ID,
	}).Info("Digital profile persisted")

	return nil
}

// GetRecentProfile retrieves the user's current digital profile.
func (s *AnalysisStorage) GetRecentProfile(ctx context.Context, userID string) (*domain.DigitalProfile, error) {
	query := `
		SELECT id, user_id, health_overview, recommendations, attention_points, risks, recent, created_at
		FROM digital_profiles
		WHERE user_id = $1 AND recent
		ORDER BY created_at DESC
		LIMIT 1`

	var profile domain.DigitalProfile
	err := s.db.QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.UserID,
		&profile.HealthOverview,
		&profile.Recommendations,
		&profile.AttentionPoints,
		&profile.Risks,
		&profile.Recent,
		&profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("digital profile not found: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("getting recent profile: %w", err)
	}

	return &profile, nil
}
