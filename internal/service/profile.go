package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lab-analysis-server/internal/domain"
)

// NoProfileDataOverview is the fixed overview persisted for users with no
// stored analyses. No model call happens in that case.
const NoProfileDataOverview = "No analysis history available yet."

// ProfileAggregator builds longitudinal views over a user's stored results:
// the narrative digital profile (through the model) and the rolling
// per-metric history (pure aggregation, no model involvement).
type ProfileAggregator struct {
	logger      *logrus.Logger
	storage     domain.Storage
	generator   domain.Generator
	selector    *TemplateSelector
	reportLimit int
	valueLimit  int
	timeout     time.Duration
}

// NewProfileAggregator creates a new aggregator. reportLimit and valueLimit
// bound the metrics-history window; non-positive values default to 3.
func NewProfileAggregator(
	logger *logrus.Logger,
	storage domain.Storage,
	generator domain.Generator,
	selector *TemplateSelector,
	reportLimit, valueLimit int,
	timeout time.Duration,
) *ProfileAggregator {
	if reportLimit <= 0 {
		reportLimit = 3
	}
	if valueLimit <= 0 {
		valueLimit = 3
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &ProfileAggregator{
		logger:      logger,
		storage:     storage,
		generator:   generator,
		selector:    selector,
		reportLimit: reportLimit,
		valueLimit:  valueLimit,
		timeout:     timeout,
	}
}

// BuildProfile regenerates the user's digital profile from their full result
// history. The new profile is persisted as the single recent row; previous
// rows are flipped off in the same transaction. A user with no history gets
// the fixed no-data profile, persisted like any other so that exactly one
// recent row exists after every successful build, but without a model call.
func (p *ProfileAggregator) BuildProfile(ctx context.Context, userID string, language domain.Language) (*domain.DigitalProfile, error) {
	summaries, err := p.storage.ListResultSummaries(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list result summaries: %w", err)
	}

	if len(summaries) == 0 {
		p.logger.WithField("user_id", userID).Debug("No stored results, building no-data profile")
		profile := &domain.DigitalProfile{
			ID:             uuid.New().String(),
			UserID:         userID,
			HealthOverview: NoProfileDataOverview,
			Recent:         true,
			CreatedAt:      time.Now().UTC(),
		}
		if err := p.storage.SaveDigitalProfile(ctx, profile); err != nil {
			return nil, fmt.Errorf("persist digital profile: %w", err)
		}
		return profile, nil
	}

	digest := buildResultsDigest(summaries)

	template, err := p.selector.ProfileTemplate(language)
	if err != nil {
		return nil, err
	}
	prompt := FormatProfilePrompt(template, digest)

	genCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.generator.Generate(genCtx, prompt)
	if err != nil {
		return nil, &domain.GenerationError{Reason: err.Error()}
	}

	doc, err := domain.ParseDocument(raw)
	if err != nil {
		return nil, err
	}

	profile := &domain.DigitalProfile{
		ID:              uuid.New().String(),
		UserID:          userID,
		HealthOverview:  doc.StringField("overview_health_status"),
		Recommendations: doc.StringField("recommendations"),
		AttentionPoints: doc.StringField("attention_points"),
		Risks:           doc.StringField("risks"),
		Recent:          true,
		CreatedAt:       time.Now().UTC(),
	}

	if err := p.storage.SaveDigitalProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("persist digital profile: %w", err)
	}

	p.logger.WithFields(logrus.Fields{
		"user_id":    userID,
		"profile_id": profile.ID,
		"results":    len(summaries),
	}).Info("Digital profile rebuilt")

	return profile, nil
}

// GetRecentProfile returns the user's current digital profile, or
// domain.ErrNotFound when none was ever built.
func (p *ProfileAggregator) GetRecentProfile(ctx context.Context, userID string) (*domain.DigitalProfile, error) {
	return p.storage.GetRecentProfile(ctx, userID)
}

// buildResultsDigest serializes each stored result into one compact line and
// joins them, giving the model the whole history in a single prompt slot.
func buildResultsDigest(summaries []domain.ResultSummary) string {
	parts := make([]string, 0, len(summaries))
	for _, s := range summaries {
		summary := ""
		recommendations := ""
		if doc, err := s.Result.Document(); err == nil {
			summary = doc.StringField("summary")
			recommendations = doc.StringField("recommendations")
		}
		parts = append(parts, fmt.Sprintf(
			"report_id: %s, tone: %s, language: %s, summary: %s, recommendations: %s (Result ID: %s, Report Name: %s, Date: %s)",
			s.Result.ReportID, s.Result.Tone, s.Result.Language,
			summary, recommendations,
			s.Result.ID, s.ReportName, s.ReportAddedAt.Format("2006-01-02"),
		))
	}
	return strings.Join(parts, ", ")
}

// BuildMetricsHistory computes the rolling per-metric view: values from the
// user's most recent reports, newest first, capped per metric, with the
// numeric minimum among the kept values. Non-numeric values stay visible in
// the list but are ignored by the minimum.
func (p *ProfileAggregator) BuildMetricsHistory(ctx context.Context, userID string) (map[string]domain.MetricHistory, error) {
	observations, err := p.storage.ListRecentMetrics(ctx, userID, p.reportLimit)
	if err != nil {
		return nil, fmt.Errorf("list recent metrics: %w", err)
	}

	history := make(map[string]domain.MetricHistory)
	for _, obs := range observations {
		entry := history[obs.Name]
		if len(entry.Values) >= p.valueLimit {
			continue
		}
		entry.Values = append(entry.Values, domain.MetricHistoryEntry{
			Value:         obs.Value,
			AddedDatetime: obs.ReportAddedAt,
		})
		record := domain.MetricRecord{Value: obs.Value}
		if v, ok := record.NumericValue(); ok {
			if entry.Minimum == nil || v < *entry.Minimum {
				min := v
				entry.Minimum = &min
			}
		}
		history[obs.Name] = entry
	}

	return history, nil
}
