package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lab-analysis-server/internal/domain"
)

const profileResponse = `{
	"overview_health_status": "Generally healthy with mild anemia history",
	"recommendations": ["iron-rich diet", "recheck CBC in 3 months"],
	"attention_points": "Hemoglobin trending low",
	"risks": "Low risk of iron deficiency anemia"
}`

func newTestAggregator(storage domain.Storage, gen domain.Generator) *ProfileAggregator {
	logger := testLogger()
	return NewProfileAggregator(
		logger,
		storage,
		gen,
		NewTemplateSelector(logger, DefaultTemplateCatalog()),
		3, 3,
		5*time.Second,
	)
}

func TestBuildProfileEmptyHistory(t *testing.T) {
	storage := newFakeStorage()
	gen := &fakeGenerator{response: profileResponse}
	aggregator := newTestAggregator(storage, gen)

	profile, err := aggregator.BuildProfile(context.Background(), "new-user", domain.English)
	require.NoError(t, err)
	assert.Equal(t, NoProfileDataOverview, profile.HealthOverview)
	assert.Equal(t, 0, gen.callCount(), "no model call for users without history")

	// The no-data profile is persisted like any other, so the user has a
	// recent row immediately after their first build.
	require.Len(t, storage.profiles, 1)
	stored, err := storage.GetRecentProfile(context.Background(), "new-user")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, stored.ID)
	assert.True(t, stored.Recent)
}

func TestBuildProfileFromHistory(t *testing.T) {
	storage := newFakeStorage()
	storage.summaries = []domain.ResultSummary{
		{
			Result: domain.Result{
				ID:       "result-1",
				ReportID: "report-1",
				Tone:     domain.ToneGeneral,
				Language: domain.English,
				Payload:  sampleResponse,
			},
			ReportName:    "cbc-january",
			ReportAddedAt: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
		},
	}
	gen := &fakeGenerator{response: profileResponse}
	aggregator := newTestAggregator(storage, gen)

	profile, err := aggregator.BuildProfile(context.Background(), "user-1", domain.English)
	require.NoError(t, err)
	assert.Equal(t, 1, gen.callCount())
	assert.Equal(t, "Generally healthy with mild anemia history", profile.HealthOverview)
	assert.Equal(t, `["iron-rich diet","recheck CBC in 3 months"]`, profile.Recommendations)
	assert.Equal(t, "Hemoglobin trending low", profile.AttentionPoints)
	assert.True(t, profile.Recent)
	require.Len(t, storage.profiles, 1)
}

func TestBuildProfileRecencyExclusivity(t *testing.T) {
	storage := newFakeStorage()
	storage.summaries = []domain.ResultSummary{
		{
			Result: domain.Result{
				ID: "result-1", ReportID: "report-1",
				Tone: domain.ToneGeneral, Language: domain.English,
				Payload: sampleResponse,
			},
			ReportName:    "cbc-january",
			ReportAddedAt: time.Now().UTC(),
		},
	}
	gen := &fakeGenerator{response: profileResponse}
	aggregator := newTestAggregator(storage, gen)

	_, err := aggregator.BuildProfile(context.Background(), "user-1", domain.English)
	require.NoError(t, err)
	_, err = aggregator.BuildProfile(context.Background(), "user-1", domain.English)
	require.NoError(t, err)

	recent := 0
	for _, p := range storage.profiles {
		if p.Recent {
			recent++
		}
	}
	assert.Equal(t, 1, recent, "exactly one profile row may be recent")
	assert.Len(t, storage.profiles, 2)
}

func TestBuildProfileGenerationFailure(t *testing.T) {
	storage := newFakeStorage()
	storage.summaries = []domain.ResultSummary{
		{
			Result: domain.Result{
				ID: "result-1", ReportID: "report-1",
				Tone: domain.ToneGeneral, Language: domain.English,
				Payload: sampleResponse,
			},
			ReportName:    "cbc-january",
			ReportAddedAt: time.Now().UTC(),
		},
	}
	gen := &fakeGenerator{response: "not json at all"}
	aggregator := newTestAggregator(storage, gen)

	_, err := aggregator.BuildProfile(context.Background(), "user-1", domain.English)
	require.Error(t, err)
	assert.Empty(t, storage.profiles, "failed build must not persist a profile")
}

func TestBuildResultsDigest(t *testing.T) {
	summaries := []domain.ResultSummary{
		{
			Result: domain.Result{
				ID: "result-1", ReportID: "report-1",
				Tone: domain.ToneGeneral, Language: domain.English,
				Payload: sampleResponse,
			},
			ReportName:    "cbc-january",
			ReportAddedAt: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			Result: domain.Result{
				ID: "result-2", ReportID: "report-2",
				Tone: domain.ToneDoctor, Language: domain.Arabic,
				Payload: `{"summary": "thyroid normal"}`,
			},
			ReportName:    "thyroid-february",
			ReportAddedAt: time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC),
		},
	}

	digest := buildResultsDigest(summaries)
	assert.Contains(t, digest, "report_id: report-1")
	assert.Contains(t, digest, "summary: CBC within normal limits")
	assert.Contains(t, digest, "Report Name: cbc-january")
	assert.Contains(t, digest, "Date: 2026-01-10")
	assert.Contains(t, digest, "tone: doctor")
	assert.Contains(t, digest, "summary: thyroid normal")
}

func TestBuildMetricsHistory(t *testing.T) {
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	storage := newFakeStorage()
	// Newest first, as the storage query orders them. Four hemoglobin
	// observations: the cap keeps three.
	storage.obs = []domain.MetricObservation{
		{Name: "Hemoglobin", Value: "14.1", ReportAddedAt: base},
		{Name: "Hemoglobin", Value: "13.2", ReportAddedAt: base.AddDate(0, -1, 0)},
		{Name: "Hemoglobin", Value: "12.8", ReportAddedAt: base.AddDate(0, -2, 0)},
		{Name: "Hemoglobin", Value: "15.0", ReportAddedAt: base.AddDate(0, -3, 0)},
		{Name: "Glucose Tolerance", Value: `{"first_hour":168}`, ReportAddedAt: base},
		{Name: "Glucose Tolerance", Value: "140", ReportAddedAt: base.AddDate(0, -1, 0)},
	}
	aggregator := newTestAggregator(storage, &fakeGenerator{})

	history, err := aggregator.BuildMetricsHistory(context.Background(), "user-1")
	require.NoError(t, err)

	hgb := history["Hemoglobin"]
	require.Len(t, hgb.Values, 3, "history is capped at three values per metric")
	assert.Equal(t, "14.1", hgb.Values[0].Value)
	require.NotNil(t, hgb.Minimum)
	assert.Equal(t, 12.8, *hgb.Minimum, "minimum covers only the kept values")

	gt := history["Glucose Tolerance"]
	require.Len(t, gt.Values, 2)
	require.NotNil(t, gt.Minimum)
	assert.Equal(t, 140.0, *gt.Minimum, "non-numeric values are ignored by the minimum")
}

func TestBuildMetricsHistoryAllNonNumeric(t *testing.T) {
	storage := newFakeStorage()
	storage.obs = []domain.MetricObservation{
		{Name: "Appearance", Value: "clear", ReportAddedAt: time.Now().UTC()},
	}
	aggregator := newTestAggregator(storage, &fakeGenerator{})

	history, err := aggregator.BuildMetricsHistory(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, history["Appearance"].Minimum)
	assert.Len(t, history["Appearance"].Values, 1)
}

func TestAnalyzeHealthTrends(t *testing.T) {
	minOf := func(v float64) *float64 { return &v }
	history := map[string]domain.MetricHistory{
		"Hemoglobin": {
			Minimum: minOf(12.8),
			Values: []domain.MetricHistoryEntry{
				{Value: "14.1"}, {Value: "13.2"}, {Value: "12.8"},
			},
		},
		"Glucose": {
			Minimum: minOf(92),
			Values: []domain.MetricHistoryEntry{
				{Value: "92"}, {Value: "110"},
			},
		},
		"Cholesterol": {
			Minimum: minOf(190),
			Values: []domain.MetricHistoryEntry{
				{Value: "190"}, {Value: "190"},
			},
		},
		"Appearance": {
			Values: []domain.MetricHistoryEntry{{Value: "clear"}},
		},
	}

	trends := AnalyzeHealthTrends(history)
	assert.Contains(t, trends["Hemoglobin"], TrendIncreasing)
	assert.Contains(t, trends["Glucose"], TrendDecreasing)
	assert.Contains(t, trends["Cholesterol"], TrendStable)
	assert.NotContains(t, trends, "Appearance", "single reading yields no trend")
}
