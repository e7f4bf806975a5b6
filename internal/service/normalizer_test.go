package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lab-analysis-server/internal/domain"
)

func TestNormalizeWellFormedEntries(t *testing.T) {
	normalizer := NewMetricNormalizer(testLogger())

	detailed := map[string]any{
		"Hemoglobin": map[string]any{
			"value":        13.5,
			"unit":         "g/dL",
			"normal_range": "13.0 - 17.0",
			"status":       "طبيعي",
		},
		"WBC": map[string]any{
			"value":        7.2,
			"unit":         "x10^9/L",
			"normal_range": "4.0 - 11.0",
			"status":       "normal",
		},
		"Platelets": map[string]any{
			"value":        250,
			"unit":         "x10^9/L",
			"normal_range": "150 - 400",
			"status":       "normal",
		},
	}

	records := normalizer.Normalize(detailed)
	require.Len(t, records, 3)

	// Sorted by name for deterministic output.
	hgb := records[0]
	assert.Equal(t, "Hemoglobin", hgb.Name)
	assert.Equal(t, "13.5", hgb.Value)
	assert.Equal(t, "g/dL", hgb.Unit)
	assert.Equal(t, "13.0", hgb.ReferenceMin)
	assert.Equal(t, "17.0", hgb.ReferenceMax)
	assert.Equal(t, domain.StatusNormal, hgb.Status, "Arabic status must normalize")

	lo, hi, ok := hgb.ReferenceBounds()
	require.True(t, ok)
	assert.Equal(t, 13.0, lo)
	assert.Equal(t, 17.0, hi)

	plt := records[1]
	assert.Equal(t, "Platelets", plt.Name)
	assert.Equal(t, "150", plt.ReferenceMin)
	assert.Equal(t, "400", plt.ReferenceMax)

	wbc := records[2]
	assert.Equal(t, "WBC", wbc.Name)
	assert.Equal(t, "4.0", wbc.ReferenceMin)
	assert.Equal(t, "11.0", wbc.ReferenceMax)
}

func TestNormalizeRangeDegradation(t *testing.T) {
	normalizer := NewMetricNormalizer(testLogger())

	tests := []struct {
		name    string
		entry   any
		wantMin string
		wantMax string
	}{
		{
			name: "unparseable free text keeps original as lower bound",
			entry: map[string]any{
				"value":        180,
				"normal_range": "desirable: below two hundred",
			},
			wantMin: "desirable: below two hundred",
			wantMax: domain.RangeNone,
		},
		{
			name: "range mapping serialized as lower bound",
			entry: map[string]any{
				"value":        92,
				"normal_range": map[string]any{"fasting": "70 - 100"},
			},
			wantMin: `{"fasting":"70 - 100"}`,
			wantMax: domain.RangeNone,
		},
		{
			name:    "missing range yields sentinels",
			entry:   map[string]any{"value": 92},
			wantMin: domain.UndefinedRange,
			wantMax: domain.UndefinedRange,
		},
		{
			name:    "empty range yields sentinels",
			entry:   map[string]any{"value": 92, "normal_range": ""},
			wantMin: domain.UndefinedRange,
			wantMax: domain.UndefinedRange,
		},
		{
			name:    "scalar entry yields sentinels",
			entry:   92.5,
			wantMin: domain.UndefinedRange,
			wantMax: domain.UndefinedRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := normalizer.Normalize(map[string]any{"Metric": tt.entry})
			require.Len(t, records, 1)
			assert.Equal(t, tt.wantMin, records[0].ReferenceMin)
			assert.Equal(t, tt.wantMax, records[0].ReferenceMax)
		})
	}
}

func TestNormalizeIsolatesMalformedEntries(t *testing.T) {
	normalizer := NewMetricNormalizer(testLogger())

	detailed := map[string]any{
		"Good": map[string]any{
			"value":        5.0,
			"unit":         "mmol/L",
			"normal_range": "3.5 - 5.5",
			"status":       "normal",
		},
		"Bad": []any{"not", "a", "mapping"},
	}

	records := normalizer.Normalize(detailed)
	require.Len(t, records, 2, "malformed entry must not abort the batch")

	bad := records[0]
	assert.Equal(t, "Bad", bad.Name)
	assert.Equal(t, `["not","a","mapping"]`, bad.Value)
	assert.Equal(t, domain.UndefinedRange, bad.ReferenceMin)
	assert.Equal(t, domain.StatusNotAvailable, bad.Status)

	good := records[1]
	assert.Equal(t, "3.5", good.ReferenceMin)
	assert.Equal(t, "5.5", good.ReferenceMax)
}

func TestNormalizeNestedValue(t *testing.T) {
	normalizer := NewMetricNormalizer(testLogger())

	detailed := map[string]any{
		"Glucose Tolerance": map[string]any{
			"value":        map[string]any{"first_hour": float64(168)},
			"unit":         "mg/dL",
			"normal_range": "70 - 140",
			"status":       "high",
		},
	}

	records := normalizer.Normalize(detailed)
	require.Len(t, records, 1)
	assert.Equal(t, `{"first_hour":168}`, records[0].Value)
	assert.Equal(t, domain.StatusHigh, records[0].Status)

	_, ok := records[0].NumericValue()
	assert.False(t, ok, "nested values are skipped by numeric aggregation")
}

func TestNormalizeEmptyInput(t *testing.T) {
	normalizer := NewMetricNormalizer(testLogger())
	assert.Nil(t, normalizer.Normalize(nil))
	assert.Nil(t, normalizer.Normalize(map[string]any{}))
}
