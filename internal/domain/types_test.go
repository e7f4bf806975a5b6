package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToneIsValid(t *testing.T) {
	valid := []Tone{ToneGeneral, ToneDoctor, ToneExecutive, ToneEducational,
		TonePreventative, ToneTechnical, ToneEmpathetic}
	for _, tone := range valid {
		assert.True(t, tone.IsValid(), "tone %q should be valid", tone)
	}
	assert.False(t, Tone("sarcastic").IsValid())
	assert.False(t, Tone("").IsValid())
}

func TestLanguageIsValid(t *testing.T) {
	assert.True(t, English.IsValid())
	assert.True(t, Arabic.IsValid())
	assert.False(t, Language("fr").IsValid())
	assert.False(t, Language("").IsValid())
}

func TestLanguageIsRTL(t *testing.T) {
	assert.True(t, Arabic.IsRTL())
	assert.False(t, English.IsRTL())
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want MetricStatus
	}{
		{"arabic high", "مرتفع", StatusHigh},
		{"arabic normal", "طبيعي", StatusNormal},
		{"arabic low", "منخفض", StatusLow},
		{"arabic critical", "حرج", StatusCritical},
		{"arabic warning", "تحذير", StatusWarning},
		{"arabic not available", "غير متوفر", StatusNotAvailable},
		{"english passes through", "high", StatusHigh},
		{"unrecognized passes through", "borderline", MetricStatus("borderline")},
		{"empty becomes not-available", "", StatusNotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeStatus(tt.raw))
		})
	}
}

func TestAnalysisRequestValidate(t *testing.T) {
	base := AnalysisRequest{
		UserID:   "user-1",
		Content:  "Complete Blood Count ...",
		Tone:     ToneGeneral,
		Language: English,
	}

	t.Run("valid request", func(t *testing.T) {
		req := base
		assert.NoError(t, req.Validate())
	})

	t.Run("missing user", func(t *testing.T) {
		req := base
		req.UserID = ""
		assert.Error(t, req.Validate())
	})

	t.Run("missing content", func(t *testing.T) {
		req := base
		req.Content = ""
		assert.Error(t, req.Validate())
	})

	t.Run("invalid tone", func(t *testing.T) {
		req := base
		req.Tone = "poetic"
		assert.ErrorIs(t, req.Validate(), ErrInvalidTone)
	})

	t.Run("invalid language", func(t *testing.T) {
		req := base
		req.Language = "de"
		assert.ErrorIs(t, req.Validate(), ErrInvalidLanguage)
	})
}

func TestMetricRecordNumericValue(t *testing.T) {
	m := MetricRecord{Value: "13.5"}
	v, ok := m.NumericValue()
	assert.True(t, ok)
	assert.Equal(t, 13.5, v)

	m.Value = `{"first_hour":38}`
	_, ok = m.NumericValue()
	assert.False(t, ok)
}

func TestMetricRecordReferenceBounds(t *testing.T) {
	m := MetricRecord{ReferenceMin: "13.0", ReferenceMax: "17.0"}
	lo, hi, ok := m.ReferenceBounds()
	assert.True(t, ok)
	assert.Equal(t, 13.0, lo)
	assert.Equal(t, 17.0, hi)

	m = MetricRecord{ReferenceMin: UndefinedRange, ReferenceMax: UndefinedRange}
	_, _, ok = m.ReferenceBounds()
	assert.False(t, ok)
}
