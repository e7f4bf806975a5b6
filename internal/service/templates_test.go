package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lab-analysis-server/internal/domain"
)

func TestTemplateSelectorSelect(t *testing.T) {
	selector := NewTemplateSelector(testLogger(), DefaultTemplateCatalog())

	t.Run("cbc english general tone", func(t *testing.T) {
		tpl, err := selector.Select(domain.CBC, domain.English, domain.ToneGeneral)
		require.NoError(t, err)
		assert.Contains(t, tpl, "Complete Blood Count")
		assert.True(t, strings.HasSuffix(tpl, "JSON:"))
	})

	t.Run("unknown type falls back to general template", func(t *testing.T) {
		tpl, err := selector.Select(domain.UnknownReportType, domain.English, domain.ToneGeneral)
		require.NoError(t, err)
		assert.Equal(t, generalPromptEN, tpl)
	})

	t.Run("type without dedicated template falls back", func(t *testing.T) {
		tpl, err := selector.Select(domain.Urinalysis, domain.Arabic, domain.ToneGeneral)
		require.NoError(t, err)
		assert.Equal(t, generalPromptAR, tpl)
	})

	t.Run("type map wins for non-general tones", func(t *testing.T) {
		tpl, err := selector.Select(domain.CBC, domain.English, domain.ToneDoctor)
		require.NoError(t, err)
		assert.Contains(t, tpl, "Complete Blood Count")
		assert.Contains(t, tpl, placeholderTone)
	})

	t.Run("tone set used only when type and general miss", func(t *testing.T) {
		toneOnly := NewTemplateSelector(testLogger(), &TemplateCatalog{
			byTone: map[domain.Tone]map[domain.Language]string{
				domain.ToneDoctor: {domain.English: tonePromptEN},
			},
		})
		tpl, err := toneOnly.Select(domain.CBC, domain.English, domain.ToneDoctor)
		require.NoError(t, err)
		assert.Equal(t, tonePromptEN, tpl)
	})

	t.Run("every type template carries the tone slot", func(t *testing.T) {
		for reportType, byLang := range DefaultTemplateCatalog().byType {
			for language, tpl := range byLang {
				assert.Contains(t, tpl, placeholderTone,
					"type=%s language=%s", reportType, language)
			}
		}
	})

	t.Run("empty catalog is a configuration error", func(t *testing.T) {
		empty := NewTemplateSelector(testLogger(), &TemplateCatalog{})
		_, err := empty.Select(domain.CBC, domain.English, domain.ToneGeneral)
		assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
	})
}

func TestTemplateSelectorProfileTemplate(t *testing.T) {
	selector := NewTemplateSelector(testLogger(), DefaultTemplateCatalog())

	tpl, err := selector.ProfileTemplate(domain.Arabic)
	require.NoError(t, err)
	assert.Contains(t, tpl, placeholderDigest)

	empty := NewTemplateSelector(testLogger(), &TemplateCatalog{})
	_, err = empty.ProfileTemplate(domain.English)
	assert.ErrorIs(t, err, domain.ErrTemplateNotFound)
}

func TestFormatPrompt(t *testing.T) {
	selector := NewTemplateSelector(testLogger(), DefaultTemplateCatalog())

	t.Run("report text substitution", func(t *testing.T) {
		tpl, err := selector.Select(domain.CBC, domain.English, domain.ToneGeneral)
		require.NoError(t, err)

		prompt := FormatPrompt(tpl, "Hemoglobin 13.5 g/dL", domain.ToneGeneral, "")
		assert.Contains(t, prompt, "Hemoglobin 13.5 g/dL")
		assert.NotContains(t, prompt, placeholderReportText)
		assert.True(t, strings.HasSuffix(prompt, "JSON:"))
	})

	t.Run("glucose test type substitution", func(t *testing.T) {
		tpl, err := selector.Select(domain.Glucose, domain.English, domain.ToneGeneral)
		require.NoError(t, err)

		prompt := FormatPrompt(tpl, "FBS 92", domain.ToneGeneral, "fasting")
		assert.Contains(t, prompt, "fasting blood glucose report")
		assert.NotContains(t, prompt, placeholderTestType)
	})

	t.Run("tone substitution", func(t *testing.T) {
		tpl, err := selector.Select(domain.CBC, domain.English, domain.ToneEmpathetic)
		require.NoError(t, err)

		prompt := FormatPrompt(tpl, "Hemoglobin 13.5", domain.ToneEmpathetic, "")
		assert.Contains(t, prompt, "empathetic tone")
		assert.NotContains(t, prompt, placeholderTone)
	})
}

func TestGlucoseTestType(t *testing.T) {
	assert.Equal(t, "fasting", GlucoseTestType("Fasting glucose: 92"))
	assert.Equal(t, "fasting", GlucoseTestType("FBS 92 mg/dL"))
	assert.Equal(t, "random", GlucoseTestType("Random glucose 140"))
	assert.Equal(t, "random", GlucoseTestType(""))
}
