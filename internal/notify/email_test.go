package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lab-analysis-server/internal/domain"
)

func TestRenderAnalysisHTML(t *testing.T) {
	analysis := domain.Document{
		"summary":         "All values within range",
		"recommendations": []any{"drink water", "sleep 8 hours"},
		"detailed_results": map[string]any{
			"Hemoglobin": map[string]any{"value": 13.5},
		},
		"empty": nil,
	}

	out := RenderAnalysisHTML(domain.CBC, analysis, false)

	assert.Contains(t, out, "<h2>Cbc</h2>")
	assert.Contains(t, out, "<h3>Summary</h3>")
	assert.Contains(t, out, "<p>All values within range</p>")
	assert.Contains(t, out, "<li>drink water</li>")
	assert.Contains(t, out, "<strong>Hemoglobin:</strong>")
	assert.NotContains(t, out, "Empty", "nil fields are skipped")
	assert.NotContains(t, out, `dir="rtl"`)
}

func TestRenderAnalysisHTMLRightToLeft(t *testing.T) {
	analysis := domain.Document{"summary": "كل القيم طبيعية"}

	out := RenderAnalysisHTML(domain.CBC, analysis, true)
	assert.Contains(t, out, `dir="rtl"`)
	assert.Contains(t, out, "كل القيم طبيعية")
}

func TestRenderAnalysisHTMLEscapesMarkup(t *testing.T) {
	analysis := domain.Document{"summary": `<script>alert("x")</script>`}

	out := RenderAnalysisHTML(domain.GeneralMedical, analysis, false)
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Key Findings", titleCase("key findings"))
	assert.Equal(t, "Hemoglobin", titleCase("hemoglobin"))
	assert.Equal(t, "", titleCase(""))
}

func TestRenderAnalysisHTMLMultibyteHeadings(t *testing.T) {
	analysis := domain.Document{
		"detailed_results": map[string]any{
			"الهيموجلوبين": map[string]any{"value": 13.5},
		},
	}

	out := RenderAnalysisHTML(domain.CBC, analysis, true)
	assert.Contains(t, out, "الهيموجلوبين")
	assert.NotContains(t, out, "�", "multibyte names must survive heading case folding")
}

func TestSubjectName(t *testing.T) {
	assert.Equal(t, "lipid", subjectName(domain.Lipid))
	assert.Equal(t, "general medical report", subjectName(domain.GeneralMedical))
	assert.Equal(t, "lab report", subjectName(domain.UnknownReportType))
	assert.Equal(t, "lab report", subjectName(domain.ReportType("")))
}
