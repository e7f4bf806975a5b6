package service

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/lab-analysis-server/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestClassify(t *testing.T) {
	classifier := NewReportClassifier(testLogger())

	tests := []struct {
		name string
		text string
		want domain.ReportType
	}{
		{
			name: "complete blood count phrase",
			text: "Complete Blood Count\nHemoglobin 13.5 g/dL",
			want: domain.CBC,
		},
		{
			name: "hemoglobin with hematocrit",
			text: "Hemoglobin 13.5, Hematocrit 41%",
			want: domain.CBC,
		},
		{
			name: "specific phrase wins over generic token",
			text: "Lipid Profile: Total Cholesterol 190 mg/dL",
			want: domain.Lipid,
		},
		{
			name: "generic cholesterol alone",
			text: "Cholesterol 210 mg/dL",
			want: domain.Lipid,
		},
		{
			name: "glycated hemoglobin beats glucose token",
			text: "Glycated Hemoglobin (HbA1c) 5.9% estimated average glucose 123",
			want: domain.HbA1c,
		},
		{
			name: "oral glucose tolerance",
			text: "Oral Glucose Tolerance Test, 2 hour protocol",
			want: domain.OGTT,
		},
		{
			name: "fasting glucose",
			text: "Fasting blood sugar: 92 mg/dL",
			want: domain.Glucose,
		},
		{
			name: "comparison request",
			text: "Please compare with previous result from January",
			want: domain.CompareBloodTest,
		},
		{
			name: "liver panel",
			text: "Liver Function Test: ALT 25, AST 30, Bilirubin 0.8",
			want: domain.Liver,
		},
		{
			name: "kidney markers",
			text: "Serum creatinine 1.1 with urea 32",
			want: domain.Kidney,
		},
		{
			name: "thyroid",
			text: "TSH 2.4 mIU/L within reference",
			want: domain.Thyroid,
		},
		{
			name: "vitamin d",
			text: "Vitamin D (25-Hydroxy): 28 ng/mL",
			want: domain.VitaminD,
		},
		{
			name: "iron study",
			text: "Ferritin 45 ng/mL, transferrin saturation 30%",
			want: domain.Iron,
		},
		{
			name: "inflammation markers",
			text: "CRP 12 mg/L, ESR 30 mm/hr",
			want: domain.Inflammation,
		},
		{
			name: "imaging report",
			text: "Chest X-Ray: no focal consolidation",
			want: domain.ImagingReport,
		},
		{
			name: "generic blood work",
			text: "Routine blood work ordered by Dr. Ahmed",
			want: domain.OtherBloodTest,
		},
		{
			name: "general medical report",
			text: "Clinical report and diagnosis summary",
			want: domain.GeneralMedical,
		},
		{
			name: "empty text",
			text: "",
			want: domain.UnknownReportType,
		},
		{
			name: "unrelated text",
			text: "quarterly sales figures for the region",
			want: domain.UnknownReportType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifier.Classify(tt.text))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	classifier := NewReportClassifier(testLogger())
	text := "Complete Blood Count with TSH and cholesterol mentioned"

	first := classifier.Classify(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, classifier.Classify(text))
	}
	// Compare/CBC rules sit ahead of thyroid and lipid in the chain.
	assert.Equal(t, domain.CBC, first)
}
