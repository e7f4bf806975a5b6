// Package domain contains core business entities and types for medical
// lab-report analysis: report typing, analysis tones, metric statuses and the
// loosely-typed documents produced by the language-model collaborator.
package domain

import "errors"

// ReportType identifies which lab panel (or document category) a submitted
// report represents. The set is closed but extensible; classification always
// resolves to exactly one tag, with UNKNOWN as the terminal fallback.
type ReportType string

const (
	CBC               ReportType = "cbc"
	CompareBloodTest  ReportType = "compare_blood_test"
	OGTT              ReportType = "ogtt"
	Glucose           ReportType = "glucose"
	Liver             ReportType = "liver"
	Kidney            ReportType = "kidney"
	Electrolytes      ReportType = "electrolytes"
	BMP               ReportType = "bmp"
	CMP               ReportType = "cmp"
	Lipid             ReportType = "lipid"
	HbA1c             ReportType = "hba1c"
	VitaminD          ReportType = "vitamin_d"
	Thyroid           ReportType = "thyroid"
	Iron              ReportType = "iron"
	Coagulation       ReportType = "coagulation"
	Hormone           ReportType = "hormone"
	Inflammation      ReportType = "inflammation"
	Urinalysis        ReportType = "urinalysis"
	ImagingReport     ReportType = "imaging_report"
	OtherBloodTest    ReportType = "other_blood_test"
	GeneralMedical    ReportType = "general_medical_report"
	UnknownReportType ReportType = "unknown"
)

// Tone is the requested narrative style for an analysis.
type Tone string

const (
	ToneGeneral      Tone = "general"
	ToneDoctor       Tone = "doctor"
	ToneExecutive    Tone = "executive"
	ToneEducational  Tone = "educational"
	TonePreventative Tone = "preventative"
	ToneTechnical    Tone = "technical"
	ToneEmpathetic   Tone = "empathetic"
)

// Language selects the template and response language.
type Language string

const (
	English Language = "en"
	Arabic  Language = "ar"
)

// MetricStatus is the canonical vocabulary for a metric's interpretation flag.
// Statuses arriving in Arabic are mapped onto this set before persistence so
// downstream queries never have to branch on source language.
type MetricStatus string

const (
	StatusHigh         MetricStatus = "high"
	StatusNormal       MetricStatus = "normal"
	StatusLow          MetricStatus = "low"
	StatusCritical     MetricStatus = "critical"
	StatusWarning      MetricStatus = "warning"
	StatusNotAvailable MetricStatus = "not-available"
)

// Validation errors for request-level fields.
var (
	ErrInvalidTone     = errors.New("invalid analysis tone")
	ErrInvalidLanguage = errors.New("invalid language")
)

// arabicStatuses maps status text returned by Arabic-language prompts onto the
// canonical vocabulary. Unrecognized values pass through unchanged.
var arabicStatuses = map[string]MetricStatus{
	"مرتفع":     StatusHigh,
	"طبيعي":     StatusNormal,
	"منخفض":     StatusLow,
	"حرج":       StatusCritical,
	"تحذير":     StatusWarning,
	"غير متوفر": StatusNotAvailable,
}

// NormalizeStatus canonicalizes a status string coming out of a model
// response. English canonical values and unknown strings are returned as-is;
// an empty status becomes not-available.
func NormalizeStatus(raw string) MetricStatus {
	if raw == "" {
		return StatusNotAvailable
	}
	if mapped, ok := arabicStatuses[raw]; ok {
		return mapped
	}
	return MetricStatus(raw)
}

// IsValid reports whether the tone is one of the supported narrative styles.
func (t Tone) IsValid() bool {
	switch t {
	case ToneGeneral, ToneDoctor, ToneExecutive, ToneEducational,
		TonePreventative, ToneTechnical, ToneEmpathetic:
		return true
	default:
		return false
	}
}

// IsValid reports whether the language is supported.
func (l Language) IsValid() bool {
	switch l {
	case English, Arabic:
		return true
	default:
		return false
	}
}

// IsRTL reports whether the language renders right-to-left. Used when
// building notification emails.
func (l Language) IsRTL() bool {
	return l == Arabic
}

// String returns the tag text for logging and storage.
func (rt ReportType) String() string {
	return string(rt)
}

func (t Tone) String() string {
	return string(t)
}

func (l Language) String() string {
	return string(l)
}

func (ms MetricStatus) String() string {
	return string(ms)
}
