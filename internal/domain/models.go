package domain

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// UndefinedRange is the sentinel stored for a reference-range bound when the
// range text was present but could not be parsed. It is deliberately distinct
// from both an empty string and a numeric zero so consumers can tell "range
// absent" from "range unparsed".
const UndefinedRange = "Undefined"

// RangeNone marks an explicitly missing upper bound when only descriptive
// range text was available.
const RangeNone = "none"

// Report is a submitted lab document. The SHA-256 digest of the extracted
// content acts as a natural key: two uploads with byte-identical text are the
// same Report.
type Report struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Name          string     `json:"name"`
	Content       string     `json:"-"`
	ContentDigest string     `json:"content_digest"`
	ReportType    ReportType `json:"report_type"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Result is one model analysis of a Report under a specific (tone, language)
// pair. At most one Result exists per (report_id, tone, language); the
// orchestrator treats an existing row as cause to skip the model call.
// Results are immutable once written.
type Result struct {
	ID        string    `json:"id"`
	ReportID  string    `json:"report_id"`
	Tone      Tone      `json:"tone"`
	Language  Language  `json:"language"`
	Payload   string    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}

// Document deserializes the stored payload back into a Document.
func (r *Result) Document() (Document, error) {
	return ParseDocument(r.Payload)
}

// Metric is one normalized lab value extracted from a Result's
// detailed_results mapping. Value is stored stringified because model output
// may nest structures (e.g. per-hour OGTT readings) inside a single metric.
type Metric struct {
	ID           string       `json:"id"`
	ResultID     string       `json:"result_id"`
	Name         string       `json:"name"`
	Value        string       `json:"value"`
	Unit         string       `json:"unit"`
	ReferenceMin string       `json:"reference_range_min"`
	ReferenceMax string       `json:"reference_range_max"`
	Status       MetricStatus `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
}

// MetricRecord is the normalization output before persistence assigns IDs.
type MetricRecord struct {
	Name         string       `json:"name"`
	Value        string       `json:"value"`
	Unit         string       `json:"unit"`
	ReferenceMin string       `json:"reference_range_min"`
	ReferenceMax string       `json:"reference_range_max"`
	Status       MetricStatus `json:"status"`
}

// NumericValue attempts to coerce the stored value to a float. Nested or
// descriptive values fail coercion and are skipped by numeric aggregations.
func (m *MetricRecord) NumericValue() (float64, bool) {
	v, err := strconv.ParseFloat(m.Value, 64)
	return v, err == nil
}

// ReferenceBounds returns the parsed numeric bounds when both were extracted
// from the range text. Sentinel or descriptive bounds yield ok=false.
func (m *MetricRecord) ReferenceBounds() (min, max float64, ok bool) {
	lo, errLo := strconv.ParseFloat(m.ReferenceMin, 64)
	hi, errHi := strconv.ParseFloat(m.ReferenceMax, 64)
	if errLo != nil || errHi != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

// DigitalProfile is a point-in-time longitudinal summary for a user. Exactly
// one row per user carries Recent=true; creating a new profile flips all
// previous ones off in the same transaction.
type DigitalProfile struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	HealthOverview  string    `json:"overview_health_status"`
	Recommendations string    `json:"recommendations"`
	AttentionPoints string    `json:"attention_points"`
	Risks           string    `json:"risks"`
	Recent          bool      `json:"recent"`
	CreatedAt       time.Time `json:"created_at"`
}

// MetricHistoryEntry is one historical observation of a metric, derived on
// demand rather than persisted.
type MetricHistoryEntry struct {
	Value         string    `json:"value"`
	AddedDatetime time.Time `json:"added_datetime"`
}

// MetricHistory is the rolling view for one metric name: the last three
// observed values newest-first and the numeric minimum among them.
type MetricHistory struct {
	Minimum *float64             `json:"minimum_of_last_three"`
	Values  []MetricHistoryEntry `json:"last_three_values"`
}

// ReportCard is the listing projection of a Report with its result count,
// used by the report-overview endpoint.
type ReportCard struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ReportType  ReportType `json:"report_type"`
	Status      string     `json:"status"`
	ResultCount int        `json:"result_count"`
	CreatedAt   time.Time  `json:"created_at"`
}

// AnalysisRequest carries one analysis invocation through the orchestrator.
type AnalysisRequest struct {
	UserID     string   `json:"user_id"`
	ReportName string   `json:"report_name"`
	Content    string   `json:"content"`
	Tone       Tone     `json:"tone"`
	Language   Language `json:"language"`
	Email      string   `json:"email,omitempty"`
}

// Validate checks request fields before any storage or model interaction.
func (r *AnalysisRequest) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("analysis request validation: %w", errors.New("user ID is required"))
	}
	if r.Content == "" {
		return fmt.Errorf("analysis request validation: %w", errors.New("report content is required"))
	}
	if !r.Tone.IsValid() {
		return fmt.Errorf("analysis request validation: %w", ErrInvalidTone)
	}
	if !r.Language.IsValid() {
		return fmt.Errorf("analysis request validation: %w", ErrInvalidLanguage)
	}
	return nil
}

// AnalysisResponse is what the orchestrator returns to the API layer.
type AnalysisResponse struct {
	ReportID   string     `json:"report_id"`
	ResultID   string     `json:"result_id"`
	ReportType ReportType `json:"report_type"`
	Tone       Tone       `json:"tone"`
	Language   Language   `json:"language"`
	Cached     bool       `json:"cached"`
	Analysis   Document   `json:"analysis"`
	CreatedAt  time.Time  `json:"created_at"`
}
