package domain

import (
	"context"
	"time"
)

// Generator is the language-model collaborator: prompt in, raw text out. The
// text is expected to contain JSON, possibly wrapped in Markdown fences.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ResultSummary joins a Result with the parent Report metadata needed to
// build longitudinal digests.
type ResultSummary struct {
	Result        Result
	ReportName    string
	ReportAddedAt time.Time
}

// MetricObservation is one raw metric row joined through its Result to the
// parent Report, ordered for history aggregation.
type MetricObservation struct {
	Name            string
	Value           string
	ReportAddedAt   time.Time
	ResultCreatedAt time.Time
}

// Storage is the relational persistence boundary. SaveAnalysis writes the
// Report, Result and Metrics of one analysis in a single transaction and
// returns ErrDuplicateResult when the (report_id, tone, language) uniqueness
// constraint fires; SaveDigitalProfile flips previous recent rows off and
// inserts the new one in a single transaction.
type Storage interface {
	GetReportByDigest(ctx context.Context, userID, digest string) (*Report, error)
	GetResult(ctx context.Context, reportID string, tone Tone, language Language) (*Result, error)
	SaveAnalysis(ctx context.Context, report *Report, result *Result, metrics []MetricRecord) error
	ListReportCards(ctx context.Context, userID string) ([]ReportCard, error)
	ListResultSummaries(ctx context.Context, userID string) ([]ResultSummary, error)
	ListRecentMetrics(ctx context.Context, userID string, reportLimit int) ([]MetricObservation, error)
	SaveDigitalProfile(ctx context.Context, profile *DigitalProfile) error
	GetRecentProfile(ctx context.Context, userID string) (*DigitalProfile, error)
}

// Notifier delivers a completed analysis to the user. Failures are logged by
// callers and never fail the analysis request.
type Notifier interface {
	SendAnalysis(ctx context.Context, recipient string, reportType ReportType, analysis Document, rtl bool) error
}

// TextExtractor turns an uploaded document into plain text.
type TextExtractor interface {
	ExtractText(filename string, data []byte) (string, error)
}

// ConfigManager defines the interface for configuration management
type ConfigManager interface {
	GetConfig() *Config
	GetDatabaseConfig() *DatabaseConfig
	GetServerConfig() *ServerConfig
	GetLLMConfig() *LLMConfig
	Reload() error
	Validate() error
	GetDatabaseConnectionString() string
	GetRedisConnectionString() string
	IsProduction() bool
	IsDevelopment() bool
}
