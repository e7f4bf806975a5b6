package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lab-analysis-server/internal/domain"
)

// AnalysisCache is the fast-path cache in front of storage. Both operations
// are best-effort: a miss or a failed set only costs a storage round trip.
type AnalysisCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, payload string)
}

// ProfileRefresher rebuilds a user's digital profile after a new analysis.
type ProfileRefresher interface {
	BuildProfile(ctx context.Context, userID string, language domain.Language) (*domain.DigitalProfile, error)
}

// AnalyzerService orchestrates one analysis request: cache and storage
// lookups, classification, template selection, the model call, and the
// transactional persistence of Report, Result and Metrics.
//
// The core guarantee is idempotency: the model is invoked at most once per
// distinct (content, tone, language) triple. Repeat requests are served from
// cache or storage, and a lost race on insert is recovered by re-reading the
// winner's row.
type AnalyzerService struct {
	logger     *logrus.Logger
	storage    domain.Storage
	generator  domain.Generator
	classifier *ReportClassifier
	selector   *TemplateSelector
	normalizer *MetricNormalizer
	cache      AnalysisCache
	notifier   domain.Notifier
	profiles   ProfileRefresher
	timeout    time.Duration
}

// NewAnalyzerService creates a new analyzer. Cache, notifier and profiles may
// be nil; the corresponding side paths are skipped.
func NewAnalyzerService(
	logger *logrus.Logger,
	storage domain.Storage,
	generator domain.Generator,
	classifier *ReportClassifier,
	selector *TemplateSelector,
	normalizer *MetricNormalizer,
	cache AnalysisCache,
	notifier domain.Notifier,
	timeout time.Duration,
) *AnalyzerService {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &AnalyzerService{
		logger:     logger,
		storage:    storage,
		generator:  generator,
		classifier: classifier,
		selector:   selector,
		normalizer: normalizer,
		cache:      cache,
		notifier:   notifier,
		timeout:    timeout,
	}
}

// SetProfileRefresher wires the longitudinal-profile refresh that runs after
// each fresh analysis. Separate from the constructor because the aggregator
// itself depends on the same storage and generator.
func (s *AnalyzerService) SetProfileRefresher(p ProfileRefresher) {
	s.profiles = p
}

// ContentDigest returns the natural cache key for extracted report content.
func ContentDigest(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Analyze runs one analysis request to completion.
func (s *AnalyzerService) Analyze(ctx context.Context, req *domain.AnalysisRequest) (*domain.AnalysisResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	digest := ContentDigest(req.Content)
	log := s.logger.WithFields(logrus.Fields{
		"user_id":  req.UserID,
		"digest":   digest[:12],
		"tone":     req.Tone.String(),
		"language": req.Language.String(),
	})

	key := cacheKey(req.UserID, digest, req.Tone, req.Language)
	if s.cache != nil {
		if payload, ok := s.cache.Get(ctx, key); ok {
			var resp domain.AnalysisResponse
			if err := json.Unmarshal([]byte(payload), &resp); err == nil {
				resp.Cached = true
				log.Debug("Analysis served from cache")
				s.afterAnalysis(req, &resp, false)
				return &resp, nil
			}
			log.Warn("Discarding undecodable cache entry")
		}
	}

	report, err := s.lookupReport(ctx, req.UserID, digest)
	if err != nil {
		return nil, err
	}

	if report != nil {
		if resp, err := s.serveStored(ctx, report, req); err != nil {
			return nil, err
		} else if resp != nil {
			log.Info("Analysis served from storage")
			s.afterAnalysis(req, resp, false)
			return resp, nil
		}
	}

	resp, err := s.analyzeFresh(ctx, report, req, digest)
	if err != nil {
		return nil, err
	}

	log.WithField("report_type", resp.ReportType.String()).Info("Analysis completed")
	s.afterAnalysis(req, resp, true)
	return resp, nil
}

// lookupReport resolves the content-keyed Report, treating not-found as nil.
func (s *AnalyzerService) lookupReport(ctx context.Context, userID, digest string) (*domain.Report, error) {
	report, err := s.storage.GetReportByDigest(ctx, userID, digest)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup report by digest: %w", err)
	}
	return report, nil
}

// serveStored returns the cached response when a Result already exists for
// the (report, tone, language) triple, or nil when a fresh analysis is
// needed.
func (s *AnalyzerService) serveStored(ctx context.Context, report *domain.Report, req *domain.AnalysisRequest) (*domain.AnalysisResponse, error) {
	result, err := s.storage.GetResult(ctx, report.ID, req.Tone, req.Language)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup result: %w", err)
	}

	doc, err := result.Document()
	if err != nil {
		return nil, fmt.Errorf("decode stored result %s: %w", result.ID, err)
	}

	return &domain.AnalysisResponse{
		ReportID:   report.ID,
		ResultID:   result.ID,
		ReportType: report.ReportType,
		Tone:       result.Tone,
		Language:   result.Language,
		Cached:     true,
		Analysis:   doc,
		CreatedAt:  result.CreatedAt,
	}, nil
}

// analyzeFresh invokes the model and persists the new analysis. report is nil
// when no Report exists yet for this content.
func (s *AnalyzerService) analyzeFresh(ctx context.Context, report *domain.Report, req *domain.AnalysisRequest, digest string) (*domain.AnalysisResponse, error) {
	reportType := domain.UnknownReportType
	if report != nil && report.ReportType != "" {
		reportType = report.ReportType
	} else {
		reportType = s.classifier.Classify(req.Content)
	}

	template, err := s.selector.Select(reportType, req.Language, req.Tone)
	if err != nil {
		return nil, err
	}

	testType := ""
	if reportType == domain.Glucose {
		testType = GlucoseTestType(req.Content)
	}
	prompt := FormatPrompt(template, req.Content, req.Tone, testType)

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.generator.Generate(genCtx, prompt)
	if err != nil {
		return nil, &domain.GenerationError{Reason: err.Error()}
	}

	doc, err := domain.ParseDocument(raw)
	if err != nil {
		return nil, err
	}

	metrics := s.normalizer.Normalize(domain.FindDetailedResults(doc))

	newReport := report
	if newReport == nil {
		newReport = &domain.Report{
			ID:            uuid.New().String(),
			UserID:        req.UserID,
			Name:          req.ReportName,
			Content:       req.Content,
			ContentDigest: digest,
			ReportType:    reportType,
			Status:        "analyzed",
			CreatedAt:     time.Now().UTC(),
		}
	}

	result := &domain.Result{
		ID:        uuid.New().String(),
		ReportID:  newReport.ID,
		Tone:      req.Tone,
		Language:  req.Language,
		Payload:   raw,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.storage.SaveAnalysis(ctx, newReport, result, metrics); err != nil {
		if errors.Is(err, domain.ErrDuplicateResult) {
			// Lost the insert race for this triple; the winner's row is
			// authoritative.
			s.logger.WithField("report_id", newReport.ID).Info("Concurrent analysis detected, serving stored result")
			return s.recoverFromRace(ctx, req, digest)
		}
		return nil, fmt.Errorf("persist analysis: %w", err)
	}

	return &domain.AnalysisResponse{
		ReportID:   newReport.ID,
		ResultID:   result.ID,
		ReportType: reportType,
		Tone:       req.Tone,
		Language:   req.Language,
		Cached:     false,
		Analysis:   doc,
		CreatedAt:  result.CreatedAt,
	}, nil
}

// recoverFromRace re-reads the row the concurrent writer committed.
func (s *AnalyzerService) recoverFromRace(ctx context.Context, req *domain.AnalysisRequest, digest string) (*domain.AnalysisResponse, error) {
	report, err := s.storage.GetReportByDigest(ctx, req.UserID, digest)
	if err != nil {
		return nil, fmt.Errorf("re-read report after duplicate result: %w", err)
	}
	resp, err := s.serveStored(ctx, report, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("re-read result after duplicate result: %w", domain.ErrNotFound)
	}
	return resp, nil
}

// afterAnalysis runs the fire-and-forget side effects: response caching,
// email notification, and (for fresh analyses) the profile refresh. Failures
// here never fail the request.
func (s *AnalyzerService) afterAnalysis(req *domain.AnalysisRequest, resp *domain.AnalysisResponse, fresh bool) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if s.cache != nil {
		if payload, err := json.Marshal(resp); err == nil {
			s.cache.Set(ctx, cacheKey(req.UserID, ContentDigest(req.Content), req.Tone, req.Language), string(payload))
		}
	}

	if s.notifier != nil && req.Email != "" {
		if err := s.notifier.SendAnalysis(ctx, req.Email, resp.ReportType, resp.Analysis, req.Language.IsRTL()); err != nil {
			s.logger.WithError(err).WithField("recipient", req.Email).Warn("Analysis notification failed")
		}
	}

	if fresh && s.profiles != nil {
		if _, err := s.profiles.BuildProfile(ctx, req.UserID, req.Language); err != nil {
			s.logger.WithError(err).WithField("user_id", req.UserID).Warn("Digital profile refresh failed")
		}
	}
}

// cacheKey is user-scoped: reports belong to a user, so two users submitting
// identical content must never share a cached response.
func cacheKey(userID, digest string, tone domain.Tone, language domain.Language) string {
	return fmt.Sprintf("analysis:%s:%s:%s:%s", userID, digest, tone, language)
}
