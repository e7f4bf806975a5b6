package api

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lab-analysis-server/internal/domain"
	"github.com/lab-analysis-server/internal/middleware"
	"github.com/lab-analysis-server/internal/service"
)

// analysisPayload is the request body for POST /api/v1/analysis. Either
// content or a base64-encoded file must be supplied.
type analysisPayload struct {
	Name     string `json:"name"`
	Content  string `json:"content"`
	File     string `json:"file"`
	Filename string `json:"filename"`
	Tone     string `json:"tone"`
	Arabic   bool   `json:"arabic"`
	Email    string `json:"email"`
}

// deepAnalysisPayload is the request body for POST /api/v1/analysis/deep.
type deepAnalysisPayload struct {
	Arabic bool `json:"arabic"`
}

// handleAnalysis runs a lab-report analysis for the calling user.
func (s *Server) handleAnalysis(c *gin.Context) {
	userID := s.requireUser(c)
	if userID == "" {
		return
	}

	var payload analysisPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "invalid request body", err.Error())
		return
	}

	content := payload.Content
	if content == "" && payload.File != "" {
		data, err := base64.StdEncoding.DecodeString(payload.File)
		if err != nil {
			s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "file is not valid base64", err.Error())
			return
		}
		content, err = s.extractor.ExtractText(payload.Filename, data)
		if err != nil {
			s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "could not extract text from file", err.Error())
			return
		}
	}
	if content == "" {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "content or file is required", "")
		return
	}

	tone := domain.Tone(payload.Tone)
	if payload.Tone == "" {
		tone = domain.ToneGeneral
	}
	language := domain.English
	if payload.Arabic {
		language = domain.Arabic
	}

	req := &domain.AnalysisRequest{
		UserID:     userID,
		ReportName: payload.Name,
		Content:    content,
		Tone:       tone,
		Language:   language,
		Email:      payload.Email,
	}

	c.Set(middleware.AuditTone, string(tone))
	c.Set(middleware.AuditLanguage, string(language))

	resp, err := s.analyzer.Analyze(c.Request.Context(), req)
	if err != nil {
		s.writeAnalysisError(c, err)
		return
	}

	c.Set(middleware.AuditReportType, string(resp.ReportType))
	c.Set(middleware.AuditCached, resp.Cached)

	c.JSON(http.StatusOK, resp)
}

// handleDeepAnalysis builds or refreshes the user's digital profile.
func (s *Server) handleDeepAnalysis(c *gin.Context) {
	userID := s.requireUser(c)
	if userID == "" {
		return
	}

	var payload deepAnalysisPayload
	if err := c.ShouldBindJSON(&payload); err != nil && c.Request.ContentLength > 0 {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "invalid request body", err.Error())
		return
	}

	language := domain.English
	if payload.Arabic {
		language = domain.Arabic
	}
	c.Set(middleware.AuditLanguage, string(language))

	profile, err := s.profiles.BuildProfile(c.Request.Context(), userID, language)
	if err != nil {
		s.writeAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// handleGetProfile returns the user's current digital profile.
func (s *Server) handleGetProfile(c *gin.Context) {
	userID := s.requireUser(c)
	if userID == "" {
		return
	}

	profile, err := s.profiles.GetRecentProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.writeError(c, http.StatusNotFound, domain.ErrNotFoundCode, "no digital profile found", "")
			return
		}
		s.writeAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

// handleMetricsHistory returns the rolling per-metric history with trend
// sentences derived from it.
func (s *Server) handleMetricsHistory(c *gin.Context) {
	userID := s.requireUser(c)
	if userID == "" {
		return
	}

	history, err := s.profiles.BuildMetricsHistory(c.Request.Context(), userID)
	if err != nil {
		s.writeAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"metrics": history,
		"trends":  service.AnalyzeHealthTrends(history),
	})
}

// handleListReports returns the user's report cards.
func (s *Server) handleListReports(c *gin.Context) {
	userID := s.requireUser(c)
	if userID == "" {
		return
	}

	cards, err := s.storage.ListReportCards(c.Request.Context(), userID)
	if err != nil {
		s.writeAnalysisError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reports": cards})
}

// requireUser extracts the caller's user ID or writes a 400 and returns "".
func (s *Server) requireUser(c *gin.Context) string {
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, "missing X-User-ID header", "")
	}
	return userID
}

// writeAnalysisError maps pipeline errors onto HTTP responses.
func (s *Server) writeAnalysisError(c *gin.Context, err error) {
	var genErr *domain.GenerationError
	var valErr *domain.ValidationError

	switch {
	case errors.As(err, &valErr):
		s.writeError(c, http.StatusBadRequest, domain.ErrValidation, valErr.Message, valErr.Field)
	case errors.Is(err, domain.ErrInvalidTone) || errors.Is(err, domain.ErrInvalidLanguage):
		s.writeError(c, http.StatusBadRequest, domain.ErrInvalidInput, err.Error(), "")
	case errors.As(err, &genErr):
		s.writeError(c, http.StatusBadGateway, domain.ErrGeneration, "analysis generation failed", genErr.Reason)
	case errors.Is(err, domain.ErrTemplateNotFound):
		s.writeError(c, http.StatusInternalServerError, domain.ErrTemplate, "prompt template not found", "")
	case errors.Is(err, domain.ErrNotFound):
		s.writeError(c, http.StatusNotFound, domain.ErrNotFoundCode, "not found", "")
	default:
		s.logger.WithFields(logrus.Fields{
			"correlation_id": c.GetString("correlation_id"),
			"error":          err.Error(),
		}).Error("Request failed")
		s.writeError(c, http.StatusInternalServerError, domain.ErrInternalServer, "internal server error", "")
	}
}

// writeError writes a standardized error response.
func (s *Server) writeError(c *gin.Context, status int, code, message, details string) {
	apiErr := domain.NewAPIError(code, message, details, c.GetString("correlation_id"))
	c.AbortWithStatusJSON(status, apiErr)
}
