package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/lab-analysis-server/internal/audit"
)

// Context keys handlers use to enrich the audit record.
const (
	AuditTone       = "audit_tone"
	AuditLanguage   = "audit_language"
	AuditReportType = "audit_report_type"
	AuditCached     = "audit_cached"
)

// RequestAudit records every request into the audit store.
// Persistence is fire-and-forget; a failed write never fails the request.
func RequestAudit(store audit.Store, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		entry := &audit.Entry{
			RequestID:  c.GetString("correlation_id"),
			UserID:     c.GetHeader("X-User-ID"),
			Operation:  c.Request.Method + " " + c.FullPath(),
			Tone:       c.GetString(AuditTone),
			Language:   c.GetString(AuditLanguage),
			ReportType: c.GetString(AuditReportType),
			StatusCode: c.Writer.Status(),
			Cached:     c.GetBool(AuditCached),
			DurationMs: time.Since(start).Milliseconds(),
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := store.Save(ctx, entry); err != nil {
				logger.WithFields(logrus.Fields{
					"request_id": entry.RequestID,
					"operation":  entry.Operation,
					"error":      err.Error(),
				}).Warn("Failed to persist audit entry")
			}
		}()
	}
}
