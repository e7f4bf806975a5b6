package service

import (
	"encoding/json"
	"regexp"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/lab-analysis-server/internal/domain"
)

// rangePattern extracts a numeric "low - high" pair out of free-text
// reference ranges such as "13.0 - 17.0 g/dL".
var rangePattern = regexp.MustCompile(`(\d+\.?\d*)\s*-\s*(\d+\.?\d*)`)

// MetricNormalizer flattens the model's detailed_results mapping into typed
// metric records. Pure transformation; entries are processed independently so
// one malformed entry never aborts the batch.
type MetricNormalizer struct {
	logger *logrus.Logger
}

// NewMetricNormalizer creates a new normalizer
func NewMetricNormalizer(logger *logrus.Logger) *MetricNormalizer {
	return &MetricNormalizer{logger: logger}
}

// Normalize converts a detailed_results mapping into metric records, sorted
// by name for deterministic output. A nil or empty mapping yields no records.
func (n *MetricNormalizer) Normalize(detailedResults map[string]any) []domain.MetricRecord {
	if len(detailedResults) == 0 {
		return nil
	}

	names := make([]string, 0, len(detailedResults))
	for name := range detailedResults {
		names = append(names, name)
	}
	sort.Strings(names)

	records := make([]domain.MetricRecord, 0, len(names))
	for _, name := range names {
		records = append(records, n.normalizeEntry(name, detailedResults[name]))
	}
	return records
}

// normalizeEntry extracts one record. Entries that are not mappings (a bare
// scalar under the metric name) keep their value and degrade everything else.
func (n *MetricNormalizer) normalizeEntry(name string, entry any) domain.MetricRecord {
	record := domain.MetricRecord{
		Name:         name,
		ReferenceMin: domain.UndefinedRange,
		ReferenceMax: domain.UndefinedRange,
		Status:       domain.StatusNotAvailable,
	}

	fields, ok := entry.(map[string]any)
	if !ok {
		record.Value = domain.Stringify(entry)
		n.logger.WithField("metric", name).Debug("Metric entry is not a mapping, range degraded to sentinels")
		return record
	}

	record.Value = domain.Stringify(fields["value"])
	record.Unit = domain.Stringify(fields["unit"])
	record.Status = domain.NormalizeStatus(domain.Stringify(fields["status"]))
	record.ReferenceMin, record.ReferenceMax = n.extractRange(name, fields["normal_range"])
	return record
}

// extractRange resolves the reference bounds with a degradation chain:
// numeric "low - high" regex first, then a literal mapping serialized as the
// lower bound, then descriptive text as the lower bound, and finally the
// Undefined sentinels when nothing was usable.
func (n *MetricNormalizer) extractRange(name string, rangeValue any) (string, string) {
	switch rv := rangeValue.(type) {
	case nil:
		return domain.UndefinedRange, domain.UndefinedRange
	case string:
		if rv == "" {
			return domain.UndefinedRange, domain.UndefinedRange
		}
		if m := rangePattern.FindStringSubmatch(rv); m != nil {
			return m[1], m[2]
		}
		// Descriptive text like "less than 200": keep it as the lower
		// bound so the original wording survives.
		return rv, domain.RangeNone
	case map[string]any:
		b, err := json.Marshal(rv)
		if err != nil {
			n.logger.WithField("metric", name).WithError(err).Debug("Unserializable range mapping, degraded to sentinels")
			return domain.UndefinedRange, domain.UndefinedRange
		}
		return string(b), domain.RangeNone
	default:
		text := domain.Stringify(rv)
		if m := rangePattern.FindStringSubmatch(text); m != nil {
			return m[1], m[2]
		}
		if text == "" {
			return domain.UndefinedRange, domain.UndefinedRange
		}
		return text, domain.RangeNone
	}
}
