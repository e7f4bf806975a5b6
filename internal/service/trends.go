package service

import (
	"fmt"
	"strconv"

	"github.com/lab-analysis-server/internal/domain"
)

// Trend direction labels for the non-model health trend summary.
const (
	TrendIncreasing = "increasing"
	TrendDecreasing = "decreasing"
	TrendStable     = "stable"
)

// AnalyzeHealthTrends derives a plain-language trend sentence per metric from
// the rolling history, comparing the oldest and newest numeric readings.
// Pure computation; metrics with fewer than two numeric readings are skipped.
func AnalyzeHealthTrends(history map[string]domain.MetricHistory) map[string]string {
	trends := make(map[string]string)

	for name, h := range history {
		numeric := make([]float64, 0, len(h.Values))
		for _, entry := range h.Values {
			if v, err := strconv.ParseFloat(entry.Value, 64); err == nil {
				numeric = append(numeric, v)
			}
		}
		if len(numeric) < 2 {
			continue
		}

		// Values arrive newest first.
		newest, oldest := numeric[0], numeric[len(numeric)-1]
		direction := TrendStable
		switch {
		case newest > oldest:
			direction = TrendIncreasing
		case newest < oldest:
			direction = TrendDecreasing
		}

		trends[name] = fmt.Sprintf("%s shows a %s trend over the last %d readings (from %g to %g).",
			name, direction, len(numeric), oldest, newest)
	}

	return trends
}
