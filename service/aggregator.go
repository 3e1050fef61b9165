package service

import (
	"github.com/uxscan/uxscan/domain"
)

// accessibilityPattern is the pattern name whose score feeds the
// accessibility area of the session summary
const accessibilityPattern = "Accessibility"

// ScoreAggregatorImpl implements the ScoreAggregator interface
type ScoreAggregatorImpl struct{}

// NewScoreAggregator creates a new score aggregator
func NewScoreAggregator() *ScoreAggregatorImpl {
	return &ScoreAggregatorImpl{}
}

// Aggregate folds the session's accumulated reports into ComplianceMetrics.
// Pure and idempotent: the same session yields identical metrics on every
// call. Empty report lists divide by 1 instead of 0, and a session without an
// Accessibility report scores 0 on that area. A merged multi-page session
// carries one Accessibility report per page; the area score is their mean,
// the same treatment every other area gets.
func (a *ScoreAggregatorImpl) Aggregate(session *domain.Session, performanceScore float64) domain.ComplianceMetrics {
	metrics := domain.ComplianceMetrics{
		ComponentUsage:    session.ComponentReports(),
		PatternCompliance: session.PatternReports(),
		PerformanceScore:  performanceScore,
	}

	accessibilityTotal := 0.0
	accessibilityCount := 0
	for _, r := range metrics.PatternCompliance {
		if r.Pattern == accessibilityPattern {
			accessibilityTotal += r.Score
			accessibilityCount++
		}
	}
	if accessibilityCount > 0 {
		metrics.AccessibilityScore = accessibilityTotal / float64(accessibilityCount)
	}

	metrics.OverallCompliance = (metrics.ComponentScore() +
		metrics.PatternScore() +
		metrics.AccessibilityScore +
		metrics.PerformanceScore) / 4

	return metrics
}
