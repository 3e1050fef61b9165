package service

import (
	"testing"

	"github.com/uxscan/uxscan/domain"
)

func TestAggregate_MixedSession(t *testing.T) {
	session := domain.NewSession()
	session.AddComponentReport(domain.NewComponentUsageReport("Button", 4,
		[]string{"Icon-only button missing aria-label"}, nil))
	session.AddPatternReport(domain.NewPatternComplianceReport("Accessibility", true, 90, nil,
		"https://design.uxscan.dev/patterns/accessibility"))

	metrics := NewScoreAggregator().Aggregate(session, 85)

	assertScoreNear(t, 50, metrics.ComponentScore())
	assertScoreNear(t, 90, metrics.PatternScore())
	assertScoreNear(t, 90, metrics.AccessibilityScore)
	assertScoreNear(t, 85, metrics.PerformanceScore)
	// (50 + 90 + 90 + 85) / 4
	assertScoreNear(t, 78.75, metrics.OverallCompliance)
}

func TestAggregate_EmptySession(t *testing.T) {
	metrics := NewScoreAggregator().Aggregate(domain.NewSession(), 85)

	assertScoreNear(t, 0, metrics.ComponentScore())
	assertScoreNear(t, 0, metrics.PatternScore())
	assertScoreNear(t, 0, metrics.AccessibilityScore)
	assertScoreNear(t, 21.25, metrics.OverallCompliance)
}

func TestAggregate_NoAccessibilityReport(t *testing.T) {
	session := domain.NewSession()
	session.AddPatternReport(domain.NewPatternComplianceReport("Headings", true, 100, nil, ""))
	session.AddPatternReport(domain.NewPatternComplianceReport("Media", false, 50,
		[]string{"Image missing alt text: chart.png"}, ""))

	metrics := NewScoreAggregator().Aggregate(session, 80)

	assertScoreNear(t, 75, metrics.PatternScore())
	assertScoreNear(t, 0, metrics.AccessibilityScore)
	// (0 + 75 + 0 + 80) / 4
	assertScoreNear(t, 38.75, metrics.OverallCompliance)
}

func TestAggregate_MultiPageAccessibilityAveraged(t *testing.T) {
	session := domain.NewSession()
	session.AddPatternReport(domain.NewPatternComplianceReport("Accessibility", true, 90, nil, ""))
	session.AddPatternReport(domain.NewPatternComplianceReport("Headings", true, 100, nil, ""))
	session.AddPatternReport(domain.NewPatternComplianceReport("Accessibility", false, 70,
		[]string{"Focusable <button> has no visible focus indicator"}, ""))

	metrics := NewScoreAggregator().Aggregate(session, 85)

	// Two pages each contribute an Accessibility report; the area is their
	// mean, not whichever report sorts first
	assertScoreNear(t, 80, metrics.AccessibilityScore)
	assertScoreNear(t, (90.0+100+70)/3, metrics.PatternScore())
}

func TestAggregate_Idempotent(t *testing.T) {
	session := domain.NewSession()
	session.AddComponentReport(domain.NewComponentUsageReport("Card", 2, nil, nil))
	session.AddPatternReport(domain.NewPatternComplianceReport("Accessibility", true, 100, nil, ""))

	aggregator := NewScoreAggregator()
	first := aggregator.Aggregate(session, 85)
	second := aggregator.Aggregate(session, 85)

	if first.OverallCompliance != second.OverallCompliance {
		t.Errorf("Aggregate is not idempotent: %.2f vs %.2f",
			first.OverallCompliance, second.OverallCompliance)
	}
	if len(first.ComponentUsage) != len(second.ComponentUsage) {
		t.Error("Repeated aggregation changed the component report list")
	}
}
