package domain

import (
	"context"
	"io"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
	OutputFormatHTML OutputFormat = "html"
)

// SortCriteria represents the criteria for sorting component reports
type SortCriteria string

const (
	SortByName       SortCriteria = "name"
	SortByUsage      SortCriteria = "usage"
	SortByViolations SortCriteria = "violations"
)

// Score boundaries used for qualitative buckets in reports
const (
	ScoreThresholdExcellent = 90
	ScoreThresholdGood      = 70
	ScoreThresholdFair      = 50
)

// ComponentUsageReport is the outcome of auditing one component type on one
// page visit. Immutable after creation; the field names are the wire contract
// consumed by report sinks.
type ComponentUsageReport struct {
	ComponentName   string   `json:"componentName" yaml:"componentName"`
	UsageCount      int      `json:"usageCount" yaml:"usageCount"`
	CorrectUsage    bool     `json:"correctUsage" yaml:"correctUsage"`
	Violations      []string `json:"violations" yaml:"violations"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`
}

// NewComponentUsageReport builds a report, deriving correctUsage from the
// violation list so the two can never disagree.
func NewComponentUsageReport(componentName string, usageCount int, violations, recommendations []string) ComponentUsageReport {
	if violations == nil {
		violations = []string{}
	}
	if recommendations == nil {
		recommendations = []string{}
	}
	return ComponentUsageReport{
		ComponentName:   componentName,
		UsageCount:      usageCount,
		CorrectUsage:    len(violations) == 0,
		Violations:      violations,
		Recommendations: recommendations,
	}
}

// PatternComplianceReport is the outcome of auditing one structural pattern.
// Score is always clamped to [0,100]; reference points at the pattern's
// design-system documentation page.
type PatternComplianceReport struct {
	Pattern     string   `json:"pattern" yaml:"pattern"`
	Implemented bool     `json:"implemented" yaml:"implemented"`
	Score       float64  `json:"score" yaml:"score"`
	Issues      []string `json:"issues" yaml:"issues"`
	Reference   string   `json:"reference" yaml:"reference"`
}

// NewPatternComplianceReport builds a pattern report with the score clamped
func NewPatternComplianceReport(pattern string, implemented bool, score float64, issues []string, reference string) PatternComplianceReport {
	if issues == nil {
		issues = []string{}
	}
	return PatternComplianceReport{
		Pattern:     pattern,
		Implemented: implemented,
		Score:       ClampScore(score),
		Issues:      issues,
		Reference:   reference,
	}
}

// ClampScore bounds a score to [0,100]
func ClampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ComplianceMetrics is the session summary: all accumulated reports plus the
// four area scores and their mean. Derived on demand, never mutated in place.
type ComplianceMetrics struct {
	ComponentUsage     []ComponentUsageReport    `json:"componentUsage" yaml:"componentUsage"`
	PatternCompliance  []PatternComplianceReport `json:"patternCompliance" yaml:"patternCompliance"`
	AccessibilityScore float64                   `json:"accessibilityScore" yaml:"accessibilityScore"`
	PerformanceScore   float64                   `json:"performanceScore" yaml:"performanceScore"`
	OverallCompliance  float64                   `json:"overallCompliance" yaml:"overallCompliance"`
}

// ComponentScore is the mean of per-report usage scores (100 when correct,
// 50 otherwise). An empty session divides by 1 instead of 0.
func (m *ComplianceMetrics) ComponentScore() float64 {
	total := 0.0
	for _, r := range m.ComponentUsage {
		if r.CorrectUsage {
			total += 100
		} else {
			total += 50
		}
	}
	return total / float64(max(len(m.ComponentUsage), 1))
}

// PatternScore is the mean of pattern report scores with the same
// divide-by-at-least-1 policy.
func (m *ComplianceMetrics) PatternScore() float64 {
	total := 0.0
	for _, r := range m.PatternCompliance {
		total += r.Score
	}
	return total / float64(max(len(m.PatternCompliance), 1))
}

// AuditSummary provides aggregate statistics for one audit run
type AuditSummary struct {
	PagesAudited    int `json:"pages_audited" yaml:"pages_audited"`
	ComponentTypes  int `json:"component_types" yaml:"component_types"`
	PatternsChecked int `json:"patterns_checked" yaml:"patterns_checked"`

	TotalElements        int `json:"total_elements" yaml:"total_elements"`
	TotalViolations      int `json:"total_violations" yaml:"total_violations"`
	TotalIssues          int `json:"total_issues" yaml:"total_issues"`
	TotalRecommendations int `json:"total_recommendations" yaml:"total_recommendations"`

	ComponentScore     float64 `json:"component_score" yaml:"component_score"`
	PatternScore       float64 `json:"pattern_score" yaml:"pattern_score"`
	AccessibilityScore float64 `json:"accessibility_score" yaml:"accessibility_score"`
	PerformanceScore   float64 `json:"performance_score" yaml:"performance_score"`
	OverallCompliance  float64 `json:"overall_compliance" yaml:"overall_compliance"`
	Grade              string  `json:"grade" yaml:"grade"`
}

// PopulateFromMetrics fills the summary's counters and scores from metrics
func (s *AuditSummary) PopulateFromMetrics(metrics *ComplianceMetrics) {
	s.ComponentTypes = len(metrics.ComponentUsage)
	s.PatternsChecked = len(metrics.PatternCompliance)

	s.TotalElements = 0
	s.TotalViolations = 0
	s.TotalRecommendations = 0
	for _, r := range metrics.ComponentUsage {
		s.TotalElements += r.UsageCount
		s.TotalViolations += len(r.Violations)
		s.TotalRecommendations += len(r.Recommendations)
	}

	s.TotalIssues = 0
	for _, r := range metrics.PatternCompliance {
		s.TotalIssues += len(r.Issues)
	}

	s.ComponentScore = metrics.ComponentScore()
	s.PatternScore = metrics.PatternScore()
	s.AccessibilityScore = metrics.AccessibilityScore
	s.PerformanceScore = metrics.PerformanceScore
	s.OverallCompliance = metrics.OverallCompliance
	s.Grade = GradeForScore(s.OverallCompliance)
}

// GradeForScore maps a 0-100 score onto a letter grade
func GradeForScore(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C"
	case score >= 60:
		return "D"
	default:
		return "F"
	}
}

// PageAudit summarizes the reports produced while auditing a single page
type PageAudit struct {
	Path       string `json:"path" yaml:"path"`
	Components int    `json:"components" yaml:"components"`
	Patterns   int    `json:"patterns" yaml:"patterns"`
	Violations int    `json:"violations" yaml:"violations"`
	Issues     int    `json:"issues" yaml:"issues"`
}

// AuditRequest represents a request for a compliance audit
type AuditRequest struct {
	// Input snapshot files or directories to audit
	Paths []string

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string // Path to save output file (for HTML format)
	NoOpen       bool   // Don't auto-open HTML in browser
	ShowDetails  bool

	// Audit scope
	ComponentTypes []string
	Patterns       []string

	// Sorting of component reports in output
	SortBy SortCriteria

	// Performance score source: fixed value, optionally overridden by an
	// external metrics artifact when PerformanceReportPath is set
	PerformanceScore      float64
	PerformanceReportPath string

	// Configuration
	ConfigPath   string
	RulebookPath string

	// File collection options
	Recursive       bool
	IncludePatterns []string
	ExcludePatterns []string
}

// AuditResponse represents the complete audit result
type AuditResponse struct {
	Metrics ComplianceMetrics `json:"metrics" yaml:"metrics"`
	Summary AuditSummary      `json:"summary" yaml:"summary"`
	Pages   []PageAudit       `json:"pages,omitempty" yaml:"pages,omitempty"`

	// Warnings and issues encountered while auditing
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`

	// Metadata
	GeneratedAt     string `json:"generated_at" yaml:"generated_at"`
	Duration        int64  `json:"duration_ms" yaml:"duration_ms"`
	Version         string `json:"version" yaml:"version"`
	RulebookVersion string `json:"rulebook_version" yaml:"rulebook_version"`
}

// ComponentAuditor evaluates the registered rules for one component type
// against the elements matched on a page
type ComponentAuditor interface {
	// AuditComponent audits all matched elements of componentType and returns
	// one report. Unknown component types are a configuration error.
	AuditComponent(ctx context.Context, componentType string, elements []Element) (*ComponentUsageReport, error)
}

// PatternAuditor runs the check sequence for one named structural pattern
type PatternAuditor interface {
	// AuditPattern audits the page against the named pattern and returns one
	// report. Unknown patterns are a configuration error.
	AuditPattern(ctx context.Context, pattern string, page Page) (*PatternComplianceReport, error)
}

// ScoreAggregator folds a session's accumulated reports into ComplianceMetrics
type ScoreAggregator interface {
	// Aggregate computes the session summary. Pure and idempotent: the same
	// session yields identical metrics on every call.
	Aggregate(session *Session, performanceScore float64) ComplianceMetrics
}

// SnapshotFileReader collects and reads page snapshot files
type SnapshotFileReader interface {
	CollectSnapshotFiles(paths []string, recursive bool, includePatterns, excludePatterns []string) ([]string, error)
	ReadFile(path string) ([]byte, error)
	IsValidSnapshotFile(path string) bool
	FileExists(path string) (bool, error)
}

// OutputFormatter defines the interface for formatting audit results
type OutputFormatter interface {
	// Format formats the audit response according to the specified format
	Format(response *AuditResponse, format OutputFormat) (string, error)

	// Write writes the formatted output to the writer
	Write(response *AuditResponse, format OutputFormat, writer io.Writer) error
}

// ConfigurationLoader defines the interface for loading audit configuration
type ConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*AuditRequest, error)

	// LoadDefaultConfig loads the default configuration
	LoadDefaultConfig() *AuditRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *AuditRequest, override *AuditRequest) *AuditRequest
}
