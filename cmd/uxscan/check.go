package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/uxscan/uxscan/app"
	"github.com/uxscan/uxscan/domain"
	"github.com/uxscan/uxscan/internal/config"
	"github.com/uxscan/uxscan/internal/version"
	"github.com/uxscan/uxscan/service"
)

// CheckExitError is a custom error type for check command exit codes
type CheckExitError struct {
	Code    int
	Message string
}

func (e *CheckExitError) Error() string {
	return e.Message
}

var (
	checkMinScore     float64
	checkMinA11yScore float64
	checkRulebookPath string
	checkConfigPath   string
	checkVerbose      bool
	checkJSON         bool
)

// checkResult is the machine-readable outcome of a compliance gate run
type checkResult struct {
	Passed             bool    `json:"passed"`
	ExitCode           int     `json:"exit_code"`
	OverallCompliance  float64 `json:"overall_compliance"`
	AccessibilityScore float64 `json:"accessibility_score"`
	MinScore           float64 `json:"min_score"`
	MinAccessibility   float64 `json:"min_accessibility,omitempty"`
	Grade              string  `json:"grade"`
	PagesAudited       int     `json:"pages_audited"`
	TotalViolations    int     `json:"total_violations"`
	TotalIssues        int     `json:"total_issues"`
	Duration           int64   `json:"duration_ms"`
	GeneratedAt        string  `json:"generated_at"`
	Version            string  `json:"version"`
}

func checkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [path...]",
		Short: "Fast compliance gate for CI/CD pipelines",
		Long: `Audit snapshots and fail when compliance drops below the threshold.

Exit codes:
  0 - Compliance meets the threshold
  1 - Compliance below threshold
  2 - Audit error (file not found, parse error, etc.)

Examples:
  # Gate on the configured threshold
  uxscan check snapshots/

  # Require at least 85 overall
  uxscan check --min-score 85 snapshots/

  # Also gate accessibility separately
  uxscan check --min-score 80 --min-accessibility 90 snapshots/

  # JSON output for machine parsing
  uxscan check --json snapshots/`,
		RunE:          runCheck,
		SilenceUsage:  true, // Don't print usage on errors (we handle our own output)
		SilenceErrors: true, // Don't print error messages (we handle our own output)
	}

	cmd.Flags().Float64Var(&checkMinScore, "min-score", config.DefaultMinScore,
		"Minimum overall compliance score")
	cmd.Flags().Float64Var(&checkMinA11yScore, "min-accessibility", 0,
		"Minimum accessibility score (0 = not enforced)")
	cmd.Flags().StringVar(&checkRulebookPath, "rulebook", "",
		"Path to a YAML rulebook overlay")
	cmd.Flags().StringVarP(&checkConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false,
		"Show detailed output")
	cmd.Flags().BoolVar(&checkJSON, "json", false,
		"Output results as JSON")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &CheckExitError{Code: 2, Message: "no paths specified"}
	}

	startTime := time.Now()

	// Load configuration
	cfg, err := config.LoadConfigWithTarget(checkConfigPath, args[0])
	if err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to load configuration: %v", err)}
	}

	// Apply config values for flags not explicitly set on CLI
	if !cmd.Flags().Changed("min-score") && cfg.Audit.MinScore > 0 {
		checkMinScore = cfg.Audit.MinScore
	}

	rulebookPath := checkRulebookPath
	if rulebookPath == "" {
		rulebookPath = cfg.Rulebook.Path
	}

	// Create progress manager (auto-disabled for JSON output or non-TTY/CI)
	pm := service.NewProgressManager(!checkJSON)
	defer pm.Close()

	useCase, err := app.NewAuditUseCaseBuilder().
		WithFormatter(service.NewOutputFormatter()).
		WithProgressManager(pm).
		WithAuditConfig(&cfg.Audit).
		Build()
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	req := domain.AuditRequest{
		Paths:                 args,
		ComponentTypes:        cfg.Audit.Components,
		Patterns:              cfg.Audit.Patterns,
		PerformanceScore:      cfg.Audit.PerformanceScore,
		PerformanceReportPath: cfg.Audit.PerformanceReportPath,
		RulebookPath:          rulebookPath,
		Recursive:             cfg.Analysis.Recursive,
		IncludePatterns:       cfg.Analysis.IncludePatterns,
		ExcludePatterns:       cfg.Analysis.ExcludePatterns,
	}

	response, err := useCase.Execute(context.Background(), req)
	if err != nil {
		return &CheckExitError{Code: 2, Message: err.Error()}
	}

	result := &checkResult{
		OverallCompliance:  response.Summary.OverallCompliance,
		AccessibilityScore: response.Summary.AccessibilityScore,
		MinScore:           checkMinScore,
		MinAccessibility:   checkMinA11yScore,
		Grade:              response.Summary.Grade,
		PagesAudited:       response.Summary.PagesAudited,
		TotalViolations:    response.Summary.TotalViolations,
		TotalIssues:        response.Summary.TotalIssues,
		Duration:           time.Since(startTime).Milliseconds(),
		GeneratedAt:        time.Now().Format(time.RFC3339),
		Version:            version.Version,
	}

	result.Passed = result.OverallCompliance >= checkMinScore &&
		(checkMinA11yScore <= 0 || result.AccessibilityScore >= checkMinA11yScore)
	if !result.Passed {
		result.ExitCode = 1
	}

	if checkJSON {
		return outputCheckJSON(result)
	}

	return outputCheckText(result)
}

func outputCheckText(result *checkResult) error {
	if result.Passed {
		fmt.Printf("%s: compliance %.1f/100 (grade %s, minimum %.1f)\n",
			color.GreenString("PASS"), result.OverallCompliance, result.Grade, result.MinScore)
		if checkVerbose {
			fmt.Printf("  Pages audited: %d\n", result.PagesAudited)
			fmt.Printf("  Accessibility: %.1f\n", result.AccessibilityScore)
			fmt.Printf("  Violations: %d, Issues: %d\n", result.TotalViolations, result.TotalIssues)
			fmt.Printf("  Duration: %dms\n", result.Duration)
		}
		return nil
	}

	fmt.Printf("%s: compliance %.1f/100 (grade %s, minimum %.1f)\n",
		color.RedString("FAIL"), result.OverallCompliance, result.Grade, result.MinScore)
	if result.MinAccessibility > 0 && result.AccessibilityScore < result.MinAccessibility {
		fmt.Printf("  Accessibility %.1f below minimum %.1f\n",
			result.AccessibilityScore, result.MinAccessibility)
	}
	fmt.Printf("  Violations: %d, Issues: %d across %d pages\n",
		result.TotalViolations, result.TotalIssues, result.PagesAudited)
	if checkVerbose {
		fmt.Printf("  Duration: %dms\n", result.Duration)
	}

	return &CheckExitError{Code: 1, Message: ""}
}

func outputCheckJSON(result *checkResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return &CheckExitError{Code: 2, Message: fmt.Sprintf("failed to encode JSON: %v", err)}
	}

	if !result.Passed {
		return &CheckExitError{Code: 1, Message: ""}
	}
	return nil
}
