package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/uxscan/uxscan/app"
	"github.com/uxscan/uxscan/domain"
	"github.com/uxscan/uxscan/service"
)

var (
	auditOutputFormat     string
	auditOutputPath       string
	auditConfigPath       string
	auditRulebookPath     string
	auditComponents       []string
	auditPatterns         []string
	auditSortBy           string
	auditPerformanceScore float64
	auditPerformanceFile  string
	auditShowDetails      bool
	auditRecursive        bool
	auditJSONOutput       bool
	auditHTMLOutput       bool
	auditNoOpenBrowser    bool
)

func auditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit [path...]",
		Short: "Audit page snapshots for design-system compliance",
		Long: `Audit rendered HTML page snapshots against the design-system rulebook.

Checks component usage (buttons, cards, form groups), structural UX patterns
(navigation, forms, accessibility, headings, landmarks, media, viewport) and
produces a scored compliance report.

Examples:
  uxscan audit snapshots/
  uxscan audit --components Button,Card snapshots/
  uxscan audit --patterns Navigation,Accessibility --json snapshots/
  uxscan audit --format html -o report.html snapshots/
  uxscan audit --rulebook design-rules.yaml snapshots/`,
		RunE: runAudit,
	}

	cmd.Flags().StringVarP(&auditOutputFormat, "format", "f", "text",
		"Output format: text, json, yaml, csv, html")
	cmd.Flags().StringVarP(&auditOutputPath, "output", "o", "",
		"Output file path (default: uxscan-report.html for HTML)")
	cmd.Flags().StringVarP(&auditConfigPath, "config", "c", "",
		"Path to config file")
	cmd.Flags().StringVar(&auditRulebookPath, "rulebook", "",
		"Path to a YAML rulebook overlay")
	cmd.Flags().StringSliceVar(&auditComponents, "components", nil,
		"Component types to audit (comma-separated, default: all)")
	cmd.Flags().StringSliceVar(&auditPatterns, "patterns", nil,
		"Patterns to check (comma-separated, default: all)")
	cmd.Flags().StringVar(&auditSortBy, "sort", "name",
		"Sort component reports by: name, usage, violations")
	cmd.Flags().Float64Var(&auditPerformanceScore, "performance-score", 0,
		"Fixed performance score fed into the overall score (0 = config default)")
	cmd.Flags().StringVar(&auditPerformanceFile, "performance-report", "",
		"External metrics JSON overriding the performance score")
	cmd.Flags().BoolVar(&auditShowDetails, "details", false,
		"Show per-element findings")
	cmd.Flags().BoolVar(&auditRecursive, "recursive", true,
		"Walk directories recursively")
	cmd.Flags().BoolVar(&auditJSONOutput, "json", false,
		"Output results as JSON (shorthand for --format json)")
	cmd.Flags().BoolVar(&auditHTMLOutput, "html", false,
		"Output results as HTML (shorthand for --format html)")
	cmd.Flags().BoolVar(&auditNoOpenBrowser, "no-open", false,
		"Don't auto-open HTML report in browser")

	return cmd
}

func runAudit(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no paths specified")
	}

	// Determine output format
	format := domain.OutputFormat(auditOutputFormat)
	if auditJSONOutput {
		format = domain.OutputFormatJSON
	} else if auditHTMLOutput {
		format = domain.OutputFormatHTML
	}

	req, err := buildAuditRequest(args, format)
	if err != nil {
		return err
	}

	// Create progress manager (auto-disabled for JSON output or non-TTY)
	pm := service.NewProgressManager(format == domain.OutputFormatText)
	defer pm.Close()

	useCase, err := app.NewAuditUseCaseBuilder().
		WithFormatter(service.NewOutputFormatter()).
		WithProgressManager(pm).
		Build()
	if err != nil {
		return err
	}

	ctx := context.Background()

	// HTML reports are written to a file and opened in the browser
	if format == domain.OutputFormatHTML {
		htmlPath := auditOutputPath
		if htmlPath == "" {
			htmlPath = "uxscan-report.html"
		}

		file, err := os.Create(htmlPath)
		if err != nil {
			return fmt.Errorf("failed to create HTML file: %w", err)
		}
		defer file.Close()

		req.OutputWriter = file
		if _, err := useCase.ExecuteAndWrite(ctx, *req); err != nil {
			return err
		}

		absPath, _ := filepath.Abs(htmlPath)
		fmt.Printf("HTML report saved to: %s\n", absPath)

		if !auditNoOpenBrowser && !service.IsSSH() {
			if err := service.OpenBrowser("file://" + absPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Could not open browser: %v\n", err)
			}
		}

		return nil
	}

	req.OutputWriter = os.Stdout
	_, err = useCase.ExecuteAndWrite(ctx, *req)
	return err
}

// buildAuditRequest merges the config file with CLI flags into one request
func buildAuditRequest(paths []string, format domain.OutputFormat) (*domain.AuditRequest, error) {
	loader := service.NewConfigurationLoader()

	var base *domain.AuditRequest
	if auditConfigPath != "" {
		loaded, err := loader.LoadConfig(auditConfigPath)
		if err != nil {
			return nil, err
		}
		base = loaded
	} else {
		base = loader.LoadDefaultConfig()
	}

	override := &domain.AuditRequest{
		Paths:                 paths,
		OutputFormat:          format,
		OutputPath:            auditOutputPath,
		NoOpen:                auditNoOpenBrowser,
		ShowDetails:           auditShowDetails,
		ComponentTypes:        auditComponents,
		Patterns:              auditPatterns,
		SortBy:                domain.SortCriteria(auditSortBy),
		PerformanceScore:      auditPerformanceScore,
		PerformanceReportPath: auditPerformanceFile,
		ConfigPath:            auditConfigPath,
		RulebookPath:          auditRulebookPath,
		Recursive:             auditRecursive,
	}

	req := loader.MergeConfig(base, override)
	if err := loader.ValidateConfig(req); err != nil {
		return nil, err
	}

	return req, nil
}
