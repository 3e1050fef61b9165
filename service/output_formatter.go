package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"

	"github.com/uxscan/uxscan/domain"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct{}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{}
}

// WriteJSON writes data as indented JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// Format formats the audit response into a string
func (f *OutputFormatterImpl) Format(response *domain.AuditResponse, format domain.OutputFormat) (string, error) {
	var sb strings.Builder
	if err := f.Write(response, format, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write writes the audit response in the specified format
func (f *OutputFormatterImpl) Write(response *domain.AuditResponse, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return WriteJSON(writer, response)
	case domain.OutputFormatYAML:
		return f.writeYAML(response, writer)
	case domain.OutputFormatCSV:
		return f.writeCSV(response, writer)
	case domain.OutputFormatText:
		return f.writeText(response, writer)
	case domain.OutputFormatHTML:
		return f.WriteHTML(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// writeYAML writes the audit response as YAML
func (f *OutputFormatterImpl) writeYAML(response *domain.AuditResponse, writer io.Writer) error {
	data, err := yaml.Marshal(response)
	if err != nil {
		return domain.NewOutputError("failed to marshal YAML", err)
	}
	_, err = writer.Write(data)
	return err
}

// writeCSV writes one row per report: component rows first, pattern rows after
func (f *OutputFormatterImpl) writeCSV(response *domain.AuditResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)

	if err := w.Write([]string{"kind", "name", "count", "score", "passing", "findings"}); err != nil {
		return err
	}

	for _, r := range response.Metrics.ComponentUsage {
		score := 50.0
		if r.CorrectUsage {
			score = 100
		}
		record := []string{
			"component",
			r.ComponentName,
			strconv.Itoa(r.UsageCount),
			formatScore(score),
			strconv.FormatBool(r.CorrectUsage),
			strings.Join(r.Violations, "; "),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	for _, r := range response.Metrics.PatternCompliance {
		record := []string{
			"pattern",
			r.Pattern,
			strconv.Itoa(len(r.Issues)),
			formatScore(r.Score),
			strconv.FormatBool(r.Implemented),
			strings.Join(r.Issues, "; "),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// writeText writes the audit response as colored plain text
func (f *OutputFormatterImpl) writeText(response *domain.AuditResponse, writer io.Writer) error {
	fmt.Fprintf(writer, "\n=== Design System Compliance Report ===\n\n")
	fmt.Fprintf(writer, "Generated: %s\n", response.GeneratedAt)
	fmt.Fprintf(writer, "Duration: %dms\n", response.Duration)
	fmt.Fprintf(writer, "Version: %s (rulebook %s)\n\n", response.Version, response.RulebookVersion)

	summary := response.Summary
	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Pages audited: %d\n", summary.PagesAudited)
	fmt.Fprintf(writer, "  Component types: %d (%d elements)\n", summary.ComponentTypes, summary.TotalElements)
	fmt.Fprintf(writer, "  Patterns checked: %d\n", summary.PatternsChecked)
	fmt.Fprintf(writer, "  Violations: %d, Issues: %d, Recommendations: %d\n\n",
		summary.TotalViolations, summary.TotalIssues, summary.TotalRecommendations)

	fmt.Fprintf(writer, "Scores:\n")
	fmt.Fprintf(writer, "  Components:    %s\n", colorScore(summary.ComponentScore))
	fmt.Fprintf(writer, "  Patterns:      %s\n", colorScore(summary.PatternScore))
	fmt.Fprintf(writer, "  Accessibility: %s\n", colorScore(summary.AccessibilityScore))
	fmt.Fprintf(writer, "  Performance:   %s\n", colorScore(summary.PerformanceScore))
	fmt.Fprintf(writer, "  Overall:       %s (Grade %s)\n\n",
		colorScore(summary.OverallCompliance), summary.Grade)

	if len(response.Metrics.ComponentUsage) > 0 {
		fmt.Fprintf(writer, "Components:\n")
		for _, r := range response.Metrics.ComponentUsage {
			status := color.GreenString("PASS")
			if !r.CorrectUsage {
				status = color.RedString("FAIL")
			}
			fmt.Fprintf(writer, "  [%s] %s (%d elements)\n", status, r.ComponentName, r.UsageCount)
			for _, v := range r.Violations {
				fmt.Fprintf(writer, "    - %s\n", v)
			}
			for _, rec := range r.Recommendations {
				fmt.Fprintf(writer, "    > %s\n", rec)
			}
		}
		fmt.Fprintf(writer, "\n")
	}

	if len(response.Metrics.PatternCompliance) > 0 {
		fmt.Fprintf(writer, "Patterns:\n")
		for _, r := range response.Metrics.PatternCompliance {
			status := color.GreenString("PASS")
			if !r.Implemented {
				status = color.YellowString("PARTIAL")
			}
			fmt.Fprintf(writer, "  [%s] %s: %s\n", status, r.Pattern, formatScore(r.Score))
			for _, issue := range r.Issues {
				fmt.Fprintf(writer, "    - %s\n", issue)
			}
			fmt.Fprintf(writer, "    see %s\n", r.Reference)
		}
		fmt.Fprintf(writer, "\n")
	}

	if len(response.Pages) > 0 {
		fmt.Fprintf(writer, "Pages:\n")
		for _, p := range response.Pages {
			fmt.Fprintf(writer, "  %s: %d violations, %d issues\n", p.Path, p.Violations, p.Issues)
		}
		fmt.Fprintf(writer, "\n")
	}

	if len(response.Warnings) > 0 {
		fmt.Fprintf(writer, "Warnings:\n")
		for _, w := range response.Warnings {
			fmt.Fprintf(writer, "  - %s\n", w)
		}
	}

	if len(response.Errors) > 0 {
		fmt.Fprintf(writer, "Errors:\n")
		for _, e := range response.Errors {
			fmt.Fprintf(writer, "  - %s\n", e)
		}
	}

	return nil
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', 1, 64)
}

func colorScore(score float64) string {
	text := formatScore(score) + "/100"
	switch {
	case score >= domain.ScoreThresholdExcellent:
		return color.GreenString(text)
	case score >= domain.ScoreThresholdGood:
		return color.YellowString(text)
	default:
		return color.RedString(text)
	}
}
