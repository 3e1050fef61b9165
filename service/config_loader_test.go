package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/uxscan/uxscan/domain"
	"github.com/uxscan/uxscan/internal/config"
)

func TestLoadDefaultConfig(t *testing.T) {
	loader := NewConfigurationLoader()

	req := loader.LoadDefaultConfig()
	if req == nil {
		t.Fatal("LoadDefaultConfig returned nil")
	}
	if req.OutputFormat != domain.OutputFormatText {
		t.Errorf("Expected text format, got %s", req.OutputFormat)
	}
	if req.SortBy != domain.SortByName {
		t.Errorf("Expected sort by name, got %s", req.SortBy)
	}
	if req.PerformanceScore != config.DefaultPerformanceScore {
		t.Errorf("Expected default performance score, got %g", req.PerformanceScore)
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uxscan.yaml")
	content := `
output:
  format: json
  sort_by: violations
audit:
  components:
    - Button
  performance_score: 60
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	loader := NewConfigurationLoader()
	req, err := loader.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if req.OutputFormat != domain.OutputFormatJSON {
		t.Errorf("Expected json format, got %s", req.OutputFormat)
	}
	if req.SortBy != domain.SortByViolations {
		t.Errorf("Expected sort by violations, got %s", req.SortBy)
	}
	if len(req.ComponentTypes) != 1 || req.ComponentTypes[0] != "Button" {
		t.Errorf("Unexpected component scope: %v", req.ComponentTypes)
	}
	if req.PerformanceScore != 60 {
		t.Errorf("Expected performance score 60, got %g", req.PerformanceScore)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	loader := NewConfigurationLoader()

	_, err := loader.LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
	assertCode(t, err, domain.ErrCodeConfigError)
}

func TestMergeConfig_OverridePrecedence(t *testing.T) {
	loader := NewConfigurationLoader()

	base := &domain.AuditRequest{
		Paths:            []string{"old/"},
		OutputFormat:     domain.OutputFormatText,
		SortBy:           domain.SortByName,
		PerformanceScore: config.DefaultPerformanceScore,
		ComponentTypes:   []string{"Button", "Card"},
		IncludePatterns:  []string{"**/*.html"},
	}
	override := &domain.AuditRequest{
		Paths:            []string{"snapshots/"},
		OutputFormat:     domain.OutputFormatJSON,
		SortBy:           domain.SortByUsage,
		PerformanceScore: 70,
		RulebookPath:     "rules.yaml",
		ShowDetails:      true,
	}

	merged := loader.MergeConfig(base, override)

	if len(merged.Paths) != 1 || merged.Paths[0] != "snapshots/" {
		t.Errorf("Paths must come from the override: %v", merged.Paths)
	}
	if merged.OutputFormat != domain.OutputFormatJSON {
		t.Errorf("Expected json format, got %s", merged.OutputFormat)
	}
	if merged.SortBy != domain.SortByUsage {
		t.Errorf("Expected sort by usage, got %s", merged.SortBy)
	}
	if merged.PerformanceScore != 70 {
		t.Errorf("Expected performance score 70, got %g", merged.PerformanceScore)
	}
	if merged.RulebookPath != "rules.yaml" {
		t.Errorf("Expected rulebook path from override, got %s", merged.RulebookPath)
	}
	if !merged.ShowDetails {
		t.Error("Expected details flag from override")
	}
	// Unset override fields keep the base values
	if len(merged.ComponentTypes) != 2 {
		t.Errorf("Component scope must survive the merge: %v", merged.ComponentTypes)
	}
	if len(merged.IncludePatterns) != 1 {
		t.Errorf("Include patterns must survive the merge: %v", merged.IncludePatterns)
	}
}

func TestMergeConfig_DefaultScoreDoesNotOverride(t *testing.T) {
	loader := NewConfigurationLoader()

	base := &domain.AuditRequest{PerformanceScore: 42}
	override := &domain.AuditRequest{PerformanceScore: config.DefaultPerformanceScore}

	merged := loader.MergeConfig(base, override)
	if merged.PerformanceScore != 42 {
		t.Errorf("The untouched default must not clobber a configured score, got %g", merged.PerformanceScore)
	}
}

func TestValidateConfig(t *testing.T) {
	loader := NewConfigurationLoader()

	valid := &domain.AuditRequest{
		OutputFormat:     domain.OutputFormatText,
		SortBy:           domain.SortByName,
		PerformanceScore: 85,
	}
	if err := loader.ValidateConfig(valid); err != nil {
		t.Errorf("Expected valid request, got %v", err)
	}

	tests := []struct {
		name   string
		mutate func(req *domain.AuditRequest)
	}{
		{"score out of range", func(req *domain.AuditRequest) { req.PerformanceScore = 120 }},
		{"invalid format", func(req *domain.AuditRequest) { req.OutputFormat = "xml" }},
		{"invalid sort", func(req *domain.AuditRequest) { req.SortBy = "score" }},
		{"missing performance report", func(req *domain.AuditRequest) {
			req.PerformanceReportPath = filepath.Join(t.TempDir(), "absent.json")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := *valid
			tt.mutate(&req)
			if err := loader.ValidateConfig(&req); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}
