package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig should not return nil")
	}

	// Verify audit defaults
	if config.Audit.PerformanceScore != DefaultPerformanceScore {
		t.Errorf("Expected PerformanceScore %g, got %g", DefaultPerformanceScore, config.Audit.PerformanceScore)
	}
	if config.Audit.MinScore != DefaultMinScore {
		t.Errorf("Expected MinScore %g, got %g", DefaultMinScore, config.Audit.MinScore)
	}
	if config.Audit.MaxWorkers != DefaultMaxWorkers {
		t.Errorf("Expected MaxWorkers %d, got %d", DefaultMaxWorkers, config.Audit.MaxWorkers)
	}
	if config.Audit.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("Expected TimeoutSeconds %d, got %d", DefaultTimeoutSeconds, config.Audit.TimeoutSeconds)
	}

	// Verify output defaults
	if config.Output.Format != "text" {
		t.Errorf("Expected Format 'text', got '%s'", config.Output.Format)
	}
	if config.Output.SortBy != "name" {
		t.Errorf("Expected SortBy 'name', got '%s'", config.Output.SortBy)
	}

	// Verify analysis defaults
	if !config.Analysis.Recursive {
		t.Error("Recursive should be true by default")
	}
	if len(config.Analysis.IncludePatterns) == 0 {
		t.Error("IncludePatterns should not be empty")
	}
	if len(config.Analysis.ExcludePatterns) == 0 {
		t.Error("ExcludePatterns should not be empty")
	}
}

func TestConfig_Validate_Valid(t *testing.T) {
	config := DefaultConfig()

	err := config.Validate()
	if err != nil {
		t.Errorf("Default config should be valid, got error: %v", err)
	}
}

func TestConfig_Validate_InvalidPerformanceScore(t *testing.T) {
	config := DefaultConfig()
	config.Audit.PerformanceScore = 120

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for PerformanceScore > 100")
	}
}

func TestConfig_Validate_InvalidMinScore(t *testing.T) {
	config := DefaultConfig()
	config.Audit.MinScore = -5

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for MinScore < 0")
	}
}

func TestConfig_Validate_InvalidMaxWorkers(t *testing.T) {
	config := DefaultConfig()
	config.Audit.MaxWorkers = -1

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for MaxWorkers < 0")
	}
}

func TestConfig_Validate_InvalidOutputFormat(t *testing.T) {
	config := DefaultConfig()
	config.Output.Format = "xml"

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for invalid output format")
	}
}

func TestConfig_Validate_InvalidSortBy(t *testing.T) {
	config := DefaultConfig()
	config.Output.SortBy = "score"

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for invalid sort_by")
	}
}

func TestConfig_Validate_EmptyIncludePatterns(t *testing.T) {
	config := DefaultConfig()
	config.Analysis.IncludePatterns = nil

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for empty include_patterns")
	}
}

func TestConfig_Validate_MissingRulebookPath(t *testing.T) {
	config := DefaultConfig()
	config.Rulebook.Path = filepath.Join(t.TempDir(), "no-such-rulebook.yaml")

	err := config.Validate()
	if err == nil {
		t.Error("Expected error for missing rulebook path")
	}
}

func TestAuditConfig_EffectiveDefaults(t *testing.T) {
	cfg := AuditConfig{}

	if got := cfg.EffectiveMaxWorkers(); got != DefaultMaxWorkers {
		t.Errorf("Expected EffectiveMaxWorkers %d, got %d", DefaultMaxWorkers, got)
	}
	if got := cfg.EffectiveTimeoutSeconds(); got != DefaultTimeoutSeconds {
		t.Errorf("Expected EffectiveTimeoutSeconds %d, got %d", DefaultTimeoutSeconds, got)
	}

	cfg.MaxWorkers = 8
	cfg.TimeoutSeconds = 60
	if got := cfg.EffectiveMaxWorkers(); got != 8 {
		t.Errorf("Expected EffectiveMaxWorkers 8, got %d", got)
	}
	if got := cfg.EffectiveTimeoutSeconds(); got != 60 {
		t.Errorf("Expected EffectiveTimeoutSeconds 60, got %d", got)
	}
}

func TestLoadConfig_NoFile(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig with empty path should use defaults, got error: %v", err)
	}
	if config.Output.Format != "text" {
		t.Errorf("Expected default format 'text', got '%s'", config.Output.Format)
	}
}

func TestLoadConfig_FromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uxscan.yaml")
	content := `audit:
  performance_score: 92
  min_score: 80
output:
  format: json
  sort_by: violations
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Audit.PerformanceScore != 92 {
		t.Errorf("Expected PerformanceScore 92, got %g", config.Audit.PerformanceScore)
	}
	if config.Audit.MinScore != 80 {
		t.Errorf("Expected MinScore 80, got %g", config.Audit.MinScore)
	}
	if config.Output.Format != "json" {
		t.Errorf("Expected Format 'json', got '%s'", config.Output.Format)
	}
	if config.Output.SortBy != "violations" {
		t.Errorf("Expected SortBy 'violations', got '%s'", config.Output.SortBy)
	}

	// Unspecified values keep their defaults
	if config.Audit.MaxWorkers != DefaultMaxWorkers {
		t.Errorf("Expected default MaxWorkers %d, got %d", DefaultMaxWorkers, config.Audit.MaxWorkers)
	}
}

func TestLoadConfig_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uxscan.yaml")
	if err := os.WriteFile(path, []byte("output:\n  format: xml\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfig(path)
	if err == nil {
		t.Error("Expected error for invalid format in config file")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestLoadConfigWithTarget_UpwardDiscovery(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "site", "pages")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("Failed to create nested dirs: %v", err)
	}

	configPath := filepath.Join(root, ".uxscan.yml")
	if err := os.WriteFile(configPath, []byte("audit:\n  min_score: 90\n"), 0o644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	config, err := LoadConfigWithTarget("", nested)
	if err != nil {
		t.Fatalf("LoadConfigWithTarget failed: %v", err)
	}
	if config.Audit.MinScore != 90 {
		t.Errorf("Expected discovered MinScore 90, got %g", config.Audit.MinScore)
	}
}

func TestSaveConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "uxscan.yaml")

	config := DefaultConfig()
	config.Output.Format = "html"

	if err := SaveConfig(config, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig after save failed: %v", err)
	}
	if loaded.Output.Format != "html" {
		t.Errorf("Expected round-tripped Format 'html', got '%s'", loaded.Output.Format)
	}
}

func TestLoadDefaultConfig(t *testing.T) {
	config, err := LoadDefaultConfig()
	if err != nil {
		t.Fatalf("LoadDefaultConfig failed: %v", err)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Embedded default config should validate, got: %v", err)
	}
	if config.Audit.PerformanceScore != DefaultPerformanceScore {
		t.Errorf("Expected embedded PerformanceScore %g, got %g", DefaultPerformanceScore, config.Audit.PerformanceScore)
	}
}

func TestGetFullConfigTemplate(t *testing.T) {
	template := GetFullConfigTemplate(ProjectTypeSPA, StrictnessStrict)

	if !strings.Contains(template, `"min_score": 85`) {
		t.Error("Strict template should carry min_score 85")
	}
	if !strings.Contains(template, ".next") {
		t.Error("SPA template should exclude .next")
	}
	if !strings.Contains(template, "uxscan Configuration") {
		t.Error("Template should carry the header comment")
	}
}

func TestGetMinimalConfigTemplate(t *testing.T) {
	template := GetMinimalConfigTemplate()

	if !strings.Contains(template, `"min_score": 70`) {
		t.Error("Minimal template should carry min_score 70")
	}
	if !strings.Contains(template, "**/*.html") {
		t.Error("Minimal template should include HTML patterns")
	}
}
