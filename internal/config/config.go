package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default audit settings
const (
	// DefaultPerformanceScore is used when no external metrics artifact is
	// supplied. Audits are static, so the performance dimension is a fixed
	// baseline unless the caller overrides it.
	DefaultPerformanceScore = 85.0

	// DefaultMaxWorkers bounds page-level concurrency when the config does
	// not specify a worker count
	DefaultMaxWorkers = 4

	// DefaultTimeoutSeconds bounds the total audit run
	DefaultTimeoutSeconds = 300

	// DefaultMinScore is the check command's pass threshold
	DefaultMinScore = 70.0
)

// Config represents the main configuration structure
type Config struct {
	// Audit holds audit scope and execution configuration
	Audit AuditConfig `json:"audit" mapstructure:"audit" yaml:"audit"`

	// Rulebook holds design-system rulebook configuration
	Rulebook RulebookConfig `json:"rulebook" mapstructure:"rulebook" yaml:"rulebook"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`

	// Analysis holds snapshot collection configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`
}

// AuditConfig holds audit scope and execution settings
type AuditConfig struct {
	// Components lists the component types to audit. Empty means all
	// component types known to the rulebook.
	Components []string `json:"components" mapstructure:"components" yaml:"components"`

	// Patterns lists the structural patterns to check. Empty means all
	// patterns known to the auditor.
	Patterns []string `json:"patterns" mapstructure:"patterns" yaml:"patterns"`

	// PerformanceScore is the fixed performance dimension fed into the
	// overall compliance score
	PerformanceScore float64 `json:"performance_score" mapstructure:"performance_score" yaml:"performance_score"`

	// PerformanceReportPath optionally points at an external metrics JSON
	// artifact that overrides PerformanceScore
	PerformanceReportPath string `json:"performance_report,omitempty" mapstructure:"performance_report" yaml:"performance_report,omitempty"`

	// MinScore is the overall score below which the check command fails
	MinScore float64 `json:"min_score" mapstructure:"min_score" yaml:"min_score"`

	// MaxWorkers is the number of pages audited concurrently (0 = default)
	MaxWorkers int `json:"max_workers" mapstructure:"max_workers" yaml:"max_workers"`

	// TimeoutSeconds bounds the whole audit run (0 = default)
	TimeoutSeconds int `json:"timeout_seconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// RulebookConfig holds rulebook source settings
type RulebookConfig struct {
	// Path points at a YAML rulebook overlay. Empty means the built-in
	// rulebook is used unmodified.
	Path string `json:"path,omitempty" mapstructure:"path" yaml:"path,omitempty"`
}

// OutputConfig holds configuration for output formatting
type OutputConfig struct {
	// Format specifies the output format: text, json, yaml, csv, html
	Format string `json:"format" mapstructure:"format" yaml:"format"`

	// ShowDetails controls whether to show per-element findings
	ShowDetails bool `json:"show_details" mapstructure:"show_details" yaml:"show_details"`

	// SortBy specifies how component reports are sorted: name, usage, violations
	SortBy string `json:"sort_by" mapstructure:"sort_by" yaml:"sort_by"`

	// Directory specifies the output directory for saved reports (empty =
	// current working directory)
	Directory string `json:"directory" mapstructure:"directory" yaml:"directory"`
}

// AnalysisConfig holds snapshot collection configuration
type AnalysisConfig struct {
	// IncludePatterns specifies file patterns to include
	IncludePatterns []string `json:"include_patterns" mapstructure:"include_patterns" yaml:"include_patterns"`

	// ExcludePatterns specifies file patterns to exclude
	ExcludePatterns []string `json:"exclude_patterns" mapstructure:"exclude_patterns" yaml:"exclude_patterns"`

	// Recursive controls whether directories are walked recursively
	Recursive bool `json:"recursive" mapstructure:"recursive" yaml:"recursive"`

	// FollowSymlinks controls whether to follow symbolic links
	FollowSymlinks bool `json:"follow_symlinks" mapstructure:"follow_symlinks" yaml:"follow_symlinks"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Audit: AuditConfig{
			Components:       []string{},
			Patterns:         []string{},
			PerformanceScore: DefaultPerformanceScore,
			MinScore:         DefaultMinScore,
			MaxWorkers:       DefaultMaxWorkers,
			TimeoutSeconds:   DefaultTimeoutSeconds,
		},
		Rulebook: RulebookConfig{},
		Output: OutputConfig{
			Format:      "text",
			ShowDetails: false,
			SortBy:      "name",
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{"**/*.html", "**/*.htm"},
			ExcludePatterns: []string{
				"node_modules",
				"vendor",
				"dist",
				"build",
				".git",
				"coverage",
			},
			Recursive:      true,
			FollowSymlinks: false,
		},
	}
}

// LoadConfig loads configuration from file or returns default config
func LoadConfig(configPath string) (*Config, error) {
	return LoadConfigWithTarget(configPath, "")
}

// discoverConfigFile finds the appropriate config file path
func discoverConfigFile(targetPath string) string {
	return findDefaultConfig(targetPath)
}

// loadConfigFromFile reads and parses a configuration file
func loadConfigFromFile(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}

	// Create a new viper instance to avoid race conditions
	v := viper.New()
	config := DefaultConfig()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// LoadConfigWithTarget loads configuration with target path context.
// Orchestrates discovery and loading but delegates specific concerns.
func LoadConfigWithTarget(configPath string, targetPath string) (*Config, error) {
	if configPath == "" {
		configPath = discoverConfigFile(targetPath)
	}

	return loadConfigFromFile(configPath)
}

// searchConfigInDirectory searches for configuration files in a specific directory
func searchConfigInDirectory(dir string, candidates []string) string {
	for _, candidate := range candidates {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// findDefaultConfig looks for default configuration files in common locations.
// targetPath is the path being audited (a snapshot file or directory).
func findDefaultConfig(targetPath string) string {
	candidates := []string{
		"uxscan.config.json",
		"uxscan.yaml",
		"uxscan.yml",
		".uxscan.yml",
		"uxscan.json",
		".uxscan.json",
	}

	// If targetPath is provided, search from there upward
	if targetPath != "" {
		absPath, err := filepath.Abs(targetPath)
		if err == nil {
			info, err := os.Stat(absPath)
			if err == nil && !info.IsDir() {
				absPath = filepath.Dir(absPath)
			}

			// Search from target directory up to the filesystem root.
			// Handle Windows edge cases: volume roots (C:\), UNC paths.
			volume := filepath.VolumeName(absPath)
			for dir := absPath; ; dir = filepath.Dir(dir) {
				if config := searchConfigInDirectory(dir, candidates); config != "" {
					return config
				}

				parent := filepath.Dir(dir)
				if parent == dir ||
					dir == volume ||
					(volume != "" && dir == volume+string(filepath.Separator)) {
					break
				}
			}
		}
	}

	// Fallback to current directory
	if config := searchConfigInDirectory(".", candidates); config != "" {
		return config
	}

	// Check XDG config directory (Linux/Mac standard)
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		if config := searchConfigInDirectory(filepath.Join(xdgConfig, "uxscan"), candidates); config != "" {
			return config
		}
	}

	// Check ~/.config/uxscan/ (XDG default)
	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", "uxscan")
		if config := searchConfigInDirectory(configDir, candidates); config != "" {
			return config
		}

		// Check home directory (backward compatibility)
		if config := searchConfigInDirectory(home, candidates); config != "" {
			return config
		}
	}

	// Check UXSCAN_CONFIG environment variable as fallback
	if envConfig := os.Getenv("UXSCAN_CONFIG"); envConfig != "" {
		if _, err := os.Stat(envConfig); err == nil {
			return envConfig
		}
	}

	return ""
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.Audit.PerformanceScore < 0 || c.Audit.PerformanceScore > 100 {
		return fmt.Errorf("audit.performance_score must be in [0, 100], got %g", c.Audit.PerformanceScore)
	}

	if c.Audit.MinScore < 0 || c.Audit.MinScore > 100 {
		return fmt.Errorf("audit.min_score must be in [0, 100], got %g", c.Audit.MinScore)
	}

	if c.Audit.MaxWorkers < 0 {
		return fmt.Errorf("audit.max_workers must be >= 0, got %d", c.Audit.MaxWorkers)
	}

	if c.Audit.TimeoutSeconds < 0 {
		return fmt.Errorf("audit.timeout_seconds must be >= 0, got %d", c.Audit.TimeoutSeconds)
	}

	validFormats := map[string]bool{
		"text": true,
		"json": true,
		"yaml": true,
		"csv":  true,
		"html": true,
	}

	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output.format '%s', must be one of: text, json, yaml, csv, html", c.Output.Format)
	}

	validSortBy := map[string]bool{
		"name":       true,
		"usage":      true,
		"violations": true,
	}

	if !validSortBy[c.Output.SortBy] {
		return fmt.Errorf("invalid output.sort_by '%s', must be one of: name, usage, violations", c.Output.SortBy)
	}

	if len(c.Analysis.IncludePatterns) == 0 {
		return fmt.Errorf("analysis.include_patterns cannot be empty")
	}

	if c.Rulebook.Path != "" {
		if _, err := os.Stat(c.Rulebook.Path); err != nil {
			return fmt.Errorf("rulebook.path %s: %w", c.Rulebook.Path, err)
		}
	}

	return nil
}

// EffectiveMaxWorkers returns the worker count with defaults applied
func (c *AuditConfig) EffectiveMaxWorkers() int {
	if c.MaxWorkers <= 0 {
		return DefaultMaxWorkers
	}
	return c.MaxWorkers
}

// EffectiveTimeoutSeconds returns the timeout with defaults applied
func (c *AuditConfig) EffectiveTimeoutSeconds() int {
	if c.TimeoutSeconds <= 0 {
		return DefaultTimeoutSeconds
	}
	return c.TimeoutSeconds
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, path string) error {
	// Create a new viper instance to avoid race conditions
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("audit", config.Audit)
	v.Set("rulebook", config.Rulebook)
	v.Set("output", config.Output)
	v.Set("analysis", config.Analysis)

	return v.WriteConfig()
}
