package service

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/uxscan/uxscan/domain"
	"github.com/uxscan/uxscan/internal/config"
)

// ConfigurationLoaderImpl implements the ConfigurationLoader interface
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*domain.AuditRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}

	return c.convertToAuditRequest(cfg), nil
}

// LoadDefaultConfig loads the default configuration, first checking for uxscan.config.json
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *domain.AuditRequest {
	cfg, err := config.LoadConfigWithTarget("", "")
	if err == nil {
		return c.convertToAuditRequest(cfg)
	}

	// Fall back to hardcoded default configuration
	cfg = config.DefaultConfig()
	return c.convertToAuditRequest(cfg)
}

// FindDefaultConfigFile searches for a default configuration file
func (c *ConfigurationLoaderImpl) FindDefaultConfigFile() string {
	// List of possible config file names in order of preference
	configFiles := []string{
		"uxscan.config.json",
		".uxscanrc.json",
		".uxscanrc",
		"uxscan.yaml",
		"uxscan.yml",
		".uxscan.yml",
		"uxscan.json",
		".uxscan.json",
	}

	// Check current directory
	for _, file := range configFiles {
		if _, err := os.Stat(file); err == nil {
			return file
		}
	}

	// Check parent directories up to root
	currentDir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		for _, file := range configFiles {
			configPath := filepath.Join(currentDir, file)
			if _, err := os.Stat(configPath); err == nil {
				return configPath
			}
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// MergeConfig merges CLI flags with configuration file
func (c *ConfigurationLoaderImpl) MergeConfig(base *domain.AuditRequest, override *domain.AuditRequest) *domain.AuditRequest {
	// Start with base configuration
	merged := *base

	// Always override paths as they come from command arguments
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}

	// Output configuration
	if override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}

	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}

	if override.OutputPath != "" {
		merged.OutputPath = override.OutputPath
	}

	if override.NoOpen {
		merged.NoOpen = override.NoOpen
	}

	if override.ShowDetails {
		merged.ShowDetails = override.ShowDetails
	}

	// Audit scope
	if len(override.ComponentTypes) > 0 {
		merged.ComponentTypes = override.ComponentTypes
	}

	if len(override.Patterns) > 0 {
		merged.Patterns = override.Patterns
	}

	if override.SortBy != "" && override.SortBy != domain.SortByName {
		merged.SortBy = override.SortBy
	}

	// Performance score source
	if override.PerformanceScore > 0 && override.PerformanceScore != config.DefaultPerformanceScore {
		merged.PerformanceScore = override.PerformanceScore
	}

	if override.PerformanceReportPath != "" {
		merged.PerformanceReportPath = override.PerformanceReportPath
	}

	// Config and rulebook paths are always from override if provided
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}

	if override.RulebookPath != "" {
		merged.RulebookPath = override.RulebookPath
	}

	// File collection options
	if override.Recursive {
		merged.Recursive = override.Recursive
	}

	if len(override.IncludePatterns) > 0 {
		merged.IncludePatterns = override.IncludePatterns
	}

	if len(override.ExcludePatterns) > 0 {
		merged.ExcludePatterns = override.ExcludePatterns
	}

	return &merged
}

// convertToAuditRequest converts a Config to AuditRequest
func (c *ConfigurationLoaderImpl) convertToAuditRequest(cfg *config.Config) *domain.AuditRequest {
	return &domain.AuditRequest{
		// Paths are set by the caller, not from config
		Paths: []string{},

		// Output settings
		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		ShowDetails:  cfg.Output.ShowDetails,
		SortBy:       domain.SortCriteria(cfg.Output.SortBy),

		// Audit scope
		ComponentTypes: cfg.Audit.Components,
		Patterns:       cfg.Audit.Patterns,

		// Performance score source
		PerformanceScore:      cfg.Audit.PerformanceScore,
		PerformanceReportPath: cfg.Audit.PerformanceReportPath,

		// Rulebook
		RulebookPath: cfg.Rulebook.Path,

		// File collection
		Recursive:       cfg.Analysis.Recursive,
		IncludePatterns: cfg.Analysis.IncludePatterns,
		ExcludePatterns: cfg.Analysis.ExcludePatterns,
	}
}

// ValidateConfig validates the configuration
func (c *ConfigurationLoaderImpl) ValidateConfig(req *domain.AuditRequest) error {
	if req.PerformanceScore < 0 || req.PerformanceScore > 100 {
		return fmt.Errorf("performance score must be in [0, 100], got %g", req.PerformanceScore)
	}

	// Validate output format
	validFormats := map[domain.OutputFormat]bool{
		domain.OutputFormatText: true,
		domain.OutputFormatJSON: true,
		domain.OutputFormatYAML: true,
		domain.OutputFormatCSV:  true,
		domain.OutputFormatHTML: true,
	}

	if !validFormats[req.OutputFormat] {
		return fmt.Errorf("invalid output format: %s (must be one of: text, json, yaml, csv, html)",
			req.OutputFormat)
	}

	// Validate sort criteria
	validSortBy := map[domain.SortCriteria]bool{
		domain.SortByName:       true,
		domain.SortByUsage:      true,
		domain.SortByViolations: true,
	}

	if req.SortBy != "" && !validSortBy[req.SortBy] {
		return fmt.Errorf("invalid sort criteria: %s (must be one of: name, usage, violations)", req.SortBy)
	}

	if req.PerformanceReportPath != "" {
		if _, err := os.Stat(req.PerformanceReportPath); err != nil {
			return fmt.Errorf("performance report %s: %w", req.PerformanceReportPath, err)
		}
	}

	return nil
}
