package config

import "strconv"

// ProjectType represents the kind of site being audited
type ProjectType string

const (
	ProjectTypeGeneric    ProjectType = "generic"
	ProjectTypeSPA        ProjectType = "spa"
	ProjectTypeStaticSite ProjectType = "static-site"
	ProjectTypeDocs       ProjectType = "docs"
)

// Strictness represents the audit strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds snapshot collection presets for different project types
type ProjectPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// StrictnessPreset holds threshold values for different strictness levels
type StrictnessPreset struct {
	MinScore         float64
	PerformanceScore float64
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric: {
			IncludePatterns: []string{
				"**/*.html",
				"**/*.htm",
			},
			ExcludePatterns: []string{
				"node_modules",
				"vendor",
				"dist",
				"build",
				".git",
			},
		},
		ProjectTypeSPA: {
			IncludePatterns: []string{
				"snapshots/**/*.html",
				"**/*.html",
			},
			ExcludePatterns: []string{
				"node_modules",
				"dist",
				"build",
				".next",
				".nuxt",
				"coverage",
				".git",
			},
		},
		ProjectTypeStaticSite: {
			IncludePatterns: []string{
				"public/**/*.html",
				"**/*.html",
			},
			ExcludePatterns: []string{
				"node_modules",
				".cache",
				".git",
			},
		},
		ProjectTypeDocs: {
			IncludePatterns: []string{
				"site/**/*.html",
				"**/*.html",
			},
			ExcludePatterns: []string{
				"node_modules",
				"_site",
				".git",
			},
		},
	}
}

// GetStrictnessPresets returns presets for different strictness levels
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			MinScore:         60,
			PerformanceScore: 85,
		},
		StrictnessStandard: {
			MinScore:         70,
			PerformanceScore: 85,
		},
		StrictnessStrict: {
			MinScore:         85,
			PerformanceScore: 90,
		},
	}
}

// GetFullConfigTemplate returns the documented config template as JSONC
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) string {
	projectPresets := GetProjectPresets()
	strictnessPresets := GetStrictnessPresets()

	preset := projectPresets[projectType]
	strict := strictnessPresets[strictness]

	includePatterns := formatJSONArray(preset.IncludePatterns)
	excludePatterns := formatJSONArray(preset.ExcludePatterns)

	return `{
  // uxscan Configuration
  // Documentation: https://design.uxscan.dev/cli

  // ============================================================================
  // AUDIT SCOPE
  // ============================================================================
  // Controls which component types and structural patterns are checked
  "audit": {
    // Component types to audit (empty = all rulebook components)
    "components": [],

    // Structural patterns to check (empty = all known patterns)
    "patterns": [],

    // Fixed performance score fed into the overall compliance score.
    // Audits are static; override this from your performance tooling.
    "performance_score": ` + formatFloat(strict.PerformanceScore) + `,

    // Path to an external metrics JSON ({"performanceScore": N}) that
    // overrides performance_score when present
    // "performance_report": "lighthouse.json",

    // Overall score below which 'uxscan check' fails
    "min_score": ` + formatFloat(strict.MinScore) + `,

    // Pages audited concurrently (0 = auto)
    "max_workers": 0,

    // Total audit timeout in seconds (0 = default)
    "timeout_seconds": 0
  },

  // ============================================================================
  // RULEBOOK
  // ============================================================================
  // Design-system rules: component selectors, allowed intents and sizes,
  // pattern thresholds. Omit "path" to use the built-in rulebook.
  "rulebook": {
    // "path": "design-rules.yaml"
  },

  // ============================================================================
  // OUTPUT SETTINGS
  // ============================================================================
  "output": {
    // Output format: "text", "json", "yaml", "csv", "html"
    "format": "text",

    // Show per-element findings in text output
    "show_details": true,

    // Sort component reports by: "name", "usage", "violations"
    "sort_by": "name"
  },

  // ============================================================================
  // SNAPSHOT COLLECTION
  // ============================================================================
  // Controls which page snapshots are audited
  "analysis": {
    // File patterns to include (glob patterns)
    "include_patterns": ` + includePatterns + `,

    // File patterns to exclude (glob patterns)
    "exclude_patterns": ` + excludePatterns + `,

    // Walk directories recursively
    "recursive": true
  }
}
`
}

// GetMinimalConfigTemplate returns a minimal config template
func GetMinimalConfigTemplate() string {
	return `{
  // uxscan Configuration (minimal)
  // See full options: https://design.uxscan.dev/cli

  "audit": {
    "min_score": 70,
    "performance_score": 85
  },

  "analysis": {
    "include_patterns": ["**/*.html", "**/*.htm"],
    "exclude_patterns": ["node_modules", "dist"]
  }
}
`
}

// formatJSONArray formats a string slice as a JSON array with proper indentation
func formatJSONArray(items []string) string {
	if len(items) == 0 {
		return "[]"
	}

	result := "[\n"
	for i, item := range items {
		result += `      "` + item + `"`
		if i < len(items)-1 {
			result += ","
		}
		result += "\n"
	}
	result += "    ]"
	return result
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
