package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "uxscan"

	// ConfigFileName is the default config file name
	ConfigFileName = "uxscan.config.json"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "UXSCAN"
)

// Audit area constants
const (
	AuditComponents    = "components"
	AuditPatterns      = "patterns"
	AuditAccessibility = "accessibility"
)

// Output format constants
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
	OutputFormatCSV  = "csv"
	OutputFormatHTML = "html"
)

// Score thresholds for letter grades
const (
	GradeAThreshold = 90.0
	GradeBThreshold = 80.0
	GradeCThreshold = 70.0
	GradeDThreshold = 60.0
)

// Check command exit codes
const (
	ExitCodePass       = 0
	ExitCodeViolations = 1
	ExitCodeUsageError = 2
)
