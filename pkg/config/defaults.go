package config

const (
	defaultMinMessages            = 5
	defaultSynthesisIntervalHours = 24
	defaultMaxMemoriesPerCategory = 15
	defaultCleanupAfterDays       = 30

	defaultOracleProvider       = "auto"
	defaultOracleTimeoutSeconds = 90
)

// DefaultCategories is the built-in category set, in no particular order.
var DefaultCategories = []string{
	"work_context",
	"preferences",
	"technical_style",
	"ongoing_projects",
	"tools_and_workflows",
}

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() Config {
	return Config{
		Version:                CurrentV,
		Enabled:                true,
		MinMessages:            defaultMinMessages,
		Categories:             append([]string(nil), DefaultCategories...),
		SynthesisIntervalHours: defaultSynthesisIntervalHours,
		MaxMemoriesPerCategory: defaultMaxMemoriesPerCategory,
		CleanupAfterDays:       defaultCleanupAfterDays,
		Oracle: OracleConfig{
			Provider:       defaultOracleProvider,
			TimeoutSeconds: defaultOracleTimeoutSeconds,
		},
	}
}
