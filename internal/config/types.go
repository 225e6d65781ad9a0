// Package config loads mysqlint settings from mysqlint.yaml, MYSQLINT_*
// environment variables and command-line flags, and turns them into the
// values the analysis packages take.
package config

// Config holds all settings.
type Config struct {
	// Platform is mysql or mariadb, optionally with a version suffix
	// ("mariadb-10.11").
	Platform string `koanf:"platform"`
	// Version overrides the platform's version.
	Version string `koanf:"version"`
	// SQLMode is the starting sql_mode. Empty means the platform default.
	SQLMode   string `koanf:"sql_mode"`
	Delimiter string `koanf:"delimiter"`
	Charset   string `koanf:"charset"`
	Schema    string `koanf:"schema"`

	QuoteAllNames    bool `koanf:"quote_all_names"`
	EscapeWhitespace bool `koanf:"escape_whitespace"`

	// Output is auto, text, json or yaml.
	Output    string `koanf:"output"`
	StatePath string `koanf:"state_path"`
	SchemaDir string `koanf:"schema_dir"`
	// Concurrency bounds the files analyzed at once. Zero means one per CPU.
	Concurrency int  `koanf:"concurrency"`
	Verbose     bool `koanf:"verbose"`

	Lint LintConfig `koanf:"lint"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

// LintConfig holds lint rule configuration.
type LintConfig struct {
	// Disabled contains rule IDs to disable
	Disabled []string `koanf:"disabled"`

	// Severity maps rule ID to severity override (notice, skip_notice, error, critical)
	Severity map[string]string `koanf:"severity"`

	// Rules contains rule-specific options
	Rules map[string]RuleOptions `koanf:"rules"`
}

// RuleOptions holds rule-specific configuration options.
type RuleOptions map[string]any
