package config

// Default configuration values.
const (
	DefaultPlatform  = "mysql"
	DefaultOutput    = "auto" // text, styled on a TTY
	DefaultStateFile = ".mysqlint/state.db"
	DefaultDelimiter = ";"
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "mysqlint.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "mysqlint.yml"

// EnvPrefix prefixes environment variables that override settings.
const EnvPrefix = "MYSQLINT_"

func defaults() map[string]any {
	return map[string]any{
		"platform":          DefaultPlatform,
		"delimiter":         DefaultDelimiter,
		"output":            DefaultOutput,
		"state_path":        DefaultStateFile,
		"concurrency":       0,
		"quote_all_names":   false,
		"escape_whitespace": false,
		"verbose":           false,
	}
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Platform:  DefaultPlatform,
		Delimiter: DefaultDelimiter,
		Output:    DefaultOutput,
		StatePath: DefaultStateFile,
	}
}
