package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/leapstack-labs/mysqlint/internal/config"
)

// ConfigField represents a configuration field definition.
type ConfigField struct {
	Name        string
	Type        string
	Default     string
	Flag        string
	Description string
	// Env reports whether the field can be set from the environment.
	Env bool
}

// configFields returns the configuration schema.
// This is based on internal/config/types.go Config and LintConfig.
func configFields() []ConfigField {
	return []ConfigField{
		{Name: "platform", Type: "string", Default: config.DefaultPlatform, Flag: "--platform", Env: true,
			Description: "Target server: mysql or mariadb, optionally with a version (mariadb-10.11)"},
		{Name: "version", Type: "string", Flag: "--server-version", Env: true,
			Description: "Server version, overriding the one in platform"},
		{Name: "sql_mode", Type: "string", Default: "DEFAULT", Flag: "--mode", Env: true,
			Description: "Starting sql_mode, as flag names or the server's integer value"},
		{Name: "delimiter", Type: "string", Default: config.DefaultDelimiter, Flag: "--delimiter", Env: true,
			Description: "Starting statement delimiter"},
		{Name: "charset", Type: "string", Flag: "--charset", Env: true,
			Description: "Starting connection character set (default: the platform's)"},
		{Name: "schema", Type: "string", Flag: "--schema", Env: true,
			Description: "Starting default schema"},
		{Name: "quote_all_names", Type: "bool", Default: "false", Flag: "--quote-all-names", Env: true,
			Description: "Quote every identifier in normalized output"},
		{Name: "escape_whitespace", Type: "bool", Default: "false", Flag: "--escape-whitespace", Env: true,
			Description: "Escape control whitespace in normalized string literals"},
		{Name: "output", Type: "string", Default: config.DefaultOutput, Flag: "--output", Env: true,
			Description: "Output format: auto, text, json or yaml"},
		{Name: "state_path", Type: "string", Default: config.DefaultStateFile, Flag: "--state", Env: true,
			Description: "Run history database"},
		{Name: "schema_dir", Type: "string", Flag: "--schema-dir", Env: true,
			Description: "Directory holding CREATE statements of existing objects"},
		{Name: "concurrency", Type: "int", Default: "0", Flag: "--concurrency", Env: true,
			Description: "Files analyzed at once; 0 means one per CPU"},
		{Name: "verbose", Type: "bool", Default: "false", Flag: "--verbose", Env: true,
			Description: "Debug logging on stderr"},
		{Name: "lint.disabled", Type: "[]string",
			Description: "Rule IDs that never run"},
		{Name: "lint.severity", Type: "map[string]string",
			Description: "Severity override per rule ID: notice, skip_notice, error or critical"},
		{Name: "lint.rules", Type: "map[string]map[string]any",
			Description: "Rule options per rule ID"},
	}
}

// generateConfigDocs generates the configuration reference page.
func generateConfigDocs(outDir string) error {
	log.Printf("Generating config docs to %s", outDir)

	if err := os.MkdirAll(outDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	w := NewMarkdownWriter()
	w.Frontmatter("Configuration", "mysqlint configuration reference")
	w.GeneratedMarker()

	w.Header(1, "Configuration")
	w.Paragraph(fmt.Sprintf("mysqlint is configured via %s, found in the current directory or one of its parents.", InlineCode(config.ConfigFileName)))
	w.Paragraph("Precedence (highest to lowest): flags, environment variables, config file, defaults.")

	headers := []string{"Field", "Type", "Default", "Flag", "Description"}
	var rows [][]string
	for _, f := range configFields() {
		defVal := "-"
		if f.Default != "" {
			defVal = InlineCode(f.Default)
		}
		flag := "-"
		if f.Flag != "" {
			flag = InlineCode(f.Flag)
		}
		rows = append(rows, []string{InlineCode(f.Name), f.Type, defVal, flag, f.Description})
	}
	w.Table(headers, rows)

	w.Header(2, "Example")
	w.CodeBlock("yaml", `platform: mariadb-10.11
sql_mode: "STRICT_TRANS_TABLES,NO_ENGINE_SUBSTITUTION"
schema: app
schema_dir: schema

lint:
  disabled: [NM01]
  severity:
    DM01: critical
  rules:
    QR01:
      allow_qualified: false`)

	if err := os.WriteFile(filepath.Join(outDir, "configuration.md"), w.Bytes(), 0600); err != nil {
		return err
	}
	log.Printf("  Generated configuration.md")
	return nil
}
