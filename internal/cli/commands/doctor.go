package commands

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/leapstack-labs/mysqlint/internal/cli/output"
	"github.com/leapstack-labs/mysqlint/internal/config"
	"github.com/leapstack-labs/mysqlint/internal/state"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/pipeline"
)

// Check statuses.
const (
	statusPass  = "pass"
	statusWarn  = "warn"
	statusError = "error"
)

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the configuration and its surroundings",
		Long: `Check that the configuration resolves and that what it points at is usable:

- Configuration: config file, platform, starting session
- Lint: registered rules and the rule IDs the config refers to
- State: history database and its migrations
- Schema: every file under schema_dir parses`,
		Example: `  # Run all checks
  mysqlint doctor

  # Output as JSON
  mysqlint doctor -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx := NewCommandContext(cmd)
			out := runChecks(cmdCtx)
			if err := renderDoctor(cmdCtx.Renderer, out); err != nil {
				return err
			}
			if out.Errors > 0 {
				return fmt.Errorf("%d check(s) failed", out.Errors)
			}
			return nil
		},
	}
}

// DoctorOutput is the structured output of the doctor command.
type DoctorOutput struct {
	Checks []HealthCheck `json:"checks" yaml:"checks"`
	Score  int           `json:"score" yaml:"score"`
	Errors int           `json:"errors" yaml:"errors"`
}

// HealthCheck is the result of one check.
type HealthCheck struct {
	Name    string   `json:"name" yaml:"name"`
	Group   string   `json:"group" yaml:"group"`
	Status  string   `json:"status" yaml:"status"`
	Summary string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Details []string `json:"details,omitempty" yaml:"details,omitempty"`
}

func runChecks(cmdCtx *CommandContext) *DoctorOutput {
	cfg := cmdCtx.Cfg
	checks := []HealthCheck{
		checkConfigFile(cfg),
		checkPlatform(cfg),
		checkRules(cfg),
		checkState(cmdCtx),
		checkSchemaDir(cmdCtx),
	}

	sort.SliceStable(checks, func(i, j int) bool {
		return checks[i].Group < checks[j].Group
	})

	out := &DoctorOutput{Checks: checks, Score: healthScore(checks)}
	for _, c := range checks {
		if c.Status == statusError {
			out.Errors++
		}
	}
	return out
}

func checkConfigFile(cfg *config.Config) HealthCheck {
	c := HealthCheck{Name: "config file", Group: "configuration", Status: statusPass}
	if cfg.File == "" {
		c.Status = statusWarn
		c.Summary = "no " + config.ConfigFileName + " found, using defaults"
		return c
	}
	c.Summary = cfg.File
	return c
}

func checkPlatform(cfg *config.Config) HealthCheck {
	c := HealthCheck{Name: "session", Group: "configuration", Status: statusPass}
	sess, err := cfg.NewSession()
	if err != nil {
		c.Status = statusError
		c.Summary = err.Error()
		return c
	}

	p := sess.Platform()
	c.Summary = fmt.Sprintf("%s, sql_mode=%s, charset=%s", p, modeText(sess.Mode().String()), sess.Charset())
	if unsupported := sess.Mode().Without(p.SupportedModes()); unsupported != 0 {
		c.Status = statusWarn
		c.Details = append(c.Details, "sql_mode flags not supported on "+p.String()+": "+strings.Join(unsupported.Flags(), ", "))
	}
	return c
}

func checkRules(cfg *config.Config) HealthCheck {
	c := HealthCheck{Name: "lint rules", Group: "lint", Status: statusPass}
	lintCfg, err := cfg.LintConfig()
	if err != nil {
		c.Status = statusError
		c.Summary = err.Error()
		return c
	}

	rules := lint.GetAllRules()
	enabled := lintCfg.Enabled(rules)
	c.Summary = fmt.Sprintf("%d of %d rules enabled", len(enabled), len(rules))

	refs := append([]string(nil), cfg.Lint.Disabled...)
	for id := range cfg.Lint.Severity {
		refs = append(refs, id)
	}
	for id := range cfg.Lint.Rules {
		refs = append(refs, id)
	}
	sort.Strings(refs)
	for _, id := range refs {
		if _, ok := lint.GetRuleByID(id); !ok {
			c.Status = statusWarn
			c.Details = append(c.Details, "unknown rule "+id)
		}
	}
	return c
}

func checkState(cmdCtx *CommandContext) HealthCheck {
	c := HealthCheck{Name: "history database", Group: "state", Status: statusPass}
	path := cmdCtx.Cfg.StatePath
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		c.Summary = path + " (not created yet)"
		return c
	}

	store := state.NewSQLiteStore(cmdCtx.Logger)
	if err := store.Open(path); err != nil {
		c.Status = statusError
		c.Summary = err.Error()
		return c
	}
	defer func() { _ = store.Close() }()

	version, err := store.MigrationVersion()
	if err != nil {
		c.Status = statusError
		c.Summary = err.Error()
		return c
	}
	c.Summary = fmt.Sprintf("%s (schema version %d)", path, version)
	return c
}

func checkSchemaDir(cmdCtx *CommandContext) HealthCheck {
	cfg := cmdCtx.Cfg
	c := HealthCheck{Name: "schema directory", Group: "schema", Status: statusPass}
	if cfg.SchemaDir == "" {
		c.Summary = "not configured"
		return c
	}
	files, err := sqlFiles(cfg.SchemaDir)
	if err != nil {
		c.Status = statusError
		c.Summary = err.Error()
		return c
	}

	failed := 0
	for _, path := range files {
		if err := parseFile(cfg, path); err != nil {
			failed++
			c.Details = append(c.Details, err.Error())
		}
	}
	c.Summary = fmt.Sprintf("%s: %d file(s), %d failed to parse", cfg.SchemaDir, len(files), failed)
	if failed > 0 {
		c.Status = statusError
	}
	return c
}

// parseFile parses a script without running rules and returns the first
// statement error.
func parseFile(cfg *config.Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sess, err := cfg.NewSession()
	if err != nil {
		return err
	}
	results, err := pipeline.New(sess, nil).AnalyzeAll(string(b))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, res := range results {
		if errs := res.Errors(); len(errs) > 0 {
			return fmt.Errorf("%s: statement %d: %w", path, res.Index+1, errs[0])
		}
	}
	return nil
}

// healthScore computes a score from 0-100. Errors count double.
func healthScore(checks []HealthCheck) int {
	score := 100
	for _, c := range checks {
		switch c.Status {
		case statusError:
			score -= 20
		case statusWarn:
			score -= 10
		}
	}
	return max(score, 0)
}

func renderDoctor(r *output.Renderer, out *DoctorOutput) error {
	if done, err := r.Encode(out); done || err != nil {
		return err
	}

	styles := r.Styles()
	r.Println("")
	r.Println(styles.Header1.Render("mysqlint Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.Checks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}

		icon := styles.Success.Render("✓")
		switch check.Status {
		case statusWarn:
			icon = styles.Warning.Render("!")
		case statusError:
			icon = styles.Error.Render("✗")
		}

		line := fmt.Sprintf("%s %s", icon, check.Name)
		if check.Summary != "" {
			line += ": " + check.Summary
		}
		r.Println("   " + line)

		for i, detail := range check.Details {
			if i >= 3 {
				r.Println(styles.Muted.Render(fmt.Sprintf("       ... and %d more", len(check.Details)-3)))
				break
			}
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")
	return nil
}
