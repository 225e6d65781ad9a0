package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
)

// ModeFlagReport describes one flag of a mode.
type ModeFlagReport struct {
	Name      string `json:"name" yaml:"name"`
	Group     bool   `json:"group,omitempty" yaml:"group,omitempty"`
	Set       bool   `json:"set" yaml:"set"`
	Supported bool   `json:"supported" yaml:"supported"`
}

// ModeReport is the structured output of the modes command.
type ModeReport struct {
	Platform    string           `json:"platform" yaml:"platform"`
	Mode        string           `json:"sql_mode" yaml:"sql_mode"`
	Value       int64            `json:"value" yaml:"value"`
	Unsupported []string         `json:"unsupported,omitempty" yaml:"unsupported,omitempty"`
	Flags       []ModeFlagReport `json:"flags,omitempty" yaml:"flags,omitempty"`
}

// NewModesCommand creates the modes command.
func NewModesCommand() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "modes [sql_mode]",
		Short: "Decode and explain an sql_mode value",
		Long: `Parse an sql_mode the way the server does and show the flags it sets,
its integer encoding and the canonical string form.

The argument is a comma-separated flag list, DEFAULT, or the integer form
the server reports in binary logs. Without an argument the configured
starting mode is shown.`,
		Example: `  # Expand a group
  mysqlint modes TRADITIONAL

  # Decode the integer form for MariaDB
  mysqlint modes 1436549152 --platform mariadb-10.6

  # List every flag, set or not
  mysqlint modes DEFAULT --all`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			p, err := cmdCtx.Cfg.PlatformInfo()
			if err != nil {
				return err
			}

			input := cmdCtx.Cfg.SQLMode
			if len(args) > 0 {
				input = args[0]
			}
			if strings.TrimSpace(input) == "" {
				input = "DEFAULT"
			}

			report, err := explainMode(p, input, all)
			if err != nil {
				return err
			}
			return renderModeReport(cmdCtx, report)
		},
	}
	cmd.Flags().BoolVarP(&all, "all", "a", false, "List every flag the server knows")
	return cmd
}

// explainMode parses input on p. Numeric input is read as the integer form.
func explainMode(p platform.Platform, input string, all bool) (*ModeReport, error) {
	var (
		m   sqlmode.Mode
		err error
	)
	if n, perr := strconv.ParseInt(strings.TrimSpace(input), 10, 64); perr == nil {
		m, err = p.ModeFromInt(n)
	} else {
		m, err = p.ParseMode(input)
	}
	if err != nil {
		return nil, err
	}

	supported := p.SupportedModes()
	report := &ModeReport{
		Platform: p.String(),
		Mode:     m.String(),
		Value:    p.ModeToInt(m),
	}
	for _, name := range sqlmode.Names() {
		bit, _ := sqlmode.Bit(name)
		set := m.Has(bit)
		ok := supported.Has(bit)
		if set && !ok {
			report.Unsupported = append(report.Unsupported, name)
		}
		if set || all {
			report.Flags = append(report.Flags, ModeFlagReport{
				Name:      name,
				Group:     sqlmode.IsGroup(name),
				Set:       set,
				Supported: ok,
			})
		}
	}
	return report, nil
}

func renderModeReport(cmdCtx *CommandContext, report *ModeReport) error {
	r := cmdCtx.Renderer
	if done, err := r.Encode(report); done || err != nil {
		return err
	}

	styles := r.Styles()
	r.Println(styles.Header2.Render("sql_mode on " + report.Platform))
	mode := report.Mode
	if mode == "" {
		mode = "(empty)"
	}
	r.Printf("  %s: %s\n", styles.Bold.Render("Mode"), mode)
	r.Printf("  %s: %d\n", styles.Bold.Render("Value"), report.Value)
	r.Println("")

	if len(report.Flags) > 0 {
		rows := make([][]any, 0, len(report.Flags))
		for _, f := range report.Flags {
			kind := "flag"
			if f.Group {
				kind = "group"
			}
			rows = append(rows, []any{f.Name, kind, yesNo(f.Set), yesNo(f.Supported)})
		}
		r.Table([]string{"Name", "Kind", "Set", "Supported"}, rows)
	}

	if len(report.Unsupported) > 0 {
		r.Println(styles.Warning.Render(fmt.Sprintf("not supported on %s: %s",
			report.Platform, strings.Join(report.Unsupported, ", "))))
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
