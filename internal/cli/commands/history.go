package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/mysqlint/internal/state"
)

// HistoryRunOutput is a run with its findings.
type HistoryRunOutput struct {
	Run      *state.Run       `json:"run" yaml:"run"`
	Findings []*state.Finding `json:"findings" yaml:"findings"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show recorded analysis runs",
		Long: `List the runs recorded with 'mysqlint analyze --record', newest first,
or show the findings of one run.`,
		Example: `  # List the last 20 runs
  mysqlint history

  # Show the findings of a run
  mysqlint history 0b9f6e1c-3f4e-4d1a-9c55-7d1b2c1f2a10 -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			store, err := cmdCtx.OpenStore()
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if len(args) > 0 {
				return showRun(cmd, cmdCtx, store, args[0])
			}
			return listRuns(cmd, cmdCtx, store, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of runs to show (0 for all)")
	return cmd
}

func listRuns(cmd *cobra.Command, cmdCtx *CommandContext, store state.Store, limit int) error {
	runs, err := store.ListRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []*state.Run{}
	}

	r := cmdCtx.Renderer
	if done, err := r.Encode(runs); done || err != nil {
		return err
	}
	if len(runs) == 0 {
		r.Println(r.Styles().Muted.Render("No runs recorded. Use 'mysqlint analyze --record'."))
		return nil
	}

	rows := make([][]any, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, []any{
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.Platform,
			run.Files,
			run.Statements,
			run.Failed,
			run.Findings,
		})
	}
	r.Table([]string{"Run", "Started", "Platform", "Files", "Statements", "Failed", "Findings"}, rows)
	return nil
}

func showRun(cmd *cobra.Command, cmdCtx *CommandContext, store state.Store, id string) error {
	run, err := store.GetRun(cmd.Context(), id)
	if errors.Is(err, state.ErrRunNotFound) {
		return fmt.Errorf("run %q not found", id)
	}
	if err != nil {
		return err
	}
	findings, err := store.Findings(cmd.Context(), id)
	if err != nil {
		return err
	}
	if findings == nil {
		findings = []*state.Finding{}
	}

	r := cmdCtx.Renderer
	if done, err := r.Encode(HistoryRunOutput{Run: run, Findings: findings}); done || err != nil {
		return err
	}

	styles := r.Styles()
	r.Println(styles.Header2.Render("Run " + run.ID))
	r.Printf("  %s: %s\n", styles.Bold.Render("Started"), run.StartedAt.Local().Format(time.DateTime))
	r.Printf("  %s: %s\n", styles.Bold.Render("Platform"), run.Platform)
	r.Printf("  %s: %s\n", styles.Bold.Render("sql_mode"), run.Mode)
	r.Printf("  %s: %d files, %d statements, %d failed\n", styles.Bold.Render("Scope"), run.Files, run.Statements, run.Failed)
	r.Println("")

	if len(findings) == 0 {
		r.Println(styles.Success.Render("No findings."))
		return nil
	}
	rows := make([][]any, 0, len(findings))
	for _, f := range findings {
		rows = append(rows, []any{
			fmt.Sprintf("%s:%d:%d", f.File, f.Line, f.Column),
			f.RuleID,
			f.Severity,
			f.Message,
		})
	}
	r.Table([]string{"Location", "Rule", "Severity", "Message"}, rows)
	return nil
}
