package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/mysqlint/internal/cli/output"
	"github.com/leapstack-labs/mysqlint/internal/config"
	"github.com/leapstack-labs/mysqlint/internal/state"
	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/format"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	_ "github.com/leapstack-labs/mysqlint/pkg/lint/rules" // register rules
	"github.com/leapstack-labs/mysqlint/pkg/normalize"
	"github.com/leapstack-labs/mysqlint/pkg/pipeline"
)

const stdinName = "<stdin>"

// AnalyzeOptions holds options for the analyze command.
type AnalyzeOptions struct {
	Repair      bool
	SkipNotices bool
	Record      bool
	MinSeverity string   // Lowest severity reported
	Disable     []string // Rule IDs to disable on top of the config
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}
	cmd := &cobra.Command{
		Use:     "analyze [file|dir|-]...",
		Aliases: []string{"lint"},
		Short:   "Parse SQL scripts and report diagnostics",
		Long: `Parse SQL scripts statement by statement, tracking the session
(sql_mode, delimiter, charset, variables) the way a MySQL or MariaDB client
would, and report what the lint rules find.

Directories are searched for *.sql files. With no arguments, or "-", the
script is read from standard input. Files are analyzed concurrently; each
one starts from a fresh session built from the configuration.

The command fails when any statement fails to parse or has a critical
diagnostic.`,
		Example: `  # Analyze a dump
  mysqlint analyze dump.sql

  # Analyze every script under migrations/ for MariaDB 10.6
  mysqlint analyze migrations/ --platform mariadb-10.6

  # Start from a specific sql_mode and hide notices
  mysqlint analyze schema.sql --mode ANSI_QUOTES --severity error

  # Output as JSON and keep the run in the history database
  mysqlint analyze schema.sql -o json --record`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Repair, "repair", false, "Let rules rewrite statements they can repair")
	cmd.Flags().BoolVar(&opts.SkipNotices, "skip-notices", false, "Drop skip_notice diagnostics")
	cmd.Flags().BoolVar(&opts.Record, "record", false, "Record the run in the history database")
	cmd.Flags().StringVar(&opts.MinSeverity, "severity", "notice", "Minimum severity: notice, skip_notice, error, critical")
	cmd.Flags().StringSliceVar(&opts.Disable, "disable", nil, "Rule IDs to disable")

	_ = cmd.RegisterFlagCompletionFunc("severity", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"notice", "skip_notice", "error", "critical"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// DiagnosticReport is a diagnostic as reported to the user.
type DiagnosticReport struct {
	ID         string   `json:"id" yaml:"id"`
	RuleID     string   `json:"rule_id" yaml:"rule_id"`
	Severity   string   `json:"severity" yaml:"severity"`
	Message    string   `json:"message" yaml:"message"`
	Line       int      `json:"line" yaml:"line"`
	Column     int      `json:"column" yaml:"column"`
	AutoRepair string   `json:"auto_repair" yaml:"auto_repair"`
	Repairs    []string `json:"repairs,omitempty" yaml:"repairs,omitempty"`
}

// StatementReport is the outcome of one statement.
type StatementReport struct {
	Index       int                `json:"index" yaml:"index"`
	Line        int                `json:"line" yaml:"line"`
	Column      int                `json:"column" yaml:"column"`
	Mode        string             `json:"sql_mode" yaml:"sql_mode"`
	Failed      bool               `json:"failed" yaml:"failed"`
	Errors      []string           `json:"errors,omitempty" yaml:"errors,omitempty"`
	Diagnostics []DiagnosticReport `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// FileReport is the outcome of one script.
type FileReport struct {
	Path       string            `json:"path" yaml:"path"`
	Statements []StatementReport `json:"statements" yaml:"statements"`
	Failed     int               `json:"failed" yaml:"failed"`
	// Error is set when a rule broke and the rest of the file was skipped.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// AnalyzeSummary totals a run.
type AnalyzeSummary struct {
	Files       int    `json:"files" yaml:"files"`
	Statements  int    `json:"statements" yaml:"statements"`
	Failed      int    `json:"failed" yaml:"failed"`
	Diagnostics int    `json:"diagnostics" yaml:"diagnostics"`
	RunID       string `json:"run_id,omitempty" yaml:"run_id,omitempty"`
}

// AnalyzeOutput is the structured output of the analyze command.
type AnalyzeOutput struct {
	Platform string         `json:"platform" yaml:"platform"`
	Files    []FileReport   `json:"files" yaml:"files"`
	Summary  AnalyzeSummary `json:"summary" yaml:"summary"`
}

// script is one input to analyze.
type script struct {
	name string
	text string
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	cmdCtx := NewCommandContext(cmd)
	cfg := cmdCtx.Cfg

	minSev, ok := core.ParseSeverity(opts.MinSeverity)
	if !ok {
		return fmt.Errorf("unknown severity %q", opts.MinSeverity)
	}
	lintCfg, err := cfg.LintConfig()
	if err != nil {
		return err
	}
	for _, id := range opts.Disable {
		lintCfg.Disable(strings.TrimSpace(id))
	}
	p, err := cfg.PlatformInfo()
	if err != nil {
		return err
	}

	scripts, err := readScripts(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	var flags lint.Flags
	if opts.Repair {
		flags |= lint.FlagRepair
	}
	if opts.SkipNotices {
		flags |= lint.FlagSkipNotices
	}

	a := &analysis{
		cfg:     cfg,
		lintCfg: lintCfg,
		flags:   flags,
		minSev:  minSev,
		logger:  cmdCtx.Logger,
	}
	reports, err := a.run(cmd.Context(), scripts)
	if err != nil {
		return err
	}

	out := AnalyzeOutput{Platform: p.String(), Files: reports}
	out.Summary = summarize(reports)

	if opts.Record {
		runID, err := recordRun(cmd.Context(), cmdCtx, p.String(), reports)
		if err != nil {
			return err
		}
		out.Summary.RunID = runID
	}

	if err := renderAnalysis(cmdCtx.Renderer, &out); err != nil {
		return err
	}

	if out.Summary.Failed > 0 {
		return fmt.Errorf("%d of %d statements failed", out.Summary.Failed, out.Summary.Statements)
	}
	for _, f := range reports {
		if f.Error != "" {
			return fmt.Errorf("%s: %s", f.Path, f.Error)
		}
	}
	return nil
}

// readScripts loads the inputs named by args. Directories contribute their
// *.sql files in lexical order.
func readScripts(stdin io.Reader, args []string) ([]script, error) {
	if len(args) == 0 {
		args = []string{"-"}
	}

	var scripts []script
	for _, arg := range args {
		if arg == "-" {
			b, err := io.ReadAll(stdin)
			if err != nil {
				return nil, fmt.Errorf("failed to read stdin: %w", err)
			}
			scripts = append(scripts, script{name: stdinName, text: string(b)})
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		paths := []string{arg}
		if info.IsDir() {
			if paths, err = sqlFiles(arg); err != nil {
				return nil, err
			}
		}
		for _, path := range paths {
			b, err := os.ReadFile(path)
			if err != nil {
				return nil, err
			}
			scripts = append(scripts, script{name: path, text: string(b)})
		}
	}
	return scripts, nil
}

func sqlFiles(dir string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".sql") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// analysis runs scripts through their own pipelines.
type analysis struct {
	cfg     *config.Config
	lintCfg *lint.Config
	flags   lint.Flags
	minSev  core.Severity
	logger  *slog.Logger
}

// run analyzes scripts concurrently and returns reports in input order.
func (a *analysis) run(ctx context.Context, scripts []script) ([]FileReport, error) {
	reports := make([]FileReport, len(scripts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers())
	for i, s := range scripts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			report, err := a.file(s)
			if err != nil {
				return fmt.Errorf("%s: %w", s.name, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// file analyzes one script from a fresh session.
func (a *analysis) file(s script) (FileReport, error) {
	report := FileReport{Path: s.name, Statements: []StatementReport{}}

	sess, err := a.cfg.NewSession()
	if err != nil {
		return report, err
	}
	logger := a.logger.With("file", s.name)

	analyzer, err := lint.NewAnalyzer(lint.GetAllRules(), lint.WithConfig(a.lintCfg), lint.WithLogger(logger))
	if err != nil && !errors.Is(err, lint.ErrNoRules) {
		return report, err
	}

	opts := a.cfg.NormalizeOptions()
	pl := pipeline.New(sess, analyzer,
		pipeline.WithLogger(logger),
		pipeline.WithFlags(a.flags),
		pipeline.WithFormatter(normalize.New(sess.Platform(), sess, opts)),
	)

	for res, err := range pl.Analyze(s.text) {
		if res != nil {
			f := normalize.New(sess.Platform(), normalize.FixedMode(res.Mode), opts)
			sr := a.statement(res, f)
			if sr.Failed {
				report.Failed++
			}
			report.Statements = append(report.Statements, sr)
		}
		if err != nil {
			logger.Error("analysis stopped", "error", err)
			report.Error = err.Error()
			break
		}
	}
	return report, nil
}

func (a *analysis) statement(res *pipeline.Result, f core.Formatter) StatementReport {
	start := res.Statement.Span().Start
	sr := StatementReport{
		Index:  res.Index,
		Line:   start.Line,
		Column: start.Column,
		Mode:   res.Mode.String(),
		Failed: res.Failed,
	}
	for _, err := range res.Errors() {
		sr.Errors = append(sr.Errors, err.Error())
	}
	for _, d := range res.Diagnostics {
		if d.Severity < a.minSev {
			continue
		}
		dr := DiagnosticReport{
			ID:         d.ID.String(),
			RuleID:     d.RuleID,
			Severity:   d.Severity.String(),
			Message:    d.Message,
			Line:       d.Pos.Line,
			Column:     d.Pos.Column,
			AutoRepair: d.AutoRepair.String(),
		}
		for _, r := range d.Repairs {
			dr.Repairs = append(dr.Repairs, format.Statement(r, f))
		}
		sr.Diagnostics = append(sr.Diagnostics, dr)
	}
	return sr
}

func summarize(reports []FileReport) AnalyzeSummary {
	sum := AnalyzeSummary{Files: len(reports)}
	for _, f := range reports {
		sum.Statements += len(f.Statements)
		sum.Failed += f.Failed
		for _, s := range f.Statements {
			sum.Diagnostics += len(s.Diagnostics)
		}
	}
	return sum
}

func recordRun(ctx context.Context, cmdCtx *CommandContext, platformName string, reports []FileReport) (string, error) {
	store, err := cmdCtx.OpenStore()
	if err != nil {
		return "", err
	}
	defer func() { _ = store.Close() }()

	sum := summarize(reports)
	mode := cmdCtx.Cfg.SQLMode
	if mode == "" {
		mode = "DEFAULT"
	}
	run := &state.Run{
		Platform:   platformName,
		Mode:       mode,
		Files:      sum.Files,
		Statements: sum.Statements,
		Failed:     sum.Failed,
	}

	var findings []state.Finding
	for _, f := range reports {
		for _, s := range f.Statements {
			for _, d := range s.Diagnostics {
				findings = append(findings, state.Finding{
					File:           f.Path,
					StatementIndex: s.Index,
					Line:           d.Line,
					Column:         d.Column,
					RuleID:         d.RuleID,
					Severity:       d.Severity,
					Message:        d.Message,
					AutoRepair:     d.AutoRepair,
				})
			}
		}
	}

	if err := store.RecordRun(ctx, run, findings); err != nil {
		return "", fmt.Errorf("failed to record run: %w", err)
	}
	cmdCtx.Logger.Debug("run recorded", "run", run.ID, "findings", len(findings))
	return run.ID, nil
}

func renderAnalysis(r *output.Renderer, out *AnalyzeOutput) error {
	if done, err := r.Encode(out); done || err != nil {
		return err
	}

	styles := r.Styles()
	for _, f := range out.Files {
		for _, s := range f.Statements {
			for _, e := range s.Errors {
				r.Printf("%s:%d:%d: %s %s\n", f.Path, s.Line, s.Column, styles.Critical.Render("failed"), e)
			}
			for _, d := range s.Diagnostics {
				sev, _ := core.ParseSeverity(d.Severity)
				r.Printf("%s:%d:%d: %s [%s] %s\n", f.Path, d.Line, d.Column, r.Severity(sev), d.RuleID, d.Message)
				for _, repair := range d.Repairs {
					r.Println(styles.Success.Render("    " + repair))
				}
			}
		}
		if f.Error != "" {
			r.Printf("%s: %s\n", f.Path, styles.Error.Render(f.Error))
		}
	}

	sum := out.Summary
	line := fmt.Sprintf("%d file(s), %d statement(s), %d failed, %d diagnostic(s)",
		sum.Files, sum.Statements, sum.Failed, sum.Diagnostics)
	if sum.Failed > 0 {
		line = styles.Error.Render(line)
	} else {
		line = styles.Muted.Render(line)
	}
	r.Println(line)
	if sum.RunID != "" {
		r.Println(styles.Muted.Render("recorded run " + sum.RunID))
	}
	return nil
}
