package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/mysqlint/internal/config"
	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/format"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/normalize"
	"github.com/leapstack-labs/mysqlint/pkg/pipeline"
	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
)

// FmtOptions holds options for the fmt command.
type FmtOptions struct {
	Pretty bool
	Write  bool
	Repair bool
}

// NewFmtCommand creates the fmt command.
func NewFmtCommand() *cobra.Command {
	opts := &FmtOptions{}
	cmd := &cobra.Command{
		Use:   "fmt [file|-]...",
		Short: "Rewrite SQL scripts in normalized form",
		Long: `Parse SQL scripts and print them back with names quoted and strings
escaped for the sql_mode in effect at each statement.

Statements that fail to parse are kept as written. DELIMITER commands are
kept, and added around statements whose text contains the delimiter.`,
		Example: `  # Print a normalized script
  mysqlint fmt dump.sql

  # One clause per line, rewriting the file in place
  mysqlint fmt --pretty --write schema.sql

  # Apply the repairs lint rules offer
  mysqlint fmt --repair dump.sql`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Pretty, "pretty", false, "Lay out queries one clause per line")
	cmd.Flags().BoolVarP(&opts.Write, "write", "w", false, "Write the result back to the file")
	cmd.Flags().BoolVar(&opts.Repair, "repair", false, "Replace statements with the repairs lint rules offer")

	return cmd
}

func runFmt(cmd *cobra.Command, args []string, opts *FmtOptions) error {
	cmdCtx := NewCommandContext(cmd)

	scripts, err := readScripts(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	for _, s := range scripts {
		text, err := formatScript(cmdCtx.Cfg, s.text, opts)
		if err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}

		if opts.Write && s.name != stdinName {
			if err := os.WriteFile(s.name, []byte(text), 0644); err != nil {
				return err
			}
			cmdCtx.Logger.Debug("formatted", "file", s.name)
			continue
		}
		cmdCtx.Renderer.Printf("%s", text)
	}
	return nil
}

// formatScript parses text in a fresh session and renders it back. Runs of
// statements parsed under the same sql_mode are rendered together.
func formatScript(cfg *config.Config, text string, opts *FmtOptions) (string, error) {
	sess, err := cfg.NewSession()
	if err != nil {
		return "", err
	}
	p := sess.Platform()
	nopts := cfg.NormalizeOptions()

	var analyzer *lint.Analyzer
	var flags lint.Flags
	if opts.Repair {
		lintCfg, err := cfg.LintConfig()
		if err != nil {
			return "", err
		}
		if analyzer, err = lint.NewAnalyzer(lint.GetAllRules(), lint.WithConfig(lintCfg)); err != nil {
			return "", err
		}
		flags = lint.FlagRepair | lint.FlagSkipNotices
	}

	r := &scriptRenderer{platform: p, opts: nopts, pretty: opts.Pretty, delim: sess.Delimiter()}
	pl := pipeline.New(sess, analyzer,
		pipeline.WithFlags(flags),
		pipeline.WithFormatter(normalize.New(p, sess, nopts)),
	)
	results, err := pl.AnalyzeAll(text)
	if err != nil {
		return "", err
	}

	for _, res := range results {
		stmts := []core.Stmt{res.Statement}
		if opts.Repair {
			stmts = repaired(res)
		}
		r.add(res, stmts)
	}
	r.flush()
	return r.b.String(), nil
}

// repaired returns the statements that replace res.Statement.
func repaired(res *pipeline.Result) []core.Stmt {
	for _, d := range res.Diagnostics {
		if d.AutoRepair == lint.Repaired && len(d.Repairs) > 0 {
			return d.Repairs
		}
	}
	return []core.Stmt{res.Statement}
}

// scriptRenderer groups statements by sql_mode for format.Script.
type scriptRenderer struct {
	platform platform.Platform
	opts     normalize.Options
	pretty   bool

	b       strings.Builder
	chunk   []core.Stmt
	started bool
	mode    sqlmode.Mode
	// delim is the delimiter in effect at the start of the chunk.
	delim string
	// next is the delimiter in effect after the chunk.
	next string
}

func (r *scriptRenderer) add(res *pipeline.Result, stmts []core.Stmt) {
	if r.started && r.mode != res.Mode {
		r.flush()
	}
	if !r.started {
		r.started = true
		r.mode = res.Mode
		r.next = r.delim
	}
	r.chunk = append(r.chunk, stmts...)
	if d, ok := res.Statement.(*core.DelimiterStmt); ok && len(d.Errors()) == 0 {
		r.next = d.Delimiter
	}
}

func (r *scriptRenderer) flush() {
	if !r.started {
		return
	}
	f := normalize.New(r.platform, normalize.FixedMode(r.mode), r.opts)
	r.b.WriteString(format.Script(r.chunk, f, format.Options{Delimiter: r.delim, Pretty: r.pretty}))
	r.delim = r.next
	r.chunk = nil
	r.started = false
}
