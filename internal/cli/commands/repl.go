package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/mysqlint/internal/cli/output"
	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/normalize"
	"github.com/leapstack-labs/mysqlint/pkg/pipeline"
	"github.com/leapstack-labs/mysqlint/pkg/session"
)

const (
	replPrompt     = "mysqlint> "
	replContPrompt = "       -> "
)

// NewREPLCommand creates the repl command.
func NewREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Analyze statements interactively",
		Long: `Start an interactive session. Statements are analyzed as they are
entered, against one session that lives for the whole REPL, so SET
sql_mode, DELIMITER and USE carry over to the statements that follow.

Input is collected until it ends with the current delimiter.`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
}

func runREPL(cmd *cobra.Command, _ []string) error {
	cmdCtx := NewCommandContext(cmd)

	ev, err := newEvaluator(cmdCtx)
	if err != nil {
		return err
	}

	historyFile := filepath.Join(filepath.Dir(cmdCtx.Cfg.StatePath), "repl_history")
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          replPrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newDotCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
		Stdin:           io.NopCloser(cmd.InOrStdin()),
		Stdout:          cmd.OutOrStdout(),
		Stderr:          cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	p := ev.sess.Platform()
	cmdCtx.Renderer.Printf("mysqlint REPL (%s, sql_mode=%s)\n", p, ev.sess.Mode())
	cmdCtx.Renderer.Println("Type .help for commands, .quit to exit")
	cmdCtx.Renderer.Println("")

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			ev.buf.Reset()
			rl.SetPrompt(replPrompt)
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if ev.Line(line) {
			break
		}
		if ev.Pending() {
			rl.SetPrompt(replContPrompt)
		} else {
			rl.SetPrompt(replPrompt)
		}
	}
	return nil
}

func newDotCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".mode"),
		readline.PcItem(".delimiter"),
		readline.PcItem(".reset"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

// evaluator feeds REPL input through one pipeline.
type evaluator struct {
	sess *session.Session
	pl   *pipeline.Pipeline
	opts normalize.Options
	r    *output.Renderer
	buf  strings.Builder
}

func newEvaluator(cmdCtx *CommandContext) (*evaluator, error) {
	cfg := cmdCtx.Cfg
	sess, err := cfg.NewSession()
	if err != nil {
		return nil, err
	}
	lintCfg, err := cfg.LintConfig()
	if err != nil {
		return nil, err
	}
	analyzer, err := lint.NewAnalyzer(lint.GetAllRules(), lint.WithConfig(lintCfg), lint.WithLogger(cmdCtx.Logger))
	if err != nil && !errors.Is(err, lint.ErrNoRules) {
		return nil, err
	}

	opts := cfg.NormalizeOptions()
	return &evaluator{
		sess: sess,
		pl: pipeline.New(sess, analyzer,
			pipeline.WithLogger(cmdCtx.Logger),
			pipeline.WithFormatter(normalize.New(sess.Platform(), sess, opts)),
		),
		opts: opts,
		r:    cmdCtx.Renderer,
	}, nil
}

// Pending reports whether a statement is partly entered.
func (e *evaluator) Pending() bool {
	return strings.TrimSpace(e.buf.String()) != ""
}

// Line handles one line of input and reports whether the REPL should exit.
func (e *evaluator) Line(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !e.Pending() {
		if trimmed == "" {
			return false
		}
		if strings.HasPrefix(trimmed, ".") {
			return e.dot(trimmed)
		}
	}

	e.buf.WriteString(line)
	e.buf.WriteString("\n")

	// DELIMITER is a client command and ends at the newline.
	if !e.complete(trimmed) {
		return false
	}
	text := e.buf.String()
	e.buf.Reset()
	e.eval(text)
	return false
}

func (e *evaluator) complete(trimmed string) bool {
	fields := strings.Fields(e.buf.String())
	if len(fields) > 0 && strings.EqualFold(fields[0], "DELIMITER") {
		return true
	}
	return strings.HasSuffix(trimmed, e.sess.Delimiter())
}

func (e *evaluator) eval(text string) {
	for res, err := range e.pl.Analyze(text) {
		if res != nil {
			e.report(res)
		}
		if err != nil {
			e.r.Errorf("Error: %v\n", err)
			return
		}
	}
}

func (e *evaluator) report(res *pipeline.Result) {
	styles := e.r.Styles()
	f := normalize.New(e.sess.Platform(), normalize.FixedMode(res.Mode), e.opts)

	for _, err := range res.Errors() {
		e.r.Println(styles.Critical.Render("failed") + " " + err.Error())
	}
	for _, d := range res.Diagnostics {
		e.r.Printf("%s [%s] %s\n", e.r.Severity(d.Severity), d.RuleID, d.Message)
		for _, s := range d.Repairs {
			e.r.Println(styles.Success.Render("    " + formatRepair(s, f)))
		}
	}
	if res.Mode != e.sess.Mode() {
		e.r.Println(styles.Info.Render("sql_mode is now " + modeText(e.sess.Mode().String())))
	}
	if !res.Failed && len(res.Diagnostics) == 0 {
		e.r.Println(styles.Success.Render("ok"))
	}
}

func formatRepair(s core.Stmt, f core.Formatter) string {
	if len(s.Errors()) > 0 {
		return s.Source()
	}
	return s.Serialize(f)
}

func (e *evaluator) dot(line string) bool {
	parts := strings.Fields(line)
	switch strings.ToLower(parts[0]) {
	case ".quit", ".exit":
		return true
	case ".help":
		printREPLHelp(e.r.Writer())
	case ".mode":
		e.r.Println(modeText(e.sess.Mode().String()))
	case ".delimiter":
		e.r.Println(e.sess.Delimiter())
	case ".reset":
		e.sess.Reset()
		e.r.Println("session reset")
	default:
		e.r.Errorf("Unknown command: %s (type .help for commands)\n", parts[0])
	}
	return false
}

func modeText(mode string) string {
	if mode == "" {
		return "(empty)"
	}
	return mode
}

func printREPLHelp(w io.Writer) {
	help := `
Commands:
  .help           Show this help message
  .mode           Show the current sql_mode
  .delimiter      Show the current delimiter
  .reset          Start over with a fresh session
  .quit / .exit   Exit the REPL

Tips:
  - Statements end with the current delimiter (";" unless changed)
  - DELIMITER takes effect at the end of its line
  - SET sql_mode changes how the statements after it are read
`
	_, _ = fmt.Fprintln(w, help)
}
