package pipeline

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"sync/atomic"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/parser"
	"github.com/leapstack-labs/mysqlint/pkg/session"
	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
)

// ErrBusy is returned when Analyze is called on a pipeline whose previous
// stream has not finished.
var ErrBusy = errors.New("pipeline: analysis already in progress")

// Result is the outcome of one statement.
type Result struct {
	// Index is the statement's position in the script, from 0.
	Index     int
	Statement core.Stmt
	// Mode is the SQL mode the statement was parsed and analyzed under.
	Mode        sqlmode.Mode
	Diagnostics []lint.Diagnostic
	Failed      bool
}

// Errors returns the parse and session errors attached to the statement.
func (r *Result) Errors() []error {
	return r.Statement.Errors()
}

// SingleStatementError is returned by AnalyzeSingle when the text does not
// hold exactly one statement.
type SingleStatementError struct {
	Count int
}

func (e *SingleStatementError) Error() string {
	return fmt.Sprintf("expected a single statement, got %d", e.Count)
}

// Pipeline owns the session while a script is analyzed. It is not safe for
// concurrent use; run one Pipeline per script.
type Pipeline struct {
	sess     *session.Session
	updater  *session.Updater
	analyzer *lint.Analyzer
	flags    lint.Flags
	format   core.Formatter
	logger   *slog.Logger
	busy     atomic.Bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithFlags sets the flags passed to every rule.
func WithFlags(flags lint.Flags) Option {
	return func(p *Pipeline) {
		p.flags = flags
	}
}

// WithFormatter sets the formatter the session updater renders unresolved
// values and error text with.
func WithFormatter(f core.Formatter) Option {
	return func(p *Pipeline) {
		p.format = f
	}
}

// New creates a pipeline over sess. A nil analyzer parses and tracks the
// session without running rules.
func New(sess *session.Session, analyzer *lint.Analyzer, opts ...Option) *Pipeline {
	p := &Pipeline{
		sess:     sess,
		analyzer: analyzer,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.updater = session.NewUpdater(sess, p.format)
	return p
}

// Session returns the pipeline's session.
func (p *Pipeline) Session() *session.Session {
	return p.sess
}

// Analyze returns a lazy sequence of per-statement results. Each statement
// is parsed only when the previous result has been consumed. Diagnosable
// problems are reported in the results and never end the sequence; the
// only error yielded is a *lint.RuleError, after which the sequence stops.
// Stopping the range loop early cancels the rest of the script.
func (p *Pipeline) Analyze(sql string) iter.Seq2[*Result, error] {
	return func(yield func(*Result, error) bool) {
		if !p.busy.CompareAndSwap(false, true) {
			yield(nil, ErrBusy)
			return
		}
		defer p.busy.Store(false)

		ps := parser.New(sql, p.sess.Platform())
		for i := 0; ; i++ {
			state := p.sess.State()
			stmt, ok := ps.Next(p.sess)
			if !ok {
				return
			}

			res, err := p.process(i, stmt, state)
			if err != nil {
				yield(res, err)
				return
			}
			if !yield(res, nil) {
				return
			}
		}
	}
}

// AnalyzeAll runs Analyze to completion and returns every result. On a rule
// failure it returns the results so far, including the failing statement.
func (p *Pipeline) AnalyzeAll(sql string) ([]*Result, error) {
	var results []*Result
	for res, err := range p.Analyze(sql) {
		if res != nil {
			results = append(results, res)
		}
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// AnalyzeSingle analyzes text that must hold exactly one statement.
func (p *Pipeline) AnalyzeSingle(sql string) (*Result, error) {
	results, err := p.AnalyzeAll(sql)
	if err != nil {
		return nil, err
	}
	if len(results) != 1 {
		return nil, &SingleStatementError{Count: len(results)}
	}
	return results[0], nil
}

func (p *Pipeline) process(index int, stmt core.Stmt, state session.State) (*Result, error) {
	res := &Result{Index: index, Statement: stmt, Mode: state.Mode()}

	if p.analyzer != nil {
		diags, err := p.analyzer.Process(stmt, state, p.flags)
		res.Diagnostics = diags
		if err != nil {
			res.Failed = true
			return res, fmt.Errorf("statement %d: %w", index+1, err)
		}
	}

	res.Failed = failed(stmt, res.Diagnostics)
	if !res.Failed {
		if err := p.updater.Apply(stmt); err != nil {
			stmt.AddError(err)
			res.Failed = true
			var de *session.DetectionError
			if errors.As(err, &de) {
				p.logger.Warn("sql_mode change not applied", "statement", index+1, "error", err)
			}
		}
	}

	if after := p.sess.Mode(); after != state.Mode() {
		p.logger.Info("sql_mode changed", "statement", index+1, "from", state.Mode().String(), "to", after.String())
	}
	p.logger.Debug("statement analyzed",
		"statement", index+1,
		"mode", state.Mode().String(),
		"failed", res.Failed,
		"diagnostics", len(res.Diagnostics))
	return res, nil
}

func failed(stmt core.Stmt, diags []lint.Diagnostic) bool {
	if len(stmt.Errors()) > 0 {
		return true
	}
	for _, d := range diags {
		if d.Severity >= core.SeverityCritical {
			return true
		}
	}
	return false
}
