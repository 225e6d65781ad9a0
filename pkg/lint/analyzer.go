package lint

import (
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/session"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// ErrNoRules is returned by NewAnalyzer for an empty rule list.
var ErrNoRules = errors.New("lint: analyzer needs at least one rule")

// Analyzer runs lint rules against parsed statements. The dispatch table is
// built once and never changes; an Analyzer may be shared by pipelines that
// run one after another but holds no per-statement state.
type Analyzer struct {
	rules  []Rule
	byKind map[core.Kind][]Rule
	config *Config
	logger *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithConfig sets the rule configuration.
func WithConfig(cfg *Config) Option {
	return func(a *Analyzer) {
		if cfg != nil {
			a.config = cfg
		}
	}
}

// WithLogger sets the logger used to report failing rules.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer creates an analyzer for rules. Rules disabled by the
// configuration are dropped; the rest keep their order.
func NewAnalyzer(rules []Rule, opts ...Option) (*Analyzer, error) {
	if len(rules) == 0 {
		return nil, ErrNoRules
	}

	a := &Analyzer{
		config: NewConfig(),
		logger: slog.New(slog.DiscardHandler),
		byKind: make(map[core.Kind][]Rule),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.rules = a.config.Enabled(rules)
	for _, r := range a.rules {
		for _, k := range r.Kinds() {
			a.byKind[k] = append(a.byKind[k], r)
		}
	}
	return a, nil
}

// Rules returns the enabled rules in dispatch order.
func (a *Analyzer) Rules() []Rule {
	return append([]Rule(nil), a.rules...)
}

// Process runs every rule interested in any kind of stmt, each once, and
// returns their diagnostics in dispatch order. Diagnostics repeating a
// message already reported by the same rule are dropped.
//
// A rule that panics stops processing: the diagnostics collected so far are
// returned with a *RuleError.
func (a *Analyzer) Process(stmt core.Stmt, state session.State, flags Flags) ([]Diagnostic, error) {
	type key struct {
		rule    string
		message string
	}

	var out []Diagnostic
	ran := make(map[string]bool)
	seen := make(map[key]bool)

	for _, kind := range stmt.Kinds() {
		for _, r := range a.byKind[kind] {
			if ran[r.ID()] {
				continue
			}
			ran[r.ID()] = true

			diags, err := a.run(r, stmt, state, flags)
			if err != nil {
				return out, err
			}

			for _, d := range diags {
				d.RuleID = r.ID()
				d.Statement = stmt
				d.Severity = a.config.GetSeverity(r.ID(), d.Severity)
				if flags.Has(FlagSkipNotices) && d.Severity == core.SeveritySkipNotice {
					continue
				}
				k := key{rule: r.ID(), message: d.Message}
				if seen[k] {
					continue
				}
				seen[k] = true
				if d.Pos == (token.Position{}) {
					d.Pos = stmt.Pos()
				}
				d.ID = uuid.New()
				out = append(out, d)
			}
		}
	}
	return out, nil
}

func (a *Analyzer) run(r Rule, stmt core.Stmt, state session.State, flags Flags) (diags []Diagnostic, err error) {
	defer func() {
		if p := recover(); p != nil {
			a.logger.Error("lint rule panicked",
				slog.String("rule", r.ID()),
				slog.String("statement", stmt.Source()),
				slog.Any("panic", p))
			diags = nil
			err = &RuleError{RuleID: r.ID(), Statement: stmt, Panic: p}
		}
	}()
	return r.Check(stmt, state, flags, a.config.GetRuleOptions(r.ID())), nil
}
