// Package linttest runs registered rules over small scripts in tests.
package linttest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/parser"
	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/session"
)

// Options tune a run. The zero value targets the default platform.
type Options struct {
	Platform platform.Platform
	Session  []session.Option
	Flags    lint.Flags
	Config   *lint.Config
}

// Run parses script and returns the diagnostics ruleID reports on its last
// statement. Earlier statements only update the session.
func Run(t testing.TB, script, ruleID string) []lint.Diagnostic {
	t.Helper()
	return RunWith(t, Options{}, script, ruleID)
}

// RunWith is Run with options.
func RunWith(t testing.TB, opts Options, script, ruleID string) []lint.Diagnostic {
	t.Helper()

	rule, ok := lint.GetRuleByID(ruleID)
	require.True(t, ok, "rule %s is not registered", ruleID)

	stmt, state := Last(t, opts, script)
	analyzer, err := lint.NewAnalyzer([]lint.Rule{rule}, lint.WithConfig(opts.Config))
	require.NoError(t, err)

	diags, err := analyzer.Process(stmt, state, opts.Flags)
	require.NoError(t, err)
	return diags
}

// Last parses script, applying every statement but the last to a fresh
// session, and returns the last statement with the state it is analyzed in.
func Last(t testing.TB, opts Options, script string) (core.Stmt, session.State) {
	t.Helper()

	p := opts.Platform
	if p == (platform.Platform{}) {
		p = platform.Default()
	}
	sess, err := session.New(p, opts.Session...)
	require.NoError(t, err)
	updater := session.NewUpdater(sess, nil)

	ps := parser.New(script, p)
	var (
		last      core.Stmt
		lastState session.State
		lastErr   error
	)
	for {
		state := sess.State()
		stmt, ok := ps.Next(sess)
		if !ok {
			break
		}
		if last != nil {
			require.Empty(t, last.Errors(), "setup statement %q", last.Source())
			require.NoError(t, lastErr, "setup statement %q", last.Source())
		}
		last, lastState, lastErr = stmt, state, nil
		if len(stmt.Errors()) == 0 {
			lastErr = updater.Apply(stmt)
		}
	}
	require.NotNil(t, last, "script has no statements")
	return last, lastState
}
