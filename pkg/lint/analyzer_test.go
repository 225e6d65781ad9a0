package lint_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/internal/testutil"
	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/parser"
	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/session"
)

func parseOne(t *testing.T, sql string) core.Stmt {
	t.Helper()
	stmts := parser.ParseAll(sql, platform.Default(), parser.StaticSettings{})
	require.Len(t, stmts, 1)
	return stmts[0]
}

func state(t *testing.T) session.State {
	t.Helper()
	s, err := session.New(platform.Default())
	require.NoError(t, err)
	return s.State()
}

// messages returns a rule that reports each message once per call.
func messages(id string, kinds []core.Kind, msgs ...string) lint.Rule {
	return lint.WrapRuleDef(lint.RuleDef{
		ID:       id,
		Name:     "test." + id,
		Group:    "test",
		Severity: core.SeverityError,
		Kinds:    kinds,
		Check: func(core.Stmt, session.State, lint.Flags, map[string]any) []lint.Diagnostic {
			diags := make([]lint.Diagnostic, len(msgs))
			for i, m := range msgs {
				diags[i] = lint.Diagnostic{Severity: core.SeverityError, Message: m}
			}
			return diags
		},
	})
}

func ruleIDs(diags []lint.Diagnostic) []string {
	ids := make([]string, len(diags))
	for i, d := range diags {
		ids[i] = d.RuleID
	}
	return ids
}

func TestNewAnalyzer_RejectsEmptyRuleList(t *testing.T) {
	a, err := lint.NewAnalyzer(nil)
	assert.Nil(t, a)
	assert.ErrorIs(t, err, lint.ErrNoRules)
}

func TestAnalyzer_DispatchByKind(t *testing.T) {
	rules := []lint.Rule{
		messages("Q1", []core.Kind{core.KindQuery}, "query"),
		messages("S1", []core.Kind{core.KindSet}, "set"),
		messages("A1", []core.Kind{core.KindStatement}, "any"),
		messages("D1", []core.Kind{core.KindDML, core.KindTable}, "dml"),
	}
	a, err := lint.NewAnalyzer(rules)
	require.NoError(t, err)

	tests := []struct {
		sql  string
		want []string
	}{
		{"SELECT 1", []string{"A1", "Q1"}},
		{"SET @a = 1", []string{"A1", "S1"}},
		{"DELETE FROM t WHERE a = 1", []string{"A1", "D1"}},
		{"COMMIT", []string{"A1"}},
	}

	for _, tt := range tests {
		t.Run(tt.sql, func(t *testing.T) {
			diags, err := a.Process(parseOne(t, tt.sql), state(t), 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ruleIDs(diags))
		})
	}
}

func TestAnalyzer_StampsDiagnostics(t *testing.T) {
	a, err := lint.NewAnalyzer([]lint.Rule{messages("Q1", []core.Kind{core.KindQuery}, "one", "two")})
	require.NoError(t, err)

	stmt := parseOne(t, "SELECT 1")
	diags, err := a.Process(stmt, state(t), 0)
	require.NoError(t, err)
	require.Len(t, diags, 2)

	for _, d := range diags {
		assert.Equal(t, "Q1", d.RuleID)
		assert.Same(t, stmt, d.Statement)
		assert.Equal(t, stmt.Pos(), d.Pos)
		assert.NotEqual(t, uuid.Nil, d.ID)
	}
	assert.NotEqual(t, diags[0].ID, diags[1].ID)
}

func TestAnalyzer_Deduplicates(t *testing.T) {
	rule := messages("Q1", []core.Kind{core.KindQuery}, "same", "same", "other")
	a, err := lint.NewAnalyzer([]lint.Rule{rule, rule})
	require.NoError(t, err)

	diags, err := a.Process(parseOne(t, "SELECT 1"), state(t), 0)
	require.NoError(t, err)
	require.Len(t, diags, 2)
	assert.Equal(t, "same", diags[0].Message)
	assert.Equal(t, "other", diags[1].Message)
}

func TestAnalyzer_SameMessageFromDifferentRules(t *testing.T) {
	a, err := lint.NewAnalyzer([]lint.Rule{
		messages("Q1", []core.Kind{core.KindQuery}, "same"),
		messages("Q2", []core.Kind{core.KindQuery}, "same"),
	})
	require.NoError(t, err)

	diags, err := a.Process(parseOne(t, "SELECT 1"), state(t), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1", "Q2"}, ruleIDs(diags))
}

func TestAnalyzer_RunsRuleOncePerStatement(t *testing.T) {
	calls := 0
	rule := lint.WrapRuleDef(lint.RuleDef{
		ID:    "T1",
		Kinds: []core.Kind{core.KindStatement, core.KindDML, core.KindTable},
		Check: func(core.Stmt, session.State, lint.Flags, map[string]any) []lint.Diagnostic {
			calls++
			return nil
		},
	})
	a, err := lint.NewAnalyzer([]lint.Rule{rule})
	require.NoError(t, err)

	_, err = a.Process(parseOne(t, "UPDATE t SET a = 1"), state(t), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestAnalyzer_Config(t *testing.T) {
	rules := []lint.Rule{
		messages("Q1", []core.Kind{core.KindQuery}, "q1"),
		messages("Q2", []core.Kind{core.KindQuery}, "q2"),
	}
	cfg := lint.NewConfig().
		Disable("Q1").
		SetSeverity("Q2", core.SeverityCritical)

	a, err := lint.NewAnalyzer(rules, lint.WithConfig(cfg))
	require.NoError(t, err)
	assert.Len(t, a.Rules(), 1)

	diags, err := a.Process(parseOne(t, "SELECT 1"), state(t), 0)
	require.NoError(t, err)
	require.Len(t, diags, 1)
	assert.Equal(t, "Q2", diags[0].RuleID)
	assert.Equal(t, core.SeverityCritical, diags[0].Severity)
}

func TestAnalyzer_PassesRuleOptions(t *testing.T) {
	var got map[string]any
	rule := lint.WrapRuleDef(lint.RuleDef{
		ID:    "O1",
		Kinds: []core.Kind{core.KindStatement},
		Check: func(_ core.Stmt, _ session.State, _ lint.Flags, opts map[string]any) []lint.Diagnostic {
			got = opts
			return nil
		},
	})
	cfg := lint.NewConfig().SetRuleOptions("O1", map[string]any{"max": 3})

	a, err := lint.NewAnalyzer([]lint.Rule{rule}, lint.WithConfig(cfg))
	require.NoError(t, err)
	_, err = a.Process(parseOne(t, "SELECT 1"), state(t), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, lint.OptInt(got, "max", 0))
}

func TestAnalyzer_SkipNotices(t *testing.T) {
	rule := lint.WrapRuleDef(lint.RuleDef{
		ID:    "N1",
		Kinds: []core.Kind{core.KindStatement},
		Check: func(core.Stmt, session.State, lint.Flags, map[string]any) []lint.Diagnostic {
			return []lint.Diagnostic{
				{Severity: core.SeveritySkipNotice, Message: "hidden"},
				{Severity: core.SeverityNotice, Message: "shown"},
			}
		},
	})
	a, err := lint.NewAnalyzer([]lint.Rule{rule})
	require.NoError(t, err)

	stmt := parseOne(t, "SELECT 1")
	all, err := a.Process(stmt, state(t), 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	some, err := a.Process(stmt, state(t), lint.FlagSkipNotices)
	require.NoError(t, err)
	require.Len(t, some, 1)
	assert.Equal(t, "shown", some[0].Message)
}

func TestAnalyzer_RulePanicBecomesRuleError(t *testing.T) {
	boom := errors.New("boom")
	rules := []lint.Rule{
		messages("A1", []core.Kind{core.KindStatement}, "before"),
		lint.WrapRuleDef(lint.RuleDef{
			ID:    "P1",
			Kinds: []core.Kind{core.KindQuery},
			Check: func(core.Stmt, session.State, lint.Flags, map[string]any) []lint.Diagnostic {
				panic(boom)
			},
		}),
		messages("Q1", []core.Kind{core.KindQuery}, "after"),
	}
	a, err := lint.NewAnalyzer(rules, lint.WithLogger(testutil.NewTestLogger(t)))
	require.NoError(t, err)

	stmt := parseOne(t, "SELECT 1")
	diags, err := a.Process(stmt, state(t), 0)

	var ruleErr *lint.RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "P1", ruleErr.RuleID)
	assert.Same(t, stmt, ruleErr.Statement)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"A1"}, ruleIDs(diags))
}

func TestFlags(t *testing.T) {
	f := lint.FlagRepair | lint.FlagSkipNotices
	assert.True(t, f.Has(lint.FlagRepair))
	assert.True(t, f.Has(lint.FlagRepair|lint.FlagSkipNotices))
	assert.False(t, lint.FlagRepair.Has(lint.FlagSkipNotices))
}
