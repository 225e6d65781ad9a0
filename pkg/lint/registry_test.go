package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/session"
)

// withCleanRegistry runs fn against an empty registry and restores the
// previous contents afterwards.
func withCleanRegistry(t *testing.T, fn func()) {
	t.Helper()
	saved := GetAllRules()
	Clear()
	t.Cleanup(func() {
		Clear()
		for _, r := range saved {
			RegisterRule(r)
		}
	})
	fn()
}

func TestRegistry(t *testing.T) {
	withCleanRegistry(t, func() {
		Register(RuleDef{ID: "B02", Group: "beta", Kinds: []core.Kind{core.KindQuery}})
		Register(RuleDef{ID: "A01", Group: "alpha", Kinds: []core.Kind{core.KindSet, core.KindSession}})
		Register(RuleDef{ID: "B01", Group: "beta"})

		assert.Equal(t, 3, Count())

		all := GetAllRules()
		require.Len(t, all, 3)
		assert.Equal(t, "A01", all[0].ID())
		assert.Equal(t, "B01", all[1].ID())
		assert.Equal(t, "B02", all[2].ID())

		beta := GetRulesByGroup("beta")
		require.Len(t, beta, 2)
		assert.Equal(t, "B01", beta[0].ID())

		r, ok := GetRuleByID("A01")
		require.True(t, ok)
		assert.Equal(t, "alpha", r.Group())

		_, ok = GetRuleByID("ZZ99")
		assert.False(t, ok)

		infos := AllRules()
		require.Len(t, infos, 3)
		assert.Equal(t, []string{"set", "session"}, infos[0].Kinds)
	})
}

func TestRegisterReplacesSameID(t *testing.T) {
	withCleanRegistry(t, func() {
		Register(RuleDef{ID: "X01", Description: "first"})
		Register(RuleDef{ID: "X01", Description: "second"})

		assert.Equal(t, 1, Count())
		r, ok := GetRuleByID("X01")
		require.True(t, ok)
		assert.Equal(t, "second", r.Description())
	})
}

func TestWrapRuleDef(t *testing.T) {
	def := RuleDef{
		ID:          "T01",
		Name:        "test.rule",
		Group:       "test",
		Description: "A test rule",
		Severity:    core.SeverityError,
		Kinds:       []core.Kind{core.KindQuery},
		ConfigKeys:  []string{"max"},
		Rationale:   "because",
		BadExample:  "SELECT *",
		GoodExample: "SELECT a",
		Fix:         "list columns",
	}
	r := WrapRuleDef(def)

	info := GetRuleInfo(r)
	assert.Equal(t, "T01", info.ID)
	assert.Equal(t, "test.rule", info.Name)
	assert.Equal(t, core.SeverityError, info.DefaultSeverity)
	assert.Equal(t, []string{"query"}, info.Kinds)
	assert.Equal(t, []string{"max"}, info.ConfigKeys)
	assert.Equal(t, "list columns", info.Fix)

	unwrapped := r.(*wrappedRuleDef).Unwrap()
	assert.Equal(t, "T01", unwrapped.ID)

	assert.Nil(t, r.Check(nil, session.State{}, 0, nil), "nil Check is a no-op")
}

func TestConfigNilSafe(t *testing.T) {
	var c *Config
	assert.False(t, c.IsDisabled("X"))
	assert.Equal(t, core.SeverityError, c.GetSeverity("X", core.SeverityError))
	assert.Nil(t, c.GetRuleOptions("X"))
}

func TestOptions(t *testing.T) {
	opts := map[string]any{
		"int":     7,
		"float":   float64(3),
		"uint":    uint64(4),
		"str":     "x",
		"bool":    true,
		"list":    []any{"a", 1, "b"},
		"strings": []string{"c"},
		"single":  "d",
	}

	assert.Equal(t, 7, OptInt(opts, "int", 0))
	assert.Equal(t, 3, OptInt(opts, "float", 0))
	assert.Equal(t, 4, OptInt(opts, "uint", 0))
	assert.Equal(t, 9, OptInt(opts, "missing", 9))
	assert.Equal(t, 9, OptInt(nil, "int", 9))
	assert.Equal(t, "x", OptString(opts, "str", ""))
	assert.Equal(t, "dflt", OptString(opts, "int", "dflt"))
	assert.True(t, OptBool(opts, "bool", false))
	assert.Equal(t, []string{"a", "b"}, OptStrings(opts, "list", nil))
	assert.Equal(t, []string{"c"}, OptStrings(opts, "strings", nil))
	assert.Equal(t, []string{"d"}, OptStrings(opts, "single", nil))
	assert.Nil(t, OptStrings(opts, "missing", nil))
}

func TestAutoRepairString(t *testing.T) {
	assert.Equal(t, "not_possible", RepairNotPossible.String())
	assert.Equal(t, "possible", RepairPossible.String())
	assert.Equal(t, "repaired", Repaired.String())
}
