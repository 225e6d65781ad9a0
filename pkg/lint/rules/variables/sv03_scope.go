package variables

import (
	"fmt"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/session"
)

func init() {
	lint.Register(VariableScope)
}

// VariableScope flags system variables used in a scope they do not exist in.
var VariableScope = lint.RuleDef{
	ID:          "SV03",
	Name:        "variables.scope",
	Group:       "variables",
	Description: "System variable is used in a scope it does not exist in.",
	Severity:    core.SeverityCritical,
	Kinds:       []core.Kind{core.KindStatement},
	Check:       checkVariableScope,
	Rationale:   "Global-only variables cannot be set per session, and session-only variables have no global value.",
	BadExample:  "SET max_connections = 500;",
	GoodExample: "SET GLOBAL max_connections = 500;",
}

func checkVariableScope(stmt core.Stmt, state session.State, _ lint.Flags, _ map[string]any) []lint.Diagnostic {
	p := state.Platform()
	var diags []lint.Diagnostic
	for _, ref := range references(stmt, p) {
		sv, ok := p.Variable(ref.v.Name)
		if !ok {
			continue
		}

		need, explicit := requiredScope(ref.v.Scope)
		if !explicit && !ref.assigned() {
			// A plain @@name read falls back to the global value.
			continue
		}
		if sv.HasScope(need) {
			continue
		}

		var msg string
		switch {
		case need == platform.Global && ref.assigned():
			msg = fmt.Sprintf("variable '%s' is a SESSION variable and can't be used with SET %s", sv.Name, ref.v.Scope)
		case need == platform.Global:
			msg = fmt.Sprintf("variable '%s' is a SESSION variable", sv.Name)
		case ref.assigned():
			msg = fmt.Sprintf("variable '%s' is a GLOBAL variable and should be set with SET GLOBAL", sv.Name)
		default:
			msg = fmt.Sprintf("variable '%s' is a GLOBAL variable", sv.Name)
		}
		diags = append(diags, lint.Diagnostic{
			Severity: core.SeverityCritical,
			Message:  msg,
			Pos:      ref.v.Pos(),
		})
	}
	return diags
}

// requiredScope maps a written scope to the variable scope it addresses.
// explicit is false when no scope was written.
func requiredScope(s core.VarScope) (need platform.VarScope, explicit bool) {
	switch s {
	case core.ScopeGlobal, core.ScopePersist, core.ScopePersistOnly:
		return platform.Global, true
	case core.ScopeSession, core.ScopeLocal:
		return platform.Session, true
	default:
		return platform.Session, false
	}
}
