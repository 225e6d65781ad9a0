package variables

import (
	"fmt"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/session"
)

func init() {
	lint.Register(ReadOnlyVariable)
}

// ReadOnlyVariable flags assignments to read-only system variables.
var ReadOnlyVariable = lint.RuleDef{
	ID:          "SV02",
	Name:        "variables.read_only",
	Group:       "variables",
	Description: "Read-only system variable is assigned.",
	Severity:    core.SeverityCritical,
	Kinds:       []core.Kind{core.KindSet},
	Check:       checkReadOnlyVariable,
	Rationale:   "Read-only variables are fixed at startup or maintained by the server. SET PERSIST_ONLY is the only way to change them, and it takes effect on restart.",
	BadExample:  "SET GLOBAL port = 3307;",
	GoodExample: "SET PERSIST_ONLY port = 3307;",
}

func checkReadOnlyVariable(stmt core.Stmt, state session.State, _ lint.Flags, _ map[string]any) []lint.Diagnostic {
	p := state.Platform()
	var diags []lint.Diagnostic
	for _, ref := range references(stmt, p) {
		if !ref.assigned() || ref.v.Scope == core.ScopePersistOnly {
			continue
		}
		sv, ok := p.Variable(ref.v.Name)
		if !ok || !sv.ReadOnly {
			continue
		}
		diags = append(diags, lint.Diagnostic{
			Severity: core.SeverityCritical,
			Message:  fmt.Sprintf("variable '%s' is a read only variable", sv.Name),
			Pos:      ref.v.Pos(),
		})
	}
	return diags
}
