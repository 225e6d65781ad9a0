package variables

import (
	"fmt"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/session"
)

func init() {
	lint.Register(UnknownVariable)
}

// UnknownVariable flags system variables the target server does not have.
var UnknownVariable = lint.RuleDef{
	ID:          "SV01",
	Name:        "variables.unknown",
	Group:       "variables",
	Description: "System variable is not known on the target platform.",
	Severity:    core.SeverityCritical,
	Kinds:       []core.Kind{core.KindStatement},
	Check:       checkUnknownVariable,
	Rationale:   "The server rejects the whole statement when it names a system variable it does not have. Some variables exist only on MySQL or only on MariaDB.",
	BadExample:  "SET @@max_statement_time = 10; -- MariaDB only",
	GoodExample: "SET @@max_execution_time = 10000;",
}

func checkUnknownVariable(stmt core.Stmt, state session.State, _ lint.Flags, _ map[string]any) []lint.Diagnostic {
	p := state.Platform()
	var diags []lint.Diagnostic
	for _, ref := range references(stmt, p) {
		if _, ok := p.Variable(ref.v.Name); ok {
			continue
		}
		diags = append(diags, lint.Diagnostic{
			Severity: core.SeverityCritical,
			Message:  fmt.Sprintf("unknown system variable '%s' on %s", ref.v.Name, p),
			Pos:      ref.v.Pos(),
		})
	}
	return diags
}
