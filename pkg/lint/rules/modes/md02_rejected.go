package modes

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/session"
	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

func init() {
	lint.Register(RejectedMode)
}

// RejectedMode flags sql_mode values no server accepts: unknown flag names
// and integers with unassigned bits.
var RejectedMode = lint.RuleDef{
	ID:          "MD02",
	Name:        "modes.rejected",
	Group:       "modes",
	Description: "sql_mode value is rejected by the server.",
	Severity:    core.SeverityCritical,
	Kinds:       []core.Kind{core.KindSet},
	Check:       checkRejectedMode,
	Rationale:   "An invalid sql_mode value fails the SET, so the session keeps running under the previous mode.",
	BadExample:  "SET sql_mode = 'STRICT_TABLES';",
	GoodExample: "SET sql_mode = 'STRICT_TRANS_TABLES';",
}

func checkRejectedMode(stmt core.Stmt, state session.State, _ lint.Flags, _ map[string]any) []lint.Diagnostic {
	p := state.Platform()
	var diags []lint.Diagnostic
	reject := func(value string, e core.Expr) {
		diags = append(diags, lint.Diagnostic{
			Severity: core.SeverityCritical,
			Message:  fmt.Sprintf("variable 'sql_mode' can't be set to the value of '%s'", value),
			Pos:      e.Pos(),
		})
	}

	for _, a := range modeAssignments(stmt) {
		if names, ok := flagList(a.Value); ok {
			for _, name := range names {
				if _, err := p.ParseMode(name); err != nil {
					var unknown *sqlmode.UnknownFlagError
					if errors.As(err, &unknown) {
						reject(unknown.Name, a.Value)
					}
				}
			}
			continue
		}

		switch v := a.Value.(type) {
		case *core.Literal:
			if v.Kind != core.LiteralNumber {
				continue
			}
			n, err := v.Int()
			if err != nil {
				reject(v.Value, v)
				continue
			}
			if _, err := p.ModeFromInt(n); err != nil {
				reject(v.Value, v)
			}
		case *core.UnaryExpr:
			if lit, ok := v.Expr.(*core.Literal); ok && v.Op == token.MINUS && lit.Kind == core.LiteralNumber {
				reject("-"+lit.Value, v)
			}
		default:
			if lit, ok := listFlag(a.Value); ok {
				if _, known := sqlmode.Lookup(lit.Value); !known {
					reject(lit.Value, lit)
				}
			}
		}
	}
	return diags
}
