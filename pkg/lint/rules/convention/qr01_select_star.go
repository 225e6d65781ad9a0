package convention

import (
	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/mysqlint/pkg/session"
)

func init() {
	lint.Register(SelectStar)
}

// SelectStar flags an unqualified * in a select list. Qualified t.* is
// allowed unless the allow_qualified option is false.
var SelectStar = lint.RuleDef{
	ID:          "QR01",
	Name:        "convention.select_star",
	Group:       "convention",
	Description: "SELECT * returns whatever columns the table has today.",
	Severity:    core.SeverityNotice,
	Kinds:       []core.Kind{core.KindQuery},
	Check:       checkSelectStar,
	ConfigKeys:  []string{"allow_qualified"},
	Rationale:   "The result shape changes silently when columns are added, dropped or reordered.",
	BadExample:  "SELECT * FROM users;",
	GoodExample: "SELECT id, email FROM users;",
}

func checkSelectStar(stmt core.Stmt, _ session.State, _ lint.Flags, opts map[string]any) []lint.Diagnostic {
	sel, ok := stmt.(*core.SelectStmt)
	if !ok {
		return nil
	}
	allowQualified := lint.OptBool(opts, "allow_qualified", true)

	var diags []lint.Diagnostic
	for _, part := range ast.SelectCores(sel) {
		for _, col := range part.Columns {
			star, ok := col.Expr.(*core.StarExpr)
			if !ok || (allowQualified && len(star.Qualifier) > 0) {
				continue
			}
			diags = append(diags, lint.Diagnostic{
				Severity: core.SeverityNotice,
				Message:  "avoid SELECT *, list the columns explicitly",
				Pos:      star.Pos(),
			})
		}
	}
	return diags
}
