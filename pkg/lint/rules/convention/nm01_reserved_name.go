package convention

import (
	"fmt"
	"slices"
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/mysqlint/pkg/session"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

func init() {
	lint.Register(ReservedName)
}

// ReservedName flags tables, columns and aliases named after reserved words.
var ReservedName = lint.RuleDef{
	ID:          "NM01",
	Name:        "convention.reserved_name",
	Group:       "convention",
	Description: "Reserved word used as an identifier.",
	Severity:    core.SeverityNotice,
	Kinds:       []core.Kind{core.KindStatement},
	Check:       checkReservedName,
	ConfigKeys:  []string{"allow"},
	Rationale:   "Reserved words only work as names when every query quotes them, and each server version reserves more words.",
	BadExample:  "CREATE TABLE `order` (`key` INT);",
	GoodExample: "CREATE TABLE orders (order_key INT);",
}

func checkReservedName(stmt core.Stmt, state session.State, _ lint.Flags, opts map[string]any) []lint.Diagnostic {
	p := state.Platform()
	allow := lint.OptStrings(opts, "allow", nil)

	var diags []lint.Diagnostic
	seen := make(map[string]bool)
	check := func(name string, pos token.Position) {
		key := strings.ToLower(name)
		if name == "" || seen[key] || !p.IsReserved(name) {
			return
		}
		if slices.ContainsFunc(allow, func(a string) bool { return strings.EqualFold(a, name) }) {
			return
		}
		seen[key] = true
		diags = append(diags, lint.Diagnostic{
			Severity: core.SeverityNotice,
			Message:  fmt.Sprintf("'%s' is a reserved word on %s and must always be quoted", name, p),
			Pos:      pos,
		})
	}

	for _, t := range ast.CollectTableNames(stmt) {
		check(t.Name, t.Pos())
		check(t.Alias, t.Pos())
	}

	switch s := stmt.(type) {
	case *core.CreateTableStmt:
		for _, c := range s.Columns {
			check(c.Name, orStmt(c.NamePos, s))
		}
	case *core.SelectStmt:
		for _, part := range ast.SelectCores(s) {
			for _, col := range part.Columns {
				check(col.Alias, col.Expr.Pos())
			}
		}
	case *core.InsertStmt:
		for i, c := range s.Columns {
			var at token.Position
			if i < len(s.ColumnPos) {
				at = s.ColumnPos[i]
			}
			check(c, orStmt(at, s))
		}
	case *core.CreateDatabaseStmt:
		check(s.Name, s.Pos())
	}

	// bare words on the right of SET are values, not names
	if _, ok := stmt.(*core.SetStmt); ok {
		return diags
	}
	ast.WalkExprs(stmt, func(e core.Expr) bool {
		if c, ok := e.(*core.ColumnRef); ok {
			check(c.Name(), c.Pos())
		}
		return true
	})
	return diags
}

// orStmt falls back to the statement start for unknown positions.
func orStmt(pos token.Position, stmt core.Stmt) token.Position {
	if pos.IsValid() {
		return pos
	}
	return stmt.Pos()
}
