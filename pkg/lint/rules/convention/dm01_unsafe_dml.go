package convention

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/session"
)

func init() {
	lint.Register(UnsafeDML)
}

// UnsafeDML flags UPDATE and DELETE statements without a WHERE clause.
var UnsafeDML = lint.RuleDef{
	ID:          "DM01",
	Name:        "convention.unsafe_dml",
	Group:       "convention",
	Description: "UPDATE or DELETE without WHERE clause.",
	Severity:    core.SeverityError,
	Kinds:       []core.Kind{core.KindDML},
	Check:       checkUnsafeDML,
	Rationale:   "A missing WHERE clause changes every row of the table. With sql_safe_updates enabled the server refuses such statements unless they have a LIMIT.",
	BadExample:  "DELETE FROM orders;",
	GoodExample: "DELETE FROM orders WHERE created_at < '2020-01-01';",
}

func checkUnsafeDML(stmt core.Stmt, state session.State, _ lint.Flags, _ map[string]any) []lint.Diagnostic {
	var (
		verb  string
		table *core.TableName
		limit *core.Limit
	)
	switch s := stmt.(type) {
	case *core.UpdateStmt:
		if s.Where != nil {
			return nil
		}
		verb, limit = "UPDATE", s.Limit
		table, _ = s.Table.(*core.TableName)
	case *core.DeleteStmt:
		if s.Where != nil {
			return nil
		}
		verb, table, limit = "DELETE", s.Table, s.Limit
	default:
		return nil
	}

	target := "table"
	if table != nil {
		target = fmt.Sprintf("table '%s'", table.Qualified())
	}

	if safeUpdates(state) && limit == nil {
		return []lint.Diagnostic{{
			Severity: core.SeverityCritical,
			Message:  fmt.Sprintf("%s without WHERE or LIMIT is rejected when sql_safe_updates is enabled", verb),
		}}
	}
	return []lint.Diagnostic{{
		Severity: core.SeverityError,
		Message:  fmt.Sprintf("%s without WHERE clause affects every row of %s", verb, target),
	}}
}

func safeUpdates(state session.State) bool {
	v, ok := state.Variable(session.ScopeSession, "sql_safe_updates")
	if !ok || !v.Resolved() {
		return false
	}
	switch strings.ToUpper(v.String()) {
	case "1", "ON", "TRUE":
		return true
	}
	return false
}
