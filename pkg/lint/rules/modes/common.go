package modes

import (
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
)

// modeAssignments returns the assignments of stmt that target sql_mode.
func modeAssignments(stmt core.Stmt) []*core.Assignment {
	set, ok := stmt.(*core.SetStmt)
	if !ok {
		return nil
	}
	var out []*core.Assignment
	for _, a := range set.Assignments {
		if v, ok := a.SysVar(); ok && strings.EqualFold(v.Name, "sql_mode") {
			out = append(out, a)
		}
	}
	return out
}

// flagList returns the flag names of a literal or bare mode value.
func flagList(e core.Expr) ([]string, bool) {
	var s string
	switch v := e.(type) {
	case *core.Literal:
		if v.Kind != core.LiteralString {
			return nil, false
		}
		s = v.Value
	case *core.ColumnRef:
		if !v.IsBare() {
			return nil, false
		}
		s = v.Name()
	default:
		return nil, false
	}

	var names []string
	for _, part := range strings.Split(s, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names, true
}

// listFlag returns the flag argument of list_add or list_drop.
func listFlag(e core.Expr) (*core.Literal, bool) {
	fc, ok := e.(*core.FuncCall)
	if !ok || len(fc.Args) != 2 {
		return nil, false
	}
	if !fc.Is("list_add") && !fc.Is("sys.list_add") && !fc.Is("list_drop") && !fc.Is("sys.list_drop") {
		return nil, false
	}
	lit, ok := fc.Args[1].(*core.Literal)
	if !ok || lit.Kind != core.LiteralString {
		return nil, false
	}
	return lit, true
}
