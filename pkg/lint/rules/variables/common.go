package variables

import (
	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/mysqlint/pkg/platform"
)

// reference is a system variable named by a statement.
type reference struct {
	v     *core.SysVar
	value core.Expr // assigned value; nil for reads
}

func (r reference) assigned() bool { return r.value != nil }

// references returns the system variables stmt reads or assigns. Bare names
// that the platform does not know are skipped: the server resolves them to
// stored program variables.
func references(stmt core.Stmt, p platform.Platform) []reference {
	var refs []reference
	targets := make(map[*core.SysVar]bool)

	if set, ok := stmt.(*core.SetStmt); ok {
		for _, a := range set.Assignments {
			if v, ok := a.SysVar(); ok {
				targets[v] = true
				if !isLocal(v, p) {
					refs = append(refs, reference{v: v, value: a.Value})
				}
			}
		}
	}

	ast.WalkExprs(stmt, func(e core.Expr) bool {
		if v, ok := e.(*core.SysVar); ok && !targets[v] && !v.Bare {
			refs = append(refs, reference{v: v})
		}
		return true
	})
	return refs
}

func isLocal(v *core.SysVar, p platform.Platform) bool {
	if !v.Bare || v.Scope != core.ScopeDefault {
		return false
	}
	_, known := p.Variable(v.Name)
	return !known
}
