// Package ast provides AST traversal utilities for lint rules.
package ast

import "github.com/leapstack-labs/mysqlint/pkg/core"

// WalkExprs calls fn for every expression of stmt, depth first, entering
// subqueries and derived tables. If fn returns false the children of that
// expression are skipped.
func WalkExprs(stmt core.Stmt, fn func(expr core.Expr) bool) {
	switch s := stmt.(type) {
	case *core.SelectStmt:
		walkSelect(s, fn)
	case *core.InsertStmt:
		for _, row := range s.Rows {
			walkAll(row, fn)
		}
		if s.Select != nil {
			walkSelect(s.Select, fn)
		}
		walkAssignments(s.Set, fn)
		walkAssignments(s.OnDuplicate, fn)
	case *core.UpdateStmt:
		walkTable(s.Table, fn)
		walkAssignments(s.Set, fn)
		walk(s.Where, fn)
		walkOrderLimit(s.OrderBy, s.Limit, fn)
	case *core.DeleteStmt:
		walk(s.Where, fn)
		walkOrderLimit(s.OrderBy, s.Limit, fn)
	case *core.SetStmt:
		for _, a := range s.Assignments {
			walk(a.Target, fn)
			walk(a.Value, fn)
		}
	case *core.CreateTableStmt:
		for _, c := range s.Columns {
			walk(c.Default, fn)
			walk(c.OnUpdate, fn)
		}
	}
}

// walk is core.Walk extended into subqueries.
func walk(expr core.Expr, fn func(core.Expr) bool) {
	core.Walk(expr, func(e core.Expr) bool {
		if !fn(e) {
			return false
		}
		if sq, ok := e.(*core.SubqueryExpr); ok && sq.Select != nil {
			walkSelect(sq.Select, fn)
		}
		return true
	})
}

func walkAll(exprs []core.Expr, fn func(core.Expr) bool) {
	for _, e := range exprs {
		walk(e, fn)
	}
}

func walkAssignments(as []*core.ColumnAssignment, fn func(core.Expr) bool) {
	for _, a := range as {
		walk(a.Column, fn)
		walk(a.Value, fn)
	}
}

func walkOrderLimit(order []*core.OrderItem, limit *core.Limit, fn func(core.Expr) bool) {
	for _, o := range order {
		walk(o.Expr, fn)
	}
	if limit != nil {
		walk(limit.Count, fn)
		walk(limit.Offset, fn)
	}
}

func walkSelect(s *core.SelectStmt, fn func(core.Expr) bool) {
	for ; s != nil; s = s.Union {
		for _, c := range s.Columns {
			walk(c.Expr, fn)
		}
		walkTable(s.From, fn)
		walk(s.Where, fn)
		walkAll(s.GroupBy, fn)
		walk(s.Having, fn)
		walkOrderLimit(s.OrderBy, s.Limit, fn)
	}
}

func walkTable(ref core.TableRef, fn func(core.Expr) bool) {
	switch t := ref.(type) {
	case *core.DerivedTable:
		walkSelect(t.Select, fn)
	case *core.Join:
		walkTable(t.Left, fn)
		walkTable(t.Right, fn)
		walk(t.On, fn)
	}
}

// CollectLiterals returns every literal of stmt.
func CollectLiterals(stmt core.Stmt) []*core.Literal {
	var lits []*core.Literal
	WalkExprs(stmt, func(e core.Expr) bool {
		if l, ok := e.(*core.Literal); ok {
			lits = append(lits, l)
		}
		return true
	})
	return lits
}

// CollectCollates returns every COLLATE expression of stmt.
func CollectCollates(stmt core.Stmt) []*core.CollateExpr {
	var out []*core.CollateExpr
	WalkExprs(stmt, func(e core.Expr) bool {
		if c, ok := e.(*core.CollateExpr); ok {
			out = append(out, c)
		}
		return true
	})
	return out
}

// CollectTableNames returns the tables named by stmt, in source order.
// Tables of subqueries in expressions are not included.
func CollectTableNames(stmt core.Stmt) []*core.TableName {
	var out []*core.TableName
	var collect func(core.TableRef)
	collect = func(ref core.TableRef) {
		switch t := ref.(type) {
		case *core.TableName:
			if t != nil {
				out = append(out, t)
			}
		case *core.Join:
			collect(t.Left)
			collect(t.Right)
		case *core.DerivedTable:
			for s := t.Select; s != nil; s = s.Union {
				collect(s.From)
			}
		}
	}

	switch s := stmt.(type) {
	case *core.SelectStmt:
		for ; s != nil; s = s.Union {
			collect(s.From)
		}
	case *core.InsertStmt:
		collect(s.Table)
	case *core.UpdateStmt:
		collect(s.Table)
	case *core.DeleteStmt:
		collect(s.Table)
	case *core.CreateTableStmt:
		collect(s.Table)
		if s.Like != nil {
			collect(s.Like)
		}
	case *core.DropTableStmt:
		for _, t := range s.Tables {
			collect(t)
		}
	}
	return out
}

// SelectCores returns s and every SELECT joined to it by UNION.
func SelectCores(s *core.SelectStmt) []*core.SelectStmt {
	var out []*core.SelectStmt
	for ; s != nil; s = s.Union {
		out = append(out, s)
	}
	return out
}
