package charsets

import (
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/mysqlint/pkg/session"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// name is a character set or collation named by a statement. For
// collations, charset is the character set it is paired with, if any.
type name struct {
	value     string
	collation bool
	charset   string
	pos       token.Position
}

// names returns the character sets and collations stmt refers to, in
// source order.
func names(stmt core.Stmt, state session.State) []name {
	var out []name
	add := func(value string, collation bool, charset string, pos token.Position) {
		if value == "" || strings.EqualFold(value, "default") {
			return
		}
		out = append(out, name{value: value, collation: collation, charset: charset, pos: pos})
	}
	pair := func(cs, coll string, pos token.Position) {
		add(cs, false, "", pos)
		add(coll, true, cs, pos)
	}

	switch s := stmt.(type) {
	case *core.SetNamesStmt:
		if !s.Default {
			pair(s.Charset, s.Collation, s.Pos())
		}
	case *core.SetCharsetStmt:
		if !s.Default {
			add(s.Charset, false, "", s.Pos())
		}
	case *core.SetStmt:
		for _, a := range s.Assignments {
			v, ok := a.SysVar()
			if !ok {
				continue
			}
			if _, known := state.Platform().Variable(v.Name); !known {
				continue
			}
			value, ok := constantName(a.Value)
			if !ok {
				continue
			}
			n := strings.ToLower(v.Name)
			switch {
			case strings.HasPrefix(n, "character_set_"):
				add(value, false, "", a.Value.Pos())
			case strings.HasPrefix(n, "collation_"):
				add(value, true, "", a.Value.Pos())
			}
		}
	case *core.CreateDatabaseStmt:
		pair(s.Charset, s.Collation, s.Pos())
	case *core.CreateTableStmt:
		cs, _ := s.Option("CHARACTER SET")
		coll, _ := s.Option("COLLATE")
		pair(cs, coll, s.Pos())
		for _, c := range s.Columns {
			if c.Type != nil {
				pair(c.Type.Charset, c.Type.Collation, s.Pos())
			}
		}
	}

	ast.WalkExprs(stmt, func(e core.Expr) bool {
		switch x := e.(type) {
		case *core.CastExpr:
			if x.Type != nil {
				pair(x.Type.Charset, x.Type.Collation, x.Pos())
			}
		case *core.CollateExpr:
			add(x.Collation, true, operandCharset(x.Expr, state), x.Pos())
		}
		return true
	})
	return out
}

// operandCharset returns the character set of a string literal, or "" when
// the operand's character set is not known statically.
func operandCharset(e core.Expr, state session.State) string {
	lit, ok := e.(*core.Literal)
	if !ok || lit.Kind != core.LiteralString {
		return ""
	}
	if lit.Introducer != "" {
		return lit.Introducer
	}
	return state.Charset()
}

// constantName returns the name assigned by 'utf8mb4' or utf8mb4.
func constantName(e core.Expr) (string, bool) {
	switch v := e.(type) {
	case *core.Literal:
		if v.Kind == core.LiteralString {
			return v.Value, true
		}
	case *core.ColumnRef:
		if v.IsBare() {
			return v.Name(), true
		}
	}
	return "", false
}
