package session

import (
	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// Scope selects one of the session's variable maps.
type Scope int

// Variable scopes.
const (
	ScopeUser    Scope = iota // @name
	ScopeSession              // @@session.name, the default for system variables
	ScopeGlobal               // @@global.name
	ScopeLocal                // names that are not system variables, e.g. routine locals
)

func (s Scope) String() string {
	switch s {
	case ScopeUser:
		return "user"
	case ScopeSession:
		return "session"
	case ScopeGlobal:
		return "global"
	case ScopeLocal:
		return "local"
	default:
		return "unknown"
	}
}

// Value is the content of a variable: either a resolved scalar or an
// expression that could not be evaluated without a server.
type Value struct {
	text string
	expr core.Expr
}

// Scalar returns a resolved value.
func Scalar(s string) Value {
	return Value{text: s}
}

// Unresolved returns a value for expr, which is kept as written. text is
// the expression rendered back to SQL.
func Unresolved(expr core.Expr, text string) Value {
	return Value{text: text, expr: expr}
}

// Resolved reports whether the value is a scalar.
func (v Value) Resolved() bool {
	return v.expr == nil
}

// Expr returns the unresolved expression, or nil for scalars.
func (v Value) Expr() core.Expr {
	return v.expr
}

// String returns the scalar, or the SQL text of an unresolved expression.
func (v Value) String() string {
	return v.text
}

// evaluate folds expr into a scalar when its value is known statically.
func evaluate(expr core.Expr, f core.Formatter) Value {
	switch e := expr.(type) {
	case *core.Literal:
		switch e.Kind {
		case core.LiteralString, core.LiteralNumber:
			return Scalar(e.Value)
		case core.LiteralBool:
			if b, _ := e.Bool(); b {
				return Scalar("1")
			}
			return Scalar("0")
		case core.LiteralNull:
			return Scalar("")
		}
	case *core.ColumnRef:
		if e.IsBare() {
			return Scalar(e.Name())
		}
	case *core.UnaryExpr:
		if lit, ok := e.Expr.(*core.Literal); ok && lit.Kind == core.LiteralNumber && e.Op == token.MINUS {
			return Scalar("-" + lit.Value)
		}
	}
	return Unresolved(expr, expr.Serialize(f))
}
