package core

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// ---------- Literals ----------

// LiteralKind represents the type of a literal.
type LiteralKind int

// LiteralKind constants for SQL literal value types.
const (
	LiteralString LiteralKind = iota
	LiteralNumber
	LiteralBool
	LiteralNull
	LiteralHex
	LiteralBit
)

// Literal represents a literal value.
type Literal struct {
	NodeInfo
	Kind  LiteralKind
	Value string // string body, number text, TRUE/FALSE, hex or binary digits
	// Introducer is the character set named by _charset or N, if any.
	Introducer string
}

func (*Literal) exprNode() {}

// Bool returns the literal's truth value for boolean literals and the
// numbers 0 and 1.
func (l *Literal) Bool() (bool, bool) {
	switch {
	case l.Kind == LiteralBool:
		return strings.EqualFold(l.Value, "TRUE"), true
	case l.Kind == LiteralNumber && l.Value == "1":
		return true, true
	case l.Kind == LiteralNumber && l.Value == "0":
		return false, true
	}
	return false, false
}

// Int returns the literal as an integer. Bit and hex literals are decoded.
func (l *Literal) Int() (int64, error) {
	switch l.Kind {
	case LiteralNumber:
		return strconv.ParseInt(l.Value, 10, 64)
	case LiteralBool:
		if b, _ := l.Bool(); b {
			return 1, nil
		}
		return 0, nil
	case LiteralBit:
		return strconv.ParseInt(l.Value, 2, 64)
	case LiteralHex:
		return strconv.ParseInt(l.Value, 16, 64)
	}
	return 0, fmt.Errorf("%s literal is not an integer", l.kindName())
}

// Bytes decodes a hex literal.
func (l *Literal) Bytes() ([]byte, error) {
	digits := l.Value
	if len(digits)%2 != 0 {
		digits = "0" + digits
	}
	return hex.DecodeString(digits)
}

func (l *Literal) kindName() string {
	switch l.Kind {
	case LiteralString:
		return "string"
	case LiteralNumber:
		return "number"
	case LiteralBool:
		return "boolean"
	case LiteralNull:
		return "NULL"
	case LiteralHex:
		return "hexadecimal"
	default:
		return "bit"
	}
}

// Serialize implements Node.
func (l *Literal) Serialize(f Formatter) string {
	intro := ""
	if l.Introducer != "" {
		intro = "_" + l.Introducer + " "
	}
	switch l.Kind {
	case LiteralString:
		return intro + f.FormatString(l.Value)
	case LiteralBool:
		b, _ := l.Bool()
		return f.FormatBool(b)
	case LiteralNull:
		return "NULL"
	case LiteralHex:
		b, err := l.Bytes()
		if err != nil {
			return intro + "X'" + l.Value + "'"
		}
		return intro + f.FormatBinary(b)
	case LiteralBit:
		return intro + "b'" + l.Value + "'"
	default:
		return l.Value
	}
}

// ---------- Names and variables ----------

// ColumnRef is a possibly qualified name used as a value: a column, or a bare
// word such as ON or a mode name on the right of SET.
type ColumnRef struct {
	NodeInfo
	Parts []string
}

func (*ColumnRef) exprNode() {}

// Name returns the last name part.
func (c *ColumnRef) Name() string {
	if len(c.Parts) == 0 {
		return ""
	}
	return c.Parts[len(c.Parts)-1]
}

// IsBare reports whether the reference is a single unqualified name.
func (c *ColumnRef) IsBare() bool { return len(c.Parts) == 1 }

// Serialize implements Node.
func (c *ColumnRef) Serialize(f Formatter) string {
	return f.FormatQualifiedName(c.Parts...)
}

// StarExpr is * or qualifier.*.
type StarExpr struct {
	NodeInfo
	Qualifier []string
}

func (*StarExpr) exprNode() {}

// Serialize implements Node.
func (s *StarExpr) Serialize(f Formatter) string {
	if len(s.Qualifier) == 0 {
		return "*"
	}
	return f.FormatQualifiedName(s.Qualifier...) + ".*"
}

// DefaultExpr is the DEFAULT keyword used as a value.
type DefaultExpr struct {
	NodeInfo
}

func (*DefaultExpr) exprNode() {}

// Serialize implements Node.
func (*DefaultExpr) Serialize(Formatter) string { return "DEFAULT" }

// ParamExpr is a ? placeholder.
type ParamExpr struct {
	NodeInfo
}

func (*ParamExpr) exprNode() {}

// Serialize implements Node.
func (*ParamExpr) Serialize(Formatter) string { return "?" }

// UserVar is a user-defined variable, @name.
type UserVar struct {
	NodeInfo
	Name string
}

func (*UserVar) exprNode() {}

// Serialize implements Node.
func (u *UserVar) Serialize(f Formatter) string {
	return "@" + f.FormatName(u.Name)
}

// VarScope is the scope of a system variable reference or assignment.
type VarScope int

// Variable scopes.
const (
	ScopeDefault VarScope = iota // no explicit scope; session for system variables
	ScopeSession
	ScopeLocal // the LOCAL keyword, a synonym for SESSION
	ScopeGlobal
	ScopePersist
	ScopePersistOnly
)

func (s VarScope) String() string {
	switch s {
	case ScopeSession:
		return "SESSION"
	case ScopeLocal:
		return "LOCAL"
	case ScopeGlobal:
		return "GLOBAL"
	case ScopePersist:
		return "PERSIST"
	case ScopePersistOnly:
		return "PERSIST_ONLY"
	default:
		return ""
	}
}

// SysVar is a system variable reference, @@[scope.]name. In a SET target a
// bare name without @@ is also a SysVar, marked Bare.
type SysVar struct {
	NodeInfo
	Scope VarScope
	Name  string
	Bare  bool
}

func (*SysVar) exprNode() {}

// Serialize implements Node.
func (s *SysVar) Serialize(f Formatter) string {
	if s.Bare && s.Scope == ScopeDefault {
		return f.FormatName(s.Name)
	}
	if s.Scope == ScopeDefault {
		return "@@" + s.Name
	}
	return "@@" + strings.ToLower(s.Scope.String()) + "." + s.Name
}

// ---------- Operators ----------

// BinaryExpr represents a binary expression.
type BinaryExpr struct {
	NodeInfo
	Left  Expr
	Op    token.TokenType
	Right Expr
}

func (*BinaryExpr) exprNode() {}

// Serialize implements Node.
func (b *BinaryExpr) Serialize(f Formatter) string {
	return b.Left.Serialize(f) + " " + OperatorText(b.Op) + " " + b.Right.Serialize(f)
}

// UnaryExpr represents a prefix operator.
type UnaryExpr struct {
	NodeInfo
	Op   token.TokenType
	Expr Expr
}

func (*UnaryExpr) exprNode() {}

// Serialize implements Node.
func (u *UnaryExpr) Serialize(f Formatter) string {
	switch u.Op {
	case token.NOT, token.BINARY:
		return OperatorText(u.Op) + " " + u.Expr.Serialize(f)
	default:
		return OperatorText(u.Op) + u.Expr.Serialize(f)
	}
}

// OperatorText returns the canonical SQL spelling of an operator token.
func OperatorText(op token.TokenType) string {
	switch op {
	case token.NE:
		return "<>"
	default:
		return op.String()
	}
}

// ParenExpr is a parenthesized expression.
type ParenExpr struct {
	NodeInfo
	Expr Expr
}

func (*ParenExpr) exprNode() {}

// Serialize implements Node.
func (p *ParenExpr) Serialize(f Formatter) string {
	return "(" + p.Expr.Serialize(f) + ")"
}

// CollateExpr is expr COLLATE name.
type CollateExpr struct {
	NodeInfo
	Expr      Expr
	Collation string
}

func (*CollateExpr) exprNode() {}

// Serialize implements Node.
func (c *CollateExpr) Serialize(f Formatter) string {
	return c.Expr.Serialize(f) + " COLLATE " + c.Collation
}

// ---------- Function-like expressions ----------

// FuncCall represents a function call, optionally schema qualified.
type FuncCall struct {
	NodeInfo
	Schema   string
	Name     string
	Args     []Expr
	Distinct bool
	Star     bool // COUNT(*)
}

func (*FuncCall) exprNode() {}

// Is reports whether the call is to name, ignoring case. A qualified name
// "sys.list_add" matches schema and name.
func (fc *FuncCall) Is(name string) bool {
	schema, fn, qualified := strings.Cut(name, ".")
	if !qualified {
		return fc.Schema == "" && strings.EqualFold(fc.Name, name)
	}
	return strings.EqualFold(fc.Schema, schema) && strings.EqualFold(fc.Name, fn)
}

// Serialize implements Node.
func (fc *FuncCall) Serialize(f Formatter) string {
	var b strings.Builder
	if fc.Schema != "" {
		b.WriteString(f.FormatName(fc.Schema))
		b.WriteByte('.')
	}
	b.WriteString(fc.Name)
	b.WriteByte('(')
	if fc.Distinct {
		b.WriteString("DISTINCT ")
	}
	if fc.Star {
		b.WriteByte('*')
	} else {
		b.WriteString(joinExprs(f, fc.Args))
	}
	b.WriteByte(')')
	return b.String()
}

// DataType is a column or CAST target type.
type DataType struct {
	Name      string // upper case
	Args      []string
	Unsigned  bool
	Zerofill  bool
	Charset   string
	Collation string
}

// Serialize renders the type.
func (d *DataType) Serialize() string {
	var b strings.Builder
	b.WriteString(d.Name)
	if len(d.Args) > 0 {
		b.WriteString("(" + strings.Join(d.Args, ",") + ")")
	}
	if d.Unsigned {
		b.WriteString(" UNSIGNED")
	}
	if d.Zerofill {
		b.WriteString(" ZEROFILL")
	}
	if d.Charset != "" {
		b.WriteString(" CHARACTER SET " + d.Charset)
	}
	if d.Collation != "" {
		b.WriteString(" COLLATE " + d.Collation)
	}
	return b.String()
}

// CastExpr is CAST(expr AS type).
type CastExpr struct {
	NodeInfo
	Expr Expr
	Type *DataType
}

func (*CastExpr) exprNode() {}

// Serialize implements Node.
func (c *CastExpr) Serialize(f Formatter) string {
	return "CAST(" + c.Expr.Serialize(f) + " AS " + c.Type.Serialize() + ")"
}

// IntervalExpr is INTERVAL expr unit.
type IntervalExpr struct {
	NodeInfo
	Value Expr
	Unit  string
}

func (*IntervalExpr) exprNode() {}

// Serialize implements Node.
func (i *IntervalExpr) Serialize(f Formatter) string {
	return "INTERVAL " + i.Value.Serialize(f) + " " + i.Unit
}

// ---------- Predicates ----------

// InExpr represents expr [NOT] IN (list | subquery).
type InExpr struct {
	NodeInfo
	Expr     Expr
	Not      bool
	List     []Expr
	Subquery *SelectStmt
}

func (*InExpr) exprNode() {}

// Serialize implements Node.
func (in *InExpr) Serialize(f Formatter) string {
	inner := joinExprs(f, in.List)
	if in.Subquery != nil {
		inner = in.Subquery.Serialize(f)
	}
	return in.Expr.Serialize(f) + not(in.Not) + " IN (" + inner + ")"
}

// BetweenExpr represents expr [NOT] BETWEEN low AND high.
type BetweenExpr struct {
	NodeInfo
	Expr Expr
	Not  bool
	Low  Expr
	High Expr
}

func (*BetweenExpr) exprNode() {}

// Serialize implements Node.
func (b *BetweenExpr) Serialize(f Formatter) string {
	return b.Expr.Serialize(f) + not(b.Not) + " BETWEEN " + b.Low.Serialize(f) + " AND " + b.High.Serialize(f)
}

// LikeExpr represents expr [NOT] LIKE pattern [ESCAPE e], or REGEXP.
type LikeExpr struct {
	NodeInfo
	Expr    Expr
	Not     bool
	Regexp  bool
	Pattern Expr
	Escape  Expr
}

func (*LikeExpr) exprNode() {}

// Serialize implements Node.
func (l *LikeExpr) Serialize(f Formatter) string {
	op := " LIKE "
	if l.Regexp {
		op = " REGEXP "
	}
	s := l.Expr.Serialize(f) + not(l.Not) + op + l.Pattern.Serialize(f)
	if l.Escape != nil {
		s += " ESCAPE " + l.Escape.Serialize(f)
	}
	return s
}

// IsExpr represents expr IS [NOT] NULL|TRUE|FALSE|UNKNOWN.
type IsExpr struct {
	NodeInfo
	Expr  Expr
	Not   bool
	Value string
}

func (*IsExpr) exprNode() {}

// Serialize implements Node.
func (i *IsExpr) Serialize(f Formatter) string {
	s := i.Expr.Serialize(f) + " IS "
	if i.Not {
		s += "NOT "
	}
	return s + i.Value
}

// WhenClause is one WHEN ... THEN ... arm of a CASE.
type WhenClause struct {
	Condition Expr
	Result    Expr
}

// CaseExpr represents CASE [operand] WHEN ... END.
type CaseExpr struct {
	NodeInfo
	Operand Expr
	Whens   []*WhenClause
	Else    Expr
}

func (*CaseExpr) exprNode() {}

// Serialize implements Node.
func (c *CaseExpr) Serialize(f Formatter) string {
	var b strings.Builder
	b.WriteString("CASE")
	if c.Operand != nil {
		b.WriteString(" " + c.Operand.Serialize(f))
	}
	for _, w := range c.Whens {
		b.WriteString(" WHEN " + w.Condition.Serialize(f) + " THEN " + w.Result.Serialize(f))
	}
	if c.Else != nil {
		b.WriteString(" ELSE " + c.Else.Serialize(f))
	}
	b.WriteString(" END")
	return b.String()
}

// SubqueryExpr is a parenthesized SELECT used as a value, or EXISTS (SELECT).
type SubqueryExpr struct {
	NodeInfo
	Select *SelectStmt
	Exists bool
}

func (*SubqueryExpr) exprNode() {}

// Serialize implements Node.
func (s *SubqueryExpr) Serialize(f Formatter) string {
	inner := "(" + s.Select.Serialize(f) + ")"
	if s.Exists {
		return "EXISTS " + inner
	}
	return inner
}

func joinExprs(f Formatter, exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.Serialize(f)
	}
	return strings.Join(parts, ", ")
}

func not(b bool) string {
	if b {
		return " NOT"
	}
	return ""
}

// Walk calls fn for expr and every expression nested in it, depth first.
// Subqueries are not entered. Returning false from fn skips the children.
func Walk(expr Expr, fn func(Expr) bool) {
	if expr == nil || !fn(expr) {
		return
	}
	switch e := expr.(type) {
	case *BinaryExpr:
		Walk(e.Left, fn)
		Walk(e.Right, fn)
	case *UnaryExpr:
		Walk(e.Expr, fn)
	case *ParenExpr:
		Walk(e.Expr, fn)
	case *CollateExpr:
		Walk(e.Expr, fn)
	case *FuncCall:
		for _, a := range e.Args {
			Walk(a, fn)
		}
	case *CastExpr:
		Walk(e.Expr, fn)
	case *IntervalExpr:
		Walk(e.Value, fn)
	case *InExpr:
		Walk(e.Expr, fn)
		for _, a := range e.List {
			Walk(a, fn)
		}
	case *BetweenExpr:
		Walk(e.Expr, fn)
		Walk(e.Low, fn)
		Walk(e.High, fn)
	case *LikeExpr:
		Walk(e.Expr, fn)
		Walk(e.Pattern, fn)
		Walk(e.Escape, fn)
	case *IsExpr:
		Walk(e.Expr, fn)
	case *CaseExpr:
		Walk(e.Operand, fn)
		for _, w := range e.Whens {
			Walk(w.Condition, fn)
			Walk(w.Result, fn)
		}
		Walk(e.Else, fn)
	}
}
