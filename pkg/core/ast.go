package core

import "github.com/leapstack-labs/mysqlint/pkg/token"

// Formatter renders names and literal values for the current dialect and
// SQL mode. Every node serializes itself through a Formatter.
type Formatter interface {
	FormatName(name string) string
	FormatQualifiedName(parts ...string) string
	FormatBool(v bool) string
	FormatString(s string) string
	FormatBinary(b []byte) string
}

// Node is the base interface for all AST nodes.
type Node interface {
	// Pos returns the position of the first character of the node.
	Pos() token.Position
	// Serialize renders the node back to SQL text.
	Serialize(f Formatter) string
}

// Expr is a marker interface for expression nodes.
type Expr interface {
	Node
	exprNode()
}

// Stmt is the root of one parsed statement.
type Stmt interface {
	Node
	// Kinds lists the dispatch tags the statement belongs to, most general first.
	Kinds() []Kind
	// Span is the statement's source range, delimiter excluded.
	Span() token.Span
	// Source is the statement's raw text.
	Source() string
	// Errors returns errors found while parsing or updating the session.
	Errors() []error
	// AddError attaches an error to the statement.
	AddError(err error)
	stmtNode()
}

// NodeInfo carries the position shared by all expressions.
type NodeInfo struct {
	Start token.Position
}

// Pos implements Node.
func (n NodeInfo) Pos() token.Position { return n.Start }

// StmtInfo carries the fields shared by all statements.
type StmtInfo struct {
	Loc  token.Span
	Text string
	errs []error
}

// Pos implements Node.
func (s *StmtInfo) Pos() token.Position { return s.Loc.Start }

// Span implements Stmt.
func (s *StmtInfo) Span() token.Span { return s.Loc }

// Source implements Stmt.
func (s *StmtInfo) Source() string { return s.Text }

// Errors implements Stmt.
func (s *StmtInfo) Errors() []error { return s.errs }

// AddError implements Stmt.
func (s *StmtInfo) AddError(err error) {
	if err != nil {
		s.errs = append(s.errs, err)
	}
}

// HasErrors reports whether any error is attached.
func (s *StmtInfo) HasErrors() bool { return len(s.errs) > 0 }

func (*StmtInfo) stmtNode() {}

// Kind tags a statement for rule dispatch. A statement usually has several.
type Kind uint8

// Statement kinds.
const (
	KindStatement Kind = iota
	KindQuery
	KindDML
	KindDDL
	KindTable
	KindSchema
	KindSet
	KindSession
	KindTransaction
	KindInvalid
)

var kindNames = [...]string{
	KindStatement:   "statement",
	KindQuery:       "query",
	KindDML:         "dml",
	KindDDL:         "ddl",
	KindTable:       "table",
	KindSchema:      "schema",
	KindSet:         "set",
	KindSession:     "session",
	KindTransaction: "transaction",
	KindInvalid:     "invalid",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// HasKind reports whether stmt carries kind.
func HasKind(stmt Stmt, kind Kind) bool {
	for _, k := range stmt.Kinds() {
		if k == kind {
			return true
		}
	}
	return false
}
