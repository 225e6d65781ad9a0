package core

import (
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// Kind sets shared by statement types.
var (
	queryKinds       = []Kind{KindStatement, KindQuery}
	dmlKinds         = []Kind{KindStatement, KindDML, KindTable}
	tableDDLKinds    = []Kind{KindStatement, KindDDL, KindTable}
	schemaDDLKinds   = []Kind{KindStatement, KindDDL, KindSchema}
	setKinds         = []Kind{KindStatement, KindSet, KindSession}
	sessionKinds     = []Kind{KindStatement, KindSession}
	transactionKinds = []Kind{KindStatement, KindTransaction}
	invalidKinds     = []Kind{KindStatement, KindInvalid}
	opaqueKinds      = []Kind{KindStatement}
)

// ---------- Table references ----------

// TableRef is an entry of a FROM clause.
type TableRef interface {
	Serialize(f Formatter) string
	tableRefNode()
}

// TableName is a possibly schema-qualified table with an optional alias.
type TableName struct {
	NodeInfo
	Schema string
	Name   string
	Alias  string
}

func (*TableName) tableRefNode() {}

// Qualified returns schema.name, or name when unqualified.
func (t *TableName) Qualified() string {
	if t.Schema == "" {
		return t.Name
	}
	return t.Schema + "." + t.Name
}

// Serialize renders the table name and alias.
func (t *TableName) Serialize(f Formatter) string {
	var s string
	if t.Schema != "" {
		s = f.FormatQualifiedName(t.Schema, t.Name)
	} else {
		s = f.FormatName(t.Name)
	}
	if t.Alias != "" {
		s += " AS " + f.FormatName(t.Alias)
	}
	return s
}

// DerivedTable is a subquery in a FROM clause.
type DerivedTable struct {
	NodeInfo
	Select *SelectStmt
	Alias  string
}

func (*DerivedTable) tableRefNode() {}

// Serialize renders the derived table.
func (d *DerivedTable) Serialize(f Formatter) string {
	return "(" + d.Select.Serialize(f) + ") AS " + f.FormatName(d.Alias)
}

// JoinType is the flavor of a join.
type JoinType string

// Join types.
const (
	JoinComma    JoinType = ","
	JoinInner    JoinType = "JOIN"
	JoinCross    JoinType = "CROSS JOIN"
	JoinLeft     JoinType = "LEFT JOIN"
	JoinRight    JoinType = "RIGHT JOIN"
	JoinStraight JoinType = "STRAIGHT_JOIN"
)

// Join combines two table references.
type Join struct {
	Left  TableRef
	Type  JoinType
	Right TableRef
	On    Expr
	Using []string
}

func (*Join) tableRefNode() {}

// Serialize renders the join.
func (j *Join) Serialize(f Formatter) string {
	var b strings.Builder
	b.WriteString(j.Left.Serialize(f))
	if j.Type == JoinComma {
		b.WriteString(", ")
	} else {
		b.WriteString(" " + string(j.Type) + " ")
	}
	b.WriteString(j.Right.Serialize(f))
	if j.On != nil {
		b.WriteString(" ON " + j.On.Serialize(f))
	}
	if len(j.Using) > 0 {
		b.WriteString(" USING (" + joinNames(f, j.Using) + ")")
	}
	return b.String()
}

// ---------- SELECT ----------

// SelectColumn is one entry of the select list.
type SelectColumn struct {
	Expr  Expr
	Alias string
}

// OrderItem is one ORDER BY entry.
type OrderItem struct {
	Expr Expr
	Desc bool
}

// Limit is a LIMIT clause.
type Limit struct {
	Count  Expr
	Offset Expr
}

// SelectStmt represents a SELECT, possibly followed by UNION.
type SelectStmt struct {
	StmtInfo
	Distinct bool
	Columns  []*SelectColumn
	From     TableRef
	Where    Expr
	GroupBy  []Expr
	Having   Expr
	OrderBy  []*OrderItem
	Limit    *Limit
	Union    *SelectStmt
	UnionAll bool
}

// Kinds implements Stmt.
func (*SelectStmt) Kinds() []Kind { return queryKinds }

// Serialize implements Node.
func (s *SelectStmt) Serialize(f Formatter) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if s.Distinct {
		b.WriteString("DISTINCT ")
	}
	cols := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = c.Expr.Serialize(f)
		if c.Alias != "" {
			cols[i] += " AS " + f.FormatName(c.Alias)
		}
	}
	b.WriteString(strings.Join(cols, ", "))
	if s.From != nil {
		b.WriteString(" FROM " + s.From.Serialize(f))
	}
	if s.Where != nil {
		b.WriteString(" WHERE " + s.Where.Serialize(f))
	}
	if len(s.GroupBy) > 0 {
		b.WriteString(" GROUP BY " + joinExprs(f, s.GroupBy))
	}
	if s.Having != nil {
		b.WriteString(" HAVING " + s.Having.Serialize(f))
	}
	writeOrderLimit(&b, f, s.OrderBy, s.Limit)
	if s.Union != nil {
		b.WriteString(" UNION ")
		if s.UnionAll {
			b.WriteString("ALL ")
		}
		b.WriteString(s.Union.Serialize(f))
	}
	return b.String()
}

func writeOrderLimit(b *strings.Builder, f Formatter, order []*OrderItem, limit *Limit) {
	if len(order) > 0 {
		items := make([]string, len(order))
		for i, o := range order {
			items[i] = o.Expr.Serialize(f)
			if o.Desc {
				items[i] += " DESC"
			}
		}
		b.WriteString(" ORDER BY " + strings.Join(items, ", "))
	}
	if limit != nil {
		b.WriteString(" LIMIT " + limit.Count.Serialize(f))
		if limit.Offset != nil {
			b.WriteString(" OFFSET " + limit.Offset.Serialize(f))
		}
	}
}

// ---------- DML ----------

// ColumnAssignment is col = expr in UPDATE, INSERT ... SET and ON DUPLICATE KEY UPDATE.
type ColumnAssignment struct {
	Column *ColumnRef
	Value  Expr
}

func serializeColumnAssignments(f Formatter, as []*ColumnAssignment) string {
	parts := make([]string, len(as))
	for i, a := range as {
		parts[i] = a.Column.Serialize(f) + " = " + a.Value.Serialize(f)
	}
	return strings.Join(parts, ", ")
}

// InsertStmt represents INSERT or REPLACE.
type InsertStmt struct {
	StmtInfo
	Replace     bool
	Ignore      bool
	Table       *TableName
	Columns     []string
	// ColumnPos holds where each of Columns starts, when known.
	ColumnPos   []token.Position
	Rows        [][]Expr
	Select      *SelectStmt
	Set         []*ColumnAssignment
	OnDuplicate []*ColumnAssignment
}

// Kinds implements Stmt.
func (*InsertStmt) Kinds() []Kind { return dmlKinds }

// Serialize implements Node.
func (s *InsertStmt) Serialize(f Formatter) string {
	var b strings.Builder
	if s.Replace {
		b.WriteString("REPLACE ")
	} else {
		b.WriteString("INSERT ")
	}
	if s.Ignore {
		b.WriteString("IGNORE ")
	}
	b.WriteString("INTO " + s.Table.Serialize(f))
	if len(s.Columns) > 0 {
		b.WriteString(" (" + joinNames(f, s.Columns) + ")")
	}
	switch {
	case s.Select != nil:
		b.WriteString(" " + s.Select.Serialize(f))
	case len(s.Set) > 0:
		b.WriteString(" SET " + serializeColumnAssignments(f, s.Set))
	default:
		rows := make([]string, len(s.Rows))
		for i, row := range s.Rows {
			rows[i] = "(" + joinExprs(f, row) + ")"
		}
		b.WriteString(" VALUES " + strings.Join(rows, ", "))
	}
	if len(s.OnDuplicate) > 0 {
		b.WriteString(" ON DUPLICATE KEY UPDATE " + serializeColumnAssignments(f, s.OnDuplicate))
	}
	return b.String()
}

// UpdateStmt represents UPDATE.
type UpdateStmt struct {
	StmtInfo
	Ignore  bool
	Table   TableRef
	Set     []*ColumnAssignment
	Where   Expr
	OrderBy []*OrderItem
	Limit   *Limit
}

// Kinds implements Stmt.
func (*UpdateStmt) Kinds() []Kind { return dmlKinds }

// Serialize implements Node.
func (s *UpdateStmt) Serialize(f Formatter) string {
	var b strings.Builder
	b.WriteString("UPDATE ")
	if s.Ignore {
		b.WriteString("IGNORE ")
	}
	b.WriteString(s.Table.Serialize(f))
	b.WriteString(" SET " + serializeColumnAssignments(f, s.Set))
	if s.Where != nil {
		b.WriteString(" WHERE " + s.Where.Serialize(f))
	}
	writeOrderLimit(&b, f, s.OrderBy, s.Limit)
	return b.String()
}

// DeleteStmt represents single-table DELETE.
type DeleteStmt struct {
	StmtInfo
	Ignore  bool
	Table   *TableName
	Where   Expr
	OrderBy []*OrderItem
	Limit   *Limit
}

// Kinds implements Stmt.
func (*DeleteStmt) Kinds() []Kind { return dmlKinds }

// Serialize implements Node.
func (s *DeleteStmt) Serialize(f Formatter) string {
	var b strings.Builder
	b.WriteString("DELETE ")
	if s.Ignore {
		b.WriteString("IGNORE ")
	}
	b.WriteString("FROM " + s.Table.Serialize(f))
	if s.Where != nil {
		b.WriteString(" WHERE " + s.Where.Serialize(f))
	}
	writeOrderLimit(&b, f, s.OrderBy, s.Limit)
	return b.String()
}

// ---------- DDL ----------

// Nullability of a column definition.
type Nullability int

// Nullability values.
const (
	NullUnspecified Nullability = iota
	Nullable
	NotNullable
)

// ColumnDef is one column of CREATE TABLE.
type ColumnDef struct {
	Name          string
	NamePos       token.Position
	Type          *DataType
	Null          Nullability
	Default       Expr
	AutoIncrement bool
	PrimaryKey    bool
	Unique        bool
	Comment       string
	OnUpdate      Expr
}

// Serialize renders the column definition.
func (c *ColumnDef) Serialize(f Formatter) string {
	var b strings.Builder
	b.WriteString(f.FormatName(c.Name) + " " + c.Type.Serialize())
	switch c.Null {
	case Nullable:
		b.WriteString(" NULL")
	case NotNullable:
		b.WriteString(" NOT NULL")
	}
	if c.Default != nil {
		b.WriteString(" DEFAULT " + c.Default.Serialize(f))
	}
	if c.OnUpdate != nil {
		b.WriteString(" ON UPDATE " + c.OnUpdate.Serialize(f))
	}
	if c.AutoIncrement {
		b.WriteString(" AUTO_INCREMENT")
	}
	if c.Unique {
		b.WriteString(" UNIQUE")
	}
	if c.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	}
	if c.Comment != "" {
		b.WriteString(" COMMENT " + f.FormatString(c.Comment))
	}
	return b.String()
}

// TableConstraint is a PRIMARY KEY, UNIQUE KEY or KEY entry of CREATE TABLE.
type TableConstraint struct {
	Type    string // PRIMARY KEY, UNIQUE KEY, KEY
	Name    string
	Columns []string
}

// Serialize renders the constraint.
func (c *TableConstraint) Serialize(f Formatter) string {
	s := c.Type
	if c.Name != "" {
		s += " " + f.FormatName(c.Name)
	}
	return s + " (" + joinNames(f, c.Columns) + ")"
}

// TableOption is a NAME = value option after a table definition.
// Character set options are normalized to the name CHARACTER SET.
type TableOption struct {
	Name   string
	Value  string
	Quoted bool // value was a string literal
}

// Serialize renders the option.
func (o *TableOption) Serialize(f Formatter) string {
	if o.Quoted {
		return o.Name + "=" + f.FormatString(o.Value)
	}
	return o.Name + "=" + o.Value
}

// CreateTableStmt represents CREATE TABLE.
type CreateTableStmt struct {
	StmtInfo
	Temporary   bool
	IfNotExists bool
	Table       *TableName
	Columns     []*ColumnDef
	Constraints []*TableConstraint
	Options     []*TableOption
	Like        *TableName
}

// Kinds implements Stmt.
func (*CreateTableStmt) Kinds() []Kind { return tableDDLKinds }

// Option returns the value of the named table option.
func (s *CreateTableStmt) Option(name string) (string, bool) {
	for _, o := range s.Options {
		if strings.EqualFold(o.Name, name) {
			return o.Value, true
		}
	}
	return "", false
}

// Serialize implements Node.
func (s *CreateTableStmt) Serialize(f Formatter) string {
	var b strings.Builder
	b.WriteString("CREATE ")
	if s.Temporary {
		b.WriteString("TEMPORARY ")
	}
	b.WriteString("TABLE ")
	if s.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(s.Table.Serialize(f))
	if s.Like != nil {
		b.WriteString(" LIKE " + s.Like.Serialize(f))
		return b.String()
	}
	defs := make([]string, 0, len(s.Columns)+len(s.Constraints))
	for _, c := range s.Columns {
		defs = append(defs, c.Serialize(f))
	}
	for _, c := range s.Constraints {
		defs = append(defs, c.Serialize(f))
	}
	b.WriteString(" (" + strings.Join(defs, ", ") + ")")
	for _, o := range s.Options {
		b.WriteString(" " + o.Serialize(f))
	}
	return b.String()
}

// DropTableStmt represents DROP TABLE.
type DropTableStmt struct {
	StmtInfo
	Temporary bool
	IfExists  bool
	Tables    []*TableName
	Behavior  string // RESTRICT or CASCADE
}

// Kinds implements Stmt.
func (*DropTableStmt) Kinds() []Kind { return tableDDLKinds }

// Serialize implements Node.
func (s *DropTableStmt) Serialize(f Formatter) string {
	var b strings.Builder
	b.WriteString("DROP ")
	if s.Temporary {
		b.WriteString("TEMPORARY ")
	}
	b.WriteString("TABLE ")
	if s.IfExists {
		b.WriteString("IF EXISTS ")
	}
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Serialize(f)
	}
	b.WriteString(strings.Join(names, ", "))
	if s.Behavior != "" {
		b.WriteString(" " + s.Behavior)
	}
	return b.String()
}

// CreateDatabaseStmt represents CREATE DATABASE / CREATE SCHEMA.
type CreateDatabaseStmt struct {
	StmtInfo
	IfNotExists bool
	Name        string
	Charset     string
	Collation   string
}

// Kinds implements Stmt.
func (*CreateDatabaseStmt) Kinds() []Kind { return schemaDDLKinds }

// Serialize implements Node.
func (s *CreateDatabaseStmt) Serialize(f Formatter) string {
	out := "CREATE DATABASE "
	if s.IfNotExists {
		out += "IF NOT EXISTS "
	}
	out += f.FormatName(s.Name)
	if s.Charset != "" {
		out += " CHARACTER SET " + s.Charset
	}
	if s.Collation != "" {
		out += " COLLATE " + s.Collation
	}
	return out
}

// DropDatabaseStmt represents DROP DATABASE / DROP SCHEMA.
type DropDatabaseStmt struct {
	StmtInfo
	IfExists bool
	Name     string
}

// Kinds implements Stmt.
func (*DropDatabaseStmt) Kinds() []Kind { return schemaDDLKinds }

// Serialize implements Node.
func (s *DropDatabaseStmt) Serialize(f Formatter) string {
	out := "DROP DATABASE "
	if s.IfExists {
		out += "IF EXISTS "
	}
	return out + f.FormatName(s.Name)
}

// ---------- Session statements ----------

// UseStmt represents USE schema.
type UseStmt struct {
	StmtInfo
	Schema string
}

// Kinds implements Stmt.
func (*UseStmt) Kinds() []Kind { return sessionKinds }

// Serialize implements Node.
func (s *UseStmt) Serialize(f Formatter) string {
	return "USE " + f.FormatName(s.Schema)
}

// Assignment is one target = value entry of SET.
type Assignment struct {
	Target Expr // *UserVar or *SysVar
	Value  Expr
}

// SysVar returns the target as a system variable, if it is one.
func (a *Assignment) SysVar() (*SysVar, bool) {
	v, ok := a.Target.(*SysVar)
	return v, ok
}

// SetStmt represents SET of user and system variables.
type SetStmt struct {
	StmtInfo
	Assignments []*Assignment
}

// Kinds implements Stmt.
func (*SetStmt) Kinds() []Kind { return setKinds }

// Serialize implements Node.
func (s *SetStmt) Serialize(f Formatter) string {
	parts := make([]string, len(s.Assignments))
	for i, a := range s.Assignments {
		parts[i] = a.Target.Serialize(f) + " = " + a.Value.Serialize(f)
	}
	return "SET " + strings.Join(parts, ", ")
}

// SetNamesStmt represents SET NAMES charset [COLLATE collation] | DEFAULT.
type SetNamesStmt struct {
	StmtInfo
	Charset   string
	Collation string
	Default   bool
}

// Kinds implements Stmt.
func (*SetNamesStmt) Kinds() []Kind { return setKinds }

// Serialize implements Node.
func (s *SetNamesStmt) Serialize(f Formatter) string {
	if s.Default {
		return "SET NAMES DEFAULT"
	}
	out := "SET NAMES " + f.FormatString(s.Charset)
	if s.Collation != "" {
		out += " COLLATE " + f.FormatString(s.Collation)
	}
	return out
}

// SetCharsetStmt represents SET CHARACTER SET charset | DEFAULT.
type SetCharsetStmt struct {
	StmtInfo
	Charset string
	Default bool
}

// Kinds implements Stmt.
func (*SetCharsetStmt) Kinds() []Kind { return setKinds }

// Serialize implements Node.
func (s *SetCharsetStmt) Serialize(f Formatter) string {
	if s.Default {
		return "SET CHARACTER SET DEFAULT"
	}
	return "SET CHARACTER SET " + f.FormatString(s.Charset)
}

// DelimiterStmt is the client command that changes the statement terminator.
type DelimiterStmt struct {
	StmtInfo
	Delimiter string
}

// Kinds implements Stmt.
func (*DelimiterStmt) Kinds() []Kind { return sessionKinds }

// Serialize implements Node.
func (s *DelimiterStmt) Serialize(Formatter) string {
	return "DELIMITER " + s.Delimiter
}

// TransactionAction is the verb of a transaction statement.
type TransactionAction string

// Transaction actions.
const (
	TxBegin    TransactionAction = "BEGIN"
	TxStart    TransactionAction = "START TRANSACTION"
	TxCommit   TransactionAction = "COMMIT"
	TxRollback TransactionAction = "ROLLBACK"
)

// TransactionStmt represents BEGIN, START TRANSACTION, COMMIT and ROLLBACK.
type TransactionStmt struct {
	StmtInfo
	Action          TransactionAction
	Characteristics []string
}

// Kinds implements Stmt.
func (*TransactionStmt) Kinds() []Kind { return transactionKinds }

// Serialize implements Node.
func (s *TransactionStmt) Serialize(Formatter) string {
	if len(s.Characteristics) == 0 {
		return string(s.Action)
	}
	return string(s.Action) + " " + strings.Join(s.Characteristics, ", ")
}

// OpaqueStmt is a recognized statement whose body is not modeled, such as
// ALTER TABLE or SHOW. It is kept verbatim.
type OpaqueStmt struct {
	StmtInfo
	Verb string
}

// Kinds implements Stmt.
func (*OpaqueStmt) Kinds() []Kind { return opaqueKinds }

// Serialize returns the statement's original text.
func (s *OpaqueStmt) Serialize(Formatter) string {
	return s.Text
}

// InvalidStmt stands in for a statement that could not be parsed. Its
// errors explain why.
type InvalidStmt struct {
	StmtInfo
}

// Kinds implements Stmt.
func (*InvalidStmt) Kinds() []Kind { return invalidKinds }

// Serialize returns the statement's original text.
func (s *InvalidStmt) Serialize(Formatter) string {
	return s.Text
}

func joinNames(f Formatter, names []string) string {
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = f.FormatName(n)
	}
	return strings.Join(parts, ", ")
}
