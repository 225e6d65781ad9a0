package core_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// backtickFormatter quotes every name and escapes strings minimally.
type backtickFormatter struct{}

func (backtickFormatter) FormatName(name string) string { return "`" + name + "`" }

func (f backtickFormatter) FormatQualifiedName(parts ...string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = f.FormatName(p)
	}
	return strings.Join(quoted, ".")
}

func (backtickFormatter) FormatBool(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

func (backtickFormatter) FormatString(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

func (backtickFormatter) FormatBinary(b []byte) string { return fmt.Sprintf("X'%X'", b) }

func TestLiteralBool(t *testing.T) {
	tests := []struct {
		lit    core.Literal
		want   bool
		wantOK bool
	}{
		{core.Literal{Kind: core.LiteralBool, Value: "TRUE"}, true, true},
		{core.Literal{Kind: core.LiteralBool, Value: "false"}, false, true},
		{core.Literal{Kind: core.LiteralNumber, Value: "1"}, true, true},
		{core.Literal{Kind: core.LiteralNumber, Value: "0"}, false, true},
		{core.Literal{Kind: core.LiteralNumber, Value: "2"}, false, false},
		{core.Literal{Kind: core.LiteralString, Value: "1"}, false, false},
	}

	for _, tt := range tests {
		got, ok := tt.lit.Bool()
		assert.Equal(t, tt.wantOK, ok, tt.lit.Value)
		assert.Equal(t, tt.want, got, tt.lit.Value)
	}
}

func TestLiteralInt(t *testing.T) {
	n, err := (&core.Literal{Kind: core.LiteralNumber, Value: "262144"}).Int()
	require.NoError(t, err)
	assert.Equal(t, int64(262144), n)

	n, err = (&core.Literal{Kind: core.LiteralBit, Value: "101"}).Int()
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	n, err = (&core.Literal{Kind: core.LiteralBool, Value: "TRUE"}).Int()
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = (&core.Literal{Kind: core.LiteralNumber, Value: "1.5"}).Int()
	require.Error(t, err)

	_, err = (&core.Literal{Kind: core.LiteralString, Value: "abc"}).Int()
	require.Error(t, err)
}

func TestSerializeExpressions(t *testing.T) {
	f := backtickFormatter{}
	tests := []struct {
		name string
		expr core.Expr
		want string
	}{
		{"string", &core.Literal{Kind: core.LiteralString, Value: "it's"}, "'it''s'"},
		{"introducer", &core.Literal{Kind: core.LiteralString, Value: "x", Introducer: "latin1"}, "_latin1 'x'"},
		{"hex odd digits", &core.Literal{Kind: core.LiteralHex, Value: "F"}, "X'0F'"},
		{"bit", &core.Literal{Kind: core.LiteralBit, Value: "101"}, "b'101'"},
		{"null", &core.Literal{Kind: core.LiteralNull}, "NULL"},
		{"column", &core.ColumnRef{Parts: []string{"t", "c"}}, "`t`.`c`"},
		{"user var", &core.UserVar{Name: "a"}, "@`a`"},
		{"sysvar", &core.SysVar{Name: "sql_mode"}, "@@sql_mode"},
		{"scoped sysvar", &core.SysVar{Name: "sql_mode", Scope: core.ScopeGlobal}, "@@global.sql_mode"},
		{
			"function",
			&core.FuncCall{Schema: "sys", Name: "list_add", Args: []core.Expr{
				&core.SysVar{Name: "sql_mode"},
				&core.Literal{Kind: core.LiteralString, Value: "ANSI_QUOTES"},
			}},
			"`sys`.list_add(@@sql_mode, 'ANSI_QUOTES')",
		},
		{
			"binary",
			&core.BinaryExpr{
				Left:  &core.ColumnRef{Parts: []string{"a"}},
				Op:    token.NE,
				Right: &core.Literal{Kind: core.LiteralNumber, Value: "1"},
			},
			"`a` <> 1",
		},
		{"not", &core.UnaryExpr{Op: token.NOT, Expr: &core.ColumnRef{Parts: []string{"a"}}}, "NOT `a`"},
		{"negate", &core.UnaryExpr{Op: token.MINUS, Expr: &core.Literal{Kind: core.LiteralNumber, Value: "1"}}, "-1"},
		{
			"between",
			&core.BetweenExpr{
				Expr: &core.ColumnRef{Parts: []string{"a"}},
				Not:  true,
				Low:  &core.Literal{Kind: core.LiteralNumber, Value: "1"},
				High: &core.Literal{Kind: core.LiteralNumber, Value: "2"},
			},
			"`a` NOT BETWEEN 1 AND 2",
		},
		{
			"cast",
			&core.CastExpr{Expr: &core.ColumnRef{Parts: []string{"a"}}, Type: &core.DataType{Name: "CHAR", Args: []string{"10"}}},
			"CAST(`a` AS CHAR(10))",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.expr.Serialize(f))
		})
	}
}

func TestSerializeStatements(t *testing.T) {
	f := backtickFormatter{}

	set := &core.SetStmt{Assignments: []*core.Assignment{
		{Target: &core.SysVar{Name: "sql_mode", Scope: core.ScopeSession}, Value: &core.Literal{Kind: core.LiteralString, Value: "ANSI"}},
		{Target: &core.UserVar{Name: "x"}, Value: &core.Literal{Kind: core.LiteralNumber, Value: "1"}},
	}}
	assert.Equal(t, "SET @@session.sql_mode = 'ANSI', @`x` = 1", set.Serialize(f))

	sel := &core.SelectStmt{
		Columns: []*core.SelectColumn{{Expr: &core.StarExpr{}}},
		From:    &core.TableName{Schema: "db", Name: "t", Alias: "x"},
		Where:   &core.IsExpr{Expr: &core.ColumnRef{Parts: []string{"a"}}, Not: true, Value: "NULL"},
		OrderBy: []*core.OrderItem{{Expr: &core.ColumnRef{Parts: []string{"a"}}, Desc: true}},
		Limit:   &core.Limit{Count: &core.Literal{Kind: core.LiteralNumber, Value: "5"}},
	}
	assert.Equal(t, "SELECT * FROM `db`.`t` AS `x` WHERE `a` IS NOT NULL ORDER BY `a` DESC LIMIT 5", sel.Serialize(f))

	del := &core.DeleteStmt{Table: &core.TableName{Name: "t"}}
	assert.Equal(t, "DELETE FROM `t`", del.Serialize(f))

	assert.Equal(t, "DELIMITER $$", (&core.DelimiterStmt{Delimiter: "$$"}).Serialize(f))
}

func TestStmtInfoErrors(t *testing.T) {
	stmt := &core.SelectStmt{}
	assert.Empty(t, stmt.Errors())

	stmt.AddError(nil)
	assert.Empty(t, stmt.Errors())

	stmt.AddError(errors.New("boom"))
	require.Len(t, stmt.Errors(), 1)
	assert.True(t, stmt.HasErrors())
}

func TestKinds(t *testing.T) {
	create := &core.CreateTableStmt{}
	assert.True(t, core.HasKind(create, core.KindDDL))
	assert.True(t, core.HasKind(create, core.KindTable))
	assert.False(t, core.HasKind(create, core.KindQuery))

	assert.Equal(t, []core.Kind{core.KindStatement, core.KindInvalid}, (&core.InvalidStmt{}).Kinds())
	assert.Equal(t, "ddl", core.KindDDL.String())
}

func TestFuncCallIs(t *testing.T) {
	fc := &core.FuncCall{Schema: "SYS", Name: "LIST_ADD"}
	assert.True(t, fc.Is("sys.list_add"))
	assert.False(t, fc.Is("list_add"))

	fc = &core.FuncCall{Name: "Concat"}
	assert.True(t, fc.Is("CONCAT"))
}

func TestWalk(t *testing.T) {
	expr := &core.BinaryExpr{
		Left: &core.FuncCall{Name: "f", Args: []core.Expr{&core.UserVar{Name: "u"}}},
		Op:   token.AND,
		Right: &core.CaseExpr{
			Whens: []*core.WhenClause{{
				Condition: &core.ColumnRef{Parts: []string{"c"}},
				Result:    &core.Literal{Kind: core.LiteralString, Value: "x"},
			}},
		},
	}

	var visited []string
	core.Walk(expr, func(e core.Expr) bool {
		visited = append(visited, fmt.Sprintf("%T", e))
		return true
	})
	assert.Equal(t, []string{
		"*core.BinaryExpr", "*core.FuncCall", "*core.UserVar",
		"*core.CaseExpr", "*core.ColumnRef", "*core.Literal",
	}, visited)
}

func TestSeverityOrder(t *testing.T) {
	assert.Less(t, core.SeverityNotice, core.SeveritySkipNotice)
	assert.Less(t, core.SeveritySkipNotice, core.SeverityError)
	assert.Less(t, core.SeverityError, core.SeverityCritical)

	sev, ok := core.ParseSeverity("Critical")
	assert.True(t, ok)
	assert.Equal(t, core.SeverityCritical, sev)

	_, ok = core.ParseSeverity("warning")
	assert.False(t, ok)
	assert.Equal(t, "skip_notice", core.SeveritySkipNotice.String())
}

func TestSeverityJSON(t *testing.T) {
	in := core.RuleInfo{ID: "SV01", DefaultSeverity: core.SeverityCritical}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"default_severity":"critical"`)

	var out core.RuleInfo
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, core.SeverityCritical, out.DefaultSeverity)

	var sev core.Severity
	require.NoError(t, json.Unmarshal([]byte(`"skip-notice"`), &sev))
	assert.Equal(t, core.SeveritySkipNotice, sev)
	assert.ErrorContains(t, json.Unmarshal([]byte(`"warning"`), &sev), `unknown severity "warning"`)
}
