package format_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/format"
	"github.com/leapstack-labs/mysqlint/pkg/normalize"
	"github.com/leapstack-labs/mysqlint/pkg/parser"
	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/session"
	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
)

func formatter(mode sqlmode.Mode) core.Formatter {
	return normalize.New(platform.Default(), normalize.FixedMode(mode), normalize.Options{})
}

func parseOne(t *testing.T, sql string) core.Stmt {
	t.Helper()
	stmts := parser.ParseAll(sql, platform.Default(), parser.StaticSettings{})
	require.Len(t, stmts, 1)
	return stmts[0]
}

// parseScript parses sql the way the pipeline does, feeding each statement
// back into the session so DELIMITER takes effect.
func parseScript(t *testing.T, sql string) []core.Stmt {
	t.Helper()
	sess, err := session.New(platform.Default())
	require.NoError(t, err)
	u := session.NewUpdater(sess, nil)

	p := parser.New(sql, platform.Default())
	var stmts []core.Stmt
	for {
		stmt, ok := p.Next(sess)
		if !ok {
			return stmts
		}
		if len(stmt.Errors()) == 0 {
			require.NoError(t, u.Apply(stmt))
		}
		stmts = append(stmts, stmt)
	}
}

func TestStatement(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		mode     sqlmode.Mode
		expected string
	}{
		{
			name:     "normalizes keywords and spacing",
			input:    "select  a,b   from t where a>1",
			expected: "SELECT a, b FROM t WHERE a > 1",
		},
		{
			name:     "quotes reserved names",
			input:    "SELECT `order` FROM `select`",
			expected: "SELECT `order` FROM `select`",
		},
		{
			name:     "ansi quotes",
			input:    `SELECT "order" FROM t`,
			mode:     sqlmode.AnsiQuotes,
			expected: `SELECT "order" FROM t`,
		},
		{
			name:     "double quoted string without ansi quotes",
			input:    `SELECT "it's"`,
			expected: `SELECT 'it''s'`,
		},
		{
			name:     "insert",
			input:    "insert into t (a, b) values (1, 'x'), (2, 'y')",
			expected: "INSERT INTO t (a, b) VALUES (1, 'x'), (2, 'y')",
		},
		{
			name:     "set statement",
			input:    "set @@session.sql_mode = 'ANSI_QUOTES'",
			expected: "SET @@session.sql_mode = 'ANSI_QUOTES'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmts := parser.ParseAll(tt.input, platform.Default(), parser.StaticSettings{SQLMode: tt.mode})
			require.Len(t, stmts, 1)
			require.Empty(t, stmts[0].Errors())
			assert.Equal(t, tt.expected, format.Statement(stmts[0], formatter(tt.mode)))
		})
	}
}

func TestStatementKeepsSourceOfInvalidStatements(t *testing.T) {
	stmt := parseOne(t, "SELECT FROM WHERE")
	require.NotEmpty(t, stmt.Errors())

	f := formatter(sqlmode.None)
	assert.Equal(t, "SELECT FROM WHERE", format.Statement(stmt, f))
	assert.Equal(t, "SELECT FROM WHERE", format.Pretty(stmt, f))
}

func TestPretty(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:  "select",
			input: "select a, b as x from t where a > 1 order by a desc limit 10",
			expected: `SELECT
  a,
  b AS x
FROM t
WHERE
  a > 1
ORDER BY
  a DESC
LIMIT 10`,
		},
		{
			name:  "group by and having",
			input: "SELECT DISTINCT a, COUNT(*) FROM t GROUP BY a HAVING COUNT(*) > 1",
			expected: `SELECT DISTINCT
  a,
  COUNT(*)
FROM t
GROUP BY
  a
HAVING
  COUNT(*) > 1`,
		},
		{
			name:  "union",
			input: "SELECT a FROM t UNION ALL SELECT b FROM u",
			expected: `SELECT
  a
FROM t
UNION ALL
SELECT
  b
FROM u`,
		},
		{
			name:  "insert values",
			input: "INSERT INTO t (a, b) VALUES (1, 2), (3, 4) ON DUPLICATE KEY UPDATE b = 5",
			expected: `INSERT INTO t (a, b)
VALUES
  (1, 2),
  (3, 4)
ON DUPLICATE KEY UPDATE
  b = 5`,
		},
		{
			name:  "update",
			input: "UPDATE t SET a = 1, b = 2 WHERE c = 3 LIMIT 1",
			expected: `UPDATE t
SET
  a = 1,
  b = 2
WHERE
  c = 3
LIMIT 1`,
		},
		{
			name:  "delete",
			input: "DELETE FROM t WHERE a = 1",
			expected: `DELETE FROM t
WHERE
  a = 1`,
		},
		{
			name:     "other statements stay on one line",
			input:    "use db",
			expected: "USE db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stmt := parseOne(t, tt.input)
			require.Empty(t, stmt.Errors())
			assert.Equal(t, tt.expected, format.Pretty(stmt, formatter(sqlmode.None)))
		})
	}
}

func TestScript(t *testing.T) {
	f := formatter(sqlmode.None)

	tests := []struct {
		name     string
		input    string
		opts     format.Options
		expected string
	}{
		{
			name:     "terminates statements",
			input:    "select 1; select 2",
			expected: "SELECT 1;\nSELECT 2;\n",
		},
		{
			name:     "keeps delimiter changes",
			input:    "DELIMITER //\nSELECT 1//\nDELIMITER ;\nSELECT 2;",
			expected: "DELIMITER //\nSELECT 1//\nDELIMITER ;\nSELECT 2;\n",
		},
		{
			name:     "drops redundant delimiter commands",
			input:    "DELIMITER ;\nSELECT 1;",
			expected: "SELECT 1;\n",
		},
		{
			name:     "switches delimiter around text containing it",
			input:    "SELECT 'a;b'",
			expected: "DELIMITER $$\nSELECT 'a;b'$$\nDELIMITER ;\n",
		},
		{
			name:     "pretty",
			input:    "SELECT a FROM t",
			opts:     format.Options{Pretty: true},
			expected: "SELECT\n  a\nFROM t;\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, format.Script(parseScript(t, tt.input), f, tt.opts))
		})
	}
}
