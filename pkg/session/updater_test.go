package session_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/normalize"
	"github.com/leapstack-labs/mysqlint/pkg/parser"
	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/session"
	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
)

// parseOne parses sql under the session's current settings.
func parseOne(t *testing.T, s *session.Session, sql string) core.Stmt {
	t.Helper()
	stmts := parser.ParseAll(sql, s.Platform(), s)
	require.Len(t, stmts, 1)
	require.Empty(t, stmts[0].Errors())
	return stmts[0]
}

func apply(t *testing.T, s *session.Session, sql string) error {
	t.Helper()
	return session.NewUpdater(s, nil).Apply(parseOne(t, s, sql))
}

func variable(t *testing.T, s *session.Session, scope session.Scope, name string) string {
	t.Helper()
	v, ok := s.Variable(scope, name)
	require.True(t, ok, "variable %s not set in %s scope", name, scope)
	return v.String()
}

func TestApplyAssignments(t *testing.T) {
	s := newSession(t)
	require.NoError(t, apply(t, s, "SET @a = 1, @@global.max_connections = 10, wait_timeout = 5, my_local = 'x', @Flag = TRUE"))

	assert.Equal(t, "1", variable(t, s, session.ScopeUser, "a"))
	assert.Equal(t, "1", variable(t, s, session.ScopeUser, "flag"))
	assert.Equal(t, "10", variable(t, s, session.ScopeGlobal, "max_connections"))
	assert.Equal(t, "5", variable(t, s, session.ScopeSession, "wait_timeout"))
	assert.Equal(t, "x", variable(t, s, session.ScopeLocal, "my_local"))
	_, ok := s.Variable(session.ScopeSession, "my_local")
	assert.False(t, ok)
}

func TestApplyKeepsUnresolvedExpressions(t *testing.T) {
	s := newSession(t)
	require.NoError(t, apply(t, s, "SET @b = a + 1, @c = -5"))

	v, ok := s.Variable(session.ScopeUser, "b")
	require.True(t, ok)
	assert.False(t, v.Resolved())
	assert.IsType(t, &core.BinaryExpr{}, v.Expr())
	assert.Equal(t, "a + 1", v.String())

	v, _ = s.Variable(session.ScopeUser, "c")
	assert.True(t, v.Resolved())
	assert.Equal(t, "-5", v.String())
}

func TestApplyDefaultRestoresPlatformValue(t *testing.T) {
	s := newSession(t)
	require.NoError(t, apply(t, s, "SET wait_timeout = 5"))
	require.NoError(t, apply(t, s, "SET wait_timeout = DEFAULT"))
	assert.Equal(t, "28800", variable(t, s, session.ScopeSession, "wait_timeout"))
}

func TestApplyPersist(t *testing.T) {
	s := newSession(t)
	require.NoError(t, apply(t, s, "SET PERSIST max_connections = 20"))
	assert.Equal(t, "20", variable(t, s, session.ScopeGlobal, "max_connections"))

	require.NoError(t, apply(t, s, "SET PERSIST_ONLY max_connections = 30"))
	assert.Equal(t, "20", variable(t, s, session.ScopeGlobal, "max_connections"))
}

func TestApplyModeScopes(t *testing.T) {
	s := newSession(t)
	start := s.Mode()

	require.NoError(t, apply(t, s, "SET GLOBAL sql_mode = 'ANSI'"))
	assert.Equal(t, start, s.Mode())
	assert.True(t, s.GlobalMode().Has(sqlmode.ANSI))
	assert.Equal(t, s.GlobalMode().String(), variable(t, s, session.ScopeGlobal, "sql_mode"))

	require.NoError(t, apply(t, s, "SET PERSIST_ONLY sql_mode = 'NO_ZERO_DATE'"))
	assert.True(t, s.GlobalMode().Has(sqlmode.ANSI))

	require.NoError(t, apply(t, s, "SET SESSION sql_mode = 'PIPES_AS_CONCAT'"))
	assert.Equal(t, sqlmode.PipesAsConcat, s.Mode())

	require.NoError(t, apply(t, s, "SET @@local.sql_mode = ''"))
	assert.Equal(t, sqlmode.None, s.Mode())
}

func TestApplySkipsUnknowableModes(t *testing.T) {
	s := newSession(t, session.WithMode(sqlmode.AnsiQuotes))
	require.NoError(t, apply(t, s, `SET sql_mode = CONCAT(@@sql_mode, ',NO_ZERO_DATE')`))
	assert.Equal(t, sqlmode.AnsiQuotes, s.Mode())
}

func TestApplyIsAtomic(t *testing.T) {
	s := newSession(t)
	err := apply(t, s, "SET @a = 5, sql_mode = 'BOGUS'")

	var detect *session.DetectionError
	require.ErrorAs(t, err, &detect)
	var unknown *sqlmode.UnknownFlagError
	assert.ErrorAs(t, err, &unknown)

	_, ok := s.Variable(session.ScopeUser, "a")
	assert.False(t, ok)
	assert.Equal(t, platform.Default().DefaultMode(), s.Mode())
}

func TestApplySetNames(t *testing.T) {
	s := newSession(t)

	require.NoError(t, apply(t, s, "SET NAMES latin1 COLLATE latin1_bin"))
	assert.Equal(t, "latin1", s.Charset())
	assert.Equal(t, "latin1_bin", s.Collation())
	assert.Equal(t, "latin1", variable(t, s, session.ScopeSession, "character_set_client"))
	assert.Equal(t, "latin1_bin", variable(t, s, session.ScopeSession, "collation_connection"))

	require.NoError(t, apply(t, s, "SET NAMES DEFAULT"))
	assert.Equal(t, "utf8mb4", s.Charset())
	assert.Equal(t, "utf8mb4_0900_ai_ci", s.Collation())

	err := apply(t, s, "SET NAMES utf8mb4 COLLATE latin1_bin")
	assert.ErrorContains(t, err, "not valid for character set")
	assert.Equal(t, "utf8mb4", s.Charset())

	assert.ErrorContains(t, apply(t, s, "SET NAMES klingon"), "unknown character set")
}

func TestApplySetCharset(t *testing.T) {
	s := newSession(t)
	require.NoError(t, apply(t, s, "SET CHARACTER SET cp1250"))
	assert.Equal(t, "cp1250", s.Charset())
	assert.Equal(t, "cp1250", variable(t, s, session.ScopeSession, "character_set_results"))

	require.NoError(t, apply(t, s, "SET CHARSET DEFAULT"))
	assert.Equal(t, "utf8mb4", s.Charset())
}

func TestApplyUseAndDelimiter(t *testing.T) {
	s := newSession(t)
	require.NoError(t, apply(t, s, "USE shop"))
	assert.Equal(t, "shop", s.Schema())

	require.NoError(t, apply(t, s, "DELIMITER //"))
	assert.Equal(t, "//", s.Delimiter())

	stmts := parser.ParseAll("SELECT 1; SELECT 2//", s.Platform(), s)
	require.Len(t, stmts, 1)
	assert.Equal(t, "SELECT 1; SELECT 2", stmts[0].Source())
}

func TestApplyIgnoresOtherStatements(t *testing.T) {
	s := newSession(t)
	before := s.State()
	require.NoError(t, apply(t, s, "SELECT 1"))
	assert.Equal(t, before.Mode(), s.Mode())
	assert.Equal(t, before.Schema(), s.Schema())
}

func TestModeFeedbackChangesLexing(t *testing.T) {
	s := newSession(t)
	u := session.NewUpdater(s, nil)
	p := parser.New(`SET sql_mode = 'ANSI_QUOTES'; SELECT "x";`, s.Platform())

	first, ok := p.Next(s)
	require.True(t, ok)
	require.NoError(t, u.Apply(first))
	assert.True(t, s.Mode().Has(sqlmode.AnsiQuotes))

	second, ok := p.Next(s)
	require.True(t, ok)
	sel, ok := second.(*core.SelectStmt)
	require.True(t, ok)
	assert.IsType(t, &core.ColumnRef{}, sel.Columns[0].Expr)
}

func TestUpdaterUsesGivenFormatter(t *testing.T) {
	s := newSession(t)
	f := normalize.New(s.Platform(), s, normalize.Options{QuoteAllNames: true})
	u := session.NewUpdater(s, f)
	require.Same(t, s, u.Session())

	require.NoError(t, u.Apply(parseOne(t, s, "SET @b = a + 1")))
	v, _ := s.Variable(session.ScopeUser, "b")
	assert.Equal(t, "`a` + 1", v.String())

	err := u.Apply(parseOne(t, s, "SET sql_mode = UPPER(x)"))
	var detect *session.DetectionError
	require.True(t, errors.As(err, &detect))
	assert.Equal(t, "UPPER(`x`)", detect.Expr)
}
