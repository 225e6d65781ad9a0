package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/pkg/parser"
	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

func lexAll(input string, mode sqlmode.Mode, p platform.Platform) ([]token.Token, *parser.Lexer) {
	l := parser.NewLexer(input, token.Position{}, mode, ";", p)
	var toks []token.Token
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			return toks, l
		}
		toks = append(toks, tok)
	}
}

type tokSpec struct {
	typ   token.TokenType
	value string
}

func specs(toks []token.Token) []tokSpec {
	out := make([]tokSpec, len(toks))
	for i, t := range toks {
		out[i] = tokSpec{t.Type, t.Value}
	}
	return out
}

func TestLexer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		mode  sqlmode.Mode
		want  []tokSpec
	}{
		{
			name:  "double quotes are strings by default",
			input: `SELECT "x"`,
			want:  []tokSpec{{token.SELECT, "SELECT"}, {token.STRING, "x"}},
		},
		{
			name:  "double quotes are identifiers with ANSI_QUOTES",
			input: `SELECT "x"`,
			mode:  sqlmode.AnsiQuotes,
			want:  []tokSpec{{token.SELECT, "SELECT"}, {token.QUOTED_IDENT, "x"}},
		},
		{
			name:  "backslash escapes",
			input: `'a\nb\'c'`,
			want:  []tokSpec{{token.STRING, "a\nb'c"}},
		},
		{
			name:  "no backslash escapes",
			input: `'a\nb'`,
			mode:  sqlmode.NoBackslashEscapes,
			want:  []tokSpec{{token.STRING, `a\nb`}},
		},
		{
			name:  "like escapes keep the backslash",
			input: `'50\%'`,
			want:  []tokSpec{{token.STRING, `50\%`}},
		},
		{
			name:  "doubled quote",
			input: `'it''s'`,
			want:  []tokSpec{{token.STRING, "it's"}},
		},
		{
			name:  "pipes are OR by default",
			input: "a || b",
			want:  []tokSpec{{token.IDENT, "a"}, {token.OR, "||"}, {token.IDENT, "b"}},
		},
		{
			name:  "pipes concatenate with PIPES_AS_CONCAT",
			input: "a || b",
			mode:  sqlmode.PipesAsConcat,
			want:  []tokSpec{{token.IDENT, "a"}, {token.CONCAT, "||"}, {token.IDENT, "b"}},
		},
		{
			name:  "variables",
			input: "@@session.sql_mode @x @'my var'",
			want: []tokSpec{
				{token.SYS_VAR, "session.sql_mode"},
				{token.USER_VAR, "x"},
				{token.USER_VAR, "my var"},
			},
		},
		{
			name:  "introducers",
			input: "_latin1'x' N'y' _nope",
			want: []tokSpec{
				{token.INTRODUCER, "latin1"}, {token.STRING, "x"},
				{token.INTRODUCER, "utf8"}, {token.STRING, "y"},
				{token.IDENT, "_nope"},
			},
		},
		{
			name:  "hex and bit literals",
			input: "X'4D' 0x4d b'101' 0b11",
			want: []tokSpec{
				{token.HEX, "4D"}, {token.HEX, "4d"},
				{token.BIT, "101"}, {token.BIT, "11"},
			},
		},
		{
			name:  "numbers and digit-led identifiers",
			input: "1.5e3 .5 42 1abc",
			want: []tokSpec{
				{token.NUMBER, "1.5e3"}, {token.NUMBER, ".5"},
				{token.NUMBER, "42"}, {token.IDENT, "1abc"},
			},
		},
		{
			name:  "comments",
			input: "SELECT 1 -- c\n# x\n/* y */ + 2",
			want: []tokSpec{
				{token.SELECT, "SELECT"}, {token.NUMBER, "1"},
				{token.PLUS, "+"}, {token.NUMBER, "2"},
			},
		},
		{
			name:  "double dash without space is two minus signs",
			input: "1--1",
			want: []tokSpec{
				{token.NUMBER, "1"}, {token.MINUS, "-"},
				{token.MINUS, "-"}, {token.NUMBER, "1"},
			},
		},
		{
			name:  "executed versioned comment",
			input: "/*!40101 SET NAMES utf8 */",
			want:  []tokSpec{{token.SET, "SET"}, {token.NAMES, "NAMES"}, {token.IDENT, "utf8"}},
		},
		{
			name:  "skipped versioned comment",
			input: "/*!90000 SELECT */ 1",
			want:  []tokSpec{{token.NUMBER, "1"}},
		},
		{
			name:  "operators",
			input: "<=> <> != <= >= << >> := -> ->> && ! ~",
			want: []tokSpec{
				{token.NULLSAFE_EQ, "<=>"}, {token.NE, "<>"}, {token.NE, "!="},
				{token.LE, "<="}, {token.GE, ">="}, {token.LSHIFT, "<<"},
				{token.RSHIFT, ">>"}, {token.ASSIGN, ":="}, {token.ARROW, "->"},
				{token.DARROW, "->>"}, {token.AND, "&&"}, {token.BANG, "!"},
				{token.TILDE, "~"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, l := lexAll(tt.input, tt.mode, platform.Default())
			assert.Empty(t, l.Errors())
			assert.Equal(t, tt.want, specs(toks))
		})
	}
}

func TestLexerMariaDBComment(t *testing.T) {
	maria, err := platform.Parse("mariadb-10.6")
	require.NoError(t, err)

	toks, _ := lexAll("/*M!100100 x */ y", sqlmode.None, maria)
	assert.Equal(t, []tokSpec{{token.IDENT, "x"}, {token.IDENT, "y"}}, specs(toks))

	toks, _ = lexAll("/*M!100100 x */ y", sqlmode.None, platform.Default())
	assert.Equal(t, []tokSpec{{token.IDENT, "y"}}, specs(toks))
}

func TestLexerErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		message string
	}{
		{"unterminated string", "'abc", parser.ErrUnterminatedString},
		{"unterminated identifier", "`abc", parser.ErrUnterminatedIdent},
		{"unterminated comment", "1 /* abc", parser.ErrUnterminatedComment},
		{"odd hex digits", "X'4'", parser.ErrInvalidHex},
		{"bad bit digits", "b'12'", parser.ErrInvalidBit},
		{"lone colon", "a : b", `unexpected character ":"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, l := lexAll(tt.input, sqlmode.None, platform.Default())
			require.Len(t, l.Errors(), 1)
			assert.Equal(t, tt.message, l.Errors()[0].Message)

			illegal := 0
			for _, tok := range toks {
				if tok.Type == token.ILLEGAL {
					illegal++
				}
			}
			assert.Equal(t, 1, illegal)
		})
	}
}

func TestLexerPositions(t *testing.T) {
	toks, _ := lexAll("SELECT\n  a, `b`", sqlmode.None, platform.Default())
	require.Len(t, toks, 4)

	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, toks[0].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 3, Offset: 9}, toks[1].Pos)
	assert.Equal(t, token.Position{Line: 2, Column: 6, Offset: 12}, toks[3].Pos)
	assert.Equal(t, "`b`", toks[3].Text())
	assert.Equal(t, 15, toks[3].End().Offset)
}

func TestLexerKeywordOriginal(t *testing.T) {
	toks, _ := lexAll("select", sqlmode.None, platform.Default())
	require.Len(t, toks, 1)
	assert.Equal(t, "SELECT", toks[0].Value)
	assert.Equal(t, "select", toks[0].Text())
}

func TestLexerDelimiter(t *testing.T) {
	l := parser.NewLexer("SELECT 1; 2$$", token.Position{}, sqlmode.None, "$$", platform.Default())
	var types []token.TokenType
	for {
		tok := l.NextToken()
		if tok.Type == token.EOF {
			break
		}
		types = append(types, tok.Type)
	}
	assert.Equal(t, []token.TokenType{token.SELECT, token.NUMBER, token.SEMICOLON, token.NUMBER, token.DELIMITER}, types)
}
