package token

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookupKeyword(t *testing.T) {
	tests := []struct {
		word string
		want TokenType
		ok   bool
	}{
		{"select", SELECT, true},
		{"Select", SELECT, true},
		{"persist_only", PERSIST_ONLY, true},
		{"xor", XOR, true},
		{"sql_mode", IDENT, false},
		{"", IDENT, false},
	}

	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			got, ok := LookupKeyword(tt.word)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestTokenTypeString(t *testing.T) {
	assert.Equal(t, "SELECT", SELECT.String())
	assert.Equal(t, "<=>", NULLSAFE_EQ.String())
	assert.Equal(t, "WORK", WORK.String())
	assert.True(t, XOR.IsKeyword())
	assert.False(t, IDENT.IsKeyword())
	assert.False(t, RPAREN.IsKeyword())
}

func TestTokenText(t *testing.T) {
	kw := Token{Type: SELECT, Value: "SELECT", Original: "select"}
	assert.Equal(t, "select", kw.Text())

	ident := Token{Type: IDENT, Value: "col"}
	assert.Equal(t, "col", ident.Text())
}

func TestTokenEnd(t *testing.T) {
	tok := Token{Type: STRING, Value: "a\nbc", Original: "'a\nbc'", Pos: Position{Line: 2, Column: 5, Offset: 10}}
	end := tok.End()
	assert.Equal(t, 3, end.Line)
	assert.Equal(t, 4, end.Column)
	assert.Equal(t, 16, end.Offset)
}

func identTokens(n int) []Token {
	tokens := make([]Token, n)
	for i := range tokens {
		tokens[i] = Token{Type: IDENT, Value: fmt.Sprintf("t%d", i), Pos: Position{Line: 1, Column: i + 1, Offset: i}}
	}
	return tokens
}

func TestStreamCursor(t *testing.T) {
	s := NewStream(identTokens(3), Position{Line: 1, Column: 9, Offset: 8})

	assert.Equal(t, "t0", s.Current().Value)
	assert.Equal(t, "t1", s.Peek(1).Value)
	assert.Equal(t, EOF, s.Prev().Type)

	s.Advance()
	s.Advance()
	assert.Equal(t, 2, s.Cursor())
	assert.Equal(t, "t1", s.Prev().Value)

	s.Advance()
	assert.True(t, s.Done())
	assert.Equal(t, EOF, s.Current().Type)
	assert.Equal(t, 8, s.Position().Offset)

	// advancing past the end is a no-op
	s.Advance()
	assert.Equal(t, 3, s.Cursor())

	s.Reset(1)
	assert.Equal(t, "t1", s.Current().Value)
	s.Reset(-5)
	assert.Equal(t, 0, s.Cursor())

	_, ok := s.Get(10)
	assert.False(t, ok)
}

func TestStreamContextWindow(t *testing.T) {
	s := NewStream(identTokens(50), Position{})
	ctx := s.Context(40)

	before, after, found := strings.Cut(ctx, ">>>t40<<<")
	require.True(t, found, ctx)

	beforeFields := strings.Fields(strings.TrimPrefix(before, "... "))
	afterFields := strings.Fields(strings.TrimSuffix(after, " ..."))
	assert.Len(t, beforeFields, ContextBefore)
	assert.Len(t, afterFields, 9, "only nine tokens follow t40")
	assert.Equal(t, "t10", beforeFields[0])
	assert.True(t, strings.HasPrefix(ctx, "... "))
	assert.False(t, strings.HasSuffix(ctx, "..."))
}

func TestStreamContextRightTruncated(t *testing.T) {
	s := NewStream(identTokens(50), Position{})
	ctx := s.Context(2)

	assert.True(t, strings.HasPrefix(ctx, "t0 t1 >>>t2<<<"))
	assert.True(t, strings.HasSuffix(ctx, "t12 ..."))
	assert.NotContains(t, ctx, "t13")
}

func TestStreamContextEndOfInput(t *testing.T) {
	tokens := []Token{
		{Type: SET, Value: "SET", Original: "set"},
		{Type: IDENT, Value: "x"},
		{Type: EQ, Value: "="},
	}
	s := NewStream(tokens, Position{})
	assert.Equal(t, "set x = >>>end of input<<<", s.Context(3))
}
