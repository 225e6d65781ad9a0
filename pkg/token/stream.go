package token

import "strings"

// Context window bounds used when rendering error context.
const (
	ContextBefore = 30
	ContextAfter  = 10
)

// Stream is a cursor over the tokens of one statement.
// It is owned by a single parse call and is not safe for concurrent use.
type Stream struct {
	tokens []Token
	cursor int
	end    Position // position reported once the cursor is past the last token
}

// NewStream creates a stream over tokens. end is the position reported
// when the cursor has consumed every token.
func NewStream(tokens []Token, end Position) *Stream {
	return &Stream{tokens: tokens, end: end}
}

// Tokens returns the underlying token slice. Callers must not modify it.
func (s *Stream) Tokens() []Token {
	return s.tokens
}

// Len returns the number of tokens.
func (s *Stream) Len() int {
	return len(s.tokens)
}

// Cursor returns the index of the current token.
func (s *Stream) Cursor() int {
	return s.cursor
}

// Position returns the source position of the current token.
func (s *Stream) Position() Position {
	if s.cursor < len(s.tokens) {
		return s.tokens[s.cursor].Pos
	}
	return s.end
}

// Get returns the token at index i.
func (s *Stream) Get(i int) (Token, bool) {
	if i < 0 || i >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[i], true
}

// Current returns the token under the cursor, or an EOF token.
func (s *Stream) Current() Token {
	return s.Peek(0)
}

// Peek returns the token n positions after the cursor, or an EOF token.
func (s *Stream) Peek(n int) Token {
	if tok, ok := s.Get(s.cursor + n); ok {
		return tok
	}
	return Token{Type: EOF, Pos: s.end}
}

// Prev returns the token before the cursor, or an EOF token at the start.
func (s *Stream) Prev() Token {
	return s.Peek(-1)
}

// Advance moves the cursor forward and returns the token it moved past.
func (s *Stream) Advance() Token {
	tok := s.Current()
	if s.cursor < len(s.tokens) {
		s.cursor++
	}
	return tok
}

// Reset moves the cursor to an earlier (or later) index.
func (s *Stream) Reset(cursor int) {
	switch {
	case cursor < 0:
		s.cursor = 0
	case cursor > len(s.tokens):
		s.cursor = len(s.tokens)
	default:
		s.cursor = cursor
	}
}

// Done reports whether every token has been consumed.
func (s *Stream) Done() bool {
	return s.cursor >= len(s.tokens)
}

// Slice returns a read-only view of tokens[from:to], clamped to bounds.
func (s *Stream) Slice(from, to int) []Token {
	from = max(from, 0)
	to = min(to, len(s.tokens))
	if from >= to {
		return nil
	}
	return s.tokens[from:to]
}

// Context renders the tokens around cursor for an error message. At most
// ContextBefore tokens precede the marked token and at most ContextAfter
// follow it. Tokens are replayed from their source text.
func (s *Stream) Context(cursor int) string {
	var b strings.Builder

	from := max(cursor-ContextBefore, 0)
	if from > 0 {
		b.WriteString("... ")
	}
	for _, tok := range s.Slice(from, cursor) {
		b.WriteString(tok.Text())
		b.WriteByte(' ')
	}

	b.WriteString(">>>")
	if tok, ok := s.Get(cursor); ok {
		b.WriteString(tok.Text())
	} else {
		b.WriteString("end of input")
	}
	b.WriteString("<<<")

	to := cursor + 1 + ContextAfter
	for _, tok := range s.Slice(cursor+1, to) {
		b.WriteByte(' ')
		b.WriteString(tok.Text())
	}
	if to < len(s.tokens) {
		b.WriteString(" ...")
	}
	return b.String()
}
