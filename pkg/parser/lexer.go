package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/leapstack-labs/mysqlint/pkg/charset"
	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// Lexer tokenizes one statement of a script. It reads the SQL mode and the
// delimiter once at construction, so a new Lexer is created for every
// statement and picks up session changes made by the previous one.
type Lexer struct {
	input string
	pos   int  // offset of ch
	ch    byte // current char under examination, 0 at end of input
	line  int
	col   int

	mode      sqlmode.Mode
	delimiter string
	platform  platform.Platform

	// inVersioned is set while lexing the body of an executed /*!NNNNN */ comment.
	inVersioned bool

	errors []*LexError
}

// NewLexer creates a Lexer that starts reading input at start.
func NewLexer(input string, start token.Position, mode sqlmode.Mode, delimiter string, p platform.Platform) *Lexer {
	if !start.IsValid() {
		start = token.Position{Line: 1, Column: 1}
	}
	l := &Lexer{
		input:     input,
		pos:       start.Offset,
		line:      start.Line,
		col:       start.Column,
		mode:      mode,
		delimiter: delimiter,
		platform:  p,
	}
	if l.pos < len(input) {
		l.ch = input[l.pos]
	}
	return l
}

// Position returns the position of the next unread character.
func (l *Lexer) Position() token.Position {
	return token.Position{Line: l.line, Column: l.col, Offset: l.pos}
}

// Errors returns the errors recorded for ILLEGAL tokens.
func (l *Lexer) Errors() []*LexError {
	return l.errors
}

// readChar advances to the next character.
func (l *Lexer) readChar() {
	if l.pos >= len(l.input) {
		return
	}
	if l.ch == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	l.pos++
	if l.pos < len(l.input) {
		l.ch = l.input[l.pos]
	} else {
		l.ch = 0
	}
}

func (l *Lexer) readN(n int) {
	for range n {
		l.readChar()
	}
}

// peekChar returns the character n positions ahead without advancing.
func (l *Lexer) peekChar(n int) byte {
	if l.pos+n >= len(l.input) {
		return 0
	}
	return l.input[l.pos+n]
}

func (l *Lexer) eof() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.input[l.pos:], s)
}

// NextToken returns the next token.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespaceAndComments()

	pos := l.Position()
	if l.eof() {
		return token.Token{Type: token.EOF, Pos: pos}
	}
	if l.delimiter != "" && l.hasPrefix(l.delimiter) {
		l.readN(len(l.delimiter))
		return token.Token{Type: token.DELIMITER, Value: l.delimiter, Pos: pos}
	}

	switch l.ch {
	case '+':
		return l.emit(token.PLUS, 1, pos)
	case '-':
		switch {
		case l.peekChar(1) == '>' && l.peekChar(2) == '>':
			return l.emit(token.DARROW, 3, pos)
		case l.peekChar(1) == '>':
			return l.emit(token.ARROW, 2, pos)
		}
		return l.emit(token.MINUS, 1, pos)
	case '*':
		return l.emit(token.STAR, 1, pos)
	case '/':
		if l.peekChar(1) == '*' {
			// only reached when the comment has no terminator
			return l.illegal(len(l.input)-l.pos, pos, ErrUnterminatedComment)
		}
		return l.emit(token.SLASH, 1, pos)
	case '%':
		return l.emit(token.PERCENT, 1, pos)
	case '=':
		return l.emit(token.EQ, 1, pos)
	case '<':
		switch {
		case l.hasPrefix("<=>"):
			return l.emit(token.NULLSAFE_EQ, 3, pos)
		case l.peekChar(1) == '=':
			return l.emit(token.LE, 2, pos)
		case l.peekChar(1) == '>':
			return l.emit(token.NE, 2, pos)
		case l.peekChar(1) == '<':
			return l.emit(token.LSHIFT, 2, pos)
		}
		return l.emit(token.LT, 1, pos)
	case '>':
		switch l.peekChar(1) {
		case '=':
			return l.emit(token.GE, 2, pos)
		case '>':
			return l.emit(token.RSHIFT, 2, pos)
		}
		return l.emit(token.GT, 1, pos)
	case '!':
		if l.peekChar(1) == '=' {
			return l.emit(token.NE, 2, pos)
		}
		return l.emit(token.BANG, 1, pos)
	case '~':
		return l.emit(token.TILDE, 1, pos)
	case '^':
		return l.emit(token.CARET, 1, pos)
	case '&':
		if l.peekChar(1) == '&' {
			return l.emit(token.AND, 2, pos)
		}
		return l.emit(token.AMP, 1, pos)
	case '|':
		if l.peekChar(1) == '|' {
			if l.mode.Has(sqlmode.PipesAsConcat) {
				return l.emit(token.CONCAT, 2, pos)
			}
			return l.emit(token.OR, 2, pos)
		}
		return l.emit(token.PIPE, 1, pos)
	case ':':
		if l.peekChar(1) == '=' {
			return l.emit(token.ASSIGN, 2, pos)
		}
		return l.illegal(1, pos, fmt.Sprintf(ErrUnexpectedChar, ":"))
	case '.':
		if isDigit(l.peekChar(1)) {
			return l.readNumber(pos)
		}
		return l.emit(token.DOT, 1, pos)
	case ',':
		return l.emit(token.COMMA, 1, pos)
	case ';':
		return l.emit(token.SEMICOLON, 1, pos)
	case '(':
		return l.emit(token.LPAREN, 1, pos)
	case ')':
		return l.emit(token.RPAREN, 1, pos)
	case '?':
		return l.emit(token.PARAM, 1, pos)
	case '\'':
		return l.readString(pos, '\'')
	case '"':
		if l.mode.Has(sqlmode.AnsiQuotes) {
			return l.readQuotedIdent(pos, '"')
		}
		return l.readString(pos, '"')
	case '`':
		return l.readQuotedIdent(pos, '`')
	case '@':
		return l.readVariable(pos)
	}

	switch {
	case isDigit(l.ch):
		return l.readNumber(pos)
	case isIdentStart(l.ch):
		return l.readWord(pos)
	}

	r, size := utf8.DecodeRuneInString(l.input[l.pos:])
	return l.illegal(size, pos, fmt.Sprintf(ErrUnexpectedChar, r))
}

// emit consumes n bytes and returns them as a token of type tt.
func (l *Lexer) emit(tt token.TokenType, n int, pos token.Position) token.Token {
	start := l.pos
	l.readN(n)
	return token.Token{Type: tt, Value: l.input[start:l.pos], Pos: pos}
}

// illegal consumes n bytes as an ILLEGAL token and records the error.
func (l *Lexer) illegal(n int, pos token.Position, msg string) token.Token {
	tok := l.emit(token.ILLEGAL, n, pos)
	l.errors = append(l.errors, &LexError{Pos: pos, Message: msg})
	return tok
}

// illegalFrom turns the text read since start into an ILLEGAL token.
func (l *Lexer) illegalFrom(start int, pos token.Position, msg string) token.Token {
	l.errors = append(l.errors, &LexError{Pos: pos, Message: msg})
	return token.Token{Type: token.ILLEGAL, Value: l.input[start:l.pos], Pos: pos}
}

// SkipWhitespace advances past whitespace and comments.
func (l *Lexer) SkipWhitespace() {
	l.skipWhitespaceAndComments()
}

// skipWhitespaceAndComments skips whitespace, comments, and the markers of
// executed versioned comments.
func (l *Lexer) skipWhitespaceAndComments() {
	for !l.eof() {
		switch {
		case isSpace(l.ch):
			l.readChar()
		case l.ch == '#':
			l.skipLineComment()
		case l.ch == '-' && l.peekChar(1) == '-' && (isSpace(l.peekChar(2)) || l.pos+2 >= len(l.input)):
			l.skipLineComment()
		case l.inVersioned && l.ch == '*' && l.peekChar(1) == '/':
			l.readN(2)
			l.inVersioned = false
		case l.ch == '/' && l.peekChar(1) == '*':
			if !l.skipBlockComment() {
				return
			}
		default:
			return
		}
	}
}

func (l *Lexer) skipLineComment() {
	for !l.eof() && l.ch != '\n' {
		l.readChar()
	}
}

// skipBlockComment consumes a /* */ comment, or just the opening marker of
// a versioned comment whose body should be executed. It returns false when
// the comment is unterminated, leaving the input untouched.
func (l *Lexer) skipBlockComment() bool {
	end := strings.Index(l.input[l.pos+2:], "*/")
	if end < 0 {
		return false
	}
	if n, ok := l.versionedPrefix(); ok {
		l.readN(n)
		l.inVersioned = true
		return true
	}
	l.readN(2 + end + 2)
	return true
}

// versionedPrefix reports whether the comment at the cursor is a versioned
// comment the platform executes, and the length of its opening marker.
func (l *Lexer) versionedPrefix() (int, bool) {
	rest := l.input[l.pos+2:]
	n := 2
	mariaOnly := false
	switch {
	case strings.HasPrefix(rest, "!"):
		n++
	case strings.HasPrefix(rest, "M!"):
		mariaOnly = true
		n += 2
	default:
		return 0, false
	}

	digits := 0
	for digits < 6 && l.pos+n+digits < len(l.input) && isDigit(l.input[l.pos+n+digits]) {
		digits++
	}
	if digits == 0 {
		return n, !mariaOnly || l.platform.IsMariaDB()
	}
	version, _ := strconv.Atoi(l.input[l.pos+n : l.pos+n+digits])
	return n + digits, l.platform.SupportsVersionedComment(version, mariaOnly)
}

// readString reads a string literal enclosed in quote. Backslash escapes
// are honored unless NO_BACKSLASH_ESCAPES is set.
func (l *Lexer) readString(pos token.Position, quote byte) token.Token {
	start := l.pos
	value, ok := l.readQuoted(quote, !l.mode.Has(sqlmode.NoBackslashEscapes))
	if !ok {
		return l.illegalFrom(start, pos, ErrUnterminatedString)
	}
	return l.token(token.STRING, value, start, pos)
}

// readQuotedIdent reads a backtick or ANSI double-quoted identifier.
func (l *Lexer) readQuotedIdent(pos token.Position, quote byte) token.Token {
	start := l.pos
	value, ok := l.readQuoted(quote, false)
	if !ok {
		return l.illegalFrom(start, pos, ErrUnterminatedIdent)
	}
	return l.token(token.QUOTED_IDENT, value, start, pos)
}

// token builds a token whose raw text is input[start:l.pos].
func (l *Lexer) token(tt token.TokenType, value string, start int, pos token.Position) token.Token {
	tok := token.Token{Type: tt, Value: value, Pos: pos}
	if raw := l.input[start:l.pos]; raw != value {
		tok.Original = raw
	}
	return tok
}

// readQuoted reads a quoted body. A doubled quote stands for itself.
func (l *Lexer) readQuoted(quote byte, escapes bool) (string, bool) {
	l.readChar() // opening quote

	var b strings.Builder
	for {
		if l.eof() {
			return b.String(), false
		}
		switch {
		case l.ch == quote:
			if l.peekChar(1) != quote {
				l.readChar()
				return b.String(), true
			}
			b.WriteByte(quote)
			l.readN(2)
		case escapes && l.ch == '\\':
			l.readChar()
			if l.eof() {
				return b.String(), false
			}
			b.WriteString(unescape(l.ch))
			l.readChar()
		default:
			b.WriteByte(l.ch)
			l.readChar()
		}
	}
}

// unescape maps the character after a backslash to its value.
func unescape(c byte) string {
	switch c {
	case '0':
		return "\x00"
	case 'b':
		return "\b"
	case 'n':
		return "\n"
	case 'r':
		return "\r"
	case 't':
		return "\t"
	case 'Z':
		return "\x1a"
	case '%', '_':
		// kept escaped for LIKE patterns
		return "\\" + string(c)
	}
	return string(c)
}

// readNumber reads an integer, decimal, or float literal, or a 0x / 0b literal.
func (l *Lexer) readNumber(pos token.Position) token.Token {
	start := l.pos

	if l.ch == '0' && (l.peekChar(1) == 'x' || l.peekChar(1) == 'b') {
		base := l.peekChar(1)
		l.readN(2)
		digitStart := l.pos
		for (base == 'x' && isHexDigit(l.ch)) || (base == 'b' && (l.ch == '0' || l.ch == '1')) {
			l.readChar()
		}
		if l.pos > digitStart && !l.atIdentChar() {
			tt := token.HEX
			if base == 'b' {
				tt = token.BIT
			}
			return l.token(tt, l.input[digitStart:l.pos], start, pos)
		}
		// 0xyz is an identifier
		l.readIdentChars()
		return token.Token{Type: token.IDENT, Value: l.input[start:l.pos], Pos: pos}
	}

	for isDigit(l.ch) {
		l.readChar()
	}
	if l.atIdentChar() && !l.atExponent() {
		// identifiers may begin with a digit
		l.readIdentChars()
		return token.Token{Type: token.IDENT, Value: l.input[start:l.pos], Pos: pos}
	}
	if l.ch == '.' {
		l.readChar()
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if l.atExponent() {
		l.readN(2)
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	return token.Token{Type: token.NUMBER, Value: l.input[start:l.pos], Pos: pos}
}

func (l *Lexer) atExponent() bool {
	if l.ch != 'e' && l.ch != 'E' {
		return false
	}
	next := l.peekChar(1)
	return isDigit(next) || ((next == '+' || next == '-') && isDigit(l.peekChar(2)))
}

func (l *Lexer) readIdentChars() {
	for l.atIdentChar() {
		l.readChar()
	}
}

// atIdentChar reports whether the current character continues a name.
// A delimiter such as $$ ends the name even though $ is a name character.
func (l *Lexer) atIdentChar() bool {
	return isIdentChar(l.ch) && (l.delimiter == "" || !l.hasPrefix(l.delimiter))
}

// readWord reads an identifier, keyword, charset introducer, or an
// X'..' / B'..' / N'..' literal prefix.
func (l *Lexer) readWord(pos token.Position) token.Token {
	start := l.pos
	l.readIdentChars()
	word := l.input[start:l.pos]

	if l.ch == '\'' && len(word) == 1 {
		switch word {
		case "x", "X":
			return l.readPrefixedLiteral(start, pos, token.HEX)
		case "b", "B":
			return l.readPrefixedLiteral(start, pos, token.BIT)
		case "n", "N":
			return token.Token{Type: token.INTRODUCER, Value: "utf8", Original: word, Pos: pos}
		}
	}

	if len(word) > 1 && word[0] == '_' {
		if cs, ok := charset.Lookup(word[1:]); ok {
			return token.Token{Type: token.INTRODUCER, Value: cs.Name, Original: word, Pos: pos}
		}
	}

	if tt, ok := token.LookupKeyword(word); ok {
		return l.token(tt, strings.ToUpper(word), start, pos)
	}
	return token.Token{Type: token.IDENT, Value: word, Pos: pos}
}

// readPrefixedLiteral reads the quoted part of X'..' or B'..'.
func (l *Lexer) readPrefixedLiteral(start int, pos token.Position, tt token.TokenType) token.Token {
	body, ok := l.readQuoted('\'', false)
	if !ok {
		return l.illegalFrom(start, pos, ErrUnterminatedString)
	}
	if tt == token.HEX {
		if len(body)%2 != 0 || strings.IndexFunc(body, func(r rune) bool { return r > unicode.MaxASCII || !isHexDigit(byte(r)) }) >= 0 {
			return l.illegalFrom(start, pos, ErrInvalidHex)
		}
	} else if strings.Trim(body, "01") != "" {
		return l.illegalFrom(start, pos, ErrInvalidBit)
	}
	return l.token(tt, body, start, pos)
}

// readVariable reads @user_var, @'quoted var', or @@[scope.]system_var.
func (l *Lexer) readVariable(pos token.Position) token.Token {
	start := l.pos

	if l.peekChar(1) == '@' {
		l.readN(2)
		nameStart := l.pos
		for l.atIdentChar() || l.ch == '.' {
			l.readChar()
		}
		if l.pos == nameStart {
			return l.illegalFrom(start, pos, fmt.Sprintf(ErrUnexpectedChar, "@@"))
		}
		return l.token(token.SYS_VAR, l.input[nameStart:l.pos], start, pos)
	}

	l.readChar()
	switch l.ch {
	case '\'', '"', '`':
		name, ok := l.readQuoted(l.ch, false)
		if !ok {
			return l.illegalFrom(start, pos, ErrUnterminatedString)
		}
		return l.token(token.USER_VAR, name, start, pos)
	}
	nameStart := l.pos
	for l.atIdentChar() || l.ch == '.' {
		l.readChar()
	}
	if l.pos == nameStart {
		return l.illegalFrom(start, pos, fmt.Sprintf(ErrUnexpectedChar, "@"))
	}
	return l.token(token.USER_VAR, l.input[nameStart:l.pos], start, pos)
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || ('a' <= ch && ch <= 'f') || ('A' <= ch && ch <= 'F')
}

func isIdentStart(ch byte) bool {
	return ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z') || ch == '_' || ch == '$' || ch >= utf8.RuneSelf
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
