// Package parser turns a MySQL/MariaDB script into statements, one at a time.
//
// # Usage
//
//	p := parser.New(script, platform.Default())
//	for {
//	    stmt, ok := p.Next(settings)
//	    if !ok {
//	        break
//	    }
//	    // inspect stmt, update the session behind settings
//	}
//
// Each call to Next reads the SQL mode and delimiter from settings before
// lexing the next statement, so a SET sql_mode or DELIMITER applied between
// calls changes how the rest of the script is tokenized.
//
// # Grammar Overview
//
//	script        → { statement delimiter }
//	statement     → select | insert | update | delete
//	              | create_table | drop_table | create_database | drop_database
//	              | use | set | set_names | set_charset | transaction
//	              | DELIMITER word
//
// See each file for detailed grammar rules for that section.
package parser

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// Settings supplies the session state the lexer depends on.
type Settings interface {
	Mode() sqlmode.Mode
	Delimiter() string
}

// StaticSettings is a Settings that never changes.
type StaticSettings struct {
	SQLMode sqlmode.Mode
	Delim   string
}

// Mode implements Settings.
func (s StaticSettings) Mode() sqlmode.Mode { return s.SQLMode }

// Delimiter implements Settings.
func (s StaticSettings) Delimiter() string {
	if s.Delim == "" {
		return ";"
	}
	return s.Delim
}

// Parser splits a script into statements.
type Parser struct {
	input    string
	platform platform.Platform
	pos      token.Position // start of the unconsumed input
}

// New creates a Parser over script for the given platform.
func New(script string, p platform.Platform) *Parser {
	return &Parser{
		input:    script,
		platform: p,
		pos:      token.Position{Line: 1, Column: 1},
	}
}

// Platform returns the parser's platform.
func (p *Parser) Platform() platform.Platform {
	return p.platform
}

// Next parses the next statement using the current settings. It returns
// false once the script is exhausted. Statements that fail to parse are
// returned as *core.InvalidStmt carrying their errors.
func (p *Parser) Next(s Settings) (core.Stmt, bool) {
	for {
		lex := NewLexer(p.input, p.pos, s.Mode(), s.Delimiter(), p.platform)
		lex.SkipWhitespace()
		start := lex.Position()
		if lex.eof() {
			p.pos = start
			return nil, false
		}

		if stmt, ok := p.delimiterCommand(start); ok {
			return stmt, true
		}

		var tokens []token.Token
		var end token.Position
		terminated := false
		for {
			tok := lex.NextToken()
			if tok.Type == token.EOF || tok.Type == token.DELIMITER {
				end = tok.Pos
				terminated = tok.Type == token.DELIMITER
				break
			}
			tokens = append(tokens, tok)
		}
		p.pos = lex.Position()

		if len(tokens) == 0 {
			if !terminated {
				return nil, false
			}
			continue // empty statement
		}
		return p.parseTokens(tokens, start, end, lex.Errors(), s.Mode()), true
	}
}

// ParseAll parses every statement of script with fixed settings.
func ParseAll(script string, p platform.Platform, s Settings) []core.Stmt {
	parser := New(script, p)
	var stmts []core.Stmt
	for {
		stmt, ok := parser.Next(s)
		if !ok {
			return stmts
		}
		stmts = append(stmts, stmt)
	}
}

// delimiterCommand handles the client-side DELIMITER command, which runs to
// the end of the line instead of to the current delimiter.
func (p *Parser) delimiterCommand(start token.Position) (core.Stmt, bool) {
	rest := p.input[start.Offset:]
	const keyword = "delimiter"
	if len(rest) < len(keyword) || !strings.EqualFold(rest[:len(keyword)], keyword) {
		return nil, false
	}
	if len(rest) > len(keyword) && !isSpace(rest[len(keyword)]) {
		return nil, false
	}

	line := rest
	if i := strings.IndexByte(rest, '\n'); i >= 0 {
		line = rest[:i]
	}
	text := strings.TrimRight(line, " \t\r")
	p.pos = advance(start, line)

	info := core.StmtInfo{
		Loc:  token.Span{Start: start, End: advance(start, text)},
		Text: text,
	}
	fields := strings.Fields(line[len(keyword):])
	if len(fields) == 0 {
		stmt := &core.InvalidStmt{StmtInfo: info}
		stmt.AddError(&LexError{Pos: start, Message: ErrMissingDelimiter})
		return stmt, true
	}
	return &core.DelimiterStmt{StmtInfo: info, Delimiter: fields[0]}, true
}

// advance returns the position reached after reading text from pos.
func advance(pos token.Position, text string) token.Position {
	pos.Offset += len(text)
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		pos.Line += strings.Count(text, "\n")
		pos.Column = len(text) - i
	} else {
		pos.Column += len(text)
	}
	return pos
}

// parseTokens builds the statement for one delimiter-terminated token run.
func (p *Parser) parseTokens(tokens []token.Token, start, end token.Position, lexErrs []*LexError, mode sqlmode.Mode) core.Stmt {
	stream := token.NewStream(tokens, end)
	last := tokens[len(tokens)-1]
	info := core.StmtInfo{
		Loc:  token.Span{Start: start, End: last.End()},
		Text: p.input[start.Offset:last.End().Offset],
	}

	if len(lexErrs) > 0 {
		stmt := &core.InvalidStmt{StmtInfo: info}
		i := 0
		for idx, tok := range tokens {
			if tok.Type != token.ILLEGAL || i >= len(lexErrs) {
				continue
			}
			lexErrs[i].Context = stream.Context(idx)
			stmt.AddError(lexErrs[i])
			i++
		}
		return stmt
	}

	sp := &stmtParser{
		stream:   stream,
		mode:     mode,
		platform: p.platform,
		info:     info,
	}
	stmt := sp.parseStatement()
	if stmt != nil && len(sp.errors) == 0 && !stream.Done() {
		sp.errorf(ErrTrailingTokens, stream.Current())
	}
	if stmt == nil {
		stmt = &core.InvalidStmt{StmtInfo: info}
		if len(sp.errors) == 0 {
			sp.errorf(ErrUnsupportedStatement, stream.Current())
		}
	}
	for _, err := range sp.errors {
		stmt.AddError(err)
	}
	return stmt
}

// stmtParser parses the tokens of a single statement.
type stmtParser struct {
	stream   *token.Stream
	mode     sqlmode.Mode
	platform platform.Platform
	info     core.StmtInfo
	errors   []error
}

// ---------- Token Helpers ----------

func (p *stmtParser) cur() token.Token {
	return p.stream.Current()
}

func (p *stmtParser) peek(n int) token.Token {
	return p.stream.Peek(n)
}

func (p *stmtParser) next() token.Token {
	return p.stream.Advance()
}

// check returns true if the current token is of the given type.
func (p *stmtParser) check(t token.TokenType) bool {
	return p.cur().Type == t
}

// checkPeek returns true if the token after the current one is of the given type.
func (p *stmtParser) checkPeek(t token.TokenType) bool {
	return p.peek(1).Type == t
}

// match consumes the current token if it matches and returns true.
func (p *stmtParser) match(t token.TokenType) bool {
	if p.check(t) {
		p.next()
		return true
	}
	return false
}

// expect consumes the current token if it matches, otherwise adds an error.
func (p *stmtParser) expect(t token.TokenType) bool {
	if p.match(t) {
		return true
	}
	p.errorf(ErrUnexpectedToken, p.cur(), t)
	return false
}

// checkWord reports whether the current token is the unquoted word w,
// either as a keyword or as a plain identifier.
func (p *stmtParser) checkWord(w string) bool {
	tok := p.cur()
	return (tok.Type == token.IDENT || tok.Type.IsKeyword()) && strings.EqualFold(tok.Value, w)
}

// matchWord consumes the current token if it is the word w.
func (p *stmtParser) matchWord(w string) bool {
	if p.checkWord(w) {
		p.next()
		return true
	}
	return false
}

// done reports whether every token has been consumed.
func (p *stmtParser) done() bool {
	return p.stream.Done()
}

// errorf records a parse error at the current token.
func (p *stmtParser) errorf(format string, args ...any) {
	p.errors = append(p.errors, &ParseError{
		Pos:     p.stream.Position(),
		Message: fmt.Sprintf(format, args...),
		Context: p.stream.Context(p.stream.Cursor()),
	})
}

// failed reports whether any error has been recorded.
func (p *stmtParser) failed() bool {
	return len(p.errors) > 0
}

// ---------- Identifier Helpers ----------

// isIdentifier reports whether tok can be used as an unqualified name.
func (p *stmtParser) isIdentifier(tok token.Token) bool {
	switch {
	case tok.Type == token.QUOTED_IDENT:
		return true
	case tok.Type == token.IDENT, tok.Type.IsKeyword():
		return !p.platform.IsReserved(tok.Value)
	}
	return false
}

// identifier consumes a name. Reserved words must be quoted.
func (p *stmtParser) identifier() (string, bool) {
	tok := p.cur()
	if !p.isIdentifier(tok) {
		p.errorf(ErrUnexpectedToken, tok, "identifier")
		return "", false
	}
	p.next()
	return identValue(tok), true
}

// qualifiedPart consumes a name after a dot, where reserved words are allowed.
func (p *stmtParser) qualifiedPart() (string, bool) {
	tok := p.cur()
	if tok.Type == token.IDENT || tok.Type == token.QUOTED_IDENT || tok.Type.IsKeyword() {
		p.next()
		return identValue(tok), true
	}
	p.errorf(ErrUnexpectedToken, tok, "identifier")
	return "", false
}

// identValue returns the name carried by tok in its source spelling.
func identValue(tok token.Token) string {
	if tok.Type.IsKeyword() && tok.Original != "" {
		return tok.Original
	}
	return tok.Value
}

// word consumes a name that may also be written as a string literal or a
// keyword, as in SET NAMES 'utf8mb4' or CHARACTER SET binary.
func (p *stmtParser) word() (string, bool) {
	tok := p.cur()
	switch {
	case tok.Type == token.STRING, tok.Type == token.IDENT, tok.Type == token.QUOTED_IDENT:
		p.next()
		return tok.Value, true
	case tok.Type.IsKeyword():
		p.next()
		return strings.ToLower(tok.Value), true
	}
	p.errorf(ErrUnexpectedToken, tok, "name")
	return "", false
}
