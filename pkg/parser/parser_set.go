package parser

import (
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// SET parsing.
//
// Grammar:
//
//	set           → SET assignment {"," assignment}
//	              | SET NAMES (name [COLLATE (name|DEFAULT)] | DEFAULT)
//	              | SET (CHARACTER SET|CHARSET) (name|DEFAULT)
//	assignment    → [scope] target ("="|":=") value
//	scope         → GLOBAL | SESSION | LOCAL | PERSIST | PERSIST_ONLY
//	target        → user_var | sys_var | identifier ["." identifier]
//	value         → expr | ON | ALL | BINARY
//
// A scope keyword applies to the assignment it precedes and to every later
// assignment in the statement that has no scope of its own. SET TRANSACTION,
// SET PASSWORD and the role statements are kept as opaque statements.

var opaqueSetWords = map[string]bool{
	"TRANSACTION": true, "PASSWORD": true, "ROLE": true, "RESOURCE": true, "STATEMENT": true,
}

// parseSet dispatches the SET family.
func (p *stmtParser) parseSet() core.Stmt {
	first := p.peek(1)
	switch {
	case first.Type == token.NAMES:
		p.next()
		p.next()
		return p.parseSetNames()
	case first.Type == token.CHARSET, first.Type == token.CHARACTER && p.peek(2).Type == token.SET:
		p.next()
		if p.next().Type == token.CHARACTER {
			p.next() // SET
		}
		return p.parseSetCharset()
	case first.Type == token.TRANSACTION,
		first.Type == token.DEFAULT && strings.EqualFold(p.peek(2).Value, "ROLE"),
		(first.Type == token.IDENT || first.Type.IsKeyword()) && opaqueSetWords[strings.ToUpper(first.Value)]:
		return p.opaque()
	case isScopeToken(first.Type) && p.peek(2).Type == token.TRANSACTION:
		return p.opaque()
	}

	p.next()
	return p.parseSetAssignments()
}

// parseSetNames parses the rest of SET NAMES.
func (p *stmtParser) parseSetNames() core.Stmt {
	stmt := &core.SetNamesStmt{StmtInfo: p.info}
	if p.match(token.DEFAULT) {
		stmt.Default = true
		return stmt
	}
	cs, ok := p.word()
	if !ok {
		return stmt
	}
	stmt.Charset = cs
	if p.match(token.COLLATE) {
		if p.match(token.DEFAULT) {
			return stmt
		}
		stmt.Collation, _ = p.word()
	}
	return stmt
}

// parseSetCharset parses the value of SET CHARACTER SET.
func (p *stmtParser) parseSetCharset() core.Stmt {
	stmt := &core.SetCharsetStmt{StmtInfo: p.info}
	if p.match(token.DEFAULT) {
		stmt.Default = true
		return stmt
	}
	stmt.Charset, _ = p.word()
	return stmt
}

func isScopeToken(t token.TokenType) bool {
	switch t {
	case token.GLOBAL, token.SESSION, token.LOCAL, token.PERSIST, token.PERSIST_ONLY:
		return true
	}
	return false
}

func scopeOf(t token.TokenType) core.VarScope {
	switch t {
	case token.GLOBAL:
		return core.ScopeGlobal
	case token.SESSION:
		return core.ScopeSession
	case token.LOCAL:
		return core.ScopeLocal
	case token.PERSIST:
		return core.ScopePersist
	case token.PERSIST_ONLY:
		return core.ScopePersistOnly
	}
	return core.ScopeDefault
}

// parseSetAssignments parses the assignment list of a variable SET.
func (p *stmtParser) parseSetAssignments() core.Stmt {
	stmt := &core.SetStmt{StmtInfo: p.info}
	scope := core.ScopeDefault

	for {
		if isScopeToken(p.cur().Type) && !p.checkPeek(token.EQ) && !p.checkPeek(token.ASSIGN) {
			scope = scopeOf(p.next().Type)
			if (scope == core.ScopePersist || scope == core.ScopePersistOnly) && !p.platform.SupportsPersist() {
				p.stream.Reset(p.stream.Cursor() - 1)
				p.errorf(ErrPersistUnsupported, scope, p.platform)
				return stmt
			}
		}

		target := p.parseSetTarget(scope)
		if target == nil {
			return stmt
		}
		if !p.match(token.EQ) && !p.match(token.ASSIGN) {
			p.errorf(ErrUnexpectedToken, p.cur(), "= or :=")
			return stmt
		}
		value := p.parseSetValue()
		if value == nil {
			return stmt
		}
		stmt.Assignments = append(stmt.Assignments, &core.Assignment{Target: target, Value: value})

		if !p.match(token.COMMA) {
			return stmt
		}
	}
}

// parseSetTarget parses the variable being assigned.
func (p *stmtParser) parseSetTarget(scope core.VarScope) core.Expr {
	tok := p.cur()
	pos := core.NodeInfo{Start: tok.Pos}
	switch {
	case tok.Type == token.USER_VAR:
		p.next()
		return &core.UserVar{NodeInfo: pos, Name: tok.Value}
	case tok.Type == token.SYS_VAR:
		p.next()
		v := sysVar(tok)
		if v.Scope == core.ScopeDefault {
			v.Scope = scope
		}
		return v
	case p.isIdentifier(tok):
		p.next()
		name := identValue(tok)
		for p.match(token.DOT) {
			part, ok := p.qualifiedPart()
			if !ok {
				return nil
			}
			name += "." + part
		}
		return &core.SysVar{NodeInfo: pos, Scope: scope, Name: name, Bare: true}
	}
	p.errorf(ErrUnexpectedToken, tok, "variable")
	return nil
}

// parseSetValue parses the assigned value. ON, ALL and BINARY are accepted
// as bare words, as in SET autocommit = ON.
func (p *stmtParser) parseSetValue() core.Expr {
	tok := p.cur()
	switch tok.Type {
	case token.ON, token.ALL, token.BINARY:
		next := p.peek(1).Type
		if next == token.COMMA || next == token.EOF {
			p.next()
			return &core.ColumnRef{NodeInfo: core.NodeInfo{Start: tok.Pos}, Parts: []string{tok.Value}}
		}
	}
	return p.parseExpression()
}

// sysVar splits a SYS_VAR token into scope and name.
func sysVar(tok token.Token) *core.SysVar {
	v := &core.SysVar{NodeInfo: core.NodeInfo{Start: tok.Pos}, Name: tok.Value}
	prefix, name, ok := strings.Cut(tok.Value, ".")
	if !ok {
		return v
	}
	if t, isKw := token.LookupKeyword(prefix); isKw && isScopeToken(t) {
		v.Scope = scopeOf(t)
		v.Name = name
	}
	return v
}
