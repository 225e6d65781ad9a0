package parser

import (
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// Statement dispatch and the small session statements.
//
// Grammar:
//
//	use           → USE identifier
//	transaction   → BEGIN [WORK]
//	              | START TRANSACTION [characteristic {"," characteristic}]
//	              | COMMIT [WORK] [tail]
//	              | ROLLBACK [WORK] [tail]
//	drop_database → DROP (DATABASE|SCHEMA) [IF EXISTS] identifier
//	create_db     → CREATE (DATABASE|SCHEMA) [IF NOT EXISTS] identifier
//	                {[DEFAULT] (CHARACTER SET|CHARSET|COLLATE) [=] name}
//
// Statements that are recognized but not modeled (ALTER, SHOW, GRANT, ...)
// are returned as *core.OpaqueStmt.

// opaqueVerbs are statement verbs kept verbatim.
var opaqueVerbs = map[string]bool{
	"ALTER": true, "ANALYZE": true, "CALL": true, "CHANGE": true, "CHECK": true,
	"CHECKSUM": true, "DEALLOCATE": true, "DESCRIBE": true, "DESC": true, "DO": true,
	"EXECUTE": true, "EXPLAIN": true, "FLUSH": true, "GRANT": true, "HANDLER": true,
	"INSTALL": true, "KILL": true, "LOAD": true, "LOCK": true, "OPTIMIZE": true,
	"PREPARE": true, "PURGE": true, "RELEASE": true, "RENAME": true, "REPAIR": true,
	"RESET": true, "REVOKE": true, "SAVEPOINT": true, "SHOW": true, "SIGNAL": true,
	"STOP": true, "TRUNCATE": true, "UNINSTALL": true, "UNLOCK": true, "WITH": true,
	"XA": true,
}

// parseStatement dispatches on the leading keyword. It returns nil when no
// statement could be built.
func (p *stmtParser) parseStatement() core.Stmt {
	tok := p.cur()
	switch tok.Type {
	case token.SELECT, token.LPAREN:
		return p.parseSelectStmt()
	case token.INSERT, token.REPLACE:
		return p.parseInsert()
	case token.UPDATE:
		return p.parseUpdate()
	case token.DELETE:
		return p.parseDelete()
	case token.CREATE:
		switch p.peek(1).Type {
		case token.TABLE, token.TEMPORARY:
			return p.parseCreateTable()
		case token.DATABASE, token.SCHEMA:
			return p.parseCreateDatabase()
		}
		return p.opaque()
	case token.DROP:
		switch p.peek(1).Type {
		case token.TABLE, token.TEMPORARY:
			return p.parseDropTable()
		case token.DATABASE, token.SCHEMA:
			return p.parseDropDatabase()
		}
		return p.opaque()
	case token.USE:
		return p.parseUse()
	case token.SET:
		return p.parseSet()
	case token.BEGIN:
		p.next()
		p.match(token.WORK)
		return &core.TransactionStmt{StmtInfo: p.info, Action: core.TxBegin}
	case token.START:
		if !p.checkPeek(token.TRANSACTION) {
			return p.opaque()
		}
		p.next()
		p.next()
		return &core.TransactionStmt{StmtInfo: p.info, Action: core.TxStart, Characteristics: p.characteristics()}
	case token.COMMIT:
		p.next()
		p.match(token.WORK)
		return &core.TransactionStmt{StmtInfo: p.info, Action: core.TxCommit, Characteristics: p.characteristics()}
	case token.ROLLBACK:
		p.next()
		p.match(token.WORK)
		if p.checkWord("TO") {
			p.stream.Reset(0)
			return p.opaque()
		}
		return &core.TransactionStmt{StmtInfo: p.info, Action: core.TxRollback, Characteristics: p.characteristics()}
	}

	if tok.Type == token.IDENT || tok.Type.IsKeyword() {
		if opaqueVerbs[strings.ToUpper(tok.Value)] {
			return p.opaque()
		}
	}
	p.errorf(ErrUnsupportedStatement, tok)
	return nil
}

// opaque consumes the rest of the statement.
func (p *stmtParser) opaque() core.Stmt {
	verb := strings.ToUpper(p.cur().Value)
	p.stream.Reset(p.stream.Len())
	return &core.OpaqueStmt{StmtInfo: p.info, Verb: verb}
}

// characteristics collects the comma-separated word groups that follow a
// transaction verb, e.g. "WITH CONSISTENT SNAPSHOT", "READ ONLY".
func (p *stmtParser) characteristics() []string {
	var out []string
	var words []string
	for !p.done() {
		tok := p.next()
		if tok.Type == token.COMMA {
			if len(words) > 0 {
				out = append(out, strings.Join(words, " "))
			}
			words = nil
			continue
		}
		words = append(words, strings.ToUpper(tok.Text()))
	}
	if len(words) > 0 {
		out = append(out, strings.Join(words, " "))
	}
	return out
}

// parseUse parses USE identifier.
func (p *stmtParser) parseUse() core.Stmt {
	p.expect(token.USE)
	stmt := &core.UseStmt{StmtInfo: p.info}
	if name, ok := p.identifier(); ok {
		stmt.Schema = name
	}
	return stmt
}

// parseIfExists consumes IF EXISTS.
func (p *stmtParser) parseIfExists() bool {
	if p.check(token.IF) && p.checkPeek(token.EXISTS) {
		p.next()
		p.next()
		return true
	}
	return false
}

// parseIfNotExists consumes IF NOT EXISTS.
func (p *stmtParser) parseIfNotExists() bool {
	if p.check(token.IF) && p.checkPeek(token.NOT) && p.peek(2).Type == token.EXISTS {
		p.next()
		p.next()
		p.next()
		return true
	}
	return false
}

// parseCreateDatabase parses CREATE DATABASE.
func (p *stmtParser) parseCreateDatabase() core.Stmt {
	p.expect(token.CREATE)
	p.next() // DATABASE or SCHEMA

	stmt := &core.CreateDatabaseStmt{StmtInfo: p.info}
	stmt.IfNotExists = p.parseIfNotExists()
	name, ok := p.identifier()
	if !ok {
		return stmt
	}
	stmt.Name = name

	for !p.done() {
		p.match(token.DEFAULT)
		switch {
		case p.check(token.CHARACTER) && p.checkPeek(token.SET):
			p.next()
			p.next()
			p.match(token.EQ)
			stmt.Charset, ok = p.word()
		case p.check(token.CHARSET):
			p.next()
			p.match(token.EQ)
			stmt.Charset, ok = p.word()
		case p.check(token.COLLATE):
			p.next()
			p.match(token.EQ)
			stmt.Collation, ok = p.word()
		default:
			p.errorf(ErrUnexpectedToken, p.cur(), "database option")
			return stmt
		}
		if !ok {
			return stmt
		}
	}
	return stmt
}

// parseDropDatabase parses DROP DATABASE.
func (p *stmtParser) parseDropDatabase() core.Stmt {
	p.expect(token.DROP)
	p.next() // DATABASE or SCHEMA

	stmt := &core.DropDatabaseStmt{StmtInfo: p.info}
	stmt.IfExists = p.parseIfExists()
	if name, ok := p.identifier(); ok {
		stmt.Name = name
	}
	return stmt
}
