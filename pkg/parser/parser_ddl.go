package parser

import (
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// DDL parsing: CREATE TABLE, DROP TABLE, data types.
//
// Grammar:
//
//	create_table  → CREATE [TEMPORARY] TABLE [IF NOT EXISTS] table_name
//	                ( LIKE table_name
//	                | "(" definition {"," definition} ")" {table_option} )
//	definition    → column_def | constraint
//	column_def    → identifier data_type {column_attr}
//	column_attr   → [NOT] NULL | DEFAULT expr | ON UPDATE expr | AUTO_INCREMENT
//	              | [PRIMARY] KEY | UNIQUE [KEY] | COMMENT string
//	              | CHARACTER SET name | CHARSET name | COLLATE name
//	constraint    → [CONSTRAINT [name]] PRIMARY KEY key_parts
//	              | [CONSTRAINT [name]] UNIQUE [KEY|INDEX] [name] key_parts
//	              | (KEY|INDEX) [name] key_parts
//	table_option  → [DEFAULT] name ["="] value [","]
//	data_type     → name ["(" arg {"," arg} ")"] {UNSIGNED|SIGNED|ZEROFILL}
//	                [CHARACTER SET name] [COLLATE name]
//	drop_table    → DROP [TEMPORARY] TABLE [IF EXISTS] table_name {"," table_name}
//	                [RESTRICT|CASCADE]

// parseCreateTable parses CREATE TABLE.
func (p *stmtParser) parseCreateTable() core.Stmt {
	p.expect(token.CREATE)
	stmt := &core.CreateTableStmt{StmtInfo: p.info}
	stmt.Temporary = p.match(token.TEMPORARY)
	if !p.expect(token.TABLE) {
		return stmt
	}
	stmt.IfNotExists = p.parseIfNotExists()

	stmt.Table = p.parseTableName()
	if stmt.Table == nil {
		return stmt
	}

	if p.match(token.LIKE) {
		stmt.Like = p.parseTableName()
		return stmt
	}
	if p.check(token.LPAREN) && p.checkPeek(token.LIKE) {
		p.next()
		p.next()
		stmt.Like = p.parseTableName()
		p.expect(token.RPAREN)
		return stmt
	}

	if !p.expect(token.LPAREN) {
		return stmt
	}
	for {
		if !p.parseDefinition(stmt) {
			return stmt
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	if !p.expect(token.RPAREN) {
		return stmt
	}

	p.parseTableOptions(stmt)
	return stmt
}

// parseDefinition parses one column or constraint of CREATE TABLE.
func (p *stmtParser) parseDefinition(stmt *core.CreateTableStmt) bool {
	if p.check(token.PRIMARY) || p.check(token.UNIQUE) || p.check(token.KEY) ||
		p.check(token.INDEX) || p.checkWord("CONSTRAINT") {
		c := p.parseConstraint()
		if c == nil {
			return false
		}
		stmt.Constraints = append(stmt.Constraints, c)
		return true
	}

	col := p.parseColumnDef()
	if col == nil {
		return false
	}
	stmt.Columns = append(stmt.Columns, col)
	return true
}

// parseConstraint parses a key definition.
func (p *stmtParser) parseConstraint() *core.TableConstraint {
	c := &core.TableConstraint{}
	if p.matchWord("CONSTRAINT") {
		if p.isIdentifier(p.cur()) {
			c.Name, _ = p.identifier()
		}
	}

	switch {
	case p.match(token.PRIMARY):
		if !p.expect(token.KEY) {
			return nil
		}
		c.Type = "PRIMARY KEY"
	case p.match(token.UNIQUE):
		if !p.match(token.KEY) {
			p.match(token.INDEX)
		}
		c.Type = "UNIQUE KEY"
	case p.match(token.KEY), p.match(token.INDEX):
		c.Type = "KEY"
	default:
		p.errorf(ErrUnexpectedToken, p.cur(), "PRIMARY KEY, UNIQUE or KEY")
		return nil
	}

	if p.isIdentifier(p.cur()) {
		c.Name, _ = p.identifier()
	}
	c.Columns = p.parseKeyParts()
	if c.Columns == nil {
		return nil
	}
	return c
}

// parseKeyParts parses "(" column ["(" length ")"] [ASC|DESC] {"," ...} ")".
func (p *stmtParser) parseKeyParts() []string {
	if !p.expect(token.LPAREN) {
		return nil
	}
	var cols []string
	for {
		name, ok := p.identifier()
		if !ok {
			return nil
		}
		cols = append(cols, name)
		if p.match(token.LPAREN) {
			if !p.expect(token.NUMBER) || !p.expect(token.RPAREN) {
				return nil
			}
		}
		if !p.match(token.ASC) {
			p.match(token.DESC)
		}
		if !p.match(token.COMMA) {
			break
		}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return cols
}

// parseColumnDef parses a column definition.
func (p *stmtParser) parseColumnDef() *core.ColumnDef {
	at := p.cur().Pos
	name, ok := p.identifier()
	if !ok {
		return nil
	}
	typ := p.parseDataType()
	if typ == nil {
		return nil
	}
	col := &core.ColumnDef{Name: name, NamePos: at, Type: typ}

	for !p.check(token.COMMA) && !p.check(token.RPAREN) && !p.done() {
		switch {
		case p.check(token.NOT) && p.checkPeek(token.NULL):
			p.next()
			p.next()
			col.Null = core.NotNullable
		case p.match(token.NULL):
			col.Null = core.Nullable
		case p.match(token.DEFAULT):
			col.Default = p.parseExpressionWithPrecedence(precUnary)
			if col.Default == nil {
				return nil
			}
		case p.check(token.ON) && p.checkPeek(token.UPDATE):
			p.next()
			p.next()
			col.OnUpdate = p.parseExpressionWithPrecedence(precUnary)
			if col.OnUpdate == nil {
				return nil
			}
		case p.matchWord("AUTO_INCREMENT"):
			col.AutoIncrement = true
		case p.match(token.PRIMARY):
			if !p.expect(token.KEY) {
				return nil
			}
			col.PrimaryKey = true
		case p.match(token.KEY):
			col.PrimaryKey = true
		case p.match(token.UNIQUE):
			p.match(token.KEY)
			col.Unique = true
		case p.matchWord("COMMENT"):
			if !p.check(token.STRING) {
				p.errorf(ErrUnexpectedToken, p.cur(), token.STRING)
				return nil
			}
			col.Comment = p.next().Value
		case p.checkCharsetClause():
			if typ.Charset, ok = p.parseCharsetClause(); !ok {
				return nil
			}
		case p.match(token.COLLATE):
			if typ.Collation, ok = p.word(); !ok {
				return nil
			}
		default:
			p.errorf(ErrUnexpectedToken, p.cur(), "column attribute")
			return nil
		}
	}
	return col
}

// checkCharsetClause reports whether CHARACTER SET or CHARSET follows.
func (p *stmtParser) checkCharsetClause() bool {
	return p.check(token.CHARSET) || (p.check(token.CHARACTER) && p.checkPeek(token.SET))
}

// parseCharsetClause parses (CHARACTER SET | CHARSET) name.
func (p *stmtParser) parseCharsetClause() (string, bool) {
	if p.match(token.CHARACTER) {
		p.expect(token.SET)
	} else {
		p.expect(token.CHARSET)
	}
	return p.word()
}

// parseDataType parses a column or CAST target type.
func (p *stmtParser) parseDataType() *core.DataType {
	tok := p.cur()
	if tok.Type != token.IDENT && !tok.Type.IsKeyword() {
		p.errorf(ErrUnexpectedToken, tok, "data type")
		return nil
	}
	p.next()
	typ := &core.DataType{Name: strings.ToUpper(tok.Value)}

	// multi-word type names
	switch typ.Name {
	case "DOUBLE":
		if p.matchWord("PRECISION") {
			typ.Name = "DOUBLE PRECISION"
		}
	case "SIGNED", "UNSIGNED":
		if p.matchWord("INTEGER") || p.matchWord("INT") {
			typ.Name += " INTEGER"
		}
	}

	if p.match(token.LPAREN) {
		for {
			arg := p.cur()
			switch arg.Type {
			case token.NUMBER, token.STRING:
				p.next()
				typ.Args = append(typ.Args, arg.Text())
			default:
				p.errorf(ErrUnexpectedToken, arg, "type argument")
				return nil
			}
			if !p.match(token.COMMA) {
				break
			}
		}
		if !p.expect(token.RPAREN) {
			return nil
		}
	}

	for {
		switch {
		case p.matchWord("UNSIGNED"):
			typ.Unsigned = true
		case p.matchWord("SIGNED"):
		case p.matchWord("ZEROFILL"):
			typ.Zerofill = true
		default:
			if p.checkCharsetClause() {
				cs, ok := p.parseCharsetClause()
				if !ok {
					return nil
				}
				typ.Charset = cs
			}
			if p.match(token.COLLATE) {
				coll, ok := p.word()
				if !ok {
					return nil
				}
				typ.Collation = coll
			}
			return typ
		}
	}
}

// parseTableOptions parses the options after the column list.
func (p *stmtParser) parseTableOptions(stmt *core.CreateTableStmt) {
	for !p.done() {
		p.match(token.DEFAULT)

		var name string
		switch {
		case p.checkCharsetClause():
			if p.next().Type == token.CHARACTER {
				p.next() // SET
			}
			name = "CHARACTER SET"
		case p.match(token.COLLATE):
			name = "COLLATE"
		case p.cur().Type == token.IDENT || p.cur().Type.IsKeyword():
			name = strings.ToUpper(p.next().Value)
		default:
			p.errorf(ErrUnexpectedToken, p.cur(), "table option")
			return
		}

		p.match(token.EQ)
		val := p.cur()
		switch {
		case val.Type == token.STRING:
			stmt.Options = append(stmt.Options, &core.TableOption{Name: name, Value: val.Value, Quoted: true})
		case val.Type == token.IDENT, val.Type == token.QUOTED_IDENT, val.Type == token.NUMBER, val.Type.IsKeyword():
			stmt.Options = append(stmt.Options, &core.TableOption{Name: name, Value: val.Value})
		default:
			p.errorf(ErrUnexpectedToken, val, "option value")
			return
		}
		p.next()
		p.match(token.COMMA)
	}
}

// parseDropTable parses DROP TABLE.
func (p *stmtParser) parseDropTable() core.Stmt {
	p.expect(token.DROP)
	stmt := &core.DropTableStmt{StmtInfo: p.info}
	stmt.Temporary = p.match(token.TEMPORARY)
	if !p.expect(token.TABLE) {
		return stmt
	}
	stmt.IfExists = p.parseIfExists()

	for {
		table := p.parseTableName()
		if table == nil {
			return stmt
		}
		stmt.Tables = append(stmt.Tables, table)
		if !p.match(token.COMMA) {
			break
		}
	}

	switch {
	case p.match(token.RESTRICT):
		stmt.Behavior = "RESTRICT"
	case p.match(token.CASCADE):
		stmt.Behavior = "CASCADE"
	}
	return stmt
}
