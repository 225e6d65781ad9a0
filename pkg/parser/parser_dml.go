package parser

import (
	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// DML parsing: INSERT, REPLACE, UPDATE, DELETE.
//
// Grammar:
//
//	insert        → (INSERT|REPLACE) [modifier] [IGNORE] [INTO] table_name
//	                ( ["(" columns ")"] (VALUES|VALUE) row {"," row}
//	                | ["(" columns ")"] select
//	                | SET assignment {"," assignment} )
//	                [ON DUPLICATE KEY UPDATE assignment {"," assignment}]
//	row           → "(" [expr {"," expr}] ")"
//	update        → UPDATE [modifier] [IGNORE] table_refs SET assignment {"," assignment}
//	                [WHERE expr] [ORDER BY order_list] [LIMIT expr]
//	delete        → DELETE [modifier] [IGNORE] FROM table_name
//	                [WHERE expr] [ORDER BY order_list] [LIMIT expr]
//	assignment    → column "=" expr
//	modifier      → LOW_PRIORITY | DELAYED | HIGH_PRIORITY | QUICK

// skipModifiers consumes priority modifiers that do not change the meaning
// of a statement.
func (p *stmtParser) skipModifiers(words ...string) {
	for {
		matched := false
		for _, w := range words {
			if p.matchWord(w) {
				matched = true
			}
		}
		if !matched {
			return
		}
	}
}

// parseInsert parses INSERT and REPLACE.
func (p *stmtParser) parseInsert() core.Stmt {
	stmt := &core.InsertStmt{StmtInfo: p.info}
	stmt.Replace = p.next().Type == token.REPLACE
	p.skipModifiers("LOW_PRIORITY", "DELAYED", "HIGH_PRIORITY")
	stmt.Ignore = p.match(token.IGNORE)
	p.match(token.INTO)

	stmt.Table = p.parseTableName()
	if stmt.Table == nil {
		return stmt
	}

	if p.check(token.LPAREN) && !p.checkPeek(token.SELECT) {
		stmt.Columns, stmt.ColumnPos = p.parseColumnListPos()
	}

	switch {
	case p.match(token.VALUES), p.match(token.VALUE):
		for {
			row, ok := p.parseRow()
			if !ok {
				return stmt
			}
			stmt.Rows = append(stmt.Rows, row)
			if !p.match(token.COMMA) {
				break
			}
		}
	case p.check(token.SELECT), p.check(token.LPAREN):
		stmt.Select = p.parseSelect()
	case p.match(token.SET):
		stmt.Set = p.parseColumnAssignments()
	default:
		p.errorf(ErrUnexpectedToken, p.cur(), "VALUES, SELECT or SET")
		return stmt
	}

	if p.check(token.ON) && p.checkPeek(token.DUPLICATE) {
		p.next()
		p.next()
		if p.expect(token.KEY) && p.expect(token.UPDATE) {
			stmt.OnDuplicate = p.parseColumnAssignments()
		}
	}
	return stmt
}

// parseRow parses one parenthesized VALUES row.
func (p *stmtParser) parseRow() ([]core.Expr, bool) {
	if !p.expect(token.LPAREN) {
		return nil, false
	}
	row := []core.Expr{}
	if p.match(token.RPAREN) {
		return row, true
	}
	for {
		expr := p.parseExpression()
		if expr == nil {
			return row, false
		}
		row = append(row, expr)
		if !p.match(token.COMMA) {
			break
		}
	}
	return row, p.expect(token.RPAREN)
}

// parseColumnAssignments parses column = expr {"," column = expr}.
func (p *stmtParser) parseColumnAssignments() []*core.ColumnAssignment {
	var out []*core.ColumnAssignment
	for {
		col := p.parseColumnName()
		if col == nil {
			return out
		}
		if !p.expect(token.EQ) {
			return out
		}
		value := p.parseExpression()
		if value == nil {
			return out
		}
		out = append(out, &core.ColumnAssignment{Column: col, Value: value})
		if !p.match(token.COMMA) {
			return out
		}
	}
}

// parseColumnName parses identifier {"." identifier}.
func (p *stmtParser) parseColumnName() *core.ColumnRef {
	pos := p.cur().Pos
	name, ok := p.identifier()
	if !ok {
		return nil
	}
	col := &core.ColumnRef{NodeInfo: core.NodeInfo{Start: pos}, Parts: []string{name}}
	for p.match(token.DOT) {
		part, ok := p.qualifiedPart()
		if !ok {
			return nil
		}
		col.Parts = append(col.Parts, part)
	}
	return col
}

// parseUpdate parses UPDATE.
func (p *stmtParser) parseUpdate() core.Stmt {
	p.expect(token.UPDATE)
	stmt := &core.UpdateStmt{StmtInfo: p.info}
	p.skipModifiers("LOW_PRIORITY")
	stmt.Ignore = p.match(token.IGNORE)

	stmt.Table = p.parseTableRefs()
	if stmt.Table == nil {
		return stmt
	}
	if !p.expect(token.SET) {
		return stmt
	}
	stmt.Set = p.parseColumnAssignments()

	if p.match(token.WHERE) {
		stmt.Where = p.parseExpression()
	}
	stmt.OrderBy = p.parseOrderBy()
	stmt.Limit = p.parseLimit()
	return stmt
}

// parseDelete parses single-table DELETE.
func (p *stmtParser) parseDelete() core.Stmt {
	p.expect(token.DELETE)
	stmt := &core.DeleteStmt{StmtInfo: p.info}
	p.skipModifiers("LOW_PRIORITY", "QUICK")
	stmt.Ignore = p.match(token.IGNORE)

	if !p.expect(token.FROM) {
		return stmt
	}
	stmt.Table = p.parseTableName()
	if stmt.Table == nil {
		return stmt
	}
	if p.check(token.USING) || p.check(token.COMMA) {
		p.errorf("multi-table DELETE is not supported")
		return stmt
	}

	if p.match(token.WHERE) {
		stmt.Where = p.parseExpression()
	}
	stmt.OrderBy = p.parseOrderBy()
	stmt.Limit = p.parseLimit()
	return stmt
}
