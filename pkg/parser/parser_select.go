package parser

import (
	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// SELECT parsing: select list, FROM clause, joins, ORDER BY, LIMIT.
//
// Grammar:
//
//	select        → select_core [UNION [ALL|DISTINCT] select]
//	select_core   → SELECT [ALL|DISTINCT] select_list
//	                [FROM table_refs] [WHERE expr]
//	                [GROUP BY expr_list] [HAVING expr]
//	                [ORDER BY order_list] [LIMIT limit]
//	              | "(" select ")"
//	select_item   → expr [[AS] alias]
//	table_refs    → table_ref { join }
//	table_ref     → table_name [[AS] alias] | "(" select ")" [AS] alias
//	join          → "," table_ref
//	              | [INNER|CROSS] JOIN table_ref [join_cond]
//	              | (LEFT|RIGHT) [OUTER] JOIN table_ref join_cond
//	              | STRAIGHT_JOIN table_ref [ON expr]
//	join_cond     → ON expr | USING "(" column {"," column} ")"
//	order_item    → expr [ASC|DESC]
//	limit         → expr [OFFSET expr] | expr "," expr

func (p *stmtParser) parseSelectStmt() core.Stmt {
	return p.parseSelect()
}

// parseSelect parses a SELECT, possibly parenthesized, with its UNION chain.
func (p *stmtParser) parseSelect() *core.SelectStmt {
	var stmt *core.SelectStmt
	if p.match(token.LPAREN) {
		stmt = p.parseSelect()
		p.expect(token.RPAREN)
	} else {
		stmt = p.parseSelectCore()
	}

	if p.match(token.UNION) {
		all := p.match(token.ALL)
		if !all {
			p.match(token.DISTINCT)
		}
		if !p.check(token.SELECT) && !p.check(token.LPAREN) {
			p.errorf(ErrUnexpectedToken, p.cur(), token.SELECT)
			return stmt
		}
		tail := stmt
		for tail.Union != nil {
			tail = tail.Union
		}
		tail.UnionAll = all
		tail.Union = p.parseSelect()
	}
	return stmt
}

// parseSelectCore parses a single SELECT block.
func (p *stmtParser) parseSelectCore() *core.SelectStmt {
	stmt := &core.SelectStmt{StmtInfo: p.info}
	if !p.expect(token.SELECT) {
		return stmt
	}

	if p.match(token.DISTINCT) {
		stmt.Distinct = true
	} else {
		p.match(token.ALL)
	}

	stmt.Columns = p.parseSelectList()

	if p.match(token.FROM) {
		stmt.From = p.parseTableRefs()
	}
	if p.match(token.WHERE) {
		stmt.Where = p.parseExpression()
	}
	if p.check(token.GROUP) {
		p.next()
		if p.expect(token.BY) {
			stmt.GroupBy = p.parseExpressionList()
		}
	}
	if p.match(token.HAVING) {
		stmt.Having = p.parseExpression()
	}
	stmt.OrderBy = p.parseOrderBy()
	stmt.Limit = p.parseLimit()
	return stmt
}

// parseSelectList parses the select list.
func (p *stmtParser) parseSelectList() []*core.SelectColumn {
	var cols []*core.SelectColumn
	for {
		expr := p.parseExpression()
		if expr == nil {
			return cols
		}
		col := &core.SelectColumn{Expr: expr}
		col.Alias = p.parseAlias(true)
		cols = append(cols, col)

		if !p.match(token.COMMA) {
			return cols
		}
	}
}

// parseAlias parses an optional [AS] alias. String aliases are only
// allowed for select items.
func (p *stmtParser) parseAlias(allowString bool) string {
	if p.match(token.AS) {
		if allowString && p.check(token.STRING) {
			return p.next().Value
		}
		name, _ := p.identifier()
		return name
	}
	tok := p.cur()
	if allowString && tok.Type == token.STRING {
		p.next()
		return tok.Value
	}
	if p.isIdentifier(tok) {
		p.next()
		return identValue(tok)
	}
	return ""
}

// parseTableRefs parses a table reference followed by any joins.
func (p *stmtParser) parseTableRefs() core.TableRef {
	left := p.parseTableRef()
	if left == nil {
		return nil
	}
	for {
		join := p.parseJoin(left)
		if join == nil {
			return left
		}
		left = join
	}
}

// parseTableRef parses a table name or derived table.
func (p *stmtParser) parseTableRef() core.TableRef {
	if p.check(token.LPAREN) && p.checkPeek(token.SELECT) {
		pos := p.cur().Pos
		p.next()
		sel := p.parseSelect()
		p.expect(token.RPAREN)
		derived := &core.DerivedTable{NodeInfo: core.NodeInfo{Start: pos}, Select: sel}
		derived.Alias = p.parseAlias(false)
		if derived.Alias == "" {
			p.errorf("every derived table must have its own alias")
		}
		return derived
	}

	table := p.parseTableName()
	if table == nil {
		return nil
	}
	table.Alias = p.parseAlias(false)
	return table
}

// parseTableName parses [schema "."] identifier.
func (p *stmtParser) parseTableName() *core.TableName {
	pos := p.cur().Pos
	name, ok := p.identifier()
	if !ok {
		return nil
	}
	table := &core.TableName{NodeInfo: core.NodeInfo{Start: pos}, Name: name}
	if p.match(token.DOT) {
		part, ok := p.qualifiedPart()
		if !ok {
			return nil
		}
		table.Schema = name
		table.Name = part
	}
	return table
}

// parseJoin parses one join onto left, or returns nil if none follows.
func (p *stmtParser) parseJoin(left core.TableRef) core.TableRef {
	join := &core.Join{Left: left}

	switch {
	case p.match(token.COMMA):
		join.Type = core.JoinComma
	case p.match(token.JOIN):
		join.Type = core.JoinInner
	case p.check(token.INNER) && p.checkPeek(token.JOIN):
		p.next()
		p.next()
		join.Type = core.JoinInner
	case p.check(token.CROSS) && p.checkPeek(token.JOIN):
		p.next()
		p.next()
		join.Type = core.JoinCross
	case p.check(token.LEFT) || p.check(token.RIGHT):
		join.Type = core.JoinLeft
		if p.next().Type == token.RIGHT {
			join.Type = core.JoinRight
		}
		p.match(token.OUTER)
		if !p.expect(token.JOIN) {
			return nil
		}
	case p.checkWord("STRAIGHT_JOIN"):
		p.next()
		join.Type = core.JoinStraight
	default:
		return nil
	}

	join.Right = p.parseTableRef()
	if join.Right == nil {
		return nil
	}
	if join.Type == core.JoinComma {
		return join
	}

	switch {
	case p.match(token.ON):
		join.On = p.parseExpression()
	case p.match(token.USING):
		join.Using = p.parseColumnList()
	case join.Type == core.JoinLeft || join.Type == core.JoinRight:
		p.errorf(ErrUnexpectedToken, p.cur(), "ON or USING")
	}
	return join
}

// parseColumnList parses "(" identifier {"," identifier} ")".
func (p *stmtParser) parseColumnList() []string {
	cols, _ := p.parseColumnListPos()
	return cols
}

// parseColumnListPos is parseColumnList that also returns where each name
// starts.
func (p *stmtParser) parseColumnListPos() ([]string, []token.Position) {
	if !p.expect(token.LPAREN) {
		return nil, nil
	}
	var (
		cols []string
		pos  []token.Position
	)
	for {
		at := p.cur().Pos
		name, ok := p.identifier()
		if !ok {
			return cols, pos
		}
		cols = append(cols, name)
		pos = append(pos, at)
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RPAREN)
	return cols, pos
}

// parseOrderBy parses an optional ORDER BY clause.
func (p *stmtParser) parseOrderBy() []*core.OrderItem {
	if !p.check(token.ORDER) {
		return nil
	}
	p.next()
	if !p.expect(token.BY) {
		return nil
	}

	var items []*core.OrderItem
	for {
		expr := p.parseExpression()
		if expr == nil {
			return items
		}
		item := &core.OrderItem{Expr: expr}
		if p.match(token.DESC) {
			item.Desc = true
		} else {
			p.match(token.ASC)
		}
		items = append(items, item)
		if !p.match(token.COMMA) {
			return items
		}
	}
}

// parseLimit parses an optional LIMIT clause.
func (p *stmtParser) parseLimit() *core.Limit {
	if !p.match(token.LIMIT) {
		return nil
	}
	first := p.parseExpression()
	if first == nil {
		return nil
	}
	limit := &core.Limit{Count: first}
	switch {
	case p.match(token.COMMA):
		count := p.parseExpression()
		if count == nil {
			return limit
		}
		limit.Offset = first
		limit.Count = count
	case p.match(token.OFFSET):
		limit.Offset = p.parseExpression()
	}
	return limit
}

// parseExpressionList parses expr {"," expr}.
func (p *stmtParser) parseExpressionList() []core.Expr {
	var exprs []core.Expr
	for {
		expr := p.parseExpression()
		if expr == nil {
			return exprs
		}
		exprs = append(exprs, expr)
		if !p.match(token.COMMA) {
			return exprs
		}
	}
}
