package parser

import (
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// Primary expression parsing: literals, variables, column refs, function calls.
//
// Grammar:
//
//	primary       → literal | variable | column_ref | func_call | paren_expr
//	              | case_expr | cast_expr | DEFAULT | "?" | "*"
//	literal       → NUMBER | STRING {STRING} | INTRODUCER (STRING|HEX|BIT)
//	              | HEX | BIT | TRUE | FALSE | NULL
//	variable      → USER_VAR | SYS_VAR
//	column_ref    → identifier {"." identifier} ["." "*"]
//	func_call     → [schema "."] name "(" [DISTINCT] ["*" | expr_list] ")"
//	paren_expr    → "(" select ")" | "(" expr ")"
//	case_expr     → CASE [expr] (WHEN expr THEN expr)+ [ELSE expr] END
//	cast_expr     → CAST "(" expr AS data_type ")"

// niladic lists reserved words that call a function without parentheses.
var niladic = map[string]bool{
	"CURRENT_DATE": true, "CURRENT_TIME": true, "CURRENT_TIMESTAMP": true,
	"CURRENT_USER": true, "LOCALTIME": true, "LOCALTIMESTAMP": true,
	"UTC_DATE": true, "UTC_TIME": true, "UTC_TIMESTAMP": true,
}

// parsePrimary parses primary expressions.
func (p *stmtParser) parsePrimary() core.Expr {
	tok := p.cur()
	pos := core.NodeInfo{Start: tok.Pos}

	switch tok.Type {
	case token.NUMBER:
		p.next()
		return &core.Literal{NodeInfo: pos, Kind: core.LiteralNumber, Value: tok.Value}

	case token.STRING:
		return p.parseString(pos, "")

	case token.INTRODUCER:
		p.next()
		next := p.cur()
		switch next.Type {
		case token.STRING:
			return p.parseString(pos, tok.Value)
		case token.HEX:
			p.next()
			return &core.Literal{NodeInfo: pos, Kind: core.LiteralHex, Value: next.Value, Introducer: tok.Value}
		case token.BIT:
			p.next()
			return &core.Literal{NodeInfo: pos, Kind: core.LiteralBit, Value: next.Value, Introducer: tok.Value}
		}
		p.errorf(ErrUnexpectedToken, next, "string after character set introducer")
		return nil

	case token.HEX:
		p.next()
		return &core.Literal{NodeInfo: pos, Kind: core.LiteralHex, Value: tok.Value}

	case token.BIT:
		p.next()
		return &core.Literal{NodeInfo: pos, Kind: core.LiteralBit, Value: tok.Value}

	case token.TRUE, token.FALSE:
		p.next()
		return &core.Literal{NodeInfo: pos, Kind: core.LiteralBool, Value: tok.Value}

	case token.NULL:
		p.next()
		return &core.Literal{NodeInfo: pos, Kind: core.LiteralNull, Value: "NULL"}

	case token.USER_VAR:
		p.next()
		return &core.UserVar{NodeInfo: pos, Name: tok.Value}

	case token.SYS_VAR:
		p.next()
		return sysVar(tok)

	case token.PARAM:
		p.next()
		return &core.ParamExpr{NodeInfo: pos}

	case token.STAR:
		p.next()
		return &core.StarExpr{NodeInfo: pos}

	case token.DEFAULT:
		if !p.checkPeek(token.LPAREN) {
			p.next()
			return &core.DefaultExpr{NodeInfo: pos}
		}

	case token.LPAREN:
		return p.parseParenExpr()

	case token.CASE:
		return p.parseCaseExpr()

	case token.CAST:
		if p.checkPeek(token.LPAREN) {
			return p.parseCastExpr()
		}
	}

	// function calls may use keyword names: IF(), LEFT(), REPLACE(), ...
	if (tok.Type == token.IDENT || tok.Type == token.QUOTED_IDENT || tok.Type.IsKeyword()) && p.checkPeek(token.LPAREN) {
		p.next()
		return p.parseFuncCall(pos, "", identValue(tok))
	}
	if tok.Type == token.IDENT && niladic[strings.ToUpper(tok.Value)] {
		p.next()
		return &core.FuncCall{NodeInfo: pos, Name: strings.ToUpper(tok.Value)}
	}
	if p.isIdentifier(tok) {
		return p.parseIdentifierExpr()
	}

	p.errorf(ErrUnexpectedToken, tok, "expression")
	return nil
}

// parseString parses one or more adjacent string literals, which MySQL
// concatenates.
func (p *stmtParser) parseString(pos core.NodeInfo, introducer string) core.Expr {
	var b strings.Builder
	for p.check(token.STRING) {
		b.WriteString(p.next().Value)
	}
	return &core.Literal{NodeInfo: pos, Kind: core.LiteralString, Value: b.String(), Introducer: introducer}
}

// parseIdentifierExpr parses a column reference, a qualified star, or a
// schema-qualified function call.
func (p *stmtParser) parseIdentifierExpr() core.Expr {
	pos := core.NodeInfo{Start: p.cur().Pos}
	first, ok := p.identifier()
	if !ok {
		return nil
	}
	parts := []string{first}

	for p.match(token.DOT) {
		if p.match(token.STAR) {
			return &core.StarExpr{NodeInfo: pos, Qualifier: parts}
		}
		nameTok := p.cur()
		part, ok := p.qualifiedPart()
		if !ok {
			return nil
		}
		if len(parts) == 1 && p.check(token.LPAREN) {
			return p.parseFuncCall(pos, first, identValue(nameTok))
		}
		parts = append(parts, part)
	}

	if len(parts) > 3 {
		p.errorf("too many name parts in %s", strings.Join(parts, "."))
		return nil
	}
	return &core.ColumnRef{NodeInfo: pos, Parts: parts}
}

// parseFuncCall parses the argument list of a function call. The cursor is
// on the opening parenthesis.
func (p *stmtParser) parseFuncCall(pos core.NodeInfo, schema, name string) core.Expr {
	fc := &core.FuncCall{NodeInfo: pos, Schema: schema, Name: name}
	if !p.expect(token.LPAREN) {
		return nil
	}
	if p.match(token.RPAREN) {
		return fc
	}

	if p.check(token.STAR) && p.checkPeek(token.RPAREN) {
		p.next()
		p.next()
		fc.Star = true
		return fc
	}

	if p.match(token.DISTINCT) {
		fc.Distinct = true
	} else {
		p.match(token.ALL)
	}

	fc.Args = p.parseExpressionList()
	if len(fc.Args) == 0 {
		return nil
	}
	if p.check(token.USING) {
		p.errorf("%s(... USING charset) is not supported", strings.ToUpper(name))
		return nil
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return fc
}

// parseParenExpr parses a parenthesized expression or scalar subquery.
func (p *stmtParser) parseParenExpr() core.Expr {
	pos := core.NodeInfo{Start: p.cur().Pos}
	p.expect(token.LPAREN)

	if p.check(token.SELECT) {
		sel := p.parseSelect()
		if !p.expect(token.RPAREN) {
			return nil
		}
		return &core.SubqueryExpr{NodeInfo: pos, Select: sel}
	}

	inner := p.parseExpression()
	if inner == nil {
		return nil
	}
	if p.check(token.COMMA) {
		p.errorf("row constructors are not supported")
		return nil
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return &core.ParenExpr{NodeInfo: pos, Expr: inner}
}

// parseCaseExpr parses CASE [operand] WHEN ... THEN ... [ELSE ...] END.
func (p *stmtParser) parseCaseExpr() core.Expr {
	expr := &core.CaseExpr{NodeInfo: core.NodeInfo{Start: p.cur().Pos}}
	p.expect(token.CASE)

	if !p.check(token.WHEN) {
		expr.Operand = p.parseExpression()
		if expr.Operand == nil {
			return nil
		}
	}

	for p.match(token.WHEN) {
		cond := p.parseExpression()
		if cond == nil || !p.expect(token.THEN) {
			return nil
		}
		result := p.parseExpression()
		if result == nil {
			return nil
		}
		expr.Whens = append(expr.Whens, &core.WhenClause{Condition: cond, Result: result})
	}
	if len(expr.Whens) == 0 {
		p.errorf(ErrUnexpectedToken, p.cur(), token.WHEN)
		return nil
	}

	if p.match(token.ELSE) {
		expr.Else = p.parseExpression()
		if expr.Else == nil {
			return nil
		}
	}
	if !p.expect(token.END) {
		return nil
	}
	return expr
}

// parseCastExpr parses CAST(expr AS type).
func (p *stmtParser) parseCastExpr() core.Expr {
	pos := core.NodeInfo{Start: p.cur().Pos}
	p.expect(token.CAST)
	p.expect(token.LPAREN)

	inner := p.parseExpression()
	if inner == nil || !p.expect(token.AS) {
		return nil
	}
	typ := p.parseDataType()
	if typ == nil || !p.expect(token.RPAREN) {
		return nil
	}
	return &core.CastExpr{NodeInfo: pos, Expr: inner, Type: typ}
}
