package parser

import (
	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// Expression precedence parsing using a Pratt parser.
//
// Precedence levels, lowest first:
//
//	precOr         = 1   OR, || (without PIPES_AS_CONCAT)
//	precXor        = 2   XOR
//	precAnd        = 3   AND, &&
//	precNot        = 4   NOT (prefix)
//	precComparison = 5   = <=> <> != < > <= >= IS
//	precPredicate  = 6   [NOT] IN, BETWEEN, LIKE, REGEXP, RLIKE
//	precBitOr      = 7   |
//	precBitAnd     = 8   &
//	precShift      = 9   << >>
//	precAdditive   = 10  + -
//	precMultiply   = 11  * / DIV MOD %
//	precBitXor     = 12  ^
//	precConcat     = 13  || (with PIPES_AS_CONCAT)
//	precUnary      = 14  - + ~ ! BINARY, NOT with HIGH_NOT_PRECEDENCE
//	precCollate    = 15  COLLATE
//	precJSON       = 16  -> ->>
const (
	precNone = iota
	precOr
	precXor
	precAnd
	precNot
	precComparison
	precPredicate
	precBitOr
	precBitAnd
	precShift
	precAdditive
	precMultiply
	precBitXor
	precConcat
	precUnary
	precCollate
	precJSON
)

// parseExpression parses an expression using precedence climbing.
func (p *stmtParser) parseExpression() core.Expr {
	return p.parseExpressionWithPrecedence(precNone + 1)
}

// parseExpressionWithPrecedence parses operators binding at least as
// tightly as minPrec. It returns nil after recording an error.
func (p *stmtParser) parseExpressionWithPrecedence(minPrec int) core.Expr {
	left := p.parsePrefixExpr()
	if left == nil {
		return nil
	}

	for {
		prec := p.infixPrecedence()
		if prec == precNone || prec < minPrec {
			return left
		}
		left = p.parseInfixExpr(left, prec)
		if left == nil {
			return nil
		}
	}
}

// parsePrefixExpr parses prefix operators and primary expressions.
func (p *stmtParser) parsePrefixExpr() core.Expr {
	tok := p.cur()
	pos := core.NodeInfo{Start: tok.Pos}

	switch tok.Type {
	case token.NOT:
		p.next()
		prec := precNot
		if p.mode.Has(sqlmode.HighNotPrecedence) {
			prec = precUnary
		}
		operand := p.parseExpressionWithPrecedence(prec)
		if operand == nil {
			return nil
		}
		return &core.UnaryExpr{NodeInfo: pos, Op: token.NOT, Expr: operand}
	case token.MINUS, token.PLUS, token.TILDE, token.BANG, token.BINARY:
		if tok.Type == token.BINARY && p.checkPeek(token.LPAREN) {
			break // BINARY(expr) function form
		}
		p.next()
		operand := p.parseExpressionWithPrecedence(precUnary)
		if operand == nil {
			return nil
		}
		return &core.UnaryExpr{NodeInfo: pos, Op: tok.Type, Expr: operand}
	case token.INTERVAL:
		p.next()
		value := p.parseExpression()
		if value == nil {
			return nil
		}
		unit := p.cur()
		if unit.Type != token.IDENT {
			p.errorf(ErrUnexpectedToken, unit, "interval unit")
			return nil
		}
		p.next()
		return &core.IntervalExpr{NodeInfo: pos, Value: value, Unit: unit.Value}
	case token.EXISTS:
		p.next()
		if !p.expect(token.LPAREN) {
			return nil
		}
		sel := p.parseSelect()
		if !p.expect(token.RPAREN) {
			return nil
		}
		return &core.SubqueryExpr{NodeInfo: pos, Select: sel, Exists: true}
	}

	return p.parsePrimary()
}

// infixPrecedence returns the binding power of the current token as an
// infix or postfix operator, or precNone.
func (p *stmtParser) infixPrecedence() int {
	switch p.cur().Type {
	case token.OR:
		return precOr
	case token.XOR:
		return precXor
	case token.AND:
		return precAnd
	case token.EQ, token.NULLSAFE_EQ, token.NE, token.LT, token.GT, token.LE, token.GE, token.IS:
		return precComparison
	case token.IN, token.BETWEEN, token.LIKE, token.REGEXP, token.RLIKE:
		return precPredicate
	case token.NOT:
		switch p.peek(1).Type {
		case token.IN, token.BETWEEN, token.LIKE, token.REGEXP, token.RLIKE:
			return precPredicate
		}
	case token.PIPE:
		return precBitOr
	case token.AMP:
		return precBitAnd
	case token.LSHIFT, token.RSHIFT:
		return precShift
	case token.PLUS, token.MINUS:
		return precAdditive
	case token.STAR, token.SLASH, token.PERCENT, token.DIV, token.MOD:
		return precMultiply
	case token.CARET:
		return precBitXor
	case token.CONCAT:
		return precConcat
	case token.COLLATE:
		return precCollate
	case token.ARROW, token.DARROW:
		return precJSON
	}
	return precNone
}

// parseInfixExpr parses the operator under the cursor with left as its
// left operand.
func (p *stmtParser) parseInfixExpr(left core.Expr, prec int) core.Expr {
	tok := p.next()
	pos := core.NodeInfo{Start: left.Pos()}

	switch tok.Type {
	case token.IS:
		return p.parseIsExpr(left)
	case token.NOT:
		return p.parsePredicate(left, p.next(), true)
	case token.IN, token.BETWEEN, token.LIKE, token.REGEXP, token.RLIKE:
		return p.parsePredicate(left, tok, false)
	case token.COLLATE:
		coll, ok := p.word()
		if !ok {
			return nil
		}
		return &core.CollateExpr{NodeInfo: pos, Expr: left, Collation: coll}
	case token.ARROW, token.DARROW:
		path := p.cur()
		if path.Type != token.STRING {
			p.errorf(ErrUnexpectedToken, path, "JSON path")
			return nil
		}
	}

	op := tok.Type
	if op == token.MOD {
		op = token.PERCENT
	}
	right := p.parseExpressionWithPrecedence(prec + 1)
	if right == nil {
		return nil
	}
	return &core.BinaryExpr{NodeInfo: pos, Left: left, Op: op, Right: right}
}

// parseIsExpr parses the rest of IS [NOT] (NULL|TRUE|FALSE|UNKNOWN).
func (p *stmtParser) parseIsExpr(left core.Expr) core.Expr {
	expr := &core.IsExpr{NodeInfo: core.NodeInfo{Start: left.Pos()}, Expr: left}
	expr.Not = p.match(token.NOT)
	switch tok := p.cur(); tok.Type {
	case token.NULL, token.TRUE, token.FALSE, token.UNKNOWN:
		p.next()
		expr.Value = tok.Value
		return expr
	default:
		p.errorf(ErrUnexpectedToken, tok, "NULL, TRUE, FALSE or UNKNOWN")
		return nil
	}
}

// parsePredicate parses IN, BETWEEN, LIKE and REGEXP after their keyword.
func (p *stmtParser) parsePredicate(left core.Expr, op token.Token, not bool) core.Expr {
	pos := core.NodeInfo{Start: left.Pos()}

	switch op.Type {
	case token.IN:
		return p.parseInExpr(left, not)
	case token.BETWEEN:
		low := p.parseExpressionWithPrecedence(precBitOr)
		if low == nil || !p.expect(token.AND) {
			return nil
		}
		high := p.parseExpressionWithPrecedence(precBitOr)
		if high == nil {
			return nil
		}
		return &core.BetweenExpr{NodeInfo: pos, Expr: left, Not: not, Low: low, High: high}
	case token.LIKE, token.REGEXP, token.RLIKE:
		pattern := p.parseExpressionWithPrecedence(precBitOr)
		if pattern == nil {
			return nil
		}
		like := &core.LikeExpr{NodeInfo: pos, Expr: left, Not: not, Regexp: op.Type != token.LIKE, Pattern: pattern}
		if op.Type == token.LIKE && p.match(token.ESCAPE) {
			like.Escape = p.parsePrimary()
			if like.Escape == nil {
				return nil
			}
		}
		return like
	}

	p.errorf(ErrUnexpectedToken, op, "IN, BETWEEN, LIKE or REGEXP")
	return nil
}

// parseInExpr parses "(" (select | expr {"," expr}) ")".
func (p *stmtParser) parseInExpr(left core.Expr, not bool) core.Expr {
	expr := &core.InExpr{NodeInfo: core.NodeInfo{Start: left.Pos()}, Expr: left, Not: not}
	if !p.expect(token.LPAREN) {
		return nil
	}
	if p.check(token.SELECT) {
		expr.Subquery = p.parseSelect()
	} else {
		expr.List = p.parseExpressionList()
		if len(expr.List) == 0 {
			return nil
		}
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	return expr
}
