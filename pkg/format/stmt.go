package format

import (
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

func (p *Printer) formatStmt(stmt core.Stmt) {
	switch s := stmt.(type) {
	case *core.SelectStmt:
		p.formatSelectStmt(s)
	case *core.InsertStmt:
		p.formatInsertStmt(s)
	case *core.UpdateStmt:
		p.formatUpdateStmt(s)
	case *core.DeleteStmt:
		p.formatDeleteStmt(s)
	default:
		p.write(stmt.Serialize(p.f))
	}
}

func (p *Printer) formatSelectStmt(stmt *core.SelectStmt) {
	for s := stmt; s != nil; s = s.Union {
		p.formatSelectCore(s)
		if s.Union != nil {
			p.kw(token.UNION)
			if s.UnionAll {
				p.space()
				p.kw(token.ALL)
			}
			p.writeln()
		}
	}
}

func (p *Printer) formatSelectCore(s *core.SelectStmt) {
	p.kw(token.SELECT)
	if s.Distinct {
		p.space()
		p.kw(token.DISTINCT)
	}
	p.writeln()

	p.indent()
	p.lines(len(s.Columns), func(i int) {
		col := s.Columns[i]
		p.expr(col.Expr)
		if col.Alias != "" {
			p.space()
			p.kw(token.AS)
			p.space()
			p.write(p.f.FormatName(col.Alias))
		}
	})
	p.writeln()
	p.dedent()

	if s.From != nil {
		p.kw(token.FROM)
		p.space()
		p.write(s.From.Serialize(p.f))
		p.writeln()
	}
	p.formatWhere(s.Where)
	if len(s.GroupBy) > 0 {
		p.clause(len(s.GroupBy), func(i int) { p.expr(s.GroupBy[i]) }, token.GROUP, token.BY)
	}
	if s.Having != nil {
		p.kw(token.HAVING)
		p.writeln()
		p.indent()
		p.expr(s.Having)
		p.writeln()
		p.dedent()
	}
	p.formatOrderLimit(s.OrderBy, s.Limit)
}

func (p *Printer) formatWhere(where core.Expr) {
	if where == nil {
		return
	}
	p.kw(token.WHERE)
	p.writeln()
	p.indent()
	p.expr(where)
	p.writeln()
	p.dedent()
}

func (p *Printer) formatOrderLimit(order []*core.OrderItem, limit *core.Limit) {
	if len(order) > 0 {
		p.clause(len(order), func(i int) {
			p.expr(order[i].Expr)
			if order[i].Desc {
				p.space()
				p.kw(token.DESC)
			}
		}, token.ORDER, token.BY)
	}
	if limit != nil {
		p.kw(token.LIMIT)
		p.space()
		p.expr(limit.Count)
		if limit.Offset != nil {
			p.space()
			p.kw(token.OFFSET)
			p.space()
			p.expr(limit.Offset)
		}
		p.writeln()
	}
}

func (p *Printer) formatAssignments(as []*core.ColumnAssignment, keywords ...token.TokenType) {
	p.clause(len(as), func(i int) {
		p.expr(as[i].Column)
		p.write(" = ")
		p.expr(as[i].Value)
	}, keywords...)
}

func (p *Printer) formatInsertStmt(s *core.InsertStmt) {
	if s.Replace {
		p.kw(token.REPLACE)
	} else {
		p.kw(token.INSERT)
	}
	if s.Ignore {
		p.space()
		p.kw(token.IGNORE)
	}
	p.space()
	p.kw(token.INTO)
	p.space()
	p.write(s.Table.Serialize(p.f))
	if len(s.Columns) > 0 {
		names := make([]string, len(s.Columns))
		for i, c := range s.Columns {
			names[i] = p.f.FormatName(c)
		}
		p.write(" (" + strings.Join(names, ", ") + ")")
	}
	p.writeln()

	switch {
	case s.Select != nil:
		p.formatSelectStmt(s.Select)
	case len(s.Set) > 0:
		p.formatAssignments(s.Set, token.SET)
	default:
		p.clause(len(s.Rows), func(i int) {
			parts := make([]string, len(s.Rows[i]))
			for j, e := range s.Rows[i] {
				parts[j] = e.Serialize(p.f)
			}
			p.write("(" + strings.Join(parts, ", ") + ")")
		}, token.VALUES)
	}

	if len(s.OnDuplicate) > 0 {
		p.formatAssignments(s.OnDuplicate, token.ON, token.DUPLICATE, token.KEY, token.UPDATE)
	}
}

func (p *Printer) formatUpdateStmt(s *core.UpdateStmt) {
	p.kw(token.UPDATE)
	if s.Ignore {
		p.space()
		p.kw(token.IGNORE)
	}
	p.space()
	p.write(s.Table.Serialize(p.f))
	p.writeln()
	p.formatAssignments(s.Set, token.SET)
	p.formatWhere(s.Where)
	p.formatOrderLimit(s.OrderBy, s.Limit)
}

func (p *Printer) formatDeleteStmt(s *core.DeleteStmt) {
	p.kw(token.DELETE)
	if s.Ignore {
		p.space()
		p.kw(token.IGNORE)
	}
	p.space()
	p.kw(token.FROM)
	p.space()
	p.write(s.Table.Serialize(p.f))
	p.writeln()
	p.formatWhere(s.Where)
	p.formatOrderLimit(s.OrderBy, s.Limit)
}
