package session

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/normalize"
	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// DetectionError reports a sql_mode assignment whose effect could not be
// determined. The mode in effect afterwards is unknown, so the change is
// not applied and the statement is failed.
type DetectionError struct {
	Pos  token.Position
	Expr string // the assigned expression, rendered back to SQL
	Err  error  // underlying cause, if any
}

func (e *DetectionError) Error() string {
	msg := fmt.Sprintf("cannot detect SQL_MODE change at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Expr)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DetectionError) Unwrap() error {
	return e.Err
}

// DetectModeChange works out the SQL mode that results from assigning expr
// to sql_mode while current is in effect. It reports changed=false, with no
// error, for expressions whose value cannot be known without a server
// (CAST, CONCAT, REGEXP_REPLACE, operators, parentheses, user variables):
// mode tracking is best effort for those. Any other unrecognized expression
// is an error. f renders the expression in errors; nil selects a MySQL
// normalizer under current.
func DetectModeChange(expr core.Expr, current sqlmode.Mode, p platform.Platform, f core.Formatter) (sqlmode.Mode, bool, error) {
	if f == nil {
		f = normalize.New(p, normalize.FixedMode(current), normalize.Options{})
	}
	fail := func(err error) (sqlmode.Mode, bool, error) {
		return current, false, &DetectionError{Pos: expr.Pos(), Expr: expr.Serialize(f), Err: err}
	}

	switch e := expr.(type) {
	case *core.SysVar:
		if isSQLMode(e) {
			return p.DefaultMode(), true, nil
		}

	case *core.Literal:
		switch e.Kind {
		case core.LiteralString:
			m, err := p.ParseMode(e.Value)
			if err != nil {
				return fail(err)
			}
			return m, true, nil
		case core.LiteralNumber, core.LiteralBool, core.LiteralBit, core.LiteralHex:
			n, err := e.Int()
			if err != nil {
				return fail(err)
			}
			m, err := p.ModeFromInt(n)
			if err != nil {
				return fail(err)
			}
			return m, true, nil
		}

	case *core.ColumnRef:
		if e.IsBare() {
			m, err := p.ParseMode(e.Name())
			if err != nil {
				return fail(err)
			}
			return m, true, nil
		}

	case *core.DefaultExpr:
		m, err := p.ParseMode("DEFAULT")
		if err != nil {
			return fail(err)
		}
		return m, true, nil

	case *core.FuncCall:
		switch {
		case e.Is("list_add") || e.Is("sys.list_add"):
			return listChange(e, current, p, f, fail, true)
		case e.Is("list_drop") || e.Is("sys.list_drop"):
			return listChange(e, current, p, f, fail, false)
		case e.Is("CONCAT") || e.Is("REGEXP_REPLACE") || e.Is("CAST"):
			return current, false, nil
		}

	case *core.CastExpr, *core.BinaryExpr, *core.ParenExpr, *core.UserVar:
		return current, false, nil
	}

	return fail(nil)
}

// listChange evaluates list_add(base, 'FLAG') and list_drop(base, 'FLAG').
// Adding goes through the mode string so that groups are expanded again.
func listChange(
	fc *core.FuncCall,
	current sqlmode.Mode,
	p platform.Platform,
	f core.Formatter,
	fail func(error) (sqlmode.Mode, bool, error),
	add bool,
) (sqlmode.Mode, bool, error) {
	if len(fc.Args) != 2 {
		return fail(fmt.Errorf("%s expects 2 arguments, got %d", strings.ToLower(fc.Name), len(fc.Args)))
	}

	base := current
	if sv, ok := fc.Args[0].(*core.SysVar); !ok || !isSQLMode(sv) {
		m, changed, err := DetectModeChange(fc.Args[0], current, p, f)
		if err != nil || !changed {
			return current, false, err
		}
		base = m
	}

	lit, ok := fc.Args[1].(*core.Literal)
	if !ok || lit.Kind != core.LiteralString {
		return fail(fmt.Errorf("%s needs a string literal flag", strings.ToLower(fc.Name)))
	}

	if add {
		m, err := sqlmode.FromString(base.String() + "," + lit.Value)
		if err != nil {
			return fail(err)
		}
		return m, true, nil
	}
	m, err := base.Remove(lit.Value)
	if err != nil {
		return fail(err)
	}
	return m, true, nil
}

func isSQLMode(v *core.SysVar) bool {
	return !v.Bare && strings.EqualFold(v.Name, "sql_mode")
}
