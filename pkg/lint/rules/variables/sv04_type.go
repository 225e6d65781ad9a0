package variables

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/session"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

func init() {
	lint.Register(VariableType)
}

// VariableType flags constant values that do not fit the variable's type.
var VariableType = lint.RuleDef{
	ID:          "SV04",
	Name:        "variables.type",
	Group:       "variables",
	Description: "Value assigned to a system variable has the wrong type.",
	Severity:    core.SeverityError,
	Kinds:       []core.Kind{core.KindSet},
	Check:       checkVariableType,
	Rationale:   "Boolean variables accept ON, OFF, 1 and 0; numeric variables reject strings; enumerations accept their listed values only.",
	BadExample:  "SET autocommit = 'yes';",
	GoodExample: "SET autocommit = ON;",
}

type valueKind int

const (
	kindInteger valueKind = iota
	kindDecimal
	kindText
	kindNull
)

// constant is a value known without evaluation.
type constant struct {
	text string
	kind valueKind
}

func constantOf(e core.Expr) (constant, bool) {
	switch v := e.(type) {
	case *core.Literal:
		switch v.Kind {
		case core.LiteralNumber:
			if strings.ContainsAny(v.Value, ".eE") {
				return constant{v.Value, kindDecimal}, true
			}
			return constant{v.Value, kindInteger}, true
		case core.LiteralBool:
			n, _ := v.Int()
			return constant{strconv.FormatInt(n, 10), kindInteger}, true
		case core.LiteralString:
			return constant{v.Value, kindText}, true
		case core.LiteralNull:
			return constant{"NULL", kindNull}, true
		}
	case *core.ColumnRef:
		if v.IsBare() {
			return constant{v.Name(), kindText}, true
		}
	case *core.UnaryExpr:
		if c, ok := constantOf(v.Expr); ok && v.Op == token.MINUS && (c.kind == kindInteger || c.kind == kindDecimal) {
			c.text = "-" + c.text
			return c, true
		}
	}
	return constant{}, false
}

func checkVariableType(stmt core.Stmt, state session.State, _ lint.Flags, _ map[string]any) []lint.Diagnostic {
	p := state.Platform()
	var diags []lint.Diagnostic
	for _, ref := range references(stmt, p) {
		if !ref.assigned() {
			continue
		}
		sv, ok := p.Variable(ref.v.Name)
		if !ok {
			continue
		}
		c, ok := constantOf(ref.value)
		if !ok {
			continue
		}
		if msg := typeMismatch(sv, c); msg != "" {
			diags = append(diags, lint.Diagnostic{
				Severity: core.SeverityError,
				Message:  msg,
				Pos:      ref.value.Pos(),
			})
		}
	}
	return diags
}

// typeMismatch returns the server's complaint about assigning c to sv, or "".
func typeMismatch(sv platform.SystemVariable, c constant) string {
	badValue := fmt.Sprintf("variable '%s' can't be set to the value of '%s'", sv.Name, c.text)
	badType := fmt.Sprintf("incorrect argument type to variable '%s'", sv.Name)

	switch sv.Type {
	case platform.TypeBool:
		switch strings.ToUpper(c.text) {
		case "ON", "OFF", "TRUE", "FALSE", "1", "0":
			if c.kind != kindDecimal {
				return ""
			}
		}
		return badValue
	case platform.TypeInt:
		if c.kind == kindInteger {
			return ""
		}
		return badType
	case platform.TypeFloat:
		if c.kind == kindInteger || c.kind == kindDecimal {
			return ""
		}
		return badType
	case platform.TypeEnum:
		switch c.kind {
		case kindInteger:
			n, err := strconv.Atoi(c.text)
			if err == nil && n >= 0 && n < len(sv.Values) {
				return ""
			}
		case kindText:
			for _, v := range sv.Values {
				if strings.EqualFold(v, c.text) {
					return ""
				}
			}
		}
		return badValue
	}
	return ""
}
