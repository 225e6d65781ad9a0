package charsets

import (
	"fmt"

	"github.com/leapstack-labs/mysqlint/pkg/charset"
	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/lint/internal/ast"
	"github.com/leapstack-labs/mysqlint/pkg/session"
)

func init() {
	lint.Register(UnrepresentableString)
}

// UnrepresentableString flags introduced string literals holding characters
// the introduced character set has no encoding for.
var UnrepresentableString = lint.RuleDef{
	ID:          "CS03",
	Name:        "charsets.unrepresentable",
	Group:       "charsets",
	Description: "String literal can't be represented in its character set.",
	Severity:    core.SeverityError,
	Kinds:       []core.Kind{core.KindStatement},
	Check:       checkUnrepresentable,
	Rationale:   "Characters the character set can't encode are replaced with '?' or rejected, depending on the SQL mode.",
	BadExample:  "SELECT _latin1 '日本';",
	GoodExample: "SELECT _utf8mb4 '日本';",
}

func checkUnrepresentable(stmt core.Stmt, _ session.State, _ lint.Flags, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, lit := range ast.CollectLiterals(stmt) {
		if lit.Kind != core.LiteralString || lit.Introducer == "" {
			continue
		}
		cs, ok := charset.Lookup(lit.Introducer)
		if !ok || cs.CanRepresent(lit.Value) {
			continue
		}
		diags = append(diags, lint.Diagnostic{
			Severity: core.SeverityError,
			Message:  fmt.Sprintf("string '%s' can't be represented in character set '%s'", lit.Value, cs.Name),
			Pos:      lit.Pos(),
		})
	}
	return diags
}
