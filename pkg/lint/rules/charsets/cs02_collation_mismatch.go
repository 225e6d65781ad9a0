package charsets

import (
	"fmt"

	"github.com/leapstack-labs/mysqlint/pkg/charset"
	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/session"
)

func init() {
	lint.Register(CollationMismatch)
}

// CollationMismatch flags a collation used with a character set it does
// not belong to.
var CollationMismatch = lint.RuleDef{
	ID:          "CS02",
	Name:        "charsets.collation_mismatch",
	Group:       "charsets",
	Description: "Collation does not belong to the character set.",
	Severity:    core.SeverityCritical,
	Kinds:       []core.Kind{core.KindStatement},
	Check:       checkCollationMismatch,
	Rationale:   "Every collation belongs to exactly one character set. Pairing it with another one is an error on the server.",
	BadExample:  "SET NAMES utf8mb4 COLLATE latin1_swedish_ci;",
	GoodExample: "SET NAMES utf8mb4 COLLATE utf8mb4_unicode_ci;",
	Fix:         "Use a collation whose name starts with the character set name.",
}

func checkCollationMismatch(stmt core.Stmt, state session.State, _ lint.Flags, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, n := range names(stmt, state) {
		if !n.collation || n.charset == "" {
			continue
		}
		cs, ok := charset.Lookup(n.charset)
		if !ok {
			continue
		}
		if _, ok := charset.LookupCollation(n.value); !ok || cs.Accepts(n.value) {
			continue
		}
		diags = append(diags, lint.Diagnostic{
			Severity: core.SeverityCritical,
			Message:  fmt.Sprintf("COLLATION '%s' is not valid for CHARACTER SET '%s'", n.value, cs.Name),
			Pos:      n.pos,
		})
	}
	return diags
}
