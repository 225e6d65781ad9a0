package charsets

import (
	"fmt"

	"github.com/leapstack-labs/mysqlint/pkg/charset"
	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/session"
)

func init() {
	lint.Register(UnknownCharset)
}

// UnknownCharset flags character sets and collations the server does not have.
var UnknownCharset = lint.RuleDef{
	ID:          "CS01",
	Name:        "charsets.unknown",
	Group:       "charsets",
	Description: "Unknown character set or collation.",
	Severity:    core.SeverityCritical,
	Kinds:       []core.Kind{core.KindStatement},
	Check:       checkUnknownCharset,
	Rationale:   "The server rejects the whole statement when it names a character set or collation it does not know.",
	BadExample:  "SET NAMES utf8mb5;",
	GoodExample: "SET NAMES utf8mb4;",
}

func checkUnknownCharset(stmt core.Stmt, state session.State, _ lint.Flags, _ map[string]any) []lint.Diagnostic {
	var diags []lint.Diagnostic
	for _, n := range names(stmt, state) {
		var msg string
		if n.collation {
			if _, ok := charset.LookupCollation(n.value); !ok {
				msg = fmt.Sprintf("unknown collation: '%s'", n.value)
			}
		} else if _, ok := charset.Lookup(n.value); !ok {
			msg = fmt.Sprintf("unknown character set: '%s'", n.value)
		}
		if msg != "" {
			diags = append(diags, lint.Diagnostic{Severity: core.SeverityCritical, Message: msg, Pos: n.pos})
		}
	}
	return diags
}
