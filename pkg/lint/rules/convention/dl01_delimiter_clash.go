package convention

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/session"
)

func init() {
	lint.Register(DelimiterClash)
}

// DelimiterClash flags delimiters that also occur in ordinary SQL, and
// statements whose text contains the delimiter in effect.
var DelimiterClash = lint.RuleDef{
	ID:          "DL01",
	Name:        "convention.delimiter_clash",
	Group:       "convention",
	Description: "Statement delimiter collides with SQL text.",
	Severity:    core.SeverityError,
	Kinds:       []core.Kind{core.KindStatement},
	Check:       checkDelimiterClash,
	Rationale:   "Clients split scripts on the delimiter without parsing them. A delimiter that can appear inside a statement cuts it in two.",
	BadExample:  "DELIMITER =",
	GoodExample: "DELIMITER $$",
}

// clashing holds text that a delimiter must not start with or consist of.
var clashing = []string{"(", ")", ",", ".", "=", "<", ">", "+", "-", "*", "/", "%", "@", "#", "--", "/*"}

func checkDelimiterClash(stmt core.Stmt, state session.State, _ lint.Flags, _ map[string]any) []lint.Diagnostic {
	if d, ok := stmt.(*core.DelimiterStmt); ok {
		if !clashes(d.Delimiter) {
			return nil
		}
		return []lint.Diagnostic{{
			Severity: core.SeverityError,
			Message:  fmt.Sprintf("delimiter '%s' also occurs in SQL syntax", d.Delimiter),
		}}
	}

	delim := state.Delimiter()
	if delim == "" || !strings.Contains(stmt.Source(), delim) {
		return nil
	}
	return []lint.Diagnostic{{
		Severity: core.SeveritySkipNotice,
		Message:  fmt.Sprintf("statement text contains the delimiter '%s'", delim),
	}}
}

func clashes(delim string) bool {
	if delim == session.DefaultDelimiter {
		return false
	}
	if strings.ContainsAny(delim, "'\"`") {
		return true
	}
	for _, c := range clashing {
		if delim == c || (len(c) > 1 && strings.HasPrefix(delim, c)) {
			return true
		}
	}
	// a delimiter made only of letters or digits can match a name
	return strings.IndexFunc(delim, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_')
	}) < 0
}
