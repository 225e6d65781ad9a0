package modes

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/lint"
	"github.com/leapstack-labs/mysqlint/pkg/normalize"
	"github.com/leapstack-labs/mysqlint/pkg/session"
	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
)

func init() {
	lint.Register(UnsupportedFlag)
}

// UnsupportedFlag flags sql_mode values naming flags the target server does
// not support. Literal values can be repaired by dropping those flags.
var UnsupportedFlag = lint.RuleDef{
	ID:          "MD01",
	Name:        "modes.unsupported_flag",
	Group:       "modes",
	Description: "SQL mode flag is not supported by the target server.",
	Severity:    core.SeverityCritical,
	Kinds:       []core.Kind{core.KindSet},
	Check:       checkUnsupportedFlag,
	Rationale:   "Flags such as NO_AUTO_CREATE_USER were removed in MySQL 8.0 and MariaDB-only flags do not exist in MySQL. The server rejects the assignment.",
	BadExample:  "SET sql_mode = 'STRICT_TRANS_TABLES,NO_AUTO_CREATE_USER';",
	GoodExample: "SET sql_mode = 'STRICT_TRANS_TABLES';",
	Fix:         "Drop the unsupported flags. Run with repair enabled to rewrite the statement.",
}

func checkUnsupportedFlag(stmt core.Stmt, state session.State, flags lint.Flags, _ map[string]any) []lint.Diagnostic {
	p := state.Platform()
	supported := p.SupportedModes()
	unsupported := func(name string) bool {
		bit, ok := sqlmode.Bit(name)
		return ok && !supported.Has(bit)
	}

	type finding struct {
		a   *core.Assignment
		bad []string
	}
	var found []finding
	repairable := make(map[*core.Assignment][]string)

	for _, a := range modeAssignments(stmt) {
		if names, ok := flagList(a.Value); ok {
			var bad, kept []string
			for _, name := range names {
				if unsupported(name) {
					bad = append(bad, strings.ToUpper(name))
				} else {
					kept = append(kept, strings.ToUpper(name))
				}
			}
			if len(bad) > 0 {
				found = append(found, finding{a: a, bad: bad})
				repairable[a] = kept
			}
			continue
		}
		if lit, ok := listFlag(a.Value); ok && unsupported(lit.Value) {
			found = append(found, finding{a: a, bad: []string{strings.ToUpper(lit.Value)}})
		}
	}
	if len(found) == 0 {
		return nil
	}

	var repaired core.Stmt
	if len(repairable) > 0 {
		repaired = repair(stmt.(*core.SetStmt), repairable, state)
	}

	diags := make([]lint.Diagnostic, 0, len(found))
	for _, f := range found {
		d := lint.Diagnostic{
			Severity:   core.SeverityCritical,
			Message:    fmt.Sprintf("SQL mode '%s' is not supported on %s", strings.Join(f.bad, ","), p),
			Pos:        f.a.Value.Pos(),
			AutoRepair: lint.RepairNotPossible,
		}
		if _, ok := repairable[f.a]; ok {
			d.AutoRepair = lint.RepairPossible
			if flags.Has(lint.FlagRepair) {
				d.AutoRepair = lint.Repaired
				d.Repairs = []core.Stmt{repaired}
			}
		}
		diags = append(diags, d)
	}
	return diags
}

// repair returns a copy of set whose sql_mode values keep only the given
// flags.
func repair(set *core.SetStmt, kept map[*core.Assignment][]string, state session.State) *core.SetStmt {
	out := &core.SetStmt{StmtInfo: core.StmtInfo{Loc: set.Loc}}
	for _, a := range set.Assignments {
		names, ok := kept[a]
		if !ok {
			out.Assignments = append(out.Assignments, a)
			continue
		}
		value := &core.Literal{
			NodeInfo: core.NodeInfo{Start: a.Value.Pos()},
			Kind:     core.LiteralString,
			Value:    strings.Join(names, ","),
		}
		out.Assignments = append(out.Assignments, &core.Assignment{Target: a.Target, Value: value})
	}
	f := normalize.New(state.Platform(), normalize.FixedMode(state.Mode()), normalize.Options{})
	out.Text = out.Serialize(f)
	return out
}
