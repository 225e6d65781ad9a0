// Package lint checks parsed MySQL statements against a set of rules.
//
// # Architecture
//
// The package has three parts:
//
//  1. Contracts: Rule, RuleDef and Diagnostic
//  2. A global registry that rule packages fill from init()
//  3. The Analyzer, which dispatches a statement to the rules interested in
//     its kinds and collects their diagnostics
//
// # Rule Registration
//
// Rules are registered when their packages are imported:
//
//	import _ "github.com/leapstack-labs/mysqlint/pkg/lint/rules"
//
// # Rule Categories
//
//   - SV (Variables): system variable names, scopes and values
//   - CS (Charsets): character sets, collations and introducers
//   - MD (Modes): sql_mode strings and flags
//   - DM, QR, NM, DL (Convention): risky DML, SELECT *, reserved names, delimiters
//
// # Dispatch
//
// Each rule declares the statement kinds it wants (core.KindQuery,
// core.KindSet, ...). A statement usually carries several kinds, and a rule
// interested in more than one of them still runs once per statement. Rules
// see a read-only session.State; they never change the session.
//
// # Configuration
//
// Config disables rules, overrides their severity and passes rule options:
//
//	cfg := lint.NewConfig().
//		Disable("QR01").
//		SetSeverity("DM01", core.SeverityCritical).
//		SetRuleOptions("NM01", map[string]any{"allow": []string{"status"}})
//
//	analyzer, err := lint.NewAnalyzer(lint.GetAllRules(), lint.WithConfig(cfg))
package lint
