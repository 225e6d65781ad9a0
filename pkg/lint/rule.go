package lint

import (
	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/session"
)

// Flags modify a single Process call.
type Flags uint8

// Process flags.
const (
	// FlagRepair asks rules that can repair a statement to attach the
	// replacement statements.
	FlagRepair Flags = 1 << iota
	// FlagSkipNotices drops diagnostics at core.SeveritySkipNotice.
	FlagSkipNotices
)

// Has reports whether all of other is set in f.
func (f Flags) Has(other Flags) bool {
	return f&other == other
}

// Rule is the interface all lint rules implement.
type Rule interface {
	// ID returns the unique identifier, e.g., "SV01"
	ID() string

	// Name returns the human-readable name, e.g., "variables.unknown"
	Name() string

	// Group returns the category, e.g., "variables", "charsets", "modes"
	Group() string

	// Description returns a human-readable description
	Description() string

	// DefaultSeverity returns the default severity for this rule
	DefaultSeverity() core.Severity

	// ConfigKeys returns configuration keys this rule accepts
	ConfigKeys() []string

	// Kinds returns the statement kinds the rule is interested in.
	Kinds() []core.Kind

	// Documentation methods for richer rule documentation
	Rationale() string   // Why this rule exists, what problems it prevents
	BadExample() string  // Code showing the anti-pattern
	GoodExample() string // Code showing the correct pattern
	Fix() string         // How to fix violations (when not obvious)

	// Check analyzes a statement and returns diagnostics. The statement and
	// the state must not be modified.
	Check(stmt core.Stmt, state session.State, flags Flags, opts map[string]any) []Diagnostic
}

// CheckFunc analyzes a statement and returns diagnostics.
// The opts parameter contains rule-specific options from configuration.
type CheckFunc func(stmt core.Stmt, state session.State, flags Flags, opts map[string]any) []Diagnostic

// RuleDef is a data-driven rule definition.
// Rules are stateless - all context comes via the Check function parameters.
type RuleDef struct {
	ID          string        // Unique identifier, e.g., "SV01"
	Name        string        // Human-readable name, e.g., "variables.unknown"
	Group       string        // Category, e.g., "variables"
	Description string        // Human-readable description
	Severity    core.Severity // Default severity
	Kinds       []core.Kind   // Statement kinds the rule runs for
	Check       CheckFunc     // The check function
	ConfigKeys  []string      // Configuration keys this rule accepts

	Rationale   string
	BadExample  string
	GoodExample string
	Fix         string
}

// GetRuleInfo extracts metadata from a Rule for documentation/tooling.
func GetRuleInfo(r Rule) core.RuleInfo {
	kinds := make([]string, len(r.Kinds()))
	for i, k := range r.Kinds() {
		kinds[i] = k.String()
	}
	return core.RuleInfo{
		ID:              r.ID(),
		Name:            r.Name(),
		Group:           r.Group(),
		Description:     r.Description(),
		DefaultSeverity: r.DefaultSeverity(),
		ConfigKeys:      r.ConfigKeys(),
		Kinds:           kinds,
		Rationale:       r.Rationale(),
		BadExample:      r.BadExample(),
		GoodExample:     r.GoodExample(),
		Fix:             r.Fix(),
	}
}

// wrappedRuleDef wraps a RuleDef to implement Rule.
type wrappedRuleDef struct {
	def RuleDef
}

// WrapRuleDef wraps a RuleDef to implement the Rule interface.
func WrapRuleDef(def RuleDef) Rule {
	return &wrappedRuleDef{def: def}
}

func (w *wrappedRuleDef) ID() string                     { return w.def.ID }
func (w *wrappedRuleDef) Name() string                   { return w.def.Name }
func (w *wrappedRuleDef) Group() string                  { return w.def.Group }
func (w *wrappedRuleDef) Description() string            { return w.def.Description }
func (w *wrappedRuleDef) DefaultSeverity() core.Severity { return w.def.Severity }
func (w *wrappedRuleDef) ConfigKeys() []string           { return w.def.ConfigKeys }
func (w *wrappedRuleDef) Kinds() []core.Kind             { return w.def.Kinds }

func (w *wrappedRuleDef) Rationale() string   { return w.def.Rationale }
func (w *wrappedRuleDef) BadExample() string  { return w.def.BadExample }
func (w *wrappedRuleDef) GoodExample() string { return w.def.GoodExample }
func (w *wrappedRuleDef) Fix() string         { return w.def.Fix }

func (w *wrappedRuleDef) Check(stmt core.Stmt, state session.State, flags Flags, opts map[string]any) []Diagnostic {
	if w.def.Check == nil {
		return nil
	}
	return w.def.Check(stmt, state, flags, opts)
}

// Unwrap returns the underlying RuleDef.
func (w *wrappedRuleDef) Unwrap() RuleDef {
	return w.def
}
