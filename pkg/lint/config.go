package lint

import "github.com/leapstack-labs/mysqlint/pkg/core"

// Config carries per-rule settings: whether a rule runs, the severity its
// findings get and the options handed to Check. The zero value and a nil
// *Config run every rule with its defaults.
type Config struct {
	rules map[string]ruleSettings
}

type ruleSettings struct {
	disabled    bool
	severity    core.Severity
	hasSeverity bool
	options     map[string]any
}

// NewConfig returns a Config with every rule enabled.
func NewConfig() *Config {
	return &Config{rules: map[string]ruleSettings{}}
}

func (c *Config) update(ruleID string, fn func(*ruleSettings)) *Config {
	if c.rules == nil {
		c.rules = map[string]ruleSettings{}
	}
	s := c.rules[ruleID]
	fn(&s)
	c.rules[ruleID] = s
	return c
}

func (c *Config) lookup(ruleID string) ruleSettings {
	if c == nil {
		return ruleSettings{}
	}
	return c.rules[ruleID]
}

// Disable turns a rule off.
func (c *Config) Disable(ruleID string) *Config {
	return c.update(ruleID, func(s *ruleSettings) { s.disabled = true })
}

// SetSeverity overrides the severity of a rule's findings.
func (c *Config) SetSeverity(ruleID string, severity core.Severity) *Config {
	return c.update(ruleID, func(s *ruleSettings) { s.severity, s.hasSeverity = severity, true })
}

// SetRuleOptions replaces the options of a rule.
func (c *Config) SetRuleOptions(ruleID string, opts map[string]any) *Config {
	return c.update(ruleID, func(s *ruleSettings) { s.options = opts })
}

// IsDisabled reports whether the rule is turned off.
func (c *Config) IsDisabled(ruleID string) bool {
	return c.lookup(ruleID).disabled
}

// GetSeverity returns the overridden severity of a rule, or def.
func (c *Config) GetSeverity(ruleID string, def core.Severity) core.Severity {
	if s := c.lookup(ruleID); s.hasSeverity {
		return s.severity
	}
	return def
}

// GetRuleOptions returns the options configured for a rule, or nil.
func (c *Config) GetRuleOptions(ruleID string) map[string]any {
	return c.lookup(ruleID).options
}

// Enabled filters rules down to those not disabled, keeping their order.
func (c *Config) Enabled(rules []Rule) []Rule {
	out := make([]Rule, 0, len(rules))
	for _, r := range rules {
		if !c.IsDisabled(r.ID()) {
			out = append(out, r)
		}
	}
	return out
}
