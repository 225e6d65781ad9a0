package core

import (
	"fmt"
	"slices"
	"strings"
)

// Severity ranks a diagnostic. A statement with a diagnostic at
// SeverityCritical is failed.
type Severity int

// Severity levels, lowest first.
const (
	SeverityNotice     Severity = iota // informational
	SeveritySkipNotice                 // a notice tooling may hide
	SeverityError                      // the server would likely reject or misread the statement
	SeverityCritical                   // the statement fails and its session effects are dropped
)

var severityNames = []string{"notice", "skip_notice", "error", "critical"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// ParseSeverity converts a name such as "error" or "skip-notice" to a
// Severity. Unknown names return SeverityNotice and false.
func ParseSeverity(name string) (Severity, bool) {
	name = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
	if i := slices.Index(severityNames, name); i >= 0 {
		return Severity(i), true
	}
	return SeverityNotice, false
}

// MarshalText implements encoding.TextMarshaler.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(b []byte) error {
	sev, ok := ParseSeverity(string(b))
	if !ok {
		return fmt.Errorf("unknown severity %q", b)
	}
	*s = sev
	return nil
}

// RuleInfo describes a lint rule for listings and generated docs.
type RuleInfo struct {
	ID              string   `json:"id" yaml:"id"`
	Name            string   `json:"name" yaml:"name"`
	Group           string   `json:"group" yaml:"group"`
	Description     string   `json:"description" yaml:"description"`
	DefaultSeverity Severity `json:"default_severity" yaml:"default_severity"`
	ConfigKeys      []string `json:"config_keys,omitempty" yaml:"config_keys,omitempty"`
	Kinds           []string `json:"kinds" yaml:"kinds"`

	// Documentation fields
	Rationale   string `json:"rationale,omitempty" yaml:"rationale,omitempty"`
	BadExample  string `json:"bad_example,omitempty" yaml:"bad_example,omitempty"`
	GoodExample string `json:"good_example,omitempty" yaml:"good_example,omitempty"`
	Fix         string `json:"fix,omitempty" yaml:"fix,omitempty"`
}
