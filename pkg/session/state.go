package session

import (
	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
)

// State is a read-only snapshot of a Session, taken before a statement is
// analyzed. Later changes to the session do not show through.
type State struct {
	platform   platform.Platform
	mode       sqlmode.Mode
	globalMode sqlmode.Mode
	delimiter  string
	schema     string
	charset    string
	collation  string
	vars       [4]map[string]Value
}

// Platform returns the server the session targets.
func (s State) Platform() platform.Platform { return s.platform }

// Mode returns the session SQL mode.
func (s State) Mode() sqlmode.Mode { return s.mode }

// GlobalMode returns the tracked global SQL mode.
func (s State) GlobalMode() sqlmode.Mode { return s.globalMode }

// Delimiter returns the statement terminator.
func (s State) Delimiter() string { return s.delimiter }

// Schema returns the default schema.
func (s State) Schema() string { return s.schema }

// Charset returns the connection character set.
func (s State) Charset() string { return s.charset }

// Collation returns the current collation.
func (s State) Collation() string { return s.collation }

// Variable returns a variable's value with the same fallback rules as
// Session.Variable.
func (s State) Variable(scope Scope, name string) (Value, bool) {
	if s.vars[scope] == nil {
		return Value{}, false
	}
	return lookup(s.platform, &s.vars, s.mode, s.globalMode, scope, name)
}
