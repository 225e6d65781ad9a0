// Package session tracks the per-script state that changes how SQL is read:
// the statement delimiter, the SQL mode, the current schema, the character
// set and collation, and four scopes of variables.
//
// A Session has a single owner. The parser reads it before every statement
// (it implements parser.Settings), rules receive an immutable State snapshot,
// and only an Updater writes to it, once a statement has been judged sound.
package session

import (
	"fmt"
	"maps"
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/charset"
	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
)

// DefaultDelimiter is the statement terminator a session starts with.
const DefaultDelimiter = ";"

// config is the starting configuration Reset returns to.
type config struct {
	mode      sqlmode.Mode
	delimiter string
	charset   string
	schema    string
}

// Option configures a new Session.
type Option func(*config)

// WithMode sets the starting SQL mode. The platform default is used otherwise.
func WithMode(m sqlmode.Mode) Option {
	return func(c *config) { c.mode = m }
}

// WithDelimiter sets the starting delimiter.
func WithDelimiter(d string) Option {
	return func(c *config) { c.delimiter = d }
}

// WithCharset sets the starting character set.
func WithCharset(name string) Option {
	return func(c *config) { c.charset = name }
}

// WithSchema sets the starting default schema.
func WithSchema(name string) Option {
	return func(c *config) { c.schema = name }
}

// Session is the mutable state of one script.
type Session struct {
	platform platform.Platform
	initial  config

	delimiter  string
	mode       sqlmode.Mode
	globalMode sqlmode.Mode
	schema     string
	charset    string
	collations []string
	vars       [4]map[string]Value
}

// New creates a session for p.
func New(p platform.Platform, opts ...Option) (*Session, error) {
	cfg := config{
		mode:      p.DefaultMode(),
		delimiter: DefaultDelimiter,
		charset:   p.DefaultCharset(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := validateDelimiter(cfg.delimiter); err != nil {
		return nil, err
	}
	cs, ok := charset.Lookup(cfg.charset)
	if !ok {
		return nil, fmt.Errorf("unknown character set %q", cfg.charset)
	}
	cfg.charset = cs.Name

	s := &Session{platform: p, initial: cfg}
	s.Reset()
	return s, nil
}

// Reset clears all variables and returns delimiter, mode, charset and
// schema to the session's starting configuration.
func (s *Session) Reset() {
	s.delimiter = s.initial.delimiter
	s.mode = s.initial.mode
	s.globalMode = s.platform.DefaultMode()
	s.schema = s.initial.schema
	s.charset = s.initial.charset
	s.collations = nil
	for i := range s.vars {
		s.vars[i] = make(map[string]Value)
	}
}

// Platform returns the server the session targets.
func (s *Session) Platform() platform.Platform { return s.platform }

// Mode returns the current session SQL mode.
func (s *Session) Mode() sqlmode.Mode { return s.mode }

// GlobalMode returns the tracked global SQL mode.
func (s *Session) GlobalMode() sqlmode.Mode { return s.globalMode }

// SetMode replaces the session SQL mode.
func (s *Session) SetMode(m sqlmode.Mode) { s.mode = m }

// Delimiter returns the current statement terminator.
func (s *Session) Delimiter() string { return s.delimiter }

// SetDelimiter changes the statement terminator.
func (s *Session) SetDelimiter(d string) error {
	if err := validateDelimiter(d); err != nil {
		return err
	}
	s.delimiter = d
	return nil
}

func validateDelimiter(d string) error {
	switch {
	case d == "":
		return fmt.Errorf("delimiter must not be empty")
	case strings.ContainsAny(d, " \t\r\n"):
		return fmt.Errorf("delimiter %q must not contain whitespace", d)
	case strings.Contains(d, `\`):
		return fmt.Errorf("delimiter %q must not contain a backslash", d)
	}
	return nil
}

// Schema returns the default schema, or "" when none is selected.
func (s *Session) Schema() string { return s.schema }

// SetSchema selects the default schema.
func (s *Session) SetSchema(name string) { s.schema = name }

// Charset returns the connection character set.
func (s *Session) Charset() string { return s.charset }

// SetCharset changes the connection character set and drops any collation
// chosen for the previous one.
func (s *Session) SetCharset(name string) error {
	cs, ok := charset.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown character set %q", name)
	}
	s.charset = cs.Name
	s.collations = nil
	return nil
}

// Collation returns the collation on top of the stack, or the default
// collation of the current character set.
func (s *Session) Collation() string {
	if n := len(s.collations); n > 0 {
		return s.collations[n-1]
	}
	return defaultCollation(s.platform, s.charset)
}

func defaultCollation(p platform.Platform, cs string) string {
	if cs == p.DefaultCharset() {
		return p.DefaultCollation()
	}
	if c, ok := charset.Lookup(cs); ok {
		return c.DefaultCollation
	}
	return ""
}

// PushCollation makes name the current collation until the matching
// PopCollation. The collation must belong to the current character set.
func (s *Session) PushCollation(name string) error {
	c, ok := charset.LookupCollation(name)
	if !ok {
		return fmt.Errorf("unknown collation %q", name)
	}
	if c.Charset != s.charset {
		return fmt.Errorf("collation %q is not valid for character set %q", c.Name, s.charset)
	}
	s.collations = append(s.collations, c.Name)
	return nil
}

// PopCollation removes the innermost collation. It reports false when the
// stack is already empty.
func (s *Session) PopCollation() (string, bool) {
	n := len(s.collations)
	if n == 0 {
		return "", false
	}
	top := s.collations[n-1]
	s.collations = s.collations[:n-1]
	return top, true
}

// SetVariable stores a variable. Names are case-insensitive.
func (s *Session) SetVariable(scope Scope, name string, v Value) {
	s.vars[scope][strings.ToLower(name)] = v
}

// UnsetVariable removes a variable, so session and global reads fall back
// to the platform default again.
func (s *Session) UnsetVariable(scope Scope, name string) {
	delete(s.vars[scope], strings.ToLower(name))
}

// Variable returns a variable's value. Session and global system variables
// fall back to the platform default; user and local variables do not.
func (s *Session) Variable(scope Scope, name string) (Value, bool) {
	return lookup(s.platform, &s.vars, s.mode, s.globalMode, scope, name)
}

func lookup(p platform.Platform, vars *[4]map[string]Value, mode, global sqlmode.Mode, scope Scope, name string) (Value, bool) {
	key := strings.ToLower(name)
	if key == "sql_mode" {
		switch scope {
		case ScopeSession:
			return Scalar(mode.String()), true
		case ScopeGlobal:
			return Scalar(global.String()), true
		}
	}
	if v, ok := vars[scope][key]; ok {
		return v, true
	}
	if scope != ScopeSession && scope != ScopeGlobal {
		return Value{}, false
	}
	sv, ok := p.Variable(key)
	if !ok {
		return Value{}, false
	}
	if scope == ScopeSession && !sv.HasScope(platform.Session) {
		return Value{}, false
	}
	if scope == ScopeGlobal && !sv.HasScope(platform.Global) {
		return Value{}, false
	}
	return Scalar(sv.Default), true
}

// State returns an immutable snapshot of the session.
func (s *Session) State() State {
	st := State{
		platform:   s.platform,
		mode:       s.mode,
		globalMode: s.globalMode,
		delimiter:  s.delimiter,
		schema:     s.schema,
		charset:    s.charset,
		collation:  s.Collation(),
	}
	for i, m := range s.vars {
		st.vars[i] = maps.Clone(m)
	}
	return st
}

// clone returns a deep copy used to stage changes.
func (s *Session) clone() *Session {
	c := *s
	c.collations = append([]string(nil), s.collations...)
	for i, m := range s.vars {
		c.vars[i] = maps.Clone(m)
	}
	return &c
}
