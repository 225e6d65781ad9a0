// Package normalize renders names and literal values for MySQL-family
// servers. The output depends on the live SQL mode: ANSI_QUOTES selects the
// identifier quote and NO_BACKSLASH_ESCAPES disables backslash escaping.
package normalize

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
)

// Normalizer renders identifiers, strings, booleans and binary values.
// Every AST node serializes through one.
type Normalizer interface {
	core.Formatter
}

// ModeSource supplies the SQL mode in effect. A session is a ModeSource, so
// a normalizer built on it follows mode changes as they happen.
type ModeSource interface {
	Mode() sqlmode.Mode
}

// FixedMode is a ModeSource that never changes.
type FixedMode sqlmode.Mode

// Mode implements ModeSource.
func (m FixedMode) Mode() sqlmode.Mode { return sqlmode.Mode(m) }

// Options are the persistent rendering switches.
type Options struct {
	// QuoteAllNames quotes every identifier, not only those that need it.
	QuoteAllNames bool
	// EscapeWhitespace writes newlines, tabs, carriage returns and NUL bytes
	// in strings as backslash escapes. It has no effect under
	// NO_BACKSLASH_ESCAPES.
	EscapeWhitespace bool
}

// MySQL is the Normalizer for MySQL and MariaDB.
type MySQL struct {
	platform platform.Platform
	modes    ModeSource
	opts     Options
}

var _ Normalizer = (*MySQL)(nil)

// New creates a normalizer for p that reads the SQL mode from modes.
func New(p platform.Platform, modes ModeSource, opts Options) *MySQL {
	return &MySQL{platform: p, modes: modes, opts: opts}
}

// Options returns the normalizer's options.
func (n *MySQL) Options() Options {
	return n.opts
}

func (n *MySQL) quote() byte {
	if n.modes.Mode().Has(sqlmode.AnsiQuotes) {
		return '"'
	}
	return '`'
}

// FormatName renders an identifier, quoting it when it would otherwise not
// read back as the same name.
func (n *MySQL) FormatName(name string) string {
	q := n.quote()
	if !n.opts.QuoteAllNames && !n.needsQuote(name, q) {
		return name
	}
	quote := string(q)
	return quote + strings.ReplaceAll(name, quote, quote+quote) + quote
}

// needsQuote reports whether name must be quoted: it is reserved, contains
// the quote character, has no letter, or has a character outside letters,
// digits, _ and $.
func (n *MySQL) needsQuote(name string, q byte) bool {
	if name == "" || n.platform.IsReserved(name) || strings.IndexByte(name, q) >= 0 {
		return true
	}
	hasLetter := false
	for _, r := range name {
		switch {
		case unicode.IsLetter(r):
			hasLetter = true
		case unicode.IsDigit(r), r == '_', r == '$':
		default:
			return true
		}
	}
	return !hasLetter
}

// FormatQualifiedName renders a dotted name.
func (n *MySQL) FormatQualifiedName(parts ...string) string {
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = n.FormatName(p)
	}
	return strings.Join(out, ".")
}

// FormatBool renders TRUE or FALSE.
func (n *MySQL) FormatBool(v bool) string {
	if v {
		return "TRUE"
	}
	return "FALSE"
}

// FormatString renders a single-quoted string literal.
func (n *MySQL) FormatString(s string) string {
	escapes := !n.modes.Mode().Has(sqlmode.NoBackslashEscapes)

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'':
			b.WriteString("''")
		case c == '\\' && escapes:
			b.WriteString(`\\`)
		case escapes && n.opts.EscapeWhitespace && whitespaceEscape(c) != "":
			b.WriteString(whitespaceEscape(c))
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('\'')
	return b.String()
}

func whitespaceEscape(c byte) string {
	switch c {
	case '\n':
		return `\n`
	case '\r':
		return `\r`
	case '\t':
		return `\t`
	case 0:
		return `\0`
	}
	return ""
}

// FormatBinary renders a hexadecimal literal.
func (n *MySQL) FormatBinary(b []byte) string {
	return fmt.Sprintf("X'%X'", b)
}
