// Package format renders parsed statements back to SQL text.
//
// Names and values go through a core.Formatter, normally a normalizer bound
// to the live session, so the output reads back the same way under the SQL
// mode that was in effect. Statements that failed to parse, and statements
// kept verbatim, are reproduced from their source text.
package format

import (
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
)

// Options control script rendering.
type Options struct {
	// Delimiter is the terminator in effect at the start of the script.
	Delimiter string
	// Pretty lays out queries and DML one clause per line.
	Pretty bool
}

// alternateDelimiters are tried, in order, when a statement contains the
// current delimiter.
var alternateDelimiters = []string{"$$", "//", ";;", "$$$"}

// verbatim reports whether stmt must be reproduced from its source.
func verbatim(stmt core.Stmt) bool {
	if len(stmt.Errors()) > 0 {
		return true
	}
	switch stmt.(type) {
	case *core.InvalidStmt, *core.OpaqueStmt:
		return true
	}
	return false
}

// Statement renders stmt on a single line.
func Statement(stmt core.Stmt, f core.Formatter) string {
	if verbatim(stmt) {
		return stmt.Source()
	}
	return stmt.Serialize(f)
}

// Pretty renders stmt with one clause per line. Statements other than
// queries and DML are rendered as by Statement.
func Pretty(stmt core.Stmt, f core.Formatter) string {
	if verbatim(stmt) {
		return stmt.Source()
	}
	p := newPrinter(f)
	p.formatStmt(stmt)
	return p.String()
}

// Script renders stmts as a script, each followed by the delimiter in
// effect. DELIMITER commands are kept, and extra ones are written around a
// statement whose text contains the current delimiter.
func Script(stmts []core.Stmt, f core.Formatter, opts Options) string {
	delim := opts.Delimiter
	if delim == "" {
		delim = ";"
	}

	var b strings.Builder
	for _, stmt := range stmts {
		if d, ok := stmt.(*core.DelimiterStmt); ok && len(d.Errors()) == 0 {
			if d.Delimiter != delim {
				delim = d.Delimiter
				b.WriteString("DELIMITER " + delim + "\n")
			}
			continue
		}

		text := Statement(stmt, f)
		if opts.Pretty {
			text = Pretty(stmt, f)
		}
		if !strings.Contains(text, delim) {
			b.WriteString(text + delim + "\n")
			continue
		}

		alt := pickDelimiter(text)
		b.WriteString("DELIMITER " + alt + "\n")
		b.WriteString(text + alt + "\n")
		b.WriteString("DELIMITER " + delim + "\n")
	}
	return b.String()
}

// pickDelimiter returns a delimiter that does not occur in text.
func pickDelimiter(text string) string {
	for _, d := range alternateDelimiters {
		if !strings.Contains(text, d) {
			return d
		}
	}
	d := "$"
	for strings.Contains(text, d) {
		d += "$"
	}
	return d
}
