package format

import (
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/core"
	"github.com/leapstack-labs/mysqlint/pkg/token"
)

const indentUnit = "  "

// Printer lays out statements one clause per line. Names and values are
// rendered through the Formatter.
type Printer struct {
	f     core.Formatter
	buf   strings.Builder
	depth int
	// fresh is set after a newline until the next write indents the line.
	fresh bool
}

func newPrinter(f core.Formatter) *Printer {
	return &Printer{f: f, fresh: true}
}

// String returns the formatted output without a trailing newline.
func (p *Printer) String() string {
	return strings.TrimRight(p.buf.String(), "\n")
}

func (p *Printer) write(s string) {
	if s == "" {
		return
	}
	if p.fresh && s[0] != '\n' {
		p.buf.WriteString(strings.Repeat(indentUnit, p.depth))
	}
	p.buf.WriteString(s)
	p.fresh = false
}

func (p *Printer) writeln() {
	p.buf.WriteByte('\n')
	p.fresh = true
}

func (p *Printer) indent() { p.depth++ }

func (p *Printer) dedent() { p.depth = max(p.depth-1, 0) }

func (p *Printer) space() { p.buf.WriteByte(' ') }

// kw prints keywords separated by spaces.
func (p *Printer) kw(tokens ...token.TokenType) {
	words := make([]string, len(tokens))
	for i, t := range tokens {
		words[i] = t.String()
	}
	p.write(strings.Join(words, " "))
}

// expr prints an expression on the current line.
func (p *Printer) expr(e core.Expr) {
	p.write(e.Serialize(p.f))
}

// lines prints n items one per line, each but the last followed by a comma.
func (p *Printer) lines(n int, item func(i int)) {
	for i := range n {
		if i > 0 {
			p.write(",")
			p.writeln()
		}
		item(i)
	}
}

// clause prints a keyword line followed by an indented item list.
func (p *Printer) clause(n int, item func(i int), keywords ...token.TokenType) {
	p.kw(keywords...)
	p.writeln()
	p.indent()
	p.lines(n, item)
	p.writeln()
	p.dedent()
}
