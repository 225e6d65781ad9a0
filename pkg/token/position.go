package token

import "strconv"

// Position is a point in a script. Line and Column count from 1; Offset is
// the byte offset from the start of the whole script. The zero Position
// means "unknown".
type Position struct {
	Line   int
	Column int
	Offset int
}

// IsValid reports whether the position is known.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Span is the half-open byte range [Start.Offset, End.Offset) of a
// statement or token.
type Span struct {
	Start, End Position
}
