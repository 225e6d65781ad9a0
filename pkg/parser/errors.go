package parser

import (
	"fmt"

	"github.com/leapstack-labs/mysqlint/pkg/token"
)

// ParseError represents a parsing error with position information.
// Context is the token window around the failure, see token.Stream.Context.
type ParseError struct {
	Pos     token.Position
	Message string
	Context string
}

func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parse error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	if e.Context != "" {
		msg += " near: " + e.Context
	}
	return msg
}

// LexError represents a lexical analysis error.
type LexError struct {
	Pos     token.Position
	Message string
	Context string
}

func (e *LexError) Error() string {
	msg := fmt.Sprintf("lexer error at line %d, column %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	if e.Context != "" {
		msg += " near: " + e.Context
	}
	return msg
}

// Common error messages
const (
	ErrUnexpectedToken      = "unexpected %s, expected %s"
	ErrUnterminatedString   = "unterminated string literal"
	ErrUnterminatedIdent    = "unterminated quoted identifier"
	ErrUnterminatedComment  = "unterminated comment"
	ErrInvalidHex           = "invalid hexadecimal literal"
	ErrInvalidBit           = "invalid bit literal"
	ErrUnexpectedChar       = "unexpected character %q"
	ErrUnsupportedStatement = "unsupported statement %s"
	ErrTrailingTokens       = "unexpected %s after end of statement"
	ErrMissingDelimiter     = "DELIMITER requires an argument"
	ErrPersistUnsupported   = "SET %s is not supported by %s"
)
