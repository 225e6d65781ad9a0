// Package token defines the lexical tokens of the MySQL/MariaDB grammar and
// the cursor used by the parser to walk them.
//
// Keywords are defined as constants so the parser can switch on them; the
// lexer upper-cases keyword values and keeps the raw spelling in Original.
package token

import (
	"fmt"
	"strings"
)

// TokenType represents the type of a lexical token.
//
//nolint:revive // Accept stutter as token.TokenType is clear and widely used
type TokenType int32

//nolint:revive // ALL_CAPS names follow SQL token conventions
const (
	// Special tokens
	EOF TokenType = iota
	ILLEGAL
	DELIMITER // current statement terminator, ";" unless changed

	// Literals
	IDENT        // name
	QUOTED_IDENT // `name`, or "name" under ANSI_QUOTES
	NUMBER       // 123, 45.67, 1e10
	STRING       // 'hello'
	HEX          // X'0F', 0x0F
	BIT          // b'101', 0b101
	INTRODUCER   // _utf8mb4, N
	USER_VAR     // @name
	SYS_VAR      // @@name, @@session.name
	PARAM        // ?

	// Operators
	PLUS        // +
	MINUS       // -
	STAR        // *
	SLASH       // /
	PERCENT     // %
	CONCAT      // || under PIPES_AS_CONCAT
	EQ          // =
	NULLSAFE_EQ // <=>
	NE          // != or <>
	LT          // <
	GT          // >
	LE          // <=
	GE          // >=
	ASSIGN      // :=
	BANG        // !
	TILDE       // ~
	CARET       // ^
	AMP         // &
	PIPE        // |
	LSHIFT      // <<
	RSHIFT      // >>
	ARROW       // ->
	DARROW      // ->>
	DOT         // .
	COMMA       // ,
	SEMICOLON   // ; when it is not the delimiter
	LPAREN      // (
	RPAREN      // )

	keywordStart

	// Keywords (alphabetical)
	ALL
	AND
	AS
	ASC
	BEGIN
	BETWEEN
	BINARY
	BY
	CASCADE
	CASE
	CAST
	CHARACTER
	CHARSET
	COLLATE
	COMMIT
	CREATE
	CROSS
	DATABASE
	DEFAULT
	DELETE
	DESC
	DISTINCT
	DIV
	DROP
	DUPLICATE
	ELSE
	END
	ESCAPE
	EXISTS
	FALSE
	FROM
	GLOBAL
	GROUP
	HAVING
	IF
	IGNORE
	IN
	INDEX
	INNER
	INSERT
	INTERVAL
	INTO
	IS
	JOIN
	KEY
	LEFT
	LIKE
	LIMIT
	LOCAL
	MOD
	NAMES
	NOT
	NULL
	OFFSET
	ON
	OR
	ORDER
	OUTER
	PERSIST
	PERSIST_ONLY
	PRIMARY
	REGEXP
	REPLACE
	RESTRICT
	RIGHT
	RLIKE
	ROLLBACK
	SCHEMA
	SELECT
	SESSION
	SET
	START
	TABLE
	TEMPORARY
	THEN
	TRANSACTION
	TRUE
	UNION
	UNIQUE
	UNKNOWN
	UPDATE
	USE
	USING
	VALUE
	VALUES
	WHEN
	WHERE
	WORK
	XOR

	keywordEnd
)

var tokenNames = map[TokenType]string{
	EOF:          "EOF",
	ILLEGAL:      "ILLEGAL",
	DELIMITER:    "DELIMITER",
	IDENT:        "IDENT",
	QUOTED_IDENT: "QUOTED_IDENT",
	NUMBER:       "NUMBER",
	STRING:       "STRING",
	HEX:          "HEX",
	BIT:          "BIT",
	INTRODUCER:   "INTRODUCER",
	USER_VAR:     "USER_VAR",
	SYS_VAR:      "SYS_VAR",
	PARAM:        "?",
	PLUS:         "+",
	MINUS:        "-",
	STAR:         "*",
	SLASH:        "/",
	PERCENT:      "%",
	CONCAT:       "||",
	EQ:           "=",
	NULLSAFE_EQ:  "<=>",
	NE:           "!=",
	LT:           "<",
	GT:           ">",
	LE:           "<=",
	GE:           ">=",
	ASSIGN:       ":=",
	BANG:         "!",
	TILDE:        "~",
	CARET:        "^",
	AMP:          "&",
	PIPE:         "|",
	LSHIFT:       "<<",
	RSHIFT:       ">>",
	ARROW:        "->",
	DARROW:       "->>",
	DOT:          ".",
	COMMA:        ",",
	SEMICOLON:    ";",
	LPAREN:       "(",
	RPAREN:       ")",
}

// keywords maps upper-case keyword text to its token type.
var keywords = map[string]TokenType{}

func init() {
	names := []string{
		"ALL", "AND", "AS", "ASC", "BEGIN", "BETWEEN", "BINARY", "BY", "CASCADE", "CASE",
		"CAST", "CHARACTER", "CHARSET", "COLLATE", "COMMIT", "CREATE", "CROSS", "DATABASE",
		"DEFAULT", "DELETE", "DESC", "DISTINCT", "DIV", "DROP", "DUPLICATE", "ELSE", "END",
		"ESCAPE", "EXISTS", "FALSE", "FROM", "GLOBAL", "GROUP", "HAVING", "IF", "IGNORE", "IN",
		"INDEX", "INNER", "INSERT", "INTERVAL", "INTO", "IS", "JOIN", "KEY", "LEFT", "LIKE",
		"LIMIT", "LOCAL", "MOD", "NAMES", "NOT", "NULL", "OFFSET", "ON", "OR", "ORDER", "OUTER",
		"PERSIST", "PERSIST_ONLY", "PRIMARY", "REGEXP", "REPLACE", "RESTRICT", "RIGHT", "RLIKE",
		"ROLLBACK", "SCHEMA", "SELECT", "SESSION", "SET", "START", "TABLE", "TEMPORARY", "THEN",
		"TRANSACTION", "TRUE", "UNION", "UNIQUE", "UNKNOWN", "UPDATE", "USE", "USING", "VALUE",
		"VALUES", "WHEN", "WHERE", "WORK", "XOR",
	}
	for i, name := range names {
		t := keywordStart + 1 + TokenType(i)
		keywords[name] = t
		tokenNames[t] = name
	}
	if len(names) != int(keywordEnd-keywordStart-1) {
		panic("token: keyword table out of sync with constants")
	}
}

// String returns a human-readable representation of the token type.
func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TOKEN(%d)", t)
}

// IsKeyword reports whether the token type is a keyword.
func (t TokenType) IsKeyword() bool {
	return t > keywordStart && t < keywordEnd
}

// LookupKeyword returns the keyword token type for a word.
// Returns IDENT and false if the word is not a keyword.
func LookupKeyword(word string) (TokenType, bool) {
	if t, ok := keywords[strings.ToUpper(word)]; ok {
		return t, true
	}
	return IDENT, false
}

// Token is a single lexical token. Tokens are immutable once produced.
type Token struct {
	Type  TokenType
	Value string // normalized value: unescaped string body, upper-case keyword
	// Original is the raw source slice, set only when it differs from Value.
	Original string
	Pos      Position
}

// Text returns the token as it appeared in the source.
func (t Token) Text() string {
	if t.Original != "" {
		return t.Original
	}
	return t.Value
}

// End returns the position right after the token's raw text.
func (t Token) End() Position {
	text := t.Text()
	end := t.Pos
	end.Offset += len(text)
	if i := strings.LastIndexByte(text, '\n'); i >= 0 {
		end.Line += strings.Count(text, "\n")
		end.Column = len(text) - i
	} else {
		end.Column += len(text)
	}
	return end
}

// Is reports whether the token has the given type.
func (t Token) Is(tt TokenType) bool {
	return t.Type == tt
}

func (t Token) String() string {
	if t.Type == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%s %q", t.Type, t.Text())
}
