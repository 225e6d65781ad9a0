// Package sqlmode models the server SQL mode: an immutable set of behavior
// flags that change how statements are lexed and how values are rendered.
//
// Mode is a value type. Two modes are equal when they hold the same flags,
// regardless of how they were built:
//
//	m, err := sqlmode.FromString("ANSI,NO_BACKSLASH_ESCAPES")
//	if m.Has(sqlmode.AnsiQuotes) { ... }
package sqlmode

import (
	"fmt"
	"math/bits"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Mode is a bitset of SQL mode flags.
type Mode uint64

// Individual flags. Bit positions are internal; use platform.ModeToInt for
// the server's integer representation.
const (
	RealAsFloat Mode = 1 << iota
	PipesAsConcat
	AnsiQuotes
	IgnoreSpace
	OnlyFullGroupBy
	NoUnsignedSubtraction
	NoDirInCreate
	NoKeyOptions
	NoTableOptions
	NoFieldOptions
	NoAutoValueOnZero
	NoBackslashEscapes
	StrictTransTables
	StrictAllTables
	NoZeroInDate
	NoZeroDate
	AllowInvalidDates
	ErrorForDivisionByZero
	NoAutoCreateUser
	HighNotPrecedence
	NoEngineSubstitution
	PadCharToFullLength
	TimeTruncateFractional
	EmptyStringIsNull
	SimultaneousAssignment
	TimeRoundFractional

	// Group flags. A group keeps its own bit next to its expanded members,
	// the same way the server reports them back.
	ANSI
	Traditional
	DB2
	MaxDB
	MSSQL
	Oracle
	PostgreSQL
	MySQL323
	MySQL40
)

// None is the empty mode.
const None Mode = 0

type flagDef struct {
	name    string
	bit     Mode
	members Mode // non-zero for groups
}

// flags lists every flag in canonical output order.
var flags = []flagDef{
	{name: "REAL_AS_FLOAT", bit: RealAsFloat},
	{name: "PIPES_AS_CONCAT", bit: PipesAsConcat},
	{name: "ANSI_QUOTES", bit: AnsiQuotes},
	{name: "IGNORE_SPACE", bit: IgnoreSpace},
	{name: "ONLY_FULL_GROUP_BY", bit: OnlyFullGroupBy},
	{name: "NO_UNSIGNED_SUBTRACTION", bit: NoUnsignedSubtraction},
	{name: "NO_DIR_IN_CREATE", bit: NoDirInCreate},
	{name: "POSTGRESQL", bit: PostgreSQL,
		members: PipesAsConcat | AnsiQuotes | IgnoreSpace | NoKeyOptions | NoTableOptions | NoFieldOptions},
	{name: "ORACLE", bit: Oracle,
		members: PipesAsConcat | AnsiQuotes | IgnoreSpace | NoKeyOptions | NoTableOptions | NoFieldOptions | NoAutoCreateUser},
	{name: "MSSQL", bit: MSSQL,
		members: PipesAsConcat | AnsiQuotes | IgnoreSpace | NoKeyOptions | NoTableOptions | NoFieldOptions},
	{name: "DB2", bit: DB2,
		members: PipesAsConcat | AnsiQuotes | IgnoreSpace | NoKeyOptions | NoTableOptions | NoFieldOptions},
	{name: "MAXDB", bit: MaxDB,
		members: PipesAsConcat | AnsiQuotes | IgnoreSpace | NoKeyOptions | NoTableOptions | NoFieldOptions | NoAutoCreateUser},
	{name: "NO_KEY_OPTIONS", bit: NoKeyOptions},
	{name: "NO_TABLE_OPTIONS", bit: NoTableOptions},
	{name: "NO_FIELD_OPTIONS", bit: NoFieldOptions},
	{name: "MYSQL323", bit: MySQL323, members: HighNotPrecedence},
	{name: "MYSQL40", bit: MySQL40, members: HighNotPrecedence},
	{name: "ANSI", bit: ANSI,
		members: RealAsFloat | PipesAsConcat | AnsiQuotes | IgnoreSpace | OnlyFullGroupBy},
	{name: "NO_AUTO_VALUE_ON_ZERO", bit: NoAutoValueOnZero},
	{name: "NO_BACKSLASH_ESCAPES", bit: NoBackslashEscapes},
	{name: "STRICT_TRANS_TABLES", bit: StrictTransTables},
	{name: "STRICT_ALL_TABLES", bit: StrictAllTables},
	{name: "NO_ZERO_IN_DATE", bit: NoZeroInDate},
	{name: "NO_ZERO_DATE", bit: NoZeroDate},
	{name: "ALLOW_INVALID_DATES", bit: AllowInvalidDates},
	{name: "ERROR_FOR_DIVISION_BY_ZERO", bit: ErrorForDivisionByZero},
	{name: "TRADITIONAL", bit: Traditional,
		members: StrictTransTables | StrictAllTables | NoZeroInDate | NoZeroDate |
			ErrorForDivisionByZero | NoAutoCreateUser | NoEngineSubstitution},
	{name: "NO_AUTO_CREATE_USER", bit: NoAutoCreateUser},
	{name: "HIGH_NOT_PRECEDENCE", bit: HighNotPrecedence},
	{name: "NO_ENGINE_SUBSTITUTION", bit: NoEngineSubstitution},
	{name: "PAD_CHAR_TO_FULL_LENGTH", bit: PadCharToFullLength},
	{name: "TIME_TRUNCATE_FRACTIONAL", bit: TimeTruncateFractional},
	{name: "EMPTY_STRING_IS_NULL", bit: EmptyStringIsNull},
	{name: "SIMULTANEOUS_ASSIGNMENT", bit: SimultaneousAssignment},
	{name: "TIME_ROUND_FRACTIONAL", bit: TimeRoundFractional},
}

var byName = func() map[string]flagDef {
	m := make(map[string]flagDef, len(flags))
	for _, f := range flags {
		m[f.name] = f
	}
	return m
}()

// parsed caches FromString results; mode strings repeat heavily in dumps.
var parsed, _ = lru.New[string, Mode](256)

// UnknownFlagError is returned when a mode string names an unknown flag.
type UnknownFlagError struct {
	Name string
}

func (e *UnknownFlagError) Error() string {
	return fmt.Sprintf("unknown SQL mode %q", e.Name)
}

// Lookup returns the flag (expanded, for groups) registered under name.
func Lookup(name string) (Mode, bool) {
	f, ok := byName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return None, false
	}
	return f.bit | f.members, true
}

// Bit returns the flag's own bit. Unlike Lookup, groups are not expanded.
func Bit(name string) (Mode, bool) {
	f, ok := byName[strings.ToUpper(strings.TrimSpace(name))]
	return f.bit, ok
}

// IsGroup reports whether name is a group that expands to other flags.
func IsGroup(name string) bool {
	f, ok := byName[strings.ToUpper(strings.TrimSpace(name))]
	return ok && f.members != 0
}

// Names returns every known flag and group name in canonical order.
func Names() []string {
	names := make([]string, len(flags))
	for i, f := range flags {
		names[i] = f.name
	}
	return names
}

// FromString parses a comma-separated list of flag and group names.
// Names are case-insensitive, blanks are ignored and groups are expanded.
func FromString(s string) (Mode, error) {
	if m, ok := parsed.Get(s); ok {
		return m, nil
	}

	var m Mode
	for _, part := range strings.Split(s, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		bit, ok := Lookup(name)
		if !ok {
			return None, &UnknownFlagError{Name: name}
		}
		m |= bit
	}

	parsed.Add(s, m)
	return m, nil
}

// MustFromString is like FromString but panics on error.
// Intended for package-level tables.
func MustFromString(s string) Mode {
	m, err := FromString(s)
	if err != nil {
		panic(err)
	}
	return m
}

// String renders the mode as a canonical comma-separated list.
func (m Mode) String() string {
	return strings.Join(m.Flags(), ",")
}

// Flags returns the names of the set flags in canonical order.
func (m Mode) Flags() []string {
	names := make([]string, 0, bits.OnesCount64(uint64(m)))
	for _, f := range flags {
		if m&f.bit != 0 {
			names = append(names, f.name)
		}
	}
	return names
}

// Has reports whether every bit of flag is set.
func (m Mode) Has(flag Mode) bool {
	return m&flag == flag
}

// ContainsAny reports whether any bit of mask is set.
func (m Mode) ContainsAny(mask Mode) bool {
	return m&mask != 0
}

// With returns a mode with the given flags added.
func (m Mode) With(flag Mode) Mode {
	return m | flag
}

// Without returns a mode with the given bits cleared.
func (m Mode) Without(flag Mode) Mode {
	return m &^ flag
}

// Remove clears the named flag. Removing a group clears only the group's own
// bit; the flags it expanded to stay set.
func (m Mode) Remove(name string) (Mode, error) {
	f, ok := byName[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return m, &UnknownFlagError{Name: name}
	}
	return m &^ f.bit, nil
}
