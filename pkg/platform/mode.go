package platform

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
)

var (
	mysql80Default = sqlmode.MustFromString(
		"ONLY_FULL_GROUP_BY,STRICT_TRANS_TABLES,NO_ZERO_IN_DATE,NO_ZERO_DATE,ERROR_FOR_DIVISION_BY_ZERO,NO_ENGINE_SUBSTITUTION")
	mysql57Default = mysql80Default.With(sqlmode.NoAutoCreateUser)
	mysql56Default = sqlmode.NoEngineSubstitution

	mariadbDefault = sqlmode.MustFromString(
		"STRICT_TRANS_TABLES,ERROR_FOR_DIVISION_BY_ZERO,NO_AUTO_CREATE_USER,NO_ENGINE_SUBSTITUTION")
	mariadbLegacyDefault = sqlmode.MustFromString("NO_ENGINE_SUBSTITUTION,NO_AUTO_CREATE_USER")

	// Flags removed from MySQL 8.0.
	mysql80Removed = sqlmode.NoAutoCreateUser | sqlmode.DB2 | sqlmode.MaxDB | sqlmode.MSSQL |
		sqlmode.Oracle | sqlmode.PostgreSQL | sqlmode.MySQL323 | sqlmode.MySQL40 |
		sqlmode.NoKeyOptions | sqlmode.NoTableOptions | sqlmode.NoFieldOptions

	mariadbOnly = sqlmode.EmptyStringIsNull | sqlmode.SimultaneousAssignment | sqlmode.TimeRoundFractional
)

// DefaultMode returns the sql_mode a fresh connection starts with.
func (p Platform) DefaultMode() sqlmode.Mode {
	switch {
	case p.IsMariaDB() && p.Version.AtLeast(10, 2, 4):
		return mariadbDefault
	case p.IsMariaDB():
		return mariadbLegacyDefault
	case p.Version.AtLeast(8, 0, 0):
		return mysql80Default
	case p.Version.AtLeast(5, 7, 0):
		return mysql57Default
	default:
		return mysql56Default
	}
}

// SupportedModes returns the mask of flags the platform accepts.
func (p Platform) SupportedModes() sqlmode.Mode {
	var all sqlmode.Mode
	for _, name := range sqlmode.Names() {
		m, _ := sqlmode.Lookup(name)
		all |= m
	}

	if p.IsMariaDB() {
		all = all.Without(sqlmode.TimeTruncateFractional)
		if !p.Version.AtLeast(10, 3, 0) {
			all = all.Without(sqlmode.EmptyStringIsNull | sqlmode.SimultaneousAssignment)
		}
		if !p.Version.AtLeast(10, 4, 0) {
			all = all.Without(sqlmode.TimeRoundFractional)
		}
		return all
	}

	all = all.Without(mariadbOnly)
	if p.Version.AtLeast(8, 0, 0) {
		return all.Without(mysql80Removed)
	}
	return all.Without(sqlmode.TimeTruncateFractional)
}

// ParseMode parses a mode string the way the server does: DEFAULT resolves
// to the platform's default mode, anything else is a flag list.
func (p Platform) ParseMode(s string) (sqlmode.Mode, error) {
	if strings.EqualFold(strings.TrimSpace(s), "DEFAULT") {
		return p.DefaultMode(), nil
	}
	return sqlmode.FromString(s)
}

// modeBits lists the flag at each bit of the server's integer encoding.
// Bit 4 has never been assigned.
var modeBits = []string{
	"REAL_AS_FLOAT", "PIPES_AS_CONCAT", "ANSI_QUOTES", "IGNORE_SPACE", "",
	"ONLY_FULL_GROUP_BY", "NO_UNSIGNED_SUBTRACTION", "NO_DIR_IN_CREATE", "POSTGRESQL", "ORACLE",
	"MSSQL", "DB2", "MAXDB", "NO_KEY_OPTIONS", "NO_TABLE_OPTIONS",
	"NO_FIELD_OPTIONS", "MYSQL323", "MYSQL40", "ANSI", "NO_AUTO_VALUE_ON_ZERO",
	"NO_BACKSLASH_ESCAPES", "STRICT_TRANS_TABLES", "STRICT_ALL_TABLES", "NO_ZERO_IN_DATE", "NO_ZERO_DATE",
	"ALLOW_INVALID_DATES", "ERROR_FOR_DIVISION_BY_ZERO", "TRADITIONAL", "NO_AUTO_CREATE_USER", "HIGH_NOT_PRECEDENCE",
	"NO_ENGINE_SUBSTITUTION", "PAD_CHAR_TO_FULL_LENGTH",
}

var (
	mysqlHighBits   = []string{"TIME_TRUNCATE_FRACTIONAL"}
	mariadbHighBits = []string{"EMPTY_STRING_IS_NULL", "SIMULTANEOUS_ASSIGNMENT", "TIME_ROUND_FRACTIONAL"}
)

func (p Platform) bitNames() []string {
	names := make([]string, 0, len(modeBits)+len(mariadbHighBits))
	names = append(names, modeBits...)
	if p.IsMariaDB() {
		return append(names, mariadbHighBits...)
	}
	return append(names, mysqlHighBits...)
}

// ModeFromInt decodes the server's integer form of sql_mode. Group bits are
// expanded, as the server does when assigning a number.
func (p Platform) ModeFromInt(n int64) (sqlmode.Mode, error) {
	if n < 0 {
		return sqlmode.None, fmt.Errorf("invalid sql_mode value %d", n)
	}

	names := p.bitNames()
	var m sqlmode.Mode
	for bit := 0; n != 0; bit++ {
		if n&1 != 0 {
			if bit >= len(names) || names[bit] == "" {
				return sqlmode.None, fmt.Errorf("invalid sql_mode value: bit %d is not assigned on %s", bit, p.Name)
			}
			flag, _ := sqlmode.Lookup(names[bit])
			m |= flag
		}
		n >>= 1
	}
	return m, nil
}

// ModeToInt encodes a mode in the server's integer form. Flags the platform
// has no bit for are dropped.
func (p Platform) ModeToInt(m sqlmode.Mode) int64 {
	set := make(map[string]bool)
	for _, name := range m.Flags() {
		set[name] = true
	}

	var n int64
	for bit, name := range p.bitNames() {
		if name != "" && set[name] {
			n |= 1 << bit
		}
	}
	return n
}
