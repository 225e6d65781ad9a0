package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/mysqlint/pkg/normalize"
	"github.com/leapstack-labs/mysqlint/pkg/platform"
	"github.com/leapstack-labs/mysqlint/pkg/sqlmode"
)

func newMySQL(mode sqlmode.Mode, opts normalize.Options) *normalize.MySQL {
	return normalize.New(platform.Default(), normalize.FixedMode(mode), opts)
}

func TestFormatName(t *testing.T) {
	tests := []struct {
		name  string
		mode  sqlmode.Mode
		opts  normalize.Options
		input string
		want  string
	}{
		{"plain", sqlmode.None, normalize.Options{}, "x1", "x1"},
		{"dollar and underscore", sqlmode.None, normalize.Options{}, "a_b$c", "a_b$c"},
		{"unicode letters", sqlmode.None, normalize.Options{}, "größe", "größe"},
		{"reserved", sqlmode.None, normalize.Options{}, "SELECT", "`SELECT`"},
		{"reserved lower case", sqlmode.None, normalize.Options{}, "order", "`order`"},
		{"reserved since 8.0", sqlmode.None, normalize.Options{}, "rank", "`rank`"},
		{"digits only", sqlmode.None, normalize.Options{}, "123", "`123`"},
		{"underscore only", sqlmode.None, normalize.Options{}, "_", "`_`"},
		{"space", sqlmode.None, normalize.Options{}, "my table", "`my table`"},
		{"punctuation", sqlmode.None, normalize.Options{}, "a-b", "`a-b`"},
		{"empty", sqlmode.None, normalize.Options{}, "", "``"},
		{"embedded backtick", sqlmode.None, normalize.Options{}, "a`b", "`a``b`"},
		{"quote all", sqlmode.None, normalize.Options{QuoteAllNames: true}, "x1", "`x1`"},
		{"ansi quotes", sqlmode.AnsiQuotes, normalize.Options{}, "SELECT", `"SELECT"`},
		{"ansi embedded quote", sqlmode.AnsiQuotes, normalize.Options{}, `a"b`, `"a""b"`},
		{"ansi backtick is punctuation", sqlmode.AnsiQuotes, normalize.Options{}, "a`b", "\"a`b\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newMySQL(tt.mode, tt.opts).FormatName(tt.input))
		})
	}
}

func TestFormatNameFollowsLiveMode(t *testing.T) {
	mode := &mutableMode{}
	n := normalize.New(platform.Default(), mode, normalize.Options{QuoteAllNames: true})

	assert.Equal(t, "`t`", n.FormatName("t"))
	mode.m = sqlmode.AnsiQuotes
	assert.Equal(t, `"t"`, n.FormatName("t"))
}

type mutableMode struct{ m sqlmode.Mode }

func (m *mutableMode) Mode() sqlmode.Mode { return m.m }

func TestFormatQualifiedName(t *testing.T) {
	n := newMySQL(sqlmode.None, normalize.Options{})
	assert.Equal(t, "db.`select`.c", n.FormatQualifiedName("db", "select", "c"))
	assert.Equal(t, "t", n.FormatQualifiedName("t"))
}

func TestFormatString(t *testing.T) {
	tests := []struct {
		name  string
		mode  sqlmode.Mode
		opts  normalize.Options
		input string
		want  string
	}{
		{"plain", sqlmode.None, normalize.Options{}, "abc", "'abc'"},
		{"single quote doubled", sqlmode.None, normalize.Options{}, "it's", "'it''s'"},
		{"backslash doubled", sqlmode.None, normalize.Options{}, `a\b`, `'a\\b'`},
		{"backslash kept under no escapes", sqlmode.NoBackslashEscapes, normalize.Options{}, `a\b`, `'a\b'`},
		{"newline raw", sqlmode.None, normalize.Options{}, "a\nb", "'a\nb'"},
		{"newline escaped", sqlmode.None, normalize.Options{EscapeWhitespace: true}, "a\nb\tc\rd\x00", `'a\nb\tc\rd\0'`},
		{
			"whitespace raw under no escapes",
			sqlmode.NoBackslashEscapes, normalize.Options{EscapeWhitespace: true},
			"a\nb", "'a\nb'",
		},
		{"double quote untouched", sqlmode.AnsiQuotes, normalize.Options{}, `say "hi"`, `'say "hi"'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newMySQL(tt.mode, tt.opts).FormatString(tt.input))
		})
	}
}

func TestFormatBoolAndBinary(t *testing.T) {
	n := newMySQL(sqlmode.None, normalize.Options{})
	assert.Equal(t, "TRUE", n.FormatBool(true))
	assert.Equal(t, "FALSE", n.FormatBool(false))
	assert.Equal(t, "X'4D7953'", n.FormatBinary([]byte("MyS")))
	assert.Equal(t, "X''", n.FormatBinary(nil))
}
