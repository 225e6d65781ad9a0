package charset_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/pkg/charset"
)

func TestLookup(t *testing.T) {
	cs, ok := charset.Lookup("UTF8MB4")
	require.True(t, ok)
	assert.Equal(t, "utf8mb4", cs.Name)
	assert.Equal(t, 4, cs.MaxLen)

	cs, ok = charset.Lookup("utf8")
	require.True(t, ok)
	assert.Equal(t, "utf8mb3", cs.Name)

	_, ok = charset.Lookup("klingon")
	assert.False(t, ok)
}

func TestCollations(t *testing.T) {
	latin1, ok := charset.Lookup("latin1")
	require.True(t, ok)

	assert.True(t, latin1.Accepts("latin1_swedish_ci"))
	assert.True(t, latin1.Accepts("latin1_bin"))
	assert.False(t, latin1.Accepts("utf8mb4_bin"))
	assert.False(t, latin1.Accepts("nope"))
	assert.Equal(t, "latin1_swedish_ci", latin1.Collation().Name)

	c, ok := charset.LookupCollation("utf8_general_ci")
	require.True(t, ok)
	assert.Equal(t, "utf8mb3", c.Charset)
	assert.True(t, c.Default)
}

func TestCanRepresent(t *testing.T) {
	tests := []struct {
		charset string
		text    string
		want    bool
	}{
		{"latin1", "café", true},
		{"latin1", "日本", false},
		{"ascii", "plain", true},
		{"ascii", "café", false},
		{"utf8mb3", "日本", true},
		{"utf8mb3", "\U0001F600", false},
		{"utf8mb4", "\U0001F600", true},
		{"sjis", "日本", true},
		{"cp1251", "привет", true},
		{"cp1251", "ελληνικά", false},
		{"greek", "ελληνικά", true},
		{"binary", "\xff\xfe", true},
	}

	for _, tt := range tests {
		t.Run(tt.charset+"/"+tt.text, func(t *testing.T) {
			cs, ok := charset.Lookup(tt.charset)
			require.True(t, ok)
			assert.Equal(t, tt.want, cs.CanRepresent(tt.text))
		})
	}
}

func TestNamesSorted(t *testing.T) {
	names := charset.Names()
	assert.IsNonDecreasing(t, names)
	assert.Contains(t, names, "latin1")
}
