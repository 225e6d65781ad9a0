package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/pkg/core"
)

func newTestRenderer(mode OutputMode) (*Renderer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewRendererWithTTY(out, &bytes.Buffer{}, false, mode), out
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		mode OutputMode
		want OutputMode
	}{
		{"", ModeText},
		{ModeAuto, ModeText},
		{ModeText, ModeText},
		{ModeJSON, ModeJSON},
		{ModeYAML, ModeYAML},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			r, _ := newTestRenderer(tt.mode)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestNewRenderer_BufferIsNotATerminal(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
}

func TestEncode(t *testing.T) {
	v := map[string]any{"rule": "DM01", "count": 2}

	r, out := newTestRenderer(ModeJSON)
	done, err := r.Encode(v)
	require.NoError(t, err)
	assert.True(t, done)
	assert.JSONEq(t, `{"rule":"DM01","count":2}`, out.String())

	r, out = newTestRenderer(ModeYAML)
	done, err = r.Encode(v)
	require.NoError(t, err)
	assert.True(t, done)
	assert.Contains(t, out.String(), "rule: DM01")
	assert.Contains(t, out.String(), "count: 2")

	r, out = newTestRenderer(ModeText)
	done, err = r.Encode(v)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Empty(t, out.String())
}

func TestTable(t *testing.T) {
	r, out := newTestRenderer(ModeText)
	r.Table([]string{"ID", "Name"}, [][]any{{"DM01", "convention.unsafe_dml"}})

	s := out.String()
	assert.Contains(t, s, "NAME", "headers are upper-cased")
	assert.Contains(t, s, "DM01")
	assert.Contains(t, s, "convention.unsafe_dml")
}

func TestSeverityIsPlainWithoutTTY(t *testing.T) {
	r, _ := newTestRenderer(ModeText)
	assert.Equal(t, "critical", r.Severity(core.SeverityCritical))
	assert.Equal(t, "notice", r.Severity(core.SeverityNotice))
}
