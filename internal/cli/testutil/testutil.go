// Package testutil provides helpers for command tests: project fixtures
// on disk and renderers that capture what they print.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/mysqlint/internal/cli/output"
)

// WriteFiles creates files under dir. Keys are slash-separated paths
// relative to dir.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	}
}

// Capture is a Renderer writing into in-memory buffers.
type Capture struct {
	*output.Renderer
	stdout, stderr bytes.Buffer
}

// NewCapture returns a Capture in mode. tty controls whether styles emit
// escape codes.
func NewCapture(mode output.OutputMode, tty bool) *Capture {
	c := &Capture{}
	c.Renderer = output.NewRendererWithTTY(&c.stdout, &c.stderr, tty, mode)
	return c
}

// Output returns what was written to stdout.
func (c *Capture) Output() string { return c.stdout.String() }

// ErrorOutput returns what was written to stderr.
func (c *Capture) ErrorOutput() string { return c.stderr.String() }

// Reset discards everything captured so far.
func (c *Capture) Reset() {
	c.stdout.Reset()
	c.stderr.Reset()
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI fails t if s holds terminal escape sequences.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	assert.False(t, ansiEscape.MatchString(s), "unexpected ANSI escape codes in %q", s)
}
