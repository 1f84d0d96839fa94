package haptics

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBellPatterns(t *testing.T) {
	var buf bytes.Buffer
	b := NewBell(&buf)

	b.Trigger(Success)
	assert.Equal(t, "\a", buf.String())

	buf.Reset()
	b.Trigger(Error)
	assert.Equal(t, "\a\a", buf.String())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "error", Error.String())
	assert.Equal(t, "unknown", Kind(9).String())
}

func TestForFileNonTerminal(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out"))
	require.NoError(t, err)
	defer f.Close()

	assert.IsType(t, Noop{}, ForFile(f))
	assert.IsType(t, Noop{}, ForFile(nil))
}

func TestFromConfigDisabled(t *testing.T) {
	for _, v := range []string{"false", "0", "OFF", " no "} {
		assert.IsType(t, Noop{}, FromConfig(v, os.Stdout), v)
	}
}

func TestNoopTrigger(t *testing.T) {
	assert.NotPanics(t, func() { Noop{}.Trigger(Error) })
}
