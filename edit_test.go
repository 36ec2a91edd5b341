package edit

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// WithIO's fd=-1 escape hatch skips raw-mode entry, letting ReadLine run
// end to end over in-memory buffers.
func TestReadLineEndToEnd(t *testing.T) {
	var out bytes.Buffer
	sh := New(WithIO(strings.NewReader("hello world\n"), &out, -1))

	line, err := sh.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "hello world", line)
}

func TestReadLinePushesToHistory(t *testing.T) {
	var out bytes.Buffer
	sh := New(WithIO(strings.NewReader("first\nsecond\n"), &out, -1))

	_, err := sh.ReadLine()
	require.NoError(t, err)
	_, err = sh.ReadLine()
	require.NoError(t, err)

	assert.Equal(t, 2, sh.History.Len())
	entry, ok := sh.History.At(0)
	require.True(t, ok)
	assert.Equal(t, "first", entry)
}

func TestReadLineCtrlDOnEmptyLineReturnsEOF(t *testing.T) {
	var out bytes.Buffer
	sh := New(WithIO(strings.NewReader("\x04"), &out, -1))

	_, err := sh.ReadLine()
	assert.ErrorIs(t, err, ErrEndOfInput)
}

func TestReadLineCtrlCReturnsInterrupted(t *testing.T) {
	var out bytes.Buffer
	sh := New(WithIO(strings.NewReader("abc\x03"), &out, -1))

	_, err := sh.ReadLine()
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestReadLineViBindingsEditLine(t *testing.T) {
	var out bytes.Buffer
	// Esc 0 x replaces the vi default insert-mode buffer "ab" with "b". The
	// Esc ends its own read so the decoder sees a bare Esc, not an Alt prefix.
	in := io.MultiReader(strings.NewReader("ab\x1b"), strings.NewReader("0x\n"))
	sh := New(WithVi(), WithIO(in, &out, -1))

	line, err := sh.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "b", line)
}

func TestLoadWithNoHistoryFileConfiguredReturnsSentinel(t *testing.T) {
	sh := New()
	err := sh.History.Load()
	assert.ErrorIs(t, err, ErrNoHistoryFile)
}
