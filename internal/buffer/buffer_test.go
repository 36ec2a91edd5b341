package buffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsert(t *testing.T) {
	b := New()
	b.Insert(0, "abcdefg")
	assert.Equal(t, "abcdefg", b.String())
}

func TestTruncateEmpty(t *testing.T) {
	b := New()
	b.Truncate(0)
	assert.Equal(t, "", b.String())
}

func TestTruncateAll(t *testing.T) {
	b := New()
	b.Insert(0, "abcdefg")
	b.Truncate(0)
	assert.Equal(t, "", b.String())
}

func TestTruncateEnd(t *testing.T) {
	b := New()
	b.Insert(0, "abcdefg")
	b.Truncate(b.Len())
	assert.Equal(t, "abcdefg", b.String())
}

func TestTruncatePart(t *testing.T) {
	b := New()
	b.Insert(0, "abcdefg")
	b.Truncate(3)
	assert.Equal(t, "abc", b.String())
}

func TestTruncateEmptyUndo(t *testing.T) {
	b := New()
	b.Truncate(0)
	b.Undo()
	assert.Equal(t, "", b.String())
}

func TestTruncateAllThenUndo(t *testing.T) {
	b := New()
	b.Insert(0, "abcdefg")
	b.Truncate(0)
	b.Undo()
	assert.Equal(t, "abcdefg", b.String())
}

func TestTruncatePartThenUndo(t *testing.T) {
	b := New()
	b.Insert(0, "abcdefg")
	b.Truncate(3)
	b.Undo()
	assert.Equal(t, "abcdefg", b.String())
}

func TestUndoGroup(t *testing.T) {
	b := New()
	b.Insert(0, "abcdefg")
	b.StartGroup()
	b.Remove(0, 1)
	b.Remove(0, 1)
	b.Remove(0, 1)
	b.EndGroup()

	require.True(t, b.Undo())
	assert.Equal(t, "abcdefg", b.String())
}

func TestRedoGroup(t *testing.T) {
	b := New()
	b.Insert(0, "abcdefg")
	b.StartGroup()
	b.Remove(0, 1)
	b.Remove(0, 1)
	b.Remove(0, 1)
	b.EndGroup()

	require.True(t, b.Undo())
	require.True(t, b.Redo())
	assert.Equal(t, "defg", b.String())
}

func TestNestedUndoGroup(t *testing.T) {
	b := New()
	b.Insert(0, "abcdefg")
	b.StartGroup()
	b.Remove(0, 1)
	b.StartGroup()
	b.Remove(0, 1)
	b.EndGroup()
	b.Remove(0, 1)
	b.EndGroup()

	require.True(t, b.Undo())
	assert.Equal(t, "abcdefg", b.String())
}

func TestNestedRedoGroup(t *testing.T) {
	b := New()
	b.Insert(0, "abcdefg")
	b.StartGroup()
	b.Remove(0, 1)
	b.StartGroup()
	b.Remove(0, 1)
	b.EndGroup()
	b.Remove(0, 1)
	b.EndGroup()

	require.True(t, b.Undo())
	require.True(t, b.Redo())
	assert.Equal(t, "defg", b.String())
}

func TestEmptyGroupIsTransparent(t *testing.T) {
	b := New()
	b.Insert(0, "abc")
	b.StartGroup()
	b.EndGroup()

	require.True(t, b.Undo())
	assert.Equal(t, "", b.String())
}

func TestStartsWith(t *testing.T) {
	b := NewFromString("abcdefg")
	other := NewFromString("abc")
	assert.True(t, b.StartsWith(other))
}

func TestDoesNotStartWithEqualLength(t *testing.T) {
	b := NewFromString("abc")
	other := NewFromString("abc")
	assert.False(t, b.StartsWith(other))
}

func TestIsNotMatch(t *testing.T) {
	b := NewFromString("abcdefg")
	other := NewFromString("xyz")
	assert.False(t, b.StartsWith(other))
}

func TestLastArg(t *testing.T) {
	b := NewFromString("delete all of this")
	arg, ok := b.LastArg()
	require.True(t, ok)
	assert.Equal(t, "this", arg)
}

func TestLastArgEmpty(t *testing.T) {
	b := NewFromString("   ")
	_, ok := b.LastArg()
	assert.False(t, ok)
}

func TestUndoRoundTripProperty(t *testing.T) {
	b := NewFromString("hello")
	b.Insert(5, " world")
	b.Remove(0, 1)
	b.Insert(0, "H")

	original := "Hello world"
	require.Equal(t, original, b.String())

	b.Undo()
	b.Undo()
	b.Undo()

	assert.Equal(t, "hello", b.String())
}
