package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushEvictsOldestOverCap(t *testing.T) {
	h := New("", false, nil)
	h.SetMaxEntries(2)

	h.Push("a")
	h.Push("b")
	h.Push("c")

	require.Equal(t, 2, h.Len())
	e0, _ := h.At(0)
	e1, _ := h.At(1)
	assert.Equal(t, "b", e0)
	assert.Equal(t, "c", e1)
}

func TestPushDropsConsecutiveDuplicateInMemory(t *testing.T) {
	h := New("", false, nil)
	h.Push("ls")
	h.Push("ls")
	assert.Equal(t, 1, h.Len())
}

func TestPushKeepsDuplicatesWhenEnabled(t *testing.T) {
	h := New("", true, nil)
	h.Push("ls")
	h.Push("ls")
	assert.Equal(t, 2, h.Len())
}

func TestGetNewestMatch(t *testing.T) {
	h := New("", false, nil)
	h.Push("git status")
	h.Push("git commit")
	h.Push("ls -la")

	match, idx, ok := h.GetNewestMatch(h.Len(), "git")
	require.True(t, ok)
	assert.Equal(t, "git commit", match)
	assert.Equal(t, 1, idx)
}

func TestGetNewestMatchRejectsEqualLength(t *testing.T) {
	h := New("", false, nil)
	h.Push("exact")
	_, _, ok := h.GetNewestMatch(h.Len(), "exact")
	assert.False(t, ok)
}

func TestGetNewestMatchNone(t *testing.T) {
	h := New("", false, nil)
	h.Push("ls -la")
	_, _, ok := h.GetNewestMatch(h.Len(), "git")
	assert.False(t, ok)
}

func TestWalkClampsAtBounds(t *testing.T) {
	h := New("", false, nil)
	h.Push("a")
	h.Push("b")
	h.ResetWalk()

	e, pos, ok := h.Walk(-1)
	require.True(t, ok)
	assert.Equal(t, "b", e)
	assert.Equal(t, 1, pos)

	e, pos, ok = h.Walk(-1)
	require.True(t, ok)
	assert.Equal(t, "a", e)
	assert.Equal(t, 0, pos)

	e, pos, ok = h.Walk(-1)
	require.True(t, ok)
	assert.Equal(t, "a", e)
	assert.Equal(t, 0, pos)
}

func TestCommitPersistsQueuedWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history")

	h := New(path, false, nil)
	h.Push("one")
	h.Push("two")
	h.Commit()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one\ntwo\n", string(data))
}

func TestLoadReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history")
	require.NoError(t, os.WriteFile(path, []byte("a\nb\nc\n"), 0o600))

	h := New("", false, nil)
	h.filePath = path
	require.NoError(t, h.Load())

	assert.Equal(t, 3, h.Len())
	e, _ := h.At(2)
	assert.Equal(t, "c", e)
}

func TestLoadNoPathIsInvalidArgument(t *testing.T) {
	h := New("", false, nil)
	err := h.Load()
	assert.ErrorIs(t, err, os.ErrInvalid)
}

func TestFileTrimsOldestWhenOverCap(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history")

	h := New(path, false, nil)
	h.SetMaxFileEntries(2)
	h.Push("one")
	h.Push("two")
	h.Push("three")
	h.Commit()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two\nthree\n", string(data))
}

func TestWorkerDoesNotBlockForeground(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history")

	h := New(path, false, nil)
	start := time.Now()
	h.Push("fast")
	assert.Less(t, time.Since(start), 50*time.Millisecond)
	h.Commit()
}
