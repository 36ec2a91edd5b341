package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caretline/edit/internal/term"
)

func ctrlKey(r rune) term.Key { return term.Key{Type: term.KeyCtrl, Rune: r} }
func altKey(r rune) term.Key  { return term.Key{Type: term.KeyAlt, Rune: r} }

// Scenario 2 (§8): insert a line, jump to its start, kill to end-of-line,
// then undo the kill and recover the original text.
func TestEmacsKillLineAndUndo(t *testing.T) {
	e := newTestEditor()
	k := newEmacsKeymap(e)

	e.InsertStr("delete all of this")
	_, err := k.HandleKeyCore(ctrlKey('a'))
	require.NoError(t, err)
	assert.Equal(t, 0, e.cursor)

	_, err = k.HandleKeyCore(ctrlKey('k'))
	require.NoError(t, err)
	assert.Equal(t, "", e.current().String())
	assert.Equal(t, "delete all of this", e.LastKill())

	_, err = k.HandleKeyCore(ctrlKey('x'))
	require.NoError(t, err)
	assert.Equal(t, "delete all of this", e.current().String())
}

func TestEmacsWordMotionUsesAlnumBoundary(t *testing.T) {
	e := newTestEditor()
	k := newEmacsKeymap(e)

	e.InsertStr("foo-bar baz")
	e.ToStart()

	_, err := k.HandleKeyCore(altKey('f'))
	require.NoError(t, err)
	assert.Equal(t, 3, e.cursor) // stops at end of "foo"

	_, err = k.HandleKeyCore(altKey('f'))
	require.NoError(t, err)
	assert.Equal(t, 7, e.cursor) // "-" skipped, lands after "bar"
}

func TestEmacsCtrlWDeletesWordBeforeCursor(t *testing.T) {
	e := newTestEditor()
	k := newEmacsKeymap(e)

	e.InsertStr("abc def")
	_, err := k.HandleKeyCore(ctrlKey('w'))
	require.NoError(t, err)

	assert.Equal(t, "abc ", e.current().String())
	assert.Equal(t, "def", e.LastKill())
}

func TestEmacsRecallLastArgInsertsAndCycles(t *testing.T) {
	e := newTestEditor()
	k := newEmacsKeymap(e)

	e.hist.Push("touch one.txt")
	e.hist.Push("rm two.txt")

	_, err := k.HandleKeyCore(altKey('.'))
	require.NoError(t, err)
	assert.Equal(t, "two.txt", e.current().String())

	_, err = k.HandleKeyCore(altKey('.'))
	require.NoError(t, err)
	assert.Equal(t, "one.txt", e.current().String())
}

func TestEmacsPlainCharInsertsAtCursor(t *testing.T) {
	e := newTestEditor()
	k := newEmacsKeymap(e)

	for _, r := range "hi" {
		_, err := k.HandleKeyCore(term.Key{Type: term.KeyChar, Rune: r})
		require.NoError(t, err)
	}
	assert.Equal(t, "hi", e.current().String())
	assert.Equal(t, 2, e.cursor)
}

func TestEmacsArrowKeysMoveCursor(t *testing.T) {
	e := newTestEditor()
	k := newEmacsKeymap(e)

	e.InsertStr("abcd")
	_, err := k.HandleKeyCore(term.Key{Type: term.KeyLeft})
	require.NoError(t, err)
	assert.Equal(t, 3, e.cursor)

	_, err = k.HandleKeyCore(term.Key{Type: term.KeyRight})
	require.NoError(t, err)
	assert.Equal(t, 4, e.cursor)
}
