// Package buffer implements the edited line's in-memory representation:
// an ordered sequence of Unicode code points plus a grouped undo/redo
// journal.
package buffer

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// actionKind distinguishes the four journal entry variants.
type actionKind int

const (
	actionInsert actionKind = iota
	actionRemove
	actionStartGroup
	actionEndGroup
)

// action is one entry in the undo/redo journal.
type action struct {
	kind   actionKind
	offset int
	text   []rune
}

// Buffer is an ordered sequence of code points with grouped undo/redo.
//
// None of its methods fail: out-of-range offsets are a programming error
// and callers are responsible for respecting bounds (0..=Len()).
type Buffer struct {
	runes []rune
	undo  []action
	redo  []action
}

// New creates an empty buffer.
func New() *Buffer {
	return &Buffer{}
}

// NewFromString creates a buffer pre-populated with s and no undo history.
func NewFromString(s string) *Buffer {
	return &Buffer{runes: []rune(s)}
}

// Len returns the number of code points in the buffer.
func (b *Buffer) Len() int {
	return len(b.runes)
}

// String returns the whole buffer as a string.
func (b *Buffer) String() string {
	return string(b.runes)
}

// At returns the code point at offset, and whether offset was in range.
func (b *Buffer) At(offset int) (rune, bool) {
	if offset < 0 || offset >= len(b.runes) {
		return 0, false
	}
	return b.runes[offset], true
}

// Insert splices text at offset and records the matching Insert action.
// It clears the redo stack.
func (b *Buffer) Insert(offset int, text string) {
	if text == "" {
		return
	}
	r := []rune(text)
	b.splice(offset, r)
	b.undo = append(b.undo, action{kind: actionInsert, offset: offset, text: r})
	b.redo = nil
}

// Remove splices out [start, end) and records the matching Remove action
// carrying the removed text. It returns the number of code points removed
// and clears the redo stack.
func (b *Buffer) Remove(start, end int) int {
	if start >= end {
		return 0
	}
	removed := append([]rune(nil), b.runes[start:end]...)
	b.runes = append(b.runes[:start], b.runes[end:]...)
	b.undo = append(b.undo, action{kind: actionRemove, offset: start, text: removed})
	b.redo = nil
	return len(removed)
}

// Truncate removes [n, Len()) and records it as a Remove action.
func (b *Buffer) Truncate(n int) {
	b.Remove(n, b.Len())
}

// StartGroup pushes a group-open marker. Pushing a marker does not clear
// the redo stack.
func (b *Buffer) StartGroup() {
	b.undo = append(b.undo, action{kind: actionStartGroup})
}

// EndGroup pushes a group-close marker. Pushing a marker does not clear
// the redo stack.
func (b *Buffer) EndGroup() {
	b.undo = append(b.undo, action{kind: actionEndGroup})
}

// Undo pops actions, applying each inverse, until group-nesting returns to
// zero with at least one non-marker action applied. Each popped action is
// pushed onto the redo stack. It returns false only if the undo stack was
// empty.
func (b *Buffer) Undo() bool {
	if len(b.undo) == 0 {
		return false
	}

	depth := 0
	consumed := false

	for len(b.undo) > 0 {
		act := b.undo[len(b.undo)-1]
		b.undo = b.undo[:len(b.undo)-1]

		switch act.kind {
		case actionEndGroup:
			depth++
		case actionStartGroup:
			depth--
		case actionInsert:
			b.runes = append(b.runes[:act.offset], b.runes[act.offset+len(act.text):]...)
			consumed = true
		case actionRemove:
			b.splice(act.offset, act.text)
			consumed = true
		}

		b.redo = append(b.redo, act)

		if depth <= 0 && consumed {
			return true
		}
	}

	return consumed
}

// Redo is the symmetric counterpart of Undo.
func (b *Buffer) Redo() bool {
	if len(b.redo) == 0 {
		return false
	}

	depth := 0
	consumed := false

	for len(b.redo) > 0 {
		act := b.redo[len(b.redo)-1]
		b.redo = b.redo[:len(b.redo)-1]

		switch act.kind {
		case actionStartGroup:
			depth++
		case actionEndGroup:
			depth--
		case actionInsert:
			b.splice(act.offset, act.text)
			consumed = true
		case actionRemove:
			b.runes = append(b.runes[:act.offset], b.runes[act.offset+len(act.text):]...)
			consumed = true
		}

		b.undo = append(b.undo, act)

		if depth <= 0 && consumed {
			return true
		}
	}

	return consumed
}

// Revert repeatedly undoes until the undo stack is empty. It returns true
// if any action was undone.
func (b *Buffer) Revert() bool {
	any := false
	for b.Undo() {
		any = true
	}
	return any
}

// StartsWith reports whether self is strictly longer than other and their
// first other.Len() code points match. Equal-length buffers return false
// by design, so autosuggestion never suggests the current line to itself.
func (b *Buffer) StartsWith(other *Buffer) bool {
	if b.Len() <= other.Len() {
		return false
	}
	for i, r := range other.runes {
		if b.runes[i] != r {
			return false
		}
	}
	return true
}

// StartsWithString is StartsWith against a plain string prefix.
func (b *Buffer) StartsWithString(prefix string) bool {
	pr := []rune(prefix)
	if b.Len() <= len(pr) {
		return false
	}
	for i, r := range pr {
		if b.runes[i] != r {
			return false
		}
	}
	return true
}

// LastArg returns the last whitespace-separated non-empty run of
// characters, and whether one was found.
func (b *Buffer) LastArg() (string, bool) {
	end := len(b.runes)
	for end > 0 && unicode.IsSpace(b.runes[end-1]) {
		end--
	}
	if end == 0 {
		return "", false
	}
	start := end
	for start > 0 && !unicode.IsSpace(b.runes[start-1]) {
		start--
	}
	return string(b.runes[start:end]), true
}

// Lines splits the buffer into logical display lines on '\n'.
func (b *Buffer) Lines() []string {
	return strings.Split(b.String(), "\n")
}

// WidthTo returns the number of display cells used by runes[:n], not
// crossing logical line boundaries (the caller sums per line). Widths
// are computed cluster-by-cluster via uniseg so combining marks and wide
// runes are measured correctly.
func (b *Buffer) WidthTo(n int) int {
	if n > len(b.runes) {
		n = len(b.runes)
	}
	return uniseg.StringWidth(string(b.runes[:n]))
}

func (b *Buffer) splice(offset int, text []rune) {
	tail := append([]rune(nil), b.runes[offset:]...)
	b.runes = append(b.runes[:offset], append(append([]rune(nil), text...), tail...)...)
}
