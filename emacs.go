package edit

import "github.com/caretline/edit/internal/term"

// emacsKeymap implements the Emacs editing personality (§4.6): plain keys
// insert, a fixed set of Ctrl chords move/edit the line, and a handful of
// Meta (Alt) chords add word motion, history-bounds jumps, revert, and
// last-argument recall.
type emacsKeymap struct {
	ed *editor

	// last-argument recall latch (Alt-.)
	lastArgActive   bool
	lastArgIndex    int
	lastArgInserted int // code points of the most recently inserted last-arg
}

func newEmacsKeymap(ed *editor) *emacsKeymap {
	return &emacsKeymap{ed: ed}
}

func (k *emacsKeymap) ClearHint() {
	k.ed.showCompletionsHint = false
}

func (k *emacsKeymap) HandleKeyCore(key term.Key) (bool, error) {
	if !key.IsAlt('.') {
		k.lastArgActive = false
	}

	switch key.Type {
	case term.KeyChar:
		k.ed.InsertChar(key.Rune)
		return false, nil

	case term.KeyCtrl:
		return false, k.handleCtrl(key.Rune)

	case term.KeyAlt:
		return false, k.handleAlt(key.Rune)

	case term.KeyLeft:
		k.ed.Left(1)
	case term.KeyRight:
		k.ed.Right(1)
	case term.KeyUp:
		k.ed.Up()
	case term.KeyDown:
		k.ed.Down()
	case term.KeyHome:
		k.ed.ToStart()
	case term.KeyEnd:
		k.ed.ToEnd()
	case term.KeyBackspace:
		k.ed.DeleteBeforeCursor()
	case term.KeyDelete:
		k.ed.DeleteAfterCursor()
	}

	return false, nil
}

func (k *emacsKeymap) handleCtrl(r rune) error {
	switch r {
	case 'a':
		k.ed.ToStart()
	case 'e':
		k.ed.ToEnd()
	case 'b':
		k.ed.Left(1)
	case 'f':
		k.ed.Right(1)
	case 'd':
		k.ed.DeleteAfterCursor()
	case 'p':
		k.ed.Up()
	case 'n':
		k.ed.Down()
	case 'u':
		k.ed.DeleteAllBefore()
	case 'k':
		k.ed.DeleteAllAfter()
	case 'w':
		k.ed.DeleteWordBeforeCursor(true)
	case 'l':
		k.clearScreen()
	case 'x':
		k.ed.Undo()
	}
	return nil
}

func (k *emacsKeymap) handleAlt(r rune) error {
	switch r {
	case '<':
		k.ed.ToStartOfHistory()
	case '>':
		k.ed.ToEndOfHistory()
	case 127, '\b':
		k.ed.DeleteWordBeforeCursor(true)
	case 'f':
		k.moveWordForward()
	case 'b':
		k.moveWordBackward()
	case 'r':
		k.ed.current().Revert()
		k.ed.ToEnd()
	case '.':
		k.recallLastArg()
	}
	return nil
}

func (k *emacsKeymap) clearScreen() {
	k.ed.out.ClearToEndOfDisplay()
	k.ed.termCursorLine = 0
	k.ed.Repaint()
}

// moveWordForward/moveWordBackward use is_alphanumeric word boundaries,
// per §4.6 ("word boundaries use is_alphanumeric").
func (k *emacsKeymap) moveWordForward() {
	text := []rune(k.ed.current().String())
	i := k.ed.cursor
	for i < len(text) && !isAlnum(text[i]) {
		i++
	}
	for i < len(text) && isAlnum(text[i]) {
		i++
	}
	k.ed.To(i)
}

func (k *emacsKeymap) moveWordBackward() {
	text := []rune(k.ed.current().String())
	i := k.ed.cursor
	for i > 0 && !isAlnum(text[i-1]) {
		i--
	}
	for i > 0 && isAlnum(text[i-1]) {
		i--
	}
	k.ed.To(i)
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// recallLastArg implements Alt-. (§4.6): the first press fetches the
// last_arg of the most recent history entry and inserts it; consecutive
// presses remove the previously inserted text and insert the same
// position one entry further back.
func (k *emacsKeymap) recallLastArg() {
	h := k.ed.hist

	if k.lastArgActive {
		k.ed.current().Remove(k.ed.cursor-k.lastArgInserted, k.ed.cursor)
		k.ed.cursor -= k.lastArgInserted
		k.lastArgIndex--
	} else {
		k.lastArgIndex = h.Len() - 1
	}

	if k.lastArgIndex < 0 {
		k.lastArgActive = false
		k.ed.Repaint()
		return
	}

	entry, ok := h.At(k.lastArgIndex)
	if !ok {
		k.lastArgActive = false
		k.ed.Repaint()
		return
	}

	arg, ok := lastArg(entry)
	if !ok {
		arg = ""
	}

	k.ed.current().Insert(k.ed.cursor, arg)
	k.lastArgInserted = len([]rune(arg))
	k.ed.cursor += k.lastArgInserted
	k.lastArgActive = true
	k.ed.Repaint()
}

// lastArg returns the last whitespace-separated non-empty run in s.
func lastArg(s string) (string, bool) {
	r := []rune(s)
	end := len(r)
	for end > 0 && isSpace(r[end-1]) {
		end--
	}
	if end == 0 {
		return "", false
	}
	start := end
	for start > 0 && !isSpace(r[start-1]) {
		start--
	}
	return string(r[start:end]), true
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}
