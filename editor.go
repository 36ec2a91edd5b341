package edit

import (
	"strings"
	"unicode"

	"github.com/caretline/edit/internal/buffer"
	"github.com/caretline/edit/internal/completion"
	"github.com/caretline/edit/internal/display"
	"github.com/caretline/edit/internal/history"
	"github.com/caretline/edit/internal/term"
)

// editor is the cursor-and-current-buffer half of a Shell: the primitives
// every keymap command ultimately calls down into. The current buffer is
// always the editor's own fresh buffer; walking through history replaces
// it with a copy of the entry, so history entries themselves are never
// edited.
type editor struct {
	fresh *buffer.Buffer
	hist  *history.History

	cursor int

	out *term.Writer
	fd  int

	termCursorLine int

	promptFn func() string
	contFn   func() string

	showCompletionsHint bool
	autosuggest         bool
	noEOL               bool

	completer completion.Completer

	lastKill string
}

func newEditor(out *term.Writer, fd int, h *history.History) *editor {
	h.ResetWalk()
	return &editor{
		fresh: buffer.New(),
		hist:  h,
		out:   out,
		fd:    fd,
	}
}

// current returns the buffer currently being edited: the editor's own
// fresh buffer, or a copy of the history slot loaded by Up/Down/
// ToStartOfHistory, edited in place until the user navigates away.
func (e *editor) current() *buffer.Buffer {
	return e.fresh
}

// --- cursor primitives (§4.4) ---

func (e *editor) Left(n int) {
	e.cursor -= n
	if e.cursor < 0 {
		e.cursor = 0
	}
	e.Repaint()
}

func (e *editor) Right(n int) {
	e.cursor += n
	e.clampCursor()
	e.Repaint()
}

func (e *editor) To(pos int) {
	e.cursor = pos
	e.clampCursor()
	e.Repaint()
}

func (e *editor) ToStart() { e.To(0) }
func (e *editor) ToEnd()   { e.To(e.current().Len()) }

func (e *editor) clampCursor() {
	l := e.current().Len()
	if e.cursor > l {
		e.cursor = l
	}
	if e.cursor < 0 {
		e.cursor = 0
	}
	if e.noEOL && e.cursor == l && l > 0 {
		e.cursor--
	}
}

// --- history navigation ---
//
// Up/Down/ToStartOfHistory/ToEndOfHistory all thread a single stateful
// cursor through History.Walk/WalkTo/ResetWalk rather than re-deriving an
// index from scratch on every keystroke (SPEC_FULL's supplemented
// "PreviousMatch/search prefix cursor" feature), so repeated presses of
// either keymap's up/down-history commands share one walk position.

func (e *editor) Up() {
	if s, _, ok := e.hist.Walk(-1); ok {
		e.fresh = buffer.NewFromString(s)
	}
	e.ToEnd()
}

func (e *editor) Down() {
	if e.hist.Pos() >= e.hist.Len() {
		return
	}
	if s, _, ok := e.hist.Walk(1); ok {
		e.fresh = buffer.NewFromString(s)
	} else {
		e.fresh = buffer.New()
	}
	e.ToEnd()
}

func (e *editor) ToStartOfHistory() {
	if e.hist.Len() == 0 {
		return
	}
	if s, ok := e.hist.WalkTo(0); ok {
		e.fresh = buffer.NewFromString(s)
	}
	e.ToEnd()
}

func (e *editor) ToEndOfHistory() {
	e.hist.ResetWalk()
	e.fresh = buffer.New()
	e.ToEnd()
}

// --- insert/delete primitives ---

func (e *editor) InsertChar(r rune) {
	e.InsertStr(string(r))
}

func (e *editor) InsertStr(s string) {
	e.current().Insert(e.cursor, s)
	e.cursor += len([]rune(s))
	e.Repaint()
}

func (e *editor) InsertChars(rs []rune) {
	e.InsertStr(string(rs))
}

func (e *editor) DeleteBeforeCursor() {
	if e.cursor == 0 {
		return
	}
	e.killRemove(e.cursor-1, e.cursor)
	e.cursor--
	e.Repaint()
}

func (e *editor) DeleteAfterCursor() {
	if e.cursor >= e.current().Len() {
		return
	}
	e.killRemove(e.cursor, e.cursor+1)
	e.Repaint()
}

func (e *editor) DeleteAllBefore() {
	e.killRemove(0, e.cursor)
	e.cursor = 0
	e.Repaint()
}

func (e *editor) DeleteAllAfter() {
	e.killRemove(e.cursor, e.current().Len())
	e.Repaint()
}

func (e *editor) DeleteUntil(pos int) {
	start, end := e.cursor, pos
	if start > end {
		start, end = end, start
	}
	e.killRemove(start, end)
	e.cursor = start
	e.Repaint()
}

func (e *editor) DeleteUntilInclusive(pos int) {
	e.DeleteUntil(pos + 1)
}

func (e *editor) killRemove(start, end int) {
	if start >= end {
		return
	}
	b := e.current()
	r := []rune(b.String())
	e.lastKill = string(r[start:end])
	b.Remove(start, end)
}

// LastKill returns the text most recently removed by a delete primitive,
// the one implicit kill-ring slot this editor keeps.
func (e *editor) LastKill() string { return e.lastKill }

// --- undo/redo/revert ---

func (e *editor) Undo() bool {
	ok := e.current().Undo()
	if ok {
		e.ToEnd()
	}
	return ok
}

func (e *editor) Redo() bool {
	ok := e.current().Redo()
	if ok {
		e.ToEnd()
	}
	return ok
}

func (e *editor) RevertAllHistory() {
	e.fresh.Revert()
}

// --- newline / eof / interrupt ---

func (e *editor) HandleNewline() (bool, error) {
	b := e.current()
	if r, ok := b.At(e.cursor - 1); ok && r == '\\' {
		b.Insert(e.cursor, "\n")
		e.cursor++
		e.Repaint()
		return false, nil
	}

	e.ToEnd()
	e.Repaint()
	e.out.CRLF()
	e.showCompletionsHint = false
	return true, nil
}

func (e *editor) Interrupt() error {
	e.out.CRLF()
	e.RevertAllHistory()
	return ErrInterrupted
}

func (e *editor) EOF() error {
	e.out.CRLF()
	e.RevertAllHistory()
	return ErrEndOfInput
}

func (e *editor) Empty() bool {
	return e.current().Len() == 0
}

// --- autosuggestion ---

func (e *editor) suggestion() (string, bool) {
	if !e.autosuggest {
		return "", false
	}
	upper := e.hist.Len()
	if pos := e.hist.Pos(); pos < upper {
		upper = pos
	}
	match, _, ok := e.hist.GetNewestMatch(upper, e.current().String())
	return match, ok
}

func (e *editor) HasSuggestion() bool {
	_, ok := e.suggestion()
	return ok
}

func (e *editor) AtEndOfLine() bool {
	return e.cursor == e.current().Len()
}

func (e *editor) AcceptSuggestion() {
	s, ok := e.suggestion()
	if !ok {
		return
	}
	cur := e.current().String()
	tail := s[len(cur):]
	e.current().Insert(e.current().Len(), tail)
	e.ToEnd()
}

// --- completion (§4.4 completion protocol) ---

func (e *editor) Complete() error {
	if e.completer == nil {
		e.showCompletionsHint = false
		return nil
	}

	start, end := WordBeforeCursor(e.current().String(), e.cursor)
	word := string([]rune(e.current().String())[start:end])

	raw := e.completer(word)
	candidates := completion.Candidates(raw)

	switch len(candidates) {
	case 0:
		e.showCompletionsHint = false
		return nil
	case 1:
		e.replaceWord(start, end, candidates[0])
		e.showCompletionsHint = false
		return nil
	default:
		prefix := completion.LongestCommonPrefix(candidates)
		if len(prefix) > len(word) && strings.HasPrefix(prefix, word) {
			e.replaceWord(start, end, prefix)
			return nil
		}
		if e.showCompletionsHint {
			cols, _ := term.Size(e.fd)
			e.out.WriteString(completion.PrintColumns(candidates, cols))
			e.Repaint()
			e.showCompletionsHint = false
		} else {
			e.showCompletionsHint = true
		}
		return nil
	}
}

func (e *editor) replaceWord(start, end int, replacement string) {
	b := e.current()
	b.Remove(start, end)
	b.Insert(start, replacement)
	e.cursor = start + len([]rune(replacement))
	e.Repaint()
}

// DeleteWordBeforeCursor deletes the word ending at the cursor, as found
// by the word divider. When ignoreLeadingSpace is set, leading whitespace
// immediately before the cursor is skipped before searching for the word
// start.
func (e *editor) DeleteWordBeforeCursor(ignoreLeadingSpace bool) {
	text := []rune(e.current().String())
	end := e.cursor
	if ignoreLeadingSpace {
		for end > 0 && unicode.IsSpace(text[end-1]) {
			end--
		}
	}
	start, _ := WordBeforeCursor(string(text), end)
	if start == end {
		return
	}
	e.killRemove(start, end)
	e.cursor = start
	e.Repaint()
}

// WordBeforeCursor is the default word divider (§6): the run of non-space
// characters ending at pos, honoring a backslash as escaping the
// following space rather than splitting on it.
func WordBeforeCursor(s string, pos int) (start, end int) {
	r := []rune(s)
	if pos > len(r) {
		pos = len(r)
	}
	end = pos
	start = pos
	for start > 0 {
		if unicode.IsSpace(r[start-1]) && (start < 2 || r[start-2] != '\\') {
			break
		}
		start--
	}
	return start, end
}

// --- repaint ---

func (e *editor) Repaint() {
	suggestion := ""
	if s, ok := e.suggestion(); ok {
		suggestion = s
	}

	cols, _ := term.Size(e.fd)

	f := display.Frame{
		Prompt:             e.currentPrompt(),
		Buffer:             e.current().String(),
		Cursor:             e.cursor,
		Suggestion:         suggestion,
		Width:              cols,
		NoEOL:              e.noEOL,
		PrevTermCursorLine: e.termCursorLine,
	}
	e.termCursorLine = display.Paint(e.out, f)
}

func (e *editor) currentPrompt() string {
	if strings.Contains(e.current().String(), "\n") && e.contFn != nil {
		return e.contFn()
	}
	if e.promptFn != nil {
		return e.promptFn()
	}
	return ""
}

func (e *editor) Flush() error {
	return e.out.Flush()
}
