package edit

import (
	"unicode"

	"github.com/caretline/edit/internal/keymap"
	"github.com/caretline/edit/internal/term"
)

// viKeymap implements the modal Vi editing personality (§4.7): a stack of
// pending modes, a numeric count (and secondary count for operator+
// motion), motions, the d/c operators, and the handful of other
// normal-mode commands (i/a/I/A/s/r/x/~/u/Ctrl-R/.).
type viKeymap struct {
	ed     *editor
	stack  *keymap.ModeStack
	counts keymap.Counts
	repeat keymap.Repeat

	pendingOperator byte // 'd' or 'c' while Delete mode awaits its motion
	replaceCount    int  // pending count for 'r<c>'
	insertDigits    int  // count typed before the command that opened the insert span, for replay on Esc
	insertStart     int  // cursor position where the current insert span began
	inDotReplay     bool // true while replaying last_command for '.'
}

func newViKeymap(ed *editor) *viKeymap {
	ed.noEOL = true
	return &viKeymap{ed: ed, stack: keymap.NewModeStack()}
}

func (k *viKeymap) ClearHint() {
	k.ed.showCompletionsHint = false
}

func (k *viKeymap) HandleKeyCore(key term.Key) (bool, error) {
	// Esc never joins the recording: it always closes an insert span, and
	// replay re-appends it itself once LastInsert is set (see finishInsertSpan).
	// A key arriving while the mode stack is at rest (Normal, nothing
	// pending) starts a brand new repeatable command, so recording resets
	// here; every key consumed while a command is still pending (operator
	// awaiting its motion, f/F/t/T awaiting its target, or text typed in
	// an open insert span) keeps accumulating onto the same recording, so
	// the opening key of the command is never lost from last_command.
	if !k.inDotReplay && key.Type != term.KeyEsc {
		if k.stack.Current().Mode == keymap.Normal {
			k.repeat.BeginRecording()
		}
		k.repeat.Record(key)
	}

	switch k.stack.Current().Mode {
	case keymap.Insert:
		return false, k.handleInsert(key)
	case keymap.Replace:
		return false, k.handleReplaceChar(key)
	case keymap.MoveToChar:
		return false, k.handleMoveToCharTarget(key)
	case keymap.G:
		return false, k.handleGPrefix(key)
	default: // Normal or Delete(anchor)
		return false, k.handleNormal(key)
	}
}

// --- Insert mode ---

func (k *viKeymap) enterInsert(openGroup bool) {
	if openGroup {
		k.ed.current().StartGroup()
	}
	k.insertStart = k.ed.cursor
	k.insertDigits = 0
	k.stack.Push(keymap.Frame{Mode: keymap.Insert})
}

// enterInsertWithCount is enterInsert plus the pending count that was
// typed before the command entering insert mode (e.g. "3i"), which
// causes the inserted span to be replayed count-1 more times on Esc.
func (k *viKeymap) enterInsertWithCount(openGroup bool, count int) {
	k.enterInsert(openGroup)
	k.insertDigits = count
}

func (k *viKeymap) leaveInsert() {
	k.ed.current().EndGroup()
	k.stack.Pop()
	k.ed.noEOL = true
	k.ed.clampCursor()
	k.ed.Repaint()
}

func (k *viKeymap) handleInsert(key term.Key) error {
	switch key.Type {
	case term.KeyChar:
		if key.Rune == '\n' {
			return nil
		}
		k.ed.InsertChar(key.Rune)
		return nil

	case term.KeyBackspace:
		k.ed.DeleteBeforeCursor()
		return nil

	case term.KeyLeft, term.KeyRight, term.KeyUp, term.KeyDown, term.KeyHome, term.KeyEnd:
		k.movementReset()
		k.applyMotionKey(key)
		return nil

	case term.KeyEsc:
		k.finishInsertSpan()
		return nil
	}
	return nil
}

// movementReset closes the current undo group and opens a new one, so
// undo snaps back to logical edit chunks instead of the whole insert
// session (§4.7 "insert-mode special behavior").
func (k *viKeymap) movementReset() {
	k.ed.current().EndGroup()
	k.ed.current().StartGroup()
}

func (k *viKeymap) applyMotionKey(key term.Key) {
	switch key.Type {
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
	}
}

func (k *viKeymap) finishInsertSpan() {
	inserted := k.ed.current().String()
	start := k.insertStart
	cur := k.ed.cursor
	var span string
	if cur >= start {
		r := []rune(inserted)
		if cur <= len(r) {
			span = string(r[start:cur])
		}
	}

	k.leaveInsert()

	if !k.inDotReplay {
		last := term.Key{Type: term.KeyEsc}
		k.repeat.LastInsert = &last
		k.repeat.CommitRecording()
	}

	// Replay digits: if the insert was closed with a pending replay
	// count, repeat the inserted span count-1 more times, so it appears
	// count times in all.
	for i := 1; i < k.insertDigits; i++ {
		k.ed.InsertStr(span)
	}
	k.insertDigits = 0
}

// --- Replace-char pending mode ('r<c>') ---

func (k *viKeymap) handleReplaceChar(key term.Key) error {
	k.stack.Pop()

	if key.Type != term.KeyChar {
		return nil
	}

	b := k.ed.current()
	if k.ed.cursor+k.replaceCount > b.Len() {
		return nil // not enough chars remaining: abort
	}

	b.StartGroup()
	k.ed.killRemove(k.ed.cursor, k.ed.cursor+k.replaceCount)
	b.Insert(k.ed.cursor, repeatRune(key.Rune, k.replaceCount))
	b.EndGroup()
	k.ed.cursor += k.replaceCount
	k.ed.clampCursor()
	k.ed.Repaint()
	k.commitChange()
	return nil
}

func repeatRune(r rune, n int) string {
	rs := make([]rune, n)
	for i := range rs {
		rs[i] = r
	}
	return string(rs)
}

// --- f/F/t/T pending target character ---

func (k *viKeymap) handleMoveToCharTarget(key term.Key) error {
	frame := k.stack.Current()
	k.stack.Pop()

	if key.Type != term.KeyChar {
		return nil
	}

	k.repeat.SetLastCharSearch(frame.CharKind, key.Rune)
	k.runCharSearch(frame.CharKind, key.Rune)
	return nil
}

func (k *viKeymap) runCharSearch(kind byte, target rune) {
	text := []rune(k.ed.current().String())
	count := k.counts.Effective()
	k.counts.Clear()

	pos, ok := charSearch(text, k.ed.cursor, kind, target, count)
	if !ok {
		return
	}

	if k.pendingOperator != 0 {
		k.applyOperatorMotion(pos, true)
		return
	}
	k.ed.To(pos)
}

// charSearch finds the target character forward ('f'/'t') or backward
// ('F'/'T') from cursor, repeated count times. 't'/'T' stop one cell
// short of the match (exclusive search, inclusive operator span).
func charSearch(text []rune, cursor int, kind byte, target rune, count int) (int, bool) {
	pos := cursor
	forward := kind == 'f' || kind == 't'
	till := kind == 't' || kind == 'T'

	for i := 0; i < count; i++ {
		start := pos
		if forward {
			start++
			if till && i == 0 {
				// nothing extra; till just changes final offset
			}
		} else {
			start--
		}

		found := -1
		if forward {
			for j := start; j < len(text); j++ {
				if text[j] == target {
					found = j
					break
				}
			}
		} else {
			for j := start; j >= 0; j-- {
				if text[j] == target {
					found = j
					break
				}
			}
		}
		if found < 0 {
			return 0, false
		}
		pos = found
	}

	if till {
		if forward {
			pos--
		} else {
			pos++
		}
	}
	return pos, true
}

// --- 'g' prefix (ge/gE) ---

func (k *viKeymap) handleGPrefix(key term.Key) error {
	k.stack.Pop()
	if key.Type != term.KeyChar {
		return nil
	}

	count := k.counts.Effective()
	k.counts.Clear()
	text := []rune(k.ed.current().String())

	var pos int
	switch key.Rune {
	case 'e':
		pos = prevWordEnd(text, k.ed.cursor, count, isKeywordRune)
	case 'E':
		pos = prevWordEnd(text, k.ed.cursor, count, isNonSpaceRune)
	default:
		return nil
	}

	if k.pendingOperator != 0 {
		k.applyOperatorMotion(pos, true)
		return nil
	}
	k.ed.To(pos)
	return nil
}

// --- Normal mode (including Delete(anchor) awaiting its motion) ---

func (k *viKeymap) handleNormal(key term.Key) error {
	frame := k.stack.Current()

	if key.Type == term.KeyChar && key.Rune >= '1' && key.Rune <= '9' {
		k.addDigit(int(key.Rune - '0'))
		return nil
	}
	if key.Type == term.KeyChar && key.Rune == '0' {
		if (frame.Mode == keymap.Delete && k.counts.HasSecondary()) || (frame.Mode != keymap.Delete && k.counts.HasCount()) {
			k.addDigit(0)
			return nil
		}
		// leading zero: move-to-start-of-line motion.
		return k.applyMotionOrDispatchOperator(0, false, frame)
	}

	switch key.Type {
	case term.KeyChar:
		return k.handleNormalChar(key.Rune, frame)
	case term.KeyCtrl:
		k.handleCtrl(key.Rune)
	case term.KeyLeft, term.KeyBackspace:
		return k.motion('h', frame)
	case term.KeyRight:
		return k.motion('l', frame)
	case term.KeyUp:
		return k.motion('k', frame)
	case term.KeyDown:
		return k.motion('j', frame)
	case term.KeyDelete:
		k.deleteCharsRight(frame)
		k.counts.Clear()
		k.commitChange()
	}
	return nil
}

func (k *viKeymap) addDigit(d int) {
	if k.stack.Current().Mode == keymap.Delete {
		k.counts.AddSecondaryDigit(d)
	} else {
		k.counts.AddDigit(d)
	}
}

func (k *viKeymap) motion(ch rune, frame keymap.Frame) error {
	return k.handleNormalChar(ch, frame)
}

func (k *viKeymap) handleNormalChar(r rune, frame keymap.Frame) error {
	switch r {
	case 'h', 'l', 'j', 'k', '$', 'w', 'W', 'b', 'B', 'e', 'E':
		return k.applyNamedMotion(r, frame)

	case 'f', 'F', 't', 'T':
		k.stack.Push(keymap.Frame{Mode: keymap.MoveToChar, CharKind: byte(r)})
		return nil

	case ';':
		if k.repeat.LastCharKind != 0 {
			k.runCharSearch(k.repeat.LastCharKind, k.repeat.LastCharTarget)
		}
		return nil
	case ',':
		if k.repeat.LastCharKind != 0 {
			k.runCharSearch(invertCharKind(k.repeat.LastCharKind), k.repeat.LastCharTarget)
		}
		return nil

	case 'g':
		k.stack.Push(keymap.Frame{Mode: keymap.G})
		return nil

	case 'd', 'c':
		return k.startOperator(byte(r), frame)

	case 'D':
		return k.operatorToEndOfLine('d')
	case 'C':
		return k.operatorToEndOfLine('c')

	case 'i':
		n := k.counts.Effective()
		k.counts.Clear()
		k.enterInsertWithCount(true, n)
		return nil
	case 'a':
		n := k.counts.Effective()
		k.counts.Clear()
		k.ed.noEOL = false // let Right(1) reach the end-of-line slot a appends into
		k.ed.Right(1)
		k.enterInsertWithCount(true, n)
		return nil
	case 'I':
		n := k.counts.Effective()
		k.counts.Clear()
		k.ed.ToStart()
		k.enterInsertWithCount(true, n)
		return nil
	case 'A':
		n := k.counts.Effective()
		k.counts.Clear()
		k.ed.noEOL = false // ToEnd must land exactly at len, not len-1
		k.ed.ToEnd()
		k.enterInsertWithCount(true, n)
		return nil
	case 's':
		n := k.counts.Effective()
		k.counts.Clear()
		k.ed.noEOL = false // the deletion below may land the cursor at the new len
		k.deleteCountRight(n)
		k.enterInsertWithCount(true, n)
		return nil

	case 'r':
		k.replaceCount = k.counts.Effective()
		k.counts.Clear()
		k.stack.Push(keymap.Frame{Mode: keymap.Replace})
		return nil

	case 'x':
		k.deleteCharsRight(frame)
		k.counts.Clear()
		k.commitChange()
		return nil

	case '~':
		k.toggleCase()
		k.counts.Clear()
		k.commitChange()
		return nil

	case 'u':
		n := k.counts.Effective()
		k.counts.Clear()
		for i := 0; i < n; i++ {
			if !k.ed.Undo() {
				break
			}
		}
		return nil

	case '.':
		k.replay()
		return nil
	}
	return nil
}

func invertCharKind(kind byte) byte {
	switch kind {
	case 'f':
		return 'F'
	case 'F':
		return 'f'
	case 't':
		return 'T'
	case 'T':
		return 't'
	}
	return kind
}

// Ctrl-R (redo) reaches here through handleNormal's KeyCtrl branch, after
// the dispatcher's default delegation; Vi has no other Ctrl chords, so it
// is handled directly here.
func (k *viKeymap) handleCtrl(r rune) {
	if r == 'r' {
		n := k.counts.Effective()
		k.counts.Clear()
		for i := 0; i < n; i++ {
			if !k.ed.Redo() {
				break
			}
		}
	}
}

// commitChange promotes the key sequence recorded since the mode stack
// was last at rest into last_command, for a following '.' to replay. Not
// called while replaying '.' itself, so a replayed change doesn't
// overwrite the change it is repeating.
func (k *viKeymap) commitChange() {
	if !k.inDotReplay {
		k.repeat.CommitRecording()
	}
}

// applyNamedMotion runs a non-char-search, non-g motion, either moving
// the cursor directly (no pending operator) or feeding the operator.
func (k *viKeymap) applyNamedMotion(r rune, frame keymap.Frame) error {
	count := k.counts.Effective()
	text := []rune(k.ed.current().String())

	var pos int
	inclusive := false

	switch r {
	case 'h':
		pos = clampMotion(k.ed.cursor-count, 0, len(text))
	case 'l':
		pos = clampMotion(k.ed.cursor+count, 0, len(text))
	case 'j':
		k.counts.Clear()
		k.ed.Down()
		return nil
	case 'k':
		k.counts.Clear()
		k.ed.Up()
		return nil
	case '$':
		pos = len(text)
		if pos > 0 {
			pos--
		}
		inclusive = true
	case 'w':
		pos = nextWordStart(text, k.ed.cursor, count, isKeywordRune)
	case 'W':
		pos = nextWordStart(text, k.ed.cursor, count, isNonSpaceRune)
	case 'b':
		pos = prevWordStart(text, k.ed.cursor, count, isKeywordRune)
	case 'B':
		pos = prevWordStart(text, k.ed.cursor, count, isNonSpaceRune)
	case 'e':
		pos = nextWordEnd(text, k.ed.cursor, count, isKeywordRune)
		inclusive = true
	case 'E':
		pos = nextWordEnd(text, k.ed.cursor, count, isNonSpaceRune)
		inclusive = true
	}

	if frame.Mode == keymap.Delete {
		k.applyOperatorMotion(pos, inclusive)
		return nil
	}

	k.counts.Clear()
	k.ed.To(pos)
	return nil
}

func (k *viKeymap) applyMotionOrDispatchOperator(pos int, inclusive bool, frame keymap.Frame) error {
	if frame.Mode == keymap.Delete {
		k.applyOperatorMotion(pos, inclusive)
		return nil
	}
	k.counts.Clear()
	k.ed.To(pos)
	return nil
}

func clampMotion(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// startOperator enters Delete(anchor) mode for 'd'/'c', unless the
// previous key was the same operator letter (dd/cc, "whole line").
func (k *viKeymap) startOperator(op byte, frame keymap.Frame) error {
	if frame.Mode == keymap.Delete && k.pendingOperator == op {
		// dd / cc: whole line.
		b := k.ed.current()
		b.StartGroup()
		k.ed.killRemove(0, b.Len())
		b.EndGroup()
		k.ed.cursor = 0
		k.ed.Repaint()
		k.stack.Pop()
		k.pendingOperator = 0
		k.counts.Clear()
		if op == 'c' {
			k.enterInsert(true)
		} else {
			k.commitChange()
		}
		return nil
	}

	k.pendingOperator = op
	k.stack.Push(keymap.Frame{Mode: keymap.Delete, Anchor: k.ed.cursor})
	return nil
}

// applyOperatorMotion completes a pending d/c operator once its motion
// has resolved to an absolute destination.
func (k *viKeymap) applyOperatorMotion(dest int, inclusive bool) {
	frame := k.stack.Current()
	anchor := frame.Anchor
	op := k.pendingOperator

	k.stack.Pop()
	k.pendingOperator = 0
	k.counts.Clear()

	start, end := anchor, dest
	if inclusive {
		if end >= start {
			end++
		} else {
			start++
		}
	}
	if start > end {
		start, end = end, start
	}

	b := k.ed.current()
	b.StartGroup()
	k.ed.killRemove(start, end)
	b.EndGroup()
	k.ed.cursor = start
	if op == 'c' {
		k.ed.noEOL = false // the deleted span may have ended exactly at len
	}
	k.ed.clampCursor()
	k.ed.Repaint()

	if op == 'c' {
		k.enterInsert(true)
	} else {
		k.commitChange()
	}
}

func (k *viKeymap) operatorToEndOfLine(op byte) error {
	text := []rune(k.ed.current().String())
	b := k.ed.current()
	b.StartGroup()
	k.ed.killRemove(k.ed.cursor, len(text))
	b.EndGroup()
	if op == 'c' {
		k.ed.noEOL = false // deleting to end-of-line lands the cursor at the new len
	}
	k.ed.clampCursor()
	k.ed.Repaint()
	if op == 'c' {
		k.enterInsert(true)
	} else {
		k.commitChange()
	}
	return nil
}

func (k *viKeymap) deleteCharsRight(frame keymap.Frame) {
	n := k.counts.Effective()
	k.deleteCountRight(n)
}

func (k *viKeymap) deleteCountRight(n int) {
	b := k.ed.current()
	end := k.ed.cursor + n
	if end > b.Len() {
		end = b.Len()
	}
	b.StartGroup()
	k.ed.killRemove(k.ed.cursor, end)
	b.EndGroup()
	k.ed.clampCursor()
	k.ed.Repaint()
}

// toggleCase toggles the case of count characters right of the cursor,
// advancing the cursor past non-letters unchanged, as one undo group.
func (k *viKeymap) toggleCase() {
	n := k.counts.Effective()
	b := k.ed.current()
	text := []rune(b.String())

	b.StartGroup()
	pos := k.ed.cursor
	for i := 0; i < n && pos < len(text); i++ {
		r := text[pos]
		var toggled rune
		switch {
		case unicode.IsUpper(r):
			toggled = unicode.ToLower(r)
		case unicode.IsLower(r):
			toggled = unicode.ToUpper(r)
		default:
			toggled = r
		}
		if toggled != r {
			k.ed.killRemove(pos, pos+1)
			b.Insert(pos, string(toggled))
		}
		pos++
	}
	b.EndGroup()
	k.ed.cursor = pos
	k.ed.clampCursor()
	k.ed.Repaint()
}

// replay implements '.': replay last_command, then Esc if the recorded
// change had opened an insert span. A count typed before '.' overrides
// last_count and replays the whole change that many times in a row,
// rather than threading through the original command's own count.
func (k *viKeymap) replay() {
	if len(k.repeat.LastCommand) == 0 && k.repeat.LastInsert == nil {
		return
	}

	n := k.counts.LastCount()
	if k.counts.HasCount() {
		n = k.counts.Effective()
		k.counts.SetLastCount(n)
	}
	k.counts.Clear()

	k.inDotReplay = true
	defer func() { k.inDotReplay = false }()

	for i := 0; i < n; i++ {
		for _, key := range k.repeat.LastCommand {
			_, _ = k.HandleKeyCore(key)
		}
		if k.repeat.LastInsert != nil {
			_, _ = k.HandleKeyCore(term.Key{Type: term.KeyEsc})
		}
	}
}

// --- word motion helpers, shared by normal-mode 'w'/'W'/'b'/'B'/'e'/'E'
// and 'ge'/'gE' ---

func isKeywordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isNonSpaceRune(r rune) bool {
	return !unicode.IsSpace(r)
}

func nextWordStart(text []rune, pos, count int, isWord func(rune) bool) int {
	for i := 0; i < count; i++ {
		pos = skipClassRun(text, pos, isWord)
		for pos < len(text) && unicode.IsSpace(text[pos]) {
			pos++
		}
	}
	return pos
}

func skipClassRun(text []rune, pos int, isWord func(rune) bool) int {
	if pos >= len(text) {
		return pos
	}
	if unicode.IsSpace(text[pos]) {
		return pos
	}
	inWord := isWord(text[pos])
	for pos < len(text) && !unicode.IsSpace(text[pos]) && isWord(text[pos]) == inWord {
		pos++
	}
	return pos
}

func prevWordStart(text []rune, pos, count int, isWord func(rune) bool) int {
	for i := 0; i < count; i++ {
		for pos > 0 && unicode.IsSpace(text[pos-1]) {
			pos--
		}
		if pos == 0 {
			break
		}
		inWord := isWord(text[pos-1])
		for pos > 0 && !unicode.IsSpace(text[pos-1]) && isWord(text[pos-1]) == inWord {
			pos--
		}
	}
	return pos
}

func nextWordEnd(text []rune, pos, count int, isWord func(rune) bool) int {
	for i := 0; i < count; i++ {
		pos++
		for pos < len(text) && unicode.IsSpace(text[pos]) {
			pos++
		}
		if pos >= len(text) {
			pos = len(text) - 1
			break
		}
		inWord := isWord(text[pos])
		for pos+1 < len(text) && !unicode.IsSpace(text[pos+1]) && isWord(text[pos+1]) == inWord {
			pos++
		}
	}
	if pos < 0 {
		pos = 0
	}
	return pos
}

func prevWordEnd(text []rune, pos, count int, isWord func(rune) bool) int {
	for i := 0; i < count; i++ {
		if pos >= len(text) {
			pos = len(text) - 1
		}
		if pos >= 0 && !unicode.IsSpace(text[pos]) {
			inWord := isWord(text[pos])
			for pos >= 0 && !unicode.IsSpace(text[pos]) && isWord(text[pos]) == inWord {
				pos--
			}
		}
		for pos >= 0 && unicode.IsSpace(text[pos]) {
			pos--
		}
		if pos < 0 {
			pos = 0
			break
		}
	}
	return pos
}
