package display

import (
	"strings"

	"github.com/caretline/edit/internal/term"
)

// Frame is one repaint's worth of input: the prompt (raw, may carry ANSI
// color), the buffer text being edited, the cursor as a code-point offset
// into that text, an optional suggestion (the full suggested line, whose
// tail past the buffer renders in the suggestion color), the terminal width, whether no_eol is in effect, and the previous
// frame's term_cursor_line (0 on the first repaint of a session).
type Frame struct {
	Prompt             string
	Buffer             string
	Cursor             int
	Suggestion         string // full suggestion text; empty if none shown
	Width              int
	NoEOL              bool
	PrevTermCursorLine int
}

// Paint runs the eight-step repaint algorithm against w, returning the new
// term_cursor_line to keep for the next frame.
func Paint(w *term.Writer, f Frame) int {
	if f.Width <= 0 {
		f.Width = 80
	}

	promptWidth := CellWidth(f.Prompt)

	// Step 2: prefer the suggestion's text for width/cursor math when one
	// is being shown; it always has the buffer as a prefix.
	text := f.Buffer
	hasSuggestion := f.Suggestion != "" && strings.HasPrefix(f.Suggestion, f.Buffer) && len(f.Suggestion) > len(f.Buffer)
	if hasSuggestion {
		text = f.Suggestion
	}

	runes := []rune(text)

	// Step 3: clamp cursor; no_eol pulls it back off the final position.
	cursor := f.Cursor
	if cursor > len(runes) {
		cursor = len(runes)
	}
	if f.NoEOL && cursor == len(runes) && cursor > 0 {
		cursor--
	}

	lines := strings.Split(text, "\n")

	// Step 4: total_width and width_to_cursor, padding each line to a
	// multiple of w before the next line's contribution is added.
	totalWidth := promptWidth
	widthToCursor := promptWidth
	consumed := 0
	cursorSeen := false

	for i, line := range lines {
		if i > 0 {
			totalWidth = padUp(totalWidth, f.Width) + promptWidth
			if !cursorSeen {
				widthToCursor = padUp(widthToCursor, f.Width) + promptWidth
			}
		}

		lineRunes := []rune(line)
		lw := CellWidth(line)
		totalWidth += lw

		if !cursorSeen {
			if consumed+len(lineRunes) >= cursor {
				widthToCursor += CellWidth(string(lineRunes[:cursor-consumed]))
				cursorSeen = true
			} else {
				widthToCursor += lw
			}
		}

		consumed += len(lineRunes) + 1 // account for the '\n' separator
	}
	if !cursorSeen {
		widthToCursor = totalWidth
	}

	// Step 5: move up to the prompt's first row, clear, repaint.
	w.CursorUp(max0(f.PrevTermCursorLine - 1))
	w.CarriageReturn()
	w.ClearToEndOfDisplay()
	w.WriteString(f.Prompt)

	bufLen := len([]rune(f.Buffer))
	emitted := 0
	switchedColor := false

	for i, line := range lines {
		if i > 0 {
			w.CRLF()
			w.CursorForward(promptWidth)
		}

		lineRunes := []rune(line)
		for _, r := range lineRunes {
			if !switchedColor && hasSuggestion && emitted >= bufLen {
				w.SuggestionColor()
				switchedColor = true
			}
			w.WriteString(string(r))
			emitted++
		}
		emitted++ // the '\n' boundary between logical lines
	}
	if switchedColor {
		w.ResetColor()
	}

	// Step 6: if the painted region ends exactly on a terminal line
	// boundary, emit a spare CRLF so the cursor doesn't sit on a phantom
	// column at the far right edge.
	if totalWidth%f.Width == 0 {
		w.CRLF()
	}

	// Step 7: place the physical cursor.
	newTermCursorLine := (widthToCursor + f.Width) / f.Width
	bottomLine := (totalWidth + f.Width) / f.Width
	w.CursorUp(max0(bottomLine - newTermCursorLine))
	w.CarriageReturn()
	col := widthToCursor % f.Width
	if col == 0 && widthToCursor > 0 {
		col = f.Width
	}
	w.CursorForward(col)

	return newTermCursorLine
}

func padUp(n, w int) int {
	if w <= 0 {
		return n
	}
	rem := n % w
	if rem == 0 {
		return n
	}
	return n + (w - rem)
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
