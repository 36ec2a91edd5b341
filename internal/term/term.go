// Package term adapts the process's controlling terminal to the driver
// contract the core requires: raw-mode entry/exit, a size query that
// falls back to 80x24, and helpers for emitting the cursor-motion and
// color escape sequences the display engine needs.
package term

import (
	"fmt"
	"io"

	"golang.org/x/term"
)

// RawMode puts fd into raw mode and returns a function that restores the
// previous terminal state.
func RawMode(fd int) (restore func() error, err error) {
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() error {
		return term.Restore(fd, state)
	}, nil
}

// Size returns the terminal's (columns, rows), falling back to 80x24 when
// the driver reports zero columns or errors out.
func Size(fd int) (cols, rows int) {
	c, r, err := term.GetSize(fd)
	if err != nil || c == 0 {
		return 80, 24
	}
	return c, r
}

// Writer emits the semantic cursor-motion and color sequences the display
// engine needs, without exposing raw escape bytes to callers.
type Writer struct {
	w io.Writer
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// CursorUp moves the cursor up n rows (CUU).
func (w *Writer) CursorUp(n int) {
	if n > 0 {
		fmt.Fprintf(w.w, "\x1b[%dA", n)
	}
}

// CursorDown moves the cursor down n rows (CUD).
func (w *Writer) CursorDown(n int) {
	if n > 0 {
		fmt.Fprintf(w.w, "\x1b[%dB", n)
	}
}

// CursorForward moves the cursor right n columns (CUF).
func (w *Writer) CursorForward(n int) {
	if n > 0 {
		fmt.Fprintf(w.w, "\x1b[%dC", n)
	}
}

// CursorBack moves the cursor left n columns (CUB).
func (w *Writer) CursorBack(n int) {
	if n > 0 {
		fmt.Fprintf(w.w, "\x1b[%dD", n)
	}
}

// CarriageReturn writes a bare carriage return.
func (w *Writer) CarriageReturn() {
	fmt.Fprint(w.w, "\r")
}

// CRLF writes a carriage return followed by a line feed.
func (w *Writer) CRLF() {
	fmt.Fprint(w.w, "\r\n")
}

// ClearToEndOfDisplay clears from the cursor to the end of the screen.
func (w *Writer) ClearToEndOfDisplay() {
	fmt.Fprint(w.w, "\x1b[J")
}

// ClearToEndOfLine clears from the cursor to the end of the current line.
func (w *Writer) ClearToEndOfLine() {
	fmt.Fprint(w.w, "\x1b[K")
}

// SuggestionColor sets the foreground color used for autosuggestion text.
func (w *Writer) SuggestionColor() {
	fmt.Fprint(w.w, "\x1b[33m")
}

// ResetColor resets any foreground color set by the writer.
func (w *Writer) ResetColor() {
	fmt.Fprint(w.w, "\x1b[0m")
}

// WriteString writes s verbatim (buffer/prompt text).
func (w *Writer) WriteString(s string) {
	io.WriteString(w.w, s)
}

// Flush flushes the underlying writer, if it supports flushing.
func (w *Writer) Flush() error {
	if f, ok := w.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
