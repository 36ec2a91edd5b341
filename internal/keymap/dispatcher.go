// Package keymap implements the dispatcher shared by both editing
// personalities and the Vi mode stack. The Emacs and Vi chord tables
// themselves live at the module root (emacs.go, vi.go); this package only
// holds what they share.
package keymap

import "github.com/caretline/edit/internal/term"

// Bindings selects which personality a Shell uses for one read_line call.
type Bindings int

const (
	EmacsBindings Bindings = iota
	ViBindings
)

// Key is the decoded keypress type shared by the dispatcher and both
// command tables.
type Key = term.Key

// Editor is the common surface the dispatcher needs from the editor for
// the handling every keymap shares, regardless of personality.
type Editor interface {
	Interrupt() error
	EOF() error
	Empty() bool
	Complete() error
	HandleNewline() (done bool, err error)
	AtEndOfLine() bool
	HasSuggestion() bool
	AcceptSuggestion()
	Repaint()
	Flush() error
}

// Keymap is the capability set a personality exposes to the dispatcher:
// handle one key once the common cases are ruled out, and clear the
// one-shot completion hint after each key delegated to it.
type Keymap interface {
	HandleKeyCore(k Key) (done bool, err error)
	ClearHint()
}

// Events is the host-supplied event handler: BeforeKey/AfterKey fire
// around every key, BeforeComplete fires just before invoking the
// completer.
type Events interface {
	BeforeKey(k Key)
	AfterKey(k Key)
	BeforeComplete()
}

// NopEvents is a zero-cost Events implementation for hosts that don't
// need the hooks.
type NopEvents struct{}

func (NopEvents) BeforeKey(Key)   {}
func (NopEvents) AfterKey(Key)    {}
func (NopEvents) BeforeComplete() {}

// Dispatch runs one key through the common pre-hook, short-circuits
// (interrupt/EOF/Tab/Enter/accept-suggestion), delegation to km, and the
// post-hook, per the dispatcher's contract.
func Dispatch(k Key, ed Editor, km Keymap, events Events) (done bool, err error) {
	events.BeforeKey(k)

	// Ctrl-H is backspace on most terminals; normalize before dispatch.
	if k.IsCtrl('h') {
		k = Key{Type: term.KeyBackspace}
	}

	switch {
	case k.IsCtrl('c'):
		err = ed.Interrupt()
		done = true

	case k.IsCtrl('d') && ed.Empty():
		err = ed.EOF()
		done = true

	case k.Type == term.KeyChar && k.Rune == '\t':
		events.BeforeComplete()
		err = ed.Complete()

	case k.IsChar('\n'):
		done, err = ed.HandleNewline()

	case (k.IsCtrl('f') || k.Type == term.KeyRight) && ed.AtEndOfLine() && ed.HasSuggestion():
		ed.AcceptSuggestion()

	default:
		done, err = km.HandleKeyCore(k)
		km.ClearHint()
	}

	events.AfterKey(k)

	if ferr := ed.Flush(); err == nil {
		err = ferr
	}

	return done, err
}
