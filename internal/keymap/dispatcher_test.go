package keymap

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caretline/edit/internal/term"
)

type fakeEditor struct {
	empty         bool
	atEOL         bool
	hasSuggestion bool
	accepted      bool
	interrupted   bool
	eofed         bool
	completed     bool
	newlineDone   bool
}

func (f *fakeEditor) Interrupt() error    { f.interrupted = true; return errInterrupted }
func (f *fakeEditor) EOF() error          { f.eofed = true; return errEOF }
func (f *fakeEditor) Empty() bool         { return f.empty }
func (f *fakeEditor) Complete() error     { f.completed = true; return nil }
func (f *fakeEditor) HandleNewline() (bool, error) {
	return f.newlineDone, nil
}
func (f *fakeEditor) AtEndOfLine() bool   { return f.atEOL }
func (f *fakeEditor) HasSuggestion() bool { return f.hasSuggestion }
func (f *fakeEditor) AcceptSuggestion()   { f.accepted = true }
func (f *fakeEditor) Repaint()            {}
func (f *fakeEditor) Flush() error        { return nil }

var errInterrupted = errors.New("interrupted")
var errEOF = errors.New("eof")

type fakeKeymap struct {
	handled   bool
	hintClear bool
}

func (k *fakeKeymap) HandleKeyCore(term.Key) (bool, error) {
	k.handled = true
	return false, nil
}
func (k *fakeKeymap) ClearHint() { k.hintClear = true }

func TestDispatchCtrlCInterrupts(t *testing.T) {
	ed := &fakeEditor{}
	km := &fakeKeymap{}
	done, err := Dispatch(term.Key{Type: term.KeyCtrl, Rune: 'c'}, ed, km, NopEvents{})

	assert.True(t, done)
	assert.ErrorIs(t, err, errInterrupted)
	assert.True(t, ed.interrupted)
}

func TestDispatchCtrlDOnEmptyIsEOF(t *testing.T) {
	ed := &fakeEditor{empty: true}
	km := &fakeKeymap{}
	done, err := Dispatch(term.Key{Type: term.KeyCtrl, Rune: 'd'}, ed, km, NopEvents{})

	assert.True(t, done)
	assert.ErrorIs(t, err, errEOF)
}

func TestDispatchCtrlDOnNonEmptyDelegates(t *testing.T) {
	ed := &fakeEditor{empty: false}
	km := &fakeKeymap{}
	_, err := Dispatch(term.Key{Type: term.KeyCtrl, Rune: 'd'}, ed, km, NopEvents{})

	require.NoError(t, err)
	assert.True(t, km.handled)
}

func TestDispatchTabCompletes(t *testing.T) {
	ed := &fakeEditor{}
	km := &fakeKeymap{}
	_, _ = Dispatch(term.Key{Type: term.KeyChar, Rune: '\t'}, ed, km, NopEvents{})

	assert.True(t, ed.completed)
}

func TestDispatchEnterHandlesNewline(t *testing.T) {
	ed := &fakeEditor{newlineDone: true}
	km := &fakeKeymap{}
	done, _ := Dispatch(term.Enter, ed, km, NopEvents{})

	assert.True(t, done)
}

func TestDispatchRightAcceptsSuggestionAtEOL(t *testing.T) {
	ed := &fakeEditor{atEOL: true, hasSuggestion: true}
	km := &fakeKeymap{}
	_, _ = Dispatch(term.Key{Type: term.KeyRight}, ed, km, NopEvents{})

	assert.True(t, ed.accepted)
}

func TestDispatchDefaultDelegatesAndClearsHint(t *testing.T) {
	ed := &fakeEditor{}
	km := &fakeKeymap{}
	_, _ = Dispatch(term.Key{Type: term.KeyChar, Rune: 'x'}, ed, km, NopEvents{})

	assert.True(t, km.handled)
	assert.True(t, km.hintClear)
}

func TestDispatchCtrlHRemapsToBackspace(t *testing.T) {
	ed := &fakeEditor{}
	var seen term.Key
	km := &recordingKeymap{onHandle: func(k term.Key) { seen = k }}

	_, _ = Dispatch(term.Key{Type: term.KeyCtrl, Rune: 'h'}, ed, km, NopEvents{})

	assert.Equal(t, term.KeyBackspace, seen.Type)
}

type recordingKeymap struct {
	onHandle func(term.Key)
}

func (k *recordingKeymap) HandleKeyCore(key term.Key) (bool, error) {
	k.onHandle(key)
	return false, nil
}
func (k *recordingKeymap) ClearHint() {}
