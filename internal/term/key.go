package term

// KeyType distinguishes the decoded key variants the core's keymaps
// dispatch on.
type KeyType int

const (
	KeyChar KeyType = iota
	KeyCtrl
	KeyAlt
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyHome
	KeyEnd
	KeyBackspace
	KeyDelete
	KeyEsc
	KeyNull
)

// Key is one decoded keypress, as delivered by the terminal driver's key
// stream.
type Key struct {
	Type KeyType
	Rune rune // valid for KeyChar, KeyCtrl, KeyAlt
}

// Enter is the decoded key for the Enter/Return press: a plain '\n' char.
var Enter = Key{Type: KeyChar, Rune: '\n'}

// IsCtrl reports whether k is Ctrl-r.
func (k Key) IsCtrl(r rune) bool {
	return k.Type == KeyCtrl && k.Rune == r
}

// IsAlt reports whether k is Alt-r.
func (k Key) IsAlt(r rune) bool {
	return k.Type == KeyAlt && k.Rune == r
}

// IsChar reports whether k is the plain character r.
func (k Key) IsChar(r rune) bool {
	return k.Type == KeyChar && k.Rune == r
}
