package term

import (
	"bufio"
	"io"
)

// Reader decodes a byte stream from the terminal into the Key stream the
// core's keymaps consume: CSI/SS3 arrow and Home/End sequences, Alt as an
// Esc prefix immediately followed by another byte, and literal control
// bytes (Ctrl-A..Ctrl-Z, Backspace, Esc alone). Tab decodes as the plain
// '\t' character and CR/LF as Enter ('\n').
type Reader struct {
	r *bufio.Reader
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// ReadKey blocks for and decodes the next key.
func (d *Reader) ReadKey() (Key, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return Key{}, err
	}

	switch {
	case b == 0:
		return Key{Type: KeyNull}, nil
	case b == '\r' || b == '\n':
		return Key{Type: KeyChar, Rune: '\n'}, nil
	case b == 0x7f:
		return Key{Type: KeyBackspace}, nil
	case b == 0x08:
		return Key{Type: KeyCtrl, Rune: 'h'}, nil
	case b == '\t':
		return Key{Type: KeyChar, Rune: '\t'}, nil
	case b == 0x1b:
		return d.readEscape()
	case b < 0x20:
		return Key{Type: KeyCtrl, Rune: rune('a' + b - 1)}, nil
	default:
		return d.readRune(b)
	}
}

func (d *Reader) readRune(first byte) (Key, error) {
	if first < 0x80 {
		return Key{Type: KeyChar, Rune: rune(first)}, nil
	}

	// Multi-byte UTF-8 sequence: determine width from the leading byte.
	n := 0
	switch {
	case first&0xE0 == 0xC0:
		n = 1
	case first&0xF0 == 0xE0:
		n = 2
	case first&0xF8 == 0xF0:
		n = 3
	}

	buf := []byte{first}
	for i := 0; i < n; i++ {
		b, err := d.r.ReadByte()
		if err != nil {
			break
		}
		buf = append(buf, b)
	}

	r := []rune(string(buf))
	if len(r) == 0 {
		return Key{Type: KeyChar, Rune: rune(first)}, nil
	}
	return Key{Type: KeyChar, Rune: r[0]}, nil
}

func (d *Reader) readEscape() (Key, error) {
	// A bare Esc with nothing buffered right after it.
	if d.r.Buffered() == 0 {
		return Key{Type: KeyEsc}, nil
	}

	next, err := d.r.ReadByte()
	if err != nil {
		return Key{Type: KeyEsc}, nil
	}

	switch next {
	case '[':
		return d.readCSI()
	case 'O':
		return d.readSS3()
	default:
		// Alt-<char>: the Esc was a prefix, not a standalone press.
		k, err := d.readRune(next)
		if err != nil {
			return k, err
		}
		return Key{Type: KeyAlt, Rune: k.Rune}, nil
	}
}

func (d *Reader) readCSI() (Key, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return Key{Type: KeyEsc}, nil
	}

	switch b {
	case 'A':
		return Key{Type: KeyUp}, nil
	case 'B':
		return Key{Type: KeyDown}, nil
	case 'C':
		return Key{Type: KeyRight}, nil
	case 'D':
		return Key{Type: KeyLeft}, nil
	case 'H':
		return Key{Type: KeyHome}, nil
	case 'F':
		return Key{Type: KeyEnd}, nil
	case '3':
		// ESC [ 3 ~ -> Delete
		if n, _ := d.r.ReadByte(); n == '~' {
			return Key{Type: KeyDelete}, nil
		}
		return Key{Type: KeyEsc}, nil
	case '1', '7':
		if n, _ := d.r.ReadByte(); n == '~' {
			return Key{Type: KeyHome}, nil
		}
		return Key{Type: KeyEsc}, nil
	case '4', '8':
		if n, _ := d.r.ReadByte(); n == '~' {
			return Key{Type: KeyEnd}, nil
		}
		return Key{Type: KeyEsc}, nil
	default:
		return Key{Type: KeyEsc}, nil
	}
}

func (d *Reader) readSS3() (Key, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return Key{Type: KeyEsc}, nil
	}

	switch b {
	case 'A':
		return Key{Type: KeyUp}, nil
	case 'B':
		return Key{Type: KeyDown}, nil
	case 'C':
		return Key{Type: KeyRight}, nil
	case 'D':
		return Key{Type: KeyLeft}, nil
	case 'H':
		return Key{Type: KeyHome}, nil
	case 'F':
		return Key{Type: KeyEnd}, nil
	default:
		return Key{Type: KeyEsc}, nil
	}
}
