// Package display implements the wrap-aware repaint algorithm: prompt and
// buffer width computation, autosuggestion overlay, and cursor placement.
package display

import (
	"strings"

	"github.com/rivo/uniseg"
	"golang.org/x/text/width"
)

type stripState int

const (
	stateNorm stripState = iota
	stateEsc
	stateCsi
	stateOsc
)

// Strip removes ANSI CSI and OSC escape sequences from s, leaving the
// visible text behind. CSI sequences end at their final byte (0x40-0x7e);
// OSC sequences end at BEL or ST (ESC \).
func Strip(s string) string {
	var b strings.Builder
	state := stateNorm

	for i := 0; i < len(s); i++ {
		c := s[i]

		switch state {
		case stateNorm:
			if c == 0x1b {
				state = stateEsc
				continue
			}
			b.WriteByte(c)
		case stateEsc:
			switch c {
			case '[':
				state = stateCsi
			case ']':
				state = stateOsc
			default:
				state = stateNorm
			}
		case stateCsi:
			if c >= 0x40 && c <= 0x7e {
				state = stateNorm
			}
		case stateOsc:
			if c == 0x07 {
				state = stateNorm
			} else if c == 0x1b && i+1 < len(s) && s[i+1] == '\\' {
				i++
				state = stateNorm
			}
		}
	}

	return b.String()
}

// CellWidth returns the number of terminal display cells s occupies, after
// stripping escape sequences. Grapheme clusters are measured with uniseg so
// combining marks collapse onto their base rune; a cluster uniseg measures
// as one cell is widened to two when x/text/width classes its first rune as
// East-Asian wide or fullwidth. Ambiguous-width runes keep uniseg's width.
func CellWidth(s string) int {
	stripped := Strip(s)

	total := 0
	gr := uniseg.NewGraphemes(stripped)
	for gr.Next() {
		cluster := gr.Str()
		w := uniseg.StringWidth(cluster)
		if w == 1 {
			r := []rune(cluster)[0]
			if p := width.LookupRune(r); p.Kind() == width.EastAsianWide || p.Kind() == width.EastAsianFullwidth {
				w = 2
			}
		}
		total += w
	}
	return total
}
