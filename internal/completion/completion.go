// Package completion implements the pluggable candidate producer contract
// and the column-packed grid printer used to show multiple candidates.
package completion

import (
	"sort"
	"strings"

	"github.com/caretline/edit/internal/display"
)

// Completer is a callable that, given the partial word before the cursor,
// returns candidate completions. Hosts may supply their own; NewPrefix and
// NewFilename build the two implementations the driver contract names.
type Completer func(partial string) []string

// Candidates sorts and dedupes raw into a stable, unique candidate list.
func Candidates(raw []string) []string {
	if len(raw) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(raw))
	out := make([]string, 0, len(raw))
	for _, c := range raw {
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}

	sort.Strings(out)
	return out
}

// LongestCommonPrefix returns the longest prefix shared by every candidate.
func LongestCommonPrefix(candidates []string) string {
	if len(candidates) == 0 {
		return ""
	}
	prefix := candidates[0]
	for _, c := range candidates[1:] {
		for !strings.HasPrefix(c, prefix) {
			prefix = prefix[:len(prefix)-1]
			if prefix == "" {
				return ""
			}
		}
	}
	return prefix
}

// NewPrefix builds a Completer that returns every entry in list with
// partial as a prefix.
func NewPrefix(list []string) Completer {
	return func(partial string) []string {
		var out []string
		for _, s := range list {
			if strings.HasPrefix(s, partial) {
				out = append(out, s)
			}
		}
		return out
	}
}

// PrintColumns renders candidates column-packed to width, with a two-cell
// gutter between columns, the way the dispatcher's completion protocol
// prints the candidate list on a second consecutive Tab.
func PrintColumns(candidates []string, width int) string {
	if len(candidates) == 0 {
		return ""
	}
	if width <= 0 {
		width = 80
	}

	colWidth := 0
	for _, c := range candidates {
		if w := display.CellWidth(c); w > colWidth {
			colWidth = w
		}
	}
	colWidth += 2 // gutter

	cols := width / colWidth
	if cols < 1 {
		cols = 1
	}

	var b strings.Builder
	for i, c := range candidates {
		b.WriteString(c)
		if (i+1)%cols == 0 || i == len(candidates)-1 {
			b.WriteString("\r\n")
		} else {
			pad := colWidth - display.CellWidth(c)
			b.WriteString(strings.Repeat(" ", pad))
		}
	}
	return b.String()
}
