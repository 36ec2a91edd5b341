package completion

import (
	"os"
	"path/filepath"
	"strings"
)

// NewFilename builds a Completer returning path candidates matching a
// partial word, honoring the word-divider contract's quoting/escaping:
// a partial wrapped in matching quotes is unwrapped for the filesystem
// lookup, and a backslash-escaped space is unescaped before the lookup
// and re-escaped in each returned candidate. Directories are suffixed
// with "/". Rewritten cleanly from the contract rather than porting the
// source's acknowledged-rough quote handling.
func NewFilename(workingDir string) Completer {
	return func(partial string) []string {
		unquoted, quote := unwrapQuote(partial)
		unescaped := strings.ReplaceAll(unquoted, `\ `, " ")

		dir, prefix := splitDirPrefix(unescaped)

		lookupDir := dir
		if workingDir != "" && !filepath.IsAbs(dir) {
			lookupDir = filepath.Join(workingDir, dir)
		}
		if lookupDir == "" {
			lookupDir = "."
		}

		entries, err := os.ReadDir(lookupDir)
		if err != nil {
			return nil
		}

		var out []string
		for _, e := range entries {
			name := e.Name()
			if prefix != "" && !strings.HasPrefix(name, prefix) {
				continue
			}

			cand := name
			if e.IsDir() {
				cand += "/"
			}

			full := cand
			if dir != "" {
				full = filepath.Join(dir, cand)
				if e.IsDir() {
					full += "/"
				}
			}

			full = strings.ReplaceAll(full, " ", `\ `)
			if quote != 0 {
				full = string(quote) + full + string(quote)
			}
			out = append(out, full)
		}
		return out
	}
}

// unwrapQuote strips a single matching leading/trailing quote character
// (' or ") and returns it, or 0 if s was not quoted.
func unwrapQuote(s string) (string, rune) {
	if len(s) >= 1 {
		q := rune(s[0])
		if q == '\'' || q == '"' {
			s = s[1:]
			if n := len(s); n > 0 && rune(s[n-1]) == q {
				s = s[:n-1]
			}
			return s, q
		}
	}
	return s, 0
}

// splitDirPrefix splits a path-like partial into its directory component
// and the filename prefix still being typed.
func splitDirPrefix(s string) (dir, prefix string) {
	if idx := strings.LastIndexByte(s, '/'); idx >= 0 {
		return s[:idx+1], s[idx+1:]
	}
	return "", s
}
