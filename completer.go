package edit

import "github.com/caretline/edit/internal/completion"

// Completer is the pluggable candidate producer contract (§6): given the
// partial word before the cursor, it returns candidate completions.
type Completer = completion.Completer

// NewPrefixCompleter returns a Completer that offers every entry of list
// with the partial word as a prefix.
func NewPrefixCompleter(list []string) Completer {
	return completion.NewPrefix(list)
}

// NewFilenameCompleter returns a Completer over path candidates relative
// to workingDir (or the process's working directory, if empty). It
// understands quote-wrapped and backslash-escaped partials and suffixes
// directory candidates with "/".
func NewFilenameCompleter(workingDir string) Completer {
	return completion.NewFilename(workingDir)
}
