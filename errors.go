package edit

import "errors"

// Error kinds exposed by the core (§7). The terminal writer discards
// errors from its individual writes; the only output error ReadLine can
// return is one from flushing a sink that has a Flush method. History
// write errors from the background worker are never surfaced here.
var (
	// ErrInterrupted is returned by ReadLine when the user presses Ctrl-C.
	ErrInterrupted = errors.New("edit: interrupted")

	// ErrEndOfInput is returned by ReadLine when the user presses Ctrl-D
	// over an empty buffer.
	ErrEndOfInput = errors.New("edit: end of input")

	// ErrNoHistoryFile is returned by Shell.History.Load when no history
	// file path has been configured.
	ErrNoHistoryFile = errors.New("edit: no history file configured")
)
