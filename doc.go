// Package edit is an embeddable interactive line-editing engine: history
// recall, inline autosuggestion, tab completion, wrap-aware multi-line
// rendering, and two independent editing personalities (Emacs and modal
// Vi) driven by a shared dispatcher.
//
// A Shell owns one editing session's configuration; ReadLine runs the
// session loop once, returning the committed line:
//
//	sh := edit.New(
//		edit.WithPrompt(func() string { return "> " }),
//		edit.WithHistoryFile(histPath),
//	)
//	defer sh.History.Commit()
//
//	line, err := sh.ReadLine()
//
// The terminal raw-mode/key-decode/width concerns the core treats as
// external collaborators have one concrete implementation under
// internal/term and internal/display, so a Shell is runnable against a
// real terminal out of the box; a host embedding this engine over a
// different transport can still supply its own io.Reader/io.Writer pair
// via WithIO.
package edit
