// Package edit implements a reusable interactive line-editing engine:
// history recall, autosuggestion, tab completion, multi-line prompt
// rendering, and two editing personalities (Emacs and Vi) layered over a
// shared dispatcher.
package edit

import (
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/caretline/edit/internal/completion"
	"github.com/caretline/edit/internal/history"
	"github.com/caretline/edit/internal/keymap"
	"github.com/caretline/edit/internal/term"
)

// Shell is a configured line-editing session. One Shell may run many
// sequential ReadLine calls; it is not safe for concurrent use.
type Shell struct {
	in     io.Reader
	out    io.Writer
	fd     int
	reader *term.Reader

	bindings keymap.Bindings

	promptFn func() string
	contFn   func() string

	autosuggest bool
	completer   completion.Completer

	History *publicHistory

	logger *zap.Logger

	emacs *emacsKeymap
	vi    *viKeymap
}

// Option configures a Shell at construction time.
type Option func(*Shell)

// New builds a Shell from the given options. Its defaults: Emacs
// bindings, autosuggestions on, stdin/stdout, no history file, an empty
// prompt, and a no-op logger.
func New(opts ...Option) *Shell {
	sh := &Shell{
		in:          os.Stdin,
		out:         os.Stdout,
		fd:          int(os.Stdin.Fd()),
		bindings:    keymap.EmacsBindings,
		autosuggest: true,
		logger:      zap.NewNop(),
	}
	sh.History = newPublicHistory(history.New("", false, sh.logger))

	for _, opt := range opts {
		opt(sh)
	}

	return sh
}

// WithPrompt sets the function called to render the primary prompt on
// each repaint.
func WithPrompt(f func() string) Option {
	return func(s *Shell) { s.promptFn = f }
}

// WithContinuationPrompt sets the function whose result replaces the
// primary prompt while the buffer holds a newline (multi-line backslash
// continuation). Continuation lines get no prompt of their own; they are
// indented by the prompt's width.
func WithContinuationPrompt(f func() string) Option {
	return func(s *Shell) { s.contFn = f }
}

// WithVi selects the Vi editing personality instead of the Emacs default.
func WithVi() Option {
	return func(s *Shell) { s.bindings = keymap.ViBindings }
}

// WithEmacs selects the Emacs editing personality (the default).
func WithEmacs() Option {
	return func(s *Shell) { s.bindings = keymap.EmacsBindings }
}

// WithAutosuggest toggles inline history-based autosuggestion.
func WithAutosuggest(enabled bool) Option {
	return func(s *Shell) { s.autosuggest = enabled }
}

// WithCompleter installs the completion callback used by Tab.
func WithCompleter(c completion.Completer) Option {
	return func(s *Shell) { s.completer = c }
}

// WithHistoryFile enables background-persisted history at path.
func WithHistoryFile(path string) Option {
	return func(s *Shell) {
		s.History.inner = history.New(path, false, s.logger)
	}
}

// WithLogger installs a structured logger used by the history store to
// report the persistence failures it swallows (a full write queue, a failed
// file write). A nil logger is replaced by a no-op logger, which is also
// the default. The history store keeps the logger it was created with, so
// this logger reaches it only when this option comes before
// WithHistoryFile.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Shell) {
		if logger == nil {
			logger = zap.NewNop()
		}
		s.logger = logger
	}
}

// WithIO overrides the raw-mode byte sink and source. Defaults to
// os.Stdin/os.Stdout.
func WithIO(in io.Reader, out io.Writer, fd int) Option {
	return func(s *Shell) {
		s.in = in
		s.out = out
		s.fd = fd
	}
}

// SetContinuationPrompt installs the continuation-prompt hook after
// construction, mirroring WithContinuationPrompt for hosts that decide it
// later.
func (s *Shell) SetContinuationPrompt(f func() string) {
	s.contFn = f
}

// ReadLine reads one line from the configured input, applying raw mode
// for the duration of the call and restoring the prior terminal state
// before returning. The returned string has no trailing newline.
func (s *Shell) ReadLine() (string, error) {
	// A negative fd (WithIO's escape hatch for embedding over a
	// non-terminal transport, and for tests) skips raw-mode entry.
	if s.fd >= 0 {
		restore, err := term.RawMode(s.fd)
		if err != nil {
			return "", err
		}
		defer restore()
	}

	writer := term.NewWriter(s.out)
	// The decoder is kept across calls so input it has already buffered
	// is still read by the next ReadLine.
	if s.reader == nil {
		s.reader = term.NewReader(s.in)
	}
	reader := s.reader
	ed := newEditor(writer, s.fd, s.History.inner)
	ed.promptFn = s.promptFn
	ed.contFn = s.contFn
	ed.autosuggest = s.autosuggest
	ed.completer = s.completer

	s.emacs = newEmacsKeymap(ed)
	s.vi = newViKeymap(ed)

	var km keymap.Keymap
	switch s.bindings {
	case keymap.ViBindings:
		km = s.vi
	default:
		km = s.emacs
	}

	ed.Repaint()

	for {
		key, err := reader.ReadKey()
		if err != nil {
			return "", err
		}

		done, derr := keymap.Dispatch(key, ed, km, keymap.NopEvents{})
		if done {
			line := ed.current().String()
			if derr == nil {
				s.History.inner.Push(line)
			}
			return line, derr
		}
		if derr != nil {
			return "", derr
		}
	}
}
