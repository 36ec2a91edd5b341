package edit

import (
	"errors"
	"os"

	"github.com/caretline/edit/internal/history"
)

// publicHistory is the exported façade over internal/history.History: the
// internals stay unexported so Shell can freely swap the backing store
// across WithHistoryFile calls without breaking callers holding a
// reference to the old façade value.
type publicHistory struct {
	inner *history.History
}

func newPublicHistory(h *history.History) *publicHistory {
	return &publicHistory{inner: h}
}

// Add pushes line onto the history, subject to the bounded in-memory cap
// and duplicate-suppression rule (§4.3).
func (h *publicHistory) Add(line string) {
	h.inner.Push(line)
}

// SetMaxEntries sets the in-memory history cap (N_mem).
func (h *publicHistory) SetMaxEntries(n int) {
	h.inner.SetMaxEntries(n)
}

// SetMaxFileEntries sets the on-disk trim threshold (N_file).
func (h *publicHistory) SetMaxFileEntries(n int) {
	h.inner.SetMaxFileEntries(n)
}

// Load reads the configured history file into memory. It returns
// ErrNoHistoryFile if no file was configured via WithHistoryFile.
func (h *publicHistory) Load() error {
	if err := h.inner.Load(); err != nil {
		if errors.Is(err, os.ErrInvalid) {
			return ErrNoHistoryFile
		}
		return err
	}
	return nil
}

// Len returns the number of in-memory entries.
func (h *publicHistory) Len() int {
	return h.inner.Len()
}

// At returns the entry at index i (0 is oldest).
func (h *publicHistory) At(i int) (string, bool) {
	return h.inner.At(i)
}

// Commit flushes and stops the background persistence worker. Call this
// before process exit when a history file is configured.
func (h *publicHistory) Commit() {
	h.inner.Commit()
}
