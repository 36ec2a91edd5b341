// Package history implements the bounded in-memory history deque, its
// background-persisted file log, and prefix search.
package history

import (
	"bufio"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const defaultMaxSize = 1000

type writeReq struct {
	line string
}

// History is a bounded deque of committed lines (oldest at front, newest
// at back), optionally persisted to a file by one background worker.
type History struct {
	mu      sync.Mutex
	entries []string

	filePath         string
	nMem             int
	nFile            int
	appendDuplicates bool

	sender   chan writeReq
	stop     chan struct{}
	wg       sync.WaitGroup
	started  bool

	walkPos int // stateful prefix-search cursor for Walk; -1 means "past the newest entry"

	logger *zap.Logger
}

// New creates an empty History with the default in-memory and file caps.
// If path is non-empty, a background persistence worker is started.
func New(path string, appendDuplicates bool, logger *zap.Logger) *History {
	if logger == nil {
		logger = zap.NewNop()
	}

	h := &History{
		filePath:         path,
		nMem:             defaultMaxSize,
		nFile:            defaultMaxSize,
		appendDuplicates: appendDuplicates,
		sender:           make(chan writeReq, 64),
		stop:             make(chan struct{}),
		walkPos:          -1,
		logger:           logger,
	}

	if path != "" {
		h.started = true
		h.wg.Add(1)
		go h.worker()
	}

	return h
}

// SetMaxEntries sets the in-memory cap, evicting from the front if needed.
func (h *History) SetMaxEntries(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nMem = n
	for len(h.entries) > h.nMem {
		h.entries = h.entries[1:]
	}
}

// SetMaxFileEntries sets the on-disk trim threshold.
func (h *History) SetMaxFileEntries(n int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nFile = n
}

// Len returns the number of in-memory entries.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}

// At returns the entry at index i (0 is oldest).
func (h *History) At(i int) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if i < 0 || i >= len(h.entries) {
		return "", false
	}
	return h.entries[i], true
}

// Push enqueues line to the persistence worker (if any), then appends it
// to the in-memory deque unless append-duplicates is false and line equals
// the current back entry — in which case it is dropped from memory only;
// the on-disk write still happens. This mirrors the source exactly and is
// not a bug: see the design notes on duplicate suppression.
func (h *History) Push(line string) {
	if h.filePath != "" {
		select {
		case h.sender <- writeReq{line: line}:
		default:
			h.logger.Warn("history persist queue full, dropping entry")
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.appendDuplicates && len(h.entries) > 0 && h.entries[len(h.entries)-1] == line {
		return
	}

	h.entries = append(h.entries, line)
	for len(h.entries) > h.nMem {
		h.entries = h.entries[1:]
	}
}

// GetNewestMatch scans indices [0, upperBound) from high to low and returns
// the first entry that strictly extends prefix (same rule as
// buffer.Buffer.StartsWith: equal-length entries never match). upperBound
// must be <= Len(); callers pass Len() for "search the whole history".
func (h *History) GetNewestMatch(upperBound int, prefix string) (string, int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if upperBound > len(h.entries) {
		upperBound = len(h.entries)
	}

	for i := upperBound - 1; i >= 0; i-- {
		e := h.entries[i]
		if len(e) > len(prefix) && strings.HasPrefix(e, prefix) {
			return e, i, true
		}
	}
	return "", -1, false
}

// Walk advances a stateful cursor by dir (-1 toward older, +1 toward
// newer) and returns the entry the cursor lands on, along with the index
// it landed at. It threads "walk position" across repeated calls instead
// of recomputing an index from scratch on every keystroke, the way an
// interactive history search walks backward then forward through matches.
// The cursor rests "past the newest entry" when not navigating history,
// tracked by the -1 sentinel rather than a frozen copy of Len() so entries
// pushed after the last reset don't strand the cursor mid-deque. Walk(+1)
// past the newest entry is a no-op that reports ok=false so the caller
// knows to fall back to its own fresh buffer. Walk(-1) from there lands on
// the newest entry.
func (h *History) Walk(dir int) (string, int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	cur := h.walkPos
	if cur < 0 {
		cur = len(h.entries)
	}

	pos := cur + dir
	if pos < 0 {
		pos = 0
	}
	if pos >= len(h.entries) {
		h.walkPos = -1
		return "", len(h.entries), false
	}
	h.walkPos = pos
	return h.entries[pos], pos, true
}

// WalkTo jumps the Walk cursor directly to index pos (clamped to
// [0, Len()]) and returns the entry there, or ok=false if pos lands past
// the newest entry (the "fresh buffer" position).
func (h *History) WalkTo(pos int) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if pos < 0 {
		pos = 0
	}
	if pos >= len(h.entries) {
		h.walkPos = -1
		return "", false
	}
	h.walkPos = pos
	return h.entries[pos], true
}

// Pos returns the Walk cursor's current index, or Len() if it rests past
// the newest entry (not currently navigating history).
func (h *History) Pos() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.walkPos < 0 {
		return len(h.entries)
	}
	return h.walkPos
}

// ResetWalk resets the Walk cursor to "past the newest entry".
func (h *History) ResetWalk() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.walkPos = -1
}

// Load reads the history file line by line into the back of the deque.
// No in-memory truncation happens at load time; call SetMaxEntries first
// if a cap should apply.
func (h *History) Load() error {
	if h.filePath == "" {
		return os.ErrInvalid
	}

	f, err := os.Open(h.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		h.entries = append(h.entries, scanner.Text())
	}
	return scanner.Err()
}

// Commit signals the worker to stop, joins it, and returns once any
// queued writes have drained.
func (h *History) Commit() {
	if !h.started {
		return
	}
	close(h.stop)
	h.wg.Wait()
}

func (h *History) worker() {
	defer h.wg.Done()

	for {
		select {
		case <-h.stop:
			h.drain()
			return
		case req := <-h.sender:
			h.writeToDisk(req.line)
		case <-time.After(100 * time.Millisecond):
			// no write pending; poll again
		}
	}
}

func (h *History) drain() {
	for {
		select {
		case req := <-h.sender:
			h.writeToDisk(req.line)
		default:
			return
		}
	}
}

// writeToDisk appends line to the history file, first trimming the oldest
// entries if the file already holds nFile or more. Errors are swallowed:
// the foreground must never block or fail because persistence did.
func (h *History) writeToDisk(line string) {
	if err := h.writeToDiskErr(line); err != nil {
		h.logger.Warn("history persist failed", zap.Error(err))
	}
}

func (h *History) writeToDiskErr(line string) error {
	f, err := os.OpenFile(h.filePath, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	count := 0
	buf := make([]byte, 4096)
	for {
		n, rerr := f.Read(buf)
		for i := 0; i < n; i++ {
			if buf[i] == '\n' {
				count++
			}
		}
		if rerr != nil {
			break
		}
	}

	h.mu.Lock()
	limit := h.nFile
	h.mu.Unlock()

	if count >= limit {
		if err := trimOldest(f, count-limit+1); err != nil {
			return err
		}
	}

	if _, err := f.Seek(0, 2); err != nil {
		return err
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		return err
	}
	return f.Sync()
}

// trimOldest removes the oldest n newline-terminated entries from f by
// finding the byte offset just past the nth newline, shifting the tail
// forward over it, and truncating.
func trimOldest(f *os.File, n int) error {
	if n <= 0 {
		return nil
	}

	if _, err := f.Seek(0, 0); err != nil {
		return err
	}

	var offset int64
	seen := 0
	buf := make([]byte, 4096)
	for seen < n {
		read, err := f.Read(buf)
		if read == 0 {
			if err != nil {
				break
			}
			continue
		}
		for i := 0; i < read; i++ {
			offset++
			if buf[i] == '\n' {
				seen++
				if seen == n {
					break
				}
			}
		}
		if err != nil {
			break
		}
	}

	if _, err := f.Seek(offset, 0); err != nil {
		return err
	}
	tail := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		read, err := f.Read(chunk)
		if read > 0 {
			tail = append(tail, chunk[:read]...)
		}
		if err != nil {
			break
		}
	}

	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return err
	}
	_, err := f.Write(tail)
	return err
}
