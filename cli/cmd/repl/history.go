package repl

import (
	"bufio"
	"os"
	"slices"
	"strings"
	"sync"
)

const baseHistory = "history.utf8"

// HistoryEntry is a single history line with the mode it was entered in.
type HistoryEntry struct {
	Line string
	Mode inputMode
}

// parseHistoryLine decodes one persisted line. Entries are stored with a
// mode prefix ("E:" eval, "C:" ctrl); unprefixed lines from older files
// count as eval entries.
func parseHistoryLine(line string) HistoryEntry {
	if s, ok := strings.CutPrefix(line, "C:"); ok {
		return HistoryEntry{Line: s, Mode: modeCtrl}
	}

	line = strings.TrimPrefix(line, "E:")

	return HistoryEntry{Line: line, Mode: modeEval}
}

func (e HistoryEntry) encode() string {
	prefix := "E:"
	if e.Mode == modeCtrl {
		prefix = "C:"
	}

	return prefix + e.Line + "\n"
}

// History holds the session's input lines and persists them to a file so
// they survive across sessions. Navigation restores the mode each line
// was entered in.
type History struct {
	path    string
	entries []HistoryEntry
	mu      sync.RWMutex
}

// NewHistory creates a History backed by the given file.
func NewHistory(path string) *History {
	return &History{path: path}
}

// Load replaces the in-memory entries with the file's contents. A
// missing file is not an error.
func (h *History) Load() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	file, err := os.Open(h.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return err
	}
	defer file.Close()

	h.entries = nil

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		h.entries = append(h.entries, parseHistoryLine(line))
	}

	return scanner.Err()
}

// Append records a new entry and persists it. Appending the newest entry
// again is a no-op; a duplicate of an older entry (same line and mode)
// moves to the end instead of repeating.
func (h *History) Append(line string, mode inputMode) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	entry := HistoryEntry{Line: line, Mode: mode}

	h.mu.Lock()
	defer h.mu.Unlock()

	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		return nil
	}

	dup := slices.Index(h.entries, entry)
	if dup >= 0 {
		h.entries = slices.Delete(h.entries, dup, dup+1)
	}

	h.entries = append(h.entries, entry)

	// Moving a duplicate invalidates the file; rewrite it whole.
	// Otherwise a plain append suffices.
	if dup >= 0 {
		return h.rewriteFile()
	}

	file, err := os.OpenFile(h.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(entry.encode())

	return err
}

// At retrieves an entry by index. Index 0 is the oldest.
func (h *History) At(i int) (HistoryEntry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if i < 0 || i >= len(h.entries) {
		return HistoryEntry{}, false
	}

	return h.entries[i], true
}

// Len returns the number of entries.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.entries)
}

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []HistoryEntry {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return slices.Clone(h.entries)
}

// rewriteFile replaces the file with the current entries. Callers must
// hold h.mu.
func (h *History) rewriteFile() error {
	var b strings.Builder
	for _, entry := range h.entries {
		b.WriteString(entry.encode())
	}

	return os.WriteFile(h.path, []byte(b.String()), 0o600)
}
