// Package history implements the shell command log.
package history

import (
	"strings"

	"github.com/rs/zerolog"
)

// MaxEntries is the number of commands kept, older entries are dropped.
const MaxEntries = 500

// Store persists the history as an ordered list of strings.
type Store interface {
	Load() ([]string, error)
	Save(entries []string) error
}

// History is a capped, deduplicated and navigable command log.
//
// The navigation cursor is always within [0, Len()]; Len() means "past the
// newest entry", where the draft typed before navigation is shown.
type History struct {
	entries []string
	cursor  int
	draft   string
	store   Store
	logger  zerolog.Logger
}

// New loads the history from store. A load failure starts an empty history.
func New(store Store, logger zerolog.Logger) *History {
	h := &History{store: store, logger: logger}
	if store != nil {
		entries, err := store.Load()
		if err != nil {
			logger.Warn().Err(err).Msg("failed to load command history")
		}
		if len(entries) > MaxEntries {
			entries = entries[len(entries)-MaxEntries:]
		}
		h.entries = entries
	}
	h.cursor = len(h.entries)
	return h
}

// Push appends cmd unless it is blank or repeats the newest entry, then
// persists the log and resets navigation.
func (h *History) Push(cmd string) {
	defer h.resetCursor()

	if strings.TrimSpace(cmd) == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == cmd {
		return
	}

	h.entries = append(h.entries, cmd)
	if len(h.entries) > MaxEntries {
		h.entries = h.entries[len(h.entries)-MaxEntries:]
	}
	h.persist()
}

// StartNavigation remembers the line in progress and moves the cursor past
// the newest entry.
func (h *History) StartNavigation(currentLine string) {
	h.draft = currentLine
	h.cursor = len(h.entries)
}

// Up moves to the previous entry. ok is false when already at the oldest.
func (h *History) Up() (entry string, ok bool) {
	if h.cursor <= 0 {
		return "", false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Down moves to the next entry. Moving past the newest entry returns the
// draft; going further returns ok == false.
func (h *History) Down() (entry string, ok bool) {
	if h.cursor >= len(h.entries) {
		return "", false
	}
	h.cursor++
	if h.cursor == len(h.entries) {
		return h.draft, true
	}
	return h.entries[h.cursor], true
}

// Entries returns a copy of the log, oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Cursor returns the navigation cursor.
func (h *History) Cursor() int {
	return h.cursor
}

// Clear empties the log and persists it.
func (h *History) Clear() {
	h.entries = nil
	h.resetCursor()
	h.persist()
}

func (h *History) resetCursor() {
	h.cursor = len(h.entries)
	h.draft = ""
}

func (h *History) persist() {
	if h.store == nil {
		return
	}
	if err := h.store.Save(h.Entries()); err != nil {
		h.logger.Warn().Err(err).Msg("failed to persist command history")
	}
}

// MemoryStore keeps the history in memory. It is used by tests and by
// sessions that must not outlive their connection.
type MemoryStore struct {
	Entries []string
	Saves   int
}

func (s *MemoryStore) Load() ([]string, error) {
	out := make([]string, len(s.Entries))
	copy(out, s.Entries)
	return out, nil
}

func (s *MemoryStore) Save(entries []string) error {
	s.Entries = append(s.Entries[:0], entries...)
	s.Saves++
	return nil
}
