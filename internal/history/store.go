// Package history provides the bounded, persisted conversation log and the
// context view derived from it.
//
// The store keeps entries in insertion order (most recent last), trims to the
// configured storage bound after every append, and persists best-effort
// through a pluggable backend. Persistence failures degrade to an unchanged
// in-memory history and are logged; they never reach the dialogue flow.
package history

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sinanisler/avatar-buddy/internal/models"
)

// Store is the bounded conversation log.
type Store struct {
	mu         sync.Mutex
	entries    []models.ConversationEntry
	maxStorage int
	backend    Backend
}

// New creates a Store bounded to maxStorage entries, loading any persisted
// history from the backend. A nil backend yields a memory-only store.
// Malformed or unavailable persisted data degrades to an empty history.
func New(maxStorage int, backend Backend) *Store {
	if maxStorage <= 0 {
		maxStorage = 1
	}
	if backend == nil {
		backend = NewMemoryBackend()
	}
	s := &Store{maxStorage: maxStorage, backend: backend}

	entries, err := backend.Load()
	if err != nil {
		slog.Warn("history: load failed, starting empty", "error", err)
		entries = nil
	}
	s.entries = entries
	s.trimLocked()
	slog.Debug("history: store created", "loaded", len(s.entries), "max_storage", maxStorage)
	return s
}

// Append adds an entry, trims to the storage bound (oldest dropped first) and
// persists. The trim-and-persist step always follows the append.
func (s *Store) Append(entry models.ConversationEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, entry)
	s.trimLocked()
	if err := s.backend.Save(s.entries); err != nil {
		slog.Warn("history: save failed, keeping in-memory entries", "error", err, "count", len(s.entries))
	}
	slog.Debug("history: entry appended", "kind", entry.Kind, "count", len(s.entries))
}

// Len returns the number of stored entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a copy of all stored entries, oldest first.
func (s *Store) Entries() []models.ConversationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ConversationEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// ContextView returns the last min(limit, len) entries, oldest first, without
// mutating the store.
func (s *Store) ContextView(limit int) []models.ConversationEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || len(s.entries) == 0 {
		return nil
	}
	if limit > len(s.entries) {
		limit = len(s.entries)
	}
	out := make([]models.ConversationEntry, limit)
	copy(out, s.entries[len(s.entries)-limit:])
	return out
}

// RenderContext serializes the context view as one User:/Avatar: line pair per
// entry, for inclusion in an outbound prompt. Returns "" when the history is
// empty.
func (s *Store) RenderContext(limit int) string {
	view := s.ContextView(limit)
	if len(view) == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range view {
		fmt.Fprintf(&b, "User: %s\nAvatar: %s\n", e.UserMessage, e.AvatarResponse)
	}
	return b.String()
}

// trimLocked drops the oldest entries beyond maxStorage. Caller holds s.mu.
func (s *Store) trimLocked() {
	if len(s.entries) > s.maxStorage {
		dropped := len(s.entries) - s.maxStorage
		s.entries = append(s.entries[:0:0], s.entries[dropped:]...)
		slog.Debug("history: trimmed oldest entries", "dropped", dropped, "count", len(s.entries))
	}
}
