package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/sinanisler/avatar-buddy/internal/models"
)

func newTestSQLiteBackend(t *testing.T) *SQLiteBackend {
	t.Helper()
	backend, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "state", "avatar.db"))
	if err != nil {
		t.Fatalf("failed to create sqlite backend: %v", err)
	}
	t.Cleanup(func() { backend.Close() })
	return backend
}

func TestSQLiteBackendEmptyDatabase(t *testing.T) {
	backend := newTestSQLiteBackend(t)
	entries, err := backend.Load()
	if err != nil {
		t.Fatalf("expected no error loading empty database, got %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty history, got %d entries", len(entries))
	}
}

func TestSQLiteBackendRoundTrip(t *testing.T) {
	backend := newTestSQLiteBackend(t)

	saved := []models.ConversationEntry{
		{
			Timestamp:      time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
			Kind:           models.EntryKindGreeting,
			UserMessage:    "Say Hello",
			AvatarResponse: "Hey. What's up?",
		},
		{
			Timestamp:      time.Date(2025, 3, 10, 9, 31, 0, 0, time.UTC),
			Kind:           models.EntryKindCustom,
			UserMessage:    "what is this site",
			AvatarResponse: "A place on the internet, apparently.",
		},
	}
	if err := backend.Save(saved); err != nil {
		t.Fatalf("failed to save entries: %v", err)
	}

	loaded, err := backend.Load()
	if err != nil {
		t.Fatalf("failed to load entries: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(loaded))
	}
	if loaded[0].Kind != models.EntryKindGreeting || loaded[1].UserMessage != "what is this site" {
		t.Errorf("loaded entries do not match saved: %+v", loaded)
	}
}

func TestSQLiteBackendSaveReplacesPrevious(t *testing.T) {
	backend := newTestSQLiteBackend(t)

	first := []models.ConversationEntry{{Kind: models.EntryKindButton, UserMessage: "one"}}
	second := []models.ConversationEntry{
		{Kind: models.EntryKindButton, UserMessage: "one"},
		{Kind: models.EntryKindToken, UserMessage: "two"},
	}
	if err := backend.Save(first); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := backend.Save(second); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	loaded, err := backend.Load()
	if err != nil {
		t.Fatalf("failed to load entries: %v", err)
	}
	if len(loaded) != 2 {
		t.Errorf("expected second save to replace first, got %d entries", len(loaded))
	}
}
