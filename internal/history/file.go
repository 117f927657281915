package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/sinanisler/avatar-buddy/internal/models"
)

// FileBackend persists the history as a JSON document on disk.
type FileBackend struct {
	path string
	mu   sync.Mutex
}

// fileLayout is the on-disk document: the entry array under the storage key.
type fileLayout map[string][]models.ConversationEntry

// NewFileBackend creates a file-backed history store at the given path,
// creating parent directories as needed.
func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		return nil, errBackend("file", errors.New("path must be provided"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errBackend("file", fmt.Errorf("create history directory: %w", err))
	}
	return &FileBackend{path: path}, nil
}

// Load reads and decodes the stored entry list. A missing file is an empty
// history, not an error.
func (f *FileBackend) Load() ([]models.ConversationEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Debug("history: file backend has no data yet", "path", f.path)
		return nil, nil
	}
	if err != nil {
		return nil, errBackend("file", err)
	}

	var doc fileLayout
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errBackend("file", fmt.Errorf("decode %q: %w", f.path, err))
	}
	return doc[StorageKey], nil
}

// Save writes the full entry list atomically via a temp file rename.
func (f *FileBackend) Save(entries []models.ConversationEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(fileLayout{StorageKey: entries})
	if err != nil {
		return errBackend("file", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errBackend("file", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return errBackend("file", err)
	}
	return nil
}

var _ Backend = (*FileBackend)(nil)
