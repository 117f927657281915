package history

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sinanisler/avatar-buddy/internal/models"
)

// StorageKey is the single named key the serialized entry list lives under in
// every persistent backend.
const StorageKey = "conversation_history"

// Backend persists the full ordered entry list as an opaque serialized array.
type Backend interface {
	Load() ([]models.ConversationEntry, error)
	Save(entries []models.ConversationEntry) error
}

// Opts holds configuration for backend construction.
type Opts struct {
	FilePath    string
	SQLiteDSN   string
	PostgresDSN string
}

// Option configures backend construction.
type Option func(*Opts)

// WithFilePath selects the JSON file backend at the given path.
func WithFilePath(path string) Option {
	return func(o *Opts) { o.FilePath = path }
}

// WithSQLiteDSN selects the SQLite backend with the given database path.
func WithSQLiteDSN(dsn string) Option {
	return func(o *Opts) { o.SQLiteDSN = dsn }
}

// WithPostgresDSN selects the PostgreSQL backend with the given DSN.
func WithPostgresDSN(dsn string) Option {
	return func(o *Opts) { o.PostgresDSN = dsn }
}

// DetectDSNType classifies a DSN string as "postgres", "sqlite" (a bare file
// path ending in a database extension) or "file".
func DetectDSNType(dsn string) string {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") || strings.Contains(dsn, "host=") {
		return "postgres"
	}
	if strings.HasSuffix(dsn, ".db") || strings.HasSuffix(dsn, ".sqlite") || strings.HasSuffix(dsn, ".sqlite3") {
		return "sqlite"
	}
	return "file"
}

// NewBackend constructs a backend from options. With no options set it
// returns a memory-only backend.
func NewBackend(opts ...Option) (Backend, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case cfg.PostgresDSN != "":
		slog.Debug("history: configuring postgres backend")
		return NewPostgresBackend(cfg.PostgresDSN)
	case cfg.SQLiteDSN != "":
		slog.Debug("history: configuring sqlite backend", "path", cfg.SQLiteDSN)
		return NewSQLiteBackend(cfg.SQLiteDSN)
	case cfg.FilePath != "":
		slog.Debug("history: configuring file backend", "path", cfg.FilePath)
		return NewFileBackend(cfg.FilePath)
	default:
		slog.Debug("history: no persistence configured, using memory backend")
		return NewMemoryBackend(), nil
	}
}

// MemoryBackend keeps the serialized history in process memory only. Used when
// no persistence is configured and by tests.
type MemoryBackend struct {
	mu      sync.Mutex
	entries []models.ConversationEntry
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

// Load returns the stored entries.
func (m *MemoryBackend) Load() ([]models.ConversationEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.ConversationEntry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

// Save replaces the stored entries.
func (m *MemoryBackend) Save(entries []models.ConversationEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make([]models.ConversationEntry, len(entries))
	copy(m.entries, entries)
	return nil
}

var _ Backend = (*MemoryBackend)(nil)

// errBackend is returned by constructors when the DSN is unusable, so the
// caller can decide to degrade instead of aborting.
func errBackend(kind string, err error) error {
	return fmt.Errorf("history: %s backend: %w", kind, err)
}
