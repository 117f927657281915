package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "embed"

	"github.com/sinanisler/avatar-buddy/internal/models"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed migrations_sqlite.sql
var sqliteMigrations string

// SQLiteBackend persists the history in an SQLite database file.
type SQLiteBackend struct {
	db *sql.DB
}

// NewSQLiteBackend opens (creating if needed) the SQLite database at dsn and
// applies the schema. The parent directory is created when missing.
func NewSQLiteBackend(dsn string) (*SQLiteBackend, error) {
	if dsn == "" {
		return nil, errBackend("sqlite", errors.New("database DSN not set"))
	}

	if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
		return nil, errBackend("sqlite", fmt.Errorf("create database directory: %w", err))
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, errBackend("sqlite", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errBackend("sqlite", err)
	}
	if _, err := db.Exec(sqliteMigrations); err != nil {
		db.Close()
		return nil, errBackend("sqlite", fmt.Errorf("run migrations: %w", err))
	}
	slog.Debug("history: sqlite backend ready", "path", dsn)
	return &SQLiteBackend{db: db}, nil
}

// Load reads and decodes the stored entry list. A missing row is an empty
// history, not an error.
func (s *SQLiteBackend) Load() ([]models.ConversationEntry, error) {
	var raw string
	err := s.db.QueryRow(`SELECT value FROM avatar_state WHERE key = ?`, StorageKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errBackend("sqlite", err)
	}

	var entries []models.ConversationEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, errBackend("sqlite", fmt.Errorf("decode stored history: %w", err))
	}
	return entries, nil
}

// Save stores the full serialized entry list under the storage key.
func (s *SQLiteBackend) Save(entries []models.ConversationEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return errBackend("sqlite", err)
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO avatar_state (key, value) VALUES (?, ?)`, StorageKey, string(data))
	if err != nil {
		return errBackend("sqlite", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}

var _ Backend = (*SQLiteBackend)(nil)
