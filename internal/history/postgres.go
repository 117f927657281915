package history

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	_ "embed"

	"github.com/sinanisler/avatar-buddy/internal/models"
	_ "github.com/lib/pq"
)

//go:embed migrations_postgres.sql
var postgresMigrations string

// PostgresBackend persists the history in a PostgreSQL table.
type PostgresBackend struct {
	db *sql.DB
}

// NewPostgresBackend connects to the database at dsn and applies the schema.
func NewPostgresBackend(dsn string) (*PostgresBackend, error) {
	if dsn == "" {
		return nil, errBackend("postgres", errors.New("database DSN not set"))
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, errBackend("postgres", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, errBackend("postgres", err)
	}
	if _, err := db.Exec(postgresMigrations); err != nil {
		db.Close()
		return nil, errBackend("postgres", fmt.Errorf("run migrations: %w", err))
	}
	slog.Debug("history: postgres backend ready")
	return &PostgresBackend{db: db}, nil
}

// Load reads and decodes the stored entry list. A missing row is an empty
// history, not an error.
func (p *PostgresBackend) Load() ([]models.ConversationEntry, error) {
	var raw string
	err := p.db.QueryRow(`SELECT value FROM avatar_state WHERE key = $1`, StorageKey).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errBackend("postgres", err)
	}

	var entries []models.ConversationEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, errBackend("postgres", fmt.Errorf("decode stored history: %w", err))
	}
	return entries, nil
}

// Save stores the full serialized entry list under the storage key.
func (p *PostgresBackend) Save(entries []models.ConversationEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return errBackend("postgres", err)
	}
	_, err = p.db.Exec(
		`INSERT INTO avatar_state (key, value) VALUES ($1, $2)
		 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
		StorageKey, string(data))
	if err != nil {
		return errBackend("postgres", err)
	}
	return nil
}

// Close closes the database connection.
func (p *PostgresBackend) Close() error {
	return p.db.Close()
}

var _ Backend = (*PostgresBackend)(nil)
