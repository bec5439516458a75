package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/cinelist/internal/shared"
)

// SQLBackend implements [Backend] on the kv_store table.
type SQLBackend struct {
	db     *sql.DB
	closes bool
}

// NewSQLBackend wraps an already migrated database. Close leaves db open.
func NewSQLBackend(db *sql.DB) *SQLBackend {
	return &SQLBackend{db: db}
}

// OpenSQLBackend opens the SQLite database at path, applies migrations and owns the connection.
func OpenSQLBackend(path string) (*SQLBackend, error) {
	db, err := shared.OpenMigratedDatabase(path)
	if err != nil {
		return nil, err
	}
	return &SQLBackend{db: db, closes: true}, nil
}

func (s *SQLBackend) Get(key string) (string, bool, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLBackend) Set(key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := s.db.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *SQLBackend) Delete(key string) error {
	if _, err := s.db.Exec("DELETE FROM kv_store WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *SQLBackend) Close() error {
	if !s.closes {
		return nil
	}
	return s.db.Close()
}
