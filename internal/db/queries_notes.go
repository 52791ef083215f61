package db

import (
	"database/sql"
	"errors"
	"fmt"
)

// Notes are small pieces of process state keyed by name, such as the
// Discord user who receives scheduled sessions.

// GetNote returns the note's value, or "" if it is not set.
func (d *DB) GetNote(key string) (string, error) {
	var value string
	err := d.conn.QueryRow("SELECT value FROM notes WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting note %s: %w", key, err)
	}
	return value, nil
}

// SetNote upserts a note. An empty value removes it.
func (d *DB) SetNote(key, value string) error {
	var err error
	if value == "" {
		_, err = d.conn.Exec("DELETE FROM notes WHERE key = ?", key)
	} else {
		_, err = d.conn.Exec(`INSERT INTO notes (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = datetime('now')`, key, value)
	}
	if err != nil {
		return fmt.Errorf("setting note %s: %w", key, err)
	}
	return nil
}
