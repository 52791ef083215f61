package db

import (
	"database/sql"
	"fmt"
)

// Session is one coaching session opened by the scheduler or a chat surface.
type Session struct {
	ID        int64  `json:"id"`
	Source    string `json:"source"`
	Opening   string `json:"opening"`
	CreatedAt string `json:"created_at"`
}

// RecordSession stores the coach's opening message for a session.
func (d *DB) RecordSession(source, opening string) (int64, error) {
	res, err := d.conn.Exec("INSERT INTO sessions (source, opening) VALUES (?, ?)", source, opening)
	if err != nil {
		return 0, fmt.Errorf("recording session: %w", err)
	}
	return res.LastInsertId()
}

// LastSession returns the most recent session, or nil if there is none.
func (d *DB) LastSession() (*Session, error) {
	var s Session
	err := d.conn.QueryRow(
		"SELECT id, source, opening, created_at FROM sessions ORDER BY id DESC LIMIT 1",
	).Scan(&s.ID, &s.Source, &s.Opening, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting last session: %w", err)
	}
	return &s, nil
}
