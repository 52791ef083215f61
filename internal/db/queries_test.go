package db

import (
	"os"
	"path/filepath"
	"testing"
)

func TestOpen_CreatesDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "coach.db")
	d, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer d.Close()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected database file: %v", err)
	}
}

// --- Notes ---

func TestNotes(t *testing.T) {
	d := openTestDB(t)

	val, err := d.GetNote("discord_user_id")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if val != "" {
		t.Errorf("expected empty note, got %q", val)
	}

	if err := d.SetNote("discord_user_id", "123"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}
	if err := d.SetNote("discord_user_id", "456"); err != nil {
		t.Fatalf("SetNote overwrite: %v", err)
	}
	val, _ = d.GetNote("discord_user_id")
	if val != "456" {
		t.Errorf("expected %q, got %q", "456", val)
	}

	if err := d.SetNote("discord_user_id", ""); err != nil {
		t.Fatalf("SetNote clear: %v", err)
	}
	var n int
	d.conn.QueryRow("SELECT COUNT(*) FROM notes").Scan(&n)
	if n != 0 {
		t.Errorf("expected cleared note to be removed, %d row(s) left", n)
	}
}

// --- Sessions ---

func TestSessions(t *testing.T) {
	d := openTestDB(t)

	last, err := d.LastSession()
	if err != nil {
		t.Fatalf("LastSession: %v", err)
	}
	if last != nil {
		t.Fatalf("expected no session, got %+v", last)
	}

	d.RecordSession("scheduler", "Good morning!")
	id, err := d.RecordSession("discord", "Morning, ready to talk about Slobby?")
	if err != nil {
		t.Fatalf("RecordSession: %v", err)
	}

	last, err = d.LastSession()
	if err != nil {
		t.Fatalf("LastSession: %v", err)
	}
	if last.ID != id || last.Source != "discord" {
		t.Errorf("unexpected last session: %+v", last)
	}
	if last.CreatedAt == "" {
		t.Error("expected created_at to be set")
	}
}
