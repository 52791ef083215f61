package main

import (
	"context"
	"testing"
	"time"

	"github.com/chris/growthcoach/internal/db"
	"github.com/chris/growthcoach/internal/journal"
)

func TestWhen(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	defer database.Close()

	store := database.Sheets()
	id, err := store.CreateSpreadsheet(ctx, defaultTitle, nil)
	if err != nil {
		t.Fatalf("CreateSpreadsheet: %v", err)
	}
	j := journal.New(store, id)
	if _, err := j.Init(ctx); err != nil {
		t.Fatalf("Init: %v", err)
	}
	for _, d := range []string{"2025-11-20", "not a date"} {
		if _, err := j.AppendEntry(ctx, journal.Entry{Date: d}); err != nil {
			t.Fatalf("AppendEntry: %v", err)
		}
	}
	rows, err := j.Entries(ctx)
	if err != nil || len(rows) != 2 {
		t.Fatalf("Entries = %d, %v", len(rows), err)
	}

	now := time.Date(2025, 11, 27, 9, 0, 0, 0, time.UTC)
	if got := when(rows[0], now); got != "1 week ago" {
		t.Errorf("when = %q, want 1 week ago", got)
	}
	if got := when(rows[1], now); got != "" {
		t.Errorf("unparseable date should render empty, got %q", got)
	}
}
