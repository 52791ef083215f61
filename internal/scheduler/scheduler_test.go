package scheduler

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chris/growthcoach/internal/agent"
	"github.com/chris/growthcoach/internal/db"
	"github.com/chris/growthcoach/internal/discord"
	"github.com/chris/growthcoach/internal/journal"
	"github.com/chris/growthcoach/internal/llm"
)

type replyClient struct {
	reply   string
	prompts []string
}

func (c *replyClient) Chat(ctx context.Context, systemPrompt string, messages []llm.Message, tools []llm.Tool) (*llm.Response, error) {
	c.prompts = append(c.prompts, messages[len(messages)-1].Content)
	return &llm.Response{Content: c.reply}, nil
}

func setup(t *testing.T, reply string) (*db.DB, *agent.Agent, *replyClient) {
	t.Helper()
	database, err := db.Open(":memory:")
	if err != nil {
		t.Fatalf("opening db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	store := database.Sheets()
	id, err := store.CreateSpreadsheet(context.Background(), "coach", nil)
	if err != nil {
		t.Fatalf("CreateSpreadsheet: %v", err)
	}
	client := &replyClient{reply: reply}
	return database, agent.New(journal.New(store, id), client, nil, 100000), client
}

func TestRunSession_DM(t *testing.T) {
	database, ag, client := setup(t, "Good morning! How did yesterday's hard thing go?")
	if err := database.SetNote(discord.UserNote, "u-42"); err != nil {
		t.Fatalf("SetNote: %v", err)
	}

	var gotUser, gotContent string
	var gotHistory []llm.Message
	dm := func(userID, content string, history []llm.Message) error {
		gotUser, gotContent, gotHistory = userID, content, history
		return nil
	}
	webhookCalled := false
	s := New(database, ag, "0 8 * * *", dm, func(string) error { webhookCalled = true; return nil })

	reply, err := s.RunSession(context.Background())
	if err != nil {
		t.Fatalf("RunSession: %v", err)
	}
	if gotUser != "u-42" || gotContent != reply {
		t.Errorf("DM = (%q, %q), reply %q", gotUser, gotContent, reply)
	}
	if len(gotHistory) != 2 || gotHistory[1].Content != reply {
		t.Errorf("DM history = %+v", gotHistory)
	}
	if webhookCalled {
		t.Error("webhook should not be used when the DM succeeds")
	}
	if !strings.HasPrefix(client.prompts[0], llm.SessionKickoff) {
		t.Errorf("session prompt = %q", client.prompts[0])
	}

	last, err := database.LastSession()
	if err != nil || last == nil {
		t.Fatalf("LastSession = %v, %v", last, err)
	}
	if last.Source != SessionSource || last.Opening != reply {
		t.Errorf("recorded session = %+v", last)
	}
}

func TestRunSession_WebhookFallback(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		dmErr  error
	}{
		{"no DM user", "", nil},
		{"DM fails", "u-42", errors.New("discord down")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			database, ag, _ := setup(t, "Morning!")
			if tt.userID != "" {
				database.SetNote(discord.UserNote, tt.userID)
			}
			dm := func(string, string, []llm.Message) error { return tt.dmErr }
			var posted []string
			webhook := func(content string) error {
				posted = append(posted, content)
				return nil
			}
			s := New(database, ag, "0 8 * * *", dm, webhook)
			if _, err := s.RunSession(context.Background()); err != nil {
				t.Fatalf("RunSession: %v", err)
			}
			if len(posted) != 1 || posted[0] != "Morning!" {
				t.Errorf("webhook posts = %v", posted)
			}
		})
	}
}

func TestRunSession_NoDelivery(t *testing.T) {
	database, ag, _ := setup(t, "Morning!")
	s := New(database, ag, "0 8 * * *", nil, nil)
	if _, err := s.RunSession(context.Background()); err != nil {
		t.Fatalf("RunSession: %v", err)
	}
}

func TestStart_InvalidCron(t *testing.T) {
	database, ag, _ := setup(t, "")
	s := New(database, ag, "every morning", nil, nil)
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("expected invalid cron error")
	}
}

func TestStartStop(t *testing.T) {
	database, ag, _ := setup(t, "")
	s := New(database, ag, "0 8 * * *", nil, nil)
	if err := s.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
}

func TestRunSession_UsesCoachClock(t *testing.T) {
	database, ag, client := setup(t, "Morning!")
	s := New(database, ag, "0 8 * * *", nil, nil)
	ctx := context.Background()

	if _, err := s.RunSession(ctx); err != nil {
		t.Fatalf("first RunSession: %v", err)
	}
	if !strings.Contains(client.prompts[0], "first scheduled session") {
		t.Errorf("first prompt = %q", client.prompts[0])
	}

	ag.Now = func() time.Time { return time.Now().Add(72 * time.Hour) }
	if _, err := s.RunSession(ctx); err != nil {
		t.Fatalf("second RunSession: %v", err)
	}
	if !strings.Contains(client.prompts[1], "previous session started 3 days ago") {
		t.Errorf("second prompt = %q", client.prompts[1])
	}
}
