package discord

import (
	"reflect"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/chris/growthcoach/internal/llm"
)

const botID = "bot-1"

func TestStripMention(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"<@bot-1> good morning", " good morning"},
		{"<@!bot-1> good morning", " good morning"},
		{"<@bot-1> and <@!bot-1>", " and "},
		{"no mention here", "no mention here"},
		{"<@someone-else> hi", "<@someone-else> hi"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripMention(tt.in, botID); got != tt.want {
			t.Errorf("stripMention(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitMessage(t *testing.T) {
	a15, b15 := strings.Repeat("a", 15), strings.Repeat("b", 15)
	x20 := strings.Repeat("x", 20)
	tests := []struct {
		name   string
		in     string
		maxLen int
		want   []string
	}{
		{"short", "hello", 2000, []string{"hello"}},
		{"exact limit", strings.Repeat("a", 2000), 2000, []string{strings.Repeat("a", 2000)}},
		{"empty", "", 2000, []string{""}},
		{"splits at newline", a15 + "\n" + b15, 20, []string{a15 + "\n", b15}},
		{"hard split", strings.Repeat("x", 50), 20, []string{x20, x20, strings.Repeat("x", 10)}},
		{"last newline wins", "line1\nline2\nline3\nline4", 12, []string{"line1\nline2\n", "line3\nline4"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitMessage(tt.in, tt.maxLen); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitMessage = %q, want %q", got, tt.want)
			}
		})
	}
}

func message(author, guild, content string, mentioned ...string) *discordgo.MessageCreate {
	m := &discordgo.Message{
		Author:  &discordgo.User{ID: author},
		GuildID: guild,
		Content: content,
	}
	for _, id := range mentioned {
		m.Mentions = append(m.Mentions, &discordgo.User{ID: id})
	}
	return &discordgo.MessageCreate{Message: m}
}

func TestIncoming(t *testing.T) {
	tests := []struct {
		name     string
		m        *discordgo.MessageCreate
		wantText string
		wantDM   bool
		wantOK   bool
	}{
		{"dm", message("u-1", "", "  did the hard thing  "), "did the hard thing", true, true},
		{"own message", message(botID, "", "hello"), "", false, false},
		{"guild without mention", message("u-1", "g-1", "hello"), "", false, false},
		{"guild with mention", message("u-1", "g-1", "<@bot-1> hello", botID), "hello", false, true},
		{"mention only", message("u-1", "g-1", "<@bot-1>", botID), "", false, false},
		{"other mention", message("u-1", "g-1", "<@u-2> hi", "u-2"), "", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, dm, ok := incoming(tt.m, botID)
			if text != tt.wantText || dm != tt.wantDM || ok != tt.wantOK {
				t.Errorf("incoming = (%q, %v, %v), want (%q, %v, %v)", text, dm, ok, tt.wantText, tt.wantDM, tt.wantOK)
			}
		})
	}
}

func TestHistories_PerChannel(t *testing.T) {
	h := newHistories()
	h.set("dm-1", []llm.Message{{Role: "assistant", Content: "Morning!"}})

	if got := h.get("dm-1"); len(got) != 1 || got[0].Content != "Morning!" {
		t.Errorf("dm-1 history = %v", got)
	}
	if got := h.get("dm-2"); got != nil {
		t.Errorf("unknown channel should have no history, got %v", got)
	}
}

func TestParseWebhookURL(t *testing.T) {
	tests := []struct {
		raw       string
		wantID    string
		wantToken string
		wantErr   bool
	}{
		{"https://discord.com/api/webhooks/123/abc-DEF", "123", "abc-DEF", false},
		{"https://discordapp.com/api/v10/webhooks/9/tok/", "9", "tok", false},
		{"https://discord.com/api/webhooks/123", "", "", true},
		{"https://example.com/hooks/1/2", "", "", true},
		{"://bad", "", "", true},
	}
	for _, tt := range tests {
		id, token, err := ParseWebhookURL(tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWebhookURL(%q) err = %v, wantErr %v", tt.raw, err, tt.wantErr)
			continue
		}
		if id != tt.wantID || token != tt.wantToken {
			t.Errorf("ParseWebhookURL(%q) = %q, %q", tt.raw, id, token)
		}
	}
}
