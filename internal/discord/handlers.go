package discord

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/chris/growthcoach/internal/llm"
)

// histories holds the conversation per channel.
type histories struct {
	mu sync.Mutex
	m  map[string][]llm.Message
}

func newHistories() *histories {
	return &histories{m: make(map[string][]llm.Message)}
}

func (h *histories) get(channelID string) []llm.Message {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.m[channelID]
}

func (h *histories) set(channelID string, msgs []llm.Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.m[channelID] = msgs
}

// incoming decides whether the coach answers m. It returns the text with
// the bot's mention removed, and whether m arrived by DM.
func incoming(m *discordgo.MessageCreate, botID string) (text string, dm, ok bool) {
	if m.Author == nil || m.Author.ID == botID {
		return "", false, false
	}
	dm = m.GuildID == ""
	if !dm && !mentions(m.Mentions, botID) {
		return "", false, false
	}
	text = strings.TrimSpace(stripMention(m.Content, botID))
	return text, dm, text != ""
}

func mentions(users []*discordgo.User, id string) bool {
	for _, u := range users {
		if u != nil && u.ID == id {
			return true
		}
	}
	return false
}

func (b *Bot) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	text, dm, ok := incoming(m, s.State.User.ID)
	if !ok {
		return
	}
	// Scheduled sessions go to whoever last talked to the coach privately.
	if dm {
		if err := b.db.SetNote(UserNote, m.Author.ID); err != nil {
			log.Printf("warning: saving discord user: %v", err)
		}
	}

	s.ChannelTyping(m.ChannelID)

	reply, msgs, err := b.agent.Run(context.Background(), b.history.get(m.ChannelID), text)
	if err != nil {
		log.Printf("discord: agent error: %v", err)
		s.ChannelMessageSend(m.ChannelID, "Something went wrong on my end. Tell me again?")
		return
	}
	b.history.set(m.ChannelID, llm.TrimMessages(msgs, b.agent.MaxContextTokens))

	for _, chunk := range splitMessage(reply, maxMessageLen) {
		if _, err := s.ChannelMessageSend(m.ChannelID, chunk); err != nil {
			log.Printf("discord: sending reply: %v", err)
			return
		}
	}
}

func stripMention(s, userID string) string {
	return strings.NewReplacer("<@"+userID+">", "", "<@!"+userID+">", "").Replace(s)
}

// splitMessage cuts s into chunks of at most maxLen bytes, preferring to
// break after the last newline in each chunk.
func splitMessage(s string, maxLen int) []string {
	if len(s) <= maxLen {
		return []string{s}
	}
	var chunks []string
	for len(s) > maxLen {
		end := maxLen
		if idx := strings.LastIndexByte(s[:end], '\n'); idx > 0 {
			end = idx + 1
		}
		chunks = append(chunks, s[:end])
		s = s[end:]
	}
	if s != "" {
		chunks = append(chunks, s)
	}
	return chunks
}
