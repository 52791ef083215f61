package discord

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
	"github.com/chris/growthcoach/internal/agent"
	"github.com/chris/growthcoach/internal/db"
	"github.com/chris/growthcoach/internal/llm"
)

// UserNote is the note key holding the Discord user who last DMed the coach.
const UserNote = "discord_user_id"

const maxMessageLen = 2000

type Bot struct {
	session *discordgo.Session
	agent   *agent.Agent
	db      *db.DB
	history *histories
}

func NewBot(token string, ag *agent.Agent, database *db.DB) (*Bot, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating Discord session: %w", err)
	}

	bot := &Bot{session: s, agent: ag, db: database, history: newHistories()}
	s.AddHandler(bot.onMessage)
	s.Identify.Intents = discordgo.IntentsDirectMessages | discordgo.IntentsGuildMessages

	if err := s.Open(); err != nil {
		return nil, fmt.Errorf("opening Discord connection: %w", err)
	}

	log.Printf("Discord bot connected as %s", s.State.User.Username)
	return bot, nil
}

// SendDM opens a DM with userID, sends content, and seeds that channel's
// history so the user's reply continues the same conversation.
func (b *Bot) SendDM(userID, content string, history []llm.Message) error {
	ch, err := b.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("opening DM channel: %w", err)
	}
	for _, chunk := range splitMessage(content, maxMessageLen) {
		if _, err := b.session.ChannelMessageSend(ch.ID, chunk); err != nil {
			return fmt.Errorf("sending DM: %w", err)
		}
	}
	b.history.set(ch.ID, llm.TrimMessages(history, b.agent.MaxContextTokens))
	return nil
}

func (b *Bot) Close() {
	b.session.Close()
}
