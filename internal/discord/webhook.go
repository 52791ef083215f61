package discord

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Webhook posts messages to a channel through an incoming webhook URL.
// It needs no bot connection.
type Webhook struct {
	session *discordgo.Session
	id      string
	token   string
}

// ParseWebhookURL extracts the id and token from
// https://discord.com/api/webhooks/{id}/{token}.
func ParseWebhookURL(raw string) (id, token string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("parsing webhook URL: %w", err)
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := 0; i+2 < len(parts); i++ {
		if parts[i] == "webhooks" && parts[i+1] != "" && parts[i+2] != "" {
			return parts[i+1], parts[i+2], nil
		}
	}
	return "", "", fmt.Errorf("webhook URL %q has no /webhooks/{id}/{token} path", raw)
}

func NewWebhook(rawURL string) (*Webhook, error) {
	id, token, err := ParseWebhookURL(rawURL)
	if err != nil {
		return nil, err
	}
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("creating Discord session: %w", err)
	}
	return &Webhook{session: s, id: id, token: token}, nil
}

func (w *Webhook) Send(content string) error {
	for _, chunk := range splitMessage(content, maxMessageLen) {
		_, err := w.session.WebhookExecute(w.id, w.token, false, &discordgo.WebhookParams{
			Content:  chunk,
			Username: "Growth Coach",
		})
		if err != nil {
			return fmt.Errorf("executing webhook: %w", err)
		}
	}
	return nil
}
