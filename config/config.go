package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/chris/growthcoach/internal/journal"
	"github.com/chris/growthcoach/internal/llm"
	"github.com/joho/godotenv"
)

type Config struct {
	SpreadsheetID    string // GROWTH_COACH_SSID
	CredentialsPath  string // service-account JSON
	StoreBackend     string // google, local
	ReadRange        string // journal rows, header first
	AppendRange      string // where entries are appended
	LLMProvider      string // gemini, anthropic, openai, ollama
	CoachModel       string
	QuickModel       string // search sub-agent
	GeminiKey        string
	AnthropicKey     string // API key (X-Api-Key header)
	AnthropicToken   string // OAuth token (Authorization: Bearer header)
	OpenAIKey        string
	OllamaBaseURL    string
	DiscordToken     string
	DiscordWebhook   string
	DatabasePath     string
	SessionCron      string
	MaxContextTokens int
}

// ConfigDir is where per-user settings live.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".growthcoach"
	}
	return filepath.Join(home, ".growthcoach")
}

func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config")
}

// Load reads .env and then the per-user config file. Variables already
// set take precedence over both.
func Load() *Config {
	_ = godotenv.Load() // ignore error if no .env
	if _, err := os.Stat(ConfigFile()); err == nil {
		if err := godotenv.Load(ConfigFile()); err != nil {
			log.Printf("warning: reading %s: %v", ConfigFile(), err)
		}
	}

	return &Config{
		SpreadsheetID:    os.Getenv("GROWTH_COACH_SSID"),
		CredentialsPath:  os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		StoreBackend:     envOr("STORE_BACKEND", "google"),
		ReadRange:        envOr("JOURNAL_READ_RANGE", journal.DefaultReadRange),
		AppendRange:      envOr("JOURNAL_APPEND_RANGE", journal.DefaultAppendRange),
		LLMProvider:      envOr("LLM_PROVIDER", "gemini"),
		CoachModel:       os.Getenv("HIGH_QUALITY_AGENT_MODEL"),
		QuickModel:       envOr("QUICK_AGENT_MODEL", "gemini-2.5-flash"),
		GeminiKey:        envOr("GOOGLE_API_KEY", os.Getenv("GEMINI_API_KEY")),
		AnthropicKey:     os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicToken:   os.Getenv("ANTHROPIC_AUTH_TOKEN"),
		OpenAIKey:        os.Getenv("OPENAI_API_KEY"),
		OllamaBaseURL:    envOr("OLLAMA_BASE_URL", "http://localhost:11434/v1"),
		DiscordToken:     os.Getenv("DISCORD_BOT_TOKEN"),
		DiscordWebhook:   os.Getenv("DISCORD_WEBHOOK_URL"),
		DatabasePath:     envOr("DATABASE_PATH", "./coach.db"),
		SessionCron:      envOr("SESSION_CRON", "0 8 * * *"),
		MaxContextTokens: envInt("MAX_CONTEXT_TOKENS", 100000),
	}
}

// Provider returns the settings for the coach's model client.
func (c *Config) Provider() llm.ProviderConfig {
	pc := llm.ProviderConfig{
		Provider: c.LLMProvider,
		Model:    c.CoachModel,
		BaseURL:  c.OllamaBaseURL,
	}
	switch c.LLMProvider {
	case "gemini":
		pc.APIKey = c.GeminiKey
	case "anthropic":
		pc.APIKey = c.AnthropicKey
		pc.AuthToken = c.AnthropicToken
	case "openai":
		pc.APIKey = c.OpenAIKey
	}
	return pc
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("warning: %s=%q is not a positive integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}
