package llm

import (
	"context"
	"fmt"
)

type ProviderConfig struct {
	Provider  string // gemini, anthropic, openai, ollama
	APIKey    string
	AuthToken string // Anthropic OAuth token (Bearer auth)
	Model     string
	BaseURL   string
}

func NewClient(ctx context.Context, cfg ProviderConfig) (Client, error) {
	switch cfg.Provider {
	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini provider needs GOOGLE_API_KEY or GEMINI_API_KEY")
		}
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	case "anthropic":
		return NewAnthropicClient(cfg.APIKey, cfg.AuthToken, cfg.Model), nil
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, ""), nil
	case "ollama":
		if cfg.Model == "" {
			cfg.Model = "llama3.1"
		}
		return NewOpenAIClient("ollama", cfg.Model, cfg.BaseURL), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", cfg.Provider)
	}
}
