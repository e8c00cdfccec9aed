package llm

import (
	"fmt"

	"medlookup/internal/config"
)

// New builds the completer selected by cfg.Provider.
func New(cfg config.LLMConfig) (Completer, error) {
	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.RequestTimeout), nil
	case "anthropic":
		return NewAnthropicClient(cfg.AnthropicKey, cfg.AnthropicModel, cfg.MaxOutputTokens, cfg.RequestTimeout), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}
