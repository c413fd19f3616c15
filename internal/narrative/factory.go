package narrative

import (
	"context"
	"fmt"

	"github.com/spec-kit/triage-service/internal/config"
)

// New selects the backend named by cfg.Provider.
func New(ctx context.Context, cfg config.NarrativeConfig) (Generator, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI:
		return NewChatClient(ChatConfig{
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			APIKey:      cfg.APIKey,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout(),
		}), nil
	case config.ProviderGemini:
		gen, err := NewGeminiGenerator(ctx, GeminiConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			Temperature: cfg.Temperature,
		})
		if err != nil {
			return nil, err
		}
		return gen, nil
	default:
		return nil, fmt.Errorf("unknown narrative provider %q", cfg.Provider)
	}
}
