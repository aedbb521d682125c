package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/birddog/teddy/pkg/config"
	"github.com/birddog/teddy/pkg/httputil"
	"github.com/birddog/teddy/pkg/logger"
)

// ErrNoProvider means no LLM provider could be constructed from config.
var ErrNoProvider = errors.New("llm: no usable provider configured")

// NewFromConfig builds the configured provider. When the configured
// provider is missing its credentials but an OpenAI key is present,
// it falls back to OpenAI rather than failing startup. The returned
// provider is wrapped with the client-side rate limit.
func NewFromConfig(ctx context.Context, cfg *config.Config, log *logger.Logger, client *httputil.Client) (Provider, error) {
	provider, err := build(ctx, cfg, log, client, cfg.LLM.Provider)
	if err != nil {
		if cfg.LLM.Provider != "openai" && cfg.LLM.OpenAIAPIKey != "" {
			log.WithFields(map[string]interface{}{
				"provider": cfg.LLM.Provider,
				"error":    err.Error(),
			}).Warn("Configured LLM provider unavailable, falling back to OpenAI")
			provider, err = build(ctx, cfg, log, client, "openai")
		}
		if err != nil {
			return nil, err
		}
	}

	log.WithField("provider", provider.Name()).Info("LLM provider initialized")
	return NewRateLimitedProvider(provider, cfg.LLM.RequestsPerMinute), nil
}

func build(ctx context.Context, cfg *config.Config, log *logger.Logger, client *httputil.Client, name string) (Provider, error) {
	switch name {
	case "openai":
		if cfg.LLM.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY not set", ErrNoProvider)
		}
		return NewOpenAIProvider(client, log, cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIModel, cfg.LLM.OpenAIBaseURL), nil

	case "anthropic":
		if cfg.LLM.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("%w: ANTHROPIC_API_KEY not set", ErrNoProvider)
		}
		return NewAnthropicProvider(client, log, cfg.LLM.AnthropicAPIKey, cfg.LLM.AnthropicModel), nil

	case "gemini":
		if cfg.LLM.GeminiAPIKey == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY not set", ErrNoProvider)
		}
		return NewGeminiProvider(ctx, log, cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel)

	case "ollama":
		return NewOllamaProvider(client, log, cfg.LLM.OllamaModel, cfg.LLM.OllamaBaseURL), nil

	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrNoProvider, name)
	}
}
