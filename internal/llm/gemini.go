package llm

import (
	"context"
	"fmt"
	"strings"

	genai "google.golang.org/genai"

	"github.com/birddog/teddy/pkg/logger"
)

// GeminiProvider wraps the official genai client.
type GeminiProvider struct {
	cli    *genai.Client
	logger *logger.Logger
	model  string
}

// NewGeminiProvider creates a Gemini-backed provider.
func NewGeminiProvider(ctx context.Context, log *logger.Logger, apiKey, model string) (*GeminiProvider, error) {
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiProvider{cli: cli, logger: log, model: model}, nil
}

func (p *GeminiProvider) Name() string { return "gemini" }

// Complete generates content with the configured model.
func (p *GeminiProvider) Complete(ctx context.Context, req Request) (string, error) {
	cfg := &genai.GenerateContentConfig{}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	temp := float32(req.Temperature)
	cfg.Temperature = &temp

	resp, err := p.cli.Models.GenerateContent(ctx, p.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: req.Prompt}}}},
		cfg,
	)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyCompletion
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyCompletion
	}
	return sb.String(), nil
}
