package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/birddog/teddy/pkg/httputil"
	"github.com/birddog/teddy/pkg/logger"
)

const (
	anthropicBaseURL    = "https://api.anthropic.com"
	anthropicAPIVersion = "2023-06-01"
)

// AnthropicProvider talks to the Anthropic messages API.
type AnthropicProvider struct {
	client *httputil.Client
	logger *logger.Logger
	apiKey string
	model  string
}

// NewAnthropicProvider creates an Anthropic-backed provider.
func NewAnthropicProvider(client *httputil.Client, log *logger.Logger, apiKey, model string) *AnthropicProvider {
	return &AnthropicProvider{client: client, logger: log, apiKey: apiKey, model: model}
}

func (p *AnthropicProvider) Name() string { return "anthropic" }

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature float64            `json:"temperature"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends a messages request and returns the concatenated text blocks.
func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024 // the messages API requires max_tokens
	}

	body := anthropicRequest{
		Model:       p.model,
		MaxTokens:   maxTokens,
		Temperature: req.Temperature,
		System:      req.System,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Prompt}},
	}

	resp, err := p.client.PostJSONWithHeaders(ctx, anthropicBaseURL+"/v1/messages",
		map[string]string{
			"x-api-key":         p.apiKey,
			"anthropic-version": anthropicAPIVersion,
		}, body)
	if err != nil {
		return "", fmt.Errorf("anthropic request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("anthropic read response: %w", err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("anthropic decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("anthropic API %d: %s", resp.StatusCode, parsed.Error.Message)
		}
		return "", fmt.Errorf("anthropic API returned status %d", resp.StatusCode)
	}

	var sb strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", ErrEmptyCompletion
	}
	return sb.String(), nil
}
