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

const defaultOllamaBaseURL = "http://localhost:11434"

// OllamaProvider talks to a local Ollama server. Intended for
// development without a vendor API key.
type OllamaProvider struct {
	client  *httputil.Client
	logger  *logger.Logger
	model   string
	baseURL string
}

// NewOllamaProvider creates an Ollama-backed provider.
func NewOllamaProvider(client *httputil.Client, log *logger.Logger, model, baseURL string) *OllamaProvider {
	if baseURL == "" {
		baseURL = defaultOllamaBaseURL
	}
	return &OllamaProvider{
		client:  client,
		logger:  log,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (p *OllamaProvider) Name() string { return "ollama" }

type ollamaRequest struct {
	Model   string                 `json:"model"`
	System  string                 `json:"system,omitempty"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options,omitempty"`
}

type ollamaResponse struct {
	Response string `json:"response"`
	Error    string `json:"error"`
}

// Complete generates a non-streaming completion.
func (p *OllamaProvider) Complete(ctx context.Context, req Request) (string, error) {
	options := map[string]interface{}{"temperature": req.Temperature}
	if req.MaxTokens > 0 {
		options["num_predict"] = req.MaxTokens
	}

	body := ollamaRequest{
		Model:   p.model,
		System:  req.System,
		Prompt:  req.Prompt,
		Stream:  false,
		Options: options,
	}

	resp, err := p.client.PostJSON(ctx, p.baseURL+"/api/generate", body)
	if err != nil {
		return "", fmt.Errorf("ollama request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("ollama read response: %w", err)
	}

	var parsed ollamaResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("ollama decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != "" {
			return "", fmt.Errorf("ollama API %d: %s", resp.StatusCode, parsed.Error)
		}
		return "", fmt.Errorf("ollama API returned status %d", resp.StatusCode)
	}

	if strings.TrimSpace(parsed.Response) == "" {
		return "", ErrEmptyCompletion
	}
	return parsed.Response, nil
}
