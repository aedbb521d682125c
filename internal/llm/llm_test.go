package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birddog/teddy/pkg/config"
	"github.com/birddog/teddy/pkg/httputil"
	"github.com/birddog/teddy/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

func testHTTPClient() *httputil.Client {
	return httputil.New(&config.Config{}, testLogger()).DisableRetry()
}

func TestOpenAIComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Rich loam, strong potential."}},
			},
		})
	}))
	defer server.Close()

	p := NewOpenAIProvider(testHTTPClient(), testLogger(), "test-key", "gpt-4o-mini", server.URL)

	got, err := p.Complete(context.Background(), Request{
		System: "You are an analyst.",
		Prompt: "Analyze parcel TX-1.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Rich loam, strong potential.", got)
}

func TestOpenAICompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "invalid api key", "type": "auth_error"},
		})
	}))
	defer server.Close()

	p := NewOpenAIProvider(testHTTPClient(), testLogger(), "bad-key", "gpt-4o-mini", server.URL)

	_, err := p.Complete(context.Background(), Request{Prompt: "hello"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid api key")
}

func TestOpenAICompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"choices": []interface{}{}})
	}))
	defer server.Close()

	p := NewOpenAIProvider(testHTTPClient(), testLogger(), "key", "gpt-4o-mini", server.URL)

	_, err := p.Complete(context.Background(), Request{Prompt: "hello"})
	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestOllamaComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req ollamaRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.False(t, req.Stream)
		assert.Equal(t, "llama3", req.Model)

		json.NewEncoder(w).Encode(map[string]string{"response": "Good grazing land."})
	}))
	defer server.Close()

	p := NewOllamaProvider(testHTTPClient(), testLogger(), "llama3", server.URL)

	got, err := p.Complete(context.Background(), Request{Prompt: "Analyze."})
	require.NoError(t, err)
	assert.Equal(t, "Good grazing land.", got)
}

func TestRateLimitedProviderPassesThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"response": "ok"})
	}))
	defer server.Close()

	inner := NewOllamaProvider(testHTTPClient(), testLogger(), "llama3", server.URL)
	limited := NewRateLimitedProvider(inner, 600)

	got, err := limited.Complete(context.Background(), Request{Prompt: "x"})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, "ollama", limited.Name())
}

func TestRateLimitedProviderHonorsDeadline(t *testing.T) {
	inner := NewOllamaProvider(testHTTPClient(), testLogger(), "llama3", "http://localhost:1")
	// One request per minute with the single burst token already spent.
	limited := NewRateLimitedProvider(inner, 1)
	_, _ = limited.Complete(context.Background(), Request{Prompt: "consume token"})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := limited.Complete(ctx, Request{Prompt: "should time out waiting"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait")
}

func TestFactoryFallsBackToOpenAI(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.Provider = "anthropic" // no key configured
	cfg.LLM.OpenAIAPIKey = "sk-test"
	cfg.LLM.OpenAIModel = "gpt-4o-mini"

	p, err := NewFromConfig(context.Background(), cfg, testLogger(), testHTTPClient())
	require.NoError(t, err)
	assert.Equal(t, "openai", p.Name())
}

func TestFactoryErrorsWithoutAnyProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.Provider = "anthropic"

	_, err := NewFromConfig(context.Background(), cfg, testLogger(), testHTTPClient())
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestFactoryUnknownProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.LLM.Provider = "watson"

	_, err := NewFromConfig(context.Background(), cfg, testLogger(), testHTTPClient())
	assert.ErrorIs(t, err, ErrNoProvider)
}

func TestBuildAnalysisPrompt(t *testing.T) {
	prompt := BuildAnalysisPrompt("PROPERTY IDENTITY: 120 acres in Travis County, TX")

	assert.Contains(t, prompt, "PROPERTY DATA:")
	assert.Contains(t, prompt, "120 acres in Travis County")
	for _, heading := range []string{
		"Soil Quality Assessment",
		"Agricultural Potential",
		"Land Use Optimization",
		"Investment Analysis",
		"Regulatory and Tax Opportunities",
	} {
		assert.Contains(t, prompt, heading)
	}

	// Sections appear in a fixed order
	soil := strings.Index(prompt, "Soil Quality")
	invest := strings.Index(prompt, "Investment Analysis")
	assert.Less(t, soil, invest)
}
