// Package llm abstracts the completion providers behind a single
// interface. The insight and chat services depend on Provider only;
// which vendor answers is a configuration concern.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyCompletion means the provider answered but returned no usable text.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// Request is a single completion request.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
}

// Provider generates a text completion for a request.
type Provider interface {
	// Name identifies the provider for logging ("openai", "gemini", ...).
	Name() string

	// Complete returns the completion text. Implementations must honor
	// ctx cancellation; callers bound the call with a deadline.
	Complete(ctx context.Context, req Request) (string, error)
}
