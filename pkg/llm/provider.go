package llm

import (
	"context"
	"fmt"
)

// Provider is an interface for text-generation API providers.
type Provider interface {
	// Generate submits a prompt and returns the model's text answer.
	// Failures are returned as *UpstreamError.
	Generate(ctx context.Context, prompt string) (string, error)

	// Provider returns the provider name.
	Provider() string
}

// Options holds provider construction parameters.
type Options struct {
	APIKey   string
	Model    string
	Endpoint string // base URL override, Gemini only
}

// NewProvider creates a provider by name.
func NewProvider(name string, opts Options) (Provider, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	switch name {
	case "gemini", "":
		return NewGeminiClient(opts), nil
	case "anthropic":
		return NewAnthropicClient(opts), nil
	case "openai":
		return NewOpenAIClient(opts), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", name)
	}
}
