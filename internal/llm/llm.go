// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm defines the completion-provider contract used by the
// co-reference step and the built-in providers that satisfy it.
package llm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pdiddy/character-engine/pkg/types"
)

// Request is one completion request.
type Request struct {
	SystemInstruction string
	UserMessage       string
	MaxTokens         int
	Temperature       float64
}

// Response is the generated text plus token counters.
type Response struct {
	GeneratedText string
	Usage         types.TokenUsage
}

// Provider generates text for a single request. Implementations send one
// request per call and do not retry.
type Provider interface {
	Complete(ctx context.Context, req Request) (Response, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, req Request) (Response, error)

// Complete calls f.
func (f ProviderFunc) Complete(ctx context.Context, req Request) (Response, error) {
	return f(ctx, req)
}

// APIError is returned when a provider answers with a non-2xx status.
type APIError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s API returned %d: %s", e.Provider, e.StatusCode, e.Body)
}

// Provider names accepted by New.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// New builds the provider named by cfg.Provider.
func New(cfg types.AIConfig) (Provider, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	switch cfg.Provider {
	case ProviderAnthropic, "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic provider: API key is required")
		}
		return &AnthropicProvider{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, Client: client}, nil
	case ProviderOpenAI:
		if cfg.APIKey == "" && cfg.BaseURL == "" {
			return nil, fmt.Errorf("openai provider: API key or base URL is required")
		}
		return &OpenAIProvider{APIKey: cfg.APIKey, Model: cfg.Model, BaseURL: cfg.BaseURL, Client: client}, nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
