// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/pdiddy/character-engine/internal/httputil"
	"github.com/pdiddy/character-engine/pkg/types"
)

const (
	anthropicBaseURL      = "https://api.anthropic.com"
	anthropicVersion      = "2023-06-01"
	DefaultAnthropicModel = "claude-sonnet-4-5-20250929"
)

// AnthropicProvider calls the Anthropic Messages API.
type AnthropicProvider struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

// anthropicRequest is the request body for the Messages API.
type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Temperature float64            `json:"temperature"`
	Messages    []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// anthropicResponse is the response body from the Messages API.
type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

// Complete sends one Messages API request.
func (p *AnthropicProvider) Complete(ctx context.Context, req Request) (Response, error) {
	model := p.Model
	if model == "" {
		model = DefaultAnthropicModel
	}
	base := strings.TrimSuffix(p.BaseURL, "/")
	if base == "" {
		base = anthropicBaseURL
	}

	body := anthropicRequest{
		Model:       model,
		MaxTokens:   req.MaxTokens,
		System:      req.SystemInstruction,
		Temperature: req.Temperature,
		Messages:    []anthropicMessage{{Role: "user", Content: req.UserMessage}},
	}
	headers := map[string]string{
		"x-api-key":         p.APIKey,
		"anthropic-version": anthropicVersion,
	}

	resp, err := httputil.PostJSON(ctx, p.Client, base+"/v1/messages", headers, body)
	if err != nil {
		return Response{}, fmt.Errorf("calling Anthropic API: %w", err)
	}
	if !resp.OK() {
		return Response{}, &APIError{Provider: "Anthropic", StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	var aResp anthropicResponse
	if err := json.Unmarshal(resp.Body, &aResp); err != nil {
		return Response{}, fmt.Errorf("decoding Anthropic response: %w", err)
	}

	var text strings.Builder
	for _, block := range aResp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return Response{}, fmt.Errorf("no text content in Anthropic response")
	}

	return Response{
		GeneratedText: text.String(),
		Usage: types.TokenUsage{
			PromptTokens:     aResp.Usage.InputTokens,
			CompletionTokens: aResp.Usage.OutputTokens,
		},
	}, nil
}
