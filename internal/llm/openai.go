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
	openAIBaseURL      = "https://api.openai.com/v1"
	DefaultOpenAIModel = "gpt-4o-mini"
)

// OpenAIProvider calls an OpenAI-compatible chat completions endpoint.
// BaseURL may point at a local server; APIKey is then optional.
type OpenAIProvider struct {
	APIKey  string
	Model   string
	BaseURL string
	Client  *http.Client
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

// Complete sends one chat completion request.
func (p *OpenAIProvider) Complete(ctx context.Context, req Request) (Response, error) {
	model := p.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	base := strings.TrimSuffix(p.BaseURL, "/")
	if base == "" {
		base = openAIBaseURL
	}

	var messages []chatMessage
	if req.SystemInstruction != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.SystemInstruction})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.UserMessage})

	body := chatRequest{
		Model:       model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	headers := map[string]string{}
	if p.APIKey != "" {
		headers["Authorization"] = "Bearer " + p.APIKey
	}

	resp, err := httputil.PostJSON(ctx, p.Client, base+"/chat/completions", headers, body)
	if err != nil {
		return Response{}, fmt.Errorf("calling OpenAI API: %w", err)
	}
	if !resp.OK() {
		return Response{}, &APIError{Provider: "OpenAI", StatusCode: resp.StatusCode, Body: string(resp.Body)}
	}

	var cResp chatResponse
	if err := json.Unmarshal(resp.Body, &cResp); err != nil {
		return Response{}, fmt.Errorf("decoding OpenAI response: %w", err)
	}
	if len(cResp.Choices) == 0 {
		return Response{}, fmt.Errorf("no choices in OpenAI response")
	}

	return Response{
		GeneratedText: cResp.Choices[0].Message.Content,
		Usage: types.TokenUsage{
			PromptTokens:     cResp.Usage.PromptTokens,
			CompletionTokens: cResp.Usage.CompletionTokens,
		},
	}, nil
}
