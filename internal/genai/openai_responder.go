// Package genai provides the language model fallback.
// This file contains the OpenAI chat completions implementation.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// openaiResponder answers catalog questions through the OpenAI chat
// completions API. It implements the Responder interface.
type openaiResponder struct {
	client      openai.Client
	model       string
	catalogJSON string
	temperature float64
}

// newOpenAIResponder creates an OpenAI-backed responder.
// Returns nil if apiKey is empty (fallback disabled).
func newOpenAIResponder(cfg Config) *openaiResponder {
	if cfg.APIKey == "" {
		return nil
	}

	model := cfg.Model
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &openaiResponder{
		client:      openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:       model,
		catalogJSON: cfg.CatalogJSON,
		temperature: cfg.Temperature,
	}
}

// Reply makes one chat completion call: persona prompt and catalog go
// in as system messages, the user text as-is. No retries.
func (r *openaiResponder) Reply(ctx context.Context, text string) (string, error) {
	if r == nil {
		return "", fmt.Errorf("openai responder not configured")
	}

	params := openai.ChatCompletionNewParams{
		Model: r.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(SystemPrompt),
			openai.SystemMessage(r.catalogJSON),
			openai.UserMessage(text),
		},
		Temperature: openai.Float(r.temperature),
	}

	start := time.Now()
	resp, err := r.client.Chat.Completions.New(ctx, params)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "fallback completion failed",
			"provider", ProviderOpenAI,
			"model", r.model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// IsEnabled returns true when the responder holds a usable client.
func (r *openaiResponder) IsEnabled() bool { return r != nil }

// Provider returns ProviderOpenAI.
func (r *openaiResponder) Provider() Provider { return ProviderOpenAI }

// Close is a no-op; the OpenAI client holds no persistent resources.
func (r *openaiResponder) Close() error { return nil }
