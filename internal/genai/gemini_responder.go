// Package genai provides the language model fallback.
// This file contains the Gemini implementation.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genai"
)

// geminiResponder answers catalog questions through the Gemini API.
// It implements the Responder interface.
type geminiResponder struct {
	client      *genai.Client
	model       string
	catalogJSON string
	temperature float64
}

// newGeminiResponder creates a Gemini-backed responder.
// Returns nil if apiKey is empty (fallback disabled).
func newGeminiResponder(ctx context.Context, cfg Config) (*geminiResponder, error) {
	if cfg.APIKey == "" {
		return nil, nil //nolint:nilnil // Intentional: feature disabled when no API key
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &geminiResponder{
		client:      client,
		model:       model,
		catalogJSON: cfg.CatalogJSON,
		temperature: cfg.Temperature,
	}, nil
}

// Reply makes one generation call. Gemini has no second system slot, so
// the catalog JSON rides along in the system instruction.
func (r *geminiResponder) Reply(ctx context.Context, text string) (string, error) {
	if r == nil || r.client == nil {
		return "", fmt.Errorf("gemini responder not configured")
	}

	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](float32(r.temperature)),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: SystemPrompt},
				{Text: r.catalogJSON},
			},
		},
	}

	start := time.Now()
	resp, err := r.client.Models.GenerateContent(ctx, r.model, genai.Text(text), config)
	duration := time.Since(start)

	if err != nil {
		slog.WarnContext(ctx, "fallback completion failed",
			"provider", ProviderGemini,
			"model", r.model,
			"duration_ms", duration.Milliseconds(),
			"error", err)
		return "", fmt.Errorf("generate content failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("generate content returned no candidates")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part.Text != "" {
			out.WriteString(part.Text)
		}
	}
	return strings.TrimSpace(out.String()), nil
}

// IsEnabled returns true when the responder holds a usable client.
func (r *geminiResponder) IsEnabled() bool { return r != nil && r.client != nil }

// Provider returns ProviderGemini.
func (r *geminiResponder) Provider() Provider { return ProviderGemini }

// Close is a no-op; the genai client holds no persistent resources.
func (r *geminiResponder) Close() error { return nil }
