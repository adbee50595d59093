// Package genai provides the language model fallback.
// This file contains the provider factory.
package genai

import (
	"context"
	"fmt"
)

// New builds the responder for the configured provider. It returns
// (nil, nil) when the provider's API key is missing so the caller can
// run without a fallback.
func New(ctx context.Context, cfg Config) (Responder, error) {
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}

	switch cfg.Provider {
	case ProviderOpenAI:
		r := newOpenAIResponder(cfg)
		if r == nil {
			return nil, nil //nolint:nilnil // Intentional: feature disabled when no API key
		}
		return r, nil
	case ProviderGemini:
		r, err := newGeminiResponder(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if r == nil {
			return nil, nil //nolint:nilnil // Intentional: feature disabled when no API key
		}
		return r, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
}
