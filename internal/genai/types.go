// Package genai provides the language model fallback used when no
// deterministic matcher handles an incoming message.
//
// Two providers are supported:
//   - OpenAI: github.com/openai/openai-go/v3 (default)
//   - Gemini: google.golang.org/genai (official SDK)
//
// There is deliberately no retry or provider chain: the fallback makes
// a single call and the caller degrades to a fixed apology on failure.
package genai

import "context"

// Provider identifies an LLM provider.
type Provider string

const (
	// ProviderOpenAI represents the OpenAI chat completions API.
	ProviderOpenAI Provider = "openai"
	// ProviderGemini represents Google's Gemini API.
	ProviderGemini Provider = "gemini"
)

// String returns the string representation of the provider.
func (p Provider) String() string {
	return string(p)
}

// Responder produces a free-form answer grounded on the course catalog.
type Responder interface {
	// Reply sends the user text to the model and returns its raw answer.
	Reply(ctx context.Context, text string) (string, error)
	// IsEnabled returns true if the responder is properly initialized.
	IsEnabled() bool
	// Provider returns the provider type for logs and metrics.
	Provider() Provider
	// Close releases any resources held by the responder.
	Close() error
}

// Config holds everything a responder needs at construction time.
type Config struct {
	// Provider selects the backing API.
	Provider Provider

	// APIKey authenticates against the provider. Empty disables the
	// responder.
	APIKey string

	// Model overrides the provider default model when non-empty.
	Model string

	// CatalogJSON is the raw course catalog text handed to the model
	// as its only knowledge source.
	CatalogJSON string

	// Temperature controls sampling. The bot wants answers close to
	// the catalog wording, so this stays low.
	Temperature float64
}

// Default models per provider.
const (
	DefaultOpenAIModel = "gpt-3.5-turbo"
	DefaultGeminiModel = "gemini-2.5-flash"
)

// DefaultTemperature keeps replies near-deterministic.
const DefaultTemperature = 0.2
