// Package ratelimit provides rate limiting mechanisms using token bucket algorithm.
package ratelimit

import (
	"time"

	"github.com/cursosjujuy/camila/internal/metrics"
)

// LLMRateLimiter tracks per-chat LLM API usage with hourly limits.
// This is separate from general message handling because fallback calls
// are the only expensive operation the bot performs: every deterministic
// matcher answers for free, so only the fallback needs throttling.
type LLMRateLimiter struct {
	pkl        *PerKeyLimiter
	maxPerHour float64
	metrics    *metrics.Metrics
}

// NewLLMRateLimiter creates a new LLM rate limiter with per-hour limits.
//
// Parameters:
//   - maxPerHour: maximum LLM requests per chat per hour (e.g., 30)
//   - cleanup: cleanup interval for removing inactive limiters (e.g., 5 minutes)
//   - m: optional metrics reporter for drop counting
//
// The limiter uses a token bucket with:
//   - maxTokens = maxPerHour (burst capacity)
//   - refillRate = maxPerHour / 3600 (tokens per second)
//
// Example:
//
//	limiter := NewLLMRateLimiter(30, 5*time.Minute, metrics)
//	defer limiter.Stop()
//
//	if limiter.Allow("549388@s.whatsapp.net") {
//	    // Make LLM API call
//	}
func NewLLMRateLimiter(maxPerHour float64, cleanup time.Duration, m *metrics.Metrics) *LLMRateLimiter {
	llm := &LLMRateLimiter{
		maxPerHour: maxPerHour,
		metrics:    m,
	}

	llm.pkl = NewPerKeyLimiter(PerKeyLimiterConfig{
		MaxTokens:     maxPerHour,
		RefillRate:    maxPerHour / 3600.0,
		CleanupPeriod: cleanup,
	})

	if m != nil {
		llm.pkl.OnDrop(func() {
			m.RecordRateLimiterDrop("llm")
		})
	}

	return llm
}

// Allow checks if an LLM request from chatID is allowed under the rate limit.
// Returns true if allowed (token consumed), false if rate limit exceeded.
func (llm *LLMRateLimiter) Allow(chatID string) bool {
	return llm.pkl.Allow(chatID)
}

// GetAvailable returns the number of remaining tokens for a chat.
// Returns maxPerHour if the chat has no limiter yet (first contact).
func (llm *LLMRateLimiter) GetAvailable(chatID string) float64 {
	if chatID == "" {
		return llm.maxPerHour
	}
	return llm.pkl.GetAvailable(chatID)
}

// GetActiveCount returns the current number of active chat limiters.
func (llm *LLMRateLimiter) GetActiveCount() int {
	return llm.pkl.GetActiveCount()
}

// Stop gracefully stops the cleanup goroutine.
// Safe to call multiple times.
func (llm *LLMRateLimiter) Stop() {
	llm.pkl.Stop()
}
