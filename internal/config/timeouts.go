// Package config provides centralized timing constants for the
// application.
//
// The session constants are operational policy, not tunables: the
// dialogue memory is meant to outlive a normal back-and-forth about a
// course (hours) but not a user coming back days later expecting the
// bot to remember.
package config

import "time"

// Session lifecycle
const (
	// SessionTTL is how long an idle conversation keeps its state.
	// After this window the user starts from a clean session.
	SessionTTL = 12 * time.Hour

	// SessionSweepInterval is how often expired sessions are purged.
	SessionSweepInterval = 30 * time.Minute
)

// Background job intervals
const (
	// UsageLogInterval is how often the app logs active sessions and
	// process memory.
	UsageLogInterval = time.Hour

	// RateLimiterCleanupInterval is how often inactive per-chat LLM
	// limiters are removed.
	RateLimiterCleanupInterval = 5 * time.Minute
)

// LLM timeouts
const (
	// LLMRequest is the timeout for one generative fallback call.
	// There is no retry: a slow provider turns into the apology reply
	// rather than a hanging conversation.
	LLMRequest = 30 * time.Second
)

// WhatsApp transport timeouts
const (
	// MessageSend bounds one outbound message delivery.
	MessageSend = 15 * time.Second
)

// HTTP server timeouts for the admin endpoints.
const (
	HTTPRead  = 10 * time.Second
	HTTPWrite = 30 * time.Second
	HTTPIdle  = 120 * time.Second
)

// Graceful shutdown
const (
	// GracefulShutdown is the default time allowed for in-flight work
	// to drain before the process exits.
	GracefulShutdown = 30 * time.Second
)
