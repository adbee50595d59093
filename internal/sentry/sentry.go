// Package sentry reports errors to Better Stack Errors through the
// Sentry Go SDK. Per-turn failures (LLM calls, message delivery) are
// captured here so the conversation itself only ever sees the fixed
// apology reply.
package sentry

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
)

// Config holds the Better Stack Errors settings.
type Config struct {
	// Token is the Better Stack Errors application token. Empty
	// disables reporting entirely.
	Token string

	// Host is the ingesting host (e.g., "errors.betterstack.com").
	Host string

	// Environment identifies the deployment (e.g., "production").
	Environment string

	// Release identifies the application release version.
	Release string

	// SampleRate controls error sampling (0.0-1.0, default 1.0).
	SampleRate float64

	// Debug enables Sentry SDK debug logging.
	Debug bool
}

// Initialize sets up the SDK. With an empty token it does nothing and
// every later capture call becomes a no-op.
// The DSN is constructed as: https://$TOKEN@$HOST/1
func Initialize(cfg Config) error {
	if cfg.Token == "" {
		return nil
	}

	if cfg.Host == "" {
		return fmt.Errorf("sentry host is required when token is provided")
	}

	// The project ID (/1) is required by the SDK but ignored by
	// Better Stack.
	dsn := fmt.Sprintf("https://%s@%s/1", cfg.Token, cfg.Host)

	sampleRate := cfg.SampleRate
	if sampleRate <= 0 {
		sampleRate = 1.0
	}

	return sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		SampleRate:       sampleRate,
		Debug:            cfg.Debug,
		AttachStacktrace: true,
	})
}

// Flush waits for buffered events to reach the server. Returns true if
// everything was sent within the timeout.
func Flush(timeout time.Duration) bool {
	return sentry.Flush(timeout)
}

// CaptureException reports an error.
func CaptureException(err error) {
	sentry.CaptureException(err)
}

// CaptureExceptionWithContext reports an error through the hub bound to
// ctx, falling back to the current hub. Safe without Initialize.
func CaptureExceptionWithContext(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	hub.CaptureException(err)
}
