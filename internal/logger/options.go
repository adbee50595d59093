// Package logger provides structured logging utilities for the application.
// This file contains the option-based constructor that assembles the
// full pipeline: JSON to stdout, context enrichment, and optional
// Better Stack shipping behind an async worker.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	slogbetterstack "github.com/samber/slog-betterstack"
)

// Options configures the logger pipeline.
type Options struct {
	// Level is the minimum level: debug, info, warn or error.
	Level string

	// Writer receives the local JSON stream. Defaults to os.Stdout.
	Writer io.Writer

	// BetterstackToken enables remote log shipping when non-empty.
	BetterstackToken string

	// BetterstackEndpoint overrides the ingest endpoint (optional).
	BetterstackEndpoint string

	// Async tunes the async worker used for remote shipping.
	Async AsyncOptions
}

// NewWithOptions creates the full logging pipeline. The local JSON
// handler is always synchronous; only the remote handler goes through
// the async worker so slow ingest never stalls message handling.
func NewWithOptions(opts Options) *Logger {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}

	local := NewWithWriter(opts.Level, writer).Handler()

	var remote slog.Handler
	if opts.BetterstackToken != "" {
		bs := slogbetterstack.Option{
			Token:    opts.BetterstackToken,
			Endpoint: opts.BetterstackEndpoint,
			Level:    parseLevel(opts.Level),
		}.NewBetterstackHandler()
		remote = NewAsyncHandler(bs, opts.Async)
	}

	pipeline := NewContextHandler(NewMultiHandler(local, remote))
	return &Logger{Logger: slog.New(pipeline)}
}

// Shutdown flushes any async handlers in the logger's pipeline. Safe to
// call on loggers built without remote shipping.
func (l *Logger) Shutdown(ctx context.Context) error {
	return shutdownHandler(l.Handler(), ctx)
}

// shutdownHandler walks the handler tree looking for async workers.
func shutdownHandler(h slog.Handler, ctx context.Context) error {
	switch t := h.(type) {
	case *AsyncHandler:
		return t.Shutdown(ctx)
	case *ContextHandler:
		return shutdownHandler(t.handler, ctx)
	case *MultiHandler:
		var firstErr error
		for _, inner := range t.handlers {
			if err := shutdownHandler(inner, ctx); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		return firstErr
	default:
		return nil
	}
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
