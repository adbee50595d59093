// Package ctxutil provides type-safe context value management.
// Uses private key types to prevent collisions.
package ctxutil

import (
	"context"
)

type contextKey string

const (
	chatIDKey    contextKey = "ctxutil.chatID"
	messageIDKey contextKey = "ctxutil.messageID"
	requestIDKey contextKey = "ctxutil.requestID"
)

// WithChatID adds a chat ID to the context.
// Chat ID identifies the WhatsApp conversation (the sender JID) and is
// used for session lookup and rate limiting.
func WithChatID(ctx context.Context, chatID string) context.Context {
	return context.WithValue(ctx, chatIDKey, chatID)
}

// GetChatID retrieves the chat ID from the context.
// Returns the chat ID if found, empty string otherwise.
func GetChatID(ctx context.Context) string {
	if v := ctx.Value(chatIDKey); v != nil {
		if chatID, ok := v.(string); ok && chatID != "" {
			return chatID
		}
	}
	return ""
}

// WithMessageID adds a WhatsApp message ID to the context.
func WithMessageID(ctx context.Context, messageID string) context.Context {
	return context.WithValue(ctx, messageIDKey, messageID)
}

// GetMessageID retrieves the message ID from the context.
// Returns the message ID if found, empty string otherwise.
func GetMessageID(ctx context.Context) string {
	if v := ctx.Value(messageIDKey); v != nil {
		if messageID, ok := v.(string); ok && messageID != "" {
			return messageID
		}
	}
	return ""
}

// WithRequestID adds a request ID to the context for tracing.
// Request ID is generated per inbound message for log correlation.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
// Returns the request ID and true if found, empty string and false otherwise.
func GetRequestID(ctx context.Context) (string, bool) {
	requestID, ok := ctx.Value(requestIDKey).(string)
	return requestID, ok
}

// PreserveTracing creates a detached context that preserves tracing values.
// The new context is independent of the parent's cancellation and deadlines.
//
// Use for async operations that need tracing but must outlive the parent
// context, such as message handling that continues after the transport
// callback returns.
func PreserveTracing(ctx context.Context) context.Context {
	newCtx := context.Background()

	if chatID := GetChatID(ctx); chatID != "" {
		newCtx = WithChatID(newCtx, chatID)
	}
	if messageID := GetMessageID(ctx); messageID != "" {
		newCtx = WithMessageID(newCtx, messageID)
	}
	if requestID, ok := GetRequestID(ctx); ok && requestID != "" {
		newCtx = WithRequestID(newCtx, requestID)
	}

	return newCtx
}
