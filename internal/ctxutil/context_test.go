package ctxutil

import (
	"context"
	"testing"
)

func TestChatIDContext(t *testing.T) {
	t.Parallel()

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		if chatID := GetChatID(ctx); chatID != "" {
			t.Errorf("Expected empty string, got %s", chatID)
		}
	})

	t.Run("with chat ID", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		expectedChatID := "5493815550000@s.whatsapp.net"
		ctx = WithChatID(ctx, expectedChatID)
		chatID := GetChatID(ctx)
		if chatID != expectedChatID {
			t.Errorf("Expected chatID %s, got %s", expectedChatID, chatID)
		}
	})
}

func TestMessageIDContext(t *testing.T) {
	t.Parallel()

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		if messageID := GetMessageID(ctx); messageID != "" {
			t.Errorf("Expected empty string, got %s", messageID)
		}
	})

	t.Run("with message ID", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		expectedMessageID := "3EB0A1B2C3"
		ctx = WithMessageID(ctx, expectedMessageID)
		messageID := GetMessageID(ctx)
		if messageID != expectedMessageID {
			t.Errorf("Expected messageID %s, got %s", expectedMessageID, messageID)
		}
	})
}

func TestRequestIDContext(t *testing.T) {
	t.Parallel()

	t.Run("empty context", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		if requestID, ok := GetRequestID(ctx); ok || requestID != "" {
			t.Error("Expected GetRequestID to return empty string and false for empty context")
		}
	})

	t.Run("with request ID", func(t *testing.T) {
		t.Parallel()
		ctx := context.Background()
		expectedRequestID := "req-12345"
		ctx = WithRequestID(ctx, expectedRequestID)
		requestID, ok := GetRequestID(ctx)
		if !ok {
			t.Error("Expected GetRequestID to return true")
		}
		if requestID != expectedRequestID {
			t.Errorf("Expected requestID %s, got %s", expectedRequestID, requestID)
		}
	})
}

func TestContextChaining(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	// Chain multiple context values
	ctx = WithChatID(ctx, "549388@s.whatsapp.net")
	ctx = WithMessageID(ctx, "3EB0FFEE")
	ctx = WithRequestID(ctx, "req-789")

	// Verify all values are preserved
	if chatID := GetChatID(ctx); chatID != "549388@s.whatsapp.net" {
		t.Error("ChatID not preserved in chained context")
	}
	if messageID := GetMessageID(ctx); messageID != "3EB0FFEE" {
		t.Error("MessageID not preserved in chained context")
	}
	if requestID, ok := GetRequestID(ctx); !ok || requestID != "req-789" {
		t.Error("RequestID not preserved in chained context")
	}
}

func TestPreserveTracing(t *testing.T) {
	t.Parallel()
	t.Run("preserves all tracing values", func(t *testing.T) {
		t.Parallel()
		parentCtx := context.Background()
		parentCtx = WithChatID(parentCtx, "chat456")
		parentCtx = WithMessageID(parentCtx, "msg123")
		parentCtx = WithRequestID(parentCtx, "req789")

		detachedCtx := PreserveTracing(parentCtx)

		if chatID := GetChatID(detachedCtx); chatID != "chat456" {
			t.Errorf("Expected chatID 'chat456', got %q", chatID)
		}
		if messageID := GetMessageID(detachedCtx); messageID != "msg123" {
			t.Errorf("Expected messageID 'msg123', got %q", messageID)
		}
		if requestID, ok := GetRequestID(detachedCtx); !ok || requestID != "req789" {
			t.Errorf("Expected requestID 'req789', got %q (ok=%v)", requestID, ok)
		}
	})

	t.Run("handles partial values", func(t *testing.T) {
		t.Parallel()
		partialCtx := WithChatID(context.Background(), "chat_only")
		detachedPartial := PreserveTracing(partialCtx)

		if chatID := GetChatID(detachedPartial); chatID != "chat_only" {
			t.Errorf("Expected chatID 'chat_only', got %q", chatID)
		}
		if messageID := GetMessageID(detachedPartial); messageID != "" {
			t.Errorf("Expected empty messageID, got %q", messageID)
		}
	})

	t.Run("creates independent context (cancellation)", func(t *testing.T) {
		t.Parallel()
		cancelCtx, cancel := context.WithCancel(WithChatID(context.Background(), "chat_cancel"))
		detachedCancel := PreserveTracing(cancelCtx)

		cancel() // Cancel parent

		// Parent should be canceled
		if err := cancelCtx.Err(); err == nil {
			t.Error("Expected parent context to be canceled")
		}

		// Detached child should NOT be canceled
		if err := detachedCancel.Err(); err != nil {
			t.Errorf("Expected detached context to be active, got error: %v", err)
		}

		// But values should still be preserved
		if chatID := GetChatID(detachedCancel); chatID != "chat_cancel" {
			t.Errorf("Expected chatID 'chat_cancel', got %q", chatID)
		}
	})
}
