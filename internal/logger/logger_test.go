package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func parseEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v\n%s", err, buf.String())
	}
	return entry
}

func TestJSONOutputKeys(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.Info("hola")

	entry := parseEntry(t, &buf)
	for _, key := range []string{"timestamp", "level", "message"} {
		if _, ok := entry[key]; !ok {
			t.Errorf("missing key %q in %v", key, entry)
		}
	}
	if entry["message"] != "hola" {
		t.Errorf("message = %v, want %q", entry["message"], "hola")
	}
	if entry["level"] != "info" {
		t.Errorf("level = %v, want %q", entry["level"], "info")
	}
}

func TestWarnLevelRendersAsWarning(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("debug", &buf)

	log.Warn("cuidado")

	entry := parseEntry(t, &buf)
	if entry["level"] != "warning" {
		t.Errorf("level = %v, want %q", entry["level"], "warning")
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("warn", &buf)

	log.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("info record emitted at warn level: %s", buf.String())
	}

	log.Error("kept")
	if buf.Len() == 0 {
		t.Error("error record suppressed at warn level")
	}
}

func TestUnknownLevelDefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("verbose", &buf)

	log.Debug("suppressed")
	if buf.Len() != 0 {
		t.Error("debug record emitted with default level")
	}
	log.Info("kept")
	if buf.Len() == 0 {
		t.Error("info record suppressed with default level")
	}
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithModule("wa").
		WithRequestID("req-123").
		WithField("chat_id", "111@s.whatsapp.net").
		WithError(errors.New("boom")).
		Error("send failed")

	entry := parseEntry(t, &buf)
	if entry["module"] != "wa" {
		t.Errorf("module = %v, want %q", entry["module"], "wa")
	}
	if entry["request_id"] != "req-123" {
		t.Errorf("request_id = %v, want %q", entry["request_id"], "req-123")
	}
	if entry["chat_id"] != "111@s.whatsapp.net" {
		t.Errorf("chat_id = %v", entry["chat_id"])
	}
	if entry["error"] != "boom" {
		t.Errorf("error = %v, want %q", entry["error"], "boom")
	}
}

func TestWithFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter("info", &buf)

	log.WithFields(map[string]any{"a": 1, "b": "dos"}).Info("x")

	entry := parseEntry(t, &buf)
	if entry["a"] != float64(1) {
		t.Errorf("a = %v, want 1", entry["a"])
	}
	if entry["b"] != "dos" {
		t.Errorf("b = %v, want dos", entry["b"])
	}
}

func TestNewWithOptionsShutdownWithoutRemote(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithOptions(Options{Level: "info", Writer: &buf})

	log.Info("hola")
	if buf.Len() == 0 {
		t.Fatal("no output from options pipeline")
	}

	if err := log.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() = %v, want nil", err)
	}
}
