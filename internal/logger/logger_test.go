package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestSanitizeKVs(t *testing.T) {
	got := sanitizeKVs([]any{"provider", "openai", "api_key", "sk-123", "dangling"})
	want := []any{"provider", "openai", "api_key", "[REDACTED]", "dangling"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLoggerRedactsThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("component", "test").Info("configured", "authorization", "Bearer abc", "learner", "l1")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["authorization"] != "[REDACTED]" {
		t.Errorf("authorization = %v, want redacted", fields["authorization"])
	}
	if fields["learner"] != "l1" || fields["component"] != "test" {
		t.Errorf("fields = %v", fields)
	}
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"dev", "prod", "quiet"} {
		l, err := New(mode)
		if err != nil {
			t.Fatalf("New(%q): %v", mode, err)
		}
		l.Debug("hello")
	}
	NewNop().Info("discarded")
}
