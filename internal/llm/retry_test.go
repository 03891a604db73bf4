package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestRetry(inner Provider, attempts int) (*RetryProvider, *[]time.Duration) {
	var waits []time.Duration
	r := WithRetry(inner, RetryConfig{
		MaxAttempts: attempts,
		InitialWait: 100 * time.Millisecond,
		MaxWait:     time.Second,
		Multiplier:  2,
	}).(*RetryProvider)
	r.sleep = func(_ context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	return r, &waits
}

func TestRetryTransient(t *testing.T) {
	m := NewMockProvider(
		MockResponse{Err: &ErrProviderUnavailable{}},
		MockResponse{Err: &ErrRateLimit{RetryAfter: 3 * time.Second}},
		MockJSON("ok"),
	)
	r, waits := newTestRetry(m, 3)

	resp, err := r.Generate(context.Background(), UserPrompt("", "x"))
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if string(resp.Content) != `"ok"` {
		t.Errorf("content = %s", resp.Content)
	}
	if m.CallCount() != 3 {
		t.Errorf("calls = %d, want 3", m.CallCount())
	}
	if len(*waits) != 2 {
		t.Fatalf("waits = %v", *waits)
	}
	if w := (*waits)[0]; w < 80*time.Millisecond || w > 120*time.Millisecond {
		t.Errorf("first wait = %v, want 100ms ±20%%", w)
	}
	if (*waits)[1] != 3*time.Second {
		t.Errorf("rate-limit wait = %v, want Retry-After", (*waits)[1])
	}
}

func TestRetryGivesUp(t *testing.T) {
	tests := []struct {
		name      string
		responses []MockResponse
		wantCalls int
	}{
		{"exhausted", []MockResponse{{Err: &ErrProviderUnavailable{}}, {Err: &ErrProviderUnavailable{}}, {Err: &ErrProviderUnavailable{}}}, 3},
		{"rejected", []MockResponse{{Err: &ErrRejected{StatusCode: 401}}}, 1},
		{"truncated", []MockResponse{{Err: &ErrMaxTokensExceeded{}}}, 1},
		{"invalid twice", []MockResponse{{Err: &ErrInvalidResponse{}}, {Err: &ErrInvalidResponse{}}, MockJSON("never")}, 2},
		{"canceled", []MockResponse{{Err: context.Canceled}}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMockProvider(tt.responses...)
			r, _ := newTestRetry(m, 3)
			if _, err := r.Generate(context.Background(), UserPrompt("", "x")); err == nil {
				t.Fatal("expected error")
			}
			if m.CallCount() != tt.wantCalls {
				t.Errorf("calls = %d, want %d", m.CallCount(), tt.wantCalls)
			}
		})
	}
}

func TestRetryStopsOnContext(t *testing.T) {
	m := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}}, MockJSON("late"))
	r, _ := newTestRetry(m, 3)
	r.sleep = func(context.Context, time.Duration) error { return context.DeadlineExceeded }

	_, err := r.Generate(context.Background(), UserPrompt("", "x"))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v", err)
	}
	if m.CallCount() != 1 {
		t.Errorf("calls = %d, want 1", m.CallCount())
	}
}
