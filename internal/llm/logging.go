package llm

import (
	"context"
	"time"

	"github.com/adhyaya/adhyaya/internal/logger"
	"github.com/adhyaya/adhyaya/internal/store"
)

// LoggingProvider records every call in the event log and the process log.
type LoggingProvider struct {
	inner  Provider
	name   string
	events store.EventRepo
	log    *logger.Logger
}

// WithLogging wraps p. name is the provider name stored with each event.
// events and log may be nil.
func WithLogging(p Provider, name string, events store.EventRepo, log *logger.Logger) Provider {
	if log == nil {
		log = logger.NewNop()
	}
	return &LoggingProvider{inner: p, name: name, events: events, log: log}
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)

	data := store.LLMRequestEventData{
		Provider:  l.name,
		Model:     l.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: time.Since(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.Model = resp.Model
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	kv := []any{
		"provider", data.Provider,
		"model", data.Model,
		"purpose", data.Purpose,
		"latency_ms", data.LatencyMs,
		"input_tokens", data.InputTokens,
		"output_tokens", data.OutputTokens,
	}
	if cost := LookupCost(data.Model); cost != nil {
		kv = append(kv, "cost_usd", cost.Cost(data.InputTokens, data.OutputTokens))
	}
	if err != nil {
		l.log.Warn("llm request failed", append(kv, "error", err)...)
	} else {
		l.log.Debug("llm request", kv...)
	}

	if l.events != nil {
		if lerr := l.events.AppendLLMRequest(ctx, data); lerr != nil {
			l.log.Warn("record llm request event failed", "error", lerr)
		}
	}
	return resp, err
}
