package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/adhyaya/adhyaya/internal/llm"
	"github.com/adhyaya/adhyaya/internal/logger"
)

// LLMGenerator asks an llm.Provider for questions.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
	log      *logger.Logger
}

// New returns an LLMGenerator. log may be nil.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *LLMGenerator {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &LLMGenerator{provider: provider, config: cfg, log: log}
}

// Generate asks for one question and runs the validator chain. A
// retryable validation failure is regenerated up to Config.MaxAttempts
// times in total.
func (g *LLMGenerator) Generate(ctx context.Context, input Input) (*Question, error) {
	if strings.TrimSpace(input.UnitRef) == "" {
		return nil, fmt.Errorf("unit reference is empty")
	}
	ctx = llm.WithPurpose(ctx, "question-gen")

	var lastErr error
	for attempt := 1; attempt <= g.config.MaxAttempts; attempt++ {
		q, err := g.generateOnce(ctx, input)
		if err == nil {
			return q, nil
		}
		lastErr = err

		var verr *ValidationError
		if !errors.As(err, &verr) || !verr.Retryable {
			return nil, err
		}
		g.log.Warn("generated question rejected",
			"unit", input.UnitRef,
			"validator", verr.Validator,
			"reason", verr.Message,
			"attempt", attempt,
		)
	}
	return nil, lastErr
}

func (g *LLMGenerator) generateOnce(ctx context.Context, input Input) (*Question, error) {
	req := llm.UserPrompt(systemPrompt, buildUserMessage(input, g.config))
	req.Schema = QuestionSchema
	req.MaxTokens = g.config.MaxTokens
	req.Temperature = g.config.Temperature

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw questionOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}

	q := &Question{
		Prompt:      strings.TrimSpace(raw.Prompt),
		Choices:     raw.Choices,
		AnswerIndex: raw.AnswerIndex,
		Explanation: strings.TrimSpace(raw.Explanation),
		UnitRef:     input.UnitRef,
		Difficulty:  input.Difficulty,
	}
	for _, v := range g.config.Validators {
		if verr := v.Validate(q, input); verr != nil {
			return nil, verr
		}
	}
	return q, nil
}
