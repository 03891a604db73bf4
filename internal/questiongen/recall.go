package questiongen

import (
	"context"
	"fmt"

	"github.com/adhyaya/adhyaya/internal/quiz"
)

// Recall choices, in display order.
const (
	RecallRemembered = "I remembered it"
	RecallForgot     = "I did not remember it"
)

var recallPrompts = map[quiz.Difficulty]string{
	quiz.Easy:   "Without looking at your notes, name the main ideas of %s.",
	quiz.Medium: "Explain %s in your own words, with one example.",
	quiz.Hard:   "Explain how the ideas in %s connect to each other and why they hold.",
}

// RecallGenerator works without a model: each question asks the learner
// to recall the unit and then report honestly whether they managed it.
type RecallGenerator struct{}

// Generate returns a self-graded question. It never fails except on an
// empty unit or a cancelled context.
func (RecallGenerator) Generate(ctx context.Context, input Input) (*Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if input.UnitRef == "" {
		return nil, fmt.Errorf("unit reference is empty")
	}
	format, ok := recallPrompts[input.Difficulty]
	if !ok {
		format = recallPrompts[quiz.Medium]
	}
	return &Question{
		Prompt:      fmt.Sprintf(format, input.UnitRef),
		Choices:     []string{RecallRemembered, RecallForgot},
		AnswerIndex: 0,
		UnitRef:     input.UnitRef,
		Difficulty:  input.Difficulty,
		SelfGraded:  true,
	}, nil
}

// Fallback tries primary and falls back to secondary on any error other
// than cancellation.
type Fallback struct {
	Primary   Generator
	Secondary Generator
}

func (f Fallback) Generate(ctx context.Context, input Input) (*Question, error) {
	q, err := f.Primary.Generate(ctx, input)
	if err == nil || ctx.Err() != nil {
		return q, err
	}
	return f.Secondary.Generate(ctx, input)
}
