// Package questiongen produces multiple-choice revision questions for a
// study unit, either from an LLM or as an offline self-graded recall check.
package questiongen

import (
	"context"

	"github.com/adhyaya/adhyaya/internal/quiz"
)

// Question is one question ready for display.
type Question struct {
	// Prompt is the question text shown to the learner.
	Prompt string `json:"prompt"`

	// Choices holds the options in display order.
	Choices []string `json:"choices"`

	// AnswerIndex is the position of the correct option in Choices.
	AnswerIndex int `json:"answerIndex"`

	// Explanation is shown after the learner answers. May be empty for
	// recall questions.
	Explanation string `json:"explanation,omitempty"`

	UnitRef    string          `json:"unitRef"`
	Difficulty quiz.Difficulty `json:"difficulty"`

	// SelfGraded marks recall questions: the learner reports whether they
	// remembered, so any choice is accepted as the honest answer.
	SelfGraded bool `json:"selfGraded,omitempty"`
}

// IsCorrect reports whether choice answers q correctly. For self-graded
// questions choice 0 means "remembered".
func (q *Question) IsCorrect(choice int) bool {
	return choice == q.AnswerIndex
}

// Input holds the context for one question.
type Input struct {
	// UnitRef is the study unit being revised, e.g. "Physics ch. 4".
	UnitRef string

	Difficulty quiz.Difficulty

	// PriorQuestions are prompts already asked in this quiz, oldest first.
	PriorQuestions []string
}

// Generator produces questions.
type Generator interface {
	// Generate returns a validated question for input.
	Generate(ctx context.Context, input Input) (*Question, error)
}
