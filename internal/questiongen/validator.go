package questiongen

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	choiceCount     = 4
	maxPromptLen    = 500
	maxExplainLen   = 1000
	maxChoiceLength = 200
)

// Validator checks a generated question. Implementations are stateless.
type Validator interface {
	Name() string
	Validate(q *Question, input Input) *ValidationError
}

// ValidationError describes why a question was rejected.
type ValidationError struct {
	Validator string
	Message   string
	Retryable bool // whether asking again is likely to help
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator checks required fields and length limits.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(q *Question, _ Input) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
	}
	switch {
	case strings.TrimSpace(q.Prompt) == "":
		return fail("prompt is empty")
	case len(q.Prompt) > maxPromptLen:
		return fail(fmt.Sprintf("prompt exceeds %d characters", maxPromptLen))
	case len(q.Explanation) > maxExplainLen:
		return fail(fmt.Sprintf("explanation exceeds %d characters", maxExplainLen))
	}
	return nil
}

// ChoicesValidator requires exactly four distinct, non-empty options and
// an answer index that points at one of them.
type ChoicesValidator struct{}

func (v *ChoicesValidator) Name() string { return "choices" }

func (v *ChoicesValidator) Validate(q *Question, _ Input) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg, Retryable: true}
	}
	if len(q.Choices) != choiceCount {
		return fail(fmt.Sprintf("expected %d choices, got %d", choiceCount, len(q.Choices)))
	}
	if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Choices) {
		return fail(fmt.Sprintf("answer index %d out of range", q.AnswerIndex))
	}

	seen := make(map[string]bool, len(q.Choices))
	for i, c := range q.Choices {
		key := normalize(c)
		if key == "" {
			return fail(fmt.Sprintf("choice %d is empty", i))
		}
		if len(c) > maxChoiceLength {
			return fail(fmt.Sprintf("choice %d exceeds %d characters", i, maxChoiceLength))
		}
		if seen[key] {
			return fail(fmt.Sprintf("duplicate choice %q", c))
		}
		seen[key] = true
	}
	return nil
}

// DedupValidator rejects a prompt already asked in this quiz, ignoring
// case, punctuation and spacing.
type DedupValidator struct{}

func (v *DedupValidator) Name() string { return "dedup" }

func (v *DedupValidator) Validate(q *Question, input Input) *ValidationError {
	key := normalize(q.Prompt)
	for _, prior := range input.PriorQuestions {
		if normalize(prior) == key {
			return &ValidationError{
				Validator: v.Name(),
				Message:   "prompt repeats an earlier question",
				Retryable: true,
			}
		}
	}
	return nil
}

// normalize lowercases s and keeps only letters and digits separated by
// single spaces.
func normalize(s string) string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	return strings.Join(fields, " ")
}
