package questiongen

import (
	"strings"
	"testing"
)

func TestValidators(t *testing.T) {
	valid := func() *Question {
		return &Question{
			Prompt:      "Which equation states Newton's second law?",
			Choices:     []string{"F = ma", "E = mc^2", "V = IR", "PV = nRT"},
			AnswerIndex: 0,
			Explanation: "Force equals mass times acceleration.",
		}
	}
	tests := []struct {
		name      string
		mutate    func(q *Question)
		prior     []string
		validator string // empty means valid
	}{
		{"valid", func(*Question) {}, nil, ""},
		{"empty prompt", func(q *Question) { q.Prompt = "  " }, nil, "structural"},
		{"long prompt", func(q *Question) { q.Prompt = strings.Repeat("x", 501) }, nil, "structural"},
		{"three choices", func(q *Question) { q.Choices = q.Choices[:3] }, nil, "choices"},
		{"index too high", func(q *Question) { q.AnswerIndex = 4 }, nil, "choices"},
		{"negative index", func(q *Question) { q.AnswerIndex = -1 }, nil, "choices"},
		{"blank choice", func(q *Question) { q.Choices[2] = "" }, nil, "choices"},
		{"duplicate choice", func(q *Question) { q.Choices[3] = "f = MA" }, nil, "choices"},
		{"repeat prompt", func(*Question) {}, []string{"which equation states newton's second law"}, "dedup"},
		{"different prompt", func(*Question) {}, []string{"What is inertia?"}, ""},
	}

	validators := DefaultConfig().Validators
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := valid()
			tt.mutate(q)
			var got *ValidationError
			for _, v := range validators {
				if got = v.Validate(q, Input{PriorQuestions: tt.prior}); got != nil {
					break
				}
			}
			switch {
			case tt.validator == "" && got != nil:
				t.Errorf("unexpected failure: %v", got)
			case tt.validator != "" && got == nil:
				t.Errorf("expected %s failure", tt.validator)
			case got != nil && got.Validator != tt.validator:
				t.Errorf("failed in %s, want %s", got.Validator, tt.validator)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	if got := normalize("  What's  F=ma? "); got != "what s f ma" {
		t.Errorf("normalize = %q", got)
	}
}
