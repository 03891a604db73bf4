package questiongen

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/adhyaya/adhyaya/internal/llm"
	"github.com/adhyaya/adhyaya/internal/quiz"
)

func questionJSON(prompt string, choices []string, answer int) json.RawMessage {
	b, _ := json.Marshal(map[string]any{
		"prompt":       prompt,
		"choices":      choices,
		"answer_index": answer,
		"explanation":  "Because the second law says so.",
	})
	return b
}

var newtonChoices = []string{"F = ma", "E = mc^2", "V = IR", "PV = nRT"}

func TestGenerate(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{
		Content: questionJSON("Which equation states Newton's second law?", newtonChoices, 0),
	})
	gen := New(mock, DefaultConfig(), nil)

	q, err := gen.Generate(context.Background(), Input{
		UnitRef:        "Physics ch. 4",
		Difficulty:     quiz.Easy,
		PriorQuestions: []string{"What is inertia?"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if q.AnswerIndex != 0 || len(q.Choices) != 4 {
		t.Errorf("question = %+v", q)
	}
	if q.UnitRef != "Physics ch. 4" || q.Difficulty != quiz.Easy {
		t.Errorf("input not carried: %+v", q)
	}
	if !q.IsCorrect(0) || q.IsCorrect(2) {
		t.Error("IsCorrect disagrees with AnswerIndex")
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d", len(calls))
	}
	msg := calls[0].Messages[0].Content
	for _, want := range []string{"Physics ch. 4", "easy", "1. What is inertia?"} {
		if !strings.Contains(msg, want) {
			t.Errorf("user message missing %q:\n%s", want, msg)
		}
	}
	if calls[0].Schema != QuestionSchema {
		t.Error("request did not carry QuestionSchema")
	}
}

func TestGenerate_RegeneratesDuplicate(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: questionJSON("What is inertia?", newtonChoices, 0)},
		llm.MockResponse{Content: questionJSON("Which law relates force and acceleration?", newtonChoices, 0)},
	)
	gen := New(mock, DefaultConfig(), nil)

	q, err := gen.Generate(context.Background(), Input{
		UnitRef:        "Physics ch. 4",
		Difficulty:     quiz.Medium,
		PriorQuestions: []string{"what is INERTIA"},
	})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if q.Prompt != "Which law relates force and acceleration?" {
		t.Errorf("Prompt = %q", q.Prompt)
	}
	if mock.CallCount() != 2 {
		t.Errorf("calls = %d, want 2", mock.CallCount())
	}
}

func TestGenerate_Errors(t *testing.T) {
	tests := []struct {
		name      string
		responses []llm.MockResponse
		unit      string
		validator string
	}{
		{
			name:      "provider error",
			responses: []llm.MockResponse{{Err: &llm.ErrProviderUnavailable{}}},
			unit:      "Physics ch. 4",
		},
		{
			name: "duplicate choices twice",
			responses: []llm.MockResponse{
				{Content: questionJSON("Q?", []string{"F = ma", "f=ma", "V = IR", "PV = nRT"}, 0)},
				{Content: questionJSON("Q?", []string{"a", "a", "b", "c"}, 1)},
			},
			unit:      "Physics ch. 4",
			validator: "choices",
		},
		{
			name:      "empty unit",
			responses: nil,
			unit:      "  ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := New(llm.NewMockProvider(tt.responses...), DefaultConfig(), nil)
			_, err := gen.Generate(context.Background(), Input{UnitRef: tt.unit, Difficulty: quiz.Easy})
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.validator != "" {
				var verr *ValidationError
				if !errors.As(err, &verr) || verr.Validator != tt.validator {
					t.Errorf("err = %v, want %s validation error", err, tt.validator)
				}
			}
		})
	}
}

func TestBuildDedup(t *testing.T) {
	if got := buildDedup(nil, 5); got != "None" {
		t.Errorf("buildDedup(nil) = %q", got)
	}
	got := buildDedup([]string{"a", "b", "c"}, 2)
	if got != "1. b\n2. c" {
		t.Errorf("buildDedup = %q", got)
	}
}
