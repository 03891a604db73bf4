package questiongen

import "github.com/adhyaya/adhyaya/internal/llm"

// QuestionSchema is the response shape requested from the model.
var QuestionSchema = &llm.Schema{
	Name:        "revision-question",
	Description: "A single multiple-choice revision question with explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"prompt": map[string]any{
				"type":        "string",
				"description": "The question shown to the learner, plain text",
			},
			"choices": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"minItems":    choiceCount,
				"maxItems":    choiceCount,
				"description": "Exactly 4 options, one of them correct",
			},
			"answer_index": map[string]any{
				"type":        "integer",
				"minimum":     0,
				"maximum":     choiceCount - 1,
				"description": "Zero-based index of the correct option in choices",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Two or three sentences on why the answer is right",
			},
		},
		"required":             []any{"prompt", "choices", "answer_index", "explanation"},
		"additionalProperties": false,
	},
}

// questionOutput is the raw model response before validation.
type questionOutput struct {
	Prompt      string   `json:"prompt"`
	Choices     []string `json:"choices"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation"`
}
