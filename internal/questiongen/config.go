package questiongen

// Config controls LLMGenerator.
type Config struct {
	// Validators run in order; the first failure stops the chain.
	Validators []Validator

	MaxTokens   int
	Temperature float64

	// MaxPriorQuestions caps how many earlier prompts go into the prompt.
	MaxPriorQuestions int

	// MaxAttempts is how many times a retryable validation failure is
	// regenerated before giving up.
	MaxAttempts int
}

// DefaultConfig returns the standard validator chain and limits.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ChoicesValidator{},
			&DedupValidator{},
		},
		MaxTokens:         512,
		Temperature:       0.7,
		MaxPriorQuestions: 10,
		MaxAttempts:       2,
	}
}
