package quiz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrInvalidConfig is returned when a quiz configuration uses an option
// outside the recognized set. No session is created.
var ErrInvalidConfig = errors.New("invalid quiz configuration")

// QuestionCounts are the recognized question counts.
var QuestionCounts = []int{5, 10, 15, 20}

// Config is what the learner picks before a quiz starts.
type Config struct {
	QuestionCount   int        `json:"questionCount" validate:"oneof=5 10 15 20"`
	StartDifficulty Difficulty `json:"startDifficulty" validate:"oneof=easy medium hard"`
	Adaptive        bool       `json:"adaptive"`
}

// DefaultConfig returns the preselected modal values.
func DefaultConfig() Config {
	return Config{
		QuestionCount:   10,
		StartDifficulty: Medium,
		Adaptive:        true,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every field against its enumerated options.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s must be one of [%s], got %v", fe.Field(), fe.Param(), fe.Value()))
	}
	return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
}
