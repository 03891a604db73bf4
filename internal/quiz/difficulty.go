package quiz

import "fmt"

// Difficulty is a question difficulty tier.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

// AllDifficulties returns the tiers from easiest to hardest.
func AllDifficulties() []Difficulty {
	return []Difficulty{Easy, Medium, Hard}
}

// ParseDifficulty converts a string into a Difficulty.
func ParseDifficulty(s string) (Difficulty, error) {
	switch Difficulty(s) {
	case Easy, Medium, Hard:
		return Difficulty(s), nil
	}
	return "", fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, s)
}

// Promote returns the next harder tier, capped at Hard.
func (d Difficulty) Promote() Difficulty {
	switch d {
	case Easy:
		return Medium
	default:
		return Hard
	}
}

// Demote returns the next easier tier, floored at Easy.
func (d Difficulty) Demote() Difficulty {
	switch d {
	case Hard:
		return Medium
	default:
		return Easy
	}
}

// Label returns a capitalized name for display.
func (d Difficulty) Label() string {
	switch d {
	case Easy:
		return "Easy"
	case Medium:
		return "Medium"
	case Hard:
		return "Hard"
	default:
		return string(d)
	}
}
