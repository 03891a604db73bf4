package mastery

import "fmt"

// Level is the coarse progress tier of a revision item.
type Level string

const (
	LevelLearning   Level = "learning"
	LevelPracticing Level = "practicing"
	LevelMastering  Level = "mastering"
	LevelMastered   Level = "mastered"
)

// AllLevels returns every level from least to most advanced.
func AllLevels() []Level {
	return []Level{LevelLearning, LevelPracticing, LevelMastering, LevelMastered}
}

// ParseLevel converts a stored or user-supplied string into a Level.
func ParseLevel(s string) (Level, error) {
	for _, l := range AllLevels() {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown mastery level: %q", s)
}

// Rank returns the position of the level in AllLevels, or -1.
func (l Level) Rank() int {
	for i, other := range AllLevels() {
		if other == l {
			return i
		}
	}
	return -1
}

// LevelFor maps completed checkpoints to a level using the completion
// ratio index/length. A ratio sitting exactly on a boundary belongs to the
// higher tier:
//
//	0            learning
//	(0, 0.5)     practicing
//	[0.5, 0.75)  mastering
//	[0.75, 1]    mastered
//
// Comparisons are done in integer arithmetic so four-checkpoint schedules
// land exactly on the boundaries.
func LevelFor(index, length int) Level {
	if length <= 0 || index <= 0 {
		return LevelLearning
	}
	if index > length {
		index = length
	}
	switch {
	case 4*index >= 3*length:
		return LevelMastered
	case 2*index >= length:
		return LevelMastering
	default:
		return LevelPracticing
	}
}

// Transition records a level change caused by completing a checkpoint.
type Transition struct {
	ItemID  string
	UnitRef string
	From    Level
	To      Level
	Trigger string // "checkpoint", "quiz-pass"
}

// Changed reports whether the transition moved between levels.
func (t Transition) Changed() bool {
	return t.From != t.To
}
