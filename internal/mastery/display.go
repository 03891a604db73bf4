package mastery

// Label returns the human-readable name shown in the CLI and TUI.
func (l Level) Label() string {
	switch l {
	case LevelLearning:
		return "Learning"
	case LevelPracticing:
		return "Practicing"
	case LevelMastering:
		return "Mastering"
	case LevelMastered:
		return "Mastered"
	default:
		return "Unknown"
	}
}

// Icon returns a single glyph for compact list rendering.
func (l Level) Icon() string {
	switch l {
	case LevelLearning:
		return "○"
	case LevelPracticing:
		return "◔"
	case LevelMastering:
		return "◑"
	case LevelMastered:
		return "●"
	default:
		return "?"
	}
}
