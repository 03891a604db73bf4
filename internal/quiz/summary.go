package quiz

// DefaultPassThreshold is the accuracy at which a revision quiz counts as
// passing the current checkpoint.
const DefaultPassThreshold = 0.6

// TierAccuracy tallies answers at one difficulty tier.
type TierAccuracy struct {
	Attempted int     `json:"attempted"`
	Correct   int     `json:"correct"`
	Accuracy  float64 `json:"accuracy"`
}

func (ta *TierAccuracy) record(correct bool) {
	ta.Attempted++
	if correct {
		ta.Correct++
	}
	ta.Accuracy = float64(ta.Correct) / float64(ta.Attempted)
}

// Summary is the aggregate result of a session. It is what gets persisted;
// the session itself is discarded.
type Summary struct {
	CorrectCount           int                         `json:"correctCount"`
	QuestionCount          int                         `json:"questionCount"`
	FinalDifficultyReached Difficulty                  `json:"finalDifficultyReached"`
	AccuracyByTier         map[Difficulty]TierAccuracy `json:"accuracyByTier"`
}

// Summarize reduces the recorded answers of s.
func Summarize(s *Session) Summary {
	sum := Summary{
		QuestionCount:          len(s.Answers),
		FinalDifficultyReached: s.Config.StartDifficulty,
		AccuracyByTier:         make(map[Difficulty]TierAccuracy),
	}
	for _, a := range s.Answers {
		ta := sum.AccuracyByTier[a.Difficulty]
		ta.record(a.Correct)
		sum.AccuracyByTier[a.Difficulty] = ta
		if a.Correct {
			sum.CorrectCount++
		}
		sum.FinalDifficultyReached = a.Difficulty
	}
	return sum
}

// Accuracy returns overall correct / answered, 0 when nothing was answered.
func (s Summary) Accuracy() float64 {
	if s.QuestionCount == 0 {
		return 0
	}
	return float64(s.CorrectCount) / float64(s.QuestionCount)
}

// Passed reports whether accuracy meets threshold.
func (s Summary) Passed(threshold float64) bool {
	return s.QuestionCount > 0 && s.Accuracy() >= threshold
}
