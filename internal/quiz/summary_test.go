package quiz

import (
	"math"
	"testing"
)

func TestSummarize_AdaptiveRun(t *testing.T) {
	s, _ := CreateSession(Config{QuestionCount: 5, StartDifficulty: Easy, Adaptive: true})
	// easy, easy -> medium, medium(miss) -> easy, easy
	s = answerAll(t, s, true, true, false, true, true)

	sum := Summarize(s)
	if sum.CorrectCount != 4 {
		t.Errorf("CorrectCount = %d, want 4", sum.CorrectCount)
	}
	if sum.QuestionCount != 5 {
		t.Errorf("QuestionCount = %d, want 5", sum.QuestionCount)
	}
	if sum.FinalDifficultyReached != Easy {
		t.Errorf("FinalDifficultyReached = %s, want easy", sum.FinalDifficultyReached)
	}

	easy := sum.AccuracyByTier[Easy]
	if easy.Attempted != 4 || easy.Correct != 4 {
		t.Errorf("easy tier = %+v, want 4/4", easy)
	}
	medium := sum.AccuracyByTier[Medium]
	if medium.Attempted != 1 || medium.Correct != 0 || medium.Accuracy != 0 {
		t.Errorf("medium tier = %+v, want 0/1", medium)
	}
	if _, ok := sum.AccuracyByTier[Hard]; ok {
		t.Error("hard tier should be absent")
	}
}

func TestSummarize_Empty(t *testing.T) {
	s, _ := CreateSession(Config{QuestionCount: 5, StartDifficulty: Medium})
	sum := Summarize(s)
	if sum.FinalDifficultyReached != Medium {
		t.Errorf("FinalDifficultyReached = %s, want medium", sum.FinalDifficultyReached)
	}
	if sum.Accuracy() != 0 {
		t.Errorf("Accuracy() = %f, want 0", sum.Accuracy())
	}
	if sum.Passed(DefaultPassThreshold) {
		t.Error("empty summary should not pass")
	}
}

func TestSummary_Passed(t *testing.T) {
	s, _ := CreateSession(Config{QuestionCount: 5, StartDifficulty: Medium})
	s = answerAll(t, s, true, true, true, false, false)
	sum := Summarize(s)
	if math.Abs(sum.Accuracy()-0.6) > 1e-9 {
		t.Errorf("Accuracy() = %f, want 0.6", sum.Accuracy())
	}
	if !sum.Passed(DefaultPassThreshold) {
		t.Error("expected 3/5 to pass at 0.6")
	}
	if sum.Passed(0.8) {
		t.Error("expected 3/5 to fail at 0.8")
	}
}
