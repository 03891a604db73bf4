package summary

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/adhyaya/adhyaya/internal/mastery"
	"github.com/adhyaya/adhyaya/internal/quiz"
	"github.com/adhyaya/adhyaya/internal/revision"
	"github.com/adhyaya/adhyaya/internal/router"
	"github.com/adhyaya/adhyaya/internal/tracker"
)

func testData() (tracker.ItemView, quiz.Summary) {
	engine := revision.NewEngine()
	created := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	item := engine.NewItem("item-1", "asha", "Physics ch. 4", created)
	sum := quiz.Summary{
		CorrectCount:           4,
		QuestionCount:          5,
		FinalDifficultyReached: quiz.Hard,
		AccuracyByTier: map[quiz.Difficulty]quiz.TierAccuracy{
			quiz.Medium: {Attempted: 2, Correct: 2, Accuracy: 1},
			quiz.Hard:   {Attempted: 3, Correct: 2, Accuracy: 2.0 / 3},
		},
	}
	return tracker.NewView(engine, item, created), sum
}

func TestSummaryScreen_Passed(t *testing.T) {
	item, sum := testData()
	advanced := item
	advanced.CurrentPhase = 1
	now := time.Now()
	advanced.Phases[0].CompletedAt = &now

	s := New(item, sum, tracker.QuizOutcome{
		Passed:    true,
		Advanced:  true,
		Item:      advanced,
		FromLevel: mastery.LevelLearning,
		ToLevel:   mastery.LevelPracticing,
	}, nil)

	view := s.View(100, 30)
	for _, want := range []string{"4 / 5 correct", "Hard", "Checkpoint 1 done", "Learning → Practicing"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSummaryScreen_NotPassed(t *testing.T) {
	item, sum := testData()
	s := New(item, sum, tracker.QuizOutcome{Passed: false}, nil)
	if !strings.Contains(s.View(100, 30), "stays due") {
		t.Error("expected not-passed message")
	}
}

func TestSummaryScreen_SubmitError(t *testing.T) {
	item, sum := testData()
	s := New(item, sum, tracker.QuizOutcome{}, errors.New("action failed, please retry"))
	if !strings.Contains(s.View(100, 30), "Result not saved") {
		t.Error("expected submission error")
	}
}

func TestSummaryScreen_EnterPops(t *testing.T) {
	item, sum := testData()
	s := New(item, sum, tracker.QuizOutcome{}, nil)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}
