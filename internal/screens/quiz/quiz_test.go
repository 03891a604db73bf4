package quiz

import (
	"context"
	"errors"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/adhyaya/adhyaya/internal/questiongen"
	qz "github.com/adhyaya/adhyaya/internal/quiz"
	"github.com/adhyaya/adhyaya/internal/revision"
	"github.com/adhyaya/adhyaya/internal/router"
	"github.com/adhyaya/adhyaya/internal/screen"
	"github.com/adhyaya/adhyaya/internal/tracker"
)

type fixedGenerator struct {
	err   error
	calls []questiongen.Input
}

func (g *fixedGenerator) Generate(_ context.Context, in questiongen.Input) (*questiongen.Question, error) {
	g.calls = append(g.calls, in)
	if g.err != nil {
		return nil, g.err
	}
	return &questiongen.Question{
		Prompt:      "Which equation states Newton's second law?",
		Choices:     []string{"E = mc^2", "F = ma", "V = IR", "PV = nRT"},
		AnswerIndex: 1,
		Explanation: "Force equals mass times acceleration.",
		UnitRef:     in.UnitRef,
		Difficulty:  in.Difficulty,
	}, nil
}

type recordingBackend struct {
	tracker.Backend
	submitted []qz.Summary
}

func (b *recordingBackend) SubmitQuizResult(_ context.Context, _ string, sum qz.Summary) (tracker.QuizOutcome, error) {
	b.submitted = append(b.submitted, sum)
	return tracker.QuizOutcome{ResultID: "r1", Passed: sum.Passed(qz.DefaultPassThreshold), Advanced: true}, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

func testItem() tracker.ItemView {
	engine := revision.NewEngine()
	return tracker.ItemView{ReviewItem: engine.NewItem("item-1", "asha", "Physics ch. 4", day0)}
}

func newTestQuiz(t *testing.T, cfg qz.Config) (*QuizScreen, *fixedGenerator, *recordingBackend) {
	t.Helper()
	session, err := qz.CreateSession(cfg)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	gen := &fixedGenerator{}
	backend := &recordingBackend{}
	s := New(backend, gen, testItem(), session)
	return s, gen, backend
}

// run feeds msg to s and then every message its commands produce, until
// a navigation message comes out, which is returned.
func run(t *testing.T, s *QuizScreen, msg tea.Msg) tea.Msg {
	t.Helper()
	for i := 0; i < 10; i++ {
		_, cmd := s.Update(msg)
		if cmd == nil {
			return nil
		}
		msg = cmd()
		switch msg.(type) {
		case router.PopScreenMsg, router.ReplaceScreenMsg:
			return msg
		}
	}
	t.Fatal("too many messages")
	return nil
}

func TestQuizScreen_FullRun(t *testing.T) {
	s, gen, backend := newTestQuiz(t, qz.Config{QuestionCount: 5, StartDifficulty: qz.Medium})
	run(t, s, s.Init()())

	answers := []rune{'2', '2', '1', '2', '2'}
	var nav tea.Msg
	for i, key := range answers {
		if s.question == nil {
			t.Fatalf("question %d not ready", i)
		}
		run(t, s, keyPress(key))
		if !s.showingFeedback {
			t.Fatalf("question %d: expected feedback", i)
		}
		nav = run(t, s, keyPress(' '))
	}

	if _, ok := nav.(router.ReplaceScreenMsg); !ok {
		t.Fatalf("final navigation = %T, want ReplaceScreenMsg", nav)
	}
	if len(backend.submitted) != 1 {
		t.Fatalf("submitted %d summaries, want 1", len(backend.submitted))
	}
	if sum := backend.submitted[0]; sum.CorrectCount != 4 || sum.QuestionCount != 5 {
		t.Errorf("summary = %+v", sum)
	}
	if len(gen.calls) != 5 {
		t.Errorf("generator calls = %d, want 5", len(gen.calls))
	}
	if got := len(gen.calls[4].PriorQuestions); got != 4 {
		t.Errorf("prior questions on last call = %d, want 4", got)
	}
}

func TestQuizScreen_AdaptiveDifficulty(t *testing.T) {
	s, gen, _ := newTestQuiz(t, qz.Config{QuestionCount: 5, StartDifficulty: qz.Easy, Adaptive: true})
	run(t, s, s.Init()())

	run(t, s, keyPress('2'))
	run(t, s, keyPress(' '))
	run(t, s, keyPress('2'))
	run(t, s, keyPress(' '))

	if got := gen.calls[len(gen.calls)-1].Difficulty; got != qz.Medium {
		t.Errorf("difficulty after two correct = %s, want medium", got)
	}
}

func TestQuizScreen_QuitConfirm(t *testing.T) {
	s, _, backend := newTestQuiz(t, qz.DefaultConfig())
	run(t, s, s.Init()())

	run(t, s, specialKey(tea.KeyEscape))
	if !s.quitConfirm {
		t.Fatal("expected quit confirmation")
	}
	run(t, s, keyPress('n'))
	if s.quitConfirm {
		t.Fatal("expected confirmation dismissed")
	}

	run(t, s, specialKey(tea.KeyEscape))
	nav := run(t, s, keyPress('y'))
	if _, ok := nav.(router.PopScreenMsg); !ok {
		t.Errorf("navigation = %T, want PopScreenMsg", nav)
	}
	if len(backend.submitted) != 0 {
		t.Error("abandoned quiz must not be submitted")
	}
}

func TestQuizScreen_GeneratorError(t *testing.T) {
	s, gen, _ := newTestQuiz(t, qz.DefaultConfig())
	gen.err = errors.New("no provider")
	run(t, s, s.Init()())

	if s.errMsg == "" {
		t.Fatal("expected error message")
	}
	if s.View(80, 24) == "" {
		t.Error("expected error view")
	}
	nav := run(t, s, keyPress('x'))
	if _, ok := nav.(router.PopScreenMsg); !ok {
		t.Errorf("navigation = %T, want PopScreenMsg", nav)
	}
}

func TestQuizScreen_CapturesEsc(t *testing.T) {
	s, _, _ := newTestQuiz(t, qz.DefaultConfig())
	var scr screen.Screen = s
	c, ok := scr.(screen.CapturesEsc)
	if !ok || !c.CapturesEsc() {
		t.Error("quiz screen should capture Esc")
	}
	if len(s.KeyHints()) == 0 {
		t.Error("expected key hints")
	}
}
