// Package quiz is the screen that runs one quiz session against a review
// item and submits the summary when the last question is answered.
package quiz

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/adhyaya/adhyaya/internal/questiongen"
	qz "github.com/adhyaya/adhyaya/internal/quiz"
	"github.com/adhyaya/adhyaya/internal/router"
	"github.com/adhyaya/adhyaya/internal/screen"
	"github.com/adhyaya/adhyaya/internal/screens/summary"
	"github.com/adhyaya/adhyaya/internal/tracker"
	"github.com/adhyaya/adhyaya/internal/ui/components"
	"github.com/adhyaya/adhyaya/internal/ui/layout"
)

const (
	generateTimeout = 45 * time.Second
	submitTimeout   = 15 * time.Second
)

// QuizScreen runs a quiz.Session.
type QuizScreen struct {
	backend   tracker.Backend
	generator questiongen.Generator
	item      tracker.ItemView
	session   *qz.Session

	question *questiongen.Question
	choice   components.MultiChoice
	prior    []string

	loading         bool
	submitting      bool
	showingFeedback bool
	lastCorrect     bool
	quitConfirm     bool
	errMsg          string
}

var (
	_ screen.Screen          = (*QuizScreen)(nil)
	_ screen.KeyHintProvider = (*QuizScreen)(nil)
	_ screen.CapturesEsc     = (*QuizScreen)(nil)
)

// New runs session for item. session must be in progress.
func New(backend tracker.Backend, generator questiongen.Generator, item tracker.ItemView, session *qz.Session) *QuizScreen {
	return &QuizScreen{
		backend:   backend,
		generator: generator,
		item:      item,
		session:   session,
		loading:   true,
	}
}

func (s *QuizScreen) Init() tea.Cmd {
	return s.generateNext()
}

func (s *QuizScreen) Title() string { return "Quiz" }

// CapturesEsc is always true: leaving a quiz goes through the quit
// confirmation.
func (s *QuizScreen) CapturesEsc() bool { return true }

// Session returns the current session value.
func (s *QuizScreen) Session() *qz.Session { return s.session }

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.errMsg != "":
		return []layout.KeyHint{{Key: "any key", Description: "Back"}}
	case s.quitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "Abandon quiz"},
			{Key: "N", Description: "Keep going"},
		}
	case s.showingFeedback:
		return []layout.KeyHint{{Key: "any key", Description: "Continue"}}
	}
	return []layout.KeyHint{
		{Key: "1-4", Description: "Answer"},
		{Key: "↑↓ Enter", Description: "Select"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionReadyMsg:
		s.loading = false
		if msg.err != nil {
			s.errMsg = "Could not get a question: " + msg.err.Error()
			return s, nil
		}
		s.question = msg.question
		s.prior = append(s.prior, msg.question.Prompt)
		s.choice = components.NewMultiChoice(msg.question.Choices, msg.question.AnswerIndex)
		s.choice.RevealAnswer = !msg.question.SelfGraded
		return s, nil

	case submittedMsg:
		next := summary.New(s.item, msg.summary, msg.outcome, msg.err)
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.errMsg != "" {
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	if s.submitting {
		return s, nil
	}

	if s.quitConfirm {
		switch key {
		case "y", "Y":
			// Abandoned quizzes are not submitted.
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.quitConfirm = false
		}
		return s, nil
	}

	if key == "esc" {
		s.quitConfirm = true
		return s, nil
	}

	if s.showingFeedback {
		s.showingFeedback = false
		if s.session.IsComplete() {
			s.submitting = true
			return s, s.submit()
		}
		s.loading = true
		s.question = nil
		return s, s.generateNext()
	}

	if s.loading || s.question == nil {
		return s, nil
	}

	var cmd tea.Cmd
	s.choice, cmd = s.choice.Update(msg)
	if !s.choice.Chosen() {
		return s, cmd
	}
	return s.record(s.question.IsCorrect(s.choice.ChosenIndex))
}

// record applies the answer to the session and shows feedback.
func (s *QuizScreen) record(correct bool) (screen.Screen, tea.Cmd) {
	next, err := s.session.RecordAnswer(correct)
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	s.session = next
	s.lastCorrect = correct
	s.showingFeedback = true
	return s, nil
}

func (s *QuizScreen) generateNext() tea.Cmd {
	difficulty, ok := s.session.CurrentDifficulty()
	if !ok {
		return nil
	}
	gen := s.generator
	input := questiongen.Input{
		UnitRef:        s.item.UnitRef,
		Difficulty:     difficulty,
		PriorQuestions: append([]string(nil), s.prior...),
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		q, err := gen.Generate(ctx, input)
		return questionReadyMsg{question: q, err: err}
	}
}

func (s *QuizScreen) submit() tea.Cmd {
	backend, id := s.backend, s.item.ID
	sum := qz.Summarize(s.session)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		outcome, err := backend.SubmitQuizResult(ctx, id, sum)
		return submittedMsg{summary: sum, outcome: outcome, err: err}
	}
}
