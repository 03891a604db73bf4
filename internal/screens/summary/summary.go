// Package summary shows the result of a finished quiz and what it did to
// the review item.
package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/adhyaya/adhyaya/internal/quiz"
	"github.com/adhyaya/adhyaya/internal/router"
	"github.com/adhyaya/adhyaya/internal/screen"
	"github.com/adhyaya/adhyaya/internal/tracker"
	"github.com/adhyaya/adhyaya/internal/ui/components"
	"github.com/adhyaya/adhyaya/internal/ui/layout"
	"github.com/adhyaya/adhyaya/internal/ui/theme"
)

// SummaryScreen displays a quiz.Summary and the submission outcome.
type SummaryScreen struct {
	item    tracker.ItemView
	summary quiz.Summary
	outcome tracker.QuizOutcome
	err     error // submission failure; the summary is still shown
}

var (
	_ screen.Screen          = (*SummaryScreen)(nil)
	_ screen.KeyHintProvider = (*SummaryScreen)(nil)
)

func New(item tracker.ItemView, summary quiz.Summary, outcome tracker.QuizOutcome, err error) *SummaryScreen {
	return &SummaryScreen{item: item, summary: summary, outcome: outcome, err: err}
}

func (s *SummaryScreen) Init() tea.Cmd { return nil }

func (s *SummaryScreen) Title() string { return "Quiz summary" }

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter", Description: "Back to revisions"}}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "enter", "esc", "q":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	var b strings.Builder

	b.WriteString(theme.Title.Render("Quiz complete: " + s.item.UnitRef))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
		Render(fmt.Sprintf("%d / %d correct", sum.CorrectCount, sum.QuestionCount)))
	b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("   reached %s", sum.FinalDifficultyReached.Label())))
	b.WriteString("\n\n")

	barWidth := min(width-12, 48)
	for _, d := range quiz.AllDifficulties() {
		ta, ok := sum.AccuracyByTier[d]
		if !ok {
			continue
		}
		label := fmt.Sprintf("%-6s %2d/%-2d", d.Label(), ta.Correct, ta.Attempted)
		b.WriteString(components.NewProgressBar(label, ta.Accuracy, true, barWidth).View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(s.renderOutcome())
	b.WriteString("\n\n")
	b.WriteString(theme.Hint.Render("Press Enter to return"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Card.Render(b.String()))
}

func (s *SummaryScreen) renderOutcome() string {
	if s.err != nil {
		return theme.Incorrect.Render("Result not saved: " + s.err.Error())
	}
	o := s.outcome
	switch {
	case !o.Passed:
		return lipgloss.NewStyle().Foreground(theme.Accent).
			Render("Not passed: the checkpoint stays due. Look over your notes and try again.")
	case !o.Advanced:
		return theme.Correct.Render("Passed. Every checkpoint was already complete.")
	case o.Item.IsFullyComplete():
		return theme.Correct.Render("Passed. All checkpoints done: " + o.ToLevel.Label() + "!")
	}

	line := theme.Correct.Render(fmt.Sprintf("Passed. Checkpoint %d done.", o.Item.CompletedCount()))
	if o.FromLevel != o.ToLevel {
		line += " " + lipgloss.NewStyle().Foreground(theme.LevelColor(o.ToLevel)).
			Render(o.FromLevel.Label()+" → "+o.ToLevel.Label())
	}
	next := o.Item.DueState.NextDueAt.Local().Format("Mon 2 Jan")
	return line + "\n" + theme.Hint.Render("Next checkpoint due "+next)
}
