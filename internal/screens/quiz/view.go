package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/adhyaya/adhyaya/internal/ui/layout"
	"github.com/adhyaya/adhyaya/internal/ui/theme"
)

func (s *QuizScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Incorrect.Render(s.errMsg)+"\n\n"+theme.Hint.Render("Press any key to go back."))
	case s.quitConfirm:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			theme.Card.Render("Abandon this quiz?\n\n"+theme.Hint.Render("Nothing will be recorded. [y/n]")))
	case s.submitting:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, theme.Hint.Render("Saving result..."))
	}

	var b strings.Builder
	b.WriteString(s.renderInfo(width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	if s.loading || s.question == nil {
		b.WriteString(layout.Center(width, theme.Hint.Render("Preparing question...")))
		return b.String()
	}

	prompt := lipgloss.NewStyle().
		Width(min(width-8, 72)).
		Foreground(theme.Text).
		Bold(true).
		Render(s.question.Prompt)
	b.WriteString(layout.Center(width, prompt))
	b.WriteString("\n\n")
	b.WriteString(layout.Center(width, s.choice.View()))

	if s.showingFeedback {
		b.WriteString("\n")
		b.WriteString(layout.Center(width, s.renderFeedback(width)))
	}
	return b.String()
}

func (s *QuizScreen) renderInfo(width int) string {
	answered := s.session.Cursor
	total := s.session.Config.QuestionCount
	correct := 0
	for _, a := range s.session.Answers {
		if a.Correct {
			correct++
		}
	}

	level := ""
	if d, ok := s.session.CurrentDifficulty(); ok {
		level = d.Label()
	} else if n := len(s.session.Answers); n > 0 {
		level = s.session.Answers[n-1].Difficulty.Label()
	}

	left := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render("  " + s.item.UnitRef)
	right := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("Q %d/%d   ✓ %d   %s", min(answered+1, total), total, correct, level))

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad < 1 {
		return left
	}
	return left + strings.Repeat(" ", pad) + right
}

func (s *QuizScreen) renderFeedback(width int) string {
	q := s.question
	var b strings.Builder
	switch {
	case q.SelfGraded && s.lastCorrect:
		b.WriteString(theme.Correct.Render("Good recall."))
	case q.SelfGraded:
		b.WriteString(theme.Incorrect.Render("Worth another look at your notes."))
	case s.lastCorrect:
		b.WriteString(theme.Correct.Render("Correct!"))
	default:
		b.WriteString(theme.Incorrect.Render("Not quite. The answer is: " + q.Choices[q.AnswerIndex]))
	}
	if q.Explanation != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Width(min(width-8, 72)).Foreground(theme.TextDim).Render(q.Explanation))
	}
	return b.String()
}
