package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/adhyaya/adhyaya/internal/ui/theme"
)

// MultiChoice is a single-answer option picker. Digits 1-9 choose directly;
// arrows move and Enter chooses.
type MultiChoice struct {
	Options      []string
	CorrectIndex int
	Selected     int
	ChosenIndex  int // -1 until chosen
	// RevealAnswer colors the correct option once chosen. Off for
	// self-graded questions.
	RevealAnswer bool
}

func NewMultiChoice(options []string, correctIndex int) MultiChoice {
	return MultiChoice{
		Options:      options,
		CorrectIndex: correctIndex,
		ChosenIndex:  -1,
		RevealAnswer: true,
	}
}

// Chosen reports whether an option has been picked.
func (m MultiChoice) Chosen() bool { return m.ChosenIndex >= 0 }

// IsCorrect reports whether the picked option is the correct one.
func (m MultiChoice) IsCorrect() bool {
	return m.Chosen() && m.ChosenIndex == m.CorrectIndex
}

func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok || m.Chosen() {
		return m, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		m.ChosenIndex = m.Selected
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				m.Selected = i
				m.ChosenIndex = i
			}
		}
	}
	return m, nil
}

func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Chosen() {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Chosen() && m.RevealAnswer && i == m.CorrectIndex:
			style = theme.Correct
		case m.Chosen() && i == m.ChosenIndex && m.RevealAnswer:
			style = theme.Incorrect
		case m.Chosen() && i == m.ChosenIndex:
			style = theme.Selected
		case m.Chosen():
			style = style.Foreground(theme.TextDim)
		case i == m.Selected:
			style = theme.Selected
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
