// Package quizconfig is the quiz setup modal: question count, starting
// difficulty and adaptive mode for one review item.
package quizconfig

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/adhyaya/adhyaya/internal/questiongen"
	"github.com/adhyaya/adhyaya/internal/quiz"
	"github.com/adhyaya/adhyaya/internal/router"
	"github.com/adhyaya/adhyaya/internal/screen"
	quizscreen "github.com/adhyaya/adhyaya/internal/screens/quiz"
	"github.com/adhyaya/adhyaya/internal/tracker"
	"github.com/adhyaya/adhyaya/internal/ui/components"
	"github.com/adhyaya/adhyaya/internal/ui/layout"
	"github.com/adhyaya/adhyaya/internal/ui/theme"
)

const (
	rowCount = iota
	rowDifficulty
	rowAdaptive
	rowStart
	rows
)

// ConfigScreen edits a quiz.Configurator.
type ConfigScreen struct {
	backend   tracker.Backend
	generator questiongen.Generator
	item      tracker.ItemView

	draft  *quiz.Configurator
	row    int
	errMsg string
}

var (
	_ screen.Screen          = (*ConfigScreen)(nil)
	_ screen.KeyHintProvider = (*ConfigScreen)(nil)
)

// New starts a draft with the default configuration for item.
func New(backend tracker.Backend, generator questiongen.Generator, item tracker.ItemView) *ConfigScreen {
	return &ConfigScreen{
		backend:   backend,
		generator: generator,
		item:      item,
		draft:     quiz.NewConfigurator(),
		row:       rowStart,
	}
}

func (s *ConfigScreen) Init() tea.Cmd { return nil }

func (s *ConfigScreen) Title() string { return "Quiz setup" }

func (s *ConfigScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "←→", Description: "Change"},
		{Key: "Enter", Description: "Start"},
		{Key: "Esc", Description: "Back"},
	}
}

// Config returns the current draft.
func (s *ConfigScreen) Config() quiz.Config { return s.draft.Config() }

func (s *ConfigScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}

	switch kmsg.String() {
	case "up", "k":
		s.row = (s.row - 1 + rows) % rows
	case "down", "j", "tab":
		s.row = (s.row + 1) % rows
	case "left", "h":
		s.change(-1)
	case "right", "l", "space", " ":
		s.change(1)
	case "enter":
		return s.start()
	}
	return s, nil
}

func (s *ConfigScreen) change(step int) {
	s.errMsg = ""
	switch s.row {
	case rowCount:
		s.draft.CycleQuestionCount(step)
	case rowDifficulty:
		s.draft.CycleDifficulty(step)
	case rowAdaptive:
		s.draft.ToggleAdaptive()
	}
}

func (s *ConfigScreen) start() (screen.Screen, tea.Cmd) {
	session, err := s.draft.Start()
	if err != nil {
		s.errMsg = err.Error()
		return s, nil
	}
	next := quizscreen.New(s.backend, s.generator, s.item, session)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *ConfigScreen) View(width, height int) string {
	cfg := s.draft.Config()
	adaptive := "off"
	if cfg.Adaptive {
		adaptive = "on"
	}

	var b strings.Builder
	b.WriteString(theme.Title.Render("Revise: " + s.item.UnitRef))
	b.WriteString("\n")
	b.WriteString(theme.Hint.Render(fmt.Sprintf("Checkpoint %d of %d", s.item.CurrentPhase+1, len(s.item.Schedule))))
	b.WriteString("\n\n")

	fields := []struct {
		label, value string
	}{
		{"Questions", fmt.Sprintf("‹ %d ›", cfg.QuestionCount)},
		{"Start at", fmt.Sprintf("‹ %s ›", cfg.StartDifficulty.Label())},
		{"Adaptive", fmt.Sprintf("‹ %s ›", adaptive)},
	}
	for i, f := range fields {
		label := lipgloss.NewStyle().Width(12).Foreground(theme.TextDim).Render(f.label)
		value := lipgloss.NewStyle().Foreground(theme.Text).Render(f.value)
		if i == s.row {
			value = theme.Selected.Render(f.value)
		}
		b.WriteString(label + value + "\n")
	}
	b.WriteString("\n")
	b.WriteString(components.Button{Label: "Start quiz", Focused: s.row == rowStart}.View())

	if cfg.Adaptive {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Render("Two right in a row moves up a level; a miss moves down."))
	}
	if s.errMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Incorrect.Render(s.errMsg))
	}

	card := theme.Card.Render(b.String())
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, card)
}
