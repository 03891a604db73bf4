// Package app wires the screens into a Bubble Tea program.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/adhyaya/adhyaya/internal/logger"
	"github.com/adhyaya/adhyaya/internal/questiongen"
	"github.com/adhyaya/adhyaya/internal/router"
	"github.com/adhyaya/adhyaya/internal/screen"
	"github.com/adhyaya/adhyaya/internal/screens/quizconfig"
	"github.com/adhyaya/adhyaya/internal/screens/revisions"
	"github.com/adhyaya/adhyaya/internal/tracker"
	"github.com/adhyaya/adhyaya/internal/ui/layout"
)

// Options are the dependencies of the TUI.
type Options struct {
	Backend   tracker.Backend
	Generator questiongen.Generator
	Learner   string
	Log       *logger.Logger

	// QuizItem opens quiz setup for this item on top of the revisions
	// list, for `adhyaya quiz <id>`.
	QuizItem *tracker.ItemView
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router  *router.Router
	learner string
	due     int
	width   int
	height  int
	startup tea.Cmd
}

func newAppModel(opts Options) AppModel {
	m := AppModel{
		router:  router.New(revisions.New(opts.Backend, opts.Generator, opts.Learner)),
		learner: opts.Learner,
	}
	if opts.QuizItem != nil {
		m.startup = m.router.Push(quizconfig.New(opts.Backend, opts.Generator, *opts.QuizItem))
	}
	return m
}

func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.router.Active().Init(), m.startup)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case screen.DueCountMsg:
		m.due = msg.Due
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if c, ok := m.router.Active().(screen.CapturesEsc); ok && c.CapturesEsc() {
				break
			}
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	return m, m.router.Update(msg)
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	if m.width == 0 || m.height == 0 {
		return v
	}
	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.learner, m.due, m.width)

	hints := []layout.KeyHint{{Key: "Ctrl+C", Description: "Quit"}}
	if p, ok := active.(screen.KeyHintProvider); ok {
		hints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		hints = append([]layout.KeyHint{{Key: "Esc", Description: "Back"}}, hints...)
	}
	footer := layout.RenderFooter(hints, m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)
	v.SetContent(layout.RenderFrame(header, content, footer, m.width, m.height))
	return v
}

// Run starts the program and blocks until the learner quits or ctx is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Log == nil {
		opts.Log = logger.NewNop()
	}
	p := tea.NewProgram(newAppModel(opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		opts.Log.Error("tui exited with error", "error", err)
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
