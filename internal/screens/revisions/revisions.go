// Package revisions is the home screen: the learner's review items ordered
// by urgency, with the dashboard summary above them.
package revisions

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/adhyaya/adhyaya/internal/dashboard"
	"github.com/adhyaya/adhyaya/internal/questiongen"
	"github.com/adhyaya/adhyaya/internal/revision"
	"github.com/adhyaya/adhyaya/internal/router"
	"github.com/adhyaya/adhyaya/internal/screen"
	"github.com/adhyaya/adhyaya/internal/screens/quizconfig"
	"github.com/adhyaya/adhyaya/internal/tracker"
	"github.com/adhyaya/adhyaya/internal/ui/components"
	"github.com/adhyaya/adhyaya/internal/ui/layout"
)

const loadTimeout = 10 * time.Second

var filters = []tracker.Filter{tracker.FilterActive, tracker.FilterDue, tracker.FilterOverdue, tracker.FilterAll}

type loadedMsg struct {
	items []tracker.ItemView
	stats dashboard.Summary
	err   error
}

type advancedMsg struct {
	result tracker.AdvanceResult
	err    error
}

type createdMsg struct {
	item tracker.ItemView
	err  error
}

// RevisionsScreen lists review items and starts quizzes.
type RevisionsScreen struct {
	backend   tracker.Backend
	generator questiongen.Generator
	learner   string
	now       func() time.Time

	items    []tracker.ItemView
	stats    dashboard.Summary
	filter   int
	selected int
	loading  bool

	adding bool
	input  components.TextInput

	notice string
	errMsg string
}

var (
	_ screen.Screen          = (*RevisionsScreen)(nil)
	_ screen.KeyHintProvider = (*RevisionsScreen)(nil)
	_ screen.CapturesEsc     = (*RevisionsScreen)(nil)
)

// New creates the screen for learner.
func New(backend tracker.Backend, generator questiongen.Generator, learner string) *RevisionsScreen {
	return &RevisionsScreen{
		backend:   backend,
		generator: generator,
		learner:   learner,
		now:       time.Now,
		loading:   true,
	}
}

func (s *RevisionsScreen) Init() tea.Cmd {
	return s.load()
}

func (s *RevisionsScreen) Title() string {
	return "Revisions"
}

func (s *RevisionsScreen) CapturesEsc() bool {
	return s.adding
}

func (s *RevisionsScreen) KeyHints() []layout.KeyHint {
	if s.adding {
		return []layout.KeyHint{
			{Key: "Enter", Description: "Add"},
			{Key: "Esc", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Move"},
		{Key: "Enter", Description: "Quiz"},
		{Key: "c", Description: "Complete"},
		{Key: "a", Description: "Add"},
		{Key: "f", Description: "Filter: " + string(s.currentFilter())},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

// Selected returns the highlighted item, if any.
func (s *RevisionsScreen) Selected() (tracker.ItemView, bool) {
	if s.selected < 0 || s.selected >= len(s.items) {
		return tracker.ItemView{}, false
	}
	return s.items[s.selected], true
}

func (s *RevisionsScreen) currentFilter() tracker.Filter {
	return filters[s.filter]
}

func (s *RevisionsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case screen.ResumedMsg:
		return s, s.load()

	case loadedMsg:
		s.loading = false
		if msg.err != nil {
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.items, s.stats = msg.items, msg.stats
		s.selected = min(s.selected, max(len(s.items)-1, 0))
		return s, func() tea.Msg { return screen.DueCountMsg{Due: msg.stats.DueNow} }

	case advancedMsg:
		return s, s.handleAdvanced(msg)

	case createdMsg:
		if msg.err != nil {
			s.notice = "Could not add: " + msg.err.Error()
			return s, nil
		}
		s.notice = fmt.Sprintf("Added %q, first checkpoint %s", msg.item.UnitRef, msg.item.DueState.NextDueAt.Local().Format("Mon 2 Jan"))
		return s, s.load()

	case tea.KeyMsg:
		if s.adding {
			return s.handleAddKey(msg)
		}
		return s.handleKey(msg)
	}

	if s.adding {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *RevisionsScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.items)-1 {
			s.selected++
		}
	case "f":
		s.filter = (s.filter + 1) % len(filters)
		s.selected = 0
		return s, s.load()
	case "r":
		return s, s.load()
	case "a":
		s.adding = true
		s.notice = ""
		s.input = components.NewTextInput("e.g. Physics ch. 4: Laws of motion", 200)
		return s, s.input.Init()
	case "c":
		item, ok := s.Selected()
		if !ok {
			return s, nil
		}
		return s, s.advance(item.ID)
	case "enter":
		item, ok := s.Selected()
		if !ok {
			return s, nil
		}
		if item.IsFullyComplete() {
			s.notice = "All checkpoints for this unit are complete."
			return s, nil
		}
		next := quizconfig.New(s.backend, s.generator, item)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	}
	return s, nil
}

func (s *RevisionsScreen) handleAddKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	switch msg.String() {
	case "esc":
		s.adding = false
		return s, nil
	case "enter":
		unit := s.input.Value()
		if unit == "" {
			return s, nil
		}
		s.adding = false
		return s, s.create(unit)
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return s, cmd
}

func (s *RevisionsScreen) handleAdvanced(msg advancedMsg) tea.Cmd {
	switch {
	case errors.Is(msg.err, revision.ErrInvalidTransition):
		s.notice = "Already complete."
		return nil
	case msg.err != nil:
		s.notice = "Could not complete checkpoint: " + msg.err.Error()
		return nil
	}

	item := msg.result.Item
	switch {
	case item.IsFullyComplete():
		s.notice = fmt.Sprintf("%s: all checkpoints done.", item.UnitRef)
	case msg.result.LevelChanged():
		s.notice = fmt.Sprintf("%s: %s → %s", item.UnitRef, msg.result.FromLevel.Label(), msg.result.ToLevel.Label())
	default:
		s.notice = fmt.Sprintf("%s: checkpoint done.", item.UnitRef)
	}
	return s.load()
}

func (s *RevisionsScreen) load() tea.Cmd {
	backend, learner, filter := s.backend, s.learner, s.currentFilter()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		items, err := backend.ListRevisions(ctx, learner, filter)
		if err != nil {
			return loadedMsg{err: err}
		}
		stats, err := backend.Stats(ctx, learner)
		if err != nil {
			return loadedMsg{err: err}
		}
		return loadedMsg{items: items, stats: stats}
	}
}

func (s *RevisionsScreen) advance(id string) tea.Cmd {
	backend := s.backend
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		res, err := backend.AdvanceRevision(ctx, id)
		return advancedMsg{result: res, err: err}
	}
}

func (s *RevisionsScreen) create(unit string) tea.Cmd {
	backend, learner := s.backend, s.learner
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		item, err := backend.CreateRevision(ctx, learner, unit)
		return createdMsg{item: item, err: err}
	}
}
