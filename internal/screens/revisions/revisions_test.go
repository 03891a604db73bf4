package revisions

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/adhyaya/adhyaya/internal/dashboard"
	"github.com/adhyaya/adhyaya/internal/mastery"
	"github.com/adhyaya/adhyaya/internal/quiz"
	"github.com/adhyaya/adhyaya/internal/revision"
	"github.com/adhyaya/adhyaya/internal/router"
	"github.com/adhyaya/adhyaya/internal/screen"
	"github.com/adhyaya/adhyaya/internal/screens/quizconfig"
	"github.com/adhyaya/adhyaya/internal/tracker"
)

var day0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

// fakeBackend keeps items in memory and derives views with a real engine.
type fakeBackend struct {
	engine  *revision.Engine
	now     time.Time
	items   []revision.ReviewItem
	filters []tracker.Filter
}

func newFakeBackend(units ...string) *fakeBackend {
	b := &fakeBackend{engine: revision.NewEngine(), now: day0.Add(36 * time.Hour)}
	for i, u := range units {
		b.items = append(b.items, b.engine.NewItem(string(rune('a'+i)), "asha", u, day0))
	}
	return b
}

func (b *fakeBackend) ListRevisions(_ context.Context, _ string, f tracker.Filter) ([]tracker.ItemView, error) {
	b.filters = append(b.filters, f)
	var out []tracker.ItemView
	for _, it := range b.items {
		if v := tracker.NewView(b.engine, it, b.now); f.Match(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (b *fakeBackend) GetRevision(_ context.Context, id string) (tracker.ItemView, error) {
	for _, it := range b.items {
		if it.ID == id {
			return tracker.NewView(b.engine, it, b.now), nil
		}
	}
	return tracker.ItemView{}, nil
}

func (b *fakeBackend) Stats(_ context.Context, _ string) (dashboard.Summary, error) {
	return dashboard.New(b.engine).Summarize(b.items, b.now), nil
}

func (b *fakeBackend) CreateRevision(_ context.Context, learner, unit string) (tracker.ItemView, error) {
	it := b.engine.NewItem("new", learner, unit, b.now)
	b.items = append(b.items, it)
	return tracker.NewView(b.engine, it, b.now), nil
}

func (b *fakeBackend) AdvanceRevision(_ context.Context, id string) (tracker.AdvanceResult, error) {
	for i, it := range b.items {
		if it.ID != id {
			continue
		}
		next, tr, err := b.engine.Complete(it, b.now, "checkpoint")
		if err != nil {
			return tracker.AdvanceResult{Item: tracker.NewView(b.engine, it, b.now)}, err
		}
		b.items[i] = next
		return tracker.AdvanceResult{Item: tracker.NewView(b.engine, next, b.now), FromLevel: tr.From, ToLevel: tr.To}, nil
	}
	return tracker.AdvanceResult{}, nil
}

func (b *fakeBackend) SubmitQuizResult(context.Context, string, quiz.Summary) (tracker.QuizOutcome, error) {
	return tracker.QuizOutcome{}, nil
}

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func specialKey(code rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: code}
}

// loaded returns a screen after its initial load completed.
func loaded(t *testing.T, b *fakeBackend) *RevisionsScreen {
	t.Helper()
	s := New(b, nil, "asha")
	s.now = func() time.Time { return b.now }
	_, cmd := s.Update(s.Init()())
	if cmd == nil {
		t.Fatal("expected due count command after load")
	}
	if msg, ok := cmd().(screen.DueCountMsg); !ok || msg.Due != len(b.items) {
		t.Errorf("due count msg = %+v", msg)
	}
	return s
}

func TestRevisionsScreen_Load(t *testing.T) {
	s := loaded(t, newFakeBackend("Physics ch. 4", "Algebra 2"))
	if len(s.items) != 2 {
		t.Fatalf("items = %d, want 2", len(s.items))
	}
	view := s.View(100, 30)
	for _, want := range []string{"Physics ch. 4", "Algebra 2", "2 due"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestRevisionsScreen_Navigate(t *testing.T) {
	s := loaded(t, newFakeBackend("a", "b", "c"))
	s.Update(keyPress('j'))
	s.Update(specialKey(tea.KeyDown))
	s.Update(keyPress('j'))
	if s.selected != 2 {
		t.Errorf("selected = %d, want 2 (clamped)", s.selected)
	}
	s.Update(keyPress('k'))
	if s.selected != 1 {
		t.Errorf("selected = %d, want 1", s.selected)
	}
}

func TestRevisionsScreen_Complete(t *testing.T) {
	b := newFakeBackend("Physics ch. 4")
	s := loaded(t, b)

	_, cmd := s.Update(keyPress('c'))
	if cmd == nil {
		t.Fatal("expected advance command")
	}
	_, reload := s.Update(cmd())
	if b.items[0].CurrentPhase != 1 {
		t.Errorf("CurrentPhase = %d, want 1", b.items[0].CurrentPhase)
	}
	if !strings.Contains(s.notice, mastery.LevelPracticing.Label()) {
		t.Errorf("notice = %q", s.notice)
	}
	if reload == nil {
		t.Error("expected reload after advance")
	}
}

func TestRevisionsScreen_Add(t *testing.T) {
	b := newFakeBackend()
	s := loaded(t, b)

	s.Update(keyPress('a'))
	if !s.adding || !s.CapturesEsc() {
		t.Fatal("expected add mode capturing Esc")
	}
	s.input.Model.SetValue("Chemistry: moles")
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected create command")
	}
	s.Update(cmd())
	if len(b.items) != 1 || b.items[0].UnitRef != "Chemistry: moles" {
		t.Errorf("items = %+v", b.items)
	}
	if s.adding {
		t.Error("add mode should end after submit")
	}
}

func TestRevisionsScreen_AddCancel(t *testing.T) {
	s := loaded(t, newFakeBackend())
	s.Update(keyPress('a'))
	s.Update(specialKey(tea.KeyEscape))
	if s.adding {
		t.Error("Esc should cancel add mode")
	}
}

func TestRevisionsScreen_FilterCycle(t *testing.T) {
	b := newFakeBackend("a")
	s := loaded(t, b)
	_, cmd := s.Update(keyPress('f'))
	cmd()
	if got := b.filters[len(b.filters)-1]; got != tracker.FilterDue {
		t.Errorf("filter = %s, want due", got)
	}
}

func TestRevisionsScreen_EnterOpensQuizSetup(t *testing.T) {
	s := loaded(t, newFakeBackend("Physics ch. 4"))
	_, cmd := s.Update(specialKey(tea.KeyEnter))
	if cmd == nil {
		t.Fatal("expected push command")
	}
	push, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatal("expected PushScreenMsg")
	}
	if _, ok := push.Screen.(*quizconfig.ConfigScreen); !ok {
		t.Errorf("pushed %T, want *quizconfig.ConfigScreen", push.Screen)
	}
}

func TestRevisionsScreen_ResumeReloads(t *testing.T) {
	b := newFakeBackend("a")
	s := loaded(t, b)
	_, cmd := s.Update(screen.ResumedMsg{})
	if cmd == nil {
		t.Fatal("expected reload on resume")
	}
	if _, ok := cmd().(loadedMsg); !ok {
		t.Error("expected loadedMsg")
	}
}

func TestDueLabel(t *testing.T) {
	engine := revision.NewEngine()
	s := New(newFakeBackend(), nil, "asha")
	item := engine.NewItem("a", "asha", "Optics", day0)

	at := day0.Add(2 * time.Hour)
	s.now = func() time.Time { return at }
	if got := s.dueLabel(tracker.NewView(engine, item, at)); got != "due tomorrow" {
		t.Errorf("dueLabel = %q, want %q", got, "due tomorrow")
	}

	next, err := engine.Advance(item, day0.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	at = day0.Add(25 * time.Hour)
	if got := s.dueLabel(tracker.NewView(engine, next, at)); !strings.HasPrefix(got, "due in 2d, ") {
		t.Errorf("dueLabel = %q, want prefix %q", got, "due in 2d, ")
	}

	at = day0.Add(24 * time.Hour)
	if got := s.dueLabel(tracker.NewView(engine, item, at)); got != "due now" {
		t.Errorf("dueLabel = %q, want %q", got, "due now")
	}
}
