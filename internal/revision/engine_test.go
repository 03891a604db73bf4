package revision

import (
	"errors"
	"testing"
	"time"

	"github.com/adhyaya/adhyaya/internal/mastery"
)

var day0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func days(n float64) time.Duration {
	return time.Duration(n * 24 * float64(time.Hour))
}

func newTestItem(e *Engine) ReviewItem {
	return e.NewItem("item-1", "learner-1", "two-pointers", day0)
}

func TestNewItem_LaysOutDueDates(t *testing.T) {
	e := NewEngine()
	item := newTestItem(e)

	if len(item.Phases) != 4 {
		t.Fatalf("len(Phases) = %d, want 4", len(item.Phases))
	}
	for i, off := range []int{1, 3, 7, 30} {
		want := day0.Add(days(float64(off)))
		if !item.Phases[i].DueAt.Equal(want) {
			t.Errorf("Phases[%d].DueAt = %v, want %v", i, item.Phases[i].DueAt, want)
		}
		if item.Phases[i].Completed() {
			t.Errorf("Phases[%d] should not be completed", i)
		}
	}
	if item.CurrentPhase != 0 {
		t.Errorf("CurrentPhase = %d, want 0", item.CurrentPhase)
	}
}

func TestComputeDueState_UntouchedItem(t *testing.T) {
	e := NewEngine()
	item := newTestItem(e)

	tests := []struct {
		name        string
		at          float64
		wantDue     bool
		wantOverdue bool
	}{
		{"half day", 0.5, false, false},
		{"exactly day 1", 1.0, true, false},
		{"within grace", 1.9, true, false},
		{"exactly at grace boundary", 2.0, true, false},
		{"past grace", 2.5, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := e.ComputeDueState(item, day0.Add(days(tt.at)))
			if ds.IsDue != tt.wantDue {
				t.Errorf("IsDue = %v, want %v", ds.IsDue, tt.wantDue)
			}
			if ds.IsOverdue != tt.wantOverdue {
				t.Errorf("IsOverdue = %v, want %v", ds.IsOverdue, tt.wantOverdue)
			}
			if !ds.NextDueAt.Equal(day0.Add(days(1))) {
				t.Errorf("NextDueAt = %v, want day 1", ds.NextDueAt)
			}
		})
	}
}

func TestComputeDueState_CustomGrace(t *testing.T) {
	e := NewEngine(WithGracePeriod(6 * time.Hour))
	item := newTestItem(e)
	ds := e.ComputeDueState(item, day0.Add(days(1)+7*time.Hour))
	if !ds.IsOverdue {
		t.Error("expected overdue with 6h grace after 7h")
	}
}

func TestComputeDueState_FullyComplete(t *testing.T) {
	e := NewEngine()
	item := newTestItem(e)
	var err error
	for i := 0; i < 4; i++ {
		item, err = e.Advance(item, day0.Add(days(40)))
		if err != nil {
			t.Fatalf("Advance %d: %v", i, err)
		}
	}
	ds := e.ComputeDueState(item, day0.Add(days(400)))
	if ds.IsDue || ds.IsOverdue || !ds.NextDueAt.IsZero() {
		t.Errorf("complete item state = %+v, want zero", ds)
	}
}

func TestAdvance_AnchorsToCreatedAt(t *testing.T) {
	e := NewEngine()
	item := newTestItem(e)

	// Complete day-1 checkpoint five days late.
	late := day0.Add(days(6))
	next, err := e.Advance(item, late)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if next.CurrentPhase != 1 {
		t.Errorf("CurrentPhase = %d, want 1", next.CurrentPhase)
	}
	if !next.Phases[0].CompletedAt.Equal(late) {
		t.Errorf("CompletedAt = %v, want %v", next.Phases[0].CompletedAt, late)
	}
	want := day0.Add(days(3))
	if !next.Phases[1].DueAt.Equal(want) {
		t.Errorf("next DueAt = %v, want %v", next.Phases[1].DueAt, want)
	}
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	e := NewEngine()
	item := newTestItem(e)

	next, err := e.Advance(item, day0.Add(days(1)))
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if item.CurrentPhase != 0 {
		t.Errorf("input CurrentPhase = %d, want 0", item.CurrentPhase)
	}
	if item.Phases[0].Completed() {
		t.Error("input phase 0 was marked completed")
	}
	*next.Phases[0].CompletedAt = day0.Add(days(99))
	if item.Phases[0].CompletedAt != nil {
		t.Error("output shares completion pointer with input")
	}
}

func TestAdvance_CompletedItemFails(t *testing.T) {
	e := NewEngine()
	item := newTestItem(e)
	now := day0
	var err error
	for i := 0; i < 4; i++ {
		now = now.Add(days(10))
		item, err = e.Advance(item, now)
		if err != nil {
			t.Fatalf("Advance %d: %v", i, err)
		}
	}
	if !item.IsFullyComplete() {
		t.Fatal("expected fully complete item")
	}

	for i := 0; i < 2; i++ {
		got, err := e.Advance(item, now)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("err = %v, want ErrInvalidTransition", err)
		}
		if got.CurrentPhase != 4 {
			t.Errorf("CurrentPhase = %d, want 4", got.CurrentPhase)
		}
	}
}

func TestAdvance_IndexNonDecreasing(t *testing.T) {
	e := NewEngine()
	item := newTestItem(e)
	prev := item.CurrentPhase
	for i := 0; i < 6; i++ {
		next, err := e.Advance(item, day0.Add(days(float64(i))))
		if err == nil {
			item = next
		}
		if item.CurrentPhase < prev {
			t.Fatalf("CurrentPhase decreased from %d to %d", prev, item.CurrentPhase)
		}
		prev = item.CurrentPhase
	}
	if item.CurrentPhase != 4 {
		t.Errorf("CurrentPhase = %d, want 4", item.CurrentPhase)
	}
}

func TestAdvance_MismatchedPhases(t *testing.T) {
	e := NewEngine()
	item := newTestItem(e)
	item.Phases = item.Phases[:2]
	if _, err := e.Advance(item, day0); err == nil {
		t.Error("expected error for mismatched phase states")
	}
}

func TestMasteryLevel_ByPhase(t *testing.T) {
	e := NewEngine()
	item := newTestItem(e)
	want := []mastery.Level{
		mastery.LevelLearning,
		mastery.LevelPracticing,
		mastery.LevelMastering,
		mastery.LevelMastered,
		mastery.LevelMastered,
	}
	for i, w := range want {
		if got := e.MasteryLevel(item); got != w {
			t.Errorf("phase %d: MasteryLevel = %q, want %q", i, got, w)
		}
		if i < 4 {
			item, _ = e.Advance(item, day0.Add(days(float64(i+1))))
		}
	}
}

func TestComplete_ReportsTransition(t *testing.T) {
	e := NewEngine()
	item := newTestItem(e)
	next, tr, err := e.Complete(item, day0.Add(days(1)), "quiz-pass")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if next.CurrentPhase != 1 {
		t.Errorf("CurrentPhase = %d, want 1", next.CurrentPhase)
	}
	if tr.From != mastery.LevelLearning || tr.To != mastery.LevelPracticing {
		t.Errorf("transition = %s -> %s", tr.From, tr.To)
	}
	if tr.Trigger != "quiz-pass" || tr.UnitRef != "two-pointers" {
		t.Errorf("transition = %+v", tr)
	}
}

func TestWithSchedule_InvalidIgnored(t *testing.T) {
	e := NewEngine(WithSchedule(Schedule{3, 1}))
	if got := e.Schedule().String(); got != "1,3,7,30" {
		t.Errorf("Schedule = %s, want default", got)
	}
	e = NewEngine(WithSchedule(Schedule{2, 4}))
	item := e.NewItem("x", "l", "u", day0)
	if len(item.Phases) != 2 {
		t.Errorf("len(Phases) = %d, want 2", len(item.Phases))
	}
}
