package revision

import (
	"testing"
	"time"
)

func TestStatus(t *testing.T) {
	e := NewEngine()
	item := newTestItem(e)

	tests := []struct {
		at   float64
		want Status
	}{
		{0.2, StatusScheduled},
		{1.5, StatusDue},
		{3.0, StatusOverdue},
	}
	for _, tt := range tests {
		if got := e.Status(item, day0.Add(days(tt.at))); got != tt.want {
			t.Errorf("Status(day %.1f) = %q, want %q", tt.at, got, tt.want)
		}
	}

	for i := 0; i < 4; i++ {
		item, _ = e.Advance(item, day0.Add(days(31)))
	}
	if got := e.Status(item, day0.Add(days(31))); got != StatusComplete {
		t.Errorf("Status = %q, want complete", got)
	}
}

func TestOverdueBy(t *testing.T) {
	e := NewEngine()
	item := newTestItem(e)
	if got := e.OverdueBy(item, day0); got != 0 {
		t.Errorf("OverdueBy before due = %v, want 0", got)
	}
	got := e.OverdueBy(item, day0.Add(days(4)))
	if got != days(3) {
		t.Errorf("OverdueBy = %v, want %v", got, days(3))
	}
}

func TestDaysUntilDue(t *testing.T) {
	e := NewEngine()
	item := newTestItem(e)
	if got := e.DaysUntilDue(item, day0.Add(12*time.Hour)); got != 1 {
		t.Errorf("DaysUntilDue = %d, want 1", got)
	}
	if got := e.DaysUntilDue(item, day0.Add(days(2))); got != 0 {
		t.Errorf("DaysUntilDue when due = %d, want 0", got)
	}
}

func TestSortByUrgency(t *testing.T) {
	e := NewEngine()
	now := day0.Add(days(10))

	veryLate := e.NewItem("a", "l", "arrays", day0)
	slightlyLate := e.NewItem("b", "l", "graphs", day0.Add(days(8)))
	notDue := e.NewItem("c", "l", "heaps", day0.Add(days(9)+12*time.Hour))
	done := e.NewItem("d", "l", "tries", day0)
	for i := 0; i < 4; i++ {
		done, _ = e.Advance(done, day0.Add(days(float64(i+1))))
	}

	items := []ReviewItem{done, notDue, slightlyLate, veryLate}
	e.SortByUrgency(items, now)

	want := []string{"a", "b", "c", "d"}
	for i, w := range want {
		if items[i].ID != w {
			t.Errorf("items[%d] = %s, want %s", i, items[i].ID, w)
		}
	}
}
