package dashboard

import (
	"testing"

	"github.com/adhyaya/adhyaya/internal/revision"
)

func TestComputeStreak(t *testing.T) {
	e := revision.NewEngine()

	a := advance(t, e, e.NewItem("a", "l", "arrays", day0), at(1), at(3))
	b := advance(t, e, e.NewItem("b", "l", "graphs", at(1)), at(2))
	c := advance(t, e, e.NewItem("c", "l", "heaps", at(5)), at(6))

	// Active days: Jan 2, 3, 4 and 7.
	items := []revision.ReviewItem{a, b, c}

	st := ComputeStreak(items, at(6))
	if st.Longest != 3 {
		t.Errorf("Longest = %d, want 3", st.Longest)
	}
	if st.Current != 1 {
		t.Errorf("Current = %d, want 1", st.Current)
	}

	st = ComputeStreak(items, at(7))
	if st.Current != 1 {
		t.Errorf("Current next day = %d, want 1", st.Current)
	}

	st = ComputeStreak(items, at(9))
	if st.Current != 0 {
		t.Errorf("Current after gap = %d, want 0", st.Current)
	}

	sum := New(e).Summarize(items, at(6))
	if sum.Streak != (Streak{Current: 1, Longest: 3}) {
		t.Errorf("Summary.Streak = %+v", sum.Streak)
	}
}

func TestComputeStreak_NoActivity(t *testing.T) {
	e := revision.NewEngine()
	st := ComputeStreak([]revision.ReviewItem{e.NewItem("a", "l", "arrays", day0)}, at(3))
	if st.Current != 0 || st.Longest != 0 {
		t.Errorf("streak = %+v, want zero", st)
	}
}

func TestNextStreakMilestone(t *testing.T) {
	tests := []struct {
		current int
		want    int
	}{
		{0, 3},
		{2, 3},
		{3, 7},
		{6, 7},
		{7, 30},
		{29, 30},
		{30, 60},
		{61, 90},
	}
	for _, tt := range tests {
		if got := NextStreakMilestone(tt.current); got != tt.want {
			t.Errorf("NextStreakMilestone(%d) = %d, want %d", tt.current, got, tt.want)
		}
	}
}
