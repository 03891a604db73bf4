package dashboard

import (
	"sort"
	"time"

	"github.com/adhyaya/adhyaya/internal/revision"
)

// Streak is a run of consecutive calendar days with at least one completed
// checkpoint.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
}

// ComputeStreak derives the streak from checkpoint completion times in
// items. Days are taken in now's location. The current streak survives
// until the end of the day after the last activity.
func ComputeStreak(items []revision.ReviewItem, now time.Time) Streak {
	loc := now.Location()
	seen := make(map[time.Time]bool)
	for _, it := range items {
		for _, p := range it.Phases {
			if p.CompletedAt != nil {
				seen[dayOf(p.CompletedAt.In(loc))] = true
			}
		}
	}
	if len(seen) == 0 {
		return Streak{}
	}

	days := make([]time.Time, 0, len(seen))
	for d := range seen {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var st Streak
	run := 1
	st.Longest = 1
	for i := 1; i < len(days); i++ {
		if days[i].Equal(days[i-1].AddDate(0, 0, 1)) {
			run++
		} else {
			run = 1
		}
		if run > st.Longest {
			st.Longest = run
		}
	}

	today := dayOf(now)
	last := days[len(days)-1]
	if last.Equal(today) || last.Equal(today.AddDate(0, 0, -1)) {
		st.Current = run
	}
	return st
}

// NextStreakMilestone returns the next milestone above current:
// 3, 7 and 30 days, then every 30 days.
func NextStreakMilestone(current int) int {
	for _, m := range []int{3, 7, 30} {
		if m > current {
			return m
		}
	}
	return ((current / 30) + 1) * 30
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
