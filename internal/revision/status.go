package revision

import (
	"sort"
	"time"
)

// Status describes an item's revision status for display.
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusDue       Status = "due"
	StatusOverdue   Status = "overdue"
	StatusComplete  Status = "complete"
)

// Status returns the display status of item at now.
func (e *Engine) Status(item ReviewItem, now time.Time) Status {
	if item.IsFullyComplete() {
		return StatusComplete
	}
	ds := e.ComputeDueState(item, now)
	switch {
	case ds.IsOverdue:
		return StatusOverdue
	case ds.IsDue:
		return StatusDue
	default:
		return StatusScheduled
	}
}

// OverdueBy returns how long the current checkpoint has been due. Returns
// 0 when nothing is due.
func (e *Engine) OverdueBy(item ReviewItem, now time.Time) time.Duration {
	ds := e.ComputeDueState(item, now)
	if !ds.IsDue {
		return 0
	}
	return now.Sub(ds.NextDueAt)
}

// DaysUntilDue returns whole days until the current checkpoint is due,
// 0 if already due, -1 if the item is complete.
func (e *Engine) DaysUntilDue(item ReviewItem, now time.Time) int {
	if item.IsFullyComplete() {
		return -1
	}
	ds := e.ComputeDueState(item, now)
	if ds.IsDue {
		return 0
	}
	days := int(ds.NextDueAt.Sub(now).Hours() / 24)
	if ds.NextDueAt.Sub(now) > time.Duration(days)*24*time.Hour {
		days++
	}
	return days
}

// SortByUrgency orders items most overdue first, then by soonest due date.
// Completed items go last. The slice is sorted in place.
func (e *Engine) SortByUrgency(items []ReviewItem, now time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		ci, cj := items[i].IsFullyComplete(), items[j].IsFullyComplete()
		if ci != cj {
			return cj
		}
		if ci {
			return false
		}
		oi, oj := e.OverdueBy(items[i], now), e.OverdueBy(items[j], now)
		if oi != oj {
			return oi > oj
		}
		return items[i].Phases[items[i].CurrentPhase].DueAt.Before(items[j].Phases[items[j].CurrentPhase].DueAt)
	})
}
