// Package dashboard reduces a learner's review items into the summary
// shown on the revisions dashboard.
package dashboard

import (
	"time"

	"github.com/adhyaya/adhyaya/internal/mastery"
	"github.com/adhyaya/adhyaya/internal/revision"
)

// Summary is the dashboard view of one learner's review items.
type Summary struct {
	DueNow           int                   `json:"dueNow"`
	Overdue          int                   `json:"overdue"`
	Total            int                   `json:"total"`
	CompletedFully   int                   `json:"completedFully"`
	AdherenceRate    float64               `json:"adherenceRate"`
	MasteryHistogram map[mastery.Level]int `json:"masteryHistogram"`

	// CheckpointsCompleted and CheckpointsOnTime are the denominator and
	// numerator behind AdherenceRate.
	CheckpointsCompleted int `json:"checkpointsCompleted"`
	CheckpointsOnTime    int `json:"checkpointsOnTime"`

	Streak Streak `json:"streak"`
}

// Aggregator computes summaries with the same grace period the phase
// engine uses.
type Aggregator struct {
	engine *revision.Engine
}

// New creates an Aggregator bound to engine.
func New(engine *revision.Engine) *Aggregator {
	return &Aggregator{engine: engine}
}

// Summarize reduces items at now. DueNow counts every due item, overdue
// ones included. AdherenceRate is the share of completed checkpoints that
// were completed within their due date plus the grace period; it is 0 when
// no checkpoint has been completed.
func (a *Aggregator) Summarize(items []revision.ReviewItem, now time.Time) Summary {
	s := Summary{
		Total:            len(items),
		MasteryHistogram: make(map[mastery.Level]int, 4),
	}
	for _, l := range mastery.AllLevels() {
		s.MasteryHistogram[l] = 0
	}

	grace := a.engine.GracePeriod()
	for _, it := range items {
		ds := a.engine.ComputeDueState(it, now)
		if ds.IsDue {
			s.DueNow++
		}
		if ds.IsOverdue {
			s.Overdue++
		}
		if it.IsFullyComplete() {
			s.CompletedFully++
		}
		s.MasteryHistogram[a.engine.MasteryLevel(it)]++

		for _, p := range it.Phases {
			if !p.Completed() {
				continue
			}
			s.CheckpointsCompleted++
			if p.OnTime(grace) {
				s.CheckpointsOnTime++
			}
		}
	}

	if s.CheckpointsCompleted > 0 {
		s.AdherenceRate = float64(s.CheckpointsOnTime) / float64(s.CheckpointsCompleted)
	}
	s.Streak = ComputeStreak(items, now)
	return s
}

// ValidUntil returns the first instant after now at which Summarize over the
// same items could give a different result: a checkpoint falling due, a due
// checkpoint passing its grace period, or the day rolling over for the
// streak.
func (a *Aggregator) ValidUntil(items []revision.ReviewItem, now time.Time) time.Time {
	next := dayOf(now).AddDate(0, 0, 1)
	grace := a.engine.GracePeriod()
	for _, it := range items {
		if it.IsFullyComplete() {
			continue
		}
		due := it.Phases[it.CurrentPhase].DueAt
		// Overdue is strictly past the grace period.
		for _, b := range []time.Time{due, due.Add(grace + time.Nanosecond)} {
			if b.After(now) && b.Before(next) {
				next = b
				break
			}
		}
	}
	return next
}

// AdherencePercent returns AdherenceRate rounded to a whole percent.
func (s Summary) AdherencePercent() int {
	return int(s.AdherenceRate*100 + 0.5)
}
