package revision

import (
	"fmt"
	"time"

	"github.com/adhyaya/adhyaya/internal/mastery"
)

// DueState is the scheduling decision for an item at a given instant.
type DueState struct {
	IsDue     bool      `json:"isDue"`
	IsOverdue bool      `json:"isOverdue"`
	NextDueAt time.Time `json:"nextDueAt"`
}

// Engine maps review items and a reference instant to scheduling
// decisions. It holds no state besides its configuration, so a single
// Engine can be shared freely.
type Engine struct {
	schedule    Schedule
	gracePeriod time.Duration
}

// Option configures an Engine.
type Option func(*Engine)

// WithGracePeriod overrides the default 24h grace period.
func WithGracePeriod(d time.Duration) Option {
	return func(e *Engine) {
		if d >= 0 {
			e.gracePeriod = d
		}
	}
}

// WithSchedule sets the schedule given to newly created items.
func WithSchedule(s Schedule) Option {
	return func(e *Engine) {
		if s.Validate() == nil {
			e.schedule = append(Schedule(nil), s...)
		}
	}
}

// NewEngine creates an Engine using the default schedule and grace period
// unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		schedule:    DefaultSchedule,
		gracePeriod: DefaultGracePeriod,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GracePeriod returns the configured grace period.
func (e *Engine) GracePeriod() time.Duration { return e.gracePeriod }

// Schedule returns a copy of the schedule used for new items.
func (e *Engine) Schedule() Schedule { return append(Schedule(nil), e.schedule...) }

// NewItem creates an item anchored at createdAt with every checkpoint's
// due date laid out from that anchor.
func (e *Engine) NewItem(id, learnerID, unitRef string, createdAt time.Time) ReviewItem {
	sched := e.Schedule()
	phases := make([]PhaseState, len(sched))
	for i := range sched {
		phases[i] = PhaseState{DueAt: createdAt.Add(sched.Offset(i))}
	}
	return ReviewItem{
		ID:        id,
		LearnerID: learnerID,
		UnitRef:   unitRef,
		CreatedAt: createdAt,
		Schedule:  sched,
		Phases:    phases,
	}
}

// ComputeDueState reports whether the current checkpoint is due or overdue.
// Fully completed items are never due and have a zero NextDueAt.
func (e *Engine) ComputeDueState(item ReviewItem, now time.Time) DueState {
	if item.IsFullyComplete() || item.CurrentPhase < 0 || item.CurrentPhase >= len(item.Phases) {
		return DueState{}
	}
	p := item.Phases[item.CurrentPhase]
	ds := DueState{NextDueAt: p.DueAt}
	if p.Completed() || now.Before(p.DueAt) {
		return ds
	}
	ds.IsDue = true
	ds.IsOverdue = now.Sub(p.DueAt) > e.gracePeriod
	return ds
}

// Advance completes the current checkpoint at now and returns the new item
// state. The next due date is always createdAt plus the next offset, no
// matter how late this checkpoint was done. The input item is not modified.
func (e *Engine) Advance(item ReviewItem, now time.Time) (ReviewItem, error) {
	if item.IsFullyComplete() {
		return item, fmt.Errorf("advance %s: %w", item.ID, ErrInvalidTransition)
	}
	if len(item.Phases) != len(item.Schedule) {
		return item, fmt.Errorf("advance %s: %d phase states for %d checkpoints", item.ID, len(item.Phases), len(item.Schedule))
	}

	next := item.Clone()
	i := next.CurrentPhase
	completed := now
	next.Phases[i].CompletedAt = &completed
	next.CurrentPhase = i + 1
	if next.CurrentPhase < len(next.Schedule) {
		next.Phases[next.CurrentPhase].DueAt = next.CreatedAt.Add(next.Schedule.Offset(next.CurrentPhase))
	}
	return next, nil
}

// Complete advances the item and reports the resulting mastery change.
func (e *Engine) Complete(item ReviewItem, now time.Time, trigger string) (ReviewItem, mastery.Transition, error) {
	next, err := e.Advance(item, now)
	if err != nil {
		return item, mastery.Transition{}, err
	}
	return next, mastery.Transition{
		ItemID:  item.ID,
		UnitRef: item.UnitRef,
		From:    e.MasteryLevel(item),
		To:      e.MasteryLevel(next),
		Trigger: trigger,
	}, nil
}

// MasteryLevel derives the item's level from its checkpoint progress.
func (e *Engine) MasteryLevel(item ReviewItem) mastery.Level {
	return mastery.LevelFor(item.CurrentPhase, len(item.Schedule))
}
