package revision

import (
	"errors"
	"time"
)

// ErrInvalidTransition is returned when advancing an item whose
// checkpoints are all complete. Callers treat it as a no-op.
var ErrInvalidTransition = errors.New("invalid transition: all checkpoints already complete")

// PhaseState tracks a single checkpoint of an item.
type PhaseState struct {
	DueAt       time.Time  `json:"dueAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Completed reports whether the checkpoint has been done.
func (p PhaseState) Completed() bool {
	return p.CompletedAt != nil
}

// OnTime reports whether the checkpoint was completed no later than its
// due date plus grace.
func (p PhaseState) OnTime(grace time.Duration) bool {
	if p.CompletedAt == nil {
		return false
	}
	return !p.CompletedAt.After(p.DueAt.Add(grace))
}

// ReviewItem is one learner's revision record for one learnable unit.
type ReviewItem struct {
	ID           string       `json:"id"`
	LearnerID    string       `json:"learnerId"`
	UnitRef      string       `json:"unitRef"`
	CreatedAt    time.Time    `json:"createdAt"`
	Schedule     Schedule     `json:"phaseSchedule"`
	Phases       []PhaseState `json:"phaseState"`
	CurrentPhase int          `json:"currentPhaseIndex"`
}

// IsFullyComplete reports whether every checkpoint is done.
func (it ReviewItem) IsFullyComplete() bool {
	return it.CurrentPhase >= len(it.Schedule)
}

// CompletedCount returns how many checkpoints have a completion time.
func (it ReviewItem) CompletedCount() int {
	n := 0
	for _, p := range it.Phases {
		if p.Completed() {
			n++
		}
	}
	return n
}

// Clone returns a deep copy so callers can derive new states without
// touching the original.
func (it ReviewItem) Clone() ReviewItem {
	out := it
	out.Schedule = append(Schedule(nil), it.Schedule...)
	out.Phases = make([]PhaseState, len(it.Phases))
	for i, p := range it.Phases {
		out.Phases[i] = PhaseState{DueAt: p.DueAt}
		if p.CompletedAt != nil {
			t := *p.CompletedAt
			out.Phases[i].CompletedAt = &t
		}
	}
	return out
}
