package tracker

import (
	"context"
	"fmt"
	"time"

	"github.com/adhyaya/adhyaya/internal/dashboard"
	"github.com/adhyaya/adhyaya/internal/mastery"
	"github.com/adhyaya/adhyaya/internal/quiz"
	"github.com/adhyaya/adhyaya/internal/revision"
)

// Filter selects which items a listing returns.
type Filter string

const (
	FilterActive  Filter = "active"  // every item with a checkpoint left
	FilterDue     Filter = "due"     // due now, overdue included
	FilterOverdue Filter = "overdue" // past the grace period
	FilterAll     Filter = "all"     // completed items too
)

// ParseFilter converts a query value into a Filter. Empty means active.
func ParseFilter(s string) (Filter, error) {
	switch Filter(s) {
	case "":
		return FilterActive, nil
	case FilterActive, FilterDue, FilterOverdue, FilterAll:
		return Filter(s), nil
	}
	return "", fmt.Errorf("%w: unknown filter %q (valid: active, due, overdue, all)", ErrInvalidInput, s)
}

// Match reports whether v belongs in a listing with this filter.
func (f Filter) Match(v ItemView) bool {
	switch f {
	case FilterAll:
		return true
	case FilterDue:
		return v.DueState.IsDue
	case FilterOverdue:
		return v.DueState.IsOverdue
	default:
		return !v.IsFullyComplete()
	}
}

// ItemView is a review item with its derived, never stored, fields.
type ItemView struct {
	revision.ReviewItem
	Status       revision.Status   `json:"status"`
	MasteryLevel mastery.Level     `json:"masteryLevel"`
	DueState     revision.DueState `json:"dueState"`
	DaysUntilDue int               `json:"daysUntilDue"`
}

// NewView derives the display fields for item at now.
func NewView(engine *revision.Engine, item revision.ReviewItem, now time.Time) ItemView {
	return ItemView{
		ReviewItem:   item,
		Status:       engine.Status(item, now),
		MasteryLevel: engine.MasteryLevel(item),
		DueState:     engine.ComputeDueState(item, now),
		DaysUntilDue: engine.DaysUntilDue(item, now),
	}
}

// AdvanceResult is the outcome of completing a checkpoint.
type AdvanceResult struct {
	Item      ItemView      `json:"item"`
	FromLevel mastery.Level `json:"fromLevel"`
	ToLevel   mastery.Level `json:"toLevel"`
}

// LevelChanged reports whether the advance moved the item up a level.
func (r AdvanceResult) LevelChanged() bool {
	return r.ToLevel.Rank() > r.FromLevel.Rank()
}

// QuizOutcome is the outcome of submitting a quiz summary.
type QuizOutcome struct {
	ResultID  string        `json:"resultId"`
	Passed    bool          `json:"passed"`
	Advanced  bool          `json:"advanced"`
	Item      ItemView      `json:"item"`
	FromLevel mastery.Level `json:"fromLevel"`
	ToLevel   mastery.Level `json:"toLevel"`
}

// Backend is the revision boundary used by the CLI and TUI. It is
// implemented locally by Tracker and remotely by the REST client.
type Backend interface {
	ListRevisions(ctx context.Context, learnerID string, filter Filter) ([]ItemView, error)
	GetRevision(ctx context.Context, id string) (ItemView, error)
	Stats(ctx context.Context, learnerID string) (dashboard.Summary, error)
	CreateRevision(ctx context.Context, learnerID, unitRef string) (ItemView, error)
	AdvanceRevision(ctx context.Context, id string) (AdvanceResult, error)
	SubmitQuizResult(ctx context.Context, id string, summary quiz.Summary) (QuizOutcome, error)
}
