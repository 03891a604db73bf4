package store

import (
	"context"
	"errors"
	"time"

	"github.com/adhyaya/adhyaya/internal/dashboard"
	"github.com/adhyaya/adhyaya/internal/mastery"
	"github.com/adhyaya/adhyaya/internal/quiz"
	"github.com/adhyaya/adhyaya/internal/revision"
)

var (
	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned for duplicate units or stale writes that
	// would move an item backwards.
	ErrConflict = errors.New("conflict")
)

// ListOpts filters review item listings.
type ListOpts struct {
	Limit           int  // max results (0 = unlimited)
	IncludeComplete bool // include items with every checkpoint done
}

// ReviewRepo persists review items and their checkpoint states.
type ReviewRepo interface {
	// Create inserts a new item. Returns ErrConflict if the learner already
	// tracks the unit.
	Create(ctx context.Context, item revision.ReviewItem) error

	// Get returns the item with id or ErrNotFound.
	Get(ctx context.Context, id string) (revision.ReviewItem, error)

	// GetByUnit returns the learner's item for unitRef or ErrNotFound.
	GetByUnit(ctx context.Context, learnerID, unitRef string) (revision.ReviewItem, error)

	// List returns the learner's items ordered by creation time.
	List(ctx context.Context, learnerID string, opts ListOpts) ([]revision.ReviewItem, error)

	// Save writes an item advanced by one checkpoint. Returns ErrNotFound for
	// unknown items and ErrConflict unless the stored item is exactly one
	// checkpoint behind.
	Save(ctx context.Context, item revision.ReviewItem) error

	// Delete removes an item and its checkpoint and quiz history.
	Delete(ctx context.Context, id string) error

	// DeleteLearner removes every item for a learner and returns how many.
	DeleteLearner(ctx context.Context, learnerID string) (int, error)
}

// QuizResult is the persisted outcome of one quiz session.
type QuizResult struct {
	ID         string       `json:"id"`
	ItemID     string       `json:"itemId"`
	PhaseIndex int          `json:"phaseIndex"`
	Summary    quiz.Summary `json:"summary"`
	Passed     bool         `json:"passed"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// QuizResultRepo stores quiz summaries. The sessions themselves are never
// persisted.
type QuizResultRepo interface {
	Append(ctx context.Context, res *QuizResult) error
	ListForItem(ctx context.Context, itemID string) ([]QuizResult, error)
}

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit int       // max results (0 = unlimited)
	After int64     // sequence > After
	From  time.Time // timestamp >= From
}

// Revision event kinds.
const (
	EventCreated  = "created"
	EventAdvanced = "advanced"
	EventQuiz     = "quiz"
	EventDeleted  = "deleted"
)

// RevisionEventData describes a change to a review item.
type RevisionEventData struct {
	LearnerID  string        `json:"learnerId"`
	ItemID     string        `json:"itemId"`
	Kind       string        `json:"kind"`
	PhaseIndex int           `json:"phaseIndex"`
	From       mastery.Level `json:"from,omitempty"`
	To         mastery.Level `json:"to,omitempty"`
	Timestamp  time.Time     `json:"timestamp"`
}

// RevisionEvent is a stored RevisionEventData with its global sequence.
type RevisionEvent struct {
	Sequence int64 `json:"sequence"`
	RevisionEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// EventRepo provides append access to the event log.
type EventRepo interface {
	// AppendRevision records a review item change.
	AppendRevision(ctx context.Context, data RevisionEventData) error

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryRevisions returns a learner's revision events in sequence order.
	QueryRevisions(ctx context.Context, learnerID string, opts QueryOpts) ([]RevisionEvent, error)
}

// SnapshotData captures the dashboard at a point in time.
type SnapshotData struct {
	Version int               `json:"version"`
	Summary dashboard.Summary `json:"summary"`
}

// Snapshot is a stored dashboard capture.
type Snapshot struct {
	ID        int
	LearnerID string
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages dashboard snapshots, used to show trends.
type SnapshotRepo interface {
	// Save stores a new snapshot. A zero Sequence is filled with the
	// current event sequence.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the learner's most recent snapshot, or nil if none exist.
	Latest(ctx context.Context, learnerID string) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots of the learner.
	Prune(ctx context.Context, learnerID string, keep int) error
}
