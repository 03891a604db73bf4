// Package tracker coordinates the phase engine with persistence: it creates
// and advances review items, records quiz results and serves dashboard
// summaries.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adhyaya/adhyaya/internal/cache"
	"github.com/adhyaya/adhyaya/internal/dashboard"
	"github.com/adhyaya/adhyaya/internal/logger"
	"github.com/adhyaya/adhyaya/internal/quiz"
	"github.com/adhyaya/adhyaya/internal/revision"
	"github.com/adhyaya/adhyaya/internal/store"
)

// ErrInvalidInput is returned for blank or malformed arguments.
var ErrInvalidInput = errors.New("invalid input")

// snapshotsKept is how many dashboard snapshots are retained per learner.
const snapshotsKept = 30

// Deps are the collaborators a Tracker needs. Cache and Log may be nil.
type Deps struct {
	Reviews   store.ReviewRepo
	Results   store.QuizResultRepo
	Events    store.EventRepo
	Snapshots store.SnapshotRepo
	Cache     cache.SummaryCache
	Log       *logger.Logger
}

// Tracker is the local Backend implementation.
type Tracker struct {
	engine        *revision.Engine
	agg           *dashboard.Aggregator
	reviews       store.ReviewRepo
	results       store.QuizResultRepo
	events        store.EventRepo
	snapshots     store.SnapshotRepo
	cache         cache.SummaryCache
	log           *logger.Logger
	passThreshold float64
	now           func() time.Time
	newID         func() string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithPassThreshold sets the quiz accuracy that completes a checkpoint.
func WithPassThreshold(th float64) Option {
	return func(t *Tracker) { t.passThreshold = th }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithIDGenerator overrides uuid generation.
func WithIDGenerator(gen func() string) Option {
	return func(t *Tracker) { t.newID = gen }
}

// New creates a Tracker around engine and deps.
func New(engine *revision.Engine, deps Deps, opts ...Option) *Tracker {
	t := &Tracker{
		engine:        engine,
		agg:           dashboard.New(engine),
		reviews:       deps.Reviews,
		results:       deps.Results,
		events:        deps.Events,
		snapshots:     deps.Snapshots,
		cache:         deps.Cache,
		log:           deps.Log,
		passThreshold: quiz.DefaultPassThreshold,
		now:           time.Now,
		newID:         uuid.NewString,
	}
	if t.cache == nil {
		t.cache = cache.NopCache{}
	}
	if t.log == nil {
		t.log = logger.NewNop()
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Engine returns the phase engine the tracker schedules with.
func (t *Tracker) Engine() *revision.Engine { return t.engine }

// View derives the display fields for item at now.
func (t *Tracker) View(item revision.ReviewItem, now time.Time) ItemView {
	return NewView(t.engine, item, now)
}

func (t *Tracker) CreateRevision(ctx context.Context, learnerID, unitRef string) (ItemView, error) {
	learnerID, unitRef = strings.TrimSpace(learnerID), strings.TrimSpace(unitRef)
	if learnerID == "" || unitRef == "" {
		return ItemView{}, fmt.Errorf("%w: learner and unit are required", ErrInvalidInput)
	}

	now := t.now()
	item := t.engine.NewItem(t.newID(), learnerID, unitRef, now)
	if err := t.reviews.Create(ctx, item); err != nil {
		if errors.Is(err, store.ErrConflict) {
			if existing, gerr := t.reviews.GetByUnit(ctx, learnerID, unitRef); gerr == nil {
				return ItemView{}, fmt.Errorf("%q is already tracked as %s: %w", unitRef, existing.ID, store.ErrConflict)
			}
		}
		return ItemView{}, err
	}

	t.appendEvent(ctx, store.RevisionEventData{
		LearnerID: learnerID,
		ItemID:    item.ID,
		Kind:      store.EventCreated,
		To:        t.engine.MasteryLevel(item),
		Timestamp: now,
	})
	t.cache.Invalidate(ctx, learnerID)
	t.log.Info("revision created", "learner", learnerID, "unit", unitRef, "item", item.ID)

	return t.View(item, now), nil
}

func (t *Tracker) GetRevision(ctx context.Context, id string) (ItemView, error) {
	item, err := t.reviews.Get(ctx, id)
	if err != nil {
		return ItemView{}, err
	}
	return t.View(item, t.now()), nil
}

func (t *Tracker) ListRevisions(ctx context.Context, learnerID string, filter Filter) ([]ItemView, error) {
	items, err := t.reviews.List(ctx, learnerID, store.ListOpts{IncludeComplete: filter == FilterAll})
	if err != nil {
		return nil, err
	}

	now := t.now()
	t.engine.SortByUrgency(items, now)

	out := make([]ItemView, 0, len(items))
	for _, it := range items {
		if v := t.View(it, now); filter.Match(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

// AdvanceRevision completes the current checkpoint. Completed items return
// an error wrapping revision.ErrInvalidTransition, which callers treat as
// a no-op.
func (t *Tracker) AdvanceRevision(ctx context.Context, id string) (AdvanceResult, error) {
	item, err := t.reviews.Get(ctx, id)
	if err != nil {
		return AdvanceResult{}, err
	}
	now := t.now()
	next, res, err := t.advance(ctx, item, now, "checkpoint")
	if err != nil {
		return AdvanceResult{Item: t.View(item, now)}, err
	}
	res.Item = t.View(next, now)
	return res, nil
}

func (t *Tracker) advance(ctx context.Context, item revision.ReviewItem, now time.Time, trigger string) (revision.ReviewItem, AdvanceResult, error) {
	next, tr, err := t.engine.Complete(item, now, trigger)
	if err != nil {
		if errors.Is(err, revision.ErrInvalidTransition) {
			t.log.Info("advance ignored, item already complete", "item", item.ID)
		}
		return item, AdvanceResult{}, err
	}
	if err := t.reviews.Save(ctx, next); err != nil {
		return item, AdvanceResult{}, err
	}

	t.appendEvent(ctx, store.RevisionEventData{
		LearnerID:  item.LearnerID,
		ItemID:     item.ID,
		Kind:       store.EventAdvanced,
		PhaseIndex: item.CurrentPhase,
		From:       tr.From,
		To:         tr.To,
		Timestamp:  now,
	})
	t.cache.Invalidate(ctx, item.LearnerID)
	t.log.Info("checkpoint completed",
		"item", item.ID, "phase", item.CurrentPhase, "from", tr.From, "to", tr.To, "trigger", trigger)

	return next, AdvanceResult{FromLevel: tr.From, ToLevel: tr.To}, nil
}

// SubmitQuizResult completes the current checkpoint when the quiz passes and
// then stores the quiz summary. A failed advance stores nothing, so a result
// row never claims a pass that did not move the item. A quiz taken on a
// completed item is stored without advancing.
func (t *Tracker) SubmitQuizResult(ctx context.Context, id string, summary quiz.Summary) (QuizOutcome, error) {
	item, err := t.reviews.Get(ctx, id)
	if err != nil {
		return QuizOutcome{}, err
	}
	now := t.now()
	passed := summary.Passed(t.passThreshold)

	level := t.engine.MasteryLevel(item)
	out := QuizOutcome{Passed: passed, FromLevel: level, ToLevel: level, Item: t.View(item, now)}
	if passed && !item.IsFullyComplete() {
		next, adv, err := t.advance(ctx, item, now, "quiz-pass")
		if err != nil {
			return QuizOutcome{}, err
		}
		out.Advanced = true
		out.Item = t.View(next, now)
		out.FromLevel, out.ToLevel = adv.FromLevel, adv.ToLevel
	}

	res := &store.QuizResult{
		ID:         t.newID(),
		ItemID:     item.ID,
		PhaseIndex: item.CurrentPhase,
		Summary:    summary,
		Passed:     passed,
		CreatedAt:  now,
	}
	if err := t.results.Append(ctx, res); err != nil {
		return QuizOutcome{}, err
	}
	out.ResultID = res.ID
	t.appendEvent(ctx, store.RevisionEventData{
		LearnerID:  item.LearnerID,
		ItemID:     item.ID,
		Kind:       store.EventQuiz,
		PhaseIndex: item.CurrentPhase,
		Timestamp:  now,
	})
	return out, nil
}

// Stats returns the learner's dashboard summary, served from the cache
// when fresh. Entries expire no later than the next due-state change.
func (t *Tracker) Stats(ctx context.Context, learnerID string) (dashboard.Summary, error) {
	if s, ok := t.cache.Get(ctx, learnerID); ok {
		return s, nil
	}
	items, err := t.reviews.List(ctx, learnerID, store.ListOpts{IncludeComplete: true})
	if err != nil {
		return dashboard.Summary{}, err
	}
	now := t.now()
	s := t.agg.Summarize(items, now)
	t.cache.Set(ctx, learnerID, s, t.agg.ValidUntil(items, now).Sub(now))
	return s, nil
}

// RecordSnapshot stores the current summary and returns the previous
// snapshot (nil if none) so callers can show a trend.
func (t *Tracker) RecordSnapshot(ctx context.Context, learnerID string) (dashboard.Summary, *store.Snapshot, error) {
	prev, err := t.snapshots.Latest(ctx, learnerID)
	if err != nil {
		return dashboard.Summary{}, nil, err
	}
	s, err := t.Stats(ctx, learnerID)
	if err != nil {
		return dashboard.Summary{}, nil, err
	}
	err = t.snapshots.Save(ctx, &store.Snapshot{
		LearnerID: learnerID,
		Timestamp: t.now(),
		Data:      store.SnapshotData{Version: 1, Summary: s},
	})
	if err != nil {
		return s, prev, err
	}
	if err := t.snapshots.Prune(ctx, learnerID, snapshotsKept); err != nil {
		t.log.Warn("prune snapshots failed", "learner", learnerID, "error", err)
	}
	return s, prev, nil
}

// History returns the learner's revision events.
func (t *Tracker) History(ctx context.Context, learnerID string, limit int) ([]store.RevisionEvent, error) {
	return t.events.QueryRevisions(ctx, learnerID, store.QueryOpts{Limit: limit})
}

// QuizResults returns the stored quiz summaries for an item.
func (t *Tracker) QuizResults(ctx context.Context, id string) ([]store.QuizResult, error) {
	return t.results.ListForItem(ctx, id)
}

// Delete removes an item.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	item, err := t.reviews.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := t.reviews.Delete(ctx, id); err != nil {
		return err
	}
	t.appendEvent(ctx, store.RevisionEventData{
		LearnerID:  item.LearnerID,
		ItemID:     id,
		Kind:       store.EventDeleted,
		PhaseIndex: item.CurrentPhase,
		Timestamp:  t.now(),
	})
	t.cache.Invalidate(ctx, item.LearnerID)
	return nil
}

// Reset removes every item of the learner and returns how many.
func (t *Tracker) Reset(ctx context.Context, learnerID string) (int, error) {
	n, err := t.reviews.DeleteLearner(ctx, learnerID)
	if err != nil {
		return 0, err
	}
	t.cache.Invalidate(ctx, learnerID)
	t.log.Info("learner reset", "learner", learnerID, "items", n)
	return n, nil
}

// appendEvent writes to the event log. Event failures are logged and do
// not fail the operation that produced them.
func (t *Tracker) appendEvent(ctx context.Context, ev store.RevisionEventData) {
	if t.events == nil {
		return
	}
	if err := t.events.AppendRevision(ctx, ev); err != nil {
		t.log.Warn("append revision event failed", "item", ev.ItemID, "kind", ev.Kind, "error", err)
	}
}

var _ Backend = (*Tracker)(nil)
