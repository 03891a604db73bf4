package client

import (
	"context"
	"errors"
	"time"

	"github.com/adhyaya/adhyaya/internal/dashboard"
	"github.com/adhyaya/adhyaya/internal/logger"
	"github.com/adhyaya/adhyaya/internal/quiz"
	"github.com/adhyaya/adhyaya/internal/revision"
	"github.com/adhyaya/adhyaya/internal/store"
	"github.com/adhyaya/adhyaya/internal/tracker"
)

// Synced wraps a remote backend with a LocalCache. Reads fall back to the
// cache when the backend is unreachable; advances are applied to the cache
// first and rolled back if the backend rejects them.
type Synced struct {
	remote tracker.Backend
	cache  *LocalCache
	engine *revision.Engine
	log    *logger.Logger
	now    func() time.Time
}

// NewSynced builds a Synced backend. engine is only used to derive views
// for cached items while offline.
func NewSynced(remote tracker.Backend, cache *LocalCache, engine *revision.Engine, log *logger.Logger) *Synced {
	if log == nil {
		log = logger.NewNop()
	}
	return &Synced{remote: remote, cache: cache, engine: engine, log: log, now: time.Now}
}

// Reconcile replaces the learner's cached items with the backend state.
// The backend always wins.
func (s *Synced) Reconcile(ctx context.Context, learnerID string) error {
	views, err := s.remote.ListRevisions(ctx, learnerID, tracker.FilterAll)
	if err != nil {
		return err
	}
	items := make([]revision.ReviewItem, len(views))
	for i, v := range views {
		items[i] = v.ReviewItem
	}
	s.cache.Replace(learnerID, items, s.now())
	return s.cache.Save()
}

func (s *Synced) ListRevisions(ctx context.Context, learnerID string, filter tracker.Filter) ([]tracker.ItemView, error) {
	views, err := s.remote.ListRevisions(ctx, learnerID, filter)
	if err == nil {
		for _, v := range views {
			s.cache.Put(v.ReviewItem)
		}
		s.saveQuietly()
		return views, nil
	}
	if !errors.Is(err, ErrActionFailed) {
		return nil, err
	}

	s.log.Warn("backend unreachable, listing cached items", "learner", learnerID, "error", err)
	now := s.now()
	items := s.cache.Items(learnerID)
	s.engine.SortByUrgency(items, now)
	out := make([]tracker.ItemView, 0, len(items))
	for _, it := range items {
		if v := tracker.NewView(s.engine, it, now); filter.Match(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *Synced) GetRevision(ctx context.Context, id string) (tracker.ItemView, error) {
	v, err := s.remote.GetRevision(ctx, id)
	if err == nil {
		s.cache.Put(v.ReviewItem)
		return v, nil
	}
	if errors.Is(err, ErrActionFailed) {
		if it, ok := s.cache.Get(id); ok {
			return tracker.NewView(s.engine, it, s.now()), nil
		}
	}
	return tracker.ItemView{}, err
}

func (s *Synced) Stats(ctx context.Context, learnerID string) (dashboard.Summary, error) {
	sum, err := s.remote.Stats(ctx, learnerID)
	if err == nil || !errors.Is(err, ErrActionFailed) {
		return sum, err
	}
	s.log.Warn("backend unreachable, summarizing cached items", "learner", learnerID, "error", err)
	return dashboard.New(s.engine).Summarize(s.cache.Items(learnerID), s.now()), nil
}

func (s *Synced) CreateRevision(ctx context.Context, learnerID, unitRef string) (tracker.ItemView, error) {
	v, err := s.remote.CreateRevision(ctx, learnerID, unitRef)
	if err != nil {
		return v, err
	}
	s.cache.Put(v.ReviewItem)
	s.saveQuietly()
	return v, nil
}

// AdvanceRevision applies the advance to the cached item before asking the
// backend, and restores the cached item if the backend fails.
func (s *Synced) AdvanceRevision(ctx context.Context, id string) (tracker.AdvanceResult, error) {
	prev, cached := s.cache.Get(id)
	if cached {
		if next, _, err := s.engine.Complete(prev, s.now(), "checkpoint"); err == nil {
			s.cache.Put(next)
		}
	}

	res, err := s.remote.AdvanceRevision(ctx, id)
	if err != nil {
		if cached {
			s.cache.Put(prev)
		}
		if errors.Is(err, store.ErrNotFound) {
			s.cache.Remove(id)
		}
		s.saveQuietly()
		return res, err
	}
	s.cache.Put(res.Item.ReviewItem)
	s.saveQuietly()
	return res, nil
}

func (s *Synced) SubmitQuizResult(ctx context.Context, id string, summary quiz.Summary) (tracker.QuizOutcome, error) {
	out, err := s.remote.SubmitQuizResult(ctx, id, summary)
	if err != nil {
		return out, err
	}
	s.cache.Put(out.Item.ReviewItem)
	s.saveQuietly()
	return out, nil
}

func (s *Synced) saveQuietly() {
	if err := s.cache.Save(); err != nil {
		s.log.Warn("save local cache failed", "error", err)
	}
}

var _ tracker.Backend = (*Synced)(nil)
