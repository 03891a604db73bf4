package client

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adhyaya/adhyaya/internal/dashboard"
	"github.com/adhyaya/adhyaya/internal/quiz"
	"github.com/adhyaya/adhyaya/internal/revision"
	"github.com/adhyaya/adhyaya/internal/tracker"
)

// flakyBackend wraps a Backend and fails every call while down is set.
type flakyBackend struct {
	tracker.Backend
	down bool
}

func (f *flakyBackend) fail() error {
	return fmt.Errorf("%w: connection refused", ErrActionFailed)
}

func (f *flakyBackend) ListRevisions(ctx context.Context, learnerID string, filter tracker.Filter) ([]tracker.ItemView, error) {
	if f.down {
		return nil, f.fail()
	}
	return f.Backend.ListRevisions(ctx, learnerID, filter)
}

func (f *flakyBackend) GetRevision(ctx context.Context, id string) (tracker.ItemView, error) {
	if f.down {
		return tracker.ItemView{}, f.fail()
	}
	return f.Backend.GetRevision(ctx, id)
}

func (f *flakyBackend) Stats(ctx context.Context, learnerID string) (dashboard.Summary, error) {
	if f.down {
		return dashboard.Summary{}, f.fail()
	}
	return f.Backend.Stats(ctx, learnerID)
}

func (f *flakyBackend) AdvanceRevision(ctx context.Context, id string) (tracker.AdvanceResult, error) {
	if f.down {
		return tracker.AdvanceResult{}, f.fail()
	}
	return f.Backend.AdvanceRevision(ctx, id)
}

func (f *flakyBackend) SubmitQuizResult(ctx context.Context, id string, s quiz.Summary) (tracker.QuizOutcome, error) {
	if f.down {
		return tracker.QuizOutcome{}, f.fail()
	}
	return f.Backend.SubmitQuizResult(ctx, id, s)
}

func newSynced(t *testing.T) (*Synced, *flakyBackend, *LocalCache) {
	t.Helper()
	ts := newBackend(t)
	remote := &flakyBackend{Backend: newClient(t, ts.URL, 0)}
	cache, err := OpenLocalCache(filepath.Join(t.TempDir(), "items.json"))
	require.NoError(t, err)
	return NewSynced(remote, cache, revision.NewEngine(), nil), remote, cache
}

func TestSyncedReconcileBackendWins(t *testing.T) {
	s, _, cache := newSynced(t)
	ctx := context.Background()

	v, err := s.CreateRevision(ctx, "asha", "unit-a")
	require.NoError(t, err)

	// A stale local edit and an item the backend never heard of.
	stale, _ := cache.Get(v.ID)
	stale.CurrentPhase = 3
	cache.Put(stale)
	cache.Put(testItem("ghost", "asha", "unit-ghost", day0))

	require.NoError(t, s.Reconcile(ctx, "asha"))

	items := cache.Items("asha")
	require.Len(t, items, 1)
	assert.Equal(t, v.ID, items[0].ID)
	assert.Equal(t, 0, items[0].CurrentPhase)
	assert.False(t, cache.SyncedAt().IsZero())
}

func TestSyncedReadsFallBackToCache(t *testing.T) {
	s, remote, _ := newSynced(t)
	ctx := context.Background()

	v, err := s.CreateRevision(ctx, "asha", "unit-a")
	require.NoError(t, err)
	_, err = s.CreateRevision(ctx, "asha", "unit-b")
	require.NoError(t, err)

	remote.down = true

	list, err := s.ListRevisions(ctx, "asha", tracker.FilterActive)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	got, err := s.GetRevision(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "unit-a", got.UnitRef)

	sum, err := s.Stats(ctx, "asha")
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Total)
}

func TestSyncedAdvanceRollsBackOnFailure(t *testing.T) {
	s, remote, cache := newSynced(t)
	ctx := context.Background()

	v, err := s.CreateRevision(ctx, "asha", "unit-a")
	require.NoError(t, err)

	remote.down = true
	_, err = s.AdvanceRevision(ctx, v.ID)
	assert.ErrorIs(t, err, ErrActionFailed)
	it, ok := cache.Get(v.ID)
	require.True(t, ok)
	assert.Equal(t, 0, it.CurrentPhase)

	remote.down = false
	res, err := s.AdvanceRevision(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Item.CurrentPhase)
	it, _ = cache.Get(v.ID)
	assert.Equal(t, 1, it.CurrentPhase)
}

func TestSyncedQuizResultUpdatesCache(t *testing.T) {
	s, _, cache := newSynced(t)
	ctx := context.Background()

	v, err := s.CreateRevision(ctx, "asha", "unit-a")
	require.NoError(t, err)

	out, err := s.SubmitQuizResult(ctx, v.ID, quiz.Summary{CorrectCount: 4, QuestionCount: 5, FinalDifficultyReached: quiz.Medium})
	require.NoError(t, err)
	assert.True(t, out.Advanced)

	it, _ := cache.Get(v.ID)
	assert.Equal(t, 1, it.CurrentPhase)
}
