package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/adhyaya/adhyaya/internal/revision"
)

func TestReviewCreateAndGet(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReviewRepo()
	ctx := context.Background()
	e := revision.NewEngine()

	item := e.NewItem("item-1", "asha", "sliding-window", day0)
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.Get(ctx, "item-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UnitRef != "sliding-window" || got.LearnerID != "asha" {
		t.Errorf("got = %+v", got)
	}
	if !got.CreatedAt.Equal(day0) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, day0)
	}
	if got.Schedule.String() != "1,3,7,30" {
		t.Errorf("Schedule = %s", got.Schedule)
	}
	if len(got.Phases) != 4 {
		t.Fatalf("len(Phases) = %d, want 4", len(got.Phases))
	}
	for i := range got.Phases {
		if !got.Phases[i].DueAt.Equal(item.Phases[i].DueAt) {
			t.Errorf("Phases[%d].DueAt = %v, want %v", i, got.Phases[i].DueAt, item.Phases[i].DueAt)
		}
		if got.Phases[i].CompletedAt != nil {
			t.Errorf("Phases[%d] unexpectedly completed", i)
		}
	}
}

func TestReviewCreateDuplicateUnit(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReviewRepo()
	ctx := context.Background()
	e := revision.NewEngine()

	if err := repo.Create(ctx, e.NewItem("a", "asha", "heaps", day0)); err != nil {
		t.Fatalf("Create: %v", err)
	}
	err := repo.Create(ctx, e.NewItem("b", "asha", "heaps", day0))
	if !errors.Is(err, ErrConflict) {
		t.Errorf("err = %v, want ErrConflict", err)
	}
	// Same unit for another learner is fine.
	if err := repo.Create(ctx, e.NewItem("c", "ravi", "heaps", day0)); err != nil {
		t.Errorf("Create for other learner: %v", err)
	}
}

func TestReviewGetNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.ReviewRepo().Get(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestReviewSaveAdvanced(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReviewRepo()
	ctx := context.Background()
	e := revision.NewEngine()

	item := e.NewItem("item-1", "asha", "tries", day0)
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("Create: %v", err)
	}

	completedAt := day0.Add(30 * time.Hour)
	next, err := e.Advance(item, completedAt)
	if err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if err := repo.Save(ctx, next); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := repo.Get(ctx, "item-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CurrentPhase != 1 {
		t.Errorf("CurrentPhase = %d, want 1", got.CurrentPhase)
	}
	if got.Phases[0].CompletedAt == nil || !got.Phases[0].CompletedAt.Equal(completedAt) {
		t.Errorf("Phases[0].CompletedAt = %v, want %v", got.Phases[0].CompletedAt, completedAt)
	}
}

func TestReviewSaveStaleWrite(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReviewRepo()
	ctx := context.Background()
	e := revision.NewEngine()

	item := e.NewItem("item-1", "asha", "tries", day0)
	if err := repo.Create(ctx, item); err != nil {
		t.Fatalf("Create: %v", err)
	}
	first, _ := e.Advance(item, day0.Add(24*time.Hour))
	second, _ := e.Advance(first, day0.Add(72*time.Hour))
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("Save first: %v", err)
	}
	if err := repo.Save(ctx, second); err != nil {
		t.Fatalf("Save second: %v", err)
	}

	if err := repo.Save(ctx, first); !errors.Is(err, ErrConflict) {
		t.Errorf("stale Save err = %v, want ErrConflict", err)
	}

	// Two advances built from the same snapshot: only the first lands.
	other := e.NewItem("item-2", "asha", "graphs", day0)
	if err := repo.Create(ctx, other); err != nil {
		t.Fatalf("Create: %v", err)
	}
	onTime, _ := e.Advance(other, day0.Add(24*time.Hour))
	late, _ := e.Advance(other, day0.Add(96*time.Hour))
	if err := repo.Save(ctx, onTime); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Save(ctx, late); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate advance Save err = %v, want ErrConflict", err)
	}
	got, err := repo.Get(ctx, "item-2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CurrentPhase != 1 {
		t.Errorf("CurrentPhase = %d, want 1", got.CurrentPhase)
	}
	if at := got.Phases[0].CompletedAt; at == nil || !at.Equal(day0.Add(24*time.Hour)) {
		t.Errorf("Phases[0].CompletedAt = %v, want %v", at, day0.Add(24*time.Hour))
	}

	missing := e.NewItem("nope", "asha", "x", day0)
	if err := repo.Save(ctx, missing); !errors.Is(err, ErrNotFound) {
		t.Errorf("Save unknown err = %v, want ErrNotFound", err)
	}
}

func TestReviewList(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReviewRepo()
	ctx := context.Background()
	e := revision.NewEngine()

	done := e.NewItem("done", "asha", "arrays", day0)
	for i := 0; i < 4; i++ {
		done, _ = e.Advance(done, day0.Add(time.Duration(i+1)*24*time.Hour))
	}
	items := []revision.ReviewItem{
		e.NewItem("a", "asha", "graphs", day0.Add(time.Hour)),
		e.NewItem("b", "asha", "heaps", day0.Add(2*time.Hour)),
		e.NewItem("c", "ravi", "graphs", day0),
	}
	for _, it := range items {
		if err := repo.Create(ctx, it); err != nil {
			t.Fatalf("Create %s: %v", it.ID, err)
		}
	}
	if err := repo.Create(ctx, done); err != nil {
		t.Fatalf("Create done: %v", err)
	}

	got, err := repo.List(ctx, "asha", ListOpts{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Errorf("List = %v, want [a b]", ids(got))
	}

	got, err = repo.List(ctx, "asha", ListOpts{IncludeComplete: true})
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(got) != 3 || got[0].ID != "done" {
		t.Errorf("List all = %v, want [done a b]", ids(got))
	}
	if !got[0].IsFullyComplete() || got[0].CompletedCount() != 4 {
		t.Errorf("done item = %+v", got[0])
	}

	got, err = repo.List(ctx, "asha", ListOpts{Limit: 1})
	if err != nil {
		t.Fatalf("List limit: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Errorf("List limit = %v, want [a]", ids(got))
	}

	got, err = repo.List(ctx, "nobody", ListOpts{})
	if err != nil || len(got) != 0 {
		t.Errorf("List nobody = %v, %v", ids(got), err)
	}
}

func TestReviewGetByUnit(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReviewRepo()
	ctx := context.Background()
	e := revision.NewEngine()

	if err := repo.Create(ctx, e.NewItem("a", "asha", "graphs", day0)); err != nil {
		t.Fatal(err)
	}
	got, err := repo.GetByUnit(ctx, "asha", "graphs")
	if err != nil || got.ID != "a" {
		t.Errorf("GetByUnit = %v, %v", got.ID, err)
	}
	if _, err := repo.GetByUnit(ctx, "ravi", "graphs"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestReviewDelete(t *testing.T) {
	s := openTestStore(t)
	repo := s.ReviewRepo()
	ctx := context.Background()
	e := revision.NewEngine()

	for _, id := range []string{"a", "b"} {
		if err := repo.Create(ctx, e.NewItem(id, "asha", "unit-"+id, day0)); err != nil {
			t.Fatal(err)
		}
	}
	if err := repo.Create(ctx, e.NewItem("c", "ravi", "unit-c", day0)); err != nil {
		t.Fatal(err)
	}

	if err := repo.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Delete(ctx, "a"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete err = %v, want ErrNotFound", err)
	}

	var phases int
	if err := s.DB().QueryRow("SELECT COUNT(*) FROM review_phases WHERE item_id = 'a'").Scan(&phases); err != nil {
		t.Fatal(err)
	}
	if phases != 0 {
		t.Errorf("phases left after delete = %d, want 0", phases)
	}

	n, err := repo.DeleteLearner(ctx, "asha")
	if err != nil {
		t.Fatalf("DeleteLearner: %v", err)
	}
	if n != 1 {
		t.Errorf("DeleteLearner removed %d, want 1", n)
	}
	if _, err := repo.Get(ctx, "c"); err != nil {
		t.Errorf("other learner's item gone: %v", err)
	}
}

func ids(items []revision.ReviewItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}
