package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/adhyaya/adhyaya/internal/revision"
)

const (
	tableItems  = "review_items"
	tablePhases = "review_phases"
)

var itemColumns = []string{"id", "learner_id", "unit_ref", "created_at", "schedule", "current_phase"}

// reviewRepo implements ReviewRepo with ent's SQL builder over SQLite.
type reviewRepo struct {
	db *sql.DB
}

func (r *reviewRepo) Create(ctx context.Context, item revision.ReviewItem) error {
	if err := item.Schedule.Validate(); err != nil {
		return fmt.Errorf("create %s: %w", item.ID, err)
	}
	if len(item.Phases) != len(item.Schedule) {
		return fmt.Errorf("create %s: %d phase states for %d checkpoints", item.ID, len(item.Phases), len(item.Schedule))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args := builder().Insert(tableItems).
		Columns(append(itemColumns, "updated_at")...).
		Values(item.ID, item.LearnerID, item.UnitRef, item.CreatedAt.UTC(), item.Schedule.String(), item.CurrentPhase, time.Now().UTC()).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create %s for %s: %w", item.UnitRef, item.LearnerID, ErrConflict)
		}
		return fmt.Errorf("insert review item: %w", err)
	}

	if err := upsertPhases(ctx, tx, item); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *reviewRepo) Get(ctx context.Context, id string) (revision.ReviewItem, error) {
	items, err := r.query(ctx, entsql.EQ("id", id), 0)
	if err != nil {
		return revision.ReviewItem{}, err
	}
	if len(items) == 0 {
		return revision.ReviewItem{}, fmt.Errorf("review item %s: %w", id, ErrNotFound)
	}
	return items[0], nil
}

func (r *reviewRepo) GetByUnit(ctx context.Context, learnerID, unitRef string) (revision.ReviewItem, error) {
	items, err := r.query(ctx, entsql.And(entsql.EQ("learner_id", learnerID), entsql.EQ("unit_ref", unitRef)), 0)
	if err != nil {
		return revision.ReviewItem{}, err
	}
	if len(items) == 0 {
		return revision.ReviewItem{}, fmt.Errorf("review item %s/%s: %w", learnerID, unitRef, ErrNotFound)
	}
	return items[0], nil
}

func (r *reviewRepo) List(ctx context.Context, learnerID string, opts ListOpts) ([]revision.ReviewItem, error) {
	limit := opts.Limit
	if !opts.IncludeComplete {
		// Completion depends on each item's own schedule, so it is filtered
		// after loading and the limit applied afterwards.
		limit = 0
	}
	items, err := r.query(ctx, entsql.EQ("learner_id", learnerID), limit)
	if err != nil || opts.IncludeComplete {
		return items, err
	}

	out := items[:0]
	for _, it := range items {
		if !it.IsFullyComplete() {
			out = append(out, it)
		}
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out, nil
}

// Save persists an item advanced by exactly one checkpoint. The stored row
// must still be at item.CurrentPhase-1, so a second advance built from the
// same snapshot fails with ErrConflict instead of rewriting CompletedAt.
func (r *reviewRepo) Save(ctx context.Context, item revision.ReviewItem) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args := builder().Update(tableItems).
		Set("current_phase", item.CurrentPhase).
		Set("updated_at", time.Now().UTC()).
		Where(entsql.And(entsql.EQ("id", item.ID), entsql.EQ("current_phase", item.CurrentPhase-1))).
		Query()
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update review item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update review item: %w", err)
	}
	if n == 0 {
		var exists int
		err := tx.QueryRowContext(ctx, "SELECT 1 FROM review_items WHERE id = ?", item.ID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("review item %s: %w", item.ID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("check review item: %w", err)
		}
		return fmt.Errorf("review item %s is no longer at phase %d: %w", item.ID, item.CurrentPhase-1, ErrConflict)
	}

	if err := upsertPhases(ctx, tx, item); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *reviewRepo) Delete(ctx context.Context, id string) error {
	query, args := builder().Delete(tableItems).Where(entsql.EQ("id", id)).Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete review item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("review item %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *reviewRepo) DeleteLearner(ctx context.Context, learnerID string) (int, error) {
	query, args := builder().Delete(tableItems).Where(entsql.EQ("learner_id", learnerID)).Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete learner items: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete learner items: %w", err)
	}
	return int(n), nil
}

// query loads items matching pred, then their phases in a second query.
func (r *reviewRepo) query(ctx context.Context, pred *entsql.Predicate, limit int) ([]revision.ReviewItem, error) {
	sel := builder().Select(itemColumns...).
		From(entsql.Table(tableItems)).
		Where(pred).
		OrderBy("created_at", "id")
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query review items: %w", err)
	}
	var items []revision.ReviewItem
	index := make(map[string]int)
	for rows.Next() {
		var (
			it       revision.ReviewItem
			schedule string
		)
		if err := rows.Scan(&it.ID, &it.LearnerID, &it.UnitRef, &it.CreatedAt, &schedule, &it.CurrentPhase); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan review item: %w", err)
		}
		it.Schedule, err = revision.ParseSchedule(schedule)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("review item %s: %w", it.ID, err)
		}
		it.Phases = make([]revision.PhaseState, len(it.Schedule))
		index[it.ID] = len(items)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate review items: %w", err)
	}
	rows.Close()

	if len(items) == 0 {
		return nil, nil
	}
	if err := r.loadPhases(ctx, items, index); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *reviewRepo) loadPhases(ctx context.Context, items []revision.ReviewItem, index map[string]int) error {
	ids := make([]any, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	query, args := builder().Select("item_id", "phase_index", "due_at", "completed_at").
		From(entsql.Table(tablePhases)).
		Where(entsql.In("item_id", ids...)).
		OrderBy("item_id", "phase_index").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query phases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			itemID    string
			idx       int
			dueAt     time.Time
			completed sql.NullTime
		)
		if err := rows.Scan(&itemID, &idx, &dueAt, &completed); err != nil {
			return fmt.Errorf("scan phase: %w", err)
		}
		pos, ok := index[itemID]
		if !ok || idx < 0 || idx >= len(items[pos].Phases) {
			continue
		}
		ps := revision.PhaseState{DueAt: dueAt}
		if completed.Valid {
			t := completed.Time
			ps.CompletedAt = &t
		}
		items[pos].Phases[idx] = ps
	}
	return rows.Err()
}

func upsertPhases(ctx context.Context, tx *sql.Tx, item revision.ReviewItem) error {
	if len(item.Phases) == 0 {
		return nil
	}
	ins := builder().Insert(tablePhases).Columns("item_id", "phase_index", "due_at", "completed_at")
	for i, p := range item.Phases {
		var completed any
		if p.CompletedAt != nil {
			completed = p.CompletedAt.UTC()
		}
		ins.Values(item.ID, i, p.DueAt.UTC(), completed)
	}
	query, args := ins.
		OnConflict(entsql.ConflictColumns("item_id", "phase_index"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert phases: %w", err)
	}
	return nil
}
