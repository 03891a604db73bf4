package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
)

const tableSnapshots = "snapshots"

// snapshotRepo implements SnapshotRepo.
type snapshotRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *snapshotRepo) Save(ctx context.Context, snap *Snapshot) error {
	if snap.Sequence == 0 {
		cur, err := r.seq.Current(ctx)
		if err != nil {
			return err
		}
		snap.Sequence = cur
	}
	data, err := json.Marshal(snap.Data)
	if err != nil {
		return fmt.Errorf("marshal snapshot data: %w", err)
	}

	query, args := builder().Insert(tableSnapshots).
		Columns("learner_id", "sequence", "timestamp", "data").
		Values(snap.LearnerID, snap.Sequence, snap.Timestamp.UTC(), string(data)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context, learnerID string) (*Snapshot, error) {
	query, args := builder().Select("id", "learner_id", "sequence", "timestamp", "data").
		From(entsql.Table(tableSnapshots)).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id")).
		Limit(1).
		Query()

	var (
		snap Snapshot
		data string
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&snap.ID, &snap.LearnerID, &snap.Sequence, &snap.Timestamp, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	if err := json.Unmarshal([]byte(data), &snap.Data); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot data: %w", err)
	}
	return &snap, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, learnerID string, keep int) error {
	// Find the newest snapshot that falls outside the keep window.
	query, args := builder().Select("id").
		From(entsql.Table(tableSnapshots)).
		Where(entsql.EQ("learner_id", learnerID)).
		OrderBy(entsql.Desc("timestamp"), entsql.Desc("id")).
		Limit(1).
		Offset(keep).
		Query()

	var threshold int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&threshold)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // fewer than keep snapshots exist
	}
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}

	query, args = builder().Delete(tableSnapshots).
		Where(entsql.And(entsql.EQ("learner_id", learnerID), entsql.LTE("id", threshold))).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}
