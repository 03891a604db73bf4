package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/adhyaya/adhyaya/internal/mastery"
)

// sequenceCounter hands out the global sequence shared by every event
// table, so revision and LLM events can be ordered against each other and
// snapshots can record the point they were taken at.
//
// The mutex serializes within the process; the RETURNING clause makes the
// increment atomic at the database level.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}

// Current returns the last sequence handed out, 0 if none.
func (sc *sequenceCounter) Current(ctx context.Context) (int64, error) {
	var next int64
	if err := sc.db.QueryRowContext(ctx, `SELECT next_val FROM global_sequence WHERE id = 1`).Scan(&next); err != nil {
		return 0, fmt.Errorf("current sequence: %w", err)
	}
	return next - 1, nil
}

// eventRepo implements EventRepo on top of the global sequence counter.
type eventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *eventRepo) AppendRevision(ctx context.Context, data RevisionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}
	ts := data.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	query, args := builder().Insert("revision_events").
		Columns("sequence", "timestamp", "learner_id", "item_id", "kind", "phase_index", "from_level", "to_level").
		Values(seqNum, ts.UTC(), data.LearnerID, data.ItemID, data.Kind, data.PhaseIndex, string(data.From), string(data.To)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save revision event: %w", err)
	}
	return nil
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	query, args := builder().Insert("llm_request_events").
		Columns("sequence", "timestamp", "provider", "model", "purpose", "input_tokens",
			"output_tokens", "latency_ms", "success", "error_message").
		Values(seqNum, time.Now().UTC(), data.Provider, data.Model, data.Purpose, data.InputTokens,
			data.OutputTokens, data.LatencyMs, data.Success, data.ErrorMessage).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryRevisions(ctx context.Context, learnerID string, opts QueryOpts) ([]RevisionEvent, error) {
	preds := []*entsql.Predicate{entsql.EQ("learner_id", learnerID)}
	if opts.After > 0 {
		preds = append(preds, entsql.GT("sequence", opts.After))
	}
	if !opts.From.IsZero() {
		preds = append(preds, entsql.GTE("timestamp", opts.From.UTC()))
	}

	sel := builder().Select("sequence", "timestamp", "learner_id", "item_id", "kind", "phase_index", "from_level", "to_level").
		From(entsql.Table("revision_events")).
		Where(entsql.And(preds...)).
		OrderBy("sequence")
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query revision events: %w", err)
	}
	defer rows.Close()

	var out []RevisionEvent
	for rows.Next() {
		var (
			ev       RevisionEvent
			from, to string
		)
		if err := rows.Scan(&ev.Sequence, &ev.Timestamp, &ev.LearnerID, &ev.ItemID, &ev.Kind,
			&ev.PhaseIndex, &from, &to); err != nil {
			return nil, fmt.Errorf("scan revision event: %w", err)
		}
		ev.From, ev.To = mastery.Level(from), mastery.Level(to)
		out = append(out, ev)
	}
	return out, rows.Err()
}
