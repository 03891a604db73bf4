package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/adhyaya/adhyaya/internal/quiz"
)

const tableQuizResults = "quiz_results"

// quizResultRepo implements QuizResultRepo.
type quizResultRepo struct {
	db *sql.DB
}

func (r *quizResultRepo) Append(ctx context.Context, res *QuizResult) error {
	tiers, err := json.Marshal(res.Summary.AccuracyByTier)
	if err != nil {
		return fmt.Errorf("marshal accuracy by tier: %w", err)
	}

	query, args := builder().Insert(tableQuizResults).
		Columns("id", "item_id", "phase_index", "question_count", "correct_count",
			"final_difficulty", "accuracy_by_tier", "passed", "created_at").
		Values(res.ID, res.ItemID, res.PhaseIndex, res.Summary.QuestionCount, res.Summary.CorrectCount,
			string(res.Summary.FinalDifficultyReached), string(tiers), res.Passed, res.CreatedAt.UTC()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("quiz result %s: %w", res.ID, ErrConflict)
		}
		return fmt.Errorf("insert quiz result: %w", err)
	}
	return nil
}

func (r *quizResultRepo) ListForItem(ctx context.Context, itemID string) ([]QuizResult, error) {
	query, args := builder().Select("id", "item_id", "phase_index", "question_count", "correct_count",
		"final_difficulty", "accuracy_by_tier", "passed", "created_at").
		From(entsql.Table(tableQuizResults)).
		Where(entsql.EQ("item_id", itemID)).
		OrderBy("created_at").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query quiz results: %w", err)
	}
	defer rows.Close()

	var out []QuizResult
	for rows.Next() {
		var (
			res   QuizResult
			final string
			tiers string
		)
		if err := rows.Scan(&res.ID, &res.ItemID, &res.PhaseIndex, &res.Summary.QuestionCount,
			&res.Summary.CorrectCount, &final, &tiers, &res.Passed, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan quiz result: %w", err)
		}
		res.Summary.FinalDifficultyReached = quiz.Difficulty(final)
		if err := json.Unmarshal([]byte(tiers), &res.Summary.AccuracyByTier); err != nil {
			return nil, fmt.Errorf("unmarshal accuracy by tier: %w", err)
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
