package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// QuizResult is the summary of a finished quiz against one checkpoint.
type QuizResult struct {
	ent.Schema
}

func (QuizResult) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").Unique().Immutable(),
		field.String("item_id"),
		field.Int("phase_index"),
		field.Int("question_count").Positive(),
		field.Int("correct_count").NonNegative(),
		field.Enum("final_difficulty").Values("easy", "medium", "hard"),
		field.JSON("accuracy_by_tier", map[string]any{}),
		field.Bool("passed"),
		field.Time("created_at").Immutable(),
	}
}

func (QuizResult) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("item_id", "created_at"),
	}
}
