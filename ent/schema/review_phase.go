package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ReviewPhase is one checkpoint of a ReviewItem.
type ReviewPhase struct {
	ent.Schema
}

func (ReviewPhase) Fields() []ent.Field {
	return []ent.Field{
		field.String("item_id"),
		field.Int("phase_index").NonNegative(),
		field.Time("due_at"),
		field.Time("completed_at").Optional().Nillable(),
	}
}

func (ReviewPhase) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("item_id", "phase_index").Unique(),
	}
}
