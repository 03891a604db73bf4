package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ReviewItem is a learned unit under spaced revision.
type ReviewItem struct {
	ent.Schema
}

func (ReviewItem) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").Unique().Immutable(),
		field.String("learner_id").NotEmpty().Immutable(),
		field.String("unit_ref").NotEmpty().Immutable(),
		field.Time("created_at").Immutable().
			Comment("Anchor every checkpoint offset is measured from"),
		field.String("schedule").Immutable().
			Comment("JSON array of day offsets, fixed at creation"),
		field.Int("current_phase").Default(0).
			Comment("Equals the schedule length once fully revised"),
		field.Time("updated_at").
			Comment("Optimistic concurrency token"),
	}
}

func (ReviewItem) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("learner_id", "unit_ref").Unique(),
		index.Fields("learner_id", "created_at"),
	}
}
