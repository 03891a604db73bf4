package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// RevisionEvent records a change to a review item: created, advanced,
// quizzed or deleted.
type RevisionEvent struct {
	ent.Schema
}

func (RevisionEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (RevisionEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("learner_id"),
		field.String("item_id"),
		field.String("kind"),
		field.Int("phase_index"),
		field.String("from_level").Default(""),
		field.String("to_level").Default(""),
	}
}

func (RevisionEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("learner_id", "sequence"),
	}
}
