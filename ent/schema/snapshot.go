package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// Snapshot is a dashboard summary captured by `adhyaya stats`, kept so the
// next run can show a trend.
type Snapshot struct {
	ent.Schema
}

func (Snapshot) Fields() []ent.Field {
	return []ent.Field{
		field.String("learner_id").NotEmpty(),
		field.Int64("sequence").
			Comment("Event sequence at capture time"),
		field.Time("timestamp").Default(time.Now),
		field.JSON("data", map[string]any{}),
	}
}

func (Snapshot) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("learner_id", "sequence"),
	}
}
