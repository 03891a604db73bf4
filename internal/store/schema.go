package store

// schemaStatements create every table the store uses. Each statement is
// idempotent so migrate can run on every Open.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS review_items (
		id TEXT PRIMARY KEY,
		learner_id TEXT NOT NULL,
		unit_ref TEXT NOT NULL,
		created_at DATETIME NOT NULL,
		schedule TEXT NOT NULL,
		current_phase INTEGER NOT NULL DEFAULT 0,
		updated_at DATETIME NOT NULL,
		UNIQUE (learner_id, unit_ref)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_review_items_learner ON review_items (learner_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS review_phases (
		item_id TEXT NOT NULL REFERENCES review_items (id) ON DELETE CASCADE,
		phase_index INTEGER NOT NULL,
		due_at DATETIME NOT NULL,
		completed_at DATETIME,
		PRIMARY KEY (item_id, phase_index)
	)`,
	`CREATE TABLE IF NOT EXISTS quiz_results (
		id TEXT PRIMARY KEY,
		item_id TEXT NOT NULL REFERENCES review_items (id) ON DELETE CASCADE,
		phase_index INTEGER NOT NULL,
		question_count INTEGER NOT NULL,
		correct_count INTEGER NOT NULL,
		final_difficulty TEXT NOT NULL,
		accuracy_by_tier TEXT NOT NULL,
		passed INTEGER NOT NULL,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_quiz_results_item ON quiz_results (item_id, created_at)`,
	`CREATE TABLE IF NOT EXISTS revision_events (
		sequence INTEGER PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		learner_id TEXT NOT NULL,
		item_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		phase_index INTEGER NOT NULL,
		from_level TEXT NOT NULL DEFAULT '',
		to_level TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_revision_events_learner ON revision_events (learner_id, sequence)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		sequence INTEGER PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		latency_ms INTEGER NOT NULL,
		success INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		learner_id TEXT NOT NULL,
		sequence INTEGER NOT NULL,
		timestamp DATETIME NOT NULL,
		data TEXT NOT NULL
	)`,
}
