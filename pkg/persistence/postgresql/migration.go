package postgresql

// migrations returns the schema migrations for the PostgreSQL backend,
// keyed by version.
func migrations() map[int]string {
	return map[int]string{
		1: `
			CREATE TABLE IF NOT EXISTS business_plans (
				id UUID PRIMARY KEY,
				title TEXT NOT NULL,
				status TEXT NOT NULL DEFAULT 'draft',
				owner TEXT NOT NULL,
				content JSONB NOT NULL DEFAULT '{}',
				details JSONB NOT NULL DEFAULT '{}',
				metadata JSONB,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				deleted_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX IF NOT EXISTS idx_business_plans_owner
				ON business_plans (owner) WHERE deleted_at IS NULL;
			CREATE INDEX IF NOT EXISTS idx_business_plans_status
				ON business_plans (status) WHERE deleted_at IS NULL;

			CREATE TABLE IF NOT EXISTS action_items (
				id UUID PRIMARY KEY,
				content TEXT NOT NULL,
				category TEXT NOT NULL DEFAULT '',
				is_completed BOOLEAN NOT NULL DEFAULT FALSE,
				ordinal INTEGER NOT NULL DEFAULT 0,
				notes TEXT NOT NULL DEFAULT '',
				owner TEXT NOT NULL,
				parent_id UUID,
				list_id UUID,
				conversation_id TEXT NOT NULL DEFAULT '',
				message_id TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE
			);

			CREATE INDEX IF NOT EXISTS idx_action_items_owner ON action_items (owner);
			CREATE INDEX IF NOT EXISTS idx_action_items_list ON action_items (list_id);
			CREATE INDEX IF NOT EXISTS idx_action_items_parent ON action_items (parent_id);
			CREATE INDEX IF NOT EXISTS idx_action_items_conversation ON action_items (conversation_id);

			CREATE TABLE IF NOT EXISTS action_lists (
				id UUID PRIMARY KEY,
				name TEXT NOT NULL,
				owner TEXT NOT NULL,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX IF NOT EXISTS idx_action_lists_owner ON action_lists (owner);

			CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL DEFAULT '',
				placeholder BOOLEAN NOT NULL DEFAULT FALSE,
				migrated_to TEXT,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);
		`,
	}
}
