package schema

// TableDefinitions contains all the SQL statements to create the database tables.
// Don't put REFERENCES and don't put CHECK constraints in the CREATE TABLE statements
var TableDefinitions = []string{
	`CREATE TABLE IF NOT EXISTS templates (
		id VARCHAR(32) NOT NULL,
		name VARCHAR(64) NOT NULL,
		version BIGINT NOT NULL,
		subject VARCHAR(255) NOT NULL,
		content TEXT NOT NULL,
		settings JSONB,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		deleted_at TIMESTAMP,
		PRIMARY KEY (id, version)
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id BIGSERIAL PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		permalink VARCHAR(2048),
		content TEXT,
		excerpt TEXT,
		post_type VARCHAR(32) NOT NULL,
		status VARCHAR(20) NOT NULL,
		images JSONB,
		published_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_type_status ON posts (post_type, status)`,
	`CREATE TABLE IF NOT EXISTS post_types (
		name VARCHAR(32) PRIMARY KEY,
		label VARCHAR(64) NOT NULL,
		archive_url VARCHAR(2048),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS campaigns (
		id UUID PRIMARY KEY,
		name VARCHAR(64) NOT NULL,
		template_id VARCHAR(32) NOT NULL,
		template_version BIGINT NOT NULL,
		subject VARCHAR(255),
		slot_assignments JSONB,
		status VARCHAR(20) NOT NULL,
		sent_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_campaigns_template ON campaigns (template_id)`,
}
