package sqlite

// Timestamps are unix nanoseconds so ORDER BY sorts chronologically.
// Every content column is nullable: rows written by other producers may be partial.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS notifications (
	id          TEXT PRIMARY KEY,
	user_id     TEXT NOT NULL,
	title       TEXT,
	message     TEXT,
	type        TEXT,
	resource_id TEXT,
	request_id  TEXT,
	created_at  INTEGER,
	read_at     INTEGER,
	read        INTEGER NOT NULL DEFAULT 0,
	city        TEXT
);

CREATE INDEX IF NOT EXISTS idx_notifications_user_created
	ON notifications (user_id, created_at DESC);

CREATE INDEX IF NOT EXISTS idx_notifications_user_unread
	ON notifications (user_id, read);
`
