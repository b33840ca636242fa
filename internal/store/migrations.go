package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of journal schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS read_state_journal (
	id              TEXT PRIMARY KEY,
	op              TEXT NOT NULL CHECK(op IN ('mark_read', 'clear_all')),
	notification_id TEXT NOT NULL DEFAULT '',
	confirmed       INTEGER NOT NULL DEFAULT 0 CHECK(confirmed IN (0, 1)),
	error           TEXT NOT NULL DEFAULT '',
	at              DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_journal_at ON read_state_journal(at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_journal_notification
	ON read_state_journal(notification_id, confirmed);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
