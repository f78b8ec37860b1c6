package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS conversations (
	id               TEXT PRIMARY KEY,
	contact_phone    TEXT NOT NULL UNIQUE,
	contact_name     TEXT NOT NULL DEFAULT '',
	last_message     TEXT NOT NULL DEFAULT '',
	last_message_at  DATETIME NOT NULL,
	unread_count     INTEGER NOT NULL DEFAULT 0 CHECK(unread_count >= 0),
	user_has_replied INTEGER NOT NULL DEFAULT 0 CHECK(user_has_replied IN (0, 1)),
	pinned           INTEGER NOT NULL DEFAULT 0 CHECK(pinned IN (0, 1)),
	archived         INTEGER NOT NULL DEFAULT 0 CHECK(archived IN (0, 1)),
	blocked          INTEGER NOT NULL DEFAULT 0 CHECK(blocked IN (0, 1)),
	priority_context TEXT NOT NULL DEFAULT '',
	created_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS messages (
	id              TEXT PRIMARY KEY,
	conversation_id TEXT NOT NULL REFERENCES conversations(id) ON DELETE CASCADE,
	contact_phone   TEXT NOT NULL,
	contact_name    TEXT NOT NULL DEFAULT '',
	direction       TEXT NOT NULL CHECK(direction IN ('incoming', 'outgoing')),
	body            TEXT NOT NULL DEFAULT '',
	status          TEXT NOT NULL DEFAULT 'received',
	from_number     TEXT NOT NULL DEFAULT '',
	to_number       TEXT NOT NULL DEFAULT '',
	read            INTEGER NOT NULL DEFAULT 0 CHECK(read IN (0, 1)),
	analysis        TEXT NOT NULL DEFAULT '',
	created_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS contacts (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	phone      TEXT NOT NULL UNIQUE,
	notes      TEXT NOT NULL DEFAULT '',
	blocked    INTEGER NOT NULL DEFAULT 0 CHECK(blocked IN (0, 1)),
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS sources (
	id          TEXT PRIMARY KEY,
	type        TEXT NOT NULL,
	name        TEXT NOT NULL,
	base_url    TEXT NOT NULL DEFAULT '',
	enabled     INTEGER NOT NULL DEFAULT 1,
	poll_interval_sec INTEGER NOT NULL DEFAULT 120,
	config      TEXT NOT NULL DEFAULT '{}',
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_conversations_phone ON conversations(contact_phone);
CREATE INDEX IF NOT EXISTS idx_conversations_last_message_at ON conversations(last_message_at);
CREATE INDEX IF NOT EXISTS idx_messages_conversation_id ON messages(conversation_id);
CREATE INDEX IF NOT EXISTS idx_messages_created_at ON messages(created_at);
CREATE INDEX IF NOT EXISTS idx_contacts_phone ON contacts(phone);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE INDEX IF NOT EXISTS idx_messages_conversation_created
	ON messages(conversation_id, created_at);

CREATE INDEX IF NOT EXISTS idx_messages_read ON messages(read);
CREATE INDEX IF NOT EXISTS idx_conversations_archived ON conversations(archived);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
