package sqlite

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Versions must be sequential starting from 1. Dates are stored as
// YYYY-MM-DD text so that lexical order is chronological order.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS givers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    contact TEXT NOT NULL DEFAULT '',
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS categories (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    name TEXT NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

CREATE TABLE IF NOT EXISTS gifts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    user_id INTEGER NOT NULL,
    title TEXT NOT NULL,
    memo TEXT NOT NULL DEFAULT '',
    giver_id INTEGER,
    category_id INTEGER,
    received_date TEXT NOT NULL,
    thank_you_sent INTEGER NOT NULL DEFAULT 0,
    return_due_date TEXT,
    return_done INTEGER NOT NULL DEFAULT 0,
    FOREIGN KEY (user_id) REFERENCES users(id),
    FOREIGN KEY (giver_id) REFERENCES givers(id),
    FOREIGN KEY (category_id) REFERENCES categories(id)
);

CREATE INDEX IF NOT EXISTS idx_givers_user_id ON givers(user_id);
CREATE INDEX IF NOT EXISTS idx_categories_user_id ON categories(user_id);
CREATE INDEX IF NOT EXISTS idx_gifts_user_id ON gifts(user_id);
`,
	},
	{
		// Amounts were added after the first release.
		version: 2,
		sql: `
ALTER TABLE gifts ADD COLUMN amount INTEGER;

CREATE INDEX IF NOT EXISTS idx_gifts_user_received ON gifts(user_id, received_date);
CREATE INDEX IF NOT EXISTS idx_gifts_user_return ON gifts(user_id, return_done, return_due_date);
`,
	},
}
