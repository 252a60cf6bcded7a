package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Todos are embedded in the plants
// row as a JSON column rather than joined from their own table; a plant
// owns its reminders and they live and die with it. Actions deliberately
// carry no foreign key to plants: deleting a plant keeps its care log.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    username      TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    role          TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('admin', 'member')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_active
    ON users(username) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS areas (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS plants (
    id              TEXT PRIMARY KEY,
    name            TEXT NOT NULL,
    type            TEXT NOT NULL DEFAULT '',
    scientific_name TEXT NOT NULL DEFAULT '',
    description     TEXT NOT NULL DEFAULT '',
    img             TEXT NOT NULL DEFAULT '',
    photo           BLOB,
    photo_mime      TEXT,
    is_dead         INTEGER NOT NULL DEFAULT 0,
    area_id         TEXT REFERENCES areas(id) ON DELETE SET NULL,
    todos           TEXT NOT NULL DEFAULT '[]',
    created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS actions (
    id                  TEXT PRIMARY KEY,
    name                TEXT NOT NULL,
    plant_id            TEXT NOT NULL,
    time                INTEGER NOT NULL,
    remark              TEXT NOT NULL DEFAULT '',
    imgs                TEXT NOT NULL DEFAULT '[]',
    is_recurring        INTEGER NOT NULL DEFAULT 0,
    recurring_interval  INTEGER NOT NULL DEFAULT 0,
    parent_recurring_id TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_actions_plant ON actions(plant_id);
CREATE INDEX IF NOT EXISTS idx_actions_time ON actions(time);

CREATE TABLE IF NOT EXISTS action_types (
    name             TEXT PRIMARY KEY,
    icon_name        TEXT NOT NULL DEFAULT '',
    icon_pack        TEXT NOT NULL DEFAULT '',
    color            TEXT NOT NULL DEFAULT '',
    use_custom_image INTEGER NOT NULL DEFAULT 0
);
`

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at
// the end.
var migrations = []string{
	// Migration 1: seed the built-in action types. INSERT OR IGNORE keeps
	// user edits to colors/icons intact across restarts.
	`INSERT OR IGNORE INTO action_types (name, icon_name, icon_pack, color, use_custom_image) VALUES
	    ('Water', 'water', 'material-community', '#4F8EF7', 0),
	    ('Fertilize', 'bottle-tonic', 'material-community', '#7BC86C', 0),
	    ('Prune', 'content-cut', 'material-community', '#F5A623', 0),
	    ('Repot', 'shovel', 'material-community', '#B4876E', 0),
	    ('Spray', 'spray-bottle', 'material-community', '#61BD4F', 0)`,
}

// Migrate creates the schema and runs all migrations. Safe to call on
// every startup.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
