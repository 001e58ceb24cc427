package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	username     TEXT NOT NULL UNIQUE,
	email        TEXT NOT NULL,
	preferences  TEXT NOT NULL DEFAULT '{}',
	created_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS tasks (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id      INTEGER NOT NULL REFERENCES users(id),
	title        TEXT NOT NULL,
	description  TEXT NOT NULL,
	status       TEXT NOT NULL,
	priority     TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL,
	updated_at   TIMESTAMP,
	completed_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS subtasks (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id      INTEGER NOT NULL REFERENCES tasks(id),
	title        TEXT NOT NULL,
	description  TEXT NOT NULL,
	agent_type   TEXT NOT NULL,
	order_index  INTEGER NOT NULL,
	status       TEXT NOT NULL,
	created_at   TIMESTAMP NOT NULL,
	completed_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS agent_executions (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	task_id       INTEGER NOT NULL REFERENCES tasks(id),
	subtask_id    INTEGER REFERENCES subtasks(id),
	agent_type    TEXT NOT NULL,
	input_data    TEXT NOT NULL DEFAULT '{}',
	output_data   TEXT,
	status        TEXT NOT NULL,
	error_message TEXT,
	started_at    TIMESTAMP NOT NULL,
	completed_at  TIMESTAMP
);

CREATE TABLE IF NOT EXISTS memories (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id       INTEGER NOT NULL REFERENCES users(id),
	memory_type   TEXT NOT NULL,
	key           TEXT NOT NULL,
	value         TEXT NOT NULL DEFAULT '{}',
	importance    INTEGER NOT NULL DEFAULT 5,
	created_at    TIMESTAMP NOT NULL,
	last_accessed TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_tasks_user      ON tasks(user_id);
CREATE INDEX IF NOT EXISTS idx_subtasks_task   ON subtasks(task_id);
CREATE INDEX IF NOT EXISTS idx_executions_task ON agent_executions(task_id);
CREATE INDEX IF NOT EXISTS idx_memories_user   ON memories(user_id);
`

// DB wraps a SQLite database handle and manages its lifecycle.
type DB struct {
	db *sql.DB
}

func Open(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the underlying database handle.
func (d *DB) Close() error {
	return d.db.Close()
}

// SQL returns the underlying database handle.
func (d *DB) SQL() *sql.DB {
	return d.db
}
