package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	conn, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// Conservative pool settings for SQLite
	conn.SetMaxOpenConns(1) // SQLite is not great with many writers
	conn.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	// Fail fast if the DB cannot be reached
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return conn, nil
}

const schemaLightState = `
CREATE TABLE IF NOT EXISTS light_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    is_on BOOLEAN NOT NULL,
    updated_at TIMESTAMP NOT NULL
);
`

const schemaGateways = `
CREATE TABLE IF NOT EXISTS gateways (
    mac TEXT PRIMARY KEY,
    registered_at TIMESTAMP NOT NULL,
    last_seen TIMESTAMP NOT NULL,
    online BOOLEAN NOT NULL DEFAULT 1
);
`

const schemaNodeStatus = `
CREATE TABLE IF NOT EXISTS node_status (
    device_id TEXT PRIMARY KEY,
    brightness INTEGER NOT NULL,
    lux REAL NOT NULL,
    current_a REAL NOT NULL,
    gateway TEXT NOT NULL,
    reported_at TIMESTAMP NOT NULL
);
`

const schemaDeviceCommands = `
CREATE TABLE IF NOT EXISTS device_commands (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    gateway_mac TEXT NOT NULL,
    device_id TEXT NOT NULL,
    brightness INTEGER NOT NULL,
    enqueued_at TIMESTAMP NOT NULL
);
`

const schemaEvents = `
CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    occurred_at TIMESTAMP NOT NULL,
    type TEXT NOT NULL,
    message TEXT NOT NULL,
    meta TEXT
);
`

const schemaUsers = `
CREATE TABLE IF NOT EXISTS users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL
);
`

func ensureSchema(conn *sql.DB) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		// In case of panic, rollback to avoid leaving an open transaction
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaLightState,
		schemaGateways,
		schemaNodeStatus,
		schemaDeviceCommands,
		schemaEvents,
		schemaUsers,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
