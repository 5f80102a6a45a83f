package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const sqliteDriverName = "sqlite"

const schemaReadings = `
CREATE TABLE IF NOT EXISTS readings (
    id TEXT PRIMARY KEY,
    voltage REAL NOT NULL,
    current REAL NOT NULL,
    power REAL NOT NULL,
    esp_id TEXT NOT NULL DEFAULT '',
    recorded_at TIMESTAMP NOT NULL
);
`

const indexReadingsRecordedAt = `
CREATE INDEX IF NOT EXISTS idx_readings_recorded_at ON readings (recorded_at);
`

const indexReadingsEspID = `
CREATE INDEX IF NOT EXISTS idx_readings_esp_id ON readings (esp_id, recorded_at);
`

// Open opens/creates the SQLite file and ensures the readings schema exists.
func Open(path string) (*sql.DB, error) {
	conn, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// SQLite tolerates a single writer best
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("apply %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(conn); err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	return conn, nil
}

func ensureSchema(conn *sql.DB) error {
	for i, stmt := range []string{schemaReadings, indexReadingsRecordedAt, indexReadingsEspID} {
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
