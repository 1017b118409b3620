package storage

import "fmt"

// migrate runs all database migrations
func (a *SQLAdapter) migrate() error {
	migrations := []string{
		migrationCreateKVStore,
		migrationCreateKVIndex,
	}

	for i, m := range migrations {
		if _, err := a.db.Exec(m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	return nil
}

// Both dialects accept this DDL; TEXT holds the JSON document verbatim.
const migrationCreateKVStore = `
CREATE TABLE IF NOT EXISTS kv_store (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

const migrationCreateKVIndex = `
CREATE INDEX IF NOT EXISTS idx_kv_store_updated ON kv_store(updated_at);
`
