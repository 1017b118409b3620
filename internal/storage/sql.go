package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Driver names accepted by OpenSQL
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// SQLAdapter keeps documents in a kv_store table
type SQLAdapter struct {
	db     *sql.DB
	driver string
	quota  int64
}

// OpenSQL opens or creates the database and runs migrations. quota caps the total
// stored bytes; 0 disables the cap.
func OpenSQL(driver, dsn string, quota int64) (*SQLAdapter, error) {
	driver = strings.ToLower(driver)
	switch driver {
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to connect to database: %v", ErrUnavailable, err)
	}

	a := &SQLAdapter{db: db, driver: driver, quota: quota}
	if err := a.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return a, nil
}

// DefaultPath returns the default sqlite file (~/.lifelist/lifelist.db)
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".lifelist", "lifelist.db"), nil
}

// bind rewrites ? placeholders into $n for postgres
func (a *SQLAdapter) bind(query string) string {
	if a.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// usageQuery sums stored value sizes in bytes; LENGTH on text counts characters
func (a *SQLAdapter) usageQuery() string {
	size := "LENGTH(CAST(value AS BLOB))"
	if a.driver == DriverPostgres {
		size = "OCTET_LENGTH(value)"
	}
	return a.bind("SELECT COALESCE(SUM(" + size + "), 0) FROM kv_store WHERE key <> ?")
}

// Get returns the stored document
func (a *SQLAdapter) Get(key string) ([]byte, error) {
	var value string
	err := a.db.QueryRow(a.bind("SELECT value FROM kv_store WHERE key = ?"), key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return []byte(value), nil
}

// Set upserts a document, refusing writes that would exceed the quota
func (a *SQLAdapter) Set(key string, value []byte) error {
	if a.quota > 0 {
		var used int64
		err := a.db.QueryRow(a.usageQuery(), key).Scan(&used)
		if err != nil {
			return fmt.Errorf("failed to measure usage: %w", err)
		}
		if used+int64(len(value)) > a.quota {
			return fmt.Errorf("%w: %d of %d bytes", ErrQuotaExceeded, used+int64(len(value)), a.quota)
		}
	}

	_, err := a.db.Exec(a.bind(`
INSERT INTO kv_store (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		key, string(value), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Remove deletes a key; missing keys are not an error
func (a *SQLAdapter) Remove(key string) error {
	if _, err := a.db.Exec(a.bind("DELETE FROM kv_store WHERE key = ?"), key); err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Close closes the database connection
func (a *SQLAdapter) Close() error {
	return a.db.Close()
}
