// Package db owns the SQLite cache file that backs the kv store.
package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

//go:embed schema/schema.sql
var schemaSQL string

// FileName is the cache database file inside the data directory.
const FileName = "todo.db"

// OpenOptions configures the connection pool.
type OpenOptions struct {
	MaxOpenConns int
	BusyTimeout  time.Duration
	// Attempts bounds how often a locked database is retried on open.
	Attempts int
}

// DefaultOpenOptions returns options suited to a short-lived CLI process.
func DefaultOpenOptions() OpenOptions {
	return OpenOptions{
		MaxOpenConns: 2,
		BusyTimeout:  5 * time.Second,
		Attempts:     4,
	}
}

// DB is an open cache database.
type DB struct {
	conn    *sql.DB
	queries *Queries
}

// Path returns the cache database location for dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, FileName)
}

// Open opens or creates the cache in dataDir and ensures the schema exists.
// Errors from the driver are wrapped, so callers can inspect SQLite codes.
func Open(dataDir string, opts OpenOptions) (*DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)",
		Path(dataDir), opts.BusyTimeout.Milliseconds())

	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	conn.SetMaxOpenConns(opts.MaxOpenConns)

	if err := prepare(context.Background(), conn, opts.Attempts); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return &DB{conn: conn, queries: New(conn)}, nil
}

// prepare pings the database and applies the schema, backing off while
// another process holds the lock.
func prepare(ctx context.Context, conn *sql.DB, attempts int) error {
	wait := 50 * time.Millisecond

	var err error
	for i := 0; i < max(attempts, 1); i++ {
		if err = conn.PingContext(ctx); err == nil {
			if _, err = conn.ExecContext(ctx, schemaSQL); err == nil {
				return nil
			}
		}
		if !locked(err) {
			break
		}
		time.Sleep(wait)
		wait *= 2
	}

	return fmt.Errorf("prepare database: %w", err)
}

func locked(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	code := sqliteErr.Code() & 0xff
	return code == sqlite3.SQLITE_BUSY || code == sqlite3.SQLITE_LOCKED
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Queries returns the typed queries.
func (db *DB) Queries() *Queries {
	return db.queries
}
