// ABOUTME: Database connection management for the SQLite memory store
// ABOUTME: Opens with WAL mode and foreign keys, applies schema on open
package memory

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Sentinel errors shared by all store operations.
var (
	// ErrIsolation indicates an operation attempted without a valid
	// user scope. No cross-user read or write ever proceeds.
	ErrIsolation = errors.New("memory: operation missing user scope")
	// ErrWriteFailed indicates a persistence failure. Callers keep the
	// exchange in memory so the session can continue.
	ErrWriteFailed = errors.New("memory: write failed")
)

// DB wraps the SQLite connection for the memory store.
type DB struct {
	conn *sql.DB
	path string
}

// OpenDB creates or opens a memory database at the given path.
func OpenDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(5000)", path)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{conn: conn, path: path}
	if err := db.initialize(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// OpenInMemory creates an in-memory database for testing.
func OpenInMemory() (*DB, error) {
	conn, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}

	// A single connection keeps the in-memory schema alive.
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn, path: ":memory:"}
	if err := db.initialize(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) initialize() error {
	if _, err := db.conn.Exec(Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Conn exposes the underlying connection for store constructors.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// querier is the subset of operations shared by *sql.DB and *sql.Tx,
// so update logic can run standalone or inside a transaction.
type querier interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}
