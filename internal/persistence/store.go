package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/aristath/taskblaster/internal/board"
)

// Store is the storage collaborator of the board: an ordered relation with
// atomic read-modify-write. Every operation runs inside WithTx or View.
type Store interface {
	// WithTx runs fn in one write transaction. Any error from fn, or a
	// cancelled context, rolls everything back.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// View runs fn against the database without taking the write lock.
	View(ctx context.Context, fn func(tx Tx) error) error

	Close() error
}

// Options tunes the SQLite connection pool.
type Options struct {
	MaxOpenConns int           // Defaults to 4
	BusyTimeout  time.Duration // Defaults to 5s
}

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the database at dbPath.
// Enables WAL mode, foreign keys, busy timeout and immediate transactions,
// so a transaction holds the write lock from its first read.
func NewSQLiteStore(ctx context.Context, dbPath string, opts Options) (*SQLiteStore, error) {
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 4
	}
	if opts.BusyTimeout <= 0 {
		opts.BusyTimeout = 5 * time.Second
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create parent directories: %w", err)
	}

	connStr := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(%d)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)&_txlock=immediate",
		dbPath, opts.BusyTimeout.Milliseconds(),
	)
	return open(ctx, connStr, opts.MaxOpenConns)
}

// NewMemoryStore creates an in-memory SQLite store for testing.
// Each call gets its own database; a single connection avoids shared-cache
// table locks between writers.
func NewMemoryStore(ctx context.Context) (*SQLiteStore, error) {
	connStr := fmt.Sprintf("file:mem-%s?mode=memory&cache=shared&_pragma=foreign_keys(1)&_txlock=immediate", uuid.NewString())
	return open(ctx, connStr, 1)
}

func open(ctx context.Context, connStr string, maxConns int) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(maxConns)

	// Belt and braces: some driver builds ignore _pragma in memory URIs.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}

	// Initialize schema
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// WithTx implements Store.
func (s *SQLiteStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", classify(err))
	}
	defer tx.Rollback()

	if err := fn(&sqlTx{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", classify(err))
	}
	return nil
}

// View implements Store.
func (s *SQLiteStore) View(ctx context.Context, fn func(tx Tx) error) error {
	return fn(&sqlTx{q: s.db})
}

// SchemaVersion reports the applied schema version.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return v, nil
}

// Ping checks the database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return classify(s.db.PingContext(ctx))
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// classify maps driver errors onto board sentinels. Busy and locked
// databases become ErrConflict so callers can retry the whole transaction.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return board.ErrNotFound
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return fmt.Errorf("%w: %v", board.ErrConflict, err)
		}
		if se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE {
			return fmt.Errorf("%w: %v", board.ErrValidation, err)
		}
	}
	return err
}
