// Package database owns the embedded SQLite connection shared by every
// repository. The pool is capped at one connection so SQLite serializes all
// statements: there is exactly one writer at a time and a committed write is
// visible to the next read.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/ghuser/salesdesk/pkg/logger"
)

// ErrUnavailable is returned when the database file cannot be opened or
// pinged within the configured timeout, or stays busy, even after one retry.
var ErrUnavailable = errors.New("database unavailable")

const (
	driverName   = "sqlite"
	retryBackoff = 250 * time.Millisecond
)

// Options configures Open.
type Options struct {
	// Path is the SQLite file. Parent directories are created.
	Path string
	// Timeout bounds connection acquisition and is also used as the SQLite
	// busy timeout.
	Timeout time.Duration
}

// Database wraps *sql.DB with transaction helpers.
type Database struct {
	db   *sql.DB
	path string
	log  logger.Logger
}

// Open opens (creating if needed) the SQLite database at opts.Path and
// verifies it responds within opts.Timeout. A failed attempt is retried once
// after a short backoff; the second failure is wrapped in ErrUnavailable.
func Open(ctx context.Context, opts Options, log logger.Logger) (*Database, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}

	d, err := open(ctx, opts)
	if err != nil {
		log.WarnContext(ctx, "database open failed, retrying once",
			"path", opts.Path, "backoff", retryBackoff, "error", err)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
		case <-time.After(retryBackoff):
		}
		d, err = open(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
	}

	d.log = log
	return d, nil
}

func open(ctx context.Context, opts Options) (*Database, error) {
	if dir := filepath.Dir(opts.Path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open(driverName, dsn(opts))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pingCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Database{db: db, path: opts.Path}, nil
}

// dsn builds a modernc.org/sqlite URI with the pragmas every connection needs.
func dsn(opts Options) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", opts.Timeout.Milliseconds()))
	q.Add("_pragma", "synchronous(NORMAL)")
	q.Set("_txlock", "immediate")
	return "file:" + opts.Path + "?" + q.Encode()
}

// DB returns the underlying *sql.DB.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Path returns the database file path.
func (d *Database) Path() string {
	return d.path
}

// WithTx runs fn inside a transaction. The transaction is committed when fn
// returns nil and rolled back otherwise. A transaction that fails because the
// database is busy is rerun once through Retry, so fn must tolerate being
// called twice.
func (d *Database) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return d.Retry(ctx, func(ctx context.Context) error {
		return d.withTx(ctx, fn)
	})
}

func (d *Database) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && d.log != nil {
			d.log.ErrorContext(ctx, "rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// Retry runs op and, when it fails because the database is busy, runs it once
// more after a short backoff. A failure that is still busy is wrapped in
// ErrUnavailable; any other error is returned as is.
func (d *Database) Retry(ctx context.Context, op func(ctx context.Context) error) error {
	err := op(ctx)
	if err == nil || !IsBusy(err) {
		return err
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	if d.log != nil {
		d.log.WarnContext(ctx, "database busy, retrying once", "backoff", retryBackoff, "error", err)
	}
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	case <-time.After(retryBackoff):
	}

	if err = op(ctx); err != nil && IsBusy(err) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return err
}

// IsBusy reports whether err means the database could not be reached in
// time: SQLITE_BUSY or SQLITE_LOCKED after the busy timeout, or a deadline
// hit while waiting for the connection.
func IsBusy(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var sqlErr *sqlite.Error
	if !errors.As(err, &sqlErr) {
		return false
	}
	switch sqlErr.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}

// Backup writes a consistent point-in-time copy of the database to dest using
// VACUUM INTO. SQLite holds a read transaction for the duration of the copy,
// and the single-connection pool keeps writers out until it finishes.
func (d *Database) Backup(ctx context.Context, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create backup directory: %w", err)
	}
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("backup target %s already exists", dest)
	}
	return d.Retry(ctx, func(ctx context.Context) error {
		if _, err := d.db.ExecContext(ctx, "VACUUM INTO ?", dest); err != nil {
			return fmt.Errorf("vacuum into %s: %w", dest, err)
		}
		return nil
	})
}

// Ping checks the database connection health.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (d *Database) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}
