package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps split read/write Bun connections.
type DB struct {
	WriteSQL *sql.DB
	ReadSQL  *sql.DB
	W        *bun.DB
	R        *bun.DB
}

// Options tune the connection pools.
type Options struct {
	ReadConns   int
	BusyTimeout time.Duration
	MaxLifetime time.Duration
}

var DefaultOptions = Options{
	ReadConns:   8,
	BusyTimeout: 5 * time.Second,
	MaxLifetime: 15 * time.Minute,
}

// OpenDB opens path with DefaultOptions.
func OpenDB(path string) (*DB, error) {
	return OpenDBWith(path, DefaultOptions)
}

// OpenDBWith initializes one immediate-tx writer and a pool of query-only
// readers. The parent directory of path is created when missing.
func OpenDBWith(path string, opts Options) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
	}
	if opts.ReadConns <= 0 {
		opts.ReadConns = DefaultOptions.ReadConns
	}
	if opts.BusyTimeout <= 0 {
		opts.BusyTimeout = DefaultOptions.BusyTimeout
	}

	wsql, err := sql.Open("sqlite3", dsn(path, opts, "_txlock", "immediate"))
	if err != nil {
		return nil, fmt.Errorf("open write db: %w", err)
	}
	wsql.SetMaxOpenConns(1)
	wsql.SetConnMaxLifetime(opts.MaxLifetime)
	if _, err := wsql.Exec("PRAGMA journal_mode = WAL"); err != nil {
		wsql.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}

	rsql, err := openReader(path, opts)
	if err != nil {
		wsql.Close()
		return nil, err
	}

	return &DB{
		WriteSQL: wsql,
		ReadSQL:  rsql,
		W:        bun.NewDB(wsql, sqlitedialect.New()),
		R:        bun.NewDB(rsql, sqlitedialect.New()),
	}, nil
}

func openReader(path string, opts Options) (*sql.DB, error) {
	rsql, err := sql.Open("sqlite3", dsn(path, opts, "mode", "ro", "_query_only", "1"))
	if err != nil {
		return nil, fmt.Errorf("open read db: %w", err)
	}
	// A brand-new file cannot be opened read-only until the writer creates it.
	if err := rsql.Ping(); err != nil && strings.Contains(err.Error(), "unable to open database file") {
		rsql.Close()
		if rsql, err = sql.Open("sqlite3", dsn(path, opts, "_query_only", "1")); err != nil {
			return nil, fmt.Errorf("open fallback read db: %w", err)
		}
	}
	rsql.SetMaxOpenConns(opts.ReadConns)
	rsql.SetConnMaxIdleTime(5 * time.Minute)
	rsql.SetConnMaxLifetime(opts.MaxLifetime)

	if _, err := rsql.Exec("PRAGMA query_only = ON"); err != nil {
		rsql.Close()
		return nil, fmt.Errorf("enable read query_only: %w", err)
	}
	return rsql, nil
}

// dsn builds a go-sqlite3 file URI; extra is a flat list of key, value pairs.
func dsn(path string, opts Options, extra ...string) string {
	q := url.Values{}
	q.Set("_foreign_keys", "on")
	q.Set("_busy_timeout", fmt.Sprint(opts.BusyTimeout.Milliseconds()))
	for i := 0; i+1 < len(extra); i += 2 {
		q.Set(extra[i], extra[i+1])
	}
	return "file:" + path + "?" + q.Encode()
}

// Ping checks both handles.
func (db *DB) Ping(ctx context.Context) error {
	if db == nil || db.W == nil || db.R == nil {
		return ErrNotInitialized
	}
	return errors.Join(db.W.PingContext(ctx), db.R.PingContext(ctx))
}

// Close closes read and write handles.
func (db *DB) Close() error {
	if db == nil {
		return nil
	}
	var errs []error
	if db.W != nil {
		errs = append(errs, db.W.Close())
	}
	if db.R != nil {
		errs = append(errs, db.R.Close())
	}
	return errors.Join(errs...)
}
