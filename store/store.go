// Package store persists catalog records in a single SQLite table.
//
// Every exported call runs as its own unit of work: it either commits or
// leaves the table untouched. Failures are wrapped with ErrStorage.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/quietstream/quietstream/log"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS Stream (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL,
    link TEXT NOT NULL,
    categories TEXT NOT NULL DEFAULT '',
    kind TEXT NOT NULL DEFAULT 'Stream'
)`

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
	lockRetryDelay          = 50 * time.Millisecond
)

// Store is the SQLite-backed record table.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open connects to the database at path, creating the file and the table when absent.
// An existing table is used as is.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, storageErr("open", errors.New("database path is empty"))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, storageErr("create data directory", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, storageErr("open sqlite db", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, storageErr(fmt.Sprintf("apply pragma %q", pragma), execErr)
		}
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, storageErr("create table", err)
	}

	log.Infof("opened catalog database at %s", path)
	return &Store{
		db:   db,
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Exclusive runs fn while holding the catalog lock file, so that bulk writers
// in separate processes do not interleave their duplicate checks.
// It waits for the lock until ctx is done.
func (s *Store) Exclusive(ctx context.Context, fn func() error) error {
	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: %w", ErrLocked, ctx.Err())
		}
		return storageErr("acquire lock", err)
	}
	if !locked {
		return ErrLocked
	}
	defer func() {
		if unlockErr := s.lock.Unlock(); unlockErr != nil {
			log.Warnf("release catalog lock: %v", unlockErr)
		}
	}()
	return fn()
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		log.Debugf("database busy, retrying in %s", delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

// inTx runs fn inside a transaction, committing on success and rolling back otherwise.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		if err := fn(tx); err != nil {
			_ = tx.Rollback()
			return err
		}
		return tx.Commit()
	})
}
