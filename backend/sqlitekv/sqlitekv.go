// Package sqlitekv is a DBM-flavored kv.Backend over a single SQLite table,
// in the spirit of the classic "everything is a (key, value) row" embedded
// stores: one BLOB primary key, one BLOB value, opened through
// jmoiron/sqlx and mattn/go-sqlite3.
package sqlitekv

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/oba-ldap/gobj/errs"
	"github.com/oba-ldap/gobj/kv"
)

const schema = `
CREATE TABLE IF NOT EXISTS kv (
	key   BLOB PRIMARY KEY,
	value BLOB NOT NULL
);`

// Backend is a kv.Backend persisting into a single SQLite file. It
// advertises CapFilesystem: every key maps onto a row in one file, so Path
// returns that file's path rather than a per-key location.
type Backend struct {
	db   *sqlx.DB
	path string
}

// Open opens (creating if absent) a SQLite-backed store at path.
func Open(path string) (*Backend, error) {
	db, err := sqlx.Connect("sqlite3", path)
	if err != nil {
		return nil, errs.NewBackendFailure(path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errs.NewBackendFailure(path, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &Backend{db: db, path: abs}, nil
}

var _ kv.Backend = (*Backend)(nil)
var _ kv.PathProbe = (*Backend)(nil)

// Add implements kv.Backend.
func (b *Backend) Add(ctx context.Context, key string, value []byte) error {
	_, err := b.db.ExecContext(ctx, `INSERT INTO kv (key, value) VALUES (?, ?)`, key, value)
	if err != nil {
		if isUniqueViolation(err) {
			return errs.NewAlreadyExists("", key)
		}
		return errs.NewBackendFailure(key, err)
	}
	return nil
}

// Update implements kv.Backend.
func (b *Backend) Update(ctx context.Context, key string, value []byte) error {
	_, err := b.db.ExecContext(ctx,
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return errs.NewBackendFailure(key, err)
	}
	return nil
}

// Get implements kv.Backend.
func (b *Backend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	err := b.db.GetContext(ctx, &value, `SELECT value FROM kv WHERE key = ?`, key)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.NewBackendFailure(key, err)
	}
	return value, true, nil
}

// Has implements kv.Backend.
func (b *Backend) Has(ctx context.Context, key string) (bool, error) {
	var count int
	if err := b.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM kv WHERE key = ?`, key); err != nil {
		return false, errs.NewBackendFailure(key, err)
	}
	return count > 0, nil
}

// Remove implements kv.Backend.
func (b *Backend) Remove(ctx context.Context, key string) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, key); err != nil {
		return errs.NewBackendFailure(key, err)
	}
	return nil
}

// Keys implements kv.Backend.
func (b *Backend) Keys(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	err := b.db.SelectContext(ctx, &keys,
		`SELECT key FROM kv WHERE key >= ? AND key < ? ORDER BY key`,
		prefix, prefixUpperBound(prefix))
	if err != nil {
		return nil, errs.NewBackendFailure(prefix, err)
	}
	return keys, nil
}

// Sync implements kv.Backend by issuing a WAL checkpoint.
func (b *Backend) Sync(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, `PRAGMA wal_checkpoint(FULL)`); err != nil {
		return errs.NewBackendFailure(b.path, err)
	}
	return nil
}

// Clear implements kv.Backend.
func (b *Backend) Clear(ctx context.Context) error {
	if _, err := b.db.ExecContext(ctx, `DELETE FROM kv`); err != nil {
		return errs.NewBackendFailure(b.path, err)
	}
	return nil
}

// Capabilities implements kv.Backend.
func (b *Backend) Capabilities() map[kv.Capability]bool {
	return map[kv.Capability]bool{kv.CapFilesystem: true}
}

// Path implements kv.PathProbe; every key lives in the same database file.
func (b *Backend) Path(_ context.Context, _ string) (string, error) {
	return b.path, nil
}

// Close releases the underlying database handle.
func (b *Backend) Close() error {
	return b.db.Close()
}

func prefixUpperBound(prefix string) string {
	if prefix == "" {
		return string(rune(0x10FFFF))
	}
	bs := []byte(prefix)
	bs[len(bs)-1]++
	return string(bs)
}

func isUniqueViolation(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "PRIMARY KEY must be unique"))
}
