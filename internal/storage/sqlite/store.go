// Package sqlite provides a SQLite-backed plugin storage implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"

	"github.com/dshills/gamemaker/internal/storage"
)

const schema = `
CREATE TABLE IF NOT EXISTS plugins (
  collection  TEXT    NOT NULL,
  key         TEXT    NOT NULL,
  name        TEXT    NOT NULL,
  description TEXT    NOT NULL DEFAULT '',
  source      TEXT    NOT NULL,
  created_at  INTEGER NOT NULL,
  usage_count INTEGER NOT NULL DEFAULT 0,
  PRIMARY KEY (collection, key)
);
CREATE INDEX IF NOT EXISTS plugins_created ON plugins (collection, created_at DESC);
`

// maxKeyAttempts bounds the collision suffixes tried by Save.
const maxKeyAttempts = 1000

// DB is an open plugin database holding any number of collections.
type DB struct {
	sqlDB *sql.DB
	now   func() time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite plugin database and creates its schema.
func Open(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &DB{sqlDB: sqlDB, now: time.Now}, nil
}

// SetNow replaces the clock used for creation times.
func (d *DB) SetNow(now func() time.Time) {
	d.now = now
}

// Close closes the SQLite handle.
func (d *DB) Close() error {
	if d == nil || d.sqlDB == nil {
		return nil
	}
	return d.sqlDB.Close()
}

// Collection returns the store for one named collection. limit bounds the
// number of plugins it holds; zero or less means no limit.
func (d *DB) Collection(name string, limit int) (*Store, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("collection name is required")
	}
	return &Store{db: d, collection: name, limit: limit}, nil
}

// Store is one collection inside a DB.
type Store struct {
	db         *DB
	collection string
	limit      int
}

// Collection returns the collection name.
func (s *Store) Collection() string { return s.collection }

func (s *Store) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil || s.db.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

// Fetch implements storage.Store.
func (s *Store) Fetch(ctx context.Context, key string) (string, error) {
	if err := s.check(ctx); err != nil {
		return "", err
	}

	var source string
	err := s.db.sqlDB.QueryRowContext(
		ctx,
		`SELECT source FROM plugins WHERE collection = ? AND key = ?`,
		s.collection, key,
	).Scan(&source)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("fetch %q: %w", key, storage.ErrNotFound)
		}
		return "", fmt.Errorf("fetch %q: %w", key, err)
	}
	return source, nil
}

// RecordUsage implements storage.Store.
func (s *Store) RecordUsage(ctx context.Context, key string) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	res, err := s.db.sqlDB.ExecContext(
		ctx,
		`UPDATE plugins SET usage_count = usage_count + 1 WHERE collection = ? AND key = ?`,
		s.collection, key,
	)
	if err != nil {
		return fmt.Errorf("record usage %q: %w", key, err)
	}
	return requireRow(res, "record usage", key)
}

// List implements storage.Store.
func (s *Store) List(ctx context.Context) ([]storage.Entry, error) {
	if err := s.check(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.sqlDB.QueryContext(
		ctx,
		`SELECT key, name, description, created_at, usage_count
		   FROM plugins
		  WHERE collection = ?
		  ORDER BY created_at DESC, key ASC`,
		s.collection,
	)
	if err != nil {
		return nil, fmt.Errorf("list plugins: %w", err)
	}
	defer rows.Close()

	var entries []storage.Entry
	for rows.Next() {
		var e storage.Entry
		var createdAt int64
		if err := rows.Scan(&e.Key, &e.Name, &e.Description, &createdAt, &e.UsageCount); err != nil {
			return nil, fmt.Errorf("scan plugin: %w", err)
		}
		e.CreatedAt = fromMillis(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate plugins: %w", err)
	}
	return entries, nil
}

// Delete implements storage.Store.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.check(ctx); err != nil {
		return err
	}

	res, err := s.db.sqlDB.ExecContext(
		ctx,
		`DELETE FROM plugins WHERE collection = ? AND key = ?`,
		s.collection, key,
	)
	if err != nil {
		return fmt.Errorf("delete %q: %w", key, err)
	}
	return requireRow(res, "delete", key)
}

// Save implements storage.Store. Collisions are resolved by retrying the
// insert with the next suffix.
func (s *Store) Save(ctx context.Context, name, source, description string) (string, error) {
	if err := s.check(ctx); err != nil {
		return "", err
	}
	base := storage.Sanitize(name)
	if base == "" {
		return "", fmt.Errorf("save %q: %w", name, storage.ErrInvalidName)
	}

	if s.limit > 0 {
		var count int
		err := s.db.sqlDB.QueryRowContext(
			ctx,
			`SELECT COUNT(*) FROM plugins WHERE collection = ?`,
			s.collection,
		).Scan(&count)
		if err != nil {
			return "", fmt.Errorf("count plugins: %w", err)
		}
		if count >= s.limit {
			return "", fmt.Errorf("save %q: %w (%d entries)", name, storage.ErrFull, s.limit)
		}
	}

	createdAt := toMillis(s.db.now())
	key := base
	for n := 1; n <= maxKeyAttempts; n++ {
		_, err := s.db.sqlDB.ExecContext(
			ctx,
			`INSERT INTO plugins (
			   collection,
			   key,
			   name,
			   description,
			   source,
			   created_at,
			   usage_count
			 ) VALUES (?, ?, ?, ?, ?, ?, 0)`,
			s.collection,
			key,
			name,
			description,
			source,
			createdAt,
		)
		if err == nil {
			return key, nil
		}
		if !isUniqueViolation(err) {
			return "", fmt.Errorf("save %q: %w", name, err)
		}
		key = fmt.Sprintf("%s_%d", base, n)
	}
	return "", fmt.Errorf("save %q: no free key after %d attempts", name, maxKeyAttempts)
}

func requireRow(res sql.Result, op, key string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s %q: %w", op, key, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %q: %w", op, key, storage.ErrNotFound)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "unique constraint failed")
}

var _ storage.Store = (*Store)(nil)
