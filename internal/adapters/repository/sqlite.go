package repository

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

	"github.com/okian/herofan/internal/domain/model"
)

const schema = `CREATE TABLE IF NOT EXISTS subscribers (
	id         TEXT    NOT NULL,
	email      TEXT    NOT NULL PRIMARY KEY,
	created_at INTEGER NOT NULL
)`

// SQLiteStore persists subscriptions in a SQLite file.
type SQLiteStore struct {
	db          *sql.DB
	busyTimeout time.Duration
	journalMode string
}

// OpenSQLite opens or creates the database at path and applies the schema.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	s := &SQLiteStore{busyTimeout: 5 * time.Second, journalMode: "WAL"}
	for _, opt := range opts {
		opt(s)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(%s)&_pragma=busy_timeout(%d)",
		filepath.Clean(path), s.journalMode, s.busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	s.db = db
	return s, nil
}

// Save implements Store.
func (s *SQLiteStore) Save(ctx context.Context, sub model.Subscription) error {
	created := sub.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO subscribers (id, email, created_at) VALUES (?, ?, ?)`,
		sub.ID, sub.Email, created.UTC().UnixMilli(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicate, sub.Email)
		}
		return fmt.Errorf("insert subscriber: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *SQLiteStore) Get(ctx context.Context, email string) (model.Subscription, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, email, created_at FROM subscribers WHERE email = ?`, email)
	sub, err := scanSubscription(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Subscription{}, fmt.Errorf("%w: %s", ErrNotFound, email)
	}
	if err != nil {
		return model.Subscription{}, fmt.Errorf("get subscriber: %w", err)
	}
	return sub, nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context) ([]model.Subscription, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, email, created_at FROM subscribers ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list subscribers: %w", err)
	}
	defer rows.Close()

	var out []model.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}

// Count implements Store.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM subscribers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count subscribers: %w", err)
	}
	return n, nil
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSubscription(row scanner) (model.Subscription, error) {
	var sub model.Subscription
	var created int64
	if err := row.Scan(&sub.ID, &sub.Email, &created); err != nil {
		return model.Subscription{}, err
	}
	sub.CreatedAt = time.UnixMilli(created).UTC()
	return sub, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(strings.ToLower(err.Error()), "unique constraint failed")
}
