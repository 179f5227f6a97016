package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	cerrors "cloudeng.io/errors"

	_ "modernc.org/sqlite"
)

var ErrFieldNotFound = errors.New("field not found")

// Field is the persisted text value of one host input.
type Field struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type fieldNotFoundError struct{ name string }

func (e *fieldNotFoundError) Error() string {
	return fmt.Sprintf("field not found: %s", e.name)
}

func (e *fieldNotFoundError) Unwrap() error { return ErrFieldNotFound }

func normalizeFieldName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("field name is empty")
	}
	return name, nil
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers (CLI, TUI and web at once).
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS fields (
			name TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at_unixms INTEGER NOT NULL
		);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// withDB opens the database, runs fn and closes it, reporting both errors.
func (s Store) withDB(ctx context.Context, fn func(*sql.DB) error) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	errs := &cerrors.M{}
	errs.Append(fn(db))
	errs.Append(db.Close())
	return errs.Err()
}

func (s Store) LoadField(ctx context.Context, name string) (Field, error) {
	name, err := normalizeFieldName(name)
	if err != nil {
		return Field{}, err
	}
	var f Field
	err = s.withDB(ctx, func(db *sql.DB) error {
		var ms int64
		row := db.QueryRowContext(ctx, `SELECT name, value, updated_at_unixms FROM fields WHERE name = ?`, name)
		if err := row.Scan(&f.Name, &f.Value, &ms); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return &fieldNotFoundError{name: name}
			}
			return err
		}
		f.UpdatedAt = time.UnixMilli(ms).UTC()
		return nil
	})
	if err != nil {
		return Field{}, err
	}
	return f, nil
}

// SaveField stores value under name, replacing any previous value.
func (s Store) SaveField(ctx context.Context, name, value string) (Field, error) {
	name, err := normalizeFieldName(name)
	if err != nil {
		return Field{}, err
	}
	f := Field{Name: name, Value: value, UpdatedAt: time.Now().UTC().Truncate(time.Millisecond)}
	err = s.withDB(ctx, func(db *sql.DB) error {
		_, err := db.ExecContext(ctx,
			`INSERT INTO fields(name, value, updated_at_unixms) VALUES(?, ?, ?)
			 ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at_unixms = excluded.updated_at_unixms`,
			f.Name, f.Value, f.UpdatedAt.UnixMilli())
		return err
	})
	if err != nil {
		return Field{}, err
	}
	return f, nil
}

// ListFields returns every stored field sorted by name.
func (s Store) ListFields(ctx context.Context) ([]Field, error) {
	out := []Field{}
	err := s.withDB(ctx, func(db *sql.DB) error {
		rows, err := db.QueryContext(ctx, `SELECT name, value, updated_at_unixms FROM fields ORDER BY name`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var f Field
			var ms int64
			if err := rows.Scan(&f.Name, &f.Value, &ms); err != nil {
				return err
			}
			f.UpdatedAt = time.UnixMilli(ms).UTC()
			out = append(out, f)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s Store) DeleteField(ctx context.Context, name string) error {
	name, err := normalizeFieldName(name)
	if err != nil {
		return err
	}
	return s.withDB(ctx, func(db *sql.DB) error {
		res, err := db.ExecContext(ctx, `DELETE FROM fields WHERE name = ?`, name)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return &fieldNotFoundError{name: name}
		}
		return nil
	})
}
