package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gogotex/docregistry/internal/document"
	"github.com/mattn/go-sqlite3"
)

// SqliteRepo stores documents in a single SQLite table. The autoincrement
// seq column records insertion order.
//
//	documents(seq, id UNIQUE, name, description, created_at, updated_at)
type SqliteRepo struct {
	db *sql.DB
}

// NewSqliteRepo opens (creating if needed) the database at path.
// Use ":memory:" for an ephemeral database.
func NewSqliteRepo(path string) (*SqliteRepo, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	// one connection: keeps ":memory:" a single database and serializes writes
	db.SetMaxOpenConns(1)
	if path != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, err
		}
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		created_at INTEGER NOT NULL,
		updated_at INTEGER
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	return &SqliteRepo{db: db}, nil
}

func (s *SqliteRepo) Insert(ctx context.Context, doc *document.Document) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO documents (id, name, description, created_at, updated_at) VALUES (?, ?, ?, ?, ?)",
		doc.ID, doc.Name, doc.Description, doc.CreatedAt.UnixNano(), nullTime(doc.UpdatedAt),
	)
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrDuplicateID
		}
		return err
	}
	return nil
}

func (s *SqliteRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_at, updated_at FROM documents WHERE id = ?", id)
	d, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, document.ErrNotFound
	}
	return d, err
}

func (s *SqliteRepo) List(ctx context.Context) ([]*document.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description, created_at, updated_at FROM documents ORDER BY seq")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*document.Document{}
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SqliteRepo) Update(ctx context.Context, doc *document.Document) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE documents SET name = ?, description = ?, updated_at = ? WHERE id = ?",
		doc.Name, doc.Description, nullTime(doc.UpdatedAt), doc.ID,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return document.ErrNotFound
	}
	return nil
}

func (s *SqliteRepo) Delete(ctx context.Context, id string) (*document.Document, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		"SELECT id, name, description, created_at, updated_at FROM documents WHERE id = ?", id)
	d, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, document.ErrNotFound
		}
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *SqliteRepo) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SqliteRepo) Close() error {
	return s.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(r rowScanner) (*document.Document, error) {
	var (
		d       document.Document
		created int64
		updated sql.NullInt64
	)
	if err := r.Scan(&d.ID, &d.Name, &d.Description, &created, &updated); err != nil {
		return nil, err
	}
	d.CreatedAt = time.Unix(0, created).UTC()
	if updated.Valid {
		t := time.Unix(0, updated.Int64).UTC()
		d.UpdatedAt = &t
	}
	return &d, nil
}

func nullTime(t *time.Time) sql.NullInt64 {
	if t == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.UnixNano(), Valid: true}
}
