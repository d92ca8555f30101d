package db

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/mithrel/folio/pkg/api"
)

type sqliteStore struct{ db *sql.DB }

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// q returns the transaction carried by ctx, or the database handle.
func (s *sqliteStore) q(ctx context.Context) querier {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

// BeginTx implements TxProvider.
func (s *sqliteStore) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

const postColumns = `slug, title, content, author, date, category, created_at, updated_at, version`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(r rowScanner) (api.Post, error) {
	var p api.Post
	err := r.Scan(&p.Slug, &p.Title, &p.Content, &p.Author, &p.Date, &p.Category, &p.CreatedAt, &p.UpdatedAt, &p.Version)
	return p, err
}

func (s *sqliteStore) CreatePost(ctx context.Context, p api.Post) (api.Post, error) {
	if p.Slug == "" {
		return api.Post{}, ErrConflict
	}
	stamp(&p)
	p.Version = 1
	_, err := s.q(ctx).ExecContext(ctx, `INSERT INTO posts(`+postColumns+`) VALUES(?,?,?,?,?,?,?,?,?)`,
		p.Slug, p.Title, p.Content, p.Author, p.Date, p.Category, p.CreatedAt.UTC(), p.UpdatedAt.UTC(), p.Version)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			err = ErrConflict
		}
		return api.Post{}, err
	}
	return p, nil
}

func (s *sqliteStore) GetPost(ctx context.Context, slug string) (api.Post, error) {
	row := s.q(ctx).QueryRowContext(ctx, `SELECT `+postColumns+` FROM posts WHERE slug=?`, slug)
	p, err := scanPost(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return api.Post{}, ErrNotFound
		}
		return api.Post{}, err
	}
	return p, nil
}

func (s *sqliteStore) UpdatePostCAS(ctx context.Context, p api.Post, ifVersion int64) (api.Post, error) {
	now := time.Now().UTC()
	res, err := s.q(ctx).ExecContext(ctx, `UPDATE posts SET title=?, content=?, author=?, date=?, category=?, updated_at=?, version=version+1 WHERE slug=? AND version=?`,
		p.Title, p.Content, p.Author, p.Date, p.Category, now, p.Slug, ifVersion)
	if err != nil {
		return api.Post{}, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := s.GetPost(ctx, p.Slug); errors.Is(err, ErrNotFound) {
			return api.Post{}, ErrNotFound
		}
		return api.Post{}, ErrConflict
	}
	return s.GetPost(ctx, p.Slug)
}

func (s *sqliteStore) DeletePost(ctx context.Context, slug string) error {
	res, err := s.q(ctx).ExecContext(ctx, `DELETE FROM posts WHERE slug=?`, slug)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ListPosts returns posts newest first. The page cursor is the date and
// slug of the last row returned.
func (s *sqliteStore) ListPosts(ctx context.Context, q api.ListQuery) ([]api.Post, api.Page, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	conds := []string{}
	args := []any{}
	if q.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, q.Category)
	}
	if q.Since != "" {
		conds = append(conds, "date >= ?")
		args = append(args, q.Since)
	}
	if q.Until != "" {
		conds = append(conds, "date <= ?")
		args = append(args, q.Until)
	}
	if c, ok := parseCursorToken(q.Cursor); ok {
		conds = append(conds, "(date < ? OR (date = ? AND slug > ?))")
		args = append(args, c.date, c.date, c.slug)
	}
	sqlq := `SELECT ` + postColumns + ` FROM posts`
	if len(conds) > 0 {
		sqlq += "\nWHERE " + strings.Join(conds, " AND ")
	}
	sqlq += "\nORDER BY date DESC, slug ASC\nLIMIT ?"
	args = append(args, limit+1)

	rows, err := s.q(ctx).QueryContext(ctx, sqlq, args...)
	if err != nil {
		return nil, api.Page{}, err
	}
	defer rows.Close()

	var out []api.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, api.Page{}, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, api.Page{}, err
	}
	hasMore := len(out) > limit
	if hasMore {
		out = out[:limit]
	}
	return out, buildPage(out, hasMore), nil
}

func (s *sqliteStore) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.q(ctx).QueryContext(ctx, `SELECT DISTINCT category FROM posts WHERE category <> '' ORDER BY category`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// openSQLite connects to a SQLite database using the modernc.org/sqlite driver and ensures the schema exists.
func openSQLite(ctx context.Context, dsn string) (Store, io.Closer, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	dbh, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	return &sqliteStore{db: dbh}, dbh, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS posts (
  slug TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  content TEXT NOT NULL,
  author TEXT NOT NULL,
  date TEXT NOT NULL,
  category TEXT NOT NULL,
  created_at TIMESTAMP NOT NULL,
  updated_at TIMESTAMP NOT NULL,
  version INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_posts_date_slug ON posts(date DESC, slug);
CREATE INDEX IF NOT EXISTS idx_posts_category ON posts(category);
`)
	return err
}
