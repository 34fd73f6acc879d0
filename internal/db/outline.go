package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sitetoc/sitetoc/internal/toc"
)

// ErrNotFound is returned when a page has no recorded outline.
var ErrNotFound = errors.New("db: page not found")

// PageOutline is the recorded table of contents of one built page.
type PageOutline struct {
	Path    string    `json:"path"`
	Title   string    `json:"title"`
	TOC     toc.TOC   `json:"toc"`
	BuiltAt time.Time `json:"built_at"`
}

// PageSummary is a listing row for a built page.
type PageSummary struct {
	Path     string    `json:"path"`
	Title    string    `json:"title"`
	Headings int       `json:"headings"`
	BuiltAt  time.Time `json:"built_at"`
}

// SavePage replaces the recorded outline of p.Path.
func (d *DB) SavePage(ctx context.Context, p PageOutline) error {
	if p.BuiltAt.IsZero() {
		p.BuiltAt = time.Now().UTC()
	}

	tx, err := d.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM headings WHERE page_path = ?`, p.Path); err != nil {
		return fmt.Errorf("clearing headings of %s: %w", p.Path, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO pages (path, title, toc_title, built_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET title = excluded.title, toc_title = excluded.toc_title, built_at = excluded.built_at`,
		p.Path, p.Title, p.TOC.Title, p.BuiltAt,
	); err != nil {
		return fmt.Errorf("saving page %s: %w", p.Path, err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO headings (page_path, position, level, anchor, text) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing heading insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range p.TOC.Entries {
		if _, err := stmt.ExecContext(ctx, p.Path, i, e.Level, e.ID, e.Text); err != nil {
			return fmt.Errorf("saving heading %d of %s: %w", i, p.Path, err)
		}
	}

	return tx.Commit()
}

// Page returns the recorded outline of path, or ErrNotFound.
func (d *DB) Page(ctx context.Context, path string) (*PageOutline, error) {
	p := &PageOutline{Path: path}
	err := d.QueryRowContext(ctx,
		`SELECT title, toc_title, built_at FROM pages WHERE path = ?`, path,
	).Scan(&p.Title, &p.TOC.Title, &p.BuiltAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading page %s: %w", path, err)
	}

	rows, err := d.QueryContext(ctx,
		`SELECT level, anchor, text FROM headings WHERE page_path = ? ORDER BY position`, path)
	if err != nil {
		return nil, fmt.Errorf("loading headings of %s: %w", path, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e toc.Entry
		if err := rows.Scan(&e.Level, &e.ID, &e.Text); err != nil {
			return nil, err
		}
		p.TOC.Entries = append(p.TOC.Entries, e)
	}
	return p, rows.Err()
}

// Pages lists every recorded page ordered by path.
func (d *DB) Pages(ctx context.Context) ([]PageSummary, error) {
	rows, err := d.QueryContext(ctx, `
		SELECT p.path, p.title, p.built_at, COUNT(h.position)
		FROM pages p LEFT JOIN headings h ON h.page_path = p.path
		GROUP BY p.path ORDER BY p.path`)
	if err != nil {
		return nil, fmt.Errorf("listing pages: %w", err)
	}
	defer rows.Close()

	var out []PageSummary
	for rows.Next() {
		var s PageSummary
		if err := rows.Scan(&s.Path, &s.Title, &s.BuiltAt, &s.Headings); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeletePagesNotIn removes pages whose path is not in keep, so a rebuild
// drops outlines of deleted sources.
func (d *DB) DeletePagesNotIn(ctx context.Context, keep []string) (int64, error) {
	existing, err := d.Pages(ctx)
	if err != nil {
		return 0, err
	}
	want := make(map[string]bool, len(keep))
	for _, k := range keep {
		want[k] = true
	}

	var removed int64
	for _, p := range existing {
		if want[p.Path] {
			continue
		}
		res, err := d.ExecContext(ctx, `DELETE FROM pages WHERE path = ?`, p.Path)
		if err != nil {
			return removed, fmt.Errorf("deleting page %s: %w", p.Path, err)
		}
		n, _ := res.RowsAffected()
		removed += n
	}
	return removed, nil
}
