// Package catalog keeps a searchable index of the regions of many atlases
// in a SQLite database.
package catalog

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/ernie/spine-atlas/internal/atlas"
)

const schema = `
CREATE TABLE IF NOT EXISTS regions (
	source  TEXT    NOT NULL,
	seq     INTEGER NOT NULL,
	page    TEXT    NOT NULL,
	name    TEXT    NOT NULL,
	idx     INTEGER NOT NULL,
	rotate  INTEGER NOT NULL,
	x       INTEGER NOT NULL,
	y       INTEGER NOT NULL,
	width   INTEGER NOT NULL,
	height  INTEGER NOT NULL,
	u       REAL    NOT NULL,
	v       REAL    NOT NULL,
	u2      REAL    NOT NULL,
	v2      REAL    NOT NULL,
	PRIMARY KEY (source, seq)
);
CREATE INDEX IF NOT EXISTS regions_name ON regions (name);
`

// Entry is one region as stored in the catalog.
type Entry struct {
	Source        string
	Seq           int // declaration order within the source
	Page          string
	Name          string
	Index         int
	Rotate        bool
	X, Y          int
	Width, Height int
	U, V, U2, V2  float32
}

// SourceStats counts what the catalog holds for one atlas.
type SourceStats struct {
	Source  string
	Pages   int
	Regions int
}

// Catalog is an open region database.
type Catalog struct {
	db *sql.DB
}

// Open opens or creates the catalog database at path.
func Open(ctx context.Context, path string) (*Catalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

// Close closes the database.
func (c *Catalog) Close() error {
	return c.db.Close()
}

// Import replaces the rows of source with the regions of a. Returns the
// number of regions stored. A region without a page fails the import and
// leaves the previous rows of source untouched.
func (c *Catalog) Import(ctx context.Context, source string, a *atlas.Atlas) (int, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM regions WHERE source = ?`, source); err != nil {
		return 0, fmt.Errorf("clear %s: %w", source, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO regions
		(source, seq, page, name, idx, rotate, x, y, width, height, u, v, u2, v2)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for seq, r := range a.Regions() {
		if r.Page == nil {
			return 0, fmt.Errorf("insert %s: region has no page", r.Name)
		}
		_, err := stmt.ExecContext(ctx, source, seq, r.Page.Name, r.Name, r.Index, r.Rotate,
			r.X, r.Y, r.Width, r.Height, r.U, r.V, r.U2, r.V2)
		if err != nil {
			return 0, fmt.Errorf("insert %s: %w", r.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(a.Regions()), nil
}

// Lookup returns every region named name, ordered by source and then by
// declaration order.
func (c *Catalog) Lookup(ctx context.Context, name string) ([]Entry, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT source, seq, page, name, idx, rotate,
		x, y, width, height, u, v, u2, v2
		FROM regions WHERE name = ? ORDER BY source, seq`, name)
	if err != nil {
		return nil, fmt.Errorf("lookup %s: %w", name, err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var u, v, u2, v2 float64
		if err := rows.Scan(&e.Source, &e.Seq, &e.Page, &e.Name, &e.Index, &e.Rotate,
			&e.X, &e.Y, &e.Width, &e.Height, &u, &v, &u2, &v2); err != nil {
			return nil, fmt.Errorf("scan %s: %w", name, err)
		}
		e.U, e.V, e.U2, e.V2 = float32(u), float32(v), float32(u2), float32(v2)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats reports page and region counts per source, ordered by source.
func (c *Catalog) Stats(ctx context.Context) ([]SourceStats, error) {
	rows, err := c.db.QueryContext(ctx, `SELECT source, COUNT(DISTINCT page), COUNT(*)
		FROM regions GROUP BY source ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats []SourceStats
	for rows.Next() {
		var s SourceStats
		if err := rows.Scan(&s.Source, &s.Pages, &s.Regions); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
