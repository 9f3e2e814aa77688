// Package store implements the authoritative, system-of-record storage the
// merge engine runs against: per-collection last-writer-wins upserts, the
// changed-since-cursor sweep, and the non-replicated admin delete paths.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/dberzins/budgetsync/internal/dbx"
	"github.com/dberzins/budgetsync/internal/models"
)

// Collection is one replicated collection's table, bound to a DBTX so the
// merge engine can run every operation of a round inside one transaction.
type Collection[T any] struct {
	db dbx.DBTX
	d  Descriptor[T]

	upsertQuery string
	sinceQuery  string
	selectCols  string
}

func NewCollection[T any](db dbx.DBTX, d Descriptor[T]) *Collection[T] {
	placeholders := make([]string, len(d.Columns))
	for i := range d.Columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	// id and created_at are immutable; everything else follows the winner.
	var set []string
	for _, col := range d.Columns[1:] {
		if col == "created_at" {
			continue
		}
		set = append(set, fmt.Sprintf("%s = excluded.%s", col, col))
	}

	selectCols := strings.Join(d.Columns, ", ")

	c := &Collection[T]{db: db, d: d, selectCols: selectCols}
	c.upsertQuery = fmt.Sprintf(`
		INSERT INTO %s (%s) VALUES (%s)
		ON CONFLICT (id) DO UPDATE SET %s
		WHERE %s.updated_at < excluded.updated_at`,
		d.Table, selectCols, strings.Join(placeholders, ", "),
		strings.Join(set, ", "), d.Table)
	c.sinceQuery = fmt.Sprintf(`
		SELECT %s FROM %s WHERE updated_at > $1 ORDER BY updated_at, id`,
		selectCols, d.Table)
	return c
}

// MetaOf exposes a record's sync metadata to generic merge code.
func (c *Collection[T]) MetaOf(rec *T) *models.SyncMeta {
	return c.d.Meta(rec)
}

// UpsertIfNewer applies one incoming record with last-writer-wins
// semantics: insert when the id is unknown, overwrite when the incoming
// updated_at is strictly greater, silently discard otherwise. The stale
// case is not an error — the submitting replica receives the authoritative
// row through the same round's changed-since sweep. The comparison and the
// write happen in one statement, so they cannot be split across a race
// window.
func (c *Collection[T]) UpsertIfNewer(ctx context.Context, rec *T) error {
	if _, err := c.db.ExecContext(ctx, c.upsertQuery, c.d.Fields(rec)...); err != nil {
		return fmt.Errorf("failed to upsert into %s: %w", c.d.Table, err)
	}
	return nil
}

// UpdatedSince returns every row mutated after the cursor, tombstones
// included. This deliberately re-returns a client's own just-applied
// writes: simpler than tracking write ownership, and it guarantees the
// client ends a round holding exactly what the server holds.
func (c *Collection[T]) UpdatedSince(ctx context.Context, cursor int64) ([]*T, error) {
	rows, err := c.db.QueryContext(ctx, c.sinceQuery, cursor)
	if err != nil {
		return nil, fmt.Errorf("failed to select from %s: %w", c.d.Table, err)
	}
	return c.collect(rows)
}

func (c *Collection[T]) collect(rows *sql.Rows) ([]*T, error) {
	defer rows.Close()

	var result []*T
	for rows.Next() {
		rec := new(T)
		if err := rows.Scan(c.d.Fields(rec)...); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
