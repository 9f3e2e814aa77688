// Package store implements the local record store: one SQLite table per
// replicated collection, each row carrying a tombstone flag and a
// local-only dirty flag. The store itself is the change log — a record
// mutated twice before a sync contributes its latest state once.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dberzins/budgetsync/internal/common"
	"github.com/dberzins/budgetsync/internal/dbx"
)

// Collection gives typed access to one collection's table. All operations
// are atomic at single-record granularity; no cross-collection transactions
// exist because each collection replicates independently.
type Collection[T any] struct {
	db dbx.DBTX
	d  Descriptor[T]

	putQuery      string
	putCleanQuery string
	selectCols    string
}

func NewCollection[T any](db dbx.DBTX, d Descriptor[T]) *Collection[T] {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(d.Columns)), ", ")

	// id and created_at never change after insert
	var set []string
	for _, col := range d.Columns[1:] {
		if col == "created_at" {
			continue
		}
		set = append(set, fmt.Sprintf("%s = excluded.%s", col, col))
	}
	setClause := strings.Join(set, ", ")

	upsert := `INSERT INTO %s (%s, dirty) VALUES (%s, %d)
		ON CONFLICT(id) DO UPDATE SET %s, dirty = %d`

	c := &Collection[T]{
		db:         db,
		d:          d,
		selectCols: strings.Join(d.Columns, ", "),
	}
	c.putQuery = fmt.Sprintf(upsert, d.Table, c.selectCols, placeholders, 1, setClause, 1)
	// A clean write is how server-confirmed state lands locally. It must
	// not clobber an edit made after the sync batch was read, so it only
	// applies when the incoming updated_at is at least the stored one.
	c.putCleanQuery = fmt.Sprintf(upsert, d.Table, c.selectCols, placeholders, 0, setClause, 0) +
		fmt.Sprintf(" WHERE excluded.updated_at >= %s.updated_at", d.Table)
	return c
}

// Get returns the record by id, or (nil, nil) when it does not exist or is
// tombstoned — a tombstoned record is logically absent.
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ? AND deleted = 0`, c.selectCols, c.d.Table)
	rec := new(T)
	err := c.db.QueryRowContext(ctx, query, id).Scan(c.d.Fields(rec)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get from %s: %w", c.d.Table, err)
	}
	return rec, nil
}

// ListAll returns every non-tombstoned record of the collection.
func (c *Collection[T]) ListAll(ctx context.Context) ([]*T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE deleted = 0`, c.selectCols, c.d.Table)
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select from %s: %w", c.d.Table, err)
	}
	return c.collect(rows)
}

// ListByParent returns the collection's non-tombstoned records under the
// given parent id.
func (c *Collection[T]) ListByParent(ctx context.Context, parentID string) ([]*T, error) {
	if c.d.ParentCol == "" {
		return nil, fmt.Errorf("%s has no parent index", c.d.Table)
	}
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = ? AND deleted = 0`, c.selectCols, c.d.Table, c.d.ParentCol)
	rows, err := c.db.QueryContext(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to select from %s: %w", c.d.Table, err)
	}
	return c.collect(rows)
}

// Put upserts a record and marks it dirty. The write is unconditional:
// within one replica, the last write in process wins.
func (c *Collection[T]) Put(ctx context.Context, rec *T) error {
	if _, err := c.db.ExecContext(ctx, c.putQuery, c.d.Fields(rec)...); err != nil {
		return fmt.Errorf("failed to upsert into %s: %w", c.d.Table, err)
	}
	return nil
}

// PutClean writes server-confirmed state without marking the record dirty.
// The write is skipped when the stored row carries a strictly newer
// updated_at (a local edit made after the sync batch was read); that row
// stays dirty and will be pushed on the next round.
func (c *Collection[T]) PutClean(ctx context.Context, rec *T) error {
	if _, err := c.db.ExecContext(ctx, c.putCleanQuery, c.d.Fields(rec)...); err != nil {
		return fmt.Errorf("failed to apply clean write to %s: %w", c.d.Table, err)
	}
	return nil
}

// SoftDelete sets the tombstone and dirty flags and bumps updated_at,
// preserving every other field. The row stays stored and sync-visible.
func (c *Collection[T]) SoftDelete(ctx context.Context, id string, timestamp int64) error {
	query := fmt.Sprintf(`UPDATE %s SET deleted = 1, dirty = 1, updated_at = ? WHERE id = ?`, c.d.Table)
	res, err := c.db.ExecContext(ctx, query, timestamp, id)
	if err != nil {
		return fmt.Errorf("failed to soft-delete from %s: %w", c.d.Table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

// ListDirty returns every record created or mutated since the last
// acknowledged sync, tombstoned ones included.
func (c *Collection[T]) ListDirty(ctx context.Context) ([]*T, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE dirty = 1`, c.selectCols, c.d.Table)
	rows, err := c.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select dirty from %s: %w", c.d.Table, err)
	}
	return c.collect(rows)
}

// CountDirty backs the interval resync trigger, which only fires when
// something is actually pending.
func (c *Collection[T]) CountDirty(ctx context.Context) (int, error) {
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE dirty = 1`, c.d.Table)
	var n int
	if err := c.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count dirty in %s: %w", c.d.Table, err)
	}
	return n, nil
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
