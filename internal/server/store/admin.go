package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dberzins/budgetsync/internal/common"
	"github.com/dberzins/budgetsync/internal/dbx"
	"github.com/dberzins/budgetsync/internal/models"
)

// Admin is the direct (non-sync) mutation path, used only by callers
// co-located with the system of record. Deletes here are hard and
// immediate: rows vanish, no tombstone is written, nothing replicates.
//
// Known interaction with the sync path: a device holding unsynced edits to
// a descendant of a hard-deleted parent will re-insert that descendant on
// its next round, because no tombstone exists to out-compete the upsert.
type Admin struct {
	db *sql.DB
}

func NewAdmin(db *sql.DB) *Admin {
	return &Admin{db: db}
}

// ListActiveBudgets returns non-tombstoned budgets for the admin listing.
func (a *Admin) ListActiveBudgets(ctx context.Context) ([]*models.Budget, error) {
	return New(a.db).ListActiveBudgets(ctx)
}

// CascadeDeleteBudget removes a budget and every descendant row in one
// transaction. Returns common.ErrNotFound when the budget does not exist.
func (a *Admin) CascadeDeleteBudget(ctx context.Context, id string) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, query := range []string{
			`DELETE FROM entries WHERE budget_id = $1`,
			`DELETE FROM transactions WHERE budget_id = $1`,
			`DELETE FROM period_overrides WHERE budget_id = $1`,
			`DELETE FROM categories WHERE budget_id = $1`,
		} {
			if _, err := tx.ExecContext(ctx, query, id); err != nil {
				return fmt.Errorf("cascade delete failed: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM budgets WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete budget: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			return common.ErrNotFound
		}
		return nil
	})
}

// CascadeDeleteCategory removes a category with its entries and overrides,
// and unfiles transactions that pointed at it. Same caveats as budget
// deletion.
func (a *Admin) CascadeDeleteCategory(ctx context.Context, id string) error {
	return dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, query := range []string{
			`DELETE FROM entries WHERE category_id = $1`,
			`DELETE FROM period_overrides WHERE category_id = $1`,
			`UPDATE transactions SET category_id = NULL WHERE category_id = $1`,
		} {
			if _, err := tx.ExecContext(ctx, query, id); err != nil {
				return fmt.Errorf("cascade delete failed: %w", err)
			}
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if n == 0 {
			return common.ErrNotFound
		}
		return nil
	})
}
