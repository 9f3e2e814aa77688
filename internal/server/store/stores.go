package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dberzins/budgetsync/internal/dbx"
	"github.com/dberzins/budgetsync/internal/models"
	"github.com/dberzins/budgetsync/internal/server/store/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Stores bundles the five collection stores over one handle. The merge
// engine constructs a fresh Stores over its transaction for each round.
type Stores struct {
	Budgets      *Collection[models.Budget]
	Categories   *Collection[models.Category]
	Entries      *Collection[models.Entry]
	Transactions *Collection[models.Transaction]
	Overrides    *Collection[models.PeriodOverride]

	db dbx.DBTX
}

func New(db dbx.DBTX) *Stores {
	return &Stores{
		Budgets:      NewCollection(db, budgetDescriptor()),
		Categories:   NewCollection(db, categoryDescriptor()),
		Entries:      NewCollection(db, entryDescriptor()),
		Transactions: NewCollection(db, transactionDescriptor()),
		Overrides:    NewCollection(db, overrideDescriptor()),
		db:           db,
	}
}

// ListActiveBudgets returns non-tombstoned budgets for the admin listing.
func (s *Stores) ListActiveBudgets(ctx context.Context) ([]*models.Budget, error) {
	c := s.Budgets
	query := fmt.Sprintf(`
		SELECT %s FROM budgets WHERE deleted = false ORDER BY created_at, id`,
		c.selectCols)
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to select budgets: %w", err)
	}
	return c.collect(rows)
}

// OpenDatabase opens the system-of-record database and applies embedded
// migrations.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return db, nil
}
