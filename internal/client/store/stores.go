package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dberzins/budgetsync/internal/client/store/migrations"
	"github.com/dberzins/budgetsync/internal/dbx"
	"github.com/dberzins/budgetsync/internal/models"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

// Stores bundles the five collection stores over one database handle.
type Stores struct {
	Budgets      *Collection[models.Budget]
	Categories   *Collection[models.Category]
	Entries      *Collection[models.Entry]
	Transactions *Collection[models.Transaction]
	Overrides    *Collection[models.PeriodOverride]
}

func New(db dbx.DBTX) *Stores {
	return &Stores{
		Budgets:      NewCollection(db, budgetDescriptor()),
		Categories:   NewCollection(db, categoryDescriptor()),
		Entries:      NewCollection(db, entryDescriptor()),
		Transactions: NewCollection(db, transactionDescriptor()),
		Overrides:    NewCollection(db, overrideDescriptor()),
	}
}

// CountDirty sums pending records across all collections.
func (s *Stores) CountDirty(ctx context.Context) (int, error) {
	total := 0
	for _, count := range []func(context.Context) (int, error){
		s.Budgets.CountDirty,
		s.Categories.CountDirty,
		s.Entries.CountDirty,
		s.Transactions.CountDirty,
		s.Overrides.CountDirty,
	} {
		n, err := count(ctx)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

// OpenDatabase opens the local replica and applies embedded migrations.
func OpenDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open local db: %w", err)
	}

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}
