package store

import "github.com/dberzins/budgetsync/internal/models"

// Descriptor maps one replicated collection onto its local table. Columns
// and Fields must stay aligned: Fields returns pointers into the record in
// the exact column order, and serves both statement binding and row
// scanning, so adding a field is a compile-checked two-line change.
type Descriptor[T any] struct {
	// Table is the SQLite table name.
	Table string
	// ParentCol is the secondary-key column used by ListByParent
	// ("budget_id" everywhere except budgets themselves).
	ParentCol string
	// Columns lists every synced column, id first, sync metadata last.
	// The local-only dirty column is managed by the store, not listed.
	Columns []string
	// Fields returns pointers aligned with Columns.
	Fields func(*T) []any
}

func budgetDescriptor() Descriptor[models.Budget] {
	return Descriptor[models.Budget]{
		Table:   "budgets",
		Columns: []string{"id", "name", "type", "period_type", "period_start_day", "created_at", "updated_at", "deleted"},
		Fields: func(b *models.Budget) []any {
			return []any{&b.ID, &b.Name, &b.Type, &b.PeriodType, &b.PeriodStartDay, &b.CreatedAt, &b.UpdatedAt, &b.Deleted}
		},
	}
}

func categoryDescriptor() Descriptor[models.Category] {
	return Descriptor[models.Category]{
		Table:     "categories",
		ParentCol: "budget_id",
		Columns:   []string{"id", "budget_id", "name", "color", "target_amount", "sort_order", "created_at", "updated_at", "deleted"},
		Fields: func(c *models.Category) []any {
			return []any{&c.ID, &c.BudgetID, &c.Name, &c.Color, &c.TargetAmount, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt, &c.Deleted}
		},
	}
}

func entryDescriptor() Descriptor[models.Entry] {
	return Descriptor[models.Entry]{
		Table:     "entries",
		ParentCol: "budget_id",
		Columns:   []string{"id", "budget_id", "category_id", "date", "quantity", "start_time", "end_time", "note", "created_at", "updated_at", "deleted"},
		Fields: func(e *models.Entry) []any {
			return []any{&e.ID, &e.BudgetID, &e.CategoryID, &e.Date, &e.Quantity, &e.StartTime, &e.EndTime, &e.Note, &e.CreatedAt, &e.UpdatedAt, &e.Deleted}
		},
	}
}

func transactionDescriptor() Descriptor[models.Transaction] {
	return Descriptor[models.Transaction]{
		Table:     "transactions",
		ParentCol: "budget_id",
		Columns:   []string{"id", "budget_id", "category_id", "date", "amount", "payee", "memo", "external_id", "source_type", "created_at", "updated_at", "deleted"},
		Fields: func(t *models.Transaction) []any {
			return []any{&t.ID, &t.BudgetID, &t.CategoryID, &t.Date, &t.Amount, &t.Payee, &t.Memo, &t.ExternalID, &t.SourceType, &t.CreatedAt, &t.UpdatedAt, &t.Deleted}
		},
	}
}

func overrideDescriptor() Descriptor[models.PeriodOverride] {
	return Descriptor[models.PeriodOverride]{
		Table:     "period_overrides",
		ParentCol: "budget_id",
		Columns:   []string{"id", "budget_id", "category_id", "period_start", "target_amount", "created_at", "updated_at", "deleted"},
		Fields: func(o *models.PeriodOverride) []any {
			return []any{&o.ID, &o.BudgetID, &o.CategoryID, &o.PeriodStart, &o.TargetAmount, &o.CreatedAt, &o.UpdatedAt, &o.Deleted}
		},
	}
}
