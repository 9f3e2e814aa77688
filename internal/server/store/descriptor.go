package store

import "github.com/dberzins/budgetsync/internal/models"

// Descriptor maps one replicated collection onto its table: name, column
// list and a Fields func returning pointers in column order, used for both
// binding and scanning so field access stays compile-checked.
type Descriptor[T any] struct {
	Table   string
	Columns []string
	Fields  func(*T) []any
	Meta    func(*T) *models.SyncMeta
}

func budgetDescriptor() Descriptor[models.Budget] {
	return Descriptor[models.Budget]{
		Table:   "budgets",
		Columns: []string{"id", "name", "type", "period_type", "period_start_day", "created_at", "updated_at", "deleted"},
		Fields: func(b *models.Budget) []any {
			return []any{&b.ID, &b.Name, &b.Type, &b.PeriodType, &b.PeriodStartDay, &b.CreatedAt, &b.UpdatedAt, &b.Deleted}
		},
		Meta: func(b *models.Budget) *models.SyncMeta { return &b.SyncMeta },
	}
}

func categoryDescriptor() Descriptor[models.Category] {
	return Descriptor[models.Category]{
		Table:   "categories",
		Columns: []string{"id", "budget_id", "name", "color", "target_amount", "sort_order", "created_at", "updated_at", "deleted"},
		Fields: func(c *models.Category) []any {
			return []any{&c.ID, &c.BudgetID, &c.Name, &c.Color, &c.TargetAmount, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt, &c.Deleted}
		},
		Meta: func(c *models.Category) *models.SyncMeta { return &c.SyncMeta },
	}
}

func entryDescriptor() Descriptor[models.Entry] {
	return Descriptor[models.Entry]{
		Table:   "entries",
		Columns: []string{"id", "budget_id", "category_id", "date", "quantity", "start_time", "end_time", "note", "created_at", "updated_at", "deleted"},
		Fields: func(e *models.Entry) []any {
			return []any{&e.ID, &e.BudgetID, &e.CategoryID, &e.Date, &e.Quantity, &e.StartTime, &e.EndTime, &e.Note, &e.CreatedAt, &e.UpdatedAt, &e.Deleted}
		},
		Meta: func(e *models.Entry) *models.SyncMeta { return &e.SyncMeta },
	}
}

func transactionDescriptor() Descriptor[models.Transaction] {
	return Descriptor[models.Transaction]{
		Table:   "transactions",
		Columns: []string{"id", "budget_id", "category_id", "date", "amount", "payee", "memo", "external_id", "source_type", "created_at", "updated_at", "deleted"},
		Fields: func(t *models.Transaction) []any {
			return []any{&t.ID, &t.BudgetID, &t.CategoryID, &t.Date, &t.Amount, &t.Payee, &t.Memo, &t.ExternalID, &t.SourceType, &t.CreatedAt, &t.UpdatedAt, &t.Deleted}
		},
		Meta: func(t *models.Transaction) *models.SyncMeta { return &t.SyncMeta },
	}
}

func overrideDescriptor() Descriptor[models.PeriodOverride] {
	return Descriptor[models.PeriodOverride]{
		Table:   "period_overrides",
		Columns: []string{"id", "budget_id", "category_id", "period_start", "target_amount", "created_at", "updated_at", "deleted"},
		Fields: func(o *models.PeriodOverride) []any {
			return []any{&o.ID, &o.BudgetID, &o.CategoryID, &o.PeriodStart, &o.TargetAmount, &o.CreatedAt, &o.UpdatedAt, &o.Deleted}
		},
		Meta: func(o *models.PeriodOverride) *models.SyncMeta { return &o.SyncMeta },
	}
}
