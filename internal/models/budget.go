package models

import "fmt"

// Budget types. A time budget tracks hours per category, a money budget
// tracks transactions against category targets.
const (
	BudgetTypeTime  = "time"
	BudgetTypeMoney = "money"
)

// Budget period types.
const (
	PeriodTypeWeek  = "week"
	PeriodTypeMonth = "month"
)

// Budget is the root record of a collection tree; categories, entries,
// transactions and period overrides all reference one.
type Budget struct {
	SyncMeta
	Name       string `json:"name"`
	Type       string `json:"type"`
	PeriodType string `json:"periodType"`
	// PeriodStartDay is the day a period rolls over: weekday (0-6) for
	// weekly budgets, day of month (1-28) for monthly ones.
	PeriodStartDay int `json:"periodStartDay"`
}

func (b *Budget) Validate() error {
	if b.ID == "" || b.UpdatedAt <= 0 {
		return fmt.Errorf("budget: %w", errMissingSyncMeta)
	}
	return nil
}
