package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Category is a named bucket inside a budget. TargetAmount is hours for
// time budgets and money for money budgets.
type Category struct {
	SyncMeta
	BudgetID     string          `json:"budgetId"`
	Name         string          `json:"name"`
	Color        string          `json:"color"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
	SortOrder    int             `json:"sortOrder"`
}

func (c *Category) Validate() error {
	if c.ID == "" || c.UpdatedAt <= 0 {
		return fmt.Errorf("category: %w", errMissingSyncMeta)
	}
	if c.BudgetID == "" {
		return fmt.Errorf("category %s: %w", c.ID, errMissingParent)
	}
	return nil
}
