package models

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	errMissingSyncMeta = errors.New("missing id or updatedAt")
	errMissingParent   = errors.New("missing parent reference")
)

// PeriodOverride replaces a category's target for one specific period,
// identified by the period's start date ("YYYY-MM-DD").
type PeriodOverride struct {
	SyncMeta
	BudgetID     string          `json:"budgetId"`
	CategoryID   string          `json:"categoryId"`
	PeriodStart  string          `json:"periodStart"`
	TargetAmount decimal.Decimal `json:"targetAmount"`
}

func (o *PeriodOverride) Validate() error {
	if o.ID == "" || o.UpdatedAt <= 0 {
		return fmt.Errorf("periodOverride: %w", errMissingSyncMeta)
	}
	if o.BudgetID == "" || o.CategoryID == "" {
		return fmt.Errorf("periodOverride %s: %w", o.ID, errMissingParent)
	}
	return nil
}
