package models

import "fmt"

// Entry is one logged block of time against a category.
// Date is "YYYY-MM-DD"; StartTime/EndTime are optional "HH:MM" strings.
type Entry struct {
	SyncMeta
	BudgetID   string  `json:"budgetId"`
	CategoryID string  `json:"categoryId"`
	Date       string  `json:"date"`
	Quantity   float64 `json:"quantity"`
	StartTime  *string `json:"startTime,omitempty"`
	EndTime    *string `json:"endTime,omitempty"`
	Note       *string `json:"note,omitempty"`
}

func (e *Entry) Validate() error {
	if e.ID == "" || e.UpdatedAt <= 0 {
		return fmt.Errorf("entry: %w", errMissingSyncMeta)
	}
	if e.BudgetID == "" || e.CategoryID == "" {
		return fmt.Errorf("entry %s: %w", e.ID, errMissingParent)
	}
	return nil
}
