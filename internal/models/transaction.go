package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Transaction source types.
const (
	SourceTypeManual = "manual"
	SourceTypeImport = "ofx"
)

// Transaction is a money movement inside a money budget. Amount is signed:
// negative for spending, positive for income. CategoryID is optional until
// the user files the transaction; ExternalID carries the bank's own id for
// imported statements so re-imports stay idempotent.
type Transaction struct {
	SyncMeta
	BudgetID   string          `json:"budgetId"`
	CategoryID *string         `json:"categoryId"`
	Date       string          `json:"date"`
	Amount     decimal.Decimal `json:"amount"`
	Payee      string          `json:"payee"`
	Memo       *string         `json:"memo,omitempty"`
	ExternalID *string         `json:"externalId,omitempty"`
	SourceType string          `json:"sourceType"`
}

func (t *Transaction) Validate() error {
	if t.ID == "" || t.UpdatedAt <= 0 {
		return fmt.Errorf("transaction: %w", errMissingSyncMeta)
	}
	if t.BudgetID == "" {
		return fmt.Errorf("transaction %s: %w", t.ID, errMissingParent)
	}
	return nil
}
