// Package protocol defines the sync endpoint's request and response bodies.
// All record fields cross the wire verbatim; the client-local dirty flag is
// a store column, not a model field, so it can never leak into a payload.
package protocol

import (
	"fmt"

	"github.com/dberzins/budgetsync/internal/common"
	"github.com/dberzins/budgetsync/internal/models"
)

// Request is one sync round's upload: the cursor from the previous round
// plus every dirty record per collection. Collections with nothing dirty
// are empty or absent.
type Request struct {
	LastSyncAt      int64                    `json:"lastSyncAt"`
	Budgets         []*models.Budget         `json:"budgets"`
	Categories      []*models.Category       `json:"categories"`
	Entries         []*models.Entry          `json:"entries"`
	PeriodOverrides []*models.PeriodOverride `json:"periodOverrides"`
	Transactions    []*models.Transaction    `json:"transactions"`
}

// Response carries every record (tombstones included) mutated after the
// request's cursor — which intentionally re-includes the client's own
// just-applied writes — and the new cursor value to persist.
type Response struct {
	Budgets         []*models.Budget         `json:"budgets"`
	Categories      []*models.Category       `json:"categories"`
	Entries         []*models.Entry          `json:"entries"`
	PeriodOverrides []*models.PeriodOverride `json:"periodOverrides"`
	Transactions    []*models.Transaction    `json:"transactions"`
	SyncedAt        int64                    `json:"syncedAt"`
}

type record interface {
	Validate() error
}

func validateBatch[T record](recs []T) error {
	for _, rec := range recs {
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("%w: %v", common.ErrMalformedRecord, err)
		}
	}
	return nil
}

// Validate rejects the whole round if any record in any batch is missing a
// required field. Partial application is never acceptable, so this runs
// before anything touches the store.
func (r *Request) Validate() error {
	if r.LastSyncAt < 0 {
		return fmt.Errorf("%w: negative cursor", common.ErrMalformedRecord)
	}
	if err := validateBatch(r.Budgets); err != nil {
		return err
	}
	if err := validateBatch(r.Categories); err != nil {
		return err
	}
	if err := validateBatch(r.Entries); err != nil {
		return err
	}
	if err := validateBatch(r.PeriodOverrides); err != nil {
		return err
	}
	return validateBatch(r.Transactions)
}
