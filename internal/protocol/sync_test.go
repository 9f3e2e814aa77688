package protocol

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dberzins/budgetsync/internal/common"
	"github.com/dberzins/budgetsync/internal/models"
)

func TestValidateAcceptsEmptyRound(t *testing.T) {
	req := &Request{LastSyncAt: 100}
	require.NoError(t, req.Validate())
}

func TestValidateRejectsNegativeCursor(t *testing.T) {
	req := &Request{LastSyncAt: -1}
	assert.True(t, errors.Is(req.Validate(), common.ErrMalformedRecord))
}

func TestValidateRejectsRecordWithoutID(t *testing.T) {
	req := &Request{
		Budgets: []*models.Budget{{
			SyncMeta: models.SyncMeta{UpdatedAt: 100},
			Name:     "No id",
		}},
	}
	assert.True(t, errors.Is(req.Validate(), common.ErrMalformedRecord))
}

func TestValidateRejectsOrphanRecord(t *testing.T) {
	req := &Request{
		Categories: []*models.Category{{
			SyncMeta: models.SyncMeta{ID: "c1", UpdatedAt: 100},
			Name:     "No budget",
		}},
	}
	assert.True(t, errors.Is(req.Validate(), common.ErrMalformedRecord))
}

func TestValidateAcceptsTombstone(t *testing.T) {
	req := &Request{
		Budgets: []*models.Budget{{
			SyncMeta: models.SyncMeta{ID: "b1", CreatedAt: 50, UpdatedAt: 100, Deleted: true},
			Name:     "Gone",
			Type:     models.BudgetTypeTime,
		}},
	}
	require.NoError(t, req.Validate())
}
