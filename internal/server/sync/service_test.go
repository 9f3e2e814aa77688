package sync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dberzins/budgetsync/internal/common"
	"github.com/dberzins/budgetsync/internal/logging"
	"github.com/dberzins/budgetsync/internal/models"
	"github.com/dberzins/budgetsync/internal/protocol"
	"github.com/dberzins/budgetsync/internal/server/store"
	"github.com/dberzins/budgetsync/internal/server/store/migrations"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

func setupService(t *testing.T) (*Service, *sql.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sql.Open("sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	require.NoError(t, goose.SetDialect("sqlite3"))
	require.NoError(t, goose.UpContext(context.Background(), db, "."))

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewService(db, logger), db
}

func budget(id string, ts int64, name string) *models.Budget {
	return &models.Budget{
		SyncMeta:   models.SyncMeta{ID: id, CreatedAt: ts, UpdatedAt: ts},
		Name:       name,
		Type:       models.BudgetTypeMoney,
		PeriodType: models.PeriodTypeMonth,
	}
}

func TestRoundTripReturnsOwnWrites(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	req := &protocol.Request{
		LastSyncAt: 0,
		Budgets:    []*models.Budget{budget("b1", 1000, "Groceries")},
	}
	resp, err := svc.Sync(ctx, req)
	require.NoError(t, err)

	// the round's answer confirms the client's own write and moves the
	// cursor to exactly the highest updated_at it returned
	require.Len(t, resp.Budgets, 1)
	assert.Equal(t, "b1", resp.Budgets[0].ID)
	assert.Equal(t, int64(1000), resp.SyncedAt)
}

func TestReplayIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	req := &protocol.Request{
		LastSyncAt: 0,
		Budgets:    []*models.Budget{budget("b1", 1000, "Groceries")},
	}

	// a round whose response was lost gets resent verbatim
	first, err := svc.Sync(ctx, req)
	require.NoError(t, err)
	second, err := svc.Sync(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, first.SyncedAt, second.SyncedAt)
	require.Len(t, second.Budgets, 1)
	assert.Equal(t, "Groceries", second.Budgets[0].Name)
}

func TestEmptyRoundAdvancesNothing(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	resp, err := svc.Sync(ctx, &protocol.Request{LastSyncAt: 500})
	require.NoError(t, err)
	assert.Equal(t, int64(500), resp.SyncedAt)
	assert.Empty(t, resp.Budgets)
}

func TestLastWriterWinsConvergence(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	// both devices start from the same synced record
	seed := budget("b1", 1000, "Groceries")
	_, err := svc.Sync(ctx, &protocol.Request{Budgets: []*models.Budget{seed}})
	require.NoError(t, err)

	// device A edits at t=1105, device B at t=1110; A syncs last
	fromB := budget("b1", 1110, "Groceries (B)")
	fromB.CreatedAt = 1000
	respB, err := svc.Sync(ctx, &protocol.Request{LastSyncAt: 1000, Budgets: []*models.Budget{fromB}})
	require.NoError(t, err)
	assert.Equal(t, "Groceries (B)", respB.Budgets[0].Name)

	fromA := budget("b1", 1105, "Groceries (A)")
	fromA.CreatedAt = 1000
	respA, err := svc.Sync(ctx, &protocol.Request{LastSyncAt: 1000, Budgets: []*models.Budget{fromA}})
	require.NoError(t, err)

	// A's stale write is discarded and A receives B's winning state
	require.Len(t, respA.Budgets, 1)
	assert.Equal(t, "Groceries (B)", respA.Budgets[0].Name)
	assert.Equal(t, int64(1110), respA.SyncedAt)
}

func TestTombstonePropagation(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	// device A creates, device B pulls
	_, err := svc.Sync(ctx, &protocol.Request{Budgets: []*models.Budget{budget("b1", 1000, "Shared")}})
	require.NoError(t, err)
	respB, err := svc.Sync(ctx, &protocol.Request{LastSyncAt: 0})
	require.NoError(t, err)
	require.Len(t, respB.Budgets, 1)
	cursorB := respB.SyncedAt

	// device A deletes
	tomb := budget("b1", 2000, "Shared")
	tomb.CreatedAt = 1000
	tomb.Deleted = true
	_, err = svc.Sync(ctx, &protocol.Request{LastSyncAt: 1000, Budgets: []*models.Budget{tomb}})
	require.NoError(t, err)

	// device B's next round carries the tombstone
	respB2, err := svc.Sync(ctx, &protocol.Request{LastSyncAt: cursorB})
	require.NoError(t, err)
	require.Len(t, respB2.Budgets, 1)
	assert.True(t, respB2.Budgets[0].Deleted)
	assert.Equal(t, int64(2000), respB2.SyncedAt)
}

func TestMalformedBatchRejectedWhole(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	req := &protocol.Request{
		Budgets: []*models.Budget{budget("b1", 1000, "Valid")},
		Categories: []*models.Category{{
			SyncMeta: models.SyncMeta{ID: "", CreatedAt: 1000, UpdatedAt: 1000},
			BudgetID: "b1", Name: "No id",
		}},
	}

	_, err := svc.Sync(ctx, req)
	assert.True(t, errors.Is(err, common.ErrMalformedRecord))

	// nothing from the rejected round reached the store, valid records included
	resp, err := svc.Sync(ctx, &protocol.Request{LastSyncAt: 0})
	require.NoError(t, err)
	assert.Empty(t, resp.Budgets)
}

func TestNegativeCursorRejected(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, err := svc.Sync(ctx, &protocol.Request{LastSyncAt: -1})
	assert.True(t, errors.Is(err, common.ErrMalformedRecord))
}

func TestHardDeleteResurrectionByDirtyChild(t *testing.T) {
	ctx := context.Background()
	svc, db := setupService(t)

	// budget and category exist and are synced everywhere
	_, err := svc.Sync(ctx, &protocol.Request{
		Budgets: []*models.Budget{budget("b1", 1000, "Doomed")},
		Categories: []*models.Category{{
			SyncMeta: models.SyncMeta{ID: "c1", CreatedAt: 1000, UpdatedAt: 1000},
			BudgetID: "b1", Name: "Food",
		}},
	})
	require.NoError(t, err)

	// admin hard-deletes the budget tree
	require.NoError(t, store.NewAdmin(db).CascadeDeleteBudget(ctx, "b1"))

	// a device holding an unsynced edit to the category pushes it; with no
	// tombstone to out-compete it, the orphan is re-inserted
	resp, err := svc.Sync(ctx, &protocol.Request{
		LastSyncAt: 1000,
		Categories: []*models.Category{{
			SyncMeta: models.SyncMeta{ID: "c1", CreatedAt: 1000, UpdatedAt: 1500},
			BudgetID: "b1", Name: "Food (edited)",
		}},
	})
	require.NoError(t, err)
	require.Len(t, resp.Categories, 1)
	assert.Equal(t, "Food (edited)", resp.Categories[0].Name)
	assert.Empty(t, resp.Budgets)
}

func TestRenamePropagatesThroughCursor(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	// device A creates offline, then syncs
	_, err := svc.Sync(ctx, &protocol.Request{Budgets: []*models.Budget{budget("b1", 1000, "Trip")}})
	require.NoError(t, err)

	// device B pulls from a fresh cursor
	respB, err := svc.Sync(ctx, &protocol.Request{LastSyncAt: 0})
	require.NoError(t, err)
	require.Len(t, respB.Budgets, 1)
	assert.Equal(t, "Trip", respB.Budgets[0].Name)
	assert.False(t, respB.Budgets[0].Deleted)
	require.Equal(t, int64(1000), respB.SyncedAt)

	// device A renames and syncs again
	renamed := budget("b1", 1010, "Trip 2026")
	renamed.CreatedAt = 1000
	_, err = svc.Sync(ctx, &protocol.Request{LastSyncAt: 1000, Budgets: []*models.Budget{renamed}})
	require.NoError(t, err)

	// device B's next round carries the rename and the advanced cursor
	respB2, err := svc.Sync(ctx, &protocol.Request{LastSyncAt: respB.SyncedAt})
	require.NoError(t, err)
	require.Len(t, respB2.Budgets, 1)
	assert.Equal(t, "Trip 2026", respB2.Budgets[0].Name)
	assert.GreaterOrEqual(t, respB2.SyncedAt, int64(1010))
}
