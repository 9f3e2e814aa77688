// Package sync implements the merge engine: the authoritative conflict
// resolver every replica converges through.
package sync

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dberzins/budgetsync/internal/dbx"
	"github.com/dberzins/budgetsync/internal/logging"
	"github.com/dberzins/budgetsync/internal/protocol"
	"github.com/dberzins/budgetsync/internal/server/store"
)

// Service applies sync rounds against the authoritative store. Each round
// is one database transaction: last-writer-wins upserts for every incoming
// batch, then a changed-since-cursor sweep per collection. Concurrent
// rounds from different devices are serialized by the store's transaction
// isolation.
type Service struct {
	db     *sql.DB
	logger logging.Logger
}

func NewService(db *sql.DB, logger logging.Logger) *Service {
	return &Service{db: db, logger: logger.With("module", "merge")}
}

func applyBatch[T any](ctx context.Context, c *store.Collection[T], recs []*T) error {
	for _, rec := range recs {
		if err := c.UpsertIfNewer(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func changedSince[T any](ctx context.Context, c *store.Collection[T], cursor int64, syncedAt *int64) ([]*T, error) {
	recs, err := c.UpdatedSince(ctx, cursor)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if m := c.MetaOf(rec); m.UpdatedAt > *syncedAt {
			*syncedAt = m.UpdatedAt
		}
	}
	return recs, nil
}

// Sync runs one merge round. The response's syncedAt is the highest
// updated_at among returned rows (at least the request's cursor), so the
// cursor always matches what it is later compared against — a wall-clock
// cursor could run ahead of a slow client clock and hide rows forever.
func (s *Service) Sync(ctx context.Context, req *protocol.Request) (*protocol.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	resp := &protocol.Response{SyncedAt: req.LastSyncAt}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		st := store.New(tx)

		if err := applyBatch(ctx, st.Budgets, req.Budgets); err != nil {
			return err
		}
		if err := applyBatch(ctx, st.Categories, req.Categories); err != nil {
			return err
		}
		if err := applyBatch(ctx, st.Entries, req.Entries); err != nil {
			return err
		}
		if err := applyBatch(ctx, st.Overrides, req.PeriodOverrides); err != nil {
			return err
		}
		if err := applyBatch(ctx, st.Transactions, req.Transactions); err != nil {
			return err
		}

		var err error
		if resp.Budgets, err = changedSince(ctx, st.Budgets, req.LastSyncAt, &resp.SyncedAt); err != nil {
			return err
		}
		if resp.Categories, err = changedSince(ctx, st.Categories, req.LastSyncAt, &resp.SyncedAt); err != nil {
			return err
		}
		if resp.Entries, err = changedSince(ctx, st.Entries, req.LastSyncAt, &resp.SyncedAt); err != nil {
			return err
		}
		if resp.PeriodOverrides, err = changedSince(ctx, st.Overrides, req.LastSyncAt, &resp.SyncedAt); err != nil {
			return err
		}
		if resp.Transactions, err = changedSince(ctx, st.Transactions, req.LastSyncAt, &resp.SyncedAt); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("sync round failed: %w", err)
	}

	s.logger.Debug(ctx, "merge round applied", "cursor", req.LastSyncAt, "syncedAt", resp.SyncedAt)
	return resp, nil
}
