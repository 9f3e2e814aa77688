// Package sync implements the client side of the replication protocol: it
// batches dirty records, drives rounds against the merge endpoint, applies
// the server's answer back as clean state and advances the cursor.
package sync

import (
	"context"
	"fmt"
	stdsync "sync"
	"sync/atomic"
	"time"

	"github.com/dberzins/budgetsync/internal/client/metadata"
	"github.com/dberzins/budgetsync/internal/client/store"
	"github.com/dberzins/budgetsync/internal/client/transport"
	"github.com/dberzins/budgetsync/internal/logging"
	"github.com/dberzins/budgetsync/internal/protocol"
)

// Status is broadcast to observers after every state change. Callers never
// block on sync completion; the UI reflects eventual state through these.
type Status string

const (
	StatusSyncing Status = "syncing"
	StatusSynced  Status = "synced"
	StatusOffline Status = "offline"
)

// Config holds the trigger timings.
type Config struct {
	// Interval is the periodic resync check; it only fires a round when
	// dirty records exist.
	Interval time.Duration
	// DebounceDelay batches rapid successive mutations into one round.
	DebounceDelay time.Duration
	// OnlineCheckInterval is how often reachability is probed; an
	// offline-to-online transition fires an immediate round.
	OnlineCheckInterval time.Duration
}

// Engine owns the sync state for one replica: the store handle, the cursor
// and the single round-in-flight flag. At most one round runs at a time; a
// request to start another while one is active is coalesced into a no-op.
type Engine struct {
	transport transport.Client
	stores    *store.Stores
	meta      metadata.Repository
	logger    logging.Logger
	cfg       Config

	inFlight atomic.Bool

	mu         stdsync.Mutex
	listeners  map[int]func(Status)
	nextID     int
	lastStatus Status

	debounceMu stdsync.Mutex
	debounce   *time.Timer
}

func New(t transport.Client, stores *store.Stores, meta metadata.Repository, logger logging.Logger, cfg Config) *Engine {
	return &Engine{
		transport: t,
		stores:    stores,
		meta:      meta,
		logger:    logger.With("module", "sync"),
		cfg:       cfg,
		listeners: make(map[int]func(Status)),
	}
}

// OnStatus registers an observer and returns an unsubscribe func.
func (e *Engine) OnStatus(fn func(Status)) func() {
	e.mu.Lock()
	defer e.mu.Unlock()
	id := e.nextID
	e.nextID++
	e.listeners[id] = fn
	return func() {
		e.mu.Lock()
		defer e.mu.Unlock()
		delete(e.listeners, id)
	}
}

// Status returns the last broadcast status.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastStatus
}

func (e *Engine) notify(status Status) {
	e.mu.Lock()
	e.lastStatus = status
	fns := make([]func(Status), 0, len(e.listeners))
	for _, fn := range e.listeners {
		fns = append(fns, fn)
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(status)
	}
}

// Sync runs one round. If a round is already in flight the call is a no-op.
// A failed round leaves every dirty flag and the cursor untouched; the next
// trigger resends the same dirty set plus any newer local edits.
func (e *Engine) Sync(ctx context.Context) error {
	if !e.inFlight.CompareAndSwap(false, true) {
		return nil
	}
	defer e.inFlight.Store(false)

	e.notify(StatusSyncing)

	if err := e.round(ctx); err != nil {
		e.logger.Warn(ctx, "sync round failed", "error", err)
		e.notify(StatusOffline)
		return err
	}

	e.notify(StatusSynced)
	return nil
}

func (e *Engine) round(ctx context.Context) error {
	cursor, err := e.meta.GetInt64(ctx, metadata.KeyLastSyncAt)
	if err != nil {
		return err
	}

	req := &protocol.Request{LastSyncAt: cursor}
	if req.Budgets, err = e.stores.Budgets.ListDirty(ctx); err != nil {
		return err
	}
	if req.Categories, err = e.stores.Categories.ListDirty(ctx); err != nil {
		return err
	}
	if req.Entries, err = e.stores.Entries.ListDirty(ctx); err != nil {
		return err
	}
	if req.PeriodOverrides, err = e.stores.Overrides.ListDirty(ctx); err != nil {
		return err
	}
	if req.Transactions, err = e.stores.Transactions.ListDirty(ctx); err != nil {
		return err
	}

	resp, err := e.transport.Sync(ctx, req)
	if err != nil {
		return err
	}

	// The response covers both the server's own changes and our pushed
	// records (everything changed since the cursor), so applying it clean
	// confirms our writes and installs other devices' edits in one pass.
	for _, r := range resp.Budgets {
		if err := e.stores.Budgets.PutClean(ctx, r); err != nil {
			return err
		}
	}
	for _, r := range resp.Categories {
		if err := e.stores.Categories.PutClean(ctx, r); err != nil {
			return err
		}
	}
	for _, r := range resp.Entries {
		if err := e.stores.Entries.PutClean(ctx, r); err != nil {
			return err
		}
	}
	for _, r := range resp.PeriodOverrides {
		if err := e.stores.Overrides.PutClean(ctx, r); err != nil {
			return err
		}
	}
	for _, r := range resp.Transactions {
		if err := e.stores.Transactions.PutClean(ctx, r); err != nil {
			return err
		}
	}

	if err := e.meta.SetInt64(ctx, metadata.KeyLastSyncAt, resp.SyncedAt); err != nil {
		return fmt.Errorf("failed to advance cursor: %w", err)
	}

	e.logger.Info(ctx, "sync round finished",
		"cursor", resp.SyncedAt,
		"pushed", len(req.Budgets)+len(req.Categories)+len(req.Entries)+len(req.PeriodOverrides)+len(req.Transactions),
		"received", len(resp.Budgets)+len(resp.Categories)+len(resp.Entries)+len(resp.PeriodOverrides)+len(resp.Transactions))
	return nil
}

// NotifyMutation schedules a fire-and-forget round shortly after the last
// local mutation, so bursts of edits collapse into a single round.
func (e *Engine) NotifyMutation() {
	e.debounceMu.Lock()
	defer e.debounceMu.Unlock()

	if e.debounce != nil {
		e.debounce.Stop()
	}
	e.debounce = time.AfterFunc(e.cfg.DebounceDelay, func() {
		_ = e.Sync(context.Background())
	})
}

// Run drives the standing triggers until ctx is cancelled: one round at
// start, a periodic round while dirty records exist, and a round on every
// offline-to-online transition.
func (e *Engine) Run(ctx context.Context) {
	_ = e.Sync(ctx)

	resync := time.NewTicker(e.cfg.Interval)
	defer resync.Stop()
	onlineCheck := time.NewTicker(e.cfg.OnlineCheckInterval)
	defer onlineCheck.Stop()

	online := true

	for {
		select {
		case <-resync.C:
			n, err := e.stores.CountDirty(ctx)
			if err != nil {
				e.logger.Error(ctx, "dirty count failed", "error", err)
				continue
			}
			if n > 0 {
				_ = e.Sync(ctx)
			}

		case <-onlineCheck.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := e.transport.Ping(pingCtx)
			cancel()

			if err == nil && !online {
				e.logger.Info(ctx, "back online, starting sync round")
				_ = e.Sync(ctx)
			}
			online = err == nil

		case <-ctx.Done():
			return
		}
	}
}
