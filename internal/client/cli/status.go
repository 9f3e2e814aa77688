package cli

import (
	"context"
	"fmt"

	"github.com/dberzins/budgetsync/internal/client/metadata"
)

// Sync forces a round now instead of waiting for a trigger.
func (a *App) Sync(ctx context.Context) error {
	if err := a.engine.Sync(ctx); err != nil {
		fmt.Println(err.Error())
		return err
	}
	return nil
}

// Status prints the engine state, the pending count and the cursor.
func (a *App) Status(ctx context.Context) error {
	dirty, err := a.stores.CountDirty(ctx)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	cursor, err := a.meta.GetInt64(ctx, metadata.KeyLastSyncAt)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}

	fmt.Printf("status: %s, pending: %d, last sync cursor: %d\n", a.engine.Status(), dirty, cursor)
	return nil
}
