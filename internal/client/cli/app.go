// Package cli is the interactive front end of the client: a small REPL
// over the local replica, with the sync engine running in the background.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/google/uuid"

	"github.com/dberzins/budgetsync/internal/client/config"
	"github.com/dberzins/budgetsync/internal/client/metadata"
	"github.com/dberzins/budgetsync/internal/client/store"
	clisync "github.com/dberzins/budgetsync/internal/client/sync"
	"github.com/dberzins/budgetsync/internal/client/transport"
	"github.com/dberzins/budgetsync/internal/logging"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	stores    *store.Stores
	meta      metadata.Repository
	transport transport.Client
	engine    *clisync.Engine
	reader    *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {

	db, err := store.OpenDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	stores := store.New(db)
	meta := metadata.NewSQLiteRepository(db)
	tr := transport.NewHTTPClient(c.ServerURL, logger)

	engine := clisync.New(tr, stores, meta, logger, clisync.Config{
		Interval:            c.SyncInterval,
		DebounceDelay:       c.DebounceDelay,
		OnlineCheckInterval: c.OnlineCheckInterval,
	})

	return &App{
		config:    c,
		logger:    logger,
		db:        db,
		stores:    stores,
		meta:      meta,
		transport: tr,
		engine:    engine,
		reader:    bufio.NewReader(os.Stdin),
	}, nil
}

// ensureDevice loads or creates the device identity and installs its token
// on the transport. Registration needs the server once; until it succeeds
// every round fails and the replica just stays dirty.
func (a *App) ensureDevice(ctx context.Context) error {
	deviceID, err := a.meta.Get(ctx, metadata.KeyDeviceID)
	if err != nil {
		return err
	}
	if deviceID == nil {
		deviceID = []byte(uuid.NewString())
		if err := a.meta.Set(ctx, metadata.KeyDeviceID, deviceID); err != nil {
			return err
		}
	}

	token, err := a.meta.Get(ctx, metadata.KeyDeviceToken)
	if err != nil {
		return err
	}
	if token == nil {
		t, err := a.transport.RegisterDevice(ctx, string(deviceID))
		if err != nil {
			a.logger.Warn(ctx, "device registration failed, staying offline", "error", err)
			return nil
		}
		token = []byte(t)
		if err := a.meta.Set(ctx, metadata.KeyDeviceToken, token); err != nil {
			return err
		}
	}

	a.transport.SetToken(string(token))
	return nil
}

func (a *App) Run(ctx context.Context) {
	defer a.db.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := a.ensureDevice(ctx); err != nil {
		a.logger.Error(ctx, "device bootstrap failed", "error", err)
		return
	}

	go a.engine.Run(ctx)

	fmt.Println("Welcome to budgetsync CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, func() string { return string(a.engine.Status()) }, scanner)
}
