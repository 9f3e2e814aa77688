package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/dberzins/budgetsync/internal/client/cli"
	"github.com/dberzins/budgetsync/internal/client/config"
	"github.com/dberzins/budgetsync/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
