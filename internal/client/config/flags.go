package config

import (
	"flag"
	"os"
	"time"

	"github.com/dberzins/budgetsync/internal/flagx"
)

// parseFlags populates selected client Config fields from command-line
// flags:
//
//	-s string   sync API base URL
//	-f string   local database file
//	-i int      resync interval, seconds
//
// os.Args is filtered through flagx.FilterArgs first so this parser never
// collides with flags owned by other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-f", "-i"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)

	fs.StringVar(&config.ServerURL, "s", config.ServerURL, "sync API base URL")
	fs.StringVar(&config.DatabasePath, "f", config.DatabasePath, "local database file")
	syncInterval := fs.Int("i", int(config.SyncInterval.Seconds()), "resync interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SyncInterval = time.Duration(*syncInterval) * time.Second
}
