package config

import (
	"flag"
	"os"

	"github.com/dberzins/budgetsync/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line
// flags:
//
//	-a string   HTTP API bind address
//	-d string   PostgreSQL DSN
//	-k string   token signing secret
//
// os.Args is filtered through flagx.FilterArgs first so this parser never
// collides with flags owned by other components.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-k"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "HTTP API bind address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "PostgreSQL DSN")
	fs.StringVar(&config.SecretKey, "k", config.SecretKey, "token signing secret")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
