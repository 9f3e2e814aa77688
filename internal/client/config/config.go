// Package config handles configuration for the client component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the budgetsync client.
//
// Fields:
//   - ServerURL: base URL of the sync API (e.g., "http://localhost:8080").
//   - DatabasePath: SQLite file holding the local replica.
//   - SyncInterval: periodic resync check (fires only with dirty records).
//   - DebounceDelay: quiet period after a mutation before a round starts.
//   - OnlineCheckInterval: reachability probe period.
type Config struct {
	ServerURL           string
	DatabasePath        string
	SyncInterval        time.Duration
	DebounceDelay       time.Duration
	OnlineCheckInterval time.Duration
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.DatabasePath = "budget.db"
	c.SyncInterval = 30 * time.Second
	c.DebounceDelay = 500 * time.Millisecond
	c.OnlineCheckInterval = 15 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
