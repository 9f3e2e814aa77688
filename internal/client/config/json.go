package config

import (
	"encoding/json"
	"os"

	"github.com/dberzins/budgetsync/internal/flagx"
	"github.com/dberzins/budgetsync/internal/timex"
)

// JsonConfig is the DTO for reading JSON config files. Interval fields use
// timex.Duration so both "30s" strings and integer nanoseconds parse.
type JsonConfig struct {
	ServerURL           string         `json:"server_url"`
	DatabasePath        string         `json:"database_path"`
	SyncInterval        timex.Duration `json:"sync_interval"`
	DebounceDelay       timex.Duration `json:"debounce_delay"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
}

// parseJson overlays values from the JSON file named by the -c/-config
// flags, if any. Fields absent from the file keep their current values.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.ServerURL != "" {
		config.ServerURL = c.ServerURL
	}
	if c.DatabasePath != "" {
		config.DatabasePath = c.DatabasePath
	}
	if c.SyncInterval.Duration != 0 {
		config.SyncInterval = c.SyncInterval.Duration
	}
	if c.DebounceDelay.Duration != 0 {
		config.DebounceDelay = c.DebounceDelay.Duration
	}
	if c.OnlineCheckInterval.Duration != 0 {
		config.OnlineCheckInterval = c.OnlineCheckInterval.Duration
	}
}
