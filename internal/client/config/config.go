package config

import "time"

// Config holds runtime settings for the propkeeper CLI.
//
// Fields:
//   - APIBaseURL: root of the REST API, token and resource paths are relative to it.
//   - DatabasePath: SQLite file holding the persisted credential pair.
//   - RequestTimeout: upper bound for one HTTP exchange, refresh included.
//   - OnlineCheckInterval: how often the CLI probes server reachability.
//   - Verbose: log debug messages to stderr.
type Config struct {
	APIBaseURL          string
	DatabasePath        string
	RequestTimeout      time.Duration
	OnlineCheckInterval time.Duration
	Verbose             bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8000/api"
	c.DatabasePath = "propkeeper.db"
	c.RequestTimeout = 30 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
	c.Verbose = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
