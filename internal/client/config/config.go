package config

import "time"

// Config holds runtime settings for the roster verifier CLI.
//
// Fields:
//   - ServerEndpointAddr: base URL of the roster backend, e.g. "http://127.0.0.1:8080".
//   - RequestTimeout: per-request timeout applied to every backend call.
//
// Units: RequestTimeout is a time.Duration (e.g., 5*time.Second).
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "http://127.0.0.1:8080"
	c.RequestTimeout = 5 * time.Second
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
