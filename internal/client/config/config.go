// Package config assembles runtime settings for the PictoFold CLI from
// defaults, an optional JSON file, environment variables, and flags.
// Later sources take precedence over earlier ones.
package config

import "time"

// Config holds runtime settings for the PictoFold CLI.
//
// Fields:
//   - BaseURL: base URL of the backend API, e.g. "http://localhost:8080/api".
//   - RequestTimeout: per-request HTTP timeout.
//   - DatabasePath: location of the local sqlite state database.
//   - PreviewDir: directory holding local image preview copies.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
	DatabasePath   string
	PreviewDir     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:8080/api"
	c.RequestTimeout = 15 * time.Second
	c.DatabasePath = "pictofold.db"
	c.PreviewDir = "previews"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), environment variables, and command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
