package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig mirrors Config for environment parsing.
type envConfig struct {
	BaseURL        string        `env:"PICTOFOLD_BASE_URL"`
	RequestTimeout time.Duration `env:"PICTOFOLD_REQUEST_TIMEOUT"`
	DatabasePath   string        `env:"PICTOFOLD_DATABASE_PATH"`
	PreviewDir     string        `env:"PICTOFOLD_PREVIEW_DIR"`
}

// parseEnv overlays Config with values from PICTOFOLD_* environment
// variables. Unset variables leave cfg untouched; a malformed value
// panics like the JSON layer does.
func parseEnv(cfg *Config) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		panic(err)
	}

	if ec.BaseURL != "" {
		cfg.BaseURL = ec.BaseURL
	}
	if ec.RequestTimeout != 0 {
		cfg.RequestTimeout = ec.RequestTimeout
	}
	if ec.DatabasePath != "" {
		cfg.DatabasePath = ec.DatabasePath
	}
	if ec.PreviewDir != "" {
		cfg.PreviewDir = ec.PreviewDir
	}
}
