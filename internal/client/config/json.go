package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pictofold/pictofold-cli/internal/flagx"
	"github.com/pictofold/pictofold-cli/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so JSON can specify the timeout either as a string
// like "15s" or as integer nanoseconds.
type JsonConfig struct {
	BaseURL        string         `json:"base_url"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	DatabasePath   string         `json:"database_path"`
	PreviewDir     string         `json:"preview_dir"`
}

// parseJson overlays Config with values loaded from a JSON file located
// via the -c/-config flags. When no file is given, the function returns
// without touching cfg. Read or unmarshal errors panic (caller should
// recover if desired). Only non-zero fields override.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.BaseURL != "" {
		cfg.BaseURL = jc.BaseURL
	}
	if jc.RequestTimeout.Duration != 0 {
		cfg.RequestTimeout = time.Duration(jc.RequestTimeout.Duration)
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.PreviewDir != "" {
		cfg.PreviewDir = jc.PreviewDir
	}
}
