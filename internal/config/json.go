package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/licai/internal/flagx"
	"github.com/dmitrijs2005/licai/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	DatabasePath   string         `json:"database_path"`
	SessionPath    string         `json:"session_path"`
	HighlightDelay timex.Duration `json:"highlight_delay"`
	LogLevel       string         `json:"log_level"`
	Currency       string         `json:"currency"`
}

// parseJson overlays cfg with the non-empty values of the file named by -c
// or -config. Without either flag it does nothing.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.SessionPath != "" {
		cfg.SessionPath = jc.SessionPath
	}
	if jc.HighlightDelay.Duration > 0 {
		cfg.HighlightDelay = jc.HighlightDelay.Duration
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
	if jc.Currency != "" {
		cfg.Currency = jc.Currency
	}
}
