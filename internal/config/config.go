package config

import "time"

// Config holds runtime settings for the licai CLI.
type Config struct {
	DatabasePath   string
	SessionPath    string
	HighlightDelay time.Duration
	LogLevel       string
	Currency       string
}

// Names of the flags handled by this package.
var Flags = []string{"-d", "-s", "-t", "-l", "-m"}

func (c *Config) LoadDefaults() {
	c.DatabasePath = "licai.db"
	c.SessionPath = "licai-session.db"
	c.HighlightDelay = 10 * time.Second
	c.LogLevel = "info"
	c.Currency = "CNY"
}

// LoadConfig applies defaults, then the JSON file, then flags from os.Args.
// Malformed input panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
