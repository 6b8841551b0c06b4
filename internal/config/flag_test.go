package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-d", "a.db", "-s", "b.db", "-t", "2", "-l", "debug", "-m", "USD"},
			expected: &Config{DatabasePath: "a.db", SessionPath: "b.db", HighlightDelay: 2 * time.Second,
				LogLevel: "debug", Currency: "USD"},
		},
		{
			name: "subcommand and its flags are ignored",
			args: []string{"cmd", "-d=x.db", "calc", "-rate", "3"},
			expected: &Config{DatabasePath: "x.db", SessionPath: "licai-session.db", HighlightDelay: 10 * time.Second,
				LogLevel: "info", Currency: "CNY"},
		},
		{name: "bad delay", args: []string{"cmd", "-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			origArgs := os.Args
			t.Cleanup(func() { os.Args = origArgs })
			os.Args = tt.args

			cfg := &Config{}
			cfg.LoadDefaults()

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}
