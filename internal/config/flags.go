package config

import (
	"flag"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/licai/internal/flagx"
)

// parseFlags overlays cfg with the flags of this package found in os.Args.
// Other arguments, such as a subcommand, are ignored.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], Flags)

	fs := flag.NewFlagSet("licai", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "record store file")
	fs.StringVar(&cfg.SessionPath, "s", cfg.SessionPath, "session area file")
	delay := fs.Int("t", int(cfg.HighlightDelay.Seconds()), "highlight delay (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.Currency, "m", cfg.Currency, "display currency")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.HighlightDelay = time.Duration(*delay) * time.Second
		}
	})
}
