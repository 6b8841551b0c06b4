package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"slices"

	"github.com/google/subcommands"

	"github.com/dmitrijs2005/licai/internal/config"
	"github.com/dmitrijs2005/licai/internal/flagx"
	"github.com/dmitrijs2005/licai/internal/logging"
)

func main() {
	cfg := config.LoadConfig()

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(int(subcommands.ExitUsageError))
	}
	log := logging.NewTextLogger(os.Stderr, level)

	// Global flags were consumed by config; the commander sees the rest.
	top := flag.NewFlagSet("licai", flag.ExitOnError)
	args := flagx.DropArgs(os.Args[1:], slices.Concat(config.Flags, flagx.ConfigFileFlags))

	commander := subcommands.NewCommander(top, "licai")
	commander.Register(subcommands.HelpCommand(), "")
	commander.Register(subcommands.CommandsCommand(), "")
	commander.Register(&shellCmd{cfg: cfg, log: log}, "")
	commander.Register(&templateCmd{out: os.Stdout}, "")
	commander.Register(&calcCmd{cfg: cfg, out: os.Stdout}, "")

	_ = top.Parse(args)
	if top.NArg() == 0 {
		_ = top.Parse([]string{"shell"})
	}

	os.Exit(int(commander.Execute(context.Background())))
}
