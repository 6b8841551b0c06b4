package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/dmitrijs2005/licai/internal/cli"
	"github.com/dmitrijs2005/licai/internal/config"
	"github.com/dmitrijs2005/licai/internal/finance"
	"github.com/dmitrijs2005/licai/internal/logging"
	"github.com/dmitrijs2005/licai/internal/services"
	"github.com/dmitrijs2005/licai/internal/sheets"
	"github.com/dmitrijs2005/licai/internal/timex"
)

type shellCmd struct {
	cfg *config.Config
	log logging.Logger
}

func (*shellCmd) Name() string     { return "shell" }
func (*shellCmd) Synopsis() string { return "start the interactive shell (default)" }
func (*shellCmd) Usage() string {
	return `licai [-c config.json] [-d db] [-s session-db] [-t seconds] [-l level] [-m currency] shell

  Opens the record store and the session area, resumes the previous session
  if it is still valid and reads commands until exit.
`
}

func (*shellCmd) SetFlags(*flag.FlagSet) {}

func (c *shellCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	app, err := cli.NewApp(ctx, c.cfg, c.log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	defer app.Close()

	app.Run(ctx)
	return subcommands.ExitSuccess
}

type templateCmd struct {
	out io.Writer
}

func (*templateCmd) Name() string     { return "template" }
func (*templateCmd) Synopsis() string { return "write a blank deposit import workbook" }
func (*templateCmd) Usage() string {
	return `licai template <file.xlsx>
`
}

func (*templateCmd) SetFlags(*flag.FlagSet) {}

func (c *templateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	if err := sheets.WriteTemplate(f.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintln(c.out, "Template written to", f.Arg(0))
	return subcommands.ExitSuccess
}

// calcCmd previews a deposit without storing it.
type calcCmd struct {
	cfg *config.Config
	out io.Writer

	date     string
	term     float64
	unit     string
	rate     string
	amount   string
	maturity string
	interest string
}

func (*calcCmd) Name() string     { return "calc" }
func (*calcCmd) Synopsis() string { return "compute maturity date, term and interest of a deposit" }
func (*calcCmd) Usage() string {
	return `licai calc -rate <percent> -amount <principal> [-date <date>] (-term <n> [-unit month|year] | -maturity <date>)

  Prints the derived term, maturity date and simple interest. Nothing is saved.
`
}

func (c *calcCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "date", "", "Deposit date (defaults to today).")
	f.Float64Var(&c.term, "term", 0, "Term length.")
	f.StringVar(&c.unit, "unit", "month", "Term unit: month or year.")
	f.StringVar(&c.rate, "rate", "", "Annual interest rate in percent.")
	f.StringVar(&c.amount, "amount", "", "Principal.")
	f.StringVar(&c.maturity, "maturity", "", "Maturity date, used when -term is not set.")
	f.StringVar(&c.interest, "interest", "", "Interest override.")
}

func (c *calcCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	in, err := c.input()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitUsageError
	}

	d, err := services.Build(in)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(c.out, "Term:     %d months\n", d.TermMonths)
	fmt.Fprintf(c.out, "Maturity: %s\n", timex.FormatDate(d.ExpiryDate))
	fmt.Fprintf(c.out, "Interest: %s\n", finance.FormatMoney(d.Interest, c.cfg.Currency))
	fmt.Fprintf(c.out, "Total:    %s\n", finance.FormatMoney(d.Amount.Add(d.Interest), c.cfg.Currency))
	return subcommands.ExitSuccess
}

func (c *calcCmd) input() (services.DepositInput, error) {
	in := services.DepositInput{Bank: "-", Date: c.date, Maturity: c.maturity}
	if in.Date == "" {
		in.Date = timex.FormatDate(time.Now())
	}

	var err error
	if in.Rate, err = decimal.NewFromString(c.rate); err != nil {
		return in, fmt.Errorf("bad -rate %q", c.rate)
	}
	if in.Amount, err = decimal.NewFromString(c.amount); err != nil {
		return in, fmt.Errorf("bad -amount %q", c.amount)
	}
	if c.term != 0 {
		in.Term = &finance.Term{Value: c.term, Unit: finance.ParseUnit(c.unit)}
	}
	if c.interest != "" {
		interest, err := decimal.NewFromString(c.interest)
		if err != nil {
			return in, fmt.Errorf("bad -interest %q", c.interest)
		}
		in.Interest = &interest
	}
	return in, nil
}
