package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/licai/internal/common"
	"github.com/dmitrijs2005/licai/internal/finance"
	"github.com/dmitrijs2005/licai/internal/services"
	"github.com/dmitrijs2005/licai/internal/timex"
)

// parseViewArgs reads "sort=<column>[:dir]" tokens; every other token is
// part of the search query.
func parseViewArgs(args []string) (services.ViewOptions, error) {
	var opts services.ViewOptions
	var query []string
	for _, arg := range args {
		if spec, ok := strings.CutPrefix(arg, "sort="); ok {
			col, desc, err := services.ParseSort(spec)
			if err != nil {
				return opts, err
			}
			opts.Sort, opts.Desc = col, desc
			continue
		}
		query = append(query, arg)
	}
	opts.Query = strings.Join(query, " ")
	return opts, nil
}

// Deposits prints the active and the expired deposits of the account.
func (a *App) Deposits(ctx context.Context, args []string) error {
	ws, err := a.workspace()
	if err != nil {
		return err
	}
	opts, err := parseViewArgs(args)
	if err != nil {
		return err
	}

	view := ws.Deposits.View(opts)

	fmt.Fprintf(a.out, "Active deposits (%d)\n", len(view.Active))
	a.writeActive(a.out, view.Active)
	fmt.Fprintf(a.out, "\nExpired deposits (%d)\n", len(view.Expired))
	a.writeExpired(a.out, view.Expired)
	return nil
}

// AddDeposit walks through the deposit form. Either a term or a maturity
// date must be given; interest is computed unless entered.
func (a *App) AddDeposit(ctx context.Context) error {
	ws, err := a.workspace()
	if err != nil {
		return err
	}

	bankPrompt := "Bank"
	if banks := ws.Deposits.Banks(); len(banks) > 0 {
		bankPrompt += " (" + strings.Join(banks, ", ") + ")"
	}

	var in services.DepositInput
	if in.Bank, err = a.prompt(bankPrompt); err != nil {
		return err
	}

	text, err := a.prompt("Annual rate, %")
	if err != nil {
		return err
	}
	if in.Rate, err = parseDecimal("rate", text); err != nil {
		return err
	}

	if text, err = a.prompt("Amount"); err != nil {
		return err
	}
	if in.Amount, err = parseDecimal("amount", text); err != nil {
		return err
	}

	today := timex.FormatDate(a.now())
	if in.Date, err = a.prompt(fmt.Sprintf("Deposit date [%s]", today)); err != nil {
		return err
	}
	if in.Date == "" {
		in.Date = today
	}

	if text, err = a.prompt("Term, e.g. 12 or 1 year (empty to enter a maturity date)"); err != nil {
		return err
	}
	if text != "" {
		term, err := parseTerm(text)
		if err != nil {
			return err
		}
		in.Term = &term
	} else if in.Maturity, err = a.prompt("Maturity date"); err != nil {
		return err
	}

	if text, err = a.prompt("Interest (empty to compute)"); err != nil {
		return err
	}
	if text != "" {
		interest, err := parseDecimal("interest", text)
		if err != nil {
			return err
		}
		in.Interest = &interest
	}

	if in.Remarks, err = a.prompt("Remarks"); err != nil {
		return err
	}

	d, err := ws.Deposits.Create(ctx, in)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Deposit %d added: matures %s, interest %s",
		d.ID, timex.FormatDate(d.ExpiryDate), a.money(d.Interest)))
	return nil
}

// parseTerm reads "<value> [unit]", where the unit defaults to months.
func parseTerm(s string) (finance.Term, error) {
	fields := strings.Fields(s)
	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return finance.Term{}, common.NewValidationError("term", "not a number")
	}
	unit := finance.Month
	if len(fields) > 1 {
		unit = finance.ParseUnit(fields[1])
	}
	return finance.Term{Value: value, Unit: unit}, nil
}

// RemoveDeposit deletes one deposit after the user types the confirmation
// phrase.
func (a *App) RemoveDeposit(ctx context.Context, args []string) error {
	ws, err := a.workspace()
	if err != nil {
		return err
	}

	text := ""
	if len(args) > 0 {
		text = args[0]
	} else if text, err = a.prompt("Deposit ID"); err != nil {
		return err
	}
	id, err := parseID(text)
	if err != nil {
		return err
	}
	d, err := ws.Deposits.Get(id)
	if err != nil {
		return err
	}

	confirm, err := a.prompt(fmt.Sprintf("Delete %s %s? Type %s to confirm",
		d.Bank, a.money(d.Amount), services.DeleteConfirmation))
	if err != nil {
		return err
	}
	if err := ws.Deposits.Delete(ctx, id, confirm); err != nil {
		return err
	}

	printlnFn("Deposit deleted")
	return nil
}

// PurgeDeposits deletes every deposit of the account.
func (a *App) PurgeDeposits(ctx context.Context) error {
	ws, err := a.workspace()
	if err != nil {
		return err
	}

	confirm, err := a.prompt(fmt.Sprintf("Delete all %d deposits? Type %s to confirm",
		len(ws.Deposits.List()), services.DeleteConfirmation))
	if err != nil {
		return err
	}
	n, err := ws.Deposits.DeleteAll(ctx, confirm)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("%d deposits deleted", n))
	return nil
}

func (a *App) Summary(ctx context.Context) error {
	ws, err := a.workspace()
	if err != nil {
		return err
	}

	s := ws.Deposits.Summary()
	fmt.Fprintf(a.out, "Active principal: %s\n", a.money(s.ActiveTotal))
	fmt.Fprintf(a.out, "Earned interest:  %s\n", a.money(s.EarnedInterest))
	for _, b := range s.Banks {
		fmt.Fprintf(a.out, "  %s: %s (%s%%)\n", b.Bank, a.money(b.Amount), b.Percent.StringFixed(1))
	}
	return nil
}

func (a *App) Banks(ctx context.Context) error {
	ws, err := a.workspace()
	if err != nil {
		return err
	}
	for _, b := range ws.Deposits.Banks() {
		fmt.Fprintln(a.out, b)
	}
	return nil
}
