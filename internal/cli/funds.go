package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/licai/internal/services"
	"github.com/dmitrijs2005/licai/internal/timex"
)

func (a *App) Funds(ctx context.Context) error {
	ws, err := a.workspace()
	if err != nil {
		return err
	}

	a.writeFunds(a.out, ws.Funds.List())
	fmt.Fprintf(a.out, "Total: %s\n", a.money(ws.Funds.Total()))
	return nil
}

func (a *App) AddFund(ctx context.Context) error {
	ws, err := a.workspace()
	if err != nil {
		return err
	}

	platformPrompt := "Platform"
	if platforms := ws.Funds.Platforms(); len(platforms) > 0 {
		platformPrompt += " (" + strings.Join(platforms, ", ") + ")"
	}

	var in services.FundInput
	if in.Platform, err = a.prompt(platformPrompt); err != nil {
		return err
	}
	if in.Name, err = a.prompt("Fund name"); err != nil {
		return err
	}

	today := timex.FormatDate(a.now())
	if in.Date, err = a.prompt(fmt.Sprintf("Purchase date [%s]", today)); err != nil {
		return err
	}
	if in.Date == "" {
		in.Date = today
	}

	text, err := a.prompt("Amount")
	if err != nil {
		return err
	}
	if in.Amount, err = parseDecimal("amount", text); err != nil {
		return err
	}

	f, err := ws.Funds.Create(ctx, in)
	if err != nil {
		return err
	}
	printlnFn("Fund added:", f.ID)
	return nil
}

func (a *App) RemoveFund(ctx context.Context, args []string) error {
	ws, err := a.workspace()
	if err != nil {
		return err
	}

	id := ""
	if len(args) > 0 {
		id = args[0]
	} else if id, err = a.prompt("Fund ID"); err != nil {
		return err
	}

	confirm, err := a.prompt(fmt.Sprintf("Delete fund %s? Type %s to confirm", id, services.DeleteConfirmation))
	if err != nil {
		return err
	}
	if err := ws.Funds.Delete(ctx, id, confirm); err != nil {
		return err
	}

	printlnFn("Fund deleted")
	return nil
}

func (a *App) PurgeFunds(ctx context.Context) error {
	ws, err := a.workspace()
	if err != nil {
		return err
	}

	confirm, err := a.prompt(fmt.Sprintf("Delete all %d funds? Type %s to confirm",
		len(ws.Funds.List()), services.DeleteConfirmation))
	if err != nil {
		return err
	}
	n, err := ws.Funds.DeleteAll(ctx, confirm)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("%d funds deleted", n))
	return nil
}
