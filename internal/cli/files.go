package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/licai/internal/filex"
	"github.com/dmitrijs2005/licai/internal/sheets"
)

func fileArg(args []string, usage string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("usage: " + usage)
	}
	return args[0], nil
}

// Import adds the complete rows of an xlsx workbook as deposits.
func (a *App) Import(ctx context.Context, args []string) error {
	ws, err := a.workspace()
	if err != nil {
		return err
	}
	path, err := fileArg(args, "import <file.xlsx>")
	if err != nil {
		return err
	}

	rows, err := sheets.ReadDeposits(path)
	if err != nil {
		return err
	}
	n, err := ws.Deposits.Import(ctx, rows)
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Imported %d of %d rows", n, len(rows)))
	return nil
}

// Export writes the account's deposits to an xlsx workbook.
func (a *App) Export(ctx context.Context, args []string) error {
	ws, err := a.workspace()
	if err != nil {
		return err
	}
	path, err := fileArg(args, "export <file.xlsx>")
	if err != nil {
		return err
	}

	rows := ws.Deposits.ExportRows()
	if err := sheets.WriteDeposits(path, rows); err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Exported %d deposits to %s", len(rows), path))
	return nil
}

// Template writes a blank import workbook. It works without a session.
func (a *App) Template(ctx context.Context, args []string) error {
	path, err := fileArg(args, "template <file.xlsx>")
	if err != nil {
		return err
	}
	if err := sheets.WriteTemplate(path); err != nil {
		return err
	}
	printlnFn("Template written to", path)
	return nil
}

// Calendar writes the maturity event of one deposit as an .ics file. Without
// a file argument the event title names the file.
func (a *App) Calendar(ctx context.Context, args []string) error {
	ws, err := a.workspace()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return errors.New("usage: ics <id> [file.ics]")
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	name, data, err := ws.Deposits.CalendarEvent(id)
	if err != nil {
		return err
	}
	if len(args) > 1 {
		name = args[1]
	}
	if _, err := filex.EnsureParentDir(name); err != nil {
		return err
	}
	if err := os.WriteFile(name, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}

	printlnFn("Calendar event written to", name)
	return nil
}
