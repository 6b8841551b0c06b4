package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/licai/internal/common"
	"github.com/dmitrijs2005/licai/internal/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for a username and a password and creates a user
// account. It does not sign the new account in.
func (a *App) Register(ctx context.Context) error {
	userName, err := a.prompt("Enter username")
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.accounts.Register(ctx, userName, password); err != nil {
		a.log.Warn(ctx, "registration failed", "username", userName, "error", err)
		return err
	}

	printlnFn("Success!")
	return nil
}

// Login authenticates and loads the account's deposits and funds. A
// previous workspace is closed first.
func (a *App) Login(ctx context.Context) error {
	userName, err := a.prompt("Enter username")
	if err != nil {
		return err
	}

	password, err := getPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	snap, err := a.accounts.Login(ctx, userName, password)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("user %q does not exist: %w", userName, err)
		}
		return err
	}

	if err := a.openWorkspace(ctx, snap); err != nil {
		return err
	}

	printlnFn("Signed in as", snap.Username)
	return nil
}

// Logout ends the session and drops the working set.
func (a *App) Logout(ctx context.Context) error {
	if err := a.accounts.Logout(ctx); err != nil {
		return err
	}
	a.closeWorkspace()
	printlnFn("Signed out")
	return nil
}

func (a *App) Whoami(ctx context.Context) error {
	snap, err := a.accounts.Whoami(ctx)
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("%s (%s), created %s", snap.Username, snap.Role, snap.CreatedAt.Local().Format("2006-01-02 15:04")))
	return nil
}

// ChangePassword asks for the current password and the new one twice.
func (a *App) ChangePassword(ctx context.Context) error {
	oldPassword, err := getPassword("Current password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(oldPassword)

	newPassword, err := getPassword("New password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(newPassword)

	confirm, err := getPassword("Repeat new password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if err := a.accounts.ChangePassword(ctx, oldPassword, newPassword, confirm); err != nil {
		return err
	}

	printlnFn("Password changed")
	return nil
}

// Users lists every account. Admin only.
func (a *App) Users(ctx context.Context) error {
	list, err := a.accounts.ListAccounts(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(list))
	for _, u := range list {
		rows = append(rows, []string{u.Username, string(u.Role), u.CreatedAt.Local().Format("2006-01-02 15:04")})
	}
	renderTable(a.out, []string{"Username", "Role", "Created"}, rows)
	return nil
}

// Wipe deletes every account, deposit and fund after the admin types the
// confirmation phrase. The session ends.
func (a *App) Wipe(ctx context.Context) error {
	var confirm string
	if a.user != nil && a.user.IsAdmin() {
		var err error
		confirm, err = a.prompt(fmt.Sprintf("This deletes ALL data. Type %s to confirm", services.ClearConfirmation))
		if err != nil {
			return err
		}
	}

	// Highlight timers must be stopped before the clear; a late one persists
	// the old deposits.
	user := a.user
	a.ws.Close()

	if err := a.accounts.DeleteAllData(ctx, confirm); err != nil {
		if user != nil {
			if oerr := a.openWorkspace(ctx, user); oerr != nil {
				a.log.Error(ctx, "failed to reopen workspace", "error", oerr)
			}
		}
		return err
	}
	a.closeWorkspace()
	printlnFn("All data deleted. Sign in again as", services.AdminUsername)
	return nil
}
