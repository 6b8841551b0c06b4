package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/licai/internal/logging"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Users(ctx context.Context) error
	Wipe(ctx context.Context) error

	Deposits(ctx context.Context, args []string) error
	AddDeposit(ctx context.Context) error
	RemoveDeposit(ctx context.Context, args []string) error
	PurgeDeposits(ctx context.Context) error
	Summary(ctx context.Context) error
	Banks(ctx context.Context) error

	Funds(ctx context.Context) error
	AddFund(ctx context.Context) error
	RemoveFund(ctx context.Context, args []string) error
	PurgeFunds(ctx context.Context) error

	Import(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Template(ctx context.Context, args []string) error
	Calendar(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, template <file>, help, exit"
	helpLoggedIn  = "Available commands:\n" +
		"  whoami, passwd, logout, users, wipe\n" +
		"  deposits [query] [sort=<column>:<asc|desc>], add-deposit, rm-deposit [id], purge-deposits, summary, banks\n" +
		"  funds, add-fund, rm-fund [id], purge-funds\n" +
		"  import <file>, export <file>, template <file>, ics <id> [file]\n" +
		"  help, exit"
)

// runREPL starts a simple read–eval–print loop for the licai shell.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a' with the remaining tokens as arguments.
// Unknown commands are reported back to the user. The loop exits on EOF or
// when the user types "exit" or "quit".
//
// An error returned by a handler is logged, printed as "Error: <message>"
// and the loop continues with the next line.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, log logging.Logger) {
	for {
		printlnFn(fmt.Sprintf("licai %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}

		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "whoami":
			cmdErr = a.Whoami(ctx)
		case "passwd":
			cmdErr = a.ChangePassword(ctx)
		case "users":
			cmdErr = a.Users(ctx)
		case "wipe":
			cmdErr = a.Wipe(ctx)

		case "deposits", "d":
			cmdErr = a.Deposits(ctx, args)
		case "add-deposit":
			cmdErr = a.AddDeposit(ctx)
		case "rm-deposit":
			cmdErr = a.RemoveDeposit(ctx, args)
		case "purge-deposits":
			cmdErr = a.PurgeDeposits(ctx)
		case "summary":
			cmdErr = a.Summary(ctx)
		case "banks":
			cmdErr = a.Banks(ctx)

		case "funds", "f":
			cmdErr = a.Funds(ctx)
		case "add-fund":
			cmdErr = a.AddFund(ctx)
		case "rm-fund":
			cmdErr = a.RemoveFund(ctx, args)
		case "purge-funds":
			cmdErr = a.PurgeFunds(ctx)

		case "import":
			cmdErr = a.Import(ctx, args)
		case "export":
			cmdErr = a.Export(ctx, args)
		case "template":
			cmdErr = a.Template(ctx, args)
		case "ics":
			cmdErr = a.Calendar(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			log.Warn(ctx, "command failed", "command", cmd, "error", cmdErr)
			printlnFn("Error:", cmdErr.Error())
		}
		if err != nil {
			return
		}
	}
}
