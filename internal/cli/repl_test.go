package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/licai/internal/logging"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  map[string][]string
	fail  map[string]error
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	if f.args == nil {
		f.args = map[string][]string{}
	}
	f.args[name] = args
	return f.fail[name]
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.record("register", nil)
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout", nil)
}
func (f *fakeExec) Whoami(ctx context.Context) error         { return f.record("whoami", nil) }
func (f *fakeExec) ChangePassword(ctx context.Context) error { return f.record("passwd", nil) }
func (f *fakeExec) Users(ctx context.Context) error          { return f.record("users", nil) }
func (f *fakeExec) Wipe(ctx context.Context) error           { return f.record("wipe", nil) }
func (f *fakeExec) Deposits(ctx context.Context, args []string) error {
	return f.record("deposits", args)
}
func (f *fakeExec) AddDeposit(ctx context.Context) error { return f.record("add-deposit", nil) }
func (f *fakeExec) RemoveDeposit(ctx context.Context, args []string) error {
	return f.record("rm-deposit", args)
}
func (f *fakeExec) PurgeDeposits(ctx context.Context) error { return f.record("purge-deposits", nil) }
func (f *fakeExec) Summary(ctx context.Context) error       { return f.record("summary", nil) }
func (f *fakeExec) Banks(ctx context.Context) error         { return f.record("banks", nil) }
func (f *fakeExec) Funds(ctx context.Context) error         { return f.record("funds", nil) }
func (f *fakeExec) AddFund(ctx context.Context) error       { return f.record("add-fund", nil) }
func (f *fakeExec) RemoveFund(ctx context.Context, args []string) error {
	return f.record("rm-fund", args)
}
func (f *fakeExec) PurgeFunds(ctx context.Context) error { return f.record("purge-funds", nil) }
func (f *fakeExec) Import(ctx context.Context, args []string) error {
	return f.record("import", args)
}
func (f *fakeExec) Export(ctx context.Context, args []string) error {
	return f.record("export", args)
}
func (f *fakeExec) Template(ctx context.Context, args []string) error {
	return f.record("template", args)
}
func (f *fakeExec) Calendar(ctx context.Context, args []string) error {
	return f.record("ics", args)
}

// capturePrintln swaps printlnFn for a recorder of printed lines.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommandsWithArgs(t *testing.T) {
	capturePrintln(t)

	input := strings.Join([]string{
		"help",
		"login",
		"deposits bank sort=rate:desc",
		"add-deposit",
		"rm-deposit 42",
		"summary",
		"funds",
		"rm-fund abc",
		"import in.xlsx",
		"export out.xlsx",
		"ics 42 a.ics",
		"",
		"logout",
		"exit",
		"whoami",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(strings.NewReader(input)), logging.NewNopLogger())

	assert.Equal(t, []string{
		"login", "deposits", "add-deposit", "rm-deposit", "summary", "funds",
		"rm-fund", "import", "export", "ics", "logout",
	}, exec.calls, "nothing runs after exit")
	assert.Equal(t, []string{"bank", "sort=rate:desc"}, exec.args["deposits"])
	assert.Equal(t, []string{"42"}, exec.args["rm-deposit"])
	assert.Equal(t, []string{"42", "a.ics"}, exec.args["ics"])
}

func TestRunREPL_ErrorsArePrintedAndLoopContinues(t *testing.T) {
	lines := capturePrintln(t)

	var logs bytes.Buffer
	exec := &fakeExec{fail: map[string]error{"login": errors.New("invalid credentials")}}
	runREPL(context.Background(), exec, func() string { return "" },
		bufio.NewReader(strings.NewReader("login\nfoobar\nregister")), logging.NewTextLogger(&logs, slog.LevelInfo))

	require.Equal(t, []string{"login", "register"}, exec.calls, "last line without newline still runs")
	assert.Contains(t, *lines, "Error: invalid credentials")
	assert.Contains(t, *lines, "Unknown command: foobar")
	assert.Contains(t, logs.String(), "command failed")
	assert.Contains(t, logs.String(), "command=login")
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" },
		bufio.NewReader(strings.NewReader("help\nlogin\nhelp\nquit\n")), logging.NewNopLogger())

	assert.Contains(t, *lines, helpLoggedOut)
	assert.Contains(t, *lines, helpLoggedIn)
	assert.Equal(t, "Bye!", (*lines)[len(*lines)-1])
}
