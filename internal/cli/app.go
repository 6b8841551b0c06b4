package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/licai/internal/common"
	"github.com/dmitrijs2005/licai/internal/config"
	"github.com/dmitrijs2005/licai/internal/logging"
	"github.com/dmitrijs2005/licai/internal/models"
	"github.com/dmitrijs2005/licai/internal/services"
	"github.com/dmitrijs2005/licai/internal/store"
)

type App struct {
	config   *config.Config
	log      logging.Logger
	records  *store.Records
	area     *store.SessionArea
	sessions services.SessionManager
	accounts services.AccountService
	now      func() time.Time

	user *models.AccountSnapshot
	ws   *services.Workspace

	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens both stores named by c and makes sure the admin account
// exists. Input is read from stdin and tables are written to stdout.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	return newApp(ctx, c, log, os.Stdin, os.Stdout, time.Now)
}

func newApp(ctx context.Context, c *config.Config, log logging.Logger, in io.Reader, out io.Writer, now func() time.Time) (*App, error) {
	records, err := store.OpenRecords(ctx, c.DatabasePath)
	if err != nil {
		return nil, err
	}
	area, err := store.OpenSessionArea(ctx, c.SessionPath)
	if err != nil {
		records.Close()
		return nil, err
	}

	sessions := services.NewSessionManager(area.KV(), log)
	accounts := services.NewAccountService(records, sessions, log, now)
	if err := accounts.BootstrapAdmin(ctx); err != nil {
		area.Close()
		records.Close()
		return nil, err
	}

	return &App{
		config:   c,
		log:      log,
		records:  records,
		area:     area,
		sessions: sessions,
		accounts: accounts,
		now:      now,
		reader:   bufio.NewReader(in),
		out:      out,
	}, nil
}

// Run resumes a stored session, if any, and serves commands until exit or
// end of input.
func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to licai (type 'help' for commands)")
	if err := a.resume(ctx); err != nil {
		a.log.Error(ctx, "failed to resume session", "error", err)
	}
	runREPL(ctx, a, a.getStatus, a.reader, a.log)
}

// Close stops the workspace and closes both stores.
func (a *App) Close() error {
	a.closeWorkspace()
	err := a.area.Close()
	if rerr := a.records.Close(); err == nil {
		err = rerr
	}
	return err
}

func (a *App) isLoggedIn() bool {
	return a.ws != nil
}

func (a *App) getStatus() string {
	if a.user == nil {
		return ""
	}
	return fmt.Sprintf("(%s)", a.user.Username)
}

// resume reloads the working set of a valid session.
func (a *App) resume(ctx context.Context) error {
	snap, err := a.sessions.CheckLoginStatus(ctx)
	if err != nil || snap == nil {
		return err
	}
	if err := a.openWorkspace(ctx, snap); err != nil {
		return err
	}
	printlnFn("Signed in as", snap.Username)
	return nil
}

func (a *App) openWorkspace(ctx context.Context, snap *models.AccountSnapshot) error {
	a.closeWorkspace()
	ws, err := services.OpenWorkspace(ctx, a.records, snap.Username, a.log,
		services.WithClock(a.now),
		services.WithHighlightDelay(a.config.HighlightDelay),
		services.WithOnChange(func() {
			a.log.Debug(context.Background(), "highlight cleared", "username", snap.Username)
		}),
	)
	if err != nil {
		return err
	}
	a.user = snap
	a.ws = ws
	return nil
}

func (a *App) closeWorkspace() {
	a.ws.Close()
	a.ws = nil
	a.user = nil
}

func (a *App) workspace() (*services.Workspace, error) {
	if a.ws == nil {
		return nil, common.ErrNotLoggedIn
	}
	return a.ws, nil
}

func (a *App) prompt(label string) (string, error) {
	return getSimpleText(a.reader, label, a.out)
}
