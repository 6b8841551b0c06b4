package services

import (
	"context"

	"github.com/dmitrijs2005/licai/internal/logging"
	"github.com/dmitrijs2005/licai/internal/store"
)

// Workspace holds the working sets of the signed-in account. It replaces
// process-wide deposit and fund lists: a new Workspace is opened on login
// and closed on logout.
type Workspace struct {
	Username string
	Deposits *DepositEngine
	Funds    *FundLedger
}

// OpenWorkspace loads the deposits and funds of username.
func OpenWorkspace(ctx context.Context, records *store.Records, username string, log logging.Logger, opts ...Option) (*Workspace, error) {
	w := &Workspace{
		Username: username,
		Deposits: NewDepositEngine(records, username, log, opts...),
		Funds:    NewFundLedger(records, username, log),
	}
	if err := w.Deposits.Load(ctx); err != nil {
		return nil, err
	}
	if err := w.Funds.Load(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// Close stops background work of the working sets.
func (w *Workspace) Close() {
	if w == nil {
		return
	}
	w.Deposits.Close()
}
