package services

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/licai/internal/logging"
	"github.com/dmitrijs2005/licai/internal/store"
)

// testNow is the fixed clock of the service tests.
var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	records  *store.Records
	area     *store.SessionArea
	sessions SessionManager
	accounts AccountService
	log      logging.Logger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	records, err := store.OpenRecords(ctx, filepath.Join(dir, "licai.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = records.Close() })

	area, err := store.OpenSessionArea(ctx, filepath.Join(dir, "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = area.Close() })

	log := logging.NewNopLogger()
	sessions := NewSessionManager(area.KV(), log)
	return &testEnv{
		records:  records,
		area:     area,
		sessions: sessions,
		accounts: NewAccountService(records, sessions, log, func() time.Time { return testNow }),
		log:      log,
	}
}

// login registers username (unless it is the admin) and signs in.
func (e *testEnv) login(t *testing.T, username string) {
	t.Helper()
	ctx := context.Background()
	password := []byte("pw-" + username)
	if username == AdminUsername {
		require.NoError(t, e.accounts.BootstrapAdmin(ctx))
		password = []byte(AdminPassword)
	} else {
		require.NoError(t, e.accounts.Register(ctx, username, password))
	}
	_, err := e.accounts.Login(ctx, username, password)
	require.NoError(t, err)
}
