package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/licai/internal/models"
)

func TestOpenRecords_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "licai.db")

	r, err := OpenRecords(ctx, path)
	require.NoError(t, err)
	_, err = r.Accounts(r.DB()).Save(ctx, &models.Account{
		Username: "alice", PasswordHash: []byte{1}, Salt: []byte{2},
		Role: models.RoleUser, CreatedAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, r.Close())

	r, err = OpenRecords(ctx, path)
	require.NoError(t, err)
	defer r.Close()

	got, err := r.Accounts(r.DB()).Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, got.Role)
}

func TestRecords_ClearEmptiesEveryCollection(t *testing.T) {
	ctx := context.Background()
	r, err := OpenRecords(ctx, filepath.Join(t.TempDir(), "licai.db"))
	require.NoError(t, err)
	defer r.Close()

	db := r.DB()
	_, err = r.Accounts(db).Save(ctx, &models.Account{Username: "a", PasswordHash: []byte{1}, Salt: []byte{1}, Role: models.RoleUser, CreatedAt: time.Now()})
	require.NoError(t, err)
	_, err = r.Deposits(db).Save(ctx, &models.Deposit{ID: 1, Username: "a", Bank: "B", Date: time.Now(), ExpiryDate: time.Now()})
	require.NoError(t, err)
	_, err = r.Funds(db).Save(ctx, &models.Fund{ID: "f", Username: "a", Platform: "p", Name: "n", Date: time.Now()})
	require.NoError(t, err)
	require.NoError(t, r.Session(db).Set(ctx, "last_login", []byte("a")))

	require.NoError(t, r.Clear(ctx))

	as, err := r.Accounts(db).GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, as)
	ds, err := r.Deposits(db).GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, ds)
	fs, err := r.Funds(db).GetAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, fs)
	kv, err := r.Session(db).List(ctx)
	require.NoError(t, err)
	assert.Empty(t, kv)
}

func TestOpenSessionArea_IndependentFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := OpenSessionArea(ctx, filepath.Join(dir, "session.db"))
	require.NoError(t, err)
	require.NoError(t, s.KV().Set(ctx, "loginStatus", []byte("true")))
	require.NoError(t, s.Close())

	s, err = OpenSessionArea(ctx, filepath.Join(dir, "session.db"))
	require.NoError(t, err)
	defer s.Close()
	v, err := s.KV().Get(ctx, "loginStatus")
	require.NoError(t, err)
	assert.Equal(t, []byte("true"), v)
}

func TestOpen_CreatesMissingDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "dir", "x.db")
	r, err := OpenRecords(context.Background(), path)
	require.NoError(t, err)
	defer r.Close()

	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestOpen_BadPath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := OpenRecords(context.Background(), filepath.Join(blocker, "x.db"))
	require.Error(t, err)
}
