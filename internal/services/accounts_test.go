package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/licai/internal/common"
	"github.com/dmitrijs2005/licai/internal/models"
)

func TestBootstrapAdmin_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.accounts.BootstrapAdmin(ctx))
	require.NoError(t, env.accounts.BootstrapAdmin(ctx))

	all, err := env.records.Accounts(env.records.DB()).GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, AdminUsername, all[0].Username)
	assert.Equal(t, models.RoleAdmin, all[0].Role)
	assert.NotEqual(t, []byte(AdminPassword), all[0].PasswordHash)

	snap, err := env.accounts.Login(ctx, AdminUsername, []byte(AdminPassword))
	require.NoError(t, err)
	assert.True(t, snap.IsAdmin())
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.accounts.Register(ctx, "", []byte("pw"))
	require.ErrorIs(t, err, common.ErrValidation)

	err = env.accounts.Register(ctx, "alice", nil)
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestRegister_DuplicateIsConflict_FirstPasswordKept(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.accounts.Register(ctx, "alice", []byte("pw1")))
	err := env.accounts.Register(ctx, "alice", []byte("pw2"))
	require.ErrorIs(t, err, common.ErrConflict)

	_, err = env.accounts.Login(ctx, "alice", []byte("pw1"))
	require.NoError(t, err)
	_, err = env.accounts.Login(ctx, "alice", []byte("pw2"))
	require.ErrorIs(t, err, common.ErrAuth)
}

func TestRegister_UsernamesAreCaseSensitive(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.accounts.Register(ctx, "alice", []byte("pw")))
	require.NoError(t, env.accounts.Register(ctx, "Alice", []byte("pw")))
}

func TestLogin_UnknownUser(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.accounts.Login(context.Background(), "ghost", []byte("pw"))
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestLogin_WrongPasswordThreeTimes_NoSessionNoLockout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	require.NoError(t, env.accounts.Register(ctx, "alice", []byte("right")))

	for i := 0; i < 3; i++ {
		_, err := env.accounts.Login(ctx, "alice", []byte("wrong"))
		require.ErrorIs(t, err, common.ErrAuth)

		s, err := env.sessions.CheckLoginStatus(ctx)
		require.NoError(t, err)
		assert.Nil(t, s)
	}

	_, err := env.accounts.Login(ctx, "alice", []byte("right"))
	require.NoError(t, err)
}

func TestLogin_EstablishesSessionAndRecordsLastLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.login(t, "alice")

	me, err := env.accounts.Whoami(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, models.RoleUser, me.Role)

	raw, err := env.records.Session(env.records.DB()).Get(ctx, keyLastLogin)
	require.NoError(t, err)
	var ll lastLogin
	require.NoError(t, json.Unmarshal(raw, &ll))
	assert.Equal(t, "alice", ll.Username)
	assert.True(t, ll.At.Equal(testNow))
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.login(t, "alice")

	require.NoError(t, env.accounts.Logout(ctx))
	_, err := env.accounts.Whoami(ctx)
	require.ErrorIs(t, err, common.ErrNotLoggedIn)

	// logging out twice is fine
	require.NoError(t, env.accounts.Logout(ctx))
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.accounts.ChangePassword(ctx, []byte("a"), []byte("b"), []byte("b"))
	require.ErrorIs(t, err, common.ErrNotLoggedIn)

	env.login(t, "alice")

	err = env.accounts.ChangePassword(ctx, []byte("pw-alice"), []byte("new"), []byte("other"))
	require.ErrorIs(t, err, common.ErrValidation)

	err = env.accounts.ChangePassword(ctx, []byte("nope"), []byte("new"), []byte("new"))
	require.ErrorIs(t, err, common.ErrAuth)

	require.NoError(t, env.accounts.ChangePassword(ctx, []byte("pw-alice"), []byte("new"), []byte("new")))

	me, err := env.accounts.Whoami(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	_, err = env.accounts.Login(ctx, "alice", []byte("pw-alice"))
	require.ErrorIs(t, err, common.ErrAuth)
	_, err = env.accounts.Login(ctx, "alice", []byte("new"))
	require.NoError(t, err)
}

func TestListAccounts_AdminOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.accounts.ListAccounts(ctx)
	require.ErrorIs(t, err, common.ErrNotLoggedIn)

	env.login(t, "alice")
	_, err = env.accounts.ListAccounts(ctx)
	require.ErrorIs(t, err, common.ErrPermission)

	env.login(t, AdminUsername)
	list, err := env.accounts.ListAccounts(ctx)
	require.NoError(t, err)
	names := []string{}
	for _, a := range list {
		names = append(names, a.Username)
	}
	assert.ElementsMatch(t, []string{"alice", AdminUsername}, names)
}

func TestDeleteAllData(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.login(t, "alice")
	require.ErrorIs(t, env.accounts.DeleteAllData(ctx, ClearConfirmation), common.ErrPermission)

	env.login(t, AdminUsername)
	require.ErrorIs(t, env.accounts.DeleteAllData(ctx, "yes"), common.ErrNotConfirmed)

	require.NoError(t, env.accounts.DeleteAllData(ctx, ClearConfirmation))

	all, err := env.records.Accounts(env.records.DB()).GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, AdminUsername, all[0].Username)

	s, err := env.sessions.CheckLoginStatus(ctx)
	require.NoError(t, err)
	assert.Nil(t, s)

	_, err = env.accounts.Login(ctx, "alice", []byte("pw-alice"))
	require.ErrorIs(t, err, common.ErrNotFound)
}
