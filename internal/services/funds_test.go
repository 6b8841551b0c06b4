package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/licai/internal/common"
)

func newLedger(t *testing.T, env *testEnv, username string) *FundLedger {
	t.Helper()
	l := NewFundLedger(env.records, username, env.log)
	require.NoError(t, l.Load(context.Background()))
	return l
}

func TestFundLedger_CreateListAndReload(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	l := newLedger(t, env, "alice")

	f, err := l.Create(ctx, FundInput{Platform: " Alipay ", Name: "CSI 300", Date: "20240301", Amount: dec("2500.5")})
	require.NoError(t, err)
	assert.Equal(t, "Alipay", f.Platform)
	assert.Equal(t, "2024-03-01", f.Date.Format("2006-01-02"))
	parsed, err := uuid.Parse(f.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())

	_, err = l.Create(ctx, FundInput{Platform: "Tiantian", Name: "Bond", Date: "2024-04-01", Amount: dec("100")})
	require.NoError(t, err)
	_, err = l.Create(ctx, FundInput{Platform: "Alipay", Name: "Gold", Date: "2024-05-01", Amount: dec("99.5")})
	require.NoError(t, err)

	assert.Equal(t, []string{"Alipay", "Tiantian"}, l.Platforms())
	assert.Equal(t, "2700", l.Total().String())

	again := newLedger(t, env, "alice")
	assert.Len(t, again.List(), 3)
	assert.Empty(t, newLedger(t, env, "bob").List())
}

func TestFundLedger_Validation(t *testing.T) {
	env := newTestEnv(t)
	l := newLedger(t, env, "alice")
	ctx := context.Background()

	cases := map[string]FundInput{
		"platform": {Name: "n", Date: "2024-01-01", Amount: dec("1")},
		"name":     {Platform: "p", Date: "2024-01-01", Amount: dec("1")},
		"date":     {Platform: "p", Name: "n", Amount: dec("1")},
		"amount":   {Platform: "p", Name: "n", Date: "2024-01-01"},
	}
	for field, in := range cases {
		_, err := l.Create(ctx, in)
		var ve *common.ValidationError
		require.ErrorAs(t, err, &ve, field)
		assert.Equal(t, field, ve.Field)
	}

	_, err := l.Create(ctx, FundInput{Platform: "p", Name: "n", Date: "someday", Amount: dec("1")})
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, l.List())
}

func TestFundLedger_Deletes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := newLedger(t, env, "alice")
	bob := newLedger(t, env, "bob")

	f1, err := alice.Create(ctx, FundInput{Platform: "p", Name: "a", Date: "2024-01-01", Amount: dec("1")})
	require.NoError(t, err)
	_, err = alice.Create(ctx, FundInput{Platform: "p", Name: "b", Date: "2024-01-02", Amount: dec("1")})
	require.NoError(t, err)
	_, err = bob.Create(ctx, FundInput{Platform: "p", Name: "c", Date: "2024-01-03", Amount: dec("1")})
	require.NoError(t, err)

	require.ErrorIs(t, alice.Delete(ctx, f1.ID, "no"), common.ErrNotConfirmed)
	require.ErrorIs(t, alice.Delete(ctx, "missing", DeleteConfirmation), common.ErrNotFound)
	require.NoError(t, alice.Delete(ctx, f1.ID, DeleteConfirmation))
	require.Len(t, alice.List(), 1)

	_, err = alice.DeleteAll(ctx, "")
	require.ErrorIs(t, err, common.ErrNotConfirmed)
	n, err := alice.DeleteAll(ctx, DeleteConfirmation)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	all, err := env.records.Funds(env.records.DB()).GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "bob", all[0].Username)
}
