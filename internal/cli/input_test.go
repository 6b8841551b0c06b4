package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/licai/internal/common"
	"github.com/dmitrijs2005/licai/internal/finance"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("  hello world \n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Name?\n> ", out.String())
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Name?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)

	_, err = GetSimpleText(in, "Again?", &out)
	require.Error(t, err)
}

func TestGetPassword(t *testing.T) {
	old := readPassword
	t.Cleanup(func() { readPassword = old })

	readPassword = func(int) ([]byte, error) { return []byte("secret"), nil }
	var out bytes.Buffer
	pw, err := GetPassword("Enter password", &out)
	require.NoError(t, err)
	assert.Equal(t, []byte("secret"), pw)
	assert.Equal(t, "Enter password: \n", out.String())

	readPassword = func(int) ([]byte, error) { return nil, errors.New("boom") }
	_, err = GetPassword("Enter password", &out)
	require.Error(t, err)
}

func TestParseDecimal(t *testing.T) {
	d, err := parseDecimal("amount", " 10,000.50 ")
	require.NoError(t, err)
	assert.Equal(t, "10000.5", d.String())

	_, err = parseDecimal("amount", "")
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = parseDecimal("rate", "3.2x")
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Contains(t, err.Error(), "rate")
}

func TestParseTerm(t *testing.T) {
	term, err := parseTerm("12")
	require.NoError(t, err)
	assert.Equal(t, finance.Term{Value: 12, Unit: finance.Month}, term)

	term, err = parseTerm("1.5 年")
	require.NoError(t, err)
	assert.Equal(t, 18, term.Months())

	_, err = parseTerm("twelve")
	require.ErrorIs(t, err, common.ErrValidation)
}

func TestParseViewArgs(t *testing.T) {
	opts, err := parseViewArgs([]string{"china", "sort=amount:desc", "bank"})
	require.NoError(t, err)
	assert.Equal(t, "china bank", opts.Query)
	assert.EqualValues(t, "amount", opts.Sort)
	assert.True(t, opts.Desc)

	_, err = parseViewArgs([]string{"sort=nope"})
	require.Error(t, err)
}
