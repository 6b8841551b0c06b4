package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable_AlignsWideCharacters(t *testing.T) {
	var b bytes.Buffer
	renderTable(&b, []string{"Bank", "Amount"}, [][]string{
		{"工商银行", "10000"},
		{"BOCOM", "20000"},
	})

	lines := strings.Split(strings.TrimRight(b.String(), "\n"), "\n")
	require.Greater(t, len(lines), 4)

	width := runewidth.StringWidth(lines[0])
	for _, l := range lines {
		assert.Equal(t, width, runewidth.StringWidth(l), l)
	}

	var icbc, bocom string
	for _, l := range lines {
		switch {
		case strings.Contains(l, "工商银行"):
			icbc = l
		case strings.Contains(l, "BOCOM"):
			bocom = l
		}
	}
	assert.Equal(t,
		runewidth.StringWidth(icbc[:strings.Index(icbc, "10000")]),
		runewidth.StringWidth(bocom[:strings.Index(bocom, "20000")]),
		"amount column starts at the same display column")
}

func TestRenderTable_HeaderOnlyWhenEmpty(t *testing.T) {
	var b bytes.Buffer
	renderTable(&b, []string{"ID", "Platform"}, nil)
	assert.Contains(t, b.String(), "PLATFORM")
}
