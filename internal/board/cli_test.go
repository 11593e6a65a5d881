package board

import (
	"bytes"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseArgsPrecedence(t *testing.T) {
	t.Setenv("WMATA_API_KEY", "from-env")
	path := filepath.Join(t.TempDir(), "board.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
rail_code = "12018-12015"
metro_code = "E09"
refresh = 30
metro_api_key = "from-file"
`), 0o644))

	var errOut bytes.Buffer
	opts, err := ParseArgs("departure-board", []string{"-toml", path, "-metro-code", "A01", "-refresh", "0"}, &errOut)
	require.NoError(t, err)

	assert.Equal(t, "12018-12015", opts.Config.RailCode)
	assert.Equal(t, "A01", opts.Config.MetroCode)
	assert.Equal(t, 0, opts.Config.RefreshSeconds)
	assert.Equal(t, "from-env", opts.Config.MetroAPIKey)
	assert.Equal(t, "DepartureBoard.html", opts.Config.OutputPath)
}

func TestParseArgsWithoutFile(t *testing.T) {
	var errOut bytes.Buffer
	opts, err := ParseArgs("departure-board", []string{"-rail-code", "12018-12015", "-refresh", "60"}, &errOut)
	require.NoError(t, err)
	assert.Equal(t, "12018-12015", opts.Config.RailCode)
	assert.Equal(t, 60, opts.Config.RefreshSeconds)
	assert.Empty(t, opts.Config.MetroCode)
}

func TestParseArgsErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad station pair", []string{"-rail-code", "12018"}},
		{"negative refresh", []string{"-refresh", "-5"}},
		{"unknown flag", []string{"-frobnicate"}},
		{"stray argument", []string{"extra"}},
		{"missing config file", []string{"-toml", "/nonexistent/board.toml"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errOut bytes.Buffer
			_, err := ParseArgs("departure-board", tt.args, &errOut)
			require.Error(t, err)
			assert.NotErrorIs(t, err, flag.ErrHelp)
		})
	}
}

func TestParseArgsVersion(t *testing.T) {
	var errOut bytes.Buffer
	_, err := ParseArgs("departure-board", []string{"-version"}, &errOut)
	require.ErrorIs(t, err, flag.ErrHelp)
	assert.Contains(t, errOut.String(), "departure-board: version")
}

func TestMainExitCodes(t *testing.T) {
	var out, errOut bytes.Buffer
	assert.Equal(t, 0, Main("departure-board", []string{"-version"}, &out, &errOut))
	assert.Equal(t, -1, Main("departure-board", []string{"-rail-code", "nope"}, &out, &errOut))
	assert.Contains(t, errOut.String(), "Error:")
}
