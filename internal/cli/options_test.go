package cli_test

import (
	"bytes"
	"flag"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yookoala/seabattle/comms"
	"github.com/yookoala/seabattle/internal/cli"
	"github.com/yookoala/seabattle/match"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParse_Defaults(t *testing.T) {
	o, err := cli.Parse(newFlagSet(), nil, "Captain")
	require.NoError(t, err)
	assert.Equal(t, "Captain", o.Name)
	assert.Equal(t, match.DefaultPort, o.Port)
	assert.Equal(t, "tcp", o.Transport)
	assert.Empty(t, o.Join)
	assert.Equal(t, comms.DefaultWebSocketPath, o.WSPath)
}

func TestParse_EnvAndFlags(t *testing.T) {
	t.Setenv("SEABATTLE_NAME", "envname")
	t.Setenv("SEABATTLE_PORT", "6000")
	t.Setenv("SEABATTLE_TRANSPORT", "ws")

	o, err := cli.Parse(newFlagSet(), nil, "Captain")
	require.NoError(t, err)
	assert.Equal(t, "envname", o.Name)
	assert.Equal(t, 6000, o.Port)
	assert.Equal(t, "ws", o.Transport)

	// Flags win over the environment.
	o, err = cli.Parse(newFlagSet(), []string{"-name", "flagname", "-port", "7000", "-join", "10.0.0.2", "-v"}, "Captain")
	require.NoError(t, err)
	assert.Equal(t, "flagname", o.Name)
	assert.Equal(t, 7000, o.Port)
	assert.Equal(t, "10.0.0.2", o.Join)
	assert.True(t, o.Verbose)
}

func TestParse_Invalid(t *testing.T) {
	_, err := cli.Parse(newFlagSet(), []string{"-transport", "pigeon"}, "x")
	assert.Error(t, err)

	_, err = cli.Parse(newFlagSet(), []string{"-port", "70000"}, "x")
	assert.Error(t, err)

	t.Setenv("SEABATTLE_PORT", "five thousand")
	_, err = cli.Parse(newFlagSet(), nil, "x")
	assert.Error(t, err)
}

func TestOptions_Logger(t *testing.T) {
	var buf bytes.Buffer
	cli.Options{}.Logger(&buf).Debug("hidden")
	assert.Empty(t, buf.String())

	cli.Options{Verbose: true}.Logger(&buf).Debug("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestOptions_OpenLog(t *testing.T) {
	var fallback bytes.Buffer
	w, closeLog, err := cli.Options{}.OpenLog(&fallback)
	require.NoError(t, err)
	assert.Same(t, &fallback, w)
	assert.NoError(t, closeLog())

	path := filepath.Join(t.TempDir(), "game.log")
	w, closeLog, err = cli.Options{LogFile: path}.OpenLog(&fallback)
	require.NoError(t, err)
	_, err = io.WriteString(w, "hello\n")
	require.NoError(t, err)
	assert.NoError(t, closeLog())
	assert.FileExists(t, path)
}
