package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "noodlec", cmd.Use)
	assert.True(t, cmd.SilenceUsage)
	assert.True(t, cmd.SilenceErrors)

	for _, flag := range []string{"config", "optimize", "debug", "output", "out-dir", "cache-path", "no-cache", "jobs", "verbose", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}

	names := make(map[string]bool)
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, want := range []string{"build", "check", "disasm", "tokens", "ast", "watch", "repl", "lsp", "cache", "version", "completion"} {
		assert.True(t, names[want], "subcommand %q should be registered", want)
	}
}

func TestRoot_Version(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "noodlec v"+Version)
}

func TestRoot_InvalidOutput(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := run(t, "version", "-o", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestRoot_ConfigFileAndFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile("noodlec.yaml", []byte("out_dir: from-file\nno_cache: true\n"), 0o644))
	require.NoError(t, os.WriteFile("main.nd", []byte("let x = 1;"), 0o644))

	_, _, err := run(t, "build", "--out-dir", "dist", "main.nd")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "dist", "main.nbc.json"))
	assert.NoError(t, err, "flag should override the config file")
	_, err = os.Stat(filepath.Join(dir, "from-file"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, ".noodlec"))
	assert.True(t, os.IsNotExist(err), "no_cache from the file should skip the cache")
}

func TestRoot_FailingCheckKeepsJSONClean(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("bad.nd", []byte("let = ;"), 0o644))

	out, errOut, err := run(t, "check", "--no-cache", "-o", "json", "bad.nd")
	require.Error(t, err)
	assert.NotContains(t, out, "Usage:")
	assert.NotContains(t, errOut, "Usage:")

	var checks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &checks))
	assert.Len(t, checks, 1)
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "noodlec")

	_, _, err = run(t, "completion", "tcsh")
	require.Error(t, err)
}
