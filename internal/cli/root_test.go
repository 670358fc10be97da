package cli

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/execdash/internal/config"
	"github.com/roach88/execdash/internal/fetch"
	"github.com/roach88/execdash/internal/testutil"
)

// testOptions returns root options with a fixed environment, a silent logger
// and deterministic snapshot IDs.
func testOptions(env map[string]string) *RootOptions {
	return &RootOptions{
		Getenv:   func(key string) string { return env[key] },
		Hostname: func() (string, error) { return "ci-runner", nil },
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		FetchOptions: []fetch.Option{
			fetch.WithIDGenerator(testutil.NewFixedIDGenerator("snap-cli")),
			fetch.WithClock(testutil.NewStepClock(time.Time{}, time.Second).Now),
		},
	}
}

// execute runs the command tree and returns stdout, stderr and the error.
func execute(t *testing.T, opts *RootOptions, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(opts)
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "execdash", cmd.Use)
	assert.Contains(t, cmd.Long, "chart-ready")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"url", "fetch", "show"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestFetchCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	fetchCmd, _, err := cmd.Find([]string{"fetch"})
	require.NoError(t, err)

	require.NotNil(t, fetchCmd.Flags().Lookup("base-url"))
	timeoutFlag := fetchCmd.Flags().Lookup("timeout")
	require.NotNil(t, timeoutFlag)
	assert.Equal(t, "0s", timeoutFlag.DefValue)
}

func TestShowCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	showCmd, _, err := cmd.Find([]string{"show"})
	require.NoError(t, err)

	require.NotNil(t, showCmd.Flags().Lookup("base-url"))
	require.NotNil(t, showCmd.Flags().Lookup("from-dir"))
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, testOptions(nil), "url", "--format", "yaml", "--hostname", "localhost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "yaml"`)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestUnknownFlagIsCommandError(t *testing.T) {
	_, _, err := execute(t, testOptions(nil), "fetch", "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestResolveConfig_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "execdash.yaml")
	require.NoError(t, os.WriteFile(path, []byte("base_url: http://from-file.test/api/\n"), 0644))

	noURL := filepath.Join(dir, "timeout-only.yaml")
	require.NoError(t, os.WriteFile(noURL, []byte("timeout: 5s\n"), 0644))

	tests := []struct {
		name     string
		env      map[string]string
		cfg      string
		flag     string
		hostname string
		want     string
	}{
		{"remote host", nil, "", "", "ci-runner", config.ProductionBaseURL},
		{"localhost", nil, "", "", "localhost", config.LocalBaseURL},
		{"file without base_url uses hostname", nil, noURL, "", "localhost", config.LocalBaseURL},
		{"config file beats hostname", nil, path, "", "localhost", "http://from-file.test/api"},
		{"env beats file", map[string]string{config.EnvBaseURL: "http://from-env.test/api"}, path, "", "localhost", "http://from-env.test/api"},
		{"flag beats env", map[string]string{config.EnvBaseURL: "http://from-env.test/api"}, path, "http://from-flag.test/api/", "localhost", "http://from-flag.test/api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions(tt.env)
			opts.ConfigPath = tt.cfg
			hostname := tt.hostname
			opts.Hostname = func() (string, error) { return hostname, nil }

			cfg, err := opts.resolveConfig(tt.flag, opts.logger(io.Discard))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.BaseURL)
		})
	}
}

func TestResolveConfig_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("charts:\n  top_projects: 0\n"), 0644))

	opts := testOptions(nil)
	opts.ConfigPath = path
	_, err := opts.resolveConfig("", opts.logger(io.Discard))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "top_projects")
}

func TestResolveConfig_HostnameLookupFails(t *testing.T) {
	opts := testOptions(nil)
	opts.Hostname = func() (string, error) { return "", errors.New("no uts namespace") }

	cfg, err := opts.resolveConfig("", opts.logger(io.Discard))
	require.NoError(t, err)
	assert.Equal(t, config.ProductionBaseURL, cfg.BaseURL)
}
