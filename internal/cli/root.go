package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/execdash/internal/config"
	"github.com/roach88/execdash/internal/fetch"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string

	// Getenv reads the environment. Tests replace it; nil means os.Getenv.
	Getenv func(string) string

	// Hostname reports the machine's hostname. Nil means os.Hostname.
	Hostname func() (string, error)

	// Logger overrides the stderr logger built from Verbose (for testing).
	Logger *slog.Logger

	// FetchOptions are appended to every fetch.Client the commands build
	// (for testing).
	FetchOptions []fetch.Option
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the execdash CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "execdash",
		Short: "execdash - executive dashboard data layer",
		Long: `Fetch the financial, HR, R&D and security metrics from the dashboard API
and turn them into chart-ready series, summary tiles and the revenue insight.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML config file")

	// Add subcommands
	cmd.AddCommand(NewURLCommand(opts))
	cmd.AddCommand(NewFetchCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

func (o *RootOptions) getenv(key string) string {
	if o.Getenv != nil {
		return o.Getenv(key)
	}
	return os.Getenv(key)
}

// logger returns the process logger: a text handler on stderr, at Debug
// level when --verbose is set.
func (o *RootOptions) logger(stderr io.Writer) *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	logLevel := slog.LevelWarn
	if o.Verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

func (o *RootOptions) hostname() (string, error) {
	if o.Hostname != nil {
		return o.Hostname()
	}
	return os.Hostname()
}

// resolveConfig builds the session configuration.
//
// Precedence for the base URL: the --base-url flag, then EXECDASH_API_BASE,
// then base_url from the config file, then the hostname rule of
// config.ResolveBaseURL.
func (o *RootOptions) resolveConfig(baseURLFlag string, logger *slog.Logger) (config.Config, error) {
	cfg := config.Default()
	cfg.BaseURL = ""
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	switch {
	case baseURLFlag != "":
		cfg.BaseURL = baseURLFlag
	case o.getenv(config.EnvBaseURL) != "":
		cfg.BaseURL = o.getenv(config.EnvBaseURL)
	case cfg.BaseURL == "":
		hostname, err := o.hostname()
		if err != nil {
			logger.Warn("hostname lookup failed", "error", err)
		}
		cfg.BaseURL = config.ResolveBaseURL("", hostname)
		logger.Debug("base url from hostname", "hostname", hostname, "base_url", cfg.BaseURL)
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}
