package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/execdash/internal/config"
)

// URLOptions holds flags for the url command.
type URLOptions struct {
	*RootOptions
	Override string
	Hostname string
}

// URLResult reports the resolved API root.
type URLResult struct {
	BaseURL    string `json:"base_url"`
	Hostname   string `json:"hostname"`
	Overridden bool   `json:"overridden"`
}

// RenderText prints the base URL alone so the output can be captured by scripts.
func (r URLResult) RenderText(w io.Writer) error {
	_, err := fmt.Fprintln(w, r.BaseURL)
	return err
}

// NewURLCommand creates the url command.
func NewURLCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &URLOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "url",
		Short: "Print the resolved API base URL",
		Long: `Print the API base URL the dashboard would fetch from.

An explicit override (--override, or the EXECDASH_API_BASE environment
variable) always wins. Otherwise the local backend is used when the hostname
is "localhost" and the production backend everywhere else.

Examples:
  execdash url
  execdash url --hostname localhost
  execdash url --override http://127.0.0.1:9000/api --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runURL(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Override, "override", "", "explicit base URL (defaults to $"+config.EnvBaseURL+")")
	cmd.Flags().StringVar(&opts.Hostname, "hostname", "", "hostname to resolve for (defaults to this machine's hostname)")

	return cmd
}

func runURL(opts *URLOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	override := opts.Override
	if override == "" {
		override = opts.getenv(config.EnvBaseURL)
	}

	hostname := opts.Hostname
	if hostname == "" {
		h, err := opts.hostname()
		if err != nil {
			formatter.VerboseLog("hostname lookup failed: %v", err)
		}
		hostname = h
	}

	return formatter.Success(URLResult{
		BaseURL:    config.ResolveBaseURL(override, hostname),
		Hostname:   hostname,
		Overridden: override != "",
	}, "")
}
