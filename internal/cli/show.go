package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/execdash/internal/chart"
	"github.com/roach88/execdash/internal/config"
	"github.com/roach88/execdash/internal/dashboard"
	"github.com/roach88/execdash/internal/fetch"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	BaseURL string
	FromDir string
}

// dashboardResult renders a dashboard.View as text; in JSON mode the view's
// own fields are encoded.
type dashboardResult struct {
	*dashboard.View
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Build and print the executive dashboard",
		Long: `Fetch all four payloads (or load them from a directory) and print the
dashboard: summary tiles, the five charts and the revenue insight.

With --from-dir, the directory must contain financial.json, hr.json,
rnd.json and security.json holding saved API responses.

Examples:
  execdash show
  execdash show --from-dir ./testdata/payloads
  execdash show --format json --config dashboard.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "API base URL (overrides $"+config.EnvBaseURL+" and the config file)")
	cmd.Flags().StringVar(&opts.FromDir, "from-dir", "", "load payloads from a directory instead of the API")

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.resolveConfig(opts.BaseURL, opts.logger(cmd.ErrOrStderr()))
	if err != nil {
		return reportConfigError(formatter, err)
	}

	client := opts.newClient(cfg, cmd)

	var snap *fetch.Snapshot
	if opts.FromDir != "" {
		info, statErr := os.Stat(opts.FromDir)
		if statErr != nil || !info.IsDir() {
			msg := fmt.Sprintf("payload directory not found: %s", opts.FromDir)
			_ = formatter.Error(ErrCodeConfig, msg, nil)
			return NewExitError(ExitCommandError, msg)
		}
		formatter.VerboseLog("Loading payloads from %s", opts.FromDir)
		snap, err = client.LoadDir(opts.FromDir)
	} else {
		ctx, stop := signalContext(cmd)
		defer stop()
		formatter.VerboseLog("Fetching from %s", client.BaseURL())
		snap, err = client.FetchAll(ctx)
	}
	if err != nil {
		return reportDataError(formatter, err)
	}

	view, err := dashboard.Build(snap, cfg.Charts)
	if err != nil {
		_ = formatter.Error(ErrCodeBuild, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to build dashboard", err)
	}

	return formatter.Success(dashboardResult{view}, snap.ID)
}

// RenderText prints the dashboard as plain text sections.
func (r dashboardResult) RenderText(w io.Writer) error {
	v := r.View

	fmt.Fprintln(w, v.Title)
	fmt.Fprintln(w, strings.Repeat("=", len(v.Title)))
	fmt.Fprintln(w)

	for _, tile := range v.Tiles {
		fmt.Fprintf(w, "%-18s %s\n", tile.Label+":", tile.Value)
	}

	for _, p := range v.Panels {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "%s [%s]\n", p.Title, p.Kind)
		renderChart(w, p.Chart)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Insight: %s\n", v.Insight.Headline)
	renderChart(w, v.Insight.Chart)

	if v.Skipped > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Skipped %d malformed row(s)\n", v.Skipped)
	}
	return nil
}

func renderChart(w io.Writer, c chart.Chart) {
	if c.Empty() {
		fmt.Fprintln(w, "  (no data)")
		return
	}

	width := 0
	for _, label := range c.Labels {
		if len(label) > width {
			width = len(label)
		}
	}

	for i, label := range c.Labels {
		values := make([]string, 0, len(c.Series))
		for _, s := range c.Series {
			if len(c.Series) == 1 {
				values = append(values, formatValue(s.Values[i]))
				continue
			}
			values = append(values, s.Name+"="+formatValue(s.Values[i]))
		}
		fmt.Fprintf(w, "  %-*s  %s\n", width, label, strings.Join(values, "  "))
	}
}

func formatValue(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}
