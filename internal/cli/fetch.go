package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/execdash/internal/config"
	"github.com/roach88/execdash/internal/fetch"
	"github.com/roach88/execdash/internal/records"
)

// FetchOptions holds flags for the fetch command.
type FetchOptions struct {
	*RootOptions
	BaseURL string
	Timeout time.Duration
}

// FetchResult is the snapshot metadata printed by the fetch command.
type FetchResult struct {
	SnapshotID string         `json:"snapshot_id"`
	FetchedAt  time.Time      `json:"fetched_at"`
	Source     string         `json:"source"`
	Counts     map[string]int `json:"counts"`
	Skipped    int            `json:"skipped_rows"`
}

// RenderText prints one line per category in fetch order.
func (r FetchResult) RenderText(w io.Writer) error {
	fmt.Fprintf(w, "Snapshot:   %s\n", r.SnapshotID)
	fmt.Fprintf(w, "Fetched at: %s\n", r.FetchedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Source:     %s\n", r.Source)
	for _, c := range records.Categories {
		fmt.Fprintf(w, "  %-10s %d records\n", c, r.Counts[string(c)])
	}
	if r.Skipped > 0 {
		fmt.Fprintf(w, "Skipped %d malformed row(s)\n", r.Skipped)
	}
	return nil
}

// NewFetchCommand creates the fetch command.
func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FetchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch all four metric payloads",
		Long: `Fetch the financial, HR, R&D and security payloads concurrently and
print the snapshot metadata.

The fetch succeeds only if all four requests succeed and every payload passes
schema validation. Any failure exits with status 1 and names the category.

Examples:
  execdash fetch
  execdash fetch --base-url http://localhost:8000/api --timeout 3s
  execdash fetch --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFetch(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.BaseURL, "base-url", "", "API base URL (overrides $"+config.EnvBaseURL+" and the config file)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "per-request timeout (default from config, 10s)")

	return cmd
}

func runFetch(opts *FetchOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	cfg, err := opts.resolveConfig(opts.BaseURL, opts.logger(cmd.ErrOrStderr()))
	if err != nil {
		return reportConfigError(formatter, err)
	}
	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	client := opts.newClient(cfg, cmd)
	formatter.VerboseLog("Fetching from %s (timeout %s)", client.BaseURL(), cfg.Timeout)

	snap, err := client.FetchAll(ctx)
	if err != nil {
		return reportDataError(formatter, err)
	}

	return formatter.Success(newFetchResult(snap), snap.ID)
}

func newFetchResult(snap *fetch.Snapshot) FetchResult {
	counts := make(map[string]int, len(records.Categories))
	for c, n := range snap.Counts() {
		counts[string(c)] = n
	}
	return FetchResult{
		SnapshotID: snap.ID,
		FetchedAt:  snap.FetchedAt,
		Source:     snap.Source,
		Counts:     counts,
		Skipped:    snap.Skipped(),
	}
}

func (o *RootOptions) newClient(cfg config.Config, cmd *cobra.Command) *fetch.Client {
	opts := append([]fetch.Option{fetch.WithLogger(o.logger(cmd.ErrOrStderr()))}, o.FetchOptions...)
	return fetch.New(cfg, opts...)
}

// signalContext derives a context that is cancelled on SIGINT or SIGTERM.
// Uses the command's context if available (for testing).
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func reportConfigError(formatter *OutputFormatter, err error) error {
	_ = formatter.Error(ErrCodeConfig, err.Error(), nil)
	return WrapExitError(ExitCommandError, "invalid configuration", err)
}

// reportDataError prints a fetch or schema failure and maps it to ExitFailure.
func reportDataError(formatter *OutputFormatter, err error) error {
	var fe *fetch.Error
	if !errors.As(err, &fe) {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitFailure, "failed to load data", err)
	}

	details := map[string]any{
		"category": string(fe.Category),
		"op":       fe.Op,
	}
	if fe.URL != "" {
		details["url"] = fe.URL
	}
	if fe.StatusCode != 0 {
		details["status"] = fe.StatusCode
	}
	var se *records.SchemaError
	if errors.As(err, &se) {
		details["index"] = se.Index
		if se.Field != "" {
			details["field"] = se.Field
		}
	}

	_ = formatter.Error(fe.Code, err.Error(), details)
	return WrapExitError(ExitFailure, "failed to load data", err)
}
