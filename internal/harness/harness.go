package harness

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/roach88/execdash/internal/config"
	"github.com/roach88/execdash/internal/dashboard"
	"github.com/roach88/execdash/internal/fetch"
	"github.com/roach88/execdash/internal/records"
	"github.com/roach88/execdash/internal/testutil"
)

// emptyPayload is served for categories a scenario leaves out.
const emptyPayload = `{"records": []}`

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: true if every assertion held.
	Pass bool `json:"pass"`

	// View is the assembled dashboard, nil when loading failed.
	View *dashboard.View `json:"view,omitempty"`

	// ErrorCode is the fetch error code when loading failed.
	ErrorCode string `json:"error_code,omitempty"`

	// Errors contains assertion failure messages.
	Errors []string `json:"errors,omitempty"`
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Run executes a scenario and returns the result.
//
// Payloads go through the same loader and decoder as `execdash show
// --from-dir`, with a fixed snapshot ID and clock. The returned error covers
// harness problems only (bad chart settings, unwritable temp dir); load
// failures are recorded in Result.ErrorCode and checked by assertions.
func Run(scenario *Scenario) (*Result, error) {
	cfg := scenarioConfig(scenario)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	dir := scenario.PayloadsDir
	if dir == "" {
		tmp, err := writePayloads(scenario.Payloads)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}

	client := fetch.New(cfg,
		fetch.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))), // Suppress logs in tests
		fetch.WithIDGenerator(testutil.NewFixedIDGenerator(scenario.SnapshotID)),
		fetch.WithClock(testutil.NewStepClock(time.Time{}, 0).Now),
	)

	result := &Result{Pass: true}

	snap, err := client.LoadDir(dir)
	if err != nil {
		var fe *fetch.Error
		if !errors.As(err, &fe) {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		result.ErrorCode = fe.Code
	} else {
		// The payload directory may be temporary; name the scenario instead.
		snap.Source = "scenario:" + scenario.Name

		view, err := dashboard.Build(snap, cfg.Charts)
		if err != nil {
			return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
		}
		result.View = view
	}

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}

// scenarioConfig applies the scenario's overrides to the default config.
func scenarioConfig(s *Scenario) config.Config {
	cfg := config.Default()
	cfg.SkipMalformedRows = s.SkipMalformedRows

	o := s.Charts
	if o.ProfitDivision != "" {
		cfg.Charts.ProfitDivision = o.ProfitDivision
	}
	if o.InsightDivision != "" {
		cfg.Charts.InsightDivision = o.InsightDivision
	}
	if o.InsightYear != 0 {
		cfg.Charts.InsightYear = o.InsightYear
	}
	if o.TopProjects != 0 {
		cfg.Charts.TopProjects = o.TopProjects
	}
	if o.LatestPolicy != "" {
		cfg.Charts.LatestPolicy = o.LatestPolicy
	}
	return cfg
}

// writePayloads writes inline bodies to a fresh temp directory.
func writePayloads(payloads map[string]string) (string, error) {
	dir, err := os.MkdirTemp("", "execdash-scenario-")
	if err != nil {
		return "", fmt.Errorf("failed to create payload dir: %w", err)
	}

	for _, c := range records.Categories {
		body, ok := payloads[string(c)]
		if !ok {
			body = emptyPayload
		}
		if err := os.WriteFile(filepath.Join(dir, string(c)+".json"), []byte(body), 0644); err != nil {
			os.RemoveAll(dir)
			return "", fmt.Errorf("failed to write %s payload: %w", c, err)
		}
	}
	return dir, nil
}
