package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/execdash/internal/dashboard"
	"github.com/roach88/execdash/internal/records"
)

// Scenario defines one dashboard test case.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// SnapshotID is an optional fixed snapshot ID.
	// If empty, defaults to "test-snapshot-default".
	SnapshotID string `yaml:"snapshot_id,omitempty"`

	// SkipMalformedRows enables lenient decoding.
	SkipMalformedRows bool `yaml:"skip_malformed_rows,omitempty"`

	// Charts overrides the default chart settings field by field.
	Charts ChartOverrides `yaml:"charts,omitempty"`

	// PayloadsDir is a directory holding <category>.json response bodies.
	// Relative paths are resolved against the scenario file.
	PayloadsDir string `yaml:"payloads_dir,omitempty"`

	// Payloads holds inline response bodies keyed by category name.
	Payloads map[string]string `yaml:"payloads,omitempty"`

	// Assertions validate the dashboard view.
	Assertions []Assertion `yaml:"assertions"`
}

// ChartOverrides mirrors config.ChartConfig. Zero values keep the default.
type ChartOverrides struct {
	ProfitDivision  string `yaml:"profit_division,omitempty"`
	InsightDivision string `yaml:"insight_division,omitempty"`
	InsightYear     int    `yaml:"insight_year,omitempty"`
	TopProjects     int    `yaml:"top_projects,omitempty"`
	LatestPolicy    string `yaml:"latest_policy,omitempty"`
}

// Assertion validates one aspect of the dashboard view.
type Assertion struct {
	// Type specifies the assertion type (see package docs).
	Type string `yaml:"type"`

	// Chart is the panel key (used by chart_labels, chart_values).
	// "insight" selects the insight pie.
	Chart string `yaml:"chart,omitempty"`

	// Series is the series name (used by chart_values).
	Series string `yaml:"series,omitempty"`

	// Labels are the expected labels (used by chart_labels).
	Labels []string `yaml:"labels,omitempty"`

	// Values are the expected values (used by chart_values).
	Values []float64 `yaml:"values,omitempty"`

	// Label is the tile label (used by tile).
	Label string `yaml:"label,omitempty"`

	// Text is the expected text (used by headline, tile).
	Text string `yaml:"text,omitempty"`

	// Ratio is the expected insight ratio (used by ratio).
	Ratio *float64 `yaml:"ratio,omitempty"`

	// Count is the expected skipped row count (used by skipped).
	Count *int `yaml:"count,omitempty"`

	// Code is the expected fetch error code (used by error).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertChartLabels = "chart_labels"
	AssertChartValues = "chart_values"
	AssertHeadline    = "headline"
	AssertRatio       = "ratio"
	AssertTile        = "tile"
	AssertSkipped     = "skipped"
	AssertError       = "error"
)

// InsightChart selects the insight pie in chart assertions.
const InsightChart = "insight"

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// A relative payloads_dir is resolved against the scenario file's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.PayloadsDir != "" && !filepath.IsAbs(scenario.PayloadsDir) {
		scenario.PayloadsDir = filepath.Join(filepath.Dir(path), scenario.PayloadsDir)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.PayloadsDir != "" && len(s.Payloads) > 0 {
		return fmt.Errorf("payloads_dir and payloads are mutually exclusive")
	}

	if s.PayloadsDir != "" {
		if info, err := os.Stat(s.PayloadsDir); err != nil || !info.IsDir() {
			return fmt.Errorf("payloads_dir not found: %s", s.PayloadsDir)
		}
	}

	for name := range s.Payloads {
		if _, err := records.ParseCategory(name); err != nil {
			return fmt.Errorf("payloads: %w", err)
		}
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertChartLabels:
		if err := validateChartKey(index, a); err != nil {
			return err
		}
		if a.Labels == nil {
			return fmt.Errorf("assertions[%d]: labels is required for chart_labels (use [] for none)", index)
		}
	case AssertChartValues:
		if err := validateChartKey(index, a); err != nil {
			return err
		}
		if a.Series == "" {
			return fmt.Errorf("assertions[%d]: series is required for chart_values", index)
		}
		if a.Values == nil {
			return fmt.Errorf("assertions[%d]: values is required for chart_values (use [] for none)", index)
		}
	case AssertHeadline:
		if a.Text == "" {
			return fmt.Errorf("assertions[%d]: text is required for headline", index)
		}
	case AssertRatio:
		if a.Ratio == nil {
			return fmt.Errorf("assertions[%d]: ratio is required for ratio", index)
		}
	case AssertTile:
		if a.Label == "" || a.Text == "" {
			return fmt.Errorf("assertions[%d]: label and text are required for tile", index)
		}
	case AssertSkipped:
		if a.Count == nil || *a.Count < 0 {
			return fmt.Errorf("assertions[%d]: non-negative count is required for skipped", index)
		}
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

func validateChartKey(index int, a *Assertion) error {
	switch a.Chart {
	case dashboard.PanelRevenue, dashboard.PanelProfit, dashboard.PanelRetention,
		dashboard.PanelRND, dashboard.PanelSecurity, InsightChart:
		return nil
	case "":
		return fmt.Errorf("assertions[%d]: chart is required for %s", index, a.Type)
	default:
		return fmt.Errorf("assertions[%d]: unknown chart %q", index, a.Chart)
	}
}
