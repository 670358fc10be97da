// Package config holds the dashboard's runtime configuration.
//
// Configuration is resolved once at process start (flags, optional YAML file,
// environment override) and then passed by value into the fetcher and the
// dashboard builder. Nothing below the CLI reads the environment.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// LocalBaseURL is used when the dashboard runs against a local backend.
	LocalBaseURL = "http://localhost:8000/api"

	// ProductionBaseURL is used everywhere else.
	ProductionBaseURL = "https://screening-production.up.railway.app/api"

	// LocalHostname is the hostname that selects LocalBaseURL.
	LocalHostname = "localhost"

	// EnvBaseURL is the override variable consulted by the CLI.
	EnvBaseURL = "EXECDASH_API_BASE"

	// DefaultTimeout is the per-request deadline.
	DefaultTimeout = 10 * time.Second
)

// Latest-date policies for the HR and security charts.
const (
	LatestPositional = "positional"
	LatestMaxDate    = "max"
)

// Config is the resolved configuration for one dashboard session.
type Config struct {
	// BaseURL is the API root, without a trailing slash.
	BaseURL string `yaml:"base_url"`

	// Timeout is the per-request deadline.
	Timeout time.Duration `yaml:"timeout"`

	// SkipMalformedRows drops rows failing the schema instead of failing the fetch.
	SkipMalformedRows bool `yaml:"skip_malformed_rows"`

	// Charts parameterizes the chart transforms and the insight card.
	Charts ChartConfig `yaml:"charts"`
}

// ChartConfig holds the fixed targets the transforms use.
type ChartConfig struct {
	// ProfitDivision is the division plotted in the profit trend.
	ProfitDivision string `yaml:"profit_division"`

	// InsightDivision and InsightYear select the insight numerator.
	InsightDivision string `yaml:"insight_division"`
	InsightYear     int    `yaml:"insight_year"`

	// TopProjects is the positional prefix length of the R&D chart.
	TopProjects int `yaml:"top_projects"`

	// LatestPolicy is LatestPositional or LatestMaxDate.
	LatestPolicy string `yaml:"latest_policy"`
}

// Default returns the configuration matching the original dashboard.
func Default() Config {
	return Config{
		BaseURL: ProductionBaseURL,
		Timeout: DefaultTimeout,
		Charts: ChartConfig{
			ProfitDivision:  "Wayne Aerospace",
			InsightDivision: "Wayne Aerospace",
			InsightYear:     2024,
			TopProjects:     5,
			LatestPolicy:    LatestPositional,
		},
	}
}

// ResolveBaseURL selects the API root.
//
// An explicit override always wins. Without one, the local default is used
// when the hostname is "localhost" and the production default otherwise.
func ResolveBaseURL(override, hostname string) string {
	if override != "" {
		return override
	}
	if hostname == LocalHostname {
		return LocalBaseURL
	}
	return ProductionBaseURL
}

// Load reads a YAML file on top of Default().
// Unknown keys are rejected so typos surface instead of silently defaulting.
// BaseURL stays empty when the file does not set base_url; the caller then
// picks it with ResolveBaseURL.
func Load(path string) (Config, error) {
	cfg := Default()
	cfg.BaseURL = ""

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if err := cfg.validateSettings(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return fmt.Errorf("base_url is required")
	}
	return c.validateSettings()
}

func (c Config) validateSettings() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Charts.TopProjects <= 0 {
		return fmt.Errorf("charts.top_projects must be positive, got %d", c.Charts.TopProjects)
	}
	switch c.Charts.LatestPolicy {
	case LatestPositional, LatestMaxDate:
	default:
		return fmt.Errorf("charts.latest_policy %q: must be %q or %q",
			c.Charts.LatestPolicy, LatestPositional, LatestMaxDate)
	}
	return nil
}
