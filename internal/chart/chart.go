// Package chart turns record sequences into chart-ready shapes.
//
// Every transform is a pure function: it reads its input slice without
// modifying it, allocates a fresh Chart, and never fails. Empty input yields
// a Chart with no labels and empty value slices.
package chart

import (
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Kind tells the presentation layer how to draw a chart.
type Kind string

const (
	KindBar  Kind = "bar"
	KindLine Kind = "line"
	KindPie  Kind = "pie"
)

// Series is one named run of values aligned with Chart.Labels.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// Chart is the minimal {labels, series} shape a charting surface needs.
type Chart struct {
	Labels []string `json:"labels"`
	Series []Series `json:"series"`
}

// Len returns the number of labels.
func (c Chart) Len() int {
	return len(c.Labels)
}

// Empty reports whether the chart has no points.
func (c Chart) Empty() bool {
	return len(c.Labels) == 0
}

// Values returns the values of the named series, or nil.
func (c Chart) Values(name string) []float64 {
	for _, s := range c.Series {
		if s.Name == name {
			return s.Values
		}
	}
	return nil
}

// Series names.
const (
	SeriesRevenue         = "Revenue (M)"
	SeriesNetProfit       = "Net Profit (M)"
	SeriesRetention       = "Retention Rate (%)"
	SeriesBudgetAllocated = "Budget Allocated (M)"
	SeriesBudgetSpent     = "Budget Spent (M)"
	SeriesIncidents       = "Incidents"
)

// LatestPolicy selects which Date counts as "latest" in the HR and security
// charts.
type LatestPolicy int

const (
	// LatestPositional takes the Date of the last row. It assumes the
	// backend returns rows in chronological order.
	LatestPositional LatestPolicy = iota

	// LatestMaxDate takes the lexicographically greatest Date.
	LatestMaxDate
)

// String returns the configuration name of the policy.
func (p LatestPolicy) String() string {
	switch p {
	case LatestPositional:
		return "positional"
	case LatestMaxDate:
		return "max"
	default:
		return fmt.Sprintf("LatestPolicy(%d)", int(p))
	}
}

// ParseLatestPolicy converts a configuration name into a LatestPolicy.
func ParseLatestPolicy(s string) (LatestPolicy, error) {
	switch s {
	case "positional", "":
		return LatestPositional, nil
	case "max":
		return LatestMaxDate, nil
	default:
		return 0, fmt.Errorf("unknown latest policy %q", s)
	}
}

// latestDate returns the latest Date under policy, or false for empty input.
func latestDate[T any](rows []T, date func(T) string, policy LatestPolicy) (string, bool) {
	if len(rows) == 0 {
		return "", false
	}
	if policy != LatestMaxDate {
		return date(rows[len(rows)-1]), true
	}

	latest := date(rows[0])
	for _, r := range rows[1:] {
		if d := date(r); d > latest {
			latest = d
		}
	}
	return latest, true
}

// newChart allocates a chart with one empty series per name.
func newChart(capacity int, names ...string) Chart {
	c := Chart{
		Labels: make([]string, 0, capacity),
		Series: make([]Series, len(names)),
	}
	for i, name := range names {
		c.Series[i] = Series{Name: name, Values: make([]float64, 0, capacity)}
	}
	return c
}

// add appends one label and one value per series.
func (c *Chart) add(label string, values ...float64) {
	c.Labels = append(c.Labels, label)
	for i := range c.Series {
		c.Series[i].Values = append(c.Series[i].Values, values[i])
	}
}

// labelKey normalizes a label so visually identical strings group together.
func labelKey(s string) string {
	return norm.NFC.String(s)
}
