package harness

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/roach88/execdash/internal/chart"
	"github.com/roach88/execdash/internal/dashboard"
)

// ratioTolerance absorbs float rounding in ratio assertions.
const ratioTolerance = 1e-9

// AssertionError is returned when an assertion fails.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// EvaluateAssertions checks every assertion and returns one message per
// failure, prefixed with the assertion index.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var failures []string
	for i, a := range assertions {
		if err := evaluate(result, a); err != nil {
			failures = append(failures, fmt.Sprintf("assertions[%d]: %v", i, err))
		}
	}
	return failures
}

func evaluate(result *Result, a Assertion) error {
	if a.Type == AssertError {
		if result.ErrorCode != a.Code {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("load failure with code %s", a.Code),
				Actual:   describeLoad(result),
			}
		}
		return nil
	}

	if result.View == nil {
		return &AssertionError{
			Type:     a.Type,
			Expected: "a dashboard view",
			Actual:   describeLoad(result),
		}
	}
	v := result.View

	switch a.Type {
	case AssertChartLabels:
		c := chartByKey(v, a.Chart)
		if !reflect.DeepEqual(nonNil(a.Labels), nonNil(c.Labels)) {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s labels %q", a.Chart, a.Labels),
				Actual:   fmt.Sprintf("%q", c.Labels),
			}
		}
	case AssertChartValues:
		c := chartByKey(v, a.Chart)
		got := c.Values(a.Series)
		if !floatsEqual(a.Values, got) {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%s %q values %v", a.Chart, a.Series, a.Values),
				Actual:   fmt.Sprintf("%v", got),
			}
		}
	case AssertHeadline:
		if v.Insight.Headline != a.Text {
			return &AssertionError{Type: a.Type, Expected: a.Text, Actual: v.Insight.Headline}
		}
	case AssertRatio:
		got := v.Insight.Insight.Ratio
		if math.Abs(got-*a.Ratio) > ratioTolerance {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%v", *a.Ratio),
				Actual:   fmt.Sprintf("%v", got),
			}
		}
	case AssertTile:
		for _, tile := range v.Tiles {
			if tile.Label == a.Label {
				if tile.Value != a.Text {
					return &AssertionError{Type: a.Type, Expected: a.Label + " = " + a.Text, Actual: tile.Value}
				}
				return nil
			}
		}
		return &AssertionError{Type: a.Type, Expected: "tile " + a.Label, Actual: "not found"}
	case AssertSkipped:
		if v.Skipped != *a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d skipped rows", *a.Count),
				Actual:   fmt.Sprintf("%d", v.Skipped),
			}
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func chartByKey(v *dashboard.View, key string) chart.Chart {
	if key == InsightChart {
		return v.Insight.Chart
	}
	p, _ := v.Panel(key)
	return p.Chart
}

func describeLoad(result *Result) string {
	if result.ErrorCode != "" {
		return "load failed with code " + result.ErrorCode
	}
	return "load succeeded"
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func floatsEqual(want, got []float64) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if math.Abs(want[i]-got[i]) > ratioTolerance {
			return false
		}
	}
	return true
}
