// Package insight derives the headline insight card: the share of one
// year's revenue contributed by a single division.
package insight

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/roach88/execdash/internal/records"
)

// OtherLabel names the remainder slice of the pie.
const OtherLabel = "Other Divisions"

// Insight is the derived card. PieSlices and PieLabels are index-aligned.
type Insight struct {
	Division  string    `json:"division"`
	Year      int       `json:"year"`
	Target    float64   `json:"target"`
	Total     float64   `json:"total"`
	Ratio     float64   `json:"ratio"`
	Headline  string    `json:"headline"`
	PieSlices []float64 `json:"pie_slices"`
	PieLabels []string  `json:"pie_labels"`
}

// Percent returns the ratio as a percentage rounded to one decimal, the same
// value the headline prints.
func (i Insight) Percent() string {
	return fmt.Sprintf("%.1f%%", i.Ratio*100)
}

// Derive computes the share of revenue in year that belongs to division.
// A year with no revenue yields a ratio of 0.
func Derive(rows []records.FinancialRecord, division string, year int) Insight {
	target := norm.NFC.String(division)

	var targetSum, totalSum float64
	for _, r := range rows {
		if r.Year != year {
			continue
		}
		totalSum += r.RevenueM
		if norm.NFC.String(r.Division) == target {
			targetSum += r.RevenueM
		}
	}

	ratio := 0.0
	if totalSum != 0 {
		ratio = targetSum / totalSum
	}
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		ratio = 0
	}

	in := Insight{
		Division:  division,
		Year:      year,
		Target:    targetSum,
		Total:     totalSum,
		Ratio:     ratio,
		PieSlices: []float64{targetSum, totalSum - targetSum},
		PieLabels: []string{division, OtherLabel},
	}
	in.Headline = fmt.Sprintf("%s R&D drives %s of %d revenue", ShortName(division), in.Percent(), year)
	return in
}

// ShortName drops the corporate "Wayne " prefix from a division name.
func ShortName(division string) string {
	return strings.TrimPrefix(division, "Wayne ")
}
