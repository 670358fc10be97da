package chart

import (
	"fmt"

	"github.com/roach88/execdash/internal/records"
)

// RevenueByDivision sums Revenue_M per Division over the rows of the
// greatest Year present. Divisions appear in first-seen order. Spellings
// that differ only in Unicode normalization form share one bar, labeled
// with the first spelling seen.
func RevenueByDivision(rows []records.FinancialRecord) Chart {
	year, ok := MaxYear(rows)
	if !ok {
		return newChart(0, SeriesRevenue)
	}

	var order []string
	labels := make(map[string]string)
	sums := make(map[string]float64)
	for _, r := range rows {
		if r.Year != year {
			continue
		}
		key := labelKey(r.Division)
		if _, seen := sums[key]; !seen {
			order = append(order, key)
			labels[key] = r.Division
		}
		sums[key] += r.RevenueM
	}

	c := newChart(len(order), SeriesRevenue)
	for _, key := range order {
		c.add(labels[key], sums[key])
	}
	return c
}

// MaxYear returns the greatest Year in rows, or false when rows is empty.
func MaxYear(rows []records.FinancialRecord) (int, bool) {
	if len(rows) == 0 {
		return 0, false
	}
	year := rows[0].Year
	for _, r := range rows[1:] {
		if r.Year > year {
			year = r.Year
		}
	}
	return year, true
}

// ProfitTrend plots Net_Profit_M for one division, one point per row in
// input order, labeled "{Quarter} {Year}". Rows are not re-sorted; callers
// supply them chronologically.
func ProfitTrend(rows []records.FinancialRecord, division string) Chart {
	target := labelKey(division)

	c := newChart(0, SeriesNetProfit)
	for _, r := range rows {
		if labelKey(r.Division) != target {
			continue
		}
		c.add(fmt.Sprintf("%s %d", r.Quarter, r.Year), r.NetProfitM)
	}
	return c
}

// RetentionByDepartment plots Retention_Rate_Pct for every row dated on the
// latest Date, one bar per row.
func RetentionByDepartment(rows []records.HRRecord, policy LatestPolicy) Chart {
	c := newChart(0, SeriesRetention)

	latest, ok := latestDate(rows, func(r records.HRRecord) string { return r.Date }, policy)
	if !ok {
		return c
	}
	for _, r := range rows {
		if r.Date == latest {
			c.add(r.Department, r.RetentionRatePct)
		}
	}
	return c
}

// RNDBudgetVsSpend plots allocated and spent budget for the first n
// projects as given. "Top" is positional: no sorting is applied. n larger
// than the input returns every row; n <= 0 returns an empty chart.
func RNDBudgetVsSpend(rows []records.RNDRecord, n int) Chart {
	if n < 0 {
		n = 0
	}
	if n > len(rows) {
		n = len(rows)
	}

	c := newChart(n, SeriesBudgetAllocated, SeriesBudgetSpent)
	for _, r := range rows[:n] {
		c.add(r.ProjectName, r.BudgetAllocatedM, r.BudgetSpentM)
	}
	return c
}

// SecurityIncidentsByDistrict plots Security_Incidents for every row dated
// on the latest Date, one bar per row.
func SecurityIncidentsByDistrict(rows []records.SecurityRecord, policy LatestPolicy) Chart {
	c := newChart(0, SeriesIncidents)

	latest, ok := latestDate(rows, func(r records.SecurityRecord) string { return r.Date }, policy)
	if !ok {
		return c
	}
	for _, r := range rows {
		if r.Date == latest {
			c.add(r.District, float64(r.SecurityIncidents))
		}
	}
	return c
}
