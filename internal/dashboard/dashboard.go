// Package dashboard assembles a complete executive dashboard view from one
// fetched snapshot.
package dashboard

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/roach88/execdash/internal/chart"
	"github.com/roach88/execdash/internal/config"
	"github.com/roach88/execdash/internal/fetch"
	"github.com/roach88/execdash/internal/insight"
	"github.com/roach88/execdash/internal/records"
)

// Title is the dashboard heading.
const Title = "Wayne Enterprises Executive Dashboard"

// NotAvailable is shown for a summary tile whose key is missing.
const NotAvailable = "n/a"

// Panel keys, in display order.
const (
	PanelRevenue   = "revenue_by_division"
	PanelProfit    = "profit_trend"
	PanelRetention = "hr_retention"
	PanelRND       = "rnd_budget"
	PanelSecurity  = "security_incidents"
)

// Tile is one executive summary figure.
type Tile struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Panel is one titled chart.
type Panel struct {
	Key   string      `json:"key"`
	Title string      `json:"title"`
	Kind  chart.Kind  `json:"kind"`
	Chart chart.Chart `json:"chart"`
}

// Card is the insight card: a headline over a pie chart.
type Card struct {
	Headline string          `json:"headline"`
	Kind     chart.Kind      `json:"kind"`
	Chart    chart.Chart     `json:"chart"`
	Insight  insight.Insight `json:"insight"`
}

// View is everything the presentation layer needs to draw the dashboard.
type View struct {
	Title      string    `json:"title"`
	SnapshotID string    `json:"snapshot_id"`
	FetchedAt  time.Time `json:"fetched_at"`
	Source     string    `json:"source"`
	Skipped    int       `json:"skipped_rows"`
	Tiles      []Tile    `json:"tiles"`
	Panels     []Panel   `json:"panels"`
	Insight    Card      `json:"insight"`
}

// Panel returns the panel with key, or false.
func (v *View) Panel(key string) (Panel, bool) {
	for _, p := range v.Panels {
		if p.Key == key {
			return p, true
		}
	}
	return Panel{}, false
}

// Build runs every transform over snap. It fails only when cfg names an
// unknown latest-date policy.
func Build(snap *fetch.Snapshot, cfg config.ChartConfig) (*View, error) {
	if snap == nil {
		return nil, fmt.Errorf("dashboard: nil snapshot")
	}
	policy, err := chart.ParseLatestPolicy(cfg.LatestPolicy)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	fin := financialRows(snap)

	year, ok := chart.MaxYear(fin)
	if !ok {
		year = cfg.InsightYear
	}

	v := &View{
		Title:      Title,
		SnapshotID: snap.ID,
		FetchedAt:  snap.FetchedAt,
		Source:     snap.Source,
		Skipped:    snap.Skipped(),
		Tiles:      summaryTiles(snap.Financial.SummaryMap()),
	}

	v.Panels = []Panel{
		{
			Key:   PanelRevenue,
			Title: fmt.Sprintf("Revenue by Division (%d)", year),
			Kind:  chart.KindBar,
			Chart: chart.RevenueByDivision(fin),
		},
		{
			Key:   PanelProfit,
			Title: "Profit Trend - " + cfg.ProfitDivision,
			Kind:  chart.KindLine,
			Chart: chart.ProfitTrend(fin, cfg.ProfitDivision),
		},
		{
			Key:   PanelRetention,
			Title: "HR Retention by Department (Latest)",
			Kind:  chart.KindBar,
			Chart: chart.RetentionByDepartment(hrRows(snap), policy),
		},
		{
			Key:   PanelRND,
			Title: fmt.Sprintf("R&D Budget vs Spending (Top %d Projects)", cfg.TopProjects),
			Kind:  chart.KindBar,
			Chart: chart.RNDBudgetVsSpend(rndRows(snap), cfg.TopProjects),
		},
		{
			Key:   PanelSecurity,
			Title: "Security Incidents by District (Latest)",
			Kind:  chart.KindBar,
			Chart: chart.SecurityIncidentsByDistrict(securityRows(snap), policy),
		},
	}

	in := insight.Derive(fin, cfg.InsightDivision, cfg.InsightYear)
	v.Insight = Card{
		Headline: in.Headline,
		Kind:     chart.KindPie,
		Chart: chart.Chart{
			Labels: in.PieLabels,
			Series: []chart.Series{{Name: chart.SeriesRevenue, Values: in.PieSlices}},
		},
		Insight: in,
	}
	return v, nil
}

func summaryTiles(summary map[string]any) []Tile {
	p := message.NewPrinter(language.English)

	return []Tile{
		{Label: "Total Revenue", Value: formatNumber(p, summary, "total_revenue", "M")},
		{Label: "Total Profit", Value: formatNumber(p, summary, "total_profit", "M")},
		{Label: "Avg. Satisfaction", Value: formatFixed2(p, summary, "avg_satisfaction")},
		{Label: "Total Employees", Value: formatNumber(p, summary, "total_employees", "")},
	}
}

// formatNumber renders a summary value with digit grouping and at most three
// fraction digits.
func formatNumber(p *message.Printer, summary map[string]any, key, suffix string) string {
	v, ok := lookup(summary, key)
	if !ok {
		return NotAvailable
	}
	return p.Sprint(number.Decimal(v)) + suffix
}

func formatFixed2(p *message.Printer, summary map[string]any, key string) string {
	v, ok := lookup(summary, key)
	if !ok {
		return NotAvailable
	}
	return p.Sprint(number.Decimal(v, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

func lookup(summary map[string]any, key string) (float64, bool) {
	v, ok := summary[key].(float64)
	return v, ok
}

func hrRows(s *fetch.Snapshot) []records.HRRecord {
	if s.HR == nil {
		return nil
	}
	return s.HR.Records
}

func financialRows(s *fetch.Snapshot) []records.FinancialRecord {
	if s.Financial == nil {
		return nil
	}
	return s.Financial.Records
}

func rndRows(s *fetch.Snapshot) []records.RNDRecord {
	if s.RND == nil {
		return nil
	}
	return s.RND.Records
}

func securityRows(s *fetch.Snapshot) []records.SecurityRecord {
	if s.Security == nil {
		return nil
	}
	return s.Security.Records
}
