package dashboard

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/execdash/internal/chart"
	"github.com/roach88/execdash/internal/config"
	"github.com/roach88/execdash/internal/fetch"
	"github.com/roach88/execdash/internal/records"
	"github.com/roach88/execdash/internal/testutil"
)

func fixtureSnapshot(t *testing.T) *fetch.Snapshot {
	t.Helper()
	fx := testutil.DecodeFixtures(t)
	return &fetch.Snapshot{
		ID:        "snap-1",
		FetchedAt: testutil.Epoch,
		Source:    "fixtures",
		Financial: fx.Financial,
		HR:        fx.HR,
		RND:       fx.RND,
		Security:  fx.Security,
	}
}

func TestBuild(t *testing.T) {
	v, err := Build(fixtureSnapshot(t), config.Default().Charts)
	require.NoError(t, err)

	assert.Equal(t, Title, v.Title)
	assert.Equal(t, "snap-1", v.SnapshotID)
	assert.Equal(t, testutil.Epoch, v.FetchedAt)

	assert.Equal(t, []Tile{
		{Label: "Total Revenue", Value: "2,500M"},
		{Label: "Total Profit", Value: "248.75M"},
		{Label: "Avg. Satisfaction", Value: "8.46"},
		{Label: "Total Employees", Value: "12,500"},
	}, v.Tiles)

	titles := make([]string, 0, len(v.Panels))
	kinds := make([]chart.Kind, 0, len(v.Panels))
	for _, p := range v.Panels {
		titles = append(titles, p.Title)
		kinds = append(kinds, p.Kind)
	}
	assert.Equal(t, []string{
		"Revenue by Division (2024)",
		"Profit Trend - Wayne Aerospace",
		"HR Retention by Department (Latest)",
		"R&D Budget vs Spending (Top 5 Projects)",
		"Security Incidents by District (Latest)",
	}, titles)
	assert.Equal(t, []chart.Kind{chart.KindBar, chart.KindLine, chart.KindBar, chart.KindBar, chart.KindBar}, kinds)

	revenue, ok := v.Panel(PanelRevenue)
	require.True(t, ok)
	assert.Equal(t, []float64{900, 800, 300}, revenue.Chart.Values(chart.SeriesRevenue))

	rnd, ok := v.Panel(PanelRND)
	require.True(t, ok)
	assert.Equal(t, 5, rnd.Chart.Len())

	assert.Equal(t, "Aerospace R&D drives 45.0% of 2024 revenue", v.Insight.Headline)
	assert.Equal(t, chart.KindPie, v.Insight.Kind)
	assert.Equal(t, []string{"Wayne Aerospace", "Other Divisions"}, v.Insight.Chart.Labels)
	assert.Equal(t, []float64{900, 1100}, v.Insight.Chart.Values(chart.SeriesRevenue))
}

func TestBuild_ConfiguredTargets(t *testing.T) {
	cfg := config.Default().Charts
	cfg.ProfitDivision = "Wayne Foods"
	cfg.InsightDivision = "Wayne Foods"
	cfg.TopProjects = 2
	cfg.LatestPolicy = config.LatestMaxDate

	v, err := Build(fixtureSnapshot(t), cfg)
	require.NoError(t, err)

	profit, _ := v.Panel(PanelProfit)
	assert.Equal(t, "Profit Trend - Wayne Foods", profit.Title)
	assert.Equal(t, []float64{20, 30, 31}, profit.Chart.Values(chart.SeriesNetProfit))

	rnd, _ := v.Panel(PanelRND)
	assert.Equal(t, "R&D Budget vs Spending (Top 2 Projects)", rnd.Title)
	assert.Equal(t, []string{"Quantum Armor", "Cryo Shield"}, rnd.Chart.Labels)

	assert.Equal(t, "Foods R&D drives 40.0% of 2024 revenue", v.Insight.Headline)
}

func TestBuild_MissingSummaryKeys(t *testing.T) {
	snap := fixtureSnapshot(t)
	snap.Financial = &records.FinancialPayload{
		Records: snap.Financial.Records,
		Summary: json.RawMessage(`{"total_revenue": 1234567}`),
	}

	v, err := Build(snap, config.Default().Charts)
	require.NoError(t, err)
	assert.Equal(t, "1,234,567M", v.Tiles[0].Value)
	for _, tile := range v.Tiles[1:] {
		assert.Equal(t, NotAvailable, tile.Value, tile.Label)
	}
}

func TestBuild_EmptySnapshot(t *testing.T) {
	v, err := Build(&fetch.Snapshot{ID: "empty"}, config.Default().Charts)
	require.NoError(t, err)

	for _, p := range v.Panels {
		assert.True(t, p.Chart.Empty(), p.Key)
	}
	revenue, _ := v.Panel(PanelRevenue)
	assert.Equal(t, "Revenue by Division (2024)", revenue.Title)
	assert.Equal(t, "Aerospace R&D drives 0.0% of 2024 revenue", v.Insight.Headline)
	for _, tile := range v.Tiles {
		assert.Equal(t, NotAvailable, tile.Value)
	}
}

func TestBuild_Errors(t *testing.T) {
	_, err := Build(nil, config.Default().Charts)
	assert.ErrorContains(t, err, "nil snapshot")

	cfg := config.Default().Charts
	cfg.LatestPolicy = "newest"
	_, err = Build(fixtureSnapshot(t), cfg)
	assert.ErrorContains(t, err, "unknown latest policy")
}
