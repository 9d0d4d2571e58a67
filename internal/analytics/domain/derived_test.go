package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSelfSufficiency(t *testing.T) {
	week := WindowTotals{Days: 7, SolarConsumption: 30, GridConsumption: 70}
	s := BuildSelfSufficiency(week)
	assert.InDelta(t, 30, s.Score, 1e-9)
	assert.Equal(t, 7, s.Days)
}

func TestBuildSelfSufficiencyZeroConsumption(t *testing.T) {
	assert.Zero(t, BuildSelfSufficiency(WindowTotals{}).Score)
}

func TestBuildHighUsageDaysTopFive(t *testing.T) {
	days := []DayAggregate{
		{Date: "2026-08-20", SolarConsumption: 1, GridConsumption: 1, GridCharge: 0.5},
		{Date: "2026-08-19", SolarConsumption: 5, GridConsumption: 5},
		{Date: "2026-08-18", SolarConsumption: 2, GridConsumption: 2},
		{Date: "2026-08-17", SolarConsumption: 9, GridConsumption: 1},
		{Date: "2026-08-16", SolarConsumption: 3, GridConsumption: 3},
		{Date: "2026-08-15", SolarConsumption: 4, GridConsumption: 4},
		{Date: "2026-08-14", SolarConsumption: 0.5, GridConsumption: 0.5},
	}

	top := BuildHighUsageDays(days)
	require.Len(t, top, 5)
	assert.Equal(t, "2026-08-19", top[0].Date)
	assert.Equal(t, "2026-08-17", top[1].Date)
	assert.Equal(t, "2026-08-15", top[2].Date)
	assert.InDelta(t, 10, top[0].TotalKWh, 1e-9)
	assert.Equal(t, "Wednesday", top[0].Weekday)
	// The two 2 kWh days never make the cut.
	for _, d := range top {
		assert.NotEqual(t, "2026-08-14", d.Date)
	}
}

func TestBuildHighUsageDaysTieKeepsMoreRecent(t *testing.T) {
	days := []DayAggregate{
		{Date: "2026-08-20", GridConsumption: 5},
		{Date: "2026-08-19", GridConsumption: 5},
	}
	top := BuildHighUsageDays(days)
	require.Len(t, top, 2)
	assert.Equal(t, "2026-08-20", top[0].Date)
}

func TestBuildCostPerKWh(t *testing.T) {
	week := WindowTotals{
		SolarConsumption: 10, SolarCharge: 2,
		GridConsumption: 20, GridCharge: 8,
	}
	rates := BuildCostPerKWh(week)
	assert.InDelta(t, 10.0/30.0, rates.Overall, 1e-9)
	assert.InDelta(t, 0.4, rates.Grid, 1e-9)
	assert.InDelta(t, 0.2, rates.Solar, 1e-9)
}

func TestBuildCostPerKWhZeroDenominators(t *testing.T) {
	rates := BuildCostPerKWh(WindowTotals{SolarCharge: 5, GridCharge: 5})
	assert.Zero(t, rates.Overall)
	assert.Zero(t, rates.Grid)
	assert.Zero(t, rates.Solar)
}

func TestBuildMonthlyProjection(t *testing.T) {
	// 45 spent by June 15 projects to 90 over a 30-day month.
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	mtd := WindowTotals{Days: 15, SolarCharge: 20, GridCharge: 25}

	p := BuildMonthlyProjection(mtd, now)
	assert.Equal(t, 15, p.DaysElapsed)
	assert.Equal(t, 30, p.DaysInMonth)
	assert.InDelta(t, 45, p.MonthToDateCost, 1e-9)
	assert.InDelta(t, 3, p.DailyAverage, 1e-9)
	assert.InDelta(t, 90, p.ProjectedTotal, 1e-9)
	assert.InDelta(t, 45, p.ProjectedRemaining, 1e-9)
}

func TestBuildMonthlyProjectionFebruary(t *testing.T) {
	now := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	p := BuildMonthlyProjection(WindowTotals{}, now)
	assert.Equal(t, 28, p.DaysInMonth)
	assert.Zero(t, p.ProjectedTotal)
}

func TestBuildReturnToGridAnalysis(t *testing.T) {
	week := WindowTotals{
		ReturnToGrid: 10, ReturnToGridCharge: 4,
		GridConsumption: 20, GridCharge: 8,
	}
	a := BuildReturnToGridAnalysis(week)
	assert.InDelta(t, 0.4, a.ExportRate, 1e-9)
	assert.InDelta(t, 0.4, a.PurchaseRate, 1e-9)
	assert.InDelta(t, 4, a.PotentialSavings, 1e-9)
	assert.InDelta(t, 0, a.OpportunityCost, 1e-9)
}

func TestBuildReturnToGridAnalysisNoExports(t *testing.T) {
	a := BuildReturnToGridAnalysis(WindowTotals{GridConsumption: 20, GridCharge: 8})
	assert.Zero(t, a.ExportRate)
	assert.Zero(t, a.PotentialSavings)
	assert.Zero(t, a.OpportunityCost)
}

func TestRoundingHelpers(t *testing.T) {
	assert.Equal(t, 1.23, Round2(1.2349))
	assert.Equal(t, 1.24, Round2(1.236))
	assert.Equal(t, 1.235, Round4(1.235))
	assert.Equal(t, 0.4286, Round4(0.428571))
	assert.Zero(t, Round2(-0.001), "negative zero normalizes")
}
