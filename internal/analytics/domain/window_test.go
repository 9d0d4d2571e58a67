package analytics

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usage "solar-insights/internal/usage/domain"
)

// dailyFixture builds n consecutive days ending the day before now, each with
// 10 kWh solar (cost 3) and 5 kWh grid (cost 2).
func dailyFixture(now time.Time, n int) usage.SeriesPair {
	var pair usage.SeriesPair
	for i := n; i >= 1; i-- {
		from := now.AddDate(0, 0, -i)
		from = time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
		pair.Solar = append(pair.Solar, solarRec(from, 10, -3))
		pair.Export = append(pair.Export, gridRec(from, 5, 2))
	}
	return pair
}

func TestBuildWindowsLast3DaysOldestFirst(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	w := BuildWindows(dailyFixture(now, 5), now)

	require.Len(t, w.Last3Days, 3)
	assert.Equal(t, "2026-08-17", w.Last3Days[0].Date)
	assert.Equal(t, "2026-08-18", w.Last3Days[1].Date)
	assert.Equal(t, "2026-08-19", w.Last3Days[2].Date)
}

func TestBuildWindowsLast7Days(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	w := BuildWindows(dailyFixture(now, 10), now)

	assert.Equal(t, 7, w.Last7Days.Days)
	assert.InDelta(t, 70, w.Last7Days.SolarConsumption, 1e-9)
	assert.InDelta(t, 35, w.Last7Days.GridConsumption, 1e-9)
	assert.InDelta(t, 21, w.Last7Days.SolarCharge, 1e-9)
	assert.InDelta(t, 14, w.Last7Days.GridCharge, 1e-9)
}

func TestBuildWindowsShortHistory(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	w := BuildWindows(dailyFixture(now, 2), now)

	assert.Len(t, w.Last3Days, 2)
	assert.Equal(t, 2, w.Last7Days.Days)
	assert.Nil(t, w.WeekComparison, "needs at least 14 days")
}

func TestBuildWindowsMonthBoundaries(t *testing.T) {
	// Early January: month-to-date is January, last month is December of the
	// previous year.
	now := time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)
	w := BuildWindows(dailyFixture(now, 10), now)

	assert.Equal(t, 4, w.MonthToDate.Days, "Jan 1 through Jan 4")
	assert.Equal(t, 6, w.LastMonth.Days, "Dec 26 through Dec 31")
	assert.InDelta(t, 60, w.LastMonth.SolarConsumption, 1e-9)
}

func TestBuildWindowsMonthDailyBreakdown(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	pair := usage.SeriesPair{
		Solar: []usage.Record{
			solarRec(time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), 6, -2),
			solarRec(time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC), 10, -3),
			solarRec(time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC), 14, -4),
			// July stays out of the month-to-date breakdown.
			solarRec(time.Date(2026, 7, 30, 0, 0, 0, 0, time.UTC), 99, -30),
		},
		Export: []usage.Record{
			gridRec(time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), 2, 0.8),
			gridRec(time.Date(2026, 8, 18, 0, 0, 0, 0, time.UTC), 4, 1.6),
			gridRec(time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC), 6, 2.4),
		},
	}

	w := BuildWindows(pair, now)
	assert.Equal(t, 3, w.MonthToDate.Days)
	b := w.MonthDaily
	assert.Equal(t, 3, b.Days)
	assert.InDelta(t, 10, b.AvgSolar, 1e-9)
	assert.InDelta(t, 14, b.MaxSolar, 1e-9)
	assert.InDelta(t, 6, b.MinSolar, 1e-9)
	assert.InDelta(t, 4, b.AvgGrid, 1e-9)
	assert.InDelta(t, 6, b.MaxGrid, 1e-9)
	assert.InDelta(t, 2, b.MinGrid, 1e-9)
}

func TestBuildWindowsMonthDailyBreakdownEmpty(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	w := BuildWindows(usage.SeriesPair{}, now)
	assert.Zero(t, w.MonthDaily.Days)
	assert.Zero(t, w.MonthDaily.AvgSolar)
	assert.Zero(t, w.MonthDaily.MinGrid)
}

func TestBuildWindowsWeekComparison(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	pair := dailyFixture(now, 14)
	// Double the grid usage of the most recent 7 days (Aug 13 onward).
	cutoff := time.Date(2026, 8, 13, 0, 0, 0, 0, time.UTC)
	for i := range pair.Export {
		if !pair.Export[i].PeriodFrom.Before(cutoff) {
			pair.Export[i].Consumption *= 2
		}
	}

	w := BuildWindows(pair, now)
	require.NotNil(t, w.WeekComparison)
	assert.InDelta(t, 70, w.WeekComparison.ThisWeek.GridConsumption, 1e-9)
	assert.InDelta(t, 35, w.WeekComparison.LastWeek.GridConsumption, 1e-9)
	assert.InDelta(t, 100, w.WeekComparison.GridChangePct, 1e-9)
	assert.InDelta(t, 0, w.WeekComparison.SolarChangePct, 1e-9)
}

func TestBuildWindowsWeekComparisonZeroBaseline(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	var pair usage.SeriesPair
	for i := 14; i >= 1; i-- {
		from := time.Date(2026, 8, 20-i, 0, 0, 0, 0, time.UTC)
		kwh := 0.0
		if i <= 7 {
			kwh = 10
		}
		pair.Solar = append(pair.Solar, usage.Record{PeriodFrom: from, PeriodTo: from, Consumption: kwh})
	}

	w := BuildWindows(pair, now)
	require.NotNil(t, w.WeekComparison)
	assert.Zero(t, w.WeekComparison.SolarChangePct, "no percentage against a zero baseline")
}

func TestBuildWindowsWeekdayWeekendPartition(t *testing.T) {
	// 2026-08-10 is a Monday; cover exactly two weeks.
	now := time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC)
	w := BuildWindows(dailyFixture(now, 14), now)

	assert.Equal(t, 10, w.Weekday.Days)
	assert.Equal(t, 4, w.Weekend.Days)
	assert.InDelta(t, 10, w.Weekday.AvgSolarConsumption, 1e-9)
	assert.InDelta(t, 10, w.Weekend.AvgSolarConsumption, 1e-9)
	assert.InDelta(t, 5, w.Weekend.AvgCost, 1e-9)
}

func TestBuildWindowsMergesSameDateRecords(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	from := time.Date(2026, 8, 19, 0, 0, 0, 0, time.UTC)
	pair := usage.SeriesPair{
		Solar:  []usage.Record{solarRec(from, 10, -3)},
		Export: []usage.Record{gridRec(from, 5, 2), creditRec(from, 2, -0.1)},
	}

	w := BuildWindows(pair, now)
	require.Len(t, w.Days, 1)
	agg := w.Days[0]
	assert.Equal(t, "2026-08-19", agg.Date)
	assert.Equal(t, 10.0, agg.SolarConsumption)
	assert.Equal(t, 5.0, agg.GridConsumption)
	assert.Equal(t, 2.0, agg.ReturnToGrid)
	assert.Equal(t, 0.1, agg.ReturnToGridCharge)
}

func TestBuildWindowsSkipsZeroDates(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	pair := usage.SeriesPair{
		Solar: []usage.Record{{Consumption: 99}},
	}
	w := BuildWindows(pair, now)
	assert.Empty(t, w.Days)
}

func TestDayAggregatesDescending(t *testing.T) {
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	w := BuildWindows(dailyFixture(now, 5), now)

	require.Len(t, w.Days, 5)
	for i := 1; i < len(w.Days); i++ {
		assert.Greater(t, w.Days[i-1].Date, w.Days[i].Date,
			fmt.Sprintf("days[%d] should be more recent than days[%d]", i-1, i))
	}
}
