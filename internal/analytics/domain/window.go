package analytics

import (
	"math"
	"sort"
	"time"

	usage "solar-insights/internal/usage/domain"
)

const dayKeyLayout = "2006-01-02"

// Windows holds every rolling and calendar view derived from the daily
// series. Days is ordered most recent first.
type Windows struct {
	Days           []DayAggregate
	Last3Days      []DayAggregate
	Last7Days      WindowTotals
	MonthToDate    WindowTotals
	MonthDaily     DailyBreakdown
	LastMonth      WindowTotals
	WeekComparison *WeekComparison
	Weekday        DayGroupAverages
	Weekend        DayGroupAverages
}

// BuildWindows aggregates the daily series per calendar date and derives the
// rolling windows against a fixed reference time. Records whose period start
// never parsed carry a zero time and are left out.
func BuildWindows(daily usage.SeriesPair, now time.Time) Windows {
	days := buildDayAggregates(daily)
	monthDays := filterMonth(days, now.Year(), now.Month())
	w := Windows{
		Days:        days,
		Last3Days:   lastNDaysOldestFirst(days, 3),
		Last7Days:   sumWindow(days[:min(len(days), 7)]),
		MonthToDate: sumWindow(monthDays),
		MonthDaily:  dailyBreakdown(monthDays),
	}

	prevYear, prevMonth := previousMonth(now)
	w.LastMonth = sumWindow(filterMonth(days, prevYear, prevMonth))

	if len(days) >= 14 {
		w.WeekComparison = compareWeeks(days[:7], days[7:14])
	}
	w.Weekday, w.Weekend = partitionByWeekday(days)
	return w
}

// buildDayAggregates merges the solar and export series into one aggregate
// per calendar date, most recent first.
func buildDayAggregates(daily usage.SeriesPair) []DayAggregate {
	byDate := map[string]*DayAggregate{}
	at := func(rec usage.Record) *DayAggregate {
		key := rec.PeriodFrom.Format(dayKeyLayout)
		agg, ok := byDate[key]
		if !ok {
			agg = &DayAggregate{Date: key}
			byDate[key] = agg
		}
		return agg
	}

	for _, rec := range daily.Solar {
		if rec.PeriodFrom.IsZero() {
			continue
		}
		agg := at(rec)
		agg.SolarConsumption += rec.Consumption
		agg.SolarCharge += math.Abs(rec.ChargeValue())
	}
	for _, rec := range daily.Export {
		if rec.PeriodFrom.IsZero() {
			continue
		}
		agg := at(rec)
		if usage.IsExport(rec) {
			agg.ReturnToGrid += rec.Consumption
			agg.ReturnToGridCharge += math.Abs(rec.ChargeValue())
			continue
		}
		agg.GridConsumption += rec.Consumption
		agg.GridCharge += math.Abs(rec.ChargeValue())
		for _, split := range rec.Rates {
			bucket := string(usage.ClassifyChargeType(split.Type))
			if agg.GridRatesKWh == nil {
				agg.GridRatesKWh = map[string]float64{}
				agg.GridRatesAUD = map[string]float64{}
			}
			agg.GridRatesKWh[bucket] += split.Consumption
			agg.GridRatesAUD[bucket] += math.Abs(split.ChargeValue())
		}
	}

	out := make([]DayAggregate, 0, len(byDate))
	for _, agg := range byDate {
		out = append(out, *agg)
	}
	// ISO date keys sort lexicographically; descending puts today first.
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// lastNDaysOldestFirst takes the n most recent days and reorders them oldest
// to newest for presentation.
func lastNDaysOldestFirst(days []DayAggregate, n int) []DayAggregate {
	n = min(len(days), n)
	out := make([]DayAggregate, n)
	for i := 0; i < n; i++ {
		out[i] = days[n-1-i]
	}
	return out
}

func sumWindow(days []DayAggregate) WindowTotals {
	totals := WindowTotals{Days: len(days)}
	for _, d := range days {
		totals.SolarConsumption += d.SolarConsumption
		totals.SolarCharge += d.SolarCharge
		totals.GridConsumption += d.GridConsumption
		totals.GridCharge += d.GridCharge
		totals.ReturnToGrid += d.ReturnToGrid
		totals.ReturnToGridCharge += d.ReturnToGridCharge
	}
	return totals
}

func filterMonth(days []DayAggregate, year int, month time.Month) []DayAggregate {
	var out []DayAggregate
	for _, d := range days {
		t, err := time.Parse(dayKeyLayout, d.Date)
		if err != nil {
			continue
		}
		if t.Year() == year && t.Month() == month {
			out = append(out, d)
		}
	}
	return out
}

func previousMonth(now time.Time) (int, time.Month) {
	year, month := now.Year(), now.Month()
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

func compareWeeks(thisWeek, lastWeek []DayAggregate) *WeekComparison {
	current := weekTotals(thisWeek)
	previous := weekTotals(lastWeek)
	return &WeekComparison{
		ThisWeek:       current,
		LastWeek:       previous,
		SolarChangePct: pctChange(current.SolarConsumption, previous.SolarConsumption),
		GridChangePct:  pctChange(current.GridConsumption, previous.GridConsumption),
		CostChangePct:  pctChange(current.Cost, previous.Cost),
	}
}

func weekTotals(days []DayAggregate) WeekTotals {
	var t WeekTotals
	for _, d := range days {
		t.SolarConsumption += d.SolarConsumption
		t.GridConsumption += d.GridConsumption
		t.Cost += d.SolarCharge + d.GridCharge
	}
	return t
}

// pctChange is 0 when the previous value is 0, by the same zero-denominator
// rule applied everywhere else.
func pctChange(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}

// dailyBreakdown gives the average/max/min day within the month so far.
func dailyBreakdown(days []DayAggregate) DailyBreakdown {
	b := DailyBreakdown{Days: len(days)}
	if len(days) == 0 {
		return b
	}
	b.MinSolar = days[0].SolarConsumption
	b.MinGrid = days[0].GridConsumption
	var solarSum, gridSum float64
	for _, d := range days {
		solarSum += d.SolarConsumption
		gridSum += d.GridConsumption
		b.MaxSolar = math.Max(b.MaxSolar, d.SolarConsumption)
		b.MinSolar = math.Min(b.MinSolar, d.SolarConsumption)
		b.MaxGrid = math.Max(b.MaxGrid, d.GridConsumption)
		b.MinGrid = math.Min(b.MinGrid, d.GridConsumption)
	}
	n := float64(len(days))
	b.AvgSolar = solarSum / n
	b.AvgGrid = gridSum / n
	return b
}

func partitionByWeekday(days []DayAggregate) (weekday, weekend DayGroupAverages) {
	var wd, we []DayAggregate
	for _, d := range days {
		t, err := time.Parse(dayKeyLayout, d.Date)
		if err != nil {
			continue
		}
		if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
			we = append(we, d)
		} else {
			wd = append(wd, d)
		}
	}
	return groupAverages(wd), groupAverages(we)
}

func groupAverages(days []DayAggregate) DayGroupAverages {
	g := DayGroupAverages{Days: len(days)}
	if len(days) == 0 {
		return g
	}
	totals := sumWindow(days)
	n := float64(len(days))
	g.AvgSolarConsumption = totals.SolarConsumption / n
	g.AvgGridConsumption = totals.GridConsumption / n
	g.AvgCost = (totals.SolarCharge + totals.GridCharge) / n
	return g
}
