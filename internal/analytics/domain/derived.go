package analytics

import (
	"sort"
	"time"
)

// highUsageLookback and highUsageLimit bound the high-usage-day ranking.
const (
	highUsageLookback = 30
	highUsageLimit    = 5
)

// BuildSelfSufficiency scores the trailing week: the share of total
// consumption that solar covered, as a percentage.
func BuildSelfSufficiency(week WindowTotals) SelfSufficiency {
	total := week.SolarConsumption + week.GridConsumption
	return SelfSufficiency{
		Score:    safeDiv(week.SolarConsumption, total) * 100,
		SolarKWh: week.SolarConsumption,
		GridKWh:  week.GridConsumption,
		Days:     week.Days,
	}
}

// BuildHighUsageDays ranks the trailing 30 days by combined consumption and
// keeps the top 5. The input is ordered most recent first; ranking ties keep
// the more recent day first.
func BuildHighUsageDays(days []DayAggregate) []HighUsageDay {
	window := days[:min(len(days), highUsageLookback)]
	ranked := make([]HighUsageDay, 0, len(window))
	for _, d := range window {
		entry := HighUsageDay{
			Date:     d.Date,
			SolarKWh: d.SolarConsumption,
			GridKWh:  d.GridConsumption,
			TotalKWh: d.SolarConsumption + d.GridConsumption,
			Cost:     d.SolarCharge + d.GridCharge,
		}
		if t, err := time.Parse(dayKeyLayout, d.Date); err == nil {
			entry.Weekday = t.Weekday().String()
		}
		ranked = append(ranked, entry)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalKWh > ranked[j].TotalKWh
	})
	return ranked[:min(len(ranked), highUsageLimit)]
}

// BuildCostPerKWh computes effective rates over the trailing week.
func BuildCostPerKWh(week WindowTotals) CostPerKWh {
	return CostPerKWh{
		Overall: safeDiv(week.SolarCharge+week.GridCharge, week.SolarConsumption+week.GridConsumption),
		Grid:    safeDiv(week.GridCharge, week.GridConsumption),
		Solar:   safeDiv(week.SolarCharge, week.SolarConsumption),
	}
}

// BuildMonthlyProjection extrapolates month-to-date cost linearly over the
// calendar month. Days elapsed is the current day of month, so the daily
// average always has a non-zero denominator.
func BuildMonthlyProjection(monthToDate WindowTotals, now time.Time) MonthlyProjection {
	cost := monthToDate.SolarCharge + monthToDate.GridCharge
	elapsed := now.Day()
	daysInMonth := time.Date(now.Year(), now.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
	dailyAvg := safeDiv(cost, float64(elapsed))
	return MonthlyProjection{
		MonthToDateCost:    cost,
		DaysElapsed:        elapsed,
		DaysInMonth:        daysInMonth,
		DailyAverage:       dailyAvg,
		ProjectedTotal:     dailyAvg * float64(daysInMonth),
		ProjectedRemaining: dailyAvg * float64(daysInMonth-elapsed),
	}
}

// BuildReturnToGridAnalysis compares what exports earned over the trailing
// week against what the same energy would have cost to buy at the observed
// purchase rate.
func BuildReturnToGridAnalysis(week WindowTotals) ReturnToGridAnalysis {
	a := ReturnToGridAnalysis{
		ExportKWh:    week.ReturnToGrid,
		ExportCredit: week.ReturnToGridCharge,
		GridKWh:      week.GridConsumption,
		GridCost:     week.GridCharge,
	}
	a.ExportRate = safeDiv(a.ExportCredit, a.ExportKWh)
	a.PurchaseRate = safeDiv(a.GridCost, a.GridKWh)
	a.PotentialSavings = a.ExportKWh * a.PurchaseRate
	a.OpportunityCost = a.PotentialSavings - a.ExportCredit
	return a
}
