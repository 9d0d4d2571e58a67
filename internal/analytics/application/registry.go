package application

import (
	"sort"

	analytics "solar-insights/internal/analytics/domain"
)

// Extractor pulls one named numeric value out of a result. The bool is false
// when the value is not present in this run, as with last-month figures on a
// single-month history.
type Extractor func(*analytics.Result) (float64, bool)

// Extractors returns the named-value registry consumers use to publish
// individual figures from a run without depending on the result layout.
func Extractors() map[string]Extractor {
	return map[string]Extractor{
		"solar_current": func(r *analytics.Result) (float64, bool) {
			return r.Hourly.SolarCurrent, true
		},
		"export_current": func(r *analytics.Result) (float64, bool) {
			return r.Hourly.ExportCurrent, true
		},
		"solar_today": func(r *analytics.Result) (float64, bool) {
			return r.Daily.SolarConsumption, true
		},
		"export_today": func(r *analytics.Result) (float64, bool) {
			return r.Daily.ReturnToGrid, true
		},
		"grid_today": func(r *analytics.Result) (float64, bool) {
			return r.Daily.GridConsumption, true
		},
		"savings_today": func(r *analytics.Result) (float64, bool) {
			return r.Savings.Today, true
		},
		"solar_this_month": func(r *analytics.Result) (float64, bool) {
			return r.Monthly.SolarConsumption, true
		},
		"export_this_month": func(r *analytics.Result) (float64, bool) {
			return r.Monthly.ReturnToGrid, true
		},
		"savings_this_month": func(r *analytics.Result) (float64, bool) {
			return r.Savings.MonthToDate, true
		},
		"solar_last_month": func(r *analytics.Result) (float64, bool) {
			if r.Monthly.Previous == nil {
				return 0, false
			}
			return r.Monthly.Previous.SolarConsumption, true
		},
		"export_last_month": func(r *analytics.Result) (float64, bool) {
			if r.Monthly.Previous == nil {
				return 0, false
			}
			return r.Monthly.Previous.ReturnToGrid, true
		},
		"solar_this_year": func(r *analytics.Result) (float64, bool) {
			return r.Yearly.SolarConsumption, true
		},
		"solar_all_time": func(r *analytics.Result) (float64, bool) {
			return r.AllTime.SolarConsumption, true
		},
		"self_sufficiency_score": func(r *analytics.Result) (float64, bool) {
			return r.SelfSufficiency.Score, true
		},
		"cost_per_kwh": func(r *analytics.Result) (float64, bool) {
			return r.CostPerKWh.Overall, true
		},
		"projected_monthly_cost": func(r *analytics.Result) (float64, bool) {
			return r.MonthlyProjection.ProjectedTotal, true
		},
		"last_7_days_grid_kwh": func(r *analytics.Result) (float64, bool) {
			return r.Last7Days.GridConsumption, true
		},
		"last_7_days_solar_kwh": func(r *analytics.Result) (float64, bool) {
			return r.Last7Days.SolarConsumption, true
		},
		"peak_window_kwh": func(r *analytics.Result) (float64, bool) {
			if r.Hourly.Peak4HourWindow == nil {
				return 0, false
			}
			return r.Hourly.Peak4HourWindow.Consumption, true
		},
		"free_usage_kwh": func(r *analytics.Result) (float64, bool) {
			return r.Hourly.FreeUsage.Consumption, true
		},
		"free_usage_savings": func(r *analytics.Result) (float64, bool) {
			return r.Hourly.FreeUsage.Savings, true
		},
		"ev_weekly_kwh": func(r *analytics.Result) (float64, bool) {
			return r.Hourly.EVUsageWeekly.Consumption, true
		},
		"export_opportunity_cost": func(r *analytics.Result) (float64, bool) {
			return r.ReturnToGridAnalysis.OpportunityCost, true
		},
	}
}

// ExtractorNames lists the registry's keys in stable order.
func ExtractorNames() []string {
	extractors := Extractors()
	names := make([]string, 0, len(extractors))
	for name := range extractors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
