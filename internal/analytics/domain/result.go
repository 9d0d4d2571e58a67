package analytics

import (
	"time"

	usage "solar-insights/internal/usage/domain"
)

// Totals pairs an energy quantity with its cost.
type Totals struct {
	Consumption float64 `json:"consumption"`
	Charge      float64 `json:"charge"`
}

// PeriodSnapshot is the merged current solar and export entry for one of the
// daily/monthly/yearly histories. An export entry classified as EXPORT fills
// the return-to-grid fields; anything else is grid consumption.
type PeriodSnapshot struct {
	PeriodFrom         time.Time          `json:"period_from"`
	PeriodTo           time.Time          `json:"period_to"`
	ReadType           string             `json:"read_type,omitempty"`
	SolarConsumption   float64            `json:"solar_consumption"`
	SolarCharge        float64            `json:"solar_charge"`
	GridConsumption    float64            `json:"grid_consumption"`
	GridCharge         float64            `json:"grid_charge"`
	ReturnToGrid       float64            `json:"return_to_grid"`
	ReturnToGridCharge float64            `json:"return_to_grid_charge"`
	GridRatesKWh       map[string]float64 `json:"grid_rates_kwh,omitempty"`
	GridRatesAUD       map[string]float64 `json:"grid_rates_aud,omitempty"`

	// Previous is only populated on the monthly snapshot, from the
	// second-to-last entries when the history is long enough.
	Previous *PeriodSnapshot `json:"previous,omitempty"`
}

// AllTimeTotals sums the monthly history from the earliest period seen.
type AllTimeTotals struct {
	SolarConsumption float64           `json:"solar_consumption"`
	SolarCharge      float64           `json:"solar_charge"`
	ExportByRate     map[string]Totals `json:"export_by_rate,omitempty"`
	PeriodFrom       time.Time         `json:"period_from"`
	PeriodTo         time.Time         `json:"period_to"`
	Months           int               `json:"months"`
}

// DayAggregate merges one solar and one export record sharing a calendar
// date.
type DayAggregate struct {
	Date               string             `json:"date"`
	SolarConsumption   float64            `json:"solar_consumption"`
	SolarCharge        float64            `json:"solar_charge"`
	GridConsumption    float64            `json:"grid_consumption"`
	GridCharge         float64            `json:"grid_charge"`
	ReturnToGrid       float64            `json:"return_to_grid"`
	ReturnToGridCharge float64            `json:"return_to_grid_charge"`
	GridRatesKWh       map[string]float64 `json:"grid_rates_kwh,omitempty"`
	GridRatesAUD       map[string]float64 `json:"grid_rates_aud,omitempty"`
}

// WindowTotals sums day aggregates over a rolling or calendar window.
type WindowTotals struct {
	Days               int     `json:"days"`
	SolarConsumption   float64 `json:"solar_consumption"`
	SolarCharge        float64 `json:"solar_charge"`
	GridConsumption    float64 `json:"grid_consumption"`
	GridCharge         float64 `json:"grid_charge"`
	ReturnToGrid       float64 `json:"return_to_grid"`
	ReturnToGridCharge float64 `json:"return_to_grid_charge"`
}

// WeekTotals is one side of a week-over-week comparison.
type WeekTotals struct {
	SolarConsumption float64 `json:"solar_consumption"`
	GridConsumption  float64 `json:"grid_consumption"`
	Cost             float64 `json:"cost"`
}

// WeekComparison compares the most recent 7 days against the 7 before them.
// Percentage changes are 0 whenever the last-week total is 0.
type WeekComparison struct {
	ThisWeek       WeekTotals `json:"this_week"`
	LastWeek       WeekTotals `json:"last_week"`
	SolarChangePct float64    `json:"solar_change_pct"`
	GridChangePct  float64    `json:"grid_change_pct"`
	CostChangePct  float64    `json:"cost_change_pct"`
}

// DayGroupAverages holds per-day averages over a weekday/weekend partition.
type DayGroupAverages struct {
	Days                int     `json:"days"`
	AvgSolarConsumption float64 `json:"avg_solar_consumption"`
	AvgGridConsumption  float64 `json:"avg_grid_consumption"`
	AvgCost             float64 `json:"avg_cost"`
}

// SelfSufficiency scores how much of consumption solar covered over the
// trailing week.
type SelfSufficiency struct {
	Score    float64 `json:"score"`
	SolarKWh float64 `json:"solar_kwh"`
	GridKWh  float64 `json:"grid_kwh"`
	Days     int     `json:"days"`
}

// HighUsageDay is one entry of the trailing-30-day usage ranking.
type HighUsageDay struct {
	Date     string  `json:"date"`
	Weekday  string  `json:"weekday"`
	SolarKWh float64 `json:"solar_kwh"`
	GridKWh  float64 `json:"grid_kwh"`
	TotalKWh float64 `json:"total_kwh"`
	Cost     float64 `json:"cost"`
}

// CostPerKWh holds effective rates over the trailing week, each guarded
// against a zero denominator.
type CostPerKWh struct {
	Overall float64 `json:"overall"`
	Grid    float64 `json:"grid"`
	Solar   float64 `json:"solar"`
}

// MonthlyProjection extrapolates month-to-date cost over the calendar month.
type MonthlyProjection struct {
	MonthToDateCost    float64 `json:"month_to_date_cost"`
	DaysElapsed        int     `json:"days_elapsed"`
	DaysInMonth        int     `json:"days_in_month"`
	DailyAverage       float64 `json:"daily_average"`
	ProjectedTotal     float64 `json:"projected_total"`
	ProjectedRemaining float64 `json:"projected_remaining"`
}

// ReturnToGridAnalysis compares what exports earned against what the same
// energy would have cost to buy, over the trailing week.
type ReturnToGridAnalysis struct {
	ExportKWh        float64 `json:"export_kwh"`
	ExportCredit     float64 `json:"export_credit"`
	ExportRate       float64 `json:"export_rate"`
	GridKWh          float64 `json:"grid_kwh"`
	GridCost         float64 `json:"grid_cost"`
	PurchaseRate     float64 `json:"purchase_rate"`
	PotentialSavings float64 `json:"potential_savings"`
	OpportunityCost  float64 `json:"opportunity_cost"`
}

// PeakWindow is the 4-entry stretch of the hourly timeline with the highest
// summed consumption.
type PeakWindow struct {
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Consumption float64   `json:"consumption"`
}

// BucketTotals accumulates one time-of-use bucket.
type BucketTotals struct {
	Consumption float64 `json:"consumption"`
	Cost        float64 `json:"cost"`
}

// FreeUsage tracks free-period consumption month-to-date and the savings
// imputed from the rate that energy would otherwise have cost.
type FreeUsage struct {
	Consumption float64 `json:"consumption"`
	Savings     float64 `json:"savings"`
	RateUsed    float64 `json:"rate_used"`
}

// EVUsage accumulates EV off-peak consumption over one window.
type EVUsage struct {
	Consumption float64 `json:"consumption"`
	Cost        float64 `json:"cost"`
	CostSaved   float64 `json:"cost_saved"`
}

// RateObserved is the effective per-bucket rate seen in the hourly data.
type RateObserved struct {
	ConsumptionKWh float64 `json:"consumption_kwh"`
	Cost           float64 `json:"cost"`
	Rate           float64 `json:"rate"`
}

// HourlyAnalytics is the hourly sub-object of the result.
type HourlyAnalytics struct {
	SolarCurrent         float64                 `json:"solar_current"`
	ExportCurrent        float64                 `json:"export_current"`
	SolarTotal           Totals                  `json:"solar_total"`
	GridTotal            Totals                  `json:"grid_total"`
	ReturnToGridTotal    Totals                  `json:"return_to_grid_total"`
	Peak4HourWindow      *PeakWindow             `json:"peak_4hour_window,omitempty"`
	TimeOfUse            map[string]BucketTotals `json:"time_of_use"`
	FreeUsage            FreeUsage               `json:"free_usage"`
	EVUsageWeekly        EVUsage                 `json:"ev_usage_weekly"`
	EVUsageMonthly       EVUsage                 `json:"ev_usage_monthly"`
	EVUsageYearly        EVUsage                 `json:"ev_usage_yearly"`
	HourlyHeatmap        map[string][]float64    `json:"hourly_heatmap,omitempty"`
	HourlyRatesBreakdown map[string]RateObserved `json:"hourly_rates_breakdown,omitempty"`
}

// DailyBreakdown summarizes the month's day aggregates for display.
type DailyBreakdown struct {
	Days     int     `json:"days"`
	AvgSolar float64 `json:"avg_solar"`
	MaxSolar float64 `json:"max_solar"`
	MinSolar float64 `json:"min_solar"`
	AvgGrid  float64 `json:"avg_grid"`
	MaxGrid  float64 `json:"max_grid"`
	MinGrid  float64 `json:"min_grid"`
}

// SavingsTotals sums the provider's savings series.
type SavingsTotals struct {
	Today       float64 `json:"today"`
	MonthToDate float64 `json:"month_to_date"`
}

// Result is the single structured output of one refresh cycle. Every numeric
// leaf is rounded (2dp, 4dp for per-kWh rates) before it is returned.
type Result struct {
	Daily                PeriodSnapshot       `json:"daily"`
	Monthly              PeriodSnapshot       `json:"monthly"`
	Yearly               PeriodSnapshot       `json:"yearly"`
	AllTime              AllTimeTotals        `json:"all_time"`
	Last3Days            []DayAggregate       `json:"last_3_days"`
	Last7Days            WindowTotals         `json:"last_7_days"`
	MonthToDate          WindowTotals         `json:"month_to_date"`
	LastMonth            WindowTotals         `json:"last_month"`
	WeekComparison       *WeekComparison      `json:"week_comparison,omitempty"`
	WeekdayAnalysis      DayGroupAverages     `json:"weekday_analysis"`
	WeekendAnalysis      DayGroupAverages     `json:"weekend_analysis"`
	SelfSufficiency      SelfSufficiency      `json:"self_sufficiency"`
	HighUsageDays        []HighUsageDay       `json:"high_usage_days"`
	CostPerKWh           CostPerKWh           `json:"cost_per_kwh"`
	MonthlyProjection    MonthlyProjection    `json:"monthly_projection"`
	ReturnToGridAnalysis ReturnToGridAnalysis `json:"return_to_grid_analysis"`
	MonthDailyBreakdown  DailyBreakdown       `json:"month_daily_breakdown"`
	Hourly               HourlyAnalytics      `json:"hourly"`
	Savings              SavingsTotals        `json:"savings"`
}

// PlanDetection is the heuristic classification of the account's plan. It is
// returned alongside the result so it can feed the next run's PlanConfig.
type PlanDetection struct {
	PlanType         usage.PlanType     `json:"plan_type"`
	Confidence       int                `json:"confidence"`
	Rates            map[string]float64 `json:"rates"`
	ChargeTypesFound []string           `json:"charge_types_found"`
}
