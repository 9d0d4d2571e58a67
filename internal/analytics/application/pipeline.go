package application

import (
	"errors"
	"time"

	"github.com/rs/zerolog"

	analytics "solar-insights/internal/analytics/domain"
	"solar-insights/internal/observability/metrics"
	usage "solar-insights/internal/usage/domain"
)

// ErrNoInput is returned when a run has neither an interval dataset nor an
// hourly dataset to work with.
var ErrNoInput = errors.New("analytics pipeline: no input datasets")

// Input carries one refresh cycle's decoded datasets. A nil section means
// that upstream fetch failed; the pipeline zeroes the affected output instead
// of failing the run.
type Input struct {
	Interval *usage.IntervalDataset
	Hourly   *usage.SeriesPair
	Savings  []usage.SavingsEntry
}

// Output is the pipeline's complete product for one run.
type Output struct {
	Result *analytics.Result      `json:"result"`
	Plan   analytics.PlanDetection `json:"plan"`
}

// Pipeline turns decoded usage datasets into the analytics result. It holds
// no mutable state between runs; the same input and reference time always
// produce the same output.
type Pipeline struct {
	log  zerolog.Logger
	plan usage.PlanConfig
}

// NewPipeline constructs a pipeline with an explicit diagnostics logger and
// the plan configuration, filled from defaults where unset.
func NewPipeline(log zerolog.Logger, plan usage.PlanConfig) *Pipeline {
	return &Pipeline{
		log:  log,
		plan: plan.Merge(usage.DefaultPlanConfig()),
	}
}

// Run executes every computation against a single fixed reference time. The
// clock is never read again mid-run, so a run that straddles midnight stays
// internally consistent.
func (p *Pipeline) Run(input Input, now time.Time) (*Output, error) {
	start := time.Now()
	result := metrics.ResultSuccess
	defer func() {
		metrics.ObservePipelineRun(result, time.Since(start))
	}()

	if input.Interval == nil && input.Hourly == nil {
		result = metrics.ResultError
		return nil, ErrNoInput
	}
	now = now.UTC()

	interval := usage.IntervalDataset{}
	if input.Interval != nil {
		interval = *input.Interval
	} else {
		result = metrics.ResultPartial
		p.log.Warn().Msg("interval dataset missing, zeroing snapshot and window output")
	}
	hourly := usage.SeriesPair{}
	if input.Hourly != nil {
		hourly = *input.Hourly
	} else {
		result = metrics.ResultPartial
		p.log.Warn().Msg("hourly dataset missing, zeroing hourly output")
	}

	snapshots := analytics.BuildSnapshots(interval)
	windows := analytics.BuildWindows(interval.Daily, now)

	res := analytics.Result{
		Daily:                snapshots.Daily,
		Monthly:              snapshots.Monthly,
		Yearly:               snapshots.Yearly,
		AllTime:              snapshots.AllTime,
		Last3Days:            windows.Last3Days,
		Last7Days:            windows.Last7Days,
		MonthToDate:          windows.MonthToDate,
		LastMonth:            windows.LastMonth,
		WeekComparison:       windows.WeekComparison,
		WeekdayAnalysis:      windows.Weekday,
		WeekendAnalysis:      windows.Weekend,
		SelfSufficiency:      analytics.BuildSelfSufficiency(windows.Last7Days),
		HighUsageDays:        analytics.BuildHighUsageDays(windows.Days),
		CostPerKWh:           analytics.BuildCostPerKWh(windows.Last7Days),
		MonthlyProjection:    analytics.BuildMonthlyProjection(windows.MonthToDate, now),
		ReturnToGridAnalysis: analytics.BuildReturnToGridAnalysis(windows.Last7Days),
		MonthDailyBreakdown:  windows.MonthDaily,
		Hourly:               analytics.BuildHourlyAnalytics(hourly, p.plan, now),
		Savings:              sumSavings(input.Savings, now),
	}
	rounded := res.Rounded()

	plan := analytics.DetectPlan(analytics.CollectRateSamples(hourly), p.plan)
	metrics.IncPlanDetection(string(plan.PlanType))

	p.log.Info().
		Time("now", now).
		Int("timeline_days", len(windows.Days)).
		Str("detected_plan", string(plan.PlanType)).
		Int("confidence", plan.Confidence).
		Msg("analytics run complete")

	return &Output{Result: &rounded, Plan: plan}, nil
}

// sumSavings totals the provider's savings series for today and the current
// month, keyed on each entry's period start date.
func sumSavings(entries []usage.SavingsEntry, now time.Time) analytics.SavingsTotals {
	var totals analytics.SavingsTotals
	today := now.Format("2006-01-02")
	for _, e := range entries {
		if e.PeriodFrom.IsZero() {
			continue
		}
		if e.PeriodFrom.Year() == now.Year() && e.PeriodFrom.Month() == now.Month() {
			totals.MonthToDate += e.Amount
		}
		if e.PeriodFrom.Format("2006-01-02") == today {
			totals.Today += e.Amount
		}
	}
	return totals
}
