package analytics

import "math"

// Round2 rounds to 2 decimal places, the display precision for kWh and AUD.
func Round2(v float64) float64 {
	return roundTo(v, 100)
}

// Round4 rounds to 4 decimal places, the precision used for per-kWh rates.
func Round4(v float64) float64 {
	return roundTo(v, 10000)
}

func roundTo(v, scale float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	rounded := math.Round(v*scale) / scale
	// normalize negative zero so encoded output is stable
	if rounded == 0 {
		return 0
	}
	return rounded
}

// Rounded returns a copy of the result with every numeric leaf rounded.
// Computation keeps full precision; this runs once at assembly time.
func (r Result) Rounded() Result {
	r.Daily = r.Daily.rounded()
	r.Monthly = r.Monthly.rounded()
	r.Yearly = r.Yearly.rounded()
	r.AllTime = r.AllTime.rounded()

	for i := range r.Last3Days {
		r.Last3Days[i] = r.Last3Days[i].rounded()
	}
	r.Last7Days = r.Last7Days.rounded()
	r.MonthToDate = r.MonthToDate.rounded()
	r.LastMonth = r.LastMonth.rounded()
	if r.WeekComparison != nil {
		wc := *r.WeekComparison
		wc.ThisWeek = wc.ThisWeek.rounded()
		wc.LastWeek = wc.LastWeek.rounded()
		wc.SolarChangePct = Round2(wc.SolarChangePct)
		wc.GridChangePct = Round2(wc.GridChangePct)
		wc.CostChangePct = Round2(wc.CostChangePct)
		r.WeekComparison = &wc
	}
	r.WeekdayAnalysis = r.WeekdayAnalysis.rounded()
	r.WeekendAnalysis = r.WeekendAnalysis.rounded()

	r.SelfSufficiency.Score = Round2(r.SelfSufficiency.Score)
	r.SelfSufficiency.SolarKWh = Round2(r.SelfSufficiency.SolarKWh)
	r.SelfSufficiency.GridKWh = Round2(r.SelfSufficiency.GridKWh)
	for i, d := range r.HighUsageDays {
		d.SolarKWh = Round2(d.SolarKWh)
		d.GridKWh = Round2(d.GridKWh)
		d.TotalKWh = Round2(d.TotalKWh)
		d.Cost = Round2(d.Cost)
		r.HighUsageDays[i] = d
	}
	r.CostPerKWh.Overall = Round4(r.CostPerKWh.Overall)
	r.CostPerKWh.Grid = Round4(r.CostPerKWh.Grid)
	r.CostPerKWh.Solar = Round4(r.CostPerKWh.Solar)
	r.MonthlyProjection.MonthToDateCost = Round2(r.MonthlyProjection.MonthToDateCost)
	r.MonthlyProjection.DailyAverage = Round2(r.MonthlyProjection.DailyAverage)
	r.MonthlyProjection.ProjectedTotal = Round2(r.MonthlyProjection.ProjectedTotal)
	r.MonthlyProjection.ProjectedRemaining = Round2(r.MonthlyProjection.ProjectedRemaining)
	r.ReturnToGridAnalysis = r.ReturnToGridAnalysis.rounded()
	r.MonthDailyBreakdown.AvgSolar = Round2(r.MonthDailyBreakdown.AvgSolar)
	r.MonthDailyBreakdown.MaxSolar = Round2(r.MonthDailyBreakdown.MaxSolar)
	r.MonthDailyBreakdown.MinSolar = Round2(r.MonthDailyBreakdown.MinSolar)
	r.MonthDailyBreakdown.AvgGrid = Round2(r.MonthDailyBreakdown.AvgGrid)
	r.MonthDailyBreakdown.MaxGrid = Round2(r.MonthDailyBreakdown.MaxGrid)
	r.MonthDailyBreakdown.MinGrid = Round2(r.MonthDailyBreakdown.MinGrid)
	r.Hourly = r.Hourly.rounded()
	r.Savings.Today = Round2(r.Savings.Today)
	r.Savings.MonthToDate = Round2(r.Savings.MonthToDate)
	return r
}

func (s PeriodSnapshot) rounded() PeriodSnapshot {
	s.SolarConsumption = Round2(s.SolarConsumption)
	s.SolarCharge = Round2(s.SolarCharge)
	s.GridConsumption = Round2(s.GridConsumption)
	s.GridCharge = Round2(s.GridCharge)
	s.ReturnToGrid = Round2(s.ReturnToGrid)
	s.ReturnToGridCharge = Round2(s.ReturnToGridCharge)
	s.GridRatesKWh = roundedMap(s.GridRatesKWh)
	s.GridRatesAUD = roundedMap(s.GridRatesAUD)
	if s.Previous != nil {
		prev := s.Previous.rounded()
		s.Previous = &prev
	}
	return s
}

func (t AllTimeTotals) rounded() AllTimeTotals {
	t.SolarConsumption = Round2(t.SolarConsumption)
	t.SolarCharge = Round2(t.SolarCharge)
	if t.ExportByRate != nil {
		out := make(map[string]Totals, len(t.ExportByRate))
		for k, v := range t.ExportByRate {
			out[k] = Totals{Consumption: Round2(v.Consumption), Charge: Round2(v.Charge)}
		}
		t.ExportByRate = out
	}
	return t
}

func (d DayAggregate) rounded() DayAggregate {
	d.SolarConsumption = Round2(d.SolarConsumption)
	d.SolarCharge = Round2(d.SolarCharge)
	d.GridConsumption = Round2(d.GridConsumption)
	d.GridCharge = Round2(d.GridCharge)
	d.ReturnToGrid = Round2(d.ReturnToGrid)
	d.ReturnToGridCharge = Round2(d.ReturnToGridCharge)
	d.GridRatesKWh = roundedMap(d.GridRatesKWh)
	d.GridRatesAUD = roundedMap(d.GridRatesAUD)
	return d
}

func (w WindowTotals) rounded() WindowTotals {
	w.SolarConsumption = Round2(w.SolarConsumption)
	w.SolarCharge = Round2(w.SolarCharge)
	w.GridConsumption = Round2(w.GridConsumption)
	w.GridCharge = Round2(w.GridCharge)
	w.ReturnToGrid = Round2(w.ReturnToGrid)
	w.ReturnToGridCharge = Round2(w.ReturnToGridCharge)
	return w
}

func (w WeekTotals) rounded() WeekTotals {
	w.SolarConsumption = Round2(w.SolarConsumption)
	w.GridConsumption = Round2(w.GridConsumption)
	w.Cost = Round2(w.Cost)
	return w
}

func (g DayGroupAverages) rounded() DayGroupAverages {
	g.AvgSolarConsumption = Round2(g.AvgSolarConsumption)
	g.AvgGridConsumption = Round2(g.AvgGridConsumption)
	g.AvgCost = Round2(g.AvgCost)
	return g
}

func (a ReturnToGridAnalysis) rounded() ReturnToGridAnalysis {
	a.ExportKWh = Round2(a.ExportKWh)
	a.ExportCredit = Round2(a.ExportCredit)
	a.ExportRate = Round4(a.ExportRate)
	a.GridKWh = Round2(a.GridKWh)
	a.GridCost = Round2(a.GridCost)
	a.PurchaseRate = Round4(a.PurchaseRate)
	a.PotentialSavings = Round2(a.PotentialSavings)
	a.OpportunityCost = Round2(a.OpportunityCost)
	return a
}

func (h HourlyAnalytics) rounded() HourlyAnalytics {
	h.SolarCurrent = Round2(h.SolarCurrent)
	h.ExportCurrent = Round2(h.ExportCurrent)
	h.SolarTotal = h.SolarTotal.rounded()
	h.GridTotal = h.GridTotal.rounded()
	h.ReturnToGridTotal = h.ReturnToGridTotal.rounded()
	if h.Peak4HourWindow != nil {
		w := *h.Peak4HourWindow
		w.Consumption = Round2(w.Consumption)
		h.Peak4HourWindow = &w
	}
	if h.TimeOfUse != nil {
		out := make(map[string]BucketTotals, len(h.TimeOfUse))
		for k, v := range h.TimeOfUse {
			out[k] = BucketTotals{Consumption: Round2(v.Consumption), Cost: Round2(v.Cost)}
		}
		h.TimeOfUse = out
	}
	h.FreeUsage.Consumption = Round2(h.FreeUsage.Consumption)
	h.FreeUsage.Savings = Round2(h.FreeUsage.Savings)
	h.FreeUsage.RateUsed = Round4(h.FreeUsage.RateUsed)
	h.EVUsageWeekly = h.EVUsageWeekly.rounded()
	h.EVUsageMonthly = h.EVUsageMonthly.rounded()
	h.EVUsageYearly = h.EVUsageYearly.rounded()
	if h.HourlyHeatmap != nil {
		out := make(map[string][]float64, len(h.HourlyHeatmap))
		for day, hours := range h.HourlyHeatmap {
			rounded := make([]float64, len(hours))
			for i, v := range hours {
				rounded[i] = Round2(v)
			}
			out[day] = rounded
		}
		h.HourlyHeatmap = out
	}
	if h.HourlyRatesBreakdown != nil {
		out := make(map[string]RateObserved, len(h.HourlyRatesBreakdown))
		for k, v := range h.HourlyRatesBreakdown {
			out[k] = RateObserved{
				ConsumptionKWh: Round2(v.ConsumptionKWh),
				Cost:           Round2(v.Cost),
				Rate:           Round4(v.Rate),
			}
		}
		h.HourlyRatesBreakdown = out
	}
	return h
}

func (t Totals) rounded() Totals {
	return Totals{Consumption: Round2(t.Consumption), Charge: Round2(t.Charge)}
}

func (e EVUsage) rounded() EVUsage {
	e.Consumption = Round2(e.Consumption)
	e.Cost = Round2(e.Cost)
	e.CostSaved = Round2(e.CostSaved)
	return e
}

func roundedMap(m map[string]float64) map[string]float64 {
	if m == nil {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = Round2(v)
	}
	return out
}

// safeDiv guards every ratio in the pipeline: a zero denominator yields 0.
func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}
