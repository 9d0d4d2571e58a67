package analytics

import (
	"math"
	"sort"
	"time"

	usage "solar-insights/internal/usage/domain"
)

// peakWindowSize is the number of consecutive timeline entries the peak
// detector considers.
const peakWindowSize = 4

// Source tags where a timeline entry came from.
const (
	SourceSolar  = "solar"
	SourceExport = "export"
)

// TimelineEntry is one hourly reading on the merged solar/export timeline.
// Charge is a magnitude.
type TimelineEntry struct {
	Timestamp   time.Time
	Hour        int
	Source      string
	Bucket      usage.Bucket
	Consumption float64
	Charge      float64
}

// BuildTimeline merges both hourly series into a single chronological
// timeline. Entries without a usable period start are dropped. The sort is
// stable so same-timestamp entries keep solar-before-export order.
func BuildTimeline(pair usage.SeriesPair) []TimelineEntry {
	out := make([]TimelineEntry, 0, len(pair.Solar)+len(pair.Export))
	appendSeries := func(source string, records []usage.Record) {
		for _, rec := range records {
			if rec.PeriodFrom.IsZero() {
				continue
			}
			out = append(out, TimelineEntry{
				Timestamp:   rec.PeriodFrom,
				Hour:        rec.PeriodFrom.Hour(),
				Source:      source,
				Bucket:      usage.BucketOf(rec),
				Consumption: rec.Consumption,
				Charge:      math.Abs(rec.ChargeValue()),
			})
		}
	}
	appendSeries(SourceSolar, pair.Solar)
	appendSeries(SourceExport, pair.Export)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// BuildHourlyAnalytics runs every hourly computation over the merged
// timeline against a fixed reference time.
func BuildHourlyAnalytics(pair usage.SeriesPair, plan usage.PlanConfig, now time.Time) HourlyAnalytics {
	timeline := BuildTimeline(pair)

	var h HourlyAnalytics
	for _, e := range timeline {
		switch {
		case e.Source == SourceSolar:
			h.SolarTotal.Consumption += e.Consumption
			h.SolarTotal.Charge += e.Charge
			h.SolarCurrent = e.Consumption
		case e.Bucket == usage.BucketExport:
			h.ReturnToGridTotal.Consumption += e.Consumption
			h.ReturnToGridTotal.Charge += e.Charge
			h.ExportCurrent = e.Consumption
		default:
			h.GridTotal.Consumption += e.Consumption
			h.GridTotal.Charge += e.Charge
		}
	}

	h.Peak4HourWindow = detectPeakWindow(timeline)
	h.TimeOfUse = timeOfUseBuckets(timeline)
	h.FreeUsage = freeUsageMonthToDate(timeline, plan, now)
	if plan.PlanType == usage.PlanEV {
		h.EVUsageWeekly = evUsage(timeline, plan, evWindowWeekly, now)
		h.EVUsageMonthly = evUsage(timeline, plan, evWindowMonthly, now)
		h.EVUsageYearly = evUsage(timeline, plan, evWindowYearly, now)
	}
	h.HourlyHeatmap = buildHeatmap(timeline)
	h.HourlyRatesBreakdown = ratesBreakdown(timeline)
	return h
}

// detectPeakWindow finds the consecutive 4-entry stretch with the highest
// summed consumption. Replacement happens only on a strictly greater sum, so
// the earliest window wins ties. Fewer than 4 entries means no window.
func detectPeakWindow(timeline []TimelineEntry) *PeakWindow {
	if len(timeline) < peakWindowSize {
		return nil
	}
	best := -1
	bestSum := math.Inf(-1)
	for i := 0; i+peakWindowSize <= len(timeline); i++ {
		var sum float64
		for _, e := range timeline[i : i+peakWindowSize] {
			sum += e.Consumption
		}
		if sum > bestSum {
			bestSum = sum
			best = i
		}
	}
	return &PeakWindow{
		Start:       timeline[best].Timestamp,
		End:         timeline[best+peakWindowSize-1].Timestamp,
		Consumption: bestSum,
	}
}

// timeOfUseBuckets accumulates consumption and cost per bucket over the full
// timeline. Free and export entries are tracked by their own computations.
func timeOfUseBuckets(timeline []TimelineEntry) map[string]BucketTotals {
	out := map[string]BucketTotals{}
	for _, e := range timeline {
		if e.Bucket == usage.BucketFree || e.Bucket == usage.BucketExport {
			continue
		}
		totals := out[string(e.Bucket)]
		totals.Consumption += e.Consumption
		totals.Cost += e.Charge
		out[string(e.Bucket)] = totals
	}
	return out
}

// freeUsageMonthToDate sums free-period consumption for the current month and
// values it at the rate that energy would otherwise have cost. The rate is
// the observed month-to-date effective rate of unclassified entries when one
// exists, else the configured shoulder rate.
func freeUsageMonthToDate(timeline []TimelineEntry, plan usage.PlanConfig, now time.Time) FreeUsage {
	var free FreeUsage
	var otherKWh, otherCost float64
	for _, e := range timeline {
		if !sameMonth(e.Timestamp, now) {
			continue
		}
		switch e.Bucket {
		case usage.BucketFree:
			free.Consumption += e.Consumption
		case usage.BucketOther:
			otherKWh += e.Consumption
			otherCost += e.Charge
		}
	}
	free.RateUsed = plan.ShoulderRate
	if otherKWh > 0 && otherCost > 0 {
		free.RateUsed = otherCost / otherKWh
	}
	free.Savings = free.Consumption * free.RateUsed
	return free
}

type evWindow int

const (
	evWindowWeekly evWindow = iota
	evWindowMonthly
	evWindowYearly
)

// evUsage sums consumption during the EV off-peak hours (00:00 to 06:00
// local) over one trailing window. Export entries are credits, not
// consumption, and are left out. The saving compares the EV rate against the
// regular off-peak rate.
func evUsage(timeline []TimelineEntry, plan usage.PlanConfig, window evWindow, now time.Time) EVUsage {
	var ev EVUsage
	weekCutoff := now.AddDate(0, 0, -7)
	for _, e := range timeline {
		if e.Hour >= 6 || e.Bucket == usage.BucketExport {
			continue
		}
		switch window {
		case evWindowWeekly:
			if e.Timestamp.Before(weekCutoff) {
				continue
			}
		case evWindowMonthly:
			if !sameMonth(e.Timestamp, now) {
				continue
			}
		case evWindowYearly:
			if e.Timestamp.Year() != now.Year() {
				continue
			}
		}
		ev.Consumption += e.Consumption
		ev.Cost += e.Charge
	}
	ev.CostSaved = ev.Consumption * (plan.OffPeakRate - plan.EVRate)
	return ev
}

// buildHeatmap averages consumption per weekday and hour over the full
// timeline. Only observed weekdays get a row; each row has 24 slots.
func buildHeatmap(timeline []TimelineEntry) map[string][]float64 {
	type cell struct {
		sum   float64
		count int
	}
	cells := map[string]*[24]cell{}
	for _, e := range timeline {
		day := e.Timestamp.Weekday().String()
		row, ok := cells[day]
		if !ok {
			row = &[24]cell{}
			cells[day] = row
		}
		row[e.Hour].sum += e.Consumption
		row[e.Hour].count++
	}
	if len(cells) == 0 {
		return nil
	}
	out := make(map[string][]float64, len(cells))
	for day, row := range cells {
		hours := make([]float64, 24)
		for h, c := range row {
			if c.count > 0 {
				hours[h] = c.sum / float64(c.count)
			}
		}
		out[day] = hours
	}
	return out
}

// ratesBreakdown reports the effective rate observed per bucket.
func ratesBreakdown(timeline []TimelineEntry) map[string]RateObserved {
	out := map[string]RateObserved{}
	for _, e := range timeline {
		obs := out[string(e.Bucket)]
		obs.ConsumptionKWh += e.Consumption
		obs.Cost += e.Charge
		out[string(e.Bucket)] = obs
	}
	for bucket, obs := range out {
		obs.Rate = safeDiv(obs.Cost, obs.ConsumptionKWh)
		out[bucket] = obs
	}
	return out
}

func sameMonth(t, ref time.Time) bool {
	return t.Year() == ref.Year() && t.Month() == ref.Month()
}
