package analytics

import (
	"math"

	usage "solar-insights/internal/usage/domain"
)

// Snapshots holds the current daily/monthly/yearly views plus all-time
// totals, all derived from the interval dataset.
type Snapshots struct {
	Daily   PeriodSnapshot
	Monthly PeriodSnapshot
	Yearly  PeriodSnapshot
	AllTime AllTimeTotals
}

// BuildSnapshots extracts the latest entries of each interval series. The
// monthly snapshot additionally carries last month's entries when the
// histories are long enough, and the monthly series feeds the all-time sums.
func BuildSnapshots(ds usage.IntervalDataset) Snapshots {
	monthly := snapshotAt(ds.Monthly, 0)
	if prev, ok := previousSnapshot(ds.Monthly); ok {
		monthly.Previous = &prev
	}
	return Snapshots{
		Daily:   snapshotAt(ds.Daily, 0),
		Monthly: monthly,
		Yearly:  snapshotAt(ds.Yearly, 0),
		AllTime: buildAllTime(ds.Monthly),
	}
}

// snapshotAt merges the entries `back` positions from the end of each series.
// The two series are independent; either may be missing its entry.
func snapshotAt(pair usage.SeriesPair, back int) PeriodSnapshot {
	var snap PeriodSnapshot
	if rec, ok := fromEnd(pair.Solar, back); ok {
		snap.PeriodFrom = rec.PeriodFrom
		snap.PeriodTo = rec.PeriodTo
		snap.ReadType = string(rec.ReadType)
		snap.SolarConsumption = rec.Consumption
		snap.SolarCharge = math.Abs(rec.ChargeValue())
	}
	if rec, ok := fromEnd(pair.Export, back); ok {
		if snap.PeriodFrom.IsZero() {
			snap.PeriodFrom = rec.PeriodFrom
			snap.PeriodTo = rec.PeriodTo
			snap.ReadType = string(rec.ReadType)
		}
		applyExportRecord(&snap, rec)
	}
	return snap
}

// applyExportRecord routes an export-series record into the snapshot. CREDIT
// means energy actually returned to the grid; every other charge type means
// the record is grid consumption, broken down by its rate splits.
func applyExportRecord(snap *PeriodSnapshot, rec usage.Record) {
	if usage.IsExport(rec) {
		snap.ReturnToGrid += rec.Consumption
		snap.ReturnToGridCharge += math.Abs(rec.ChargeValue())
		return
	}
	snap.GridConsumption += rec.Consumption
	snap.GridCharge += math.Abs(rec.ChargeValue())
	for _, split := range rec.Rates {
		bucket := string(usage.ClassifyChargeType(split.Type))
		if snap.GridRatesKWh == nil {
			snap.GridRatesKWh = map[string]float64{}
			snap.GridRatesAUD = map[string]float64{}
		}
		snap.GridRatesKWh[bucket] += split.Consumption
		snap.GridRatesAUD[bucket] += math.Abs(split.ChargeValue())
	}
}

func previousSnapshot(pair usage.SeriesPair) (PeriodSnapshot, bool) {
	if len(pair.Solar) < 2 && len(pair.Export) < 2 {
		return PeriodSnapshot{}, false
	}
	return snapshotAt(pair, 1), true
}

// buildAllTime sums the full monthly history. Export months are grouped by
// their rate-split buckets; the covered span is the minimum periodFrom and
// maximum periodTo across both series.
func buildAllTime(pair usage.SeriesPair) AllTimeTotals {
	var totals AllTimeTotals
	totals.Months = len(pair.Solar)

	for _, rec := range pair.Solar {
		totals.SolarConsumption += rec.Consumption
		totals.SolarCharge += math.Abs(rec.ChargeValue())
		extendSpan(&totals, rec)
	}
	for _, rec := range pair.Export {
		extendSpan(&totals, rec)
		for _, split := range rec.Rates {
			bucket := string(usage.ClassifyChargeType(split.Type))
			if totals.ExportByRate == nil {
				totals.ExportByRate = map[string]Totals{}
			}
			entry := totals.ExportByRate[bucket]
			entry.Consumption += split.Consumption
			entry.Charge += math.Abs(split.ChargeValue())
			totals.ExportByRate[bucket] = entry
		}
	}
	return totals
}

func extendSpan(totals *AllTimeTotals, rec usage.Record) {
	if rec.PeriodFrom.IsZero() {
		return
	}
	if totals.PeriodFrom.IsZero() || rec.PeriodFrom.Before(totals.PeriodFrom) {
		totals.PeriodFrom = rec.PeriodFrom
	}
	if rec.PeriodTo.After(totals.PeriodTo) {
		totals.PeriodTo = rec.PeriodTo
	}
}

func fromEnd(records []usage.Record, back int) (usage.Record, bool) {
	idx := len(records) - 1 - back
	if idx < 0 {
		return usage.Record{}, false
	}
	return records[idx], true
}
