package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usage "solar-insights/internal/usage/domain"
)

func day(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return parsed
}

func solarRec(from time.Time, kwh, charge float64) usage.Record {
	return usage.Record{
		PeriodFrom:  from,
		PeriodTo:    from.AddDate(0, 0, 1),
		Consumption: kwh,
		ReadType:    usage.ReadTypeActual,
		Charge:      &usage.Charge{Value: charge, Type: usage.ChargeTypeDebit},
	}
}

func gridRec(from time.Time, kwh, charge float64, splits ...usage.RateSplit) usage.Record {
	return usage.Record{
		PeriodFrom:  from,
		PeriodTo:    from.AddDate(0, 0, 1),
		Consumption: kwh,
		ReadType:    usage.ReadTypeActual,
		Charge:      &usage.Charge{Value: charge, Type: usage.ChargeTypeDebit},
		Rates:       splits,
	}
}

func creditRec(from time.Time, kwh, credit float64) usage.Record {
	return usage.Record{
		PeriodFrom:  from,
		PeriodTo:    from.AddDate(0, 0, 1),
		Consumption: kwh,
		Charge:      &usage.Charge{Value: credit, Type: usage.ChargeTypeCredit},
	}
}

func TestBuildSnapshotsMergesLatestEntries(t *testing.T) {
	d1 := day(t, "2026-08-19")
	d2 := day(t, "2026-08-20")
	ds := usage.IntervalDataset{
		Daily: usage.SeriesPair{
			Solar: []usage.Record{solarRec(d1, 8, -2.4), solarRec(d2, 10.5, -3.15)},
			Export: []usage.Record{gridRec(d2, 6, 1.8,
				usage.RateSplit{Type: usage.ChargeTypePeak, Consumption: 2, Charge: &usage.Charge{Value: 0.9, Type: usage.ChargeTypePeak}},
				usage.RateSplit{Type: usage.ChargeTypeOffPeak, Consumption: 4, Charge: &usage.Charge{Value: 0.9, Type: usage.ChargeTypeOffPeak}},
			)},
		},
	}

	snaps := BuildSnapshots(ds)
	daily := snaps.Daily
	assert.Equal(t, 10.5, daily.SolarConsumption)
	assert.Equal(t, 3.15, daily.SolarCharge, "charge magnitudes, not signs")
	assert.Equal(t, 6.0, daily.GridConsumption)
	assert.Equal(t, 1.8, daily.GridCharge)
	assert.Zero(t, daily.ReturnToGrid)
	assert.Equal(t, 2.0, daily.GridRatesKWh["peak"])
	assert.Equal(t, 4.0, daily.GridRatesKWh["off_peak"])
	assert.Equal(t, 0.9, daily.GridRatesAUD["peak"])
	assert.Equal(t, d2, daily.PeriodFrom)
}

func TestBuildSnapshotsCreditIsReturnToGrid(t *testing.T) {
	d := day(t, "2026-08-20")
	ds := usage.IntervalDataset{
		Daily: usage.SeriesPair{
			Export: []usage.Record{creditRec(d, 3.2, -0.16)},
		},
	}

	daily := BuildSnapshots(ds).Daily
	assert.Equal(t, 3.2, daily.ReturnToGrid)
	assert.Equal(t, 0.16, daily.ReturnToGridCharge)
	assert.Zero(t, daily.GridConsumption)
	assert.Equal(t, d, daily.PeriodFrom, "period falls back to the export entry when solar is missing")
}

func TestBuildSnapshotsMonthlyPrevious(t *testing.T) {
	jul := day(t, "2026-07-01")
	aug := day(t, "2026-08-01")
	ds := usage.IntervalDataset{
		Monthly: usage.SeriesPair{
			Solar: []usage.Record{solarRec(jul, 300, -90), solarRec(aug, 200, -60)},
		},
	}

	monthly := BuildSnapshots(ds).Monthly
	assert.Equal(t, 200.0, monthly.SolarConsumption)
	require.NotNil(t, monthly.Previous)
	assert.Equal(t, 300.0, monthly.Previous.SolarConsumption)
}

func TestBuildSnapshotsMonthlyPreviousAbsentOnShortHistory(t *testing.T) {
	ds := usage.IntervalDataset{
		Monthly: usage.SeriesPair{
			Solar: []usage.Record{solarRec(day(t, "2026-08-01"), 200, -60)},
		},
	}
	assert.Nil(t, BuildSnapshots(ds).Monthly.Previous)
}

func TestBuildSnapshotsAllTime(t *testing.T) {
	jun := day(t, "2026-06-01")
	jul := day(t, "2026-07-01")
	aug := day(t, "2026-08-01")
	ds := usage.IntervalDataset{
		Monthly: usage.SeriesPair{
			Solar: []usage.Record{
				solarRec(jun, 310, -93),
				solarRec(jul, 300, -90),
				solarRec(aug, 200, -60),
			},
			Export: []usage.Record{
				gridRec(jul, 150, 45,
					usage.RateSplit{Type: usage.ChargeTypePeak, Consumption: 50, Charge: &usage.Charge{Value: 25, Type: usage.ChargeTypePeak}},
					usage.RateSplit{Type: usage.ChargeTypeDebit, Consumption: 100, Charge: &usage.Charge{Value: 20, Type: usage.ChargeTypeDebit}},
				),
			},
		},
	}

	allTime := BuildSnapshots(ds).AllTime
	assert.Equal(t, 3, allTime.Months)
	assert.InDelta(t, 810, allTime.SolarConsumption, 1e-9)
	assert.InDelta(t, 243, allTime.SolarCharge, 1e-9)
	assert.Equal(t, jun, allTime.PeriodFrom)
	assert.Equal(t, aug.AddDate(0, 0, 1), allTime.PeriodTo)
	assert.Equal(t, 50.0, allTime.ExportByRate["peak"].Consumption)
	assert.Equal(t, 100.0, allTime.ExportByRate["shoulder"].Consumption, "DEBIT groups with shoulder")
}

func TestBuildSnapshotsEmptyDataset(t *testing.T) {
	snaps := BuildSnapshots(usage.IntervalDataset{})
	assert.Zero(t, snaps.Daily.SolarConsumption)
	assert.Zero(t, snaps.AllTime.Months)
	assert.Nil(t, snaps.Monthly.Previous)
}
