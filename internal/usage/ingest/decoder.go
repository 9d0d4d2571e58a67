package ingest

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/rs/zerolog"

	usage "solar-insights/internal/usage/domain"
)

// rateSplitTolerance is the allowed difference, in kWh, between a record's
// own consumption and the sum of its rate splits.
const rateSplitTolerance = 0.1

// Decoder shapes raw provider payloads into canonical records. It is
// tolerant of missing fields and drops only the individual records it
// cannot make sense of, collecting them into a Report.
type Decoder struct {
	log zerolog.Logger
}

// NewDecoder constructs a decoder with an explicit diagnostics logger.
func NewDecoder(log zerolog.Logger) *Decoder {
	return &Decoder{log: log}
}

type rawCharge struct {
	Value *float64 `json:"value"`
	Type  string   `json:"type"`
}

type rawRateSplit struct {
	Type           string   `json:"type"`
	Consumption    *float64   `json:"consumption"`
	Charge         *rawCharge `json:"charge"`
	PercentOfTotal *float64   `json:"percentOfTotal"`
}

type rawRecord struct {
	PeriodFrom  string            `json:"periodFrom"`
	PeriodTo    string            `json:"periodTo"`
	Consumption *float64          `json:"consumption"`
	ReadType    string            `json:"readType"`
	Charge      *rawCharge        `json:"charge"`
	Rates       []json.RawMessage `json:"rates"`
}

type rawSeriesPair struct {
	Solar  []json.RawMessage `json:"solar"`
	Export []json.RawMessage `json:"export"`
}

type rawIntervalDataset struct {
	Daily   *rawSeriesPair `json:"daily"`
	Monthly *rawSeriesPair `json:"monthly"`
	Yearly  *rawSeriesPair `json:"yearly"`
}

type rawSavings struct {
	PeriodFrom  string `json:"periodFrom"`
	PeriodTo    string `json:"periodTo"`
	Amount      *struct {
		Value *float64 `json:"value"`
	} `json:"amount"`
	Description string `json:"description"`
}

type rawHourlyDataset struct {
	Solar   []json.RawMessage `json:"solar"`
	Export  []json.RawMessage `json:"export"`
	Savings []json.RawMessage `json:"savings"`
}

// DecodeInterval decodes a daily/monthly/yearly interval payload. A payload
// that is not a recognizable dataset shape at all yields ErrMalformedDataset;
// individual bad records are skipped and reported, never fatal.
func (d *Decoder) DecodeInterval(raw []byte) (usage.IntervalDataset, *Report, error) {
	rep := &Report{}
	if len(raw) == 0 {
		return usage.IntervalDataset{}, rep, ErrEmptyPayload
	}

	var payload rawIntervalDataset
	if err := json.Unmarshal(raw, &payload); err != nil {
		return usage.IntervalDataset{}, rep, fmt.Errorf("%w: %v", ErrMalformedDataset, err)
	}
	if payload.Daily == nil && payload.Monthly == nil && payload.Yearly == nil {
		return usage.IntervalDataset{}, rep, fmt.Errorf("%w: no daily/monthly/yearly sections", ErrMalformedDataset)
	}

	ds := usage.IntervalDataset{
		Daily:   d.decodeSeriesPair("daily", payload.Daily, rep),
		Monthly: d.decodeSeriesPair("monthly", payload.Monthly, rep),
		Yearly:  d.decodeSeriesPair("yearly", payload.Yearly, rep),
	}
	return ds, rep, nil
}

// DecodeHourly decodes an hourly payload covering a provider-chosen trailing
// window. The savings series is optional.
func (d *Decoder) DecodeHourly(raw []byte) (usage.SeriesPair, []usage.SavingsEntry, *Report, error) {
	rep := &Report{}
	if len(raw) == 0 {
		return usage.SeriesPair{}, nil, rep, ErrEmptyPayload
	}

	var payload rawHourlyDataset
	if err := json.Unmarshal(raw, &payload); err != nil {
		return usage.SeriesPair{}, nil, rep, fmt.Errorf("%w: %v", ErrMalformedDataset, err)
	}
	if payload.Solar == nil && payload.Export == nil {
		return usage.SeriesPair{}, nil, rep, fmt.Errorf("%w: no solar/export sections", ErrMalformedDataset)
	}

	pair := usage.SeriesPair{
		Solar:  d.decodeSeries("hourly.solar", payload.Solar, rep),
		Export: d.decodeSeries("hourly.export", payload.Export, rep),
	}
	savings := d.decodeSavings("hourly.savings", payload.Savings, rep)
	return pair, savings, rep, nil
}

func (d *Decoder) decodeSeriesPair(name string, raw *rawSeriesPair, rep *Report) usage.SeriesPair {
	if raw == nil {
		return usage.SeriesPair{}
	}
	return usage.SeriesPair{
		Solar:  d.decodeSeries(name+".solar", raw.Solar, rep),
		Export: d.decodeSeries(name+".export", raw.Export, rep),
	}
}

func (d *Decoder) decodeSeries(series string, entries []json.RawMessage, rep *Report) []usage.Record {
	if len(entries) == 0 {
		return nil
	}
	out := make([]usage.Record, 0, len(entries))
	for i, entry := range entries {
		var raw rawRecord
		if err := json.Unmarshal(entry, &raw); err != nil {
			rep.addSkip(series, i, SkipNotARecord, err.Error())
			d.log.Warn().Str("series", series).Int("index", i).Err(err).
				Msg("skipping entry that is not a usage record")
			continue
		}
		record, reason, detail := d.normalizeRecord(series, raw, rep)
		if reason != "" {
			rep.addSkip(series, i, reason, detail)
			d.log.Warn().Str("series", series).Int("index", i).
				Str("reason", string(reason)).Str("detail", detail).
				Msg("skipping usage record")
			continue
		}
		rep.Accepted++
		out = append(out, record)
	}
	return out
}

func (d *Decoder) normalizeRecord(series string, raw rawRecord, rep *Report) (usage.Record, SkipReason, string) {
	if raw.PeriodFrom == "" {
		return usage.Record{}, SkipMissingPeriod, "periodFrom absent"
	}
	from, err := ParseTimestamp(raw.PeriodFrom)
	if err != nil {
		return usage.Record{}, SkipUnparsableDate, raw.PeriodFrom
	}
	// periodTo is best effort; a bad value falls back to periodFrom.
	to := from
	if raw.PeriodTo != "" {
		if parsed, err := ParseTimestamp(raw.PeriodTo); err == nil {
			to = parsed
		}
	}

	record := usage.Record{
		PeriodFrom: from,
		PeriodTo:   to,
		ReadType:   usage.ReadType(raw.ReadType),
	}
	if raw.Consumption != nil {
		record.Consumption = *raw.Consumption
	}
	if raw.Charge != nil {
		charge := usage.Charge{Type: raw.Charge.Type}
		if raw.Charge.Value != nil {
			charge.Value = *raw.Charge.Value
		}
		record.Charge = &charge
	}
	record.Rates = d.normalizeRateSplits(series, raw.Rates, rep)
	d.validateRateSplits(series, &record, rep)
	return record, "", ""
}

func (d *Decoder) normalizeRateSplits(series string, entries []json.RawMessage, rep *Report) []usage.RateSplit {
	if len(entries) == 0 {
		return nil
	}
	out := make([]usage.RateSplit, 0, len(entries))
	for i, entry := range entries {
		var raw rawRateSplit
		if err := json.Unmarshal(entry, &raw); err != nil {
			rep.addSkip(series+".rates", i, SkipNotARecord, err.Error())
			d.log.Warn().Str("series", series).Int("index", i).Err(err).
				Msg("skipping entry that is not a rate split")
			continue
		}
		split := usage.RateSplit{Type: raw.Type}
		if raw.Consumption != nil {
			split.Consumption = *raw.Consumption
		}
		if raw.PercentOfTotal != nil {
			split.PercentOfTotal = *raw.PercentOfTotal
		}
		if raw.Charge != nil {
			charge := usage.Charge{Type: raw.Charge.Type}
			if raw.Charge.Value != nil {
				charge.Value = *raw.Charge.Value
			}
			split.Charge = &charge
		}
		out = append(out, split)
	}
	return out
}

// validateRateSplits checks that the splits approximately cover the record's
// own consumption. A mismatch is logged with both values and the delta; the
// individual split values remain authoritative either way.
func (d *Decoder) validateRateSplits(series string, record *usage.Record, rep *Report) {
	if len(record.Rates) == 0 {
		return
	}
	var sum float64
	for _, split := range record.Rates {
		sum += split.Consumption
	}
	delta := math.Abs(sum - record.Consumption)
	if delta > rateSplitTolerance {
		rep.RateMismatches++
		d.log.Warn().Str("series", series).
			Time("period_from", record.PeriodFrom).
			Float64("record_kwh", record.Consumption).
			Float64("splits_kwh", sum).
			Float64("delta_kwh", delta).
			Msg("rate splits do not cover record consumption")
	}
}

func (d *Decoder) decodeSavings(series string, entries []json.RawMessage, rep *Report) []usage.SavingsEntry {
	if len(entries) == 0 {
		return nil
	}
	out := make([]usage.SavingsEntry, 0, len(entries))
	for i, entry := range entries {
		var raw rawSavings
		if err := json.Unmarshal(entry, &raw); err != nil {
			rep.addSkip(series, i, SkipNotARecord, err.Error())
			continue
		}
		if raw.PeriodFrom == "" {
			rep.addSkip(series, i, SkipMissingPeriod, "periodFrom absent")
			continue
		}
		from, err := ParseTimestamp(raw.PeriodFrom)
		if err != nil {
			rep.addSkip(series, i, SkipUnparsableDate, raw.PeriodFrom)
			continue
		}
		to := from
		if raw.PeriodTo != "" {
			if parsed, err := ParseTimestamp(raw.PeriodTo); err == nil {
				to = parsed
			}
		}
		saving := usage.SavingsEntry{PeriodFrom: from, PeriodTo: to, Description: raw.Description}
		if raw.Amount != nil && raw.Amount.Value != nil {
			saving.Amount = *raw.Amount.Value
		}
		rep.Accepted++
		out = append(out, saving)
	}
	return out
}

// fallbackLayouts cover the provider's sloppier timestamp renderings that
// strfmt's RFC3339 parser rejects.
var fallbackLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a provider timestamp tolerantly, always into UTC.
func ParseTimestamp(value string) (time.Time, error) {
	if dt, err := strfmt.ParseDateTime(value); err == nil {
		return time.Time(dt).UTC(), nil
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("usage ingest: unparsable timestamp %q", value)
}
