package usage

import "time"

// ReadType marks how the provider obtained a reading.
type ReadType string

const (
	ReadTypeActual    ReadType = "ACTUAL"
	ReadTypeEstimated ReadType = "ESTIMATED"
)

// Charge is the cost attached to a usage record. Value is positive for
// amounts owed; consumers that only care about magnitude must take the
// absolute value themselves.
type Charge struct {
	Value float64 `json:"value"`
	Type  string  `json:"type"`
}

// RateSplit is a finer-grained breakdown of a single record into tariff
// buckets with their own consumption and cost shares.
type RateSplit struct {
	Type           string  `json:"type"`
	Consumption    float64 `json:"consumption"`
	Charge         *Charge `json:"charge,omitempty"`
	PercentOfTotal float64 `json:"percentOfTotal"`
}

// ChargeValue returns the split's charge value, zero when absent.
func (s RateSplit) ChargeValue() float64 {
	if s.Charge == nil {
		return 0
	}
	return s.Charge.Value
}

// Record is the canonical usage record. Consumption is kWh and treated as
// non-negative by convention; a reported negative is passed through
// unmodified, so downstream sums must not assume positivity.
type Record struct {
	PeriodFrom  time.Time   `json:"periodFrom"`
	PeriodTo    time.Time   `json:"periodTo"`
	Consumption float64     `json:"consumption"`
	ReadType    ReadType    `json:"readType"`
	Charge      *Charge     `json:"charge,omitempty"`
	Rates       []RateSplit `json:"rates,omitempty"`
}

// ChargeValue returns the record's charge value, zero when absent.
func (r Record) ChargeValue() float64 {
	if r.Charge == nil {
		return 0
	}
	return r.Charge.Value
}

// ChargeType returns the record's charge type code, empty when absent.
func (r Record) ChargeType() string {
	if r.Charge == nil {
		return ""
	}
	return r.Charge.Type
}

// SeriesPair holds two independently ordered historical sequences, ascending
// by time; the last element is the most recent.
type SeriesPair struct {
	Solar  []Record `json:"solar"`
	Export []Record `json:"export"`
}

// SavingsEntry is one element of the provider's savings series.
type SavingsEntry struct {
	PeriodFrom  time.Time `json:"periodFrom"`
	PeriodTo    time.Time `json:"periodTo"`
	Amount      float64   `json:"amount"`
	Description string    `json:"description,omitempty"`
}

// IntervalDataset covers daily/monthly/yearly history.
type IntervalDataset struct {
	Daily   SeriesPair `json:"daily"`
	Monthly SeriesPair `json:"monthly"`
	Yearly  SeriesPair `json:"yearly"`
}
