package analytics

import (
	"math"
	"sort"

	usage "solar-insights/internal/usage/domain"
)

// evRateCeiling is the off-peak rate below which a sample can only plausibly
// be a dedicated EV tariff.
const evRateCeiling = 0.10

// RateSamples groups observed per-kWh rates by raw charge-type code.
type RateSamples map[string][]float64

// CollectRateSamples walks the hourly records of both series and gathers
// every charge-type code seen, plus per-code effective rate samples taken
// only where both consumption and charge are positive.
func CollectRateSamples(pair usage.SeriesPair) RateSamples {
	samples := RateSamples{}
	collect := func(records []usage.Record) {
		for _, rec := range records {
			code := rec.ChargeType()
			if code == "" {
				continue
			}
			if _, ok := samples[code]; !ok {
				samples[code] = nil
			}
			charge := math.Abs(rec.ChargeValue())
			if rec.Consumption > 0 && charge > 0 {
				samples[code] = append(samples[code], charge/rec.Consumption)
			}
		}
	}
	collect(pair.Solar)
	collect(pair.Export)
	return samples
}

// DetectPlan classifies the account's plan from the charge-type codes and
// rate samples of one hourly window. The decision order matters: a free
// window plus a peak/off-peak split with an off-peak sample cheap enough to
// be an EV tariff is the strongest signal, and the bare two-code DEBIT shape
// only identifies a single-rate plan when nothing richer matched first.
func DetectPlan(samples RateSamples, cfg usage.PlanConfig) PlanDetection {
	found := make([]string, 0, len(samples))
	for code := range samples {
		found = append(found, code)
	}
	sort.Strings(found)

	has := func(code string) bool {
		_, ok := samples[code]
		return ok
	}

	det := PlanDetection{ChargeTypesFound: found}
	switch {
	case has(usage.ChargeTypeFree) && has(usage.ChargeTypePeak) && has(usage.ChargeTypeOffPeak):
		offPeak := samples[usage.ChargeTypeOffPeak]
		if minSample, ok := minOf(offPeak); ok && minSample < evRateCeiling {
			det.PlanType = usage.PlanEV
			det.Confidence = 85
			det.Rates = bucketRates(samples, cfg)
			det.Rates[string(usage.BucketEVOffPeak)] = Round4(minSample)
			return det
		}
		det.PlanType = usage.PlanFree3
		det.Confidence = 70
		if len(offPeak) > 0 {
			det.Confidence = 80
		}
	case has(usage.ChargeTypeFree):
		det.PlanType = usage.PlanFree3
		det.Confidence = 75
	case has(usage.ChargeTypePeak) && has(usage.ChargeTypeOffPeak):
		det.PlanType = usage.PlanBasic
		det.Confidence = 90
	case len(found) <= 2 && has(usage.ChargeTypeDebit):
		det.PlanType = usage.PlanOne
		det.Confidence = 60
	default:
		det.PlanType = usage.PlanBasic
		det.Confidence = 30
	}
	det.Rates = bucketRates(samples, cfg)
	if det.PlanType == usage.PlanOne {
		det.Rates["flat"] = det.Rates[string(usage.BucketShoulder)]
	}
	return det
}

// bucketRates pools samples per tariff bucket and takes the mean. Buckets
// without a sample keep the configured rate so a thin window never wipes out
// known pricing.
func bucketRates(samples RateSamples, cfg usage.PlanConfig) map[string]float64 {
	pooled := map[usage.Bucket][]float64{}
	for code, values := range samples {
		bucket := usage.ClassifyChargeType(code)
		pooled[bucket] = append(pooled[bucket], values...)
	}
	rates := map[string]float64{}
	for _, bucket := range []usage.Bucket{usage.BucketPeak, usage.BucketShoulder, usage.BucketOffPeak} {
		rate := cfg.RateFor(bucket)
		if values := pooled[bucket]; len(values) > 0 {
			rate = mean(values)
		}
		rates[string(bucket)] = Round4(rate)
	}
	return rates
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func minOf(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	lowest := values[0]
	for _, v := range values[1:] {
		if v < lowest {
			lowest = v
		}
	}
	return lowest, true
}
