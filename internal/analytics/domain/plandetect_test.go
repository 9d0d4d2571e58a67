package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	usage "solar-insights/internal/usage/domain"
)

func TestCollectRateSamples(t *testing.T) {
	ts := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	pair := usage.SeriesPair{
		Export: []usage.Record{
			hourRec(ts, 2, 0.86, usage.ChargeTypePeak),
			hourRec(ts.Add(time.Hour), 0, 0.86, usage.ChargeTypePeak),  // no consumption, no sample
			hourRec(ts.Add(2*time.Hour), 3, 0, usage.ChargeTypeFree),   // zero charge, code only
			hourRec(ts.Add(3*time.Hour), 1, 0, ""),                     // no charge at all
		},
	}

	samples := CollectRateSamples(pair)
	require.Contains(t, samples, usage.ChargeTypePeak)
	require.Contains(t, samples, usage.ChargeTypeFree)
	assert.NotContains(t, samples, "")
	require.Len(t, samples[usage.ChargeTypePeak], 1)
	assert.InDelta(t, 0.43, samples[usage.ChargeTypePeak][0], 1e-9)
	assert.Empty(t, samples[usage.ChargeTypeFree])
}

func TestDetectPlanEV(t *testing.T) {
	samples := RateSamples{
		usage.ChargeTypeFree:    nil,
		usage.ChargeTypePeak:    {0.43},
		usage.ChargeTypeOffPeak: {0.08, 0.21},
	}

	det := DetectPlan(samples, usage.DefaultPlanConfig())
	assert.Equal(t, usage.PlanEV, det.PlanType)
	assert.Equal(t, 85, det.Confidence)
	assert.Equal(t, 0.08, det.Rates["ev_offpeak"])
	assert.Equal(t, []string{"FREE", "OFF_PEAK", "PEAK"}, det.ChargeTypesFound)
}

func TestDetectPlanFree3WithOffPeakSamples(t *testing.T) {
	samples := RateSamples{
		usage.ChargeTypeFree:    nil,
		usage.ChargeTypePeak:    {0.43},
		usage.ChargeTypeOffPeak: {0.21},
	}

	det := DetectPlan(samples, usage.DefaultPlanConfig())
	assert.Equal(t, usage.PlanFree3, det.PlanType)
	assert.Equal(t, 80, det.Confidence)
}

func TestDetectPlanFree3WithoutOffPeakSamples(t *testing.T) {
	samples := RateSamples{
		usage.ChargeTypeFree:    nil,
		usage.ChargeTypePeak:    {0.43},
		usage.ChargeTypeOffPeak: nil,
	}

	det := DetectPlan(samples, usage.DefaultPlanConfig())
	assert.Equal(t, usage.PlanFree3, det.PlanType)
	assert.Equal(t, 70, det.Confidence)
}

func TestDetectPlanFreeOnly(t *testing.T) {
	samples := RateSamples{
		usage.ChargeTypeFree:  nil,
		usage.ChargeTypeDebit: {0.30},
	}

	det := DetectPlan(samples, usage.DefaultPlanConfig())
	assert.Equal(t, usage.PlanFree3, det.PlanType)
	assert.Equal(t, 75, det.Confidence)
}

func TestDetectPlanBasicTimeOfUse(t *testing.T) {
	samples := RateSamples{
		usage.ChargeTypePeak:    {0.42, 0.44},
		usage.ChargeTypeOffPeak: {0.2},
	}

	det := DetectPlan(samples, usage.DefaultPlanConfig())
	assert.Equal(t, usage.PlanBasic, det.PlanType)
	assert.Equal(t, 90, det.Confidence)
	assert.Equal(t, 0.43, det.Rates["peak"], "mean of the peak samples")
	assert.Equal(t, 0.2, det.Rates["off_peak"])
}

func TestDetectPlanSingleRate(t *testing.T) {
	samples := RateSamples{
		usage.ChargeTypeDebit:  {0.28, 0.28},
		usage.ChargeTypeCredit: {0.05},
	}

	det := DetectPlan(samples, usage.DefaultPlanConfig())
	assert.Equal(t, usage.PlanOne, det.PlanType)
	assert.Equal(t, 60, det.Confidence)
	assert.Equal(t, 0.28, det.Rates["flat"])
}

func TestDetectPlanFallback(t *testing.T) {
	det := DetectPlan(RateSamples{"SHOULDER": {0.31}}, usage.DefaultPlanConfig())
	assert.Equal(t, usage.PlanBasic, det.PlanType)
	assert.Equal(t, 30, det.Confidence)

	det = DetectPlan(RateSamples{}, usage.DefaultPlanConfig())
	assert.Equal(t, usage.PlanBasic, det.PlanType)
	assert.Equal(t, 30, det.Confidence)
}

func TestDetectPlanUnsampledBucketsKeepConfiguredRates(t *testing.T) {
	cfg := usage.DefaultPlanConfig()
	det := DetectPlan(RateSamples{usage.ChargeTypePeak: {0.5}, usage.ChargeTypeOffPeak: {0.19}}, cfg)
	assert.Equal(t, 0.5, det.Rates["peak"])
	assert.Equal(t, 0.19, det.Rates["off_peak"])
	assert.Equal(t, Round4(cfg.ShoulderRate), det.Rates["shoulder"])
}
