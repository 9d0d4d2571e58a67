package usage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyChargeType(t *testing.T) {
	cases := map[string]Bucket{
		"PEAK":     BucketPeak,
		"OFF_PEAK": BucketOffPeak,
		"SHOULDER": BucketShoulder,
		"DEBIT":    BucketShoulder,
		"FREE":     BucketFree,
		"CREDIT":   BucketExport,
		"":         BucketOther,
		"MYSTERY":  BucketOther,
		"peak":     BucketOther, // codes are case sensitive
	}
	for code, want := range cases {
		assert.Equal(t, want, ClassifyChargeType(code), "code %q", code)
	}
}

func TestDebitPricesLikeShoulder(t *testing.T) {
	assert.Equal(t, ClassifyChargeType(ChargeTypeShoulder), ClassifyChargeType(ChargeTypeDebit))
}

func TestBucketOfMissingCharge(t *testing.T) {
	rec := Record{Consumption: 1.5}
	assert.Equal(t, BucketShoulder, BucketOf(rec))
	assert.False(t, IsExport(rec))
}

func TestIsExport(t *testing.T) {
	credit := Record{Charge: &Charge{Value: -0.42, Type: ChargeTypeCredit}}
	assert.True(t, IsExport(credit))

	debit := Record{Charge: &Charge{Value: 0.42, Type: ChargeTypeDebit}}
	assert.False(t, IsExport(debit))
}

func TestPlanConfigMergeFillsZeroFields(t *testing.T) {
	cfg := PlanConfig{PlanType: PlanEV, EVRate: 0.05}.Merge(DefaultPlanConfig())
	assert.Equal(t, PlanEV, cfg.PlanType)
	assert.Equal(t, 0.05, cfg.EVRate)
	assert.Equal(t, DefaultPlanConfig().PeakRate, cfg.PeakRate)
	assert.Equal(t, DefaultPlanConfig().ShoulderRate, cfg.ShoulderRate)
}

func TestPlanConfigRateFor(t *testing.T) {
	cfg := DefaultPlanConfig()
	assert.Equal(t, cfg.PeakRate, cfg.RateFor(BucketPeak))
	assert.Equal(t, cfg.OffPeakRate, cfg.RateFor(BucketOffPeak))
	assert.Equal(t, cfg.EVRate, cfg.RateFor(BucketEVOffPeak))
	assert.Equal(t, cfg.ShoulderRate, cfg.RateFor(BucketOther))
	assert.Zero(t, cfg.RateFor(BucketFree))
	assert.Zero(t, cfg.RateFor(BucketExport))
}
