package usage

// PlanType identifies the account's pricing plan.
type PlanType string

const (
	PlanEV    PlanType = "ev"
	PlanFree3 PlanType = "free_3"
	PlanBasic PlanType = "basic"
	PlanOne   PlanType = "one"
)

// IsValid checks if the plan type is one of the supported values.
func (p PlanType) IsValid() bool {
	switch p {
	case PlanEV, PlanFree3, PlanBasic, PlanOne:
		return true
	default:
		return false
	}
}

// PlanConfig holds the per-bucket rates in AUD/kWh. It is either user
// configuration or the plan detector's own prior output.
type PlanConfig struct {
	PlanType     PlanType `yaml:"plan_type" json:"plan_type"`
	PeakRate     float64  `yaml:"peak_rate" json:"peak_rate"`
	ShoulderRate float64  `yaml:"shoulder_rate" json:"shoulder_rate"`
	OffPeakRate  float64  `yaml:"off_peak_rate" json:"off_peak_rate"`
	EVRate       float64  `yaml:"ev_rate" json:"ev_rate"`
	FlatRate     float64  `yaml:"flat_rate" json:"flat_rate"`
}

// DefaultPlanConfig returns the fallback rates used until the detector or
// the user supplies real ones.
func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		PlanType:     PlanBasic,
		PeakRate:     0.43,
		ShoulderRate: 0.30,
		OffPeakRate:  0.22,
		EVRate:       0.08,
		FlatRate:     0.28,
	}
}

// RateFor returns the configured rate for a bucket. Export and free carry
// no purchase rate; unknown buckets get the shoulder rate.
func (c PlanConfig) RateFor(b Bucket) float64 {
	switch b {
	case BucketPeak:
		return c.PeakRate
	case BucketOffPeak:
		return c.OffPeakRate
	case BucketEVOffPeak:
		return c.EVRate
	case BucketFree, BucketExport:
		return 0
	default:
		return c.ShoulderRate
	}
}

// Merge fills zero-valued fields from defaults.
func (c PlanConfig) Merge(defaults PlanConfig) PlanConfig {
	if c.PlanType == "" {
		c.PlanType = defaults.PlanType
	}
	if c.PeakRate == 0 {
		c.PeakRate = defaults.PeakRate
	}
	if c.ShoulderRate == 0 {
		c.ShoulderRate = defaults.ShoulderRate
	}
	if c.OffPeakRate == 0 {
		c.OffPeakRate = defaults.OffPeakRate
	}
	if c.EVRate == 0 {
		c.EVRate = defaults.EVRate
	}
	if c.FlatRate == 0 {
		c.FlatRate = defaults.FlatRate
	}
	return c
}
