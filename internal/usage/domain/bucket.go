package usage

// Bucket is the semantic tariff bucket a charge-type code maps to.
type Bucket string

const (
	BucketPeak      Bucket = "peak"
	BucketOffPeak   Bucket = "off_peak"
	BucketShoulder  Bucket = "shoulder"
	BucketFree      Bucket = "free"
	BucketEVOffPeak Bucket = "ev_offpeak"
	BucketExport    Bucket = "export"
	BucketOther     Bucket = "other"
)

// Charge-type codes the provider is known to emit. DEBIT shows up on
// single-rate plans and prices like SHOULDER everywhere it matters.
const (
	ChargeTypePeak     = "PEAK"
	ChargeTypeOffPeak  = "OFF_PEAK"
	ChargeTypeShoulder = "SHOULDER"
	ChargeTypeDebit    = "DEBIT"
	ChargeTypeFree     = "FREE"
	ChargeTypeCredit   = "CREDIT"
)

// ClassifyChargeType maps a raw charge-type code to its tariff bucket. It is
// total over all string inputs; unknown codes map to BucketOther. CREDIT
// reclassifies a record as energy returned to the grid, which must happen
// before any time-of-use or cost bucketing. EV off-peak is never derived
// from the code alone; it is inferred from the record's local hour and the
// plan type by the hourly engine.
func ClassifyChargeType(chargeType string) Bucket {
	switch chargeType {
	case ChargeTypePeak:
		return BucketPeak
	case ChargeTypeOffPeak:
		return BucketOffPeak
	case ChargeTypeShoulder, ChargeTypeDebit:
		return BucketShoulder
	case ChargeTypeFree:
		return BucketFree
	case ChargeTypeCredit:
		return BucketExport
	default:
		return BucketOther
	}
}

// BucketOf classifies a record's charge. A record without a charge gets
// shoulder handling rather than an error.
func BucketOf(r Record) Bucket {
	if r.Charge == nil {
		return BucketShoulder
	}
	return ClassifyChargeType(r.Charge.Type)
}

// IsExport reports whether the record is energy returned to the grid.
func IsExport(r Record) bool {
	return r.Charge != nil && ClassifyChargeType(r.Charge.Type) == BucketExport
}
